package enums

import "fmt"

// RuleType classifies a user-defined reminder rule.
type RuleType string

const (
	RuleTypeExpiration RuleType = "EXPIRATION"
	RuleTypeStock      RuleType = "STOCK"
	RuleTypeWarranty   RuleType = "WARRANTY"
)

var validRuleTypes = []RuleType{
	RuleTypeExpiration,
	RuleTypeStock,
	RuleTypeWarranty,
}

// IsValid checks whether the given type matches the canonical enum.
func (r RuleType) IsValid() bool {
	for _, candidate := range validRuleTypes {
		if candidate == r {
			return true
		}
	}
	return false
}

// ParseRuleType converts raw strings into RuleType.
func ParseRuleType(value string) (RuleType, error) {
	for _, candidate := range validRuleTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid rule type %q", value)
}
