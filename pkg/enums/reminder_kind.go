package enums

// ReminderKind names the evaluator bucket a flattened reminder came from.
type ReminderKind string

const (
	ReminderKindExpired          ReminderKind = "EXPIRED"
	ReminderKindExpiring         ReminderKind = "EXPIRING"
	ReminderKindLowStock         ReminderKind = "LOW_STOCK"
	ReminderKindWarrantyExpiring ReminderKind = "WARRANTY_EXPIRING"
	ReminderKindCustomRule       ReminderKind = "CUSTOM_RULE"
)

var validReminderKinds = []ReminderKind{
	ReminderKindExpired,
	ReminderKindExpiring,
	ReminderKindLowStock,
	ReminderKindWarrantyExpiring,
	ReminderKindCustomRule,
}

// IsValid checks whether the given kind matches the canonical enum.
func (k ReminderKind) IsValid() bool {
	for _, candidate := range validReminderKinds {
		if candidate == k {
			return true
		}
	}
	return false
}
