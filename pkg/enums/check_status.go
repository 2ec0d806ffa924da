package enums

import "fmt"

// CheckStatus tracks the per-day reminder check state machine:
// NOT_CHECKED -> CHECKED_NO_SEND -> CHECKED_SENT, reset at the local-midnight
// boundary by comparing the stored last-check date to today.
type CheckStatus string

const (
	CheckStatusNotChecked    CheckStatus = "NOT_CHECKED"
	CheckStatusCheckedNoSend CheckStatus = "CHECKED_NO_SEND"
	CheckStatusCheckedSent   CheckStatus = "CHECKED_SENT"
)

var validCheckStatuses = []CheckStatus{
	CheckStatusNotChecked,
	CheckStatusCheckedNoSend,
	CheckStatusCheckedSent,
}

// IsValid checks whether the given status matches the canonical enum.
func (c CheckStatus) IsValid() bool {
	for _, candidate := range validCheckStatuses {
		if candidate == c {
			return true
		}
	}
	return false
}

// ParseCheckStatus converts raw strings into CheckStatus.
func ParseCheckStatus(value string) (CheckStatus, error) {
	for _, candidate := range validCheckStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid check status %q", value)
}
