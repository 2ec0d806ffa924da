package enums

import "fmt"

// StateType identifies a role an item occupies in the state ledger. Wishlist
// membership is deliberately absent: it is tracked by the existence of a
// WishlistDetail row, not by a ledger entry.
type StateType string

const (
	StateTypeShopping  StateType = "SHOPPING"
	StateTypeInventory StateType = "INVENTORY"
	StateTypeDeleted   StateType = "DELETED"
)

var validStateTypes = []StateType{
	StateTypeShopping,
	StateTypeInventory,
	StateTypeDeleted,
}

// IsValid checks whether the given type matches the canonical enum.
func (s StateType) IsValid() bool {
	for _, candidate := range validStateTypes {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseStateType converts raw strings into StateType.
func ParseStateType(value string) (StateType, error) {
	for _, candidate := range validStateTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid state type %q", value)
}
