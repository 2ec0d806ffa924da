package enums

// StockSeverity grades a low-stock finding. Urgent means the quantity has
// reached zero; important means it is below the category threshold.
type StockSeverity string

const (
	StockSeverityUrgent    StockSeverity = "URGENT"
	StockSeverityImportant StockSeverity = "IMPORTANT"
)

// IsValid checks whether the given severity matches the canonical enum.
func (s StockSeverity) IsValid() bool {
	return s == StockSeverityUrgent || s == StockSeverityImportant
}
