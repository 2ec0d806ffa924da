package rules

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/homestockhq/homestock-backend/pkg/db/models"
	"github.com/homestockhq/homestock-backend/pkg/enums"
)

// StockItem is one active inventory detail joined with its identity row.
type StockItem struct {
	Item   models.Item
	Detail models.InventoryDetail
}

// Snapshot is everything the evaluator reads, loaded in one pass so a single
// evaluation sees a consistent view of the store.
type Snapshot struct {
	Inventory  []StockItem
	Warranties []WarrantyItem
	Thresholds []models.CategoryThreshold
	Rules      []models.CustomRule
	Settings   models.ReminderSettings
}

// WarrantyItem is a coverage record joined with its item name.
type WarrantyItem struct {
	Warranty models.Warranty
	ItemName string
}

// ExpiredItem is an inventory detail whose relevant date is already past.
type ExpiredItem struct {
	ItemID      uuid.UUID       `json:"item_id"`
	DetailID    uuid.UUID       `json:"detail_id"`
	ItemName    string          `json:"item_name"`
	Category    string          `json:"category"`
	ExpiredAt   time.Time       `json:"expired_at"`
	DaysOverdue int             `json:"days_overdue"`
	Quantity    decimal.Decimal `json:"quantity"`
}

// ExpiringItem is an inventory detail inside the advance-warning window.
type ExpiringItem struct {
	ItemID    uuid.UUID       `json:"item_id"`
	DetailID  uuid.UUID       `json:"detail_id"`
	ItemName  string          `json:"item_name"`
	Category  string          `json:"category"`
	ExpiresAt time.Time       `json:"expires_at"`
	DaysLeft  int             `json:"days_left"`
	Quantity  decimal.Decimal `json:"quantity"`
}

// LowStockItem is an item whose summed active quantity sits below its
// category threshold.
type LowStockItem struct {
	ItemID      uuid.UUID           `json:"item_id"`
	ItemName    string              `json:"item_name"`
	Category    string              `json:"category"`
	Quantity    decimal.Decimal     `json:"quantity"`
	MinQuantity decimal.Decimal     `json:"min_quantity"`
	Unit        *string             `json:"unit,omitempty"`
	Severity    enums.StockSeverity `json:"severity"`
}

// WarrantyAlert is a coverage record nearing its end date.
type WarrantyAlert struct {
	WarrantyID uuid.UUID `json:"warranty_id"`
	ItemID     uuid.UUID `json:"item_id"`
	ItemName   string    `json:"item_name"`
	Provider   *string   `json:"provider,omitempty"`
	Contact    *string   `json:"contact,omitempty"`
	EndsAt     time.Time `json:"ends_at"`
	DaysLeft   int       `json:"days_left"`
}

// CustomMatch is one item caught by one enabled custom rule. Value carries
// the rule-type-specific number: days to the event, or the quantity.
type CustomMatch struct {
	RuleID   uuid.UUID       `json:"rule_id"`
	RuleName string          `json:"rule_name"`
	RuleType enums.RuleType  `json:"rule_type"`
	ItemID   uuid.UUID       `json:"item_id"`
	ItemName string          `json:"item_name"`
	Reason   string          `json:"reason"`
	Value    decimal.Decimal `json:"value"`
}

// Result groups the evaluator's findings. An inventory detail nearing both
// its expiration and its warranty end shows up in two buckets; that double
// count is kept on purpose.
type Result struct {
	Expired          []ExpiredItem   `json:"expired"`
	Expiring         []ExpiringItem  `json:"expiring"`
	LowStock         []LowStockItem  `json:"low_stock"`
	WarrantyExpiring []WarrantyAlert `json:"warranty_expiring"`
	CustomMatches    []CustomMatch   `json:"custom_matches"`
}

// IsEmpty reports whether no bucket holds a finding.
func (r Result) IsEmpty() bool {
	return len(r.Expired) == 0 && len(r.Expiring) == 0 && len(r.LowStock) == 0 &&
		len(r.WarrantyExpiring) == 0 && len(r.CustomMatches) == 0
}

// UrgentCount tallies findings that warrant immediate attention.
func (r Result) UrgentCount() int {
	count := len(r.Expired)
	for _, item := range r.LowStock {
		if item.Severity == enums.StockSeverityUrgent {
			count++
		}
	}
	return count
}
