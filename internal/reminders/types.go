package reminders

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/homestockhq/homestock-backend/internal/rules"
	"github.com/homestockhq/homestock-backend/pkg/enums"
)

// Reminder is one flattened finding, ready for ordering and delivery.
// DaysUntil is nil for findings without a date dimension (low stock).
type Reminder struct {
	Kind      enums.ReminderKind     `json:"kind"`
	Priority  enums.ReminderPriority `json:"priority"`
	ItemID    uuid.UUID              `json:"item_id"`
	ItemName  string                 `json:"item_name"`
	DaysUntil *int                   `json:"days_until,omitempty"`
	Quantity  *decimal.Decimal       `json:"quantity,omitempty"`
	RuleID    *uuid.UUID             `json:"rule_id,omitempty"`
	Reason    string                 `json:"reason,omitempty"`
}

// Summary is the machine-readable package handed to the notification
// boundary. The core formats no user-facing strings; custom-rule reason
// strings pass through as data.
type Summary struct {
	GeneratedAt time.Time                 `json:"generated_at"`
	Reminders   []Reminder                `json:"reminders"`
	UrgentCount int                       `json:"urgent_count"`
	Channel     enums.NotificationChannel `json:"channel"`
	Buckets     rules.Result              `json:"buckets"`
}

// Notifier is the outbound delivery boundary. Implementations own channel
// creation, formatting and platform quirks.
type Notifier interface {
	Deliver(ctx context.Context, summary Summary) error
}
