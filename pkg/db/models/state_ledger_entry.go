package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/homestockhq/homestock-backend/pkg/enums"
)

// StateLedgerEntry is one append-only record of a role being active (or
// having been deactivated) for an item. At most one entry per
// (item_id, state_type, context_id) may be active at a time; reactivation
// inserts a new row instead of mutating the old one.
type StateLedgerEntry struct {
	ID            uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	ItemID        uuid.UUID       `gorm:"column:item_id;type:uuid;not null;index:state_ledger_item_idx"`
	StateType     enums.StateType `gorm:"column:state_type;type:text;not null;index:state_ledger_item_idx"`
	IsActive      bool            `gorm:"column:is_active;not null;default:true;index:state_ledger_active_idx"`
	ActivatedAt   time.Time       `gorm:"column:activated_at;not null"`
	DeactivatedAt *time.Time      `gorm:"column:deactivated_at"`
	ContextID     *uuid.UUID      `gorm:"column:context_id;type:uuid"`
	Metadata      *string         `gorm:"column:metadata;type:text"`
	Notes         *string         `gorm:"column:notes;type:text"`
}
