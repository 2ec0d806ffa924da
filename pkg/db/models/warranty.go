package models

import (
	"time"

	"github.com/google/uuid"
)

// Warranty is a coverage record attached to an item. The warranty-expiring
// bucket reads this table directly, independent of any warranty_end_date on
// the item's inventory details.
type Warranty struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	ItemID    uuid.UUID `gorm:"column:item_id;type:uuid;not null;index:warranties_item_id_idx"`
	Provider  *string   `gorm:"column:provider;type:text"`
	Contact   *string   `gorm:"column:contact;type:text"`
	StartsAt  time.Time `gorm:"column:starts_at;not null"`
	EndsAt    time.Time `gorm:"column:ends_at;not null;index:warranties_ends_at_idx"`
	Note      *string   `gorm:"column:note;type:text"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}
