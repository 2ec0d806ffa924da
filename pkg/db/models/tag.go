package models

import (
	"time"

	"github.com/google/uuid"
)

// Tag is a free-form label attached to an item.
type Tag struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	ItemID    uuid.UUID `gorm:"column:item_id;type:uuid;not null;index:tags_item_id_idx"`
	Name      string    `gorm:"column:name;type:text;not null"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}
