package models

import (
	"time"

	"github.com/google/uuid"
)

// Photo references an on-device image for an item. File storage itself is an
// external boundary; only the path is persisted.
type Photo struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	ItemID    uuid.UUID `gorm:"column:item_id;type:uuid;not null;index:photos_item_id_idx"`
	Path      string    `gorm:"column:path;type:text;not null"`
	IsPrimary bool      `gorm:"column:is_primary;not null;default:false"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}
