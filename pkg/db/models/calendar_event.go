package models

import (
	"time"

	"github.com/google/uuid"
)

// CalendarEvent is a user-scheduled date attached to an item (service due,
// replacement date, and the like). Rendering and OS calendar integration live
// outside the core.
type CalendarEvent struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	ItemID    uuid.UUID `gorm:"column:item_id;type:uuid;not null;index:calendar_events_item_id_idx"`
	Title     string    `gorm:"column:title;type:text;not null"`
	HappensAt time.Time `gorm:"column:happens_at;not null"`
	Note      *string   `gorm:"column:note;type:text"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}
