package models

import (
	"time"

	"github.com/google/uuid"
)

// BorrowRecord tracks an item lent out to someone. Exposed through the export
// snapshots; the migrator rewrites its item references.
type BorrowRecord struct {
	ID         uuid.UUID  `gorm:"column:id;type:uuid;primaryKey"`
	ItemID     uuid.UUID  `gorm:"column:item_id;type:uuid;not null;index:borrow_records_item_id_idx"`
	Borrower   string     `gorm:"column:borrower;type:text;not null"`
	LentAt     time.Time  `gorm:"column:lent_at;not null"`
	DueAt      *time.Time `gorm:"column:due_at"`
	ReturnedAt *time.Time `gorm:"column:returned_at"`
	Note       *string    `gorm:"column:note;type:text"`
	CreatedAt  time.Time  `gorm:"column:created_at;autoCreateTime"`
}
