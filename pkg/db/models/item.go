package models

import (
	"time"

	"github.com/google/uuid"
)

// Item is the role-agnostic identity record. Exactly one row exists per
// logical item no matter how many roles it occupies; role detail rows and
// ledger entries reference it without owning it. Rows are never physically
// deleted while referenced; removal is a DELETED ledger entry.
type Item struct {
	ID            uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	Name          string    `gorm:"column:name;type:text;not null;index:items_name_idx"`
	Category      string    `gorm:"column:category;type:text;not null;index:items_category_idx"`
	SubCategory   *string   `gorm:"column:sub_category;type:text"`
	Brand         *string   `gorm:"column:brand;type:text"`
	Specification *string   `gorm:"column:specification;type:text"`
	Note          *string   `gorm:"column:note;type:text"`
	Capacity      *string   `gorm:"column:capacity;type:text"`
	Rating        *int      `gorm:"column:rating"`
	Season        *string   `gorm:"column:season;type:text"`
	SerialNumber  *string   `gorm:"column:serial_number;type:text"`
	CreatedAt     time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
