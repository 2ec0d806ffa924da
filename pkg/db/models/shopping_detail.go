package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ShoppingDetail records an item's membership on a shopping list. Rows are
// retained forever after purchase as provenance: PurchasedAt set plus the
// deactivated SHOPPING ledger entry answer "where did this item come from".
type ShoppingDetail struct {
	ID             uuid.UUID        `gorm:"column:id;type:uuid;primaryKey"`
	ItemID         uuid.UUID        `gorm:"column:item_id;type:uuid;not null;index:shopping_details_item_id_idx"`
	ShoppingListID uuid.UUID        `gorm:"column:shopping_list_id;type:uuid;not null;index:shopping_details_list_id_idx"`
	Quantity       decimal.Decimal  `gorm:"column:quantity;type:numeric;not null"`
	BudgetPrice    *decimal.Decimal `gorm:"column:budget_price;type:numeric"`
	PurchasedAt    *time.Time       `gorm:"column:purchased_at"`
	CreatedAt      time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}

// ShoppingList groups shopping details under a named list.
type ShoppingList struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	Name      string    `gorm:"column:name;type:text;not null"`
	Note      *string   `gorm:"column:note;type:text"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}
