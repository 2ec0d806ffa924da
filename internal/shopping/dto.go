package shopping

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/homestockhq/homestock-backend/pkg/db/models"
)

// CreateListInput names a new shopping list.
type CreateListInput struct {
	Name string  `json:"name" validate:"required,max=100"`
	Note *string `json:"note,omitempty"`
}

// AddDetailInput puts an item on a shopping list.
type AddDetailInput struct {
	ItemID         uuid.UUID        `json:"item_id" validate:"required"`
	ShoppingListID uuid.UUID        `json:"shopping_list_id" validate:"required"`
	Quantity       decimal.Decimal  `json:"quantity" validate:"required"`
	BudgetPrice    *decimal.Decimal `json:"budget_price,omitempty"`
}

// PurchaseInput completes a shopping detail into owned stock. The optional
// fields seed the InventoryDetail created by the transition.
type PurchaseInput struct {
	Price           *decimal.Decimal `json:"price,omitempty"`
	Unit            *string          `json:"unit,omitempty" validate:"omitempty,max=30"`
	Location        *string          `json:"location,omitempty" validate:"omitempty,max=100"`
	ExpirationDate  *time.Time       `json:"expiration_date,omitempty"`
	WarrantyEndDate *time.Time       `json:"warranty_end_date,omitempty"`
}

// ListDTO is a shopping list with its open and purchased details.
type ListDTO struct {
	List    models.ShoppingList     `json:"list"`
	Details []models.ShoppingDetail `json:"details"`
}
