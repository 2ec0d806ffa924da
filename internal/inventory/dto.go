package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/homestockhq/homestock-backend/pkg/db/models"
)

// AddDetailInput creates a new stock instance for an existing item.
type AddDetailInput struct {
	ItemID          uuid.UUID        `json:"item_id" validate:"required"`
	Quantity        decimal.Decimal  `json:"quantity" validate:"required"`
	Unit            *string          `json:"unit,omitempty" validate:"omitempty,max=30"`
	Location        *string          `json:"location,omitempty" validate:"omitempty,max=100"`
	ExpirationDate  *time.Time       `json:"expiration_date,omitempty"`
	PurchaseDate    *time.Time       `json:"purchase_date,omitempty"`
	Price           *decimal.Decimal `json:"price,omitempty"`
	WarrantyEndDate *time.Time       `json:"warranty_end_date,omitempty"`
	ShelfLifeDays   *int             `json:"shelf_life_days,omitempty" validate:"omitempty,min=0"`
}

// UpdateDetailInput carries partial updates to a stock instance.
type UpdateDetailInput struct {
	Quantity        *decimal.Decimal `json:"quantity,omitempty"`
	Unit            *string          `json:"unit,omitempty" validate:"omitempty,max=30"`
	Location        *string          `json:"location,omitempty" validate:"omitempty,max=100"`
	ExpirationDate  *time.Time       `json:"expiration_date,omitempty"`
	Price           *decimal.Decimal `json:"price,omitempty"`
	WarrantyEndDate *time.Time       `json:"warranty_end_date,omitempty"`
	OpenedAt        *time.Time       `json:"opened_at,omitempty"`
	ShelfLifeDays   *int             `json:"shelf_life_days,omitempty" validate:"omitempty,min=0"`
}

// DetailDTO pairs a stock instance with its identity row.
type DetailDTO struct {
	Detail models.InventoryDetail `json:"detail"`
	Item   models.Item            `json:"item"`
}

func newDetail(input AddDetailInput, now time.Time) models.InventoryDetail {
	return models.InventoryDetail{
		ID:              uuid.New(),
		ItemID:          input.ItemID,
		Quantity:        input.Quantity,
		Unit:            input.Unit,
		Location:        input.Location,
		ExpirationDate:  input.ExpirationDate,
		PurchaseDate:    input.PurchaseDate,
		Price:           input.Price,
		WarrantyEndDate: input.WarrantyEndDate,
		ShelfLifeDays:   input.ShelfLifeDays,
		IsActive:        true,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

func applyDetailUpdate(detail *models.InventoryDetail, input UpdateDetailInput, now time.Time) {
	if input.Quantity != nil {
		detail.Quantity = *input.Quantity
	}
	if input.Unit != nil {
		detail.Unit = input.Unit
	}
	if input.Location != nil {
		detail.Location = input.Location
	}
	if input.ExpirationDate != nil {
		detail.ExpirationDate = input.ExpirationDate
	}
	if input.Price != nil {
		detail.Price = input.Price
	}
	if input.WarrantyEndDate != nil {
		detail.WarrantyEndDate = input.WarrantyEndDate
	}
	if input.OpenedAt != nil {
		detail.OpenedAt = input.OpenedAt
	}
	if input.ShelfLifeDays != nil {
		detail.ShelfLifeDays = input.ShelfLifeDays
	}
	detail.UpdatedAt = now
}
