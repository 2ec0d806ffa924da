package items

import (
	"time"

	"github.com/google/uuid"

	"github.com/homestockhq/homestock-backend/pkg/db/models"
	"github.com/homestockhq/homestock-backend/pkg/enums"
)

// CreateItemInput is the payload for minting a new identity.
type CreateItemInput struct {
	Name          string  `json:"name" validate:"required,max=200"`
	Category      string  `json:"category" validate:"required,max=100"`
	SubCategory   *string `json:"sub_category,omitempty" validate:"omitempty,max=100"`
	Brand         *string `json:"brand,omitempty" validate:"omitempty,max=100"`
	Specification *string `json:"specification,omitempty"`
	Note          *string `json:"note,omitempty"`
	Capacity      *string `json:"capacity,omitempty" validate:"omitempty,max=50"`
	Rating        *int    `json:"rating,omitempty" validate:"omitempty,min=0,max=5"`
	Season        *string `json:"season,omitempty" validate:"omitempty,max=50"`
	SerialNumber  *string `json:"serial_number,omitempty" validate:"omitempty,max=100"`
}

// UpdateItemInput carries partial identity updates. Nil fields are untouched.
type UpdateItemInput struct {
	Name          *string `json:"name,omitempty" validate:"omitempty,min=1,max=200"`
	Category      *string `json:"category,omitempty" validate:"omitempty,min=1,max=100"`
	SubCategory   *string `json:"sub_category,omitempty" validate:"omitempty,max=100"`
	Brand         *string `json:"brand,omitempty" validate:"omitempty,max=100"`
	Specification *string `json:"specification,omitempty"`
	Note          *string `json:"note,omitempty"`
	Capacity      *string `json:"capacity,omitempty" validate:"omitempty,max=50"`
	Rating        *int    `json:"rating,omitempty" validate:"omitempty,min=0,max=5"`
	Season        *string `json:"season,omitempty" validate:"omitempty,max=50"`
	SerialNumber  *string `json:"serial_number,omitempty" validate:"omitempty,max=100"`
}

// ListFilter narrows identity listings.
type ListFilter struct {
	Category string
	Search   string
}

// ItemDTO is an identity row plus its currently active states.
type ItemDTO struct {
	Item         models.Item       `json:"item"`
	ActiveStates []enums.StateType `json:"active_states"`
}

// ItemsPageDTO is one page of identities with the cursor for the next.
type ItemsPageDTO struct {
	Items  []models.Item `json:"items"`
	Cursor string        `json:"cursor"`
}

func applyUpdate(item *models.Item, input UpdateItemInput, now time.Time) {
	if input.Name != nil {
		item.Name = *input.Name
	}
	if input.Category != nil {
		item.Category = *input.Category
	}
	if input.SubCategory != nil {
		item.SubCategory = input.SubCategory
	}
	if input.Brand != nil {
		item.Brand = input.Brand
	}
	if input.Specification != nil {
		item.Specification = input.Specification
	}
	if input.Note != nil {
		item.Note = input.Note
	}
	if input.Capacity != nil {
		item.Capacity = input.Capacity
	}
	if input.Rating != nil {
		item.Rating = input.Rating
	}
	if input.Season != nil {
		item.Season = input.Season
	}
	if input.SerialNumber != nil {
		item.SerialNumber = input.SerialNumber
	}
	item.UpdatedAt = now
}

func newItem(input CreateItemInput, now time.Time) models.Item {
	return models.Item{
		ID:            uuid.New(),
		Name:          input.Name,
		Category:      input.Category,
		SubCategory:   input.SubCategory,
		Brand:         input.Brand,
		Specification: input.Specification,
		Note:          input.Note,
		Capacity:      input.Capacity,
		Rating:        input.Rating,
		Season:        input.Season,
		SerialNumber:  input.SerialNumber,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}
