package wishlist

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/homestockhq/homestock-backend/internal/items"
	"github.com/homestockhq/homestock-backend/pkg/db"
	"github.com/homestockhq/homestock-backend/pkg/db/models"
	pkgerrors "github.com/homestockhq/homestock-backend/pkg/errors"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// AddInput creates a wish record for an item.
type AddInput struct {
	ItemID            uuid.UUID        `json:"item_id" validate:"required"`
	TargetPrice       *decimal.Decimal `json:"target_price,omitempty"`
	TrackIntervalDays int              `json:"track_interval_days" validate:"omitempty,min=1,max=365"`
}

// ObservePriceInput records one observed price point.
type ObservePriceInput struct {
	ItemID     uuid.UUID       `json:"item_id" validate:"required"`
	Price      decimal.Decimal `json:"price" validate:"required"`
	Source     *string         `json:"source,omitempty" validate:"omitempty,max=100"`
	ObservedAt *time.Time      `json:"observed_at,omitempty"`
}

// ServiceParams groups dependencies for the wishlist service.
type ServiceParams struct {
	Repo     Repository
	ItemRepo items.Repository
	Tx       txRunner
}

// Service exposes business rules for wish tracking. Membership lives in the
// wishlist row itself, not in the state ledger.
type Service interface {
	Add(ctx context.Context, input AddInput) (*models.WishlistDetail, error)
	Get(ctx context.Context, itemID uuid.UUID) (*models.WishlistDetail, error)
	List(ctx context.Context) ([]models.WishlistDetail, error)
	Remove(ctx context.Context, itemID uuid.UUID) error
	ObservePrice(ctx context.Context, input ObservePriceInput) (*models.WishlistDetail, error)
	PriceHistory(ctx context.Context, itemID uuid.UUID) ([]models.PriceRecord, error)
}

type service struct {
	repo     Repository
	itemRepo items.Repository
	tx       txRunner
	now      func() time.Time
}

// NewService builds a wishlist service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "wishlist repository required")
	}
	if params.ItemRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "item repository required")
	}
	if params.Tx == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "transaction runner required")
	}
	return &service{repo: params.Repo, itemRepo: params.ItemRepo, tx: params.Tx, now: time.Now}, nil
}

func (s *service) Add(ctx context.Context, input AddInput) (*models.WishlistDetail, error) {
	if input.ItemID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "item id is required")
	}
	if _, err := s.itemRepo.GetByID(ctx, input.ItemID); err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "item not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading item")
	}

	interval := input.TrackIntervalDays
	if interval <= 0 {
		interval = 7
	}
	now := s.now().UTC()
	detail := models.WishlistDetail{
		ID:                uuid.New(),
		ItemID:            input.ItemID,
		TargetPrice:       input.TargetPrice,
		TrackIntervalDays: interval,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if err := s.repo.Insert(ctx, &detail); err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.Wrap(pkgerrors.CodeConflict, err, "item is already on the wishlist")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "inserting wishlist detail")
	}
	return &detail, nil
}

func (s *service) Get(ctx context.Context, itemID uuid.UUID) (*models.WishlistDetail, error) {
	if itemID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "item id is required")
	}
	detail, err := s.repo.GetByItem(ctx, itemID)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "item is not on the wishlist")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading wishlist detail")
	}
	return detail, nil
}

func (s *service) List(ctx context.Context) ([]models.WishlistDetail, error) {
	details, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "listing wishlist")
	}
	return details, nil
}

func (s *service) Remove(ctx context.Context, itemID uuid.UUID) error {
	if itemID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "item id is required")
	}
	deleted, err := s.repo.Delete(ctx, itemID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "removing wishlist detail")
	}
	if !deleted {
		return pkgerrors.New(pkgerrors.CodeNotFound, "item is not on the wishlist")
	}
	return nil
}

// ObservePrice stores the price point and folds it into the wish record's
// lowest/highest markers in one transaction.
func (s *service) ObservePrice(ctx context.Context, input ObservePriceInput) (*models.WishlistDetail, error) {
	if input.ItemID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "item id is required")
	}
	if input.Price.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price must not be negative")
	}

	var updated *models.WishlistDetail
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		detail, err := repo.GetByItem(ctx, input.ItemID)
		if err != nil {
			if db.IsNotFound(err) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "item is not on the wishlist")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading wishlist detail")
		}

		now := s.now().UTC()
		observedAt := now
		if input.ObservedAt != nil {
			observedAt = input.ObservedAt.UTC()
		}
		record := models.PriceRecord{
			ID:         uuid.New(),
			ItemID:     input.ItemID,
			Price:      input.Price,
			Source:     input.Source,
			ObservedAt: observedAt,
			CreatedAt:  now,
		}
		if err := repo.InsertPriceRecord(ctx, &record); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "inserting price record")
		}

		if detail.LowestPrice == nil || input.Price.LessThan(*detail.LowestPrice) {
			price := input.Price
			detail.LowestPrice = &price
		}
		if detail.HighestPrice == nil || input.Price.GreaterThan(*detail.HighestPrice) {
			price := input.Price
			detail.HighestPrice = &price
		}
		detail.UpdatedAt = now
		if err := repo.Update(ctx, detail); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "updating wishlist detail")
		}
		updated = detail
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *service) PriceHistory(ctx context.Context, itemID uuid.UUID) ([]models.PriceRecord, error) {
	if itemID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "item id is required")
	}
	records, err := s.repo.PriceHistory(ctx, itemID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "listing price history")
	}
	return records, nil
}
