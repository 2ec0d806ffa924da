package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/homestockhq/homestock-backend/internal/items"
	"github.com/homestockhq/homestock-backend/internal/ledger"
	"github.com/homestockhq/homestock-backend/pkg/db"
	"github.com/homestockhq/homestock-backend/pkg/db/models"
	"github.com/homestockhq/homestock-backend/pkg/enums"
	pkgerrors "github.com/homestockhq/homestock-backend/pkg/errors"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// ServiceParams groups dependencies for the inventory service.
type ServiceParams struct {
	Repo       Repository
	ItemRepo   items.Repository
	LedgerRepo ledger.Repository
	Tx         txRunner
}

// Service exposes business rules for owned stock. Adding the first detail for
// an item opens its INVENTORY ledger entry; depleting the last one closes it.
type Service interface {
	AddDetail(ctx context.Context, input AddDetailInput) (*models.InventoryDetail, error)
	GetDetail(ctx context.Context, id uuid.UUID) (*models.InventoryDetail, error)
	UpdateDetail(ctx context.Context, id uuid.UUID, input UpdateDetailInput) (*models.InventoryDetail, error)
	ListByItem(ctx context.Context, itemID uuid.UUID, activeOnly bool) ([]models.InventoryDetail, error)
	DepleteDetail(ctx context.Context, id uuid.UUID, reason *string) error
}

type service struct {
	repo       Repository
	itemRepo   items.Repository
	ledgerRepo ledger.Repository
	tx         txRunner
	now        func() time.Time
}

// NewService builds an inventory service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "inventory repository required")
	}
	if params.ItemRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "item repository required")
	}
	if params.LedgerRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "ledger repository required")
	}
	if params.Tx == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "transaction runner required")
	}
	return &service{
		repo:       params.Repo,
		itemRepo:   params.ItemRepo,
		ledgerRepo: params.LedgerRepo,
		tx:         params.Tx,
		now:        time.Now,
	}, nil
}

// AddDetail inserts a stock instance and makes sure an active INVENTORY
// ledger entry exists, all in one transaction.
func (s *service) AddDetail(ctx context.Context, input AddDetailInput) (*models.InventoryDetail, error) {
	if input.ItemID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "item id is required")
	}
	if input.Quantity.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must not be negative")
	}

	var created *models.InventoryDetail
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		itemRepo := s.itemRepo.WithTx(tx)
		if _, err := itemRepo.GetByID(ctx, input.ItemID); err != nil {
			if db.IsNotFound(err) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "item not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading item")
		}

		now := s.now().UTC()
		detail := newDetail(input, now)
		if err := s.repo.WithTx(tx).Insert(ctx, &detail); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "inserting inventory detail")
		}

		if err := s.ensureActiveEntry(ctx, s.ledgerRepo.WithTx(tx), input.ItemID, now); err != nil {
			return err
		}
		created = &detail
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (s *service) ensureActiveEntry(ctx context.Context, ledgerRepo ledger.Repository, itemID uuid.UUID, now time.Time) error {
	_, err := ledgerRepo.FindActive(ctx, itemID, enums.StateTypeInventory, nil)
	if err == nil {
		return nil
	}
	if !db.IsNotFound(err) {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "checking inventory state")
	}
	entry := models.StateLedgerEntry{
		ID:          uuid.New(),
		ItemID:      itemID,
		StateType:   enums.StateTypeInventory,
		IsActive:    true,
		ActivatedAt: now,
	}
	if err := ledgerRepo.Insert(ctx, &entry); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "opening inventory state")
	}
	return nil
}

func (s *service) GetDetail(ctx context.Context, id uuid.UUID) (*models.InventoryDetail, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "detail id is required")
	}
	detail, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "inventory detail not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading inventory detail")
	}
	return detail, nil
}

func (s *service) UpdateDetail(ctx context.Context, id uuid.UUID, input UpdateDetailInput) (*models.InventoryDetail, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "detail id is required")
	}
	if input.Quantity != nil && input.Quantity.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must not be negative")
	}

	var updated *models.InventoryDetail
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		detail, err := repo.GetByID(ctx, id)
		if err != nil {
			if db.IsNotFound(err) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "inventory detail not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading inventory detail")
		}
		applyDetailUpdate(detail, input, s.now().UTC())
		if err := repo.Update(ctx, detail); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "updating inventory detail")
		}
		updated = detail
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *service) ListByItem(ctx context.Context, itemID uuid.UUID, activeOnly bool) ([]models.InventoryDetail, error) {
	if itemID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "item id is required")
	}
	details, err := s.repo.ListByItem(ctx, itemID, activeOnly)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "listing inventory details")
	}
	return details, nil
}

// DepleteDetail closes a stock instance. When it was the item's last active
// one, the INVENTORY ledger entry is closed in the same transaction.
func (s *service) DepleteDetail(ctx context.Context, id uuid.UUID, reason *string) error {
	if id == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "detail id is required")
	}
	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		detail, err := repo.GetByID(ctx, id)
		if err != nil {
			if db.IsNotFound(err) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "inventory detail not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading inventory detail")
		}
		changed, err := repo.Deactivate(ctx, id)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "closing inventory detail")
		}
		if !changed {
			return nil
		}

		remaining, err := repo.CountActiveByItem(ctx, detail.ItemID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "counting active details")
		}
		if remaining > 0 {
			return nil
		}

		ledgerRepo := s.ledgerRepo.WithTx(tx)
		entry, err := ledgerRepo.FindActive(ctx, detail.ItemID, enums.StateTypeInventory, nil)
		if err != nil {
			if db.IsNotFound(err) {
				return nil
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading inventory state")
		}
		if _, err := ledgerRepo.Deactivate(ctx, entry.ID, s.now().UTC(), reason); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "closing inventory state")
		}
		return nil
	})
}
