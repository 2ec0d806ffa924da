package items

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/homestockhq/homestock-backend/internal/ledger"
	"github.com/homestockhq/homestock-backend/pkg/db"
	"github.com/homestockhq/homestock-backend/pkg/db/models"
	"github.com/homestockhq/homestock-backend/pkg/enums"
	pkgerrors "github.com/homestockhq/homestock-backend/pkg/errors"
	"github.com/homestockhq/homestock-backend/pkg/pagination"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// ServiceParams groups dependencies for the identity service.
type ServiceParams struct {
	Repo       Repository
	LedgerRepo ledger.Repository
	Tx         txRunner
}

// Service exposes business rules for item identities. Identities are never
// physically deleted; Remove records a DELETED ledger entry instead.
type Service interface {
	Create(ctx context.Context, input CreateItemInput) (*models.Item, error)
	Get(ctx context.Context, id uuid.UUID) (*ItemDTO, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateItemInput) (*models.Item, error)
	List(ctx context.Context, filter ListFilter, params pagination.Params) (*ItemsPageDTO, error)
	Remove(ctx context.Context, id uuid.UUID, reason *string) error
}

type service struct {
	repo       Repository
	ledgerRepo ledger.Repository
	tx         txRunner
	now        func() time.Time
}

// NewService builds an identity service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
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
		ledgerRepo: params.LedgerRepo,
		tx:         params.Tx,
		now:        time.Now,
	}, nil
}

func (s *service) Create(ctx context.Context, input CreateItemInput) (*models.Item, error) {
	item := newItem(input, s.now().UTC())
	if err := s.repo.Insert(ctx, &item); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "inserting item")
	}
	return &item, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*ItemDTO, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "item id is required")
	}
	item, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "item not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading item")
	}
	states, err := s.ledgerRepo.ActiveStates(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "listing active states")
	}
	return &ItemDTO{Item: *item, ActiveStates: states}, nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateItemInput) (*models.Item, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "item id is required")
	}
	var updated *models.Item
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		item, err := repo.GetByID(ctx, id)
		if err != nil {
			if db.IsNotFound(err) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "item not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading item")
		}
		applyUpdate(item, input, s.now().UTC())
		if err := repo.Update(ctx, item); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "updating item")
		}
		updated = item
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *service) List(ctx context.Context, filter ListFilter, params pagination.Params) (*ItemsPageDTO, error) {
	list, next, err := s.repo.List(ctx, filter, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "listing items")
	}
	page := &ItemsPageDTO{Items: list}
	if next != nil {
		page.Cursor = pagination.EncodeCursor(*next)
	}
	return page, nil
}

// Remove closes every active ledger entry for the item and opens a DELETED
// one. The identity row and its detail rows stay behind as history.
func (s *service) Remove(ctx context.Context, id uuid.UUID, reason *string) error {
	if id == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "item id is required")
	}
	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		ledgerRepo := s.ledgerRepo.WithTx(tx)
		now := s.now().UTC()

		if _, err := repo.GetByID(ctx, id); err != nil {
			if db.IsNotFound(err) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "item not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading item")
		}

		existing, err := ledgerRepo.FindActive(ctx, id, enums.StateTypeDeleted, nil)
		if err != nil && !db.IsNotFound(err) {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "checking deleted state")
		}
		if existing != nil {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "item is already removed")
		}

		history, _, err := ledgerRepo.HistoryFor(ctx, id, pagination.Params{Limit: pagination.MaxLimit})
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading ledger history")
		}
		for _, entry := range history {
			if !entry.IsActive {
				continue
			}
			if _, err := ledgerRepo.Deactivate(ctx, entry.ID, now, reason); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "closing active entry")
			}
		}

		deleted := models.StateLedgerEntry{
			ID:          uuid.New(),
			ItemID:      id,
			StateType:   enums.StateTypeDeleted,
			IsActive:    true,
			ActivatedAt: now,
			Notes:       reason,
		}
		if err := ledgerRepo.Insert(ctx, &deleted); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "recording deleted state")
		}
		return nil
	})
}
