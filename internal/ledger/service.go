package ledger

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/homestockhq/homestock-backend/pkg/db"
	"github.com/homestockhq/homestock-backend/pkg/db/models"
	"github.com/homestockhq/homestock-backend/pkg/enums"
	pkgerrors "github.com/homestockhq/homestock-backend/pkg/errors"
	"github.com/homestockhq/homestock-backend/pkg/pagination"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service implements the state ledger contract: at most one active entry per
// (item, state, context) tuple, append-only history, atomic transitions.
type Service interface {
	Activate(ctx context.Context, itemID uuid.UUID, state enums.StateType, contextID *uuid.UUID) (uuid.UUID, error)
	Deactivate(ctx context.Context, entryID uuid.UUID, reason *string) error
	Transition(ctx context.Context, itemID uuid.UUID, from, to enums.StateType, contextID *uuid.UUID) error
	ActiveStates(ctx context.Context, itemID uuid.UUID) ([]enums.StateType, error)
	HistoryFor(ctx context.Context, itemID uuid.UUID, params pagination.Params) (*HistoryPage, error)
}

// HistoryPage wraps one page of ledger history plus the cursor for the next.
type HistoryPage struct {
	Entries []models.StateLedgerEntry `json:"entries"`
	Cursor  string                    `json:"cursor"`
}

type service struct {
	repo Repository
	tx   txRunner
	now  func() time.Time
}

// NewService wires a ledger service with the provided repository and
// transaction runner.
func NewService(repo Repository, tx txRunner) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "ledger repository required")
	}
	if tx == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "transaction runner required")
	}
	return &service{repo: repo, tx: tx, now: time.Now}, nil
}

func (s *service) Activate(ctx context.Context, itemID uuid.UUID, state enums.StateType, contextID *uuid.UUID) (uuid.UUID, error) {
	if itemID == uuid.Nil {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeValidation, "item id is required")
	}
	if !state.IsValid() {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid state type")
	}

	var entryID uuid.UUID
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		id, err := s.activateLocked(ctx, s.repo.WithTx(tx), itemID, state, contextID)
		if err != nil {
			return err
		}
		entryID = id
		return nil
	})
	if err != nil {
		return uuid.Nil, err
	}
	return entryID, nil
}

// activateLocked inserts a new active entry inside the caller's transaction.
func (s *service) activateLocked(ctx context.Context, repo Repository, itemID uuid.UUID, state enums.StateType, contextID *uuid.UUID) (uuid.UUID, error) {
	existing, err := repo.FindActive(ctx, itemID, state, contextID)
	if err != nil && !db.IsNotFound(err) {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "checking active ledger entry")
	}
	if existing != nil {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeConflict, "an active ledger entry already exists for this item and state").
			WithDetails(map[string]any{"item_id": itemID, "state_type": state})
	}

	entry := models.StateLedgerEntry{
		ID:          uuid.New(),
		ItemID:      itemID,
		StateType:   state,
		IsActive:    true,
		ActivatedAt: s.now().UTC(),
		ContextID:   contextID,
	}
	if err := repo.Insert(ctx, &entry); err != nil {
		if db.IsUniqueViolation(err, "") {
			return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeConflict, err, "an active ledger entry already exists for this item and state")
		}
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "inserting ledger entry")
	}
	return entry.ID, nil
}

func (s *service) Deactivate(ctx context.Context, entryID uuid.UUID, reason *string) error {
	if entryID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "entry id is required")
	}
	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if _, err := repo.GetByID(ctx, entryID); err != nil {
			if db.IsNotFound(err) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "ledger entry not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading ledger entry")
		}
		// Already-inactive entries are a no-op by contract.
		if _, err := repo.Deactivate(ctx, entryID, s.now().UTC(), reason); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "deactivating ledger entry")
		}
		return nil
	})
}

// Transition atomically closes the from-state entry and opens a to-state one.
// A failed destination activation rolls back the source deactivation.
func (s *service) Transition(ctx context.Context, itemID uuid.UUID, from, to enums.StateType, contextID *uuid.UUID) error {
	if itemID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "item id is required")
	}
	if !from.IsValid() || !to.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid state type")
	}
	if from == to {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "transition source and destination are the same state")
	}

	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		source, err := repo.FindActive(ctx, itemID, from, contextID)
		if err != nil {
			if db.IsNotFound(err) {
				return pkgerrors.New(pkgerrors.CodeStateConflict, "item has no active entry in the source state").
					WithDetails(map[string]any{"item_id": itemID, "state_type": from})
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading source ledger entry")
		}

		if _, err := repo.Deactivate(ctx, source.ID, s.now().UTC(), nil); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "deactivating source ledger entry")
		}

		// The destination never inherits the source context: a SHOPPING entry
		// is scoped to its list, the INVENTORY entry that replaces it is not.
		if _, err := s.activateLocked(ctx, repo, itemID, to, nil); err != nil {
			return err
		}
		return nil
	})
}

func (s *service) ActiveStates(ctx context.Context, itemID uuid.UUID) ([]enums.StateType, error) {
	if itemID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "item id is required")
	}
	states, err := s.repo.ActiveStates(ctx, itemID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "listing active states")
	}
	return states, nil
}

func (s *service) HistoryFor(ctx context.Context, itemID uuid.UUID, params pagination.Params) (*HistoryPage, error) {
	if itemID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "item id is required")
	}
	entries, next, err := s.repo.HistoryFor(ctx, itemID, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "listing ledger history")
	}
	page := &HistoryPage{Entries: entries}
	if next != nil {
		page.Cursor = pagination.EncodeCursor(*next)
	}
	return page, nil
}
