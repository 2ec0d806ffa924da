package ledger

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/homestockhq/homestock-backend/pkg/db/models"
	"github.com/homestockhq/homestock-backend/pkg/enums"
	pkgerrors "github.com/homestockhq/homestock-backend/pkg/errors"
	"github.com/homestockhq/homestock-backend/pkg/pagination"
)

type stubTxRunner struct {
	err error
}

func (s *stubTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	if s.err != nil {
		return s.err
	}
	return fn(nil)
}

type stubRepo struct {
	entries map[uuid.UUID]*models.StateLedgerEntry

	insertErr     error
	findActiveErr error

	inserted    []models.StateLedgerEntry
	deactivated []uuid.UUID
}

func newStubRepo() *stubRepo {
	return &stubRepo{entries: map[uuid.UUID]*models.StateLedgerEntry{}}
}

func (s *stubRepo) WithTx(tx *gorm.DB) Repository { return s }

func (s *stubRepo) Insert(ctx context.Context, entry *models.StateLedgerEntry) error {
	if s.insertErr != nil {
		return s.insertErr
	}
	copied := *entry
	s.entries[entry.ID] = &copied
	s.inserted = append(s.inserted, copied)
	return nil
}

func (s *stubRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.StateLedgerEntry, error) {
	entry, ok := s.entries[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return entry, nil
}

func (s *stubRepo) FindActive(ctx context.Context, itemID uuid.UUID, state enums.StateType, contextID *uuid.UUID) (*models.StateLedgerEntry, error) {
	if s.findActiveErr != nil {
		return nil, s.findActiveErr
	}
	for _, entry := range s.entries {
		if entry.ItemID != itemID || entry.StateType != state || !entry.IsActive {
			continue
		}
		if (entry.ContextID == nil) != (contextID == nil) {
			continue
		}
		if contextID != nil && *entry.ContextID != *contextID {
			continue
		}
		return entry, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubRepo) Deactivate(ctx context.Context, id uuid.UUID, now time.Time, reason *string) (bool, error) {
	entry, ok := s.entries[id]
	if !ok || !entry.IsActive {
		return false, nil
	}
	entry.IsActive = false
	entry.DeactivatedAt = &now
	if reason != nil {
		entry.Notes = reason
	}
	s.deactivated = append(s.deactivated, id)
	return true, nil
}

func (s *stubRepo) ActiveStates(ctx context.Context, itemID uuid.UUID) ([]enums.StateType, error) {
	seen := map[enums.StateType]bool{}
	var states []enums.StateType
	for _, entry := range s.entries {
		if entry.ItemID == itemID && entry.IsActive && !seen[entry.StateType] {
			seen[entry.StateType] = true
			states = append(states, entry.StateType)
		}
	}
	return states, nil
}

func (s *stubRepo) HistoryFor(ctx context.Context, itemID uuid.UUID, params pagination.Params) ([]models.StateLedgerEntry, *pagination.Cursor, error) {
	var out []models.StateLedgerEntry
	for _, entry := range s.entries {
		if entry.ItemID == itemID {
			out = append(out, *entry)
		}
	}
	return out, nil, nil
}

func newTestService(t *testing.T, repo *stubRepo) Service {
	t.Helper()
	svc, err := NewService(repo, &stubTxRunner{})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc
}

func TestNewServiceValidatesDependencies(t *testing.T) {
	if _, err := NewService(nil, &stubTxRunner{}); !pkgerrors.IsCode(err, pkgerrors.CodeDependency) {
		t.Fatalf("expected dependency error for nil repo, got %v", err)
	}
	if _, err := NewService(newStubRepo(), nil); !pkgerrors.IsCode(err, pkgerrors.CodeDependency) {
		t.Fatalf("expected dependency error for nil tx runner, got %v", err)
	}
}

func TestActivateRejectsSecondActiveEntry(t *testing.T) {
	repo := newStubRepo()
	svc := newTestService(t, repo)
	ctx := context.Background()
	itemID := uuid.New()

	first, err := svc.Activate(ctx, itemID, enums.StateTypeInventory, nil)
	if err != nil {
		t.Fatalf("first activate: %v", err)
	}
	if first == uuid.Nil {
		t.Fatal("expected entry id from activate")
	}

	if _, err := svc.Activate(ctx, itemID, enums.StateTypeInventory, nil); !pkgerrors.IsCode(err, pkgerrors.CodeConflict) {
		t.Fatalf("expected conflict on duplicate activation, got %v", err)
	}

	// Same item and state with a distinct context is a separate tuple.
	listID := uuid.New()
	if _, err := svc.Activate(ctx, itemID, enums.StateTypeInventory, &listID); err != nil {
		t.Fatalf("activation with context: %v", err)
	}
}

func TestActivateValidatesInput(t *testing.T) {
	svc := newTestService(t, newStubRepo())
	ctx := context.Background()

	if _, err := svc.Activate(ctx, uuid.Nil, enums.StateTypeInventory, nil); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error for nil item, got %v", err)
	}
	if _, err := svc.Activate(ctx, uuid.New(), enums.StateType("PARKED"), nil); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error for unknown state, got %v", err)
	}
}

func TestDeactivateUnknownEntry(t *testing.T) {
	svc := newTestService(t, newStubRepo())

	err := svc.Deactivate(context.Background(), uuid.New(), nil)
	if !pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestDeactivateTwiceIsNoOp(t *testing.T) {
	repo := newStubRepo()
	svc := newTestService(t, repo)
	ctx := context.Background()

	entryID, err := svc.Activate(ctx, uuid.New(), enums.StateTypeShopping, nil)
	if err != nil {
		t.Fatalf("activate: %v", err)
	}

	reason := "bought elsewhere"
	if err := svc.Deactivate(ctx, entryID, &reason); err != nil {
		t.Fatalf("first deactivate: %v", err)
	}
	if err := svc.Deactivate(ctx, entryID, &reason); err != nil {
		t.Fatalf("second deactivate should be a no-op, got %v", err)
	}
	if len(repo.deactivated) != 1 {
		t.Fatalf("expected exactly one deactivation, got %d", len(repo.deactivated))
	}
}

func TestTransitionClosesSourceAndOpensDestination(t *testing.T) {
	repo := newStubRepo()
	svc := newTestService(t, repo)
	ctx := context.Background()
	itemID := uuid.New()
	listID := uuid.New()

	entryID, err := svc.Activate(ctx, itemID, enums.StateTypeShopping, &listID)
	if err != nil {
		t.Fatalf("activate: %v", err)
	}

	if err := svc.Transition(ctx, itemID, enums.StateTypeShopping, enums.StateTypeInventory, &listID); err != nil {
		t.Fatalf("transition: %v", err)
	}

	source := repo.entries[entryID]
	if source.IsActive {
		t.Fatal("source entry should be inactive after transition")
	}
	if source.DeactivatedAt == nil {
		t.Fatal("source entry should carry a deactivation timestamp")
	}

	dest, err := repo.FindActive(ctx, itemID, enums.StateTypeInventory, nil)
	if err != nil {
		t.Fatalf("destination entry missing: %v", err)
	}
	if dest.ContextID != nil {
		t.Fatal("destination entry must not inherit the source context")
	}
}

func TestTransitionWithoutActiveSource(t *testing.T) {
	svc := newTestService(t, newStubRepo())

	err := svc.Transition(context.Background(), uuid.New(), enums.StateTypeShopping, enums.StateTypeInventory, nil)
	if !pkgerrors.IsCode(err, pkgerrors.CodeStateConflict) {
		t.Fatalf("expected state conflict, got %v", err)
	}
}

func TestTransitionSameState(t *testing.T) {
	svc := newTestService(t, newStubRepo())

	err := svc.Transition(context.Background(), uuid.New(), enums.StateTypeInventory, enums.StateTypeInventory, nil)
	if !pkgerrors.IsCode(err, pkgerrors.CodeStateConflict) {
		t.Fatalf("expected state conflict for same-state transition, got %v", err)
	}
}

func TestTransitionRollsBackOnInsertFailure(t *testing.T) {
	repo := newStubRepo()
	tx := &stubTxRunner{}
	svc, err := NewService(repo, tx)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	ctx := context.Background()
	itemID := uuid.New()

	if _, err := svc.Activate(ctx, itemID, enums.StateTypeShopping, nil); err != nil {
		t.Fatalf("activate: %v", err)
	}
	repo.insertErr = errors.New("disk full")

	err = svc.Transition(ctx, itemID, enums.StateTypeShopping, enums.StateTypeInventory, nil)
	if err == nil {
		t.Fatal("expected transition to fail")
	}
	if !pkgerrors.IsCode(err, pkgerrors.CodeDependency) {
		t.Fatalf("expected dependency error, got %v", err)
	}
}
