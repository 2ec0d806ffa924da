package ledger

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/homestockhq/homestock-backend/pkg/db/models"
	"github.com/homestockhq/homestock-backend/pkg/enums"
	"github.com/homestockhq/homestock-backend/pkg/pagination"
)

// Repository manages persistence for state ledger entries.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Insert(ctx context.Context, entry *models.StateLedgerEntry) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.StateLedgerEntry, error)
	FindActive(ctx context.Context, itemID uuid.UUID, state enums.StateType, contextID *uuid.UUID) (*models.StateLedgerEntry, error)
	Deactivate(ctx context.Context, id uuid.UUID, now time.Time, reason *string) (bool, error)
	ActiveStates(ctx context.Context, itemID uuid.UUID) ([]enums.StateType, error)
	HistoryFor(ctx context.Context, itemID uuid.UUID, params pagination.Params) ([]models.StateLedgerEntry, *pagination.Cursor, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a ledger repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Insert(ctx context.Context, entry *models.StateLedgerEntry) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*models.StateLedgerEntry, error) {
	var entry models.StateLedgerEntry
	if err := r.db.WithContext(ctx).First(&entry, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *repository) FindActive(ctx context.Context, itemID uuid.UUID, state enums.StateType, contextID *uuid.UUID) (*models.StateLedgerEntry, error) {
	query := r.db.WithContext(ctx).
		Where("item_id = ? AND state_type = ? AND is_active = ?", itemID, state, true)
	if contextID == nil {
		query = query.Where("context_id IS NULL")
	} else {
		query = query.Where("context_id = ?", *contextID)
	}

	var entry models.StateLedgerEntry
	if err := query.First(&entry).Error; err != nil {
		return nil, err
	}
	return &entry, nil
}

// Deactivate closes the entry when it is still active. The guard in the WHERE
// clause makes the call an idempotent no-op on already-inactive entries.
func (r *repository) Deactivate(ctx context.Context, id uuid.UUID, now time.Time, reason *string) (bool, error) {
	updates := map[string]any{
		"is_active":      false,
		"deactivated_at": now,
	}
	if reason != nil {
		updates["notes"] = *reason
	}
	result := r.db.WithContext(ctx).
		Model(&models.StateLedgerEntry{}).
		Where("id = ? AND is_active = ?", id, true).
		Updates(updates)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *repository) ActiveStates(ctx context.Context, itemID uuid.UUID) ([]enums.StateType, error) {
	var states []enums.StateType
	err := r.db.WithContext(ctx).
		Model(&models.StateLedgerEntry{}).
		Distinct("state_type").
		Where("item_id = ? AND is_active = ?", itemID, true).
		Pluck("state_type", &states).Error
	if err != nil {
		return nil, err
	}
	return states, nil
}

func (r *repository) HistoryFor(ctx context.Context, itemID uuid.UUID, params pagination.Params) ([]models.StateLedgerEntry, *pagination.Cursor, error) {
	limit := pagination.LimitWithBuffer(params.Limit)
	normalized := pagination.NormalizeLimit(params.Limit)

	query := r.db.WithContext(ctx).
		Model(&models.StateLedgerEntry{}).
		Where("item_id = ?", itemID)
	if params.Cursor != "" {
		cursor, err := pagination.ParseCursor(params.Cursor)
		if err != nil {
			return nil, nil, err
		}
		if cursor != nil {
			query = query.Where("(activated_at, id) > (?, ?)", cursor.Timestamp, cursor.ID)
		}
	}

	var entries []models.StateLedgerEntry
	if err := query.Order("activated_at ASC, id ASC").Limit(limit).Find(&entries).Error; err != nil {
		return nil, nil, err
	}

	if len(entries) > normalized {
		next := entries[normalized]
		entries = entries[:normalized]
		return entries, &pagination.Cursor{Timestamp: next.ActivatedAt, ID: next.ID}, nil
	}
	return entries, nil, nil
}
