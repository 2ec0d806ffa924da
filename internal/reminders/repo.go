package reminders

import (
	"context"

	"gorm.io/gorm"

	"github.com/homestockhq/homestock-backend/pkg/db/models"
)

// Repository persists the singleton settings and check-state rows.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	GetSettings(ctx context.Context) (*models.ReminderSettings, error)
	SaveSettings(ctx context.Context, settings *models.ReminderSettings) error
	GetCheckState(ctx context.Context) (*models.ReminderCheckState, error)
	SaveCheckState(ctx context.Context, state *models.ReminderCheckState) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a reminders repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) GetSettings(ctx context.Context) (*models.ReminderSettings, error) {
	var settings models.ReminderSettings
	if err := r.db.WithContext(ctx).First(&settings, "id = ?", models.SettingsRowID).Error; err != nil {
		return nil, err
	}
	return &settings, nil
}

func (r *repository) SaveSettings(ctx context.Context, settings *models.ReminderSettings) error {
	settings.ID = models.SettingsRowID
	return r.db.WithContext(ctx).Save(settings).Error
}

func (r *repository) GetCheckState(ctx context.Context) (*models.ReminderCheckState, error) {
	var state models.ReminderCheckState
	if err := r.db.WithContext(ctx).First(&state, "id = ?", models.SettingsRowID).Error; err != nil {
		return nil, err
	}
	return &state, nil
}

func (r *repository) SaveCheckState(ctx context.Context, state *models.ReminderCheckState) error {
	state.ID = models.SettingsRowID
	return r.db.WithContext(ctx).Save(state).Error
}
