package reminders

import (
	"context"

	"github.com/homestockhq/homestock-backend/pkg/db"
	"github.com/homestockhq/homestock-backend/pkg/db/models"
	pkgerrors "github.com/homestockhq/homestock-backend/pkg/errors"
)

// SettingsLoader serves reminder settings to other services without pulling
// in the whole reminder service. The rule evaluator reads its advance window
// through this.
type SettingsLoader struct {
	repo Repository
}

// NewSettingsLoader builds a loader over the reminders repository.
func NewSettingsLoader(repo Repository) (*SettingsLoader, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "reminders repository required")
	}
	return &SettingsLoader{repo: repo}, nil
}

// GetSettings falls back to defaults when nothing has been persisted yet.
func (l *SettingsLoader) GetSettings(ctx context.Context) (models.ReminderSettings, error) {
	settings, err := l.repo.GetSettings(ctx)
	if err != nil {
		if db.IsNotFound(err) {
			return models.DefaultReminderSettings(), nil
		}
		return models.ReminderSettings{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading reminder settings")
	}
	return *settings, nil
}
