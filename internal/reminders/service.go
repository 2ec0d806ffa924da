package reminders

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/homestockhq/homestock-backend/internal/rules"
	"github.com/homestockhq/homestock-backend/pkg/db"
	"github.com/homestockhq/homestock-backend/pkg/db/models"
	"github.com/homestockhq/homestock-backend/pkg/enums"
	pkgerrors "github.com/homestockhq/homestock-backend/pkg/errors"
	"github.com/homestockhq/homestock-backend/pkg/logger"
	"github.com/homestockhq/homestock-backend/pkg/metrics"
)

// RuleEngine is the slice of the rules service the reminder check needs.
// The full rules.Service satisfies it.
type RuleEngine interface {
	EvaluateNow(ctx context.Context) (rules.Result, error)
	MarkRulesTriggered(ctx context.Context, ids []uuid.UUID) error
}

// UpdateSettingsInput carries a full replacement of the reminder settings.
type UpdateSettingsInput struct {
	AdvanceDays          int  `json:"advance_days" validate:"min=1,max=365"`
	IncludeWarranty      bool `json:"include_warranty"`
	StockReminderEnabled bool `json:"stock_reminder_enabled"`
	NotifyHour           int  `json:"notify_hour" validate:"min=0,max=23"`
	NotifyMinute         int  `json:"notify_minute" validate:"min=0,max=59"`
	QuietHoursEnabled    bool `json:"quiet_hours_enabled"`
	QuietStartHour       int  `json:"quiet_start_hour" validate:"min=0,max=23"`
	QuietStartMinute     int  `json:"quiet_start_minute" validate:"min=0,max=59"`
	QuietEndHour         int  `json:"quiet_end_hour" validate:"min=0,max=23"`
	QuietEndMinute       int  `json:"quiet_end_minute" validate:"min=0,max=59"`
	WeekendPause         bool `json:"weekend_pause"`
	PushEnabled          bool `json:"push_enabled"`
	InAppEnabled         bool `json:"in_app_enabled"`
}

// ServiceParams groups dependencies for the reminder service.
type ServiceParams struct {
	Repo     Repository
	Rules    RuleEngine
	Notifier Notifier
	Logger   *logger.Logger
	Metrics  *metrics.ReminderMetrics
	Location *time.Location
}

// Service runs the reminder check state machine and owns the settings rows.
type Service interface {
	GetSettings(ctx context.Context) (models.ReminderSettings, error)
	UpdateSettings(ctx context.Context, input UpdateSettingsInput) (*models.ReminderSettings, error)
	GetCheckState(ctx context.Context) (models.ReminderCheckState, error)
	CheckAndSendReminders(ctx context.Context, manual bool) (enums.CheckStatus, error)
}

type service struct {
	repo     Repository
	rules    RuleEngine
	notifier Notifier
	logg     *logger.Logger
	metrics  *metrics.ReminderMetrics
	location *time.Location
	now      func() time.Time
}

// NewService builds a reminder service with the required dependencies.
// Metrics may be nil (all metric methods are nil-safe).
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "reminders repository required")
	}
	if params.Rules == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "rules service required")
	}
	if params.Notifier == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "notifier required")
	}
	if params.Logger == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "logger required")
	}
	location := params.Location
	if location == nil {
		location = time.Local
	}
	return &service{
		repo:     params.Repo,
		rules:    params.Rules,
		notifier: params.Notifier,
		logg:     params.Logger,
		metrics:  params.Metrics,
		location: location,
		now:      time.Now,
	}, nil
}

// GetSettings falls back to defaults when nothing has been persisted yet,
// so it also serves as the rules service's settings source.
func (s *service) GetSettings(ctx context.Context) (models.ReminderSettings, error) {
	settings, err := s.repo.GetSettings(ctx)
	if err != nil {
		if db.IsNotFound(err) {
			return models.DefaultReminderSettings(), nil
		}
		return models.ReminderSettings{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading reminder settings")
	}
	return *settings, nil
}

func (s *service) UpdateSettings(ctx context.Context, input UpdateSettingsInput) (*models.ReminderSettings, error) {
	if input.AdvanceDays < 1 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "advance days must be at least 1")
	}
	settings := models.ReminderSettings{
		ID:                   models.SettingsRowID,
		AdvanceDays:          input.AdvanceDays,
		IncludeWarranty:      input.IncludeWarranty,
		StockReminderEnabled: input.StockReminderEnabled,
		NotifyHour:           input.NotifyHour,
		NotifyMinute:         input.NotifyMinute,
		QuietHoursEnabled:    input.QuietHoursEnabled,
		QuietStartHour:       input.QuietStartHour,
		QuietStartMinute:     input.QuietStartMinute,
		QuietEndHour:         input.QuietEndHour,
		QuietEndMinute:       input.QuietEndMinute,
		WeekendPause:         input.WeekendPause,
		PushEnabled:          input.PushEnabled,
		InAppEnabled:         input.InAppEnabled,
		UpdatedAt:            s.now().UTC(),
	}
	if err := s.repo.SaveSettings(ctx, &settings); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "saving reminder settings")
	}
	return &settings, nil
}

func (s *service) GetCheckState(ctx context.Context) (models.ReminderCheckState, error) {
	state, err := s.repo.GetCheckState(ctx)
	if err != nil {
		if db.IsNotFound(err) {
			return models.ReminderCheckState{
				ID:         models.SettingsRowID,
				LastStatus: enums.CheckStatusNotChecked,
			}, nil
		}
		return models.ReminderCheckState{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading check state")
	}
	return *state, nil
}

// CheckAndSendReminders runs one pass of the per-day state machine. Manual
// triggers skip the scheduling gate but never the delivery gate. Evaluation
// errors are logged and recorded as a no-send check, not returned: a broken
// rule must not take the whole loop down.
func (s *service) CheckAndSendReminders(ctx context.Context, manual bool) (enums.CheckStatus, error) {
	now := s.now().In(s.location)
	ctx = s.logg.WithJob(ctx, "reminder-check")

	settings, err := s.GetSettings(ctx)
	if err != nil {
		return enums.CheckStatusNotChecked, err
	}
	state, err := s.GetCheckState(ctx)
	if err != nil {
		return enums.CheckStatusNotChecked, err
	}

	if !manual && !ShouldNotifyNow(settings, state, now) {
		reason := "outside_window"
		if state.LastCheckDate == now.Format(models.CheckDateLayout) {
			reason = "already_checked"
		}
		s.metrics.IncSuppressed(reason)
		s.logg.Debug(ctx, "reminder check skipped by schedule gate")
		return state.LastStatus, nil
	}

	result, err := s.rules.EvaluateNow(ctx)
	if err != nil {
		s.logg.Error(ctx, "reminder evaluation failed", err)
		s.metrics.IncSuppressed("evaluation_error")
		return s.record(ctx, now, enums.CheckStatusCheckedNoSend)
	}

	if result.IsEmpty() {
		s.metrics.IncSuppressed("empty")
		s.logg.Info(ctx, "reminder check found nothing to report")
		return s.record(ctx, now, enums.CheckStatusCheckedNoSend)
	}

	// In-app permission doubles as the local notification permission; there
	// is no OS prompt on the backend side.
	if !CanDeliverNow(settings, settings.InAppEnabled, now) {
		reason := "quiet_hours"
		if settings.WeekendPause && (now.Weekday() == time.Saturday || now.Weekday() == time.Sunday) {
			reason = "weekend_pause"
		}
		s.metrics.IncSuppressed(reason)
		s.logg.Info(ctx, "reminder delivery gated")
		return s.record(ctx, now, enums.CheckStatusCheckedNoSend)
	}

	reminders := BuildReminders(result)
	summary := BuildSummary(result, reminders, now)
	if err := s.notifier.Deliver(ctx, summary); err != nil {
		s.logg.Error(ctx, "reminder delivery failed", err)
		s.metrics.IncSuppressed("delivery_error")
		return s.record(ctx, now, enums.CheckStatusCheckedNoSend)
	}
	s.metrics.IncSent()

	if ids := triggeredRuleIDs(result); len(ids) > 0 {
		if err := s.rules.MarkRulesTriggered(ctx, ids); err != nil {
			s.logg.Error(ctx, "stamping triggered rules failed", err)
		}
	}
	return s.record(ctx, now, enums.CheckStatusCheckedSent)
}

func triggeredRuleIDs(result rules.Result) []uuid.UUID {
	seen := map[uuid.UUID]bool{}
	var ids []uuid.UUID
	for _, match := range result.CustomMatches {
		if !seen[match.RuleID] {
			seen[match.RuleID] = true
			ids = append(ids, match.RuleID)
		}
	}
	return ids
}

func (s *service) record(ctx context.Context, now time.Time, status enums.CheckStatus) (enums.CheckStatus, error) {
	state := models.ReminderCheckState{
		ID:            models.SettingsRowID,
		LastCheckDate: now.Format(models.CheckDateLayout),
		LastStatus:    status,
		UpdatedAt:     now.UTC(),
	}
	if err := s.repo.SaveCheckState(ctx, &state); err != nil {
		s.logg.Error(ctx, "persisting check state failed", err)
		return status, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "saving check state")
	}
	return status, nil
}
