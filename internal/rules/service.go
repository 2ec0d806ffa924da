package rules

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/homestockhq/homestock-backend/pkg/db"
	"github.com/homestockhq/homestock-backend/pkg/db/models"
	"github.com/homestockhq/homestock-backend/pkg/enums"
	pkgerrors "github.com/homestockhq/homestock-backend/pkg/errors"
	"github.com/homestockhq/homestock-backend/pkg/logger"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// SettingsSource yields the effective reminder settings for evaluation.
type SettingsSource interface {
	GetSettings(ctx context.Context) (models.ReminderSettings, error)
}

// SetThresholdInput configures the minimum stock for one category.
type SetThresholdInput struct {
	Category    string          `json:"category" validate:"required,max=100"`
	MinQuantity decimal.Decimal `json:"min_quantity" validate:"required"`
	Unit        *string         `json:"unit,omitempty" validate:"omitempty,max=30"`
	Enabled     bool            `json:"enabled"`
}

// RuleInput creates or replaces a custom rule.
type RuleInput struct {
	Name           string           `json:"name" validate:"required,max=100"`
	RuleType       string           `json:"rule_type" validate:"required"`
	TargetCategory *string          `json:"target_category,omitempty" validate:"omitempty,max=100"`
	TargetItemName *string          `json:"target_item_name,omitempty" validate:"omitempty,max=200"`
	AdvanceDays    int              `json:"advance_days" validate:"omitempty,min=1,max=365"`
	MinQuantity    *decimal.Decimal `json:"min_quantity,omitempty"`
	MaxQuantity    *decimal.Decimal `json:"max_quantity,omitempty"`
	Enabled        bool             `json:"enabled"`
}

// WarrantyInput registers a coverage record for an item.
type WarrantyInput struct {
	ItemID   uuid.UUID  `json:"item_id" validate:"required"`
	Provider *string    `json:"provider,omitempty" validate:"omitempty,max=100"`
	Contact  *string    `json:"contact,omitempty" validate:"omitempty,max=200"`
	StartsAt time.Time  `json:"starts_at" validate:"required"`
	EndsAt   time.Time  `json:"ends_at" validate:"required"`
	Note     *string    `json:"note,omitempty"`
}

// ServiceParams groups dependencies for the rules service.
type ServiceParams struct {
	Repo     Repository
	Settings SettingsSource
	Tx       txRunner
	Logger   *logger.Logger
}

// Service manages evaluation inputs and runs the evaluator against a
// freshly loaded snapshot.
type Service interface {
	SetThreshold(ctx context.Context, input SetThresholdInput) (*models.CategoryThreshold, error)
	ListThresholds(ctx context.Context) ([]models.CategoryThreshold, error)
	DeleteThreshold(ctx context.Context, category string) error

	CreateRule(ctx context.Context, input RuleInput) (*models.CustomRule, error)
	ListRules(ctx context.Context) ([]models.CustomRule, error)
	UpdateRule(ctx context.Context, id uuid.UUID, input RuleInput) (*models.CustomRule, error)
	DeleteRule(ctx context.Context, id uuid.UUID) error
	MarkRulesTriggered(ctx context.Context, ids []uuid.UUID) error

	AddWarranty(ctx context.Context, input WarrantyInput) (*models.Warranty, error)
	ListWarranties(ctx context.Context) ([]models.Warranty, error)
	DeleteWarranty(ctx context.Context, id uuid.UUID) error

	EvaluateNow(ctx context.Context) (Result, error)
}

type service struct {
	repo     Repository
	settings SettingsSource
	tx       txRunner
	logg     *logger.Logger
	now      func() time.Time
}

// NewService builds a rules service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "rules repository required")
	}
	if params.Settings == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "settings source required")
	}
	if params.Tx == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "transaction runner required")
	}
	if params.Logger == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "logger required")
	}
	return &service{
		repo:     params.Repo,
		settings: params.Settings,
		tx:       params.Tx,
		logg:     params.Logger,
		now:      time.Now,
	}, nil
}

func (s *service) SetThreshold(ctx context.Context, input SetThresholdInput) (*models.CategoryThreshold, error) {
	if input.Category == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "category is required")
	}
	if input.MinQuantity.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "minimum quantity must not be negative")
	}
	threshold := models.CategoryThreshold{
		Category:    input.Category,
		MinQuantity: input.MinQuantity,
		Unit:        input.Unit,
		Enabled:     input.Enabled,
		UpdatedAt:   s.now().UTC(),
	}
	if err := s.repo.UpsertThreshold(ctx, &threshold); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "saving threshold")
	}
	return &threshold, nil
}

func (s *service) ListThresholds(ctx context.Context) ([]models.CategoryThreshold, error) {
	thresholds, err := s.repo.ListThresholds(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "listing thresholds")
	}
	return thresholds, nil
}

func (s *service) DeleteThreshold(ctx context.Context, category string) error {
	if category == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "category is required")
	}
	deleted, err := s.repo.DeleteThreshold(ctx, category)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "deleting threshold")
	}
	if !deleted {
		return pkgerrors.New(pkgerrors.CodeNotFound, "threshold not found")
	}
	return nil
}

func (s *service) CreateRule(ctx context.Context, input RuleInput) (*models.CustomRule, error) {
	rule, err := ruleFromInput(input, s.now().UTC())
	if err != nil {
		return nil, err
	}
	rule.ID = uuid.New()
	if err := s.repo.InsertRule(ctx, rule); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "inserting rule")
	}
	return rule, nil
}

func ruleFromInput(input RuleInput, now time.Time) (*models.CustomRule, error) {
	ruleType, err := enums.ParseRuleType(input.RuleType)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid rule type")
	}
	if ruleType == enums.RuleTypeStock && input.MinQuantity == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "stock rules need a minimum quantity")
	}
	advanceDays := input.AdvanceDays
	if advanceDays <= 0 {
		advanceDays = 7
	}
	return &models.CustomRule{
		Name:           input.Name,
		RuleType:       ruleType,
		TargetCategory: input.TargetCategory,
		TargetItemName: input.TargetItemName,
		AdvanceDays:    advanceDays,
		MinQuantity:    input.MinQuantity,
		MaxQuantity:    input.MaxQuantity,
		Enabled:        input.Enabled,
		CreatedAt:      now,
		UpdatedAt:      now,
	}, nil
}

func (s *service) ListRules(ctx context.Context) ([]models.CustomRule, error) {
	rules, err := s.repo.ListRules(ctx, false)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "listing rules")
	}
	return rules, nil
}

func (s *service) UpdateRule(ctx context.Context, id uuid.UUID, input RuleInput) (*models.CustomRule, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "rule id is required")
	}
	var updated *models.CustomRule
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		existing, err := repo.GetRule(ctx, id)
		if err != nil {
			if db.IsNotFound(err) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "rule not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading rule")
		}
		replacement, err := ruleFromInput(input, s.now().UTC())
		if err != nil {
			return err
		}
		replacement.ID = existing.ID
		replacement.CreatedAt = existing.CreatedAt
		replacement.LastTriggeredAt = existing.LastTriggeredAt
		if err := repo.UpdateRule(ctx, replacement); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "updating rule")
		}
		updated = replacement
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *service) DeleteRule(ctx context.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "rule id is required")
	}
	deleted, err := s.repo.DeleteRule(ctx, id)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "deleting rule")
	}
	if !deleted {
		return pkgerrors.New(pkgerrors.CodeNotFound, "rule not found")
	}
	return nil
}

// MarkRulesTriggered stamps last_triggered_at on the matched rules after a
// summary was delivered.
func (s *service) MarkRulesTriggered(ctx context.Context, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	now := s.now().UTC()
	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		for _, id := range ids {
			rule, err := repo.GetRule(ctx, id)
			if err != nil {
				if db.IsNotFound(err) {
					continue
				}
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading rule")
			}
			rule.LastTriggeredAt = &now
			rule.UpdatedAt = now
			if err := repo.UpdateRule(ctx, rule); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "stamping rule")
			}
		}
		return nil
	})
}

func (s *service) AddWarranty(ctx context.Context, input WarrantyInput) (*models.Warranty, error) {
	if input.ItemID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "item id is required")
	}
	if !input.EndsAt.After(input.StartsAt) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "warranty must end after it starts")
	}
	warranty := models.Warranty{
		ID:        uuid.New(),
		ItemID:    input.ItemID,
		Provider:  input.Provider,
		Contact:   input.Contact,
		StartsAt:  input.StartsAt,
		EndsAt:    input.EndsAt,
		Note:      input.Note,
		CreatedAt: s.now().UTC(),
	}
	if err := s.repo.InsertWarranty(ctx, &warranty); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "inserting warranty")
	}
	return &warranty, nil
}

func (s *service) ListWarranties(ctx context.Context) ([]models.Warranty, error) {
	warranties, err := s.repo.ListWarranties(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "listing warranties")
	}
	return warranties, nil
}

func (s *service) DeleteWarranty(ctx context.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "warranty id is required")
	}
	deleted, err := s.repo.DeleteWarranty(ctx, id)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "deleting warranty")
	}
	if !deleted {
		return pkgerrors.New(pkgerrors.CodeNotFound, "warranty not found")
	}
	return nil
}

// EvaluateNow loads a snapshot and runs the evaluator against it. A failing
// section degrades to an empty bucket instead of failing the evaluation;
// only the settings load is load-bearing.
func (s *service) EvaluateNow(ctx context.Context) (Result, error) {
	snapshot, err := s.loadSnapshot(ctx)
	if err != nil {
		return Result{}, err
	}
	return Evaluate(s.now(), snapshot), nil
}

func (s *service) loadSnapshot(ctx context.Context) (Snapshot, error) {
	settings, err := s.settings.GetSettings(ctx)
	if err != nil {
		return Snapshot{}, pkgerrors.Wrap(pkgerrors.CodeEvaluation, err, "loading reminder settings")
	}
	snapshot := Snapshot{Settings: settings}

	txErr := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if inventory, invErr := repo.ActiveInventory(ctx); invErr != nil {
			s.logg.Error(ctx, "inventory snapshot failed, bucket degraded", invErr)
		} else {
			snapshot.Inventory = inventory
		}
		if warranties, warErr := repo.WarrantiesWithNames(ctx); warErr != nil {
			s.logg.Error(ctx, "warranty snapshot failed, bucket degraded", warErr)
		} else {
			snapshot.Warranties = warranties
		}
		if thresholds, thrErr := repo.ListThresholds(ctx); thrErr != nil {
			s.logg.Error(ctx, "threshold snapshot failed, bucket degraded", thrErr)
		} else {
			snapshot.Thresholds = thresholds
		}
		if customRules, ruleErr := repo.ListRules(ctx, true); ruleErr != nil {
			s.logg.Error(ctx, "rule snapshot failed, bucket degraded", ruleErr)
		} else {
			snapshot.Rules = customRules
		}
		return nil
	})
	if txErr != nil {
		return Snapshot{}, pkgerrors.Wrap(pkgerrors.CodeEvaluation, txErr, "opening snapshot transaction")
	}
	return snapshot, nil
}
