package rules

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/homestockhq/homestock-backend/pkg/config"
	"github.com/homestockhq/homestock-backend/pkg/db"
	"github.com/homestockhq/homestock-backend/pkg/db/models"
	"github.com/homestockhq/homestock-backend/pkg/enums"
	pkgerrors "github.com/homestockhq/homestock-backend/pkg/errors"
	"github.com/homestockhq/homestock-backend/pkg/logger"
)

type fixedSettings struct {
	settings models.ReminderSettings
}

func (f fixedSettings) GetSettings(context.Context) (models.ReminderSettings, error) {
	return f.settings, nil
}

type rulesFixture struct {
	svc    Service
	client *db.Client
}

func setupRulesService(t *testing.T, name string, settings models.ReminderSettings) rulesFixture {
	t.Helper()
	ctx := context.Background()
	client, err := db.New(ctx, config.DBConfig{
		Driver: config.DriverSQLite,
		Path:   "file:" + name + "?mode=memory&cache=shared",
	}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	require.NoError(t, client.DB().AutoMigrate(
		&models.Item{}, &models.InventoryDetail{}, &models.CategoryThreshold{},
		&models.CustomRule{}, &models.Warranty{},
	))

	svc, err := NewService(ServiceParams{
		Repo:     NewRepository(client.DB()),
		Settings: fixedSettings{settings: settings},
		Tx:       client,
		Logger:   logger.New(logger.Options{ServiceName: "rules-test", Output: io.Discard}),
	})
	require.NoError(t, err)
	return rulesFixture{svc: svc, client: client}
}

func TestSetThresholdUpserts(t *testing.T) {
	fix := setupRulesService(t, "rules_thr", models.DefaultReminderSettings())
	ctx := context.Background()

	_, err := fix.svc.SetThreshold(ctx, SetThresholdInput{
		Category:    "Food",
		MinQuantity: decimal.NewFromInt(5),
		Enabled:     true,
	})
	require.NoError(t, err)

	// Same category replaces, it does not duplicate.
	updated, err := fix.svc.SetThreshold(ctx, SetThresholdInput{
		Category:    "Food",
		MinQuantity: decimal.NewFromInt(8),
		Enabled:     true,
	})
	require.NoError(t, err)
	assert.True(t, updated.MinQuantity.Equal(decimal.NewFromInt(8)))

	thresholds, err := fix.svc.ListThresholds(ctx)
	require.NoError(t, err)
	require.Len(t, thresholds, 1)

	require.NoError(t, fix.svc.DeleteThreshold(ctx, "Food"))
	err = fix.svc.DeleteThreshold(ctx, "Food")
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
}

func TestCreateRuleValidatesStockQuantity(t *testing.T) {
	fix := setupRulesService(t, "rules_stock", models.DefaultReminderSettings())
	ctx := context.Background()

	_, err := fix.svc.CreateRule(ctx, RuleInput{
		Name:     "low coffee",
		RuleType: string(enums.RuleTypeStock),
		Enabled:  true,
	})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))

	min := decimal.NewFromInt(2)
	rule, err := fix.svc.CreateRule(ctx, RuleInput{
		Name:        "low coffee",
		RuleType:    string(enums.RuleTypeStock),
		MinQuantity: &min,
		Enabled:     true,
	})
	require.NoError(t, err)
	assert.Equal(t, 7, rule.AdvanceDays)
}

func TestUpdateRulePreservesTriggerStamp(t *testing.T) {
	fix := setupRulesService(t, "rules_upd", models.DefaultReminderSettings())
	ctx := context.Background()

	rule, err := fix.svc.CreateRule(ctx, RuleInput{
		Name:        "expiring food",
		RuleType:    string(enums.RuleTypeExpiration),
		AdvanceDays: 3,
		Enabled:     true,
	})
	require.NoError(t, err)

	require.NoError(t, fix.svc.MarkRulesTriggered(ctx, []uuid.UUID{rule.ID}))

	updated, err := fix.svc.UpdateRule(ctx, rule.ID, RuleInput{
		Name:        "expiring food soon",
		RuleType:    string(enums.RuleTypeExpiration),
		AdvanceDays: 5,
		Enabled:     true,
	})
	require.NoError(t, err)
	assert.Equal(t, rule.ID, updated.ID)
	assert.NotNil(t, updated.LastTriggeredAt)
	assert.Equal(t, 5, updated.AdvanceDays)
}

func TestEvaluateNowFindsExpiringStock(t *testing.T) {
	settings := models.DefaultReminderSettings()
	settings.AdvanceDays = 7
	fix := setupRulesService(t, "rules_eval", settings)
	ctx := context.Background()

	item := models.Item{ID: uuid.New(), Name: "Milk", Category: "Food"}
	require.NoError(t, fix.client.DB().Create(&item).Error)

	expires := time.Now().UTC().Add(48 * time.Hour)
	detail := models.InventoryDetail{
		ID:             uuid.New(),
		ItemID:         item.ID,
		Quantity:       decimal.NewFromInt(1),
		ExpirationDate: &expires,
		IsActive:       true,
	}
	require.NoError(t, fix.client.DB().Create(&detail).Error)

	result, err := fix.svc.EvaluateNow(ctx)
	require.NoError(t, err)
	require.Len(t, result.Expiring, 1)
	assert.Equal(t, "Milk", result.Expiring[0].ItemName)
	assert.Empty(t, result.Expired)
}
