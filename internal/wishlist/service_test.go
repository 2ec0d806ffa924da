package wishlist

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/homestockhq/homestock-backend/internal/items"
	"github.com/homestockhq/homestock-backend/pkg/config"
	"github.com/homestockhq/homestock-backend/pkg/db"
	"github.com/homestockhq/homestock-backend/pkg/db/models"
	pkgerrors "github.com/homestockhq/homestock-backend/pkg/errors"
)

func setupWishlistService(t *testing.T, name string) (Service, uuid.UUID) {
	t.Helper()
	ctx := context.Background()
	client, err := db.New(ctx, config.DBConfig{
		Driver: config.DriverSQLite,
		Path:   "file:" + name + "?mode=memory&cache=shared",
	}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	require.NoError(t, client.DB().AutoMigrate(
		&models.Item{}, &models.WishlistDetail{}, &models.PriceRecord{},
	))

	itemRepo := items.NewRepository(client.DB())
	item := models.Item{ID: uuid.New(), Name: "Espresso Machine", Category: "Kitchen"}
	require.NoError(t, itemRepo.Insert(ctx, &item))

	svc, err := NewService(ServiceParams{
		Repo:     NewRepository(client.DB()),
		ItemRepo: itemRepo,
		Tx:       client,
	})
	require.NoError(t, err)
	return svc, item.ID
}

func TestAddWishRejectsDuplicate(t *testing.T) {
	svc, itemID := setupWishlistService(t, "wish_add")
	ctx := context.Background()

	target := decimal.RequireFromString("399")
	detail, err := svc.Add(ctx, AddInput{ItemID: itemID, TargetPrice: &target})
	require.NoError(t, err)
	assert.Equal(t, 7, detail.TrackIntervalDays, "interval defaults when unset")

	_, err = svc.Add(ctx, AddInput{ItemID: itemID})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeConflict), "one wish per item")
}

func TestAddWishUnknownItem(t *testing.T) {
	svc, _ := setupWishlistService(t, "wish_unknown")

	_, err := svc.Add(context.Background(), AddInput{ItemID: uuid.New()})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
}

func TestObservePriceTracksExtremes(t *testing.T) {
	svc, itemID := setupWishlistService(t, "wish_price")
	ctx := context.Background()

	_, err := svc.Add(ctx, AddInput{ItemID: itemID})
	require.NoError(t, err)

	for _, raw := range []string{"450", "380", "410"} {
		_, err := svc.ObservePrice(ctx, ObservePriceInput{
			ItemID: itemID, Price: decimal.RequireFromString(raw),
		})
		require.NoError(t, err)
	}

	detail, err := svc.Get(ctx, itemID)
	require.NoError(t, err)
	require.NotNil(t, detail.LowestPrice)
	require.NotNil(t, detail.HighestPrice)
	assert.True(t, detail.LowestPrice.Equal(decimal.RequireFromString("380")))
	assert.True(t, detail.HighestPrice.Equal(decimal.RequireFromString("450")))

	history, err := svc.PriceHistory(ctx, itemID)
	require.NoError(t, err)
	assert.Len(t, history, 3)
}

func TestRemoveWish(t *testing.T) {
	svc, itemID := setupWishlistService(t, "wish_remove")
	ctx := context.Background()

	_, err := svc.Add(ctx, AddInput{ItemID: itemID})
	require.NoError(t, err)
	require.NoError(t, svc.Remove(ctx, itemID))

	err = svc.Remove(ctx, itemID)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
}
