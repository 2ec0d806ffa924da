package export

import (
	"context"
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
)

func TestSnapshotJoinsEverything(t *testing.T) {
	ctx := context.Background()
	client, err := db.New(ctx, config.DBConfig{
		Driver: config.DriverSQLite,
		Path:   "file:export_snap?mode=memory&cache=shared",
	}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	require.NoError(t, client.DB().AutoMigrate(
		&models.Item{}, &models.InventoryDetail{}, &models.WishlistDetail{},
		&models.StateLedgerEntry{}, &models.Warranty{}, &models.BorrowRecord{},
	))

	item := models.Item{ID: uuid.New(), Name: "Drill", Category: "Tools"}
	require.NoError(t, client.DB().Create(&item).Error)
	require.NoError(t, client.DB().Create(&models.InventoryDetail{
		ID: uuid.New(), ItemID: item.ID, Quantity: decimal.NewFromInt(1), IsActive: true,
	}).Error)
	require.NoError(t, client.DB().Create(&models.StateLedgerEntry{
		ID: uuid.New(), ItemID: item.ID, StateType: enums.StateTypeInventory,
		IsActive: true, ActivatedAt: time.Now().UTC(),
	}).Error)
	require.NoError(t, client.DB().Create(&models.Warranty{
		ID: uuid.New(), ItemID: item.ID,
		StartsAt: time.Now().UTC(), EndsAt: time.Now().UTC().AddDate(1, 0, 0),
	}).Error)
	require.NoError(t, client.DB().Create(&models.BorrowRecord{
		ID: uuid.New(), ItemID: item.ID, Borrower: "Sam", LentAt: time.Now().UTC(),
	}).Error)

	svc, err := NewService(client.DB(), client)
	require.NoError(t, err)

	snapshot, err := svc.Snapshot(ctx)
	require.NoError(t, err)
	require.Len(t, snapshot.Items, 1)
	exported := snapshot.Items[0]
	assert.Equal(t, "Drill", exported.Item.Name)
	assert.Len(t, exported.InventoryDetails, 1)
	assert.Len(t, exported.Ledger, 1)
	assert.Nil(t, exported.Wishlist)
	assert.Len(t, snapshot.Warranties, 1)
	assert.Len(t, snapshot.Borrows, 1)
	assert.False(t, snapshot.GeneratedAt.IsZero())
}
