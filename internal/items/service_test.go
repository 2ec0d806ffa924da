package items

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/homestockhq/homestock-backend/internal/ledger"
	"github.com/homestockhq/homestock-backend/pkg/config"
	"github.com/homestockhq/homestock-backend/pkg/db"
	"github.com/homestockhq/homestock-backend/pkg/db/models"
	"github.com/homestockhq/homestock-backend/pkg/enums"
	pkgerrors "github.com/homestockhq/homestock-backend/pkg/errors"
	"github.com/homestockhq/homestock-backend/pkg/pagination"
)

func setupItemsService(t *testing.T, name string) (Service, *db.Client) {
	t.Helper()
	client, err := db.New(context.Background(), config.DBConfig{
		Driver: config.DriverSQLite,
		Path:   "file:" + name + "?mode=memory&cache=shared",
	}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	require.NoError(t, client.DB().AutoMigrate(&models.Item{}, &models.StateLedgerEntry{}))

	svc, err := NewService(ServiceParams{
		Repo:       NewRepository(client.DB()),
		LedgerRepo: ledger.NewRepository(client.DB()),
		Tx:         client,
	})
	require.NoError(t, err)
	return svc, client
}

func TestCreateAndGetItem(t *testing.T) {
	svc, client := setupItemsService(t, "items_create")
	ctx := context.Background()

	brand := "Bosch"
	item, err := svc.Create(ctx, CreateItemInput{Name: "Drill", Category: "Tools", Brand: &brand})
	require.NoError(t, err)
	require.NotEqual(t, uuid.Nil, item.ID)

	ledgerSvc, err := ledger.NewService(ledger.NewRepository(client.DB()), client)
	require.NoError(t, err)
	_, err = ledgerSvc.Activate(ctx, item.ID, enums.StateTypeInventory, nil)
	require.NoError(t, err)

	dto, err := svc.Get(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, "Drill", dto.Item.Name)
	assert.Equal(t, []enums.StateType{enums.StateTypeInventory}, dto.ActiveStates)
}

func TestGetMissingItem(t *testing.T) {
	svc, _ := setupItemsService(t, "items_missing")

	_, err := svc.Get(context.Background(), uuid.New())
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
}

func TestUpdateItemPartial(t *testing.T) {
	svc, _ := setupItemsService(t, "items_update")
	ctx := context.Background()

	item, err := svc.Create(ctx, CreateItemInput{Name: "Olive Oil", Category: "Food"})
	require.NoError(t, err)

	note := "extra virgin"
	updated, err := svc.Update(ctx, item.ID, UpdateItemInput{Note: &note})
	require.NoError(t, err)
	assert.Equal(t, "Olive Oil", updated.Name, "unset fields stay untouched")
	require.NotNil(t, updated.Note)
	assert.Equal(t, note, *updated.Note)
}

func TestListItemsFiltered(t *testing.T) {
	svc, _ := setupItemsService(t, "items_list")
	ctx := context.Background()

	for _, seed := range []CreateItemInput{
		{Name: "Olive Oil", Category: "Food"},
		{Name: "Sunflower Oil", Category: "Food"},
		{Name: "Drill", Category: "Tools"},
	} {
		_, err := svc.Create(ctx, seed)
		require.NoError(t, err)
	}

	page, err := svc.List(ctx, ListFilter{Category: "Food"}, pagination.Params{})
	require.NoError(t, err)
	assert.Len(t, page.Items, 2)

	page, err = svc.List(ctx, ListFilter{Search: "oLiVe"}, pagination.Params{})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "Olive Oil", page.Items[0].Name)
}

func TestRemoveItemRecordsDeletedState(t *testing.T) {
	svc, client := setupItemsService(t, "items_remove")
	ctx := context.Background()

	item, err := svc.Create(ctx, CreateItemInput{Name: "Drill", Category: "Tools"})
	require.NoError(t, err)

	ledgerRepo := ledger.NewRepository(client.DB())
	ledgerSvc, err := ledger.NewService(ledgerRepo, client)
	require.NoError(t, err)
	entryID, err := ledgerSvc.Activate(ctx, item.ID, enums.StateTypeInventory, nil)
	require.NoError(t, err)

	reason := "given away"
	require.NoError(t, svc.Remove(ctx, item.ID, &reason))

	// Identity row survives removal.
	dto, err := svc.Get(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, []enums.StateType{enums.StateTypeDeleted}, dto.ActiveStates)

	closed, err := ledgerRepo.GetByID(ctx, entryID)
	require.NoError(t, err)
	assert.False(t, closed.IsActive)
	require.NotNil(t, closed.DeactivatedAt)

	err = svc.Remove(ctx, item.ID, nil)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeStateConflict), "double removal is rejected")
}
