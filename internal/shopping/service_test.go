package shopping

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/homestockhq/homestock-backend/internal/inventory"
	"github.com/homestockhq/homestock-backend/internal/items"
	"github.com/homestockhq/homestock-backend/internal/ledger"
	"github.com/homestockhq/homestock-backend/pkg/config"
	"github.com/homestockhq/homestock-backend/pkg/db"
	"github.com/homestockhq/homestock-backend/pkg/db/models"
	"github.com/homestockhq/homestock-backend/pkg/enums"
	pkgerrors "github.com/homestockhq/homestock-backend/pkg/errors"
	"github.com/homestockhq/homestock-backend/pkg/pagination"
)

type shoppingFixture struct {
	svc        Service
	repo       Repository
	invRepo    inventory.Repository
	ledgerRepo ledger.Repository
	itemID     uuid.UUID
	listID     uuid.UUID
}

func setupShoppingService(t *testing.T, name string) shoppingFixture {
	t.Helper()
	ctx := context.Background()
	client, err := db.New(ctx, config.DBConfig{
		Driver: config.DriverSQLite,
		Path:   "file:" + name + "?mode=memory&cache=shared",
	}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	require.NoError(t, client.DB().AutoMigrate(
		&models.Item{}, &models.ShoppingList{}, &models.ShoppingDetail{},
		&models.InventoryDetail{}, &models.StateLedgerEntry{},
	))

	itemRepo := items.NewRepository(client.DB())
	item := models.Item{ID: uuid.New(), Name: "Drill", Category: "Tools"}
	require.NoError(t, itemRepo.Insert(ctx, &item))

	repo := NewRepository(client.DB())
	invRepo := inventory.NewRepository(client.DB())
	ledgerRepo := ledger.NewRepository(client.DB())
	svc, err := NewService(ServiceParams{
		Repo:          repo,
		ItemRepo:      itemRepo,
		InventoryRepo: invRepo,
		LedgerRepo:    ledgerRepo,
		Tx:            client,
	})
	require.NoError(t, err)

	list, err := svc.CreateList(ctx, CreateListInput{Name: "Hardware"})
	require.NoError(t, err)

	return shoppingFixture{
		svc: svc, repo: repo, invRepo: invRepo, ledgerRepo: ledgerRepo,
		itemID: item.ID, listID: list.ID,
	}
}

func TestAddDetailOpensListScopedState(t *testing.T) {
	fix := setupShoppingService(t, "shop_add")
	ctx := context.Background()

	_, err := fix.svc.AddDetail(ctx, AddDetailInput{
		ItemID: fix.itemID, ShoppingListID: fix.listID, Quantity: decimal.NewFromInt(1),
	})
	require.NoError(t, err)

	entry, err := fix.ledgerRepo.FindActive(ctx, fix.itemID, enums.StateTypeShopping, &fix.listID)
	require.NoError(t, err)
	require.NotNil(t, entry.ContextID)
	assert.Equal(t, fix.listID, *entry.ContextID)

	_, err = fix.svc.AddDetail(ctx, AddDetailInput{
		ItemID: fix.itemID, ShoppingListID: fix.listID, Quantity: decimal.NewFromInt(2),
	})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeConflict), "same list twice conflicts")
}

func TestPurchaseMovesItemIntoInventory(t *testing.T) {
	fix := setupShoppingService(t, "shop_purchase")
	ctx := context.Background()

	detail, err := fix.svc.AddDetail(ctx, AddDetailInput{
		ItemID: fix.itemID, ShoppingListID: fix.listID, Quantity: decimal.NewFromInt(1),
	})
	require.NoError(t, err)

	price := decimal.RequireFromString("129.90")
	invDetail, err := fix.svc.Purchase(ctx, detail.ID, PurchaseInput{Price: &price})
	require.NoError(t, err)
	assert.Equal(t, fix.itemID, invDetail.ItemID)
	assert.True(t, invDetail.Quantity.Equal(decimal.NewFromInt(1)))

	// SHOPPING entry is closed with a timestamp, INVENTORY entry is open.
	closed, err := fix.ledgerRepo.GetByID(ctx, mustShoppingEntryID(t, fix, ctx))
	require.NoError(t, err)
	assert.False(t, closed.IsActive)
	require.NotNil(t, closed.DeactivatedAt)

	open, err := fix.ledgerRepo.FindActive(ctx, fix.itemID, enums.StateTypeInventory, nil)
	require.NoError(t, err)
	assert.True(t, open.IsActive)

	// Provenance: the shopping detail survives with its purchase stamp.
	stored, err := fix.repo.GetDetail(ctx, detail.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.PurchasedAt)

	_, err = fix.svc.Purchase(ctx, detail.ID, PurchaseInput{})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeStateConflict), "double purchase is rejected")
}

// mustShoppingEntryID finds the item's single SHOPPING ledger entry.
func mustShoppingEntryID(t *testing.T, fix shoppingFixture, ctx context.Context) uuid.UUID {
	t.Helper()
	history, _, err := fix.ledgerRepo.HistoryFor(ctx, fix.itemID, pagination.Params{Limit: pagination.MaxLimit})
	require.NoError(t, err)
	for _, entry := range history {
		if entry.StateType == enums.StateTypeShopping {
			return entry.ID
		}
	}
	t.Fatal("no shopping ledger entry found")
	return uuid.Nil
}

func TestRemoveDetailKeepsRow(t *testing.T) {
	fix := setupShoppingService(t, "shop_remove")
	ctx := context.Background()

	detail, err := fix.svc.AddDetail(ctx, AddDetailInput{
		ItemID: fix.itemID, ShoppingListID: fix.listID, Quantity: decimal.NewFromInt(1),
	})
	require.NoError(t, err)

	reason := "changed my mind"
	require.NoError(t, fix.svc.RemoveDetail(ctx, detail.ID, &reason))

	_, err = fix.ledgerRepo.FindActive(ctx, fix.itemID, enums.StateTypeShopping, &fix.listID)
	require.Error(t, err, "shopping state is closed")

	stored, err := fix.repo.GetDetail(ctx, detail.ID)
	require.NoError(t, err)
	assert.Nil(t, stored.PurchasedAt, "row is retained, not purchased")
}

func TestGetListFiltersOpenDetails(t *testing.T) {
	fix := setupShoppingService(t, "shop_list")
	ctx := context.Background()

	detail, err := fix.svc.AddDetail(ctx, AddDetailInput{
		ItemID: fix.itemID, ShoppingListID: fix.listID, Quantity: decimal.NewFromInt(1),
	})
	require.NoError(t, err)
	_, err = fix.svc.Purchase(ctx, detail.ID, PurchaseInput{})
	require.NoError(t, err)

	all, err := fix.svc.GetList(ctx, fix.listID, false)
	require.NoError(t, err)
	assert.Len(t, all.Details, 1)

	open, err := fix.svc.GetList(ctx, fix.listID, true)
	require.NoError(t, err)
	assert.Empty(t, open.Details)
}
