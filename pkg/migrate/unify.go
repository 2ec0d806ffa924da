package migrate

import (
	"context"
	"fmt"
	"strings"
	"sync"
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

const (
	// MinLegacyVersion is the oldest schema the unifier can migrate from.
	MinLegacyVersion = 7
	// TargetVersion is the unified-architecture schema version.
	TargetVersion = 32
)

// Legacy table names as they existed before the unified architecture. Three
// per-role item tables plus satellites that reference inventory_items.id.
var legacyTables = []string{
	"inventory_items",
	"shopping_items",
	"wishlist_items",
	"item_photos",
	"item_tags",
	"calendar_events_legacy",
	"item_warranties",
	"borrow_logs",
	"price_history",
}

// Unifier folds the three legacy per-role item tables into the identity +
// role-detail + state-ledger shape. It runs at most once per process (the
// store-open boundary fences it) and is idempotent per version: a store at or
// beyond TargetVersion is left untouched. The whole fold executes in one
// transaction; any failure aborts everything and is fatal to startup.
type Unifier struct {
	client *db.Client
	logg   *logger.Logger

	once sync.Once
	err  error
}

// NewUnifier builds the one-shot unifier.
func NewUnifier(client *db.Client, logg *logger.Logger) *Unifier {
	return &Unifier{client: client, logg: logg}
}

// Run executes the unification once per process lifetime. Subsequent calls
// return the first run's result.
func (u *Unifier) Run(ctx context.Context) error {
	u.once.Do(func() {
		u.err = u.run(ctx)
	})
	return u.err
}

func (u *Unifier) run(ctx context.Context) error {
	version, found, err := u.currentVersion(ctx)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeMigration, err, "reading schema version")
	}
	if !found || version >= TargetVersion {
		// Fresh install (goose owns it) or already unified.
		return nil
	}
	if version < MinLegacyVersion {
		return pkgerrors.New(pkgerrors.CodeMigration,
			fmt.Sprintf("schema version %d predates the oldest supported legacy version %d", version, MinLegacyVersion))
	}

	ctx = u.logg.WithFields(ctx, map[string]any{"from_version": version, "to_version": TargetVersion})
	u.logg.Info(ctx, "unifying legacy schema")

	err = u.client.WithTx(ctx, func(tx *gorm.DB) error {
		state := newUnifyState()
		steps := []struct {
			name string
			fn   func(context.Context, *gorm.DB, *unifyState) error
		}{
			{"create tables", u.createUnifiedTables},
			{"migrate inventory", u.migrateInventory},
			{"migrate shopping", u.migrateShopping},
			{"migrate wishlist", u.migrateWishlist},
			{"rewrite references", u.rewriteSatellites},
			{"create indexes", u.createIndexes},
			{"backup legacy tables", u.backupLegacyTables},
		}
		for _, step := range steps {
			if err := step.fn(ctx, tx, state); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeMigration, err, step.name)
			}
		}
		return tx.Exec("UPDATE schema_info SET version = ?", TargetVersion).Error
	})
	if err != nil {
		if typed := pkgerrors.As(err); typed != nil {
			return typed
		}
		return pkgerrors.Wrap(pkgerrors.CodeMigration, err, "legacy unification")
	}

	u.logg.Info(ctx, "legacy schema unified")
	return nil
}

func (u *Unifier) currentVersion(ctx context.Context) (int, bool, error) {
	conn := u.client.DB().WithContext(ctx)
	if !conn.Migrator().HasTable("schema_info") {
		return 0, false, nil
	}
	var version int
	if err := conn.Raw("SELECT version FROM schema_info LIMIT 1").Scan(&version).Error; err != nil {
		return 0, false, err
	}
	return version, true, nil
}

// identityKey is the best-effort matching tuple. First match wins: distinct
// legacy rows that share (name, category, brand) collapse into one identity.
// This is a documented heuristic carried over for compatibility, not a
// correctness guarantee.
type identityKey struct {
	name     string
	category string
	brand    string
}

type unifyState struct {
	identities map[identityKey]uuid.UUID
	// legacy inventory_items.id -> minted identity id, used for FK rewriting
	inventoryIDs map[int64]uuid.UUID
	// legacy shopping list name -> minted list id
	lists map[string]uuid.UUID
	// identities that already received their unique wishlist detail
	wished map[uuid.UUID]bool
	// ledger tuples that already hold an active entry; at most one active
	// entry may exist per (item, state, context)
	activeEntries map[ledgerKey]bool
}

// ledgerKey identifies a ledger tuple. context is uuid.Nil for entries
// without a context.
type ledgerKey struct {
	itemID  uuid.UUID
	state   enums.StateType
	context uuid.UUID
}

func newUnifyState() *unifyState {
	return &unifyState{
		identities:    map[identityKey]uuid.UUID{},
		inventoryIDs:  map[int64]uuid.UUID{},
		lists:         map[string]uuid.UUID{},
		wished:        map[uuid.UUID]bool{},
		activeEntries: map[ledgerKey]bool{},
	}
}

func (s *unifyState) mint(tx *gorm.DB, name, category string, brand *string, createdAt time.Time) (uuid.UUID, error) {
	key := identityKey{name: name, category: category}
	if brand != nil {
		key.brand = *brand
	}
	if id, ok := s.identities[key]; ok {
		return id, nil
	}
	item := models.Item{
		ID:        uuid.New(),
		Name:      name,
		Category:  category,
		Brand:     brand,
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}
	if err := tx.Create(&item).Error; err != nil {
		return uuid.Nil, fmt.Errorf("minting identity for %q: %w", name, err)
	}
	s.identities[key] = item.ID
	return item.ID, nil
}

func (u *Unifier) createUnifiedTables(_ context.Context, tx *gorm.DB, _ *unifyState) error {
	return tx.AutoMigrate(
		&models.Item{},
		&models.InventoryDetail{},
		&models.ShoppingList{},
		&models.ShoppingDetail{},
		&models.WishlistDetail{},
		&models.StateLedgerEntry{},
		&models.CategoryThreshold{},
		&models.CustomRule{},
		&models.ReminderSettings{},
		&models.ReminderCheckState{},
		&models.Warranty{},
		&models.BorrowRecord{},
		&models.Photo{},
		&models.PriceRecord{},
		&models.Tag{},
		&models.CalendarEvent{},
	)
}

type legacyInventoryRow struct {
	ID              int64
	Name            string
	Category        string
	Brand           *string
	Quantity        float64
	Unit            *string
	Location        *string
	ExpirationDate  *time.Time
	PurchaseDate    *time.Time
	Price           *float64
	WarrantyEndDate *time.Time
	CreatedAt       time.Time
}

func (u *Unifier) migrateInventory(_ context.Context, tx *gorm.DB, state *unifyState) error {
	var rows []legacyInventoryRow
	if err := tx.Raw("SELECT * FROM inventory_items ORDER BY id").Scan(&rows).Error; err != nil {
		return err
	}
	for _, row := range rows {
		itemID, err := state.mint(tx, row.Name, row.Category, row.Brand, row.CreatedAt)
		if err != nil {
			return err
		}
		state.inventoryIDs[row.ID] = itemID

		// Identities may merge under the matching heuristic, but every legacy
		// row becomes its own detail row: merge, never drop.
		detail := models.InventoryDetail{
			ID:              uuid.New(),
			ItemID:          itemID,
			Quantity:        decimal.NewFromFloat(row.Quantity),
			Unit:            row.Unit,
			Location:        row.Location,
			ExpirationDate:  row.ExpirationDate,
			PurchaseDate:    row.PurchaseDate,
			WarrantyEndDate: row.WarrantyEndDate,
			IsActive:        true,
			CreatedAt:       row.CreatedAt,
			UpdatedAt:       row.CreatedAt,
		}
		if row.Price != nil {
			price := decimal.NewFromFloat(*row.Price)
			detail.Price = &price
		}
		if err := tx.Create(&detail).Error; err != nil {
			return fmt.Errorf("copying inventory row %d: %w", row.ID, err)
		}
		if err := state.appendLedgerEntry(tx, itemID, enums.StateTypeInventory, nil, row.CreatedAt, nil); err != nil {
			return err
		}
	}
	return nil
}

type legacyShoppingRow struct {
	ID          int64
	Name        string
	Category    string
	Brand       *string
	Quantity    float64
	ListName    *string
	Budget      *float64
	PurchasedAt *time.Time
	CreatedAt   time.Time
}

func (u *Unifier) migrateShopping(_ context.Context, tx *gorm.DB, state *unifyState) error {
	var rows []legacyShoppingRow
	if err := tx.Raw("SELECT * FROM shopping_items ORDER BY id").Scan(&rows).Error; err != nil {
		return err
	}
	for _, row := range rows {
		itemID, err := state.mint(tx, row.Name, row.Category, row.Brand, row.CreatedAt)
		if err != nil {
			return err
		}
		listID, err := state.listFor(tx, row.ListName, row.CreatedAt)
		if err != nil {
			return err
		}

		detail := models.ShoppingDetail{
			ID:             uuid.New(),
			ItemID:         itemID,
			ShoppingListID: listID,
			Quantity:       decimal.NewFromFloat(row.Quantity),
			PurchasedAt:    row.PurchasedAt,
			CreatedAt:      row.CreatedAt,
			UpdatedAt:      row.CreatedAt,
		}
		if row.Budget != nil {
			budget := decimal.NewFromFloat(*row.Budget)
			detail.BudgetPrice = &budget
		}
		if err := tx.Create(&detail).Error; err != nil {
			return fmt.Errorf("copying shopping row %d: %w", row.ID, err)
		}
		// Purchased rows carry a closed ledger entry; open ones stay active.
		if err := state.appendLedgerEntry(tx, itemID, enums.StateTypeShopping, &listID, row.CreatedAt, row.PurchasedAt); err != nil {
			return err
		}
	}
	return nil
}

func (s *unifyState) listFor(tx *gorm.DB, name *string, createdAt time.Time) (uuid.UUID, error) {
	listName := "Imported"
	if name != nil && strings.TrimSpace(*name) != "" {
		listName = strings.TrimSpace(*name)
	}
	if id, ok := s.lists[listName]; ok {
		return id, nil
	}
	list := models.ShoppingList{ID: uuid.New(), Name: listName, CreatedAt: createdAt}
	if err := tx.Create(&list).Error; err != nil {
		return uuid.Nil, fmt.Errorf("creating shopping list %q: %w", listName, err)
	}
	s.lists[listName] = list.ID
	return list.ID, nil
}

type legacyWishlistRow struct {
	ID          int64
	Name        string
	Category    string
	Brand       *string
	TargetPrice *float64
	CreatedAt   time.Time
}

func (u *Unifier) migrateWishlist(_ context.Context, tx *gorm.DB, state *unifyState) error {
	var rows []legacyWishlistRow
	if err := tx.Raw("SELECT * FROM wishlist_items ORDER BY id").Scan(&rows).Error; err != nil {
		return err
	}
	for _, row := range rows {
		itemID, err := state.mint(tx, row.Name, row.Category, row.Brand, row.CreatedAt)
		if err != nil {
			return err
		}
		// The wish record is unique per item; when the matching heuristic
		// collapses duplicate legacy wishes the first one wins.
		if state.wished[itemID] {
			continue
		}
		detail := models.WishlistDetail{
			ID:                uuid.New(),
			ItemID:            itemID,
			TrackIntervalDays: 7,
			CreatedAt:         row.CreatedAt,
			UpdatedAt:         row.CreatedAt,
		}
		if row.TargetPrice != nil {
			target := decimal.NewFromFloat(*row.TargetPrice)
			detail.TargetPrice = &target
		}
		if err := tx.Create(&detail).Error; err != nil {
			return fmt.Errorf("copying wishlist row %d: %w", row.ID, err)
		}
		state.wished[itemID] = true
	}
	return nil
}

// appendLedgerEntry records one legacy row in the ledger. When the matching
// heuristic merges identities, only the first row of a tuple may stay active;
// later rows are kept as closed history so the row count is preserved.
func (s *unifyState) appendLedgerEntry(tx *gorm.DB, itemID uuid.UUID, state enums.StateType, contextID *uuid.UUID, activatedAt time.Time, deactivatedAt *time.Time) error {
	if deactivatedAt == nil {
		key := ledgerKey{itemID: itemID, state: state}
		if contextID != nil {
			key.context = *contextID
		}
		if s.activeEntries[key] {
			deactivatedAt = &activatedAt
		} else {
			s.activeEntries[key] = true
		}
	}
	entry := models.StateLedgerEntry{
		ID:            uuid.New(),
		ItemID:        itemID,
		StateType:     state,
		IsActive:      deactivatedAt == nil,
		ActivatedAt:   activatedAt,
		DeactivatedAt: deactivatedAt,
		ContextID:     contextID,
	}
	if err := tx.Create(&entry).Error; err != nil {
		return fmt.Errorf("appending %s ledger entry: %w", state, err)
	}
	return nil
}

// satelliteCopy describes one legacy dependent table and how its rows land in
// the unified shape. Every legacy row must resolve to a minted identity; a
// dangling reference aborts the whole migration.
type satelliteCopy struct {
	legacyTable string
	copyRow     func(tx *gorm.DB, itemID uuid.UUID, row map[string]any) error
}

func (u *Unifier) rewriteSatellites(_ context.Context, tx *gorm.DB, state *unifyState) error {
	satellites := []satelliteCopy{
		{"item_photos", copyPhoto},
		{"item_tags", copyTag},
		{"calendar_events_legacy", copyCalendarEvent},
		{"item_warranties", copyWarranty},
		{"borrow_logs", copyBorrow},
		{"price_history", copyPriceRecord},
	}
	for _, sat := range satellites {
		rows := []map[string]any{}
		if err := tx.Raw("SELECT * FROM " + sat.legacyTable + " ORDER BY id").Scan(&rows).Error; err != nil {
			return err
		}
		for _, row := range rows {
			legacyItemID, err := int64Field(row, "item_id")
			if err != nil {
				return fmt.Errorf("%s: %w", sat.legacyTable, err)
			}
			itemID, ok := state.inventoryIDs[legacyItemID]
			if !ok {
				return fmt.Errorf("%s references unknown legacy item %d", sat.legacyTable, legacyItemID)
			}
			if err := sat.copyRow(tx, itemID, row); err != nil {
				return fmt.Errorf("%s: %w", sat.legacyTable, err)
			}
		}
	}
	return nil
}

func copyPhoto(tx *gorm.DB, itemID uuid.UUID, row map[string]any) error {
	photo := models.Photo{
		ID:        uuid.New(),
		ItemID:    itemID,
		Path:      stringField(row, "path"),
		IsPrimary: boolField(row, "is_primary"),
		CreatedAt: timeField(row, "created_at"),
	}
	return tx.Create(&photo).Error
}

func copyTag(tx *gorm.DB, itemID uuid.UUID, row map[string]any) error {
	tag := models.Tag{
		ID:        uuid.New(),
		ItemID:    itemID,
		Name:      stringField(row, "name"),
		CreatedAt: timeField(row, "created_at"),
	}
	return tx.Create(&tag).Error
}

func copyCalendarEvent(tx *gorm.DB, itemID uuid.UUID, row map[string]any) error {
	event := models.CalendarEvent{
		ID:        uuid.New(),
		ItemID:    itemID,
		Title:     stringField(row, "title"),
		HappensAt: timeField(row, "happens_at"),
		Note:      optStringField(row, "note"),
		CreatedAt: timeField(row, "created_at"),
	}
	return tx.Create(&event).Error
}

func copyWarranty(tx *gorm.DB, itemID uuid.UUID, row map[string]any) error {
	warranty := models.Warranty{
		ID:        uuid.New(),
		ItemID:    itemID,
		Provider:  optStringField(row, "provider"),
		Contact:   optStringField(row, "contact"),
		StartsAt:  timeField(row, "starts_at"),
		EndsAt:    timeField(row, "ends_at"),
		Note:      optStringField(row, "note"),
		CreatedAt: timeField(row, "created_at"),
	}
	return tx.Create(&warranty).Error
}

func copyBorrow(tx *gorm.DB, itemID uuid.UUID, row map[string]any) error {
	borrow := models.BorrowRecord{
		ID:         uuid.New(),
		ItemID:     itemID,
		Borrower:   stringField(row, "borrower"),
		LentAt:     timeField(row, "lent_at"),
		DueAt:      optTimeField(row, "due_at"),
		ReturnedAt: optTimeField(row, "returned_at"),
		Note:       optStringField(row, "note"),
		CreatedAt:  timeField(row, "created_at"),
	}
	return tx.Create(&borrow).Error
}

func copyPriceRecord(tx *gorm.DB, itemID uuid.UUID, row map[string]any) error {
	record := models.PriceRecord{
		ID:         uuid.New(),
		ItemID:     itemID,
		Price:      decimalField(row, "price"),
		Source:     optStringField(row, "source"),
		ObservedAt: timeField(row, "observed_at"),
		CreatedAt:  timeField(row, "created_at"),
	}
	return tx.Create(&record).Error
}

func (u *Unifier) createIndexes(_ context.Context, tx *gorm.DB, _ *unifyState) error {
	stmts := []string{
		"CREATE INDEX IF NOT EXISTS inventory_details_item_active_idx ON inventory_details (item_id, is_active)",
		"CREATE INDEX IF NOT EXISTS state_ledger_tuple_idx ON state_ledger_entries (item_id, state_type, context_id, is_active)",
		"CREATE INDEX IF NOT EXISTS shopping_details_purchased_idx ON shopping_details (item_id, purchased_at)",
	}
	for _, stmt := range stmts {
		if err := tx.Exec(stmt).Error; err != nil {
			return err
		}
	}
	return nil
}

func (u *Unifier) backupLegacyTables(_ context.Context, tx *gorm.DB, _ *unifyState) error {
	for _, table := range legacyTables {
		if !tx.Migrator().HasTable(table) {
			continue
		}
		backup := fmt.Sprintf("%s_backup_%d", table, TargetVersion)
		if err := tx.Exec(fmt.Sprintf("ALTER TABLE %s RENAME TO %s", table, backup)).Error; err != nil {
			return fmt.Errorf("snapshotting %s: %w", table, err)
		}
	}
	return nil
}
