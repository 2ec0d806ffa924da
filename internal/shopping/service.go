package shopping

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/homestockhq/homestock-backend/internal/inventory"
	"github.com/homestockhq/homestock-backend/internal/items"
	"github.com/homestockhq/homestock-backend/internal/ledger"
	"github.com/homestockhq/homestock-backend/pkg/db"
	"github.com/homestockhq/homestock-backend/pkg/db/models"
	"github.com/homestockhq/homestock-backend/pkg/enums"
	pkgerrors "github.com/homestockhq/homestock-backend/pkg/errors"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// ServiceParams groups dependencies for the shopping service.
type ServiceParams struct {
	Repo          Repository
	ItemRepo      items.Repository
	InventoryRepo inventory.Repository
	LedgerRepo    ledger.Repository
	Tx            txRunner
}

// Service exposes business rules for shopping lists. Details are provenance
// records and are never deleted; leaving a list or purchasing closes the
// SHOPPING ledger entry instead.
type Service interface {
	CreateList(ctx context.Context, input CreateListInput) (*models.ShoppingList, error)
	GetList(ctx context.Context, id uuid.UUID, openOnly bool) (*ListDTO, error)
	ListLists(ctx context.Context) ([]models.ShoppingList, error)
	AddDetail(ctx context.Context, input AddDetailInput) (*models.ShoppingDetail, error)
	RemoveDetail(ctx context.Context, detailID uuid.UUID, reason *string) error
	Purchase(ctx context.Context, detailID uuid.UUID, input PurchaseInput) (*models.InventoryDetail, error)
}

type service struct {
	repo          Repository
	itemRepo      items.Repository
	inventoryRepo inventory.Repository
	ledgerRepo    ledger.Repository
	tx            txRunner
	now           func() time.Time
}

// NewService builds a shopping service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "shopping repository required")
	}
	if params.ItemRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "item repository required")
	}
	if params.InventoryRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "inventory repository required")
	}
	if params.LedgerRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "ledger repository required")
	}
	if params.Tx == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "transaction runner required")
	}
	return &service{
		repo:          params.Repo,
		itemRepo:      params.ItemRepo,
		inventoryRepo: params.InventoryRepo,
		ledgerRepo:    params.LedgerRepo,
		tx:            params.Tx,
		now:           time.Now,
	}, nil
}

func (s *service) CreateList(ctx context.Context, input CreateListInput) (*models.ShoppingList, error) {
	list := models.ShoppingList{
		ID:        uuid.New(),
		Name:      input.Name,
		Note:      input.Note,
		CreatedAt: s.now().UTC(),
	}
	if err := s.repo.InsertList(ctx, &list); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "inserting shopping list")
	}
	return &list, nil
}

func (s *service) GetList(ctx context.Context, id uuid.UUID, openOnly bool) (*ListDTO, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "list id is required")
	}
	list, err := s.repo.GetList(ctx, id)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "shopping list not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading shopping list")
	}
	details, err := s.repo.ListDetails(ctx, id, openOnly)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "listing shopping details")
	}
	return &ListDTO{List: *list, Details: details}, nil
}

func (s *service) ListLists(ctx context.Context) ([]models.ShoppingList, error) {
	lists, err := s.repo.ListLists(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "listing shopping lists")
	}
	return lists, nil
}

// AddDetail records the membership and opens the list-scoped SHOPPING ledger
// entry in one transaction. An item already open on the same list conflicts.
func (s *service) AddDetail(ctx context.Context, input AddDetailInput) (*models.ShoppingDetail, error) {
	if input.ItemID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "item id is required")
	}
	if input.ShoppingListID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "shopping list id is required")
	}
	if !input.Quantity.IsPositive() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
	}

	var created *models.ShoppingDetail
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if _, err := s.itemRepo.WithTx(tx).GetByID(ctx, input.ItemID); err != nil {
			if db.IsNotFound(err) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "item not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading item")
		}
		if _, err := repo.GetList(ctx, input.ShoppingListID); err != nil {
			if db.IsNotFound(err) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "shopping list not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading shopping list")
		}

		ledgerRepo := s.ledgerRepo.WithTx(tx)
		listID := input.ShoppingListID
		existing, err := ledgerRepo.FindActive(ctx, input.ItemID, enums.StateTypeShopping, &listID)
		if err != nil && !db.IsNotFound(err) {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "checking shopping state")
		}
		if existing != nil {
			return pkgerrors.New(pkgerrors.CodeConflict, "item is already on this shopping list")
		}

		now := s.now().UTC()
		detail := models.ShoppingDetail{
			ID:             uuid.New(),
			ItemID:         input.ItemID,
			ShoppingListID: listID,
			Quantity:       input.Quantity,
			BudgetPrice:    input.BudgetPrice,
			CreatedAt:      now,
			UpdatedAt:      now,
		}
		if err := repo.InsertDetail(ctx, &detail); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "inserting shopping detail")
		}

		entry := models.StateLedgerEntry{
			ID:          uuid.New(),
			ItemID:      input.ItemID,
			StateType:   enums.StateTypeShopping,
			IsActive:    true,
			ActivatedAt: now,
			ContextID:   &listID,
		}
		if err := ledgerRepo.Insert(ctx, &entry); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "opening shopping state")
		}
		created = &detail
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// RemoveDetail closes the SHOPPING ledger entry. The detail row stays.
func (s *service) RemoveDetail(ctx context.Context, detailID uuid.UUID, reason *string) error {
	if detailID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "detail id is required")
	}
	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		detail, err := s.repo.WithTx(tx).GetDetail(ctx, detailID)
		if err != nil {
			if db.IsNotFound(err) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "shopping detail not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading shopping detail")
		}

		ledgerRepo := s.ledgerRepo.WithTx(tx)
		entry, err := ledgerRepo.FindActive(ctx, detail.ItemID, enums.StateTypeShopping, &detail.ShoppingListID)
		if err != nil {
			if db.IsNotFound(err) {
				return nil
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading shopping state")
		}
		if _, err := ledgerRepo.Deactivate(ctx, entry.ID, s.now().UTC(), reason); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "closing shopping state")
		}
		return nil
	})
}

// Purchase turns an open shopping detail into owned stock: the SHOPPING entry
// closes, an INVENTORY entry opens if needed, a new InventoryDetail is
// inserted and the shopping detail gets its purchase stamp. One transaction;
// any failure rolls the whole flow back.
func (s *service) Purchase(ctx context.Context, detailID uuid.UUID, input PurchaseInput) (*models.InventoryDetail, error) {
	if detailID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "detail id is required")
	}

	var created *models.InventoryDetail
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		detail, err := repo.GetDetail(ctx, detailID)
		if err != nil {
			if db.IsNotFound(err) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "shopping detail not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading shopping detail")
		}
		if detail.PurchasedAt != nil {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "shopping detail is already purchased")
		}

		now := s.now().UTC()
		ledgerRepo := s.ledgerRepo.WithTx(tx)
		entry, err := ledgerRepo.FindActive(ctx, detail.ItemID, enums.StateTypeShopping, &detail.ShoppingListID)
		if err != nil {
			if db.IsNotFound(err) {
				return pkgerrors.New(pkgerrors.CodeStateConflict, "item has no open shopping state on this list")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading shopping state")
		}
		if _, err := ledgerRepo.Deactivate(ctx, entry.ID, now, nil); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "closing shopping state")
		}

		if err := s.openInventoryState(ctx, ledgerRepo, detail.ItemID, now); err != nil {
			return err
		}

		purchaseDate := now
		invDetail := models.InventoryDetail{
			ID:              uuid.New(),
			ItemID:          detail.ItemID,
			Quantity:        detail.Quantity,
			Unit:            input.Unit,
			Location:        input.Location,
			ExpirationDate:  input.ExpirationDate,
			PurchaseDate:    &purchaseDate,
			Price:           input.Price,
			WarrantyEndDate: input.WarrantyEndDate,
			IsActive:        true,
			CreatedAt:       now,
			UpdatedAt:       now,
		}
		if err := s.inventoryRepo.WithTx(tx).Insert(ctx, &invDetail); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "inserting inventory detail")
		}

		if _, err := repo.MarkPurchased(ctx, detailID, now); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "marking detail purchased")
		}
		created = &invDetail
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (s *service) openInventoryState(ctx context.Context, ledgerRepo ledger.Repository, itemID uuid.UUID, now time.Time) error {
	_, err := ledgerRepo.FindActive(ctx, itemID, enums.StateTypeInventory, nil)
	if err == nil {
		return nil
	}
	if !db.IsNotFound(err) {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "checking inventory state")
	}
	entry := models.StateLedgerEntry{
		ID:          uuid.New(),
		ItemID:      itemID,
		StateType:   enums.StateTypeInventory,
		IsActive:    true,
		ActivatedAt: now,
	}
	if err := ledgerRepo.Insert(ctx, &entry); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "opening inventory state")
	}
	return nil
}
