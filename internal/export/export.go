package export

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/homestockhq/homestock-backend/pkg/db/models"
	pkgerrors "github.com/homestockhq/homestock-backend/pkg/errors"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// ItemExport is one identity with everything hanging off it.
type ItemExport struct {
	Item             models.Item              `json:"item"`
	InventoryDetails []models.InventoryDetail `json:"inventory_details,omitempty"`
	Wishlist         *models.WishlistDetail   `json:"wishlist,omitempty"`
	Ledger           []models.StateLedgerEntry `json:"ledger,omitempty"`
}

// Snapshot is the full machine-readable export. No formatting happens here;
// consumers render it however they like.
type Snapshot struct {
	GeneratedAt time.Time             `json:"generated_at"`
	Items       []ItemExport          `json:"items"`
	Warranties  []models.Warranty     `json:"warranties,omitempty"`
	Borrows     []models.BorrowRecord `json:"borrows,omitempty"`
}

// Service produces read-only export snapshots.
type Service interface {
	Snapshot(ctx context.Context) (*Snapshot, error)
}

type service struct {
	db  *gorm.DB
	tx  txRunner
	now func() time.Time
}

// NewService builds an export service over the shared database handle.
func NewService(db *gorm.DB, tx txRunner) (Service, error) {
	if db == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "database handle required")
	}
	if tx == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "transaction runner required")
	}
	return &service{db: db, tx: tx, now: time.Now}, nil
}

// Snapshot reads everything inside one transaction so the export is
// internally consistent.
func (s *service) Snapshot(ctx context.Context) (*Snapshot, error) {
	out := &Snapshot{GeneratedAt: s.now().UTC()}

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		var items []models.Item
		if err := tx.WithContext(ctx).Order("created_at ASC").Find(&items).Error; err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reading items")
		}

		var details []models.InventoryDetail
		if err := tx.WithContext(ctx).Order("created_at ASC").Find(&details).Error; err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reading inventory details")
		}
		detailsByItem := map[uuid.UUID][]models.InventoryDetail{}
		for _, detail := range details {
			detailsByItem[detail.ItemID] = append(detailsByItem[detail.ItemID], detail)
		}

		var wishes []models.WishlistDetail
		if err := tx.WithContext(ctx).Find(&wishes).Error; err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reading wishlist")
		}
		wishByItem := map[uuid.UUID]*models.WishlistDetail{}
		for i := range wishes {
			wishByItem[wishes[i].ItemID] = &wishes[i]
		}

		var entries []models.StateLedgerEntry
		if err := tx.WithContext(ctx).Order("activated_at ASC").Find(&entries).Error; err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reading ledger")
		}
		entriesByItem := map[uuid.UUID][]models.StateLedgerEntry{}
		for _, entry := range entries {
			entriesByItem[entry.ItemID] = append(entriesByItem[entry.ItemID], entry)
		}

		out.Items = make([]ItemExport, 0, len(items))
		for _, item := range items {
			out.Items = append(out.Items, ItemExport{
				Item:             item,
				InventoryDetails: detailsByItem[item.ID],
				Wishlist:         wishByItem[item.ID],
				Ledger:           entriesByItem[item.ID],
			})
		}

		if err := tx.WithContext(ctx).Order("ends_at ASC").Find(&out.Warranties).Error; err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reading warranties")
		}
		if err := tx.WithContext(ctx).Order("lent_at ASC").Find(&out.Borrows).Error; err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reading borrow records")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
