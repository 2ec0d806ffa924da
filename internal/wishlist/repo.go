package wishlist

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/homestockhq/homestock-backend/pkg/db/models"
)

// Repository manages persistence for wishlist records and observed prices.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Insert(ctx context.Context, detail *models.WishlistDetail) error
	GetByItem(ctx context.Context, itemID uuid.UUID) (*models.WishlistDetail, error)
	Update(ctx context.Context, detail *models.WishlistDetail) error
	List(ctx context.Context) ([]models.WishlistDetail, error)
	Delete(ctx context.Context, itemID uuid.UUID) (bool, error)
	InsertPriceRecord(ctx context.Context, record *models.PriceRecord) error
	PriceHistory(ctx context.Context, itemID uuid.UUID) ([]models.PriceRecord, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a wishlist repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Insert(ctx context.Context, detail *models.WishlistDetail) error {
	return r.db.WithContext(ctx).Create(detail).Error
}

func (r *repository) GetByItem(ctx context.Context, itemID uuid.UUID) (*models.WishlistDetail, error) {
	var detail models.WishlistDetail
	if err := r.db.WithContext(ctx).First(&detail, "item_id = ?", itemID).Error; err != nil {
		return nil, err
	}
	return &detail, nil
}

func (r *repository) Update(ctx context.Context, detail *models.WishlistDetail) error {
	return r.db.WithContext(ctx).Save(detail).Error
}

func (r *repository) List(ctx context.Context) ([]models.WishlistDetail, error) {
	var details []models.WishlistDetail
	if err := r.db.WithContext(ctx).Order("created_at ASC").Find(&details).Error; err != nil {
		return nil, err
	}
	return details, nil
}

func (r *repository) Delete(ctx context.Context, itemID uuid.UUID) (bool, error) {
	result := r.db.WithContext(ctx).Where("item_id = ?", itemID).Delete(&models.WishlistDetail{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *repository) InsertPriceRecord(ctx context.Context, record *models.PriceRecord) error {
	return r.db.WithContext(ctx).Create(record).Error
}

func (r *repository) PriceHistory(ctx context.Context, itemID uuid.UUID) ([]models.PriceRecord, error) {
	var records []models.PriceRecord
	err := r.db.WithContext(ctx).
		Where("item_id = ?", itemID).
		Order("observed_at ASC").
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}
