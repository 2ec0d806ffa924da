package inventory

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/homestockhq/homestock-backend/pkg/db/models"
)

// Repository manages persistence for inventory stock instances.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Insert(ctx context.Context, detail *models.InventoryDetail) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.InventoryDetail, error)
	Update(ctx context.Context, detail *models.InventoryDetail) error
	ListByItem(ctx context.Context, itemID uuid.UUID, activeOnly bool) ([]models.InventoryDetail, error)
	CountActiveByItem(ctx context.Context, itemID uuid.UUID) (int64, error)
	Deactivate(ctx context.Context, id uuid.UUID) (bool, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns an inventory repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Insert(ctx context.Context, detail *models.InventoryDetail) error {
	return r.db.WithContext(ctx).Create(detail).Error
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*models.InventoryDetail, error) {
	var detail models.InventoryDetail
	if err := r.db.WithContext(ctx).First(&detail, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &detail, nil
}

func (r *repository) Update(ctx context.Context, detail *models.InventoryDetail) error {
	return r.db.WithContext(ctx).Save(detail).Error
}

func (r *repository) ListByItem(ctx context.Context, itemID uuid.UUID, activeOnly bool) ([]models.InventoryDetail, error) {
	query := r.db.WithContext(ctx).Where("item_id = ?", itemID)
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}
	var details []models.InventoryDetail
	if err := query.Order("created_at ASC").Find(&details).Error; err != nil {
		return nil, err
	}
	return details, nil
}

func (r *repository) CountActiveByItem(ctx context.Context, itemID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.InventoryDetail{}).
		Where("item_id = ? AND is_active = ?", itemID, true).
		Count(&count).Error
	return count, err
}

func (r *repository) Deactivate(ctx context.Context, id uuid.UUID) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&models.InventoryDetail{}).
		Where("id = ? AND is_active = ?", id, true).
		Update("is_active", false)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
