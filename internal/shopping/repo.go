package shopping

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/homestockhq/homestock-backend/pkg/db/models"
)

// Repository manages persistence for shopping lists and their details.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	InsertList(ctx context.Context, list *models.ShoppingList) error
	GetList(ctx context.Context, id uuid.UUID) (*models.ShoppingList, error)
	ListLists(ctx context.Context) ([]models.ShoppingList, error)
	InsertDetail(ctx context.Context, detail *models.ShoppingDetail) error
	GetDetail(ctx context.Context, id uuid.UUID) (*models.ShoppingDetail, error)
	ListDetails(ctx context.Context, listID uuid.UUID, openOnly bool) ([]models.ShoppingDetail, error)
	MarkPurchased(ctx context.Context, id uuid.UUID, at time.Time) (bool, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a shopping repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) InsertList(ctx context.Context, list *models.ShoppingList) error {
	return r.db.WithContext(ctx).Create(list).Error
}

func (r *repository) GetList(ctx context.Context, id uuid.UUID) (*models.ShoppingList, error) {
	var list models.ShoppingList
	if err := r.db.WithContext(ctx).First(&list, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &list, nil
}

func (r *repository) ListLists(ctx context.Context) ([]models.ShoppingList, error) {
	var lists []models.ShoppingList
	if err := r.db.WithContext(ctx).Order("created_at ASC").Find(&lists).Error; err != nil {
		return nil, err
	}
	return lists, nil
}

func (r *repository) InsertDetail(ctx context.Context, detail *models.ShoppingDetail) error {
	return r.db.WithContext(ctx).Create(detail).Error
}

func (r *repository) GetDetail(ctx context.Context, id uuid.UUID) (*models.ShoppingDetail, error) {
	var detail models.ShoppingDetail
	if err := r.db.WithContext(ctx).First(&detail, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &detail, nil
}

func (r *repository) ListDetails(ctx context.Context, listID uuid.UUID, openOnly bool) ([]models.ShoppingDetail, error) {
	query := r.db.WithContext(ctx).Where("shopping_list_id = ?", listID)
	if openOnly {
		query = query.Where("purchased_at IS NULL")
	}
	var details []models.ShoppingDetail
	if err := query.Order("created_at ASC").Find(&details).Error; err != nil {
		return nil, err
	}
	return details, nil
}

// MarkPurchased stamps the detail once. The guard keeps a double purchase
// from overwriting the original timestamp.
func (r *repository) MarkPurchased(ctx context.Context, id uuid.UUID, at time.Time) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&models.ShoppingDetail{}).
		Where("id = ? AND purchased_at IS NULL", id).
		Updates(map[string]any{"purchased_at": at, "updated_at": at})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
