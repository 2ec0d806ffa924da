package rules

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/homestockhq/homestock-backend/pkg/db/models"
)

// Repository manages thresholds, custom rules, warranties and the evaluation
// snapshot reads.
type Repository interface {
	WithTx(tx *gorm.DB) Repository

	UpsertThreshold(ctx context.Context, threshold *models.CategoryThreshold) error
	GetThreshold(ctx context.Context, category string) (*models.CategoryThreshold, error)
	ListThresholds(ctx context.Context) ([]models.CategoryThreshold, error)
	DeleteThreshold(ctx context.Context, category string) (bool, error)

	InsertRule(ctx context.Context, rule *models.CustomRule) error
	GetRule(ctx context.Context, id uuid.UUID) (*models.CustomRule, error)
	ListRules(ctx context.Context, enabledOnly bool) ([]models.CustomRule, error)
	UpdateRule(ctx context.Context, rule *models.CustomRule) error
	DeleteRule(ctx context.Context, id uuid.UUID) (bool, error)

	InsertWarranty(ctx context.Context, warranty *models.Warranty) error
	ListWarranties(ctx context.Context) ([]models.Warranty, error)
	DeleteWarranty(ctx context.Context, id uuid.UUID) (bool, error)

	ActiveInventory(ctx context.Context) ([]StockItem, error)
	WarrantiesWithNames(ctx context.Context) ([]WarrantyItem, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a rules repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) UpsertThreshold(ctx context.Context, threshold *models.CategoryThreshold) error {
	return r.db.WithContext(ctx).Save(threshold).Error
}

func (r *repository) GetThreshold(ctx context.Context, category string) (*models.CategoryThreshold, error) {
	var threshold models.CategoryThreshold
	if err := r.db.WithContext(ctx).First(&threshold, "category = ?", category).Error; err != nil {
		return nil, err
	}
	return &threshold, nil
}

func (r *repository) ListThresholds(ctx context.Context) ([]models.CategoryThreshold, error) {
	var thresholds []models.CategoryThreshold
	if err := r.db.WithContext(ctx).Order("category ASC").Find(&thresholds).Error; err != nil {
		return nil, err
	}
	return thresholds, nil
}

func (r *repository) DeleteThreshold(ctx context.Context, category string) (bool, error) {
	result := r.db.WithContext(ctx).Where("category = ?", category).Delete(&models.CategoryThreshold{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *repository) InsertRule(ctx context.Context, rule *models.CustomRule) error {
	return r.db.WithContext(ctx).Create(rule).Error
}

func (r *repository) GetRule(ctx context.Context, id uuid.UUID) (*models.CustomRule, error) {
	var rule models.CustomRule
	if err := r.db.WithContext(ctx).First(&rule, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &rule, nil
}

func (r *repository) ListRules(ctx context.Context, enabledOnly bool) ([]models.CustomRule, error) {
	query := r.db.WithContext(ctx).Model(&models.CustomRule{})
	if enabledOnly {
		query = query.Where("enabled = ?", true)
	}
	var rules []models.CustomRule
	if err := query.Order("created_at ASC").Find(&rules).Error; err != nil {
		return nil, err
	}
	return rules, nil
}

func (r *repository) UpdateRule(ctx context.Context, rule *models.CustomRule) error {
	return r.db.WithContext(ctx).Save(rule).Error
}

func (r *repository) DeleteRule(ctx context.Context, id uuid.UUID) (bool, error) {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.CustomRule{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *repository) InsertWarranty(ctx context.Context, warranty *models.Warranty) error {
	return r.db.WithContext(ctx).Create(warranty).Error
}

func (r *repository) ListWarranties(ctx context.Context) ([]models.Warranty, error) {
	var warranties []models.Warranty
	if err := r.db.WithContext(ctx).Order("ends_at ASC").Find(&warranties).Error; err != nil {
		return nil, err
	}
	return warranties, nil
}

func (r *repository) DeleteWarranty(ctx context.Context, id uuid.UUID) (bool, error) {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Warranty{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// ActiveInventory joins active details with their identity rows.
func (r *repository) ActiveInventory(ctx context.Context) ([]StockItem, error) {
	var details []models.InventoryDetail
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("created_at ASC").
		Find(&details).Error
	if err != nil {
		return nil, err
	}
	if len(details) == 0 {
		return nil, nil
	}

	ids := make([]uuid.UUID, 0, len(details))
	seen := map[uuid.UUID]bool{}
	for _, detail := range details {
		if !seen[detail.ItemID] {
			seen[detail.ItemID] = true
			ids = append(ids, detail.ItemID)
		}
	}
	var itemRows []models.Item
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&itemRows).Error; err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]models.Item, len(itemRows))
	for _, item := range itemRows {
		byID[item.ID] = item
	}

	stock := make([]StockItem, 0, len(details))
	for _, detail := range details {
		item, ok := byID[detail.ItemID]
		if !ok {
			continue
		}
		stock = append(stock, StockItem{Item: item, Detail: detail})
	}
	return stock, nil
}

func (r *repository) WarrantiesWithNames(ctx context.Context) ([]WarrantyItem, error) {
	warranties, err := r.ListWarranties(ctx)
	if err != nil {
		return nil, err
	}
	if len(warranties) == 0 {
		return nil, nil
	}

	ids := make([]uuid.UUID, 0, len(warranties))
	for _, warranty := range warranties {
		ids = append(ids, warranty.ItemID)
	}
	var itemRows []models.Item
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&itemRows).Error; err != nil {
		return nil, err
	}
	names := make(map[uuid.UUID]string, len(itemRows))
	for _, item := range itemRows {
		names[item.ID] = item.Name
	}

	joined := make([]WarrantyItem, 0, len(warranties))
	for _, warranty := range warranties {
		joined = append(joined, WarrantyItem{Warranty: warranty, ItemName: names[warranty.ItemID]})
	}
	return joined, nil
}
