package repository

import (
	"context"
	"time"

	"restaurant_site/internal/models"

	"gorm.io/gorm"
)

// MenuFilter narrows the public menu listing. Nil fields are not applied.
type MenuFilter struct {
	Category      string
	IsVegetarian  *bool
	AvailableOnly bool
}

type MenuItemRepository interface {
	Create(ctx context.Context, item *models.MenuItem) error
	GetByID(ctx context.Context, id uint) (*models.MenuItem, error)
	Find(ctx context.Context, filter MenuFilter) ([]models.MenuItem, error)
	Update(ctx context.Context, item *models.MenuItem) error
	// ToggleAvailability flips is_available on every item in ids.
	ToggleAvailability(ctx context.Context, ids []uint) (int64, error)
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, q ListQuery) ([]models.MenuItem, int64, error)
}

type menuItemRepository struct {
	db *gorm.DB
}

func NewMenuItemRepository(db *gorm.DB) MenuItemRepository {
	return &menuItemRepository{db: db}
}

func (r *menuItemRepository) Create(ctx context.Context, item *models.MenuItem) error {
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *menuItemRepository) GetByID(ctx context.Context, id uint) (*models.MenuItem, error) {
	var item models.MenuItem
	err := r.db.WithContext(ctx).First(&item, id).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *menuItemRepository) Find(ctx context.Context, filter MenuFilter) ([]models.MenuItem, error) {
	query := r.db.WithContext(ctx).Model(&models.MenuItem{})
	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}
	if filter.IsVegetarian != nil {
		query = query.Where("is_vegetarian = ?", *filter.IsVegetarian)
	}
	if filter.AvailableOnly {
		query = query.Where("is_available = ?", true)
	}

	var items []models.MenuItem
	err := query.Order("category").Order("name").Find(&items).Error
	return items, err
}

func (r *menuItemRepository) Update(ctx context.Context, item *models.MenuItem) error {
	return r.db.WithContext(ctx).Save(item).Error
}

func (r *menuItemRepository) ToggleAvailability(ctx context.Context, ids []uint) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	result := r.db.WithContext(ctx).Model(&models.MenuItem{}).
		Where("id IN ?", ids).
		Updates(map[string]interface{}{
			"is_available": gorm.Expr("NOT is_available"),
			"updated_at":   time.Now(),
		})
	return result.RowsAffected, result.Error
}

func (r *menuItemRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.MenuItem{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *menuItemRepository) List(ctx context.Context, q ListQuery) ([]models.MenuItem, int64, error) {
	var items []models.MenuItem
	total, err := list(r.db.WithContext(ctx), q, &items)
	return items, total, err
}
