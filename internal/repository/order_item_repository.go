package repository

import (
	"context"

	"restaurant_site/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type OrderItemRepository interface {
	Create(ctx context.Context, orderItem *models.OrderItem) error
	GetByID(ctx context.Context, id uint) (*models.OrderItem, error)
	GetByOrderID(ctx context.Context, orderID uint) ([]models.OrderItem, error)
	FindByOrderAndMenuItem(ctx context.Context, orderID, menuItemID uint) (*models.OrderItem, error)
	CountByMenuItemIDs(ctx context.Context, menuItemIDs []uint) (int64, error)
	Update(ctx context.Context, orderItem *models.OrderItem) error
	Delete(ctx context.Context, id uint) error
}

type orderItemRepository struct {
	db *gorm.DB
}

func NewOrderItemRepository(db *gorm.DB) OrderItemRepository {
	return &orderItemRepository{db: db}
}

func (r *orderItemRepository) Create(ctx context.Context, orderItem *models.OrderItem) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(orderItem).Error
}

func (r *orderItemRepository) GetByID(ctx context.Context, id uint) (*models.OrderItem, error) {
	var orderItem models.OrderItem
	err := r.db.WithContext(ctx).Preload("MenuItem").First(&orderItem, id).Error
	if err != nil {
		return nil, err
	}
	return &orderItem, nil
}

func (r *orderItemRepository) GetByOrderID(ctx context.Context, orderID uint) ([]models.OrderItem, error) {
	var orderItems []models.OrderItem
	err := r.db.WithContext(ctx).
		Preload("MenuItem").
		Where("order_id = ?", orderID).
		Order("id").
		Find(&orderItems).Error
	if err != nil {
		return nil, err
	}
	return orderItems, nil
}

func (r *orderItemRepository) FindByOrderAndMenuItem(ctx context.Context, orderID, menuItemID uint) (*models.OrderItem, error) {
	var orderItem models.OrderItem
	err := r.db.WithContext(ctx).
		Where("order_id = ? AND menu_item_id = ?", orderID, menuItemID).
		First(&orderItem).Error
	if err != nil {
		return nil, err
	}
	return &orderItem, nil
}

func (r *orderItemRepository) CountByMenuItemIDs(ctx context.Context, menuItemIDs []uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.OrderItem{}).
		Where("menu_item_id IN ?", menuItemIDs).
		Count(&count).Error
	return count, err
}

func (r *orderItemRepository) Update(ctx context.Context, orderItem *models.OrderItem) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(orderItem).Error
}

func (r *orderItemRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.OrderItem{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
