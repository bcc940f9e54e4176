package repository

import (
	"context"

	"restaurant_site/internal/models"
	"restaurant_site/internal/money"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type OrderRepository interface {
	Create(ctx context.Context, order *models.Order) error
	GetByID(ctx context.Context, id uint) (*models.Order, error)
	GetByOrderNumber(ctx context.Context, number string) (*models.Order, error)
	GetByCustomerID(ctx context.Context, customerID uint) ([]models.Order, error)
	Update(ctx context.Context, order *models.Order) error
	UpdateTotal(ctx context.Context, id uint, total money.Cents) error
	// UpdateStatus sets status on every order in ids whose current status is
	// not one of skip, returning the number of rows changed.
	UpdateStatus(ctx context.Context, ids []uint, status models.OrderStatus, skip ...models.OrderStatus) (int64, error)
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, q ListQuery) ([]models.Order, int64, error)
}

type orderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepository{db: db}
}

func (r *orderRepository) Create(ctx context.Context, order *models.Order) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(order).Error
}

func (r *orderRepository) GetByID(ctx context.Context, id uint) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("id") }).
		Preload("Items.MenuItem").
		Preload("Customer").
		First(&order, id).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *orderRepository) GetByOrderNumber(ctx context.Context, number string) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Preload("Items.MenuItem").
		Where("order_number = ?", number).
		First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *orderRepository) GetByCustomerID(ctx context.Context, customerID uint) ([]models.Order, error) {
	var orders []models.Order
	err := r.db.WithContext(ctx).
		Preload("Items.MenuItem").
		Where("customer_id = ?", customerID).
		Order("created_at DESC").
		Find(&orders).Error
	return orders, err
}

func (r *orderRepository) Update(ctx context.Context, order *models.Order) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(order).Error
}

func (r *orderRepository) UpdateTotal(ctx context.Context, id uint, total money.Cents) error {
	return r.db.WithContext(ctx).Model(&models.Order{}).
		Where("id = ?", id).
		Update("total_amount_cents", total).Error
}

func (r *orderRepository) UpdateStatus(ctx context.Context, ids []uint, status models.OrderStatus, skip ...models.OrderStatus) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	query := r.db.WithContext(ctx).Model(&models.Order{}).Where("id IN ?", ids)
	if len(skip) > 0 {
		skipped := make([]string, len(skip))
		for i, st := range skip {
			skipped[i] = string(st)
		}
		query = query.Where("status NOT IN ?", skipped)
	}
	result := query.Update("status", string(status))
	return result.RowsAffected, result.Error
}

func (r *orderRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.Order{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *orderRepository) List(ctx context.Context, q ListQuery) ([]models.Order, int64, error) {
	var orders []models.Order
	total, err := list(r.db.WithContext(ctx), q, &orders, "Customer")
	return orders, total, err
}
