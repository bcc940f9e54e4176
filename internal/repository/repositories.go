package repository

import (
	"context"

	"gorm.io/gorm"
)

// Repositories bundles every repository over one connection or transaction.
type Repositories struct {
	db *gorm.DB

	Users          UserRepository
	Profiles       RestaurantProfileRepository
	Configurations ConfigurationRepository
	Locations      LocationRepository
	MenuItems      MenuItemRepository
	Orders         OrderRepository
	OrderItems     OrderItemRepository
	Feedback       FeedbackRepository
	Contacts       ContactRepository
}

func New(db *gorm.DB) *Repositories {
	return &Repositories{
		db:             db,
		Users:          NewUserRepository(db),
		Profiles:       NewRestaurantProfileRepository(db),
		Configurations: NewConfigurationRepository(db),
		Locations:      NewLocationRepository(db),
		MenuItems:      NewMenuItemRepository(db),
		Orders:         NewOrderRepository(db),
		OrderItems:     NewOrderItemRepository(db),
		Feedback:       NewFeedbackRepository(db),
		Contacts:       NewContactRepository(db),
	}
}

// Transaction runs fn with repositories bound to a single transaction. The
// transaction commits when fn returns nil and rolls back otherwise.
func (r *Repositories) Transaction(ctx context.Context, fn func(tx *Repositories) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(New(tx))
	})
}
