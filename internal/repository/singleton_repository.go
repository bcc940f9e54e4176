package repository

import (
	"context"

	"restaurant_site/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SingletonRepository stores a table that holds at most one row, always at
// models.SingletonID.
type SingletonRepository[T any] interface {
	Get(ctx context.Context) (*T, error)
	Exists(ctx context.Context) (bool, error)
	// Upsert inserts the row or overwrites the existing one's columns. The
	// caller must set the value's ID to models.SingletonID.
	Upsert(ctx context.Context, value *T) error
}

type (
	ConfigurationRepository = SingletonRepository[models.RestaurantConfiguration]
	LocationRepository      = SingletonRepository[models.RestaurantLocation]
)

type singletonRepository[T any] struct {
	db      *gorm.DB
	columns []string
}

func newSingletonRepository[T any](db *gorm.DB, columns ...string) SingletonRepository[T] {
	return &singletonRepository[T]{db: db, columns: append(columns, "updated_at")}
}

func NewConfigurationRepository(db *gorm.DB) ConfigurationRepository {
	return newSingletonRepository[models.RestaurantConfiguration](db, "name", "tagline", "logo")
}

func NewLocationRepository(db *gorm.DB) LocationRepository {
	return newSingletonRepository[models.RestaurantLocation](db, "address", "phone", "email", "map_embed_url", "hours")
}

func (r *singletonRepository[T]) Get(ctx context.Context) (*T, error) {
	var value T
	err := r.db.WithContext(ctx).First(&value, models.SingletonID).Error
	if err != nil {
		return nil, err
	}
	return &value, nil
}

func (r *singletonRepository[T]) Exists(ctx context.Context) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(new(T)).Count(&count).Error
	return count > 0, err
}

func (r *singletonRepository[T]) Upsert(ctx context.Context, value *T) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns(r.columns),
	}).Create(value).Error
}
