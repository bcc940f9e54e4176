package repository

import (
	"context"
	"fmt"

	"restaurant_site/internal/models"

	"gorm.io/gorm"
)

// Store is plain CRUD for tables without extra business rules.
type Store[T any] interface {
	Create(ctx context.Context, value *T) error
	// CreateWithID inserts a row whose primary key is already set and keeps
	// the table's id sequence ahead of it.
	CreateWithID(ctx context.Context, value *T) error
	GetByID(ctx context.Context, id uint) (*T, error)
	First(ctx context.Context) (*T, error)
	Update(ctx context.Context, value *T) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, q ListQuery) ([]T, int64, error)
}

type (
	RestaurantProfileRepository = Store[models.RestaurantProfile]
	FeedbackRepository          = Store[models.Feedback]
	ContactRepository           = Store[models.ContactSubmission]
)

type gormStore[T any] struct {
	db *gorm.DB
}

func NewStore[T any](db *gorm.DB) Store[T] {
	return &gormStore[T]{db: db}
}

func NewRestaurantProfileRepository(db *gorm.DB) RestaurantProfileRepository {
	return NewStore[models.RestaurantProfile](db)
}

func NewFeedbackRepository(db *gorm.DB) FeedbackRepository {
	return NewStore[models.Feedback](db)
}

func NewContactRepository(db *gorm.DB) ContactRepository {
	return NewStore[models.ContactSubmission](db)
}

func (r *gormStore[T]) Create(ctx context.Context, value *T) error {
	return r.db.WithContext(ctx).Create(value).Error
}

func (r *gormStore[T]) CreateWithID(ctx context.Context, value *T) error {
	db := r.db.WithContext(ctx)
	if err := db.Create(value).Error; err != nil {
		return err
	}
	return syncSequence(db, value)
}

// syncSequence moves a postgres serial sequence past the highest stored id.
// Other drivers derive the next id from the table itself.
func syncSequence(db *gorm.DB, model interface{}) error {
	if db.Dialector.Name() != "postgres" {
		return nil
	}
	stmt := &gorm.Statement{DB: db}
	if err := stmt.Parse(model); err != nil {
		return fmt.Errorf("failed to parse model: %w", err)
	}
	if err := db.Exec(sequenceResetSQL(stmt.Schema.Table)).Error; err != nil {
		return fmt.Errorf("failed to sync %s id sequence: %w", stmt.Schema.Table, err)
	}
	return nil
}

func sequenceResetSQL(table string) string {
	return fmt.Sprintf(
		"SELECT setval(pg_get_serial_sequence('%[1]s', 'id'), COALESCE((SELECT MAX(id) FROM %[1]s), 1))",
		table,
	)
}

func (r *gormStore[T]) GetByID(ctx context.Context, id uint) (*T, error) {
	var value T
	err := r.db.WithContext(ctx).First(&value, id).Error
	if err != nil {
		return nil, err
	}
	return &value, nil
}

func (r *gormStore[T]) First(ctx context.Context) (*T, error) {
	var value T
	err := r.db.WithContext(ctx).Order("id").First(&value).Error
	if err != nil {
		return nil, err
	}
	return &value, nil
}

func (r *gormStore[T]) Update(ctx context.Context, value *T) error {
	return r.db.WithContext(ctx).Save(value).Error
}

func (r *gormStore[T]) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(new(T), id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *gormStore[T]) List(ctx context.Context, q ListQuery) ([]T, int64, error) {
	var values []T
	total, err := list(r.db.WithContext(ctx), q, &values)
	return values, total, err
}
