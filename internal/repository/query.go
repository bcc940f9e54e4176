package repository

import (
	"strings"

	"gorm.io/gorm"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// ListQuery describes a back-office list request: free-text search over a
// fixed set of columns, exact-match filters and pagination.
type ListQuery struct {
	Search       string
	SearchFields []string
	Filters      map[string]interface{}
	Page         int
	Limit        int
	OrderBy      string
}

func (q ListQuery) normalized() ListQuery {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit < 1 {
		q.Limit = DefaultPageSize
	}
	if q.Limit > MaxPageSize {
		q.Limit = MaxPageSize
	}
	if q.OrderBy == "" {
		q.OrderBy = "id DESC"
	}
	return q
}

// where applies search and filters; SearchFields and OrderBy come from code,
// never from the request.
func (q ListQuery) where(db *gorm.DB) *gorm.DB {
	if len(q.Filters) > 0 {
		db = db.Where(q.Filters)
	}

	search := strings.TrimSpace(q.Search)
	if search != "" && len(q.SearchFields) > 0 {
		pattern := "%" + strings.ToLower(search) + "%"
		clauses := make([]string, len(q.SearchFields))
		args := make([]interface{}, len(q.SearchFields))
		for i, field := range q.SearchFields {
			clauses[i] = "LOWER(" + field + ") LIKE ?"
			args[i] = pattern
		}
		db = db.Where("("+strings.Join(clauses, " OR ")+")", args...)
	}
	return db
}

// list counts the rows matching q and loads the requested page into dest.
func list[T any](db *gorm.DB, q ListQuery, dest *[]T, preload ...string) (int64, error) {
	q = q.normalized()

	var total int64
	query := q.where(db.Model(new(T)))
	if err := query.Count(&total).Error; err != nil {
		return 0, err
	}

	query = q.where(db.Model(new(T)))
	for _, p := range preload {
		query = query.Preload(p)
	}
	err := query.Order(q.OrderBy).Limit(q.Limit).Offset((q.Page - 1) * q.Limit).Find(dest).Error
	return total, err
}
