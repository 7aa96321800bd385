// Package orm is a thin fluent wrapper around gorm. Repositories build
// queries through it so caching, pagination, and query metrics stay in one
// place.
package orm

import (
	"time"

	"gorm.io/gorm"

	"github.com/orderdesk/backoffice/pkg/cache"
	"github.com/orderdesk/backoffice/pkg/database"
	"github.com/orderdesk/backoffice/pkg/metrics"
)

// Pagination is the metadata returned alongside paginated result sets.
type Pagination struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
	Pages int   `json:"pages"`
}

type Query struct {
	db *gorm.DB
}

// DB starts a query chain on the shared connection.
func DB() *Query {
	return &Query{db: database.DB}
}

// Wrap starts a query chain on an explicit gorm.DB (transactions, tests).
func Wrap(db *gorm.DB) *Query {
	return &Query{db: db}
}

// Gorm exposes the underlying handle for the rare raw escape hatch.
func (q *Query) Gorm() *gorm.DB { return q.db }

func (q *Query) Model(v interface{}) *Query {
	return &Query{db: q.db.Model(v)}
}

func (q *Query) Where(query string, args ...interface{}) *Query {
	return &Query{db: q.db.Where(query, args...)}
}

func (q *Query) Preload(association string) *Query {
	return &Query{db: q.db.Preload(association)}
}

func (q *Query) Order(expr string) *Query {
	return &Query{db: q.db.Order(expr)}
}

func (q *Query) Limit(n int) *Query {
	return &Query{db: q.db.Limit(n)}
}

// Get loads all matching rows into dest.
func (q *Query) Get(dest interface{}) error {
	defer metrics.ObserveDBQuery("select", time.Now())
	return q.db.Find(dest).Error
}

// First loads the first matching row. Returns gorm.ErrRecordNotFound when
// nothing matches.
func (q *Query) First(dest interface{}) error {
	defer metrics.ObserveDBQuery("select", time.Now())
	return q.db.First(dest).Error
}

// Count returns the number of matching rows.
func (q *Query) Count() (int64, error) {
	defer metrics.ObserveDBQuery("select", time.Now())
	var n int64
	err := q.db.Count(&n).Error
	return n, err
}

// Create inserts v.
func (q *Query) Create(v interface{}) error {
	defer metrics.ObserveDBQuery("insert", time.Now())
	return q.db.Create(v).Error
}

// Save upserts v (full-row write).
func (q *Query) Save(v interface{}) error {
	defer metrics.ObserveDBQuery("update", time.Now())
	return q.db.Save(v).Error
}

// Updates applies a partial update; only keys present in fields change.
func (q *Query) Updates(fields map[string]interface{}) error {
	defer metrics.ObserveDBQuery("update", time.Now())
	return q.db.Updates(fields).Error
}

// Delete removes v (soft delete when the model embeds gorm.DeletedAt).
func (q *Query) Delete(v interface{}) error {
	defer metrics.ObserveDBQuery("delete", time.Now())
	return q.db.Delete(v).Error
}

// GetWithPagination loads one page of results into dest and returns the
// pagination metadata. page is 1-based; limit is clamped to [1,100].
func (q *Query) GetWithPagination(dest interface{}, page, limit int) (Pagination, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}

	total, err := (&Query{db: q.db.Session(&gorm.Session{})}).Count()
	if err != nil {
		return Pagination{}, err
	}

	defer metrics.ObserveDBQuery("select", time.Now())
	err = q.db.Offset((page - 1) * limit).Limit(limit).Find(dest).Error
	if err != nil {
		return Pagination{}, err
	}

	pages := int((total + int64(limit) - 1) / int64(limit))
	return Pagination{Page: page, Limit: limit, Total: total, Pages: pages}, nil
}

// Cache loads dest from Redis under key, falling back to the database and
// populating the cache on a miss.
func (q *Query) Cache(key string, ttl time.Duration, dest interface{}) error {
	if cache.Get(key, dest) {
		metrics.CacheHits.WithLabelValues("redis").Inc()
		return nil
	}
	metrics.CacheMisses.WithLabelValues("redis").Inc()

	if err := q.Get(dest); err != nil {
		return err
	}

	return cache.Set(key, dest, ttl)
}
