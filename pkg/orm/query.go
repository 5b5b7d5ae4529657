// Package orm is a thin chainable wrapper over the shared *gorm.DB handle.
// Repositories build queries through it so the DB handle stays in one place.
package orm

import (
	"time"

	"github.com/shashiranjanraj/sweetshop/pkg/database"
	"gorm.io/gorm"
)

// Cacher is the read-through cache used by Query.Cache. The HTTP kernel
// bridges this to pkg/cache at boot so neither package imports the other.
type Cacher interface {
	Get(key string, dest interface{}) bool
	Set(key string, value interface{}, ttl time.Duration) error
}

// CacheStore is set once at boot; nil disables read-through caching.
var CacheStore Cacher

type Query struct {
	db *gorm.DB
}

func DB() *Query {
	return &Query{db: database.DB}
}

// With wraps an explicit gorm handle (used by tests and CLI commands).
func With(db *gorm.DB) *Query {
	return &Query{db: db}
}

func (q *Query) Model(v interface{}) *Query {
	return &Query{db: q.db.Model(v)}
}

func (q *Query) Where(query string, args ...interface{}) *Query {
	return &Query{db: q.db.Where(query, args...)}
}

func (q *Query) Order(value string) *Query {
	return &Query{db: q.db.Order(value)}
}

func (q *Query) Get(dest interface{}) error {
	return q.db.Find(dest).Error
}

func (q *Query) First(dest interface{}) error {
	return q.db.First(dest).Error
}

func (q *Query) Create(v interface{}) error {
	return q.db.Create(v).Error
}

func (q *Query) Save(v interface{}) error {
	return q.db.Save(v).Error
}

// Updates applies the given column assignments and reports how many rows
// matched. Values may contain gorm.Expr for in-place arithmetic, which is
// what makes single-statement conditional stock mutations possible.
func (q *Query) Updates(values map[string]interface{}) (int64, error) {
	tx := q.db.Updates(values)
	return tx.RowsAffected, tx.Error
}

// Delete removes matching rows and reports how many were deleted.
func (q *Query) Delete(v interface{}) (int64, error) {
	tx := q.db.Delete(v)
	return tx.RowsAffected, tx.Error
}

func (q *Query) Count(n *int64) error {
	return q.db.Count(n).Error
}

// Cache is a read-through helper: it serves dest from CacheStore when the key
// is present, otherwise runs the query and populates the cache.
func (q *Query) Cache(key string, ttl time.Duration, dest interface{}) error {
	if CacheStore != nil && CacheStore.Get(key, dest) {
		return nil
	}

	if err := q.db.Find(dest).Error; err != nil {
		return err
	}

	if CacheStore != nil {
		_ = CacheStore.Set(key, dest, ttl)
	}
	return nil
}
