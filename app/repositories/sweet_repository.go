package repositories

import (
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/sweetshop/app/models"
	"github.com/shashiranjanraj/sweetshop/pkg/orm"
)

// SweetRepository handles database operations for Sweet.
type SweetRepository struct{}

func NewSweetRepository() *SweetRepository {
	return &SweetRepository{}
}

// catalogCacheKey caches the full sweet listing; invalidated on every write.
const catalogCacheKey = "sweetshop:catalog:all"

// SearchFilter narrows a catalog search. Nil price bounds mean unbounded.
type SearchFilter struct {
	Name     string
	Category string
	MinPrice *float64
	MaxPrice *float64
}

// All returns every sweet, served from cache when warm.
func (r *SweetRepository) All() ([]models.Sweet, error) {
	var sweets []models.Sweet
	err := orm.DB().Model(&models.Sweet{}).Order("id asc").
		Cache(catalogCacheKey, 30*time.Second, &sweets)
	return sweets, err
}

// FindByID looks up a sweet by primary key.
func (r *SweetRepository) FindByID(id uint) (models.Sweet, error) {
	var sweet models.Sweet
	err := orm.DB().Model(&models.Sweet{}).Where("id = ?", id).First(&sweet)
	return sweet, err
}

// Exists reports whether a sweet with the given ID exists.
func (r *SweetRepository) Exists(id uint) bool {
	var n int64
	if err := orm.DB().Model(&models.Sweet{}).Where("id = ?", id).Count(&n); err != nil {
		return false
	}
	return n > 0
}

// Create persists a new sweet.
func (r *SweetRepository) Create(sweet *models.Sweet) error {
	defer r.invalidate()
	return orm.DB().Create(sweet)
}

// UpdateFields applies a partial update to the sweet with the given ID.
// Returns the number of rows matched (0 means the sweet does not exist).
func (r *SweetRepository) UpdateFields(id uint, fields map[string]interface{}) (int64, error) {
	defer r.invalidate()
	return orm.DB().Model(&models.Sweet{}).Where("id = ?", id).Updates(fields)
}

// Delete removes the sweet with the given ID.
// Returns the number of rows deleted (0 means the sweet does not exist).
func (r *SweetRepository) Delete(id uint) (int64, error) {
	defer r.invalidate()
	return orm.DB().Where("id = ?", id).Delete(&models.Sweet{})
}

// Search returns sweets matching the filter. Name and category matching is
// a case-insensitive substring match; price bounds are inclusive.
func (r *SweetRepository) Search(f SearchFilter) ([]models.Sweet, error) {
	q := orm.DB().Model(&models.Sweet{})

	if f.Name != "" {
		q = q.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(f.Name)+"%")
	}
	if f.Category != "" {
		q = q.Where("LOWER(category) LIKE ?", "%"+strings.ToLower(f.Category)+"%")
	}
	if f.MinPrice != nil {
		q = q.Where("price >= ?", *f.MinPrice)
	}
	if f.MaxPrice != nil {
		q = q.Where("price <= ?", *f.MaxPrice)
	}

	var sweets []models.Sweet
	err := q.Order("id asc").Get(&sweets)
	return sweets, err
}

// DecrementStock atomically decrements quantity by one, but only when stock
// remains. The conditional UPDATE makes concurrent purchases safe: each
// statement either claims a unit or matches zero rows.
func (r *SweetRepository) DecrementStock(id uint) (int64, error) {
	defer r.invalidate()
	return orm.DB().Model(&models.Sweet{}).
		Where("id = ? AND quantity > 0", id).
		Updates(map[string]interface{}{"quantity": gorm.Expr("quantity - 1")})
}

// IncrementStock atomically adds amount units to the sweet's stock.
func (r *SweetRepository) IncrementStock(id uint, amount int) (int64, error) {
	defer r.invalidate()
	return orm.DB().Model(&models.Sweet{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"quantity": gorm.Expr("quantity + ?", amount)})
}

func (r *SweetRepository) invalidate() {
	if orm.CacheStore != nil {
		if f, ok := orm.CacheStore.(interface{ Forget(string) error }); ok {
			_ = f.Forget(catalogCacheKey)
		}
	}
}
