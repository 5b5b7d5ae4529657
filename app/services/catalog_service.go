package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/sweetshop/app/models"
	"github.com/shashiranjanraj/sweetshop/app/repositories"
	"github.com/shashiranjanraj/sweetshop/pkg/logger"
	"github.com/shashiranjanraj/sweetshop/pkg/storage"
)

// CatalogService implements sweet CRUD, search and export.
type CatalogService struct {
	sweets *repositories.SweetRepository
}

func NewCatalogService() *CatalogService {
	return &CatalogService{sweets: repositories.NewSweetRepository()}
}

// SweetUpdate carries a partial update. Nil fields are left unchanged.
type SweetUpdate struct {
	Name     *string
	Category *string
	Price    *float64
	Quantity *int
}

// BulkResult reports the outcome of one item in a bulk insert.
type BulkResult struct {
	Index int           `json:"index"`
	Sweet *models.Sweet `json:"sweet,omitempty"`
	Error string        `json:"error,omitempty"`
}

// List returns the full catalog.
func (s *CatalogService) List() ([]models.Sweet, error) {
	return s.sweets.All()
}

// Get returns a single sweet by ID.
func (s *CatalogService) Get(id uint) (*models.Sweet, error) {
	sweet, err := s.sweets.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSweetNotFound
		}
		return nil, err
	}
	return &sweet, nil
}

// Create adds a sweet to the catalog.
func (s *CatalogService) Create(sweet *models.Sweet) error {
	if err := s.sweets.Create(sweet); err != nil {
		return err
	}
	logger.Info("catalog: sweet created", "sweet_id", sweet.ID, "name", sweet.Name)
	return nil
}

// Update applies a partial update and returns the updated sweet.
func (s *CatalogService) Update(id uint, upd SweetUpdate) (*models.Sweet, error) {
	fields := map[string]interface{}{}
	if upd.Name != nil {
		fields["name"] = *upd.Name
	}
	if upd.Category != nil {
		fields["category"] = *upd.Category
	}
	if upd.Price != nil {
		fields["price"] = *upd.Price
	}
	if upd.Quantity != nil {
		fields["quantity"] = *upd.Quantity
	}

	if len(fields) == 0 {
		return nil, ErrNoFields
	}

	rows, err := s.sweets.UpdateFields(id, fields)
	if err != nil {
		return nil, err
	}
	if rows == 0 {
		return nil, ErrSweetNotFound
	}

	return s.Get(id)
}

// Delete removes a sweet from the catalog.
func (s *CatalogService) Delete(id uint) error {
	rows, err := s.sweets.Delete(id)
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrSweetNotFound
	}
	logger.Info("catalog: sweet deleted", "sweet_id", id)
	return nil
}

// Search returns sweets matching the filter.
func (s *CatalogService) Search(f repositories.SearchFilter) ([]models.Sweet, error) {
	return s.sweets.Search(f)
}

// BulkCreate inserts sweets best-effort: each item succeeds or fails on its
// own, and the per-item outcome is reported back to the caller.
func (s *CatalogService) BulkCreate(sweets []models.Sweet) []BulkResult {
	results := make([]BulkResult, 0, len(sweets))
	for i := range sweets {
		sweet := sweets[i]
		if err := s.sweets.Create(&sweet); err != nil {
			results = append(results, BulkResult{Index: i, Error: err.Error()})
			continue
		}
		results = append(results, BulkResult{Index: i, Sweet: &sweet})
	}
	return results
}

// Export snapshots the catalog as JSON to the default storage disk and
// returns the file's public URL.
func (s *CatalogService) Export() (string, error) {
	sweets, err := s.sweets.All()
	if err != nil {
		return "", err
	}

	data, err := json.MarshalIndent(sweets, "", "  ")
	if err != nil {
		return "", fmt.Errorf("catalog: marshal export: %w", err)
	}

	path := fmt.Sprintf("exports/catalog-%s.json", time.Now().UTC().Format("20060102-150405"))
	if err := storage.Put(path, data); err != nil {
		return "", err
	}

	logger.Info("catalog: exported", "path", path, "sweets", len(sweets))
	return storage.URL(path), nil
}
