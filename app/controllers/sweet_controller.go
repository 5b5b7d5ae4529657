package controllers

import (
	"errors"
	"net/http"
	"sort"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/shashiranjanraj/sweetshop/app/models"
	"github.com/shashiranjanraj/sweetshop/app/repositories"
	"github.com/shashiranjanraj/sweetshop/app/services"
	"github.com/shashiranjanraj/sweetshop/pkg/bind"
	"github.com/shashiranjanraj/sweetshop/pkg/response"
	"github.com/shashiranjanraj/sweetshop/pkg/validate"
)

// firstError flattens a validation error map into a single message.
func firstError(errs map[string]string) string {
	for field, msg := range errs {
		return field + " " + msg
	}
	return "invalid item"
}

type SweetController struct {
	service *services.CatalogService
}

func NewSweetController() *SweetController {
	return &SweetController{service: services.NewCatalogService()}
}

type sweetInput struct {
	Name     string  `json:"name"     validate:"required,min=1,max=255"`
	Category string  `json:"category" validate:"required,min=1,max=100"`
	Price    float64 `json:"price"    validate:"gte=0"`
	Quantity int     `json:"quantity" validate:"gte=0"`
}

type sweetUpdateInput struct {
	Name     *string  `json:"name"     validate:"nullable,min=1,max=255"`
	Category *string  `json:"category" validate:"nullable,min=1,max=100"`
	Price    *float64 `json:"price"    validate:"gte=0"`
	Quantity *int     `json:"quantity" validate:"gte=0"`
}

// pathID parses the {id} URL parameter.
func pathID(r *http.Request) (uint, bool) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

// List returns the full catalog.
// GET /api/sweets
func (c *SweetController) List(w http.ResponseWriter, r *http.Request) {
	sweets, err := c.service.List()
	if err != nil {
		response.Error(w, http.StatusInternalServerError, "could not load catalog")
		return
	}
	response.Success(w, sweets)
}

// Search returns sweets matching the query parameters.
// GET /api/sweets/search?name=&category=&min_price=&max_price=
func (c *SweetController) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	filter := repositories.SearchFilter{
		Name:     q.Get("name"),
		Category: q.Get("category"),
	}

	if raw := q.Get("min_price"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			response.BadRequest(w, "min_price must be a number")
			return
		}
		filter.MinPrice = &v
	}
	if raw := q.Get("max_price"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			response.BadRequest(w, "max_price must be a number")
			return
		}
		filter.MaxPrice = &v
	}

	sweets, err := c.service.Search(filter)
	if err != nil {
		response.Error(w, http.StatusInternalServerError, "search failed")
		return
	}
	response.Success(w, sweets)
}

// Create adds a sweet to the catalog.
// POST /api/sweets (admin)
func (c *SweetController) Create(w http.ResponseWriter, r *http.Request) {
	var in sweetInput
	if errs, err := bind.JSON(r, &in); err != nil {
		response.BadRequest(w, err.Error())
		return
	} else if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	sweet := models.Sweet{
		Name:     in.Name,
		Category: in.Category,
		Price:    in.Price,
		Quantity: in.Quantity,
	}
	if err := c.service.Create(&sweet); err != nil {
		response.Error(w, http.StatusInternalServerError, "could not create sweet")
		return
	}

	response.Success(w, sweet)
}

// Update applies a partial update to a sweet.
// PUT /api/sweets/{id} (admin)
func (c *SweetController) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		response.NotFound(w, services.ErrSweetNotFound.Error())
		return
	}

	var in sweetUpdateInput
	if errs, err := bind.JSON(r, &in); err != nil {
		response.BadRequest(w, err.Error())
		return
	} else if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	sweet, err := c.service.Update(id, services.SweetUpdate{
		Name:     in.Name,
		Category: in.Category,
		Price:    in.Price,
		Quantity: in.Quantity,
	})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrSweetNotFound):
			response.NotFound(w, err.Error())
		case errors.Is(err, services.ErrNoFields):
			response.BadRequest(w, err.Error())
		default:
			response.Error(w, http.StatusInternalServerError, "could not update sweet")
		}
		return
	}

	response.Success(w, sweet)
}

// Delete removes a sweet from the catalog.
// DELETE /api/sweets/{id} (admin)
func (c *SweetController) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		response.NotFound(w, services.ErrSweetNotFound.Error())
		return
	}

	if err := c.service.Delete(id); err != nil {
		if errors.Is(err, services.ErrSweetNotFound) {
			response.NotFound(w, err.Error())
			return
		}
		response.Error(w, http.StatusInternalServerError, "could not delete sweet")
		return
	}

	response.Detail(w, "Sweet deleted")
}

// BulkCreate inserts multiple sweets in one request, best-effort per item.
// POST /api/sweets/bulk (admin)
func (c *SweetController) BulkCreate(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Sweets []sweetInput `json:"sweets"`
	}
	if _, err := bind.JSON(r, &in); err != nil {
		response.BadRequest(w, err.Error())
		return
	}
	if len(in.Sweets) == 0 {
		response.BadRequest(w, "sweets must be a non-empty array")
		return
	}

	// Each item is validated and inserted on its own; one bad item does not
	// sink the batch.
	results := make([]services.BulkResult, 0, len(in.Sweets))
	valid := make([]models.Sweet, 0, len(in.Sweets))
	validIdx := make([]int, 0, len(in.Sweets))
	for i, item := range in.Sweets {
		if errs := validate.Struct(&item); validate.HasErrors(errs) {
			results = append(results, services.BulkResult{Index: i, Error: firstError(errs)})
			continue
		}
		valid = append(valid, models.Sweet{
			Name:     item.Name,
			Category: item.Category,
			Price:    item.Price,
			Quantity: item.Quantity,
		})
		validIdx = append(validIdx, i)
	}

	for j, res := range c.service.BulkCreate(valid) {
		res.Index = validIdx[j]
		results = append(results, res)
	}

	sort.Slice(results, func(a, b int) bool { return results[a].Index < results[b].Index })
	response.Success(w, map[string]interface{}{"results": results})
}

// Export snapshots the catalog to the configured storage disk.
// POST /api/sweets/export (admin)
func (c *SweetController) Export(w http.ResponseWriter, r *http.Request) {
	url, err := c.service.Export()
	if err != nil {
		response.Error(w, http.StatusInternalServerError, "export failed")
		return
	}
	response.Success(w, map[string]string{"url": url})
}
