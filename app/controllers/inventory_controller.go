package controllers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/shashiranjanraj/sweetshop/app/services"
	"github.com/shashiranjanraj/sweetshop/pkg/response"
)

type InventoryController struct {
	service *services.InventoryService
}

func NewInventoryController() *InventoryController {
	return &InventoryController{service: services.NewInventoryService()}
}

// Purchase buys one unit of a sweet.
// POST /api/inventory/{id}/purchase
func (c *InventoryController) Purchase(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		response.NotFound(w, services.ErrSweetNotFound.Error())
		return
	}

	sweet, err := c.service.Purchase(id)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrSweetNotFound):
			response.NotFound(w, err.Error())
		case errors.Is(err, services.ErrOutOfStock):
			response.BadRequest(w, err.Error())
		default:
			response.Error(w, http.StatusInternalServerError, "purchase failed")
		}
		return
	}

	response.Success(w, map[string]interface{}{
		"detail": "Purchase successful",
		"sweet":  sweet,
	})
}

// Restock adds units to a sweet's stock. The amount comes from the "amount"
// query parameter, with a JSON body {"amount": N} accepted as a fallback.
// POST /api/inventory/{id}/restock?amount=N (admin)
func (c *InventoryController) Restock(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		response.NotFound(w, services.ErrSweetNotFound.Error())
		return
	}

	amount, ok := restockAmount(r)
	if !ok {
		response.BadRequest(w, services.ErrInvalidAmount.Error())
		return
	}

	sweet, err := c.service.Restock(id, amount)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrSweetNotFound):
			response.NotFound(w, err.Error())
		case errors.Is(err, services.ErrInvalidAmount):
			response.BadRequest(w, err.Error())
		default:
			response.Error(w, http.StatusInternalServerError, "restock failed")
		}
		return
	}

	response.Success(w, map[string]interface{}{
		"detail": "Restock successful",
		"sweet":  sweet,
	})
}

func restockAmount(r *http.Request) (int, bool) {
	if raw := r.URL.Query().Get("amount"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return 0, false
		}
		return n, true
	}

	var body struct {
		Amount *int `json:"amount"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Amount == nil {
		return 0, false
	}
	return *body.Amount, true
}
