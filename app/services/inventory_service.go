package services

import (
	"github.com/shashiranjanraj/sweetshop/app/models"
	"github.com/shashiranjanraj/sweetshop/app/repositories"
	"github.com/shashiranjanraj/sweetshop/config"
	"github.com/shashiranjanraj/sweetshop/pkg/event"
	"github.com/shashiranjanraj/sweetshop/pkg/logger"
	"github.com/shashiranjanraj/sweetshop/pkg/metrics"
)

// Event names fired by the inventory engine.
const (
	EventPurchased = "sweet.purchased"
	EventRestocked = "sweet.restocked"
)

// StockChange is the payload for inventory events.
type StockChange struct {
	SweetID  uint    `json:"sweet_id"`
	Name     string  `json:"name"`
	Category string  `json:"category"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"`
}

// InventoryService implements the atomic stock mutations.
//
// Both mutations are single conditional UPDATE statements, so concurrent
// requests are serialised by the database itself and quantity can never go
// negative.
type InventoryService struct {
	sweets *repositories.SweetRepository
}

func NewInventoryService() *InventoryService {
	return &InventoryService{sweets: repositories.NewSweetRepository()}
}

// Purchase decrements a sweet's stock by one unit.
// Returns ErrSweetNotFound if the sweet does not exist and ErrOutOfStock if
// it exists but has zero quantity.
func (s *InventoryService) Purchase(id uint) (*models.Sweet, error) {
	rows, err := s.sweets.DecrementStock(id)
	if err != nil {
		return nil, err
	}

	if rows == 0 {
		// The guarded UPDATE matched nothing: either the sweet is missing
		// or its stock is already zero. Probe existence to tell them apart.
		if !s.sweets.Exists(id) {
			return nil, ErrSweetNotFound
		}
		metrics.OutOfStockTotal.Inc()
		return nil, ErrOutOfStock
	}

	sweet, err := s.sweets.FindByID(id)
	if err != nil {
		return nil, err
	}

	metrics.PurchasesTotal.Inc()
	logger.Info("inventory: purchased", "sweet_id", sweet.ID, "remaining", sweet.Quantity)

	change := StockChange{
		SweetID: sweet.ID, Name: sweet.Name, Category: sweet.Category,
		Quantity: sweet.Quantity, Price: sweet.Price,
	}
	event.Fire(EventPurchased, change)

	if sweet.Quantity <= config.LowStockThreshold() {
		s.alertLowStock(change)
	}

	return &sweet, nil
}

// Restock adds amount units to a sweet's stock. amount must be positive.
func (s *InventoryService) Restock(id uint, amount int) (*models.Sweet, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}

	rows, err := s.sweets.IncrementStock(id, amount)
	if err != nil {
		return nil, err
	}
	if rows == 0 {
		return nil, ErrSweetNotFound
	}

	sweet, err := s.sweets.FindByID(id)
	if err != nil {
		return nil, err
	}

	metrics.RestocksTotal.Inc()
	logger.Info("inventory: restocked", "sweet_id", sweet.ID, "amount", amount, "quantity", sweet.Quantity)

	event.Fire(EventRestocked, StockChange{
		SweetID: sweet.ID, Name: sweet.Name, Category: sweet.Category,
		Quantity: sweet.Quantity, Price: sweet.Price,
	})

	return &sweet, nil
}

// alertLowStock hands the alert off to the low-stock listener registered at
// boot (which dispatches a queue job). Kept as an event so the inventory
// engine has no dependency on the job system.
func (s *InventoryService) alertLowStock(change StockChange) {
	event.Fire("sweet.low_stock", change)
}
