package services_test

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/sweetshop/app/models"
	"github.com/shashiranjanraj/sweetshop/app/services"
	"github.com/shashiranjanraj/sweetshop/pkg/event"
)

func newSweet(t *testing.T, quantity int) *models.Sweet {
	t.Helper()
	sweet := &models.Sweet{Name: "Test Sweet", Category: "candy", Price: 1.0, Quantity: quantity}
	require.NoError(t, services.NewCatalogService().Create(sweet))
	return sweet
}

func TestPurchaseDecrementsByOne(t *testing.T) {
	setupDB(t)
	svc := services.NewInventoryService()
	sweet := newSweet(t, 3)

	got, err := svc.Purchase(sweet.ID)
	require.NoError(t, err)
	require.Equal(t, 2, got.Quantity)
}

func TestPurchaseOutOfStock(t *testing.T) {
	setupDB(t)
	svc := services.NewInventoryService()
	sweet := newSweet(t, 0)

	_, err := svc.Purchase(sweet.ID)
	require.ErrorIs(t, err, services.ErrOutOfStock)

	// Stock must remain exactly zero.
	got, gerr := services.NewCatalogService().Get(sweet.ID)
	require.NoError(t, gerr)
	require.Equal(t, 0, got.Quantity)
}

func TestPurchaseUnknownSweet(t *testing.T) {
	setupDB(t)
	svc := services.NewInventoryService()

	_, err := svc.Purchase(99999)
	require.ErrorIs(t, err, services.ErrSweetNotFound)
}

func TestRestock(t *testing.T) {
	setupDB(t)
	svc := services.NewInventoryService()
	sweet := newSweet(t, 5)

	got, err := svc.Restock(sweet.ID, 10)
	require.NoError(t, err)
	require.Equal(t, 15, got.Quantity)

	_, err = svc.Restock(sweet.ID, 0)
	require.ErrorIs(t, err, services.ErrInvalidAmount)
	_, err = svc.Restock(sweet.ID, -3)
	require.ErrorIs(t, err, services.ErrInvalidAmount)

	_, err = svc.Restock(99999, 5)
	require.ErrorIs(t, err, services.ErrSweetNotFound)
}

func TestEventsFired(t *testing.T) {
	setupDB(t)
	svc := services.NewInventoryService()
	sweet := newSweet(t, 2)

	var purchased, restocked atomic.Int32
	event.Listen(services.EventPurchased, func(interface{}) { purchased.Add(1) })
	event.Listen(services.EventRestocked, func(interface{}) { restocked.Add(1) })

	_, err := svc.Purchase(sweet.ID)
	require.NoError(t, err)
	_, err = svc.Restock(sweet.ID, 4)
	require.NoError(t, err)

	require.EqualValues(t, 1, purchased.Load())
	require.EqualValues(t, 1, restocked.Load())
}

// Concurrent purchases against limited stock: exactly stock-many succeed and
// the quantity never goes negative.
func TestConcurrentPurchases(t *testing.T) {
	setupDB(t)
	svc := services.NewInventoryService()

	const stock = 5
	const buyers = 20
	sweet := newSweet(t, stock)

	var ok, oos atomic.Int32
	var wg sync.WaitGroup
	wg.Add(buyers)
	for i := 0; i < buyers; i++ {
		go func() {
			defer wg.Done()
			_, err := svc.Purchase(sweet.ID)
			switch err {
			case nil:
				ok.Add(1)
			case services.ErrOutOfStock:
				oos.Add(1)
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	require.EqualValues(t, stock, ok.Load(), "exactly the available stock may be sold")
	require.EqualValues(t, buyers-stock, oos.Load())

	got, err := services.NewCatalogService().Get(sweet.ID)
	require.NoError(t, err)
	require.Equal(t, 0, got.Quantity)
}
