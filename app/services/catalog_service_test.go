package services_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/sweetshop/app/models"
	"github.com/shashiranjanraj/sweetshop/app/repositories"
	"github.com/shashiranjanraj/sweetshop/app/services"
)

func seedCatalog(t *testing.T, svc *services.CatalogService) []models.Sweet {
	t.Helper()
	sweets := []models.Sweet{
		{Name: "Gulab Jamun", Category: "indian", Price: 2.50, Quantity: 40},
		{Name: "Kaju Katli", Category: "indian", Price: 4.00, Quantity: 25},
		{Name: "Dark Chocolate Truffle", Category: "chocolate", Price: 3.25, Quantity: 50},
		{Name: "Lemon Drop", Category: "candy", Price: 0.40, Quantity: 180},
	}
	for i := range sweets {
		require.NoError(t, svc.Create(&sweets[i]))
	}
	return sweets
}

func TestCreateAndList(t *testing.T) {
	setupDB(t)
	svc := services.NewCatalogService()
	seedCatalog(t, svc)

	got, err := svc.List()
	require.NoError(t, err)
	require.Len(t, got, 4)
}

func TestSearchByNameIsCaseInsensitiveSubstring(t *testing.T) {
	setupDB(t)
	svc := services.NewCatalogService()
	seedCatalog(t, svc)

	got, err := svc.Search(repositories.SearchFilter{Name: "chocolate"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, "Dark Chocolate Truffle", got[0].Name)

	got, err = svc.Search(repositories.SearchFilter{Name: "KAJU"})
	require.NoError(t, err)
	require.Len(t, got, 1)
}

func TestSearchByCategoryAndPrice(t *testing.T) {
	setupDB(t)
	svc := services.NewCatalogService()
	seedCatalog(t, svc)

	got, err := svc.Search(repositories.SearchFilter{Category: "Indian"})
	require.NoError(t, err)
	require.Len(t, got, 2)

	// Category matching is a substring match, like name.
	got, err = svc.Search(repositories.SearchFilter{Category: "choc"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, "Dark Chocolate Truffle", got[0].Name)

	min, max := 1.0, 3.0
	got, err = svc.Search(repositories.SearchFilter{MinPrice: &min, MaxPrice: &max})
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, "Gulab Jamun", got[0].Name)

	// Bounds are inclusive.
	exact := 4.0
	got, err = svc.Search(repositories.SearchFilter{MinPrice: &exact, MaxPrice: &exact})
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, "Kaju Katli", got[0].Name)
}

func TestPartialUpdate(t *testing.T) {
	setupDB(t)
	svc := services.NewCatalogService()
	sweets := seedCatalog(t, svc)

	newPrice := 2.75
	updated, err := svc.Update(sweets[0].ID, services.SweetUpdate{Price: &newPrice})
	require.NoError(t, err)
	require.Equal(t, 2.75, updated.Price)
	require.Equal(t, "Gulab Jamun", updated.Name, "untouched fields must survive")
	require.Equal(t, 40, updated.Quantity)

	_, err = svc.Update(99999, services.SweetUpdate{Price: &newPrice})
	require.ErrorIs(t, err, services.ErrSweetNotFound)

	// An update that names no fields is an error, not a silent no-op.
	_, err = svc.Update(sweets[0].ID, services.SweetUpdate{})
	require.ErrorIs(t, err, services.ErrNoFields)
}

func TestDelete(t *testing.T) {
	setupDB(t)
	svc := services.NewCatalogService()
	sweets := seedCatalog(t, svc)

	require.NoError(t, svc.Delete(sweets[1].ID))

	_, err := svc.Get(sweets[1].ID)
	require.ErrorIs(t, err, services.ErrSweetNotFound)

	require.ErrorIs(t, svc.Delete(sweets[1].ID), services.ErrSweetNotFound)
}

func TestBulkCreateBestEffort(t *testing.T) {
	setupDB(t)
	svc := services.NewCatalogService()

	results := svc.BulkCreate([]models.Sweet{
		{Name: "Toffee", Category: "candy", Price: 0.30, Quantity: 10},
		{Name: "Nougat", Category: "candy", Price: 0.80, Quantity: 5},
	})
	require.Len(t, results, 2)
	for _, res := range results {
		require.Empty(t, res.Error)
		require.NotNil(t, res.Sweet)
		require.NotZero(t, res.Sweet.ID)
	}

	got, err := svc.List()
	require.NoError(t, err)
	require.Len(t, got, 2)
}
