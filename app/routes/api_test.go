package routes_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/shashiranjanraj/sweetshop/app/models"
	"github.com/shashiranjanraj/sweetshop/app/routes"
	"github.com/shashiranjanraj/sweetshop/app/services"
	"github.com/shashiranjanraj/sweetshop/pkg/database"
	"github.com/shashiranjanraj/sweetshop/pkg/event"
	"github.com/shashiranjanraj/sweetshop/pkg/router"
)

// newTestServer boots the API against a fresh in-memory database.
func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	name := strings.ReplaceAll(t.Name(), "/", "_")
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Sweet{}))

	prev := database.DB
	database.DB = db

	r := router.New()
	routes.RegisterAPI(r)
	srv := httptest.NewServer(r.Handler())

	t.Cleanup(func() {
		srv.Close()
		database.DB = prev
		event.Flush()
		sqlDB.Close()
	})
	return srv
}

func doJSON(t *testing.T, method, url, token string, body interface{}) (*http.Response, map[string]interface{}) {
	t.Helper()

	var buf io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		buf = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, url, buf)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	resp.Body.Close()

	var decoded map[string]interface{}
	if len(raw) > 0 && (raw[0] == '{') {
		require.NoError(t, json.Unmarshal(raw, &decoded), "body: %s", raw)
	}
	return resp, decoded
}

func register(t *testing.T, srv *httptest.Server, email, password string) {
	t.Helper()
	resp, _ := doJSON(t, http.MethodPost, srv.URL+"/api/auth/register", "",
		map[string]string{"email": email, "password": password})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
}

func login(t *testing.T, srv *httptest.Server, email, password string) string {
	t.Helper()
	resp, body := doJSON(t, http.MethodPost, srv.URL+"/api/auth/login", "",
		map[string]string{"email": email, "password": password})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	token, _ := body["access_token"].(string)
	require.NotEmpty(t, token)
	require.Equal(t, "bearer", body["token_type"])
	return token
}

// adminToken provisions an admin the way operations would: account plus an
// out-of-band promotion.
func adminToken(t *testing.T, srv *httptest.Server) string {
	t.Helper()
	register(t, srv, "admin@example.com", "admin123")
	_, err := services.NewAuthService().GrantAdmin("admin@example.com")
	require.NoError(t, err)
	return login(t, srv, "admin@example.com", "admin123")
}

// ─── Auth ─────────────────────────────────────────────────────────────────────

func TestRegisterLoginMe(t *testing.T) {
	srv := newTestServer(t)

	register(t, srv, "buyer@example.com", "secret123")
	token := login(t, srv, "buyer@example.com", "secret123")

	resp, body := doJSON(t, http.MethodGet, srv.URL+"/api/auth/me", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "buyer@example.com", body["email"])
	require.Equal(t, false, body["is_admin"])
	require.Nil(t, body["password"], "password must never be serialised")
}

func TestRegisterDuplicateEmail(t *testing.T) {
	srv := newTestServer(t)

	register(t, srv, "dup@example.com", "secret123")
	resp, body := doJSON(t, http.MethodPost, srv.URL+"/api/auth/register", "",
		map[string]string{"email": "dup@example.com", "password": "secret123"})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	require.NotEmpty(t, body["detail"])
}

func TestRegisterValidation(t *testing.T) {
	srv := newTestServer(t)

	resp, _ := doJSON(t, http.MethodPost, srv.URL+"/api/auth/register", "",
		map[string]string{"email": "not-an-email", "password": "secret123"})
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	resp, _ = doJSON(t, http.MethodPost, srv.URL+"/api/auth/register", "",
		map[string]string{"email": "ok@example.com", "password": "short"})
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
}

func TestLoginBadCredentials(t *testing.T) {
	srv := newTestServer(t)

	register(t, srv, "u@example.com", "secret123")
	resp, body := doJSON(t, http.MethodPost, srv.URL+"/api/auth/login", "",
		map[string]string{"email": "u@example.com", "password": "wrongpass"})
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	require.NotEmpty(t, body["detail"])
}

// ─── Access tiers ─────────────────────────────────────────────────────────────

func TestCatalogRequiresToken(t *testing.T) {
	srv := newTestServer(t)

	resp, body := doJSON(t, http.MethodGet, srv.URL+"/api/sweets", "", nil)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	require.NotEmpty(t, body["detail"])

	resp, _ = doJSON(t, http.MethodGet, srv.URL+"/api/sweets", "garbage-token", nil)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestWritesRequireAdmin(t *testing.T) {
	srv := newTestServer(t)

	register(t, srv, "buyer@example.com", "secret123")
	userTok := login(t, srv, "buyer@example.com", "secret123")

	sweet := map[string]interface{}{"name": "Toffee", "category": "candy", "price": 0.5, "quantity": 10}
	resp, body := doJSON(t, http.MethodPost, srv.URL+"/api/sweets", userTok, sweet)
	require.Equal(t, http.StatusForbidden, resp.StatusCode)
	require.NotEmpty(t, body["detail"])

	resp, _ = doJSON(t, http.MethodPost, srv.URL+"/api/inventory/1/restock?amount=5", userTok, nil)
	require.Equal(t, http.StatusForbidden, resp.StatusCode)
}

// ─── Catalog ──────────────────────────────────────────────────────────────────

func TestSweetCRUDFlow(t *testing.T) {
	srv := newTestServer(t)
	admin := adminToken(t, srv)

	// Create.
	resp, created := doJSON(t, http.MethodPost, srv.URL+"/api/sweets", admin,
		map[string]interface{}{"name": "Kaju Katli", "category": "indian", "price": 4.0, "quantity": 25})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	id := int(created["ID"].(float64))
	require.NotZero(t, id)

	// An update with no fields is rejected.
	resp, body := doJSON(t, http.MethodPut, fmt.Sprintf("%s/api/sweets/%d", srv.URL, id), admin,
		map[string]interface{}{})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	require.NotEmpty(t, body["detail"])

	// Update price only.
	resp, updated := doJSON(t, http.MethodPut, fmt.Sprintf("%s/api/sweets/%d", srv.URL, id), admin,
		map[string]interface{}{"price": 4.5})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, 4.5, updated["price"])
	require.Equal(t, "Kaju Katli", updated["name"])

	// Delete.
	resp, body = doJSON(t, http.MethodDelete, fmt.Sprintf("%s/api/sweets/%d", srv.URL, id), admin, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "Sweet deleted", body["detail"])

	resp, _ = doJSON(t, http.MethodDelete, fmt.Sprintf("%s/api/sweets/%d", srv.URL, id), admin, nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestSearch(t *testing.T) {
	srv := newTestServer(t)
	admin := adminToken(t, srv)

	for _, s := range []map[string]interface{}{
		{"name": "Gulab Jamun", "category": "indian", "price": 2.5, "quantity": 40},
		{"name": "Dark Chocolate Truffle", "category": "chocolate", "price": 3.25, "quantity": 50},
		{"name": "Lemon Drop", "category": "candy", "price": 0.4, "quantity": 180},
	} {
		resp, _ := doJSON(t, http.MethodPost, srv.URL+"/api/sweets", admin, s)
		require.Equal(t, http.StatusOK, resp.StatusCode)
	}

	get := func(q string) []interface{} {
		req, err := http.NewRequest(http.MethodGet, srv.URL+"/api/sweets/search?"+q, nil)
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+admin)
		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		defer resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)
		var list []interface{}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&list))
		return list
	}

	require.Len(t, get("name=chocolate"), 1)
	require.Len(t, get("category=indian"), 1)
	require.Len(t, get("category=choc"), 1, "category matches substrings, any case")
	require.Len(t, get("min_price=1&max_price=3"), 1)
	require.Len(t, get(""), 3)
}

func TestBulkCreate(t *testing.T) {
	srv := newTestServer(t)
	admin := adminToken(t, srv)

	resp, body := doJSON(t, http.MethodPost, srv.URL+"/api/sweets/bulk", admin,
		map[string]interface{}{"sweets": []map[string]interface{}{
			{"name": "Toffee", "category": "candy", "price": 0.3, "quantity": 10},
			{"name": "", "category": "candy", "price": 0.8, "quantity": 5}, // invalid
			{"name": "Nougat", "category": "candy", "price": 0.8, "quantity": 5},
		}})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	results := body["results"].([]interface{})
	require.Len(t, results, 3)

	second := results[1].(map[string]interface{})
	require.NotEmpty(t, second["error"], "invalid item must fail individually")

	first := results[0].(map[string]interface{})
	require.Nil(t, first["error"])
}

// ─── Inventory ────────────────────────────────────────────────────────────────

func TestPurchaseAndRestockFlow(t *testing.T) {
	srv := newTestServer(t)
	admin := adminToken(t, srv)

	register(t, srv, "buyer@example.com", "secret123")
	buyer := login(t, srv, "buyer@example.com", "secret123")

	resp, created := doJSON(t, http.MethodPost, srv.URL+"/api/sweets", admin,
		map[string]interface{}{"name": "Rasgulla", "category": "indian", "price": 2.0, "quantity": 1})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	id := int(created["ID"].(float64))

	// Buyer purchases the last unit.
	resp, body := doJSON(t, http.MethodPost, fmt.Sprintf("%s/api/inventory/%d/purchase", srv.URL, id), buyer, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	sweet := body["sweet"].(map[string]interface{})
	require.EqualValues(t, 0, sweet["quantity"])

	// Next purchase fails with 400, stock stays at zero.
	resp, body = doJSON(t, http.MethodPost, fmt.Sprintf("%s/api/inventory/%d/purchase", srv.URL, id), buyer, nil)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	require.NotEmpty(t, body["detail"])

	// Admin restocks via query param.
	resp, body = doJSON(t, http.MethodPost, fmt.Sprintf("%s/api/inventory/%d/restock?amount=7", srv.URL, id), admin, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	sweet = body["sweet"].(map[string]interface{})
	require.EqualValues(t, 7, sweet["quantity"])

	// Invalid amounts are rejected.
	resp, _ = doJSON(t, http.MethodPost, fmt.Sprintf("%s/api/inventory/%d/restock?amount=0", srv.URL, id), admin, nil)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// Unknown sweet.
	resp, _ = doJSON(t, http.MethodPost, srv.URL+"/api/inventory/99999/purchase", buyer, nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

// ─── GraphQL ──────────────────────────────────────────────────────────────────

func TestGraphQLQuery(t *testing.T) {
	srv := newTestServer(t)
	admin := adminToken(t, srv)

	resp, _ := doJSON(t, http.MethodPost, srv.URL+"/api/sweets", admin,
		map[string]interface{}{"name": "Vanilla Fudge", "category": "fudge", "price": 2.25, "quantity": 35})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body := doJSON(t, http.MethodPost, srv.URL+"/api/graphql", admin,
		map[string]string{"query": `{ sweets { name category quantity } }`})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	data := body["data"].(map[string]interface{})
	sweets := data["sweets"].([]interface{})
	require.Len(t, sweets, 1)
	first := sweets[0].(map[string]interface{})
	require.Equal(t, "Vanilla Fudge", first["name"])
}
