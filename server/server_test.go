package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/example/jewelrystore/pkg/config"
	"github.com/example/jewelrystore/pkg/models"
	"github.com/example/jewelrystore/pkg/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestServer(st store.Store) *Server {
	cfg := &config.Config{}
	cfg.Mongo.URI = "mongodb://localhost:27017"
	cfg.Mongo.Database = "jewelry"

	s := New(cfg, zap.NewNop(), st, nil)
	s.SetupRoutes()
	return s
}

func doJSON(t *testing.T, s *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), out))
}

func TestRoot(t *testing.T) {
	s := newTestServer(store.NewMemoryStore())

	w := doJSON(t, s, http.MethodGet, "/", "")
	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]string
	decode(t, w, &body)
	assert.Equal(t, "Jewelry Store Backend is running", body["message"])
}

func TestProductRoundTrip(t *testing.T) {
	s := newTestServer(store.NewMemoryStore())

	w := doJSON(t, s, http.MethodPost, "/api/products",
		`{"title":"Gold Ring","price":199.99,"category":"Rings"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var created map[string]string
	decode(t, w, &created)
	assert.NotEmpty(t, created["id"])

	w = doJSON(t, s, http.MethodGet, "/api/products?category=Rings", "")
	require.Equal(t, http.StatusOK, w.Code)

	var products []models.Product
	decode(t, w, &products)
	require.Len(t, products, 1)
	assert.Equal(t, "Gold Ring", products[0].Title)
	assert.Equal(t, 199.99, products[0].Price)
	assert.Equal(t, "Rings", products[0].Category)
	assert.True(t, products[0].InStock)
}

func TestListProductsSearch(t *testing.T) {
	st := store.NewMemoryStore()
	s := newTestServer(st)
	ctx := context.Background()

	docs := []store.Document{
		{"title": "Gold Ring", "price": 199.99, "category": "Rings"},
		{"title": "Pearl Necklace", "description": "made of gold", "price": 89.0, "category": "Necklaces"},
		{"title": "Silver Band", "description": "plain", "price": 49.0, "category": "Rings"},
	}
	for _, doc := range docs {
		_, err := st.Insert(ctx, "product", doc)
		require.NoError(t, err)
	}

	w := doJSON(t, s, http.MethodGet, "/api/products?q=gold", "")
	require.Equal(t, http.StatusOK, w.Code)

	var products []models.Product
	decode(t, w, &products)
	require.Len(t, products, 2)
	assert.Equal(t, "Gold Ring", products[0].Title)
	assert.Equal(t, "Pearl Necklace", products[1].Title)

	// Category and search combine with AND.
	w = doJSON(t, s, http.MethodGet, "/api/products?q=gold&category=Rings", "")
	require.Equal(t, http.StatusOK, w.Code)
	products = nil
	decode(t, w, &products)
	require.Len(t, products, 1)
	assert.Equal(t, "Gold Ring", products[0].Title)
}

func TestListProductsLimit(t *testing.T) {
	st := store.NewMemoryStore()
	s := newTestServer(st)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_, err := st.Insert(ctx, "product", store.Document{"title": "Ring", "price": 1.0})
		require.NoError(t, err)
	}

	w := doJSON(t, s, http.MethodGet, "/api/products?limit=2", "")
	require.Equal(t, http.StatusOK, w.Code)

	var products []models.Product
	decode(t, w, &products)
	assert.Len(t, products, 2)

	w = doJSON(t, s, http.MethodGet, "/api/products?limit=nope", "")
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestListProductsEmpty(t *testing.T) {
	s := newTestServer(store.NewMemoryStore())

	w := doJSON(t, s, http.MethodGet, "/api/products", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "[]", strings.TrimSpace(w.Body.String()))
}

func TestListProductsCorruptDocument(t *testing.T) {
	st := store.NewMemoryStore()
	s := newTestServer(st)

	_, err := st.Insert(context.Background(), "product", store.Document{"title": "Bad", "price": "junk"})
	require.NoError(t, err)

	w := doJSON(t, s, http.MethodGet, "/api/products", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)

	var body map[string]string
	decode(t, w, &body)
	assert.NotEmpty(t, body["error"])
}

func TestCreateProductValidationFailure(t *testing.T) {
	s := newTestServer(store.NewMemoryStore())

	w := doJSON(t, s, http.MethodPost, "/api/products",
		`{"title":"Gold Ring","price":-1,"category":"Rings"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	// A string where a number is required fails rather than coercing.
	w = doJSON(t, s, http.MethodPost, "/api/products",
		`{"title":"Gold Ring","price":"199.99","category":"Rings"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w = doJSON(t, s, http.MethodPost, "/api/products", `{"price":1,"category":"Rings"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestCreateOrder(t *testing.T) {
	st := store.NewMemoryStore()
	s := newTestServer(st)

	w := doJSON(t, s, http.MethodPost, "/api/orders", `{
		"customer_name": "Ada Lovelace",
		"customer_email": "ada@example.com",
		"shipping_address": "1 Analytical Way",
		"items": [{"product_id": "p1", "unit_price": 199.99, "title": "Gold Ring"}],
		"total_amount": 150.0
	}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var body map[string]string
	decode(t, w, &body)
	assert.NotEmpty(t, body["id"])
	assert.Equal(t, "received", body["status"])

	docs, err := st.Find(context.Background(), "order", store.Query{})
	require.NoError(t, err)
	require.Len(t, docs, 1)
	// total_amount is persisted exactly as submitted, unverified
	// against the items.
	assert.Equal(t, 150.0, docs[0]["total_amount"])

	items := docs[0]["items"].([]store.Document)
	require.Len(t, items, 1)
	assert.Equal(t, 1, items[0]["quantity"])
}

func TestCreateOrderValidationFailure(t *testing.T) {
	s := newTestServer(store.NewMemoryStore())

	w := doJSON(t, s, http.MethodPost, "/api/orders", `{
		"customer_name": "Ada",
		"customer_email": "ada@example.com",
		"shipping_address": "somewhere",
		"items": [],
		"total_amount": 10.0
	}`)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w = doJSON(t, s, http.MethodPost, "/api/orders", `{
		"customer_name": "Ada",
		"customer_email": "ada@example.com",
		"shipping_address": "somewhere",
		"items": [{"product_id": "p1", "quantity": 0, "unit_price": 1.0, "title": "Ring"}],
		"total_amount": 10.0
	}`)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestDiagnostic(t *testing.T) {
	s := newTestServer(store.NewMemoryStore())
	_, err := s.store.Insert(context.Background(), "product", store.Document{"title": "Ring"})
	require.NoError(t, err)

	w := doJSON(t, s, http.MethodGet, "/test", "")
	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]interface{}
	decode(t, w, &body)
	assert.Equal(t, "✅ Running", body["backend"])
	assert.Equal(t, "✅ Connected & Working", body["database"])
	assert.Equal(t, "✅ Set", body["database_url"])
	assert.Equal(t, "✅ Set", body["database_name"])
	assert.Equal(t, "Connected", body["connection_status"])
	assert.Equal(t, []interface{}{"product"}, body["collections"])
}

func TestDiagnosticWithoutStore(t *testing.T) {
	cfg := &config.Config{}
	s := New(cfg, zap.NewNop(), nil, nil)
	s.SetupRoutes()

	w := doJSON(t, s, http.MethodGet, "/test", "")
	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]interface{}
	decode(t, w, &body)
	assert.Equal(t, "❌ Not Available", body["database"])
	assert.Equal(t, "❌ Not Set", body["database_url"])
	assert.Equal(t, "Not Connected", body["connection_status"])

	// Read and write paths fail with a server error, not a panic.
	w = doJSON(t, s, http.MethodGet, "/api/products", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestProductQuery(t *testing.T) {
	q := productQuery("Rings", "gold", 10)
	assert.Equal(t, map[string]string{"category": "Rings"}, q.Equals)
	assert.Equal(t, "gold", q.Search)
	assert.Equal(t, []string{"title", "description"}, q.SearchFields)
	assert.Equal(t, int64(10), q.Limit)

	q = productQuery("", "", 50)
	assert.Nil(t, q.Equals)
	assert.Empty(t, q.Search)
	assert.Empty(t, q.SearchFields)
}
