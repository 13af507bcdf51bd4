package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"adalbertofjr/products-api/ajun"
	"adalbertofjr/products-api/internal/events"
	"adalbertofjr/products-api/internal/product"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, ev events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
	return p.err
}

func (p *recordingPublisher) Close() error { return nil }

// failingStore fails every call with err.
type failingStore struct{ err error }

func (s failingStore) FindAll(context.Context) ([]product.Product, error) { return nil, s.err }

func (s failingStore) FindByID(context.Context, string) (product.Product, error) {
	return product.Product{}, s.err
}

func (s failingStore) Create(context.Context, product.ProductFields) (product.Product, error) {
	return product.Product{}, s.err
}

func (s failingStore) Update(context.Context, string, product.Product) (product.Product, error) {
	return product.Product{}, s.err
}

func newTestRouter(store product.Store, pub events.Publisher) http.Handler {
	router := ajun.NewRouter()
	RegisterRoutes(router, NewProductHandler(store, pub, nil))
	return router.Handler
}

func serve(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func seedProduct(t *testing.T, repo *product.Repository) product.Product {
	t.Helper()
	p, err := repo.Insert(context.Background(), product.Product{Title: "A", Description: "B", Price: 10})
	require.NoError(t, err)
	return p
}

func decodeProduct(t *testing.T, w *httptest.ResponseRecorder) product.Product {
	t.Helper()
	var p product.Product
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &p))
	return p
}

func TestListProducts_Empty(t *testing.T) {
	h := newTestRouter(product.NewRepository(product.NewMemoryBackend()), nil)

	w := serve(t, h, http.MethodGet, "/api/products", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.Equal(t, "[]", w.Body.String())
}

func TestListProducts(t *testing.T) {
	repo := product.NewRepository(product.NewMemoryBackend())
	first := seedProduct(t, repo)
	second, err := repo.Insert(context.Background(), product.Product{Title: "C", Price: 5})
	require.NoError(t, err)

	w := serve(t, newTestRouter(repo, nil), http.MethodGet, "/api/products", "")

	require.Equal(t, http.StatusOK, w.Code)
	var got []product.Product
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, []product.Product{first, second}, got)
}

func TestListProducts_StoreError(t *testing.T) {
	h := newTestRouter(failingStore{err: errors.New("disco cheio")}, nil)

	w := serve(t, h, http.MethodGet, "/api/products", "")

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"message":"Internal Server Error"}`, w.Body.String())
}

func TestGetProduct(t *testing.T) {
	repo := product.NewRepository(product.NewMemoryBackend())
	p := seedProduct(t, repo)
	h := newTestRouter(repo, nil)

	for _, path := range []string{"/api/product/" + p.ID, "/api/products/" + p.ID} {
		w := serve(t, h, http.MethodGet, path, "")

		require.Equal(t, http.StatusOK, w.Code, path)
		assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

		want, _ := json.Marshal(p)
		assert.Equal(t, string(want), w.Body.String())
	}
}

func TestGetProduct_NotFound(t *testing.T) {
	h := newTestRouter(product.NewRepository(product.NewMemoryBackend()), nil)

	w := serve(t, h, http.MethodGet, "/api/product/desconhecido", "")

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.Equal(t, `{"message":"Product Not Found"}`, w.Body.String())
}

func TestGetProduct_StoreError(t *testing.T) {
	h := newTestRouter(failingStore{err: errors.New("timeout")}, nil)

	w := serve(t, h, http.MethodGet, "/api/product/1", "")

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestCreateProduct(t *testing.T) {
	repo := product.NewRepository(product.NewMemoryBackend())
	pub := &recordingPublisher{}
	h := newTestRouter(repo, pub)

	w := serve(t, h, http.MethodPost, "/api/products", `{"title":"A","description":"B","price":10,"extra":"ignorado"}`)

	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	created := decodeProduct(t, w)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "A", created.Title)
	assert.Equal(t, "B", created.Description)
	assert.Equal(t, 10.0, created.Price)

	stored, err := repo.FindByID(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, stored)

	require.Len(t, pub.events, 1)
	assert.Equal(t, events.ProductCreated, pub.events[0].Type)
	assert.Equal(t, created, pub.events[0].Product)
}

func TestCreateProduct_MissingFieldsAreNotValidated(t *testing.T) {
	h := newTestRouter(product.NewRepository(product.NewMemoryBackend()), nil)

	w := serve(t, h, http.MethodPost, "/api/products", `{"title":"Só título"}`)

	require.Equal(t, http.StatusCreated, w.Code)
	created := decodeProduct(t, w)
	assert.Equal(t, "Só título", created.Title)
	assert.Zero(t, created.Price)
}

func TestCreateProduct_InvalidBody(t *testing.T) {
	repo := product.NewRepository(product.NewMemoryBackend())
	h := newTestRouter(repo, nil)

	for _, body := range []string{"", "{", `{"price":"dez"}`, "[1,2]"} {
		w := serve(t, h, http.MethodPost, "/api/products", body)

		assert.Equal(t, http.StatusBadRequest, w.Code, "body %q", body)
		assert.Equal(t, `{"message":"Invalid Request Body"}`, w.Body.String())
	}

	products, _ := repo.FindAll(context.Background())
	assert.Empty(t, products)
}

func TestCreateProduct_BodyTooLarge(t *testing.T) {
	h := newTestRouter(product.NewRepository(product.NewMemoryBackend()), nil)

	body := `{"title":"` + strings.Repeat("x", maxBodyBytes) + `"}`
	w := serve(t, h, http.MethodPost, "/api/products", body)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateProduct_StoreError(t *testing.T) {
	pub := &recordingPublisher{}
	h := newTestRouter(failingStore{err: errors.New("redis fora do ar")}, pub)

	w := serve(t, h, http.MethodPost, "/api/products", `{"title":"A"}`)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Empty(t, pub.events)
}

func TestCreateProduct_PublishFailureKeepsResponse(t *testing.T) {
	pub := &recordingPublisher{err: errors.New("broker indisponível")}
	h := newTestRouter(product.NewRepository(product.NewMemoryBackend()), pub)

	w := serve(t, h, http.MethodPost, "/api/products", `{"title":"A"}`)

	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestUpdateProduct(t *testing.T) {
	tests := []struct {
		name string
		body string
		want product.Product
	}{
		{
			name: "altera apenas o preço",
			body: `{"price":20}`,
			want: product.Product{Title: "A", Description: "B", Price: 20},
		},
		{
			name: "corpo vazio mantém o produto",
			body: `{}`,
			want: product.Product{Title: "A", Description: "B", Price: 10},
		},
		{
			name: "preço zero é aplicado",
			body: `{"price":0}`,
			want: product.Product{Title: "A", Description: "B", Price: 0},
		},
		{
			name: "título vazio é aplicado",
			body: `{"title":""}`,
			want: product.Product{Title: "", Description: "B", Price: 10},
		},
		{
			name: "null conta como ausente",
			body: `{"description":null,"title":"Novo"}`,
			want: product.Product{Title: "Novo", Description: "B", Price: 10},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := product.NewRepository(product.NewMemoryBackend())
			existing := seedProduct(t, repo)
			pub := &recordingPublisher{}
			h := newTestRouter(repo, pub)

			w := serve(t, h, http.MethodPut, "/api/products/"+existing.ID, tt.body)

			require.Equal(t, http.StatusOK, w.Code)
			tt.want.ID = existing.ID
			assert.Equal(t, tt.want, decodeProduct(t, w))

			stored, err := repo.FindByID(context.Background(), existing.ID)
			require.NoError(t, err)
			assert.Equal(t, tt.want, stored)

			require.Len(t, pub.events, 1)
			assert.Equal(t, events.ProductUpdated, pub.events[0].Type)
		})
	}
}

func TestUpdateProduct_NotFound(t *testing.T) {
	h := newTestRouter(product.NewRepository(product.NewMemoryBackend()), nil)

	// O corpo nem é lido quando o produto não existe
	w := serve(t, h, http.MethodPut, "/api/products/desconhecido", "{")

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, `{"message":"Product Not Found"}`, w.Body.String())
}

func TestUpdateProduct_InvalidBody(t *testing.T) {
	repo := product.NewRepository(product.NewMemoryBackend())
	existing := seedProduct(t, repo)
	h := newTestRouter(repo, nil)

	w := serve(t, h, http.MethodPut, "/api/products/"+existing.ID, `{"price":`)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	stored, _ := repo.FindByID(context.Background(), existing.ID)
	assert.Equal(t, existing, stored)
}

type vanishingStore struct {
	*product.Repository
}

func (vanishingStore) Update(context.Context, string, product.Product) (product.Product, error) {
	return product.Product{}, product.ErrNotFound
}

func TestUpdateProduct_DeletedBetweenLookupAndUpdate(t *testing.T) {
	repo := product.NewRepository(product.NewMemoryBackend())
	existing := seedProduct(t, repo)
	h := newTestRouter(vanishingStore{repo}, nil)

	w := serve(t, h, http.MethodPut, "/api/products/"+existing.ID, `{"price":1}`)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUpdateProduct_StoreError(t *testing.T) {
	h := newTestRouter(failingStore{err: errors.New("falha")}, nil)

	w := serve(t, h, http.MethodPut, "/api/products/1", `{"price":1}`)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestRoutes_Fallbacks(t *testing.T) {
	h := newTestRouter(product.NewRepository(product.NewMemoryBackend()), nil)

	w := serve(t, h, http.MethodGet, "/api/desconhecido", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, `{"message":"Route Not Found"}`, w.Body.String())

	w = serve(t, h, http.MethodDelete, "/api/products/1", "")
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
	assert.Equal(t, `{"message":"Method Not Allowed"}`, w.Body.String())
}

func TestHealthHandler(t *testing.T) {
	w := serve(t, newTestRouter(product.NewRepository(product.NewMemoryBackend()), nil), http.MethodGet, "/health", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, `{"status":"OK"}`, w.Body.String())
}
