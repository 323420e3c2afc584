package inventory

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m,
		// net/http keeps idle connections in a background keep-alive pool.
		goleak.IgnoreTopFunction("net/http.(*persistConn).writeLoop"),
		goleak.IgnoreTopFunction("net/http.(*persistConn).readLoop"),
		goleak.IgnoreTopFunction("internal/poll.runtime_pollWait"),
	)
}

// apiHits counts requests per collection so cache behavior is observable.
type apiHits struct {
	products  int32
	suppliers int32
	sales     int32
}

func newTestServer(t *testing.T, products []Product, suppliers []Supplier, sales []Sale, hits *apiHits) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/products", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits.products, 1)
		switch r.Method {
		case http.MethodGet:
			json.NewEncoder(w).Encode(products)
		case http.MethodPost:
			var p Product
			require.NoError(t, json.NewDecoder(r.Body).Decode(&p))
			p.ID = "42"
			w.WriteHeader(http.StatusCreated)
			json.NewEncoder(w).Encode(p)
		}
	})
	mux.HandleFunc("/api/v1/suppliers", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits.suppliers, 1)
		switch r.Method {
		case http.MethodGet:
			json.NewEncoder(w).Encode(suppliers)
		case http.MethodPost:
			var s Supplier
			require.NoError(t, json.NewDecoder(r.Body).Decode(&s))
			s.ID = "s42"
			w.WriteHeader(http.StatusCreated)
			json.NewEncoder(w).Encode(s)
		}
	})
	mux.HandleFunc("/api/v1/suppliers/", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits.suppliers, 1)
		w.WriteHeader(http.StatusNoContent)
	})
	mux.HandleFunc("/api/v1/sales", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits.sales, 1)
		json.NewEncoder(w).Encode(sales)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func testClient(t *testing.T, srv *httptest.Server) *Client {
	t.Helper()
	cfg := DefaultClientConfig()
	cfg.BaseURL = srv.URL + "/api/v1"
	return NewClient(cfg, nil)
}

func TestClient_Products(t *testing.T) {
	var hits apiHits
	srv := newTestServer(t, []Product{{ID: "1", Name: "Milk", Price: 2.5, Stock: 10}}, nil, nil, &hits)
	client := testClient(t, srv)

	products, err := client.Products(context.Background())
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "Milk", products[0].Name)
	assert.Equal(t, 2.5, products[0].Price)
}

func TestClient_Sales(t *testing.T) {
	var hits apiHits
	srv := newTestServer(t, nil, nil, []Sale{
		{SaleID: "v1", ProductName: "Milk", Quantity: 3, Total: 7.5},
		{SaleID: "v2", ProductName: "Oats", Quantity: 1, Total: 2.0},
	}, &hits)
	client := testClient(t, srv)

	sales, err := client.Sales(context.Background())
	require.NoError(t, err)
	require.Len(t, sales, 2)
	assert.Equal(t, "Milk", sales[0].ProductName)
	assert.Equal(t, 7.5, sales[0].Total)
}

func TestClient_CacheWithinTTL(t *testing.T) {
	var hits apiHits
	srv := newTestServer(t, []Product{{ID: "1", Name: "Milk"}}, nil, nil, &hits)
	client := testClient(t, srv)

	ctx := context.Background()
	_, err := client.Products(ctx)
	require.NoError(t, err)
	_, err = client.Products(ctx)
	require.NoError(t, err)

	assert.Equal(t, int32(1), atomic.LoadInt32(&hits.products), "second call should be served from cache")
}

func TestClient_CacheExpires(t *testing.T) {
	var hits apiHits
	srv := newTestServer(t, []Product{{ID: "1"}}, nil, nil, &hits)
	client := testClient(t, srv)

	// Control the clock instead of sleeping.
	current := time.Now()
	client.now = func() time.Time { return current }

	ctx := context.Background()
	_, err := client.Products(ctx)
	require.NoError(t, err)

	current = current.Add(61 * time.Second)
	_, err = client.Products(ctx)
	require.NoError(t, err)

	assert.Equal(t, int32(2), atomic.LoadInt32(&hits.products))
}

func TestClient_SalesTTLOutlivesProductTTL(t *testing.T) {
	var hits apiHits
	srv := newTestServer(t, []Product{{ID: "1"}}, nil, []Sale{{SaleID: "v1"}}, &hits)
	client := testClient(t, srv)

	current := time.Now()
	client.now = func() time.Time { return current }

	ctx := context.Background()
	_, err := client.Products(ctx)
	require.NoError(t, err)
	_, err = client.Sales(ctx)
	require.NoError(t, err)

	// 61s later the 60s product cache is stale, the 120s sales cache is not.
	current = current.Add(61 * time.Second)
	_, err = client.Products(ctx)
	require.NoError(t, err)
	_, err = client.Sales(ctx)
	require.NoError(t, err)
	assert.Equal(t, int32(2), atomic.LoadInt32(&hits.products))
	assert.Equal(t, int32(1), atomic.LoadInt32(&hits.sales))

	// Past the 120s mark sales refetch too.
	current = current.Add(60 * time.Second)
	_, err = client.Sales(ctx)
	require.NoError(t, err)
	assert.Equal(t, int32(2), atomic.LoadInt32(&hits.sales))
}

func TestClient_MutationInvalidatesCache(t *testing.T) {
	var hits apiHits
	srv := newTestServer(t, []Product{{ID: "1"}}, nil, nil, &hits)
	client := testClient(t, srv)

	ctx := context.Background()
	_, err := client.Products(ctx)
	require.NoError(t, err)

	created, err := client.CreateProduct(ctx, Product{Name: "Oats"})
	require.NoError(t, err)
	assert.Equal(t, "42", created.ID)

	_, err = client.Products(ctx)
	require.NoError(t, err)
	// GET, POST, GET. The second GET must not be a cache hit.
	assert.Equal(t, int32(3), atomic.LoadInt32(&hits.products))
}

func TestClient_SupplierMutationsInvalidateCache(t *testing.T) {
	var hits apiHits
	srv := newTestServer(t, nil, []Supplier{{ID: "s1", Name: "Dairy Co"}}, nil, &hits)
	client := testClient(t, srv)
	ctx := context.Background()

	_, err := client.Suppliers(ctx)
	require.NoError(t, err)

	created, err := client.CreateSupplier(ctx, Supplier{Name: "Grain Co"})
	require.NoError(t, err)
	assert.Equal(t, "s42", created.ID)

	_, err = client.Suppliers(ctx)
	require.NoError(t, err)
	assert.Equal(t, int32(3), atomic.LoadInt32(&hits.suppliers))

	require.NoError(t, client.UpdateSupplier(ctx, Supplier{ID: "s1", Name: "Dairy Co SA"}))
	require.NoError(t, client.DeleteSupplier(ctx, "s1"))

	_, err = client.Suppliers(ctx)
	require.NoError(t, err)
	// Two mutations plus a fresh listing after the second invalidation.
	assert.Equal(t, int32(6), atomic.LoadInt32(&hits.suppliers))
}

func TestClient_FetchAll(t *testing.T) {
	var hits apiHits
	srv := newTestServer(t,
		[]Product{{ID: "1", Name: "Milk"}},
		[]Supplier{{ID: "s1", Name: "Dairy Co"}},
		nil,
		&hits)
	client := testClient(t, srv)

	snap, err := client.FetchAll(context.Background())
	require.NoError(t, err)
	require.Len(t, snap.Products, 1)
	require.Len(t, snap.Suppliers, 1)
	assert.Equal(t, "Dairy Co", snap.Suppliers[0].Name)
}

func TestClient_ErrorStatusSurfacesDetail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"message":"no such product"}`))
	}))
	t.Cleanup(srv.Close)

	cfg := DefaultClientConfig()
	cfg.BaseURL = srv.URL
	client := NewClient(cfg, nil)

	_, err := client.Products(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
	assert.Contains(t, err.Error(), "no such product")
}

func TestClient_ConnectionRefused(t *testing.T) {
	cfg := DefaultClientConfig()
	cfg.BaseURL = "http://127.0.0.1:1" // nothing listens here
	cfg.RequestTimeout = time.Second
	client := NewClient(cfg, nil)

	_, err := client.Products(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "could not reach")
}

func TestBuildURL(t *testing.T) {
	cfg := DefaultClientConfig()
	cfg.BaseURL = "http://host:8080/api/v1/"
	client := NewClient(cfg, nil)

	assert.Equal(t, "http://host:8080/api/v1/products", client.buildURL("/products"))
	assert.Equal(t, "http://host:8080/api/v1/products", client.buildURL("products"))
	assert.Equal(t, "https://elsewhere/x", client.buildURL("https://elsewhere/x"))
}
