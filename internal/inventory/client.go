package inventory

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// ClientConfig configures the remote API client.
type ClientConfig struct {
	BaseURL           string
	ProductsEndpoint  string
	SuppliersEndpoint string
	SalesEndpoint     string
	RequestTimeout    time.Duration
	CacheTTL          time.Duration
	SalesCacheTTL     time.Duration
}

// DefaultClientConfig mirrors the dashboard defaults: a local API,
// 15 second requests, 60 second response memoization. Sales move slowly
// and get their own 120 second TTL.
func DefaultClientConfig() ClientConfig {
	return ClientConfig{
		BaseURL:           "http://localhost:8080/api/v1",
		ProductsEndpoint:  "/products",
		SuppliersEndpoint: "/suppliers",
		SalesEndpoint:     "/sales",
		RequestTimeout:    15 * time.Second,
		CacheTTL:          60 * time.Second,
		SalesCacheTTL:     120 * time.Second,
	}
}

type cacheEntry struct {
	body    []byte
	fetched time.Time
}

// Client calls the remote inventory API. GET responses are memoized per
// path, each with its own TTL; any mutating call drops the whole cache.
type Client struct {
	config     ClientConfig
	httpClient *http.Client
	log        *zap.Logger

	mu    sync.Mutex
	cache map[string]cacheEntry
	now   func() time.Time
}

// NewClient builds a client over the given config.
func NewClient(config ClientConfig, log *zap.Logger) *Client {
	if config.RequestTimeout <= 0 {
		config.RequestTimeout = 15 * time.Second
	}
	if config.CacheTTL <= 0 {
		config.CacheTTL = 60 * time.Second
	}
	if config.SalesCacheTTL <= 0 {
		config.SalesCacheTTL = 120 * time.Second
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{
		config:     config,
		httpClient: &http.Client{Timeout: config.RequestTimeout},
		log:        log,
		cache:      make(map[string]cacheEntry),
		now:        time.Now,
	}
}

func (c *Client) buildURL(path string) string {
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	base := strings.TrimRight(c.config.BaseURL, "/")
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return base + path
}

// request performs one API call. Status >= 400 is an error carrying the
// decoded detail body when the API supplies one.
func (c *Client) request(ctx context.Context, method, path string, body any) ([]byte, error) {
	url := c.buildURL(path)

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reqBody)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("could not reach %s: %w", url, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response from %s: %w", url, err)
	}

	if resp.StatusCode >= 400 {
		detail := strings.TrimSpace(string(data))
		if detail == "" {
			detail = resp.Status
		}
		return nil, fmt.Errorf("API error %d %s %s: %s", resp.StatusCode, method, url, detail)
	}
	return data, nil
}

// cachedGet returns the memoized body for path when it is still fresh,
// fetching and storing it otherwise. Each path carries its own TTL.
func (c *Client) cachedGet(ctx context.Context, path string, ttl time.Duration) ([]byte, error) {
	c.mu.Lock()
	if entry, ok := c.cache[path]; ok && c.now().Sub(entry.fetched) < ttl {
		c.mu.Unlock()
		c.log.Debug("Inventory cache hit", zap.String("path", path))
		return entry.body, nil
	}
	c.mu.Unlock()

	body, err := c.request(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.cache[path] = cacheEntry{body: body, fetched: c.now()}
	c.mu.Unlock()
	return body, nil
}

// invalidate drops every memoized response. Called after any mutation.
func (c *Client) invalidate() {
	c.mu.Lock()
	c.cache = make(map[string]cacheEntry)
	c.mu.Unlock()
}

// Products lists all products, served from cache within the TTL.
func (c *Client) Products(ctx context.Context) ([]Product, error) {
	body, err := c.cachedGet(ctx, c.config.ProductsEndpoint, c.config.CacheTTL)
	if err != nil {
		return nil, err
	}
	var products []Product
	if err := json.Unmarshal(body, &products); err != nil {
		return nil, fmt.Errorf("decode products: %w", err)
	}
	return products, nil
}

// Suppliers lists all suppliers, served from cache within the TTL.
func (c *Client) Suppliers(ctx context.Context) ([]Supplier, error) {
	body, err := c.cachedGet(ctx, c.config.SuppliersEndpoint, c.config.CacheTTL)
	if err != nil {
		return nil, err
	}
	var suppliers []Supplier
	if err := json.Unmarshal(body, &suppliers); err != nil {
		return nil, fmt.Errorf("decode suppliers: %w", err)
	}
	return suppliers, nil
}

// Sales lists recorded sales, served from cache within the sales TTL.
func (c *Client) Sales(ctx context.Context) ([]Sale, error) {
	body, err := c.cachedGet(ctx, c.config.SalesEndpoint, c.config.SalesCacheTTL)
	if err != nil {
		return nil, err
	}
	var sales []Sale
	if err := json.Unmarshal(body, &sales); err != nil {
		return nil, fmt.Errorf("decode sales: %w", err)
	}
	return sales, nil
}

// FetchAll loads products and suppliers concurrently.
func (c *Client) FetchAll(ctx context.Context) (*Snapshot, error) {
	var snap Snapshot
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		products, err := c.Products(ctx)
		snap.Products = products
		return err
	})
	g.Go(func() error {
		suppliers, err := c.Suppliers(ctx)
		snap.Suppliers = suppliers
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &snap, nil
}

// CreateProduct posts a new product and invalidates the cache.
func (c *Client) CreateProduct(ctx context.Context, p Product) (*Product, error) {
	body, err := c.request(ctx, http.MethodPost, c.config.ProductsEndpoint, p)
	if err != nil {
		return nil, err
	}
	c.invalidate()

	var created Product
	if len(body) > 0 {
		if err := json.Unmarshal(body, &created); err != nil {
			return nil, fmt.Errorf("decode created product: %w", err)
		}
	}
	return &created, nil
}

// UpdateProduct puts changed fields for an existing product.
func (c *Client) UpdateProduct(ctx context.Context, p Product) error {
	path := fmt.Sprintf("%s/%s", strings.TrimRight(c.config.ProductsEndpoint, "/"), p.ID)
	if _, err := c.request(ctx, http.MethodPut, path, p); err != nil {
		return err
	}
	c.invalidate()
	return nil
}

// DeleteProduct removes a product by id.
func (c *Client) DeleteProduct(ctx context.Context, id string) error {
	path := fmt.Sprintf("%s/%s", strings.TrimRight(c.config.ProductsEndpoint, "/"), id)
	if _, err := c.request(ctx, http.MethodDelete, path, nil); err != nil {
		return err
	}
	c.invalidate()
	return nil
}

// CreateSupplier posts a new supplier and invalidates the cache.
func (c *Client) CreateSupplier(ctx context.Context, s Supplier) (*Supplier, error) {
	body, err := c.request(ctx, http.MethodPost, c.config.SuppliersEndpoint, s)
	if err != nil {
		return nil, err
	}
	c.invalidate()

	var created Supplier
	if len(body) > 0 {
		if err := json.Unmarshal(body, &created); err != nil {
			return nil, fmt.Errorf("decode created supplier: %w", err)
		}
	}
	return &created, nil
}

// UpdateSupplier puts changed fields for an existing supplier.
func (c *Client) UpdateSupplier(ctx context.Context, s Supplier) error {
	path := fmt.Sprintf("%s/%s", strings.TrimRight(c.config.SuppliersEndpoint, "/"), s.ID)
	if _, err := c.request(ctx, http.MethodPut, path, s); err != nil {
		return err
	}
	c.invalidate()
	return nil
}

// DeleteSupplier removes a supplier by id.
func (c *Client) DeleteSupplier(ctx context.Context, id string) error {
	path := fmt.Sprintf("%s/%s", strings.TrimRight(c.config.SuppliersEndpoint, "/"), id)
	if _, err := c.request(ctx, http.MethodDelete, path, nil); err != nil {
		return err
	}
	c.invalidate()
	return nil
}
