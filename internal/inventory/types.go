// Package inventory provides product and supplier access for the
// SysMarket dashboards: a remote JSON API client with fixed-TTL response
// memoization, and a local SQLite-backed store.
package inventory

import "time"

// Product is an inventory item. Fields mirror the remote API's JSON;
// missing values default during normalization.
type Product struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Category   string    `json:"category"`
	Price      float64   `json:"price"`
	Stock      int       `json:"stock"`
	SupplierID string    `json:"supplierId"`
	CreatedAt  time.Time `json:"createdAt"`
}

// Supplier is a product supplier.
type Supplier struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Address   string    `json:"address"`
	CreatedAt time.Time `json:"createdAt"`
}

// Sale is one recorded sale line. The remote API denormalizes product
// and supplier fields into the record.
type Sale struct {
	SaleID      string    `json:"saleId"`
	ProductID   string    `json:"productId"`
	ProductName string    `json:"productName"`
	Category    string    `json:"category"`
	SupplierID  string    `json:"supplierId"`
	Timestamp   time.Time `json:"timestamp"`
	Quantity    int       `json:"quantity"`
	Total       float64   `json:"total"`
}

// Snapshot bundles one consistent read of both collections.
type Snapshot struct {
	Products  []Product
	Suppliers []Supplier
}
