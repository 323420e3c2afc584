package inventory

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// Store is the local SQLite-backed product store, the offline counterpart
// of the remote API client.
type Store struct {
	db *sql.DB
}

const storeSchema = `
CREATE TABLE IF NOT EXISTS products (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	name        TEXT NOT NULL,
	category    TEXT NOT NULL DEFAULT '',
	price       REAL NOT NULL DEFAULT 0,
	stock       INTEGER NOT NULL DEFAULT 0,
	supplier_id TEXT NOT NULL DEFAULT '',
	created_at  TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_products_category ON products(category);
`

// OpenStore opens (and if needed initializes) the product database at path.
// Use ":memory:" for an ephemeral store.
func OpenStore(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if _, err := db.Exec(storeSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("initialize schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// AddProduct inserts a product and returns it with the assigned id.
func (s *Store) AddProduct(ctx context.Context, p Product) (*Product, error) {
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO products (name, category, price, stock, supplier_id, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		p.Name, p.Category, p.Price, p.Stock, p.SupplierID, p.CreatedAt.Format(time.RFC3339Nano))
	if err != nil {
		return nil, fmt.Errorf("insert product: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("read inserted id: %w", err)
	}
	p.ID = fmt.Sprintf("%d", id)
	return &p, nil
}

// Products lists all products, newest first.
func (s *Store) Products(ctx context.Context) ([]Product, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, category, price, stock, supplier_id, created_at
		 FROM products ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("query products: %w", err)
	}
	defer rows.Close()
	return scanProducts(rows)
}

// LowStock lists products at or below the given stock threshold.
func (s *Store) LowStock(ctx context.Context, threshold int) ([]Product, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, category, price, stock, supplier_id, created_at
		 FROM products WHERE stock <= ? ORDER BY stock ASC`, threshold)
	if err != nil {
		return nil, fmt.Errorf("query low stock: %w", err)
	}
	defer rows.Close()
	return scanProducts(rows)
}

// UpdateStock sets the absolute stock level for a product.
func (s *Store) UpdateStock(ctx context.Context, id string, stock int) error {
	res, err := s.db.ExecContext(ctx, `UPDATE products SET stock = ? WHERE id = ?`, stock, id)
	if err != nil {
		return fmt.Errorf("update stock: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update stock: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("product %s not found", id)
	}
	return nil
}

// DeleteProduct removes a product by id.
func (s *Store) DeleteProduct(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM products WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("product %s not found", id)
	}
	return nil
}

func scanProducts(rows *sql.Rows) ([]Product, error) {
	var products []Product
	for rows.Next() {
		var p Product
		var createdAt string
		if err := rows.Scan(&p.ID, &p.Name, &p.Category, &p.Price, &p.Stock, &p.SupplierID, &createdAt); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		// Timestamps are stored as RFC3339 text; an unparsable value keeps
		// the zero time rather than failing the whole listing.
		p.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)
		products = append(products, p)
	}
	return products, rows.Err()
}
