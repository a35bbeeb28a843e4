package postgres

import (
	"context"
	"encoding/json"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/minimart/storefront/internal/domain/product"
)

const (
	listProductsSQL = `SELECT id, name, price, stock, tiers FROM products ORDER BY position, id`

	getProductByIDSQL = `SELECT id, name, price, stock, tiers FROM products WHERE id = $1`

	upsertProductSQL = `INSERT INTO products (id, name, price, stock, tiers, position)
		VALUES ($1, $2, $3, $4, $5, COALESCE((SELECT position FROM products WHERE id = $1), (SELECT COALESCE(MAX(position), 0) + 1 FROM products)))
		ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name, price = EXCLUDED.price, stock = EXCLUDED.stock, tiers = EXCLUDED.tiers`

	deleteProductSQL = `DELETE FROM products WHERE id = $1`
)

// tierJSON is the JSONB representation of a discount tier.
type tierJSON struct {
	Quantity int             `json:"quantity"`
	Rate     decimal.Decimal `json:"rate"`
}

// ProductRepository persists the admin-managed catalog in PostgreSQL.
// Discount tiers are stored as a JSONB array per product.
type ProductRepository struct {
	pool *pgxpool.Pool
}

// NewProductRepository returns a ProductRepository that uses the given pool.
func NewProductRepository(pool *pgxpool.Pool) *ProductRepository {
	return &ProductRepository{pool: pool}
}

// List returns all products in their catalog order.
func (r *ProductRepository) List(ctx context.Context) ([]product.Product, error) {
	rows, err := r.pool.Query(ctx, listProductsSQL)
	if err != nil {
		return nil, errors.Wrap(err, "list products")
	}
	return pgx.CollectRows(rows, scanProduct)
}

// GetByID returns a single product by its identifier.
func (r *ProductRepository) GetByID(ctx context.Context, id string) (*product.Product, error) {
	rows, err := r.pool.Query(ctx, getProductByIDSQL, id)
	if err != nil {
		return nil, errors.Wrapf(err, "get product %q", id)
	}

	p, err := pgx.CollectExactlyOneRow(rows, scanProduct)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, product.ErrNotFound
		}
		return nil, errors.Wrapf(err, "get product %q", id)
	}
	return &p, nil
}

// Upsert inserts or updates a product, keeping its catalog position on
// update.
func (r *ProductRepository) Upsert(ctx context.Context, p product.Product) error {
	tiers := make([]tierJSON, len(p.Tiers))
	for i, t := range p.Tiers {
		tiers[i] = tierJSON{Quantity: t.Quantity, Rate: t.Rate}
	}
	tiersJSON, err := json.Marshal(tiers)
	if err != nil {
		return errors.Wrapf(err, "marshal tiers for product %q", p.ID)
	}

	if _, err := r.pool.Exec(ctx, upsertProductSQL, p.ID, p.Name, p.Price, p.Stock, tiersJSON); err != nil {
		return errors.Wrapf(err, "upsert product %q", p.ID)
	}
	return nil
}

// Delete removes a product from the persistent catalog.
func (r *ProductRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.pool.Exec(ctx, deleteProductSQL, id); err != nil {
		return errors.Wrapf(err, "delete product %q", id)
	}
	return nil
}

func scanProduct(row pgx.CollectableRow) (product.Product, error) {
	var (
		p        product.Product
		price    decimal.Decimal
		rawTiers []byte
	)
	if err := row.Scan(&p.ID, &p.Name, &price, &p.Stock, &rawTiers); err != nil {
		return product.Product{}, err
	}
	p.Price = price

	var tiers []tierJSON
	if len(rawTiers) > 0 {
		if err := json.Unmarshal(rawTiers, &tiers); err != nil {
			return product.Product{}, errors.Wrapf(err, "parse tiers for product %q", p.ID)
		}
	}
	for _, t := range tiers {
		p.Tiers = append(p.Tiers, product.DiscountTier{Quantity: t.Quantity, Rate: t.Rate})
	}
	return p, nil
}
