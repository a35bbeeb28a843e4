// Command seed-store loads the product catalog from a JSON file and the
// default coupon pair into the PostgreSQL store.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"log/slog"
	"os"
	"os/signal"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/minimart/storefront/internal/domain/coupon"
	"github.com/minimart/storefront/internal/domain/product"
	"github.com/minimart/storefront/internal/session"
	"github.com/minimart/storefront/internal/storage/postgres"
)

type productJSON struct {
	ID    string          `json:"id"`
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
	Stock int             `json:"stock"`
	Tiers []struct {
		Quantity int             `json:"quantity"`
		Rate     decimal.Decimal `json:"rate"`
	} `json:"tiers"`
}

func main() {
	var (
		databaseURL  string
		productsFile string
	)

	flag.StringVar(&databaseURL, "database-url", "", "PostgreSQL connection URL (or DATABASE_URL env)")
	flag.StringVar(&productsFile, "products-file", "db/seed/products.json", "path to products JSON file")
	flag.Parse()

	if databaseURL == "" {
		databaseURL = os.Getenv("DATABASE_URL")
	}
	if databaseURL == "" {
		slog.Error("database URL is required: set --database-url or DATABASE_URL")
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := run(ctx, databaseURL, productsFile); err != nil {
		slog.Error("seed failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slog.Info("seed completed successfully")
}

func run(ctx context.Context, databaseURL, productsFile string) error {
	slog.Info("connecting to database")

	pool, err := postgres.NewPool(ctx, databaseURL)
	if err != nil {
		return errors.Wrap(err, "connect to database")
	}
	defer pool.Close()

	slog.Info("running migrations")

	if err := postgres.RunMigrations(ctx, pool); err != nil {
		return errors.Wrap(err, "run migrations")
	}

	if err := seedProducts(ctx, pool, productsFile); err != nil {
		return errors.Wrap(err, "seed products")
	}

	if err := seedCoupons(ctx, pool); err != nil {
		return errors.Wrap(err, "seed coupons")
	}

	return nil
}

func seedProducts(ctx context.Context, pool *pgxpool.Pool, productsFile string) error {
	slog.Info("reading products file", slog.String("path", productsFile))

	data, err := os.ReadFile(productsFile)
	if err != nil {
		return errors.Wrap(err, "read products file")
	}

	var products []productJSON
	if err := json.Unmarshal(data, &products); err != nil {
		return errors.Wrap(err, "parse products JSON")
	}

	repo := postgres.NewProductRepository(pool)

	slog.Info("upserting products", slog.Int("count", len(products)))

	for _, p := range products {
		prod := product.Product{
			ID:    p.ID,
			Name:  p.Name,
			Price: p.Price,
			Stock: p.Stock,
		}
		for _, t := range p.Tiers {
			prod.Tiers = append(prod.Tiers, product.DiscountTier{Quantity: t.Quantity, Rate: t.Rate})
		}

		if err := repo.Upsert(ctx, prod); err != nil {
			return errors.Wrapf(err, "upsert product %s", p.ID)
		}

		slog.Info("upserted product", slog.String("id", p.ID), slog.String("name", p.Name))
	}

	return nil
}

// seedCoupons writes the default coupon pair unless coupons already
// exist in the store.
func seedCoupons(ctx context.Context, pool *pgxpool.Pool) error {
	sess := session.New(postgres.NewKVStore(ctx, pool), zap.NewNop())

	existing := coupon.NewRegistry(sess.LoadCoupons()...)
	if err := sess.SaveCoupons(existing.List()); err != nil {
		return errors.Wrap(err, "save coupons")
	}

	for _, c := range existing.List() {
		slog.Info("seeded coupon", slog.String("code", c.Code), slog.String("name", c.Name))
	}

	return nil
}
