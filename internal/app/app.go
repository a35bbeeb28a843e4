package app

import (
	"context"
	"encoding/json"
	"os"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/app"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/minimart/storefront/internal/domain/product"
	"github.com/minimart/storefront/internal/notify"
	"github.com/minimart/storefront/internal/session"
	"github.com/minimart/storefront/internal/shop"
	"github.com/minimart/storefront/internal/storage/kv"
	"github.com/minimart/storefront/internal/storage/postgres"
)

// Run creates all dependencies and drives the interactive storefront
// until the context is cancelled or input ends. It is the single wiring
// point for the application.
func Run(ctx context.Context, lg *zap.Logger, m *app.Metrics, cfg *Config) error {
	lg.Info("Initializing", zap.String("store", cfg.StorePath))

	// Session store: PostgreSQL when configured, file-backed otherwise.
	var (
		store  kv.Store
		writer shop.ProductWriter
		repo   *postgres.ProductRepository
	)
	if cfg.DatabaseURL != "" {
		pool, err := postgres.NewPool(ctx, cfg.DatabaseURL)
		if err != nil {
			return errors.Wrap(err, "create db pool")
		}
		defer pool.Close()

		if err := postgres.RunMigrations(ctx, pool); err != nil {
			return errors.Wrap(err, "run migrations")
		}

		store = postgres.NewKVStore(ctx, pool)
		repo = postgres.NewProductRepository(pool)
		writer = repo
		lg.Info("Using PostgreSQL store")
	} else {
		fileStore, err := kv.OpenFile(cfg.StorePath)
		if err != nil {
			return errors.Wrap(err, "open store")
		}
		store = fileStore
	}

	// Catalog: durable catalog when present, JSON seed file otherwise.
	catalog, err := loadCatalog(ctx, cfg, repo)
	if err != nil {
		return errors.Wrap(err, "load catalog")
	}
	lg.Info("Catalog loaded", zap.Int("products", len(catalog.List())))

	sink := notify.NewSink(cfg.NotificationTTL)
	sess := session.New(store, lg)

	st := shop.New(ctx, shop.Config{
		PersistDelay: cfg.PersistDelay,
		SearchDelay:  cfg.SearchDelay,
		Meter:        m.MeterProvider().Meter("storefront"),
		Tracer:       m.TracerProvider().Tracer("storefront"),
	}, catalog, sink, sess, writer, lg)
	defer st.Close()

	sh := newShell(st, os.Stdout)
	return sh.run(ctx, os.Stdin)
}

// productJSON mirrors the catalog seed file format.
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

// loadCatalog prefers the durable catalog, falls back to the seed file,
// and finally to a small built-in demo catalog.
func loadCatalog(ctx context.Context, cfg *Config, repo *postgres.ProductRepository) (*product.Catalog, error) {
	if repo != nil {
		products, err := repo.List(ctx)
		if err != nil {
			return nil, errors.Wrap(err, "list products")
		}
		if len(products) > 0 {
			return product.NewCatalog(products...), nil
		}
	}

	if cfg.CatalogPath != "" {
		products, err := readCatalogFile(cfg.CatalogPath)
		if err != nil {
			return nil, err
		}
		return product.NewCatalog(products...), nil
	}

	return product.NewCatalog(defaultCatalog()...), nil
}

func readCatalogFile(path string) ([]product.Product, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read catalog file")
	}

	var raw []productJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, errors.Wrap(err, "parse catalog JSON")
	}

	products := make([]product.Product, len(raw))
	for i, p := range raw {
		products[i] = product.Product{
			ID:    p.ID,
			Name:  p.Name,
			Price: p.Price,
			Stock: p.Stock,
		}
		for _, t := range p.Tiers {
			products[i].Tiers = append(products[i].Tiers, product.DiscountTier{
				Quantity: t.Quantity,
				Rate:     t.Rate,
			})
		}
	}
	return products, nil
}

// defaultCatalog is used when neither a database nor a seed file is
// configured, so the binary is usable out of the box.
func defaultCatalog() []product.Product {
	tier := func(qty int, rate string) product.DiscountTier {
		return product.DiscountTier{Quantity: qty, Rate: decimal.RequireFromString(rate)}
	}
	return []product.Product{
		{ID: "p1", Name: "Mechanical Keyboard", Price: decimal.NewFromInt(45000), Stock: 20,
			Tiers: []product.DiscountTier{tier(10, "0.1")}},
		{ID: "p2", Name: "Wireless Mouse", Price: decimal.NewFromInt(18000), Stock: 35,
			Tiers: []product.DiscountTier{tier(5, "0.05"), tier(10, "0.1")}},
		{ID: "p3", Name: "USB-C Hub", Price: decimal.NewFromInt(32000), Stock: 12},
		{ID: "p4", Name: "Laptop Stand", Price: decimal.NewFromInt(27000), Stock: 8,
			Tiers: []product.DiscountTier{tier(4, "0.08")}},
		{ID: "p5", Name: "Desk Mat", Price: decimal.NewFromInt(9000), Stock: 50,
			Tiers: []product.DiscountTier{tier(10, "0.15")}},
	}
}
