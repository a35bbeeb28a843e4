//go:build integration

package integration

import (
	"context"
	"testing"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/minimart/storefront/internal/domain/product"
	"github.com/minimart/storefront/internal/storage/postgres"
)

func TestProductRepository_UpsertAndGet(t *testing.T) {
	ctx := context.Background()
	repo := postgres.NewProductRepository(pool)

	p := product.Product{
		ID:    "it-waffle",
		Name:  "Waffle with Berries",
		Price: decimal.NewFromInt(650),
		Stock: 12,
		Tiers: []product.DiscountTier{
			{Quantity: 5, Rate: decimal.RequireFromString("0.05")},
			{Quantity: 10, Rate: decimal.RequireFromString("0.2")},
		},
	}
	if err := repo.Upsert(ctx, p); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	t.Cleanup(func() {
		if err := repo.Delete(context.Background(), p.ID); err != nil {
			t.Errorf("cleanup: %v", err)
		}
	})

	got, err := repo.GetByID(ctx, p.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Name != p.Name {
		t.Errorf("name: got %q, want %q", got.Name, p.Name)
	}
	if !got.Price.Equal(p.Price) {
		t.Errorf("price: got %s, want %s", got.Price, p.Price)
	}
	if got.Stock != p.Stock {
		t.Errorf("stock: got %d, want %d", got.Stock, p.Stock)
	}
	if len(got.Tiers) != 2 {
		t.Fatalf("tiers: got %d, want 2", len(got.Tiers))
	}
	if got.Tiers[1].Quantity != 10 || !got.Tiers[1].Rate.Equal(decimal.RequireFromString("0.2")) {
		t.Errorf("tier[1]: got %+v", got.Tiers[1])
	}
}

func TestProductRepository_UpsertKeepsPosition(t *testing.T) {
	ctx := context.Background()
	repo := postgres.NewProductRepository(pool)

	first := product.Product{ID: "it-pos-1", Name: "First", Price: decimal.NewFromInt(100), Stock: 1}
	second := product.Product{ID: "it-pos-2", Name: "Second", Price: decimal.NewFromInt(200), Stock: 1}
	for _, p := range []product.Product{first, second} {
		if err := repo.Upsert(ctx, p); err != nil {
			t.Fatalf("upsert %s: %v", p.ID, err)
		}
	}
	t.Cleanup(func() {
		for _, id := range []string{"it-pos-1", "it-pos-2"} {
			_ = repo.Delete(context.Background(), id)
		}
	})

	// Updating the first product must not move it behind the second.
	first.Name = "First Updated"
	if err := repo.Upsert(ctx, first); err != nil {
		t.Fatalf("re-upsert: %v", err)
	}

	list, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	idxFirst, idxSecond := -1, -1
	for i, p := range list {
		switch p.ID {
		case "it-pos-1":
			idxFirst = i
		case "it-pos-2":
			idxSecond = i
		}
	}
	if idxFirst == -1 || idxSecond == -1 {
		t.Fatalf("products missing from list: first=%d second=%d", idxFirst, idxSecond)
	}
	if idxFirst > idxSecond {
		t.Errorf("update changed catalog order: first=%d second=%d", idxFirst, idxSecond)
	}
}

func TestProductRepository_GetMissing(t *testing.T) {
	repo := postgres.NewProductRepository(pool)

	_, err := repo.GetByID(context.Background(), "it-never-existed")
	if !errors.Is(err, product.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestProductRepository_Delete(t *testing.T) {
	ctx := context.Background()
	repo := postgres.NewProductRepository(pool)

	p := product.Product{ID: "it-doomed", Name: "Doomed", Price: decimal.NewFromInt(1), Stock: 1}
	if err := repo.Upsert(ctx, p); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if err := repo.Delete(ctx, p.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := repo.GetByID(ctx, p.ID); !errors.Is(err, product.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}

	// Deleting again is harmless.
	if err := repo.Delete(ctx, p.ID); err != nil {
		t.Fatalf("second delete: %v", err)
	}
}
