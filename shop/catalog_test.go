package shop

import (
	"context"
	"errors"
	"testing"

	"github.com/rushteam/shopkit/core"
	"github.com/rushteam/shopkit/store"
)

func TestCatalogGetAndList(t *testing.T) {
	mem := store.NewMemoryStore()
	defer mem.Close()
	c := NewStoreCatalog(mem, "catalog")
	ctx := context.Background()

	products := []core.Product{
		{ID: "p1", Name: "Shoes", Category: "shoes", Active: true},
		{ID: "p2", Name: "Socks", Category: "shoes", Active: false},
		{ID: "p3", Name: "Lamp", Category: "home", Active: true},
	}
	for _, p := range products {
		if err := c.Put(ctx, p); err != nil {
			t.Fatalf("Put %s: %v", p.ID, err)
		}
	}

	got, err := c.GetProduct(ctx, "p1")
	if err != nil {
		t.Fatalf("GetProduct: %v", err)
	}
	if got.Name != "Shoes" {
		t.Errorf("name = %s, want Shoes", got.Name)
	}

	if _, err := c.GetProduct(ctx, "missing"); !errors.Is(err, core.ErrProductNotFound) {
		t.Errorf("missing product: err = %v, want ErrProductNotFound", err)
	}

	// ListActive 只返回在售商品，且保持写入顺序
	active, err := c.ListActive(ctx)
	if err != nil {
		t.Fatalf("ListActive: %v", err)
	}
	if len(active) != 2 || active[0].ID != "p1" || active[1].ID != "p3" {
		t.Errorf("active = %+v, want [p1 p3]", active)
	}
}

func TestCatalogPutOverwrite(t *testing.T) {
	mem := store.NewMemoryStore()
	defer mem.Close()
	c := NewStoreCatalog(mem, "catalog")
	ctx := context.Background()

	if err := c.Put(ctx, core.Product{ID: "p1", Name: "v1", Active: true}); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := c.Put(ctx, core.Product{ID: "p1", Name: "v2", Active: true}); err != nil {
		t.Fatalf("Put: %v", err)
	}

	got, err := c.GetProduct(ctx, "p1")
	if err != nil {
		t.Fatalf("GetProduct: %v", err)
	}
	if got.Name != "v2" {
		t.Errorf("name = %s, want v2 after overwrite", got.Name)
	}
	active, err := c.ListActive(ctx)
	if err != nil {
		t.Fatalf("ListActive: %v", err)
	}
	if len(active) != 1 {
		t.Errorf("id list must not duplicate on overwrite, got %d entries", len(active))
	}
}
