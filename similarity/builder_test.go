package similarity

import (
	"context"
	"errors"
	"testing"

	"github.com/rushteam/shopkit/core"
	"github.com/rushteam/shopkit/shop"
	"github.com/rushteam/shopkit/store"
)

func newTestStores(t *testing.T) (*shop.StoreCatalog, *shop.StoreSimilarities) {
	t.Helper()
	mem := store.NewMemoryStore()
	t.Cleanup(func() { mem.Close() })
	return shop.NewStoreCatalog(mem, "catalog"), shop.NewStoreSimilarities(mem, "similarity")
}

func seedCatalog(t *testing.T, catalog *shop.StoreCatalog, products []core.Product) {
	t.Helper()
	ctx := context.Background()
	for _, p := range products {
		if err := catalog.Put(ctx, p); err != nil {
			t.Fatalf("seed product %s: %v", p.ID, err)
		}
	}
}

func TestBuilderRebuild(t *testing.T) {
	catalog, similarities := newTestStores(t)
	seedCatalog(t, catalog, []core.Product{
		{ID: "p1", Name: "Trail Running Shoes", Description: "lightweight running shoes", Category: "shoes", Active: true},
		{ID: "p2", Name: "Trail Running Shoes", Description: "lightweight running shoes", Category: "shoes", Active: true},
		{ID: "p3", Name: "Espresso Machine", Description: "coffee espresso machine", Category: "kitchen", Active: true},
		{ID: "p4", Name: "Broom", Description: "cleaning broom", Category: "home", Active: true},
	})

	b := &Builder{Catalog: catalog, Similarities: similarities}
	if err := b.Rebuild(context.Background()); err != nil {
		t.Fatalf("Rebuild: %v", err)
	}

	ctx := context.Background()
	edges, err := similarities.NeighborsOf(ctx, []string{"p1"})
	if err != nil {
		t.Fatalf("NeighborsOf: %v", err)
	}
	if len(edges) == 0 {
		t.Fatal("p1 should have at least one neighbor")
	}
	// 文本完全相同的 p2 必须是 p1 的最高分邻居，且分数接近 1
	if edges[0].SimilarID != "p2" {
		t.Errorf("top neighbor of p1 = %s, want p2", edges[0].SimilarID)
	}
	if edges[0].Score < 0.99 {
		t.Errorf("identical docs score = %v, want ~1.0", edges[0].Score)
	}
	for _, e := range edges {
		if e.SimilarID == e.ProductID {
			t.Errorf("self edge found: %+v", e)
		}
		if e.Score <= 0.1 {
			t.Errorf("edge below threshold persisted: %+v", e)
		}
	}

	// 对称情形：p1 也是 p2 的邻居
	back, err := similarities.NeighborsOf(ctx, []string{"p2"})
	if err != nil {
		t.Fatalf("NeighborsOf(p2): %v", err)
	}
	found := false
	for _, e := range back {
		if e.SimilarID == "p1" {
			found = true
		}
	}
	if !found {
		t.Error("p2 should link back to p1")
	}
}

func TestBuilderRebuildSkipsInactive(t *testing.T) {
	catalog, similarities := newTestStores(t)
	seedCatalog(t, catalog, []core.Product{
		{ID: "p1", Name: "Running Shoes", Description: "running shoes", Category: "shoes", Active: true},
		{ID: "p2", Name: "Running Shoes", Description: "running shoes", Category: "shoes", Active: false},
		{ID: "p3", Name: "Running Socks", Description: "socks for running", Category: "shoes", Active: true},
	})

	b := &Builder{Catalog: catalog, Similarities: similarities}
	if err := b.Rebuild(context.Background()); err != nil {
		t.Fatalf("Rebuild: %v", err)
	}
	edges, err := similarities.NeighborsOf(context.Background(), []string{"p1"})
	if err != nil {
		t.Fatalf("NeighborsOf: %v", err)
	}
	for _, e := range edges {
		if e.SimilarID == "p2" {
			t.Error("inactive product must not appear in the index")
		}
	}
}

func TestBuilderRebuildEmptyCatalog(t *testing.T) {
	catalog, similarities := newTestStores(t)

	// 先写入一份旧索引，空目录重建必须保留它
	old := []core.SimilarityEdge{{ProductID: "p1", SimilarID: "p2", Score: 0.8}}
	if err := similarities.ReplaceAll(context.Background(), old); err != nil {
		t.Fatalf("seed old index: %v", err)
	}

	b := &Builder{Catalog: catalog, Similarities: similarities}
	err := b.Rebuild(context.Background())
	if !errors.Is(err, core.ErrEmptyCatalog) {
		t.Fatalf("Rebuild on empty catalog: err = %v, want ErrEmptyCatalog", err)
	}

	edges, err := similarities.NeighborsOf(context.Background(), []string{"p1"})
	if err != nil {
		t.Fatalf("NeighborsOf: %v", err)
	}
	if len(edges) != 1 || edges[0].SimilarID != "p2" {
		t.Errorf("old index must survive an aborted rebuild, got %+v", edges)
	}
}
