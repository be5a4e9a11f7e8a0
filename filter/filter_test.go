package filter

import (
	"context"
	"testing"

	"github.com/rushteam/shopkit/core"
	"github.com/rushteam/shopkit/pkg/utils"
	"github.com/rushteam/shopkit/shop"
	"github.com/rushteam/shopkit/store"
)

func items(ids ...string) []*core.Item {
	out := make([]*core.Item, len(ids))
	for i, id := range ids {
		out[i] = core.NewItem(id)
	}
	return out
}

func TestSeenFilter(t *testing.T) {
	mem := store.NewMemoryStore()
	defer mem.Close()
	interactions := shop.NewStoreInteractions(mem, "interactions")
	ctx := context.Background()
	if err := interactions.Record(ctx, core.NewInteraction("u1", "p1", core.InteractionPurchase)); err != nil {
		t.Fatalf("Record: %v", err)
	}

	node := &FilterNode{Filters: []Filter{&SeenFilter{Interactions: interactions}}}
	rctx := &core.RecommendContext{UserID: "u1"}
	out, err := node.Process(ctx, rctx, items("p1", "p2"))
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if len(out) != 1 || out[0].ID != "p2" {
		t.Errorf("got %d items, want only p2", len(out))
	}
}

func TestSeenFilterByKind(t *testing.T) {
	mem := store.NewMemoryStore()
	defer mem.Close()
	interactions := shop.NewStoreInteractions(mem, "interactions")
	ctx := context.Background()
	if err := interactions.Record(ctx, core.NewInteraction("u1", "p1", core.InteractionView)); err != nil {
		t.Fatalf("Record: %v", err)
	}
	if err := interactions.Record(ctx, core.NewInteraction("u1", "p2", core.InteractionPurchase)); err != nil {
		t.Fatalf("Record: %v", err)
	}

	// 只过滤已购买的商品，浏览过的仍可推荐
	f := &SeenFilter{Interactions: interactions, Kinds: []core.InteractionKind{core.InteractionPurchase}}
	rctx := &core.RecommendContext{UserID: "u1"}

	got, err := f.ShouldFilter(ctx, rctx, core.NewItem("p1"))
	if err != nil {
		t.Fatalf("ShouldFilter: %v", err)
	}
	if got {
		t.Error("viewed-only product should pass a purchase-kind filter")
	}
	got, err = f.ShouldFilter(ctx, rctx, core.NewItem("p2"))
	if err != nil {
		t.Fatalf("ShouldFilter: %v", err)
	}
	if !got {
		t.Error("purchased product must be filtered")
	}
}

func TestActiveFilter(t *testing.T) {
	mem := store.NewMemoryStore()
	defer mem.Close()
	catalog := shop.NewStoreCatalog(mem, "catalog")
	ctx := context.Background()
	seed := []core.Product{
		{ID: "p1", Name: "ok", Active: true, Stock: 5},
		{ID: "p2", Name: "off", Active: false, Stock: 5},
		{ID: "p3", Name: "out", Active: true, Stock: 0},
	}
	for _, p := range seed {
		if err := catalog.Put(ctx, p); err != nil {
			t.Fatalf("Put: %v", err)
		}
	}

	node := &FilterNode{Filters: []Filter{&ActiveFilter{Catalog: catalog, RequireStock: true}}}
	out, err := node.Process(ctx, &core.RecommendContext{UserID: "u1"}, items("p1", "p2", "p3", "ghost"))
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if len(out) != 1 || out[0].ID != "p1" {
		ids := make([]string, len(out))
		for i, it := range out {
			ids[i] = it.ID
		}
		t.Errorf("got %v, want [p1]", ids)
	}
}

func TestRuleFilter(t *testing.T) {
	rctx := &core.RecommendContext{UserID: "u1", Scene: "home"}

	hot := core.NewItem("p1")
	hot.Score = 0.9
	hot.PutLabel("recall_source", utils.Label{Value: "popular", Source: "recall"})
	cold := core.NewItem("p2")
	cold.Score = 0.01

	tests := []struct {
		name string
		expr string
		item *core.Item
		want bool
	}{
		{"empty expr keeps all", "", cold, false},
		{"score threshold hit", "item.score < 0.05", cold, true},
		{"score threshold miss", "item.score < 0.05", hot, false},
		{"label match", `label.recall_source == "popular"`, hot, true},
		{"rctx scene", `rctx.scene == "home" && item.score > 0.5`, hot, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := &RuleFilter{Expr: tt.expr}
			got, err := f.ShouldFilter(context.Background(), rctx, tt.item)
			if err != nil {
				t.Fatalf("ShouldFilter: %v", err)
			}
			if got != tt.want {
				t.Errorf("expr %q on %s = %v, want %v", tt.expr, tt.item.ID, got, tt.want)
			}
		})
	}
}

func TestFilterNodeLabelsFiltered(t *testing.T) {
	node := &FilterNode{Filters: []Filter{&RuleFilter{Expr: "item.score < 0.5"}}}
	low := core.NewItem("p1")
	low.Score = 0.1
	high := core.NewItem("p2")
	high.Score = 0.9

	out, err := node.Process(context.Background(), &core.RecommendContext{UserID: "u1"}, []*core.Item{low, high})
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if len(out) != 1 || out[0].ID != "p2" {
		t.Fatalf("got %d items, want only p2", len(out))
	}
	lbl, ok := low.GetLabel("filtered")
	if !ok || lbl.Value != "true" || lbl.Source != "filter.rule" {
		t.Errorf("filtered label = %+v", lbl)
	}
}
