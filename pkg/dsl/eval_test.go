package dsl

import (
	"testing"

	"github.com/rushteam/shopkit/core"
	"github.com/rushteam/shopkit/pkg/utils"
)

func TestEvaluate(t *testing.T) {
	item := core.NewItem("p1")
	item.Score = 0.42
	item.PutLabel("recall_source", utils.Label{Value: "content", Source: "recall"})
	rctx := &core.RecommendContext{UserID: "u1", Scene: "home"}

	tests := []struct {
		name    string
		expr    string
		want    bool
		wantErr bool
	}{
		{"empty expr", "", true, false},
		{"score compare", "item.score > 0.4", true, false},
		{"score compare false", "item.score > 0.5", false, false},
		{"label equality", `label.recall_source == "content"`, true, false},
		{"combined", `label.recall_source == "content" && item.score > 0.3`, true, false},
		{"rctx access", `rctx.scene == "home"`, true, false},
		{"item id", `item.id == "p1"`, true, false},
		{"compile error", "item.score >", false, true},
		{"non-boolean result", "item.score", false, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewEval(item, rctx).Evaluate(tt.expr)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expr %q: expected error", tt.expr)
				}
				return
			}
			if err != nil {
				t.Fatalf("expr %q: %v", tt.expr, err)
			}
			if got != tt.want {
				t.Errorf("expr %q = %v, want %v", tt.expr, got, tt.want)
			}
		})
	}
}

func TestEvaluateNilContext(t *testing.T) {
	item := core.NewItem("p1")
	got, err := NewEval(item, nil).Evaluate(`item.id == "p1"`)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if !got {
		t.Error("item access must work without a recommend context")
	}
}
