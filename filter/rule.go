package filter

import (
	"context"

	"github.com/rushteam/shopkit/core"
	"github.com/rushteam/shopkit/pkg/dsl"
)

// RuleFilter 是规则过滤器，使用 CEL 表达式描述过滤条件。
// 表达式返回 true 表示命中规则、商品被过滤。
//
// 示例：
//   - `label.fallback != null` → 过滤所有降级候选
//   - `item.score > 0.0 && item.score < 0.05` → 过滤低分长尾
type RuleFilter struct {
	// Expr CEL 过滤表达式，空表达式不过滤任何商品
	Expr string
}

var _ Filter = (*RuleFilter)(nil)

func (f *RuleFilter) Name() string {
	return "filter.rule"
}

func (f *RuleFilter) ShouldFilter(ctx context.Context, rctx *core.RecommendContext, item *core.Item) (bool, error) {
	if f.Expr == "" {
		return false, nil
	}
	return dsl.NewEval(item, rctx).Evaluate(f.Expr)
}
