package filter

import (
	"context"

	"github.com/rushteam/shopkit/core"
)

// SeenFilter 过滤掉用户已经交互过的商品，避免重复推荐。
// 以交互记录为准而不是曝光日志：加购/购买过的商品再推意义最低。
type SeenFilter struct {
	// Interactions 用户行为存储
	Interactions core.InteractionStore

	// Kinds 限定参与过滤的交互类型；为空时所有交互都算"看过"
	Kinds []core.InteractionKind
}

var _ Filter = (*SeenFilter)(nil)

func (f *SeenFilter) Name() string {
	return "filter.seen"
}

func (f *SeenFilter) ShouldFilter(ctx context.Context, rctx *core.RecommendContext, item *core.Item) (bool, error) {
	if f.Interactions == nil || rctx == nil || rctx.UserID == "" {
		return false, nil
	}
	weights, err := f.Interactions.UserProducts(ctx, rctx.UserID)
	if err != nil {
		return false, err
	}
	if _, ok := weights[item.ID]; !ok {
		return false, nil
	}
	if len(f.Kinds) == 0 {
		return true, nil
	}
	// 按交互类型精细过滤
	rows, err := f.Interactions.RecentByUser(ctx, rctx.UserID, 0)
	if err != nil {
		return false, err
	}
	for _, row := range rows {
		if row.ProductID != item.ID {
			continue
		}
		for _, k := range f.Kinds {
			if row.Kind == k {
				return true, nil
			}
		}
	}
	return false, nil
}
