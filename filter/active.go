package filter

import (
	"context"
	"errors"

	"github.com/rushteam/shopkit/core"
)

// ActiveFilter 过滤掉已下架或目录中不存在的商品。
// 相似度图与热榜都是离线产物，候选落地前必须对齐目录实时状态。
type ActiveFilter struct {
	// Catalog 商品目录
	Catalog core.CatalogStore

	// RequireStock 为 true 时同时过滤零库存商品
	RequireStock bool
}

var _ Filter = (*ActiveFilter)(nil)

func (f *ActiveFilter) Name() string {
	return "filter.active"
}

func (f *ActiveFilter) ShouldFilter(ctx context.Context, rctx *core.RecommendContext, item *core.Item) (bool, error) {
	if f.Catalog == nil {
		return false, nil
	}
	p, err := f.Catalog.GetProduct(ctx, item.ID)
	if err != nil {
		// 目录里没有的商品直接移除；存储故障则透传给上层
		if errors.Is(err, core.ErrProductNotFound) || core.IsStoreNotFound(err) {
			return true, nil
		}
		return false, err
	}
	if !p.Active {
		return true, nil
	}
	if f.RequireStock && p.Stock <= 0 {
		return true, nil
	}
	return false, nil
}
