package filter

import (
	"context"

	"github.com/rushteam/shopkit/core"
	"github.com/rushteam/shopkit/pipeline"
	"github.com/rushteam/shopkit/pkg/utils"
)

// FilterNode 是过滤 Node，可以组合多个过滤器串联执行。
// 任何一个过滤器返回 true，该商品就会被过滤掉。
type FilterNode struct {
	Filters []Filter
}

var _ pipeline.Node = (*FilterNode)(nil)

func (n *FilterNode) Name() string {
	return "filter.node"
}

func (n *FilterNode) Kind() pipeline.Kind {
	return pipeline.KindFilter
}

func (n *FilterNode) Process(
	ctx context.Context,
	rctx *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	if len(n.Filters) == 0 || len(items) == 0 {
		return items, nil
	}

	out := make([]*core.Item, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}

		shouldFilter := false
		filterReason := ""
		for _, f := range n.Filters {
			ok, err := f.ShouldFilter(ctx, rctx, item)
			if err != nil {
				// 过滤器错误时跳过该过滤器，不中断流程
				continue
			}
			if ok {
				shouldFilter = true
				filterReason = f.Name()
				break
			}
		}

		if shouldFilter {
			item.PutLabel("filtered", utils.Label{Value: "true", Source: filterReason})
			continue
		}
		out = append(out, item)
	}
	return out, nil
}
