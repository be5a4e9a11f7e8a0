package rerank

import (
	"context"

	"github.com/rushteam/shopkit/core"
	"github.com/rushteam/shopkit/pipeline"
)

// TopNNode 是一个 Top-N 截断节点，在过滤之后截取前 N 个商品。
//
// 使用场景：
//
//	pipeline := &pipeline.Pipeline{
//	    Nodes: []pipeline.Node{
//	        &engine.Hybrid{...},      // 混合召回
//	        &filter.FilterNode{...},  // 过滤
//	        &rerank.TopNNode{N: 10},  // 截取 Top 10
//	    },
//	}
type TopNNode struct {
	// N 要保留的商品数量。N <= 0 或候选不足 N 个时不截断。
	N int
}

var _ pipeline.Node = (*TopNNode)(nil)

func (n *TopNNode) Name() string {
	return "rerank.topn"
}

func (n *TopNNode) Kind() pipeline.Kind {
	return pipeline.KindReRank
}

func (n *TopNNode) Process(
	_ context.Context,
	_ *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	if n.N <= 0 || len(items) <= n.N {
		return items, nil
	}
	return items[:n.N], nil
}
