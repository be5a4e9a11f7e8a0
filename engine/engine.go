// Package engine 实现混合推荐引擎：内容相似 + 协同 + 人气兜底。
//
// 引擎自身不持有任何持久状态，是 CatalogStore / InteractionStore /
// SimilarityStore 之上的无状态查询层；对固定的存储内容，输出是确定的。
package engine

import (
	"context"

	"github.com/rushteam/shopkit/core"
	"github.com/rushteam/shopkit/pipeline"
	"github.com/rushteam/shopkit/pkg/utils"
	"github.com/rushteam/shopkit/recall"
)

// Hybrid 是混合推荐引擎。
//
// Recommend(limit) 的组合策略：
//  1. 内容信号：目标 limit/2（整除），从最近 20 条交互出发查相似度图，
//     产出至多 2×(limit/2) 的工作集；无历史时以人气兜底该子配额
//  2. 协同信号：目标 limit/2，至多 3 个邻居用户；无历史/无邻居时人气兜底
//  3. 合并：内容列表在前、协同列表在后拼接（内容信号在重叠时优先），
//     按商品 ID 去重保留首次出现，最后截断到 limit——
//     截断只发生在这一处（内容信号的过采样正是为了活过这次去重）
//
// 降级链：content → collaborative → popularity。任何信号无数据可用都
// 不报错，只会让结果变短；结果长度 ≤ limit，目录不足时可能更短。
type Hybrid struct {
	Catalog      core.CatalogStore
	Interactions core.InteractionStore
	Similarities core.SimilarityStore

	// RecentLimit 内容信号参与查询的最近交互条数，默认 20
	RecentLimit int

	// MaxNeighbors 协同信号的邻居用户数上限，默认 3
	MaxNeighbors int
}

func (e *Hybrid) Name() string        { return "engine.hybrid" }
func (e *Hybrid) Kind() pipeline.Kind { return pipeline.KindRecall }

// Process 实现 pipeline.Node 接口：limit 从 rctx.Params["limit"] 读取，默认 10。
func (e *Hybrid) Process(
	ctx context.Context,
	rctx *core.RecommendContext,
	_ []*core.Item,
) ([]*core.Item, error) {
	limit := 10
	if rctx != nil {
		if v, ok := rctx.Params["limit"].(int); ok {
			limit = v
		}
	}
	return e.Recommend(ctx, rctx, limit)
}

// Recommend 为用户产出至多 limit 个去重的推荐商品。
func (e *Hybrid) Recommend(
	ctx context.Context,
	rctx *core.RecommendContext,
	limit int,
) ([]*core.Item, error) {
	if rctx == nil || rctx.UserID == "" || limit <= 0 {
		return nil, nil
	}

	target := limit / 2

	content, err := e.contentCandidates(ctx, rctx, target)
	if err != nil {
		return nil, err
	}

	collaborative, err := e.collaborativeCandidates(ctx, rctx, target)
	if err != nil {
		return nil, err
	}

	merged := recall.MergeFirstSeen(append(content, collaborative...))
	if len(merged) > limit {
		merged = merged[:limit]
	}
	return merged, nil
}

// RecommendProducts 同 Recommend，但把候选解析为目录中的商品对象；
// 已下架或已不存在的商品被跳过（结果可能短于候选数）。
func (e *Hybrid) RecommendProducts(
	ctx context.Context,
	rctx *core.RecommendContext,
	limit int,
) ([]core.Product, error) {
	items, err := e.Recommend(ctx, rctx, limit)
	if err != nil {
		return nil, err
	}

	out := make([]core.Product, 0, len(items))
	for _, it := range items {
		p, err := e.Catalog.GetProduct(ctx, it.ID)
		if err != nil {
			if core.GetDomainError(err) != nil {
				continue
			}
			return nil, err
		}
		if !p.Active {
			continue
		}
		out = append(out, *p)
	}
	return out, nil
}

// contentCandidates 产出内容信号工作集；用户无历史时人气兜底。
func (e *Hybrid) contentCandidates(
	ctx context.Context,
	rctx *core.RecommendContext,
	target int,
) ([]*core.Item, error) {
	src := &recall.ContentSimilar{
		Interactions: e.Interactions,
		Similarities: e.Similarities,
		RecentLimit:  e.RecentLimit,
		TopK:         target,
	}
	items, err := src.Recall(ctx, rctx)
	if err != nil {
		return nil, err
	}
	if len(items) > 0 {
		return items, nil
	}

	// 无历史或图中无邻居：人气兜底该子配额
	return e.popular(ctx, rctx, target)
}

// collaborativeCandidates 产出协同信号候选；无历史/无邻居时人气兜底。
func (e *Hybrid) collaborativeCandidates(
	ctx context.Context,
	rctx *core.RecommendContext,
	target int,
) ([]*core.Item, error) {
	src := &recall.Collaborative{
		Interactions: e.Interactions,
		MaxNeighbors: e.MaxNeighbors,
		TopK:         target,
	}
	items, err := src.Recall(ctx, rctx)
	if err != nil {
		return nil, err
	}
	if len(items) > 0 {
		return items, nil
	}

	return e.popular(ctx, rctx, target)
}

func (e *Hybrid) popular(
	ctx context.Context,
	rctx *core.RecommendContext,
	target int,
) ([]*core.Item, error) {
	if target <= 0 {
		return nil, nil
	}
	src := &recall.Popularity{
		Catalog:      e.Catalog,
		Interactions: e.Interactions,
		TopK:         target,
	}
	items, err := src.Recall(ctx, rctx)
	if err != nil {
		return nil, err
	}
	for _, it := range items {
		it.PutLabel("fallback", utils.Label{Value: "popular", Source: "engine"})
	}
	return items, nil
}
