package recall

import (
	"context"
	"sort"

	"github.com/rushteam/shopkit/core"
	"github.com/rushteam/shopkit/pipeline"
	"github.com/rushteam/shopkit/pkg/utils"
)

// ContentSimilar 是基于内容的召回源（Content-Based Recommendation）。
//
// 核心思想："用户最近看过/买过某些商品，推荐文本特征相似的其他商品"
//
// 算法流程：
//  1. 取用户最近 RecentLimit 条交互（最新在前）
//  2. 在预计算相似度图中查这些商品的出边
//  3. 剔除用户最近交互过的商品本身
//  4. 按相似度降序取 2×TopK 作为工作集（过采样用于抵御后续去重/剔除）
//
// 相似度图由 similarity.Builder 离线重建，此处只做图查询，不做在线计算。
// 用户无交互历史时返回空，兜底策略由上层（engine）决定。
type ContentSimilar struct {
	Interactions core.InteractionStore
	Similarities core.SimilarityStore

	// RecentLimit 参与查询的最近交互条数，默认 20
	RecentLimit int

	// TopK 目标返回数；实际返回至多 2×TopK 的工作集，
	// 最终截断发生在合并去重之后（engine 内）
	TopK int
}

func (r *ContentSimilar) Name() string        { return "recall.content" }
func (r *ContentSimilar) Kind() pipeline.Kind { return pipeline.KindRecall }

// Process 实现 Node 接口，直接调用 Recall
func (r *ContentSimilar) Process(
	ctx context.Context,
	rctx *core.RecommendContext,
	_ []*core.Item,
) ([]*core.Item, error) {
	return r.Recall(ctx, rctx)
}

// Recall 实现 Source 接口
func (r *ContentSimilar) Recall(
	ctx context.Context,
	rctx *core.RecommendContext,
) ([]*core.Item, error) {
	if r.Interactions == nil || r.Similarities == nil || rctx == nil || rctx.UserID == "" {
		return nil, nil
	}

	recentLimit := r.RecentLimit
	if recentLimit <= 0 {
		recentLimit = 20
	}

	recent, err := r.Interactions.RecentByUser(ctx, rctx.UserID, recentLimit)
	if err != nil {
		return nil, err
	}
	if len(recent) == 0 {
		return nil, nil
	}

	recentIDs := make([]string, 0, len(recent))
	recentSet := make(map[string]struct{}, len(recent))
	for _, in := range recent {
		if _, ok := recentSet[in.ProductID]; ok {
			continue
		}
		recentSet[in.ProductID] = struct{}{}
		recentIDs = append(recentIDs, in.ProductID)
	}

	edges, err := r.Similarities.NeighborsOf(ctx, recentIDs)
	if err != nil {
		return nil, err
	}

	// 同一候选可能被多条边指到，保留最高相似度
	best := make(map[string]float64)
	for _, e := range edges {
		if _, ok := recentSet[e.SimilarID]; ok {
			continue // 用户最近交互过的商品不再推荐
		}
		if e.Score > best[e.SimilarID] {
			best[e.SimilarID] = e.Score
		}
	}
	if len(best) == 0 {
		return nil, nil
	}

	type scored struct {
		id    string
		score float64
	}
	ranked := make([]scored, 0, len(best))
	for id, s := range best {
		ranked = append(ranked, scored{id: id, score: s})
	}
	// 按相似度降序，同分按商品 ID 升序保证确定性
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].score != ranked[j].score {
			return ranked[i].score > ranked[j].score
		}
		return ranked[i].id < ranked[j].id
	})

	if r.TopK > 0 && len(ranked) > r.TopK*2 {
		ranked = ranked[:r.TopK*2]
	}

	out := make([]*core.Item, 0, len(ranked))
	for _, s := range ranked {
		it := core.NewItem(s.id)
		it.Score = s.score
		it.PutLabel("recall_source", utils.Label{Value: "content", Source: "recall"})
		out = append(out, it)
	}
	return out, nil
}
