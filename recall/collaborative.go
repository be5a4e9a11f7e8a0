package recall

import (
	"context"
	"sort"

	"github.com/rushteam/shopkit/core"
	"github.com/rushteam/shopkit/pipeline"
	"github.com/rushteam/shopkit/pkg/utils"
)

// Collaborative 是基于用户行为的协同召回源（User-based Collaborative Filtering）。
//
// 核心思想："交互过相同商品的用户，会喜欢相似的商品"
//
// 算法流程：
//  1. 取当前用户交互过的商品集合
//  2. 对每个其他用户，统计与当前用户共同交互的去重商品数
//  3. 按共同商品数降序取 MaxNeighbors 个邻居用户；
//     同分按 AllUsers 的列表顺序决胜（稳定）
//  4. 聚合邻居用户的交互，按商品计数；剔除当前用户交互过的商品
//  5. 按计数降序取 TopK
//
// 当前用户无交互或找不到邻居时返回空，兜底策略由上层（engine）决定。
type Collaborative struct {
	Interactions core.InteractionStore

	// MaxNeighbors 邻居用户数上限，默认 3
	MaxNeighbors int

	// TopK 返回 TopK 个商品，<= 0 表示不截断
	TopK int
}

func (r *Collaborative) Name() string        { return "recall.collaborative" }
func (r *Collaborative) Kind() pipeline.Kind { return pipeline.KindRecall }

// Process 实现 Node 接口，直接调用 Recall
func (r *Collaborative) Process(
	ctx context.Context,
	rctx *core.RecommendContext,
	_ []*core.Item,
) ([]*core.Item, error) {
	return r.Recall(ctx, rctx)
}

// Recall 实现 Source 接口
func (r *Collaborative) Recall(
	ctx context.Context,
	rctx *core.RecommendContext,
) ([]*core.Item, error) {
	if r.Interactions == nil || rctx == nil || rctx.UserID == "" {
		return nil, nil
	}

	userProducts, err := r.Interactions.UserProducts(ctx, rctx.UserID)
	if err != nil {
		return nil, err
	}
	if len(userProducts) == 0 {
		return nil, nil
	}

	neighbors, err := r.findNeighbors(ctx, rctx.UserID, userProducts)
	if err != nil {
		return nil, err
	}
	if len(neighbors) == 0 {
		return nil, nil
	}

	// 聚合邻居交互：按商品统计交互条数，剔除当前用户交互过的商品
	itemCounts := make(map[string]int64)
	for _, uid := range neighbors {
		rows, err := r.Interactions.RecentByUser(ctx, uid, 0)
		if err != nil {
			return nil, err
		}
		for _, row := range rows {
			if _, ok := userProducts[row.ProductID]; ok {
				continue
			}
			itemCounts[row.ProductID]++
		}
	}
	if len(itemCounts) == 0 {
		return nil, nil
	}

	type scored struct {
		id    string
		count int64
	}
	ranked := make([]scored, 0, len(itemCounts))
	for id, c := range itemCounts {
		ranked = append(ranked, scored{id: id, count: c})
	}
	// 按计数降序，同分按商品 ID 升序保证确定性
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].count != ranked[j].count {
			return ranked[i].count > ranked[j].count
		}
		return ranked[i].id < ranked[j].id
	})

	topK := r.TopK
	if topK > 0 && len(ranked) > topK {
		ranked = ranked[:topK]
	}

	out := make([]*core.Item, 0, len(ranked))
	for _, s := range ranked {
		it := core.NewItem(s.id)
		it.Score = float64(s.count)
		it.PutLabel("recall_source", utils.Label{Value: "collaborative", Source: "recall"})
		out = append(out, it)
	}
	return out, nil
}

// findNeighbors 按共同商品数找出至多 MaxNeighbors 个邻居用户。
func (r *Collaborative) findNeighbors(
	ctx context.Context,
	userID string,
	userProducts map[string]float64,
) ([]string, error) {
	allUsers, err := r.Interactions.AllUsers(ctx)
	if err != nil {
		return nil, err
	}

	type neighbor struct {
		id     string
		shared int
	}
	candidates := make([]neighbor, 0)

	for _, uid := range allUsers {
		if uid == userID {
			continue
		}
		products, err := r.Interactions.UserProducts(ctx, uid)
		if err != nil {
			return nil, err
		}
		shared := 0
		for pid := range products {
			if _, ok := userProducts[pid]; ok {
				shared++
			}
		}
		if shared > 0 {
			candidates = append(candidates, neighbor{id: uid, shared: shared})
		}
	}

	// 稳定排序：同分保持 AllUsers 顺序
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].shared > candidates[j].shared
	})

	maxNeighbors := r.MaxNeighbors
	if maxNeighbors <= 0 {
		maxNeighbors = 3
	}
	if len(candidates) > maxNeighbors {
		candidates = candidates[:maxNeighbors]
	}

	out := make([]string, 0, len(candidates))
	for _, n := range candidates {
		out = append(out, n.id)
	}
	return out, nil
}
