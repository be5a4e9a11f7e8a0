package recall

import (
	"context"
	"sort"

	"github.com/rushteam/shopkit/core"
	"github.com/rushteam/shopkit/pipeline"
	"github.com/rushteam/shopkit/pkg/utils"
)

// Popularity 是人气召回源：对全量上架商品按交互总数降序排序。
// 它是内容/协同信号无数据可用时的统一兜底。
//
// 排序覆盖整个目录：零交互的商品以 count=0 参与排序（排在有交互的
// 商品之后，同分按 ID 升序），冷启动目录也能产出候选。
//
// 两条数据路径：
//   - 如果配置了 KVStore + Key，优先用有序集合 ZRange 取 TopN
//     （交互写入方用 ZIncrBy 维护该集合）
//   - 否则用 Catalog.ListActive 铺底，再叠加 InteractionStore.CountByProduct
//
// Popularity 同时实现了 Source 和 Node 接口，可以直接在 Pipeline 中使用。
type Popularity struct {
	Catalog      core.CatalogStore
	Interactions core.InteractionStore

	// KVStore 可选的有序集合后端
	KVStore core.KeyValueStore
	// Key 有序集合 key，例如 "interactions:popular"
	Key string

	// TopK 返回 TopK 个商品，<= 0 表示不截断
	TopK int
}

func (r *Popularity) Name() string        { return "recall.popular" }
func (r *Popularity) Kind() pipeline.Kind { return pipeline.KindRecall }

// Process 实现 Node 接口，直接调用 Recall
func (r *Popularity) Process(
	ctx context.Context,
	rctx *core.RecommendContext,
	_ []*core.Item,
) ([]*core.Item, error) {
	return r.Recall(ctx, rctx)
}

// Recall 实现 Source 接口
func (r *Popularity) Recall(
	ctx context.Context,
	_ *core.RecommendContext,
) ([]*core.Item, error) {
	// 优先从有序集合读取
	if r.KVStore != nil && r.Key != "" {
		stop := int64(-1)
		if r.TopK > 0 {
			stop = int64(r.TopK) - 1
		}
		members, err := r.KVStore.ZRange(ctx, r.Key, 0, stop)
		if err == nil && len(members) > 0 {
			out := make([]*core.Item, 0, len(members))
			for _, id := range members {
				it := core.NewItem(id)
				it.PutLabel("recall_source", utils.Label{Value: "popular", Source: "recall"})
				out = append(out, it)
			}
			return out, nil
		}
	}

	// 先以全量上架商品铺底（count=0），零交互商品也参与排序
	counts := map[string]int64{}
	if r.Catalog != nil {
		products, err := r.Catalog.ListActive(ctx)
		if err != nil {
			return nil, err
		}
		for _, p := range products {
			counts[p.ID] = 0
		}
	}
	if r.Interactions != nil {
		byProduct, err := r.Interactions.CountByProduct(ctx)
		if err != nil {
			return nil, err
		}
		for id, c := range byProduct {
			counts[id] = c
		}
	}
	if len(counts) == 0 {
		return nil, nil
	}

	type scored struct {
		id    string
		count int64
	}
	ranked := make([]scored, 0, len(counts))
	for id, c := range counts {
		ranked = append(ranked, scored{id: id, count: c})
	}
	// 按交互数降序，同分按商品 ID 升序保证确定性
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
		it.PutLabel("recall_source", utils.Label{Value: "popular", Source: "recall"})
		out = append(out, it)
	}
	return out, nil
}
