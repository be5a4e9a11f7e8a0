package shop

import (
	"context"
	"encoding/json"

	"github.com/rushteam/shopkit/core"
)

// StoreSimilarities 是基于 core.Store 的相似度边集适配器，实现 core.SimilarityStore。
//
// 整个边集序列化为单个快照 value（key：{KeyPrefix}:edges）。
// ReplaceAll 通过单次 Set 完成 clear-then-rewrite：单 key 写入在
// MemoryStore（互斥锁）与 RedisStore（单条 SET）中都是原子的，
// 读方只会看到完整的旧快照或完整的新快照；写入失败时旧快照保持不变。
type StoreSimilarities struct {
	store core.Store

	// KeyPrefix 是存储 key 的前缀
	KeyPrefix string
}

// NewStoreSimilarities 创建一个基于 core.Store 的相似度边集适配器。
func NewStoreSimilarities(s core.Store, keyPrefix string) *StoreSimilarities {
	if keyPrefix == "" {
		keyPrefix = "similarity"
	}
	return &StoreSimilarities{store: s, KeyPrefix: keyPrefix}
}

func (a *StoreSimilarities) Name() string { return "store_similarities" }

func (a *StoreSimilarities) ReplaceAll(ctx context.Context, edges []core.SimilarityEdge) error {
	if edges == nil {
		edges = []core.SimilarityEdge{}
	}
	data, err := json.Marshal(edges)
	if err != nil {
		return err
	}
	return a.store.Set(ctx, a.edgesKey(), data)
}

func (a *StoreSimilarities) NeighborsOf(ctx context.Context, productIDs []string) ([]core.SimilarityEdge, error) {
	if len(productIDs) == 0 {
		return nil, nil
	}

	data, err := a.store.Get(ctx, a.edgesKey())
	if err != nil {
		if core.IsStoreNotFound(err) {
			return nil, nil
		}
		return nil, err
	}

	var all []core.SimilarityEdge
	if err := json.Unmarshal(data, &all); err != nil {
		return nil, err
	}

	sources := make(map[string]struct{}, len(productIDs))
	for _, id := range productIDs {
		sources[id] = struct{}{}
	}

	out := make([]core.SimilarityEdge, 0, len(all))
	for _, e := range all {
		if _, ok := sources[e.ProductID]; ok {
			out = append(out, e)
		}
	}
	return out, nil
}

func (a *StoreSimilarities) edgesKey() string {
	return a.KeyPrefix + ":edges"
}

// 确保实现 core.SimilarityStore 接口
var _ core.SimilarityStore = (*StoreSimilarities)(nil)
