// Package similarity 实现相似度索引的离线重建：对全量上架商品做
// TF-IDF + 余弦相似度，为每个商品持久化 TopK 最相似邻居。
package similarity

import (
	"context"
	"sort"

	"github.com/rs/zerolog"

	"github.com/rushteam/shopkit/core"
)

// Builder 是相似度索引构建器（离线批处理）。
//
// 约束：
//   - 每个商品取 TopK 个最相似的其他商品（不含自身）
//   - 仅持久化 Score > MinScore 的边（不够相似的边不入图）
//   - 整个边集通过 SimilarityStore.ReplaceAll 一次性原子替换，
//     读方不会看到半新半旧的索引；失败时旧索引保持完整
//   - 商品集合为空时返回 ErrEmptyCatalog，索引不被修改
type Builder struct {
	Catalog      core.CatalogStore
	Similarities core.SimilarityStore

	// TopK 每个商品保留的邻居数，默认 5
	TopK int

	// MinScore 入图的最小相似度（严格大于），默认 0.1
	MinScore float64

	// Logger 进度日志，零值为 no-op
	Logger zerolog.Logger
}

// Rebuild 全量重建相似度索引。
func (b *Builder) Rebuild(ctx context.Context) error {
	products, err := b.Catalog.ListActive(ctx)
	if err != nil {
		return err
	}
	if len(products) == 0 {
		b.Logger.Warn().Msg("similarity rebuild skipped: no active products")
		return core.ErrEmptyCatalog
	}

	topK := b.TopK
	if topK <= 0 {
		topK = 5
	}
	minScore := b.MinScore
	if minScore <= 0 {
		minScore = 0.1
	}

	docs := make([]string, len(products))
	for i := range products {
		docs[i] = products[i].Document()
	}
	vectors := Vectorize(docs)

	edges := make([]core.SimilarityEdge, 0, len(products)*topK)
	for i := range products {
		type scored struct {
			j     int
			score float64
		}
		candidates := make([]scored, 0, len(products)-1)
		for j := range products {
			if j == i {
				continue // 无自环
			}
			s := Cosine(vectors[i], vectors[j])
			if s > minScore {
				candidates = append(candidates, scored{j: j, score: s})
			}
		}
		// 按相似度降序，同分按商品 ID 升序保证确定性
		sort.Slice(candidates, func(a, c int) bool {
			if candidates[a].score != candidates[c].score {
				return candidates[a].score > candidates[c].score
			}
			return products[candidates[a].j].ID < products[candidates[c].j].ID
		})
		if len(candidates) > topK {
			candidates = candidates[:topK]
		}
		for _, cand := range candidates {
			edges = append(edges, core.SimilarityEdge{
				ProductID: products[i].ID,
				SimilarID: products[cand.j].ID,
				Score:     cand.score,
			})
		}
	}

	if err := b.Similarities.ReplaceAll(ctx, edges); err != nil {
		return err
	}

	b.Logger.Info().
		Int("products", len(products)).
		Int("edges", len(edges)).
		Msg("similarity index rebuilt")
	return nil
}
