package recall

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/rushteam/shopkit/core"
	"github.com/rushteam/shopkit/pipeline"
	"github.com/rushteam/shopkit/pkg/utils"
)

// Fanout 是一个 Recall Node：并发执行多个召回源，并合并结果。
// 合并按 Sources 顺序保留首次出现的商品（与 engine 的合并语义一致：
// 排在前面的信号优先），支持超时与限流。
type Fanout struct {
	Sources       []Source
	Dedup         bool
	Timeout       time.Duration // 每个召回源的超时时间
	MaxConcurrent int           // 最大并发数（0 表示无限制）
}

func (n *Fanout) Name() string        { return "recall.fanout" }
func (n *Fanout) Kind() pipeline.Kind { return pipeline.KindRecall }

func (n *Fanout) Process(
	ctx context.Context,
	rctx *core.RecommendContext,
	_ []*core.Item,
) ([]*core.Item, error) {
	if len(n.Sources) == 0 {
		return nil, nil
	}

	var (
		mu      sync.Mutex
		results = make([][]*core.Item, len(n.Sources))
		eg, _   = errgroup.WithContext(ctx)
	)

	// 限流：使用 semaphore 控制并发数
	var sem chan struct{}
	if n.MaxConcurrent > 0 {
		sem = make(chan struct{}, n.MaxConcurrent)
	}

	for i, src := range n.Sources {
		idx, s := i, src

		eg.Go(func() error {
			if n.MaxConcurrent > 0 {
				sem <- struct{}{}
				defer func() { <-sem }()
			}

			recallCtx := ctx
			if n.Timeout > 0 {
				var cancel context.CancelFunc
				recallCtx, cancel = context.WithTimeout(ctx, n.Timeout)
				defer cancel()
			}

			items, err := s.Recall(recallCtx, rctx)
			if err != nil {
				// 超时或错误时返回空结果，不中断其他召回源
				return nil
			}

			// 记录召回来源 label，方便 explain / 观测
			for _, it := range items {
				it.PutLabel("recall_source", utils.Label{Value: s.Name(), Source: "recall"})
			}

			mu.Lock()
			results[idx] = items
			mu.Unlock()
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}

	// 按 Sources 顺序拼接，保证排在前面的信号优先
	all := make([]*core.Item, 0)
	for _, items := range results {
		all = append(all, items...)
	}

	if !n.Dedup {
		return all, nil
	}
	return MergeFirstSeen(all), nil
}

// MergeFirstSeen 按商品 ID 去重，保留第一个出现的，保持输入顺序。
// 重复出现时合并 Labels（保留来源轨迹）。
func MergeFirstSeen(all []*core.Item) []*core.Item {
	seen := make(map[string]*core.Item, len(all))
	out := make([]*core.Item, 0, len(all))
	for _, it := range all {
		if it == nil {
			continue
		}
		if old, ok := seen[it.ID]; ok {
			for k, v := range it.Labels {
				old.PutLabel(k, v)
			}
			continue
		}
		seen[it.ID] = it
		out = append(out, it)
	}
	return out
}
