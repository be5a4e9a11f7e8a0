// Package builders 注册内置 Node 的配置构建器。
// 在 main 或入口处 import _ "github.com/rushteam/shopkit/config/builders" 触发注册。
package builders

import (
	"fmt"
	"sync"
	"time"

	"github.com/rushteam/shopkit/config"
	"github.com/rushteam/shopkit/core"
	"github.com/rushteam/shopkit/engine"
	"github.com/rushteam/shopkit/filter"
	"github.com/rushteam/shopkit/pipeline"
	"github.com/rushteam/shopkit/pkg/conv"
	"github.com/rushteam/shopkit/recall"
	"github.com/rushteam/shopkit/rerank"
)

func init() {
	config.Register("engine.hybrid", BuildHybridNode)
	config.Register("recall.popular", BuildPopularNode)
	config.Register("recall.content", BuildContentNode)
	config.Register("recall.collaborative", BuildCollaborativeNode)
	config.Register("recall.fanout", BuildFanoutNode)
	config.Register("filter", BuildFilterNode)
	config.Register("rerank.topn", BuildTopNNode)
}

// Deps 是配置驱动时注入的存储依赖。配置文件只描述拓扑与参数，
// 存储实例在进程启动时通过 UseStores 注入一次。
type Deps struct {
	Catalog      core.CatalogStore
	Interactions core.InteractionStore
	Similarities core.SimilarityStore
	KVStore      core.KeyValueStore
}

var (
	deps   Deps
	depsMu sync.RWMutex
)

// UseStores 注入构建 Node 所需的存储依赖，应在 BuildPipeline 之前调用。
func UseStores(d Deps) {
	depsMu.Lock()
	defer depsMu.Unlock()
	deps = d
}

func getDeps() Deps {
	depsMu.RLock()
	defer depsMu.RUnlock()
	return deps
}

func BuildHybridNode(cfg map[string]interface{}) (pipeline.Node, error) {
	d := getDeps()
	if d.Catalog == nil || d.Interactions == nil || d.Similarities == nil {
		return nil, fmt.Errorf("engine.hybrid requires catalog/interactions/similarities stores (call builders.UseStores)")
	}
	return &engine.Hybrid{
		Catalog:      d.Catalog,
		Interactions: d.Interactions,
		Similarities: d.Similarities,
		RecentLimit:  conv.ConfigGetInt(cfg, "recent_limit", 0),
		MaxNeighbors: conv.ConfigGetInt(cfg, "max_neighbors", 0),
	}, nil
}

func BuildPopularNode(cfg map[string]interface{}) (pipeline.Node, error) {
	d := getDeps()
	if d.Interactions == nil {
		return nil, fmt.Errorf("recall.popular requires interactions store (call builders.UseStores)")
	}
	return &recall.Popularity{
		Catalog:      d.Catalog,
		Interactions: d.Interactions,
		KVStore:      d.KVStore,
		Key:          conv.ConfigGet(cfg, "key", ""),
		TopK:         conv.ConfigGetInt(cfg, "top_k", 0),
	}, nil
}

func BuildContentNode(cfg map[string]interface{}) (pipeline.Node, error) {
	d := getDeps()
	if d.Interactions == nil || d.Similarities == nil {
		return nil, fmt.Errorf("recall.content requires interactions/similarities stores (call builders.UseStores)")
	}
	return &recall.ContentSimilar{
		Interactions: d.Interactions,
		Similarities: d.Similarities,
		RecentLimit:  conv.ConfigGetInt(cfg, "recent_limit", 0),
		TopK:         conv.ConfigGetInt(cfg, "top_k", 0),
	}, nil
}

func BuildCollaborativeNode(cfg map[string]interface{}) (pipeline.Node, error) {
	d := getDeps()
	if d.Interactions == nil {
		return nil, fmt.Errorf("recall.collaborative requires interactions store (call builders.UseStores)")
	}
	return &recall.Collaborative{
		Interactions: d.Interactions,
		MaxNeighbors: conv.ConfigGetInt(cfg, "max_neighbors", 0),
		TopK:         conv.ConfigGetInt(cfg, "top_k", 0),
	}, nil
}

func BuildFanoutNode(cfg map[string]interface{}) (pipeline.Node, error) {
	sourcesConfig, ok := cfg["sources"].([]interface{})
	if !ok {
		return nil, fmt.Errorf("sources not found or invalid")
	}
	sources := make([]recall.Source, 0, len(sourcesConfig))
	for _, sc := range sourcesConfig {
		sourceMap, ok := sc.(map[string]interface{})
		if !ok {
			continue
		}
		sourceType := conv.ConfigGet(sourceMap, "type", "")
		node, err := buildSource(sourceType, sourceMap)
		if err != nil {
			return nil, err
		}
		sources = append(sources, node)
	}
	fanout := &recall.Fanout{
		Sources: sources,
		Dedup:   conv.ConfigGet(cfg, "dedup", true),
	}
	if sec := conv.ConfigGetInt(cfg, "timeout", 0); sec > 0 {
		fanout.Timeout = time.Duration(sec) * time.Second
	}
	if n := conv.ConfigGetInt(cfg, "max_concurrent", 0); n > 0 {
		fanout.MaxConcurrent = n
	}
	return fanout, nil
}

func buildSource(sourceType string, cfg map[string]interface{}) (recall.Source, error) {
	var (
		node pipeline.Node
		err  error
	)
	switch sourceType {
	case "popular":
		node, err = BuildPopularNode(cfg)
	case "content":
		node, err = BuildContentNode(cfg)
	case "collaborative":
		node, err = BuildCollaborativeNode(cfg)
	default:
		return nil, fmt.Errorf("unknown source type: %s", sourceType)
	}
	if err != nil {
		return nil, err
	}
	src, ok := node.(recall.Source)
	if !ok {
		return nil, fmt.Errorf("source %s does not implement recall.Source", sourceType)
	}
	return src, nil
}

func BuildFilterNode(cfg map[string]interface{}) (pipeline.Node, error) {
	filtersConfig, ok := cfg["filters"].([]interface{})
	if !ok {
		return nil, fmt.Errorf("filters not found or invalid")
	}
	d := getDeps()
	filters := make([]filter.Filter, 0, len(filtersConfig))
	for _, fc := range filtersConfig {
		filterMap, ok := fc.(map[string]interface{})
		if !ok {
			continue
		}
		filterType := conv.ConfigGet(filterMap, "type", "")
		switch filterType {
		case "seen":
			filters = append(filters, &filter.SeenFilter{Interactions: d.Interactions})
		case "active":
			filters = append(filters, &filter.ActiveFilter{
				Catalog:      d.Catalog,
				RequireStock: conv.ConfigGet(filterMap, "require_stock", false),
			})
		case "rule":
			filters = append(filters, &filter.RuleFilter{
				Expr: conv.ConfigGet(filterMap, "expr", ""),
			})
		default:
			return nil, fmt.Errorf("unknown filter type: %s", filterType)
		}
	}
	return &filter.FilterNode{Filters: filters}, nil
}

func BuildTopNNode(cfg map[string]interface{}) (pipeline.Node, error) {
	return &rerank.TopNNode{N: conv.ConfigGetInt(cfg, "n", 0)}, nil
}
