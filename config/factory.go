// Package config 提供配置驱动的 Pipeline 组装：按 YAML/JSON 里的
// node 类型名构建各阶段 Node。目录服务、存储、随机源这类运行时
// 依赖无法写进配置文件，由 Deps 注入，builder 闭包引用。
package config

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/rushteam/feedkit/core"
	"github.com/rushteam/feedkit/filter"
	"github.com/rushteam/feedkit/mixer"
	"github.com/rushteam/feedkit/pipeline"
	"github.com/rushteam/feedkit/pkg/conv"
	"github.com/rushteam/feedkit/profile"
	"github.com/rushteam/feedkit/rank"
	"github.com/rushteam/feedkit/recall"
	"github.com/rushteam/feedkit/rerank"
)

// Deps 是配置无法表达的运行时依赖。
type Deps struct {
	Catalog core.CatalogService
	Store   core.KeyValueStore
	Rand    *rand.Rand
}

// builtinTypes 是内置 Node 类型清单（SupportedTypes 使用）。
var builtinTypes = []string{
	"profile.build",
	"recall.fanout",
	"filter",
	"rank.score",
	"rerank.channel_diversity",
	"rerank.topn",
	"mix.ratio",
}

// Factory 返回一个包含所有内置 Node 与 Register 注册的自定义 Node 的工厂。
func Factory(deps Deps) *pipeline.NodeFactory {
	f := pipeline.NewNodeFactory()

	f.Register("profile.build", func(_ map[string]any) (pipeline.Node, error) {
		return &profile.Node{}, nil
	})
	f.Register("recall.fanout", func(cfg map[string]any) (pipeline.Node, error) {
		return buildFanout(deps, cfg)
	})
	f.Register("filter", func(cfg map[string]any) (pipeline.Node, error) {
		return buildFilter(cfg)
	})
	f.Register("rank.score", func(_ map[string]any) (pipeline.Node, error) {
		return &rank.ScoreNode{}, nil
	})
	f.Register("rerank.channel_diversity", func(cfg map[string]any) (pipeline.Node, error) {
		return &rerank.ChannelDiversity{
			Cap: int(conv.ConfigGetInt64(cfg, "cap", 0)),
		}, nil
	})
	f.Register("rerank.topn", func(cfg map[string]any) (pipeline.Node, error) {
		return &rerank.TopN{
			N: int(conv.ConfigGetInt64(cfg, "n", 0)),
		}, nil
	})
	f.Register("mix.ratio", func(cfg map[string]any) (pipeline.Node, error) {
		return buildRatioMix(deps, cfg)
	})

	customBuildersMu.RLock()
	for typeName, builder := range customBuilders {
		f.Register(typeName, builder)
	}
	customBuildersMu.RUnlock()

	return f
}

func buildFanout(deps Deps, cfg map[string]any) (pipeline.Node, error) {
	sourcesCfg, ok := cfg["sources"].([]any)
	if !ok {
		return nil, fmt.Errorf("recall.fanout: sources not found or invalid")
	}

	// 各召回源并发执行而 *rand.Rand 非线程安全：
	// 需要采样的源在这里（单线程装配阶段）各自派生独立的随机源。
	nextRand := func() *rand.Rand {
		if deps.Rand == nil {
			return nil
		}
		return rand.New(rand.NewSource(deps.Rand.Int63()))
	}

	sources := make([]recall.Source, 0, len(sourcesCfg))
	for _, sc := range sourcesCfg {
		sourceMap, ok := sc.(map[string]any)
		if !ok {
			continue
		}
		sourceType := conv.ConfigGet[string](sourceMap, "type", "")
		switch sourceType {
		case "related_walk":
			sources = append(sources, &recall.RelatedWalk{
				Catalog:    deps.Catalog,
				Rand:       nextRand(),
				MaxSeeds:   int(conv.ConfigGetInt64(sourceMap, "max_seeds", 0)),
				PerSeedCap: int(conv.ConfigGetInt64(sourceMap, "per_seed_cap", 0)),
			})
		case "interest_search":
			sources = append(sources, &recall.InterestSearch{
				Catalog:     deps.Catalog,
				TopK:        int(conv.ConfigGetInt64(sourceMap, "top_k", 0)),
				PerQueryCap: int(conv.ConfigGetInt64(sourceMap, "per_query_cap", 0)),
			})
		case "subscription":
			sources = append(sources, &recall.SubscriptionPull{
				Catalog:       deps.Catalog,
				Rand:          nextRand(),
				MaxChannels:   int(conv.ConfigGetInt64(sourceMap, "max_channels", 0)),
				PerChannelCap: int(conv.ConfigGetInt64(sourceMap, "per_channel_cap", 0)),
			})
		case "trending":
			sources = append(sources, &recall.Trending{
				Catalog:    deps.Catalog,
				Cap:        int(conv.ConfigGetInt64(sourceMap, "cap", 0)),
				ShortOnly:  conv.ConfigGet[bool](sourceMap, "short_only", false),
				MaxSeconds: int(conv.ConfigGetInt64(sourceMap, "max_seconds", 0)),
			})
		case "store_trending":
			sources = append(sources, &recall.StoreTrending{
				Store:   deps.Store,
				Key:     conv.ConfigGet[string](sourceMap, "key", "trending:videos"),
				MetaKey: conv.ConfigGet[string](sourceMap, "meta_key", "video:meta"),
				TopN:    int(conv.ConfigGetInt64(sourceMap, "top_n", 0)),
			})
		default:
			return nil, fmt.Errorf("recall.fanout: unknown source type %q", sourceType)
		}
	}

	fanout := &recall.Fanout{
		Sources: sources,
		Pool:    conv.ConfigGet[string](cfg, "pool", ""),
		Dedup:   conv.ConfigGet[bool](cfg, "dedup", false),
	}
	if sec := conv.ConfigGetInt64(cfg, "timeout", 0); sec > 0 {
		fanout.Timeout = time.Duration(sec) * time.Second
	}
	if n := conv.ConfigGetInt64(cfg, "max_concurrent", 0); n > 0 {
		fanout.MaxConcurrent = int(n)
	}
	return fanout, nil
}

func buildFilter(cfg map[string]any) (pipeline.Node, error) {
	filtersCfg, ok := cfg["filters"].([]any)
	if !ok {
		// 缺省链：隐藏视频 / NG 关键词 / NG 频道 / 负向关键词惩罚
		return filter.NewNode(
			&filter.Hidden{},
			&filter.NGKeyword{},
			&filter.NGChannel{},
			&filter.Penalty{},
		), nil
	}

	filters := make([]filter.Filter, 0, len(filtersCfg))
	for _, fc := range filtersCfg {
		fm, ok := fc.(map[string]any)
		if !ok {
			continue
		}
		switch t := conv.ConfigGet[string](fm, "type", ""); t {
		case "hidden":
			filters = append(filters, &filter.Hidden{})
		case "ng_channel":
			filters = append(filters, &filter.NGChannel{})
		case "ng_keyword":
			filters = append(filters, &filter.NGKeyword{})
		case "penalty":
			filters = append(filters, &filter.Penalty{
				Threshold: conv.ConfigGetFloat64(fm, "threshold", 0),
			})
		case "rule":
			rule, err := filter.NewRule(conv.ConfigGet[string](fm, "expr", ""))
			if err != nil {
				return nil, fmt.Errorf("filter: %w", err)
			}
			filters = append(filters, rule)
		default:
			return nil, fmt.Errorf("filter: unknown filter type %q", t)
		}
	}
	return filter.NewNode(filters...), nil
}

func buildRatioMix(deps Deps, cfg map[string]any) (pipeline.Node, error) {
	ratios := make(map[string]float64)
	if raw, ok := cfg["ratios"].(map[string]any); ok {
		for name := range raw {
			ratios[name] = conv.ConfigGetFloat64(raw, name, 0)
		}
	}
	return &mixer.RatioMix{
		TargetCount:  int(conv.ConfigGetInt64(cfg, "target_count", 0)),
		Ratios:       ratios,
		Rand:         deps.Rand,
		FallbackPool: conv.ConfigGet[string](cfg, "fallback_pool", ""),
	}, nil
}
