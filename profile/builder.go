// Package profile 把用户行为快照折叠成兴趣画像：关键词→权重。
// 画像每次排序过程重新构建，不做归一化——绝对量级只在同一次
// 排序过程内的候选之间比较才有意义。
package profile

import (
	"context"
	"math"
	"sort"

	"github.com/rushteam/feedkit/core"
	"github.com/rushteam/feedkit/keyword"
	"github.com/rushteam/feedkit/pipeline"
)

// Builder 按固定的衰减策略累积各信号的关键词权重：
//   - 第 i 条搜索词：3.0 * exp(-i/5)
//   - 第 i 条观看记录：标题 2.0 * exp(-i/10)，频道名 ×0.8，描述 ×0.5
//   - 订阅频道名：固定 1.5
//
// 权重与衰减形状是行为契约，改动会改变整个排序结果的相对序。
type Builder struct {
	SearchWeight float64 // 默认 3.0
	SearchDecay  float64 // 默认 5
	WatchWeight  float64 // 默认 2.0
	WatchDecay   float64 // 默认 10
	ChannelRatio float64 // 频道名相对标题的系数，默认 0.8
	DescRatio    float64 // 描述相对标题的系数，默认 0.5
	SubWeight    float64 // 订阅频道名的固定权重，默认 1.5
}

// NewBuilder 返回带默认权重的 Builder。
func NewBuilder() *Builder {
	return &Builder{
		SearchWeight: 3.0,
		SearchDecay:  5,
		WatchWeight:  2.0,
		WatchDecay:   10,
		ChannelRatio: 0.8,
		DescRatio:    0.5,
		SubWeight:    1.5,
	}
}

// Build 构建兴趣画像。三类信号相互独立、加性累积，
// 同一关键词跨信号出现时权重相加。
func (b *Builder) Build(
	watchHistory []*core.Video,
	searchHistory []string,
	subscriptions []*core.Channel,
) map[string]float64 {
	prof := make(map[string]float64)

	for i, term := range searchHistory {
		w := b.SearchWeight * math.Exp(-float64(i)/b.SearchDecay)
		addKeywords(prof, keyword.Extract(term), w)
	}

	for i, v := range watchHistory {
		if v == nil {
			continue
		}
		w := b.WatchWeight * math.Exp(-float64(i)/b.WatchDecay)
		addKeywords(prof, keyword.Extract(v.Title), w)
		addKeywords(prof, keyword.Extract(v.ChannelName), w*b.ChannelRatio)
		addKeywords(prof, keyword.Extract(v.Description), w*b.DescRatio)
	}

	for _, ch := range subscriptions {
		if ch == nil {
			continue
		}
		addKeywords(prof, keyword.Extract(ch.Name), b.SubWeight)
	}

	return prof
}

func addKeywords(prof map[string]float64, toks []string, w float64) {
	for _, t := range toks {
		prof[t] += w
	}
}

// TopKeywords 按权重降序返回前 k 个关键词，权重相同时按字典序，
// 保证结果确定（兴趣检索召回依赖这个确定性）。
func TopKeywords(prof map[string]float64, k int) []string {
	if k <= 0 || len(prof) == 0 {
		return nil
	}
	keys := make([]string, 0, len(prof))
	for t := range prof {
		keys = append(keys, t)
	}
	sort.Slice(keys, func(i, j int) bool {
		if prof[keys[i]] != prof[keys[j]] {
			return prof[keys[i]] > prof[keys[j]]
		}
		return keys[i] < keys[j]
	})
	if len(keys) > k {
		keys = keys[:k]
	}
	return keys
}

// Node 是画像构建的 Pipeline 节点：从 rctx 的快照构建画像并写入
// rctx.Profile，供后续的兴趣检索召回与相关性打分读取。不修改 items。
type Node struct {
	Builder *Builder
}

func (n *Node) Name() string        { return "profile.build" }
func (n *Node) Kind() pipeline.Kind { return pipeline.KindProfile }

func (n *Node) Process(
	_ context.Context,
	rctx *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	b := n.Builder
	if b == nil {
		b = NewBuilder()
	}
	rctx.Profile = b.Build(rctx.WatchHistory, rctx.SearchHistory, rctx.Subscriptions)
	return items, nil
}
