// Package mixer 把若干个带比例的候选 pool 混合成最终 feed：
// 每个 pool 独立洗牌后按配额取数，拼接后再整体洗牌一次。
package mixer

import (
	"context"
	"math/rand"
	"sort"

	"github.com/rushteam/feedkit/core"
	"github.com/rushteam/feedkit/pipeline"
	"github.com/rushteam/feedkit/pkg/utils"
)

// DefaultPool 是未打 pool label 的候选归属的 pool 名。
const DefaultPool = "personalized"

// RatioMix 是混合 Node。
//
// 配额计算：quota(pool) = floor(ratio * TargetCount)。某个 pool 的候选
// 少于配额时，缺口不会挪给其他 pool——输出可能短于 TargetCount，
// 这是可接受的非致命边界情况。
//
// 随机性：洗牌使用注入的 Rand（均匀 Fisher–Yates）；绝不依赖进程级
// 全局随机源，测试注入固定种子即可复现。Rand 为 nil 时不洗牌，
// 纯按输入顺序取数。
type RatioMix struct {
	// TargetCount 目标条数
	TargetCount int

	// Ratios pool 名→比例（0~1）。未列出的 pool 不参与混合。
	Ratios map[string]float64

	// Rand 随机源
	Rand *rand.Rand

	// FallbackPool 非空时启用退化兜底：混合结果为空则直接返回
	// 该 pool 的全量洗牌副本（短视频 feed 用它避免空结果）。
	FallbackPool string
}

func (n *RatioMix) Name() string        { return "mix.ratio" }
func (n *RatioMix) Kind() pipeline.Kind { return pipeline.KindMix }

func (n *RatioMix) Process(
	_ context.Context,
	_ *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	pools := splitPools(items)
	out := n.MixPools(pools)
	return out, nil
}

// MixPools 对已分好的 pool 做比例混合。Node 之外（engine）也直接调用。
func (n *RatioMix) MixPools(pools map[string][]*core.Item) []*core.Item {
	target := n.TargetCount
	if target <= 0 {
		target = 20
	}

	// pool 名排序遍历，保证同种子下结果可复现
	names := make([]string, 0, len(n.Ratios))
	for name := range n.Ratios {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]*core.Item, 0, target)
	for _, name := range names {
		pool := pools[name]
		quota := int(n.Ratios[name] * float64(target))
		if quota <= 0 || len(pool) == 0 {
			continue
		}

		shuffled := n.shuffled(pool)
		if len(shuffled) > quota {
			shuffled = shuffled[:quota]
		}
		for _, it := range shuffled {
			it.PutLabel("mixed_from", utils.Label{Value: name, Source: "mix"})
		}
		out = append(out, shuffled...)
	}

	// 拼接后整体再洗一次，避免 pool 成段出现
	out = n.shuffled(out)

	if len(out) == 0 && n.FallbackPool != "" {
		if raw := pools[n.FallbackPool]; len(raw) > 0 {
			return n.shuffled(raw)
		}
	}
	return out
}

// shuffled 返回洗牌后的副本，不修改原切片。
func (n *RatioMix) shuffled(items []*core.Item) []*core.Item {
	out := make([]*core.Item, len(items))
	copy(out, items)
	if n.Rand != nil {
		n.Rand.Shuffle(len(out), func(i, j int) {
			out[i], out[j] = out[j], out[i]
		})
	}
	return out
}

// splitPools 按 "pool" label 把候选分组，未打 label 的归入 DefaultPool。
func splitPools(items []*core.Item) map[string][]*core.Item {
	pools := make(map[string][]*core.Item)
	for _, it := range items {
		if it == nil {
			continue
		}
		name := DefaultPool
		if lbl, ok := it.GetLabel("pool"); ok && lbl.Value != "" {
			name = lbl.Value
		}
		pools[name] = append(pools[name], it)
	}
	return pools
}
