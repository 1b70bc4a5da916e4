package filter

import (
	"context"

	"github.com/rushteam/feedkit/core"
	"github.com/rushteam/feedkit/keyword"
)

// DefaultPenaltyThreshold 是负向关键词累计惩罚的参考阈值。
const DefaultPenaltyThreshold = 2.0

// Penalty 过滤负向关键词累计惩罚超过阈值的候选。
//
// 惩罚映射（关键词→分值）由外部系统学习维护，引擎只读
// （可由 feast 包从在线特征存储拉取，见 feast.GrpcClient）。
// 候选的标题+频道名抽取出的每个关键词在映射中的分值相加，
// 超过 Threshold 即剔除。
type Penalty struct {
	// Threshold 惩罚阈值，<=0 时使用 DefaultPenaltyThreshold
	Threshold float64
}

func (f *Penalty) Name() string { return "filter.penalty" }

func (f *Penalty) ShouldFilter(
	_ context.Context,
	rctx *core.RecommendContext,
	item *core.Item,
) (bool, error) {
	if item == nil || item.Video == nil || rctx == nil || len(rctx.NegativeKeywords) == 0 {
		return false, nil
	}

	threshold := f.Threshold
	if threshold <= 0 {
		threshold = DefaultPenaltyThreshold
	}

	total := 0.0
	for _, tok := range keyword.Extract(item.Video.Title + " " + item.Video.ChannelName) {
		total += rctx.NegativeKeywords[tok]
	}
	return total > threshold, nil
}
