package rerank

import (
	"context"

	"github.com/rushteam/feedkit/core"
	"github.com/rushteam/feedkit/pipeline"
)

// DefaultChannelCap 是单频道在一次输出 feed 中的参考上限。
const DefaultChannelCap = 3

// ChannelDiversity 是频道多样性 ReRank：对分数降序列表做单次贪心遍历，
// 维护每个频道的计数器，计数达到 Cap 后该频道的后续候选直接丢弃
// （不延后、不回填）。这是刻意的非最优启发式：列表尾部不会用
// 同频道的低分候选补位。
type ChannelDiversity struct {
	// Cap 单频道上限，<=0 时使用 DefaultChannelCap
	Cap int
}

func (n *ChannelDiversity) Name() string        { return "rerank.channel_diversity" }
func (n *ChannelDiversity) Kind() pipeline.Kind { return pipeline.KindReRank }

func (n *ChannelDiversity) Process(
	_ context.Context,
	_ *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	if len(items) == 0 {
		return items, nil
	}

	cap := n.Cap
	if cap <= 0 {
		cap = DefaultChannelCap
	}

	counts := make(map[string]int, 32)
	out := make([]*core.Item, 0, len(items))

	for _, it := range items {
		if it == nil || it.Video == nil {
			continue
		}
		ch := it.Video.ChannelID
		if ch == "" {
			// 无频道信息的候选不受多样性约束
			out = append(out, it)
			continue
		}
		if counts[ch] >= cap {
			continue
		}
		counts[ch]++
		out = append(out, it)
	}

	return out, nil
}
