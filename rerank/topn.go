package rerank

import (
	"context"

	"github.com/rushteam/feedkit/core"
	"github.com/rushteam/feedkit/pipeline"
)

// TopN 是截断节点，用于在排序/多样性之后截取前 N 个候选。
//
// 使用场景：
//   - profile-rank 模式的收尾（不走 Mixer 的单 pool 排序）
//   - 控制进入 Mixer 的候选规模
type TopN struct {
	// N 要保留的候选数量；N <= 0 或候选不足时不截断
	N int
}

func (n *TopN) Name() string        { return "rerank.topn" }
func (n *TopN) Kind() pipeline.Kind { return pipeline.KindReRank }

func (n *TopN) Process(
	_ context.Context,
	_ *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	if n.N <= 0 || len(items) <= n.N {
		return items, nil
	}
	return items[:n.N], nil
}
