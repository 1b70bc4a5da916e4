package filter

import (
	"context"

	"github.com/rushteam/feedkit/core"
	"github.com/rushteam/feedkit/pipeline"
	"github.com/rushteam/feedkit/pkg/utils"
)

// Node 是过滤 Node，组合多个过滤器顺序检查，任何一个命中即剔除。
//
// Node 同时持有跨 pool 的 seen-set：候选一旦通过全部过滤器，
// 其 ID 立即记入 seen-set，后续 pool 中的同 ID 候选会被去重掉。
// seen-set 只在 fan-in 之后的单线程过滤阶段被更新，一个 Node
// 实例对应一次排序过程，不跨请求复用。
type Node struct {
	Filters []Filter

	seen map[string]struct{}
}

// NewNode 创建一个过滤 Node。
func NewNode(filters ...Filter) *Node {
	return &Node{
		Filters: filters,
		seen:    make(map[string]struct{}),
	}
}

func (n *Node) Name() string        { return "filter.node" }
func (n *Node) Kind() pipeline.Kind { return pipeline.KindFilter }

func (n *Node) Process(
	ctx context.Context,
	rctx *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	if len(items) == 0 {
		return items, nil
	}
	if n.seen == nil {
		n.seen = make(map[string]struct{})
	}

	out := make([]*core.Item, 0, len(items))

	for _, item := range items {
		if item == nil || item.Video == nil || item.ID() == "" {
			continue
		}

		// 先查 seen-set：pool 内与跨 pool 的重复在这里统一拦截
		if _, dup := n.seen[item.ID()]; dup {
			continue
		}

		shouldFilter := false
		filterReason := ""

		for _, f := range n.Filters {
			ok, err := f.ShouldFilter(ctx, rctx, item)
			if err != nil {
				// 过滤器错误时跳过该过滤器，不中断流程
				continue
			}
			if ok {
				shouldFilter = true
				filterReason = f.Name()
				break
			}
		}

		if shouldFilter {
			// 记录过滤原因（用于调试/观测）
			item.PutLabel("filtered", utils.Label{
				Value:  "true",
				Source: filterReason,
			})
			continue
		}

		// 幸存者立即记入 seen-set，后续 pool 不能再引入同 ID 候选
		n.seen[item.ID()] = struct{}{}
		out = append(out, item)
	}

	return out, nil
}
