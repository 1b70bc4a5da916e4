package pipeline

import (
	"context"

	"github.com/rushteam/feedkit/core"
)

// Pipeline 是引擎的核心抽象：把排序逻辑拆成可组合的 Node 链。
// 召回之后的所有阶段都在单线程内顺序执行（并发只存在于
// recall.Fanout 内部的 fan-out/fan-in）。
type Pipeline struct {
	Nodes []Node
}

func (p *Pipeline) Run(
	ctx context.Context,
	rctx *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	cur := items
	for _, node := range p.Nodes {
		next, err := node.Process(ctx, rctx, cur)
		if err != nil {
			return nil, err
		}
		cur = next
	}
	return cur, nil
}
