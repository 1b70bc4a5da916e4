package pipeline

import (
	"context"

	"github.com/rushteam/feedkit/core"
)

// Kind 用于标记 Node 类型，方便观测/治理/编排（例如按阶段打点）。
type Kind string

const (
	KindProfile Kind = "profile" // 画像阶段：构建兴趣画像
	KindRecall  Kind = "recall"  // 召回阶段：从目录服务生成候选集
	KindFilter  Kind = "filter"  // 过滤阶段：剔除排除项与重复项
	KindRank    Kind = "rank"    // 排序阶段：对候选打分并排序
	KindReRank  Kind = "rerank"  // 重排阶段：多样性约束/截断
	KindMix     Kind = "mix"     // 混合阶段：按比例混合 pool 并打散
)

// Node 是 Pipeline 的最小可扩展单元。
// 统一采用“输入 items -> 输出 items”的形态，方便 Recall 生成、
// Filter 截断、Mix 重组等操作。
type Node interface {
	Name() string
	Kind() Kind

	Process(
		ctx context.Context,
		rctx *core.RecommendContext,
		items []*core.Item,
	) ([]*core.Item, error)
}
