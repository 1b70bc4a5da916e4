package filter

import (
	"context"

	"github.com/rushteam/feedkit/core"
)

// Filter 是过滤器的抽象接口，用于判断一个候选是否应该被过滤掉。
// 返回 true 表示应该过滤（移除），false 表示保留。
// 过滤器绝不修改候选本身。
type Filter interface {
	// Name 返回过滤器名称（写入被过滤候选的 label，用于 explain）
	Name() string

	// ShouldFilter 判断候选是否应该被过滤
	ShouldFilter(ctx context.Context, rctx *core.RecommendContext, item *core.Item) (bool, error)
}
