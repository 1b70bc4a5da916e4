package recall

import (
	"context"
	"math/rand"

	"github.com/rushteam/feedkit/core"
)

// Source 表示一个可复用的召回源（相关视频游走/兴趣检索/订阅/热门）。
// 你可以把它理解为“可并发 fan-out 的策略单元”。
//
// 约定：Recall 的 error 只做观测用途；Fanout 对任何返回 error 的
// 召回源按空贡献处理，绝不因此中断或延迟兄弟召回源。
type Source interface {
	Name() string
	Recall(ctx context.Context, rctx *core.RecommendContext) ([]*core.Item, error)
}

// sampleIndexes 从 [0, n) 中无放回地均匀采样 k 个下标。
// r 为 nil 时退化为取前 k 个（测试中常用，保证确定性）。
func sampleIndexes(r *rand.Rand, n, k int) []int {
	if n <= 0 || k <= 0 {
		return nil
	}
	if k > n {
		k = n
	}
	if r == nil {
		idx := make([]int, k)
		for i := range idx {
			idx[i] = i
		}
		return idx
	}
	return r.Perm(n)[:k]
}

// capItems 截断候选列表。
func capItems(items []*core.Item, cap int) []*core.Item {
	if cap > 0 && len(items) > cap {
		return items[:cap]
	}
	return items
}

// wrapVideos 把目录服务返回的视频包装为 Item。nil 条目被跳过。
func wrapVideos(videos []*core.Video, cap int) []*core.Item {
	if cap > 0 && len(videos) > cap {
		videos = videos[:cap]
	}
	out := make([]*core.Item, 0, len(videos))
	for _, v := range videos {
		if v == nil || v.ID == "" {
			continue
		}
		out = append(out, core.NewItem(v))
	}
	return out
}

// pageFromParams 取请求级分页参数，缺省为 0。
func pageFromParams(rctx *core.RecommendContext) int {
	if rctx == nil || rctx.Params == nil {
		return 0
	}
	switch v := rctx.Params["page"].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	default:
		return 0
	}
}
