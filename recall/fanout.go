package recall

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/rushteam/feedkit/core"
	"github.com/rushteam/feedkit/pipeline"
	"github.com/rushteam/feedkit/pkg/utils"
)

// Fanout 是一个 Recall Node：并发执行多个召回源，并合并结果。
//
// fan-in 采用 settle-all 约定：等待每一个召回源出结果（成功或失败）
// 再继续，不会因为第一个失败短路，也不会因为第一个成功提前返回。
// 失败的召回源贡献空集。fan-out 期间各源不共享可变状态，
// 合并只发生在 eg.Wait 之后的单线程阶段。
type Fanout struct {
	Sources []Source

	// Pool 是本次 fan-out 产出候选的 pool 名（trending / personalized 等），
	// 写入每个 Item 的 "pool" label，供 Mixer 按比例取数。
	Pool string

	// Timeout 是每个召回源的超时时间。参考行为没有超时（挂起的外部
	// 调用会拖住整次排序），这里作为加固改进保留，0 表示不限制。
	Timeout time.Duration

	// MaxConcurrent 最大并发数（0 表示无限制）
	MaxConcurrent int

	// Dedup 为 true 时按 ID 去重，保留第一个出现的。
	// 引擎默认关闭：跨 pool 去重由 Filter 的 seen-set 统一负责，
	// 这样 Mixer 的比例核算建立在过滤后的规模上。
	Dedup bool
}

func (n *Fanout) Name() string        { return "recall.fanout" }
func (n *Fanout) Kind() pipeline.Kind { return pipeline.KindRecall }

// Process 把本 pool 的召回结果追加到已有 items 之后（而不是替换），
// 因此多个 Fanout 可以串联在同一条 Pipeline 里各自贡献一个 pool。
func (n *Fanout) Process(
	ctx context.Context,
	rctx *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	if len(n.Sources) == 0 {
		return items, nil
	}

	var (
		mu  sync.Mutex
		all []*core.Item
		eg  errgroup.Group
	)
	if n.MaxConcurrent > 0 {
		eg.SetLimit(n.MaxConcurrent)
	}

	for _, src := range n.Sources {
		s := src
		eg.Go(func() error {
			recallCtx := ctx
			if n.Timeout > 0 {
				var cancel context.CancelFunc
				recallCtx, cancel = context.WithTimeout(ctx, n.Timeout)
				defer cancel()
			}

			items, err := s.Recall(recallCtx, rctx)
			if err != nil {
				// 超时或错误时返回空结果，不中断其他召回源
				return nil
			}

			// 记录召回来源与 pool label，方便 explain / 观测
			for _, it := range items {
				if it == nil {
					continue
				}
				it.PutLabel("recall_source", utils.Label{Value: s.Name(), Source: "recall"})
				if n.Pool != "" {
					it.PutLabel("pool", utils.Label{Value: n.Pool, Source: "recall"})
				}
			}

			mu.Lock()
			all = append(all, items...)
			mu.Unlock()
			return nil
		})
	}

	// 各 goroutine 永远返回 nil，Wait 在这里只起 join barrier 的作用。
	_ = eg.Wait()

	if n.Dedup {
		all = mergeFirst(all)
	}

	out := make([]*core.Item, 0, len(items)+len(all))
	out = append(out, items...)
	out = append(out, all...)
	return out, nil
}

// mergeFirst 按 ID 去重，保留第一个出现的，labels 合并。
func mergeFirst(all []*core.Item) []*core.Item {
	seen := make(map[string]*core.Item, len(all))
	out := make([]*core.Item, 0, len(all))
	for _, it := range all {
		if it == nil || it.ID() == "" {
			continue
		}
		if old, ok := seen[it.ID()]; ok {
			for k, v := range it.Labels {
				old.PutLabel(k, v)
			}
			continue
		}
		seen[it.ID()] = it
		out = append(out, it)
	}
	return out
}
