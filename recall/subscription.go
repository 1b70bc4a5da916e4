package recall

import (
	"context"
	"math/rand"

	"github.com/rushteam/feedkit/core"
)

// SubscriptionPull 是订阅召回源：从订阅频道中随机采样若干个，
// 拉取各自的最近上传。
type SubscriptionPull struct {
	Catalog core.CatalogService

	// Rand 用于频道采样；nil 时取最前面的若干个（确定性）。
	Rand *rand.Rand

	// MaxChannels 最多采样几个订阅频道，默认 5
	MaxChannels int

	// PerChannelCap 每个频道最多取多少条上传，默认 5
	PerChannelCap int
}

func (r *SubscriptionPull) Name() string { return "recall.subscription" }

func (r *SubscriptionPull) Recall(
	ctx context.Context,
	rctx *core.RecommendContext,
) ([]*core.Item, error) {
	if r.Catalog == nil || rctx == nil || len(rctx.Subscriptions) == 0 {
		return nil, nil
	}

	maxCh := r.MaxChannels
	if maxCh <= 0 {
		maxCh = 5
	}
	perCh := r.PerChannelCap
	if perCh <= 0 {
		perCh = 5
	}

	page := pageFromParams(rctx)

	var out []*core.Item
	for _, idx := range sampleIndexes(r.Rand, len(rctx.Subscriptions), maxCh) {
		ch := rctx.Subscriptions[idx]
		if ch == nil || ch.ID == "" {
			continue
		}
		videos, err := r.Catalog.ChannelVideos(ctx, ch.ID, page)
		if err != nil {
			// 单个频道失败只丢掉这个频道的贡献
			continue
		}
		out = append(out, wrapVideos(videos, perCh)...)
	}
	return out, nil
}
