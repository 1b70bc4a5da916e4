package recall

import (
	"context"
	"math/rand"

	"github.com/rushteam/feedkit/core"
)

// RelatedWalk 是相关视频游走召回源：从最近观看历史中随机采样若干条，
// 拉取各自的相关视频列表。
type RelatedWalk struct {
	Catalog core.CatalogService

	// Rand 用于种子采样；nil 时取最前面的若干条（确定性）。
	Rand *rand.Rand

	// MaxSeeds 最多采样几条观看记录作为种子，默认 3
	MaxSeeds int

	// SampleWindow 只在最近多少条观看记录内采样，默认 10
	SampleWindow int

	// PerSeedCap 每个种子最多取多少条相关视频，默认 15
	PerSeedCap int
}

func (r *RelatedWalk) Name() string { return "recall.related_walk" }

func (r *RelatedWalk) Recall(
	ctx context.Context,
	rctx *core.RecommendContext,
) ([]*core.Item, error) {
	if r.Catalog == nil || rctx == nil || len(rctx.WatchHistory) == 0 {
		return nil, nil
	}

	maxSeeds := r.MaxSeeds
	if maxSeeds <= 0 {
		maxSeeds = 3
	}
	window := r.SampleWindow
	if window <= 0 {
		window = 10
	}
	perSeed := r.PerSeedCap
	if perSeed <= 0 {
		perSeed = 15
	}

	n := len(rctx.WatchHistory)
	if n > window {
		n = window
	}

	var out []*core.Item
	for _, idx := range sampleIndexes(r.Rand, n, maxSeeds) {
		seed := rctx.WatchHistory[idx]
		if seed == nil || seed.ID == "" {
			continue
		}
		details, err := r.Catalog.VideoDetails(ctx, seed.ID)
		if err != nil || details == nil {
			// 单个种子失败只丢掉这个种子的贡献
			continue
		}
		out = append(out, wrapVideos(details.Related, perSeed)...)
	}
	return out, nil
}
