package recall

import (
	"context"

	"github.com/rushteam/feedkit/core"
	"github.com/rushteam/feedkit/profile"
)

// InterestSearch 是兴趣检索召回源：取兴趣画像中权重最高的若干关键词，
// 每个关键词发一次目录检索。依赖 profile 阶段已填充 rctx.Profile。
type InterestSearch struct {
	Catalog core.CatalogService

	// TopK 取画像中权重最高的几个关键词，默认 3
	TopK int

	// PerQueryCap 每个关键词最多取多少条检索结果，默认 10
	PerQueryCap int
}

func (r *InterestSearch) Name() string { return "recall.interest_search" }

func (r *InterestSearch) Recall(
	ctx context.Context,
	rctx *core.RecommendContext,
) ([]*core.Item, error) {
	if r.Catalog == nil || rctx == nil || len(rctx.Profile) == 0 {
		return nil, nil
	}

	topK := r.TopK
	if topK <= 0 {
		topK = 3
	}
	perQuery := r.PerQueryCap
	if perQuery <= 0 {
		perQuery = 10
	}

	page := pageFromParams(rctx)

	var out []*core.Item
	for _, kw := range profile.TopKeywords(rctx.Profile, topK) {
		videos, err := r.Catalog.Search(ctx, kw, page)
		if err != nil {
			// 单个检索失败只丢掉这个关键词的贡献
			continue
		}
		out = append(out, wrapVideos(videos, perQuery)...)
	}
	return out, nil
}
