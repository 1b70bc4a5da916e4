package filter

import (
	"context"
	"strings"

	"github.com/rushteam/feedkit/core"
)

// NGKeyword 过滤标题+频道名中包含 NG 关键词的候选。
// 匹配方式是大小写不敏感的子串匹配（不是分词后的完整 token 匹配），
// 这样「ホラーゲーム」也能命中 NG 词「ホラー」。
type NGKeyword struct{}

func (f *NGKeyword) Name() string { return "filter.ng_keyword" }

func (f *NGKeyword) ShouldFilter(
	_ context.Context,
	rctx *core.RecommendContext,
	item *core.Item,
) (bool, error) {
	if item == nil || item.Video == nil || rctx == nil || len(rctx.NGKeywords) == 0 {
		return false, nil
	}

	haystack := strings.ToLower(item.Video.Title + " " + item.Video.ChannelName)
	for _, ng := range rctx.NGKeywords {
		if ng == "" {
			continue
		}
		if strings.Contains(haystack, strings.ToLower(ng)) {
			return true, nil
		}
	}
	return false, nil
}
