package filter

import (
	"context"

	"github.com/rushteam/feedkit/core"
)

// Hidden 过滤用户已隐藏/屏蔽的视频（按视频 ID）。
type Hidden struct{}

func (f *Hidden) Name() string { return "filter.hidden" }

func (f *Hidden) ShouldFilter(
	_ context.Context,
	rctx *core.RecommendContext,
	item *core.Item,
) (bool, error) {
	if item == nil || rctx == nil {
		return false, nil
	}
	return rctx.IsHidden(item.ID()), nil
}

// NGChannel 过滤 NG 频道的视频（按频道 ID）。
type NGChannel struct{}

func (f *NGChannel) Name() string { return "filter.ng_channel" }

func (f *NGChannel) ShouldFilter(
	_ context.Context,
	rctx *core.RecommendContext,
	item *core.Item,
) (bool, error) {
	if item == nil || item.Video == nil || rctx == nil {
		return false, nil
	}
	return rctx.IsNGChannel(item.Video.ChannelID), nil
}
