package core

import "github.com/rushteam/feedkit/pkg/utils"

// Item 是排序链路中的统一承载结构：候选视频、分数、标签。
// Video 本体只读；Score 用于排序决策；Labels 用于解释与策略驱动
// （召回来源、所属 pool、过滤原因、各子分数等）。
// Item 在一次排序过程内创建并丢弃，不跨请求存活。
type Item struct {
	Video  *Video
	Score  float64
	Labels map[string]utils.Label
}

func NewItem(v *Video) *Item {
	return &Item{
		Video:  v,
		Score:  0,
		Labels: make(map[string]utils.Label),
	}
}

// ID 返回候选视频 ID；Video 为空时返回空串。
func (it *Item) ID() string {
	if it == nil || it.Video == nil {
		return ""
	}
	return it.Video.ID
}

// PutLabel 写入 Label；若已存在同名 key，则按默认 Merge 规则累积。
func (it *Item) PutLabel(key string, lbl utils.Label) {
	if it.Labels == nil {
		it.Labels = make(map[string]utils.Label)
	}
	if old, ok := it.Labels[key]; ok {
		it.Labels[key] = utils.MergeLabel(old, lbl)
		return
	}
	it.Labels[key] = lbl
}

// GetLabel 获取 Label。
func (it *Item) GetLabel(key string) (utils.Label, bool) {
	if it.Labels == nil {
		return utils.Label{}, false
	}
	lbl, ok := it.Labels[key]
	return lbl, ok
}
