package core

import "github.com/rushteam/feedkit/pkg/utils"

// RecommendContext 承载一次排序过程的用户状态快照，贯穿整个 Pipeline 透传。
//
// 快照由 User State Store 在每次调用前组装，对引擎只读：
// 引擎不回写、不缓存、不跨请求复用。历史列表均为最近优先
// （下标 0 是最新的一条）。
type RecommendContext struct {
	UserID string
	Scene  string // 场景标识：main / shorts 等

	// 行为历史（最近优先）
	WatchHistory  []*Video // 观看历史
	SearchHistory []string // 搜索词历史

	// 订阅
	Subscriptions []*Channel

	// 排除偏好（NG 列表 + 隐藏视频），全部来自 User State Store
	NGKeywords     []string // 大小写不敏感的子串匹配
	NGChannelIDs   []string
	HiddenVideoIDs []string

	// NegativeKeywords 是外部维护的负向关键词→惩罚分映射，只读。
	// 候选的累计惩罚超过阈值（参考值 2.0）即被过滤。
	NegativeKeywords map[string]float64

	// Profile 是本次排序过程中构建的兴趣画像：关键词→权重。
	// 由 profile 阶段填充，recall 的兴趣检索与 rank 的相关性打分读取。
	Profile map[string]float64

	// Labels 是用户级标签，可驱动整个 Pipeline 行为。
	Labels map[string]utils.Label

	// Params 请求级上下文参数，例如 page、target_count。
	Params map[string]any
}

// PutLabel 写入用户级 Label。
func (rctx *RecommendContext) PutLabel(key string, lbl utils.Label) {
	if rctx.Labels == nil {
		rctx.Labels = make(map[string]utils.Label)
	}
	if old, ok := rctx.Labels[key]; ok {
		rctx.Labels[key] = utils.MergeLabel(old, lbl)
		return
	}
	rctx.Labels[key] = lbl
}

// GetLabel 获取用户级 Label。
func (rctx *RecommendContext) GetLabel(key string) (utils.Label, bool) {
	if rctx.Labels == nil {
		return utils.Label{}, false
	}
	lbl, ok := rctx.Labels[key]
	return lbl, ok
}

// IsHidden 判断视频 ID 是否在隐藏列表中。
func (rctx *RecommendContext) IsHidden(videoID string) bool {
	for _, id := range rctx.HiddenVideoIDs {
		if id == videoID {
			return true
		}
	}
	return false
}

// IsNGChannel 判断频道 ID 是否在 NG 频道列表中。
func (rctx *RecommendContext) IsNGChannel(channelID string) bool {
	for _, id := range rctx.NGChannelIDs {
		if id == channelID {
			return true
		}
	}
	return false
}
