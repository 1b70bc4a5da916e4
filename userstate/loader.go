// Package userstate 从 Store 读取 User State Store 落地的用户状态快照，
// 组装成一次排序过程的 RecommendContext。快照对引擎只读：
// 这里只有读取与容错解码，没有任何回写或缓存。
package userstate

import (
	"context"
	"encoding/json"

	"github.com/rushteam/feedkit/core"
)

// Snapshot 是存储中一个用户的状态快照（JSON）。
// 历史列表约定最近优先（下标 0 最新）。
type Snapshot struct {
	WatchHistory     []*core.Video      `json:"watch_history"`
	SearchHistory    []string           `json:"search_history"`
	Subscriptions    []*core.Channel    `json:"subscriptions"`
	NGKeywords       []string           `json:"ng_keywords"`
	NGChannelIDs     []string           `json:"ng_channel_ids"`
	HiddenVideoIDs   []string           `json:"hidden_video_ids"`
	NegativeKeywords map[string]float64 `json:"negative_keywords"`
}

// Loader 按 key 前缀从 Store 读取快照。实际 key 为 {KeyPrefix}:{UserID}。
type Loader struct {
	Store core.Store

	// KeyPrefix 默认 "userstate"
	KeyPrefix string
}

// NewLoader 创建一个快照读取器。
func NewLoader(s core.Store) *Loader {
	return &Loader{Store: s}
}

// Load 读取用户快照并组装 RecommendContext。
//
// 容错约定：key 不存在、JSON 损坏都不是错误——返回空快照的
// RecommendContext（冷启动语义），只有存储本身不可用才返回 error。
func (l *Loader) Load(ctx context.Context, userID string) (*core.RecommendContext, error) {
	rctx := &core.RecommendContext{UserID: userID}
	if l.Store == nil || userID == "" {
		return rctx, nil
	}

	prefix := l.KeyPrefix
	if prefix == "" {
		prefix = "userstate"
	}

	data, err := l.Store.Get(ctx, prefix+":"+userID)
	if err != nil {
		if core.IsStoreNotFound(err) {
			return rctx, nil
		}
		return nil, err
	}

	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		// 快照损坏按冷启动处理，而不是让整次排序失败
		return rctx, nil
	}

	rctx.WatchHistory = snap.WatchHistory
	rctx.SearchHistory = snap.SearchHistory
	rctx.Subscriptions = snap.Subscriptions
	rctx.NGKeywords = snap.NGKeywords
	rctx.NGChannelIDs = snap.NGChannelIDs
	rctx.HiddenVideoIDs = snap.HiddenVideoIDs
	rctx.NegativeKeywords = snap.NegativeKeywords
	return rctx, nil
}
