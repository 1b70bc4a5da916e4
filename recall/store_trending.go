package recall

import (
	"context"
	"encoding/json"

	"github.com/rushteam/feedkit/core"
)

// StoreTrending 是存储后端的热门召回源：从有序集合读取热门视频 ID
// （按分数降序），再从 Hash 批量补齐视频元数据。
// 目录服务不可用（离线演练、降级预案）时作为 Trending 的替代。
type StoreTrending struct {
	Store core.KeyValueStore

	// Key 热门有序集合的 key，例如 "trending:videos"
	Key string

	// MetaKey 视频元数据 Hash 的 key，field 为视频 ID，value 为 JSON
	MetaKey string

	// TopN 取热门前多少条，默认 50
	TopN int
}

func (r *StoreTrending) Name() string { return "recall.store_trending" }

func (r *StoreTrending) Recall(
	ctx context.Context,
	_ *core.RecommendContext,
) ([]*core.Item, error) {
	if r.Store == nil || r.Key == "" {
		return nil, nil
	}

	topN := int64(r.TopN)
	if topN <= 0 {
		topN = 50
	}

	ids, err := r.Store.ZRange(ctx, r.Key, 0, topN-1)
	if err != nil || len(ids) == 0 {
		return nil, nil
	}

	out := make([]*core.Item, 0, len(ids))
	for _, id := range ids {
		v := &core.Video{ID: id}
		if r.MetaKey != "" {
			if data, err := r.Store.HGet(ctx, r.MetaKey, id); err == nil {
				// 元数据损坏时仍保留裸 ID 候选，交给下游打分降级
				_ = json.Unmarshal(data, v)
				v.ID = id
			}
		}
		out = append(out, core.NewItem(v))
	}
	return out, nil
}
