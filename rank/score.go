package rank

import (
	"context"
	"math"
	"sort"
	"strconv"

	"github.com/rushteam/feedkit/core"
	"github.com/rushteam/feedkit/keyword"
	"github.com/rushteam/feedkit/pipeline"
	"github.com/rushteam/feedkit/pkg/utils"
)

// 打分公式是行为契约：权重与衰减形状不可调整，
// 否则与参考行为的排序结果不再一致（见 score_test.go 的场景锚点）。
const (
	relevanceWeight  = 1.5
	popularityWeight = 0.3
	freshnessWeight  = 1.0

	freshnessWindowDays = 60 // 超过 60 天新鲜度归零
	freshnessScale      = 5
)

// ScoreNode 是排序 Node：按 相关性/热度/新鲜度 三个子分数的
// 固定加权和为每个候选打分，并按分数降序稳定排序
// （分数相同的候选维持召回顺序）。
//
//	score = 1.5*relevance + 0.3*popularity + 1.0*freshness
//	relevance  = Σ 画像中候选关键词的权重（标题+频道名+描述）
//	popularity = log10(播放量 + 1)
//	freshness  = max(0, 1 - 天数/60) * 5
//
// 子分数写入 labels（rank_relevance / rank_popularity / rank_freshness），
// 便于 explain 与测试断言。
type ScoreNode struct{}

func (n *ScoreNode) Name() string        { return "rank.score" }
func (n *ScoreNode) Kind() pipeline.Kind { return pipeline.KindRank }

func (n *ScoreNode) Process(
	_ context.Context,
	rctx *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	if len(items) == 0 {
		return items, nil
	}

	var prof map[string]float64
	if rctx != nil {
		prof = rctx.Profile
	}

	for _, it := range items {
		if it == nil || it.Video == nil {
			continue
		}

		rel := relevance(it.Video, prof)
		pop := popularity(it.Video)
		fresh := freshness(it.Video)

		it.Score = relevanceWeight*rel + popularityWeight*pop + freshnessWeight*fresh
		it.PutLabel("rank_relevance", utils.Label{Value: formatScore(rel), Source: "rank"})
		it.PutLabel("rank_popularity", utils.Label{Value: formatScore(pop), Source: "rank"})
		it.PutLabel("rank_freshness", utils.Label{Value: formatScore(fresh), Source: "rank"})
	}

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Score > items[j].Score
	})
	return items, nil
}

// relevance 是候选关键词在兴趣画像中的权重之和，画像外的关键词贡献 0。
func relevance(v *core.Video, prof map[string]float64) float64 {
	if len(prof) == 0 {
		return 0
	}
	total := 0.0
	for _, tok := range keyword.Extract(v.Title + " " + v.ChannelName + " " + v.Description) {
		total += prof[tok]
	}
	return total
}

// popularity 是播放量的对数（解析失败时播放量按 0）。
func popularity(v *core.Video) float64 {
	return math.Log10(float64(ParseViewCount(v.ViewCount)) + 1)
}

// freshness 在 60 天内线性衰减，超过归零（解析失败按最大陈旧处理）。
func freshness(v *core.Video) float64 {
	days := ParseDaysAgo(v.Published)
	f := 1 - days/freshnessWindowDays
	if f < 0 {
		f = 0
	}
	return f * freshnessScale
}

func formatScore(f float64) string {
	return strconv.FormatFloat(f, 'f', 4, 64)
}
