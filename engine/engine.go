// Package engine 是引擎的产出面：面向展示层的两个入口
// （主 feed 与短视频 feed），内部把 profile / recall / filter /
// rank / rerank / mix 各阶段组装成一条 Pipeline。
//
// 错误语义（对外契约）：
//   - 单个召回源失败：空贡献，不上抛
//   - 展示字符串解析失败：中性分数，不上抛
//   - 所有来源都空：返回空 feed，这是合法结果（"暂无推荐"），不是错误
//
// 引擎唯一的 error 出口是装配错误（目录服务缺失、规则表达式编译失败）。
package engine

import (
	"context"
	"math/rand"
	"time"

	"github.com/rushteam/feedkit/core"
	"github.com/rushteam/feedkit/filter"
	"github.com/rushteam/feedkit/mixer"
	"github.com/rushteam/feedkit/pipeline"
	"github.com/rushteam/feedkit/profile"
	"github.com/rushteam/feedkit/rank"
	"github.com/rushteam/feedkit/recall"
	"github.com/rushteam/feedkit/rerank"
)

// Blend 选择收尾策略，统一历史上的两个引擎变体。
type Blend string

const (
	// BlendRatio 按比例混合带标签的 pool（主 feed / 短视频 feed 的默认）
	BlendRatio Blend = "ratio"
	// BlendProfile 单 pool 按画像分数排序取 TopN，不混合不打散
	BlendProfile Blend = "profile"
)

// 主 feed 与短视频 feed 的参考配比。
var (
	mainRatios   = map[string]float64{"trending": 0.4, "personalized": 0.6}
	shortsRatios = map[string]float64{"popular": 0.75, "personalized": 0.25}
)

// Config 是引擎配置。零值字段取参考默认值。
type Config struct {
	// Catalog 外部目录服务，必填
	Catalog core.CatalogService

	// Rand 洗牌与采样的随机源；nil 时用时间种子新建
	Rand *rand.Rand

	// TargetCount 输出条数，默认 20
	TargetCount int

	// DiversityCap 单频道上限，默认 rerank.DefaultChannelCap
	DiversityCap int

	// PenaltyThreshold 负向关键词惩罚阈值，默认 filter.DefaultPenaltyThreshold
	PenaltyThreshold float64

	// SourceTimeout 每个召回源的超时，默认 3s。参考行为没有超时，
	// 这是文档化的加固偏差；设为负数可关闭。
	SourceTimeout time.Duration

	// Blend 收尾策略，默认 BlendRatio
	Blend Blend

	// Rules 用户自定义排除规则（CEL 表达式），装配时编译
	Rules []string
}

// Engine 每次调用都从传入的用户状态快照完整重算，无跨请求缓存。
type Engine struct {
	cfg     Config
	builder *profile.Builder
	rules   []filter.Filter
}

// New 装配引擎。Catalog 缺失或规则编译失败时报错。
func New(cfg Config) (*Engine, error) {
	if cfg.Catalog == nil {
		return nil, core.ErrCatalogUnavailable
	}
	if cfg.Rand == nil {
		cfg.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if cfg.TargetCount <= 0 {
		cfg.TargetCount = 20
	}
	if cfg.SourceTimeout == 0 {
		cfg.SourceTimeout = 3 * time.Second
	}
	if cfg.Blend == "" {
		cfg.Blend = BlendRatio
	}

	e := &Engine{
		cfg:     cfg,
		builder: profile.NewBuilder(),
	}
	for _, expr := range cfg.Rules {
		rule, err := filter.NewRule(expr)
		if err != nil {
			return nil, err
		}
		e.rules = append(e.rules, rule)
	}
	return e, nil
}

// MainFeed 返回主 feed：40% 热门 / 60% 个性化。
func (e *Engine) MainFeed(ctx context.Context, rctx *core.RecommendContext, page int) ([]*core.Video, error) {
	return e.feed(ctx, rctx, page, "main", mainRatios, false)
}

// ShortsFeed 返回短视频 feed：75% 热门短视频 / 25% 个性化。
// 混合结果为空时退化为热门 pool 的洗牌副本（避免空 feed）。
func (e *Engine) ShortsFeed(ctx context.Context, rctx *core.RecommendContext, page int) ([]*core.Video, error) {
	return e.feed(ctx, rctx, page, "shorts", shortsRatios, true)
}

func (e *Engine) feed(
	ctx context.Context,
	rctx *core.RecommendContext,
	page int,
	scene string,
	ratios map[string]float64,
	shorts bool,
) ([]*core.Video, error) {
	if rctx == nil {
		rctx = &core.RecommendContext{}
	}
	rctx.Scene = scene
	if rctx.Params == nil {
		rctx.Params = make(map[string]any)
	}
	rctx.Params["page"] = page

	p := &pipeline.Pipeline{Nodes: e.nodes(rctx, ratios, shorts)}
	items, err := p.Run(ctx, rctx, nil)
	if err != nil {
		return nil, err
	}

	out := make([]*core.Video, 0, len(items))
	for _, it := range items {
		if it == nil || it.Video == nil {
			continue
		}
		out = append(out, it.Video)
	}
	return out, nil
}

// nodes 组装一次排序过程的 Node 链。Filter Node 持有跨 pool 的
// seen-set，因此每次调用都新建，不跨请求复用。
func (e *Engine) nodes(rctx *core.RecommendContext, ratios map[string]float64, shorts bool) []pipeline.Node {
	timeout := e.cfg.SourceTimeout
	if timeout < 0 {
		timeout = 0
	}

	// 个性化 pool：相关游走 + 兴趣检索 + 订阅；信号稀疏时补一路热门兜底。
	// 各召回源在 Fanout 内并发执行，*rand.Rand 不是线程安全的，
	// 因此每个源在装配阶段派生独立的随机源，fan-out 期间零共享。
	personalizedSources := []recall.Source{
		&recall.RelatedWalk{Catalog: e.cfg.Catalog, Rand: e.sourceRand()},
		&recall.InterestSearch{Catalog: e.cfg.Catalog},
		&recall.SubscriptionPull{Catalog: e.cfg.Catalog, Rand: e.sourceRand()},
	}
	if e.plannedCalls(rctx) < 3 {
		personalizedSources = append(personalizedSources, &recall.Trending{
			Catalog: e.cfg.Catalog,
			Cap:     e.cfg.TargetCount,
		})
	}

	nodes := []pipeline.Node{
		&profile.Node{Builder: e.builder},
		&recall.Fanout{
			Sources: personalizedSources,
			Pool:    "personalized",
			Timeout: timeout,
		},
	}

	// ratio 模式的第二个 pool：全局热门（短视频 feed 只保留短时长条目）
	if e.cfg.Blend == BlendRatio {
		poolName := "trending"
		if shorts {
			poolName = "popular"
		}
		nodes = append(nodes, &recall.Fanout{
			Sources: []recall.Source{&recall.Trending{
				Catalog:   e.cfg.Catalog,
				ShortOnly: shorts,
			}},
			Pool:    poolName,
			Timeout: timeout,
		})
	}

	// 检查顺序固定：隐藏视频 → NG 关键词 → NG 频道 → 负向惩罚。
	// 幸存集合与顺序无关，但被剔除候选的 filtered 标签记录首个命中者。
	filters := []filter.Filter{
		&filter.Hidden{},
		&filter.NGKeyword{},
		&filter.NGChannel{},
		&filter.Penalty{Threshold: e.cfg.PenaltyThreshold},
	}
	filters = append(filters, e.rules...)

	nodes = append(nodes,
		filter.NewNode(filters...),
		&rank.ScoreNode{},
		&rerank.ChannelDiversity{Cap: e.cfg.DiversityCap},
	)

	if e.cfg.Blend == BlendProfile {
		return append(nodes, &rerank.TopN{N: e.cfg.TargetCount})
	}

	mix := &mixer.RatioMix{
		TargetCount: e.cfg.TargetCount,
		Ratios:      ratios,
		Rand:        e.cfg.Rand,
	}
	if shorts {
		mix.FallbackPool = "popular"
	}
	return append(nodes, mix)
}

// sourceRand 为单个召回源派生独立的随机源。派生发生在单线程的
// 装配阶段，fan-out 的各 goroutine 之间不共享任何 *rand.Rand。
func (e *Engine) sourceRand() *rand.Rand {
	return rand.New(rand.NewSource(e.cfg.Rand.Int63()))
}

// plannedCalls 计算个性化召回将发出的目录调用数：
// 游走种子数 + 兴趣检索查询数 + 订阅频道数。少于 3 次视为信号稀疏
// （冷启动或只有零星历史），补热门兜底。
func (e *Engine) plannedCalls(rctx *core.RecommendContext) int {
	if rctx == nil {
		return 0
	}
	calls := 0

	seeds := len(rctx.WatchHistory)
	if seeds > 3 {
		seeds = 3
	}
	calls += seeds

	// 兴趣检索每个画像关键词发一次查询（上限 3）。画像能给出的
	// 关键词可能少于 3 个（比如只有一条搜索记录），按实际数量算。
	prof := e.builder.Build(rctx.WatchHistory, rctx.SearchHistory, rctx.Subscriptions)
	calls += len(profile.TopKeywords(prof, 3))

	subs := len(rctx.Subscriptions)
	if subs > 5 {
		subs = 5
	}
	calls += subs

	return calls
}
