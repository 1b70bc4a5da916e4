package config

import (
	"context"
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/rushteam/feedkit/core"
	"github.com/rushteam/feedkit/pipeline"
	"github.com/rushteam/feedkit/recall"
	"github.com/rushteam/feedkit/store"
)

type nopCatalog struct{}

func (nopCatalog) Search(context.Context, string, int) ([]*core.Video, error) {
	return nil, core.ErrCatalogUnavailable
}
func (nopCatalog) Recommended(context.Context) ([]*core.Video, error) {
	return []*core.Video{{ID: "t1"}, {ID: "t2"}}, nil
}
func (nopCatalog) VideoDetails(context.Context, string) (*core.VideoDetails, error) {
	return nil, core.ErrCatalogUnavailable
}
func (nopCatalog) ChannelVideos(context.Context, string, int) ([]*core.Video, error) {
	return nil, core.ErrCatalogUnavailable
}

const mainFeedYAML = `
pipeline:
  name: main-feed
  nodes:
    - type: profile.build
    - type: recall.fanout
      config:
        pool: trending
        sources:
          - type: trending
            cap: 10
    - type: filter
    - type: rank.score
    - type: rerank.channel_diversity
      config:
        cap: 3
    - type: mix.ratio
      config:
        target_count: 10
        ratios:
          trending: 1.0
`

func loadConfig(t *testing.T, yaml string) *pipeline.Config {
	t.Helper()
	path := filepath.Join(t.TempDir(), "pipeline.yaml")
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	cfg, err := pipeline.LoadFromYAML(path)
	if err != nil {
		t.Fatalf("LoadFromYAML: %v", err)
	}
	return cfg
}

// 完整的配置驱动装配：YAML → Factory → Pipeline → Run。
func TestFactoryBuildsMainFeedPipeline(t *testing.T) {
	cfg := loadConfig(t, mainFeedYAML)
	if err := ValidatePipelineConfig(cfg); err != nil {
		t.Fatalf("ValidatePipelineConfig: %v", err)
	}

	f := Factory(Deps{
		Catalog: nopCatalog{},
		Rand:    rand.New(rand.NewSource(1)),
	})
	p, err := cfg.BuildPipeline(f)
	if err != nil {
		t.Fatalf("BuildPipeline: %v", err)
	}

	out, err := p.Run(context.Background(), &core.RecommendContext{}, nil)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(out) != 2 {
		t.Errorf("len = %d, want 2 trending candidates", len(out))
	}
}

func TestFactoryStoreTrendingSource(t *testing.T) {
	ctx := context.Background()
	ms := store.NewMemoryStore()
	defer ms.Close()
	if err := ms.ZAdd(ctx, "trending:videos", 99, "v1"); err != nil {
		t.Fatalf("ZAdd: %v", err)
	}

	cfg := loadConfig(t, `
pipeline:
  nodes:
    - type: recall.fanout
      config:
        pool: trending
        sources:
          - type: store_trending
            key: "trending:videos"
`)
	f := Factory(Deps{Store: ms})
	p, err := cfg.BuildPipeline(f)
	if err != nil {
		t.Fatalf("BuildPipeline: %v", err)
	}
	out, err := p.Run(ctx, &core.RecommendContext{}, nil)
	if err != nil || len(out) != 1 || out[0].ID() != "v1" {
		t.Errorf("Run = %v items, %v, want [v1]", len(out), err)
	}
}

func TestFactoryUnknownSourceType(t *testing.T) {
	cfg := loadConfig(t, `
pipeline:
  nodes:
    - type: recall.fanout
      config:
        sources:
          - type: does_not_exist
`)
	f := Factory(Deps{})
	if _, err := cfg.BuildPipeline(f); err == nil {
		t.Error("unknown source type must fail")
	}
}

func TestFactoryFilterChain(t *testing.T) {
	cfg := loadConfig(t, `
pipeline:
  nodes:
    - type: filter
      config:
        filters:
          - type: hidden
          - type: ng_keyword
          - type: penalty
            threshold: 1.5
          - type: rule
            expr: 'video.title.contains("広告")'
`)
	f := Factory(Deps{})
	p, err := cfg.BuildPipeline(f)
	if err != nil {
		t.Fatalf("BuildPipeline: %v", err)
	}

	rctx := &core.RecommendContext{HiddenVideoIDs: []string{"h1"}}
	items := []*core.Item{
		core.NewItem(&core.Video{ID: "h1", Title: "hidden"}),
		core.NewItem(&core.Video{ID: "v1", Title: "【広告】PR"}),
		core.NewItem(&core.Video{ID: "v2", Title: "ok"}),
	}
	out, err := p.Run(context.Background(), rctx, items)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(out) != 1 || out[0].ID() != "v2" {
		t.Errorf("survivors = %d, want [v2]", len(out))
	}
}

// 同一个 fanout 里的采样源各自持有派生随机源，不共享 deps.Rand。
func TestFactorySourceRandsIndependent(t *testing.T) {
	cfg := loadConfig(t, `
pipeline:
  nodes:
    - type: recall.fanout
      config:
        pool: personalized
        sources:
          - type: related_walk
          - type: subscription
`)
	shared := rand.New(rand.NewSource(1))
	f := Factory(Deps{Catalog: nopCatalog{}, Rand: shared})
	p, err := cfg.BuildPipeline(f)
	if err != nil {
		t.Fatalf("BuildPipeline: %v", err)
	}

	fan, ok := p.Nodes[0].(*recall.Fanout)
	if !ok {
		t.Fatalf("node = %T, want *recall.Fanout", p.Nodes[0])
	}
	var walk *recall.RelatedWalk
	var subs *recall.SubscriptionPull
	for _, s := range fan.Sources {
		switch src := s.(type) {
		case *recall.RelatedWalk:
			walk = src
		case *recall.SubscriptionPull:
			subs = src
		}
	}
	if walk == nil || subs == nil {
		t.Fatal("sampling sources not built")
	}
	if walk.Rand == nil || subs.Rand == nil {
		t.Fatal("sampling sources must carry a rand source")
	}
	if walk.Rand == subs.Rand || walk.Rand == shared || subs.Rand == shared {
		t.Error("sources must not share a *rand.Rand")
	}
}

// 缺省过滤链按 隐藏 → NG 关键词 → NG 频道 → 惩罚 的顺序检查，
// 同时命中关键词与频道的候选记录关键词过滤器为剔除原因。
func TestFactoryDefaultFilterChainOrder(t *testing.T) {
	cfg := loadConfig(t, `
pipeline:
  nodes:
    - type: filter
`)
	p, err := cfg.BuildPipeline(Factory(Deps{}))
	if err != nil {
		t.Fatalf("BuildPipeline: %v", err)
	}

	rctx := &core.RecommendContext{
		NGKeywords:   []string{"ホラー"},
		NGChannelIDs: []string{"bad"},
	}
	both := core.NewItem(&core.Video{ID: "v1", Title: "ホラー実況", ChannelID: "bad"})
	out, err := p.Run(context.Background(), rctx, []*core.Item{both})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(out) != 0 {
		t.Fatal("candidate hitting both NG lists must be filtered")
	}
	if lbl, ok := both.GetLabel("filtered"); !ok || lbl.Source != "filter.ng_keyword" {
		t.Errorf("filtered label = %+v, want source filter.ng_keyword", lbl)
	}
}

func TestValidatePipelineConfigUnknownType(t *testing.T) {
	cfg := loadConfig(t, `
pipeline:
  nodes:
    - type: not.registered
`)
	if err := ValidatePipelineConfig(cfg); err == nil {
		t.Error("unknown node type must fail validation")
	}
}

func TestRegisterCustomNode(t *testing.T) {
	Register("custom.passthrough", func(_ map[string]any) (pipeline.Node, error) {
		return &rerankPassthrough{}, nil
	})

	found := false
	for _, typ := range SupportedTypes() {
		if typ == "custom.passthrough" {
			found = true
		}
	}
	if !found {
		t.Fatal("custom type missing from SupportedTypes")
	}

	f := Factory(Deps{})
	cfg := loadConfig(t, `
pipeline:
  nodes:
    - type: custom.passthrough
`)
	if _, err := cfg.BuildPipeline(f); err != nil {
		t.Errorf("BuildPipeline with custom node: %v", err)
	}
}

type rerankPassthrough struct{}

func (rerankPassthrough) Name() string        { return "custom.passthrough" }
func (rerankPassthrough) Kind() pipeline.Kind { return pipeline.KindReRank }
func (rerankPassthrough) Process(
	_ context.Context,
	_ *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	return items, nil
}
