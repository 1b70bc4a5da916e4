package recall

import (
	"context"
	"errors"
	"testing"

	"github.com/rushteam/feedkit/core"
)

// stubCatalog 按 map 返回预置数据，未命中即报错。
type stubCatalog struct {
	searches map[string][]*core.Video
	details  map[string]*core.VideoDetails
	channels map[string][]*core.Video
}

func (c *stubCatalog) Search(_ context.Context, query string, _ int) ([]*core.Video, error) {
	if vs, ok := c.searches[query]; ok {
		return vs, nil
	}
	return nil, errors.New("search failed")
}

func (c *stubCatalog) Recommended(context.Context) ([]*core.Video, error) {
	return nil, core.ErrCatalogUnavailable
}

func (c *stubCatalog) VideoDetails(_ context.Context, id string) (*core.VideoDetails, error) {
	if d, ok := c.details[id]; ok {
		return d, nil
	}
	return nil, errors.New("details failed")
}

func (c *stubCatalog) ChannelVideos(_ context.Context, id string, _ int) ([]*core.Video, error) {
	if vs, ok := c.channels[id]; ok {
		return vs, nil
	}
	return nil, errors.New("channel failed")
}

func TestRelatedWalk(t *testing.T) {
	catalog := &stubCatalog{details: map[string]*core.VideoDetails{
		"w1": {Related: []*core.Video{{ID: "r1"}, {ID: "r2"}}},
		// w2 缺失：单个种子失败只丢掉该种子的贡献
		"w3": {Related: []*core.Video{{ID: "r3"}}},
	}}
	rctx := &core.RecommendContext{
		WatchHistory: []*core.Video{{ID: "w1"}, {ID: "w2"}, {ID: "w3"}},
	}

	// Rand 为 nil 时确定性地取最前面的种子
	r := &RelatedWalk{Catalog: catalog}
	items, err := r.Recall(context.Background(), rctx)
	if err != nil {
		t.Fatalf("Recall: %v", err)
	}

	got := itemIDs(items)
	want := []string{"r1", "r2", "r3"}
	if len(got) != len(want) {
		t.Fatalf("ids = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("ids = %v, want %v", got, want)
		}
	}
}

func TestRelatedWalkPerSeedCap(t *testing.T) {
	catalog := &stubCatalog{details: map[string]*core.VideoDetails{
		"w1": {Related: []*core.Video{{ID: "r1"}, {ID: "r2"}, {ID: "r3"}}},
	}}
	rctx := &core.RecommendContext{WatchHistory: []*core.Video{{ID: "w1"}}}

	r := &RelatedWalk{Catalog: catalog, PerSeedCap: 2}
	items, err := r.Recall(context.Background(), rctx)
	if err != nil {
		t.Fatalf("Recall: %v", err)
	}
	if len(items) != 2 {
		t.Errorf("len = %d, want 2", len(items))
	}
}

func TestRelatedWalkEmptyHistory(t *testing.T) {
	r := &RelatedWalk{Catalog: &stubCatalog{}}
	items, err := r.Recall(context.Background(), &core.RecommendContext{})
	if err != nil || len(items) != 0 {
		t.Errorf("empty history must yield empty set, got %v, %v", itemIDs(items), err)
	}
}

func TestInterestSearch(t *testing.T) {
	catalog := &stubCatalog{searches: map[string][]*core.Video{
		"guitar": {{ID: "g1"}, {ID: "g2"}},
		"piano":  {{ID: "p1"}},
	}}
	rctx := &core.RecommendContext{
		Profile: map[string]float64{"guitar": 5.0, "piano": 3.0, "drums": 1.0},
	}

	// TopK=2：按画像权重取 guitar/piano；drums 不检索
	r := &InterestSearch{Catalog: catalog, TopK: 2}
	items, err := r.Recall(context.Background(), rctx)
	if err != nil {
		t.Fatalf("Recall: %v", err)
	}

	got := itemIDs(items)
	want := []string{"g1", "g2", "p1"}
	if len(got) != len(want) {
		t.Fatalf("ids = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("ids = %v, want %v", got, want)
		}
	}
}

func TestInterestSearchEmptyProfile(t *testing.T) {
	r := &InterestSearch{Catalog: &stubCatalog{}}
	items, err := r.Recall(context.Background(), &core.RecommendContext{})
	if err != nil || len(items) != 0 {
		t.Errorf("empty profile must yield empty set, got %v, %v", itemIDs(items), err)
	}
}

func TestSubscriptionPull(t *testing.T) {
	catalog := &stubCatalog{channels: map[string][]*core.Video{
		"c1": {{ID: "u1"}, {ID: "u2"}},
		// c2 缺失：单个频道失败只丢掉该频道的贡献
		"c3": {{ID: "u3"}},
	}}
	rctx := &core.RecommendContext{
		Subscriptions: []*core.Channel{{ID: "c1"}, {ID: "c2"}, {ID: "c3"}},
	}

	r := &SubscriptionPull{Catalog: catalog}
	items, err := r.Recall(context.Background(), rctx)
	if err != nil {
		t.Fatalf("Recall: %v", err)
	}

	got := itemIDs(items)
	want := []string{"u1", "u2", "u3"}
	if len(got) != len(want) {
		t.Fatalf("ids = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("ids = %v, want %v", got, want)
		}
	}
}

func TestSampleIndexes(t *testing.T) {
	// nil rand：取前 k 个
	if got := sampleIndexes(nil, 5, 3); len(got) != 3 || got[0] != 0 || got[2] != 2 {
		t.Errorf("sampleIndexes(nil, 5, 3) = %v, want [0 1 2]", got)
	}
	// k > n 时收缩到 n
	if got := sampleIndexes(nil, 2, 5); len(got) != 2 {
		t.Errorf("sampleIndexes(nil, 2, 5) = %v, want len 2", got)
	}
	if got := sampleIndexes(nil, 0, 3); got != nil {
		t.Errorf("sampleIndexes(nil, 0, 3) = %v, want nil", got)
	}
}
