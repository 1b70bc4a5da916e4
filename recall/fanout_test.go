package recall

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"github.com/rushteam/feedkit/core"
)

// fakeSource 是测试用召回源：固定返回一组 ID 或一个错误，可选延迟。
type fakeSource struct {
	name  string
	ids   []string
	err   error
	delay time.Duration
}

func (s *fakeSource) Name() string { return s.name }

func (s *fakeSource) Recall(ctx context.Context, _ *core.RecommendContext) ([]*core.Item, error) {
	if s.delay > 0 {
		select {
		case <-time.After(s.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if s.err != nil {
		return nil, s.err
	}
	out := make([]*core.Item, 0, len(s.ids))
	for _, id := range s.ids {
		out = append(out, core.NewItem(&core.Video{ID: id}))
	}
	return out, nil
}

func itemIDs(items []*core.Item) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.ID())
	}
	return out
}

// settle-all：失败的召回源贡献空集，兄弟召回源的结果完整保留。
func TestFanoutSettleAll(t *testing.T) {
	fanout := &Fanout{
		Sources: []Source{
			&fakeSource{name: "s1", ids: []string{"a", "b"}},
			&fakeSource{name: "s2", err: errors.New("upstream down")},
			&fakeSource{name: "s3", ids: []string{"c"}},
		},
	}

	out, err := fanout.Process(context.Background(), &core.RecommendContext{}, nil)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}

	got := itemIDs(out)
	sort.Strings(got)
	want := []string{"a", "b", "c"}
	for i := range want {
		if i >= len(got) || got[i] != want[i] {
			t.Fatalf("ids = %v, want %v", got, want)
		}
	}
	if len(got) != len(want) {
		t.Fatalf("ids = %v, want %v", got, want)
	}
}

func TestFanoutAllSourcesFail(t *testing.T) {
	fanout := &Fanout{
		Sources: []Source{
			&fakeSource{name: "s1", err: errors.New("down")},
			&fakeSource{name: "s2", err: errors.New("down")},
		},
	}
	out, err := fanout.Process(context.Background(), &core.RecommendContext{}, nil)
	if err != nil {
		t.Fatalf("all-fail must not error, got %v", err)
	}
	if len(out) != 0 {
		t.Errorf("all-fail must yield empty set, got %v", itemIDs(out))
	}
}

// 慢源超时后贡献空集，快源正常返回。
func TestFanoutSourceTimeout(t *testing.T) {
	fanout := &Fanout{
		Sources: []Source{
			&fakeSource{name: "slow", ids: []string{"x"}, delay: 200 * time.Millisecond},
			&fakeSource{name: "fast", ids: []string{"a"}},
		},
		Timeout: 20 * time.Millisecond,
	}

	start := time.Now()
	out, err := fanout.Process(context.Background(), &core.RecommendContext{}, nil)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if elapsed := time.Since(start); elapsed > 150*time.Millisecond {
		t.Errorf("fan-out took %v, timeout not applied", elapsed)
	}
	if len(out) != 1 || out[0].ID() != "a" {
		t.Errorf("ids = %v, want [a]", itemIDs(out))
	}
}

// 召回结果追加在已有 items 之后，串联的 Fanout 各自贡献一个 pool。
func TestFanoutAppendsAndLabelsPool(t *testing.T) {
	first := &Fanout{
		Sources: []Source{&fakeSource{name: "s1", ids: []string{"a"}}},
		Pool:    "personalized",
	}
	second := &Fanout{
		Sources: []Source{&fakeSource{name: "s2", ids: []string{"b"}}},
		Pool:    "trending",
	}

	rctx := &core.RecommendContext{}
	out, err := first.Process(context.Background(), rctx, nil)
	if err != nil {
		t.Fatalf("first Process: %v", err)
	}
	out, err = second.Process(context.Background(), rctx, out)
	if err != nil {
		t.Fatalf("second Process: %v", err)
	}

	if len(out) != 2 || out[0].ID() != "a" || out[1].ID() != "b" {
		t.Fatalf("ids = %v, want [a b]", itemIDs(out))
	}
	if lbl, ok := out[0].GetLabel("pool"); !ok || lbl.Value != "personalized" {
		t.Errorf("a pool label = %v, want personalized", lbl.Value)
	}
	if lbl, ok := out[1].GetLabel("pool"); !ok || lbl.Value != "trending" {
		t.Errorf("b pool label = %v, want trending", lbl.Value)
	}
	if lbl, ok := out[1].GetLabel("recall_source"); !ok || lbl.Value != "s2" {
		t.Errorf("b recall_source label = %v, want s2", lbl.Value)
	}
}

func TestFanoutDedup(t *testing.T) {
	fanout := &Fanout{
		Sources: []Source{
			&fakeSource{name: "s1", ids: []string{"a", "b"}},
		},
		Dedup:         true,
		MaxConcurrent: 1,
	}
	// MaxConcurrent=1 固定执行顺序，用跨源重复 ID 验证去重
	fanout.Sources = append(fanout.Sources, &fakeSource{name: "s2", ids: []string{"a", "c"}})

	out, err := fanout.Process(context.Background(), &core.RecommendContext{}, nil)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	got := itemIDs(out)
	if len(got) != 3 {
		t.Errorf("ids = %v, want 3 unique ids", got)
	}
}
