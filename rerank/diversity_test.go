package rerank

import (
	"context"
	"testing"

	"github.com/rushteam/feedkit/core"
)

func chItem(id, channel string) *core.Item {
	return core.NewItem(&core.Video{ID: id, ChannelID: channel})
}

func ids(items []*core.Item) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.ID())
	}
	return out
}

func TestChannelDiversityCap(t *testing.T) {
	items := []*core.Item{
		chItem("a1", "cA"),
		chItem("a2", "cA"),
		chItem("b1", "cB"),
		chItem("a3", "cA"),
		chItem("a4", "cA"), // cA 第 4 条，超过上限
		chItem("b2", "cB"),
	}

	node := &ChannelDiversity{} // 零值取 DefaultChannelCap=3
	out, err := node.Process(context.Background(), nil, items)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}

	want := []string{"a1", "a2", "b1", "a3", "b2"}
	got := ids(out)
	if len(got) != len(want) {
		t.Fatalf("ids = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("ids = %v, want %v", got, want)
		}
	}
}

// 超限候选直接丢弃，不延后到列表尾部。
func TestChannelDiversityDropsNotDefers(t *testing.T) {
	items := []*core.Item{
		chItem("a1", "cA"),
		chItem("a2", "cA"),
		chItem("b1", "cB"),
	}

	node := &ChannelDiversity{Cap: 1}
	out, err := node.Process(context.Background(), nil, items)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	got := ids(out)
	if len(got) != 2 || got[0] != "a1" || got[1] != "b1" {
		t.Errorf("ids = %v, want [a1 b1]", got)
	}
}

// 缺频道信息的候选不受约束。
func TestChannelDiversityEmptyChannelExempt(t *testing.T) {
	items := []*core.Item{
		chItem("x1", ""),
		chItem("x2", ""),
		chItem("x3", ""),
	}

	node := &ChannelDiversity{Cap: 1}
	out, err := node.Process(context.Background(), nil, items)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if len(out) != 3 {
		t.Errorf("len = %d, want 3", len(out))
	}
}

func TestTopN(t *testing.T) {
	items := []*core.Item{chItem("a", "c"), chItem("b", "c"), chItem("c", "c")}

	node := &TopN{N: 2}
	out, err := node.Process(context.Background(), nil, items)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if len(out) != 2 || out[0].ID() != "a" {
		t.Errorf("ids = %v, want [a b]", ids(out))
	}

	// N<=0 或候选不足时不截断
	node = &TopN{}
	out, _ = node.Process(context.Background(), nil, items)
	if len(out) != 3 {
		t.Errorf("N=0 must not truncate, got %d", len(out))
	}
	node = &TopN{N: 10}
	out, _ = node.Process(context.Background(), nil, items)
	if len(out) != 3 {
		t.Errorf("short input must pass through, got %d", len(out))
	}
}
