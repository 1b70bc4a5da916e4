package profile

import (
	"math"
	"reflect"
	"testing"

	"github.com/rushteam/feedkit/core"
)

func TestBuilderSearchDecay(t *testing.T) {
	b := NewBuilder()
	prof := b.Build(nil, []string{"guitar", "piano"}, nil)

	// 第 0 条：3.0 * exp(0) = 3.0；第 1 条：3.0 * exp(-1/5)
	if got := prof["guitar"]; math.Abs(got-3.0) > 1e-9 {
		t.Errorf("guitar weight = %v, want 3.0", got)
	}
	want := 3.0 * math.Exp(-1.0/5)
	if got := prof["piano"]; math.Abs(got-want) > 1e-9 {
		t.Errorf("piano weight = %v, want %v", got, want)
	}
	if prof["guitar"] <= prof["piano"] {
		t.Errorf("recency decay violated: older search term outweighs newer")
	}
}

func TestBuilderWatchSignals(t *testing.T) {
	b := NewBuilder()
	prof := b.Build([]*core.Video{
		{
			ID:          "v1",
			Title:       "cooking tutorial",
			ChannelName: "kitchen channel",
			Description: "pasta recipe",
		},
	}, nil, nil)

	title := 2.0 // 2.0 * exp(0)
	if got := prof["cooking"]; math.Abs(got-title) > 1e-9 {
		t.Errorf("title keyword weight = %v, want %v", got, title)
	}
	if got := prof["kitchen"]; math.Abs(got-title*0.8) > 1e-9 {
		t.Errorf("channel keyword weight = %v, want %v", got, title*0.8)
	}
	if got := prof["pasta"]; math.Abs(got-title*0.5) > 1e-9 {
		t.Errorf("description keyword weight = %v, want %v", got, title*0.5)
	}
	// "channel" 与 "tutorial" 作为独立 token 保留
	if _, ok := prof["tutorial"]; !ok {
		t.Errorf("missing title keyword %q", "tutorial")
	}
}

func TestBuilderSubscriptionFlatWeight(t *testing.T) {
	b := NewBuilder()
	prof := b.Build(nil, nil, []*core.Channel{
		{ID: "c1", Name: "guitar lessons"},
		{ID: "c2", Name: "guitar world"},
	})

	// 订阅是固定权重，跨频道同词相加：1.5 + 1.5
	if got := prof["guitar"]; math.Abs(got-3.0) > 1e-9 {
		t.Errorf("guitar weight = %v, want 3.0", got)
	}
	if got := prof["lessons"]; math.Abs(got-1.5) > 1e-9 {
		t.Errorf("lessons weight = %v, want 1.5", got)
	}
}

func TestBuilderSignalsAccumulate(t *testing.T) {
	b := NewBuilder()
	prof := b.Build(
		[]*core.Video{{ID: "v1", Title: "guitar solo"}},
		[]string{"guitar"},
		[]*core.Channel{{ID: "c1", Name: "guitar lessons"}},
	)

	// 搜索 3.0 + 标题 2.0 + 订阅 1.5
	want := 3.0 + 2.0 + 1.5
	if got := prof["guitar"]; math.Abs(got-want) > 1e-9 {
		t.Errorf("accumulated weight = %v, want %v", got, want)
	}
}

func TestBuilderEmptyInputs(t *testing.T) {
	b := NewBuilder()
	prof := b.Build(nil, nil, nil)
	if len(prof) != 0 {
		t.Errorf("empty inputs must yield empty profile, got %v", prof)
	}
}

func TestTopKeywords(t *testing.T) {
	prof := map[string]float64{
		"alpha": 1.0,
		"beta":  5.0,
		"gamma": 3.0,
		"delta": 5.0,
	}

	got := TopKeywords(prof, 3)
	// 同分（beta/delta=5.0）按字典序，保证确定性
	want := []string{"beta", "delta", "gamma"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("TopKeywords = %v, want %v", got, want)
	}

	if got := TopKeywords(prof, 0); got != nil {
		t.Errorf("k=0 must yield nil, got %v", got)
	}
	if got := TopKeywords(nil, 3); got != nil {
		t.Errorf("empty profile must yield nil, got %v", got)
	}
}
