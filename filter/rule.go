package filter

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/cel-go/cel"

	"github.com/rushteam/feedkit/core"
)

var (
	// celEnv 是全局的 CEL 环境，线程安全，可复用
	celEnv     *cel.Env
	celEnvOnce sync.Once
)

func getCELEnv() (*cel.Env, error) {
	var err error
	celEnvOnce.Do(func() {
		celEnv, err = cel.NewEnv(
			cel.Variable("video", cel.DynType),
			cel.Variable("label", cel.DynType),
		)
	})
	return celEnv, err
}

// Rule 是用户自定义排除规则过滤器，使用 CEL (Common Expression Language)
// 表达式描述，NG 关键词/NG 频道列表之外的补充排除手段。
//
// 表达式返回 true 表示候选被排除。可用变量：
//   - video: id / title / channel_id / channel_name / view_count /
//     published / duration / description 字段的 map
//   - label: 候选当前的 labels（value 字符串）
//
// 示例：
//   - `video.title.contains("広告")` → 排除标题含「広告」的候选
//   - `video.channel_name == "" && video.view_count == ""` → 排除元数据残缺的候选
//   - `label.recall_source == "recall.trending"` → 排除纯热门来源
//
// 表达式在构建时编译一次，Evaluate 阶段只执行。
type Rule struct {
	Expr string

	prg cel.Program
}

// NewRule 编译表达式并返回规则过滤器。表达式为空时规则永不命中。
func NewRule(expr string) (*Rule, error) {
	r := &Rule{Expr: expr}
	if expr == "" {
		return r, nil
	}

	env, err := getCELEnv()
	if err != nil {
		return nil, fmt.Errorf("cel env: %w", err)
	}
	ast, issues := env.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("compile rule %q: %w", expr, issues.Err())
	}
	prg, err := env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("program rule %q: %w", expr, err)
	}
	r.prg = prg
	return r, nil
}

func (f *Rule) Name() string { return "filter.rule" }

func (f *Rule) ShouldFilter(
	_ context.Context,
	_ *core.RecommendContext,
	item *core.Item,
) (bool, error) {
	if f.prg == nil || item == nil || item.Video == nil {
		return false, nil
	}

	out, _, err := f.prg.Eval(f.buildInput(item))
	if err != nil {
		// 表达式对该候选求值失败按不命中处理（例如访问不存在的 label key）
		return false, nil
	}
	result, ok := out.Value().(bool)
	if !ok {
		return false, fmt.Errorf("rule %q must return boolean, got %T", f.Expr, out.Value())
	}
	return result, nil
}

func (f *Rule) buildInput(item *core.Item) map[string]any {
	v := item.Video
	labels := make(map[string]string, len(item.Labels))
	for k, lbl := range item.Labels {
		labels[k] = lbl.Value
	}
	return map[string]any{
		"video": map[string]any{
			"id":           v.ID,
			"title":        v.Title,
			"channel_id":   v.ChannelID,
			"channel_name": v.ChannelName,
			"view_count":   v.ViewCount,
			"published":    v.Published,
			"duration":     v.Duration,
			"description":  v.Description,
		},
		"label": labels,
	}
}
