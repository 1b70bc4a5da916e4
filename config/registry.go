package config

import (
	"fmt"
	"sort"
	"sync"

	"github.com/rushteam/feedkit/pipeline"
)

// NodeBuilder 与 pipeline.NodeBuilder 一致：根据 config 构建 Node。
// 内置 Node 由 Factory 注册；业务自定义 Node 通过 Register 挂入。
type NodeBuilder = pipeline.NodeBuilder

var (
	customBuilders   = make(map[string]NodeBuilder)
	customBuildersMu sync.RWMutex
)

// Register 注册一种自定义 Node 的构建逻辑，会被合并进 Factory 的注册表。
// 建议在业务包的 init 中调用。
func Register(typeName string, builder NodeBuilder) {
	if typeName == "" || builder == nil {
		return
	}
	customBuildersMu.Lock()
	defer customBuildersMu.Unlock()
	customBuilders[typeName] = builder
}

// SupportedTypes 返回内置 + 自定义的 Node 类型列表（排序），用于错误提示与校验。
func SupportedTypes() []string {
	set := make(map[string]struct{}, len(builtinTypes)+len(customBuilders))
	for _, t := range builtinTypes {
		set[t] = struct{}{}
	}
	customBuildersMu.RLock()
	for t := range customBuilders {
		set[t] = struct{}{}
	}
	customBuildersMu.RUnlock()

	types := make([]string, 0, len(set))
	for t := range set {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}

// ValidatePipelineConfig 校验 pipeline 配置中所有 node 类型均已注册；
// 若有未支持类型则返回包含已支持列表的错误。
func ValidatePipelineConfig(cfg *pipeline.Config) error {
	if cfg == nil {
		return nil
	}
	supported := SupportedTypes()
	known := make(map[string]struct{}, len(supported))
	for _, t := range supported {
		known[t] = struct{}{}
	}
	for _, nc := range cfg.Pipeline.Nodes {
		if nc.Type == "" {
			continue
		}
		if _, ok := known[nc.Type]; !ok {
			return fmt.Errorf("unsupported node type %q (supported: %v)", nc.Type, supported)
		}
	}
	return nil
}
