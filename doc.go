// Package feedkit 是一个个性化视频 feed 排序引擎。
//
// 设计要点：
// - Pipeline-first: 排序逻辑通过 Node 串联（Profile → Recall → Filter → Rank → ReRank → Mix）
// - Labels-first: labels 全链路透传与标准化 merge，支持 explain / 观测 / 策略驱动
// - 优雅降级: 单个召回源失败、展示字符串解析失败、全部来源为空，
//   都降级为空贡献/中性分数/空 feed，引擎内部没有致命错误类别
//
// 入口见 engine 包（MainFeed / ShortsFeed）。
package feedkit

import "github.com/rushteam/feedkit/pipeline"

// 轻量 facade：便于用户直接 import "feedkit" 使用核心抽象。
type Pipeline = pipeline.Pipeline
type Node = pipeline.Node
type Kind = pipeline.Kind

const (
	KindProfile = pipeline.KindProfile
	KindRecall  = pipeline.KindRecall
	KindFilter  = pipeline.KindFilter
	KindRank    = pipeline.KindRank
	KindReRank  = pipeline.KindReRank
	KindMix     = pipeline.KindMix
)
