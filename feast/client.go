// Package feast 对接 Feast Feature Store，拉取外部系统学习维护的
// 负向关键词惩罚映射（关键词→分值）。引擎对这份映射只读：
// 过滤阶段累计惩罚超阈值即剔除候选（filter.Penalty）。
package feast

import "context"

// Client 是负向关键词特征的领域接口。
//
// 设计原则：
//   - 领域层定义接口，基础设施层（官方 SDK 的 gRPC 实现）实现接口
//   - 拉取失败按空映射降级：没有惩罚数据时引擎照常出 feed，
//     只是少了一道负向过滤，绝不把特征存储故障放大成排序失败
type Client interface {
	// NegativeKeywords 获取某用户生效的负向关键词惩罚映射。
	// 特征缺失时返回空映射而非错误。
	NegativeKeywords(ctx context.Context, userID string) (map[string]float64, error)

	// Close 关闭客户端连接
	Close() error
}

// FeatureRef 是负向关键词映射在 Feast 中的特征引用：
// 以 user_id 为实体，特征值是 JSON 编码的 map[string]float64。
const FeatureRef = "negative_keywords:weights"

// EntityKey 是实体字段名。
const EntityKey = "user_id"
