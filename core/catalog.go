package core

import "context"

// CatalogService 是外部视频目录服务的领域接口。
//
// 设计原则：
//   - 定义在领域层（core），由基础设施层实现（HTTP 抓取、官方 API、Mock 等）
//   - 四个方法都可能失败或返回空；调用方（recall 各召回源）必须把
//     两种情况都当作"零候选"处理，单个调用的失败绝不向上传播
//
// 使用场景：
//   - 兴趣检索召回：Search
//   - 热门/兜底召回：Recommended
//   - 相关视频游走召回：VideoDetails
//   - 订阅频道召回：ChannelVideos
type CatalogService interface {
	// Search 按关键词检索视频，page 从 0 开始
	Search(ctx context.Context, query string, page int) ([]*Video, error)

	// Recommended 获取全局推荐/热门列表
	Recommended(ctx context.Context) ([]*Video, error)

	// VideoDetails 获取视频详情（含相关视频列表）
	VideoDetails(ctx context.Context, videoID string) (*VideoDetails, error)

	// ChannelVideos 获取频道最近上传，page 从 0 开始
	ChannelVideos(ctx context.Context, channelID string, page int) ([]*Video, error)
}

// Catalog 错误定义（使用统一的 DomainError）
var (
	// ErrCatalogUnavailable 表示目录服务不可达
	ErrCatalogUnavailable = NewDomainError(ModuleCatalog, ErrorCodeUnavailable, "catalog: service unavailable")
)
