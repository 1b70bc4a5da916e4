package core

// Video 是从 Catalog Service 拉取到的视频元数据，一次排序过程中只读。
// 引擎只会对 Video 的引用做重排/丢弃，绝不修改字段。
//
// 注意：ViewCount / Published / Duration 是面向人类的展示字符串
// （例如 "123万 回視聴"、"3日前"、"12:34"），由上游抓取接口原样给出，
// 数值解析在 rank 包完成，解析失败按中性值降级而不是报错。
type Video struct {
	ID          string // 唯一且稳定的视频 ID
	Title       string
	ChannelID   string
	ChannelName string
	ViewCount   string // 展示用播放量字符串，非数值
	Published   string // 展示用发布时间字符串，例如 "3日前"
	Duration    string // 展示用时长字符串（可选）
	ISODuration string // ISO-8601 时长（可选），例如 "PT45S"
	Description string // 描述摘要（可选）
}

// Channel 是频道元数据。
type Channel struct {
	ID          string
	Name        string
	Avatar      string
	Subscribers string // 展示用订阅数字符串（可选）
}

// VideoDetails 是 CatalogService.VideoDetails 的返回结构：
// 视频本体加上它的相关视频列表（related-walk 召回的数据源）。
type VideoDetails struct {
	Video   *Video
	Related []*Video
}
