package feast

import (
	"context"
	"encoding/json"
	"fmt"

	feastsdk "github.com/feast-dev/feast/sdk/go"
)

// GrpcClient 是基于官方 Feast Go SDK 的 gRPC 客户端实现。
//
// 负向关键词映射在特征存储中的落法：实体为 user_id，
// 特征 negative_keywords:weights 的值是 JSON 编码的 map[string]float64
// （全局映射时用约定的 "_global" 实体行）。
type GrpcClient struct {
	client *feastsdk.GrpcClient

	// Project 项目名称
	Project string
}

// NewGrpcClient 创建一个 Feast gRPC 客户端。port 为 0 时使用默认 6565。
func NewGrpcClient(host string, port int, project string) (*GrpcClient, error) {
	if port == 0 {
		port = 6565
	}
	client, err := feastsdk.NewGrpcClient(host, port)
	if err != nil {
		return nil, fmt.Errorf("feast grpc client: %w", err)
	}
	return &GrpcClient{client: client, Project: project}, nil
}

// NegativeKeywords 实现 Client 接口。
// 特征不存在、值为空、JSON 损坏都返回空映射，不报错。
func (c *GrpcClient) NegativeKeywords(ctx context.Context, userID string) (map[string]float64, error) {
	if userID == "" {
		userID = "_global"
	}

	req := &feastsdk.OnlineFeaturesRequest{
		Features: []string{FeatureRef},
		Entities: []feastsdk.Row{
			{EntityKey: feastsdk.StrVal(userID)},
		},
		Project: c.Project,
	}

	resp, err := c.client.GetOnlineFeatures(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("feast get online features: %w", err)
	}

	rows := resp.Rows()
	if len(rows) == 0 {
		return map[string]float64{}, nil
	}

	val, ok := rows[0][FeatureRef]
	if !ok || val == nil {
		return map[string]float64{}, nil
	}

	raw := val.GetStringVal()
	if raw == "" {
		return map[string]float64{}, nil
	}

	weights := make(map[string]float64)
	if err := json.Unmarshal([]byte(raw), &weights); err != nil {
		return map[string]float64{}, nil
	}
	return weights, nil
}

// Close 关闭底层 gRPC 连接。
func (c *GrpcClient) Close() error {
	return c.client.Close()
}

var _ Client = (*GrpcClient)(nil)
