// Package feast 基于官方 Feast Go SDK 实现画像特征的在线获取，
// 作为 segment.DemographicsProvider 的基础设施层实现。
package feast

import (
	"context"
	"fmt"

	feastsdk "github.com/feast-dev/feast/sdk/go"
	feasttypes "github.com/feast-dev/feast/sdk/go/protos/feast/types"

	"github.com/rushteam/shopkit/segment"
)

// 默认特征引用，格式为 feature_table:feature。
const (
	FeatureAge           = "customer_profile:age"
	FeatureAnnualIncome  = "customer_profile:annual_income"
	FeatureSpendingScore = "customer_profile:spending_score"
)

// Client 通过 Feast Feature Server 的 gRPC 端口在线获取客户画像特征。
type Client struct {
	client  *feastsdk.GrpcClient
	project string

	// EntityKey 实体键名，默认 user_id
	EntityKey string
	// Features 特征引用，默认年龄/年收入/消费评分三项
	Features [3]string
}

var _ segment.DemographicsProvider = (*Client)(nil)

// NewClient 连接 Feast Feature Server。port 为 0 时使用默认 gRPC 端口 6565。
func NewClient(host string, port int, project string) (*Client, error) {
	if port == 0 {
		port = 6565
	}
	client, err := feastsdk.NewGrpcClient(host, port)
	if err != nil {
		return nil, fmt.Errorf("connect feast %s:%d: %w", host, port, err)
	}
	return &Client{
		client:    client,
		project:   project,
		EntityKey: "user_id",
		Features:  [3]string{FeatureAge, FeatureAnnualIncome, FeatureSpendingScore},
	}, nil
}

// Demographics 按用户 ID 获取聚类所需的三项画像特征（实现 segment.DemographicsProvider）。
// 任意一项缺失即视为画像不可用，由调用方决定降级策略。
func (c *Client) Demographics(ctx context.Context, userID string) (age, income, score float64, err error) {
	req := &feastsdk.OnlineFeaturesRequest{
		Features: c.Features[:],
		Entities: []feastsdk.Row{
			{c.EntityKey: feastsdk.StrVal(userID)},
		},
		Project: c.project,
	}
	resp, err := c.client.GetOnlineFeatures(ctx, req)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("feast online features: %w", err)
	}
	rows := resp.Rows()
	if len(rows) == 0 {
		return 0, 0, 0, fmt.Errorf("feast: no feature row for user %s", userID)
	}
	row := rows[0]

	vals := make([]float64, 3)
	for i, name := range c.Features {
		v, ok := floatVal(row[name])
		if !ok {
			return 0, 0, 0, fmt.Errorf("feast: feature %s missing for user %s", name, userID)
		}
		vals[i] = v
	}
	return vals[0], vals[1], vals[2], nil
}

// Close 释放客户端。底层 gRPC 连接由 SDK 管理。
func (c *Client) Close() error {
	c.client = nil
	return nil
}

// floatVal 把 Feast 的多种数值类型统一转换为 float64。
func floatVal(v *feasttypes.Value) (float64, bool) {
	if v == nil {
		return 0, false
	}
	switch val := v.Val.(type) {
	case *feasttypes.Value_DoubleVal:
		return val.DoubleVal, true
	case *feasttypes.Value_FloatVal:
		return float64(val.FloatVal), true
	case *feasttypes.Value_Int64Val:
		return float64(val.Int64Val), true
	case *feasttypes.Value_Int32Val:
		return float64(val.Int32Val), true
	default:
		return 0, false
	}
}
