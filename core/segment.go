package core

import "time"

// CustomerSegment 是一个用户的客群分层记录：原始人口统计输入、
// 离线聚类模型给出的簇 ID 以及人类可读的标签。
// 仅在用户提交人口统计数据时创建/更新；在此之前不存在。
type CustomerSegment struct {
	UserID        string    `json:"user_id"`
	Cluster       int       `json:"cluster"`
	Label         string    `json:"label"`
	Age           float64   `json:"age"`
	AnnualIncome  float64   `json:"annual_income"`
	SpendingScore float64   `json:"spending_score"` // 1-100
	UpdatedAt     time.Time `json:"updated_at"`
}

// ClusterStats 是单个簇的描述性统计，在模型加载时一次性计算并常驻内存。
type ClusterStats struct {
	MeanIncome float64 `json:"mean_income"`
	MeanScore  float64 `json:"mean_score"`
	MeanAge    float64 `json:"mean_age"`
	Count      int     `json:"count"`
}

// ClusterStatistics 是全部簇的统计 + 两个总体均值（用于标签分档）。
type ClusterStatistics struct {
	Clusters          map[int]ClusterStats `json:"clusters"`
	OverallMeanIncome float64              `json:"overall_mean_income"`
	OverallMeanScore  float64              `json:"overall_mean_score"`
}
