package segment

import (
	"fmt"

	"github.com/rushteam/shopkit/core"
)

// bandRatio 是均值分档带宽：偏离全体均值 ±15% 以内算 Average。
const bandRatio = 0.15

// LabelFor 把簇编号翻译为业务标签。
// 依据簇内收入/消费均值相对全体均值的位置分为 High/Average/Low，
// 两维组合映射到固定的九种客群名称。统计缺失或簇未知时返回兜底标签。
func LabelFor(cluster int, stats *core.ClusterStatistics) string {
	if stats == nil {
		return unknownLabel(cluster)
	}
	cs, ok := stats.Clusters[cluster]
	if !ok {
		return unknownLabel(cluster)
	}
	income := bandOf(cs.MeanIncome, stats.OverallMeanIncome)
	spend := bandOf(cs.MeanScore, stats.OverallMeanScore)

	switch {
	case income == bandHigh && spend == bandHigh:
		return "Target Customer (High Income, High Spend)"
	case income == bandHigh && spend == bandLow:
		return "Careful Spender (High Income, Low Spend)"
	case income == bandLow && spend == bandHigh:
		return "Impulse Buyer (Low Income, High Spend)"
	case income == bandLow && spend == bandLow:
		return "Sensible Customer (Low Income, Low Spend)"
	case income == bandAvg && spend == bandAvg:
		return "Standard Customer (Average Income, Average Spend)"
	case income == bandAvg && spend == bandLow:
		return "Budget-Conscious Customer (Average Income, Low Spend)"
	case income == bandAvg && spend == bandHigh:
		return "Value Seeker (Average Income, High Spend)"
	case income == bandHigh && spend == bandAvg:
		return "Moderate Spender (High Income, Average Spend)"
	default: // low income, average spend
		return "Balanced Customer (Low Income, Average Spend)"
	}
}

func unknownLabel(cluster int) string {
	return fmt.Sprintf("Cluster %d (Unknown Segment)", cluster)
}

type band int

const (
	bandLow band = iota
	bandAvg
	bandHigh
)

// bandOf 按 ±15% 带宽把簇均值分档。全体均值为 0 时无法分档，归为 Average。
func bandOf(clusterMean, overallMean float64) band {
	if overallMean == 0 {
		return bandAvg
	}
	switch {
	case clusterMean > overallMean*(1+bandRatio):
		return bandHigh
	case clusterMean < overallMean*(1-bandRatio):
		return bandLow
	default:
		return bandAvg
	}
}
