// Package shopkit 是一个电商推荐与客群分析工具包。
//
// 设计要点：
// - Pipeline-first: 推荐逻辑通过 Node 串联（Recall → Filter → ReRank → PostProcess）
// - 混合召回: 内容相似（预计算 TF-IDF 相似度图）+ 协同过滤 + 热度兜底
// - Labels-first: labels 全链路透传与标准化 merge，支持 explain / 观测 / 策略驱动
// - 客群分析: KMeans 聚类模型一次加载、全程复用，统计驱动的业务标签
package shopkit

import "github.com/rushteam/shopkit/pipeline"

// 轻量 facade：便于用户直接 import "shopkit" 使用核心抽象。
type Pipeline = pipeline.Pipeline
type Node = pipeline.Node
type Kind = pipeline.Kind

const (
	KindRecall      = pipeline.KindRecall
	KindFilter      = pipeline.KindFilter
	KindReRank      = pipeline.KindReRank
	KindPostProcess = pipeline.KindPostProcess
)
