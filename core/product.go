package core

import "strings"

// Product 是商品目录中的一条记录。
// 身份（ID）不可变；价格/库存等目录属性由目录方维护，推荐核心只读。
type Product struct {
	ID          string
	Name        string
	Description string
	Category    string
	Price       float64
	Stock       int
	Active      bool
	Tags        []string
}

// Document 返回用于内容相似度计算的文本文档：
// name + description + category + tags 拼接并统一小写。
func (p *Product) Document() string {
	parts := make([]string, 0, 4+len(p.Tags))
	parts = append(parts, p.Name, p.Description, p.Category)
	parts = append(parts, p.Tags...)
	return strings.ToLower(strings.Join(parts, " "))
}

// SimilarityEdge 是预计算相似度图中的一条有向边：ProductID -> SimilarID。
// 约束：无自环；每个有序对至多一条边；仅持久化 Score 高于阈值的边。
// A->B 与 B->A 独立存储。
type SimilarityEdge struct {
	ProductID string  `json:"product_id"`
	SimilarID string  `json:"similar_id"`
	Score     float64 `json:"score"`
}
