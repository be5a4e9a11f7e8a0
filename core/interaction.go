package core

import "time"

// InteractionKind 是用户-商品交互的类型。
// 权重反映意图强度：view < add_to_cart < purchase。
type InteractionKind string

const (
	InteractionView      InteractionKind = "view"
	InteractionAddToCart InteractionKind = "add_to_cart"
	InteractionPurchase  InteractionKind = "purchase"
)

// DefaultWeight 返回交互类型的默认权重。
func (k InteractionKind) DefaultWeight() float64 {
	switch k {
	case InteractionPurchase:
		return 1.0
	case InteractionAddToCart:
		return 0.5
	default:
		return 0.1
	}
}

// Interaction 是一条用户-商品交互记录。
//
// 不变量：每个 (user, product, kind) 至多一条记录——同类型的后续交互
// 原地更新 weight/timestamp，而不是追加新行。该不变量由 InteractionStore
// 的 Record（upsert 语义）保证。
//
// 写入路径是显式的：购物车/订单等写路径直接调用 Record，
// 推荐核心不依赖任何隐式事件派发。
type Interaction struct {
	UserID    string          `json:"user_id"`
	ProductID string          `json:"product_id"`
	Kind      InteractionKind `json:"kind"`
	Weight    float64         `json:"weight"` // (0, 1]
	CreatedAt time.Time       `json:"created_at"`
}

// NewInteraction 创建一条交互记录，权重取类型默认值，时间取当前时间。
func NewInteraction(userID, productID string, kind InteractionKind) Interaction {
	return Interaction{
		UserID:    userID,
		ProductID: productID,
		Kind:      kind,
		Weight:    kind.DefaultWeight(),
		CreatedAt: time.Now(),
	}
}
