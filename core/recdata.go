package core

import "context"

// CatalogStore 是商品目录的领域接口。
//
// 设计原则：
//   - 定义在领域层（core），由基础设施层（catalog）实现
//   - 推荐核心对目录只读；价格/库存的修改属于目录方
type CatalogStore interface {
	// Name 返回存储后端名称（用于日志/监控）
	Name() string

	// GetProduct 按 ID 获取商品，不存在时返回 ErrProductNotFound
	GetProduct(ctx context.Context, id string) (*Product, error)

	// ListActive 列出全部上架商品（相似度索引重建的输入）
	ListActive(ctx context.Context) ([]Product, error)
}

// InteractionStore 是用户-商品交互日志的领域接口。
//
// 实现必须保证 (user, product, kind) 的 upsert 不变量：
// 同类型的重复交互原地更新 weight/timestamp，不产生新行。
type InteractionStore interface {
	// Name 返回存储后端名称（用于日志/监控）
	Name() string

	// Record 写入/更新一条交互（upsert 语义）
	Record(ctx context.Context, in Interaction) error

	// RecentByUser 获取用户最近的交互，按时间倒序（最新在前）
	RecentByUser(ctx context.Context, userID string, limit int) ([]Interaction, error)

	// UserProducts 获取用户交互过的商品集合，value 为该商品上的最大交互权重
	UserProducts(ctx context.Context, userID string) (map[string]float64, error)

	// AllUsers 列出所有出现过交互的用户 ID。
	// 列表顺序即协同召回中同分邻居的决胜顺序，实现必须保持稳定（插入序）。
	AllUsers(ctx context.Context) ([]string, error)

	// CountByProduct 按商品统计交互总数（人气兜底的输入）
	CountByProduct(ctx context.Context) (map[string]int64, error)
}

// SimilarityStore 是预计算相似度边集的领域接口。
type SimilarityStore interface {
	// Name 返回存储后端名称（用于日志/监控）
	Name() string

	// ReplaceAll 原子地以 edges 整体替换现有边集（clear-then-rewrite）。
	// 读方在替换过程中只能看到旧快照或新快照，不会看到混合状态；
	// 替换失败时旧边集保持完整。
	ReplaceAll(ctx context.Context, edges []SimilarityEdge) error

	// NeighborsOf 获取源商品在 productIDs 内的全部出边
	NeighborsOf(ctx context.Context, productIDs []string) ([]SimilarityEdge, error)
}

// SegmentStore 是客群分层记录的领域接口。
//
// GetOrCreate 返回 (segment, created)：调用方可以据此确定性地分支，
// 而不是依赖“不存在即异常”的隐式判断。
type SegmentStore interface {
	// Name 返回存储后端名称（用于日志/监控）
	Name() string

	// GetOrCreate 获取用户的分层记录；不存在时创建空记录并返回 created=true
	GetOrCreate(ctx context.Context, userID string) (*CustomerSegment, bool, error)

	// Save 保存分层记录
	Save(ctx context.Context, seg *CustomerSegment) error
}
