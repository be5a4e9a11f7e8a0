package shop

import (
	"context"
	"encoding/json"
	"sort"
	"time"

	"github.com/rushteam/shopkit/core"
)

// PopularSetKey 是人气有序集合的 key 后缀。
// 当底层 Store 实现 core.KeyValueStore 时，交互写入会同步用 ZIncrBy
// 累积人气，供 recall.Popularity 的 ZRange 路径直接消费。
const PopularSetKey = ":popular"

// StoreInteractions 是基于 core.Store 的交互日志适配器，实现 core.InteractionStore。
//
// key 布局：
//
//	用户交互列表：{KeyPrefix}:user:{userID}（[]core.Interaction，按写入序）
//	用户 ID 列表：{KeyPrefix}:users（插入序，即同分邻居的决胜顺序）
//	商品交互计数：{KeyPrefix}:counts（map[productID]count）
//	人气有序集合：{KeyPrefix}:popular（仅 KeyValueStore 后端）
//
// Record 保证 (user, product, kind) 的 upsert 不变量：同类型的重复交互
// 原地更新 weight/timestamp，计数不重复累积。
type StoreInteractions struct {
	store core.Store

	// KeyPrefix 是存储 key 的前缀
	KeyPrefix string

	// now 便于测试注入时间
	now func() time.Time
}

// NewStoreInteractions 创建一个基于 core.Store 的交互日志适配器。
func NewStoreInteractions(s core.Store, keyPrefix string) *StoreInteractions {
	if keyPrefix == "" {
		keyPrefix = "interactions"
	}
	return &StoreInteractions{store: s, KeyPrefix: keyPrefix, now: time.Now}
}

func (a *StoreInteractions) Name() string { return "store_interactions" }

func (a *StoreInteractions) Record(ctx context.Context, in core.Interaction) error {
	if in.Weight <= 0 || in.Weight > 1 {
		in.Weight = in.Kind.DefaultWeight()
	}
	if in.CreatedAt.IsZero() {
		in.CreatedAt = a.now()
	}

	rows, err := a.userRows(ctx, in.UserID)
	if err != nil {
		return err
	}

	updated := false
	for i := range rows {
		if rows[i].ProductID == in.ProductID && rows[i].Kind == in.Kind {
			rows[i].Weight = in.Weight
			rows[i].CreatedAt = in.CreatedAt
			updated = true
			break
		}
	}
	if !updated {
		rows = append(rows, in)
	}

	data, err := json.Marshal(rows)
	if err != nil {
		return err
	}
	if err := a.store.Set(ctx, a.userKey(in.UserID), data); err != nil {
		return err
	}

	if err := a.appendUser(ctx, in.UserID); err != nil {
		return err
	}

	// 仅新行累积计数；upsert 更新不改变人气
	if !updated {
		if err := a.bumpCount(ctx, in.ProductID); err != nil {
			return err
		}
		if kv, ok := a.store.(core.KeyValueStore); ok {
			if err := kv.ZIncrBy(ctx, a.KeyPrefix+PopularSetKey, 1, in.ProductID); err != nil && !core.IsStoreNotSupported(err) {
				return err
			}
		}
	}
	return nil
}

func (a *StoreInteractions) RecentByUser(ctx context.Context, userID string, limit int) ([]core.Interaction, error) {
	rows, err := a.userRows(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}

	// 按时间倒序（最新在前），同时间保持写入序
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].CreatedAt.After(rows[j].CreatedAt)
	})
	if limit > 0 && len(rows) > limit {
		rows = rows[:limit]
	}
	return rows, nil
}

func (a *StoreInteractions) UserProducts(ctx context.Context, userID string) (map[string]float64, error) {
	rows, err := a.userRows(ctx, userID)
	if err != nil {
		return nil, err
	}

	out := make(map[string]float64, len(rows))
	for _, r := range rows {
		if r.Weight > out[r.ProductID] {
			out[r.ProductID] = r.Weight
		}
	}
	return out, nil
}

func (a *StoreInteractions) AllUsers(ctx context.Context) ([]string, error) {
	data, err := a.store.Get(ctx, a.KeyPrefix+":users")
	if err != nil {
		if core.IsStoreNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	var users []string
	if err := json.Unmarshal(data, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (a *StoreInteractions) CountByProduct(ctx context.Context) (map[string]int64, error) {
	data, err := a.store.Get(ctx, a.KeyPrefix+":counts")
	if err != nil {
		if core.IsStoreNotFound(err) {
			return make(map[string]int64), nil
		}
		return nil, err
	}
	var counts map[string]int64
	if err := json.Unmarshal(data, &counts); err != nil {
		return nil, err
	}
	return counts, nil
}

func (a *StoreInteractions) userRows(ctx context.Context, userID string) ([]core.Interaction, error) {
	data, err := a.store.Get(ctx, a.userKey(userID))
	if err != nil {
		if core.IsStoreNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	var rows []core.Interaction
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

func (a *StoreInteractions) userKey(userID string) string {
	return a.KeyPrefix + ":user:" + userID
}

func (a *StoreInteractions) appendUser(ctx context.Context, userID string) error {
	users, err := a.AllUsers(ctx)
	if err != nil {
		return err
	}
	for _, u := range users {
		if u == userID {
			return nil
		}
	}
	users = append(users, userID)
	data, err := json.Marshal(users)
	if err != nil {
		return err
	}
	return a.store.Set(ctx, a.KeyPrefix+":users", data)
}

func (a *StoreInteractions) bumpCount(ctx context.Context, productID string) error {
	counts, err := a.CountByProduct(ctx)
	if err != nil {
		return err
	}
	counts[productID]++
	data, err := json.Marshal(counts)
	if err != nil {
		return err
	}
	return a.store.Set(ctx, a.KeyPrefix+":counts", data)
}

// 确保实现 core.InteractionStore 接口
var _ core.InteractionStore = (*StoreInteractions)(nil)
