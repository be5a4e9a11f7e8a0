// Package shop 提供电商数据的存储适配器：商品目录、交互日志、
// 相似度边集与客群分层记录，全部基于 core.Store 接口实现，
// 可在 MemoryStore 与 RedisStore 之间自由切换。
package shop

import (
	"context"
	"encoding/json"

	"github.com/rushteam/shopkit/core"
)

// StoreCatalog 是基于 core.Store 的商品目录适配器，实现 core.CatalogStore。
//
// key 布局：
//
//	商品：{KeyPrefix}:product:{productID}
//	商品 ID 列表：{KeyPrefix}:products
type StoreCatalog struct {
	store core.Store

	// KeyPrefix 是存储 key 的前缀
	KeyPrefix string
}

// NewStoreCatalog 创建一个基于 core.Store 的商品目录适配器。
func NewStoreCatalog(s core.Store, keyPrefix string) *StoreCatalog {
	if keyPrefix == "" {
		keyPrefix = "catalog"
	}
	return &StoreCatalog{store: s, KeyPrefix: keyPrefix}
}

func (c *StoreCatalog) Name() string { return "store_catalog" }

// Put 写入/更新一个商品（目录方的写路径，推荐核心不调用）。
func (c *StoreCatalog) Put(ctx context.Context, p core.Product) error {
	data, err := json.Marshal(p)
	if err != nil {
		return err
	}
	if err := c.store.Set(ctx, c.productKey(p.ID), data); err != nil {
		return err
	}

	ids, err := c.productIDs(ctx)
	if err != nil {
		return err
	}
	for _, id := range ids {
		if id == p.ID {
			return nil
		}
	}
	ids = append(ids, p.ID)
	listData, err := json.Marshal(ids)
	if err != nil {
		return err
	}
	return c.store.Set(ctx, c.KeyPrefix+":products", listData)
}

func (c *StoreCatalog) GetProduct(ctx context.Context, id string) (*core.Product, error) {
	data, err := c.store.Get(ctx, c.productKey(id))
	if err != nil {
		if core.IsStoreNotFound(err) {
			return nil, core.ErrProductNotFound
		}
		return nil, err
	}

	var p core.Product
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *StoreCatalog) ListActive(ctx context.Context) ([]core.Product, error) {
	ids, err := c.productIDs(ctx)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, nil
	}

	keys := make([]string, 0, len(ids))
	for _, id := range ids {
		keys = append(keys, c.productKey(id))
	}
	values, err := c.store.BatchGet(ctx, keys)
	if err != nil {
		return nil, err
	}

	// 按 ID 列表顺序返回，保证确定性
	out := make([]core.Product, 0, len(ids))
	for _, id := range ids {
		data, ok := values[c.productKey(id)]
		if !ok {
			continue
		}
		var p core.Product
		if err := json.Unmarshal(data, &p); err != nil {
			return nil, err
		}
		if p.Active {
			out = append(out, p)
		}
	}
	return out, nil
}

func (c *StoreCatalog) productKey(id string) string {
	return c.KeyPrefix + ":product:" + id
}

func (c *StoreCatalog) productIDs(ctx context.Context) ([]string, error) {
	data, err := c.store.Get(ctx, c.KeyPrefix+":products")
	if err != nil {
		if core.IsStoreNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	var ids []string
	if err := json.Unmarshal(data, &ids); err != nil {
		return nil, err
	}
	return ids, nil
}

// 确保实现 core.CatalogStore 接口
var _ core.CatalogStore = (*StoreCatalog)(nil)
