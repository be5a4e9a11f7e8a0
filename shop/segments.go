package shop

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rushteam/shopkit/core"
)

// StoreSegments 是基于 core.Store 的客群分层记录适配器，实现 core.SegmentStore。
//
// key 布局：{KeyPrefix}:segment:{userID}
//
// GetOrCreate 返回显式的 (segment, created) 结果：不存在即创建空记录，
// 调用方按 created 分支，而不是依赖异常式的存在性检查。
type StoreSegments struct {
	store core.Store

	// KeyPrefix 是存储 key 的前缀
	KeyPrefix string
}

// NewStoreSegments 创建一个基于 core.Store 的客群分层记录适配器。
func NewStoreSegments(s core.Store, keyPrefix string) *StoreSegments {
	if keyPrefix == "" {
		keyPrefix = "segments"
	}
	return &StoreSegments{store: s, KeyPrefix: keyPrefix}
}

func (a *StoreSegments) Name() string { return "store_segments" }

func (a *StoreSegments) GetOrCreate(ctx context.Context, userID string) (*core.CustomerSegment, bool, error) {
	data, err := a.store.Get(ctx, a.segmentKey(userID))
	if err == nil {
		var seg core.CustomerSegment
		if err := json.Unmarshal(data, &seg); err != nil {
			return nil, false, err
		}
		return &seg, false, nil
	}
	if !core.IsStoreNotFound(err) {
		return nil, false, err
	}

	seg := &core.CustomerSegment{
		UserID:    userID,
		Cluster:   -1, // 尚未分层
		UpdatedAt: time.Now(),
	}
	if err := a.Save(ctx, seg); err != nil {
		return nil, false, err
	}
	return seg, true, nil
}

func (a *StoreSegments) Save(ctx context.Context, seg *core.CustomerSegment) error {
	seg.UpdatedAt = time.Now()
	data, err := json.Marshal(seg)
	if err != nil {
		return err
	}
	return a.store.Set(ctx, a.segmentKey(seg.UserID), data)
}

func (a *StoreSegments) segmentKey(userID string) string {
	return a.KeyPrefix + ":segment:" + userID
}

// 确保实现 core.SegmentStore 接口
var _ core.SegmentStore = (*StoreSegments)(nil)
