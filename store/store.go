package store

import "github.com/rushteam/shopkit/core"

// 注意：此包只包含实现，接口定义在 core 包。
// 使用 core.Store 和 core.KeyValueStore 接口。
//
// 示例：
//   var s core.Store = NewMemoryStore()
//   var kv core.KeyValueStore = NewMemoryStore()

// ErrNotFound 是 core.ErrStoreNotFound 的别名，便于包内/调用方使用。
var ErrNotFound = core.ErrStoreNotFound
