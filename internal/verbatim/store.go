// 包 verbatim：原始观测（未处理记录）的读取接口与实现
package verbatim

import (
	"context"
	"errors"
)

// ErrNoRecords：提供方没有任何原始记录
var ErrNoRecords = errors.New("verbatim: no records")

// 文档注释：原始记录存储（按提供方）
// 背景：并行策略按 id 区间随机读取；顺序策略使用只进游标。
// 约束：IDSpan 在无记录时返回 ErrNoRecords；Batch 的区间为闭区间 [startID, endID]，结果按 id 升序。
type Store[V any] interface {
	IDSpan(ctx context.Context) (minID, maxID int64, err error)
	Batch(ctx context.Context, startID, endID int64) ([]V, error)
	Cursor(ctx context.Context) (Cursor[V], error)
}

// Cursor：只进游标，用法同 sql.Rows
type Cursor[V any] interface {
	Next() bool
	Record() V
	Err() error
	Close() error
}
