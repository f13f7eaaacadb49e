package verbatim

import (
	"context"
	"sort"
	"sync/atomic"
)

// 文档注释：内存原始记录存储
// 背景：用于测试与本地演练；记录按 id 排序保存。
// 约束：OnBatch 在每次 Batch 读取前调用，返回错误时该次读取失败（用于注入故障）。
type MemStore[V any] struct {
	ids     []int64
	records []V
	calls   atomic.Int64
	OnBatch func(ctx context.Context, startID, endID int64) error
}

func NewMemStore[V any](idOf func(V) int64, records ...V) *MemStore[V] {
	s := &MemStore[V]{records: append([]V(nil), records...)}
	sort.SliceStable(s.records, func(i, j int) bool { return idOf(s.records[i]) < idOf(s.records[j]) })
	s.ids = make([]int64, len(s.records))
	for i, r := range s.records {
		s.ids[i] = idOf(r)
	}
	return s
}

// Calls 返回所有读取方法被调用的总次数
func (s *MemStore[V]) Calls() int64 { return s.calls.Load() }

func (s *MemStore[V]) IDSpan(ctx context.Context) (int64, int64, error) {
	s.calls.Add(1)
	if err := ctx.Err(); err != nil {
		return 0, 0, err
	}
	if len(s.ids) == 0 {
		return 0, 0, ErrNoRecords
	}
	return s.ids[0], s.ids[len(s.ids)-1], nil
}

func (s *MemStore[V]) Batch(ctx context.Context, startID, endID int64) ([]V, error) {
	s.calls.Add(1)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.OnBatch != nil {
		if err := s.OnBatch(ctx, startID, endID); err != nil {
			return nil, err
		}
	}
	lo := sort.Search(len(s.ids), func(i int) bool { return s.ids[i] >= startID })
	hi := sort.Search(len(s.ids), func(i int) bool { return s.ids[i] > endID })
	return append([]V(nil), s.records[lo:hi]...), nil
}

func (s *MemStore[V]) Cursor(ctx context.Context) (Cursor[V], error) {
	s.calls.Add(1)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return &memCursor[V]{records: s.records, pos: -1}, nil
}

type memCursor[V any] struct {
	records []V
	pos     int
}

func (c *memCursor[V]) Next() bool {
	if c.pos+1 >= len(c.records) {
		c.pos = len(c.records)
		return false
	}
	c.pos++
	return true
}

func (c *memCursor[V]) Record() V    { return c.records[c.pos] }
func (c *memCursor[V]) Err() error   { return nil }
func (c *memCursor[V]) Close() error { return nil }
