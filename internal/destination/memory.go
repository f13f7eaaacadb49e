package destination

import (
	"context"
	"sync"

	"observation-processor/internal/model"
)

// 文档注释：内存仓库
// 背景：用于测试与 --dry-run；记录每次批量写入的条数。
// 约束：DeleteFails 为 true 时 DeleteProviderData 返回 false；OnAddMany 在写入前调用，返回错误时本批不写入。
type MemRepository struct {
	mu          sync.Mutex
	batchSize   int
	docs        map[int][]*model.ProcessedObservation
	commits     []int
	deletes     []int
	DeleteFails bool
	OnAddMany   func(ctx context.Context, n int) error
}

func NewMemRepository(batchSize int) *MemRepository {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	return &MemRepository{batchSize: batchSize, docs: map[int][]*model.ProcessedObservation{}}
}

func (r *MemRepository) BatchSize() int { return r.batchSize }

func (r *MemRepository) DeleteProviderData(ctx context.Context, providerID int) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	if r.DeleteFails {
		return false, nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.docs, providerID)
	r.deletes = append(r.deletes, providerID)
	return true, nil
}

func (r *MemRepository) AddMany(ctx context.Context, observations []*model.ProcessedObservation) (int, error) {
	if r.OnAddMany != nil {
		if err := r.OnAddMany(ctx, len(observations)); err != nil {
			return 0, err
		}
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, o := range observations {
		if o == nil {
			continue
		}
		r.docs[o.DataProviderID] = append(r.docs[o.DataProviderID], o)
		n++
	}
	r.commits = append(r.commits, n)
	return n, nil
}

// Commits 返回每次 AddMany 写入的条数（按调用顺序）
func (r *MemRepository) Commits() []int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]int(nil), r.commits...)
}

// Deletes 返回已删除数据的提供方 id
func (r *MemRepository) Deletes() []int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]int(nil), r.deletes...)
}

// Observations 返回提供方当前保存的观测
func (r *MemRepository) Observations(providerID int) []*model.ProcessedObservation {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*model.ProcessedObservation(nil), r.docs[providerID]...)
}

// Count 返回提供方当前保存的观测数量
func (r *MemRepository) Count(providerID int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.docs[providerID])
}
