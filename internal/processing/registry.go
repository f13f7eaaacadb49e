package processing

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"observation-processor/internal/model"
)

// Job：一个提供方的处理任务（Runner[V] 实现）
type Job interface {
	Process(ctx context.Context, provider model.DataProvider, taxa map[int]*model.Taxon) model.RunInfo
}

type registration struct {
	provider model.DataProvider
	job      Job
}

// 文档注释：提供方注册表
// 背景：按提供方标识查找处理任务；替代按提供方派生子类的方式。
// 约束：标识唯一，重复注册返回错误。
type Registry struct {
	mu   sync.RWMutex
	jobs map[string]registration
}

func NewRegistry() *Registry { return &Registry{jobs: map[string]registration{}} }

func (r *Registry) Register(provider model.DataProvider, job Job) error {
	if provider.Identifier == "" {
		return fmt.Errorf("provider %d has no identifier", provider.ID)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.jobs[provider.Identifier]; ok {
		return fmt.Errorf("provider %q already registered", provider.Identifier)
	}
	r.jobs[provider.Identifier] = registration{provider: provider, job: job}
	return nil
}

func (r *Registry) Lookup(identifier string) (model.DataProvider, Job, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	reg, ok := r.jobs[identifier]
	return reg.provider, reg.job, ok
}

// Providers 返回全部已注册提供方，按 id 升序
func (r *Registry) Providers() []model.DataProvider {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]model.DataProvider, 0, len(r.jobs))
	for _, reg := range r.jobs {
		out = append(out, reg.provider)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
