package processing

import (
	"context"
	"fmt"

	"observation-processor/internal/logger"
	"observation-processor/internal/model"
)

// CachePersister：处理周期结束时持久化坐标缓存（由 areas.Engine 实现）
type CachePersister interface {
	PersistCache() error
}

// 文档注释：一个完整处理周期
// 背景：依次运行选定的提供方，收集各自的 RunInfo；全部结束后持久化一次坐标缓存。
// 约束：未知标识在运行任何提供方之前报错；单个提供方失败不影响后续提供方。
type Cycle struct {
	Registry *Registry
	Cache    CachePersister
}

// Run 运行 identifiers 指定的提供方；为空时运行全部已注册提供方
func (c *Cycle) Run(ctx context.Context, identifiers []string, taxa map[int]*model.Taxon) ([]model.RunInfo, error) {
	providers := c.Registry.Providers()
	if len(identifiers) > 0 {
		providers = providers[:0:0]
		for _, id := range identifiers {
			p, _, ok := c.Registry.Lookup(id)
			if !ok {
				return nil, fmt.Errorf("unknown provider %q", id)
			}
			providers = append(providers, p)
		}
	}

	runs := make([]model.RunInfo, 0, len(providers))
	for _, p := range providers {
		_, job, _ := c.Registry.Lookup(p.Identifier)
		runs = append(runs, job.Process(ctx, p, taxa))
	}
	for _, ri := range runs {
		logger.L().Info("run_summary",
			"provider", ri.DataProvider.Identifier,
			"status", ri.Status.String(),
			"count", ri.ProcessCount,
			"duration_ms", ri.Duration().Milliseconds())
	}
	if c.Cache != nil {
		if err := c.Cache.PersistCache(); err != nil {
			return runs, fmt.Errorf("persisting position cache: %w", err)
		}
	}
	return runs, nil
}
