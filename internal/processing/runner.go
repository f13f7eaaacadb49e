// 包 processing：提供方处理编排（删除旧数据 → 读取原始记录 → 转换/富化 → 分批写入）
package processing

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/google/uuid"

	"observation-processor/internal/config"
	"observation-processor/internal/destination"
	"observation-processor/internal/logger"
	"observation-processor/internal/metrics"
	"observation-processor/internal/model"
	"observation-processor/internal/verbatim"
)

// ObservationFactory：将一条原始记录转换为处理后观测；返回 nil 表示跳过该记录
type ObservationFactory[V any] interface {
	CreateProcessedObservation(v V, taxa map[int]*model.Taxon) *model.ProcessedObservation
}

// FactoryFunc 将普通函数适配为 ObservationFactory
type FactoryFunc[V any] func(v V, taxa map[int]*model.Taxon) *model.ProcessedObservation

func (f FactoryFunc[V]) CreateProcessedObservation(v V, taxa map[int]*model.Taxon) *model.ProcessedObservation {
	return f(v, taxa)
}

// Enricher：区域富化（由 areas.Engine 实现）
type Enricher interface {
	Enrich(obs *model.ProcessedObservation)
	AttachDisplayValues(obs *model.ProcessedObservation)
}

// VocabularyResolver：提交前补全词表值（由 vocabulary.Resolver 实现）
type VocabularyResolver interface {
	ResolveBatch(observations []*model.ProcessedObservation)
}

// Deps：运行依赖；Enricher 与 Resolver 可为空
type Deps struct {
	Destination destination.Repository
	Enricher    Enricher
	Resolver    VocabularyResolver
}

// Config：处理策略参数
type Config struct {
	Parallel      bool
	NoOfThreads   int
	FailurePolicy string
}

// ConfigFrom 从进程配置提取处理参数
func ConfigFrom(c config.ProcessingConfig) Config {
	return Config{Parallel: c.Parallel, NoOfThreads: c.NoOfThreads, FailurePolicy: c.FailurePolicy}
}

// 文档注释：单个提供方的处理运行器
// 背景：所有提供方共用同一套编排逻辑，差异只在原始记录类型 V、读取存储与观测工厂。
// 约束：工厂与富化器被并行分段共享，必须并发安全；运行器本身无状态，可重复调用 Process。
type Runner[V any] struct {
	store   verbatim.Store[V]
	factory ObservationFactory[V]
	deps    Deps
	cfg     Config
}

func NewRunner[V any](store verbatim.Store[V], factory ObservationFactory[V], deps Deps, cfg Config) *Runner[V] {
	return &Runner[V]{store: store, factory: factory, deps: deps, cfg: cfg}
}

// 文档注释：处理一个提供方的全部原始记录
// 背景：先删除该提供方已有的处理结果，失败立即判定 Failed 且不读取原始记录；随后按配置选择并行或顺序策略。
// 返回：Success 携带写入总数；运行上下文在结束前已取消则为 Cancelled（不论底层驱动以何种错误报告中断）；其他任何错误（含 panic）为 Failed。
func (r *Runner[V]) Process(ctx context.Context, provider model.DataProvider, taxa map[int]*model.Taxon) model.RunInfo {
	start := time.Now()
	runID := uuid.New()
	log := logger.ForProvider(provider.Identifier, provider.ID).With("run_id", runID.String())
	log.Info("process_start", "parallel", r.cfg.Parallel, "threads", r.cfg.NoOfThreads)

	count, err := r.run(ctx, provider, taxa, log)

	var info model.RunInfo
	switch {
	case err == nil:
		info = model.Succeeded(provider, start, time.Now(), count)
		log.Info("process_done", "count", count, "duration_ms", time.Since(start).Milliseconds())
	case isCancellation(err) || ctx.Err() != nil:
		info = model.Cancelled(provider, start, time.Now())
		log.Info("process_cancelled", "count", count)
	default:
		info = model.Failed(provider, start, time.Now())
		log.Error("process_failed", "err", err)
	}
	metrics.RunsTotal.WithLabelValues(providerLabel(provider.ID), info.Status.String()).Inc()
	return info.WithRunID(runID)
}

func (r *Runner[V]) run(ctx context.Context, provider model.DataProvider, taxa map[int]*model.Taxon, log *slog.Logger) (count int, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("panic: %v", p)
		}
	}()
	ok, err := r.deps.Destination.DeleteProviderData(ctx, provider.ID)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, errors.New("deleting provider data failed")
	}
	return r.processObservations(ctx, provider, taxa, log)
}

// processObservations 按配置选择并行或顺序策略，返回写入总数
func (r *Runner[V]) processObservations(ctx context.Context, provider model.DataProvider, taxa map[int]*model.Taxon, log *slog.Logger) (int, error) {
	if r.cfg.Parallel {
		return r.processParallel(ctx, provider, taxa, log)
	}
	return r.processSequential(ctx, taxa, log)
}

// 文档注释：提交一批观测
// 背景：先补全词表值与区域显示名称，再批量写入目标仓库。
// 返回：实际写入条数。
func (r *Runner[V]) CommitBatch(ctx context.Context, batch []*model.ProcessedObservation) (int, error) {
	if len(batch) == 0 {
		return 0, nil
	}
	start := time.Now()
	if r.deps.Resolver != nil {
		r.deps.Resolver.ResolveBatch(batch)
	}
	if r.deps.Enricher != nil {
		for _, o := range batch {
			r.deps.Enricher.AttachDisplayValues(o)
		}
	}
	n, err := r.deps.Destination.AddMany(ctx, batch)
	if err != nil {
		return 0, fmt.Errorf("committing batch of %d: %w", len(batch), err)
	}
	label := providerLabel(batch[0].DataProviderID)
	metrics.BatchCommitDurationMs.WithLabelValues(label).Observe(float64(time.Since(start).Milliseconds()))
	metrics.ProcessedObservationsTotal.WithLabelValues(label).Add(float64(n))
	return n, nil
}

// IsBatchFull：count 为批大小的正整数倍
func (r *Runner[V]) IsBatchFull(count int) bool {
	size := r.deps.Destination.BatchSize()
	return size > 0 && count > 0 && count%size == 0
}

// transform 转换并富化一条记录
func (r *Runner[V]) transform(v V, taxa map[int]*model.Taxon) *model.ProcessedObservation {
	o := r.factory.CreateProcessedObservation(v, taxa)
	if o != nil && r.deps.Enricher != nil {
		r.deps.Enricher.Enrich(o)
	}
	return o
}

func isCancellation(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

func providerLabel(id int) string { return strconv.Itoa(id) }
