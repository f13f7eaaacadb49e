package processing

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"observation-processor/internal/config"
	"observation-processor/internal/metrics"
	"observation-processor/internal/model"
	"observation-processor/internal/verbatim"
)

// IDRange：闭区间 [Start, End]
type IDRange struct {
	Start int64
	End   int64
}

// 文档注释：将 [minID, maxID] 划分为宽度为 width 的连续区间
// 约束：最后一个区间截断到 maxID；区间边界只由三个参数决定。
func Partition(minID, maxID int64, width int) []IDRange {
	if width <= 0 || maxID < minID {
		return nil
	}
	var out []IDRange
	for s := minID; s <= maxID; s += int64(width) {
		e := s + int64(width) - 1
		if e > maxID || e < s {
			e = maxID
		}
		out = append(out, IDRange{Start: s, End: e})
		if e == maxID {
			break
		}
	}
	return out
}

// 文档注释：并行区间处理
// 背景：全部区间一次性启动，由信号量（NoOfThreads 个许可）限制同时处理的区间数，许可无论成败都会归还。
// 约束：取消向上传播；其他区间错误按失败策略处理：best_effort 记录日志并计 0 条，fail_fast 取消其余区间并返回错误。
func (r *Runner[V]) processParallel(ctx context.Context, provider model.DataProvider, taxa map[int]*model.Taxon, log *slog.Logger) (int, error) {
	minID, maxID, err := r.store.IDSpan(ctx)
	if errors.Is(err, verbatim.ErrNoRecords) {
		log.Info("no_verbatim_records")
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("reading id span: %w", err)
	}
	ranges := Partition(minID, maxID, r.deps.Destination.BatchSize())
	threads := r.cfg.NoOfThreads
	if threads <= 0 {
		threads = 1
	}
	failFast := r.cfg.FailurePolicy == config.FailurePolicyFailFast
	log.Info("ranges_planned", "min_id", minID, "max_id", maxID, "ranges", len(ranges), "threads", threads)

	sem := semaphore.NewWeighted(int64(threads))
	g, gctx := errgroup.WithContext(ctx)
	var total atomic.Int64
	for _, rg := range ranges {
		rg := rg
		g.Go(func() error {
			if err := sem.Acquire(gctx, 1); err != nil {
				return err
			}
			defer sem.Release(1)
			n, err := r.processRange(gctx, rg, taxa)
			if err == nil {
				total.Add(int64(n))
				return nil
			}
			if isCancellation(err) {
				return err
			}
			metrics.RangeFailuresTotal.WithLabelValues(providerLabel(provider.ID)).Inc()
			log.Error("range_failed", "start", rg.Start, "end", rg.End, "err", err)
			if failFast {
				return fmt.Errorf("range %d-%d: %w", rg.Start, rg.End, err)
			}
			return nil
		})
	}
	err = g.Wait()
	return int(total.Load()), err
}

// 文档注释：读取、转换并提交一个区间
// 约束：只在进入区间时检查取消；已开始的区间用脱离取消的 ctx 读写，保证整段提交完成。panic 转为错误。
func (r *Runner[V]) processRange(ctx context.Context, rg IDRange, taxa map[int]*model.Taxon) (n int, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("panic in range %d-%d: %v", rg.Start, rg.End, p)
		}
	}()
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	ctx = context.WithoutCancel(ctx)
	records, err := r.store.Batch(ctx, rg.Start, rg.End)
	if err != nil {
		return 0, fmt.Errorf("fetching range %d-%d: %w", rg.Start, rg.End, err)
	}
	batch := make([]*model.ProcessedObservation, 0, len(records))
	for _, v := range records {
		if o := r.transform(v, taxa); o != nil {
			batch = append(batch, o)
		}
	}
	return r.CommitBatch(ctx, batch)
}
