package processing

import (
	"context"
	"fmt"
	"log/slog"

	"observation-processor/internal/model"
)

// 文档注释：顺序游标处理
// 背景：用于调试以及不支持按 id 区间随机读取的来源；单线程、结果确定。
// 约束：缓冲区满一批时检查取消再提交；游标耗尽后剩余记录提交一次。
func (r *Runner[V]) processSequential(ctx context.Context, taxa map[int]*model.Taxon, log *slog.Logger) (int, error) {
	// 游标与提交不随取消中断，取消只在批边界生效
	ioCtx := context.WithoutCancel(ctx)
	cur, err := r.store.Cursor(ioCtx)
	if err != nil {
		return 0, fmt.Errorf("opening cursor: %w", err)
	}
	defer cur.Close()

	total := 0
	var batch []*model.ProcessedObservation
	for cur.Next() {
		o := r.transform(cur.Record(), taxa)
		if o == nil {
			continue
		}
		batch = append(batch, o)
		if !r.IsBatchFull(len(batch)) {
			continue
		}
		if err := ctx.Err(); err != nil {
			return total, err
		}
		n, err := r.CommitBatch(ioCtx, batch)
		if err != nil {
			return total, err
		}
		total += n
		log.Debug("batch_committed", "count", n, "total", total)
		batch = nil
	}
	if err := cur.Err(); err != nil {
		return total, fmt.Errorf("reading cursor: %w", err)
	}
	if len(batch) > 0 {
		n, err := r.CommitBatch(ioCtx, batch)
		if err != nil {
			return total, err
		}
		total += n
	}
	return total, nil
}
