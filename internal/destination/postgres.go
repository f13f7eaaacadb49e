package destination

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/lib/pq"

	"observation-processor/internal/logger"
	"observation-processor/internal/model"
)

// 文档注释：Postgres 仓库
// 背景：processed_observations(provider_id, occurrence_id, document jsonb)；批量写入使用 COPY 协议，单批一个事务。
// 约束：nil 观测跳过且不计数。
type PGRepository struct {
	db        *sql.DB
	batchSize int
}

func NewPGRepository(db *sql.DB, batchSize int) *PGRepository {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	return &PGRepository{db: db, batchSize: batchSize}
}

func (r *PGRepository) BatchSize() int { return r.batchSize }

func (r *PGRepository) DeleteProviderData(ctx context.Context, providerID int) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM processed_observations WHERE provider_id=$1`, providerID)
	if err != nil {
		return false, fmt.Errorf("deleting provider %d data: %w", providerID, err)
	}
	n, _ := res.RowsAffected()
	logger.L().Info("provider_data_deleted", "provider_id", providerID, "rows", n)
	return true, nil
}

func (r *PGRepository) AddMany(ctx context.Context, observations []*model.ProcessedObservation) (int, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, pq.CopyIn("processed_observations", "provider_id", "occurrence_id", "document"))
	if err != nil {
		return 0, fmt.Errorf("preparing copy: %w", err)
	}
	count := 0
	for _, o := range observations {
		if o == nil {
			continue
		}
		doc, err := json.Marshal(o)
		if err != nil {
			stmt.Close()
			return 0, fmt.Errorf("encoding observation %s: %w", o.OccurrenceID, err)
		}
		if _, err := stmt.ExecContext(ctx, o.DataProviderID, o.OccurrenceID, string(doc)); err != nil {
			stmt.Close()
			return 0, fmt.Errorf("copying observation %s: %w", o.OccurrenceID, err)
		}
		count++
	}
	if _, err := stmt.ExecContext(ctx); err != nil {
		stmt.Close()
		return 0, fmt.Errorf("flushing copy: %w", err)
	}
	if err := stmt.Close(); err != nil {
		return 0, err
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing batch: %w", err)
	}
	return count, nil
}
