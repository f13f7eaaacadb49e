package migrate

import (
	"context"
	"database/sql"
	"fmt"

	"observation-processor/internal/logger"
)

// 背景：首次运行自动创建处理所需的表与索引
// 约束：使用 IF NOT EXISTS 避免与既有结构冲突；仅创建最小必需结构
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS verbatim_observations (
            id BIGINT PRIMARY KEY,
            provider_id INT NOT NULL,
            payload JSONB NOT NULL
        )`,
		`CREATE INDEX IF NOT EXISTS idx_verbatim_provider_id ON verbatim_observations(provider_id, id)`,
		`CREATE TABLE IF NOT EXISTS processed_observations (
            provider_id INT NOT NULL,
            occurrence_id TEXT NOT NULL,
            document JSONB NOT NULL
        )`,
		`CREATE INDEX IF NOT EXISTS idx_processed_provider ON processed_observations(provider_id)`,
		`CREATE TABLE IF NOT EXISTS areas (
            id INT PRIMARY KEY,
            parent_id INT,
            area_type TEXT NOT NULL,
            feature_id TEXT NOT NULL,
            name TEXT NOT NULL DEFAULT '',
            geometry TEXT NOT NULL
        )`,
		`CREATE TABLE IF NOT EXISTS area_field_mappings (
            area_type TEXT NOT NULL,
            external_id TEXT NOT NULL,
            area_id TEXT NOT NULL,
            display_value TEXT NOT NULL DEFAULT '',
            PRIMARY KEY (area_type, external_id)
        )`,
		`CREATE TABLE IF NOT EXISTS vocabularies (
            field TEXT NOT NULL,
            value_id INT NOT NULL,
            value TEXT NOT NULL,
            PRIMARY KEY (field, value_id)
        )`,
		`CREATE TABLE IF NOT EXISTS taxa (
            id INT PRIMARY KEY,
            scientific_name TEXT NOT NULL,
            vernacular_name TEXT,
            taxon_rank TEXT
        )`,
	}
	for i, s := range stmts {
		logger.L().Debug("schema_exec", "idx", i)
		if _, err := db.ExecContext(ctx, s); err != nil {
			return fmt.Errorf("schema statement %d: %w", i, err)
		}
	}
	logger.L().Debug("schema_done")
	return nil
}
