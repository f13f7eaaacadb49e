package vocabulary

import (
	"context"
	"database/sql"
	"fmt"

	"observation-processor/internal/model"
)

// 文档注释：Postgres 来源
// 背景：区域映射读取 area_field_mappings(area_type, external_id, area_id, display_value)；词表读取 vocabularies(field, value_id, value)。
// 约束：vocabularies 为空时回退到内置词表。
type PGSource struct {
	db *sql.DB
}

func NewPGSource(db *sql.DB) *PGSource { return &PGSource{db: db} }

func (s *PGSource) AreaMappings(ctx context.Context) (map[model.AreaType]map[string]string, error) {
	return s.areaDict(ctx, `SELECT area_type, external_id, area_id FROM area_field_mappings`)
}

func (s *PGSource) DisplayValues(ctx context.Context) (map[model.AreaType]map[string]string, error) {
	return s.areaDict(ctx, `SELECT DISTINCT area_type, area_id, display_value FROM area_field_mappings WHERE display_value <> ''`)
}

func (s *PGSource) areaDict(ctx context.Context, q string) (map[model.AreaType]map[string]string, error) {
	rows, err := s.db.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("querying area field mappings: %w", err)
	}
	defer rows.Close()
	out := map[model.AreaType]map[string]string{}
	for rows.Next() {
		var t, k, v string
		if err := rows.Scan(&t, &k, &v); err != nil {
			return nil, err
		}
		at := model.AreaType(t)
		if out[at] == nil {
			out[at] = map[string]string{}
		}
		out[at][k] = v
	}
	return out, rows.Err()
}

func (s *PGSource) FieldValues(ctx context.Context) (map[string]map[int]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT field, value_id, value FROM vocabularies`)
	if err != nil {
		return nil, fmt.Errorf("querying vocabularies: %w", err)
	}
	defer rows.Close()
	out := map[string]map[int]string{}
	for rows.Next() {
		var (
			field, value string
			id           int
		)
		if err := rows.Scan(&field, &id, &value); err != nil {
			return nil, err
		}
		if out[field] == nil {
			out[field] = map[int]string{}
		}
		out[field][id] = value
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return DefaultFieldValues(), nil
	}
	return out, nil
}
