package verbatim

import (
	"context"
	"database/sql"
	"fmt"
)

// Decoder：将一行 payload 解析为原始记录
type Decoder[V any] func(id int64, payload []byte) (V, error)

// 文档注释：Postgres 原始记录存储
// 背景：读取 verbatim_observations(id, provider_id, payload jsonb)，按提供方过滤。
// 约束：解析失败视为读取失败并返回错误，由处理策略决定该区间的处理方式。
type PGStore[V any] struct {
	db         *sql.DB
	providerID int
	decode     Decoder[V]
}

func NewPGStore[V any](db *sql.DB, providerID int, decode Decoder[V]) *PGStore[V] {
	return &PGStore[V]{db: db, providerID: providerID, decode: decode}
}

func (s *PGStore[V]) IDSpan(ctx context.Context) (int64, int64, error) {
	var lo, hi sql.NullInt64
	row := s.db.QueryRowContext(ctx, `SELECT MIN(id), MAX(id) FROM verbatim_observations WHERE provider_id=$1`, s.providerID)
	if err := row.Scan(&lo, &hi); err != nil {
		return 0, 0, fmt.Errorf("reading id span: %w", err)
	}
	if !lo.Valid || !hi.Valid {
		return 0, 0, ErrNoRecords
	}
	return lo.Int64, hi.Int64, nil
}

func (s *PGStore[V]) Batch(ctx context.Context, startID, endID int64) ([]V, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, payload FROM verbatim_observations
WHERE provider_id=$1 AND id BETWEEN $2 AND $3 ORDER BY id`, s.providerID, startID, endID)
	if err != nil {
		return nil, fmt.Errorf("querying batch %d-%d: %w", startID, endID, err)
	}
	defer rows.Close()
	var out []V
	for rows.Next() {
		var (
			id      int64
			payload []byte
		)
		if err := rows.Scan(&id, &payload); err != nil {
			return nil, fmt.Errorf("scanning verbatim row: %w", err)
		}
		v, err := s.decode(id, payload)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

func (s *PGStore[V]) Cursor(ctx context.Context) (Cursor[V], error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, payload FROM verbatim_observations
WHERE provider_id=$1 ORDER BY id`, s.providerID)
	if err != nil {
		return nil, fmt.Errorf("opening verbatim cursor: %w", err)
	}
	return &pgCursor[V]{rows: rows, decode: s.decode}, nil
}

type pgCursor[V any] struct {
	rows   *sql.Rows
	decode Decoder[V]
	cur    V
	err    error
}

func (c *pgCursor[V]) Next() bool {
	if c.err != nil || !c.rows.Next() {
		return false
	}
	var (
		id      int64
		payload []byte
	)
	if err := c.rows.Scan(&id, &payload); err != nil {
		c.err = fmt.Errorf("scanning verbatim row: %w", err)
		return false
	}
	v, err := c.decode(id, payload)
	if err != nil {
		c.err = err
		return false
	}
	c.cur = v
	return true
}

func (c *pgCursor[V]) Record() V { return c.cur }

func (c *pgCursor[V]) Err() error {
	if c.err != nil {
		return c.err
	}
	return c.rows.Err()
}

func (c *pgCursor[V]) Close() error { return c.rows.Close() }
