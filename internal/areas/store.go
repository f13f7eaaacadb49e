package areas

import (
	"context"
	"database/sql"
	"fmt"
	"sync/atomic"

	"observation-processor/internal/logger"
	"observation-processor/internal/model"
)

// 文档注释：区域多边形库（分页读取）
// 背景：按 id 升序分页返回要素；返回空页表示读取完毕。
type AreaStore interface {
	Page(ctx context.Context, skip, take int) ([]Feature, error)
}

// PGAreaStore 读取 areas 表；geometry 列为 GeoJSON 文本
type PGAreaStore struct {
	db *sql.DB
}

func NewPGAreaStore(db *sql.DB) *PGAreaStore { return &PGAreaStore{db: db} }

// 文档注释：读取一页要素
// 约束：几何无法解析的行仍按位置返回（Geometry 为 nil），保证偏移分页不错位；由引擎跳过。
func (s *PGAreaStore) Page(ctx context.Context, skip, take int) ([]Feature, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, parent_id, area_type, feature_id, name, geometry
FROM areas ORDER BY id LIMIT $1 OFFSET $2`, take, skip)
	if err != nil {
		return nil, fmt.Errorf("querying areas: %w", err)
	}
	defer rows.Close()
	var out []Feature
	for rows.Next() {
		var (
			f        Feature
			parentID sql.NullInt64
			areaType string
			geom     string
		)
		if err := rows.Scan(&f.ID, &parentID, &areaType, &f.FeatureID, &f.Name, &geom); err != nil {
			return nil, fmt.Errorf("scanning area row: %w", err)
		}
		f.ParentID = int(parentID.Int64)
		f.Type = model.AreaType(areaType)
		if g, err := DecodeGeometry([]byte(geom)); err != nil {
			logger.L().Warn("area_geometry_invalid", "id", f.ID, "err", err)
		} else {
			f.Geometry = g
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

// MemAreaStore：内存区域库，记录分页调用次数
type MemAreaStore struct {
	features []Feature
	pages    atomic.Int32
}

func NewMemAreaStore(fs ...Feature) *MemAreaStore {
	return &MemAreaStore{features: fs}
}

func (s *MemAreaStore) Page(ctx context.Context, skip, take int) ([]Feature, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.pages.Add(1)
	if skip >= len(s.features) {
		return nil, nil
	}
	end := skip + take
	if end > len(s.features) {
		end = len(s.features)
	}
	return append([]Feature(nil), s.features[skip:end]...), nil
}

// PageCalls 返回 Page 被调用的次数
func (s *MemAreaStore) PageCalls() int { return int(s.pages.Load()) }
