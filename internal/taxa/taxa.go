// 包 taxa：分类单元字典加载
package taxa

import (
	"context"
	"database/sql"
	"fmt"

	"observation-processor/internal/logger"
	"observation-processor/internal/model"
)

// 文档注释：读取全部分类单元，返回 id → Taxon 字典
// 背景：一个处理周期只加载一次，所有提供方共享；运行期间只读。
func Load(ctx context.Context, db *sql.DB) (map[int]*model.Taxon, error) {
	rows, err := db.QueryContext(ctx, `SELECT id, scientific_name, vernacular_name, taxon_rank FROM taxa`)
	if err != nil {
		return nil, fmt.Errorf("querying taxa: %w", err)
	}
	defer rows.Close()
	out := map[int]*model.Taxon{}
	for rows.Next() {
		var (
			t          model.Taxon
			vern, rank sql.NullString
		)
		if err := rows.Scan(&t.ID, &t.ScientificName, &vern, &rank); err != nil {
			return nil, fmt.Errorf("scanning taxon: %w", err)
		}
		t.VernacularName = vern.String
		t.TaxonRank = rank.String
		out[t.ID] = &t
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	logger.L().Info("taxa_loaded", "count", len(out))
	return out, nil
}
