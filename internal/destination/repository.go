// 包 destination：处理后观测的写入端（按提供方删除、批量写入）
package destination

import (
	"context"

	"observation-processor/internal/model"
)

// DefaultBatchSize：单次批量写入的观测条数
const DefaultBatchSize = 100000

// 文档注释：处理后观测仓库
// 背景：一次提供方运行开始时先清空该提供方的旧数据，再按批写入。
// 约束：DeleteProviderData 返回 false 表示删除未成功（运行应判定失败）；AddMany 返回实际写入条数。
type Repository interface {
	BatchSize() int
	DeleteProviderData(ctx context.Context, providerID int) (bool, error)
	AddMany(ctx context.Context, observations []*model.ProcessedObservation) (int, error)
}
