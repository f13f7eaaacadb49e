package areas

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"observation-processor/internal/logger"
	"observation-processor/internal/model"
)

// 文档注释：Redis 二级坐标桶缓存
// 背景：多个处理进程共享已解析的坐标桶；进程内缓存未命中时先查 Redis，再做空间查询。
// 约束：Redis 故障只记录日志并回退到空间查询，不影响解析结果；值为 PositionLocation 的 JSON。
type RedisTier struct {
	rc     *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedisTier 在 rc 为 nil 时返回 nil（未配置 Redis）
func NewRedisTier(rc *redis.Client, prefix string, ttl time.Duration) *RedisTier {
	if rc == nil {
		return nil
	}
	return &RedisTier{rc: rc, prefix: prefix, ttl: ttl}
}

func (t *RedisTier) Get(ctx context.Context, key string) (*model.PositionLocation, bool) {
	s, err := t.rc.Get(ctx, t.prefix+key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			logger.L().Debug("position_redis_get_error", "key", key, "err", err)
		}
		return nil, false
	}
	var pos model.PositionLocation
	if err := json.Unmarshal(s, &pos); err != nil {
		logger.L().Debug("position_redis_decode_error", "key", key, "err", err)
		return nil, false
	}
	return &pos, true
}

func (t *RedisTier) Set(ctx context.Context, key string, pos *model.PositionLocation) error {
	b, err := json.Marshal(pos)
	if err != nil {
		return err
	}
	return t.rc.Set(ctx, t.prefix+key, b, t.ttl).Err()
}
