package utils

import (
	"github.com/redis/go-redis/v9"

	"observation-processor/internal/config"
	"observation-processor/internal/logger"
)

// 文档注释：按配置打开 Redis 客户端
// 背景：Redis 仅作为坐标缓存的跨进程共享层，可选。
// 约束：未配置地址时返回 nil，调用方据此关闭该缓存层。
func OpenRedis(c config.RedisConfig) *redis.Client {
	if c.Addr == "" {
		return nil
	}
	db := c.DB
	if db < 0 {
		db = 0
	}
	logger.L().Debug("redis_config", "addr", c.Addr, "db", db)
	return redis.NewClient(&redis.Options{Addr: c.Addr, Password: c.Password, DB: db})
}
