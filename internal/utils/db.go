// 包 utils：PostgreSQL / Redis 连接工具，统一由配置构建连接并设置连接池
package utils

import (
	"database/sql"
	"net/url"

	_ "github.com/lib/pq"

	"observation-processor/internal/config"
	"observation-processor/internal/logger"
)

// BuildPostgresDSN：DSN 非空时原样返回，否则由分项参数拼装
func BuildPostgresDSN(c config.PostgresConfig) string {
	if c.DSN != "" {
		return c.DSN
	}
	u := url.URL{
		Scheme: "postgres",
		Host:   c.Host + ":" + c.Port,
		Path:   "/" + c.DB,
	}
	if c.Password != "" {
		u.User = url.UserPassword(c.User, c.Password)
	} else {
		u.User = url.User(c.User)
	}
	q := url.Values{}
	q.Set("sslmode", c.SSLMode)
	u.RawQuery = q.Encode()
	return u.String()
}

// 文档注释：打开 PostgreSQL 连接池
// 背景：并行分段同时读取原始库并写入目标库，连接池上限需不小于 2*NoOfThreads；默认 50/25。
func OpenPostgres(c config.PostgresConfig) (*sql.DB, error) {
	db, err := sql.Open("postgres", BuildPostgresDSN(c))
	if err != nil {
		return nil, err
	}
	maxOpen, maxIdle := c.MaxOpenConns, c.MaxIdleConns
	if maxOpen <= 0 {
		maxOpen = 50
	}
	if maxIdle <= 0 {
		maxIdle = 25
	}
	db.SetMaxOpenConns(maxOpen)
	db.SetMaxIdleConns(maxIdle)
	logger.L().Debug("pg_pool", "host", c.Host, "db", c.DB, "max_open", maxOpen, "max_idle", maxIdle)
	return db, nil
}
