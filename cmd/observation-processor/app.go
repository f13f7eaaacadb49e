package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"

	"observation-processor/internal/areas"
	"observation-processor/internal/logger"
	"observation-processor/internal/metrics"
	"observation-processor/internal/migrate"
	"observation-processor/internal/utils"
	"observation-processor/internal/vocabulary"
)

// app：子命令共享的外部连接
type app struct {
	db *sql.DB
	rc *redis.Client
}

func openApp(ctx context.Context) (*app, error) {
	db, err := utils.OpenPostgres(cfg.Postgres)
	if err != nil {
		return nil, fmt.Errorf("opening postgres: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("connecting postgres: %w", err)
	}
	if err := migrate.EnsureSchema(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("ensuring schema: %w", err)
	}
	rc := utils.OpenRedis(cfg.Redis)
	if rc != nil {
		if err := rc.Ping(ctx).Err(); err != nil {
			// Redis 只是二级缓存，不可用时降级为仅进程内缓存
			logger.L().Warn("redis_unavailable", "addr", cfg.Redis.Addr, "err", err)
			rc.Close()
			rc = nil
		}
	}
	return &app{db: db, rc: rc}, nil
}

func (a *app) Close() {
	if a.rc != nil {
		a.rc.Close()
	}
	a.db.Close()
}

// createEngine 构建区域富化引擎；配置了规则文件时替换内置特例规则
func (a *app) createEngine(ctx context.Context) (*areas.Engine, error) {
	var rules *areas.SpecialRules
	if cfg.Areas.RulesFile != "" {
		r, err := areas.LoadSpecialRules(cfg.Areas.RulesFile)
		if err != nil {
			return nil, err
		}
		rules = r
	}
	return areas.Create(ctx, areas.NewPGAreaStore(a.db), vocabulary.NewPGSource(a.db), areas.Options{
		CacheFile: cfg.Areas.CacheFile,
		PageSize:  cfg.Areas.PageSize,
		Rules:     rules,
		Redis:     areas.NewRedisTier(a.rc, cfg.Redis.Prefix, cfg.Redis.TTL),
	})
}

// serveMetrics 在配置了 metrics.addr 时暴露 /metrics 与 /healthz，ctx 结束时关闭
func serveMetrics(ctx context.Context) {
	if cfg.Metrics.Addr == "" {
		return
	}
	l := logger.L()
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	s := &http.Server{Addr: cfg.Metrics.Addr, Handler: logger.AccessMiddleware(l)(mux), ReadHeaderTimeout: 5 * time.Second}
	go func() {
		l.Info("metrics_listen", "addr", cfg.Metrics.Addr)
		if err := s.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			l.Error("metrics_server_error", "err", err)
		}
	}()
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.Shutdown(shutdownCtx)
	}()
}
