package logger

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"observation-processor/internal/metrics"
)

// codeRecorder 记下处理器写出的状态码；未显式写出时为 200
type codeRecorder struct {
	http.ResponseWriter
	code int
}

func (c *codeRecorder) WriteHeader(code int) {
	c.code = code
	c.ResponseWriter.WriteHeader(code)
}

// 文档注释：指标监听器的访问记录中间件
// 背景：处理进程只暴露 /metrics 与 /healthz，抓取频繁；每个请求按路径与状态码计入 obsproc_http_requests_total。
// 约束：成功的 /metrics 抓取只计数不记日志；其他请求以 debug 记录，状态码 >= 500 时以 warn 记录。
func AccessMiddleware(l *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rec := &codeRecorder{ResponseWriter: w, code: http.StatusOK}
			start := time.Now()
			next.ServeHTTP(rec, r)

			path := endpointLabel(r.URL.Path)
			metrics.HTTPRequestsTotal.WithLabelValues(path, strconv.Itoa(rec.code)).Inc()
			if path == "/metrics" && rec.code < http.StatusBadRequest {
				return
			}
			level := slog.LevelDebug
			if rec.code >= http.StatusInternalServerError {
				level = slog.LevelWarn
			}
			l.Log(r.Context(), level, "metrics_http_request",
				"path", r.URL.Path,
				"code", rec.code,
				"duration_ms", time.Since(start).Milliseconds(),
				"remote", r.RemoteAddr,
			)
		})
	}
}

// endpointLabel 把未知路径归为 "other"，避免标签基数随扫描请求增长
func endpointLabel(p string) string {
	switch p {
	case "/metrics", "/healthz":
		return p
	}
	return "other"
}
