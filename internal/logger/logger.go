// 包 logger：统一初始化与获取日志器，避免各模块重复配置；级别与格式来自配置，未配置时回退到环境变量
package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"sync/atomic"
)

// 默认日志器：在进程级复用，避免多处初始化导致输出不一致
var defaultLogger atomic.Pointer[slog.Logger]

// 文档注释：初始化默认日志器
// 背景：集中化日志配置，便于按环境统一调整级别与格式；处理运行在并行分段中共享同一日志器。
// 约束：level/format 为空时读取 LOG_LEVEL / LOG_FORMAT；输出目标固定为标准错误。
func Setup(level, format string) *slog.Logger {
	return SetupWriter(os.Stderr, level, format)
}

// SetupWriter 与 Setup 相同，但输出到 w（测试中用于捕获日志）
func SetupWriter(w io.Writer, level, format string) *slog.Logger {
	if level == "" {
		level = os.Getenv("LOG_LEVEL")
	}
	if format == "" {
		format = os.Getenv("LOG_FORMAT")
	}
	opts := &slog.HandlerOptions{Level: ParseLevel(level)}
	var h slog.Handler
	if strings.EqualFold(format, "json") {
		h = slog.NewJSONHandler(w, opts)
	} else {
		h = slog.NewTextHandler(w, opts)
	}
	l := slog.New(h)
	defaultLogger.Store(l)
	return l
}

// ParseLevel：未知取值回退到 info
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}

// L：获取默认日志器；若未初始化则回退到 Setup
func L() *slog.Logger {
	if l := defaultLogger.Load(); l != nil {
		return l
	}
	return Setup("", "")
}

// ForProvider 返回附带提供方上下文的日志器
func ForProvider(identifier string, id int) *slog.Logger {
	return L().With("provider", identifier, "provider_id", id)
}
