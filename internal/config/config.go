// 包 config：集中读取处理进程配置（YAML 文件 + OBSPROC_ 前缀环境变量），为各模块提供类型化参数
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const EnvPrefix = "OBSPROC"

// FailurePolicy 决定并行分段失败时的运行级处理
const (
	FailurePolicyBestEffort = "best_effort"
	FailurePolicyFailFast   = "fail_fast"
)

type Config struct {
	Log        LogConfig        `mapstructure:"log"`
	Postgres   PostgresConfig   `mapstructure:"postgres"`
	Redis      RedisConfig      `mapstructure:"redis"`
	Processing ProcessingConfig `mapstructure:"processing"`
	Areas      AreasConfig      `mapstructure:"areas"`
	Metrics    MetricsConfig    `mapstructure:"metrics"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// 文档注释：PostgreSQL 连接参数
// 背景：DSN 优先；为空时由 host/port/user/... 拼装，与既有 PG_* 约定一致。
type PostgresConfig struct {
	DSN          string `mapstructure:"dsn"`
	Host         string `mapstructure:"host"`
	Port         string `mapstructure:"port"`
	User         string `mapstructure:"user"`
	Password     string `mapstructure:"password"`
	DB           string `mapstructure:"db"`
	SSLMode      string `mapstructure:"sslmode"`
	MaxOpenConns int    `mapstructure:"max_open_conns"`
	MaxIdleConns int    `mapstructure:"max_idle_conns"`
}

// RedisConfig：Addr 为空表示关闭 Redis 缓存层
type RedisConfig struct {
	Addr     string        `mapstructure:"addr"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	TTL      time.Duration `mapstructure:"ttl"`
	Prefix   string        `mapstructure:"prefix"`
}

// 文档注释：处理编排参数
// 背景：Parallel=false 时使用顺序游标策略（调试/不支持范围读取的来源）；NoOfThreads 为并行分段信号量容量。
// 约束：BatchSize 同时决定目标库批量提交大小与并行分段宽度。
type ProcessingConfig struct {
	Parallel      bool             `mapstructure:"parallel"`
	NoOfThreads   int              `mapstructure:"no_of_threads"`
	BatchSize     int              `mapstructure:"batch_size"`
	FailurePolicy string           `mapstructure:"failure_policy"`
	Providers     []ProviderConfig `mapstructure:"providers"`
}

// ProviderConfig：Kind 选择观测工厂（dwc / artportalen）
type ProviderConfig struct {
	ID         int    `mapstructure:"id"`
	Identifier string `mapstructure:"identifier"`
	Name       string `mapstructure:"name"`
	Kind       string `mapstructure:"kind"`
}

type AreasConfig struct {
	CacheFile string `mapstructure:"cache_file"`
	PageSize  int    `mapstructure:"page_size"`
	RulesFile string `mapstructure:"rules_file"`
}

type MetricsConfig struct {
	Addr string `mapstructure:"addr"`
}

// SetDefaults 注册全部键的默认值；AutomaticEnv 只覆盖已知键，因此每个标量键都需要默认值
func SetDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("postgres.dsn", "")
	v.SetDefault("postgres.host", "localhost")
	v.SetDefault("postgres.port", "5432")
	v.SetDefault("postgres.user", "postgres")
	v.SetDefault("postgres.password", "")
	v.SetDefault("postgres.db", "observations")
	v.SetDefault("postgres.sslmode", "disable")
	v.SetDefault("postgres.max_open_conns", 50)
	v.SetDefault("postgres.max_idle_conns", 25)
	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.ttl", 24*time.Hour)
	v.SetDefault("redis.prefix", "obsproc:pos:")
	v.SetDefault("processing.parallel", true)
	v.SetDefault("processing.no_of_threads", 4)
	v.SetDefault("processing.batch_size", 100000)
	v.SetDefault("processing.failure_policy", FailurePolicyBestEffort)
	v.SetDefault("areas.cache_file", "data/areas/position-cache.json")
	v.SetDefault("areas.page_size", 1000)
	v.SetDefault("areas.rules_file", "")
	v.SetDefault("metrics.addr", "")
}

// 文档注释：加载配置
// 背景：file 非空时读取该 YAML 文件；否则按 ./observation-processor.yaml 查找，缺失不视为错误。
// 约束：环境变量以 OBSPROC_ 为前缀，键中的 "." 替换为 "_"（如 OBSPROC_PROCESSING_NO_OF_THREADS）。
func Load(v *viper.Viper, file string) (*Config, error) {
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", file, err)
		}
	} else {
		v.SetConfigName("observation-processor")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("reading config: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate 检查处理参数的取值范围
func (c *Config) Validate() error {
	p := c.Processing
	if p.NoOfThreads < 1 {
		return fmt.Errorf("processing.no_of_threads must be >= 1, got %d", p.NoOfThreads)
	}
	if p.BatchSize < 1 {
		return fmt.Errorf("processing.batch_size must be >= 1, got %d", p.BatchSize)
	}
	switch p.FailurePolicy {
	case FailurePolicyBestEffort, FailurePolicyFailFast:
	default:
		return fmt.Errorf("processing.failure_policy must be %q or %q, got %q", FailurePolicyBestEffort, FailurePolicyFailFast, p.FailurePolicy)
	}
	if c.Areas.PageSize < 1 {
		return fmt.Errorf("areas.page_size must be >= 1, got %d", c.Areas.PageSize)
	}
	seen := make(map[string]bool, len(p.Providers))
	for _, pc := range p.Providers {
		if pc.Identifier == "" {
			return fmt.Errorf("provider %d has no identifier", pc.ID)
		}
		if seen[pc.Identifier] {
			return fmt.Errorf("provider %q configured twice", pc.Identifier)
		}
		seen[pc.Identifier] = true
	}
	return nil
}
