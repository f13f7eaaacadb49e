package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	ProcessedObservationsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "obsproc_processed_observations_total",
		Help: "Observations committed to the destination, by provider",
	}, []string{"provider"})
	RunsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "obsproc_runs_total",
		Help: "Provider processing runs by final status",
	}, []string{"provider", "status"})
	RangeFailuresTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "obsproc_range_failures_total",
		Help: "Parallel id ranges that failed and were skipped",
	}, []string{"provider"})
	BatchCommitDurationMs = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "obsproc_batch_commit_duration_ms",
		Help:    "Destination batch commit duration in milliseconds",
		Buckets: []float64{10, 50, 100, 250, 500, 1000, 2500, 5000, 10000, 30000},
	}, []string{"provider"})
	PositionCacheHitsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "obsproc_position_cache_hits_total",
		Help: "Coordinate resolutions served from the in-process cache",
	})
	PositionCacheMissesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "obsproc_position_cache_misses_total",
		Help: "Coordinate resolutions that required a spatial query",
	})
	PositionRedisHitsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "obsproc_position_redis_hits_total",
		Help: "Coordinate resolutions served from the shared redis tier",
	})
	HTTPRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "obsproc_http_requests_total",
		Help: "Requests to the metrics listener by endpoint and status code",
	}, []string{"path", "code"})
	AreaFeaturesLoaded = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "obsproc_area_features_loaded",
		Help: "Area polygons inserted into the spatial index",
	})
)

func init() {
	prometheus.MustRegister(ProcessedObservationsTotal)
	prometheus.MustRegister(RunsTotal)
	prometheus.MustRegister(RangeFailuresTotal)
	prometheus.MustRegister(BatchCommitDurationMs)
	prometheus.MustRegister(PositionCacheHitsTotal)
	prometheus.MustRegister(PositionCacheMissesTotal)
	prometheus.MustRegister(PositionRedisHitsTotal)
	prometheus.MustRegister(AreaFeaturesLoaded)
	prometheus.MustRegister(HTTPRequestsTotal)
}

// 文档注释：返回 Prometheus 指标监听器
// 背景：处理进程为批处理任务，指标端点仅在配置 metrics.addr 时由入口挂载。
func Handler() http.Handler { return promhttp.Handler() }
