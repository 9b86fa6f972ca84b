package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// API 指标
var (
	// APIRequestsTotal API 请求总数
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "genassist_api_requests_total",
			Help: "API 请求总数",
		},
		[]string{"method", "path", "status"},
	)

	// APIRequestDuration API 请求延迟（秒）
	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "genassist_api_request_duration_seconds",
			Help:    "API 请求延迟分布",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	// APIResponseSize API 响应体大小（字节）
	APIResponseSize = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "genassist_api_response_size_bytes",
			Help:    "API 响应体大小分布",
			Buckets: []float64{100, 1000, 10000, 100000, 1000000},
		},
		[]string{"method", "path"},
	)
)

// 意图分类指标
var (
	// ClassificationsTotal 分类次数，source 为 llm、fallback 或 cache
	ClassificationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "genassist_classifications_total",
			Help: "意图分类总数",
		},
		[]string{"source", "intent"},
	)

	// ClassificationDuration 分类耗时（秒）
	ClassificationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "genassist_classification_duration_seconds",
			Help:    "意图分类耗时分布",
			Buckets: []float64{0.001, 0.01, 0.1, 0.5, 1, 2, 5, 10},
		},
		[]string{"source"},
	)

	// LLMFallbacksTotal 模型调用失败转入本地规则的次数
	LLMFallbacksTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "genassist_llm_fallbacks_total",
			Help: "模型失败后使用本地规则的次数",
		},
		[]string{"reason"},
	)
)

// 工作流指标
var (
	// WorkflowsCreatedTotal 创建的工作流数
	WorkflowsCreatedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "genassist_workflows_created_total",
			Help: "创建的工作流总数",
		},
		[]string{"domain", "intent"},
	)

	// WorkflowsFinishedTotal 进入终态的工作流数，status 为 completed 或 failed
	WorkflowsFinishedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "genassist_workflows_finished_total",
			Help: "进入终态的工作流总数",
		},
		[]string{"status"},
	)

	// WorkflowDuration 从创建到终态的耗时（秒）
	WorkflowDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "genassist_workflow_duration_seconds",
			Help:    "工作流从创建到终态的耗时分布",
			Buckets: []float64{1, 2, 5, 10, 30, 60, 300},
		},
	)

	// WorkflowsActive 活跃工作流数量
	WorkflowsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "genassist_workflows_active",
			Help: "当前处于进行中的工作流数量",
		},
	)
)

// RecordClassification 记录一次分类
func RecordClassification(source, intent string, seconds float64) {
	ClassificationsTotal.WithLabelValues(source, intent).Inc()
	ClassificationDuration.WithLabelValues(source).Observe(seconds)
}

// RecordWorkflowCreated 记录工作流创建
func RecordWorkflowCreated(domain, intent string) {
	WorkflowsCreatedTotal.WithLabelValues(domain, intent).Inc()
	WorkflowsActive.Inc()
}

// RecordWorkflowFinished 记录工作流进入终态
func RecordWorkflowFinished(status string, seconds float64) {
	WorkflowsFinishedTotal.WithLabelValues(status).Inc()
	WorkflowDuration.Observe(seconds)
	WorkflowsActive.Dec()
}

// 实时动态推送指标
var (
	// ActivitySubscribers 当前 WebSocket 订阅连接数
	ActivitySubscribers = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "genassist_activity_subscribers",
			Help: "当前订阅实时动态的 WebSocket 连接数",
		},
	)

	// ActivityDroppedTotal 因订阅方缓冲区满而丢弃的消息数
	ActivityDroppedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "genassist_activity_dropped_total",
			Help: "订阅方处理过慢被丢弃的动态消息数",
		},
	)
)

// 进程内缓存指标
var (
	// CacheHitsTotal 缓存命中数
	CacheHitsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "genassist_cache_hits_total",
			Help: "进程内缓存命中总数",
		},
		[]string{"cache"},
	)

	// CacheMissesTotal 缓存未命中数
	CacheMissesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "genassist_cache_misses_total",
			Help: "进程内缓存未命中总数",
		},
		[]string{"cache"},
	)

	// CacheEvictionsTotal 容量淘汰数
	CacheEvictionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "genassist_cache_evictions_total",
			Help: "进程内缓存因容量淘汰的条目总数",
		},
		[]string{"cache"},
	)
)
