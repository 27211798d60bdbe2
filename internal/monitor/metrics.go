package monitor

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/utrading/utrading-stock-backtest/pkg/goplus"
	"github.com/utrading/utrading-stock-backtest/pkg/logger"
)

// Metrics 回测引擎指标
type Metrics struct {
	backtestRuns     *prometheus.CounterVec   // 完成的回测次数，按策略
	tradesGenerated  *prometheus.CounterVec   // 生成的交易笔数，按策略
	runDuration      *prometheus.HistogramVec // 单次回测耗时
	gridCombos       prometheus.Counter       // 网格搜索评估过的参数组合数
	strategyCacheHit *prometheus.CounterVec   // 策略配置缓存命中/未命中
}

var (
	metrics     *Metrics
	metricsOnce sync.Once
)

// GetMetrics 获取指标单例
func GetMetrics() *Metrics {
	metricsOnce.Do(func() {
		metrics = newMetrics()
	})
	return metrics
}

// InitMetrics 初始化并注册指标（应用启动时调用）
func InitMetrics() {
	GetMetrics()
}

func newMetrics() *Metrics {
	m := &Metrics{
		backtestRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "backtest_runs_total",
			Help: "Completed backtest runs by strategy",
		}, []string{"strategy"}),
		tradesGenerated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "backtest_trades_generated_total",
			Help: "Trades generated by strategy",
		}, []string{"strategy"}),
		runDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "backtest_run_duration_seconds",
			Help:    "Backtest run duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.01, 2, 12),
		}, []string{"strategy"}),
		gridCombos: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "backtest_grid_combos_total",
			Help: "Parameter combinations evaluated by grid search",
		}),
		strategyCacheHit: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "backtest_strategy_cache_total",
			Help: "Strategy config cache lookups by result",
		}, []string{"result"}),
	}

	prometheus.MustRegister(
		m.backtestRuns,
		m.tradesGenerated,
		m.runDuration,
		m.gridCombos,
		m.strategyCacheHit,
	)

	return m
}

// IncBacktestRun 增加回测完成计数
func IncBacktestRun(strategy string) {
	GetMetrics().backtestRuns.WithLabelValues(strategy).Inc()
}

// AddTradesGenerated 累计生成的交易笔数
func AddTradesGenerated(strategy string, n int) {
	GetMetrics().tradesGenerated.WithLabelValues(strategy).Add(float64(n))
}

// ObserveRunDuration 观察回测耗时
func ObserveRunDuration(strategy string, d time.Duration) {
	GetMetrics().runDuration.WithLabelValues(strategy).Observe(d.Seconds())
}

// IncGridCombo 增加网格组合计数
func IncGridCombo() {
	GetMetrics().gridCombos.Inc()
}

// IncStrategyCache 增加策略配置缓存查询计数，result 为 hit/miss
func IncStrategyCache(result string) {
	GetMetrics().strategyCacheHit.WithLabelValues(result).Inc()
}

// Serve 启动指标 HTTP 服务，addr 为空时不启动
func Serve(addr string) {
	if addr == "" {
		return
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	server := &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	goplus.Go(func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error().Err(err).Msg("metrics server error")
		}
	})

	logger.Info().Str("addr", addr).Msg("metrics server started")
}
