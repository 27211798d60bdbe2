package runner

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/utrading/utrading-stock-backtest/internal/dao"
	"github.com/utrading/utrading-stock-backtest/internal/engine"
	"github.com/utrading/utrading-stock-backtest/internal/filter"
	"github.com/utrading/utrading-stock-backtest/internal/models"
	"github.com/utrading/utrading-stock-backtest/internal/monitor"
	"github.com/utrading/utrading-stock-backtest/internal/notify"
	"github.com/utrading/utrading-stock-backtest/internal/strategy"
	"github.com/utrading/utrading-stock-backtest/pkg/logger"
)

// Runner 回测编排：生成交易、计算统计、落库、发事件
type Runner struct {
	src         strategy.RecordSource
	backtests   *dao.BacktestDAO
	publisher   *notify.Publisher
	gridWorkers int
}

// New 创建 Runner，publisher 可为禁用状态
func New(src strategy.RecordSource, backtests *dao.BacktestDAO, publisher *notify.Publisher, gridWorkers int) *Runner {
	if gridWorkers <= 0 {
		gridWorkers = 8
	}
	return &Runner{
		src:         src,
		backtests:   backtests,
		publisher:   publisher,
		gridWorkers: gridWorkers,
	}
}

// Result 一次回测的完整输出
type Result struct {
	Run    *models.BacktestRun
	Trades []strategy.Trade
	Stats  engine.Stats
}

// RunSingle 执行单次回测并打印报告，save 为 true 且有交易时落库
func (r *Runner) RunSingle(variant, startDate, endDate string, cfg filter.Config, save bool) (*Result, error) {
	v, err := strategy.Get(variant)
	if err != nil {
		return nil, err
	}

	started := time.Now()
	trades, err := strategy.GenerateTrades(r.src, variant, startDate, endDate, cfg)
	if err != nil {
		return nil, err
	}

	stats := engine.ComputeStats(trades)
	res := &Result{Trades: trades, Stats: stats}

	monitor.IncBacktestRun(variant)
	monitor.AddTradesGenerated(variant, len(trades))
	monitor.ObserveRunDuration(variant, time.Since(started))

	printHeader(v, startDate, endDate, cfg)
	printStats(stats)

	if save && len(trades) > 0 {
		run, err := r.backtests.Save(variant, startDate, endDate, cfg, trades)
		if err != nil {
			return nil, err
		}
		res.Run = run
		fmt.Printf("\n回测已保存，ID: %d\n", run.ID)

		r.publishCompleted(run)
	}

	return res, nil
}

// publishCompleted 发布回测完成事件，失败只记日志，不影响主流程
func (r *Runner) publishCompleted(run *models.BacktestRun) {
	if r.publisher == nil {
		return
	}

	err := r.publisher.PublishRunCompleted(&notify.RunCompleted{
		RunID:       run.ID,
		Strategy:    run.StrategyName,
		Label:       run.StrategyLabel,
		StartDate:   run.StartDate,
		EndDate:     run.EndDate,
		TotalTrades: run.TotalTrades,
		WinRate:     run.WinRate,
		TotalReturn: run.TotalReturn,
		Timestamp:   time.Now().Unix(),
	})
	if err != nil {
		logger.Warn().Err(err).Uint("run_id", run.ID).Msg("publish run completed failed")
	}
}

func printHeader(v strategy.Variant, startDate, endDate string, cfg filter.Config) {
	fmt.Printf("\n%s\n", strings.Repeat("=", 60))
	fmt.Printf("策略: %s (%s)\n", v.Label, v.Name)
	fmt.Printf("期间: %s ~ %s\n", startDate, endDate)
	if data, err := json.Marshal(cfg); err == nil {
		fmt.Printf("参数: %s\n", data)
	}
	fmt.Println(strings.Repeat("=", 60))
}

func printStats(stats engine.Stats) {
	fmt.Printf("交易数: %d\n", stats.TotalTrades)
	fmt.Printf("盈利数: %d\n", stats.WinTrades)
	fmt.Printf("胜  率: %.1f%%\n", stats.WinRate*100)
	fmt.Printf("平均收益: %.2f%%\n", stats.AvgReturn)
	fmt.Printf("累计收益: %.2f%%\n", stats.TotalReturn)
	fmt.Printf("最大回撤: %.2f%%\n", stats.MaxDrawdown)
	fmt.Printf("夏普比率: %.2f\n", stats.SharpeRatio)
	fmt.Printf("盈亏比: %.2f\n", stats.ProfitFactor)
}
