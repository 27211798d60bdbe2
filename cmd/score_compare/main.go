// 评分公式对比CLI
//
// 用法:
//
//	score_compare mighty 20250101 20250217
//	score_compare mighty 20250101 20250217 --threshold=80
//	score_compare lianban 20250101 20250217 --old_threshold=100 --new_threshold=80
//	score_compare mighty 20250101 20250217 --w_chg=25 --w_bzf=8 --w_flow=0.08
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cast"

	"github.com/utrading/utrading-stock-backtest/config"
	"github.com/utrading/utrading-stock-backtest/internal/compare"
	"github.com/utrading/utrading-stock-backtest/internal/dal"
	"github.com/utrading/utrading-stock-backtest/internal/dao"
	"github.com/utrading/utrading-stock-backtest/internal/engine"
	"github.com/utrading/utrading-stock-backtest/internal/filter"
	"github.com/utrading/utrading-stock-backtest/internal/strategy"
	"github.com/utrading/utrading-stock-backtest/pkg/logger"
)

type cliArgs struct {
	strategy     string
	startDate    string
	endDate      string
	oldThreshold int
	newThreshold int
	coeffs       compare.Coeffs
}

// parseArgs 解析位置参数和 --key=value 覆盖参数，数值参数解析失败即报错
func parseArgs(args []string) (cliArgs, error) {
	params := map[string]string{}
	var positional []string

	for _, arg := range args {
		if strings.HasPrefix(arg, "--") {
			if key, val, ok := strings.Cut(arg[2:], "="); ok {
				params[key] = val
			}
			continue
		}
		positional = append(positional, arg)
	}

	out := cliArgs{
		strategy:     "mighty",
		oldThreshold: 100,
		newThreshold: 80,
		coeffs:       compare.DefaultCoeffs(),
	}
	if len(positional) > 0 {
		out.strategy = positional[0]
	}
	if len(positional) > 1 {
		out.startDate = positional[1]
	}
	if len(positional) > 2 {
		out.endDate = positional[2]
	}

	if v, ok := params["threshold"]; ok {
		n, err := cast.ToIntE(v)
		if err != nil {
			return out, fmt.Errorf("参数 threshold 不是有效数值: %s", v)
		}
		out.oldThreshold = n
		out.newThreshold = n
	}
	for key, dst := range map[string]*int{
		"old_threshold": &out.oldThreshold,
		"new_threshold": &out.newThreshold,
	} {
		v, ok := params[key]
		if !ok {
			continue
		}
		n, err := cast.ToIntE(v)
		if err != nil {
			return out, fmt.Errorf("参数 %s 不是有效数值: %s", key, v)
		}
		*dst = n
	}
	for key, dst := range map[string]*float64{
		"w_chg":  &out.coeffs.WChg,
		"w_bzf":  &out.coeffs.WBzf,
		"w_flow": &out.coeffs.WFlow,
		"w_main": &out.coeffs.WMain,
		"w_20cm": &out.coeffs.W20cm,
	} {
		v, ok := params[key]
		if !ok {
			continue
		}
		f, err := cast.ToFloat64E(v)
		if err != nil {
			return out, fmt.Errorf("参数 %s 不是有效数值: %s", key, v)
		}
		*dst = f
	}
	return out, nil
}

func usage() {
	fmt.Println("用法: score_compare [-config cfg.toml] <strategy> <start_date> <end_date> [--threshold=80] [--old_threshold=100] [--new_threshold=80] [--w_chg=20] [--w_bzf=10] [--w_flow=0.05] [--w_main=1.0] [--w_20cm=0.6]")
}

func main() {
	var configFile, driver string
	flag.StringVar(&configFile, "config", "", "config file path")
	flag.StringVar(&driver, "db", "", "database driver override: mysql/sqlite")
	flag.Parse()

	args, err := parseArgs(flag.Args())
	if err != nil {
		fmt.Println(err)
		usage()
		os.Exit(1)
	}

	if _, err := strategy.Get(args.strategy); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	if args.startDate == "" || args.endDate == "" {
		usage()
		os.Exit(1)
	}

	if err := config.Load(configFile); err != nil {
		panic("load config failed: " + err.Error())
	}
	cfg := config.Get()

	if err := logger.Setup(logger.Config{
		Level:      cfg.Logger.Level,
		File:       cfg.Logger.File,
		MaxSize:    cfg.Logger.MaxSize,
		MaxBackups: cfg.Logger.MaxBackups,
		MaxAge:     cfg.Logger.MaxAge,
		Compress:   cfg.Logger.Compress,
		Console:    cfg.Logger.Console,
	}); err != nil {
		panic("init logger failed: " + err.Error())
	}
	defer logger.Close()

	if driver == "" {
		driver = cfg.Backtest.Driver
	}
	switch driver {
	case "sqlite":
		dal.InitSqliteDB(cfg.SQLite)
	default:
		dal.InitMysqlDB(cfg.MySQL)
	}
	defer dal.Close()

	dao.InitDAO(dal.DB())

	// 基础过滤不含评分门槛，门槛由两套公式各自把关
	baseParams := filter.DefaultParams()
	delete(baseParams, "min_score")
	baseFilters := filter.FromParams(baseParams)

	cmp, err := compare.Run(dao.Signal(), args.strategy, args.startDate, args.endDate,
		baseFilters, args.oldThreshold, args.newThreshold, args.coeffs)
	if err != nil {
		logger.Fatal().Err(err).Msg("score compare failed")
	}

	printComparison(cmp)
}

func printComparison(cmp *compare.Comparison) {
	fmt.Printf("\n%s\n", strings.Repeat("=", 70))
	fmt.Printf("评分公式对比: %s (%s)\n", cmp.Label, cmp.Variant)
	fmt.Printf("期间: %s ~ %s\n", cmp.StartDate, cmp.EndDate)
	fmt.Printf("总记录数(过滤后): %d\n", cmp.FilteredRecords)
	fmt.Printf("旧公式门槛: %d  |  新公式门槛: %d\n", cmp.Old.Threshold, cmp.New.Threshold)
	fmt.Printf("新公式系数: w_chg=%v, w_bzf=%v, w_flow=%v, w_main=%v, w_20cm=%v\n",
		cmp.Coeffs.WChg, cmp.Coeffs.WBzf, cmp.Coeffs.WFlow, cmp.Coeffs.WMain, cmp.Coeffs.W20cm)
	fmt.Println(strings.Repeat("=", 70))

	fmt.Println("\n--- 统计对比 ---")
	printStats(fmt.Sprintf("旧公式(加法) 门槛=%d", cmp.Old.Threshold), cmp.Old.Stats)
	printStats(fmt.Sprintf("新公式(流速乘数) 门槛=%d", cmp.New.Threshold), cmp.New.Stats)

	fmt.Println("\n--- 差异分析 ---")
	fmt.Printf("  旧有新无: %d 笔\n", len(cmp.OldOnly))
	fmt.Printf("  新有旧无: %d 笔\n", len(cmp.NewOnly))
	fmt.Printf("  两者都有: %d 笔\n", cmp.BothCount)

	printDiffTop("旧有新无 TOP10 (被新公式淘汰)", cmp.OldOnly)
	printDiffTop("新有旧无 TOP10 (被新公式发掘)", cmp.NewOnly)

	fmt.Println("\n--- 多门槛对比 ---")
	fmt.Printf("  %6s | %10s %8s %8s | %10s %8s %8s\n",
		"门槛", "旧-交易数", "旧-胜率", "旧-累计", "新-交易数", "新-胜率", "新-累计")
	fmt.Printf("  %s\n", strings.Repeat("-", 80))
	for _, row := range cmp.Sweep {
		fmt.Printf("  %6d | %10d %7.1f%% %7.2f%% | %10d %7.1f%% %7.2f%%\n",
			row.Threshold,
			row.Old.TotalTrades, row.Old.WinRate*100, row.Old.TotalReturn,
			row.New.TotalTrades, row.New.WinRate*100, row.New.TotalReturn)
	}
}

func printStats(label string, stats engine.Stats) {
	fmt.Printf("\n  [%s]\n", label)
	fmt.Printf("  交易数: %d\n", stats.TotalTrades)
	fmt.Printf("  盈利数: %d\n", stats.WinTrades)
	fmt.Printf("  胜  率: %.1f%%\n", stats.WinRate*100)
	fmt.Printf("  平均收益: %.2f%%\n", stats.AvgReturn)
	fmt.Printf("  累计收益: %.2f%%\n", stats.TotalReturn)
	fmt.Printf("  最大回撤: %.2f%%\n", stats.MaxDrawdown)
	fmt.Printf("  夏普比率: %.2f\n", stats.SharpeRatio)
	fmt.Printf("  盈亏比: %.2f\n", stats.ProfitFactor)
}

func printDiffTop(title string, trades []strategy.Trade) {
	if len(trades) == 0 {
		return
	}
	fmt.Printf("\n--- %s ---\n", title)
	fmt.Printf("  %-10s %-12s %-8s %6s %6s %7s %7s %5s\n",
		"日期", "代码", "名称", "旧分", "新分", "收益%", "换手率", "mins")
	limit := len(trades)
	if limit > 10 {
		limit = 10
	}
	for _, t := range trades[:limit] {
		sd := t.SignalData
		fmt.Printf("  %-10s %-12s %-8s %6d %6d %7.2f %7.1f %5d\n",
			t.EntryDate, t.StockID, t.StockName,
			cast.ToInt(sd["old_score"]), cast.ToInt(sd["new_score"]),
			t.ReturnPct, cast.ToFloat64(sd["rates"]), cast.ToInt(sd["mins"]))
	}
}
