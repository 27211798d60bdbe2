// 回测CLI入口
//
// 用法:
//
//	backtest mighty 20250101 20250214
//	backtest lianban 20250101 20250214
//	backtest jjmighty 20250101 20250214
//	backtest mighty 20250101 20250214 --min_score=150
//	backtest mighty 20250101 20250214 --time_end=0935
//	backtest mighty 20250101 20250214 --min_bzf=3 --max_bzf=8
//	backtest mighty 20250101 20250214 --filters='{"min_score":{"enabled":true,"value":150}}'
//	backtest mighty 20250101 20250214 --grid
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cast"

	"github.com/utrading/utrading-stock-backtest/config"
	"github.com/utrading/utrading-stock-backtest/internal/cleaner"
	"github.com/utrading/utrading-stock-backtest/internal/dal"
	"github.com/utrading/utrading-stock-backtest/internal/dao"
	"github.com/utrading/utrading-stock-backtest/internal/filter"
	"github.com/utrading/utrading-stock-backtest/internal/monitor"
	"github.com/utrading/utrading-stock-backtest/internal/notify"
	"github.com/utrading/utrading-stock-backtest/internal/runner"
	"github.com/utrading/utrading-stock-backtest/internal/strategy"
	"github.com/utrading/utrading-stock-backtest/pkg/logger"
)

type cliArgs struct {
	strategy  string
	startDate string
	endDate   string
	params    map[string]any
	filters   string
	grid      bool
	nosave    bool
}

// parseArgs 解析位置参数和 --key=value 覆盖参数
func parseArgs(args []string) cliArgs {
	out := cliArgs{strategy: "mighty", params: map[string]any{}}
	var positional []string

	for _, arg := range args {
		if strings.HasPrefix(arg, "--") {
			body := arg[2:]
			if key, val, ok := strings.Cut(body, "="); ok {
				if key == "filters" {
					out.filters = val
				} else {
					out.params[key] = val
				}
				continue
			}
			switch body {
			case "grid":
				out.grid = true
			case "nosave":
				out.nosave = true
			}
			continue
		}
		positional = append(positional, arg)
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
	return out
}

func usage() {
	fmt.Println("用法: backtest [-config cfg.toml] <strategy> <start_date> <end_date> [--params] [--grid] [--nosave]")
	fmt.Printf("策略: %s\n", strings.Join(strategy.Names(), ", "))
}

func main() {
	var configFile, driver string
	flag.StringVar(&configFile, "config", "", "config file path")
	flag.StringVar(&driver, "db", "", "database driver override: mysql/sqlite")
	flag.Parse()

	args := parseArgs(flag.Args())

	if _, err := strategy.Get(args.strategy); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	if args.startDate == "" || args.endDate == "" {
		usage()
		os.Exit(1)
	}
	if err := validateParams(args.params); err != nil {
		fmt.Println(err)
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

	monitor.InitMetrics()
	if cfg.Backtest.MetricsAddr != "" {
		monitor.Serve(cfg.Backtest.MetricsAddr)
	}

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

	dal.AutoMigrate()
	dao.InitDAO(dal.DB())

	if err := cleaner.NewCleaner(dal.DB(), cfg.Backtest.RetentionDays).Run(); err != nil {
		logger.Warn().Err(err).Msg("clean expired backtest runs failed")
	}

	publisher, err := notify.NewPublisher(cfg.NATS.Endpoint)
	if err != nil {
		logger.Fatal().Err(err).Msg("init nats publisher failed")
	}
	defer publisher.Close()

	r := runner.New(dao.Signal(), dao.Backtest(), publisher, cfg.Backtest.GridWorkers)

	if args.grid {
		if err := r.RunGrid(args.strategy, args.startDate, args.endDate); err != nil {
			logger.Fatal().Err(err).Msg("grid search failed")
		}
		return
	}

	filterCfg, err := buildFilters(args)
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}

	if _, err := r.RunSingle(args.strategy, args.startDate, args.endDate, filterCfg, !args.nosave); err != nil {
		logger.Fatal().Err(err).Msg("backtest failed")
	}
}

// validateParams 数值过滤器的覆盖值必须可解析，时间过滤器必须是 4 位 HHMM
func validateParams(params map[string]any) error {
	for key, val := range params {
		rule, ok := filter.Registry[key]
		if !ok {
			continue
		}
		s := cast.ToString(val)
		if rule.Attr == filter.AttrTimes {
			if len(s) != 4 {
				return fmt.Errorf("参数 %s 需要 HHMM 格式: %s", key, s)
			}
			continue
		}
		if _, err := cast.ToFloat64E(val); err != nil {
			return fmt.Errorf("参数 %s 不是有效数值: %s", key, s)
		}
	}
	return nil
}

// buildFilters 合并默认参数、命令行覆盖和 --filters JSON
func buildFilters(args cliArgs) (filter.Config, error) {
	merged := filter.MergeParams(filter.DefaultParams(), args.params)
	cfg := filter.FromParams(merged)

	if args.filters != "" {
		jsonCfg, err := filter.FromJSON(args.filters)
		if err != nil {
			return nil, fmt.Errorf("解析 filters 失败: %w", err)
		}
		for key, opt := range jsonCfg {
			cfg[key] = opt
		}
	}
	return cfg, nil
}
