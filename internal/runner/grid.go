package runner

import (
	"fmt"
	"sort"
	"strings"

	"github.com/panjf2000/ants/v2"

	"github.com/utrading/utrading-stock-backtest/internal/engine"
	"github.com/utrading/utrading-stock-backtest/internal/filter"
	"github.com/utrading/utrading-stock-backtest/internal/models"
	"github.com/utrading/utrading-stock-backtest/internal/monitor"
	"github.com/utrading/utrading-stock-backtest/internal/strategy"
	"github.com/utrading/utrading-stock-backtest/pkg/goplus"
	"github.com/utrading/utrading-stock-backtest/pkg/logger"
)

// gridResult 一个参数组合的回测结果
type gridResult struct {
	params map[string]any
	stats  engine.Stats
}

// memoSource 记录池缓存：网格搜索的每个组合都在同一批记录上过滤，
// 只查一次库，后续组合共享切片（只读）。
type memoSource struct {
	records []models.SignalRecord
}

func (s *memoSource) Pool(_, _, _ string) ([]models.SignalRecord, error) {
	return s.records, nil
}

// RunGrid 参数网格搜索。
// 各组合互不共享可变状态，放进协程池并行评估；
// 按(胜率, 平均收益)降序输出，并保存最优组合的完整回测。
func (r *Runner) RunGrid(variant, startDate, endDate string) error {
	v, err := strategy.Get(variant)
	if err != nil {
		return err
	}

	records, err := r.src.Pool(variant, startDate, endDate)
	if err != nil {
		return err
	}
	memo := &memoSource{records: records}

	combos := cartesian(strategy.GridRanges)

	pool, err := ants.NewPool(r.gridWorkers)
	if err != nil {
		return fmt.Errorf("create grid pool failed: %w", err)
	}
	defer pool.Release()

	results := make([]gridResult, len(combos))
	wg := goplus.NewWaitGroup()
	for i, combo := range combos {
		i, combo := i, combo
		wg.Add()
		submitErr := pool.Submit(func() {
			defer goplus.Recover()
			defer wg.Done()

			merged := filter.MergeParams(filter.DefaultParams(), combo)
			cfg := filter.FromParams(merged)

			trades, genErr := strategy.GenerateTrades(memo, variant, startDate, endDate, cfg)
			if genErr != nil {
				logger.Error().Err(genErr).Msg("grid combo failed")
				return
			}

			results[i] = gridResult{params: combo, stats: engine.ComputeStats(trades)}
			monitor.IncGridCombo()
		})
		if submitErr != nil {
			wg.Done()
			return fmt.Errorf("submit grid combo failed: %w", submitErr)
		}
	}
	wg.Wait()

	// 按胜率降序，再按平均收益降序
	sort.SliceStable(results, func(a, b int) bool {
		if results[a].stats.WinRate != results[b].stats.WinRate {
			return results[a].stats.WinRate > results[b].stats.WinRate
		}
		return results[a].stats.AvgReturn > results[b].stats.AvgReturn
	})

	printGridTable(v, startDate, endDate, results)

	// 保存最优结果
	if len(results) > 0 && results[0].stats.TotalTrades > 0 {
		best := filter.MergeParams(filter.DefaultParams(), results[0].params)
		bestCfg := filter.FromParams(best)
		bestTrades, err := strategy.GenerateTrades(memo, variant, startDate, endDate, bestCfg)
		if err != nil {
			return err
		}
		run, err := r.backtests.Save(variant, startDate, endDate, bestCfg, bestTrades)
		if err != nil {
			return err
		}
		fmt.Printf("\n最优参数回测已保存，ID: %d\n", run.ID)
		r.publishCompleted(run)
	}

	return nil
}

// cartesian 按 key 排序展开参数取值的笛卡尔积
func cartesian(ranges map[string][]any) []map[string]any {
	keys := make([]string, 0, len(ranges))
	for k := range ranges {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	combos := []map[string]any{{}}
	for _, key := range keys {
		next := make([]map[string]any, 0, len(combos)*len(ranges[key]))
		for _, combo := range combos {
			for _, val := range ranges[key] {
				c := make(map[string]any, len(combo)+1)
				for k, v := range combo {
					c[k] = v
				}
				c[key] = val
				next = append(next, c)
			}
		}
		combos = next
	}
	return combos
}

func printGridTable(v strategy.Variant, startDate, endDate string, results []gridResult) {
	fmt.Printf("\n%s\n", strings.Repeat("=", 100))
	fmt.Printf("网格搜索结果: %s (%s)  期间: %s ~ %s\n", v.Label, v.Name, startDate, endDate)
	fmt.Println(strings.Repeat("=", 100))
	fmt.Printf("%10s %9s %8s %8s %9s %6s %7s %8s %8s %7s %6s %7s\n",
		"min_score", "min_rate", "min_bzf", "max_bzf", "time_end",
		"交易数", "胜率", "平均收益", "累计收益", "回撤", "夏普", "盈亏比")
	fmt.Println(strings.Repeat("-", 100))

	for i, res := range results {
		if res.stats.TotalTrades == 0 {
			continue
		}
		marker := ""
		if i == 0 {
			marker = " <-- 最优"
		}
		fmt.Printf("%10v %9v %8v %8v %9v %6d %6.1f%% %7.2f%% %7.2f%% %6.2f%% %6.2f %6.2f%s\n",
			res.params["min_score"],
			res.params["min_rate"],
			res.params["min_bzf"],
			res.params["max_bzf"],
			res.params["time_end"],
			res.stats.TotalTrades,
			res.stats.WinRate*100,
			res.stats.AvgReturn,
			res.stats.TotalReturn,
			res.stats.MaxDrawdown,
			res.stats.SharpeRatio,
			res.stats.ProfitFactor,
			marker)
	}
}
