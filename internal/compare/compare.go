package compare

import (
	"sort"

	"github.com/spf13/cast"

	"github.com/utrading/utrading-stock-backtest/internal/engine"
	"github.com/utrading/utrading-stock-backtest/internal/filter"
	"github.com/utrading/utrading-stock-backtest/internal/models"
	"github.com/utrading/utrading-stock-backtest/internal/strategy"
)

// SweepThresholds 多门槛对比的固定档位
var SweepThresholds = []int{60, 80, 100, 120, 150, 200}

// FormulaResult 一个公式在其门槛下的回测结果
type FormulaResult struct {
	Threshold int
	Trades    []strategy.Trade
	Stats     engine.Stats
	Curve     []engine.EquityPoint
}

// SweepRow 多门槛对比的一行
type SweepRow struct {
	Threshold int
	Old       engine.Stats
	New       engine.Stats
}

// Comparison 新旧评分公式对比结果
type Comparison struct {
	Variant   string
	Label     string
	StartDate string
	EndDate   string
	Coeffs    Coeffs

	// FilteredRecords 基础过滤后参与打分的记录数
	FilteredRecords int

	Old FormulaResult
	New FormulaResult

	// OldOnly 旧公式独有（被新公式淘汰），按旧分降序
	OldOnly []strategy.Trade
	// NewOnly 新公式独有（被新公式发掘），按新分降序
	NewOnly []strategy.Trade
	// BothCount 两个公式都选中的笔数
	BothCount int

	Sweep []SweepRow
}

// Run 在同一记录池上重算两个评分公式并对比。
// baseFilters 是不含 score 的基础过滤，先于打分应用；
// 两个门槛相互独立，一条记录可以只过其中一个公式的线。
func Run(src strategy.RecordSource, variant, startDate, endDate string,
	baseFilters filter.Config, oldThreshold, newThreshold int, coeffs Coeffs) (*Comparison, error) {

	v, err := strategy.Get(variant)
	if err != nil {
		return nil, err
	}

	records, err := src.Pool(variant, startDate, endDate)
	if err != nil {
		return nil, err
	}

	filtered := records[:0:0]
	for _, rec := range records {
		if filter.Apply(rec, baseFilters) {
			filtered = append(filtered, rec)
		}
	}

	oldTrades := buildTrades(filtered, oldThreshold, false, coeffs)
	newTrades := buildTrades(filtered, newThreshold, true, coeffs)

	cmp := &Comparison{
		Variant:         variant,
		Label:           v.Label,
		StartDate:       startDate,
		EndDate:         endDate,
		Coeffs:          coeffs,
		FilteredRecords: len(filtered),
		Old: FormulaResult{
			Threshold: oldThreshold,
			Trades:    oldTrades,
			Stats:     engine.ComputeStats(oldTrades),
			Curve:     engine.BuildEquityCurve(oldTrades),
		},
		New: FormulaResult{
			Threshold: newThreshold,
			Trades:    newTrades,
			Stats:     engine.ComputeStats(newTrades),
			Curve:     engine.BuildEquityCurve(newTrades),
		},
	}

	cmp.diff()

	for _, th := range SweepThresholds {
		ot := buildTrades(filtered, th, false, coeffs)
		nt := buildTrades(filtered, th, true, coeffs)
		cmp.Sweep = append(cmp.Sweep, SweepRow{
			Threshold: th,
			Old:       engine.ComputeStats(ot),
			New:       engine.ComputeStats(nt),
		})
	}

	return cmp, nil
}

// buildTrades 按门槛过滤记录，构建交易列表
func buildTrades(records []models.SignalRecord, threshold int, useNewScore bool, coeffs Coeffs) []strategy.Trade {
	trades := make([]strategy.Trade, 0, len(records))
	for _, rec := range records {
		lastzf, ok := rec.ClosingChange()
		if !ok {
			continue
		}

		oldScore, newScore, mins := Recalculate(rec, coeffs)
		score := oldScore
		if useNewScore {
			score = newScore
		}
		if score < threshold {
			continue
		}

		var bzf float64
		if v := rec.Attr(filter.AttrBzf); v.Defined && !v.Null {
			bzf = v.Num
		}

		data := rec.Snapshot()
		data["old_score"] = oldScore
		data["new_score"] = newScore
		data["mins"] = mins

		trades = append(trades, strategy.Trade{
			StockID:    rec.StockID(),
			StockName:  rec.StockName(),
			EntryDate:  rec.TradeDate(),
			ReturnPct:  strategy.Round4(lastzf - bzf),
			SignalData: data,
		})
	}
	return trades
}

type tradeKey struct {
	stockID   string
	entryDate string
}

// diff 计算两套交易集合的差异
func (c *Comparison) diff() {
	oldKeys := make(map[tradeKey]struct{}, len(c.Old.Trades))
	for _, t := range c.Old.Trades {
		oldKeys[tradeKey{t.StockID, t.EntryDate}] = struct{}{}
	}
	newKeys := make(map[tradeKey]struct{}, len(c.New.Trades))
	for _, t := range c.New.Trades {
		newKeys[tradeKey{t.StockID, t.EntryDate}] = struct{}{}
	}

	for _, t := range c.Old.Trades {
		if _, ok := newKeys[tradeKey{t.StockID, t.EntryDate}]; !ok {
			c.OldOnly = append(c.OldOnly, t)
		} else {
			c.BothCount++
		}
	}
	for _, t := range c.New.Trades {
		if _, ok := oldKeys[tradeKey{t.StockID, t.EntryDate}]; !ok {
			c.NewOnly = append(c.NewOnly, t)
		}
	}

	sortByScore(c.OldOnly, "old_score")
	sortByScore(c.NewOnly, "new_score")
}

// sortByScore 按各自公式的分数降序，便于看每个公式独有的头部案例
func sortByScore(trades []strategy.Trade, key string) {
	sort.SliceStable(trades, func(i, j int) bool {
		return cast.ToFloat64(trades[i].SignalData[key]) > cast.ToFloat64(trades[j].SignalData[key])
	})
}
