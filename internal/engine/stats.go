package engine

import (
	"math"
	"sort"

	"github.com/utrading/utrading-stock-backtest/internal/strategy"
)

// Stats 回测统计指标。
// 胜率/平均收益/夏普基于逐笔收益；累计收益/回撤基于按日聚合的复利曲线。
type Stats struct {
	TotalTrades  int     `json:"total_trades"`
	WinTrades    int     `json:"win_trades"`
	WinRate      float64 `json:"win_rate"`
	AvgReturn    float64 `json:"avg_return"`
	TotalReturn  float64 `json:"total_return"`
	MaxDrawdown  float64 `json:"max_drawdown"`
	SharpeRatio  float64 `json:"sharpe_ratio"`
	ProfitFactor float64 `json:"profit_factor"`
}

// tradingDays 年化交易日数
const tradingDays = 252

// ComputeStats 计算回测统计指标，空交易列表返回全零。
// 结果与输入顺序无关。
func ComputeStats(trades []strategy.Trade) Stats {
	if len(trades) == 0 {
		return Stats{}
	}

	total := len(trades)
	var wins int
	var sum float64
	for _, t := range trades {
		if t.ReturnPct > 0 {
			wins++
		}
		sum += t.ReturnPct
	}
	avgRet := sum / float64(total)

	// 同日多笔取均值后按日复利，避免多笔同日入选放大当日权重
	equity := 1.0
	peak := 1.0
	maxDD := 0.0
	for _, d := range dailyReturns(trades) {
		equity *= 1 + d.Ret/100
		if equity > peak {
			peak = equity
		}
		if dd := (peak - equity) / peak; dd > maxDD {
			maxDD = dd
		}
	}
	totalReturn := (equity - 1) * 100

	// 夏普用逐笔收益的样本标准差，刻意不用按日聚合序列
	sharpe := 0.0
	if total > 1 {
		var sq float64
		for _, t := range trades {
			d := t.ReturnPct - avgRet
			sq += d * d
		}
		std := math.Sqrt(sq / float64(total-1))
		if std > 0 {
			sharpe = avgRet / std * math.Sqrt(tradingDays)
		}
	}

	// 盈亏比 = 平均盈利 / |平均亏损|，无亏损时为 0（避免除零）
	var winSum, lossSum float64
	var winN, lossN int
	for _, t := range trades {
		if t.ReturnPct > 0 {
			winSum += t.ReturnPct
			winN++
		} else if t.ReturnPct < 0 {
			lossSum += t.ReturnPct
			lossN++
		}
	}
	profitFactor := 0.0
	if lossN > 0 {
		avgLoss := math.Abs(lossSum / float64(lossN))
		if avgLoss > 0 && winN > 0 {
			profitFactor = (winSum / float64(winN)) / avgLoss
		}
	}

	return Stats{
		TotalTrades:  total,
		WinTrades:    wins,
		WinRate:      strategy.Round4(float64(wins) / float64(total)),
		AvgReturn:    strategy.Round4(avgRet),
		TotalReturn:  strategy.Round4(totalReturn),
		MaxDrawdown:  strategy.Round4(maxDD * 100),
		SharpeRatio:  strategy.Round4(sharpe),
		ProfitFactor: strategy.Round4(profitFactor),
	}
}

// dailyReturn 某个交易日的平均收益
type dailyReturn struct {
	Date string
	Ret  float64
}

// dailyReturns 按日期升序返回每日平均收益
func dailyReturns(trades []strategy.Trade) []dailyReturn {
	byDate := make(map[string][]float64)
	for _, t := range trades {
		byDate[t.EntryDate] = append(byDate[t.EntryDate], t.ReturnPct)
	}

	dates := make([]string, 0, len(byDate))
	for d := range byDate {
		dates = append(dates, d)
	}
	sort.Strings(dates)

	out := make([]dailyReturn, 0, len(dates))
	for _, d := range dates {
		rets := byDate[d]
		var sum float64
		for _, r := range rets {
			sum += r
		}
		out = append(out, dailyReturn{Date: d, Ret: sum / float64(len(rets))})
	}
	return out
}
