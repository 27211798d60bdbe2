package engine

import (
	"github.com/utrading/utrading-stock-backtest/internal/strategy"
)

// EquityPoint 权益曲线上的一个交易日
type EquityPoint struct {
	Tdate    string  `json:"tdate"`
	Equity   float64 `json:"equity"`
	Drawdown float64 `json:"drawdown"`
}

// BuildEquityCurve 按日聚合构建复利权益曲线，起点 1.0。
// 与 ComputeStats 共用同一套日聚合/复利逻辑，两者数值不会分叉。
func BuildEquityCurve(trades []strategy.Trade) []EquityPoint {
	if len(trades) == 0 {
		return nil
	}

	daily := dailyReturns(trades)
	curve := make([]EquityPoint, 0, len(daily))

	equity := 1.0
	peak := 1.0
	for _, d := range daily {
		equity *= 1 + d.Ret/100
		if equity > peak {
			peak = equity
		}
		dd := (peak - equity) / peak
		curve = append(curve, EquityPoint{
			Tdate:    d.Date,
			Equity:   strategy.Round4(equity),
			Drawdown: strategy.Round4(dd * 100),
		})
	}

	return curve
}
