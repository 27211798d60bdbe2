package engine

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/utrading/utrading-stock-backtest/internal/strategy"
)

func trade(date string, ret float64) strategy.Trade {
	return strategy.Trade{StockID: "sz300001", EntryDate: date, ReturnPct: ret}
}

// TestComputeStats_Empty 测试空交易列表返回全零
func TestComputeStats_Empty(t *testing.T) {
	assert.Equal(t, Stats{}, ComputeStats(nil))
	assert.Equal(t, Stats{}, ComputeStats([]strategy.Trade{}))
}

// TestComputeStats_Basic 测试基础指标
func TestComputeStats_Basic(t *testing.T) {
	trades := []strategy.Trade{
		trade("20250101", 10),
		trade("20250102", -5),
		trade("20250103", 3),
		trade("20250106", 0),
	}
	stats := ComputeStats(trades)

	assert.Equal(t, 4, stats.TotalTrades)
	assert.Equal(t, 2, stats.WinTrades) // 0 不算盈利
	assert.Equal(t, 0.5, stats.WinRate)
	assert.Equal(t, 2.0, stats.AvgReturn)
}

// TestComputeStats_CompoundEquity 测试按日复利的累计收益与回撤
func TestComputeStats_CompoundEquity(t *testing.T) {
	trades := []strategy.Trade{
		trade("20250101", 10),
		trade("20250102", -5),
	}
	stats := ComputeStats(trades)

	// 1.0 * 1.10 * 0.95 = 1.045
	assert.InDelta(t, 4.5, stats.TotalReturn, 1e-9)
	// 峰值 1.10，回撤 (1.10-1.045)/1.10 = 5%
	assert.InDelta(t, 5.0, stats.MaxDrawdown, 1e-9)
}

// TestComputeStats_SameDayAveraged 测试同日多笔取均值后复利
func TestComputeStats_SameDayAveraged(t *testing.T) {
	trades := []strategy.Trade{
		trade("20250101", 6),
		trade("20250101", 2),
	}
	stats := ComputeStats(trades)

	// 当日均值 4%，只复利一次
	assert.InDelta(t, 4.0, stats.TotalReturn, 1e-9)
	// 逐笔均值不受日聚合影响
	assert.Equal(t, 4.0, stats.AvgReturn)
}

// TestComputeStats_OrderInvariant 测试结果与输入顺序无关
func TestComputeStats_OrderInvariant(t *testing.T) {
	a := []strategy.Trade{trade("20250103", 3), trade("20250101", 10), trade("20250102", -5)}
	b := []strategy.Trade{trade("20250101", 10), trade("20250102", -5), trade("20250103", 3)}
	assert.Equal(t, ComputeStats(b), ComputeStats(a))
}

// TestComputeStats_Sharpe 测试夏普基于逐笔收益的样本标准差
func TestComputeStats_Sharpe(t *testing.T) {
	trades := []strategy.Trade{
		trade("20250101", 4),
		trade("20250102", 2),
	}
	stats := ComputeStats(trades)

	// avg=3, 样本标准差 = sqrt((1+1)/1) = sqrt(2)
	want := 3 / math.Sqrt2 * math.Sqrt(252)
	assert.InDelta(t, want, stats.SharpeRatio, 1e-3)
}

// TestComputeStats_SharpeSingleTrade 测试单笔交易夏普为 0
func TestComputeStats_SharpeSingleTrade(t *testing.T) {
	stats := ComputeStats([]strategy.Trade{trade("20250101", 5)})
	assert.Equal(t, 0.0, stats.SharpeRatio)
}

// TestComputeStats_SharpeZeroStd 测试收益全相同时夏普为 0
func TestComputeStats_SharpeZeroStd(t *testing.T) {
	stats := ComputeStats([]strategy.Trade{trade("20250101", 5), trade("20250102", 5)})
	assert.Equal(t, 0.0, stats.SharpeRatio)
}

// TestComputeStats_ProfitFactor 测试盈亏比
func TestComputeStats_ProfitFactor(t *testing.T) {
	trades := []strategy.Trade{
		trade("20250101", 6),
		trade("20250102", 2),
		trade("20250103", -2),
	}
	stats := ComputeStats(trades)
	// 平均盈利 4，平均亏损 2
	assert.Equal(t, 2.0, stats.ProfitFactor)
}

// TestComputeStats_ProfitFactorNoLoss 测试无亏损时盈亏比为 0
func TestComputeStats_ProfitFactorNoLoss(t *testing.T) {
	stats := ComputeStats([]strategy.Trade{trade("20250101", 1), trade("20250102", 2)})
	assert.Equal(t, 0.0, stats.ProfitFactor)
}
