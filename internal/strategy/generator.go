package strategy

import (
	"math"

	"github.com/utrading/utrading-stock-backtest/internal/filter"
	"github.com/utrading/utrading-stock-backtest/internal/models"
)

// Trade 一笔回测交易，由信号记录过滤后生成，生成后不再修改
type Trade struct {
	StockID   string  `json:"stockid"`
	StockName string  `json:"stockname"`
	EntryDate string  `json:"entry_date"`
	ReturnPct float64 `json:"return_pct"`
	// SignalData 生成该交易的信号字段快照，用于审计与展示
	SignalData map[string]any `json:"signal_data"`
}

// RecordSource 信号记录池，按策略与日期范围（闭区间）返回已收盘的记录
type RecordSource interface {
	Pool(variant, startDate, endDate string) ([]models.SignalRecord, error)
}

// GenerateTrades 读取信号记录，按过滤配置筛选，计算每笔收益。
// 空记录池返回空列表而非错误；保留记录池原始顺序，调用方自行排序。
func GenerateTrades(src RecordSource, variant, startDate, endDate string, cfg filter.Config) ([]Trade, error) {
	if _, err := Get(variant); err != nil {
		return nil, err
	}

	records, err := src.Pool(variant, startDate, endDate)
	if err != nil {
		return nil, err
	}

	trades := make([]Trade, 0, len(records))
	for _, rec := range records {
		// 必须有收盘涨幅才可回测，记录源已过滤，这里再兜底一次
		lastzf, ok := rec.ClosingChange()
		if !ok {
			continue
		}

		if !filter.Apply(rec, cfg) {
			continue
		}

		trades = append(trades, buildTrade(rec, lastzf))
	}

	return trades, nil
}

// buildTrade 收益 = 收盘涨幅 - 入选时涨幅
func buildTrade(rec models.SignalRecord, lastzf float64) Trade {
	var bzf float64
	if v := rec.Attr(filter.AttrBzf); v.Defined && !v.Null {
		bzf = v.Num
	}

	return Trade{
		StockID:    rec.StockID(),
		StockName:  rec.StockName(),
		EntryDate:  rec.TradeDate(),
		ReturnPct:  Round4(lastzf - bzf),
		SignalData: rec.Snapshot(),
	}
}

// Round4 四舍五入到 4 位小数
func Round4(x float64) float64 {
	return math.Round(x*10000) / 10000
}
