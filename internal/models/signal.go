package models

import (
	"github.com/utrading/utrading-stock-backtest/internal/filter"
)

// SignalRecord 三张信号表的公共读取口径。
// 回测与评分组件只通过这个接口访问记录，不关心具体表。
type SignalRecord interface {
	filter.Record

	// TradeDate 交易日 YYYYMMDD
	TradeDate() string
	// StockID 证券代码
	StockID() string
	// StockName 证券名称，可能为空
	StockName() string
	// ClosingChange 收盘涨幅，ok 为 false 表示尚未收盘回填
	ClosingChange() (float64, bool)
	// Snapshot 数值字段快照（signal_data），NULL 字段保留为 nil
	Snapshot() map[string]any
}

// numOrNil NULL 安全转换，快照里 NULL 保留为 nil 而不是 0
func numOrNil(p *float64) any {
	if p == nil {
		return nil
	}
	return *p
}

// intOrNil 连板数的 NULL 安全转换
func intOrNil(p *int) any {
	if p == nil {
		return nil
	}
	return *p
}

// intAttr 连板数按数值属性参与过滤
func intAttr(p *int) filter.Value {
	if p == nil {
		return filter.Num(nil)
	}
	f := float64(*p)
	return filter.Num(&f)
}
