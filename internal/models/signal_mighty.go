package models

import (
	"github.com/utrading/utrading-stock-backtest/internal/filter"
)

// Mighty 强势反包信号表（股票池=昨日大成交额非涨停）。
// 每行是一只股票在一个交易日的入选快照，(cdate, stockid) 唯一；
// lastzf 收盘后由收盘价更新任务回填，回填前为 NULL。
type Mighty struct {
	ID        uint     `gorm:"primaryKey;autoIncrement" json:"id"`
	Cdate     string   `gorm:"type:varchar(8);not null;uniqueIndex:uk_mighty_cdate_stockid,priority:1;index:idx_mighty_cdate;comment:交易日 YYYYMMDD" json:"cdate"`
	Stockid   string   `gorm:"type:varchar(20);not null;uniqueIndex:uk_mighty_cdate_stockid,priority:2;comment:证券代码" json:"stockid"`
	Stockname string   `gorm:"type:varchar(50);comment:证券名称" json:"stockname"`
	Scores    *float64 `gorm:"type:decimal(10,2);comment:综合评分" json:"scores"`
	Times     string   `gorm:"type:varchar(4);comment:入选时间 HHMM" json:"times"`
	Bzf       *float64 `gorm:"type:decimal(10,2);comment:入选时涨幅" json:"bzf"`
	Cje       *float64 `gorm:"type:decimal(15,2);comment:成交额(亿)" json:"cje"`
	Rates     *float64 `gorm:"type:decimal(10,2);comment:换手率" json:"rates"`
	Ozf       *float64 `gorm:"type:decimal(10,2);comment:开盘涨幅" json:"ozf"`
	Zhenfu    *float64 `gorm:"type:decimal(10,2);comment:振幅" json:"zhenfu"`
	Chg1Min   *float64 `gorm:"column:chg_1min;type:decimal(10,2);comment:1分钟涨速" json:"chg_1min"`
	ZsTimes   *float64 `gorm:"column:zs_times;type:decimal(3,1);comment:板块系数" json:"zs_times"`
	Tms       string   `gorm:"type:varchar(5)" json:"tms"`
	Lastzf    *float64 `gorm:"type:decimal(10,2);comment:收盘涨幅，收盘后回填" json:"lastzf"`
}

func (Mighty) TableName() string {
	return "db_mighty"
}

func (m *Mighty) TradeDate() string { return m.Cdate }
func (m *Mighty) StockID() string   { return m.Stockid }
func (m *Mighty) StockName() string { return m.Stockname }

func (m *Mighty) ClosingChange() (float64, bool) {
	if m.Lastzf == nil {
		return 0, false
	}
	return *m.Lastzf, true
}

// Attr 过滤器属性读取。mighty 没有连板池，lbs 属性不存在。
func (m *Mighty) Attr(attr filter.Attr) filter.Value {
	switch attr {
	case filter.AttrScores:
		return filter.Num(m.Scores)
	case filter.AttrTimes:
		return filter.Str(m.Times)
	case filter.AttrBzf:
		return filter.Num(m.Bzf)
	case filter.AttrCje:
		return filter.Num(m.Cje)
	case filter.AttrRates:
		return filter.Num(m.Rates)
	case filter.AttrOzf:
		return filter.Num(m.Ozf)
	case filter.AttrZhenfu:
		return filter.Num(m.Zhenfu)
	case filter.AttrChg1Min:
		return filter.Num(m.Chg1Min)
	case filter.AttrZsTimes:
		return filter.Num(m.ZsTimes)
	case filter.AttrLastZf:
		return filter.Num(m.Lastzf)
	default:
		return filter.Undefined()
	}
}

func (m *Mighty) Snapshot() map[string]any {
	return map[string]any{
		"scores":   numOrNil(m.Scores),
		"bzf":      numOrNil(m.Bzf),
		"lastzf":   numOrNil(m.Lastzf),
		"rates":    numOrNil(m.Rates),
		"ozf":      numOrNil(m.Ozf),
		"cje":      numOrNil(m.Cje),
		"zhenfu":   numOrNil(m.Zhenfu),
		"chg_1min": numOrNil(m.Chg1Min),
		"zs_times": numOrNil(m.ZsTimes),
		"times":    m.Times,
	}
}
