package models

import (
	"github.com/utrading/utrading-stock-backtest/internal/filter"
)

// Lianban 连板反包信号表（股票池=昨日连板>=2）
type Lianban struct {
	ID        uint     `gorm:"primaryKey;autoIncrement" json:"id"`
	Cdate     string   `gorm:"type:varchar(8);not null;uniqueIndex:uk_lianban_cdate_stockid,priority:1;index:idx_lianban_cdate;comment:交易日 YYYYMMDD" json:"cdate"`
	Stockid   string   `gorm:"type:varchar(20);not null;uniqueIndex:uk_lianban_cdate_stockid,priority:2;comment:证券代码" json:"stockid"`
	Stockname string   `gorm:"type:varchar(50);comment:证券名称" json:"stockname"`
	Lbs       *int     `gorm:"comment:连板数" json:"lbs"`
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

func (Lianban) TableName() string {
	return "db_lianban"
}

func (m *Lianban) TradeDate() string { return m.Cdate }
func (m *Lianban) StockID() string   { return m.Stockid }
func (m *Lianban) StockName() string { return m.Stockname }

func (m *Lianban) ClosingChange() (float64, bool) {
	if m.Lastzf == nil {
		return 0, false
	}
	return *m.Lastzf, true
}

func (m *Lianban) Attr(attr filter.Attr) filter.Value {
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
	case filter.AttrLbs:
		return intAttr(m.Lbs)
	case filter.AttrLastZf:
		return filter.Num(m.Lastzf)
	default:
		return filter.Undefined()
	}
}

func (m *Lianban) Snapshot() map[string]any {
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
		"lbs":      intOrNil(m.Lbs),
		"times":    m.Times,
	}
}
