package models

import (
	"time"

	"gorm.io/datatypes"
)

// BacktestRun 一次回测的汇总记录，创建后不再修改
type BacktestRun struct {
	ID            uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	StrategyName  string         `gorm:"type:varchar(50);not null;index:idx_run_strategy;comment:策略名" json:"strategy_name"`
	StrategyLabel string         `gorm:"type:varchar(100);comment:策略中文名" json:"strategy_label"`
	StartDate     string         `gorm:"type:varchar(8);not null;comment:起始日期 YYYYMMDD" json:"start_date"`
	EndDate       string         `gorm:"type:varchar(8);not null;comment:结束日期 YYYYMMDD" json:"end_date"`
	Params        datatypes.JSON `gorm:"comment:过滤参数快照" json:"params"`

	TotalTrades  int     `gorm:"default:0;comment:交易数" json:"total_trades"`
	WinTrades    int     `gorm:"default:0;comment:盈利数" json:"win_trades"`
	WinRate      float64 `gorm:"type:decimal(10,4);comment:胜率" json:"win_rate"`
	AvgReturn    float64 `gorm:"type:decimal(10,4);comment:平均收益%" json:"avg_return"`
	TotalReturn  float64 `gorm:"type:decimal(10,4);comment:复利累计收益%" json:"total_return"`
	MaxDrawdown  float64 `gorm:"type:decimal(10,4);comment:最大回撤%" json:"max_drawdown"`
	SharpeRatio  float64 `gorm:"type:decimal(10,4);comment:夏普比率" json:"sharpe_ratio"`
	ProfitFactor float64 `gorm:"type:decimal(10,4);comment:盈亏比" json:"profit_factor"`

	CreatedAt time.Time `gorm:"autoCreateTime;index:idx_run_created" json:"created_at"`
}

func (BacktestRun) TableName() string {
	return "db_backtest_runs"
}

// BacktestTrade 回测交易明细，每笔交易一行
type BacktestTrade struct {
	ID         uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	RunID      uint           `gorm:"not null;index:idx_trade_run;comment:所属回测" json:"run_id"`
	Run        *BacktestRun   `gorm:"foreignKey:RunID;constraint:OnDelete:CASCADE" json:"-"`
	Stockid    string         `gorm:"type:varchar(20);not null;comment:证券代码" json:"stockid"`
	Stockname  string         `gorm:"type:varchar(50);comment:证券名称" json:"stockname"`
	EntryDate  string         `gorm:"type:varchar(8);not null;comment:信号交易日" json:"entry_date"`
	ReturnPct  float64        `gorm:"type:decimal(10,4);comment:收益% = 收盘涨幅-入选涨幅" json:"return_pct"`
	SignalData datatypes.JSON `gorm:"comment:信号字段快照" json:"signal_data"`
}

func (BacktestTrade) TableName() string {
	return "db_backtest_trades"
}

// BacktestEquity 回测权益曲线，每个交易日一行，(run_id, tdate) 唯一
type BacktestEquity struct {
	ID       uint         `gorm:"primaryKey;autoIncrement" json:"id"`
	RunID    uint         `gorm:"not null;uniqueIndex:uk_equity_run_date,priority:1;comment:所属回测" json:"run_id"`
	Run      *BacktestRun `gorm:"foreignKey:RunID;constraint:OnDelete:CASCADE" json:"-"`
	Tdate    string       `gorm:"type:varchar(8);not null;uniqueIndex:uk_equity_run_date,priority:2;comment:交易日" json:"tdate"`
	Equity   float64      `gorm:"type:decimal(15,4);not null;comment:复利净值，起点1.0" json:"equity"`
	Drawdown float64      `gorm:"type:decimal(10,4);comment:当日回撤%" json:"drawdown"`
}

func (BacktestEquity) TableName() string {
	return "db_backtest_equity"
}
