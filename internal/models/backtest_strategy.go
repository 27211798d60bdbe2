package models

import (
	"time"

	"gorm.io/datatypes"
)

// BacktestStrategy 用户保存的命名策略配置。
// 同时驱动实时过滤展示和可重复的回测，filters 为结构化过滤配置 JSON。
type BacktestStrategy struct {
	ID           uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	StrategyName string         `gorm:"type:varchar(50);not null;index:idx_bs_strategy;comment:策略变体 mighty/lianban/jjmighty" json:"strategy_name"`
	Name         string         `gorm:"type:varchar(100);not null;uniqueIndex:uk_bs_name;comment:配置名，唯一" json:"name"`
	Filters      datatypes.JSON `gorm:"comment:结构化过滤配置" json:"filters"`
	CreatedAt    time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
}

func (BacktestStrategy) TableName() string {
	return "db_backtest_strategies"
}
