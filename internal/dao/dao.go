package dao

import (
	"gorm.io/gorm"

	"github.com/utrading/utrading-stock-backtest/config"
)

// InitDAO 初始化所有 DAO（应用启动时调用）
func InitDAO(db *gorm.DB) {
	InitSignalDAO(db)
	InitBacktestDAO(db)
	InitStrategyConfigDAO(db, config.Get().Backtest.StrategyCacheTTL)
}
