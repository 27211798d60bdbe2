package cleaner

import (
	"time"

	"gorm.io/gorm"

	"github.com/utrading/utrading-stock-backtest/internal/models"
	"github.com/utrading/utrading-stock-backtest/pkg/logger"
)

// Cleaner 回测历史清理器。
// 回测明细随时间膨胀很快，按保留天数删除过期 run 及其明细与曲线。
type Cleaner struct {
	db         *gorm.DB
	keepDays   int
	batchLimit int
}

// NewCleaner 创建清理器，keepDays <= 0 表示不清理
func NewCleaner(db *gorm.DB, keepDays int) *Cleaner {
	return &Cleaner{
		db:         db,
		keepDays:   keepDays,
		batchLimit: 200,
	}
}

// Run 执行一次清理，CLI 每次启动时调用
func (c *Cleaner) Run() error {
	if c.keepDays <= 0 {
		return nil
	}

	cutoff := time.Now().AddDate(0, 0, -c.keepDays)

	var runIDs []uint
	err := c.db.Model(&models.BacktestRun{}).
		Where("created_at < ?", cutoff).
		Limit(c.batchLimit).
		Pluck("id", &runIDs).Error
	if err != nil {
		return err
	}
	if len(runIDs) == 0 {
		return nil
	}

	err = c.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("run_id IN ?", runIDs).Delete(&models.BacktestTrade{}).Error; err != nil {
			return err
		}
		if err := tx.Where("run_id IN ?", runIDs).Delete(&models.BacktestEquity{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.BacktestRun{}, runIDs).Error
	})
	if err != nil {
		return err
	}

	logger.Info().
		Int("deleted", len(runIDs)).
		Time("cutoff", cutoff).
		Msg("cleaned expired backtest runs")

	return nil
}
