package dao

import (
	"encoding/json"
	"fmt"
	"sync"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/utrading/utrading-stock-backtest/internal/engine"
	"github.com/utrading/utrading-stock-backtest/internal/filter"
	"github.com/utrading/utrading-stock-backtest/internal/models"
	"github.com/utrading/utrading-stock-backtest/internal/strategy"
	"github.com/utrading/utrading-stock-backtest/pkg/logger"
)

// BacktestDAO 回测结果持久化
type BacktestDAO struct {
	db *gorm.DB
}

var (
	_backtest     *BacktestDAO
	_backtestOnce sync.Once
)

// InitBacktestDAO 初始化 BacktestDAO
func InitBacktestDAO(db *gorm.DB) {
	_backtestOnce.Do(func() {
		_backtest = &BacktestDAO{
			db: db,
		}
	})
}

// Backtest 获取 BacktestDAO 单例
func Backtest() *BacktestDAO {
	return _backtest
}

// Save 计算统计并持久化一次回测：
// 主记录 + 逐笔明细 + 权益曲线在同一个事务里写入，
// 任何一步失败整体回滚，不会留下没有明细的孤儿 run。
func (d *BacktestDAO) Save(variant, startDate, endDate string, cfg filter.Config, trades []strategy.Trade) (*models.BacktestRun, error) {
	v, err := strategy.Get(variant)
	if err != nil {
		return nil, err
	}

	paramsJSON, err := json.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("marshal params failed: %w", err)
	}

	stats := engine.ComputeStats(trades)
	curve := engine.BuildEquityCurve(trades)

	run := &models.BacktestRun{
		StrategyName:  variant,
		StrategyLabel: v.Label,
		StartDate:     startDate,
		EndDate:       endDate,
		Params:        datatypes.JSON(paramsJSON),
		TotalTrades:   stats.TotalTrades,
		WinTrades:     stats.WinTrades,
		WinRate:       stats.WinRate,
		AvgReturn:     stats.AvgReturn,
		TotalReturn:   stats.TotalReturn,
		MaxDrawdown:   stats.MaxDrawdown,
		SharpeRatio:   stats.SharpeRatio,
		ProfitFactor:  stats.ProfitFactor,
	}

	err = d.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(run).Error; err != nil {
			return err
		}

		if len(trades) > 0 {
			details := make([]*models.BacktestTrade, 0, len(trades))
			for _, t := range trades {
				signalJSON, err := json.Marshal(t.SignalData)
				if err != nil {
					return fmt.Errorf("marshal signal_data failed: %w", err)
				}
				details = append(details, &models.BacktestTrade{
					RunID:      run.ID,
					Stockid:    t.StockID,
					Stockname:  t.StockName,
					EntryDate:  t.EntryDate,
					ReturnPct:  t.ReturnPct,
					SignalData: datatypes.JSON(signalJSON),
				})
			}
			if err := tx.CreateInBatches(details, 200).Error; err != nil {
				return err
			}
		}

		if len(curve) > 0 {
			points := make([]*models.BacktestEquity, 0, len(curve))
			for _, p := range curve {
				points = append(points, &models.BacktestEquity{
					RunID:    run.ID,
					Tdate:    p.Tdate,
					Equity:   p.Equity,
					Drawdown: p.Drawdown,
				})
			}
			if err := tx.CreateInBatches(points, 200).Error; err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info().
		Uint("run_id", run.ID).
		Str("strategy", variant).
		Int("trades", stats.TotalTrades).
		Msg("backtest saved")

	return run, nil
}

// List 分页查询回测记录，strategyName 为空则不过滤
func (d *BacktestDAO) List(page, size int, strategyName string) ([]*models.BacktestRun, int64, error) {
	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = 20
	}

	q := d.db.Model(&models.BacktestRun{})
	if strategyName != "" {
		q = q.Where("strategy_name = ?", strategyName)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var runs []*models.BacktestRun
	err := q.Order("created_at DESC").
		Offset((page - 1) * size).
		Limit(size).
		Find(&runs).Error
	if err != nil {
		return nil, 0, err
	}

	return runs, total, nil
}

// GetRun 按 ID 查询回测记录
func (d *BacktestDAO) GetRun(id uint) (*models.BacktestRun, error) {
	var run models.BacktestRun
	if err := d.db.First(&run, id).Error; err != nil {
		return nil, err
	}
	return &run, nil
}

// Trades 查询回测的交易明细，按信号日期降序
func (d *BacktestDAO) Trades(runID uint) ([]*models.BacktestTrade, error) {
	var rows []*models.BacktestTrade
	err := d.db.Where("run_id = ?", runID).
		Order("entry_date DESC").
		Find(&rows).Error
	return rows, err
}

// Equity 查询回测的权益曲线，按交易日升序
func (d *BacktestDAO) Equity(runID uint) ([]*models.BacktestEquity, error) {
	var rows []*models.BacktestEquity
	err := d.db.Where("run_id = ?", runID).
		Order("tdate ASC").
		Find(&rows).Error
	return rows, err
}

// Delete 删除回测记录并级联删除明细与权益曲线
func (d *BacktestDAO) Delete(id uint) error {
	return d.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("run_id = ?", id).Delete(&models.BacktestTrade{}).Error; err != nil {
			return err
		}
		if err := tx.Where("run_id = ?", id).Delete(&models.BacktestEquity{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.BacktestRun{}, id).Error
	})
}
