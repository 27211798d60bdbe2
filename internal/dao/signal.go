package dao

import (
	"sync"

	"gorm.io/gorm"

	"github.com/utrading/utrading-stock-backtest/internal/models"
	"github.com/utrading/utrading-stock-backtest/internal/strategy"
	"github.com/utrading/utrading-stock-backtest/pkg/logger"
)

// SignalDAO 信号记录池查询
type SignalDAO struct {
	db *gorm.DB
}

var (
	_signal     *SignalDAO
	_signalOnce sync.Once
)

// InitSignalDAO 初始化 SignalDAO
func InitSignalDAO(db *gorm.DB) {
	_signalOnce.Do(func() {
		_signal = &SignalDAO{
			db: db,
		}
	})
}

// Signal 获取 SignalDAO 单例
func Signal() *SignalDAO {
	return _signal
}

// Pool 返回策略在闭区间 [startDate, endDate] 内已收盘的信号记录。
// 空结果不是错误，但记录一条警告便于区分"没有入选"和"采集没跑"。
func (d *SignalDAO) Pool(variant, startDate, endDate string) ([]models.SignalRecord, error) {
	if _, err := strategy.Get(variant); err != nil {
		return nil, err
	}

	q := d.db.Where("cdate >= ? AND cdate <= ?", startDate, endDate).
		Where("lastzf IS NOT NULL")

	var records []models.SignalRecord
	switch variant {
	case "mighty":
		var rows []*models.Mighty
		if err := q.Order("id").Find(&rows).Error; err != nil {
			return nil, err
		}
		for _, r := range rows {
			records = append(records, r)
		}
	case "lianban":
		var rows []*models.Lianban
		if err := q.Order("id").Find(&rows).Error; err != nil {
			return nil, err
		}
		for _, r := range rows {
			records = append(records, r)
		}
	case "jjmighty":
		var rows []*models.Jjmighty
		if err := q.Order("id").Find(&rows).Error; err != nil {
			return nil, err
		}
		for _, r := range rows {
			records = append(records, r)
		}
	}

	if len(records) == 0 {
		logger.Warn().
			Str("strategy", variant).
			Str("start", startDate).
			Str("end", endDate).
			Msg("record pool empty, upstream collector may not have run")
	}

	return records, nil
}
