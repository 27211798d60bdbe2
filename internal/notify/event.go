package notify

import (
	"encoding/json"

	"github.com/utrading/utrading-stock-backtest/pkg/logger"
)

// TopicRunCompleted 回测完成事件主题
const TopicRunCompleted = "backtest.run.completed"

// RunCompleted 回测完成事件，供外部采集/推送服务消费
type RunCompleted struct {
	RunID       uint    `json:"run_id"`
	Strategy    string  `json:"strategy"`     // mighty/lianban/jjmighty
	Label       string  `json:"label"`        // 策略中文名
	StartDate   string  `json:"start_date"`   // YYYYMMDD
	EndDate     string  `json:"end_date"`     // YYYYMMDD
	TotalTrades int     `json:"total_trades"` // 交易数
	WinRate     float64 `json:"win_rate"`     // 胜率
	TotalReturn float64 `json:"total_return"` // 复利累计收益%
	Timestamp   int64   `json:"timestamp"`    // 发布时间戳
}

// Marshal 序列化事件
func (e *RunCompleted) Marshal() ([]byte, error) {
	data, err := json.Marshal(e)
	if err != nil {
		logger.Error().Err(err).Msg("marshal run completed event failed")
		return nil, err
	}
	return data, nil
}
