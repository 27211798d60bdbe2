package compare

import (
	"math"

	"github.com/spf13/cast"

	"github.com/utrading/utrading-stock-backtest/internal/filter"
	"github.com/utrading/utrading-stock-backtest/internal/models"
)

// Coeffs 新公式可调系数。
// 旧公式系数固定，不受这里影响。
type Coeffs struct {
	WChg  float64 // 1分钟涨速权重
	WBzf  float64 // 入选涨幅权重
	WFlow float64 // 流速乘数权重
	WMain float64 // 主板系数
	W20cm float64 // 20cm(创业板/科创板)系数
}

// DefaultCoeffs 新公式默认系数
func DefaultCoeffs() Coeffs {
	return Coeffs{WChg: 20, WBzf: 10, WFlow: 0.05, WMain: 1.0, W20cm: 0.6}
}

// openMinutes 开盘 9:30 折算成分钟数
const openMinutes = 570

// Recalculate 用记录字段重算新旧分数。
//
// 旧公式（固定系数，原始板块系数）:
//
//	momentum = (chg_1min*20 + bzf*10) * zs_times
//	score    = round(momentum + cje*0.001)
//
// 新公式（可调系数，板块系数重映射，流速乘数）:
//
//	zst'          = w_20cm if zs_times < 1.0 else w_main
//	momentum      = (chg_1min*w_chg + bzf*w_bzf) * zst'
//	flow_velocity = rates / max(mins, 1)
//	score         = round(momentum * (1 + flow_velocity*w_flow))
//
// mins 为入选时间距开盘的分钟数。
func Recalculate(rec models.SignalRecord, c Coeffs) (oldScore, newScore, mins int) {
	chg := numOr(rec, filter.AttrChg1Min, 0)
	bzf := numOr(rec, filter.AttrBzf, 0)
	zst := numOr(rec, filter.AttrZsTimes, 1.0)
	cje := numOr(rec, filter.AttrCje, 0)
	rates := numOr(rec, filter.AttrRates, 0)

	// times="0935" -> mins=5
	t := "0930"
	if v := rec.Attr(filter.AttrTimes); v.Defined && !v.Null {
		t = v.Str
	}
	if len(t) != 4 {
		t = "0930"
	}
	mins = cast.ToInt(t[:2])*60 + cast.ToInt(t[2:]) - openMinutes

	oldMomentum := (chg*20 + bzf*10) * zst
	oldScore = int(math.Round(oldMomentum + cje*0.001))

	newZst := c.WMain
	if zst < 1.0 {
		newZst = c.W20cm
	}
	newMomentum := (chg*c.WChg + bzf*c.WBzf) * newZst
	flowVelocity := rates / math.Max(float64(mins), 1)
	newScore = int(math.Round(newMomentum * (1 + flowVelocity*c.WFlow)))

	return oldScore, newScore, mins
}

// numOr NULL/缺失字段按默认值参与公式
func numOr(rec models.SignalRecord, attr filter.Attr, def float64) float64 {
	v := rec.Attr(attr)
	if !v.Defined || v.Null {
		return def
	}
	return v.Num
}
