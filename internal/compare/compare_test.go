package compare

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/utrading/utrading-stock-backtest/internal/filter"
	"github.com/utrading/utrading-stock-backtest/internal/models"
)

type fakeSource struct {
	records []models.SignalRecord
}

func (s *fakeSource) Pool(_, _, _ string) ([]models.SignalRecord, error) {
	return s.records, nil
}

func closedRec(stockid string, chg, bzf, rates float64, times string, lastzf float64) *models.Mighty {
	r := rec(chg, bzf, 1.0, 0, rates, times)
	r.Stockid = stockid
	r.Lastzf = ptr(lastzf)
	return r
}

// TestRun_ThresholdsIndependent 测试新旧门槛各自独立把关
func TestRun_ThresholdsIndependent(t *testing.T) {
	// old = (2*20+3*10)*1.0 = 70; new = 70*(1+10/5*0.05) = 77
	src := &fakeSource{records: []models.SignalRecord{
		closedRec("sz300001", 2, 3, 10, "0935", 8),
	}}

	cmp, err := Run(src, "mighty", "20250101", "20250131", filter.Config{}, 75, 75, DefaultCoeffs())
	assert.NoError(t, err)

	// 旧分 70 < 75 被拒，新分 77 >= 75 通过
	assert.Empty(t, cmp.Old.Trades)
	assert.Len(t, cmp.New.Trades, 1)
	assert.Len(t, cmp.NewOnly, 1)
	assert.Empty(t, cmp.OldOnly)
	assert.Equal(t, 0, cmp.BothCount)
}

// TestRun_BaseFiltersApplied 测试基础过滤先于打分
func TestRun_BaseFiltersApplied(t *testing.T) {
	src := &fakeSource{records: []models.SignalRecord{
		closedRec("sz300001", 2, 3, 10, "0935", 8),
		closedRec("sz300002", 2, 3, 10, "1000", 8), // 超出时间窗
	}}

	base := filter.Config{"time_end": {Enabled: true, Value: "0946"}}
	cmp, err := Run(src, "mighty", "20250101", "20250131", base, 0, 0, DefaultCoeffs())
	assert.NoError(t, err)

	assert.Equal(t, 1, cmp.FilteredRecords)
	assert.Len(t, cmp.Old.Trades, 1)
	assert.Equal(t, "sz300001", cmp.Old.Trades[0].StockID)
}

// TestRun_BothCount 测试两个公式都选中的交集计数
func TestRun_BothCount(t *testing.T) {
	src := &fakeSource{records: []models.SignalRecord{
		closedRec("sz300001", 2, 3, 10, "0935", 8),
		closedRec("sz300002", 3, 5, 20, "0935", 5),
	}}

	cmp, err := Run(src, "mighty", "20250101", "20250131", filter.Config{}, 0, 0, DefaultCoeffs())
	assert.NoError(t, err)

	assert.Equal(t, 2, cmp.BothCount)
	assert.Empty(t, cmp.OldOnly)
	assert.Empty(t, cmp.NewOnly)
}

// TestRun_DiffSortedByOwnScore 测试独有案例按各自公式分数降序
func TestRun_DiffSortedByOwnScore(t *testing.T) {
	// 三条记录新分均过线、旧分均不过线
	src := &fakeSource{records: []models.SignalRecord{
		closedRec("sz300001", 2, 3, 10, "0935", 8),   // new=77
		closedRec("sz300002", 2.5, 3, 10, "0935", 5), // new=88
		closedRec("sz300003", 2.2, 3, 10, "0935", 3), // new=81
	}}

	cmp, err := Run(src, "mighty", "20250101", "20250131", filter.Config{}, 1000, 70, DefaultCoeffs())
	assert.NoError(t, err)

	assert.Len(t, cmp.NewOnly, 3)
	assert.Equal(t, "sz300002", cmp.NewOnly[0].StockID)
	assert.Equal(t, "sz300003", cmp.NewOnly[1].StockID)
	assert.Equal(t, "sz300001", cmp.NewOnly[2].StockID)
}

// TestRun_SweepCoversAllThresholds 测试多门槛对比覆盖全部档位
func TestRun_SweepCoversAllThresholds(t *testing.T) {
	src := &fakeSource{records: []models.SignalRecord{
		closedRec("sz300001", 5, 5, 10, "0935", 8),
	}}

	cmp, err := Run(src, "mighty", "20250101", "20250131", filter.Config{}, 100, 80, DefaultCoeffs())
	assert.NoError(t, err)

	assert.Len(t, cmp.Sweep, len(SweepThresholds))
	for i, row := range cmp.Sweep {
		assert.Equal(t, SweepThresholds[i], row.Threshold)
	}
}

// TestRun_CoefficientEquivalence 测试消除差异项且门槛相同时两侧交易集合一致
func TestRun_CoefficientEquivalence(t *testing.T) {
	// zst=1.0、cje=0 且 w_flow=0 时新旧公式给出同一分数
	src := &fakeSource{records: []models.SignalRecord{
		closedRec("sz300001", 2, 3, 10, "0935", 8),
		closedRec("sz300002", 3, 5, 20, "0940", -2),
		closedRec("sz300003", 1, 0, 5, "0946", 4),
	}}

	c := DefaultCoeffs()
	c.WFlow = 0

	cmp, err := Run(src, "mighty", "20250101", "20250131", filter.Config{}, 70, 70, c)
	assert.NoError(t, err)

	assert.Equal(t, len(cmp.Old.Trades), len(cmp.New.Trades))
	assert.Empty(t, cmp.OldOnly)
	assert.Empty(t, cmp.NewOnly)
	assert.Equal(t, len(cmp.Old.Trades), cmp.BothCount)
	assert.Equal(t, cmp.Old.Stats, cmp.New.Stats)
}

// TestRun_SkipsNullClose 测试未回填收盘涨幅的记录不进入任何一侧
func TestRun_SkipsNullClose(t *testing.T) {
	open := rec(5, 5, 1.0, 0, 10, "0935")
	open.Stockid = "sz300009"

	src := &fakeSource{records: []models.SignalRecord{open}}
	cmp, err := Run(src, "mighty", "20250101", "20250131", filter.Config{}, 0, 0, DefaultCoeffs())
	assert.NoError(t, err)

	assert.Empty(t, cmp.Old.Trades)
	assert.Empty(t, cmp.New.Trades)
}

// TestRun_UnknownStrategy 测试未知策略报错
func TestRun_UnknownStrategy(t *testing.T) {
	_, err := Run(&fakeSource{}, "nope", "20250101", "20250131", filter.Config{}, 100, 80, DefaultCoeffs())
	assert.Error(t, err)
}

// TestRun_SignalDataEnriched 测试交易快照带上新旧分数与 mins
func TestRun_SignalDataEnriched(t *testing.T) {
	src := &fakeSource{records: []models.SignalRecord{
		closedRec("sz300001", 2, 3, 10, "0935", 8),
	}}

	cmp, err := Run(src, "mighty", "20250101", "20250131", filter.Config{}, 0, 0, DefaultCoeffs())
	assert.NoError(t, err)

	sd := cmp.Old.Trades[0].SignalData
	assert.Equal(t, 70, sd["old_score"])
	assert.Equal(t, 77, sd["new_score"])
	assert.Equal(t, 5, sd["mins"])
}
