package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// fakeRecord 测试用信号记录
type fakeRecord struct {
	attrs map[Attr]Value
}

func (r *fakeRecord) Attr(a Attr) Value {
	if v, ok := r.attrs[a]; ok {
		return v
	}
	return Undefined()
}

func num(f float64) Value { return Num(&f) }

func baseRecord() *fakeRecord {
	return &fakeRecord{attrs: map[Attr]Value{
		AttrScores:  num(120),
		AttrRates:   num(15),
		AttrBzf:     num(3),
		AttrZhenfu:  num(6),
		AttrChg1Min: num(2.0),
		AttrTimes:   Str("0935"),
	}}
}

// TestApply_AllPass 测试全部过滤器通过
func TestApply_AllPass(t *testing.T) {
	cfg := FromParams(DefaultParams())
	assert.True(t, Apply(baseRecord(), cfg))
}

// TestApply_NumericThresholds 测试数值上下界
func TestApply_NumericThresholds(t *testing.T) {
	rec := baseRecord()

	assert.False(t, Apply(rec, Config{"min_score": {Enabled: true, Value: 150}}))
	assert.True(t, Apply(rec, Config{"min_score": {Enabled: true, Value: 120}})) // 等于通过
	assert.False(t, Apply(rec, Config{"max_bzf": {Enabled: true, Value: 2}}))
	assert.True(t, Apply(rec, Config{"max_bzf": {Enabled: true, Value: 3}}))
}

// TestApply_DisabledSkipped 测试禁用的过滤器不参与判断
func TestApply_DisabledSkipped(t *testing.T) {
	rec := baseRecord()
	cfg := Config{"min_score": {Enabled: false, Value: 99999}}
	assert.True(t, Apply(rec, cfg))
}

// TestApply_UnknownKeySkipped 测试未注册的 key 跳过
func TestApply_UnknownKeySkipped(t *testing.T) {
	cfg := Config{"no_such_filter": {Enabled: true, Value: 1}}
	assert.True(t, Apply(baseRecord(), cfg))
}

// TestApply_NullStrict 测试建表即有的字段 NULL 不通过
func TestApply_NullStrict(t *testing.T) {
	rec := baseRecord()
	rec.attrs[AttrScores] = Num(nil)

	assert.False(t, Apply(rec, Config{"min_score": {Enabled: true, Value: 0}}))
}

// TestApply_NullPass 测试后期加的字段 NULL 跳过过滤
func TestApply_NullPass(t *testing.T) {
	rec := baseRecord()
	rec.attrs[AttrZhenfu] = Num(nil)
	rec.attrs[AttrChg1Min] = Num(nil)

	cfg := Config{
		"min_zhenfu":   {Enabled: true, Value: 5},
		"min_chg_1min": {Enabled: true, Value: 1.5},
	}
	assert.True(t, Apply(rec, cfg))
}

// TestApply_UndefinedAttrNoop 测试策略表没有的字段过滤器退化为 no-op
func TestApply_UndefinedAttrNoop(t *testing.T) {
	rec := baseRecord() // 没有 lbs 字段
	cfg := Config{"min_lbs": {Enabled: true, Value: 2}}
	assert.True(t, Apply(rec, cfg))
}

// TestApply_TimeWindow 测试时间窗按字符串比较
func TestApply_TimeWindow(t *testing.T) {
	rec := baseRecord() // times = "0935"

	cfg := Config{
		"time_start": {Enabled: true, Value: "0930"},
		"time_end":   {Enabled: true, Value: "0946"},
	}
	assert.True(t, Apply(rec, cfg))

	assert.False(t, Apply(rec, Config{"time_end": {Enabled: true, Value: "0934"}}))
	assert.False(t, Apply(rec, Config{"time_start": {Enabled: true, Value: "0936"}}))

	// 边界等值通过
	assert.True(t, Apply(rec, Config{"time_end": {Enabled: true, Value: "0935"}}))
	assert.True(t, Apply(rec, Config{"time_start": {Enabled: true, Value: "0935"}}))
}

// TestApply_EmptyTimeSortsLowest 测试空时间排最前: 不满足下界、天然满足上界
func TestApply_EmptyTimeSortsLowest(t *testing.T) {
	rec := baseRecord()
	rec.attrs[AttrTimes] = Str("")

	assert.False(t, Apply(rec, Config{"time_start": {Enabled: true, Value: "0930"}}))
	assert.True(t, Apply(rec, Config{"time_end": {Enabled: true, Value: "0946"}}))
}

// TestApply_FailFast 测试任一过滤器不通过即拒绝
func TestApply_FailFast(t *testing.T) {
	rec := baseRecord()
	cfg := FromParams(DefaultParams())
	cfg["min_rate"] = Option{Enabled: true, Value: 99}
	assert.False(t, Apply(rec, cfg))
}

// TestApply_StringThresholdCast 测试 CLI 传入的字符串阈值可用于数值比较
func TestApply_StringThresholdCast(t *testing.T) {
	rec := baseRecord()
	assert.True(t, Apply(rec, Config{"min_score": {Enabled: true, Value: "100"}}))
	assert.False(t, Apply(rec, Config{"min_score": {Enabled: true, Value: "150"}}))
}
