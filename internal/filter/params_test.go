package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestFromParams_Lossless 测试扁平参数逐项无损转为结构化配置
func TestFromParams_Lossless(t *testing.T) {
	params := DefaultParams()
	cfg := FromParams(params)

	assert.Len(t, cfg, len(params))
	for key, val := range params {
		opt, ok := cfg[key]
		assert.True(t, ok, key)
		assert.True(t, opt.Enabled, key)
		assert.Equal(t, val, opt.Value, key)
	}
}

// TestFromParams_SkipsUnknownKeys 测试未注册的 key 不进入配置
func TestFromParams_SkipsUnknownKeys(t *testing.T) {
	cfg := FromParams(map[string]any{"min_score": 100, "bogus": 1})
	assert.Len(t, cfg, 1)
	_, ok := cfg["bogus"]
	assert.False(t, ok)
}

// TestFlatAndStructuredEquivalence 测试扁平参数与等价的手写结构化配置判定一致
func TestFlatAndStructuredEquivalence(t *testing.T) {
	cases := []struct {
		rec  *fakeRecord
		want bool
	}{
		// 全部阈值满足
		{baseRecord(), true},
		// 评分 80 低于 100
		{&fakeRecord{attrs: map[Attr]Value{AttrScores: num(80), AttrRates: num(12), AttrBzf: num(1), AttrTimes: Str("0940")}}, false},
		// 评分 NULL 按严格策略拒绝
		{&fakeRecord{attrs: map[Attr]Value{AttrScores: Num(nil), AttrRates: num(20), AttrBzf: num(0), AttrTimes: Str("0931")}}, false},
		// 换手率 5 低于 10 且超出时间窗
		{&fakeRecord{attrs: map[Attr]Value{AttrScores: num(200), AttrRates: num(5), AttrBzf: num(8), AttrTimes: Str("1000")}}, false},
	}

	flat := FromParams(DefaultParams())
	// 与 DefaultParams 逐项对应的手写结构化配置
	structured := Config{
		"min_score":    {Enabled: true, Value: 100},
		"min_rate":     {Enabled: true, Value: 10},
		"min_bzf":      {Enabled: true, Value: 0},
		"max_bzf":      {Enabled: true, Value: 100},
		"min_zhenfu":   {Enabled: true, Value: 5},
		"min_chg_1min": {Enabled: true, Value: 1.5},
		"time_start":   {Enabled: true, Value: "0930"},
		"time_end":     {Enabled: true, Value: "0946"},
	}

	for i, c := range cases {
		assert.Equal(t, c.want, Apply(c.rec, flat), "flat record %d", i)
		assert.Equal(t, c.want, Apply(c.rec, structured), "structured record %d", i)
	}
}

// TestMergeParams_Override 测试覆盖参数优先
func TestMergeParams_Override(t *testing.T) {
	merged := MergeParams(DefaultParams(), map[string]any{"min_score": "150"})
	assert.Equal(t, "150", merged["min_score"])
	assert.Equal(t, 10, merged["min_rate"])
}

// TestFromJSON 测试结构化过滤配置解析
func TestFromJSON(t *testing.T) {
	cfg, err := FromJSON(`{"min_score":{"enabled":true,"value":150},"time_end":{"value":"0940"},"min_rate":{"enabled":false,"value":10}}`)
	assert.NoError(t, err)

	assert.Equal(t, Option{Enabled: true, Value: float64(150)}, cfg["min_score"])
	// enabled 缺省为 true
	assert.Equal(t, Option{Enabled: true, Value: "0940"}, cfg["time_end"])
	assert.False(t, cfg["min_rate"].Enabled)
}

// TestFromJSON_Invalid 测试非对象输入报错
func TestFromJSON_Invalid(t *testing.T) {
	_, err := FromJSON(`[1,2,3]`)
	assert.Error(t, err)

	_, err = FromJSON(`{"min_score": 100}`)
	assert.Error(t, err)
}

// TestFromJSON_Empty 测试空串返回空配置
func TestFromJSON_Empty(t *testing.T) {
	cfg, err := FromJSON("")
	assert.NoError(t, err)
	assert.Empty(t, cfg)
}
