package models

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/utrading/utrading-stock-backtest/internal/filter"
)

func ptr(f float64) *float64 { return &f }

// TestMighty_LbsUndefined 测试 mighty 表没有连板数属性
func TestMighty_LbsUndefined(t *testing.T) {
	m := &Mighty{Cdate: "20250101", Stockid: "sz300001"}

	v := m.Attr(filter.AttrLbs)
	assert.False(t, v.Defined)
}

// TestLianban_LbsDefined 测试 lianban 表的连板数按数值参与过滤
func TestLianban_LbsDefined(t *testing.T) {
	lbs := 4
	m := &Lianban{Cdate: "20250101", Stockid: "sz300001", Lbs: &lbs}

	v := m.Attr(filter.AttrLbs)
	assert.True(t, v.Defined)
	assert.False(t, v.Null)
	assert.Equal(t, 4.0, v.Num)

	m.Lbs = nil
	v = m.Attr(filter.AttrLbs)
	assert.True(t, v.Defined)
	assert.True(t, v.Null)
}

// TestAttr_NullVsValue 测试 NULL 字段与有值字段的区分
func TestAttr_NullVsValue(t *testing.T) {
	m := &Mighty{Scores: ptr(120), Bzf: nil}

	scores := m.Attr(filter.AttrScores)
	assert.True(t, scores.Defined)
	assert.False(t, scores.Null)
	assert.Equal(t, 120.0, scores.Num)

	bzf := m.Attr(filter.AttrBzf)
	assert.True(t, bzf.Defined)
	assert.True(t, bzf.Null)
}

// TestAttr_TimesAsString 测试时间属性按字符串返回，空串视为 NULL
func TestAttr_TimesAsString(t *testing.T) {
	m := &Mighty{Times: "0935"}
	v := m.Attr(filter.AttrTimes)
	assert.Equal(t, "0935", v.Str)
	assert.False(t, v.Null)

	m.Times = ""
	assert.True(t, m.Attr(filter.AttrTimes).Null)
}

// TestClosingChange 测试收盘涨幅回填判断
func TestClosingChange(t *testing.T) {
	m := &Mighty{}
	_, ok := m.ClosingChange()
	assert.False(t, ok)

	m.Lastzf = ptr(7.5)
	got, ok := m.ClosingChange()
	assert.True(t, ok)
	assert.Equal(t, 7.5, got)
}

// TestSnapshot_PreservesNull 测试快照里 NULL 字段保留为 nil
func TestSnapshot_PreservesNull(t *testing.T) {
	m := &Mighty{Scores: ptr(120), Times: "0935"}
	snap := m.Snapshot()

	assert.Equal(t, 120.0, snap["scores"])
	assert.Equal(t, "0935", snap["times"])
	assert.Nil(t, snap["bzf"])
	assert.Nil(t, snap["lastzf"])
}
