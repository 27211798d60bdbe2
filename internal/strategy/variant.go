package strategy

import (
	"fmt"
	"sort"
	"strings"
)

// Variant 一个策略变体，三个变体共用过滤/回测机制，只读不同的信号表
type Variant struct {
	Name  string
	Label string
}

// Variants 支持的策略变体
var Variants = map[string]Variant{
	"mighty":   {Name: "mighty", Label: "强势反包"},
	"lianban":  {Name: "lianban", Label: "连板反包"},
	"jjmighty": {Name: "jjmighty", Label: "竞价强势"},
}

// Names 返回排序后的策略名列表
func Names() []string {
	names := make([]string, 0, len(Variants))
	for name := range Variants {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// UnknownStrategyError 未知策略名，属于用户输入错误，在任何数据访问前拒绝
type UnknownStrategyError struct {
	Name  string
	Valid []string
}

func (e *UnknownStrategyError) Error() string {
	return fmt.Sprintf("未知策略: %s，可选: %s", e.Name, strings.Join(e.Valid, "/"))
}

// Get 解析策略名
func Get(name string) (Variant, error) {
	v, ok := Variants[name]
	if !ok {
		return Variant{}, &UnknownStrategyError{Name: name, Valid: Names()}
	}
	return v, nil
}

// GridRanges 网格搜索的参数取值范围
var GridRanges = map[string][]any{
	"min_score":    {80, 100, 120, 150, 200},
	"min_rate":     {5, 10, 15, 20},
	"min_bzf":      {0, 2, 3, 5},
	"max_bzf":      {6, 8, 10, 100},
	"min_zhenfu":   {3, 5, 7},
	"min_chg_1min": {1.0, 1.5, 2.0},
	"time_start":   {"0930"},
	"time_end":     {"0935", "0940", "0946"},
}
