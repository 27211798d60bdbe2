package filter

import (
	"fmt"
	"sort"
	"strings"
)

// allowedFilters 各策略允许的过滤器 key 白名单。
// mighty 没有连板池，min_lbs 对它无意义。
var allowedFilters = map[string]map[string]struct{}{
	"mighty": toSet(
		"min_score", "min_rate", "min_bzf", "max_bzf",
		"min_zhenfu", "min_chg_1min", "time_start", "time_end", "min_ozf",
	),
	"lianban": toSet(
		"min_score", "min_rate", "min_bzf", "max_bzf",
		"min_zhenfu", "min_chg_1min", "time_start", "time_end", "min_ozf", "min_lbs",
	),
	"jjmighty": toSet(
		"min_score", "min_rate", "min_bzf", "max_bzf",
		"min_zhenfu", "min_chg_1min", "time_start", "time_end", "min_ozf", "min_lbs",
	),
}

// defaultDisplayFilters 各策略默认展示过滤（兼容此前的硬编码值）
var defaultDisplayFilters = map[string]Config{
	"mighty": {
		"min_score":    {Enabled: true, Value: 100},
		"min_rate":     {Enabled: true, Value: 10},
		"min_zhenfu":   {Enabled: true, Value: 5},
		"min_chg_1min": {Enabled: true, Value: 1.5},
	},
	"lianban": {
		"min_score":    {Enabled: true, Value: 100},
		"min_rate":     {Enabled: true, Value: 10},
		"min_zhenfu":   {Enabled: true, Value: 5},
		"min_chg_1min": {Enabled: true, Value: 1.5},
	},
	"jjmighty": {
		"min_score":    {Enabled: true, Value: 100},
		"min_rate":     {Enabled: true, Value: 10},
		"min_zhenfu":   {Enabled: true, Value: 5},
		"min_chg_1min": {Enabled: true, Value: 1.5},
		"min_ozf":      {Enabled: true, Value: 3},
	},
}

func toSet(keys ...string) map[string]struct{} {
	s := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		s[k] = struct{}{}
	}
	return s
}

// AllowedFilters 返回策略的过滤器白名单
func AllowedFilters(variant string) map[string]struct{} {
	return allowedFilters[variant]
}

// DefaultDisplayFilters 返回策略的默认展示过滤配置
func DefaultDisplayFilters(variant string) Config {
	return defaultDisplayFilters[variant].Clone()
}

// ValidateConfig 校验配置中的 key 是否都在策略白名单内，
// 违规 key 全部列出，便于一次改完。
func ValidateConfig(variant string, cfg Config) error {
	allowed, ok := allowedFilters[variant]
	if !ok {
		return fmt.Errorf("未知策略: %s", variant)
	}

	var bad []string
	for key := range cfg {
		if _, ok = allowed[key]; !ok {
			bad = append(bad, key)
		}
	}
	if len(bad) > 0 {
		sort.Strings(bad)
		return fmt.Errorf("策略 %s 不支持的过滤器: %s", variant, strings.Join(bad, ", "))
	}

	return nil
}
