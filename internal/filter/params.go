package filter

import (
	"fmt"

	"github.com/tidwall/gjson"
)

// DefaultParams 旧版扁平参数默认值（隐式全部启用）
func DefaultParams() map[string]any {
	return map[string]any{
		"min_score":    100,
		"min_rate":     10,
		"min_bzf":      0,
		"max_bzf":      100,
		"min_zhenfu":   5,
		"min_chg_1min": 1.5,
		"time_start":   "0930",
		"time_end":     "0946",
	}
}

// FromParams 把旧版扁平参数转为结构化过滤配置。
// 只转注册表里存在的 key，逐项无损: 值原样保留、全部启用。
func FromParams(params map[string]any) Config {
	cfg := make(Config, len(params))
	for key, val := range params {
		if _, ok := Registry[key]; !ok {
			continue
		}
		cfg[key] = Option{Enabled: true, Value: val}
	}
	return cfg
}

// MergeParams 合并扁平参数，override 覆盖 base
func MergeParams(base, override map[string]any) map[string]any {
	merged := make(map[string]any, len(base)+len(override))
	for k, v := range base {
		merged[k] = v
	}
	for k, v := range override {
		merged[k] = v
	}
	return merged
}

// FromJSON 解析结构化过滤配置 JSON:
//
//	{"min_score": {"enabled": true, "value": 100}, "time_end": {"enabled": true, "value": "0946"}}
//
// enabled 缺省为 true，与旧版持久化数据兼容。
func FromJSON(data string) (Config, error) {
	if data == "" {
		return Config{}, nil
	}

	parsed := gjson.Parse(data)
	if !parsed.IsObject() {
		return nil, fmt.Errorf("过滤配置必须是 JSON 对象: %s", data)
	}

	cfg := Config{}
	var parseErr error
	parsed.ForEach(func(key, value gjson.Result) bool {
		if !value.IsObject() {
			parseErr = fmt.Errorf("过滤器 %s 配置必须是对象", key.String())
			return false
		}

		enabled := true
		if e := value.Get("enabled"); e.Exists() {
			enabled = e.Bool()
		}

		cfg[key.String()] = Option{
			Enabled: enabled,
			Value:   value.Get("value").Value(),
		}
		return true
	})
	if parseErr != nil {
		return nil, parseErr
	}

	return cfg, nil
}
