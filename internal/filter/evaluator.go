package filter

import "github.com/spf13/cast"

// Option 单个过滤器的启用状态与阈值。
// Value 为数值或字符串（时间过滤器），与持久化的 JSON 表示一致。
type Option struct {
	Enabled bool `json:"enabled"`
	Value   any  `json:"value"`
}

// Config 结构化过滤配置: 过滤器名 -> Option
type Config map[string]Option

// Clone 深拷贝配置
func (c Config) Clone() Config {
	out := make(Config, len(c))
	for k, v := range c {
		out[k] = v
	}
	return out
}

// Apply 判断记录是否通过全部启用的过滤器。
// 各过滤器相互独立，任一不通过立即返回 false；
// 未注册的 key 跳过；记录没有对应字段的过滤器跳过（schema 兼容）。
func Apply(rec Record, cfg Config) bool {
	for key, opt := range cfg {
		if !opt.Enabled {
			continue
		}

		rule, ok := Registry[key]
		if !ok {
			continue
		}

		if !check(rec, rule, opt.Value) {
			return false
		}
	}
	return true
}

// check 执行单条过滤规则
func check(rec Record, rule Rule, threshold any) bool {
	v := rec.Attr(rule.Attr)
	if !v.Defined {
		// 该策略表没有此字段，过滤器退化为 no-op
		return true
	}

	// 时间字段按 4 位字符串比较，空串排最前:
	// 空值不满足下界(>=)，天然满足上界(<=)
	if rule.Attr == AttrTimes {
		th := cast.ToString(threshold)
		if rule.Op == OpGTE {
			return v.Str >= th
		}
		return v.Str <= th
	}

	if v.Null {
		return rule.NullPass
	}

	th := cast.ToFloat64(threshold)
	if rule.Op == OpGTE {
		return v.Num >= th
	}
	return v.Num <= th
}
