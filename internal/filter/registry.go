package filter

// Op 过滤比较方向
type Op string

const (
	OpGTE Op = ">="
	OpLTE Op = "<="
)

// Attr 信号记录属性键，过滤器通过它读取记录字段
type Attr string

const (
	AttrScores  Attr = "scores"   // 综合评分
	AttrTimes   Attr = "times"    // 入选时间 HHMM
	AttrBzf     Attr = "bzf"      // 入选时涨幅
	AttrCje     Attr = "cje"      // 成交额
	AttrRates   Attr = "rates"    // 换手率
	AttrOzf     Attr = "ozf"      // 开盘涨幅
	AttrZhenfu  Attr = "zhenfu"   // 振幅
	AttrChg1Min Attr = "chg_1min" // 1分钟涨速
	AttrZsTimes Attr = "zs_times" // 板块系数
	AttrLbs     Attr = "lbs"      // 连板数
	AttrLastZf  Attr = "lastzf"   // 收盘涨幅
)

// Rule 过滤器定义: 检查哪个属性、比较方向、NULL 取值策略。
// NullPass 为 true 的是后期加的字段，旧数据为 NULL 时跳过该过滤
// （兼容历史数据）；建表即有的字段 NULL 不通过。
type Rule struct {
	Attr     Attr
	Op       Op
	NullPass bool
}

// Registry 过滤器注册表: 过滤器名 -> 规则。
// 三个策略共用一张表，具体策略能用哪些 key 由白名单约束。
var Registry = map[string]Rule{
	"min_score":    {Attr: AttrScores, Op: OpGTE},
	"min_rate":     {Attr: AttrRates, Op: OpGTE},
	"min_bzf":      {Attr: AttrBzf, Op: OpGTE},
	"max_bzf":      {Attr: AttrBzf, Op: OpLTE},
	"min_zhenfu":   {Attr: AttrZhenfu, Op: OpGTE, NullPass: true},
	"min_chg_1min": {Attr: AttrChg1Min, Op: OpGTE, NullPass: true},
	"min_ozf":      {Attr: AttrOzf, Op: OpGTE, NullPass: true},
	"min_lbs":      {Attr: AttrLbs, Op: OpGTE, NullPass: true},
	"time_start":   {Attr: AttrTimes, Op: OpGTE},
	"time_end":     {Attr: AttrTimes, Op: OpLTE},
}

// Value 记录属性的一次取值。
// Defined 为 false 表示该策略表没有这个字段（例如 mighty 无连板数），
// 与字段存在但为 NULL 是两码事。
type Value struct {
	Num     float64
	Str     string
	Null    bool
	Defined bool
}

// Num 从可空数值字段构造 Value
func Num(p *float64) Value {
	if p == nil {
		return Value{Null: true, Defined: true}
	}
	return Value{Num: *p, Defined: true}
}

// Str 从时间字符串字段构造 Value，空串视为 NULL
func Str(s string) Value {
	return Value{Str: s, Null: s == "", Defined: true}
}

// Undefined 表示策略表没有该字段
func Undefined() Value {
	return Value{}
}

// Record 可被过滤的信号记录
type Record interface {
	Attr(Attr) Value
}
