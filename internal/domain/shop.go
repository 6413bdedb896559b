package domain

// SlotType 表示班次类别：上午班、下午班或全天班
type SlotType string

const (
	SlotAM   SlotType = "AM"
	SlotPM   SlotType = "PM"
	SlotFull SlotType = "FULL"
)

// TimeWindow 表示一个班次的时间窗口，格式为 "15:04"
type TimeWindow struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// CoveragePattern 表示门店某一天的一种合法人员配置 (上午人数, 下午人数, 全天人数)
// 同一天的多个 pattern 之间是互斥的备选方案，最终只能实现其中一个
type CoveragePattern struct {
	AM   int32 `json:"am"`
	PM   int32 `json:"pm"`
	Full int32 `json:"full"`
}

// ShopRules 表示附加在门店上的排班规则开关
type ShopRules struct {
	Mandatory        bool    `json:"mandatory"`        // 人员配置必须严格满足，不允许欠缺覆盖
	DayInDayOut      bool    `json:"dayInDayOut"`      // 长短班轮换制（周日连续性约束适用）
	PreferFullDays   bool    `json:"preferFullDays"`   // 在存在全天班备选方案时优先选择全天班
	FullDayReducesAM bool    `json:"fullDayReducesAM"` // 一个全天班同时抵扣一个上午班名额
	SundayClosed     bool    `json:"sundayClosed"`
	SundayExactStaff *int32  `json:"sundayExactStaff"` // 周日总人数必须恰好等于该值
	SundayMaxStaff   *int32  `json:"sundayMaxStaff"`   // 周日总人数不得超过该值
	SplitPreferred   bool    `json:"splitPreferred"`  // 历史负载中与 fullDayOnlyDays 配对出现的开关，约束力由 fullDayOnlyDays 承担，这里只透传记录
	FullDayOnlyDays  []int32 `json:"fullDayOnlyDays"` // 这些天只允许全天班覆盖（1~7 表示周一~周日）
}

// RawDayRequirement 是边界层归一化后的单日人员需求配置，尚未经过 Requirement Model 处理
// 要么 Closed 为 true，要么给出 pattern 列表或单个固定的 (am, pm) 人数
type RawDayRequirement struct {
	Closed    bool              `json:"closed"`
	Patterns  []CoveragePattern `json:"patterns"`
	AMCount   *int32            `json:"am"` // 单一固定人数写法，会被归一化为只含一个 pattern 的列表
	PMCount   *int32            `json:"pm"`
	FullCount *int32            `json:"full"`
	AMTimes   []TimeWindow      `json:"amTimes"`
	PMTimes   []TimeWindow      `json:"pmTimes"`
	FullTimes []TimeWindow      `json:"fullTimes"`
}

// DayRequirement 是 Requirement Model 的输出：某门店某天的归一化人员需求
// Patterns 非空时各窗口列表与 pattern 下标对应（下标越界时回退到第一组窗口）
type DayRequirement struct {
	Closed      bool              `json:"closed"`
	Patterns    []CoveragePattern `json:"patterns"`
	AMWindows   []TimeWindow      `json:"amWindows"`
	PMWindows   []TimeWindow      `json:"pmWindows"`
	FullWindows []TimeWindow      `json:"fullWindows"`
}

// Shop 表示一家门店及其每日人员需求配置
// 在一次排班请求中门店数据是只读快照，引擎不会修改它
type Shop struct {
	ID        int64                       `json:"id"`
	Name      string                      `json:"name"`
	Company   string                      `json:"company"`
	OpenTime  string                      `json:"openTime"`
	CloseTime string                      `json:"closeTime"`
	Rules     ShopRules                   `json:"rules"`
	Days      map[int32]RawDayRequirement `json:"days"` // 1~7 表示周一~周日
}
