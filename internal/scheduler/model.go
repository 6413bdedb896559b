package scheduler

import (
	"time"

	"github.com/storechain-dev/shop-roster/backend/internal/domain"
)

// Parameters 控制求解器的时间预算和目标函数权重
// UncoveredPenalty 必须远大于其余权重，保证"先覆盖需求，再谈公平"
type Parameters struct {
	TimeBudget          time.Duration
	HourDeviationWeight float64 // 每平方小时的工时偏差代价
	ContinuityWeight    float64 // 打破长短班轮换提示的代价
	PreferFullWeight    float64 // preferFullDays 门店放弃全天班备选方案的代价
	UncoveredPenalty    float64 // 非强制门店每空缺一个名额的代价
}

func DefaultParameters() *Parameters {
	return &Parameters{
		TimeBudget:          20 * time.Second,
		HourDeviationWeight: 1,
		ContinuityWeight:    50,
		PreferFullWeight:    20,
		UncoveredPenalty:    10000,
	}
}

// decision 表示一条 (门店, 天, 班次类别, 员工) 决策
// employeeID 为 0 表示该名额空缺（只允许出现在非强制门店日）
type decision struct {
	shopID     int64
	day        int32
	patternIdx int
	slot       domain.SlotType
	employeeID int64
}

// slotNeed 表示选定 pattern 后某类班次需要填充的名额
type slotNeed struct {
	slot  domain.SlotType
	count int
	hours float64
}

// patternPlan 是对某个 CoveragePattern 的展开：扣减之后的实际名额和对应时长
type patternPlan struct {
	idx      int
	kinds    []slotNeed
	fullOnly bool // 纯全天班方案（AM、PM 名额均为零）
}

// task 表示搜索树中的一个开放门店日
type task struct {
	shop       *domain.Shop
	day        int32
	req        *domain.DayRequirement
	plans      []patternPlan
	candidates []*domain.Employee // 当天在该门店合法的员工，已按拼音和 ID 排序
	hasFullAlt bool               // 是否存在纯全天班的备选 pattern
	hint       *Hint              // 仅周日的长短班轮换门店非空
}
