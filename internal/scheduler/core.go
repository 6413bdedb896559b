package scheduler

import (
	"time"

	"github.com/storechain-dev/shop-roster/backend/internal/domain"
)

// searchOutcome 汇总一次分支定界搜索的结果
type searchOutcome struct {
	found         bool
	timedOut      bool
	best          []decision
	bestCost      float64
	bestUncovered int
	deepestTask   int // 搜索到达过的最深门店日，INFEASIBLE 时用来定位卡住的需求
}

// searcher 持有一次搜索的全部可变状态
// 搜索是确定性的深度优先分支定界：任务按 (天, 门店 ID) 排序，候选员工按拼音排序，
// 严格更优才替换当前最优解，因此并列最优时保留枚举顺序上最靠前的方案
type searcher struct {
	params    *Parameters
	tasks     []*task
	employees []*domain.Employee
	targets   map[int64]float64
	deadline  time.Time

	hours     map[int64]float64
	overage   float64 // Σ max(0, 已排工时-目标)²，是最终工时偏差的一个下界，用于剪枝
	assigned  [8]map[int64]bool
	current   []decision
	softCost  float64
	uncovered int

	outcome searchOutcome
}

func newSearcher(params *Parameters, tasks []*task, employees []*domain.Employee, deadline time.Time) *searcher {
	sr := &searcher{
		params:    params,
		tasks:     tasks,
		employees: employees,
		targets:   make(map[int64]float64),
		deadline:  deadline,
		hours:     make(map[int64]float64),
	}

	for day := 1; day <= 7; day++ {
		sr.assigned[day] = make(map[int64]bool)
	}
	for _, employee := range employees {
		sr.targets[employee.ID] = employee.WeeklyHours
		sr.hours[employee.ID] = 0
	}

	return sr
}

func (sr *searcher) run() *searchOutcome {
	sr.solve(0)
	return &sr.outcome
}

func (sr *searcher) expired() bool {
	if !time.Now().Before(sr.deadline) {
		sr.outcome.timedOut = true
		return true
	}
	return false
}

// pruned 判断当前分支是否不可能优于已知最优解
func (sr *searcher) pruned() bool {
	return sr.outcome.found && sr.softCost+sr.params.HourDeviationWeight*sr.overage >= sr.outcome.bestCost
}

// solve 处理第 taskIdx 个门店日；返回 true 表示搜索因时间预算耗尽而中止
func (sr *searcher) solve(taskIdx int) bool {
	if sr.expired() {
		return true
	}

	if taskIdx == len(sr.tasks) {
		total := sr.softCost + sr.finalHourCost()
		if !sr.outcome.found || total < sr.outcome.bestCost {
			sr.outcome.found = true
			sr.outcome.bestCost = total
			sr.outcome.bestUncovered = sr.uncovered
			// 必须深拷贝，后续回溯会修改 current
			sr.outcome.best = append([]decision(nil), sr.current...)
		}
		return false
	}

	if taskIdx > sr.outcome.deepestTask {
		sr.outcome.deepestTask = taskIdx
	}
	if sr.pruned() {
		return false
	}

	t := sr.tasks[taskIdx]
	startLen := len(sr.current)

	// 备选 pattern 互斥，按声明顺序逐个尝试
	for i := range t.plans {
		plan := &t.plans[i]

		penalty := 0.0
		if t.shop.Rules.PreferFullDays && t.hasFullAlt && !plan.fullOnly {
			penalty = sr.params.PreferFullWeight
		}

		sr.softCost += penalty
		aborted := sr.fill(taskIdx, t, plan, 0, kindCount(plan, 0), 0, startLen)
		sr.softCost -= penalty

		if aborted {
			return true
		}
	}

	return false
}

func kindCount(plan *patternPlan, kindIdx int) int {
	if kindIdx < len(plan.kinds) {
		return plan.kinds[kindIdx].count
	}
	return 0
}

// filledSince 统计当前门店日已真正排上人的名额数（不含空缺）
func (sr *searcher) filledSince(startLen int) int {
	filled := 0
	for _, d := range sr.current[startLen:] {
		if d.employeeID != 0 {
			filled++
		}
	}
	return filled
}

// fill 为选定 pattern 的各类名额逐个挑选员工
// 同类名额之间可以互换，因此只按候选下标递增的规范形枚举，避免重复搜索排列
func (sr *searcher) fill(taskIdx int, t *task, plan *patternPlan, kindIdx, remaining, fromIdx, startLen int) bool {
	if sr.expired() {
		return true
	}
	if sr.pruned() {
		return false
	}

	if kindIdx == len(plan.kinds) {
		return sr.finishTask(taskIdx, t, startLen)
	}
	if remaining == 0 {
		return sr.fill(taskIdx, t, plan, kindIdx+1, kindCount(plan, kindIdx+1), 0, startLen)
	}

	kind := plan.kinds[kindIdx]
	day := t.day

	// 周日人数上限：已达上限时不再尝试填人，只剩放弃名额一条路
	underSundayCap := true
	if day == 7 && t.shop.Rules.SundayMaxStaff != nil &&
		sr.filledSince(startLen) >= int(*t.shop.Rules.SundayMaxStaff) {
		underSundayCap = false
	}

	if underSundayCap {
		for i := fromIdx; i < len(t.candidates); i++ {
			employee := t.candidates[i]
			if sr.assigned[day][employee.ID] {
				continue
			}
			if employee.AMOnly && kind.slot != domain.SlotAM {
				continue
			}

			sr.assigned[day][employee.ID] = true
			delta := sr.addHours(employee.ID, kind.hours)
			sr.current = append(sr.current, decision{
				shopID:     t.shop.ID,
				day:        day,
				patternIdx: plan.idx,
				slot:       kind.slot,
				employeeID: employee.ID,
			})

			aborted := sr.fill(taskIdx, t, plan, kindIdx, remaining-1, i+1, startLen)

			sr.current = sr.current[:len(sr.current)-1]
			sr.overage -= delta
			sr.hours[employee.ID] -= kind.hours
			delete(sr.assigned[day], employee.ID)

			if aborted {
				return true
			}
		}
	}

	// 非强制门店允许欠缺覆盖：该类剩余名额整体记为空缺（先填前缀再放弃，保持规范形）
	if !t.shop.Rules.Mandatory {
		penalty := sr.params.UncoveredPenalty * float64(remaining)
		sr.softCost += penalty
		sr.uncovered += remaining
		for n := 0; n < remaining; n++ {
			sr.current = append(sr.current, decision{
				shopID:     t.shop.ID,
				day:        day,
				patternIdx: plan.idx,
				slot:       kind.slot,
			})
		}

		aborted := sr.fill(taskIdx, t, plan, kindIdx+1, kindCount(plan, kindIdx+1), 0, startLen)

		sr.current = sr.current[:len(sr.current)-remaining]
		sr.uncovered -= remaining
		sr.softCost -= penalty

		if aborted {
			return true
		}
	}

	return false
}

// addHours 更新员工工时并返回超时偏差下界的增量
func (sr *searcher) addHours(employeeID int64, hours float64) float64 {
	target := sr.targets[employeeID]
	before := overSquared(sr.hours[employeeID], target)
	sr.hours[employeeID] += hours
	delta := overSquared(sr.hours[employeeID], target) - before
	sr.overage += delta
	return delta
}

func overSquared(hours, target float64) float64 {
	d := hours - target
	if d <= 0 {
		return 0
	}
	return d * d
}

// finishTask 在一个门店日的所有名额处理完后做门店日级别的约束检查，然后进入下一个门店日
func (sr *searcher) finishTask(taskIdx int, t *task, startLen int) bool {
	if t.day == 7 {
		filled := sr.filledSince(startLen)
		if t.shop.Rules.SundayExactStaff != nil && filled != int(*t.shop.Rules.SundayExactStaff) {
			return false
		}
		if t.shop.Rules.SundayMaxStaff != nil && filled > int(*t.shop.Rules.SundayMaxStaff) {
			return false
		}
	}

	penalty := 0.0
	if t.hint != nil && !sr.hintHonored(t.hint, startLen) {
		penalty = sr.params.ContinuityWeight
	}

	sr.softCost += penalty
	aborted := sr.solve(taskIdx + 1)
	sr.softCost -= penalty

	return aborted
}

func (sr *searcher) hintHonored(hint *Hint, startLen int) bool {
	for _, d := range sr.current[startLen:] {
		if d.slot == domain.SlotFull && d.employeeID == hint.PreferFullEmployeeID {
			return true
		}
	}
	return false
}

// finalHourCost 计算整周结束后的工时偏差代价（双向：超出和不足都算）
// 按员工切片顺序累加，浮点求和顺序固定，保证代价值可复现
func (sr *searcher) finalHourCost() float64 {
	cost := 0.0
	for _, employee := range sr.employees {
		d := sr.hours[employee.ID] - sr.targets[employee.ID]
		cost += d * d
	}
	return cost * sr.params.HourDeviationWeight
}
