package scheduler

import (
	"fmt"
	"sort"

	"github.com/storechain-dev/shop-roster/backend/internal/domain"
	"github.com/storechain-dev/shop-roster/backend/internal/utils"
)

const hoursEpsilon = 1e-9

func slotRank(slot domain.SlotType) int {
	switch slot {
	case domain.SlotAM:
		return 0
	case domain.SlotPM:
		return 1
	default:
		return 2
	}
}

// translate 把搜索结果翻译为对外的排班结果
// 翻译是纯函数：不修改决策，不做任何求解，只负责展开班次、聚合空缺和汇总工时
func (s *Scheduler) translate(outcome *searchOutcome, tasks []*task) *domain.RosterResult {
	result := &domain.RosterResult{
		WeekStart:       s.snapshot.WeekStart,
		Shifts:          make([]domain.GeneratedShift, 0),
		Uncovered:       make([]domain.UncoveredDemand, 0),
		EmployeeSummary: make(map[string]domain.EmployeeSummary),
	}

	switch {
	case outcome.timedOut && outcome.found:
		// 预算耗尽但手里有可行解：交付它，不声称最优
		result.Status = domain.StatusFeasible
	case outcome.timedOut:
		result.Status = domain.StatusTimedOut
		result.Detail = "时间预算内未找到任何可行解"
	case outcome.found && outcome.bestUncovered == 0:
		result.Status = domain.StatusOptimal
	case outcome.found:
		// 搜索做完了，最优解里仍有空缺名额：合法但不算最优
		result.Status = domain.StatusFeasible
	default:
		result.Status = domain.StatusInfeasible
		if outcome.deepestTask < len(tasks) {
			t := tasks[outcome.deepestTask]
			result.Detail = fmt.Sprintf("门店 %q 第 %d 天的需求无法在硬约束下满足", t.shop.Name, t.day)
		}
	}

	if !outcome.found {
		s.summarize(result)
		return result
	}

	result.Objective = outcome.bestCost

	shopByID := make(map[int64]*domain.Shop)
	for _, shop := range s.shops {
		shopByID[shop.ID] = shop
	}
	employeeByID := make(map[int64]*domain.Employee)
	for _, employee := range s.employees {
		employeeByID[employee.ID] = employee
	}

	type demandKey struct {
		shopID int64
		day    int32
		slot   domain.SlotType
	}
	needed := make(map[demandKey]int32)
	assigned := make(map[demandKey]int32)

	for _, d := range outcome.best {
		key := demandKey{shopID: d.shopID, day: d.day, slot: d.slot}
		needed[key]++

		if d.employeeID == 0 {
			continue
		}
		assigned[key]++

		shop := shopByID[d.shopID]
		employee := employeeByID[d.employeeID]
		req := &s.requirements[shop.ID][d.day]
		window := windowFor(req, d.patternIdx, d.slot)

		result.Shifts = append(result.Shifts, domain.GeneratedShift{
			Date:         s.snapshot.DateOf(d.day),
			ShopID:       shop.ID,
			ShopName:     shop.Name,
			EmployeeID:   employee.ID,
			EmployeeName: employee.Name,
			StartTime:    window.Start,
			EndTime:      window.End,
			Hours:        windowHours(window),
			ShiftType:    d.slot,
			Company:      shop.Company,
		})
	}

	for key, total := range needed {
		if filled := assigned[key]; filled < total {
			result.Uncovered = append(result.Uncovered, domain.UncoveredDemand{
				ShopID:   key.shopID,
				Day:      key.day,
				SlotType: key.slot,
				Needed:   total,
				Assigned: filled,
			})
		}
	}

	sort.Slice(result.Shifts, func(i, j int) bool {
		a, b := &result.Shifts[i], &result.Shifts[j]
		if !a.Date.Equal(b.Date) {
			return a.Date.Before(b.Date)
		}
		if a.ShopID != b.ShopID {
			return a.ShopID < b.ShopID
		}
		if ra, rb := slotRank(a.ShiftType), slotRank(b.ShiftType); ra != rb {
			return ra < rb
		}
		return utils.CollationKey(a.EmployeeName) < utils.CollationKey(b.EmployeeName)
	})

	sort.Slice(result.Uncovered, func(i, j int) bool {
		a, b := &result.Uncovered[i], &result.Uncovered[j]
		if a.Day != b.Day {
			return a.Day < b.Day
		}
		if a.ShopID != b.ShopID {
			return a.ShopID < b.ShopID
		}
		return slotRank(a.SlotType) < slotRank(b.SlotType)
	})

	s.summarize(result)
	return result
}

// summarize 为快照中的每个员工生成工时汇总，没被排班的员工也会出现（工时为零）
func (s *Scheduler) summarize(result *domain.RosterResult) {
	for _, employee := range s.employees {
		result.EmployeeSummary[employee.Name] = domain.EmployeeSummary{
			Target: employee.WeeklyHours,
		}
	}

	for _, shift := range result.Shifts {
		summary := result.EmployeeSummary[shift.EmployeeName]
		summary.TotalHours += shift.Hours
		summary.DaysWorked++
		switch shift.ShiftType {
		case domain.SlotAM:
			summary.AMCount++
		case domain.SlotPM:
			summary.PMCount++
		case domain.SlotFull:
			summary.FullCount++
		}
		result.EmployeeSummary[shift.EmployeeName] = summary
	}

	for name, summary := range result.EmployeeSummary {
		summary.OverTarget = summary.TotalHours > summary.Target+hoursEpsilon
		summary.UnderTarget = summary.TotalHours < summary.Target-hoursEpsilon
		result.EmployeeSummary[name] = summary
	}
}
