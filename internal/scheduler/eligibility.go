package scheduler

import (
	"github.com/storechain-dev/shop-roster/backend/internal/domain"
)

// Reason 是员工在某门店某天不可排班的原因码
type Reason string

const (
	ReasonEligible       Reason = "eligible"
	ReasonNotMember      Reason = "not-member"       // 主/副门店都不包含该门店
	ReasonExcluded       Reason = "excluded"         // 被标记为不参与自动排班
	ReasonOnLeave        Reason = "on-leave"         // 已批准的请假覆盖当天
	ReasonFixedDayOff    Reason = "fixed-day-off"    // 固定休息日
	ReasonAMOnlyConflict Reason = "am-only-conflict" // 只能上上午班，但当天所有备选方案都没有上午名额
	ReasonWrongCompany   Reason = "wrong-company"    // 跨公司排班不允许
)

// Resolver 回答 (员工, 门店, 天) 三元组是否可以合法排班
// 只被 Assignment Engine 用来在搜索前剪掉不可行的决策变量，本身不产生任何班次
type Resolver struct {
	snapshot    *domain.RosterSnapshot
	leaves      map[int64][]domain.LeaveInterval // 仅保留已批准的请假
	fixedDayOff map[int64]map[int32]bool
}

func NewResolver(snapshot *domain.RosterSnapshot) *Resolver {
	r := &Resolver{
		snapshot:    snapshot,
		leaves:      make(map[int64][]domain.LeaveInterval),
		fixedDayOff: make(map[int64]map[int32]bool),
	}

	for _, leave := range snapshot.Leaves {
		if leave.Status != domain.LeaveApproved {
			continue
		}
		r.leaves[leave.EmployeeID] = append(r.leaves[leave.EmployeeID], leave)
	}

	for _, off := range snapshot.FixedDaysOff {
		if _, exists := r.fixedDayOff[off.EmployeeID]; !exists {
			r.fixedDayOff[off.EmployeeID] = make(map[int32]bool)
		}
		r.fixedDayOff[off.EmployeeID][off.Day] = true
	}

	return r
}

// Check 判断员工当天能否被排到该门店，req 是该门店日的归一化需求
// 无副作用；返回 eligible 或第一个命中的原因码
func (r *Resolver) Check(employee *domain.Employee, shop *domain.Shop, day int32, req *domain.DayRequirement) (bool, Reason) {
	if !employee.IsMemberOf(shop.ID) {
		return false, ReasonNotMember
	}
	if employee.ExcludeFromRoster {
		return false, ReasonExcluded
	}

	date := r.snapshot.DateOf(day)
	for _, leave := range r.leaves[employee.ID] {
		if leave.Covers(date) {
			return false, ReasonOnLeave
		}
	}

	if r.fixedDayOff[employee.ID][day] {
		return false, ReasonFixedDayOff
	}

	if employee.AMOnly && !anyPatternOffersAM(req, &shop.Rules) {
		return false, ReasonAMOnlyConflict
	}

	if employee.Company != shop.Company {
		return false, ReasonWrongCompany
	}

	return true, ReasonEligible
}

// anyPatternOffersAM 判断当天是否存在至少一个含上午名额的备选方案
func anyPatternOffersAM(req *domain.DayRequirement, rules *domain.ShopRules) bool {
	for _, pattern := range req.Patterns {
		if amNeeded(rules, pattern) > 0 {
			return true
		}
	}
	return false
}
