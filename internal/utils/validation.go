package utils

import (
	"errors"
	"fmt"
	"time"

	"github.com/storechain-dev/shop-roster/backend/internal/domain"
)

// ValidateRosterSnapshot 在求解开始前对规范化快照做交叉引用检查
// 任何错误都属于输入错误（INPUT_ERROR），不会进入求解器
func ValidateRosterSnapshot(snapshot *domain.RosterSnapshot) error {
	if snapshot.WeekStart.IsZero() {
		return errors.New("快照缺少 weekStart")
	}
	if snapshot.WeekStart.Weekday() != time.Monday {
		return fmt.Errorf("weekStart %s 不是周一", snapshot.WeekStart.Format(domain.DateLayout))
	}
	if len(snapshot.Shops) == 0 {
		return errors.New("快照中没有任何门店")
	}
	if len(snapshot.Employees) == 0 {
		return errors.New("快照中没有任何员工")
	}

	shopByID := make(map[int64]*domain.Shop)
	for _, shop := range snapshot.Shops {
		if shop.ID <= 0 {
			return fmt.Errorf("门店 ID %d 非法，必须为正数", shop.ID)
		}
		if _, exists := shopByID[shop.ID]; exists {
			return fmt.Errorf("门店 ID %d 重复", shop.ID)
		}
		shopByID[shop.ID] = shop

		for day := range shop.Days {
			if day < 1 || day > 7 {
				return fmt.Errorf("门店 %q 的需求配置包含非法的天 %d", shop.Name, day)
			}
		}

		// 每一天都必须有需求配置；周日在 sundayClosed 下允许缺省
		for day := int32(1); day <= 7; day++ {
			if _, ok := shop.Days[day]; !ok {
				if day == 7 && shop.Rules.SundayClosed {
					continue
				}
				return fmt.Errorf("门店 %q 缺少第 %d 天的需求配置", shop.Name, day)
			}
		}

		for _, day := range shop.Rules.FullDayOnlyDays {
			if day < 1 || day > 7 {
				return fmt.Errorf("门店 %q 的 fullDayOnlyDays 包含非法的天 %d", shop.Name, day)
			}
		}

		if shop.Rules.SundayExactStaff != nil && *shop.Rules.SundayExactStaff < 0 {
			return fmt.Errorf("门店 %q 的 sundayExactStaff 不能为负", shop.Name)
		}
		if shop.Rules.SundayMaxStaff != nil && *shop.Rules.SundayMaxStaff < 0 {
			return fmt.Errorf("门店 %q 的 sundayMaxStaff 不能为负", shop.Name)
		}
		if shop.Rules.SundayExactStaff != nil && shop.Rules.SundayMaxStaff != nil &&
			*shop.Rules.SundayExactStaff > *shop.Rules.SundayMaxStaff {
			return fmt.Errorf("门店 %q 的 sundayExactStaff 超过了 sundayMaxStaff", shop.Name)
		}
	}

	employeeByID := make(map[int64]*domain.Employee)
	for _, employee := range snapshot.Employees {
		if employee.ID <= 0 {
			return fmt.Errorf("员工 ID %d 非法，必须为正数", employee.ID)
		}
		if _, exists := employeeByID[employee.ID]; exists {
			return fmt.Errorf("员工 ID %d 重复", employee.ID)
		}
		employeeByID[employee.ID] = employee

		if employee.WeeklyHours < 0 {
			return fmt.Errorf("员工 %q 的每周目标工时不能为负", employee.Name)
		}
		if _, ok := shopByID[employee.PrimaryShopID]; !ok {
			return fmt.Errorf("员工 %q 的主门店 %d 不存在", employee.Name, employee.PrimaryShopID)
		}
		for _, shopID := range employee.SecondaryShopIDs {
			if _, ok := shopByID[shopID]; !ok {
				return fmt.Errorf("员工 %q 的副门店 %d 不存在", employee.Name, shopID)
			}
		}
	}

	for i, leave := range snapshot.Leaves {
		if _, ok := employeeByID[leave.EmployeeID]; !ok {
			return fmt.Errorf("第 %d 条请假记录引用了不存在的员工 %d", i+1, leave.EmployeeID)
		}
		if leave.EndDate.Before(leave.StartDate) {
			return fmt.Errorf("第 %d 条请假记录的结束日期早于开始日期", i+1)
		}
	}

	for i, off := range snapshot.FixedDaysOff {
		if _, ok := employeeByID[off.EmployeeID]; !ok {
			return fmt.Errorf("第 %d 条固定休息日引用了不存在的员工 %d", i+1, off.EmployeeID)
		}
		if off.Day < 1 || off.Day > 7 {
			return fmt.Errorf("第 %d 条固定休息日包含非法的天 %d", i+1, off.Day)
		}
	}

	for i, prior := range snapshot.PriorSunday {
		if _, ok := shopByID[prior.ShopID]; !ok {
			return fmt.Errorf("第 %d 条上周班次记录引用了不存在的门店 %d", i+1, prior.ShopID)
		}
		if _, ok := employeeByID[prior.EmployeeID]; !ok {
			return fmt.Errorf("第 %d 条上周班次记录引用了不存在的员工 %d", i+1, prior.EmployeeID)
		}
	}

	return nil
}

// ValidateRosterResult 在引擎返回前对生成的班次做一次兜底校验
// 检查的都是硬约束不变量，正常情况下不应该失败
func ValidateRosterResult(result *domain.RosterResult, snapshot *domain.RosterSnapshot) error {
	shopByID := make(map[int64]*domain.Shop)
	for _, shop := range snapshot.Shops {
		shopByID[shop.ID] = shop
	}
	employeeByID := make(map[int64]*domain.Employee)
	for _, employee := range snapshot.Employees {
		employeeByID[employee.ID] = employee
	}

	type dayKey struct {
		employeeID int64
		date       string
	}
	seen := make(map[dayKey]bool)

	for _, shift := range result.Shifts {
		employee, ok := employeeByID[shift.EmployeeID]
		if !ok {
			return fmt.Errorf("班次引用了不存在的员工 %d", shift.EmployeeID)
		}
		shop, ok := shopByID[shift.ShopID]
		if !ok {
			return fmt.Errorf("班次引用了不存在的门店 %d", shift.ShopID)
		}

		if employee.ExcludeFromRoster {
			return fmt.Errorf("被排除的员工 %q 出现在了排班结果中", employee.Name)
		}
		if !employee.IsMemberOf(shop.ID) {
			return fmt.Errorf("员工 %q 不属于门店 %q 却被排了班", employee.Name, shop.Name)
		}
		if employee.Company != shop.Company {
			return fmt.Errorf("员工 %q 被跨公司排到了门店 %q", employee.Name, shop.Name)
		}
		if employee.AMOnly && shift.ShiftType != domain.SlotAM {
			return fmt.Errorf("只能上上午班的员工 %q 被排了 %s 班", employee.Name, shift.ShiftType)
		}

		key := dayKey{employeeID: shift.EmployeeID, date: shift.Date.Format(domain.DateLayout)}
		if seen[key] {
			return fmt.Errorf("员工 %q 在 %s 被排了两个班次", employee.Name, key.date)
		}
		seen[key] = true

		for _, leave := range snapshot.Leaves {
			if leave.Status == domain.LeaveApproved && leave.EmployeeID == shift.EmployeeID && leave.Covers(shift.Date) {
				return fmt.Errorf("员工 %q 在请假期间 %s 被排了班", employee.Name, key.date)
			}
		}
	}

	return nil
}
