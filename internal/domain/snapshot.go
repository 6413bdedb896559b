package domain

import (
	"fmt"
	"time"
)

const (
	DateLayout  = "2006-01-02"
	ClockLayout = "15:04"
)

// RosterSnapshot 是排班引擎的规范化输入快照
// 一旦求解开始，快照在整个求解期间不可变；引擎是快照到终态结果的纯函数
type RosterSnapshot struct {
	WeekStart    time.Time             `json:"weekStart"` // 必须是周一
	Shops        []*Shop               `json:"shops"`
	Employees    []*Employee           `json:"employees"`
	Leaves       []LeaveInterval       `json:"leaves"`
	FixedDaysOff []FixedDayOff         `json:"fixedDaysOff"`
	PriorSunday  []PriorWeekAssignment `json:"priorSunday"`
	TimeBudget   time.Duration         `json:"-"`
}

// DateOf 返回本周第 day 天（1~7 表示周一~周日）对应的日期
func (s *RosterSnapshot) DateOf(day int32) time.Time {
	return s.WeekStart.AddDate(0, 0, int(day-1))
}

// RequestEmployee 是外部请求中的员工记录
type RequestEmployee struct {
	ID               int64   `json:"id" validate:"required"`
	Name             string  `json:"name" validate:"required"`
	Company          string  `json:"company" validate:"required"`
	EmploymentType   string  `json:"employmentType" validate:"required,oneof=full-time part-time"`
	WeeklyHours      float64 `json:"weeklyHours" validate:"min=0"`
	PrimaryShopID    int64   `json:"primaryShopId" validate:"required"`
	SecondaryShopIDs []int64 `json:"secondaryShopIds"`
	ExcludeFromRoster bool   `json:"excludeFromRoster"`
}

// RequestShop 是外部请求中的门店记录
// requirements 与顶层 shopRequirements 同时存在时，以顶层为准
type RequestShop struct {
	ID              int64                        `json:"id" validate:"required"`
	Name            string                       `json:"name" validate:"required"`
	Company         string                       `json:"company" validate:"required"`
	OpenTime        string                       `json:"openTime"`
	CloseTime       string                       `json:"closeTime"`
	Rules           ShopRules                    `json:"rules"`
	SpecialRequests []string                     `json:"specialRequests"`
	Requirements    map[string]RawDayRequirement `json:"requirements"`
}

// RequestLeave 是外部请求中的请假记录
type RequestLeave struct {
	EmployeeID int64  `json:"employeeId" validate:"required"`
	StartDate  string `json:"startDate" validate:"required"`
	EndDate    string `json:"endDate" validate:"required"`
	Status     string `json:"status" validate:"required"`
}

// RosterRequest 是一次排班生成请求的外部负载
// 引擎内部不直接消费该结构，必须先经过 Normalize 转换为规范化快照
type RosterRequest struct {
	WeekStart                string                                  `json:"weekStart" validate:"required"`
	TimeBudgetSeconds        int                                     `json:"timeBudgetSeconds" validate:"min=0"`
	Employees                []RequestEmployee                       `json:"employees" validate:"required,min=1,dive"`
	Shops                    []RequestShop                           `json:"shops" validate:"required,min=1,dive"`
	ShopRequirements         map[string]map[string]RawDayRequirement `json:"shopRequirements"`
	LeaveRequests            []RequestLeave                          `json:"leaveRequests" validate:"dive"`
	FixedDaysOff             map[string]string                       `json:"fixedDaysOff"`
	AMOnlyEmployees          []string                                `json:"amOnlyEmployees"`
	ExcludedEmployeeIDs      []int64                                 `json:"excludedEmployeeIds"`
	PreviousWeekSundayShifts []PriorWeekAssignment                   `json:"previousWeekSundayShifts"`
}

var dayCodes = map[string]int32{
	"mon": 1, "monday": 1,
	"tue": 2, "tuesday": 2,
	"wed": 3, "wednesday": 3,
	"thu": 4, "thursday": 4,
	"fri": 5, "friday": 5,
	"sat": 6, "saturday": 6,
	"sun": 7, "sunday": 7,
}

func parseDayCode(code string) (int32, error) {
	if day, ok := dayCodes[code]; ok {
		return day, nil
	}
	return 0, fmt.Errorf("无法识别的星期标识 %q", code)
}

// 历史负载用 specialRequests 字符串携带规则开关，这里统一折叠进 ShopRules
func applySpecialRequest(rules *ShopRules, request string) error {
	switch request {
	case "mandatory":
		rules.Mandatory = true
	case "day_in_day_out":
		rules.DayInDayOut = true
	case "prefer_full_days":
		rules.PreferFullDays = true
	case "full_day_reduces_am":
		rules.FullDayReducesAM = true
	case "sunday_closed":
		rules.SundayClosed = true
	case "split_preferred":
		rules.SplitPreferred = true
	default:
		return fmt.Errorf("无法识别的门店特殊规则 %q", request)
	}
	return nil
}

// Normalize 把外部请求转换为规范化快照
// 所有按名字引用的字段（fixedDaysOff、amOnlyEmployees）在这里解析为员工 ID，
// 引擎内部不再出现任何字段别名或按名字的分支
func (r *RosterRequest) Normalize() (*RosterSnapshot, error) {
	weekStart, err := time.Parse(DateLayout, r.WeekStart)
	if err != nil {
		return nil, fmt.Errorf("weekStart 格式错误：%w", err)
	}
	if weekStart.Weekday() != time.Monday {
		return nil, fmt.Errorf("weekStart %s 不是周一", r.WeekStart)
	}

	snapshot := &RosterSnapshot{
		WeekStart:   weekStart,
		PriorSunday: r.PreviousWeekSundayShifts,
		TimeBudget:  time.Duration(r.TimeBudgetSeconds) * time.Second,
	}

	// 门店：先取内联 requirements，再用顶层 shopRequirements 覆盖
	shopNames := make(map[string]bool)
	for _, rs := range r.Shops {
		shop := &Shop{
			ID:        rs.ID,
			Name:      rs.Name,
			Company:   rs.Company,
			OpenTime:  rs.OpenTime,
			CloseTime: rs.CloseTime,
			Rules:     rs.Rules,
			Days:      make(map[int32]RawDayRequirement),
		}

		if shopNames[rs.Name] {
			return nil, fmt.Errorf("门店名称 %q 重复", rs.Name)
		}
		shopNames[rs.Name] = true

		for _, request := range rs.SpecialRequests {
			if err := applySpecialRequest(&shop.Rules, request); err != nil {
				return nil, fmt.Errorf("门店 %q 的规则配置错误：%w", rs.Name, err)
			}
		}

		for code, raw := range rs.Requirements {
			day, err := parseDayCode(code)
			if err != nil {
				return nil, fmt.Errorf("门店 %q 的需求配置错误：%w", rs.Name, err)
			}
			shop.Days[day] = raw
		}

		if topLevel, ok := r.ShopRequirements[rs.Name]; ok {
			for code, raw := range topLevel {
				day, err := parseDayCode(code)
				if err != nil {
					return nil, fmt.Errorf("门店 %q 的需求配置错误：%w", rs.Name, err)
				}
				shop.Days[day] = raw
			}
		}

		snapshot.Shops = append(snapshot.Shops, shop)
	}

	// 确认顶层 shopRequirements 没有引用不存在的门店
	for name := range r.ShopRequirements {
		if !shopNames[name] {
			return nil, fmt.Errorf("shopRequirements 引用了不存在的门店 %q", name)
		}
	}

	// 员工：解析排除名单
	excluded := make(map[int64]bool)
	for _, id := range r.ExcludedEmployeeIDs {
		excluded[id] = true
	}

	byName := make(map[string]*Employee)
	duplicatedNames := make(map[string]bool)
	for _, re := range r.Employees {
		employee := &Employee{
			ID:                re.ID,
			Name:              re.Name,
			Company:           re.Company,
			EmploymentType:    EmploymentType(re.EmploymentType),
			WeeklyHours:       re.WeeklyHours,
			PrimaryShopID:     re.PrimaryShopID,
			SecondaryShopIDs:  re.SecondaryShopIDs,
			ExcludeFromRoster: re.ExcludeFromRoster || excluded[re.ID],
		}

		if _, exists := byName[re.Name]; exists {
			duplicatedNames[re.Name] = true
		}
		byName[re.Name] = employee

		snapshot.Employees = append(snapshot.Employees, employee)
	}

	lookupByName := func(name string, field string) (*Employee, error) {
		if duplicatedNames[name] {
			return nil, fmt.Errorf("%s 引用的员工姓名 %q 存在重名，无法解析", field, name)
		}
		employee, ok := byName[name]
		if !ok {
			return nil, fmt.Errorf("%s 引用了不存在的员工 %q", field, name)
		}
		return employee, nil
	}

	for _, name := range r.AMOnlyEmployees {
		employee, err := lookupByName(name, "amOnlyEmployees")
		if err != nil {
			return nil, err
		}
		employee.AMOnly = true
	}

	for name, code := range r.FixedDaysOff {
		employee, err := lookupByName(name, "fixedDaysOff")
		if err != nil {
			return nil, err
		}
		day, err := parseDayCode(code)
		if err != nil {
			return nil, fmt.Errorf("员工 %q 的固定休息日配置错误：%w", name, err)
		}
		snapshot.FixedDaysOff = append(snapshot.FixedDaysOff, FixedDayOff{EmployeeID: employee.ID, Day: day})
	}

	// 请假记录
	for i, rl := range r.LeaveRequests {
		start, err := time.Parse(DateLayout, rl.StartDate)
		if err != nil {
			return nil, fmt.Errorf("第 %d 条请假记录的开始日期格式错误：%w", i+1, err)
		}
		end, err := time.Parse(DateLayout, rl.EndDate)
		if err != nil {
			return nil, fmt.Errorf("第 %d 条请假记录的结束日期格式错误：%w", i+1, err)
		}
		if end.Before(start) {
			return nil, fmt.Errorf("第 %d 条请假记录的结束日期早于开始日期", i+1)
		}
		snapshot.Leaves = append(snapshot.Leaves, LeaveInterval{
			EmployeeID: rl.EmployeeID,
			StartDate:  start,
			EndDate:    end,
			Status:     LeaveStatus(rl.Status),
		})
	}

	return snapshot, nil
}
