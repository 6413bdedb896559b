package domain

import "time"

// Status 表示一次排班求解的终态
type Status string

const (
	StatusOptimal    Status = "OPTIMAL"     // 满足所有硬约束且已证明目标值最优
	StatusFeasible   Status = "FEASIBLE"    // 合法但未证明最优（时间预算内未完成证明，或最优解仍存在欠缺覆盖）
	StatusInfeasible Status = "INFEASIBLE"  // 可证明不存在满足所有硬约束的排班
	StatusTimedOut   Status = "TIMED_OUT"   // 时间预算内连一个可行解都没有找到
	StatusInputError Status = "INPUT_ERROR" // 快照本身不合法，求解尚未开始
)

// PriorWeekAssignment 表示上一周周日某门店的班次归属，用于长短班轮换的连续性判断
type PriorWeekAssignment struct {
	ShopID     int64    `json:"shopId"`
	EmployeeID int64    `json:"employeeId"`
	ShiftType  SlotType `json:"shiftType"`
}

// GeneratedShift 表示一条生成的班次记录，仅由 Result Translator 创建，输出后不可变
type GeneratedShift struct {
	Date         time.Time `json:"date"`
	ShopID       int64     `json:"shopId"`
	ShopName     string    `json:"shopName"`
	EmployeeID   int64     `json:"employeeId"`
	EmployeeName string    `json:"employeeName"`
	StartTime    string    `json:"startTime"`
	EndTime      string    `json:"endTime"`
	Hours        float64   `json:"hours"`
	ShiftType    SlotType  `json:"shiftType"`
	Company      string    `json:"company"`
}

// UncoveredDemand 表示某门店某天某类班次未被满足的人数，仅在 FEASIBLE / TIMED_OUT 下可能非空
type UncoveredDemand struct {
	ShopID   int64    `json:"shopId"`
	Day      int32    `json:"day"`
	SlotType SlotType `json:"slotType"`
	Needed   int32    `json:"needed"`
	Assigned int32    `json:"assigned"`
}

// EmployeeSummary 表示某员工本周的排班汇总
type EmployeeSummary struct {
	TotalHours  float64 `json:"totalHours"`
	Target      float64 `json:"target"`
	DaysWorked  int32   `json:"daysWorked"`
	AMCount     int32   `json:"amCount"`
	PMCount     int32   `json:"pmCount"`
	FullCount   int32   `json:"fullCount"`
	OverTarget  bool    `json:"overTarget"`
	UnderTarget bool    `json:"underTarget"`
}

// RosterResult 是排班管线的最终输出
type RosterResult struct {
	WeekStart       time.Time                  `json:"weekStart"`
	Status          Status                     `json:"status"`
	Objective       float64                    `json:"objective"`
	Shifts          []GeneratedShift           `json:"shifts"`
	Uncovered       []UncoveredDemand          `json:"uncovered"`
	EmployeeSummary map[string]EmployeeSummary `json:"employee_summary"`
	Detail          string                     `json:"detail,omitempty"` // INFEASIBLE 时说明是哪个门店哪一天无法覆盖
}
