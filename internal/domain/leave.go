package domain

import "time"

type LeaveStatus string

const (
	LeaveApproved LeaveStatus = "approved" // 只有已批准的请假会阻止排班
	LeavePending  LeaveStatus = "pending"
	LeaveRejected LeaveStatus = "rejected"
)

// LeaveInterval 表示一段请假区间，起止日期均为闭区间
type LeaveInterval struct {
	EmployeeID int64       `json:"employeeId"`
	StartDate  time.Time   `json:"startDate"`
	EndDate    time.Time   `json:"endDate"`
	Status     LeaveStatus `json:"status"`
}

// Covers 判断某个日期是否落在请假区间内（按自然日比较）
func (l *LeaveInterval) Covers(date time.Time) bool {
	d := date.Truncate(24 * time.Hour)
	return !d.Before(l.StartDate.Truncate(24*time.Hour)) && !d.After(l.EndDate.Truncate(24*time.Hour))
}

// FixedDayOff 表示某员工每周固定休息日（1~7 表示周一~周日），硬性排除
type FixedDayOff struct {
	EmployeeID int64 `json:"employeeId"`
	Day        int32 `json:"day"`
}
