package domain

import "slices"

type EmploymentType string

const (
	EmploymentFullTime EmploymentType = "full-time"
	EmploymentPartTime EmploymentType = "part-time"
)

// Employee 表示一名可参与排班的员工
type Employee struct {
	ID                int64          `json:"id"`
	Name              string         `json:"name"`
	Company           string         `json:"company"`
	EmploymentType    EmploymentType `json:"employmentType"`
	WeeklyHours       float64        `json:"weeklyHours"` // 每周目标工时（兼职员工目标较低，不应被拉高到全职水平）
	PrimaryShopID     int64          `json:"primaryShopId"`
	SecondaryShopIDs  []int64        `json:"secondaryShopIds"`
	ExcludeFromRoster bool           `json:"excludeFromRoster"` // 不参与自动排班
	AMOnly            bool           `json:"amOnly"`            // 只能上上午班
}

// IsMemberOf 判断员工是否属于某门店（主门店或副门店）
func (e *Employee) IsMemberOf(shopID int64) bool {
	return e.PrimaryShopID == shopID || slices.Contains(e.SecondaryShopIDs, shopID)
}
