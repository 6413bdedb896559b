package scheduler

import (
	"sort"

	"github.com/storechain-dev/shop-roster/backend/internal/domain"
)

// Hint 是长短班轮换的本周建议：本周周日的全天班最好由 PreferFullEmployeeID 承担
// 这是目标函数层面的软偏好，不是硬约束；无必要地打破它会被计入代价
type Hint struct {
	ShopID               int64
	PreferFullEmployeeID int64
}

// DeriveHints 根据上周周日的班次推导 dayInDayOut 门店的轮换提示
// 上周上全天班的员工本周换短班，由上周上短班的搭档接任全天班
// 上周记录不完整（找不到短班搭档）时不产生提示
func DeriveHints(shops []*domain.Shop, prior []domain.PriorWeekAssignment) []Hint {
	hints := make([]Hint, 0)

	for _, shop := range shops {
		if !shop.Rules.DayInDayOut {
			continue
		}

		var fullHolder, shortHolder int64
		for _, assignment := range prior {
			if assignment.ShopID != shop.ID {
				continue
			}
			switch assignment.ShiftType {
			case domain.SlotFull:
				fullHolder = assignment.EmployeeID
			case domain.SlotAM, domain.SlotPM:
				shortHolder = assignment.EmployeeID
			}
		}

		if fullHolder == 0 || shortHolder == 0 {
			continue
		}

		hints = append(hints, Hint{
			ShopID:               shop.ID,
			PreferFullEmployeeID: shortHolder,
		})
	}

	sort.Slice(hints, func(i, j int) bool {
		return hints[i].ShopID < hints[j].ShopID
	})

	return hints
}
