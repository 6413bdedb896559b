package scheduler

import (
	"testing"

	"github.com/storechain-dev/shop-roster/backend/internal/domain"
)

func TestDeriveHints(t *testing.T) {
	days := make(map[int32]domain.RawDayRequirement)
	for day := int32(1); day <= 7; day++ {
		days[day] = openDay(0, 1, 1)
	}

	rotating := testShop(1, domain.ShopRules{DayInDayOut: true}, days)
	plain := testShop(2, domain.ShopRules{}, days)
	incomplete := testShop(3, domain.ShopRules{DayInDayOut: true}, days)

	prior := []domain.PriorWeekAssignment{
		{ShopID: 1, EmployeeID: 11, ShiftType: domain.SlotFull},
		{ShopID: 1, EmployeeID: 12, ShiftType: domain.SlotPM},
		{ShopID: 2, EmployeeID: 21, ShiftType: domain.SlotFull},
		{ShopID: 2, EmployeeID: 22, ShiftType: domain.SlotAM},
		// 门店 3 只有全天班记录，缺少短班搭档
		{ShopID: 3, EmployeeID: 31, ShiftType: domain.SlotFull},
	}

	hints := DeriveHints([]*domain.Shop{rotating, plain, incomplete}, prior)

	if len(hints) != 1 {
		t.Fatalf("期望 1 条轮换提示，实际 %d 条", len(hints))
	}
	if hints[0].ShopID != 1 {
		t.Errorf("提示应属于门店 1，实际门店 %d", hints[0].ShopID)
	}
	if hints[0].PreferFullEmployeeID != 12 {
		t.Errorf("上周上短班的员工 12 本周应接任全天班，实际提示员工 %d", hints[0].PreferFullEmployeeID)
	}
}

func TestDeriveHintsEmptyPriorWeek(t *testing.T) {
	days := make(map[int32]domain.RawDayRequirement)
	for day := int32(1); day <= 7; day++ {
		days[day] = openDay(0, 1, 1)
	}
	shop := testShop(1, domain.ShopRules{DayInDayOut: true}, days)

	if hints := DeriveHints([]*domain.Shop{shop}, nil); len(hints) != 0 {
		t.Errorf("没有上周记录时不应产生提示，实际 %d 条", len(hints))
	}
}
