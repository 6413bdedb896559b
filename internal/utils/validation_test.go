package utils

import (
	"testing"
	"time"

	"github.com/storechain-dev/shop-roster/backend/internal/domain"
)

var testMonday = time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)

func validSnapshot() *domain.RosterSnapshot {
	days := make(map[int32]domain.RawDayRequirement)
	for day := int32(1); day <= 7; day++ {
		days[day] = domain.RawDayRequirement{Closed: true}
	}

	return &domain.RosterSnapshot{
		WeekStart: testMonday,
		Shops: []*domain.Shop{{
			ID:      1,
			Name:    "旗舰店",
			Company: "华东连锁",
			Days:    days,
		}},
		Employees: []*domain.Employee{{
			ID:            1,
			Name:          "张伟",
			Company:       "华东连锁",
			WeeklyHours:   40,
			PrimaryShopID: 1,
		}},
	}
}

func TestValidateRosterSnapshot(t *testing.T) {
	if err := ValidateRosterSnapshot(validSnapshot()); err != nil {
		t.Fatalf("合法快照不应报错：%v", err)
	}

	cases := []struct {
		name   string
		mutate func(*domain.RosterSnapshot)
	}{
		{"周起始日期不是周一", func(s *domain.RosterSnapshot) {
			s.WeekStart = testMonday.AddDate(0, 0, 1)
		}},
		{"没有任何门店", func(s *domain.RosterSnapshot) {
			s.Shops = nil
		}},
		{"没有任何员工", func(s *domain.RosterSnapshot) {
			s.Employees = nil
		}},
		{"门店 ID 重复", func(s *domain.RosterSnapshot) {
			s.Shops = append(s.Shops, s.Shops[0])
		}},
		{"门店 ID 非正数", func(s *domain.RosterSnapshot) {
			s.Shops[0].ID = 0
		}},
		{"员工 ID 非正数", func(s *domain.RosterSnapshot) {
			s.Employees[0].ID = 0
			s.Employees[0].PrimaryShopID = 1
		}},
		{"缺少某天的需求配置", func(s *domain.RosterSnapshot) {
			delete(s.Shops[0].Days, 3)
		}},
		{"员工的主门店不存在", func(s *domain.RosterSnapshot) {
			s.Employees[0].PrimaryShopID = 99
		}},
		{"目标工时为负", func(s *domain.RosterSnapshot) {
			s.Employees[0].WeeklyHours = -1
		}},
		{"请假引用了不存在的员工", func(s *domain.RosterSnapshot) {
			s.Leaves = []domain.LeaveInterval{{EmployeeID: 99, StartDate: testMonday, EndDate: testMonday}}
		}},
		{"固定休息日的天非法", func(s *domain.RosterSnapshot) {
			s.FixedDaysOff = []domain.FixedDayOff{{EmployeeID: 1, Day: 8}}
		}},
		{"周日恰好人数与上限矛盾", func(s *domain.RosterSnapshot) {
			exact, max := int32(3), int32(2)
			s.Shops[0].Rules.SundayExactStaff = &exact
			s.Shops[0].Rules.SundayMaxStaff = &max
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			snapshot := validSnapshot()
			tc.mutate(snapshot)
			if err := ValidateRosterSnapshot(snapshot); err == nil {
				t.Error("期望校验失败，实际通过")
			}
		})
	}
}

func TestValidateRosterSnapshotAllowsMissingSundayWhenClosed(t *testing.T) {
	snapshot := validSnapshot()
	snapshot.Shops[0].Rules.SundayClosed = true
	delete(snapshot.Shops[0].Days, 7)

	if err := ValidateRosterSnapshot(snapshot); err != nil {
		t.Errorf("sundayClosed 下允许缺省周日配置，实际报错：%v", err)
	}
}

func TestValidateRosterResult(t *testing.T) {
	snapshot := validSnapshot()

	shift := domain.GeneratedShift{
		Date:         testMonday,
		ShopID:       1,
		ShopName:     "旗舰店",
		EmployeeID:   1,
		EmployeeName: "张伟",
		StartTime:    "09:00",
		EndTime:      "13:00",
		Hours:        4,
		ShiftType:    domain.SlotAM,
		Company:      "华东连锁",
	}

	result := &domain.RosterResult{
		WeekStart: testMonday,
		Status:    domain.StatusOptimal,
		Shifts:    []domain.GeneratedShift{shift},
	}
	if err := ValidateRosterResult(result, snapshot); err != nil {
		t.Fatalf("合法结果不应报错：%v", err)
	}

	// 同一天被排了两个班次
	result.Shifts = []domain.GeneratedShift{shift, shift}
	if err := ValidateRosterResult(result, snapshot); err == nil {
		t.Error("一人一天两个班次应报错")
	}

	// 请假期间被排班
	snapshot.Leaves = []domain.LeaveInterval{{
		EmployeeID: 1,
		StartDate:  testMonday,
		EndDate:    testMonday,
		Status:     domain.LeaveApproved,
	}}
	result.Shifts = []domain.GeneratedShift{shift}
	if err := ValidateRosterResult(result, snapshot); err == nil {
		t.Error("请假期间被排班应报错")
	}

	// 被排除的员工出现在结果中
	snapshot = validSnapshot()
	snapshot.Employees[0].ExcludeFromRoster = true
	if err := ValidateRosterResult(result, snapshot); err == nil {
		t.Error("被排除的员工出现在结果中应报错")
	}
}
