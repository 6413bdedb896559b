package domain

import (
	"testing"
	"time"
)

func baseRequest() *RosterRequest {
	return &RosterRequest{
		WeekStart: "2026-01-05",
		Employees: []RequestEmployee{
			{ID: 1, Name: "张伟", Company: "华东连锁", EmploymentType: "full-time", WeeklyHours: 40, PrimaryShopID: 1},
			{ID: 2, Name: "李娜", Company: "华东连锁", EmploymentType: "part-time", WeeklyHours: 20, PrimaryShopID: 1},
		},
		Shops: []RequestShop{{
			ID:              1,
			Name:            "旗舰店",
			Company:         "华东连锁",
			OpenTime:        "09:00",
			CloseTime:       "17:00",
			SpecialRequests: []string{"mandatory", "sunday_closed"},
			Requirements: map[string]RawDayRequirement{
				"mon": {Closed: true},
			},
		}},
	}
}

func TestNormalizeResolvesNamesAndRules(t *testing.T) {
	req := baseRequest()
	req.AMOnlyEmployees = []string{"李娜"}
	req.FixedDaysOff = map[string]string{"张伟": "wed"}
	req.ExcludedEmployeeIDs = []int64{2}
	req.LeaveRequests = []RequestLeave{
		{EmployeeID: 1, StartDate: "2026-01-07", EndDate: "2026-01-08", Status: "approved"},
	}

	snapshot, err := req.Normalize()
	if err != nil {
		t.Fatalf("规范化失败：%v", err)
	}

	if !snapshot.WeekStart.Equal(time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("weekStart 不正确：%v", snapshot.WeekStart)
	}

	shop := snapshot.Shops[0]
	if !shop.Rules.Mandatory || !shop.Rules.SundayClosed {
		t.Errorf("specialRequests 未折叠进规则：%+v", shop.Rules)
	}
	if !shop.Days[1].Closed {
		t.Error("内联 requirements 未生效")
	}

	var zhangwei, lina *Employee
	for _, employee := range snapshot.Employees {
		switch employee.Name {
		case "张伟":
			zhangwei = employee
		case "李娜":
			lina = employee
		}
	}
	if !lina.AMOnly {
		t.Error("amOnlyEmployees 未按姓名解析")
	}
	if !lina.ExcludeFromRoster {
		t.Error("excludedEmployeeIds 未生效")
	}
	if zhangwei.AMOnly || zhangwei.ExcludeFromRoster {
		t.Errorf("张伟不应被标记：%+v", zhangwei)
	}

	if len(snapshot.FixedDaysOff) != 1 || snapshot.FixedDaysOff[0].EmployeeID != 1 || snapshot.FixedDaysOff[0].Day != 3 {
		t.Errorf("固定休息日解析不正确：%+v", snapshot.FixedDaysOff)
	}

	if len(snapshot.Leaves) != 1 || snapshot.Leaves[0].Status != LeaveApproved {
		t.Errorf("请假记录解析不正确：%+v", snapshot.Leaves)
	}
}

func TestNormalizeTopLevelRequirementsOverrideInline(t *testing.T) {
	req := baseRequest()
	req.ShopRequirements = map[string]map[string]RawDayRequirement{
		"旗舰店": {"monday": {AMCount: i32t(2)}},
	}

	snapshot, err := req.Normalize()
	if err != nil {
		t.Fatalf("规范化失败：%v", err)
	}

	day := snapshot.Shops[0].Days[1]
	if day.Closed {
		t.Error("顶层 shopRequirements 应覆盖内联配置")
	}
	if day.AMCount == nil || *day.AMCount != 2 {
		t.Errorf("覆盖后的配置不正确：%+v", day)
	}
}

func TestNormalizeErrors(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*RosterRequest)
	}{
		{"weekStart 格式错误", func(r *RosterRequest) {
			r.WeekStart = "2026/01/05"
		}},
		{"weekStart 不是周一", func(r *RosterRequest) {
			r.WeekStart = "2026-01-06"
		}},
		{"无法识别的特殊规则", func(r *RosterRequest) {
			r.Shops[0].SpecialRequests = []string{"always_open"}
		}},
		{"无法识别的星期标识", func(r *RosterRequest) {
			r.Shops[0].Requirements = map[string]RawDayRequirement{"noday": {}}
		}},
		{"shopRequirements 引用了不存在的门店", func(r *RosterRequest) {
			r.ShopRequirements = map[string]map[string]RawDayRequirement{"幽灵店": {}}
		}},
		{"amOnlyEmployees 引用了不存在的员工", func(r *RosterRequest) {
			r.AMOnlyEmployees = []string{"不存在"}
		}},
		{"按姓名引用遇到重名", func(r *RosterRequest) {
			r.Employees = append(r.Employees, RequestEmployee{
				ID: 3, Name: "张伟", Company: "华东连锁", EmploymentType: "full-time", PrimaryShopID: 1,
			})
			r.FixedDaysOff = map[string]string{"张伟": "mon"}
		}},
		{"请假结束早于开始", func(r *RosterRequest) {
			r.LeaveRequests = []RequestLeave{{EmployeeID: 1, StartDate: "2026-01-08", EndDate: "2026-01-07", Status: "approved"}}
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := baseRequest()
			tc.mutate(req)
			if _, err := req.Normalize(); err == nil {
				t.Error("期望规范化失败，实际通过")
			}
		})
	}
}

func i32t(v int32) *int32 { return &v }
