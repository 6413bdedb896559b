package scheduler

import (
	"errors"
	"testing"

	"github.com/storechain-dev/shop-roster/backend/internal/domain"
)

func TestNormalizeRequirementsSundayClosed(t *testing.T) {
	days := make(map[int32]domain.RawDayRequirement)
	for day := int32(1); day <= 7; day++ {
		days[day] = openDay(1, 1, 0)
	}
	shop := testShop(1, domain.ShopRules{SundayClosed: true}, days)

	week, err := NormalizeRequirements(shop)
	if err != nil {
		t.Fatalf("归一化失败：%v", err)
	}

	if !week[7].Closed {
		t.Error("sundayClosed 规则下周日应为闭店，即使配置了需求")
	}
	for day := int32(1); day <= 6; day++ {
		if week[day].Closed {
			t.Errorf("第 %d 天不应闭店", day)
		}
	}
}

func TestNormalizeRequirementsFixedCounts(t *testing.T) {
	days := map[int32]domain.RawDayRequirement{1: openDay(2, 1, 0)}
	for day := int32(2); day <= 7; day++ {
		days[day] = closedDay()
	}
	shop := testShop(1, domain.ShopRules{}, days)

	week, err := NormalizeRequirements(shop)
	if err != nil {
		t.Fatalf("归一化失败：%v", err)
	}

	patterns := week[1].Patterns
	if len(patterns) != 1 {
		t.Fatalf("单一固定人数写法应归一化为 1 个 pattern，实际 %d 个", len(patterns))
	}
	if patterns[0].AM != 2 || patterns[0].PM != 1 || patterns[0].Full != 0 {
		t.Errorf("pattern 不正确：%+v", patterns[0])
	}
}

func TestNormalizeRequirementsFullWindowFallback(t *testing.T) {
	days := map[int32]domain.RawDayRequirement{1: {FullCount: i32(1)}}
	for day := int32(2); day <= 7; day++ {
		days[day] = closedDay()
	}
	shop := testShop(1, domain.ShopRules{}, days)

	week, err := NormalizeRequirements(shop)
	if err != nil {
		t.Fatalf("归一化失败：%v", err)
	}

	windows := week[1].FullWindows
	if len(windows) != 1 {
		t.Fatalf("全天班窗口应回退到门店营业时间，实际 %d 组窗口", len(windows))
	}
	if windows[0].Start != "09:00" || windows[0].End != "17:00" {
		t.Errorf("回退窗口不正确：%+v", windows[0])
	}
}

func TestNormalizeRequirementsWindowsWithoutPatterns(t *testing.T) {
	days := map[int32]domain.RawDayRequirement{1: {AMTimes: amWindow()}}
	for day := int32(2); day <= 7; day++ {
		days[day] = closedDay()
	}
	shop := testShop(1, domain.ShopRules{}, days)

	_, err := NormalizeRequirements(shop)

	var cfgErr *ConfigError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("配置了窗口却没有 pattern 应报配置错误，实际 %v", err)
	}
	if cfgErr.Day != 1 {
		t.Errorf("错误应指向第 1 天，实际第 %d 天", cfgErr.Day)
	}
}

func TestNormalizeRequirementsFullDayOnlyDays(t *testing.T) {
	days := map[int32]domain.RawDayRequirement{
		1: {
			Patterns:  []domain.CoveragePattern{{AM: 1, PM: 1}, {Full: 1}},
			AMTimes:   amWindow(),
			PMTimes:   pmWindow(),
			FullTimes: fullWindow(),
		},
	}
	for day := int32(2); day <= 7; day++ {
		days[day] = closedDay()
	}
	shop := testShop(1, domain.ShopRules{FullDayOnlyDays: []int32{1}}, days)

	week, err := NormalizeRequirements(shop)
	if err != nil {
		t.Fatalf("归一化失败：%v", err)
	}

	patterns := week[1].Patterns
	if len(patterns) != 1 || patterns[0].Full != 1 {
		t.Fatalf("fullDayOnlyDays 应只保留纯全天班方案，实际 %+v", patterns)
	}

	// 没有任何纯全天班方案时应报错
	days[1] = openDay(1, 1, 0)
	shop = testShop(1, domain.ShopRules{FullDayOnlyDays: []int32{1}}, days)
	if _, err := NormalizeRequirements(shop); err == nil {
		t.Error("没有纯全天班方案却要求全天班覆盖，应报配置错误")
	}
}

func TestNormalizeRequirementsRejectsBadWindow(t *testing.T) {
	days := map[int32]domain.RawDayRequirement{
		1: {
			AMCount: i32(1),
			AMTimes: []domain.TimeWindow{{Start: "13:00", End: "09:00"}},
		},
	}
	for day := int32(2); day <= 7; day++ {
		days[day] = closedDay()
	}
	shop := testShop(1, domain.ShopRules{}, days)

	if _, err := NormalizeRequirements(shop); err == nil {
		t.Error("结束时间早于开始时间的窗口应报配置错误")
	}
}

func TestAMNeededWithFullDayReduction(t *testing.T) {
	cases := []struct {
		name    string
		rules   domain.ShopRules
		pattern domain.CoveragePattern
		want    int32
	}{
		{"未启用抵扣", domain.ShopRules{}, domain.CoveragePattern{AM: 2, Full: 1}, 2},
		{"抵扣一个名额", domain.ShopRules{FullDayReducesAM: true}, domain.CoveragePattern{AM: 2, Full: 1}, 1},
		{"抵扣到下限零", domain.ShopRules{FullDayReducesAM: true}, domain.CoveragePattern{AM: 1, Full: 3}, 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := amNeeded(&tc.rules, tc.pattern); got != tc.want {
				t.Errorf("期望 %d，实际 %d", tc.want, got)
			}
		})
	}
}
