package scheduler

import (
	"fmt"
	"time"

	"github.com/storechain-dev/shop-roster/backend/internal/domain"
)

// ConfigError 表示门店的需求配置本身有歧义或矛盾，属于输入错误的一种
type ConfigError struct {
	ShopName string
	Day      int32
	Reason   string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("门店 %q 第 %d 天的需求配置错误：%s", e.ShopName, e.Day, e.Reason)
}

// WeekRequirements 是某门店一周的归一化需求，下标 1~7 对应周一~周日（下标 0 不使用）
type WeekRequirements [8]domain.DayRequirement

func configError(shop *domain.Shop, day int32, format string, args ...any) error {
	return &ConfigError{ShopName: shop.Name, Day: day, Reason: fmt.Sprintf(format, args...)}
}

func validateWindows(shop *domain.Shop, day int32, kind string, windows []domain.TimeWindow) error {
	for _, window := range windows {
		start, err := time.Parse(domain.ClockLayout, window.Start)
		if err != nil {
			return configError(shop, day, "%s 窗口的开始时间 %q 格式错误", kind, window.Start)
		}
		end, err := time.Parse(domain.ClockLayout, window.End)
		if err != nil {
			return configError(shop, day, "%s 窗口的结束时间 %q 格式错误", kind, window.End)
		}
		if !end.After(start) {
			return configError(shop, day, "%s 窗口的结束时间不晚于开始时间", kind)
		}
	}
	return nil
}

// NormalizeRequirements 把门店的原始每日配置归一化为一周的 DayRequirement
// 纯转换，无副作用：
//   - 显式 closed、或 sundayClosed 规则下的周日，产出空需求
//   - 单一固定人数 (am, pm) 写法归一化为只含一个 pattern 的列表
//   - fullDayOnlyDays 强制当天只保留纯全天班的备选方案
//   - 配置了营业窗口却没有任何 pattern 的天视为歧义输入，报 ConfigError
func NormalizeRequirements(shop *domain.Shop) (*WeekRequirements, error) {
	week := &WeekRequirements{}

	fullOnlyDay := make(map[int32]bool)
	for _, day := range shop.Rules.FullDayOnlyDays {
		fullOnlyDay[day] = true
	}

	for day := int32(1); day <= 7; day++ {
		raw, exists := shop.Days[day]

		if day == 7 && shop.Rules.SundayClosed {
			week[day] = domain.DayRequirement{Closed: true}
			continue
		}
		if !exists || raw.Closed {
			week[day] = domain.DayRequirement{Closed: true}
			continue
		}

		patterns := raw.Patterns
		if len(patterns) == 0 && (raw.AMCount != nil || raw.PMCount != nil || raw.FullCount != nil) {
			// 单一固定人数写法
			pattern := domain.CoveragePattern{}
			if raw.AMCount != nil {
				pattern.AM = *raw.AMCount
			}
			if raw.PMCount != nil {
				pattern.PM = *raw.PMCount
			}
			if raw.FullCount != nil {
				pattern.Full = *raw.FullCount
			}
			patterns = []domain.CoveragePattern{pattern}
		}

		hasWindows := len(raw.AMTimes) > 0 || len(raw.PMTimes) > 0 || len(raw.FullTimes) > 0
		if len(patterns) == 0 {
			if hasWindows {
				return nil, configError(shop, day, "配置了营业时间窗口但没有任何覆盖模式")
			}
			week[day] = domain.DayRequirement{Closed: true}
			continue
		}

		for _, pattern := range patterns {
			if pattern.AM < 0 || pattern.PM < 0 || pattern.Full < 0 {
				return nil, configError(shop, day, "覆盖模式的人数不能为负")
			}
		}

		if fullOnlyDay[day] {
			kept := make([]domain.CoveragePattern, 0, len(patterns))
			for _, pattern := range patterns {
				if pattern.Full > 0 && pattern.AM == 0 && pattern.PM == 0 {
					kept = append(kept, pattern)
				}
			}
			if len(kept) == 0 {
				return nil, configError(shop, day, "fullDayOnlyDays 要求全天班覆盖，但没有任何纯全天班的备选方案")
			}
			patterns = kept
		}

		req := domain.DayRequirement{
			Patterns:    patterns,
			AMWindows:   raw.AMTimes,
			PMWindows:   raw.PMTimes,
			FullWindows: raw.FullTimes,
		}

		// 全天班没有显式窗口时回退到门店营业时间；上午/下午班必须显式给出窗口
		if len(req.FullWindows) == 0 {
			if shop.OpenTime == "" || shop.CloseTime == "" {
				if patternsNeed(patterns, domain.SlotFull) {
					return nil, configError(shop, day, "需要全天班但既没有窗口也没有门店营业时间")
				}
			} else {
				req.FullWindows = []domain.TimeWindow{{Start: shop.OpenTime, End: shop.CloseTime}}
			}
		}
		if patternsNeedAM(patterns, &shop.Rules) && len(req.AMWindows) == 0 {
			return nil, configError(shop, day, "需要上午班但没有配置上午时间窗口")
		}
		if patternsNeed(patterns, domain.SlotPM) && len(req.PMWindows) == 0 {
			return nil, configError(shop, day, "需要下午班但没有配置下午时间窗口")
		}

		if err := validateWindows(shop, day, "上午", req.AMWindows); err != nil {
			return nil, err
		}
		if err := validateWindows(shop, day, "下午", req.PMWindows); err != nil {
			return nil, err
		}
		if err := validateWindows(shop, day, "全天", req.FullWindows); err != nil {
			return nil, err
		}

		week[day] = req
	}

	return week, nil
}

func patternsNeed(patterns []domain.CoveragePattern, slot domain.SlotType) bool {
	for _, pattern := range patterns {
		switch slot {
		case domain.SlotPM:
			if pattern.PM > 0 {
				return true
			}
		case domain.SlotFull:
			if pattern.Full > 0 {
				return true
			}
		}
	}
	return false
}

func patternsNeedAM(patterns []domain.CoveragePattern, rules *domain.ShopRules) bool {
	for _, pattern := range patterns {
		if amNeeded(rules, pattern) > 0 {
			return true
		}
	}
	return false
}
