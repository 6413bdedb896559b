package scheduler

import (
	"time"

	"github.com/storechain-dev/shop-roster/backend/internal/domain"
)

// windowHours 返回时间窗口的时长（小时），窗口格式已在归一化阶段校验过
func windowHours(window domain.TimeWindow) float64 {
	start, _ := time.Parse(domain.ClockLayout, window.Start)
	end, _ := time.Parse(domain.ClockLayout, window.End)
	return end.Sub(start).Hours()
}

// windowFor 返回第 patternIdx 个 pattern 下某类班次使用的时间窗口
// 窗口列表少于 pattern 数时回退到第一组窗口
func windowFor(req *domain.DayRequirement, patternIdx int, slot domain.SlotType) domain.TimeWindow {
	var windows []domain.TimeWindow
	switch slot {
	case domain.SlotAM:
		windows = req.AMWindows
	case domain.SlotPM:
		windows = req.PMWindows
	case domain.SlotFull:
		windows = req.FullWindows
	}
	if patternIdx < len(windows) {
		return windows[patternIdx]
	}
	return windows[0]
}

// amNeeded 返回扣减后的上午班名额：fullDayReducesAM 时每个全天班抵扣一个上午名额，下限为零
func amNeeded(rules *domain.ShopRules, pattern domain.CoveragePattern) int32 {
	if !rules.FullDayReducesAM {
		return pattern.AM
	}
	if pattern.Full >= pattern.AM {
		return 0
	}
	return pattern.AM - pattern.Full
}

func isFullOnly(rules *domain.ShopRules, pattern domain.CoveragePattern) bool {
	return pattern.Full > 0 && amNeeded(rules, pattern) == 0 && pattern.PM == 0
}
