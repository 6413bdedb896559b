package domain

import "time"

// RosterGeneratedEvent 是排班生成完成后发布到消息队列的事件
// 下游（报表、门店看板同步）据此拉取新一周的排班
type RosterGeneratedEvent struct {
	WeekStart   string    `json:"weekStart"`
	Status      Status    `json:"status"`
	Objective   float64   `json:"objective"`
	ShiftCount  int       `json:"shiftCount"`
	GeneratedAt time.Time `json:"generatedAt"`
}
