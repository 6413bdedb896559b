package handler

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/storechain-dev/shop-roster/backend/internal/domain"
	"github.com/storechain-dev/shop-roster/backend/internal/scheduler"
	"github.com/storechain-dev/shop-roster/backend/internal/utils"
)

// inputErrorResponse 把输入错误包装成 INPUT_ERROR 终态返回，求解不会开始
func (h *Handler) inputErrorResponse(w http.ResponseWriter, r *http.Request, weekStart time.Time, err error) {
	h.writeJSON(w, r, http.StatusOK, Response{
		Success: false,
		Message: err.Error(),
		Data: &domain.RosterResult{
			WeekStart:       weekStart,
			Status:          domain.StatusInputError,
			Shifts:          make([]domain.GeneratedShift, 0),
			Uncovered:       make([]domain.UncoveredDemand, 0),
			EmployeeSummary: make(map[string]domain.EmployeeSummary),
			Detail:          err.Error(),
		},
	})
}

func (h *Handler) GenerateRoster(w http.ResponseWriter, r *http.Request) {
	var req domain.RosterRequest

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	// 规范化快照，所有按名字的引用在这里解析为 ID
	snapshot, err := req.Normalize()
	if err != nil {
		weekStart, _ := time.Parse(domain.DateLayout, req.WeekStart)
		h.inputErrorResponse(w, r, weekStart, err)
		return
	}

	// 时间预算：缺省用配置默认值，超出上限时截断
	budget := time.Duration(h.config.Solver.DefaultTimeBudget) * time.Second
	if req.TimeBudgetSeconds > 0 {
		budget = time.Duration(req.TimeBudgetSeconds) * time.Second
	}
	if maxBudget := time.Duration(h.config.Solver.MaxTimeBudget) * time.Second; budget > maxBudget {
		budget = maxBudget
	}
	snapshot.TimeBudget = budget

	// 请求没带上周周日班次时，从历史生成记录回填；找不到合法记录时按无历史处理
	if len(snapshot.PriorSunday) == 0 {
		prior, err := h.repository.GetPreviousSundayShifts(snapshot.WeekStart)
		if err != nil {
			h.internalServerError(w, r, err)
			return
		}
		snapshot.PriorSunday = filterPriorAssignments(prior, snapshot)
	}

	if err := utils.ValidateRosterSnapshot(snapshot); err != nil {
		h.inputErrorResponse(w, r, snapshot.WeekStart, err)
		return
	}

	// 同一周的生成必须串行，用 redis 锁挡掉并发请求
	lockKey := fmt.Sprintf("roster_generate_%s", snapshot.WeekStart.Format(domain.DateLayout))

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(h.config.Redis.OperationTimeout)*time.Second)
	defer cancel()

	locked, err := h.redisClient.SetNX(ctx, lockKey, 1, time.Duration(h.config.Redis.LockExpiration)*time.Second).Result()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}
	if !locked {
		h.errorResponse(w, r, "这一周的排班正在生成中，请稍后再试")
		return
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Duration(h.config.Redis.OperationTimeout)*time.Second)
		defer cancel()
		if err := h.redisClient.Del(ctx, lockKey).Err(); err != nil {
			h.logInternalServerError(r, err)
		}
	}()

	params := &scheduler.Parameters{
		TimeBudget:          budget,
		HourDeviationWeight: h.config.Solver.HourDeviationWeight,
		ContinuityWeight:    h.config.Solver.ContinuityWeight,
		PreferFullWeight:    h.config.Solver.PreferFullWeight,
		UncoveredPenalty:    h.config.Solver.UncoveredPenalty,
	}

	sched, err := scheduler.New(params, snapshot)
	if err != nil {
		// 需求配置矛盾属于输入错误，其余错误属于缺陷
		var cfgErr *scheduler.ConfigError
		if errors.As(err, &cfgErr) {
			h.inputErrorResponse(w, r, snapshot.WeekStart, err)
			return
		}
		h.internalServerError(w, r, err)
		return
	}

	result, err := sched.Schedule(r.Context())
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	// 只有拿到合法排班的终态才落库和发事件
	if result.Status == domain.StatusOptimal || result.Status == domain.StatusFeasible {
		if err := h.repository.InsertRosterResult(result); err != nil {
			h.internalServerError(w, r, err)
			return
		}
		if err := h.publishRosterGenerated(result); err != nil {
			h.internalServerError(w, r, err)
			return
		}
	}

	h.successResponse(w, r, "排班生成完成", result)
}

// filterPriorAssignments 丢掉引用了本周快照之外的门店或员工的历史班次
// 历史记录里的人员变动不应该让本周的生成失败
func filterPriorAssignments(prior []domain.PriorWeekAssignment, snapshot *domain.RosterSnapshot) []domain.PriorWeekAssignment {
	shopIDs := make(map[int64]bool)
	for _, shop := range snapshot.Shops {
		shopIDs[shop.ID] = true
	}
	employeeIDs := make(map[int64]bool)
	for _, employee := range snapshot.Employees {
		employeeIDs[employee.ID] = true
	}

	kept := make([]domain.PriorWeekAssignment, 0, len(prior))
	for _, assignment := range prior {
		if shopIDs[assignment.ShopID] && employeeIDs[assignment.EmployeeID] {
			kept = append(kept, assignment)
		}
	}
	return kept
}

// publishRosterGenerated 把生成完成事件发送到消息队列
func (h *Handler) publishRosterGenerated(result *domain.RosterResult) error {
	event := domain.RosterGeneratedEvent{
		WeekStart:   result.WeekStart.Format(domain.DateLayout),
		Status:      result.Status,
		Objective:   result.Objective,
		ShiftCount:  len(result.Shifts),
		GeneratedAt: time.Now(),
	}

	body, err := json.Marshal(event)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(h.config.RabbitMQ.PublishTimeout)*time.Second)
	defer cancel()

	return h.eventChannel.PublishWithContext(
		ctx,
		"",
		"roster_events",
		true,
		false,
		amqp.Publishing{
			ContentType: "application/json",
			Body:        body,
		},
	)
}

func (h *Handler) GetRoster(w http.ResponseWriter, r *http.Request) {
	weekStart := r.Context().Value(WeekStartCtxKey).(time.Time)

	result, err := h.repository.GetRosterByWeek(weekStart)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "这一周还没有生成过排班")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "获取排班成功", result)
}
