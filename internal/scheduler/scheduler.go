package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/storechain-dev/shop-roster/backend/internal/domain"
	"github.com/storechain-dev/shop-roster/backend/internal/utils"
)

// Scheduler 把一份规范化快照求解为一份周排班
// 快照在求解期间不可变，相同快照和参数必然产出相同结果
type Scheduler struct {
	parameters   *Parameters
	snapshot     *domain.RosterSnapshot
	shops        []*domain.Shop     // 按门店 ID 排序
	employees    []*domain.Employee // 按拼音和 ID 排序
	requirements map[int64]*WeekRequirements
	resolver     *Resolver
	hints        map[int64]*Hint
}

// New 构建求解器：归一化所有门店需求并建立可排班性索引
// 快照中的时间预算非零时覆盖参数里的默认预算
func New(parameters *Parameters, snapshot *domain.RosterSnapshot) (*Scheduler, error) {
	if parameters == nil {
		parameters = DefaultParameters()
	}
	params := *parameters
	if snapshot.TimeBudget > 0 {
		params.TimeBudget = snapshot.TimeBudget
	}

	// 员工 ID 0 在决策里表示空缺名额，真实员工必须用正数 ID
	for _, employee := range snapshot.Employees {
		if employee.ID <= 0 {
			return nil, fmt.Errorf("员工 %q 的 ID %d 非法，必须为正数", employee.Name, employee.ID)
		}
	}

	s := &Scheduler{
		parameters:   &params,
		snapshot:     snapshot,
		requirements: make(map[int64]*WeekRequirements),
		resolver:     NewResolver(snapshot),
		hints:        make(map[int64]*Hint),
	}

	s.shops = append(s.shops, snapshot.Shops...)
	utils.SortShops(s.shops)

	s.employees = append(s.employees, snapshot.Employees...)
	utils.SortEmployees(s.employees)

	for _, shop := range s.shops {
		week, err := NormalizeRequirements(shop)
		if err != nil {
			return nil, err
		}
		s.requirements[shop.ID] = week
	}

	for _, hint := range DeriveHints(s.shops, snapshot.PriorSunday) {
		h := hint
		s.hints[h.ShopID] = &h
	}

	return s, nil
}

// buildTasks 把一周展开为按 (天, 门店 ID) 排序的门店日任务列表
func (s *Scheduler) buildTasks() []*task {
	tasks := make([]*task, 0)

	for day := int32(1); day <= 7; day++ {
		for _, shop := range s.shops {
			req := &s.requirements[shop.ID][day]
			if req.Closed {
				continue
			}

			t := &task{
				shop: shop,
				day:  day,
				req:  req,
			}

			for idx, pattern := range req.Patterns {
				plan := patternPlan{
					idx:      idx,
					fullOnly: isFullOnly(&shop.Rules, pattern),
				}
				if pattern.Full > 0 {
					plan.kinds = append(plan.kinds, slotNeed{
						slot:  domain.SlotFull,
						count: int(pattern.Full),
						hours: windowHours(windowFor(req, idx, domain.SlotFull)),
					})
				}
				if am := amNeeded(&shop.Rules, pattern); am > 0 {
					plan.kinds = append(plan.kinds, slotNeed{
						slot:  domain.SlotAM,
						count: int(am),
						hours: windowHours(windowFor(req, idx, domain.SlotAM)),
					})
				}
				if pattern.PM > 0 {
					plan.kinds = append(plan.kinds, slotNeed{
						slot:  domain.SlotPM,
						count: int(pattern.PM),
						hours: windowHours(windowFor(req, idx, domain.SlotPM)),
					})
				}

				if plan.fullOnly {
					t.hasFullAlt = true
				}
				t.plans = append(t.plans, plan)
			}

			for _, employee := range s.employees {
				if ok, _ := s.resolver.Check(employee, shop, day, req); ok {
					t.candidates = append(t.candidates, employee)
				}
			}

			if day == 7 && shop.Rules.DayInDayOut {
				t.hint = s.hints[shop.ID]
			}

			tasks = append(tasks, t)
		}
	}

	return tasks
}

// Schedule 在时间预算内求解并翻译为最终结果
// 预算耗尽时返回已找到的最优可行解（FEASIBLE）或 TIMED_OUT；
// 预算为零或负数视为立即超时，这条路径是确定性的，可以用来测试超时行为
func (s *Scheduler) Schedule(ctx context.Context) (*domain.RosterResult, error) {
	deadline := time.Now().Add(s.parameters.TimeBudget)
	if ctxDeadline, ok := ctx.Deadline(); ok && ctxDeadline.Before(deadline) {
		deadline = ctxDeadline
	}

	tasks := s.buildTasks()
	outcome := newSearcher(s.parameters, tasks, s.employees, deadline).run()

	result := s.translate(outcome, tasks)

	// 输出前复核：任何违反硬约束的班次都说明求解器有缺陷，宁可报错也不输出
	if len(result.Shifts) > 0 {
		if err := utils.ValidateRosterResult(result, s.snapshot); err != nil {
			return nil, err
		}
	}

	return result, nil
}
