package repository

import (
	"context"
	"time"

	"github.com/storechain-dev/shop-roster/backend/internal/domain"
)

// InsertRosterResult 以周为单位覆盖写入生成结果
// 同一周重新生成时先删除旧结果，整个操作在一个事务内完成
func (r *Repository) InsertRosterResult(result *domain.RosterResult) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.TransactionTimeout)*time.Second)
	defer cancel()

	tx, err := r.dbpool.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	// 先将这一周之前的生成结果删除，关联记录靠外键级联清理
	query := `DELETE FROM roster_runs WHERE week_start = $1`
	if _, err := tx.ExecContext(ctx, query, result.WeekStart); err != nil {
		return err
	}

	query = `
		INSERT INTO roster_runs (week_start, status, objective, detail)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`

	var runID int64
	if err := tx.QueryRowContext(ctx, query, result.WeekStart, result.Status, result.Objective, result.Detail).Scan(&runID); err != nil {
		return err
	}

	for _, shift := range result.Shifts {
		query := `
			INSERT INTO generated_shifts (run_id, work_date, shop_id, shop_name, employee_id, employee_name, start_time, end_time, hours, shift_type, company)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		`

		if _, err := tx.ExecContext(ctx, query,
			runID, shift.Date, shift.ShopID, shift.ShopName, shift.EmployeeID, shift.EmployeeName,
			shift.StartTime, shift.EndTime, shift.Hours, shift.ShiftType, shift.Company,
		); err != nil {
			return err
		}
	}

	for _, uncovered := range result.Uncovered {
		query := `
			INSERT INTO uncovered_demands (run_id, shop_id, day_of_week, slot_type, needed, assigned)
			VALUES ($1, $2, $3, $4, $5, $6)
		`

		if _, err := tx.ExecContext(ctx, query,
			runID, uncovered.ShopID, uncovered.Day, uncovered.SlotType, uncovered.Needed, uncovered.Assigned,
		); err != nil {
			return err
		}
	}

	for name, summary := range result.EmployeeSummary {
		query := `
			INSERT INTO roster_employee_summaries (run_id, employee_name, total_hours, target_hours, days_worked, am_count, pm_count, full_count, over_target, under_target)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		`

		if _, err := tx.ExecContext(ctx, query,
			runID, name, summary.TotalHours, summary.Target, summary.DaysWorked,
			summary.AMCount, summary.PMCount, summary.FullCount, summary.OverTarget, summary.UnderTarget,
		); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	return nil
}

// GetRosterByWeek 读取某一周已生成的排班，没有记录时返回 sql.ErrNoRows
func (r *Repository) GetRosterByWeek(weekStart time.Time) (*domain.RosterResult, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	result := &domain.RosterResult{
		WeekStart:       weekStart,
		Shifts:          make([]domain.GeneratedShift, 0),
		Uncovered:       make([]domain.UncoveredDemand, 0),
		EmployeeSummary: make(map[string]domain.EmployeeSummary),
	}

	query := `
		SELECT id, status, objective, detail
		FROM roster_runs
		WHERE week_start = $1
	`

	var runID int64
	if err := r.dbpool.QueryRowContext(ctx, query, weekStart).Scan(&runID, &result.Status, &result.Objective, &result.Detail); err != nil {
		return nil, err
	}

	query = `
		SELECT work_date, shop_id, shop_name, employee_id, employee_name, start_time, end_time, hours, shift_type, company
		FROM generated_shifts
		WHERE run_id = $1
		ORDER BY work_date, shop_id, employee_name
	`

	rows, err := r.dbpool.QueryContext(ctx, query, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var shift domain.GeneratedShift
		if err := rows.Scan(
			&shift.Date, &shift.ShopID, &shift.ShopName, &shift.EmployeeID, &shift.EmployeeName,
			&shift.StartTime, &shift.EndTime, &shift.Hours, &shift.ShiftType, &shift.Company,
		); err != nil {
			return nil, err
		}
		result.Shifts = append(result.Shifts, shift)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	query = `
		SELECT shop_id, day_of_week, slot_type, needed, assigned
		FROM uncovered_demands
		WHERE run_id = $1
		ORDER BY day_of_week, shop_id
	`

	uncoveredRows, err := r.dbpool.QueryContext(ctx, query, runID)
	if err != nil {
		return nil, err
	}
	defer uncoveredRows.Close()

	for uncoveredRows.Next() {
		var uncovered domain.UncoveredDemand
		if err := uncoveredRows.Scan(&uncovered.ShopID, &uncovered.Day, &uncovered.SlotType, &uncovered.Needed, &uncovered.Assigned); err != nil {
			return nil, err
		}
		result.Uncovered = append(result.Uncovered, uncovered)
	}
	if err := uncoveredRows.Err(); err != nil {
		return nil, err
	}

	query = `
		SELECT employee_name, total_hours, target_hours, days_worked, am_count, pm_count, full_count, over_target, under_target
		FROM roster_employee_summaries
		WHERE run_id = $1
	`

	summaryRows, err := r.dbpool.QueryContext(ctx, query, runID)
	if err != nil {
		return nil, err
	}
	defer summaryRows.Close()

	for summaryRows.Next() {
		var name string
		var summary domain.EmployeeSummary
		if err := summaryRows.Scan(
			&name, &summary.TotalHours, &summary.Target, &summary.DaysWorked,
			&summary.AMCount, &summary.PMCount, &summary.FullCount, &summary.OverTarget, &summary.UnderTarget,
		); err != nil {
			return nil, err
		}
		result.EmployeeSummary[name] = summary
	}
	if err := summaryRows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}

// GetPreviousSundayShifts 读取上一周周日的班次归属，用于长短班轮换的连续性判断
// 上一周没有生成记录时返回空列表，不算错误
func (r *Repository) GetPreviousSundayShifts(weekStart time.Time) ([]domain.PriorWeekAssignment, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	priorWeekStart := weekStart.AddDate(0, 0, -7)
	priorSunday := weekStart.AddDate(0, 0, -1)

	query := `
		SELECT gs.shop_id, gs.employee_id, gs.shift_type
		FROM generated_shifts gs
		JOIN roster_runs rr ON rr.id = gs.run_id
		WHERE rr.week_start = $1 AND gs.work_date = $2
		ORDER BY gs.shop_id, gs.employee_id
	`

	rows, err := r.dbpool.QueryContext(ctx, query, priorWeekStart, priorSunday)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	assignments := make([]domain.PriorWeekAssignment, 0)
	for rows.Next() {
		var assignment domain.PriorWeekAssignment
		if err := rows.Scan(&assignment.ShopID, &assignment.EmployeeID, &assignment.ShiftType); err != nil {
			return nil, err
		}
		assignments = append(assignments, assignment)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return assignments, nil
}
