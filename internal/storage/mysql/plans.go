package mysql

import (
	"context"
	"database/sql"
	"fmt"
	"sdvn-backend/internal/storage"
)

func (s *Storage) GetDayPlans(ctx context.Context, lineID int64, machineID int64, day string) ([]*storage.PlanProduction, error) {
	const op = "storage.plans.GetDayPlans.sql"

	stmt := `
		SELECT p.PlanID, p.MachineID, m.MachineName, DATE_FORMAT(p.Days, '%Y-%m-%d'),
			p.DayPlan, p.Target_Product,
			p.StartShift1, p.EndShift1, p.StartShift2, p.EndShift2,
			IFNULL(m.CycleTime, 0)
		FROM plan_production p
		JOIN machine m ON p.MachineID = m.MachineID
		WHERE m.LineID = ? AND p.Days = ?
	`
	args := []any{lineID, day}

	if machineID != 0 {
		stmt += " AND p.MachineID = ?"
		args = append(args, machineID)
	}
	stmt += " ORDER BY p.MachineID"

	return s.queryPlans(ctx, op, stmt, args...)
}

func (s *Storage) GetMonthPlans(ctx context.Context, lineID, machineID int64, year, month int) ([]*storage.PlanProduction, error) {
	const op = "storage.plans.GetMonthPlans.sql"

	stmt := `
		SELECT p.PlanID, p.MachineID, m.MachineName, DATE_FORMAT(p.Days, '%Y-%m-%d'),
			p.DayPlan, p.Target_Product,
			p.StartShift1, p.EndShift1, p.StartShift2, p.EndShift2,
			IFNULL(m.CycleTime, 0)
		FROM plan_production p
		JOIN machine m ON p.MachineID = m.MachineID
		WHERE m.LineID = ?
		  AND YEAR(p.Days) = ?
		  AND MONTH(p.Days) = ?
	`
	args := []any{lineID, year, month}

	if machineID != 0 {
		stmt += " AND p.MachineID = ?"
		args = append(args, machineID)
	}
	stmt += " ORDER BY p.Days, p.MachineID"

	return s.queryPlans(ctx, op, stmt, args...)
}

func (s *Storage) queryPlans(ctx context.Context, op, stmt string, args ...any) ([]*storage.PlanProduction, error) {
	rows, err := s.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var plans []*storage.PlanProduction
	for rows.Next() {
		var p storage.PlanProduction
		var dayPlan, cycle sql.NullFloat64
		var target sql.NullInt64
		var s1, e1, s2, e2 sql.NullString

		err := rows.Scan(&p.PlanID, &p.MachineID, &p.MachineName, &p.Date,
			&dayPlan, &target, &s1, &e1, &s2, &e2, &cycle)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}

		p.DayPlan = dayPlan.Float64
		p.TargetProduct = target.Int64
		p.CycleTime = cycle.Float64
		p.StartShift1 = nullStr(s1)
		p.EndShift1 = nullStr(e1)
		p.StartShift2 = nullStr(s2)
		p.EndShift2 = nullStr(e2)

		plans = append(plans, &p)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return plans, nil
}

func nullStr(v sql.NullString) *string {
	if !v.Valid {
		return nil
	}
	return &v.String
}

// InsertDefaultDayPlans materializes one default plan row per machine on the
// line that has no row for the day yet. A single conditional INSERT keeps
// concurrent requests for the same (line, day) from double-inserting.
func (s *Storage) InsertDefaultDayPlans(ctx context.Context, lineID int64, day string, def storage.DayPlanDefaults) (int64, error) {
	const op = "storage.plans.InsertDefaultDayPlans.sql"

	stmt := `
		INSERT INTO plan_production
			(MachineID, Days, DayPlan, Target_Product, StartShift1, EndShift1, StartShift2, EndShift2)
		SELECT m.MachineID, ?, ?, 0, ?, ?, ?, ?
		FROM machine m
		WHERE m.LineID = ?
		  AND NOT EXISTS (
			SELECT 1 FROM plan_production p
			WHERE p.MachineID = m.MachineID AND p.Days = ?
		  )
	`

	res, err := s.db.ExecContext(ctx, stmt,
		day, def.DayPlan, def.StartShift1, def.EndShift1, def.StartShift2, def.EndShift2,
		lineID, day)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	inserted, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	return inserted, nil
}

// GetPlanDates returns the set of days (yyyy-mm-dd) a machine already has
// plan rows for inside the month.
func (s *Storage) GetPlanDates(ctx context.Context, machineID int64, year, month int) (map[string]struct{}, error) {
	const op = "storage.plans.GetPlanDates.sql"

	stmt := `
		SELECT DATE_FORMAT(Days, '%Y-%m-%d')
		FROM plan_production
		WHERE MachineID = ?
		  AND YEAR(Days) = ?
		  AND MONTH(Days) = ?
	`

	rows, err := s.db.QueryContext(ctx, stmt, machineID, year, month)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	dates := make(map[string]struct{})
	for rows.Next() {
		var d string
		if err := rows.Scan(&d); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		dates[d] = struct{}{}
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return dates, nil
}

func (s *Storage) InsertDefaultPlan(ctx context.Context, machineID int64, day string, def storage.DayPlanDefaults) error {
	const op = "storage.plans.InsertDefaultPlan.sql"

	stmt := `
		INSERT INTO plan_production
			(MachineID, Days, DayPlan, Target_Product, StartShift1, EndShift1, StartShift2, EndShift2)
		SELECT ?, ?, ?, 0, ?, ?, ?, ?
		FROM DUAL
		WHERE NOT EXISTS (
			SELECT 1 FROM plan_production p WHERE p.MachineID = ? AND p.Days = ?
		)
	`

	_, err := s.db.ExecContext(ctx, stmt,
		machineID, day, def.DayPlan, def.StartShift1, def.EndShift1, def.StartShift2, def.EndShift2,
		machineID, day)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// UpdatePlans applies a batch of derived plan edits in one transaction. A
// supplied cycle time is written back onto the machine row as well, so it
// sticks for future target computations.
func (s *Storage) UpdatePlans(ctx context.Context, updates []storage.PlanUpdate) error {
	const op = "storage.plans.UpdatePlans.sql"

	planStmt := `
		UPDATE plan_production
		SET DayPlan = ?, Target_Product = ?,
			StartShift1 = ?, EndShift1 = ?, StartShift2 = ?, EndShift2 = ?
		WHERE PlanID = ?
	`
	machineStmt := `UPDATE machine SET CycleTime = ? WHERE MachineID = ?`

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer tx.Rollback()

	for _, u := range updates {
		_, err := tx.ExecContext(ctx, planStmt,
			u.DayPlan, u.TargetProduct,
			u.StartShift1, u.EndShift1, u.StartShift2, u.EndShift2,
			u.PlanID)
		if err != nil {
			return fmt.Errorf("%s: plan %d: %w", op, u.PlanID, err)
		}

		if u.NewCycleTime != nil {
			if _, err := tx.ExecContext(ctx, machineStmt, *u.NewCycleTime, u.MachineID); err != nil {
				return fmt.Errorf("%s: machine %d: %w", op, u.MachineID, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}
