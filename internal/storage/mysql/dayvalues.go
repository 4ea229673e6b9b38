package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sdvn-backend/internal/storage"
	"time"
)

// catCols buffers the 11 category columns of one scanned row. Old CSV loads
// left NULLs behind, so everything goes through NullFloat64 and collapses to
// zero.
type catCols struct {
	op, ss, flt, brk, mt, eat, wait, me, cpc, gcp, oth sql.NullFloat64
}

func (c *catCols) dest() []any {
	return []any{&c.op, &c.ss, &c.flt, &c.brk, &c.mt, &c.eat, &c.wait, &c.me, &c.cpc, &c.gcp, &c.oth}
}

func (c *catCols) categories() storage.Categories {
	return storage.Categories{
		Operation:         c.op.Float64,
		SmallStop:         c.ss.Float64,
		Fault:             c.flt.Float64,
		Break:             c.brk.Float64,
		Maintenance:       c.mt.Float64,
		Eat:               c.eat.Float64,
		Waiting:           c.wait.Float64,
		MachineryEdit:     c.me.Float64,
		ChangeProductCode: c.cpc.Float64,
		GlueCleaningPaper: c.gcp.Float64,
		Others:            c.oth.Float64,
	}
}

type ratioCols struct {
	oee, ok, out, act sql.NullFloat64
}

func (r *ratioCols) dest() []any {
	return []any{&r.oee, &r.ok, &r.out, &r.act}
}

func (r *ratioCols) ratios() storage.Ratios {
	return storage.Ratios{
		OEE:           r.oee.Float64,
		OKRatio:       r.ok.Float64,
		OutputRatio:   r.out.Float64,
		ActivityRatio: r.act.Float64,
	}
}

const categorySelect = "Operation, SmallStop, Fault, `Break`, Maintenance, Eat, Waiting, " +
	"CheckMachinery, ChangeProductCode, Glue_CleaningPaper, Others"

const categorySumSelect = "SUM(Operation), SUM(SmallStop), SUM(Fault), SUM(`Break`), " +
	"SUM(Maintenance), SUM(Eat), SUM(Waiting), SUM(CheckMachinery), " +
	"SUM(ChangeProductCode), SUM(Glue_CleaningPaper), SUM(Others)"

func (s *Storage) GetMachineDay(ctx context.Context, machineID int64, day string) (*storage.DayValues, error) {
	const op = "storage.dayvalues.GetMachineDay.sql"

	stmt := `
		SELECT Days, PowerRun, ` + categorySelect + `
		FROM dayvalues
		WHERE MachineID = ? AND Days = ?
		LIMIT 1
	`

	var dv storage.DayValues
	var power sql.NullFloat64
	var cats catCols

	dst := append([]any{&dv.Days, &power}, cats.dest()...)

	err := s.db.QueryRowContext(ctx, stmt, machineID, day).Scan(dst...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	dv.PowerRun = power.Float64
	dv.Categories = cats.categories()

	return &dv, nil
}

func (s *Storage) GetMachineDayProduct(ctx context.Context, machineID int64, day string) (*storage.ProductionOutput, error) {
	const op = "storage.dayvalues.GetMachineDayProduct.sql"

	stmt := `
		SELECT
			totalproduct_actual AS Total,
			totalproduct_ok     AS OK,
			totalproduct_ng     AS NG
		FROM production_output
		WHERE machineid = ? AND days = ?
		LIMIT 1
	`

	var total, okCnt, ng sql.NullFloat64
	err := s.db.QueryRowContext(ctx, stmt, machineID, day).Scan(&total, &okCnt, &ng)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &storage.ProductionOutput{
		Total: total.Float64,
		OK:    okCnt.Float64,
		NG:    ng.Float64,
	}, nil
}

func (s *Storage) GetMachineMonthRatios(ctx context.Context, machineID int64, year, month int) ([]storage.DayRatios, error) {
	const op = "storage.dayvalues.GetMachineMonthRatios.sql"

	stmt := `
		SELECT Days, OEERatio, OKProductRatio, OutputRatio, ActivityRatio
		FROM dayvalues
		WHERE MachineID = ?
		  AND YEAR(Days) = ?
		  AND MONTH(Days) = ?
		ORDER BY Days
	`

	return s.queryDayRatios(ctx, op, stmt, machineID, year, month)
}

func (s *Storage) GetLineMonthRatios(ctx context.Context, lineID int64, year, month int) ([]storage.DayRatios, error) {
	const op = "storage.dayvalues.GetLineMonthRatios.sql"

	stmt := `
		SELECT
			DATE(dv.Days)                     AS day_date,
			AVG(IFNULL(dv.OEERatio,       0)) AS oee,
			AVG(IFNULL(dv.OKProductRatio, 0)) AS ok_ratio,
			AVG(IFNULL(dv.OutputRatio,    0)) AS output_ratio,
			AVG(IFNULL(dv.ActivityRatio,  0)) AS activity_ratio
		FROM dayvalues dv
		JOIN machine m ON dv.MachineID = m.MachineID
		WHERE m.LineID = ?
		  AND YEAR(dv.Days) = ?
		  AND MONTH(dv.Days) = ?
		GROUP BY DATE(dv.Days)
		ORDER BY day_date
	`

	return s.queryDayRatios(ctx, op, stmt, lineID, year, month)
}

func (s *Storage) queryDayRatios(ctx context.Context, op, stmt string, args ...any) ([]storage.DayRatios, error) {
	rows, err := s.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var result []storage.DayRatios
	for rows.Next() {
		var day time.Time
		var rc ratioCols

		dst := append([]any{&day}, rc.dest()...)
		if err := rows.Scan(dst...); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}

		result = append(result, storage.DayRatios{Date: day, Ratios: rc.ratios()})
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return result, nil
}

func (s *Storage) GetMachineYearRatios(ctx context.Context, machineID int64, year int) ([]storage.MonthRatios, error) {
	const op = "storage.dayvalues.GetMachineYearRatios.sql"

	stmt := `
		SELECT
			MONTH(Days)         AS m,
			AVG(OEERatio)       AS avg_oee,
			AVG(OKProductRatio) AS avg_ok,
			AVG(OutputRatio)    AS avg_output,
			AVG(ActivityRatio)  AS avg_activity
		FROM dayvalues
		WHERE MachineID = ?
		  AND YEAR(Days) = ?
		GROUP BY MONTH(Days)
		ORDER BY m
	`

	return s.queryMonthRatios(ctx, op, stmt, machineID, year)
}

func (s *Storage) GetLineYearRatios(ctx context.Context, lineID int64, year int) ([]storage.MonthRatios, error) {
	const op = "storage.dayvalues.GetLineYearRatios.sql"

	stmt := `
		SELECT
			MONTH(dv.Days)                    AS m,
			AVG(IFNULL(dv.OEERatio,       0)) AS avg_oee,
			AVG(IFNULL(dv.OKProductRatio, 0)) AS avg_ok,
			AVG(IFNULL(dv.OutputRatio,    0)) AS avg_output,
			AVG(IFNULL(dv.ActivityRatio,  0)) AS avg_activity
		FROM dayvalues dv
		JOIN machine m ON dv.MachineID = m.MachineID
		WHERE m.LineID = ?
		  AND YEAR(dv.Days) = ?
		GROUP BY MONTH(dv.Days)
		ORDER BY m
	`

	return s.queryMonthRatios(ctx, op, stmt, lineID, year)
}

func (s *Storage) queryMonthRatios(ctx context.Context, op, stmt string, args ...any) ([]storage.MonthRatios, error) {
	rows, err := s.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var result []storage.MonthRatios
	for rows.Next() {
		var m int
		var rc ratioCols

		dst := append([]any{&m}, rc.dest()...)
		if err := rows.Scan(dst...); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}

		result = append(result, storage.MonthRatios{Month: m, Ratios: rc.ratios()})
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return result, nil
}

func (s *Storage) GetMachineMonthCategories(ctx context.Context, machineID int64, year, month int) ([]storage.DayCategories, error) {
	const op = "storage.dayvalues.GetMachineMonthCategories.sql"

	stmt := `
		SELECT Days, ` + categorySelect + `
		FROM dayvalues
		WHERE MachineID = ?
		  AND YEAR(Days) = ?
		  AND MONTH(Days) = ?
		ORDER BY Days
	`

	return s.queryDayCategories(ctx, op, stmt, machineID, year, month)
}

func (s *Storage) GetLineMonthCategories(ctx context.Context, lineID int64, year, month int) ([]storage.DayCategories, error) {
	const op = "storage.dayvalues.GetLineMonthCategories.sql"

	stmt := `
		SELECT DATE(dv.Days) AS day_date,
			SUM(dv.Operation), SUM(dv.SmallStop), SUM(dv.Fault), SUM(dv.` + "`Break`" + `),
			SUM(dv.Maintenance), SUM(dv.Eat), SUM(dv.Waiting), SUM(dv.CheckMachinery),
			SUM(dv.ChangeProductCode), SUM(dv.Glue_CleaningPaper), SUM(dv.Others)
		FROM dayvalues dv
		JOIN machine m ON dv.MachineID = m.MachineID
		WHERE m.LineID = ?
		  AND YEAR(dv.Days) = ?
		  AND MONTH(dv.Days) = ?
		GROUP BY DATE(dv.Days)
		ORDER BY day_date
	`

	return s.queryDayCategories(ctx, op, stmt, lineID, year, month)
}

func (s *Storage) queryDayCategories(ctx context.Context, op, stmt string, args ...any) ([]storage.DayCategories, error) {
	rows, err := s.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var result []storage.DayCategories
	for rows.Next() {
		var day time.Time
		var cats catCols

		dst := append([]any{&day}, cats.dest()...)
		if err := rows.Scan(dst...); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}

		result = append(result, storage.DayCategories{Date: day, Categories: cats.categories()})
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return result, nil
}

func (s *Storage) GetMachineYearCategories(ctx context.Context, machineID int64, year int) ([]storage.MonthCategories, error) {
	const op = "storage.dayvalues.GetMachineYearCategories.sql"

	stmt := `
		SELECT MONTH(Days) AS m, ` + categorySumSelect + `
		FROM dayvalues
		WHERE MachineID = ?
		  AND YEAR(Days) = ?
		GROUP BY MONTH(Days)
		ORDER BY m
	`

	return s.queryMonthCategories(ctx, op, stmt, machineID, year)
}

func (s *Storage) GetLineYearCategories(ctx context.Context, lineID int64, year int) ([]storage.MonthCategories, error) {
	const op = "storage.dayvalues.GetLineYearCategories.sql"

	stmt := `
		SELECT MONTH(dv.Days) AS m,
			SUM(dv.Operation), SUM(dv.SmallStop), SUM(dv.Fault), SUM(dv.` + "`Break`" + `),
			SUM(dv.Maintenance), SUM(dv.Eat), SUM(dv.Waiting), SUM(dv.CheckMachinery),
			SUM(dv.ChangeProductCode), SUM(dv.Glue_CleaningPaper), SUM(dv.Others)
		FROM dayvalues dv
		JOIN machine m ON dv.MachineID = m.MachineID
		WHERE m.LineID = ?
		  AND YEAR(dv.Days) = ?
		GROUP BY MONTH(dv.Days)
		ORDER BY m
	`

	return s.queryMonthCategories(ctx, op, stmt, lineID, year)
}

func (s *Storage) queryMonthCategories(ctx context.Context, op, stmt string, args ...any) ([]storage.MonthCategories, error) {
	rows, err := s.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var result []storage.MonthCategories
	for rows.Next() {
		var m int
		var cats catCols

		dst := append([]any{&m}, cats.dest()...)
		if err := rows.Scan(dst...); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}

		result = append(result, storage.MonthCategories{Month: m, Categories: cats.categories()})
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return result, nil
}

func (s *Storage) GetMachineMonthExport(ctx context.Context, machineID int64, year, month int) ([]storage.DayExportRow, error) {
	const op = "storage.dayvalues.GetMachineMonthExport.sql"

	stmt := `
		SELECT Days, OEERatio, OKProductRatio, OutputRatio, ActivityRatio, ` + categorySelect + `
		FROM dayvalues
		WHERE MachineID = ?
		  AND YEAR(Days) = ?
		  AND MONTH(Days) = ?
		ORDER BY Days
	`

	rows, err := s.db.QueryContext(ctx, stmt, machineID, year, month)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var result []storage.DayExportRow
	for rows.Next() {
		var day time.Time
		var rc ratioCols
		var cats catCols

		dst := append([]any{&day}, rc.dest()...)
		dst = append(dst, cats.dest()...)
		if err := rows.Scan(dst...); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}

		result = append(result, storage.DayExportRow{
			Date:       day,
			Ratios:     rc.ratios(),
			Categories: cats.categories(),
		})
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return result, nil
}

func (s *Storage) GetMachineYearExport(ctx context.Context, machineID int64, year int) ([]storage.MonthExportRow, error) {
	const op = "storage.dayvalues.GetMachineYearExport.sql"

	stmt := `
		SELECT
			MONTH(Days)         AS m,
			AVG(OEERatio)       AS avg_oee,
			AVG(OKProductRatio) AS avg_ok,
			AVG(OutputRatio)    AS avg_output,
			AVG(ActivityRatio)  AS avg_activity, ` + categorySumSelect + `
		FROM dayvalues
		WHERE MachineID = ?
		  AND YEAR(Days) = ?
		GROUP BY MONTH(Days)
		ORDER BY m
	`

	rows, err := s.db.QueryContext(ctx, stmt, machineID, year)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var result []storage.MonthExportRow
	for rows.Next() {
		var m int
		var rc ratioCols
		var cats catCols

		dst := append([]any{&m}, rc.dest()...)
		dst = append(dst, cats.dest()...)
		if err := rows.Scan(dst...); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}

		result = append(result, storage.MonthExportRow{
			Month:      m,
			Ratios:     rc.ratios(),
			Categories: cats.categories(),
		})
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return result, nil
}

func (s *Storage) InsertDayValues(ctx context.Context, rows []storage.DayValuesInsert) error {
	const op = "storage.dayvalues.InsertDayValues.sql"

	stmt := `
		INSERT INTO dayvalues (
			MachineID, Days, PowerRun,
			Operation, SmallStop, Fault, ` + "`Break`" + `, Maintenance, Eat, Waiting,
			CheckMachinery, ChangeProductCode, Glue_CleaningPaper, Others,
			TargetDayHours, OEERatio, OKProductRatio, OutputRatio, ActivityRatio, Note
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer tx.Rollback()

	for _, row := range rows {
		_, err := tx.ExecContext(ctx, stmt,
			row.MachineID, row.Days, row.PowerRun,
			row.Operation, row.SmallStop, row.Fault, row.Break, row.Maintenance, row.Eat, row.Waiting,
			row.CheckMachinery, row.ChangeProductCode, row.GlueCleaningPaper, row.Others,
			row.TargetDayHours, row.OEERatio, row.OKProductRatio, row.OutputRatio, row.ActivityRatio, row.Note,
		)
		if err != nil {
			return fmt.Errorf("%s: machine %d day %s: %w", op, row.MachineID, row.Days, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}
