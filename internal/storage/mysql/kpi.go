package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sdvn-backend/internal/storage"
)

func (s *Storage) GetLineName(ctx context.Context, lineID int64) (string, error) {
	const op = "storage.kpi.GetLineName.sql"

	var name sql.NullString
	err := s.db.QueryRowContext(ctx,
		`SELECT LineName FROM productionline WHERE LineID = ?`, lineID,
	).Scan(&name)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Sprintf("Line_%d", lineID), nil
	}
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	if !name.Valid || name.String == "" {
		return fmt.Sprintf("Line_%d", lineID), nil
	}
	return name.String, nil
}

// GetLineMonthKPI aggregates one line over a month: AVG ratios and SUM
// category hours across the line's machines, plus summed output counts.
func (s *Storage) GetLineMonthKPI(ctx context.Context, lineID int64, year, month int) (*storage.LineKPI, error) {
	const op = "storage.kpi.GetLineMonthKPI.sql"

	stmt := `
		SELECT
			AVG(IFNULL(dv.OEERatio,       0)),
			AVG(IFNULL(dv.OKProductRatio, 0)),
			AVG(IFNULL(dv.OutputRatio,    0)),
			AVG(IFNULL(dv.ActivityRatio,  0)),
			SUM(dv.Operation), SUM(dv.SmallStop), SUM(dv.Fault), SUM(dv.` + "`Break`" + `),
			SUM(dv.Maintenance), SUM(dv.Eat), SUM(dv.Waiting), SUM(dv.CheckMachinery),
			SUM(dv.ChangeProductCode), SUM(dv.Glue_CleaningPaper), SUM(dv.Others)
		FROM dayvalues dv
		JOIN machine m ON dv.MachineID = m.MachineID
		WHERE m.LineID = ?
		  AND YEAR(dv.Days) = ?
		  AND MONTH(dv.Days) = ?
	`

	kpi := &storage.LineKPI{LineID: lineID}

	var rc ratioCols
	var cats catCols
	dst := append(rc.dest(), cats.dest()...)

	if err := s.db.QueryRowContext(ctx, stmt, lineID, year, month).Scan(dst...); err != nil {
		// aggregate over zero rows still yields one all-NULL row
		if !errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	}
	kpi.Ratios = rc.ratios()
	kpi.Categories = cats.categories()

	outStmt := `
		SELECT
			SUM(o.totalproduct_actual),
			SUM(o.totalproduct_ok),
			SUM(o.totalproduct_ng)
		FROM production_output o
		JOIN machine m ON o.machineid = m.MachineID
		WHERE m.LineID = ?
		  AND YEAR(o.days) = ?
		  AND MONTH(o.days) = ?
	`

	var total, okCnt, ng sql.NullFloat64
	if err := s.db.QueryRowContext(ctx, outStmt, lineID, year, month).Scan(&total, &okCnt, &ng); err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	}
	kpi.Output = storage.KPIOutput{Total: total.Float64, OK: okCnt.Float64, NG: ng.Float64}

	name, err := s.GetLineName(ctx, lineID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	kpi.LineName = name

	return kpi, nil
}

// GetMachineMonthKPIs is the per-machine breakdown of a line's month, one row
// per machine, used for the workbook sheets.
func (s *Storage) GetMachineMonthKPIs(ctx context.Context, lineID int64, year, month int) ([]storage.MachineKPI, error) {
	const op = "storage.kpi.GetMachineMonthKPIs.sql"

	stmt := `
		SELECT
			m.MachineID,
			m.MachineName,
			AVG(IFNULL(dv.OEERatio,       0)),
			AVG(IFNULL(dv.OKProductRatio, 0)),
			AVG(IFNULL(dv.OutputRatio,    0)),
			AVG(IFNULL(dv.ActivityRatio,  0)),
			SUM(dv.Operation), SUM(dv.SmallStop), SUM(dv.Fault), SUM(dv.` + "`Break`" + `),
			SUM(dv.Maintenance), SUM(dv.Eat), SUM(dv.Waiting), SUM(dv.CheckMachinery),
			SUM(dv.ChangeProductCode), SUM(dv.Glue_CleaningPaper), SUM(dv.Others)
		FROM machine m
		LEFT JOIN dayvalues dv ON dv.MachineID = m.MachineID
			AND YEAR(dv.Days) = ?
			AND MONTH(dv.Days) = ?
		WHERE m.LineID = ?
		GROUP BY m.MachineID, m.MachineName
		ORDER BY m.MachineID
	`

	rows, err := s.db.QueryContext(ctx, stmt, year, month, lineID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var kpis []storage.MachineKPI
	for rows.Next() {
		var k storage.MachineKPI
		var rc ratioCols
		var cats catCols

		dst := append([]any{&k.MachineID, &k.MachineName}, rc.dest()...)
		dst = append(dst, cats.dest()...)
		if err := rows.Scan(dst...); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}

		k.Ratios = rc.ratios()
		k.Categories = cats.categories()
		kpis = append(kpis, k)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return kpis, nil
}
