package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sdvn-backend/internal/storage"
)

func (s *Storage) GetLines(ctx context.Context) ([]*storage.Line, error) {
	const op = "storage.lines.GetLines.sql"

	stmt := `
		SELECT
			LineID   AS idline,
			LineName AS ten_line
		FROM productionline
	`

	rows, err := s.db.QueryContext(ctx, stmt)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var lines []*storage.Line
	for rows.Next() {
		var line storage.Line
		if err := rows.Scan(&line.LineID, &line.LineName); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		lines = append(lines, &line)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return lines, nil
}

func (s *Storage) GetMachinesByLine(ctx context.Context, lineID int64) ([]*storage.Machine, error) {
	const op = "storage.lines.GetMachinesByLine.sql"

	stmt := `
		SELECT
			MachineID   AS id,
			MachineName AS name
		FROM machine
		WHERE LineID = ?
	`

	rows, err := s.db.QueryContext(ctx, stmt, lineID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var machines []*storage.Machine
	for rows.Next() {
		var m storage.Machine
		if err := rows.Scan(&m.MachineID, &m.MachineName); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		machines = append(machines, &m)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return machines, nil
}

func (s *Storage) GetMachineName(ctx context.Context, machineID int64) (string, error) {
	const op = "storage.lines.GetMachineName.sql"

	var name sql.NullString
	err := s.db.QueryRowContext(ctx,
		`SELECT MachineName FROM machine WHERE MachineID = ?`, machineID,
	).Scan(&name)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Sprintf("Machine_%d", machineID), nil
	}
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	if !name.Valid || name.String == "" {
		return fmt.Sprintf("Machine_%d", machineID), nil
	}
	return name.String, nil
}

func (s *Storage) GetMachineCycleTime(ctx context.Context, machineID int64) (float64, error) {
	const op = "storage.lines.GetMachineCycleTime.sql"

	var cycle sql.NullFloat64
	err := s.db.QueryRowContext(ctx,
		`SELECT CycleTime FROM machine WHERE MachineID = ?`, machineID,
	).Scan(&cycle)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	return cycle.Float64, nil
}

func (s *Storage) MachineIDs(ctx context.Context) (map[int64]struct{}, error) {
	const op = "storage.lines.MachineIDs.sql"

	rows, err := s.db.QueryContext(ctx, `SELECT MachineID FROM machine`)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	ids := make(map[int64]struct{})
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		ids[id] = struct{}{}
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return ids, nil
}
