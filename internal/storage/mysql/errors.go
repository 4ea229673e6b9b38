package mysql

import (
	"context"
	"fmt"
	"sdvn-backend/internal/storage"
	"time"
)

// GetErrorStats groups error history rows by (machine, code, name) inside
// [from, to). lineID and machineID are optional filters, zero means all.
func (s *Storage) GetErrorStats(ctx context.Context, from, to time.Time, lineID, machineID int64) ([]storage.ErrorStat, error) {
	const op = "storage.errors.GetErrorStats.sql"

	stmt := `
		SELECT
			e.MachineID,
			m.MachineName,
			t.ErrorCode,
			t.ErrorName,
			COUNT(*)                                              AS cnt,
			MIN(e.StartTime)                                      AS first_start,
			MAX(e.EndTime)                                        AS last_end,
			COALESCE(SUM(TIMESTAMPDIFF(SECOND, e.StartTime, e.EndTime)), 0) AS total_seconds
		FROM error_history e
		JOIN machine m    ON e.MachineID = m.MachineID
		JOIN error_type t ON e.ErrorTypeID = t.ErrorTypeID
		WHERE e.StartTime >= ? AND e.StartTime < ?
	`
	args := []any{from, to}

	if lineID != 0 {
		stmt += " AND m.LineID = ?"
		args = append(args, lineID)
	}
	if machineID != 0 {
		stmt += " AND e.MachineID = ?"
		args = append(args, machineID)
	}

	stmt += " GROUP BY e.MachineID, m.MachineName, t.ErrorCode, t.ErrorName"

	rows, err := s.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var stats []storage.ErrorStat
	for rows.Next() {
		var st storage.ErrorStat
		err := rows.Scan(&st.MachineID, &st.MachineName, &st.ErrorCode, &st.ErrorName,
			&st.Count, &st.FirstStart, &st.LastEnd, &st.TotalSeconds)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		stats = append(stats, st)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return stats, nil
}
