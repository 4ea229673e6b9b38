package ingest

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"sdvn-backend/internal/storage"
	"strconv"
	"strings"
)

type IngestStorage interface {
	MachineIDs(ctx context.Context) (map[int64]struct{}, error)
	InsertDayValues(ctx context.Context, rows []storage.DayValuesInsert) error
}

type Service struct {
	storage IngestStorage
}

func New(storage IngestStorage) *Service {
	return &Service{storage: storage}
}

type Result struct {
	Inserted int `json:"inserted"`
	Skipped  int `json:"skipped"`
}

// numericColumns maps CSV header names to setters on the insert row. The
// file-side name for the MachineryEdit category is CheckMachinery, same as
// the DB column.
var numericColumns = map[string]func(*storage.DayValuesInsert, *float64){
	"PowerRun":           func(r *storage.DayValuesInsert, v *float64) { r.PowerRun = v },
	"Operation":          func(r *storage.DayValuesInsert, v *float64) { r.Operation = v },
	"SmallStop":          func(r *storage.DayValuesInsert, v *float64) { r.SmallStop = v },
	"Fault":              func(r *storage.DayValuesInsert, v *float64) { r.Fault = v },
	"Break":              func(r *storage.DayValuesInsert, v *float64) { r.Break = v },
	"Maintenance":        func(r *storage.DayValuesInsert, v *float64) { r.Maintenance = v },
	"Eat":                func(r *storage.DayValuesInsert, v *float64) { r.Eat = v },
	"Waiting":            func(r *storage.DayValuesInsert, v *float64) { r.Waiting = v },
	"CheckMachinery":     func(r *storage.DayValuesInsert, v *float64) { r.CheckMachinery = v },
	"ChangeProductCode":  func(r *storage.DayValuesInsert, v *float64) { r.ChangeProductCode = v },
	"Glue_CleaningPaper": func(r *storage.DayValuesInsert, v *float64) { r.GlueCleaningPaper = v },
	"Others":             func(r *storage.DayValuesInsert, v *float64) { r.Others = v },
	"TargetDayHours":     func(r *storage.DayValuesInsert, v *float64) { r.TargetDayHours = v },
	"OEERatio":           func(r *storage.DayValuesInsert, v *float64) { r.OEERatio = v },
	"OKProductRatio":     func(r *storage.DayValuesInsert, v *float64) { r.OKProductRatio = v },
	"OutputRatio":        func(r *storage.DayValuesInsert, v *float64) { r.OutputRatio = v },
	"ActivityRatio":      func(r *storage.DayValuesInsert, v *float64) { r.ActivityRatio = v },
}

// ImportCSV reads a dayvalues CSV and inserts every row whose MachineID
// exists in the machine table. Unmatched or unparseable rows are counted as
// skipped and never abort the batch; all accepted rows commit together.
func (s *Service) ImportCSV(ctx context.Context, r io.Reader) (Result, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return Result{}, fmt.Errorf("read csv header: %w", err)
	}

	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.TrimSpace(name)] = i
	}

	for _, required := range []string{"MachineID", "Days"} {
		if _, ok := cols[required]; !ok {
			return Result{}, fmt.Errorf("csv is missing required column %s", required)
		}
	}

	validIDs, err := s.storage.MachineIDs(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("load machine ids: %w", err)
	}

	var result Result
	var rows []storage.DayValuesInsert

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			// malformed line, keep going
			result.Skipped++
			continue
		}

		row, ok := buildRow(record, cols, validIDs)
		if !ok {
			result.Skipped++
			continue
		}

		rows = append(rows, row)
	}

	if len(rows) > 0 {
		if err := s.storage.InsertDayValues(ctx, rows); err != nil {
			return Result{}, fmt.Errorf("insert dayvalues: %w", err)
		}
	}

	result.Inserted = len(rows)
	return result, nil
}

func buildRow(record []string, cols map[string]int, validIDs map[int64]struct{}) (storage.DayValuesInsert, bool) {
	var row storage.DayValuesInsert

	machineRaw := field(record, cols, "MachineID")
	if machineRaw == "" {
		return row, false
	}

	// CSV exports often carry the ID as "12.0"
	idFloat, err := strconv.ParseFloat(machineRaw, 64)
	if err != nil {
		return row, false
	}
	machineID := int64(idFloat)

	if _, ok := validIDs[machineID]; !ok {
		return row, false
	}

	days := field(record, cols, "Days")
	if days == "" {
		return row, false
	}

	row.MachineID = machineID
	row.Days = days
	row.Note = field(record, cols, "Note")

	for name, set := range numericColumns {
		set(&row, parseOptional(field(record, cols, name)))
	}

	return row, true
}

func field(record []string, cols map[string]int, name string) string {
	idx, ok := cols[name]
	if !ok || idx >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[idx])
}

// parseOptional maps empty or non-numeric cells to nil: "no data", not zero.
func parseOptional(v string) *float64 {
	if v == "" {
		return nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return nil
	}
	return &f
}
