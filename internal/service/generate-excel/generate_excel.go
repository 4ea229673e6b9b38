package generate_excel

import (
	"context"
	"fmt"
	"github.com/xuri/excelize/v2"
	"golang.org/x/sync/errgroup"
	"sdvn-backend/internal/service/report"
	"sdvn-backend/internal/storage"
)

type ExportStorage interface {
	GetMachineName(ctx context.Context, machineID int64) (string, error)
	GetMachineMonthExport(ctx context.Context, machineID int64, year, month int) ([]storage.DayExportRow, error)
	GetMachineYearExport(ctx context.Context, machineID int64, year int) ([]storage.MonthExportRow, error)
	GetLines(ctx context.Context) ([]*storage.Line, error)
	GetMachineMonthKPIs(ctx context.Context, lineID int64, year, month int) ([]storage.MachineKPI, error)
}

type ExportService struct {
	storage ExportStorage
}

func NewExportService(storage ExportStorage) *ExportService {
	return &ExportService{storage: storage}
}

var exportHeaders = []string{
	"OEERatio", "OKProductRatio", "OutputRatio", "ActivityRatio",
	"Operation", "SmallStop", "Fault", "Break", "Maintenance", "Eat", "Waiting",
	"MachineryEdit", "ChangeProductCode", "Glue_CleaningPaper", "Others",
	"OperationPct", "SmallStopPct", "FaultPct", "BreakPct", "MaintenancePct",
	"EatPct", "WaitingPct", "MachineryEditPct", "ChangeProductCodePct",
	"Glue_CleaningPaperPct", "OthersPct",
}

// MachineMonthExcel builds the one-sheet month workbook for a machine: one
// row per stored day, with hours and day-total percentages side by side.
func (g *ExportService) MachineMonthExcel(ctx context.Context, machineID int64, year, month int, dataType string) ([]byte, string, error) {
	machineName, err := g.storage.GetMachineName(ctx, machineID)
	if err != nil {
		return nil, "", fmt.Errorf("machine name: %w", err)
	}

	rows, err := g.storage.GetMachineMonthExport(ctx, machineID, year, month)
	if err != nil {
		return nil, "", fmt.Errorf("fetch month data: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()
	sheet := machineName
	f.SetSheetName("Sheet1", sheet)

	writeRow(f, sheet, 1,
		fmt.Sprintf("Machine: %s", machineName),
		fmt.Sprintf("Month: %d", month),
		fmt.Sprintf("Data filter: %s", dataType),
	)
	writeRow(f, sheet, 3, toAny(append([]string{"Date"}, exportHeaders...))...)

	for i, row := range rows {
		writeRow(f, sheet, i+4, exportCells(row.Date.Format("2006-01-02"), row.Ratios, row.Categories)...)
	}

	if err := finishSheet(f, sheet, 3+len(rows), 1+len(exportHeaders)); err != nil {
		return nil, "", err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, "", err
	}

	filename := fmt.Sprintf("%s_%02d.xlsx", machineName, month)
	return buf.Bytes(), filename, nil
}

// MachineYearExcel builds the year workbook: always 12 rows, months without
// data all zero.
func (g *ExportService) MachineYearExcel(ctx context.Context, machineID int64, year int, dataType string) ([]byte, string, error) {
	machineName, err := g.storage.GetMachineName(ctx, machineID)
	if err != nil {
		return nil, "", fmt.Errorf("machine name: %w", err)
	}

	rows, err := g.storage.GetMachineYearExport(ctx, machineID, year)
	if err != nil {
		return nil, "", fmt.Errorf("fetch year data: %w", err)
	}
	months := report.FillYearExport(rows)

	f := excelize.NewFile()
	defer f.Close()
	sheet := machineName
	f.SetSheetName("Sheet1", sheet)

	writeRow(f, sheet, 1,
		fmt.Sprintf("MachineName: %s", machineName),
		fmt.Sprintf("Year: %d", year),
		fmt.Sprintf("Data filter: %s", dataType),
	)
	writeRow(f, sheet, 3, toAny(append([]string{"Month"}, exportHeaders...))...)

	for i, row := range months {
		writeRow(f, sheet, i+4, exportCells(row.Month, row.Ratios, row.Categories)...)
	}

	if err := finishSheet(f, sheet, 3+len(months), 1+len(exportHeaders)); err != nil {
		return nil, "", err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, "", err
	}

	filename := fmt.Sprintf("%s_nam_%d.xlsx", safeName(machineName), year)
	return buf.Bytes(), filename, nil
}

var kpiHeaders = []string{
	"Machine", "OEERatio", "OKProductRatio", "OutputRatio", "ActivityRatio",
	"Operation", "SmallStop", "Fault", "Break", "Maintenance", "Eat", "Waiting",
	"MachineryEdit", "ChangeProductCode", "Glue_CleaningPaper", "Others", "TotalHours",
}

// KPIExcel builds the month KPI workbook: one sheet per production line, one
// row per machine. Per-line fetches run concurrently.
func (g *ExportService) KPIExcel(ctx context.Context, year, month int) ([]byte, string, error) {
	lines, err := g.storage.GetLines(ctx)
	if err != nil {
		return nil, "", fmt.Errorf("fetch lines: %w", err)
	}

	kpis := make([][]storage.MachineKPI, len(lines))

	eg, egCtx := errgroup.WithContext(ctx)
	for i, line := range lines {
		i, line := i, line
		eg.Go(func() error {
			rows, err := g.storage.GetMachineMonthKPIs(egCtx, line.LineID, year, month)
			if err != nil {
				return fmt.Errorf("line %d kpi: %w", line.LineID, err)
			}
			kpis[i] = rows
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, "", err
	}

	f := excelize.NewFile()
	defer f.Close()

	for i, line := range lines {
		sheet := safeName(line.LineName)
		if i == 0 {
			f.SetSheetName("Sheet1", sheet)
		} else {
			if _, err := f.NewSheet(sheet); err != nil {
				return nil, "", fmt.Errorf("sheet %s: %w", sheet, err)
			}
		}

		writeRow(f, sheet, 1,
			fmt.Sprintf("Line: %s", line.LineName),
			fmt.Sprintf("Month: %d", month),
			fmt.Sprintf("Year: %d", year),
		)
		writeRow(f, sheet, 3, toAny(kpiHeaders)...)

		for j, k := range kpis[i] {
			cells := []any{k.MachineName, k.Ratios.OEE, k.Ratios.OKRatio, k.Ratios.OutputRatio, k.Ratios.ActivityRatio}
			for _, v := range report.CategoryValues(k.Categories) {
				cells = append(cells, v)
			}
			cells = append(cells, report.Round2(k.Categories.Total()))
			writeRow(f, sheet, j+4, cells...)
		}

		if err := finishSheet(f, sheet, 3+len(kpis[i]), len(kpiHeaders)); err != nil {
			return nil, "", err
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, "", err
	}

	filename := fmt.Sprintf("KPI_%04d_%02d.xlsx", year, month)
	return buf.Bytes(), filename, nil
}

// exportCells lays out one export row: key column, 4 ratios, 11 category
// hours, then the same categories as percentages of the row total.
func exportCells(key any, r storage.Ratios, c storage.Categories) []any {
	cells := []any{key, r.OEE, r.OKRatio, r.OutputRatio, r.ActivityRatio}

	for _, v := range report.CategoryValues(c) {
		cells = append(cells, v)
	}
	for _, v := range report.CategoryValues(report.Percentages(c)) {
		cells = append(cells, v)
	}

	return cells
}

func writeRow(f *excelize.File, sheet string, row int, values ...any) {
	for i, v := range values {
		cell, _ := excelize.CoordinatesToCellName(i+1, row)
		f.SetCellValue(sheet, cell, v)
	}
}

// finishSheet draws the thin border grid over the used range and freezes the
// header rows.
func finishSheet(f *excelize.File, sheet string, lastRow, lastCol int) error {
	borderStyle, err := f.NewStyle(&excelize.Style{
		Border: []excelize.Border{
			{Type: "left", Color: "000000", Style: 1},
			{Type: "right", Color: "000000", Style: 1},
			{Type: "top", Color: "000000", Style: 1},
			{Type: "bottom", Color: "000000", Style: 1},
		},
	})
	if err != nil {
		return fmt.Errorf("border style: %w", err)
	}

	lastCell, _ := excelize.CoordinatesToCellName(lastCol, lastRow)
	if err := f.SetCellStyle(sheet, "A1", lastCell, borderStyle); err != nil {
		return fmt.Errorf("apply borders: %w", err)
	}

	f.SetPanes(sheet, &excelize.Panes{
		Freeze:      true,
		XSplit:      0,
		YSplit:      3,
		TopLeftCell: "A4",
	})

	f.SetColWidth(sheet, "A", "AA", 14)

	return nil
}

func toAny(values []string) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}

// safeName keeps sheet and file names to letters, digits and underscores.
func safeName(name string) string {
	out := make([]rune, 0, len(name))
	for _, ch := range name {
		switch {
		case ch >= 'a' && ch <= 'z', ch >= 'A' && ch <= 'Z', ch >= '0' && ch <= '9':
			out = append(out, ch)
		default:
			out = append(out, '_')
		}
	}
	return string(out)
}
