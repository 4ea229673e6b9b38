package report

import (
	"context"
	"fmt"
	"sdvn-backend/internal/storage"
)

type ReportStorage interface {
	GetMachineDay(ctx context.Context, machineID int64, day string) (*storage.DayValues, error)
	GetMachineDayProduct(ctx context.Context, machineID int64, day string) (*storage.ProductionOutput, error)
	GetMachineMonthRatios(ctx context.Context, machineID int64, year, month int) ([]storage.DayRatios, error)
	GetLineMonthRatios(ctx context.Context, lineID int64, year, month int) ([]storage.DayRatios, error)
	GetMachineMonthCategories(ctx context.Context, machineID int64, year, month int) ([]storage.DayCategories, error)
	GetLineMonthCategories(ctx context.Context, lineID int64, year, month int) ([]storage.DayCategories, error)
	GetMachineYearRatios(ctx context.Context, machineID int64, year int) ([]storage.MonthRatios, error)
	GetLineYearRatios(ctx context.Context, lineID int64, year int) ([]storage.MonthRatios, error)
	GetMachineYearCategories(ctx context.Context, machineID int64, year int) ([]storage.MonthCategories, error)
	GetLineYearCategories(ctx context.Context, lineID int64, year int) ([]storage.MonthCategories, error)
}

type Service struct {
	storage ReportStorage
}

func New(storage ReportStorage) *Service {
	return &Service{storage: storage}
}

// DayReport is the full single-day payload for one machine.
type DayReport struct {
	MachineID  int64            `json:"machine_id"`
	Day        string           `json:"day"`
	PowerRun   string           `json:"power_run"`
	TotalHours float64          `json:"total_hours"`
	Pie        []PiePoint       `json:"pie"`
	Details    []CategoryDetail `json:"details"`
	Product    Product          `json:"product"`
}

// MachineDay builds the day breakdown. Returns nil when no dayvalues row
// exists: absence of data is a normal empty result, not an error.
func (s *Service) MachineDay(ctx context.Context, machineID int64, day string) (*DayReport, error) {
	dv, err := s.storage.GetMachineDay(ctx, machineID, day)
	if err != nil {
		return nil, fmt.Errorf("machine day: %w", err)
	}
	if dv == nil {
		return nil, nil
	}

	details, pie, total := DeriveCategories(dv.Categories)

	prod, err := s.storage.GetMachineDayProduct(ctx, machineID, day)
	if err != nil {
		return nil, fmt.Errorf("machine day product: %w", err)
	}

	return &DayReport{
		MachineID:  machineID,
		Day:        dv.Days.Format("2006-01-02"),
		PowerRun:   fmt.Sprintf("%.2f", dv.PowerRun),
		TotalHours: Round2(total),
		Pie:        pie,
		Details:    details,
		Product:    DeriveProduct(prod),
	}, nil
}

func (s *Service) MachineMonthRatios(ctx context.Context, machineID int64, year, month int) ([]RatioDay, error) {
	rows, err := s.storage.GetMachineMonthRatios(ctx, machineID, year, month)
	if err != nil {
		return nil, err
	}
	return FillMonthRatios(year, month, rows), nil
}

func (s *Service) LineMonthRatios(ctx context.Context, lineID int64, year, month int) ([]RatioDay, error) {
	rows, err := s.storage.GetLineMonthRatios(ctx, lineID, year, month)
	if err != nil {
		return nil, err
	}
	return FillMonthRatios(year, month, rows), nil
}

func (s *Service) MachineMonthCategories(ctx context.Context, machineID int64, year, month int) ([]CategoryDay, storage.Categories, error) {
	rows, err := s.storage.GetMachineMonthCategories(ctx, machineID, year, month)
	if err != nil {
		return nil, storage.Categories{}, err
	}
	days, totals := FillMonthCategories(year, month, rows)
	return days, totals, nil
}

func (s *Service) LineMonthCategories(ctx context.Context, lineID int64, year, month int) ([]CategoryDay, storage.Categories, error) {
	rows, err := s.storage.GetLineMonthCategories(ctx, lineID, year, month)
	if err != nil {
		return nil, storage.Categories{}, err
	}
	days, totals := FillMonthCategories(year, month, rows)
	return days, totals, nil
}

func (s *Service) MachineYearRatios(ctx context.Context, machineID int64, year int) ([]RatioMonth, error) {
	rows, err := s.storage.GetMachineYearRatios(ctx, machineID, year)
	if err != nil {
		return nil, err
	}
	return FillYearRatios(rows), nil
}

func (s *Service) LineYearRatios(ctx context.Context, lineID int64, year int) ([]RatioMonth, error) {
	rows, err := s.storage.GetLineYearRatios(ctx, lineID, year)
	if err != nil {
		return nil, err
	}
	return FillYearRatios(rows), nil
}

func (s *Service) MachineYearCategories(ctx context.Context, machineID int64, year int) ([]CategoryMonth, error) {
	rows, err := s.storage.GetMachineYearCategories(ctx, machineID, year)
	if err != nil {
		return nil, err
	}
	return FillYearCategories(rows), nil
}

func (s *Service) LineYearCategories(ctx context.Context, lineID int64, year int) ([]CategoryMonth, error) {
	rows, err := s.storage.GetLineYearCategories(ctx, lineID, year)
	if err != nil {
		return nil, err
	}
	return FillYearCategories(rows), nil
}
