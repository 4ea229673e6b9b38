package plan

import (
	"context"
	"fmt"
	"math"
	"sdvn-backend/internal/storage"
	"strconv"
	"strings"
	"time"
)

type PlanStorage interface {
	GetDayPlans(ctx context.Context, lineID, machineID int64, day string) ([]*storage.PlanProduction, error)
	GetMonthPlans(ctx context.Context, lineID, machineID int64, year, month int) ([]*storage.PlanProduction, error)
	InsertDefaultDayPlans(ctx context.Context, lineID int64, day string, def storage.DayPlanDefaults) (int64, error)
	InsertDefaultPlan(ctx context.Context, machineID int64, day string, def storage.DayPlanDefaults) error
	GetPlanDates(ctx context.Context, machineID int64, year, month int) (map[string]struct{}, error)
	GetMachinesByLine(ctx context.Context, lineID int64) ([]*storage.Machine, error)
	GetMachineCycleTime(ctx context.Context, machineID int64) (float64, error)
	UpdatePlans(ctx context.Context, updates []storage.PlanUpdate) error
}

type Service struct {
	storage PlanStorage
}

func New(storage PlanStorage) *Service {
	return &Service{storage: storage}
}

// Day requests seed a 16 hour plan with the two standard shifts; the month
// backfill seeds 0 hours. The asymmetry is deliberate: it matches how the
// planners have always filled the grid.
const (
	dayDefaultPlanHours   = 16.0
	monthDefaultPlanHours = 0.0

	shift1Start = " 06:00:00"
	shift1End   = " 14:00:00"
	shift2Start = " 14:00:00"
	shift2End   = " 22:00:00"
)

func defaults(day string, planHours float64) storage.DayPlanDefaults {
	return storage.DayPlanDefaults{
		DayPlan:     planHours,
		StartShift1: day + shift1Start,
		EndShift1:   day + shift1End,
		StartShift2: day + shift2Start,
		EndShift2:   day + shift2End,
	}
}

// DayPlans guarantees every machine on the line has a plan row for the day,
// then returns the rows (optionally narrowed to one machine).
func (s *Service) DayPlans(ctx context.Context, lineID, machineID int64, day string) ([]*storage.PlanProduction, error) {
	if _, err := s.storage.InsertDefaultDayPlans(ctx, lineID, day, defaults(day, dayDefaultPlanHours)); err != nil {
		return nil, fmt.Errorf("ensure day plans: %w", err)
	}

	return s.storage.GetDayPlans(ctx, lineID, machineID, day)
}

// MonthPlans backfills every missing (machine, date) of the month with a
// zero-hour default row, then returns the month's rows.
func (s *Service) MonthPlans(ctx context.Context, lineID, machineID int64, year, month int) ([]*storage.PlanProduction, error) {
	machines, err := s.monthMachines(ctx, lineID, machineID)
	if err != nil {
		return nil, err
	}

	dates := calendarDates(year, month)
	for _, id := range machines {
		existing, err := s.storage.GetPlanDates(ctx, id, year, month)
		if err != nil {
			return nil, fmt.Errorf("plan dates machine %d: %w", id, err)
		}

		for _, d := range dates {
			if _, ok := existing[d]; ok {
				continue
			}
			if err := s.storage.InsertDefaultPlan(ctx, id, d, defaults(d, monthDefaultPlanHours)); err != nil {
				return nil, fmt.Errorf("backfill machine %d day %s: %w", id, d, err)
			}
		}
	}

	return s.storage.GetMonthPlans(ctx, lineID, machineID, year, month)
}

func (s *Service) monthMachines(ctx context.Context, lineID, machineID int64) ([]int64, error) {
	if machineID != 0 {
		return []int64{machineID}, nil
	}

	machines, err := s.storage.GetMachinesByLine(ctx, lineID)
	if err != nil {
		return nil, fmt.Errorf("machines of line %d: %w", lineID, err)
	}

	ids := make([]int64, 0, len(machines))
	for _, m := range machines {
		ids = append(ids, m.MachineID)
	}
	return ids, nil
}

// calendarDates lists every real calendar date of the month as yyyy-mm-dd.
func calendarDates(year, month int) []string {
	t := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)

	var dates []string
	for t.Month() == time.Month(month) {
		dates = append(dates, t.Format("2006-01-02"))
		t = t.AddDate(0, 0, 1)
	}
	return dates
}

// ApplyEdits derives and persists a batch of plan edits. All rows are staged
// in one transaction and committed together.
func (s *Service) ApplyEdits(ctx context.Context, edits []storage.PlanEdit) (int, error) {
	updates := make([]storage.PlanUpdate, 0, len(edits))

	for i, edit := range edits {
		cycle, newCycle, err := s.resolveCycleTime(ctx, edit)
		if err != nil {
			return 0, fmt.Errorf("edit %d: %w", i, err)
		}

		dayPlan := DayPlanHours(edit.StartShift1, edit.EndShift1, edit.StartShift2, edit.EndShift2)

		updates = append(updates, storage.PlanUpdate{
			PlanID:        edit.PlanID,
			MachineID:     edit.MachineID,
			DayPlan:       dayPlan,
			TargetProduct: TargetProduct(dayPlan, cycle),
			StartShift1:   optional(edit.StartShift1),
			EndShift1:     optional(edit.EndShift1),
			StartShift2:   optional(edit.StartShift2),
			EndShift2:     optional(edit.EndShift2),
			NewCycleTime:  newCycle,
		})
	}

	if err := s.storage.UpdatePlans(ctx, updates); err != nil {
		return 0, err
	}

	return len(updates), nil
}

// resolveCycleTime prefers a supplied non-empty cycle time over the machine's
// stored one. A supplied value is returned a second time so the caller knows
// to write it back onto the machine.
func (s *Service) resolveCycleTime(ctx context.Context, edit storage.PlanEdit) (float64, *float64, error) {
	raw := strings.TrimSpace(edit.CycleTime)
	if raw != "" {
		cycle, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return 0, nil, fmt.Errorf("invalid cycle time %q: %w", edit.CycleTime, err)
		}
		return cycle, &cycle, nil
	}

	cycle, err := s.storage.GetMachineCycleTime(ctx, edit.MachineID)
	if err != nil {
		return 0, nil, fmt.Errorf("machine %d cycle time: %w", edit.MachineID, err)
	}
	return cycle, nil, nil
}

// DayPlanHours sums the shift windows and rounds half-to-even, matching the
// stored plans (8.5 hours becomes 8). A pair missing either bound
// contributes 0.
func DayPlanHours(start1, end1, start2, end2 string) float64 {
	hours := shiftHours(start1, end1) + shiftHours(start2, end2)
	return math.RoundToEven(hours)
}

func shiftHours(start, end string) float64 {
	s, okS := parseShift(start)
	e, okE := parseShift(end)
	if !okS || !okE {
		return 0
	}
	return e.Sub(s).Hours()
}

var shiftLayouts = []string{
	"2006-01-02T15:04",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

func parseShift(v string) (time.Time, bool) {
	v = strings.TrimSpace(v)
	if v == "" {
		return time.Time{}, false
	}

	for _, layout := range shiftLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// TargetProduct derives the daily unit target from planned hours and cycle
// time in seconds. Zero or missing cycle time yields 0.
func TargetProduct(dayPlanHours, cycleSeconds float64) int64 {
	if cycleSeconds <= 0 {
		return 0
	}
	return int64(math.Floor(dayPlanHours * 3600.0 / cycleSeconds))
}

func optional(v string) *string {
	if strings.TrimSpace(v) == "" {
		return nil
	}
	return &v
}
