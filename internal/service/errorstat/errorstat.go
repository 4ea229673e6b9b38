package errorstat

import (
	"context"
	"fmt"
	"sdvn-backend/internal/storage"
	"sort"
	"time"
)

type ErrorStorage interface {
	GetErrorStats(ctx context.Context, from, to time.Time, lineID, machineID int64) ([]storage.ErrorStat, error)
}

type Service struct {
	storage ErrorStorage
}

func New(storage ErrorStorage) *Service {
	return &Service{storage: storage}
}

// Item is one aggregated error row as the dashboard consumes it.
type Item struct {
	MachineID    int64   `json:"machine_id"`
	MachineName  string  `json:"machine_name"`
	ErrorCode    string  `json:"error_code"`
	ErrorName    string  `json:"error_name"`
	Count        int64   `json:"count"`
	FirstStart   string  `json:"first_start"`
	LastEnd      string  `json:"last_end"`
	TotalSeconds float64 `json:"total_seconds"`
	DurationText string  `json:"duration_text"`
}

const (
	SortByCount    = "count"
	SortByDuration = "duration"
)

// Aggregate fetches error stats for [from, to) and returns them sorted. Sort
// order is count-descending or duration-descending, ties broken by the other
// metric descending.
func (s *Service) Aggregate(ctx context.Context, from, to time.Time, lineID, machineID int64, sortBy string) ([]Item, error) {
	stats, err := s.storage.GetErrorStats(ctx, from, to, lineID, machineID)
	if err != nil {
		return nil, fmt.Errorf("error stats: %w", err)
	}

	items := make([]Item, 0, len(stats))
	for _, st := range stats {
		items = append(items, Item{
			MachineID:    st.MachineID,
			MachineName:  st.MachineName,
			ErrorCode:    st.ErrorCode,
			ErrorName:    st.ErrorName,
			Count:        st.Count,
			FirstStart:   st.FirstStart.Format("2006-01-02 15:04:05"),
			LastEnd:      st.LastEnd.Format("2006-01-02 15:04:05"),
			TotalSeconds: st.TotalSeconds,
			DurationText: DurationText(st.TotalSeconds),
		})
	}

	switch sortBy {
	case SortByDuration:
		sort.SliceStable(items, func(i, j int) bool {
			if items[i].TotalSeconds != items[j].TotalSeconds {
				return items[i].TotalSeconds > items[j].TotalSeconds
			}
			return items[i].Count > items[j].Count
		})
	default:
		sort.SliceStable(items, func(i, j int) bool {
			if items[i].Count != items[j].Count {
				return items[i].Count > items[j].Count
			}
			return items[i].TotalSeconds > items[j].TotalSeconds
		})
	}

	return items, nil
}

// DurationText renders total seconds as "{h}h {m}m {s}s".
func DurationText(seconds float64) string {
	total := int64(seconds)
	h := total / 3600
	m := (total % 3600) / 60
	sec := total % 60
	return fmt.Sprintf("%dh %dm %ds", h, m, sec)
}

// DayWindow is [day 00:00, next day 00:00).
func DayWindow(day time.Time) (time.Time, time.Time) {
	from := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
	return from, from.AddDate(0, 0, 1)
}

// MonthWindow is [first of month, first of next month).
func MonthWindow(year, month int) (time.Time, time.Time) {
	from := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	return from, from.AddDate(0, 1, 0)
}

// YearWindow is [Jan 1, Jan 1 next year).
func YearWindow(year int) (time.Time, time.Time) {
	from := time.Date(year, 1, 1, 0, 0, 0, 0, time.UTC)
	return from, from.AddDate(1, 0, 0)
}
