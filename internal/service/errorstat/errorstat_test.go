package errorstat

import (
	"context"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"sdvn-backend/internal/storage"
	"testing"
	"time"
)

type MockErrorStorage struct {
	mock.Mock
}

func (m *MockErrorStorage) GetErrorStats(ctx context.Context, from, to time.Time, lineID, machineID int64) ([]storage.ErrorStat, error) {
	args := m.Called(ctx, from, to, lineID, machineID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]storage.ErrorStat), args.Error(1)
}

func sampleStats() []storage.ErrorStat {
	t0 := time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)
	return []storage.ErrorStat{
		{MachineID: 1, MachineName: "M1", ErrorCode: "E1", ErrorName: "jam", Count: 3, FirstStart: t0, LastEnd: t0.Add(time.Hour), TotalSeconds: 600},
		{MachineID: 1, MachineName: "M1", ErrorCode: "E2", ErrorName: "sensor", Count: 7, FirstStart: t0, LastEnd: t0.Add(time.Hour), TotalSeconds: 120},
		{MachineID: 2, MachineName: "M2", ErrorCode: "E3", ErrorName: "feeder", Count: 3, FirstStart: t0, LastEnd: t0.Add(time.Hour), TotalSeconds: 900},
	}
}

func TestAggregate_SortByCount(t *testing.T) {
	mockStorage := new(MockErrorStorage)
	from, to := DayWindow(time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC))
	mockStorage.On("GetErrorStats", mock.Anything, from, to, int64(0), int64(0)).Return(sampleStats(), nil)

	service := New(mockStorage)

	items, err := service.Aggregate(context.Background(), from, to, 0, 0, SortByCount)

	assert.NoError(t, err)
	assert.Len(t, items, 3)
	assert.Equal(t, "E2", items[0].ErrorCode)
	// tied counts fall back to duration descending
	assert.Equal(t, "E3", items[1].ErrorCode)
	assert.Equal(t, "E1", items[2].ErrorCode)
}

func TestAggregate_SortByDuration(t *testing.T) {
	mockStorage := new(MockErrorStorage)
	from, to := DayWindow(time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC))
	mockStorage.On("GetErrorStats", mock.Anything, from, to, int64(0), int64(0)).Return(sampleStats(), nil)

	service := New(mockStorage)

	items, err := service.Aggregate(context.Background(), from, to, 0, 0, SortByDuration)

	assert.NoError(t, err)
	assert.Equal(t, "E3", items[0].ErrorCode)
	assert.Equal(t, "E1", items[1].ErrorCode)
	assert.Equal(t, "E2", items[2].ErrorCode)
}

func TestAggregate_UnknownSortDefaultsToCount(t *testing.T) {
	mockStorage := new(MockErrorStorage)
	from, to := DayWindow(time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC))
	mockStorage.On("GetErrorStats", mock.Anything, from, to, int64(0), int64(0)).Return(sampleStats(), nil)

	service := New(mockStorage)

	items, err := service.Aggregate(context.Background(), from, to, 0, 0, "whatever")

	assert.NoError(t, err)
	assert.Equal(t, "E2", items[0].ErrorCode)
}

func TestAggregate_FormatsTimesAndDuration(t *testing.T) {
	mockStorage := new(MockErrorStorage)
	from, to := DayWindow(time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC))
	mockStorage.On("GetErrorStats", mock.Anything, from, to, int64(0), int64(5)).
		Return([]storage.ErrorStat{
			{
				MachineID:    5,
				ErrorCode:    "E9",
				Count:        1,
				FirstStart:   time.Date(2025, 6, 1, 8, 15, 30, 0, time.UTC),
				LastEnd:      time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC),
				TotalSeconds: 3725,
			},
		}, nil)

	service := New(mockStorage)

	items, err := service.Aggregate(context.Background(), from, to, 0, 5, SortByCount)

	assert.NoError(t, err)
	assert.Equal(t, "2025-06-01 08:15:30", items[0].FirstStart)
	assert.Equal(t, "2025-06-01 09:00:00", items[0].LastEnd)
	assert.Equal(t, "1h 2m 5s", items[0].DurationText)
}

func TestDurationText(t *testing.T) {
	assert.Equal(t, "0h 0m 0s", DurationText(0))
	assert.Equal(t, "0h 1m 30s", DurationText(90))
	assert.Equal(t, "2h 0m 0s", DurationText(7200))
	assert.Equal(t, "1h 2m 5s", DurationText(3725.9))
}

func TestWindows(t *testing.T) {
	from, to := DayWindow(time.Date(2025, 6, 15, 13, 45, 0, 0, time.UTC))
	assert.Equal(t, time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC), from)
	assert.Equal(t, time.Date(2025, 6, 16, 0, 0, 0, 0, time.UTC), to)

	from, to = MonthWindow(2025, 12)
	assert.Equal(t, time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC), from)
	assert.Equal(t, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), to)

	from, to = YearWindow(2024)
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), from)
	assert.Equal(t, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), to)
}
