package plan

import (
	"context"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"sdvn-backend/internal/storage"
	"testing"
	"time"
)

type MockPlanStorage struct {
	mock.Mock
}

func (m *MockPlanStorage) GetDayPlans(ctx context.Context, lineID, machineID int64, day string) ([]*storage.PlanProduction, error) {
	args := m.Called(ctx, lineID, machineID, day)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*storage.PlanProduction), args.Error(1)
}

func (m *MockPlanStorage) GetMonthPlans(ctx context.Context, lineID, machineID int64, year, month int) ([]*storage.PlanProduction, error) {
	args := m.Called(ctx, lineID, machineID, year, month)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*storage.PlanProduction), args.Error(1)
}

func (m *MockPlanStorage) InsertDefaultDayPlans(ctx context.Context, lineID int64, day string, def storage.DayPlanDefaults) (int64, error) {
	args := m.Called(ctx, lineID, day, def)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockPlanStorage) InsertDefaultPlan(ctx context.Context, machineID int64, day string, def storage.DayPlanDefaults) error {
	args := m.Called(ctx, machineID, day, def)
	return args.Error(0)
}

func (m *MockPlanStorage) GetPlanDates(ctx context.Context, machineID int64, year, month int) (map[string]struct{}, error) {
	args := m.Called(ctx, machineID, year, month)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]struct{}), args.Error(1)
}

func (m *MockPlanStorage) GetMachinesByLine(ctx context.Context, lineID int64) ([]*storage.Machine, error) {
	args := m.Called(ctx, lineID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*storage.Machine), args.Error(1)
}

func (m *MockPlanStorage) GetMachineCycleTime(ctx context.Context, machineID int64) (float64, error) {
	args := m.Called(ctx, machineID)
	return args.Get(0).(float64), args.Error(1)
}

func (m *MockPlanStorage) UpdatePlans(ctx context.Context, updates []storage.PlanUpdate) error {
	args := m.Called(ctx, updates)
	return args.Error(0)
}

func TestDayPlanHours(t *testing.T) {
	cases := []struct {
		name                       string
		start1, end1, start2, end2 string
		want                       float64
	}{
		{
			name:   "both shifts",
			start1: "2025-06-01T06:00", end1: "2025-06-01T14:00",
			start2: "2025-06-01T14:00", end2: "2025-06-01T22:00",
			want: 16,
		},
		{
			name:   "half hour rounds to even",
			start1: "2025-06-01T06:00", end1: "2025-06-01T14:30",
			want: 8,
		},
		{
			name:   "incomplete pair contributes nothing",
			start1: "2025-06-01T06:00", end1: "2025-06-01T14:00",
			start2: "2025-06-01T14:00",
			want: 8,
		},
		{
			name: "all empty",
			want: 0,
		},
		{
			name:   "seconds layout",
			start1: "2025-06-01 06:00:00", end1: "2025-06-01 14:00:00",
			want: 8,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, DayPlanHours(tc.start1, tc.end1, tc.start2, tc.end2))
		})
	}
}

func TestTargetProduct(t *testing.T) {
	assert.Equal(t, int64(960), TargetProduct(8, 30))
	assert.Equal(t, int64(1920), TargetProduct(16, 30))
	assert.Equal(t, int64(0), TargetProduct(8, 0))
	assert.Equal(t, int64(0), TargetProduct(8, -1))
	assert.Equal(t, int64(1292), TargetProduct(8, 22.28))
}

func TestDayPlans_SeedsSixteenHourDefault(t *testing.T) {
	mockStorage := new(MockPlanStorage)

	wantDef := storage.DayPlanDefaults{
		DayPlan:     16,
		StartShift1: "2025-06-01 06:00:00",
		EndShift1:   "2025-06-01 14:00:00",
		StartShift2: "2025-06-01 14:00:00",
		EndShift2:   "2025-06-01 22:00:00",
	}
	plans := []*storage.PlanProduction{{PlanID: 1, MachineID: 4, DayPlan: 16}}

	mockStorage.On("InsertDefaultDayPlans", mock.Anything, int64(2), "2025-06-01", wantDef).Return(int64(3), nil)
	mockStorage.On("GetDayPlans", mock.Anything, int64(2), int64(0), "2025-06-01").Return(plans, nil)

	service := New(mockStorage)

	got, err := service.DayPlans(context.Background(), 2, 0, "2025-06-01")

	assert.NoError(t, err)
	assert.Equal(t, plans, got)
	mockStorage.AssertExpectations(t)
}

func TestMonthPlans_BackfillsMissingDatesWithZeroHours(t *testing.T) {
	mockStorage := new(MockPlanStorage)

	existing := map[string]struct{}{}
	for d := 1; d <= 30; d++ {
		if d == 15 {
			continue
		}
		existing[time.Date(2025, 6, d, 0, 0, 0, 0, time.UTC).Format("2006-01-02")] = struct{}{}
	}

	wantDef := storage.DayPlanDefaults{
		DayPlan:     0,
		StartShift1: "2025-06-15 06:00:00",
		EndShift1:   "2025-06-15 14:00:00",
		StartShift2: "2025-06-15 14:00:00",
		EndShift2:   "2025-06-15 22:00:00",
	}

	mockStorage.On("GetPlanDates", mock.Anything, int64(4), 2025, 6).Return(existing, nil)
	mockStorage.On("InsertDefaultPlan", mock.Anything, int64(4), "2025-06-15", wantDef).Return(nil)
	mockStorage.On("GetMonthPlans", mock.Anything, int64(2), int64(4), 2025, 6).
		Return([]*storage.PlanProduction{}, nil)

	service := New(mockStorage)

	_, err := service.MonthPlans(context.Background(), 2, 4, 2025, 6)

	assert.NoError(t, err)
	mockStorage.AssertExpectations(t)
	mockStorage.AssertNumberOfCalls(t, "InsertDefaultPlan", 1)
}

func TestApplyEdits_SuppliedCycleTime(t *testing.T) {
	mockStorage := new(MockPlanStorage)

	edit := storage.PlanEdit{
		PlanID:      10,
		MachineID:   4,
		StartShift1: "2025-06-01T06:00",
		EndShift1:   "2025-06-01T14:30",
		CycleTime:   "30",
	}

	mockStorage.On("UpdatePlans", mock.Anything, mock.MatchedBy(func(updates []storage.PlanUpdate) bool {
		if len(updates) != 1 {
			return false
		}
		u := updates[0]
		return u.PlanID == 10 &&
			u.DayPlan == 8 &&
			u.TargetProduct == 960 &&
			u.NewCycleTime != nil && *u.NewCycleTime == 30 &&
			u.StartShift2 == nil
	})).Return(nil)

	service := New(mockStorage)

	updated, err := service.ApplyEdits(context.Background(), []storage.PlanEdit{edit})

	assert.NoError(t, err)
	assert.Equal(t, 1, updated)
	mockStorage.AssertNotCalled(t, "GetMachineCycleTime", mock.Anything, mock.Anything)
}

func TestApplyEdits_StoredCycleTime(t *testing.T) {
	mockStorage := new(MockPlanStorage)

	edit := storage.PlanEdit{
		PlanID:      11,
		MachineID:   4,
		StartShift1: "2025-06-01T06:00",
		EndShift1:   "2025-06-01T14:00",
		StartShift2: "2025-06-01T14:00",
		EndShift2:   "2025-06-01T22:00",
	}

	mockStorage.On("GetMachineCycleTime", mock.Anything, int64(4)).Return(45.0, nil)
	mockStorage.On("UpdatePlans", mock.Anything, mock.MatchedBy(func(updates []storage.PlanUpdate) bool {
		if len(updates) != 1 {
			return false
		}
		u := updates[0]
		return u.DayPlan == 16 && u.TargetProduct == 1280 && u.NewCycleTime == nil
	})).Return(nil)

	service := New(mockStorage)

	updated, err := service.ApplyEdits(context.Background(), []storage.PlanEdit{edit})

	assert.NoError(t, err)
	assert.Equal(t, 1, updated)
	mockStorage.AssertExpectations(t)
}

func TestApplyEdits_InvalidCycleTime(t *testing.T) {
	mockStorage := new(MockPlanStorage)
	service := New(mockStorage)

	_, err := service.ApplyEdits(context.Background(), []storage.PlanEdit{
		{PlanID: 1, MachineID: 4, CycleTime: "abc"},
	})

	assert.Error(t, err)
	mockStorage.AssertNotCalled(t, "UpdatePlans", mock.Anything, mock.Anything)
}
