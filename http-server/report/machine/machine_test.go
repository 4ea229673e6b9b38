package machine

import (
	"context"
	"errors"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"sdvn-backend/internal/service/report"
	"sdvn-backend/internal/storage"
)

type MockReports struct {
	mock.Mock
}

func (m *MockReports) MachineDay(ctx context.Context, machineID int64, day string) (*report.DayReport, error) {
	args := m.Called(ctx, machineID, day)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*report.DayReport), args.Error(1)
}

func (m *MockReports) MachineMonthRatios(ctx context.Context, machineID int64, year, month int) ([]report.RatioDay, error) {
	args := m.Called(ctx, machineID, year, month)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]report.RatioDay), args.Error(1)
}

func (m *MockReports) MachineMonthCategories(ctx context.Context, machineID int64, year, month int) ([]report.CategoryDay, storage.Categories, error) {
	args := m.Called(ctx, machineID, year, month)
	if args.Get(0) == nil {
		return nil, storage.Categories{}, args.Error(2)
	}
	return args.Get(0).([]report.CategoryDay), args.Get(1).(storage.Categories), args.Error(2)
}

func (m *MockReports) MachineYearRatios(ctx context.Context, machineID int64, year int) ([]report.RatioMonth, error) {
	args := m.Called(ctx, machineID, year)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]report.RatioMonth), args.Error(1)
}

func (m *MockReports) MachineYearCategories(ctx context.Context, machineID int64, year int) ([]report.CategoryMonth, error) {
	args := m.Called(ctx, machineID, year)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]report.CategoryMonth), args.Error(1)
}

// serveWithID routes through chi so the {id} URL param resolves.
func serveWithID(handler http.HandlerFunc, target string) *httptest.ResponseRecorder {
	router := chi.NewRouter()
	router.Get("/api/machines/{id}/day", handler)
	router.Get("/api/machines/{id}/month-ratio", handler)
	router.Get("/api/machines/{id}/year-ratio", handler)

	req := httptest.NewRequest(http.MethodGet, target, nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

func TestDay_Success(t *testing.T) {
	mockReports := new(MockReports)

	mockReports.On("MachineDay", mock.Anything, int64(4), "2025-06-01").
		Return(&report.DayReport{
			MachineID:  4,
			Day:        "2025-06-01",
			PowerRun:   "11.50",
			TotalHours: 10,
		}, nil)

	rr := serveWithID(Day(slog.Default(), mockReports), "/api/machines/4/day?day=2025-06-01")

	assert.Equal(t, http.StatusOK, rr.Code)

	var resp report.DayReport
	err := render.DecodeJSON(strings.NewReader(rr.Body.String()), &resp)
	assert.NoError(t, err)
	assert.Equal(t, int64(4), resp.MachineID)
	assert.Equal(t, "11.50", resp.PowerRun)

	mockReports.AssertExpectations(t)
}

func TestDay_NoDataRendersNull(t *testing.T) {
	mockReports := new(MockReports)
	mockReports.On("MachineDay", mock.Anything, int64(4), "2025-06-02").Return(nil, nil)

	rr := serveWithID(Day(slog.Default(), mockReports), "/api/machines/4/day?day=2025-06-02")

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"data":null`)
}

func TestDay_MissingDay(t *testing.T) {
	mockReports := new(MockReports)

	rr := serveWithID(Day(slog.Default(), mockReports), "/api/machines/4/day")

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	mockReports.AssertNotCalled(t, "MachineDay")
}

func TestDay_InvalidMachineID(t *testing.T) {
	mockReports := new(MockReports)

	rr := serveWithID(Day(slog.Default(), mockReports), "/api/machines/abc/day?day=2025-06-01")

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	mockReports.AssertNotCalled(t, "MachineDay")
}

func TestDay_DBError(t *testing.T) {
	mockReports := new(MockReports)
	mockReports.On("MachineDay", mock.Anything, int64(4), "2025-06-01").
		Return(nil, errors.New("connection timeout"))

	rr := serveWithID(Day(slog.Default(), mockReports), "/api/machines/4/day?day=2025-06-01")

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Contains(t, rr.Body.String(), "Internal server error")
}

func TestMonthRatio_Success(t *testing.T) {
	mockReports := new(MockReports)
	mockReports.On("MachineMonthRatios", mock.Anything, int64(4), 2025, 6).
		Return([]report.RatioDay{{Day: 1, Date: "2025-06-01"}}, nil)

	rr := serveWithID(MonthRatio(slog.Default(), mockReports), "/api/machines/4/month-ratio?month=6&year=2025&data=oee")

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"month":6`)
	assert.Contains(t, rr.Body.String(), `"data_type":"oee"`)
	mockReports.AssertExpectations(t)
}

func TestMonthRatio_YearDefaultsToCurrent(t *testing.T) {
	mockReports := new(MockReports)
	mockReports.On("MachineMonthRatios", mock.Anything, int64(4), mock.AnythingOfType("int"), 6).
		Return([]report.RatioDay{}, nil)

	rr := serveWithID(MonthRatio(slog.Default(), mockReports), "/api/machines/4/month-ratio?month=6")

	assert.Equal(t, http.StatusOK, rr.Code)
	mockReports.AssertExpectations(t)
}

func TestMonthRatio_InvalidMonth(t *testing.T) {
	mockReports := new(MockReports)

	rr := serveWithID(MonthRatio(slog.Default(), mockReports), "/api/machines/4/month-ratio?month=13")

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	mockReports.AssertNotCalled(t, "MachineMonthRatios")
}

func TestYearRatio_Success(t *testing.T) {
	mockReports := new(MockReports)
	mockReports.On("MachineYearRatios", mock.Anything, int64(4), 2025).
		Return([]report.RatioMonth{{Month: 1}}, nil)

	rr := serveWithID(YearRatio(slog.Default(), mockReports), "/api/machines/4/year-ratio?year=2025")

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"year":2025`)
	mockReports.AssertExpectations(t)
}

func TestYearRatio_MissingYear(t *testing.T) {
	mockReports := new(MockReports)

	rr := serveWithID(YearRatio(slog.Default(), mockReports), "/api/machines/4/year-ratio")

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	mockReports.AssertNotCalled(t, "MachineYearRatios")
}
