package ingest

import (
	"context"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"sdvn-backend/internal/storage"
	"strings"
	"testing"
)

type MockIngestStorage struct {
	mock.Mock
}

func (m *MockIngestStorage) MachineIDs(ctx context.Context) (map[int64]struct{}, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[int64]struct{}), args.Error(1)
}

func (m *MockIngestStorage) InsertDayValues(ctx context.Context, rows []storage.DayValuesInsert) error {
	args := m.Called(ctx, rows)
	return args.Error(0)
}

func knownMachines() map[int64]struct{} {
	return map[int64]struct{}{4: {}, 12: {}}
}

func TestImportCSV_InsertsKnownMachinesSkipsRest(t *testing.T) {
	csvData := strings.Join([]string{
		"MachineID,Days,PowerRun,Operation,Note",
		"12.0,2025-06-01,11.5,8.0,first shift",
		"99,2025-06-01,10,7,unknown machine",
		"4,2025-06-02,9.25,6.5,",
	}, "\n")

	mockStorage := new(MockIngestStorage)
	mockStorage.On("MachineIDs", mock.Anything).Return(knownMachines(), nil)
	mockStorage.On("InsertDayValues", mock.Anything, mock.MatchedBy(func(rows []storage.DayValuesInsert) bool {
		if len(rows) != 2 {
			return false
		}
		first := rows[0]
		return first.MachineID == 12 &&
			first.Days == "2025-06-01" &&
			first.Note == "first shift" &&
			first.PowerRun != nil && *first.PowerRun == 11.5 &&
			first.Operation != nil && *first.Operation == 8.0 &&
			first.Fault == nil
	})).Return(nil)

	service := New(mockStorage)

	result, err := service.ImportCSV(context.Background(), strings.NewReader(csvData))

	assert.NoError(t, err)
	assert.Equal(t, 2, result.Inserted)
	assert.Equal(t, 1, result.Skipped)
	mockStorage.AssertExpectations(t)
}

func TestImportCSV_EmptyAndBadCellsBecomeNull(t *testing.T) {
	csvData := strings.Join([]string{
		"MachineID,Days,PowerRun,Fault",
		"4,2025-06-01,,n/a",
	}, "\n")

	mockStorage := new(MockIngestStorage)
	mockStorage.On("MachineIDs", mock.Anything).Return(knownMachines(), nil)
	mockStorage.On("InsertDayValues", mock.Anything, mock.MatchedBy(func(rows []storage.DayValuesInsert) bool {
		return len(rows) == 1 && rows[0].PowerRun == nil && rows[0].Fault == nil
	})).Return(nil)

	service := New(mockStorage)

	result, err := service.ImportCSV(context.Background(), strings.NewReader(csvData))

	assert.NoError(t, err)
	assert.Equal(t, 1, result.Inserted)
	mockStorage.AssertExpectations(t)
}

func TestImportCSV_MissingRequiredColumn(t *testing.T) {
	mockStorage := new(MockIngestStorage)
	service := New(mockStorage)

	_, err := service.ImportCSV(context.Background(), strings.NewReader("MachineID,PowerRun\n4,10"))

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "Days")
	mockStorage.AssertNotCalled(t, "InsertDayValues", mock.Anything, mock.Anything)
}

func TestImportCSV_RowsWithoutDateSkipped(t *testing.T) {
	csvData := strings.Join([]string{
		"MachineID,Days",
		"4,",
		",2025-06-01",
		"4,2025-06-01",
	}, "\n")

	mockStorage := new(MockIngestStorage)
	mockStorage.On("MachineIDs", mock.Anything).Return(knownMachines(), nil)
	mockStorage.On("InsertDayValues", mock.Anything, mock.Anything).Return(nil)

	service := New(mockStorage)

	result, err := service.ImportCSV(context.Background(), strings.NewReader(csvData))

	assert.NoError(t, err)
	assert.Equal(t, 1, result.Inserted)
	assert.Equal(t, 2, result.Skipped)
}

func TestImportCSV_NoValidRowsSkipsInsert(t *testing.T) {
	mockStorage := new(MockIngestStorage)
	mockStorage.On("MachineIDs", mock.Anything).Return(knownMachines(), nil)

	service := New(mockStorage)

	result, err := service.ImportCSV(context.Background(), strings.NewReader("MachineID,Days\n77,2025-06-01"))

	assert.NoError(t, err)
	assert.Equal(t, 0, result.Inserted)
	assert.Equal(t, 1, result.Skipped)
	mockStorage.AssertNotCalled(t, "InsertDayValues", mock.Anything, mock.Anything)
}
