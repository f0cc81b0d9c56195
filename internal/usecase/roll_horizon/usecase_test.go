package roll_horizon

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-TeeTimeService/internal/testutil"
	regenerateSlots "github.com/m04kA/SMC-TeeTimeService/internal/usecase/regenerate_slots"
)

type fixedTime struct{ now time.Time }

func (f fixedTime) Now() time.Time { return f.now }

type regeneratorMock struct {
	mock.Mock
}

func (m *regeneratorMock) Execute(ctx context.Context, req *regenerateSlots.Request) (*regenerateSlots.Response, error) {
	args := m.Called(ctx, req)
	resp, _ := args.Get(0).(*regenerateSlots.Response)
	return resp, args.Error(1)
}

func TestExecute_RollsEveryResource(t *testing.T) {
	store := testutil.NewStore()
	store.SeedConfig(testutil.SimulatorConfig(10, 2))
	course := testutil.TeeSheetConfig(20)
	course.BookingHorizonDays = 7
	store.SeedConfig(course)
	store.SeedConfig(testutil.SimulatorConfig(30, 1))

	regen := &regeneratorMock{}
	regen.On("Execute", mock.Anything, &regenerateSlots.Request{
		ResourceID: 10, From: testutil.Date("2026-11-01"), To: testutil.Date("2026-11-15"),
	}).Return(&regenerateSlots.Response{Inserted: 96, Deleted: 90}, nil)
	regen.On("Execute", mock.Anything, &regenerateSlots.Request{
		ResourceID: 20, From: testutil.Date("2026-11-01"), To: testutil.Date("2026-11-08"),
	}).Return(&regenerateSlots.Response{Inserted: 66}, nil)
	regen.On("Execute", mock.Anything, mock.MatchedBy(func(r *regenerateSlots.Request) bool {
		return r.ResourceID == 30
	})).Return(nil, errors.New("db down"))

	log := testutil.NewLogger()
	uc := NewUseCase(store.Resources, regen, log)
	uc.timeProvider = fixedTime{now: time.Date(2026, 11, 1, 3, 0, 0, 0, time.UTC)}

	result, err := uc.Execute(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3, result.Resources)
	assert.Equal(t, 162, result.Inserted)
	assert.Equal(t, int64(90), result.Deleted)
	assert.Equal(t, []int64{30}, result.Failed)
	assert.True(t, log.Contains("error", "resource=30"))
	regen.AssertExpectations(t)
}

func TestExecute_ListFailure(t *testing.T) {
	store := testutil.NewStore()
	store.FailAfter(testutil.OpResourceList, 0, errors.New("db down"))

	uc := NewUseCase(store.Resources, &regeneratorMock{}, testutil.NewLogger())
	_, err := uc.Execute(context.Background())
	assert.ErrorIs(t, err, ErrInternal)
}
