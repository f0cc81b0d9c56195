package save_resource_config

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-TeeTimeService/internal/service/resources"
	"github.com/m04kA/SMC-TeeTimeService/internal/testutil"
	regenerateSlots "github.com/m04kA/SMC-TeeTimeService/internal/usecase/regenerate_slots"
)

type regenerateMock struct {
	mock.Mock
}

func (m *regenerateMock) Execute(ctx context.Context, req *regenerateSlots.Request) (*regenerateSlots.Response, error) {
	args := m.Called(ctx, req)
	resp, _ := args.Get(0).(*regenerateSlots.Response)
	return resp, args.Error(1)
}

type fixedTime struct{ now time.Time }

func (f fixedTime) Now() time.Time { return f.now }

func newRequest(body string) *http.Request {
	r := httptest.NewRequest(http.MethodPut, "/api/v1/resources/10/config", strings.NewReader(body))
	return mux.SetURLVars(r, map[string]string{"resourceId": "10"})
}

func TestHandler_SavesAndRegenerates(t *testing.T) {
	store := testutil.NewStore()
	svc := resources.NewService(store.Resources, testutil.NewLogger())

	regen := &regenerateMock{}
	regen.On("Execute", mock.Anything, &regenerateSlots.Request{
		ResourceID: 10,
		From:       testutil.Date("2026-11-01"),
		To:         testutil.Date("2026-11-08"),
	}).Return(&regenerateSlots.Response{
		ResourceID: 10,
		From:       testutil.Date("2026-11-01"),
		To:         testutil.Date("2026-11-08"),
		Inserted:   768,
	}, nil)

	h := NewHandler(svc, regen, testutil.NewLogger())
	h.timeProvider = fixedTime{now: time.Date(2026, 11, 1, 12, 0, 0, 0, time.UTC)}

	w := httptest.NewRecorder()
	h.Handle(w, newRequest(`{"name": "Bays", "kind": "exclusive", "laneCount": 2, "bookingHorizonDays": 7}`))

	require.Equal(t, http.StatusOK, w.Code)
	var resp SaveConfigResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, int64(10), resp.Config.ResourceID)
	assert.Equal(t, 1, resp.Config.SlotCapacity)
	require.NotNil(t, resp.Regeneration)
	assert.Equal(t, 768, resp.Regeneration.Inserted)
	assert.Equal(t, "2026-11-08", resp.Regeneration.To)
	regen.AssertExpectations(t)
}

func TestHandler_RegenerationFailureKeepsConfig(t *testing.T) {
	store := testutil.NewStore()
	svc := resources.NewService(store.Resources, testutil.NewLogger())

	regen := &regenerateMock{}
	regen.On("Execute", mock.Anything, mock.Anything).Return(nil, regenerateSlots.ErrInternal)

	log := testutil.NewLogger()
	w := httptest.NewRecorder()
	NewHandler(svc, regen, log).Handle(w, newRequest(`{"name": "Course", "kind": "shared", "firstTime": "07:00", "lastTime": "18:00"}`))

	require.Equal(t, http.StatusOK, w.Code)
	var resp SaveConfigResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Nil(t, resp.Regeneration)
	assert.True(t, log.Contains("error", "regeneration failed"))
}

func TestHandler_InvalidConfig(t *testing.T) {
	store := testutil.NewStore()
	svc := resources.NewService(store.Resources, testutil.NewLogger())
	regen := &regenerateMock{}

	w := httptest.NewRecorder()
	NewHandler(svc, regen, testutil.NewLogger()).Handle(w, newRequest(`{"name": "Bays", "kind": "hovercraft", "laneCount": 2}`))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	regen.AssertNotCalled(t, "Execute", mock.Anything, mock.Anything)
}
