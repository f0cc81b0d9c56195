package update_booking

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-TeeTimeService/internal/api/middleware"
	"github.com/m04kA/SMC-TeeTimeService/internal/testutil"
	updateBooking "github.com/m04kA/SMC-TeeTimeService/internal/usecase/update_booking"
)

type useCaseMock struct {
	mock.Mock
}

func (m *useCaseMock) Execute(ctx context.Context, req *updateBooking.Request) (*updateBooking.Response, error) {
	args := m.Called(ctx, req)
	resp, _ := args.Get(0).(*updateBooking.Response)
	return resp, args.Error(1)
}

func newRequest(body string) *http.Request {
	r := httptest.NewRequest(http.MethodPatch, "/api/v1/bookings/3", strings.NewReader(body))
	r = mux.SetURLVars(r, map[string]string{"bookingId": "3"})
	return r.WithContext(middleware.WithUserID(r.Context(), "golfer-1"))
}

func TestHandler_Shrink(t *testing.T) {
	uc := &useCaseMock{}
	uc.On("Execute", mock.Anything, &updateBooking.Request{BookingID: 3, RequesterID: "golfer-1", Units: 1}).
		Return(&updateBooking.Response{
			ID:             3,
			SlotDate:       testutil.Date("2026-11-02"),
			StartTime:      "09:00",
			EndTime:        "09:30",
			Units:          1,
			SlotCount:      1,
			SlotIDs:        []int64{19},
			PendingSlotIDs: []int64{21},
		}, nil)

	w := httptest.NewRecorder()
	NewHandler(uc, testutil.NewLogger()).Handle(w, newRequest(`{"units": 1}`))

	require.Equal(t, http.StatusOK, w.Code)
	var resp BookingResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "09:30", resp.EndTime)
	assert.Equal(t, []int64{21}, resp.PendingSlotIDs)
}

func TestHandler_ErrorMapping(t *testing.T) {
	tests := []struct {
		err        error
		wantStatus int
	}{
		{updateBooking.ErrNotFound, http.StatusNotFound},
		{updateBooking.ErrAccessDenied, http.StatusForbidden},
		{updateBooking.ErrBookingStarted, http.StatusBadRequest},
		{updateBooking.ErrInsufficientRun, http.StatusUnprocessableEntity},
		{updateBooking.ErrSlotNoLongerAvailable, http.StatusConflict},
		{updateBooking.ErrConflict, http.StatusConflict},
		{updateBooking.ErrPersistenceFailure, http.StatusServiceUnavailable},
		{updateBooking.ErrInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			uc := &useCaseMock{}
			uc.On("Execute", mock.Anything, mock.Anything).Return(nil, tt.err)

			w := httptest.NewRecorder()
			NewHandler(uc, testutil.NewLogger()).Handle(w, newRequest(`{"units": 4}`))
			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}
}
