package cancel_booking

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-TeeTimeService/internal/api/middleware"
	"github.com/m04kA/SMC-TeeTimeService/internal/testutil"
	cancelBooking "github.com/m04kA/SMC-TeeTimeService/internal/usecase/cancel_booking"
)

type useCaseMock struct {
	mock.Mock
}

func (m *useCaseMock) Execute(ctx context.Context, req *cancelBooking.Request) (*cancelBooking.Response, error) {
	args := m.Called(ctx, req)
	resp, _ := args.Get(0).(*cancelBooking.Response)
	return resp, args.Error(1)
}

func newRequest(bookingID string) *http.Request {
	r := httptest.NewRequest(http.MethodDelete, "/api/v1/bookings/"+bookingID, nil)
	r = mux.SetURLVars(r, map[string]string{"bookingId": bookingID})
	return r.WithContext(middleware.WithUserID(r.Context(), "golfer-1"))
}

func TestHandler_Cancelled(t *testing.T) {
	uc := &useCaseMock{}
	uc.On("Execute", mock.Anything, &cancelBooking.Request{BookingID: 7, RequesterID: "golfer-1"}).
		Return(&cancelBooking.Response{BookingID: 7, ReleasedSlotIDs: []int64{1, 2, 3}}, nil)

	w := httptest.NewRecorder()
	NewHandler(uc, testutil.NewLogger()).Handle(w, newRequest("7"))

	require.Equal(t, http.StatusOK, w.Code)
	var resp CancelBookingResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, StatusCancelled, resp.Status)
	assert.Equal(t, []int64{1, 2, 3}, resp.ReleasedSlotIDs)
}

func TestHandler_PartialIsAccepted(t *testing.T) {
	uc := &useCaseMock{}
	uc.On("Execute", mock.Anything, mock.Anything).Return(nil, &cancelBooking.PartialError{
		BookingID:      7,
		PendingSlotIDs: []int64{3},
		Cause:          errors.New("connection reset"),
	})

	w := httptest.NewRecorder()
	NewHandler(uc, testutil.NewLogger()).Handle(w, newRequest("7"))

	require.Equal(t, http.StatusAccepted, w.Code)
	var resp CancelBookingResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, StatusPending, resp.Status)
	assert.Equal(t, []int64{3}, resp.PendingSlotIDs)
}

func TestHandler_ErrorMapping(t *testing.T) {
	tests := []struct {
		err        error
		wantStatus int
	}{
		{cancelBooking.ErrNotFound, http.StatusNotFound},
		{cancelBooking.ErrAccessDenied, http.StatusForbidden},
		{cancelBooking.ErrPersistenceFailure, http.StatusServiceUnavailable},
		{cancelBooking.ErrInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			uc := &useCaseMock{}
			uc.On("Execute", mock.Anything, mock.Anything).Return(nil, tt.err)

			w := httptest.NewRecorder()
			NewHandler(uc, testutil.NewLogger()).Handle(w, newRequest("7"))
			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}

	w := httptest.NewRecorder()
	NewHandler(&useCaseMock{}, testutil.NewLogger()).Handle(w, newRequest("x"))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
