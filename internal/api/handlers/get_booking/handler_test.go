package get_booking

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-TeeTimeService/internal/api/middleware"
	"github.com/m04kA/SMC-TeeTimeService/internal/domain"
	"github.com/m04kA/SMC-TeeTimeService/internal/service/bookings"
	"github.com/m04kA/SMC-TeeTimeService/internal/service/bookings/models"
	"github.com/m04kA/SMC-TeeTimeService/internal/testutil"
)

func newRequest(bookingID, userID string) *http.Request {
	r := httptest.NewRequest(http.MethodGet, "/api/v1/bookings/"+bookingID, nil)
	r = mux.SetURLVars(r, map[string]string{"bookingId": bookingID})
	return r.WithContext(middleware.WithUserID(r.Context(), userID))
}

func TestHandler(t *testing.T) {
	store := testutil.NewStore()
	seeded := store.SeedResource(testutil.TeeSheetConfig(20), testutil.Date("2026-11-02"))
	b := store.SeedBooking("golfer-1", []*domain.Slot{testutil.FindSlot(seeded, nil, "08:00")}, 4)
	h := NewHandler(bookings.NewService(store.Bookings, store.Links, testutil.NewLogger()), testutil.NewLogger())

	w := httptest.NewRecorder()
	h.Handle(w, newRequest("1", "golfer-1"))
	require.Equal(t, http.StatusOK, w.Code)
	var resp models.BookingResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, b.ID, resp.ID)
	assert.Equal(t, 4, resp.Units)
	assert.Equal(t, "08:10", resp.EndTime)

	w = httptest.NewRecorder()
	h.Handle(w, newRequest("1", "golfer-2"))
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = httptest.NewRecorder()
	h.Handle(w, newRequest("99", "golfer-1"))
	assert.Equal(t, http.StatusNotFound, w.Code)
}
