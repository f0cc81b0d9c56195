package get_user_bookings

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-TeeTimeService/internal/api/middleware"
	"github.com/m04kA/SMC-TeeTimeService/internal/domain"
	"github.com/m04kA/SMC-TeeTimeService/internal/service/bookings"
	"github.com/m04kA/SMC-TeeTimeService/internal/service/bookings/models"
	"github.com/m04kA/SMC-TeeTimeService/internal/testutil"
)

func TestHandler(t *testing.T) {
	store := testutil.NewStore()
	seeded := store.SeedResource(testutil.TeeSheetConfig(20), testutil.Date("2026-11-02"))
	store.SeedBooking("golfer-1", []*domain.Slot{testutil.FindSlot(seeded, nil, "08:00")}, 2)
	store.SeedBooking("golfer-1", []*domain.Slot{testutil.FindSlot(seeded, nil, "09:00")}, 1)
	store.SeedBooking("golfer-2", []*domain.Slot{testutil.FindSlot(seeded, nil, "08:00")}, 2)

	h := NewHandler(bookings.NewService(store.Bookings, store.Links, testutil.NewLogger()), testutil.NewLogger())

	r := httptest.NewRequest(http.MethodGet, "/api/v1/users/me/bookings", nil)
	r = r.WithContext(middleware.WithUserID(r.Context(), "golfer-1"))
	w := httptest.NewRecorder()
	h.Handle(w, r)

	require.Equal(t, http.StatusOK, w.Code)
	var resp []models.BookingResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp, 2)
	for _, b := range resp {
		assert.Equal(t, "golfer-1", b.RequesterID)
	}
}

func TestHandler_MissingUser(t *testing.T) {
	store := testutil.NewStore()
	log := testutil.NewLogger()
	h := NewHandler(bookings.NewService(store.Bookings, store.Links, log), log)

	w := httptest.NewRecorder()
	h.Handle(w, httptest.NewRequest(http.MethodGet, "/api/v1/users/me/bookings", nil))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.True(t, log.Contains("warn", "Missing user ID"))
}
