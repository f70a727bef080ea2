package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jortega/meetslot/internal/schedule"
	"github.com/jortega/meetslot/pkg/logging"
)

// fakeGateway drives the real engines through the HTTP handlers.
type fakeGateway struct {
	busy        []schedule.TimeWindow
	freeBusyErr error
	insertErr   error
	created     schedule.CreatedEvent
}

func (f *fakeGateway) FreeBusy(context.Context, time.Time, time.Time) ([]schedule.TimeWindow, error) {
	if f.freeBusyErr != nil {
		return nil, f.freeBusyErr
	}
	return f.busy, nil
}

func (f *fakeGateway) InsertEvent(context.Context, schedule.EventRequest) (schedule.CreatedEvent, error) {
	if f.insertErr != nil {
		return schedule.CreatedEvent{}, f.insertErr
	}
	return f.created, nil
}

// mondayMorning is Monday 2026-03-02 09:00 UTC.
var mondayMorning = time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

func newTestHandler(gw *fakeGateway) *CalendarHandler {
	rules := schedule.NewRules(time.UTC, []int{18, 19, 20}, []time.Weekday{
		time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday,
	})
	logger := logging.NewWithWriter(&strings.Builder{}, "error")
	availability := schedule.NewAvailability(gw, rules, logger)
	booker := schedule.NewBooker(gw, nil, rules, "Meeting", logger)
	h := NewCalendarHandler(availability, booker, nil, logger)
	h.now = func() time.Time { return mondayMorning }
	return h
}

func bookBody(start time.Time) string {
	return fmt.Sprintf(`{"start":%q,"end":%q,"name":"Ana","email":"ana@example.com"}`,
		start.Format(time.RFC3339), start.Add(time.Hour).Format(time.RFC3339))
}

func TestAvailability_OK(t *testing.T) {
	h := newTestHandler(&fakeGateway{})

	req := httptest.NewRequest(http.MethodGet, "/calendar/availability", nil)
	w := httptest.NewRecorder()
	h.Availability(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var resp struct {
		TZ    string `json:"tz"`
		Range struct{ Start, End time.Time }
		Week  struct{ Start, End time.Time }
		Slots []struct {
			Start time.Time `json:"start"`
			End   time.Time `json:"end"`
			Label string    `json:"label"`
		} `json:"slots"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "UTC", resp.TZ)
	require.Len(t, resp.Slots, 15)
	assert.Equal(t, "18:00 - 19:00", resp.Slots[0].Label)
	assert.Equal(t, time.Monday, resp.Week.Start.Weekday())
}

func TestAvailability_DaysValidation(t *testing.T) {
	h := newTestHandler(&fakeGateway{})

	for _, days := range []string{"0", "32", "-1", "ten"} {
		req := httptest.NewRequest(http.MethodGet, "/calendar/availability?days="+days, nil)
		w := httptest.NewRecorder()
		h.Availability(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code, "days=%s", days)

		var resp map[string]string
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "validation_error", resp["error"])
	}
}

func TestAvailability_CalendarUnavailable(t *testing.T) {
	gw := &fakeGateway{freeBusyErr: &schedule.UnavailableError{Err: errors.New("token refresh failed")}}
	h := newTestHandler(gw)

	req := httptest.NewRequest(http.MethodGet, "/calendar/availability", nil)
	w := httptest.NewRecorder()
	h.Availability(w, req)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestBook_OK(t *testing.T) {
	gw := &fakeGateway{created: schedule.CreatedEvent{ID: "evt-1", MeetLink: "https://meet.google.com/abc"}}
	h := newTestHandler(gw)

	start := time.Date(2026, 3, 3, 19, 0, 0, 0, time.UTC)
	req := httptest.NewRequest(http.MethodPost, "/calendar/book", strings.NewReader(bookBody(start)))
	w := httptest.NewRecorder()
	h.Book(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "booked", resp["status"])
	assert.Equal(t, "evt-1", resp["eventId"])
	assert.Equal(t, "https://meet.google.com/abc", resp["meetLink"])
	assert.NotContains(t, resp, "emailStatus", "no notifier configured")
}

func TestBook_InvalidJSON(t *testing.T) {
	h := newTestHandler(&fakeGateway{})

	req := httptest.NewRequest(http.MethodPost, "/calendar/book", strings.NewReader("{not json"))
	w := httptest.NewRecorder()
	h.Book(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestBook_ValidationError(t *testing.T) {
	h := newTestHandler(&fakeGateway{})

	// 90-minute request
	start := time.Date(2026, 3, 3, 19, 0, 0, 0, time.UTC)
	body := fmt.Sprintf(`{"start":%q,"end":%q}`,
		start.Format(time.RFC3339), start.Add(90*time.Minute).Format(time.RFC3339))
	req := httptest.NewRequest(http.MethodPost, "/calendar/book", strings.NewReader(body))
	w := httptest.NewRecorder()
	h.Book(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "validation_error", resp["error"])
	assert.Equal(t, "slot must be 60 minutes", resp["detail"])
}

func TestBook_SlotTaken(t *testing.T) {
	start := time.Date(2026, 3, 3, 19, 0, 0, 0, time.UTC)
	gw := &fakeGateway{busy: []schedule.TimeWindow{{
		Start: start.Add(30 * time.Minute),
		End:   start.Add(45 * time.Minute),
	}}}
	h := newTestHandler(gw)

	req := httptest.NewRequest(http.MethodPost, "/calendar/book", strings.NewReader(bookBody(start)))
	w := httptest.NewRecorder()
	h.Book(w, req)

	require.Equal(t, http.StatusConflict, w.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "slot_taken", resp["error"])
}

func TestBook_UpstreamError(t *testing.T) {
	gw := &fakeGateway{insertErr: &schedule.UpstreamError{StatusCode: 500, Err: errors.New("backend error")}}
	h := newTestHandler(gw)

	start := time.Date(2026, 3, 3, 19, 0, 0, 0, time.UTC)
	req := httptest.NewRequest(http.MethodPost, "/calendar/book", strings.NewReader(bookBody(start)))
	w := httptest.NewRecorder()
	h.Book(w, req)

	assert.Equal(t, http.StatusBadGateway, w.Code)
}

func TestBook_CalendarUnavailable(t *testing.T) {
	gw := &fakeGateway{freeBusyErr: &schedule.UnavailableError{Err: errors.New("credentials not configured")}}
	h := newTestHandler(gw)

	start := time.Date(2026, 3, 3, 19, 0, 0, 0, time.UTC)
	req := httptest.NewRequest(http.MethodPost, "/calendar/book", strings.NewReader(bookBody(start)))
	w := httptest.NewRecorder()
	h.Book(w, req)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestHealth(t *testing.T) {
	h := newTestHandler(&fakeGateway{})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	h.Health(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp["status"])
}
