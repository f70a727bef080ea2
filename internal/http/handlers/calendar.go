// Package handlers exposes the booking HTTP surface and translates engine
// errors into HTTP statuses.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/jortega/meetslot/internal/observability/metrics"
	"github.com/jortega/meetslot/internal/schedule"
	"github.com/jortega/meetslot/pkg/logging"
)

const defaultDays = 10

// CalendarHandler serves the availability and booking endpoints.
type CalendarHandler struct {
	availability *schedule.Availability
	booker       *schedule.Booker
	metrics      *metrics.BookingMetrics
	logger       *logging.Logger
	now          func() time.Time
}

// NewCalendarHandler creates the handler. metrics may be nil.
func NewCalendarHandler(availability *schedule.Availability, booker *schedule.Booker, m *metrics.BookingMetrics, logger *logging.Logger) *CalendarHandler {
	if logger == nil {
		logger = logging.Default()
	}
	return &CalendarHandler{
		availability: availability,
		booker:       booker,
		metrics:      m,
		logger:       logger,
		now:          time.Now,
	}
}

// Availability handles GET /calendar/availability?days=1..31.
func (h *CalendarHandler) Availability(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	days := defaultDays
	if raw := r.URL.Query().Get("days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > 31 {
			h.metrics.ObserveAvailability("validation_error")
			writeError(w, http.StatusBadRequest, "validation_error", "days must be an integer between 1 and 31")
			return
		}
		days = parsed
	}

	result, err := h.availability.List(r.Context(), h.now(), days)
	if err != nil {
		h.metrics.ObserveAvailability("error")
		h.writeEngineError(w, err)
		return
	}

	h.metrics.ObserveAvailability("ok")
	h.metrics.ObserveLatency("availability", time.Since(start).Seconds())
	writeJSON(w, http.StatusOK, result)
}

// Book handles POST /calendar/book.
func (h *CalendarHandler) Book(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	var req schedule.BookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.metrics.ObserveBooking("validation_error")
		writeError(w, http.StatusBadRequest, "validation_error", "invalid request body: "+err.Error())
		return
	}

	result, err := h.booker.Book(r.Context(), req, h.now())
	if err != nil {
		h.metrics.ObserveBooking(outcomeLabel(err))
		h.writeEngineError(w, err)
		return
	}

	response := map[string]any{
		"status":   "booked",
		"eventId":  result.EventID,
		"meetLink": result.MeetLink,
	}
	if result.EmailStatus != "" {
		response["emailStatus"] = result.EmailStatus
	}
	if result.EmailError != "" {
		response["emailError"] = result.EmailError
	}

	h.metrics.ObserveBooking("booked")
	h.metrics.ObserveLatency("book", time.Since(start).Seconds())
	writeJSON(w, http.StatusOK, response)
}

// Health handles GET /health.
func (h *CalendarHandler) Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// writeEngineError maps the engine's error taxonomy onto HTTP statuses. No
// engine fault escapes as an unhandled response.
func (h *CalendarHandler) writeEngineError(w http.ResponseWriter, err error) {
	var validation *schedule.ValidationError
	var unavailable *schedule.UnavailableError
	var upstream *schedule.UpstreamError

	switch {
	case errors.As(err, &validation):
		writeError(w, http.StatusBadRequest, "validation_error", validation.Reason)
	case errors.Is(err, schedule.ErrSlotTaken):
		writeError(w, http.StatusConflict, "slot_taken", "the requested slot is no longer available")
	case errors.As(err, &unavailable):
		h.logger.Error("calendar dependency unavailable", "error", err)
		writeError(w, http.StatusServiceUnavailable, "calendar_unavailable", unavailable.Error())
	case errors.As(err, &upstream):
		h.logger.Error("calendar API rejected the call", "error", err, "upstream_status", upstream.StatusCode)
		writeError(w, http.StatusBadGateway, "calendar_api_error", upstream.Error())
	default:
		h.logger.Error("unexpected booking engine error", "error", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
	}
}

func outcomeLabel(err error) string {
	var validation *schedule.ValidationError
	switch {
	case errors.As(err, &validation):
		return "validation_error"
	case errors.Is(err, schedule.ErrSlotTaken):
		return "slot_taken"
	default:
		return "error"
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, code, detail string) {
	writeJSON(w, status, map[string]string{"error": code, "detail": detail})
}
