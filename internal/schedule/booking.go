package schedule

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/jortega/meetslot/pkg/logging"
)

// Booker validates and reserves slots. The external calendar is the arbiter
// of truth: the busy re-check immediately before insert narrows the race
// window between concurrent bookings but cannot eliminate it for writers in
// other processes.
type Booker struct {
	gateway  CalendarGateway
	notifier Notifier
	rules    Rules
	summary  string
	logger   *logging.Logger

	// mu serializes check-then-insert within this process only.
	mu sync.Mutex
}

// NewBooker creates the booking engine. notifier may be nil when email is
// not configured; summary is the event title used when the request carries
// none.
func NewBooker(gateway CalendarGateway, notifier Notifier, rules Rules, summary string, logger *logging.Logger) *Booker {
	if logger == nil {
		logger = logging.Default()
	}
	return &Booker{
		gateway:  gateway,
		notifier: notifier,
		rules:    rules,
		summary:  summary,
		logger:   logger,
	}
}

// Book validates the request, re-checks the slot against live busy intervals,
// inserts the event, and sends the confirmation email best-effort. Email
// failure is reported in the result, never as an error.
func (b *Booker) Book(ctx context.Context, req BookingRequest, now time.Time) (*BookingResult, error) {
	local := now.In(b.rules.Location)
	week := WeekWindow(local, b.rules.Location)
	start := req.Start.In(b.rules.Location)
	end := req.End.In(b.rules.Location)

	if err := b.validate(start, end, local, week); err != nil {
		return nil, err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	busy, err := b.gateway.FreeBusy(ctx, start, end)
	if err != nil {
		return nil, err
	}
	if Overlaps(TimeWindow{Start: start, End: end}, busy) {
		return nil, ErrSlotTaken
	}

	summary := req.Summary
	if summary == "" {
		summary = b.summary
	}
	created, err := b.gateway.InsertEvent(ctx, EventRequest{
		Summary:       summary,
		Description:   describeRequester(req),
		Start:         start,
		End:           end,
		AttendeeEmail: req.Email,
	})
	if err != nil {
		return nil, err
	}
	b.logger.Info("slot booked",
		"event_id", created.ID,
		"start", start,
		"meet_link", created.MeetLink,
	)

	result := &BookingResult{EventID: created.ID, MeetLink: created.MeetLink}
	if req.Email != "" && b.notifier != nil {
		err := b.notifier.SendConfirmation(ctx, Confirmation{
			Name:     req.Name,
			Email:    req.Email,
			Summary:  summary,
			Start:    start,
			End:      end,
			Timezone: b.rules.Location.String(),
			MeetLink: created.MeetLink,
			Notes:    req.Notes,
		})
		if err != nil {
			b.logger.Error("confirmation email failed", "error", err, "event_id", created.ID)
			result.EmailStatus = "failed"
			result.EmailError = err.Error()
		} else {
			result.EmailStatus = "sent"
		}
	}
	return result, nil
}

// validate enforces the slot rules in order, before any external call.
func (b *Booker) validate(start, end, now time.Time, week TimeWindow) error {
	if !end.After(start) {
		return &ValidationError{Reason: "end must be after start"}
	}
	if end.Sub(start) != time.Hour {
		return &ValidationError{Reason: "slot must be 60 minutes"}
	}
	if !b.rules.Weekdays[start.Weekday()] {
		return &ValidationError{Reason: "slot must fall on a bookable weekday"}
	}
	if !b.hourPermitted(start.Hour()) || start.Minute() != 0 {
		return &ValidationError{Reason: fmt.Sprintf("slot must start at %s", b.hourList())}
	}
	if start.Before(now) {
		return &ValidationError{Reason: "slot must be in the future"}
	}
	if start.Before(week.Start) || !start.Before(week.End) {
		return &ValidationError{Reason: "slot must be within the current week"}
	}
	return nil
}

func (b *Booker) hourPermitted(hour int) bool {
	for _, h := range b.rules.Hours {
		if h == hour {
			return true
		}
	}
	return false
}

func (b *Booker) hourList() string {
	labels := make([]string, len(b.rules.Hours))
	for i, h := range b.rules.Hours {
		labels[i] = fmt.Sprintf("%02d:00", h)
	}
	return strings.Join(labels, ", ")
}

func describeRequester(req BookingRequest) string {
	var lines []string
	if req.Name != "" {
		lines = append(lines, "Name: "+req.Name)
	}
	if req.Email != "" {
		lines = append(lines, "Email: "+req.Email)
	}
	if req.Notes != "" {
		lines = append(lines, "Notes: "+req.Notes)
	}
	return strings.Join(lines, "\n")
}
