package schedule

import (
	"context"
	"time"
)

// EventRequest describes the calendar event to create for a booking.
type EventRequest struct {
	Summary       string
	Description   string
	Start         time.Time
	End           time.Time
	AttendeeEmail string
}

// CreatedEvent is the outcome of inserting an event, including the
// auto-generated video meeting link when one was provisioned.
type CreatedEvent struct {
	ID       string
	MeetLink string
}

// CalendarGateway abstracts the external calendar. The calendar is the sole
// source of truth: nothing is cached or persisted on this side.
type CalendarGateway interface {
	// FreeBusy returns the busy intervals on the calendar within
	// [timeMin, timeMax).
	FreeBusy(ctx context.Context, timeMin, timeMax time.Time) ([]TimeWindow, error)

	// InsertEvent creates the event and returns its ID and meeting link.
	InsertEvent(ctx context.Context, ev EventRequest) (CreatedEvent, error)
}

// Notifier sends the booking confirmation. Failures are reported to the
// caller but never roll back a booking.
type Notifier interface {
	SendConfirmation(ctx context.Context, c Confirmation) error
}
