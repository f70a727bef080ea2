package schedule

import (
	"context"
	"time"
)

// fakeGateway implements CalendarGateway in memory for engine tests.
type fakeGateway struct {
	busy        []TimeWindow
	freeBusyErr error
	insertErr   error
	created     CreatedEvent

	freeBusyCalls []TimeWindow
	inserted      []EventRequest
}

func (f *fakeGateway) FreeBusy(_ context.Context, timeMin, timeMax time.Time) ([]TimeWindow, error) {
	f.freeBusyCalls = append(f.freeBusyCalls, TimeWindow{Start: timeMin, End: timeMax})
	if f.freeBusyErr != nil {
		return nil, f.freeBusyErr
	}
	return f.busy, nil
}

func (f *fakeGateway) InsertEvent(_ context.Context, ev EventRequest) (CreatedEvent, error) {
	f.inserted = append(f.inserted, ev)
	if f.insertErr != nil {
		return CreatedEvent{}, f.insertErr
	}
	return f.created, nil
}

// fakeNotifier records confirmations and optionally fails.
type fakeNotifier struct {
	err  error
	sent []Confirmation
}

func (f *fakeNotifier) SendConfirmation(_ context.Context, c Confirmation) error {
	f.sent = append(f.sent, c)
	return f.err
}

func weekdayRules(loc *time.Location) Rules {
	return NewRules(loc, []int{18, 19, 20}, []time.Weekday{
		time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday,
	})
}
