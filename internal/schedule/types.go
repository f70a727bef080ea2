// Package schedule implements the availability and booking engine: deriving
// bookable one-hour slots for the current week, checking them against live
// busy intervals, and reserving them on the external calendar.
package schedule

import (
	"time"
)

// TimeWindow is a half-open interval [Start, End).
type TimeWindow struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Slot is a one-hour bookable window with a display label such as
// "18:00 - 19:00".
type Slot struct {
	TimeWindow
	Label string `json:"label"`
}

// Rules describes when meetings may be booked: the timezone all slot math
// happens in, the permitted slot start hours, and the permitted weekdays.
type Rules struct {
	Location *time.Location
	Hours    []int
	Weekdays map[time.Weekday]bool
}

// NewRules builds booking rules from a location, slot start hours, and
// permitted weekdays.
func NewRules(loc *time.Location, hours []int, weekdays []time.Weekday) Rules {
	permitted := make(map[time.Weekday]bool, len(weekdays))
	for _, d := range weekdays {
		permitted[d] = true
	}
	return Rules{Location: loc, Hours: hours, Weekdays: permitted}
}

// BookingRequest is the caller-supplied slot reservation. It is never
// persisted; the calendar event it produces is the only durable record.
type BookingRequest struct {
	Start   time.Time `json:"start"`
	End     time.Time `json:"end"`
	Name    string    `json:"name,omitempty"`
	Email   string    `json:"email,omitempty"`
	Notes   string    `json:"notes,omitempty"`
	Summary string    `json:"summary,omitempty"`
}

// BookingResult reports a successful reservation. EmailStatus is empty when
// no confirmation email was requested.
type BookingResult struct {
	EventID     string
	MeetLink    string
	EmailStatus string
	EmailError  string
}

// Confirmation carries everything needed to build and send a booking
// confirmation email.
type Confirmation struct {
	Name     string
	Email    string
	Summary  string
	Start    time.Time
	End      time.Time
	Timezone string
	MeetLink string
	Notes    string
}
