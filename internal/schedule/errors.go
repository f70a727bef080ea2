package schedule

import (
	"errors"
	"fmt"
)

// ErrSlotTaken is returned when the requested slot overlaps a busy interval
// at reservation time. The caller should re-list availability.
var ErrSlotTaken = errors.New("slot already booked")

// ValidationError rejects a booking request that violates the slot rules.
// It is a client error, not a system fault.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return e.Reason }

// UnavailableError indicates the calendar dependency could not be reached or
// authenticated. The caller may retry later.
type UnavailableError struct {
	Err error
}

func (e *UnavailableError) Error() string {
	return fmt.Sprintf("calendar unavailable: %v", e.Err)
}

func (e *UnavailableError) Unwrap() error { return e.Err }

// UpstreamError indicates the calendar API itself rejected a call.
type UpstreamError struct {
	StatusCode int
	Err        error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("calendar API error: %v", e.Err)
}

func (e *UpstreamError) Unwrap() error { return e.Err }
