package schedule

import (
	"fmt"
	"time"
)

// WeekWindow returns the Monday 00:00 through next Monday 00:00 window
// containing now, in the given location. Because the bounds are built from
// calendar dates the window may span more or less than 168 hours across a
// DST transition.
func WeekWindow(now time.Time, loc *time.Location) TimeWindow {
	local := now.In(loc)
	daysSinceMonday := (int(local.Weekday()) + 6) % 7
	start := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc).
		AddDate(0, 0, -daysSinceMonday)
	return TimeWindow{Start: start, End: start.AddDate(0, 0, 7)}
}

// SlotsForDay produces the candidate slots for a single calendar day, one per
// permitted start hour, in ascending order. Days on non-permitted weekdays
// produce no slots.
func SlotsForDay(day time.Time, rules Rules) []Slot {
	local := day.In(rules.Location)
	if !rules.Weekdays[local.Weekday()] {
		return nil
	}
	slots := make([]Slot, 0, len(rules.Hours))
	for _, hour := range rules.Hours {
		start := time.Date(local.Year(), local.Month(), local.Day(), hour, 0, 0, 0, rules.Location)
		end := start.Add(time.Hour)
		slots = append(slots, Slot{
			TimeWindow: TimeWindow{Start: start, End: end},
			Label:      fmt.Sprintf("%s - %s", start.Format("15:04"), end.Format("15:04")),
		})
	}
	return slots
}

// Overlaps reports whether w strictly intersects any busy interval. Intervals
// are half-open, so windows that merely touch at an endpoint do not overlap.
func Overlaps(w TimeWindow, busy []TimeWindow) bool {
	for _, b := range busy {
		if w.Start.Before(b.End) && w.End.After(b.Start) {
			return true
		}
	}
	return false
}

// startOfDay returns midnight of t's calendar day in loc.
func startOfDay(t time.Time, loc *time.Location) time.Time {
	local := t.In(loc)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
}
