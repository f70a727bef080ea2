package schedule

import (
	"context"
	"time"

	"github.com/jortega/meetslot/pkg/logging"
)

// AvailabilityResult is the answer to a "what's free" query.
type AvailabilityResult struct {
	Timezone string     `json:"tz"`
	Range    TimeWindow `json:"range"`
	Week     TimeWindow `json:"week"`
	Slots    []Slot     `json:"slots"`
}

// Availability lists the open slots for a rolling window clamped to the
// current week.
type Availability struct {
	gateway CalendarGateway
	rules   Rules
	logger  *logging.Logger
}

// NewAvailability creates the availability engine.
func NewAvailability(gateway CalendarGateway, rules Rules, logger *logging.Logger) *Availability {
	if logger == nil {
		logger = logging.Default()
	}
	return &Availability{gateway: gateway, rules: rules, logger: logger}
}

// List returns the open slots between now and now+days, clamped to the end of
// the current week. A range that does not extend past now yields an empty
// slot list, not an error. Slots come back in chronological order.
func (a *Availability) List(ctx context.Context, now time.Time, days int) (*AvailabilityResult, error) {
	local := now.In(a.rules.Location)
	week := WeekWindow(local, a.rules.Location)

	rangeEnd := local.AddDate(0, 0, days)
	if rangeEnd.After(week.End) {
		rangeEnd = week.End
	}

	result := &AvailabilityResult{
		Timezone: a.rules.Location.String(),
		Range:    TimeWindow{Start: local, End: rangeEnd},
		Week:     week,
		Slots:    []Slot{},
	}
	if !rangeEnd.After(local) {
		return result, nil
	}

	busy, err := a.gateway.FreeBusy(ctx, local, rangeEnd)
	if err != nil {
		return nil, err
	}

	lastDay := startOfDay(rangeEnd, a.rules.Location)
	for day := startOfDay(local, a.rules.Location); !day.After(lastDay); day = day.AddDate(0, 0, 1) {
		for _, slot := range SlotsForDay(day, a.rules) {
			if slot.Start.Before(local) {
				continue
			}
			if slot.Start.Before(week.Start) || !slot.Start.Before(week.End) {
				continue
			}
			if Overlaps(slot.TimeWindow, busy) {
				continue
			}
			result.Slots = append(result.Slots, slot)
		}
	}

	a.logger.Debug("availability computed",
		"days", days,
		"busy_intervals", len(busy),
		"open_slots", len(result.Slots),
	)
	return result, nil
}
