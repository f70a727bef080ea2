// Package gcal implements the calendar gateway against the Google Calendar
// v3 API, authenticated with an OAuth2 refresh token.
package gcal

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	calendar "google.golang.org/api/calendar/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"github.com/jortega/meetslot/internal/schedule"
	"github.com/jortega/meetslot/pkg/logging"
)

// Scopes requested for calendar access.
var scopes = []string{
	calendar.CalendarEventsScope,
	calendar.CalendarReadonlyScope,
}

// Credentials holds the OAuth client and the offline refresh token minted for
// the target account.
type Credentials struct {
	ClientID     string
	ClientSecret string
	RefreshToken string
}

func (c Credentials) complete() bool {
	return c.ClientID != "" && c.ClientSecret != "" && c.RefreshToken != ""
}

// Client implements schedule.CalendarGateway. The underlying service is
// constructed lazily on first use so missing credentials surface as a
// calendar-unavailable fault instead of a startup failure.
type Client struct {
	creds      Credentials
	calendarID string
	location   *time.Location
	logger     *logging.Logger

	once    sync.Once
	svc     *calendar.Service
	initErr error
}

// NewClient creates a Google Calendar gateway for a single calendar ID.
func NewClient(creds Credentials, calendarID string, loc *time.Location, logger *logging.Logger) *Client {
	if logger == nil {
		logger = logging.Default()
	}
	return &Client{
		creds:      creds,
		calendarID: calendarID,
		location:   loc,
		logger:     logger,
	}
}

func (c *Client) service() (*calendar.Service, error) {
	c.once.Do(func() {
		if !c.creds.complete() {
			c.initErr = &schedule.UnavailableError{Err: errors.New("google calendar credentials not configured")}
			return
		}
		conf := &oauth2.Config{
			ClientID:     c.creds.ClientID,
			ClientSecret: c.creds.ClientSecret,
			Endpoint:     google.Endpoint,
			Scopes:       scopes,
		}
		// The token source outlives any single request, so it is not tied
		// to a request context.
		ts := conf.TokenSource(context.Background(), &oauth2.Token{RefreshToken: c.creds.RefreshToken})
		svc, err := calendar.NewService(context.Background(), option.WithTokenSource(ts))
		if err != nil {
			c.initErr = &schedule.UnavailableError{Err: fmt.Errorf("create calendar service: %w", err)}
			return
		}
		c.svc = svc
	})
	return c.svc, c.initErr
}

// FreeBusy queries the busy intervals on the calendar within [timeMin, timeMax).
func (c *Client) FreeBusy(ctx context.Context, timeMin, timeMax time.Time) ([]schedule.TimeWindow, error) {
	svc, err := c.service()
	if err != nil {
		return nil, err
	}

	req := &calendar.FreeBusyRequest{
		TimeMin: timeMin.Format(time.RFC3339),
		TimeMax: timeMax.Format(time.RFC3339),
		Items:   []*calendar.FreeBusyRequestItem{{Id: c.calendarID}},
	}
	resp, err := svc.Freebusy.Query(req).Context(ctx).Do()
	if err != nil {
		return nil, classify(err)
	}
	return busyWindows(resp, c.calendarID)
}

// InsertEvent creates the event with an auto-provisioned Meet conference and
// returns its ID and meeting link.
func (c *Client) InsertEvent(ctx context.Context, ev schedule.EventRequest) (schedule.CreatedEvent, error) {
	svc, err := c.service()
	if err != nil {
		return schedule.CreatedEvent{}, err
	}

	event := &calendar.Event{
		Summary:     ev.Summary,
		Description: ev.Description,
		Start: &calendar.EventDateTime{
			DateTime: ev.Start.Format(time.RFC3339),
			TimeZone: c.location.String(),
		},
		End: &calendar.EventDateTime{
			DateTime: ev.End.Format(time.RFC3339),
			TimeZone: c.location.String(),
		},
		ConferenceData: &calendar.ConferenceData{
			CreateRequest: &calendar.CreateConferenceRequest{
				RequestId:             uuid.NewString(),
				ConferenceSolutionKey: &calendar.ConferenceSolutionKey{Type: "hangoutsMeet"},
			},
		},
	}
	if ev.AttendeeEmail != "" {
		event.Attendees = []*calendar.EventAttendee{{Email: ev.AttendeeEmail}}
	}

	created, err := svc.Events.Insert(c.calendarID, event).
		ConferenceDataVersion(1).
		Context(ctx).
		Do()
	if err != nil {
		return schedule.CreatedEvent{}, classify(err)
	}
	c.logger.Debug("calendar event created", "event_id", created.Id)
	return schedule.CreatedEvent{ID: created.Id, MeetLink: meetLink(created)}, nil
}

// busyWindows extracts the busy intervals for calendarID from a freebusy
// response.
func busyWindows(resp *calendar.FreeBusyResponse, calendarID string) ([]schedule.TimeWindow, error) {
	cal, ok := resp.Calendars[calendarID]
	if !ok {
		return nil, nil
	}
	windows := make([]schedule.TimeWindow, 0, len(cal.Busy))
	for _, period := range cal.Busy {
		start, err := time.Parse(time.RFC3339, period.Start)
		if err != nil {
			return nil, &schedule.UpstreamError{Err: fmt.Errorf("parse busy interval start %q: %w", period.Start, err)}
		}
		end, err := time.Parse(time.RFC3339, period.End)
		if err != nil {
			return nil, &schedule.UpstreamError{Err: fmt.Errorf("parse busy interval end %q: %w", period.End, err)}
		}
		windows = append(windows, schedule.TimeWindow{Start: start, End: end})
	}
	return windows, nil
}

// meetLink prefers the event's direct hangout link and falls back to scanning
// conference entry points for a video entry.
func meetLink(ev *calendar.Event) string {
	if ev.HangoutLink != "" {
		return ev.HangoutLink
	}
	if ev.ConferenceData != nil {
		for _, ep := range ev.ConferenceData.EntryPoints {
			if ep.EntryPointType == "video" {
				return ep.Uri
			}
		}
	}
	return ""
}

// classify maps Google API failures onto the engine's error taxonomy: an API
// response error is an upstream rejection, everything else (token refresh,
// transport) means the calendar dependency is unavailable.
func classify(err error) error {
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		return &schedule.UpstreamError{StatusCode: gerr.Code, Err: err}
	}
	return &schedule.UnavailableError{Err: err}
}
