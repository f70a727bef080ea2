package notify

import (
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
)

const icsTimeLayout = "20060102T150405Z"

// BuildICS renders a single-event iCalendar document suitable for attaching
// to the confirmation email.
func BuildICS(summary, description, location string, start, end time.Time) string {
	now := time.Now().UTC()
	lines := []string{
		"BEGIN:VCALENDAR",
		"VERSION:2.0",
		"PRODID:-//meetslot//Booking//EN",
		"CALSCALE:GREGORIAN",
		"METHOD:PUBLISH",
		"BEGIN:VEVENT",
		"UID:" + uuid.NewString() + "@meetslot",
		"DTSTAMP:" + now.Format(icsTimeLayout),
		"DTSTART:" + start.UTC().Format(icsTimeLayout),
		"DTEND:" + end.UTC().Format(icsTimeLayout),
		"SUMMARY:" + escapeICS(summary),
		"DESCRIPTION:" + escapeICS(description),
		"LOCATION:" + escapeICS(location),
		"END:VEVENT",
		"END:VCALENDAR",
		"",
	}
	return strings.Join(lines, "\r\n")
}

// escapeICS escapes text per RFC 5545 TEXT rules.
func escapeICS(text string) string {
	replacer := strings.NewReplacer(
		`\`, `\\`,
		",", `\,`,
		";", `\;`,
		"\n", `\n`,
	)
	return replacer.Replace(text)
}

// GoogleCalendarLink builds an add-to-calendar URL for Google Calendar.
func GoogleCalendarLink(summary, details, location, tz string, start, end time.Time) string {
	params := url.Values{}
	params.Set("action", "TEMPLATE")
	params.Set("text", summary)
	params.Set("dates", start.UTC().Format(icsTimeLayout)+"/"+end.UTC().Format(icsTimeLayout))
	params.Set("details", details)
	params.Set("location", location)
	params.Set("ctz", tz)
	return "https://calendar.google.com/calendar/render?" + params.Encode()
}

// OutlookCalendarLink builds an add-to-calendar URL for Outlook.
func OutlookCalendarLink(summary, details, location string, start, end time.Time) string {
	params := url.Values{}
	params.Set("subject", summary)
	params.Set("startdt", start.Format(time.RFC3339))
	params.Set("enddt", end.Format(time.RFC3339))
	params.Set("body", details)
	params.Set("location", location)
	return "https://outlook.live.com/calendar/0/deeplink/compose?" + params.Encode()
}
