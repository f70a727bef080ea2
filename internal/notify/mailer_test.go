package notify

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jortega/meetslot/internal/schedule"
)

type capturingSender struct {
	msg      EmailMessage
	err      error
	deadline bool
}

func (c *capturingSender) Send(ctx context.Context, msg EmailMessage) error {
	_, c.deadline = ctx.Deadline()
	c.msg = msg
	return c.err
}

func testConfirmation() schedule.Confirmation {
	return schedule.Confirmation{
		Name:     "Ana",
		Email:    "ana@example.com",
		Summary:  "Intro chat",
		Start:    time.Date(2026, 3, 3, 19, 0, 0, 0, time.UTC),
		End:      time.Date(2026, 3, 3, 20, 0, 0, 0, time.UTC),
		Timezone: "UTC",
		MeetLink: "https://meet.google.com/abc",
		Notes:    "brought up pricing",
	}
}

func TestSendConfirmation_BuildsMessage(t *testing.T) {
	sender := &capturingSender{}
	mailer := NewBookingMailer(sender, 10*time.Second, nil)

	require.NoError(t, mailer.SendConfirmation(context.Background(), testConfirmation()))

	msg := sender.msg
	assert.Equal(t, "ana@example.com", msg.To)
	assert.Equal(t, "Booking confirmed - Intro chat", msg.Subject)
	assert.Contains(t, msg.HTML, "Hi Ana,")
	assert.Contains(t, msg.HTML, "Intro chat")
	assert.Contains(t, msg.HTML, "https://meet.google.com/abc")
	assert.Contains(t, msg.HTML, "calendar.google.com/calendar/render")
	assert.NotContains(t, msg.HTML, "%%", "all placeholders substituted")
	assert.Contains(t, msg.Text, "Notes: brought up pricing")

	require.NotNil(t, msg.Attachment)
	assert.Equal(t, "invite.ics", msg.Attachment.Filename)
	assert.Equal(t, "text/calendar; charset=utf-8", msg.Attachment.ContentType)
	assert.Contains(t, string(msg.Attachment.Content), "BEGIN:VEVENT")

	assert.True(t, sender.deadline, "send context carries a timeout")
}

func TestSendConfirmation_PendingMeetLink(t *testing.T) {
	sender := &capturingSender{}
	mailer := NewBookingMailer(sender, 0, nil)
	c := testConfirmation()
	c.MeetLink = ""

	require.NoError(t, mailer.SendConfirmation(context.Background(), c))
	assert.Contains(t, sender.msg.Text, "Meet: (pending)")
}

func TestSendConfirmation_SenderErrorPropagates(t *testing.T) {
	sender := &capturingSender{err: errors.New("rate limited")}
	mailer := NewBookingMailer(sender, time.Second, nil)

	err := mailer.SendConfirmation(context.Background(), testConfirmation())
	assert.ErrorContains(t, err, "rate limited")
}

func TestSendConfirmation_NoSenderConfigured(t *testing.T) {
	mailer := NewBookingMailer(nil, time.Second, nil)

	err := mailer.SendConfirmation(context.Background(), testConfirmation())
	assert.ErrorContains(t, err, "not configured")
}

func TestRender(t *testing.T) {
	out := Render("Hello %%NAME%%, meet at %%TIME%%", map[string]string{
		"%%NAME%%": "Ana",
		"%%TIME%%": "19:00",
	})
	assert.Equal(t, "Hello Ana, meet at 19:00", out)
}

func TestBuildICS(t *testing.T) {
	start := time.Date(2026, 3, 3, 19, 0, 0, 0, time.UTC)
	ics := BuildICS("Intro, chat; details", "line1\nline2", "https://meet.google.com/abc", start, start.Add(time.Hour))

	assert.True(t, strings.HasPrefix(ics, "BEGIN:VCALENDAR\r\n"))
	assert.Contains(t, ics, "DTSTART:20260303T190000Z")
	assert.Contains(t, ics, "DTEND:20260303T200000Z")
	assert.Contains(t, ics, `SUMMARY:Intro\, chat\; details`)
	assert.Contains(t, ics, `DESCRIPTION:line1\nline2`)
	assert.True(t, strings.HasSuffix(ics, "END:VCALENDAR\r\n"))
}

func TestCalendarLinks(t *testing.T) {
	start := time.Date(2026, 3, 3, 19, 0, 0, 0, time.UTC)
	end := start.Add(time.Hour)

	google := GoogleCalendarLink("Intro chat", "details", "somewhere", "UTC", start, end)
	assert.Contains(t, google, "action=TEMPLATE")
	assert.Contains(t, google, "20260303T190000Z%2F20260303T200000Z")
	assert.Contains(t, google, "ctz=UTC")

	outlook := OutlookCalendarLink("Intro chat", "details", "somewhere", start, end)
	assert.Contains(t, outlook, "outlook.live.com")
	assert.Contains(t, outlook, "subject=Intro+chat")
}
