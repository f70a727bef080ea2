package notify

import (
	"context"
	_ "embed"
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/jortega/meetslot/internal/schedule"
	"github.com/jortega/meetslot/pkg/logging"
)

//go:embed confirmation.html
var confirmationTemplate string

// BookingMailer implements schedule.Notifier: it builds the confirmation
// email with its ICS invite and sends it through the configured sender with
// a bounded timeout.
type BookingMailer struct {
	sender  EmailSender
	timeout time.Duration
	logger  *logging.Logger
}

// NewBookingMailer creates the confirmation mailer.
func NewBookingMailer(sender EmailSender, timeout time.Duration, logger *logging.Logger) *BookingMailer {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &BookingMailer{sender: sender, timeout: timeout, logger: logger}
}

// SendConfirmation builds and sends the booking confirmation.
func (m *BookingMailer) SendConfirmation(ctx context.Context, c schedule.Confirmation) error {
	if m.sender == nil {
		return fmt.Errorf("notify: email sender not configured")
	}

	meetText := c.MeetLink
	if meetText == "" {
		meetText = "(pending)"
	}
	details := fmt.Sprintf("Meeting: %s\nTime: %s\nMeet: %s", c.Summary, timeLabel(c), meetText)
	if c.Notes != "" {
		details += "\nNotes: " + c.Notes
	}

	googleLink := GoogleCalendarLink(c.Summary, details, meetText, c.Timezone, c.Start, c.End)
	safeName := ""
	if c.Name != "" {
		safeName = " " + c.Name
	}
	htmlBody := Render(confirmationTemplate, map[string]string{
		"%%NAME%%":          html.EscapeString(safeName),
		"%%EVENT_TITLE%%":   html.EscapeString(c.Summary),
		"%%EVENT_DATE%%":    html.EscapeString(c.Start.Format("02/01/2006")),
		"%%EVENT_TIME%%":    html.EscapeString(fmt.Sprintf("%s - %s", c.Start.Format("15:04"), c.End.Format("15:04"))),
		"%%MEET_LINK%%":     html.EscapeString(meetText),
		"%%MEET_LINK_URL%%": meetText,
		"%%EVENT_LINK%%":    html.EscapeString(googleLink),
		"%%OUTLOOK_LINK%%":  html.EscapeString(OutlookCalendarLink(c.Summary, details, meetText, c.Start, c.End)),
	})

	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	return m.sender.Send(ctx, EmailMessage{
		To:      c.Email,
		ToName:  c.Name,
		Subject: "Booking confirmed - " + c.Summary,
		Text:    details,
		HTML:    htmlBody,
		Attachment: &Attachment{
			Filename:    "invite.ics",
			ContentType: "text/calendar; charset=utf-8",
			Content:     []byte(BuildICS(c.Summary, details, meetText, c.Start, c.End)),
		},
	})
}

// Render substitutes %%KEY%% placeholders in the template.
func Render(template string, replacements map[string]string) string {
	rendered := template
	for key, value := range replacements {
		rendered = strings.ReplaceAll(rendered, key, value)
	}
	return rendered
}

func timeLabel(c schedule.Confirmation) string {
	return fmt.Sprintf("%s - %s (%s)",
		c.Start.Format("2006-01-02 15:04"),
		c.End.Format("2006-01-02 15:04"),
		c.Timezone,
	)
}
