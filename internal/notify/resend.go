package notify

import (
	"context"
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/resend/resend-go/v2"
)

type emailSender interface {
	Send(params *resend.SendEmailRequest) (*resend.SendEmailResponse, error)
}

// ResendNotifier sends email notifications via Resend API
type ResendNotifier struct {
	sender      emailSender
	fromAddress string
	now         func() time.Time
}

// NewResendNotifier creates a new Resend email notifier
func NewResendNotifier(apiKey, from string) *ResendNotifier {
	if apiKey == "" {
		return nil
	}
	return &ResendNotifier{
		sender:      resend.NewClient(apiKey).Emails,
		fromAddress: from,
		now:         time.Now,
	}
}

// IsConfigured returns true if the notifier has server-side config
func (r *ResendNotifier) IsConfigured() bool {
	return r != nil && r.sender != nil && r.fromAddress != ""
}

// Send emails a booking confirmation to the specified recipient
func (r *ResendNotifier) Send(ctx context.Context, notice BookingNotice, recipient string) error {
	if recipient == "" {
		return fmt.Errorf("no recipient specified")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	params := &resend.SendEmailRequest{
		From:    r.fromAddress,
		To:      []string{recipient},
		Subject: fmt.Sprintf("Meeting booked: %s", notice.Title),
		Html:    r.formatEmailHTML(notice),
	}

	if _, err := r.sender.Send(params); err != nil {
		return fmt.Errorf("resend send failed: %w", err)
	}

	return nil
}

// Name returns the notifier name
func (r *ResendNotifier) Name() string {
	return "resend"
}

// formatEmailHTML creates the HTML email body
func (r *ResendNotifier) formatEmailHTML(notice BookingNotice) string {
	startTimeStr := notice.Start.Format("Monday, January 2, 2006 at 3:04 PM")

	// If same day, just show the time
	endTimeStr := ""
	if !notice.End.IsZero() {
		if notice.Start.Format("2006-01-02") == notice.End.Format("2006-01-02") {
			endTimeStr = fmt.Sprintf(" - %s", notice.End.Format("3:04 PM"))
		} else {
			endTimeStr = fmt.Sprintf(" - %s", notice.End.Format("Monday, January 2, 2006 at 3:04 PM"))
		}
	}

	attendeesHTML := ""
	if len(notice.Attendees) > 0 {
		escaped := make([]string, len(notice.Attendees))
		for i, a := range notice.Attendees {
			escaped[i] = html.EscapeString(a)
		}
		attendeesHTML = fmt.Sprintf(`<p style="margin: 8px 0;"><strong>Attendees:</strong> %s</p>`, strings.Join(escaped, ", "))
	}

	linkHTML := ""
	if notice.EventLink != "" {
		linkHTML = fmt.Sprintf(`<a href="%s" style="display: inline-block; background: #007bff; color: white; padding: 12px 24px; text-decoration: none; border-radius: 6px; margin-top: 16px; font-weight: 500;">
      View Event
    </a>`, html.EscapeString(notice.EventLink))
	}

	return fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head>
  <meta charset="utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
</head>
<body style="font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, 'Helvetica Neue', Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px; background-color: #f5f5f5;">
  <div style="background-color: white; border-radius: 8px; padding: 24px; box-shadow: 0 2px 4px rgba(0,0,0,0.1);">
    <div style="margin-bottom: 16px;">
      <span style="background-color: #28a745; color: white; padding: 4px 12px; border-radius: 4px; font-size: 12px; font-weight: 600;">Booked</span>
    </div>

    <h2 style="margin: 0 0 16px 0; color: #333;">%s</h2>

    <div style="background: #f8f9fa; padding: 16px; border-radius: 8px; margin: 16px 0; border-left: 4px solid #007bff;">
      <p style="margin: 8px 0;"><strong>Date:</strong> %s%s</p>
      %s
    </div>

    %s

    <hr style="margin-top: 32px; border: none; border-top: 1px solid #eee;">
    <p style="color: #999; font-size: 12px; margin-top: 16px;">
      Calendar Booking Assistant<br>
      <span style="color: #ccc;">Sent at %s</span>
    </p>
  </div>
</body>
</html>`,
		html.EscapeString(notice.Title),
		startTimeStr,
		endTimeStr,
		attendeesHTML,
		linkHTML,
		r.now().Format("Jan 2, 2006 3:04 PM"),
	)
}
