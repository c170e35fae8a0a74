package notify

import (
	"context"
	"fmt"
	"html"
	"strings"

	"github.com/gridlight-solar/site-api/internal/leads"
	"github.com/gridlight-solar/site-api/pkg/logging"
)

// Service turns a persisted lead into an operator email. Delivery is
// at-most-once and best-effort: failures are reported to the caller for
// logging, never retried here.
type Service struct {
	sender     EmailSender
	recipients []string
	siteName   string
	logger     *logging.Logger
}

// NewService creates the lead notification service.
func NewService(sender EmailSender, recipients []string, siteName string, logger *logging.Logger) *Service {
	if logger == nil {
		logger = logging.Default()
	}
	if siteName == "" {
		siteName = "GridLight Solar"
	}
	return &Service{
		sender:     sender,
		recipients: recipients,
		siteName:   siteName,
		logger:     logger,
	}
}

// NotifyNewLead emails a summary of the lead to the configured recipients.
// When no sender or recipients are configured it reports Skipped rather
// than failing.
func (s *Service) NotifyNewLead(ctx context.Context, lead *leads.Lead) (leads.NotifyOutcome, error) {
	if s.sender == nil || len(s.recipients) == 0 {
		s.logger.Debug("notify: email delivery unconfigured, skipping", "lead_id", lead.ID)
		return leads.NotifySkipped, nil
	}

	subject := fmt.Sprintf("New lead — %s (%s)", lead.Name, lead.Service)
	body := s.textBody(lead)
	html := s.htmlBody(lead)

	var failed int
	for _, recipient := range s.recipients {
		msg := EmailMessage{
			To:      recipient,
			Subject: subject,
			Body:    body,
			HTML:    html,
		}
		if err := s.sender.Send(ctx, msg); err != nil {
			s.logger.Error("notify: failed to send lead email", "error", err, "to", recipient, "lead_id", lead.ID)
			failed++
			continue
		}
		s.logger.Info("notify: lead email sent", "to", recipient, "lead_id", lead.ID)
	}

	if failed == len(s.recipients) {
		return "", fmt.Errorf("notify: all %d recipient(s) failed", failed)
	}
	return leads.NotifyDelivered, nil
}

func (s *Service) textBody(lead *leads.Lead) string {
	var b strings.Builder
	fmt.Fprintf(&b, "A new enquiry just came in from the website.\n\n")
	fmt.Fprintf(&b, "Name: %s\n", lead.Name)
	fmt.Fprintf(&b, "Phone: %s\n", lead.Phone)
	if lead.Email != "" {
		fmt.Fprintf(&b, "Email: %s\n", lead.Email)
	}
	fmt.Fprintf(&b, "Service: %s\n", lead.Service)
	fmt.Fprintf(&b, "Location: %s\n", lead.Location)
	if lead.PreferredContactTime != "" {
		fmt.Fprintf(&b, "Preferred contact time: %s\n", lead.PreferredContactTime)
	}
	fmt.Fprintf(&b, "Page: %s\n", lead.SourcePage)
	fmt.Fprintf(&b, "Received: %s\n\n", lead.CreatedAt.Format("January 2, 2006 at 3:04 PM"))
	fmt.Fprintf(&b, "Message:\n%s\n\n", lead.Message)
	fmt.Fprintf(&b, "— %s website\n", s.siteName)
	return b.String()
}

func (s *Service) htmlBody(lead *leads.Lead) string {
	// Submission text is untrusted; escape it before it lands in markup.
	row := func(label, value string) string {
		if value == "" {
			return ""
		}
		return fmt.Sprintf(`<tr><td style="padding: 8px; border-bottom: 1px solid #e5e7eb;"><strong>%s:</strong></td><td style="padding: 8px; border-bottom: 1px solid #e5e7eb;">%s</td></tr>`, label, value)
	}

	phone := html.EscapeString(lead.Phone)

	var rows strings.Builder
	rows.WriteString(row("Name", html.EscapeString(lead.Name)))
	rows.WriteString(row("Phone", fmt.Sprintf(`<a href="tel:%s">%s</a>`, phone, phone)))
	rows.WriteString(row("Email", html.EscapeString(lead.Email)))
	rows.WriteString(row("Service", html.EscapeString(lead.Service)))
	rows.WriteString(row("Location", html.EscapeString(lead.Location)))
	rows.WriteString(row("Preferred contact time", html.EscapeString(lead.PreferredContactTime)))
	rows.WriteString(row("Page", html.EscapeString(lead.SourcePage)))
	rows.WriteString(row("Received", lead.CreatedAt.Format("January 2, 2006 at 3:04 PM")))

	return fmt.Sprintf(`<div style="font-family: sans-serif; max-width: 600px;">
<h2 style="color: #f59e0b;">New website enquiry</h2>
<table style="border-collapse: collapse; margin: 20px 0;">%s</table>
<p style="background: #fffbeb; padding: 12px; border-radius: 8px; border-left: 4px solid #f59e0b;">%s</p>
<p style="color: #6b7280; font-size: 12px; margin-top: 20px;">— %s website</p>
</div>`, rows.String(), html.EscapeString(lead.Message), s.siteName)
}

var _ leads.Notifier = (*Service)(nil)
