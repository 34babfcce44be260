package google

import (
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"

	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"
)

// GmailClient sends invitation emails through the Gmail API.
type GmailClient struct {
	service *gmail.Service
	logger  *slog.Logger
}

// NewGmailClient creates a new Gmail client on top of an already-authenticated
// HTTP client.
func NewGmailClient(ctx context.Context, logger *slog.Logger, httpClient *http.Client) (*GmailClient, error) {
	service, err := gmail.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("failed to create gmail service: %w", err)
	}
	return &GmailClient{service: service, logger: logger}, nil
}

// SenderAddress returns the authenticated user's email address, falling back
// to the "me" alias when the profile carries none.
func (c *GmailClient) SenderAddress(ctx context.Context) (string, error) {
	profile, err := c.service.Users.GetProfile("me").Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("failed to get gmail profile: %w", err)
	}
	if profile.EmailAddress == "" {
		return "me", nil
	}
	return profile.EmailAddress, nil
}

// SendInvite sends one HTML email with the calendar invite attached as
// invite.ics (method REQUEST) to a single recipient.
func (c *GmailClient) SendInvite(ctx context.Context, to, subject, htmlBody, icsText string) error {
	c.logger.Debug("Sending invite email", "to", to, "subject", subject)

	raw, err := buildInviteMessage(to, subject, htmlBody, icsText)
	if err != nil {
		return fmt.Errorf("failed to build invite email: %w", err)
	}

	msg := &gmail.Message{
		Raw: base64.URLEncoding.EncodeToString(raw),
	}
	if _, err := c.service.Users.Messages.Send("me", msg).Context(ctx).Do(); err != nil {
		return fmt.Errorf("failed to send email to %s: %w", to, err)
	}

	c.logger.Info("Invite email sent", "to", to)
	return nil
}

// buildInviteMessage assembles the raw RFC 2822 multipart/mixed message the
// Gmail API expects: an HTML body part plus a text/calendar attachment.
func buildInviteMessage(to, subject, htmlBody, icsText string) ([]byte, error) {
	var buf strings.Builder
	mw := multipart.NewWriter(&buf)

	fmt.Fprintf(&buf, "To: %s\r\n", to)
	fmt.Fprintf(&buf, "Subject: %s\r\n", subject)
	buf.WriteString("MIME-Version: 1.0\r\n")
	fmt.Fprintf(&buf, "Content-Type: multipart/mixed; boundary=%q\r\n", mw.Boundary())
	buf.WriteString("\r\n")

	htmlPart, err := mw.CreatePart(textproto.MIMEHeader{
		"Content-Type": {`text/html; charset="utf-8"`},
	})
	if err != nil {
		return nil, err
	}
	if _, err := htmlPart.Write([]byte(htmlBody)); err != nil {
		return nil, err
	}

	icsPart, err := mw.CreatePart(textproto.MIMEHeader{
		"Content-Type":              {`text/calendar; method=REQUEST; name="invite.ics"`},
		"Content-Disposition":       {`attachment; filename="invite.ics"`},
		"Content-Transfer-Encoding": {"base64"},
	})
	if err != nil {
		return nil, err
	}
	if _, err := icsPart.Write([]byte(base64.StdEncoding.EncodeToString([]byte(icsText)))); err != nil {
		return nil, err
	}

	if err := mw.Close(); err != nil {
		return nil, err
	}
	return []byte(buf.String()), nil
}
