// Package mail dispatches outbound email over SMTP and reads the inbox
// over IMAP.
package mail

import (
	"encoding/base64"
	"fmt"
	"mime"
	"net/smtp"
	"path/filepath"
	"strings"
	"time"

	"github.com/soyeahso/switchboard/internal/config"
	"github.com/soyeahso/switchboard/internal/domain"
)

// sendFunc matches smtp.SendMail and is swapped out in tests.
type sendFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// Sender dispatches email through the configured SMTP relay.
type Sender struct {
	host     string
	port     int
	username string
	password string
	from     string
	send     sendFunc
}

// NewSender creates a sender from the SMTP config. When no explicit From
// address is configured the authenticated username is used.
func NewSender(cfg config.SMTPConfig) *Sender {
	from := cfg.From
	if from == "" {
		from = cfg.Username
	}
	return &Sender{
		host:     cfg.Host,
		port:     cfg.Port,
		username: cfg.Username,
		password: cfg.Password,
		from:     from,
		send:     smtp.SendMail,
	}
}

// Send builds a MIME message and hands it to the SMTP relay. Recipients
// in To, CC, and BCC are comma-separated; BCC addresses receive the mail
// but are not written into the headers.
func (s *Sender) Send(email domain.OutgoingEmail) error {
	if email.To == "" {
		return &domain.ValidationError{Field: "to", Message: "recipient is required"}
	}

	recipients := splitAddresses(email.To)
	recipients = append(recipients, splitAddresses(email.CC)...)
	recipients = append(recipients, splitAddresses(email.BCC)...)

	msg := buildMessage(s.from, email)

	addr := fmt.Sprintf("%s:%d", s.host, s.port)
	auth := smtp.PlainAuth("", s.username, s.password, s.host)
	if err := s.send(addr, auth, s.from, recipients, msg); err != nil {
		return &domain.DeliveryError{Provider: "smtp", Err: err}
	}
	return nil
}

func splitAddresses(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// buildMessage assembles the raw RFC 5322 message, multipart/mixed when
// attachments are present.
func buildMessage(from string, email domain.OutgoingEmail) []byte {
	var msg strings.Builder
	msg.WriteString(fmt.Sprintf("From: %s\r\n", from))
	msg.WriteString(fmt.Sprintf("To: %s\r\n", email.To))
	if email.CC != "" {
		msg.WriteString(fmt.Sprintf("Cc: %s\r\n", email.CC))
	}
	msg.WriteString(fmt.Sprintf("Subject: %s\r\n", email.Subject))
	msg.WriteString(fmt.Sprintf("Date: %s\r\n", time.Now().Format(time.RFC1123Z)))
	msg.WriteString("MIME-Version: 1.0\r\n")

	if len(email.Attachments) == 0 {
		msg.WriteString("Content-Type: text/plain; charset=UTF-8\r\n")
		msg.WriteString("\r\n")
		msg.WriteString(email.Body)
		return []byte(msg.String())
	}

	boundary := fmt.Sprintf("boundary_%d", time.Now().UnixNano())
	msg.WriteString(fmt.Sprintf("Content-Type: multipart/mixed; boundary=%s\r\n", boundary))
	msg.WriteString("\r\n")

	msg.WriteString(fmt.Sprintf("--%s\r\n", boundary))
	msg.WriteString("Content-Type: text/plain; charset=UTF-8\r\n")
	msg.WriteString("\r\n")
	msg.WriteString(email.Body)
	msg.WriteString("\r\n\r\n")

	for _, att := range email.Attachments {
		mimeType := mime.TypeByExtension(filepath.Ext(att.Filename))
		if mimeType == "" {
			mimeType = "application/octet-stream"
		}
		msg.WriteString(fmt.Sprintf("--%s\r\n", boundary))
		msg.WriteString(fmt.Sprintf("Content-Type: %s\r\n", mimeType))
		msg.WriteString("Content-Transfer-Encoding: base64\r\n")
		msg.WriteString(fmt.Sprintf("Content-Disposition: attachment; filename=%q\r\n", att.Filename))
		msg.WriteString("\r\n")
		msg.WriteString(base64.StdEncoding.EncodeToString(att.Content))
		msg.WriteString("\r\n\r\n")
	}

	msg.WriteString(fmt.Sprintf("--%s--\r\n", boundary))
	return []byte(msg.String())
}
