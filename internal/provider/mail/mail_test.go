package mail

import (
	"net/smtp"
	"strings"
	"testing"

	"github.com/soyeahso/switchboard/internal/config"
	"github.com/soyeahso/switchboard/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func capturingSender(t *testing.T) (*Sender, *capturedSend) {
	t.Helper()
	captured := &capturedSend{}
	s := NewSender(config.SMTPConfig{
		Host:     "smtp.example.com",
		Port:     587,
		Username: "relay@example.com",
		Password: "app-password",
	})
	s.send = func(addr string, a smtp.Auth, from string, to []string, msg []byte) error {
		captured.addr = addr
		captured.from = from
		captured.to = to
		captured.msg = string(msg)
		return captured.err
	}
	return s, captured
}

type capturedSend struct {
	addr string
	from string
	to   []string
	msg  string
	err  error
}

func TestSendPlainEmail(t *testing.T) {
	s, captured := capturingSender(t)

	err := s.Send(domain.OutgoingEmail{
		To:      "alice@example.com",
		Subject: "hello",
		Body:    "plain body",
	})
	require.NoError(t, err)

	assert.Equal(t, "smtp.example.com:587", captured.addr)
	assert.Equal(t, "relay@example.com", captured.from)
	assert.Equal(t, []string{"alice@example.com"}, captured.to)
	assert.Contains(t, captured.msg, "Subject: hello\r\n")
	assert.Contains(t, captured.msg, "Content-Type: text/plain; charset=UTF-8\r\n")
	assert.Contains(t, captured.msg, "plain body")
}

func TestSendCollectsAllRecipients(t *testing.T) {
	s, captured := capturingSender(t)

	err := s.Send(domain.OutgoingEmail{
		To:  "a@example.com, b@example.com",
		CC:  "c@example.com",
		BCC: "d@example.com",
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"a@example.com", "b@example.com", "c@example.com", "d@example.com"}, captured.to)
	// BCC addresses are delivered but never written into headers.
	assert.NotContains(t, captured.msg, "d@example.com")
	assert.Contains(t, captured.msg, "Cc: c@example.com\r\n")
}

func TestSendWithAttachments(t *testing.T) {
	s, captured := capturingSender(t)

	err := s.Send(domain.OutgoingEmail{
		To:      "alice@example.com",
		Subject: "report",
		Body:    "see attached",
		Attachments: []domain.EmailAttachment{
			{Filename: "report.pdf", Content: []byte("%PDF-1.4 fake")},
		},
	})
	require.NoError(t, err)

	assert.Contains(t, captured.msg, "Content-Type: multipart/mixed; boundary=")
	assert.Contains(t, captured.msg, `Content-Disposition: attachment; filename="report.pdf"`)
	assert.Contains(t, captured.msg, "Content-Transfer-Encoding: base64")
	assert.Contains(t, captured.msg, "Content-Type: application/pdf")
}

func TestSendMissingRecipient(t *testing.T) {
	s, _ := capturingSender(t)
	err := s.Send(domain.OutgoingEmail{Subject: "no one"})
	var vErr *domain.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "to", vErr.Field)
}

func TestSendRelayFailure(t *testing.T) {
	s, captured := capturingSender(t)
	captured.err = assert.AnError

	err := s.Send(domain.OutgoingEmail{To: "alice@example.com"})
	var dErr *domain.DeliveryError
	require.ErrorAs(t, err, &dErr)
	assert.Equal(t, "smtp", dErr.Provider)
}

func TestParseEmailPlain(t *testing.T) {
	raw := strings.Join([]string{
		"From: bob@example.com",
		"To: inbox@example.com",
		"Subject: greetings",
		"Content-Type: text/plain; charset=UTF-8",
		"",
		"hello from bob",
	}, "\r\n")

	email, err := parseEmail(strings.NewReader(raw))
	require.NoError(t, err)
	assert.Equal(t, "greetings", email.Subject)
	assert.Equal(t, "bob@example.com", email.From)
	assert.Equal(t, "inbox@example.com", email.To)
	assert.Equal(t, "hello from bob", email.TextBody)
	assert.Empty(t, email.Attachments)
}

func TestParseEmailMultipartWithAttachment(t *testing.T) {
	raw := strings.Join([]string{
		"From: bob@example.com",
		"To: inbox@example.com",
		"Subject: with attachment",
		"MIME-Version: 1.0",
		`Content-Type: multipart/mixed; boundary="XYZ"`,
		"",
		"--XYZ",
		"Content-Type: text/plain; charset=UTF-8",
		"",
		"body text",
		"--XYZ",
		"Content-Type: text/html; charset=UTF-8",
		"",
		"<p>body html</p>",
		"--XYZ",
		"Content-Type: image/png",
		`Content-Disposition: attachment; filename="cat.png"`,
		"Content-Transfer-Encoding: base64",
		"",
		"aWFtYWNhdA==",
		"--XYZ--",
		"",
	}, "\r\n")

	email, err := parseEmail(strings.NewReader(raw))
	require.NoError(t, err)
	assert.Equal(t, "body text", strings.TrimSpace(email.TextBody))
	assert.Equal(t, "<p>body html</p>", strings.TrimSpace(email.HTMLBody))
	require.Len(t, email.Attachments, 1)
	assert.Equal(t, "cat.png", email.Attachments[0].Filename)
}

func TestParseEmailQuotedPrintable(t *testing.T) {
	raw := strings.Join([]string{
		"From: bob@example.com",
		"Subject: encoded",
		"Content-Type: text/plain; charset=UTF-8",
		"Content-Transfer-Encoding: quoted-printable",
		"",
		"caf=C3=A9",
	}, "\r\n")

	email, err := parseEmail(strings.NewReader(raw))
	require.NoError(t, err)
	assert.Equal(t, "café", email.TextBody)
}

func TestParseEmailEncodedSubject(t *testing.T) {
	raw := strings.Join([]string{
		"From: bob@example.com",
		"Subject: =?UTF-8?Q?caf=C3=A9_news?=",
		"Content-Type: text/plain",
		"",
		"body",
	}, "\r\n")

	email, err := parseEmail(strings.NewReader(raw))
	require.NoError(t, err)
	assert.Equal(t, "café news", email.Subject)
}
