package mail

import (
	"crypto/tls"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"mime/quotedprintable"
	"net/mail"
	"strings"

	"github.com/emersion/go-imap"
	"github.com/emersion/go-imap/client"
	"github.com/soyeahso/switchboard/internal/config"
	"github.com/soyeahso/switchboard/internal/domain"
)

// ErrNoMessages is returned when the mailbox folder is empty.
var ErrNoMessages = errors.New("no messages in mailbox")

// Mailbox reads the configured IMAP folder.
type Mailbox struct {
	cfg config.MailboxConfig
}

// NewMailbox creates a mailbox reader from the IMAP config.
func NewMailbox(cfg config.MailboxConfig) *Mailbox {
	return &Mailbox{cfg: cfg}
}

// FetchLatest connects, fetches the newest message in the folder, parses
// it, and disconnects. The connection is released on every exit path.
func (m *Mailbox) FetchLatest() (*domain.Email, error) {
	addr := fmt.Sprintf("%s:%d", m.cfg.Host, m.cfg.Port)
	c, err := client.DialTLS(addr, &tls.Config{ServerName: m.cfg.Host})
	if err != nil {
		return nil, &domain.MailboxError{Op: "connect", Err: err}
	}
	defer c.Logout()

	if err := c.Login(m.cfg.Username, m.cfg.Password); err != nil {
		return nil, &domain.MailboxError{Op: "login", Err: err}
	}

	mbox, err := c.Select(m.cfg.Folder, true)
	if err != nil {
		return nil, &domain.MailboxError{Op: "select", Err: err}
	}
	if mbox.Messages == 0 {
		return nil, ErrNoMessages
	}

	seqset := new(imap.SeqSet)
	seqset.AddNum(mbox.Messages)

	section := &imap.BodySectionName{}
	items := []imap.FetchItem{imap.FetchEnvelope, section.FetchItem()}

	messages := make(chan *imap.Message, 1)
	done := make(chan error, 1)
	go func() {
		done <- c.Fetch(seqset, items, messages)
	}()

	msg := <-messages
	if err := <-done; err != nil {
		return nil, &domain.MailboxError{Op: "fetch", Err: err}
	}
	if msg == nil {
		return nil, &domain.MailboxError{Op: "fetch", Err: errors.New("message not returned")}
	}

	body := msg.GetBody(section)
	if body == nil {
		return nil, &domain.MailboxError{Op: "fetch", Err: errors.New("message body section missing")}
	}

	email, err := parseEmail(body)
	if err != nil {
		return nil, &domain.MailboxError{Op: "parse", Err: err}
	}
	return email, nil
}

// parseEmail parses a raw RFC 5322 message into a domain email, walking
// multipart bodies for text, HTML, and attachment filenames.
func parseEmail(r io.Reader) (*domain.Email, error) {
	parsed, err := mail.ReadMessage(r)
	if err != nil {
		return nil, err
	}

	dec := new(mime.WordDecoder)
	decode := func(s string) string {
		if out, err := dec.DecodeHeader(s); err == nil {
			return out
		}
		return s
	}

	email := &domain.Email{
		Subject:     decode(parsed.Header.Get("Subject")),
		From:        decode(parsed.Header.Get("From")),
		To:          decode(parsed.Header.Get("To")),
		CC:          decode(parsed.Header.Get("Cc")),
		BCC:         decode(parsed.Header.Get("Bcc")),
		Attachments: []domain.EmailAttachment{},
	}

	mediaType, params, err := mime.ParseMediaType(parsed.Header.Get("Content-Type"))
	if err != nil {
		// No usable content type; treat the whole body as plain text.
		raw, readErr := io.ReadAll(parsed.Body)
		if readErr != nil {
			return nil, readErr
		}
		email.TextBody = string(raw)
		return email, nil
	}

	if strings.HasPrefix(mediaType, "multipart/") {
		if err := walkParts(multipart.NewReader(parsed.Body, params["boundary"]), email); err != nil {
			return nil, err
		}
		return email, nil
	}

	text, err := decodeBody(parsed.Body, parsed.Header.Get("Content-Transfer-Encoding"))
	if err != nil {
		return nil, err
	}
	if strings.HasPrefix(mediaType, "text/html") {
		email.HTMLBody = text
	} else {
		email.TextBody = text
	}
	return email, nil
}

func walkParts(mr *multipart.Reader, email *domain.Email) error {
	for {
		p, err := mr.NextPart()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}

		disposition, dispParams, _ := mime.ParseMediaType(p.Header.Get("Content-Disposition"))
		if strings.EqualFold(disposition, "attachment") {
			email.Attachments = append(email.Attachments, domain.EmailAttachment{
				Filename: dispParams["filename"],
			})
			continue
		}

		partType, partParams, _ := mime.ParseMediaType(p.Header.Get("Content-Type"))
		if strings.HasPrefix(partType, "multipart/") {
			if err := walkParts(multipart.NewReader(p, partParams["boundary"]), email); err != nil {
				return err
			}
			continue
		}

		body, err := decodeBody(p, p.Header.Get("Content-Transfer-Encoding"))
		if err != nil {
			continue
		}
		switch {
		case strings.HasPrefix(partType, "text/html") && email.HTMLBody == "":
			email.HTMLBody = body
		case strings.HasPrefix(partType, "text/") && email.TextBody == "":
			email.TextBody = body
		}
	}
}

func decodeBody(r io.Reader, encoding string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(encoding)) {
	case "quoted-printable":
		r = quotedprintable.NewReader(r)
	case "base64":
		r = base64.NewDecoder(base64.StdEncoding, r)
	}
	body, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	return string(body), nil
}
