package gateway

import (
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/soyeahso/switchboard/internal/domain"
	"github.com/soyeahso/switchboard/internal/provider/mail"
	"github.com/soyeahso/switchboard/internal/voice"
)

func (s *Server) handleEmailSend(w http.ResponseWriter, r *http.Request) {
	if s.mailer == nil {
		s.writeError(w, errors.New("email sending is not configured"))
		return
	}

	if err := r.ParseMultipartForm(maxUploadBytes * 2); err != nil {
		s.writeError(w, &domain.ValidationError{Field: "body", Message: "expected multipart form data"})
		return
	}

	body := r.FormValue("text")
	if body == "" {
		body = r.FormValue("body")
	}
	email := domain.OutgoingEmail{
		To:      strings.TrimSpace(r.FormValue("to")),
		CC:      strings.TrimSpace(r.FormValue("cc")),
		BCC:     strings.TrimSpace(r.FormValue("bcc")),
		Subject: r.FormValue("subject"),
		Body:    body,
	}

	if r.MultipartForm != nil {
		for _, headers := range r.MultipartForm.File {
			for _, fh := range headers {
				content, err := readUpload(fh)
				if err != nil {
					s.writeError(w, err)
					return
				}
				email.Attachments = append(email.Attachments, domain.EmailAttachment{
					Filename: fh.Filename,
					Content:  content,
				})
			}
		}
	}

	if err := s.mailer.Send(email); err != nil {
		s.writeError(w, err)
		return
	}

	s.log.Info().Str("to", email.To).Int("attachments", len(email.Attachments)).Msg("email sent")
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": "Email sent successfully."})
}

func (s *Server) handleEmailLatest(w http.ResponseWriter, r *http.Request) {
	if s.mailbox == nil {
		s.writeError(w, errors.New("mailbox access is not configured"))
		return
	}

	email, err := s.mailbox.FetchLatest()
	if err != nil {
		if errors.Is(err, mail.ErrNoMessages) {
			writeJSON(w, http.StatusNotFound, map[string]string{"message": "No emails found."})
			return
		}
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, email)
}

// mediaFile finds the uploaded media file on an SMS send, if any.
func mediaFile(form *multipart.Form) *multipart.FileHeader {
	if form == nil {
		return nil
	}
	if headers := form.File["mediaUrl"]; len(headers) > 0 {
		return headers[0]
	}
	return nil
}

func (s *Server) handleSMSSend(w http.ResponseWriter, r *http.Request) {
	if s.sms == nil {
		s.writeError(w, errors.New("SMS sending is not configured"))
		return
	}

	ctype := r.Header.Get("Content-Type")
	if strings.HasPrefix(ctype, "multipart/form-data") {
		if err := r.ParseMultipartForm(maxUploadBytes * 2); err != nil {
			s.writeError(w, &domain.ValidationError{Field: "body", Message: "malformed multipart form data"})
			return
		}
	} else if err := r.ParseForm(); err != nil {
		s.writeError(w, &domain.ValidationError{Field: "body", Message: "malformed form data"})
		return
	}

	to := strings.TrimSpace(r.FormValue("to"))
	body := r.FormValue("body")
	if to == "" {
		s.writeError(w, &domain.ValidationError{Field: "to", Message: "recipient number is required"})
		return
	}

	var mediaURL string
	if fh := mediaFile(r.MultipartForm); fh != nil {
		storedPath, err := s.uploads.Save(fh)
		if err != nil {
			s.writeError(w, err)
			return
		}
		scheme := "http"
		if r.TLS != nil {
			scheme = "https"
		}
		mediaURL = s.uploads.PublicURL(scheme, r.Host, storedPath)
	}

	sid, err := s.sms.Send(r.Context(), to, body, mediaURL)
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.log.Info().Str("to", to).Str("sid", sid).Bool("media", mediaURL != "").Msg("SMS sent")
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "sid": sid})
}

func (s *Server) handleSMSSent(w http.ResponseWriter, r *http.Request) {
	if s.sms == nil {
		s.writeError(w, errors.New("SMS access is not configured"))
		return
	}

	messages, err := s.sms.ListSent(r.Context(), s.cfg.SMS.FromNumber, 20)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "messages": messages})
}

func (s *Server) handleSMSMessages(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.ledger.ListAll())
}

// decodeInbound reads an inbound SMS notification from either a provider
// form post or a JSON body.
func decodeInbound(r *http.Request) (domain.InboundNotification, error) {
	var n domain.InboundNotification

	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		var payload struct {
			From     string `json:"From"`
			To       string `json:"To"`
			Body     string `json:"Body"`
			MediaURL string `json:"MediaUrl"`
		}
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			return n, err
		}
		n = domain.InboundNotification{
			From:     payload.From,
			To:       payload.To,
			Body:     payload.Body,
			MediaURL: payload.MediaURL,
		}
		return n, nil
	}

	if err := r.ParseForm(); err != nil {
		return n, err
	}
	n = domain.InboundNotification{
		From:     r.PostFormValue("From"),
		To:       r.PostFormValue("To"),
		Body:     r.PostFormValue("Body"),
		MediaURL: r.PostFormValue("MediaUrl0"),
	}
	if n.MediaURL == "" {
		n.MediaURL = r.PostFormValue("MediaUrl")
	}
	return n, nil
}

// handleSMSReceive is the inbound webhook. Notifications from the
// provisioned number are recorded; everything else is discarded. The
// provider retries on non-2xx responses, so the acknowledgement is
// unconditional.
func (s *Server) handleSMSReceive(w http.ResponseWriter, r *http.Request) {
	n, err := decodeInbound(r)
	if err != nil {
		s.log.Warn().Err(err).Msg("malformed inbound notification")
		writeXML(w, http.StatusOK, emptyAck())
		return
	}

	if n.From != "" && n.From == s.cfg.SMS.FromNumber {
		msg := domain.Message{
			Sender:    n.From,
			Recipient: n.To,
			Body:      n.Body,
		}
		if n.MediaURL != "" {
			msg.Attachment = &n.MediaURL
		}
		s.ledger.Append(msg)
		s.log.Info().Str("from", n.From).Int("ledger_size", s.ledger.Len()).Msg("inbound SMS recorded")
	} else {
		s.log.Debug().Str("from", n.From).Msg("inbound SMS discarded")
	}

	writeXML(w, http.StatusOK, emptyAck())
}

func emptyAck() string {
	resp, _ := voice.Render(voice.Response{})
	return resp
}

func (s *Server) handleVoiceToken(w http.ResponseWriter, r *http.Request) {
	if s.tokens == nil {
		s.writeError(w, errors.New("voice tokens are not configured"))
		return
	}

	var payload struct {
		Identity string `json:"identity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		s.writeError(w, &domain.ValidationError{Field: "identity", Message: "expected a JSON body with an identity"})
		return
	}

	token, err := s.tokens.Issue(payload.Identity)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"token": token})
}

// callDestination reads the dial target from a JSON or form body.
func callDestination(r *http.Request) string {
	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		var payload struct {
			To string `json:"to"`
		}
		if err := json.NewDecoder(r.Body).Decode(&payload); err == nil {
			return payload.To
		}
		return ""
	}
	if err := r.ParseForm(); err != nil {
		return ""
	}
	if to := r.PostFormValue("to"); to != "" {
		return to
	}
	return r.PostFormValue("To")
}

func (s *Server) handleVoiceCall(w http.ResponseWriter, r *http.Request) {
	to := callDestination(r)

	doc, err := voice.Render(voice.RouteCall(to, s.cfg.SMS.FromNumber))
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeXML(w, http.StatusOK, doc)
}

func (s *Server) handleVoiceIncoming(w http.ResponseWriter, r *http.Request) {
	doc, err := voice.Render(voice.RouteIncoming(s.cfg.Voice.ClientIdentity))
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeXML(w, http.StatusOK, doc)
}
