package gateway

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/soyeahso/switchboard/internal/domain"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeXML(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "text/xml")
	w.WriteHeader(status)
	w.Write([]byte(body))
}

// writeError maps the error taxonomy onto HTTP statuses.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	var (
		validation *domain.ValidationError
		delivery   *domain.DeliveryError
		query      *domain.ProviderQueryError
		mailbox    *domain.MailboxError
		issuance   *domain.TokenIssuanceError
	)

	switch {
	case errors.As(err, &validation):
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": validation.Message})
	case errors.As(err, &delivery):
		s.log.Error().Err(err).Str("provider", delivery.Provider).Msg("delivery failed")
		writeJSON(w, http.StatusBadGateway, map[string]string{"message": "Failed to send message."})
	case errors.As(err, &query):
		s.log.Error().Err(err).Str("provider", query.Provider).Msg("provider query failed")
		writeJSON(w, http.StatusBadGateway, map[string]string{"message": "Failed to fetch messages."})
	case errors.As(err, &mailbox):
		s.log.Error().Err(err).Str("op", mailbox.Op).Msg("mailbox access failed")
		writeJSON(w, http.StatusBadGateway, map[string]string{"message": "Failed to fetch email."})
	case errors.As(err, &issuance):
		s.log.Error().Err(err).Msg("token issuance failed")
		writeJSON(w, http.StatusInternalServerError, map[string]string{"message": "Failed to issue token."})
	default:
		s.log.Error().Err(err).Msg("unhandled error")
		writeJSON(w, http.StatusInternalServerError, map[string]string{"message": "Internal server error."})
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":       "ok",
		"participants": s.hub.Count(),
	})
}

func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusNotFound, map[string]string{"message": "Not found."})
}
