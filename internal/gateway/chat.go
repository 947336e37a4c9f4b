package gateway

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/soyeahso/switchboard/internal/domain"
	"github.com/soyeahso/switchboard/internal/logging"
)

// chatEnvelope is the wire frame exchanged over the chat websocket.
type chatEnvelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

const eventChatMessage = "chatMessage"

// Participant is one connected chat client.
type Participant struct {
	ID   string
	conn *websocket.Conn

	writeMu sync.Mutex
	log     *logging.Logger
}

// NewParticipant wraps an upgraded websocket connection.
func NewParticipant(conn *websocket.Conn, log *logging.Logger) *Participant {
	return &Participant{
		ID:   uuid.NewString(),
		conn: conn,
		log:  log.Sub("participant"),
	}
}

// Send writes one frame to the participant. Safe for concurrent use.
func (p *Participant) Send(env chatEnvelope) error {
	p.writeMu.Lock()
	defer p.writeMu.Unlock()
	return p.conn.WriteJSON(env)
}

// Close shuts the underlying connection.
func (p *Participant) Close() error {
	return p.conn.Close()
}

// Hub tracks connected chat participants and fans messages out to all
// of them, including the sender.
type Hub struct {
	mu           sync.RWMutex
	participants map[string]*Participant
	log          *logging.Logger
}

// NewHub creates an empty chat hub.
func NewHub(log *logging.Logger) *Hub {
	return &Hub{
		participants: make(map[string]*Participant),
		log:          log,
	}
}

// Add registers a participant.
func (h *Hub) Add(p *Participant) {
	h.mu.Lock()
	h.participants[p.ID] = p
	n := len(h.participants)
	h.mu.Unlock()
	h.log.Info().Str("participant_id", p.ID).Int("connected", n).Msg("participant joined")
}

// Remove unregisters a participant.
func (h *Hub) Remove(id string) {
	h.mu.Lock()
	delete(h.participants, id)
	n := len(h.participants)
	h.mu.Unlock()
	h.log.Info().Str("participant_id", id).Int("connected", n).Msg("participant left")
}

// Count returns the number of connected participants.
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.participants)
}

// Broadcast sends an event to every connected participant, the sender
// included. Write failures are logged and do not stop the fan-out.
func (h *Hub) Broadcast(env chatEnvelope) {
	h.mu.RLock()
	targets := make([]*Participant, 0, len(h.participants))
	for _, p := range h.participants {
		targets = append(targets, p)
	}
	h.mu.RUnlock()

	for _, p := range targets {
		if err := p.Send(env); err != nil {
			h.log.Warn().Err(err).Str("participant_id", p.ID).Msg("broadcast write failed")
		}
	}
}

// CloseAll disconnects every participant.
func (h *Hub) CloseAll() {
	h.mu.Lock()
	for id, p := range h.participants {
		p.Close()
		delete(h.participants, id)
	}
	h.mu.Unlock()
}

// normalizeAttachment decodes the uploaded attachment content and
// rewrites it as a self-contained data URL so every receiver can render
// it without a second fetch. Content may arrive as raw base64 or as a
// full data URL; either way the payload after the last comma is the
// encoded bytes.
func normalizeAttachment(att *domain.ChatAttachment) error {
	if att == nil || att.Content == "" {
		return nil
	}
	payload := att.Content
	if i := strings.LastIndex(payload, ","); i >= 0 {
		payload = payload[i+1:]
	}
	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return err
	}
	att.URL = "data:application/octet-stream;base64," + base64.StdEncoding.EncodeToString(raw)
	return nil
}

// serveChat upgrades the connection and runs the participant read loop.
func (s *Server) serveChat(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader().Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}

	p := NewParticipant(conn, s.log)
	s.hub.Add(p)
	defer func() {
		s.hub.Remove(p.ID)
		p.Close()
	}()

	for {
		var env chatEnvelope
		if err := conn.ReadJSON(&env); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.log.Debug().Err(err).Str("participant_id", p.ID).Msg("read error")
			}
			return
		}

		if env.Event != eventChatMessage {
			s.log.Debug().Str("event", env.Event).Msg("ignoring unknown chat event")
			continue
		}

		var msg domain.ChatEvent
		if err := json.Unmarshal(env.Data, &msg); err != nil {
			s.log.Warn().Err(err).Msg("malformed chat message")
			continue
		}

		if err := normalizeAttachment(msg.Attachment); err != nil {
			s.log.Warn().Err(err).Msg("attachment decode failed, relaying as-is")
		}

		data, err := json.Marshal(&msg)
		if err != nil {
			s.log.Error().Err(err).Msg("chat message re-encode failed")
			continue
		}
		s.hub.Broadcast(chatEnvelope{Event: eventChatMessage, Data: data})
	}
}

func (s *Server) upgrader() *websocket.Upgrader {
	allowAll := false
	allowed := make(map[string]bool, len(s.cfg.Server.AllowedOrigins))
	for _, o := range s.cfg.Server.AllowedOrigins {
		if o == "*" {
			allowAll = true
		}
		allowed[o] = true
	}
	return &websocket.Upgrader{
		ReadBufferSize:  1 << 20,
		WriteBufferSize: 1 << 20,
		CheckOrigin: func(r *http.Request) bool {
			if allowAll {
				return true
			}
			return allowed[r.Header.Get("Origin")]
		},
	}
}
