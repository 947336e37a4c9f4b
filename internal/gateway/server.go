// Package gateway is the Switchboard HTTP + WebSocket server. It exposes
// the provider call-through endpoints, the inbound SMS webhook, the
// message ledger, and the realtime chat channel.
package gateway

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/soyeahso/switchboard/internal/config"
	"github.com/soyeahso/switchboard/internal/domain"
	"github.com/soyeahso/switchboard/internal/ledger"
	"github.com/soyeahso/switchboard/internal/logging"
)

// SMSClient sends and reads back SMS through the provider.
type SMSClient interface {
	Send(ctx context.Context, to, body, mediaURL string) (string, error)
	ListSent(ctx context.Context, from string, limit int) ([]domain.SentMessage, error)
}

// EmailSender dispatches outbound email.
type EmailSender interface {
	Send(email domain.OutgoingEmail) error
}

// MailboxReader fetches the newest inbox email.
type MailboxReader interface {
	FetchLatest() (*domain.Email, error)
}

// VoiceTokenIssuer signs voice capability tokens.
type VoiceTokenIssuer interface {
	Issue(identity string) (string, error)
}

// Server is the Switchboard gateway server.
type Server struct {
	cfg     config.Config
	log     *logging.Logger
	ledger  *ledger.Ledger
	hub     *Hub
	uploads *UploadStore

	sms     SMSClient
	mailer  EmailSender
	mailbox MailboxReader
	tokens  VoiceTokenIssuer

	httpServer *http.Server
}

// ServerOption configures the gateway server.
type ServerOption func(*Server)

// WithSMS sets the SMS provider client.
func WithSMS(c SMSClient) ServerOption {
	return func(s *Server) { s.sms = c }
}

// WithMailer sets the outbound email sender.
func WithMailer(m EmailSender) ServerOption {
	return func(s *Server) { s.mailer = m }
}

// WithMailbox sets the inbox reader.
func WithMailbox(m MailboxReader) ServerOption {
	return func(s *Server) { s.mailbox = m }
}

// WithTokenIssuer sets the voice capability token issuer.
func WithTokenIssuer(t VoiceTokenIssuer) ServerOption {
	return func(s *Server) { s.tokens = t }
}

// WithLedger sets the message ledger. Tests construct a fresh ledger per
// case instead of sharing process state.
func WithLedger(l *ledger.Ledger) ServerOption {
	return func(s *Server) { s.ledger = l }
}

// WithUploadStore sets the media upload store.
func WithUploadStore(u *UploadStore) ServerOption {
	return func(s *Server) { s.uploads = u }
}

// New creates a gateway server. Provider clients are nil unless injected;
// endpoints backed by a missing client respond with an error rather than
// panicking.
func New(cfg config.Config, log *logging.Logger, opts ...ServerOption) *Server {
	s := &Server{
		cfg:    cfg,
		log:    log.Sub("gateway"),
		ledger: ledger.New(),
	}
	s.hub = NewHub(log.Sub("chat"))

	for _, opt := range opts {
		opt(s)
	}

	if s.uploads == nil {
		s.uploads = NewUploadStore(cfg.Uploads)
	}
	return s
}

// Ledger exposes the server's message ledger.
func (s *Server) Ledger() *ledger.Ledger { return s.ledger }

// Handler builds the full HTTP handler with the middleware chain applied.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	s.registerRoutes(mux)
	return withMiddleware(mux, s.log, s.cfg.Server.AllowedOrigins)
}

// resolveBindAddr computes the listen address from config.
func resolveBindAddr(cfg config.ServerConfig) string {
	switch cfg.Bind {
	case "loopback":
		return fmt.Sprintf("127.0.0.1:%d", cfg.Port)
	case "lan", "auto":
		return fmt.Sprintf("0.0.0.0:%d", cfg.Port)
	case "custom":
		host := cfg.CustomBindHost
		if host == "" {
			host = "0.0.0.0"
		}
		return fmt.Sprintf("%s:%d", host, cfg.Port)
	default:
		return fmt.Sprintf("127.0.0.1:%d", cfg.Port)
	}
}

// Start begins listening for HTTP and WebSocket connections. It blocks
// until the context is cancelled or an error occurs.
func (s *Server) Start(ctx context.Context) error {
	addr := resolveBindAddr(s.cfg.Server)

	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.Handler(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
		BaseContext:  func(l net.Listener) context.Context { return ctx },
	}

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}

	if s.cfg.Server.TLS.Enabled {
		cert, err := tls.LoadX509KeyPair(s.cfg.Server.TLS.CertPath, s.cfg.Server.TLS.KeyPath)
		if err != nil {
			ln.Close()
			return fmt.Errorf("loading TLS certificate: %w", err)
		}
		ln = tls.NewListener(ln, &tls.Config{
			Certificates: []tls.Certificate{cert},
			MinVersion:   tls.VersionTLS12,
		})
		s.log.Info().Msg("TLS enabled")
	}

	s.log.Info().
		Str("addr", ln.Addr().String()).
		Str("bind", s.cfg.Server.Bind).
		Msg("gateway server ready")

	go func() {
		<-ctx.Done()
		s.log.Info().Msg("shutting down gateway server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		s.hub.CloseAll()
		s.httpServer.Shutdown(shutdownCtx)
	}()

	if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Addr returns the server's listen address, or empty string if not started.
func (s *Server) Addr() string {
	if s.httpServer != nil {
		return s.httpServer.Addr
	}
	return ""
}
