package gateway

import "net/http"

func (s *Server) registerRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /emails/send", s.handleEmailSend)
	mux.HandleFunc("GET /emails/latest", s.handleEmailLatest)

	mux.HandleFunc("POST /sms/send", s.handleSMSSend)
	mux.HandleFunc("GET /sms/sent", s.handleSMSSent)
	mux.HandleFunc("GET /sms/messages", s.handleSMSMessages)
	mux.HandleFunc("POST /sms/receive", s.handleSMSReceive)

	mux.HandleFunc("POST /voice/token", s.handleVoiceToken)
	mux.HandleFunc("POST /voice/call", s.handleVoiceCall)
	mux.HandleFunc("POST /voice/incoming", s.handleVoiceIncoming)

	mux.HandleFunc("GET /chat", s.serveChat)
	mux.HandleFunc("GET /health", s.handleHealth)

	mux.Handle("GET /uploads/", http.StripPrefix("/uploads/",
		http.FileServer(http.Dir(s.uploads.Dir()))))

	mux.HandleFunc("/", s.handleNotFound)
}
