package domain

import "time"

// Message is a single ledger entry recorded from a provider webhook.
// Attachment is nil when the notification carried no media.
type Message struct {
	Sender     string  `json:"sender"`
	Recipient  string  `json:"recipient"`
	Body       string  `json:"body"`
	Attachment *string `json:"attachment"`
}

// InboundNotification is the payload the SMS provider pushes to the
// webhook endpoint when a message arrives at the provisioned number.
type InboundNotification struct {
	From     string `json:"from"`
	To       string `json:"to"`
	Body     string `json:"body"`
	MediaURL string `json:"mediaUrl,omitempty"`
}

// SentMessage is the normalized shape of an outbound SMS read back
// from the provider.
type SentMessage struct {
	ID     string    `json:"id"`
	To     string    `json:"to"`
	From   string    `json:"from"`
	Body   string    `json:"body"`
	SentAt time.Time `json:"sentAt"`
	Status string    `json:"status"`
}
