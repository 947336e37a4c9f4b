// Package ledger holds the in-memory record of messages accepted from
// provider webhooks. The ledger is volatile: it starts empty and lives
// only as long as the process.
package ledger

import (
	"sync"

	"github.com/soyeahso/switchboard/internal/domain"
)

// Ledger is an ordered, newest-first collection of messages. It is safe
// for concurrent use; construct one per server (or per test) and inject
// it wherever messages are recorded or read.
type Ledger struct {
	mu      sync.RWMutex
	entries []domain.Message
}

// New creates an empty ledger.
func New() *Ledger {
	return &Ledger{}
}

// Append inserts a message at the front. Entries are never deduplicated:
// a provider redelivery produces a duplicate entry.
func (l *Ledger) Append(msg domain.Message) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append([]domain.Message{msg}, l.entries...)
}

// ListAll returns a snapshot of every entry, newest first.
func (l *Ledger) ListAll() []domain.Message {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]domain.Message, len(l.entries))
	copy(out, l.entries)
	return out
}

// Len returns the number of recorded entries.
func (l *Ledger) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.entries)
}
