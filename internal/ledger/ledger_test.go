package ledger

import (
	"fmt"
	"sync"
	"testing"

	"github.com/soyeahso/switchboard/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmptyLedger(t *testing.T) {
	l := New()
	assert.Empty(t, l.ListAll())
	assert.Equal(t, 0, l.Len())
}

func TestAppendPrepends(t *testing.T) {
	l := New()
	m1 := domain.Message{Sender: "+15550001111", Recipient: "+15550002222", Body: "first"}
	m2 := domain.Message{Sender: "+15550001111", Recipient: "+15550002222", Body: "second"}
	m3 := domain.Message{Sender: "+15550001111", Recipient: "+15550002222", Body: "third"}

	l.Append(m1)
	l.Append(m2)
	l.Append(m3)

	got := l.ListAll()
	require.Len(t, got, 3)
	assert.Equal(t, []domain.Message{m3, m2, m1}, got)
}

func TestNoDeduplication(t *testing.T) {
	l := New()
	m := domain.Message{Sender: "+15550001111", Recipient: "+15550002222", Body: "redelivered"}
	l.Append(m)
	l.Append(m)
	assert.Equal(t, 2, l.Len())
}

func TestListAllReturnsSnapshot(t *testing.T) {
	l := New()
	l.Append(domain.Message{Body: "a"})

	snap := l.ListAll()
	l.Append(domain.Message{Body: "b"})

	// Mutating the snapshot must not affect the ledger.
	snap[0].Body = "mutated"
	require.Len(t, snap, 1)
	got := l.ListAll()
	require.Len(t, got, 2)
	assert.Equal(t, "a", got[1].Body)
}

func TestConcurrentAppendAndList(t *testing.T) {
	l := New()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			l.Append(domain.Message{Body: fmt.Sprintf("msg-%d", i)})
		}(i)
		go func() {
			defer wg.Done()
			_ = l.ListAll()
		}()
	}
	wg.Wait()
	assert.Equal(t, 50, l.Len())
}
