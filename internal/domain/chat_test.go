package domain

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChatEventPreservesUnknownFields(t *testing.T) {
	in := []byte(`{"sender":"alice","text":"hi","roomId":"lobby","ts":1234}`)

	var e ChatEvent
	require.NoError(t, json.Unmarshal(in, &e))
	assert.Equal(t, "alice", e.Sender)
	assert.Equal(t, "hi", e.Text)
	require.Contains(t, e.Extra, "roomId")
	require.Contains(t, e.Extra, "ts")

	out, err := json.Marshal(e)
	require.NoError(t, err)

	var round map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(out, &round))
	assert.JSONEq(t, `"lobby"`, string(round["roomId"]))
	assert.JSONEq(t, `1234`, string(round["ts"]))
	assert.JSONEq(t, `"alice"`, string(round["sender"]))
}

func TestChatEventKnownFieldsWinOverExtra(t *testing.T) {
	e := ChatEvent{
		Text:  "current",
		Extra: map[string]json.RawMessage{"text": json.RawMessage(`"stale"`)},
	}

	out, err := json.Marshal(e)
	require.NoError(t, err)

	var round map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(out, &round))
	assert.JSONEq(t, `"current"`, string(round["text"]))
}

func TestChatEventAttachmentRoundTrip(t *testing.T) {
	in := []byte(`{"sender":"bob","attachment":{"name":"a.png","content":"aGk="}}`)

	var e ChatEvent
	require.NoError(t, json.Unmarshal(in, &e))
	require.NotNil(t, e.Attachment)
	assert.Equal(t, "a.png", e.Attachment.Name)
	assert.Equal(t, "aGk=", e.Attachment.Content)
	assert.Empty(t, e.Extra)
}

func TestErrorUnwrap(t *testing.T) {
	inner := errors.New("connection refused")
	var err error = &DeliveryError{Provider: "smtp", Err: inner}
	assert.ErrorIs(t, err, inner)

	var delivery *DeliveryError
	assert.ErrorAs(t, err, &delivery)
	assert.Equal(t, "smtp", delivery.Provider)
}
