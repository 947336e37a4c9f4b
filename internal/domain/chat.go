package domain

import "encoding/json"

// ChatAttachment carries inline file content on a chat event. Content is
// base64, either bare or as a data URL; the hub normalizes it to a data
// URL before re-broadcast.
type ChatAttachment struct {
	Name    string `json:"name,omitempty"`
	Content string `json:"content,omitempty"`
	URL     string `json:"url,omitempty"`
}

// ChatEvent is the payload relayed on the realtime chat channel. Beyond
// the attachment it is treated as opaque: unknown fields pass through
// untouched via Extra.
type ChatEvent struct {
	Sender     string          `json:"sender,omitempty"`
	Text       string          `json:"text,omitempty"`
	Attachment *ChatAttachment `json:"attachment,omitempty"`

	Extra map[string]json.RawMessage `json:"-"`
}

// chatEventAlias avoids recursion in the custom JSON methods.
type chatEventAlias ChatEvent

// UnmarshalJSON keeps unrecognized fields so the event can be relayed
// without loss.
func (e *ChatEvent) UnmarshalJSON(data []byte) error {
	var alias chatEventAlias
	if err := json.Unmarshal(data, &alias); err != nil {
		return err
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	delete(raw, "sender")
	delete(raw, "text")
	delete(raw, "attachment")
	*e = ChatEvent(alias)
	if len(raw) > 0 {
		e.Extra = raw
	}
	return nil
}

// MarshalJSON folds the preserved extra fields back into the output.
func (e ChatEvent) MarshalJSON() ([]byte, error) {
	base, err := json.Marshal(chatEventAlias(e))
	if err != nil {
		return nil, err
	}
	if len(e.Extra) == 0 {
		return base, nil
	}
	var merged map[string]json.RawMessage
	if err := json.Unmarshal(base, &merged); err != nil {
		return nil, err
	}
	for k, v := range e.Extra {
		if _, ok := merged[k]; !ok {
			merged[k] = v
		}
	}
	return json.Marshal(merged)
}
