package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// DefaultConversationTitle is shown for conversations without a title.
const DefaultConversationTitle = "New Conversation"

// ConversationID is a server-assigned conversation identifier. The zero
// value means unset. On the wire it may be a JSON number, a string or null.
type ConversationID string

// IsZero reports whether the id is unset.
func (id ConversationID) IsZero() bool {
	return id == ""
}

func (id ConversationID) String() string {
	return string(id)
}

// MarshalJSON encodes unset as null, canonical integers ("42", "-5") as
// numbers and anything else, including "007", as a string.
func (id ConversationID) MarshalJSON() ([]byte, error) {
	if id.IsZero() {
		return []byte("null"), nil
	}
	if id.isCanonicalInt() {
		return []byte(id), nil
	}
	return json.Marshal(string(id))
}

func (id ConversationID) isCanonicalInt() bool {
	n, err := strconv.ParseInt(string(id), 10, 64)
	return err == nil && strconv.FormatInt(n, 10) == string(id)
}

func (id *ConversationID) UnmarshalJSON(b []byte) error {
	s, err := ParseFlexibleID(b)
	if err != nil {
		return fmt.Errorf("conversation id: %w", err)
	}
	*id = ConversationID(s)
	return nil
}

// ParseFlexibleID decodes a JSON id that may be a number, a string or null
// into its string form. Numbers must be integers.
func ParseFlexibleID(b []byte) (string, error) {
	b = bytes.TrimSpace(b)
	switch {
	case len(b) == 0 || bytes.Equal(b, []byte("null")):
		return "", nil
	case b[0] == '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return "", err
		}
		return s, nil
	default:
		var n json.Number
		if err := json.Unmarshal(b, &n); err != nil {
			return "", err
		}
		if _, err := n.Int64(); err != nil {
			return "", fmt.Errorf("non-integer id %s", n)
		}
		return n.String(), nil
	}
}

// Conversation is one entry of the user's conversation list.
type Conversation struct {
	ID        ConversationID
	Title     string
	UpdatedAt time.Time
}

// DisplayTitle is Title, or DefaultConversationTitle when it is blank.
func (c Conversation) DisplayTitle() string {
	if c.Title == "" {
		return DefaultConversationTitle
	}
	return c.Title
}
