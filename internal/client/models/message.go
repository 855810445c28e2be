package models

import (
	"fmt"
	"strings"
	"time"
)

// Sender identifies who authored a message.
type Sender string

const (
	SenderUser      Sender = "user"
	SenderAssistant Sender = "assistant"
)

// ParseSender maps a wire value to a Sender. The backend stores the
// assistant role as "ai"; "assistant" is accepted too.
func ParseSender(s string) (Sender, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "user":
		return SenderUser, nil
	case "assistant", "ai":
		return SenderAssistant, nil
	default:
		return "", fmt.Errorf("unknown sender %q", s)
	}
}

// MessageFlags mark assistant messages that need special rendering.
type MessageFlags struct {
	IsError  bool
	IsCrisis bool
}

// Message is one chat message. Messages are immutable once appended to a
// conversation log.
type Message struct {
	ID        string
	Text      string
	Sender    Sender
	Timestamp time.Time
	Flags     MessageFlags
}

// ChatReply is the backend answer to a sent message.
type ChatReply struct {
	Message        string
	ConversationID ConversationID
}

// Timestamp is a time decoded from the backend. The backend emits ISO 8601
// datetimes, with or without a zone offset; zone-less values are UTC.
type Timestamp struct {
	time.Time
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04:05.999999999Z07:00",
}

// ParseTimestamp parses a backend datetime string.
func ParseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised timestamp %q", s)
}

func (t *Timestamp) UnmarshalJSON(b []byte) error {
	s := string(b)
	if s == "null" {
		t.Time = time.Time{}
		return nil
	}
	if len(s) < 2 || s[0] != '"' || s[len(s)-1] != '"' {
		return fmt.Errorf("timestamp must be a string, got %s", s)
	}
	parsed, err := ParseTimestamp(s[1 : len(s)-1])
	if err != nil {
		return err
	}
	t.Time = parsed
	return nil
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	return []byte(`"` + t.UTC().Format(time.RFC3339Nano) + `"`), nil
}
