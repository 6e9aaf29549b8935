package models

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strings"
	"time"
	"unicode"
)

// Role identifies the author of a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// ValidRole reports whether r is one of the known roles.
func ValidRole(r Role) bool {
	switch r {
	case RoleUser, RoleAssistant, RoleSystem:
		return true
	default:
		return false
	}
}

// Message is a single record in a conversation log.
//
// Records are stored as one JSON object per line. The named fields below are
// modeled explicitly; anything else found on a record is kept in Extra so that
// a read/write cycle never drops data.
type Message struct {
	Role      Role
	Content   string
	Timestamp time.Time
	Files     []string

	// Quiet suppresses display when the message is appended.
	Quiet bool
	// Hide excludes the message from normal rendering.
	Hide bool
	// Pinned protects the message from log reduction.
	Pinned bool

	// Extra holds fields this version does not model.
	Extra map[string]any
}

// NewMessage creates a message stamped with the current time.
func NewMessage(role Role, content string) Message {
	return Message{Role: role, Content: content, Timestamp: time.Now()}
}

// MarshalJSON writes the record with Extra fields merged back in alongside
// the modeled ones. Boolean flags are only written when set.
func (m Message) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(m.Extra)+5)
	for k, v := range m.Extra {
		out[k] = v
	}
	out["role"] = m.Role
	out["content"] = m.Content
	out["timestamp"] = m.Timestamp.Format(time.RFC3339Nano)
	if len(m.Files) > 0 {
		out["files"] = m.Files
	}
	if m.Quiet {
		out["quiet"] = true
	}
	if m.Hide {
		out["hide"] = true
	}
	if m.Pinned {
		out["pinned"] = true
	}
	return json.Marshal(out)
}

// UnmarshalJSON decodes a record. Missing role or content is an error;
// unknown fields land in Extra.
func (m *Message) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	take := func(key string, dst any) error {
		v, ok := raw[key]
		if !ok {
			return nil
		}
		delete(raw, key)
		if err := json.Unmarshal(v, dst); err != nil {
			return fmt.Errorf("field %q: %w", key, err)
		}
		return nil
	}

	if _, ok := raw["role"]; !ok {
		return fmt.Errorf("message record missing role")
	}
	if _, ok := raw["content"]; !ok {
		return fmt.Errorf("message record missing content")
	}

	var ts string
	if err := take("role", &m.Role); err != nil {
		return err
	}
	if err := take("content", &m.Content); err != nil {
		return err
	}
	if err := take("timestamp", &ts); err != nil {
		return err
	}
	if err := take("files", &m.Files); err != nil {
		return err
	}
	if err := take("quiet", &m.Quiet); err != nil {
		return err
	}
	if err := take("hide", &m.Hide); err != nil {
		return err
	}
	if err := take("pinned", &m.Pinned); err != nil {
		return err
	}

	if ts != "" {
		parsed, err := time.Parse(time.RFC3339, ts)
		if err != nil {
			return fmt.Errorf("field \"timestamp\": %w", err)
		}
		m.Timestamp = parsed
	}

	if len(raw) > 0 {
		m.Extra = make(map[string]any, len(raw))
		for k, v := range raw {
			var val any
			if err := json.Unmarshal(v, &val); err != nil {
				return fmt.Errorf("field %q: %w", k, err)
			}
			m.Extra[k] = val
		}
	}
	return nil
}

// Equal reports structural equality over all fields.
func (m Message) Equal(other Message) bool {
	if m.Role != other.Role || m.Content != other.Content {
		return false
	}
	if !m.Timestamp.Equal(other.Timestamp) {
		return false
	}
	if m.Quiet != other.Quiet || m.Hide != other.Hide || m.Pinned != other.Pinned {
		return false
	}
	if len(m.Files) != len(other.Files) {
		return false
	}
	for i := range m.Files {
		if m.Files[i] != other.Files[i] {
			return false
		}
	}
	if len(m.Extra) != len(other.Extra) {
		return false
	}
	if len(m.Extra) > 0 && !reflect.DeepEqual(m.Extra, other.Extra) {
		return false
	}
	return true
}

// Format renders the message as a single "role: content" line.
func (m Message) Format() string {
	return fmt.Sprintf("%s: %s", m.Role, Shorten(m.Content, 100))
}

// Shorten collapses whitespace in s and truncates it to at most width runes,
// marking truncation with "...".
func Shorten(s string, width int) string {
	fields := strings.FieldsFunc(s, unicode.IsSpace)
	s = strings.Join(fields, " ")
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	if width <= 3 {
		return string(runes[:width])
	}
	cut := string(runes[:width-3])
	if i := strings.LastIndex(cut, " "); i > 0 {
		cut = cut[:i]
	}
	return cut + "..."
}
