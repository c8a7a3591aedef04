package model

import (
	"strings"
	"time"
)

type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one turn of a conversation. Immutable once created.
type Message struct {
	Role      Role
	Speaker   string // empty for system and assistant turns
	Content   string
	Timestamp time.Time
}

func NewSystemMessage(content string) Message {
	return Message{Role: RoleSystem, Content: content, Timestamp: time.Now()}
}

func NewUserMessage(speaker, content string) Message {
	return Message{Role: RoleUser, Speaker: speaker, Content: content, Timestamp: time.Now()}
}

func NewAssistantMessage(content string) Message {
	return Message{Role: RoleAssistant, Content: content, Timestamp: time.Now()}
}

// Mentions reports whether the message text contains any of the given names,
// case-insensitively. Empty names never match.
func (m Message) Mentions(names ...string) bool {
	lower := strings.ToLower(m.Content)
	for _, n := range names {
		if n == "" {
			continue
		}
		if strings.Contains(lower, strings.ToLower(n)) {
			return true
		}
	}
	return false
}

// StoredMessage is the wire shape of a persisted turn. The system message is
// never stored; it is rebuilt from the current mood on load.
type StoredMessage struct {
	ID      string `json:"id,omitempty"`
	Role    Role   `json:"role"`
	Content string `json:"content"`
}
