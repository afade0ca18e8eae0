package model

import "time"

// Message is one entry of the conversation.
type Message struct {
	ID            string
	Text          string
	FromAssistant bool
	CreatedAt     time.Time
	Rendered      string // cached terminal rendering, empty until markdown is rendered
}

func (m Message) Role() string {
	if m.FromAssistant {
		return "assistant"
	}
	return "user"
}
