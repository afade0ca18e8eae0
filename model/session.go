package model

import "github.com/google/uuid"

// Session identifies the conversation to the server. It lives as long as the process.
type Session struct {
	ID string
}

func NewSession() Session {
	return Session{ID: uuid.NewString()}
}
