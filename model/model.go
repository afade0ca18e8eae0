package model

import (
	"sync"
	"sync/atomic"

	"anmi/api"
	"anmi/config"
)

// Model holds the core application data and business logic state
type Model struct {
	// Core dependencies
	Config *config.Config
	Client *api.Client

	// Application data
	Conversation *Conversation

	// Runtime state (not UI)
	Quitting bool

	// Preference saves run in the background; only the newest one reaches the disk.
	prefsSeq   atomic.Uint64
	prefsWrite sync.Mutex

	// Application metadata
	Version string
}

// NewModel creates a Model with a fresh session.
func NewModel(cfg *config.Config, client *api.Client, version string) *Model {
	session := NewSession()

	if config.DebugLog != nil {
		config.DebugLog.Printf("[Model] Session %s started against %s", session.ID, client.BaseURL())
	}

	return &Model{
		Config:       cfg,
		Client:       client,
		Conversation: NewConversation(session, cfg.SplitThreshold),
		Version:      version,
	}
}
