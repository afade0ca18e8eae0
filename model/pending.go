package model

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rivo/uniseg"
)

// PendingStream is the single in-flight assistant response.
//
// Units are queued in arrival order and leave the queue one per drain tick. The queue is only
// touched from the update loop; the network goroutine talks through the events channel.
type PendingStream struct {
	ID        string
	MessageID string

	queue          []string
	receiving      bool
	networkDone    bool
	messageCreated bool

	cancel context.CancelFunc
	events <-chan tea.Msg
}

func newPendingStream(id, messageID string) *PendingStream {
	return &PendingStream{ID: id, MessageID: messageID}
}

// Attach wires the request's cancel handle and event channel to the stream.
func (p *PendingStream) Attach(cancel context.CancelFunc, events <-chan tea.Msg) {
	p.cancel = cancel
	p.events = events
}

func (p *PendingStream) Events() <-chan tea.Msg {
	return p.events
}

func (p *PendingStream) Len() int {
	return len(p.queue)
}

func (p *PendingStream) Receiving() bool {
	return p.receiving
}

func (p *PendingStream) NetworkDone() bool {
	return p.networkDone
}

// Drained reports whether nothing is left to show and nothing more will arrive.
func (p *PendingStream) Drained() bool {
	return p.networkDone && len(p.queue) == 0
}

func (p *PendingStream) enqueue(fragment string, splitThreshold int) {
	p.receiving = true
	p.queue = append(p.queue, splitFragment(fragment, splitThreshold)...)
}

func (p *PendingStream) next() (string, bool) {
	if len(p.queue) == 0 {
		return "", false
	}
	unit := p.queue[0]
	p.queue[0] = ""
	p.queue = p.queue[1:]
	return unit, true
}

func (p *PendingStream) stop() {
	if p.cancel != nil {
		p.cancel()
	}
	p.queue = nil
}

// splitFragment breaks fragments longer than threshold grapheme clusters into single clusters.
// A threshold <= 0 disables splitting.
func splitFragment(fragment string, threshold int) []string {
	if threshold <= 0 || uniseg.GraphemeClusterCount(fragment) <= threshold {
		return []string{fragment}
	}

	units := make([]string, 0, len(fragment))
	g := uniseg.NewGraphemes(fragment)
	for g.Next() {
		units = append(units, g.Str())
	}
	return units
}
