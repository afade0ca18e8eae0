package model

import (
	"context"
	"math/rand/v2"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"anmi/api"
	"anmi/config"
)

// StartStream launches the network side of a pending stream. The returned channel carries
// StreamFragmentMsg values followed by exactly one StreamDoneMsg or StreamErrorMsg, then closes.
// Cancelling the stream stops the goroutine without sending a terminal message. The client's
// timeout covers the wait for the first response headers, never the length of the reply.
func StartStream(client *api.Client, stream *PendingStream, req api.ChatRequest) <-chan tea.Msg {
	stop, cancel := context.WithCancel(context.Background())
	events := make(chan tea.Msg)
	stream.Attach(cancel, events)

	go readStream(stop, client, stream.ID, req, events)
	return events
}

func readStream(stop context.Context, client *api.Client, streamID string, req api.ChatRequest, out chan<- tea.Msg) {
	defer close(out)

	send := func(msg tea.Msg) bool {
		select {
		case out <- msg:
			return true
		case <-stop.Done():
			return false
		}
	}

	startTime := time.Now()
	fragments := 0

	for token, err := range client.StreamChat(stop, req) {
		if err != nil {
			if stop.Err() != nil {
				if config.DebugLog != nil {
					config.DebugLog.Printf("[Stream] %s cancelled after %v", streamID, time.Since(startTime))
				}
				return
			}
			if config.DebugLog != nil {
				config.DebugLog.Printf("[Stream] %s error after %v (%d fragments): %v", streamID, time.Since(startTime), fragments, err)
			}
			send(StreamErrorMsg{StreamID: streamID, Err: err})
			return
		}

		fragments++
		if !send(StreamFragmentMsg{StreamID: streamID, Fragment: token}) {
			return
		}
	}

	if config.DebugLog != nil {
		config.DebugLog.Printf("[Stream] %s done in %v (%d fragments)", streamID, time.Since(startTime), fragments)
	}
	send(StreamDoneMsg{StreamID: streamID})
}

// WaitForStreamEvent blocks for the next event of a stream. A closed channel yields nil.
func WaitForStreamEvent(events <-chan tea.Msg) tea.Cmd {
	if events == nil {
		return nil
	}
	return func() tea.Msg {
		msg, ok := <-events
		if !ok {
			return nil
		}
		return msg
	}
}

// SendUserText appends the user message and starts streaming the reply. It returns nil when
// the text is blank or a reply is already in flight.
func (m *Model) SendUserText(text string) tea.Cmd {
	stream, ok := m.Conversation.Submit(text)
	if !ok {
		return nil
	}

	req := api.ChatRequest{Message: text, ThreadID: m.Conversation.Session.ID}
	events := StartStream(m.Client, stream, req)

	return tea.Batch(
		WaitForStreamEvent(events),
		m.DrainTick(stream.ID),
		m.ReassuranceTimer(stream.ID),
	)
}

// DrainTick schedules the next typewriter step.
func (m *Model) DrainTick(streamID string) tea.Cmd {
	return tea.Tick(m.Config.DrainInterval, func(time.Time) tea.Msg {
		return DrainTickMsg{StreamID: streamID}
	})
}

// ReassuranceTimer fires once after the configured delay. The pick is drawn up front so the
// update loop stays deterministic.
func (m *Model) ReassuranceTimer(streamID string) tea.Cmd {
	pick := rand.IntN(len(ReassuranceMessages))
	return tea.Tick(m.Config.ReassuranceDelay, func(time.Time) tea.Msg {
		return ReassuranceTickMsg{StreamID: streamID, Pick: pick}
	})
}

// HandleStreamMsg applies a stream-related message to the conversation and returns the
// follow-up command. The second result is false for messages it does not own.
func (m *Model) HandleStreamMsg(msg tea.Msg) (tea.Cmd, bool) {
	conv := m.Conversation

	switch msg := msg.(type) {
	case StreamFragmentMsg:
		conv.Receive(msg.StreamID, msg.Fragment)
		if p := conv.active(msg.StreamID); p != nil {
			return WaitForStreamEvent(p.Events()), true
		}
		return nil, true

	case StreamDoneMsg:
		conv.Complete(msg.StreamID)
		return nil, true

	case StreamErrorMsg:
		conv.Fail(msg.StreamID, msg.Err)
		return nil, true

	case DrainTickMsg:
		if _, open := conv.DrainTick(msg.StreamID); open {
			return m.DrainTick(msg.StreamID), true
		}
		return nil, true

	case ReassuranceTickMsg:
		conv.Reassure(msg.StreamID, msg.Pick)
		return nil, true
	}

	return nil, false
}

// CancelStream aborts the in-flight reply, if any.
func (m *Model) CancelStream() bool {
	return m.Conversation.Cancel()
}
