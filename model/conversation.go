package model

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"anmi/config"
)

// Phase is where the conversation stands with respect to the in-flight response.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseWaiting
	PhaseReceiving
	PhaseDraining
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseWaiting:
		return "waiting"
	case PhaseReceiving:
		return "receiving"
	case PhaseDraining:
		return "draining"
	default:
		return "unknown"
	}
}

const (
	GreetingText = "¡Hola! Soy ANMI, tu asistente nutricional. Te ayudaré con información sobre nutrición para prevenir la anemia infantil, siempre cuidando tu privacidad. 💚"
	ApologyText  = "Lo siento, tuve un problema al procesar tu mensaje. Por favor intenta de nuevo."
)

// ReassuranceMessages are shown while the assistant takes long to produce its first token.
var ReassuranceMessages = [...]string{
	"Estoy despertando, dame unos segundos... ☕",
	"Estoy iniciando, un momento por favor... 🌱",
	"Preparándome para ayudarte, ya casi... 💚",
}

// Conversation owns the message list and the token stream buffer.
// It is not safe for concurrent use; every method runs on the update loop.
type Conversation struct {
	Session     Session
	Messages    []Message
	Pending     *PendingStream
	Reassurance string

	splitThreshold int
	newID          func() string
	now            func() time.Time
}

// NewConversation starts a conversation seeded with the assistant greeting.
func NewConversation(session Session, splitThreshold int) *Conversation {
	c := &Conversation{
		Session:        session,
		splitThreshold: splitThreshold,
		newID:          uuid.NewString,
		now:            time.Now,
	}
	c.Messages = append(c.Messages, Message{
		ID:            c.newID(),
		Text:          GreetingText,
		FromAssistant: true,
		CreatedAt:     c.now(),
	})
	return c
}

func (c *Conversation) Phase() Phase {
	p := c.Pending
	switch {
	case p == nil:
		return PhaseIdle
	case p.networkDone:
		return PhaseDraining
	case p.receiving:
		return PhaseReceiving
	default:
		return PhaseWaiting
	}
}

// Busy reports whether a response is in flight. Input stays disabled while it is.
func (c *Conversation) Busy() bool {
	return c.Pending != nil
}

// ShowTyping reports whether the typing indicator should be visible: a stream is open and
// no part of the reply is on screen yet.
func (c *Conversation) ShowTyping() bool {
	return c.Pending != nil && !c.Pending.messageCreated
}

// Submit appends the user message and opens a pending stream for the reply.
// Blank text, or a stream already in flight, makes it a no-op.
func (c *Conversation) Submit(text string) (*PendingStream, bool) {
	if strings.TrimSpace(text) == "" || c.Pending != nil {
		return nil, false
	}

	c.Messages = append(c.Messages, Message{
		ID:        c.newID(),
		Text:      text,
		CreatedAt: c.now(),
	})
	c.Pending = newPendingStream(c.newID(), c.newID())
	c.Reassurance = ""

	if config.DebugLog != nil {
		config.DebugLog.Printf("[Conversation] Stream %s opened (%d chars)", c.Pending.ID, len(text))
	}
	return c.Pending, true
}

func (c *Conversation) active(streamID string) *PendingStream {
	if c.Pending == nil || c.Pending.ID != streamID {
		return nil
	}
	return c.Pending
}

// Receive queues a fragment for display.
func (c *Conversation) Receive(streamID, fragment string) bool {
	p := c.active(streamID)
	if p == nil || p.networkDone || fragment == "" {
		return false
	}
	p.enqueue(fragment, c.splitThreshold)
	c.Reassurance = ""
	return true
}

// DrainTick moves one queued unit onto the assistant message. It returns the unit shown, if
// any, and whether the stream is still open so the caller keeps ticking.
func (c *Conversation) DrainTick(streamID string) (string, bool) {
	p := c.active(streamID)
	if p == nil {
		return "", false
	}

	unit, ok := p.next()
	if ok {
		c.appendToAssistant(p, unit)
	}
	if p.Drained() {
		c.finish()
		return unit, false
	}
	return unit, true
}

func (c *Conversation) appendToAssistant(p *PendingStream, unit string) {
	if !p.messageCreated {
		p.messageCreated = true
		c.Messages = append(c.Messages, Message{
			ID:            p.MessageID,
			Text:          unit,
			FromAssistant: true,
			CreatedAt:     c.now(),
		})
		return
	}
	if i := c.indexOf(p.MessageID); i >= 0 {
		c.Messages[i].Text += unit
	}
}

// Complete marks the network side finished. With nothing left queued the conversation goes
// straight back to idle; a reply that never produced text leaves no message behind.
func (c *Conversation) Complete(streamID string) bool {
	p := c.active(streamID)
	if p == nil {
		return false
	}
	p.networkDone = true
	c.Reassurance = ""
	if p.Drained() {
		c.finish()
	}
	return true
}

// Fail drops whatever was shown of the reply and appends the apology instead.
func (c *Conversation) Fail(streamID string, err error) bool {
	p := c.active(streamID)
	if p == nil {
		return false
	}

	if config.DebugLog != nil {
		config.DebugLog.Printf("[Conversation] Stream %s failed: %v", streamID, err)
	}

	c.removeMessage(p.MessageID)
	c.finish()
	c.Messages = append(c.Messages, Message{
		ID:            c.newID(),
		Text:          ApologyText,
		FromAssistant: true,
		CreatedAt:     c.now(),
	})
	return true
}

// Cancel aborts the in-flight request and discards the partial reply.
func (c *Conversation) Cancel() bool {
	p := c.Pending
	if p == nil {
		return false
	}

	if config.DebugLog != nil {
		config.DebugLog.Printf("[Conversation] Stream %s cancelled (%d units undisplayed)", p.ID, p.Len())
	}

	c.removeMessage(p.MessageID)
	c.finish()
	return true
}

// Reassure shows reassurance message pick (mod the set size) if the stream is still waiting
// for its first fragment.
func (c *Conversation) Reassure(streamID string, pick int) bool {
	p := c.active(streamID)
	if p == nil || p.receiving || p.networkDone {
		return false
	}
	n := len(ReassuranceMessages)
	c.Reassurance = ReassuranceMessages[((pick%n)+n)%n]
	return true
}

func (c *Conversation) finish() {
	if c.Pending != nil {
		c.Pending.stop()
	}
	c.Pending = nil
	c.Reassurance = ""
}

func (c *Conversation) indexOf(id string) int {
	for i := len(c.Messages) - 1; i >= 0; i-- {
		if c.Messages[i].ID == id {
			return i
		}
	}
	return -1
}

func (c *Conversation) removeMessage(id string) {
	if i := c.indexOf(id); i >= 0 {
		c.Messages = append(c.Messages[:i], c.Messages[i+1:]...)
	}
}

// Message returns a pointer to the message with the given id, or nil.
func (c *Conversation) Message(id string) *Message {
	if i := c.indexOf(id); i >= 0 {
		return &c.Messages[i]
	}
	return nil
}

// LastAssistantMessage returns the most recent finished assistant reply, skipping the one
// still being streamed.
func (c *Conversation) LastAssistantMessage() (Message, bool) {
	for i := len(c.Messages) - 1; i >= 0; i-- {
		msg := c.Messages[i]
		if !msg.FromAssistant {
			continue
		}
		if c.Pending != nil && msg.ID == c.Pending.MessageID {
			continue
		}
		return msg, true
	}
	return Message{}, false
}

// Transcript renders the conversation as plain text for the clipboard.
func (c *Conversation) Transcript() string {
	var b strings.Builder
	for i, msg := range c.Messages {
		if i > 0 {
			b.WriteString("\n\n")
		}
		if msg.FromAssistant {
			b.WriteString("ANMI: ")
		} else {
			b.WriteString("Tú: ")
		}
		b.WriteString(msg.Text)
	}
	return b.String()
}
