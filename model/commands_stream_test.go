package model

import (
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"anmi/api"
	"anmi/config"
)

func newTestModel(t *testing.T, handler http.HandlerFunc) *Model {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := api.NewClient(srv.URL, 5*time.Second)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}

	cfg := config.Default()
	cfg.DataDirectory = t.TempDir()
	return NewModel(cfg, client, "test")
}

func sseHandler(tokens ...string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		for _, tok := range tokens {
			fmt.Fprintf(w, "data: {\"token\":%q}\n\n", tok)
			w.(http.Flusher).Flush()
		}
		fmt.Fprint(w, "data: [DONE]\n\n")
	}
}

// runToIdle feeds every network event through HandleStreamMsg, interleaving drain ticks, then
// drains what is left.
func runToIdle(t *testing.T, m *Model, stream *PendingStream) {
	t.Helper()

	timeout := time.After(5 * time.Second)
	events := stream.Events()
	for events != nil {
		select {
		case msg, ok := <-events:
			if !ok {
				events = nil
				continue
			}
			if _, handled := m.HandleStreamMsg(msg); !handled {
				t.Fatalf("unhandled stream message %T", msg)
			}
			m.HandleStreamMsg(DrainTickMsg{StreamID: stream.ID})
		case <-timeout:
			t.Fatal("timed out waiting for stream events")
		}
	}

	for i := 0; m.Conversation.Busy(); i++ {
		if i > 10000 {
			t.Fatal("conversation never returned to idle")
		}
		m.HandleStreamMsg(DrainTickMsg{StreamID: stream.ID})
	}
}

func submit(t *testing.T, m *Model, text string) *PendingStream {
	t.Helper()
	stream, ok := m.Conversation.Submit(text)
	if !ok {
		t.Fatalf("Submit(%q) rejected", text)
	}
	StartStream(m.Client, stream, api.ChatRequest{Message: text, ThreadID: m.Conversation.Session.ID})
	return stream
}

func TestStreamingScenarioReturnsToIdle(t *testing.T) {
	bodies := make(chan string, 1)
	m := newTestModel(t, func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		bodies <- string(b)
		sseHandler("Las ", "carnes rojas, ", "el hígado ", "y la sangrecita.")(w, r)
	})

	stream := submit(t, m, "Alimentos ricos en hierro")
	runToIdle(t, m, stream)

	gotBody := <-bodies
	if !strings.Contains(gotBody, `"thread_id":"`+m.Conversation.Session.ID+`"`) {
		t.Errorf("request body %s does not carry the session id", gotBody)
	}

	last := m.Conversation.Messages[len(m.Conversation.Messages)-1]
	want := "Las carnes rojas, el hígado y la sangrecita."
	if !last.FromAssistant || last.Text != want {
		t.Errorf("final reply = %q, want %q", last.Text, want)
	}
	if m.Conversation.Phase() != PhaseIdle {
		t.Errorf("phase = %v, want idle", m.Conversation.Phase())
	}
}

func TestStreamingServerErrorAppendsSingleApology(t *testing.T) {
	m := newTestModel(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "internal error", http.StatusInternalServerError)
	})

	stream := submit(t, m, "Preparación segura")
	runToIdle(t, m, stream)

	apologies := 0
	for _, msg := range m.Conversation.Messages {
		if msg.ID == stream.MessageID {
			t.Error("partial assistant message left behind")
		}
		if msg.Text == ApologyText {
			apologies++
		}
	}
	if apologies != 1 {
		t.Errorf("expected exactly one apology, got %d", apologies)
	}
}

func TestCancelStopsReader(t *testing.T) {
	release := make(chan struct{})
	defer close(release)

	m := newTestModel(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "data: {\"token\":\"Hola\"}\n\n")
		w.(http.Flusher).Flush()
		select {
		case <-r.Context().Done():
		case <-release:
		}
	})

	stream := submit(t, m, "Pautas para bebés")
	events := stream.Events()

	select {
	case msg := <-events:
		m.HandleStreamMsg(msg)
	case <-time.After(5 * time.Second):
		t.Fatal("no first fragment")
	}

	if !m.CancelStream() {
		t.Fatal("CancelStream returned false")
	}

	deadline := time.After(5 * time.Second)
	for {
		select {
		case msg, ok := <-events:
			if !ok {
				if m.Conversation.Busy() {
					t.Error("conversation still busy after cancel")
				}
				return
			}
			if _, isErr := msg.(StreamErrorMsg); isErr {
				t.Error("cancellation must not surface as a stream error")
			}
		case <-deadline:
			t.Fatal("reader goroutine did not stop after cancel")
		}
	}
}

func TestSendUserTextRejections(t *testing.T) {
	release := make(chan struct{})
	defer close(release)

	m := newTestModel(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-release:
		}
	})

	if cmd := m.SendUserText("   "); cmd != nil {
		t.Error("blank text should not start a stream")
	}

	if cmd := m.SendUserText("hola"); cmd == nil {
		t.Fatal("first send returned nil")
	}
	before := len(m.Conversation.Messages)

	if cmd := m.SendUserText("otra vez"); cmd != nil {
		t.Error("second send while streaming should be a no-op")
	}
	if len(m.Conversation.Messages) != before {
		t.Error("rejected send appended a message")
	}

	m.CancelStream()
}

func TestHandleStreamMsgIgnoresForeignMessages(t *testing.T) {
	m := newTestModel(t, sseHandler())

	if _, handled := m.HandleStreamMsg(FlashTickMsg{}); handled {
		t.Error("FlashTickMsg should not be handled as a stream message")
	}
	if cmd, handled := m.HandleStreamMsg(DrainTickMsg{StreamID: "gone"}); !handled || cmd != nil {
		t.Error("stale drain tick should be swallowed without rescheduling")
	}
}
