package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c, err := NewClient(srv.URL+"/api/", 5*time.Second)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return c
}

func collect(t *testing.T, c *Client, ctx context.Context) ([]string, error) {
	t.Helper()
	var tokens []string
	for token, err := range c.StreamChat(ctx, ChatRequest{Message: "hola", ThreadID: "t-1"}) {
		if err != nil {
			return tokens, err
		}
		tokens = append(tokens, token)
	}
	return tokens, nil
}

func TestNewClient(t *testing.T) {
	tests := []struct {
		name        string
		baseURL     string
		want        string
		expectError bool
	}{
		{name: "default", baseURL: "", want: "http://127.0.0.1:8000/api"},
		{name: "trailing slash trimmed", baseURL: "https://anmi.example/api/", want: "https://anmi.example/api"},
		{name: "unsupported scheme", baseURL: "ftp://anmi.example", expectError: true},
		{name: "missing host", baseURL: "http://", expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := NewClient(tt.baseURL, time.Second)
			if tt.expectError {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if c.BaseURL() != tt.want {
				t.Errorf("BaseURL() = %q, want %q", c.BaseURL(), tt.want)
			}
		})
	}
}

func TestStreamChatSendsRequestAndYieldsTokens(t *testing.T) {
	var got ChatRequest
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/chat/stream" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("Content-Type = %q", ct)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode body: %v", err)
		}

		w.Header().Set("Content-Type", "text/event-stream")
		for _, tok := range []string{"Los ", "alimentos ", "ricos en hierro"} {
			b, _ := json.Marshal(map[string]string{"token": tok})
			fmt.Fprintf(w, "data: %s\n\n", b)
			w.(http.Flusher).Flush()
		}
		fmt.Fprint(w, "data: [DONE]\n\n")
	})

	tokens, err := collect(t, c, context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got.Message != "hola" || got.ThreadID != "t-1" {
		t.Errorf("request body = %+v", got)
	}
	want := []string{"Los ", "alimentos ", "ricos en hierro"}
	if strings.Join(tokens, "|") != strings.Join(want, "|") {
		t.Errorf("tokens = %q, want %q", tokens, want)
	}
}

func TestStreamChatSkipsMalformedPayloads(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "data: {\"token\":\"a\"}\n\n")
		fmt.Fprint(w, "data: {not json\n\n")
		fmt.Fprint(w, "data: {\"other\":1}\n\n")
		fmt.Fprint(w, "data: {\"token\":\"b\"}\n\n")
		fmt.Fprint(w, "data: [DONE]\n\n")
		fmt.Fprint(w, "data: {\"token\":\"after done\"}\n\n")
	})

	tokens, err := collect(t, c, context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Join(tokens, "") != "ab" {
		t.Errorf("tokens = %q, want [a b]", tokens)
	}
}

func TestStreamChatSplitsJoinedDataLines(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "data: {\"token\":\"uno \"}\ndata: {\"token\":\"dos\"}\n\n")
	})

	tokens, err := collect(t, c, context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Join(tokens, "") != "uno dos" {
		t.Errorf("tokens = %q", tokens)
	}
}

func TestStreamChatErrors(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		check   func(error) bool
	}{
		{
			name: "server error status",
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "boom", http.StatusInternalServerError)
			},
			check: func(err error) bool { return IsStatus(err, http.StatusInternalServerError) },
		},
		{
			name:    "empty body",
			handler: func(w http.ResponseWriter, r *http.Request) {},
			check:   func(err error) bool { return errors.Is(err, ErrEmptyBody) },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, tt.handler)
			tokens, err := collect(t, c, context.Background())
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !tt.check(err) {
				t.Errorf("unexpected error type: %v", err)
			}
			if len(tokens) != 0 {
				t.Errorf("expected no tokens, got %q", tokens)
			}
		})
	}
}

func TestStreamChatTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	c, err := NewClient(url, time.Second)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}

	_, err = collect(t, c, context.Background())
	if err == nil {
		t.Fatal("expected transport error, got nil")
	}
	var statusErr *StatusError
	if errors.As(err, &statusErr) || errors.Is(err, ErrEmptyBody) {
		t.Errorf("expected transport error, got %v", err)
	}
}

func TestStreamChatOutlivesRequestTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		for _, tok := range []string{"La sangrecita ", "es rica ", "en hierro."} {
			fmt.Fprintf(w, "data: {\"token\":%q}\n\n", tok)
			w.(http.Flusher).Flush()
			time.Sleep(80 * time.Millisecond)
		}
		fmt.Fprint(w, "data: [DONE]\n\n")
	}))
	t.Cleanup(srv.Close)

	c, err := NewClient(srv.URL, 100*time.Millisecond)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}

	tokens, err := collect(t, c, context.Background())
	if err != nil {
		t.Fatalf("stream cut off: %v", err)
	}
	if got := strings.Join(tokens, ""); got != "La sangrecita es rica en hierro." {
		t.Errorf("reply = %q", got)
	}
}

func TestStreamChatHeaderTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	t.Cleanup(srv.Close)

	c, err := NewClient(srv.URL, 100*time.Millisecond)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}

	start := time.Now()
	if _, err := collect(t, c, context.Background()); err == nil {
		t.Fatal("expected a timeout while waiting for headers")
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Errorf("gave up after %v", elapsed)
	}
}

func TestStreamChatCancellation(t *testing.T) {
	release := make(chan struct{})
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "data: {\"token\":\"first\"}\n\n")
		w.(http.Flusher).Flush()
		select {
		case <-r.Context().Done():
		case <-release:
		}
	})
	defer close(release)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	var tokens []string
	var gotErr error
	for token, err := range c.StreamChat(ctx, ChatRequest{Message: "hola", ThreadID: "t"}) {
		if err != nil {
			gotErr = err
			break
		}
		tokens = append(tokens, token)
		cancel()
	}

	if len(tokens) != 1 || tokens[0] != "first" {
		t.Errorf("tokens = %q", tokens)
	}
	if !IsCancellation(gotErr) {
		t.Errorf("expected cancellation error, got %v", gotErr)
	}
}

func TestChat(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/chat" {
			t.Errorf("path = %q", r.URL.Path)
		}
		var req ChatRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		json.NewEncoder(w).Encode(ChatResponse{Reply: "eco: " + req.Message})
	})

	reply, err := c.Chat(context.Background(), ChatRequest{Message: "hierro", ThreadID: "t"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if reply != "eco: hierro" {
		t.Errorf("reply = %q", reply)
	}
}

func TestChatStatusError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad gateway", http.StatusBadGateway)
	})

	_, err := c.Chat(context.Background(), ChatRequest{Message: "x", ThreadID: "t"})
	var statusErr *StatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("expected StatusError, got %v", err)
	}
	if statusErr.StatusCode != http.StatusBadGateway || statusErr.Body != "bad gateway" {
		t.Errorf("unexpected StatusError %+v", statusErr)
	}
}
