// Package api talks to the ANMI chat service.
//
// Two endpoints are consumed:
//
//	POST {base}/chat/stream   server-sent events, one {"token": "..."} per event, "[DONE]" at the end
//	POST {base}/chat          {"reply": "..."} in a single response
//
// Both take {"message": "...", "thread_id": "..."} where thread_id is the client session id.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"anmi/config"
)

const (
	chatPath       = "/chat"
	chatStreamPath = "/chat/stream"
)

// ChatRequest is the body of both chat endpoints.
type ChatRequest struct {
	Message  string `json:"message"`
	ThreadID string `json:"thread_id"`
}

// ChatResponse is the body returned by the non-streaming endpoint.
type ChatResponse struct {
	Reply string `json:"reply"`
}

type tokenEvent struct {
	Token string `json:"token"`
}

type Client struct {
	// httpClient bounds the whole exchange; replies from /chat arrive in one piece.
	httpClient *http.Client
	// streamClient only bounds the wait for response headers, so a long reply keeps streaming.
	streamClient *http.Client
	baseURL      string
}

// NewClient validates baseURL and builds a client. timeout bounds a whole /chat request but
// only the wait for the first response headers of a stream. Zero means no client-side timeout.
func NewClient(baseURL string, timeout time.Duration) (*Client, error) {
	if baseURL == "" {
		baseURL = config.DefaultAPIBaseURL
	}

	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid API URL: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, fmt.Errorf("invalid API URL %q: scheme must be http or https", baseURL)
	}
	if parsed.Host == "" {
		return nil, fmt.Errorf("invalid API URL %q: missing host", baseURL)
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.ResponseHeaderTimeout = timeout

	return &Client{
		httpClient:   &http.Client{Timeout: timeout},
		streamClient: &http.Client{Transport: transport},
		baseURL:      strings.TrimRight(baseURL, "/"),
	}, nil
}

// BaseURL returns the normalized base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Chat sends one message to the non-streaming endpoint and returns the full reply.
func (c *Client) Chat(ctx context.Context, req ChatRequest) (string, error) {
	resp, err := c.post(ctx, c.httpClient, chatPath, req, "application/json")
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("error reading response: %w", err)
	}
	if len(body) == 0 {
		return "", ErrEmptyBody
	}

	var res ChatResponse
	if err := json.Unmarshal(body, &res); err != nil {
		return "", fmt.Errorf("error unmarshaling response: %w", err)
	}
	return res.Reply, nil
}

func (c *Client) post(ctx context.Context, httpClient *http.Client, path string, payload any, accept string) (*http.Response, error) {
	jsonBody, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("error marshaling request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(jsonBody))
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", accept)

	if config.DebugLog != nil {
		config.DebugLog.Printf("[API] POST %s (%d bytes)", httpReq.URL, len(jsonBody))
	}

	resp, err := httpClient.Do(httpReq)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil && errors.Is(err, ctxErr) {
			return nil, ctxErr
		}
		return nil, fmt.Errorf("error sending request: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		statusErr := newStatusError(resp)
		resp.Body.Close()
		return nil, statusErr
	}

	if resp.Body == nil || resp.Body == http.NoBody {
		return nil, ErrEmptyBody
	}

	return resp, nil
}
