package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"iter"
	"strings"

	"github.com/tmaxmax/go-sse"

	"anmi/config"
)

const doneSentinel = "[DONE]"

// StreamChat posts a message to the streaming endpoint and yields text fragments in arrival order.
//
// Malformed payloads are logged and skipped. A body that carries no event at all yields
// ErrEmptyBody. When ctx is cancelled the context error is yielded so callers can tell a user
// abort apart from a failure. Breaking out of the loop closes the response body.
func (c *Client) StreamChat(ctx context.Context, req ChatRequest) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		resp, err := c.post(ctx, c.streamClient, chatStreamPath, req, "text/event-stream")
		if err != nil {
			yield("", err)
			return
		}
		defer resp.Body.Close()

		events := 0
		for ev, err := range sse.Read(resp.Body, nil) {
			if err != nil {
				if ctxErr := ctx.Err(); ctxErr != nil {
					yield("", ctxErr)
					return
				}
				yield("", fmt.Errorf("error reading response: %w", err))
				return
			}
			events++

			// Servers that forget the blank line between events get their data lines joined.
			for _, payload := range strings.Split(ev.Data, "\n") {
				if payload == doneSentinel {
					return
				}

				token, ok := decodeToken(payload)
				if !ok || token == "" {
					continue
				}
				if !yield(token, nil) {
					return
				}
			}
		}

		if ctxErr := ctx.Err(); ctxErr != nil {
			yield("", ctxErr)
			return
		}
		if events == 0 {
			yield("", ErrEmptyBody)
		}
	}
}

func decodeToken(payload string) (string, bool) {
	payload = strings.TrimSpace(payload)
	if payload == "" {
		return "", false
	}

	var ev tokenEvent
	if err := json.Unmarshal([]byte(payload), &ev); err != nil {
		if config.DebugLog != nil {
			config.DebugLog.Printf("[API] Skipping malformed event payload %q: %v", payload, err)
		}
		return "", false
	}
	return ev.Token, true
}

// IsCancellation reports whether err came from the caller abandoning the request.
func IsCancellation(err error) bool {
	return errors.Is(err, context.Canceled)
}
