package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// ErrEmptyBody means the server answered without any usable payload.
var ErrEmptyBody = errors.New("empty response body")

// StatusError is returned for any non-2xx response.
type StatusError struct {
	StatusCode int
	Status     string
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("unexpected status %s", e.Status)
	}
	return fmt.Sprintf("unexpected status %s: %s", e.Status, e.Body)
}

const maxErrorBody = 512

func newStatusError(resp *http.Response) *StatusError {
	var body string
	if resp.Body != nil {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		body = strings.TrimSpace(string(b))
	}
	return &StatusError{
		StatusCode: resp.StatusCode,
		Status:     resp.Status,
		Body:       body,
	}
}

// IsStatus reports whether err is a StatusError with the given code.
func IsStatus(err error, code int) bool {
	var statusErr *StatusError
	return errors.As(err, &statusErr) && statusErr.StatusCode == code
}
