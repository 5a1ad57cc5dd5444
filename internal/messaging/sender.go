package messaging

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"unicode/utf8"

	"gstrelay/internal/constants"
)

// Sender delivers one text message to a chat address.
type Sender interface {
	Send(ctx context.Context, to, body string) error
}

type SenderFunc func(ctx context.Context, to, body string) error

func (f SenderFunc) Send(ctx context.Context, to, body string) error {
	return f(ctx, to, body)
}

// StatusError is returned when the platform answers outside 2xx.
type StatusError struct {
	Op         string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: platform returned status %d: %s", e.Op, e.StatusCode, e.Body)
}

const maxErrorBody = 512

// doJSON sends payload (if any) as JSON and decodes a 2xx response into out (if any).
func doJSON(ctx context.Context, client *http.Client, op, method, endpoint string, headers map[string]string, payload, out interface{}) error {
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("%s: failed to marshal request: %w", op, err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return fmt.Errorf("%s: failed to create request: %w", op, redactURL(err))
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("%s: request failed: %w", op, redactURL(err))
	}
	defer resp.Body.Close()

	if resp.StatusCode < constants.HTTPStatusOKMin || resp.StatusCode >= constants.HTTPStatusOKMax {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &StatusError{Op: op, StatusCode: resp.StatusCode, Body: string(snippet)}
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil && err != io.EOF {
		return fmt.Errorf("%s: failed to decode response: %w", op, err)
	}
	return nil
}

// redactURL drops the request URL from transport errors. Green API carries the
// instance token in the path.
func redactURL(err error) error {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return fmt.Errorf("%s request: %w", urlErr.Op, urlErr.Err)
	}
	return err
}

// Preview shortens body for logs.
func Preview(body string) string {
	if utf8.RuneCountInString(body) <= constants.LogPreviewLen {
		return body
	}
	runes := []rune(body)
	return string(runes[:constants.LogPreviewLen]) + "..."
}
