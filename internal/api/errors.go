package api

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"wordflow/internal/repository"
)

// Error is a non-2xx backend response
type Error struct {
	Status int
	Detail string
}

func (e *Error) Error() string {
	return e.Detail
}

// Unwrap maps 401 responses to repository.ErrUnauthorized
func (e *Error) Unwrap() error {
	if e.Status == http.StatusUnauthorized {
		return repository.ErrUnauthorized
	}
	return nil
}

// maxPlainDetail bounds a text/plain body used as the error detail
const maxPlainDetail = 200

// readError builds an Error from the response: the JSON "detail" field when
// present, otherwise a short text/plain body, otherwise the status text
func readError(resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	apiErr := &Error{Status: resp.StatusCode}

	contentType := resp.Header.Get("Content-Type")
	switch {
	case strings.Contains(contentType, "application/json"):
		var payload struct {
			Detail json.RawMessage `json:"detail"`
		}
		if err := json.Unmarshal(raw, &payload); err == nil {
			apiErr.Detail = detailText(payload.Detail)
		}
	case strings.HasPrefix(contentType, "text/plain"):
		if text := strings.TrimSpace(string(raw)); len(text) <= maxPlainDetail {
			apiErr.Detail = text
		}
	}

	if apiErr.Detail == "" {
		apiErr.Detail = http.StatusText(resp.StatusCode)
	}
	if apiErr.Detail == "" {
		apiErr.Detail = fmt.Sprintf("HTTP %d", resp.StatusCode)
	}
	return apiErr
}

// detailText flattens FastAPI style details: a plain string, or a list of
// validation errors carrying "msg"
func detailText(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var text string
	if err := json.Unmarshal(raw, &text); err == nil {
		return text
	}
	var items []struct {
		Msg string `json:"msg"`
	}
	if err := json.Unmarshal(raw, &items); err == nil {
		msgs := make([]string, 0, len(items))
		for _, item := range items {
			if item.Msg != "" {
				msgs = append(msgs, item.Msg)
			}
		}
		return strings.Join(msgs, "; ")
	}
	return string(raw)
}
