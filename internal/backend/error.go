package backend

import (
	"encoding/json"
	"fmt"
	"strings"
)

const genericMessage = "An unexpected error occurred."

// messageKeys are probed in order for a human readable error message.
var messageKeys = []string{"detail", "message", "error"}

// Error is a failed backend call: a non-success status, or a transport
// failure mapped to 502/504.
type Error struct {
	StatusCode int
	Message    string
	Details    json.RawMessage
	Timeout    bool

	cause error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("backend error %d: %s: %v", e.StatusCode, e.Message, e.cause)
	}

	return fmt.Sprintf("backend error %d: %s", e.StatusCode, e.Message)
}

func (e *Error) Unwrap() error {
	return e.cause
}

func statusError(status int, body []byte) *Error {
	e := &Error{
		StatusCode: status,
		Message:    genericMessage,
	}

	if len(body) == 0 || !json.Valid(body) {
		return e
	}
	e.Details = json.RawMessage(body)

	var payload map[string]json.RawMessage
	if err := json.Unmarshal(body, &payload); err != nil {
		return e
	}
	for _, key := range messageKeys {
		raw, ok := payload[key]
		if !ok {
			continue
		}
		var msg string
		if err := json.Unmarshal(raw, &msg); err == nil && strings.TrimSpace(msg) != "" {
			e.Message = msg
			break
		}
	}

	return e
}
