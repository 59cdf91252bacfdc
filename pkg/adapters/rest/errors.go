package rest

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/aretw0/keep/pkg/core"
)

// APIError is a non-2xx response from the backend.
type APIError struct {
	Status  int
	Code    string
	Message string
	Details string
	Hint    string
}

func (e *APIError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = http.StatusText(e.Status)
	}
	if e.Code != "" {
		return fmt.Sprintf("backend error %d (%s): %s", e.Status, e.Code, msg)
	}
	return fmt.Sprintf("backend error %d: %s", e.Status, msg)
}

// Unwrap maps auth and lookup failures onto the core sentinels.
func (e *APIError) Unwrap() error {
	switch e.Status {
	case http.StatusUnauthorized, http.StatusForbidden:
		return core.ErrUnauthenticated
	case http.StatusNotFound:
		return core.ErrNotFound
	}
	return nil
}

// errorBody covers both the data API ({message, code, details, hint}) and
// the auth API ({error, error_description} or {msg, error_code}).
type errorBody struct {
	Message          string          `json:"message"`
	Msg              string          `json:"msg"`
	Code             json.RawMessage `json:"code"`
	ErrorCode        string          `json:"error_code"`
	Details          string          `json:"details"`
	Hint             string          `json:"hint"`
	Error            string          `json:"error"`
	ErrorDescription string          `json:"error_description"`
}

func decodeError(status int, data []byte) error {
	e := &APIError{Status: status}
	var body errorBody
	if err := json.Unmarshal(data, &body); err != nil {
		e.Message = string(data)
		return e
	}

	e.Message = firstNonEmpty(body.Message, body.Msg, body.ErrorDescription, body.Error)
	e.Code = firstNonEmpty(codeString(body.Code), body.ErrorCode, body.Error)
	e.Details = body.Details
	e.Hint = body.Hint
	return e
}

// codeString accepts the code as either a JSON string or a number.
func codeString(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(raw)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
