package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// Error is a non-2xx response from the SkillWave API. Auth failures flow
// through the session manager; everything else surfaces to the caller as
// one of these.
type Error struct {
	StatusCode int
	Message    string
}

func (e *Error) Error() string {
	return fmt.Sprintf("api error (%d): %s", e.StatusCode, e.Message)
}

// newError maps the backend's error envelope ({"error": ..., "message":
// ...}) to an Error, falling back to the HTTP status text when the body
// carries nothing usable.
func newError(statusCode int, body []byte) *Error {
	envelope := struct {
		Err     string `json:"error"`
		Message string `json:"message"`
	}{}
	_ = json.Unmarshal(body, &envelope)

	message := envelope.Message
	if message == "" {
		message = envelope.Err
	}
	if message == "" {
		message = http.StatusText(statusCode)
	}
	return &Error{StatusCode: statusCode, Message: message}
}

// StatusCode returns the HTTP status carried by err, or 0 when err is not
// an API error (network failure, timeout, decode error).
func StatusCode(err error) int {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}

// IsUnauthorized reports whether err is an HTTP 401 from the API.
func IsUnauthorized(err error) bool {
	return StatusCode(err) == http.StatusUnauthorized
}

// IsClientError reports whether the API itself rejected the request
// (4xx). A false result for a non-nil error means the failure was
// transient: network, timeout, or a 5xx.
func IsClientError(err error) bool {
	code := StatusCode(err)
	return code >= 400 && code <= 499
}
