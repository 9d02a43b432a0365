// Package apierrors provides shared error types for the mail.tm client.
package apierrors

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// Sentinel errors for errors.Is() checks
var (
	// ErrUnauthorized is returned when the bearer token is missing, invalid or expired.
	ErrUnauthorized = errors.New("invalid or expired token")

	// ErrNotFound is returned when the requested resource does not exist.
	ErrNotFound = errors.New("resource not found")

	// ErrConflict is returned when the resource already exists.
	ErrConflict = errors.New("resource conflict")

	// ErrUnprocessable is returned when the server rejects the request body,
	// for example an address that is already taken or an unknown domain.
	ErrUnprocessable = errors.New("unprocessable request")

	// ErrRateLimited is returned when the API rate limit is exceeded.
	ErrRateLimited = errors.New("rate limit exceeded")

	// ErrNotImplemented is returned by operations the client does not support.
	ErrNotImplemented = errors.New("operation not implemented")

	// ErrMissingToken is returned when an authenticated operation is
	// attempted with a user that has no token.
	ErrMissingToken = errors.New("user has no token")
)

// StatusError represents a non-2xx HTTP response from the mail.tm API.
// Body holds the response body verbatim, whether or not it is JSON.
type StatusError struct {
	StatusCode int
	Body       string
	Message    string
	Method     string
	URL        string
}

// NewStatusError builds a StatusError and extracts a diagnostic message
// from body when it is a JSON error document.
func NewStatusError(method, url string, statusCode int, body []byte) *StatusError {
	return &StatusError{
		StatusCode: statusCode,
		Body:       string(body),
		Message:    errorMessage(body),
		Method:     method,
		URL:        url,
	}
}

func (e *StatusError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = e.Body
	}
	if msg != "" {
		return fmt.Sprintf("API error %d: %s", e.StatusCode, msg)
	}
	return fmt.Sprintf("API error %d", e.StatusCode)
}

// Is implements errors.Is for sentinel error matching.
func (e *StatusError) Is(target error) bool {
	switch e.StatusCode {
	case http.StatusUnauthorized:
		return target == ErrUnauthorized
	case http.StatusNotFound:
		return target == ErrNotFound
	case http.StatusConflict:
		return target == ErrConflict
	case http.StatusUnprocessableEntity:
		return target == ErrUnprocessable
	case http.StatusTooManyRequests:
		return target == ErrRateLimited
	}
	return false
}

// MailTMError implements the mailtm.Error marker interface.
func (e *StatusError) MailTMError() {}

// errorMessage pulls the human readable part out of the error documents
// mail.tm returns: hydra errors carry hydra:description, problem+json
// carries detail, and the JWT layer answers {"code":401,"message":...}.
func errorMessage(body []byte) string {
	var doc struct {
		Description string `json:"hydra:description"`
		Detail      string `json:"detail"`
		Message     string `json:"message"`
	}
	if err := json.Unmarshal(body, &doc); err != nil {
		return ""
	}
	switch {
	case doc.Description != "":
		return doc.Description
	case doc.Detail != "":
		return doc.Detail
	default:
		return doc.Message
	}
}

// TransportError represents a request that could not be built or sent,
// or a connection that failed before a response was read.
type TransportError struct {
	Method string
	URL    string
	Err    error
}

func (e *TransportError) Error() string {
	if e.URL == "" {
		return fmt.Sprintf("transport error: %v", e.Err)
	}
	return fmt.Sprintf("transport error: %s %s: %v", e.Method, e.URL, e.Err)
}

// Unwrap returns the underlying error.
func (e *TransportError) Unwrap() error {
	return e.Err
}

// MailTMError implements the mailtm.Error marker interface.
func (e *TransportError) MailTMError() {}

// DecodeError represents a 2xx response whose body could not be parsed
// into the expected shape.
type DecodeError struct {
	Body string
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode error: %v", e.Err)
}

// Unwrap returns the underlying error.
func (e *DecodeError) Unwrap() error {
	return e.Err
}

// MailTMError implements the mailtm.Error marker interface.
func (e *DecodeError) MailTMError() {}
