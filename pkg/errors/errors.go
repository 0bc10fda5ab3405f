// Package errors defines the error taxonomy used throughout the
// PostCrawl client.
//
// Errors returned by the API carry structured detail (HTTP status,
// machine-readable code, request ID) so callers can branch with
// errors.As rather than matching message text.
package errors

import (
	"fmt"
	"time"
)

// ErrorDetail describes a single field-level problem inside a
// validation failure.
type ErrorDetail struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ConfigError indicates a problem with the client configuration.
type ConfigError struct {
	// Field contains the name of the configuration field that caused the error
	Field string
	// Message contains the detailed error message
	Message string
}

func (e *ConfigError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("config error in field %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("config error: %s", e.Message)
}

// APIError represents a failure response from the PostCrawl API that
// does not map to a more specific kind.
type APIError struct {
	// StatusCode is the HTTP status code.
	StatusCode int
	// ErrorCode is the machine-readable error code (if available).
	ErrorCode string
	// Message is the human-readable error message. When the response
	// body was not decodable JSON this holds the raw body text.
	Message string
	// RequestID identifies the failed request server-side (if available).
	RequestID string
	// Details contains field-level errors for validation failures.
	Details []ErrorDetail
}

func (e *APIError) Error() string {
	if e.ErrorCode != "" {
		return fmt.Sprintf("postcrawl API error (status %d, code %s): %s", e.StatusCode, e.ErrorCode, e.Message)
	}
	return fmt.Sprintf("postcrawl API error (status %d): %s", e.StatusCode, e.Message)
}

// AuthenticationError indicates the API key was missing, malformed or
// rejected (HTTP 401). Never retried.
type AuthenticationError struct {
	APIError
}

func (e *AuthenticationError) Error() string {
	return "authentication failed: " + e.APIError.Error()
}

// InsufficientCreditsError indicates the account has no credit left for
// the requested operation (HTTP 402). Never retried.
type InsufficientCreditsError struct {
	APIError

	// CreditsRequired and CreditsAvailable are populated when the
	// server includes them; nil otherwise.
	CreditsRequired  *int
	CreditsAvailable *int
}

func (e *InsufficientCreditsError) Error() string {
	if e.CreditsRequired != nil && e.CreditsAvailable != nil {
		return fmt.Sprintf("insufficient credits (required %d, available %d): %s",
			*e.CreditsRequired, *e.CreditsAvailable, e.APIError.Error())
	}
	return "insufficient credits: " + e.APIError.Error()
}

// ValidationError indicates a malformed request, either rejected
// locally before any network attempt (StatusCode 0) or by the server
// (HTTP 400/422). Resending the same request cannot succeed, so it is
// never retried.
type ValidationError struct {
	APIError
}

func (e *ValidationError) Error() string {
	if e.StatusCode == 0 {
		return "validation error: " + e.Message
	}
	return "validation error: " + e.APIError.Error()
}

// RateLimitError indicates the request was throttled (HTTP 429). The
// client retries these automatically, honoring Retry-After; the error
// surfaces only once the attempt budget is exhausted.
type RateLimitError struct {
	APIError

	// RetryAfter is the server-requested wait, zero when the header
	// was absent.
	RetryAfter time.Duration
}

func (e *RateLimitError) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("rate limited (retry after %s): %s", e.RetryAfter, e.APIError.Error())
	}
	return "rate limited: " + e.APIError.Error()
}

// NetworkError indicates the request never produced a well-formed HTTP
// response: connection failure, reset, or timeout. Retried
// automatically; surfaces once the attempt budget is exhausted.
type NetworkError struct {
	// Op describes what the client was doing, e.g. "POST /v1/search".
	Op string
	// Timeout reports whether the failure was a deadline expiry.
	Timeout bool
	// Err is the underlying transport error.
	Err error
}

func (e *NetworkError) Error() string {
	kind := "network error"
	if e.Timeout {
		kind = "timeout"
	}
	if e.Op != "" {
		return fmt.Sprintf("%s during %s: %v", kind, e.Op, e.Err)
	}
	return fmt.Sprintf("%s: %v", kind, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// DecodeError indicates the response body did not match the documented
// envelope. It signals a contract mismatch between client and server,
// distinct from the API's own error responses, and is never retried.
type DecodeError struct {
	// Operation is the API operation whose response failed to decode.
	Operation string
	// Message contains the detailed error message.
	Message string
	// Err contains the underlying error if available.
	Err error
}

func (e *DecodeError) Error() string {
	msg := e.Message
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	if e.Operation != "" {
		return fmt.Sprintf("decode error during %s: %s", e.Operation, msg)
	}
	return fmt.Sprintf("decode error: %s", msg)
}

func (e *DecodeError) Unwrap() error { return e.Err }
