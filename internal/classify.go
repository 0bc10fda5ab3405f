package internal

import (
	"encoding/json"
	"net/http"
	"strings"

	pcerrors "github.com/postcrawl/postcrawl-go/pkg/errors"
)

// errorEnvelope is the API's standard error response body.
type errorEnvelope struct {
	ErrorCode string                 `json:"error"`
	Message   string                 `json:"message"`
	RequestID string                 `json:"request_id"`
	Details   []pcerrors.ErrorDetail `json:"details"`
}

const errorCodeInsufficientCredits = "insufficient_credits"

// ClassifyResponse maps a failed HTTP response to one error kind.
//
// The body is parsed as the standard error envelope when possible;
// otherwise the raw body text becomes the message so nothing the
// server said is lost.
func ClassifyResponse(resp *Response) error {
	apiErr := parseErrorBody(resp)

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		if apiErr.Message == "" {
			apiErr.Message = "invalid or missing API key"
		}
		return &pcerrors.AuthenticationError{APIError: apiErr}

	case resp.StatusCode == http.StatusPaymentRequired,
		resp.StatusCode == http.StatusForbidden && apiErr.ErrorCode == errorCodeInsufficientCredits:
		if apiErr.Message == "" {
			apiErr.Message = "insufficient credits"
		}
		return &pcerrors.InsufficientCreditsError{APIError: apiErr}

	case resp.StatusCode == http.StatusBadRequest,
		resp.StatusCode == http.StatusUnprocessableEntity:
		if apiErr.Message == "" {
			apiErr.Message = "invalid request parameters"
		}
		return &pcerrors.ValidationError{APIError: apiErr}

	case resp.StatusCode == http.StatusTooManyRequests:
		if apiErr.Message == "" {
			apiErr.Message = "rate limit exceeded"
		}
		return &pcerrors.RateLimitError{
			APIError:   apiErr,
			RetryAfter: RetryAfter(resp.Header),
		}

	default:
		if apiErr.Message == "" {
			apiErr.Message = http.StatusText(resp.StatusCode)
		}
		return &pcerrors.APIError{
			StatusCode: apiErr.StatusCode,
			ErrorCode:  apiErr.ErrorCode,
			Message:    apiErr.Message,
			RequestID:  apiErr.RequestID,
			Details:    apiErr.Details,
		}
	}
}

func parseErrorBody(resp *Response) pcerrors.APIError {
	apiErr := pcerrors.APIError{StatusCode: resp.StatusCode}

	var envelope errorEnvelope
	if err := json.Unmarshal(resp.Body, &envelope); err == nil && (envelope.ErrorCode != "" || envelope.Message != "") {
		apiErr.ErrorCode = envelope.ErrorCode
		apiErr.Message = envelope.Message
		apiErr.RequestID = envelope.RequestID
		apiErr.Details = envelope.Details
		return apiErr
	}

	apiErr.Message = strings.TrimSpace(string(resp.Body))
	return apiErr
}
