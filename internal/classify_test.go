package internal

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pcerrors "github.com/postcrawl/postcrawl-go/pkg/errors"
)

func errResponse(status int, body string, header http.Header) *Response {
	if header == nil {
		header = http.Header{}
	}
	return &Response{StatusCode: status, Header: header, Body: []byte(body)}
}

func TestClassifyAuthentication(t *testing.T) {
	err := ClassifyResponse(errResponse(401,
		`{"error":"unauthorized","message":"Invalid API key","request_id":"req_123"}`, nil))

	var authErr *pcerrors.AuthenticationError
	require.ErrorAs(t, err, &authErr)
	assert.Equal(t, 401, authErr.StatusCode)
	assert.Equal(t, "unauthorized", authErr.ErrorCode)
	assert.Equal(t, "Invalid API key", authErr.Message)
	assert.Equal(t, "req_123", authErr.RequestID)
}

func TestClassifyInsufficientCredits(t *testing.T) {
	t.Run("402", func(t *testing.T) {
		err := ClassifyResponse(errResponse(402,
			`{"error":"insufficient_credits","message":"Not enough credits","request_id":"req_789"}`, nil))

		var creditErr *pcerrors.InsufficientCreditsError
		require.ErrorAs(t, err, &creditErr)
		assert.Equal(t, 402, creditErr.StatusCode)
	})

	// Older gateways signalled the same condition with a 403 and the
	// insufficient_credits code in the body.
	t.Run("403 with credits code", func(t *testing.T) {
		err := ClassifyResponse(errResponse(403,
			`{"error":"insufficient_credits","message":"Not enough credits. Required: 10, Available: 5"}`, nil))

		var creditErr *pcerrors.InsufficientCreditsError
		require.ErrorAs(t, err, &creditErr)
		assert.Contains(t, creditErr.Error(), "Not enough credits")
	})

	t.Run("plain 403 stays generic", func(t *testing.T) {
		err := ClassifyResponse(errResponse(403, `{"error":"forbidden","message":"nope"}`, nil))

		var apiErr *pcerrors.APIError
		require.ErrorAs(t, err, &apiErr)
	})
}

func TestClassifyValidation(t *testing.T) {
	for _, status := range []int{400, 422} {
		err := ClassifyResponse(errResponse(status,
			`{"error":"validation_error","message":"Validation failed","request_id":"req_val_123",
			  "details":[{"field":"results","code":"invalid_value","message":"Must be between 1 and 100"}]}`, nil))

		var valErr *pcerrors.ValidationError
		require.ErrorAs(t, err, &valErr, "status %d", status)
		assert.Equal(t, status, valErr.StatusCode)
		require.Len(t, valErr.Details, 1)
		assert.Equal(t, "results", valErr.Details[0].Field)
		assert.Equal(t, "Must be between 1 and 100", valErr.Details[0].Message)
	}
}

func TestClassifyRateLimit(t *testing.T) {
	header := http.Header{}
	header.Set("Retry-After", "60")

	err := ClassifyResponse(errResponse(429,
		`{"error":"rate_limit_exceeded","message":"Too many requests","request_id":"req_456"}`, header))

	var rateErr *pcerrors.RateLimitError
	require.ErrorAs(t, err, &rateErr)
	assert.Equal(t, 429, rateErr.StatusCode)
	assert.Equal(t, 60*time.Second, rateErr.RetryAfter)
}

func TestClassifyGenericWithRawBody(t *testing.T) {
	err := ClassifyResponse(errResponse(500, "Internal Server Error", nil))

	var apiErr *pcerrors.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 500, apiErr.StatusCode)
	assert.Contains(t, apiErr.Message, "Internal Server Error")
	assert.Empty(t, apiErr.ErrorCode)
}

func TestClassifyEmptyBody(t *testing.T) {
	err := ClassifyResponse(errResponse(503, "", nil))

	var apiErr *pcerrors.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusText(503), apiErr.Message)
}
