package internal

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
	"golang.org/x/time/rate"

	pcerrors "github.com/postcrawl/postcrawl-go/pkg/errors"
	"github.com/postcrawl/postcrawl-go/pkg/types"
)

const (
	DefaultRequestsPerSecond = 5
	DefaultBurst             = 5

	headerRateLimitLimit     = "X-RateLimit-Limit"
	headerRateLimitRemaining = "X-RateLimit-Remaining"
	headerRateLimitReset     = "X-RateLimit-Reset"
)

// Response is one HTTP exchange as seen by the rest of the pipeline:
// status, headers and body bytes. Classification and decoding happen
// elsewhere; the transport only moves bytes.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// TransportOptions configures a Transport.
type TransportOptions struct {
	BaseURL   string
	APIKey    string
	UserAgent string
	Timeout   time.Duration

	// RequestsPerSecond and Burst cap client-side throughput before
	// requests ever reach the API. Zero values use the defaults.
	RequestsPerSecond float64
	Burst             int

	// HTTPClient overrides the underlying client, mainly for tests.
	HTTPClient *http.Client

	// OnRateLimit is invoked with the snapshot parsed from every
	// response that carries rate-limit headers.
	OnRateLimit func(types.RateLimitInfo)
}

// Transport issues single HTTP requests against the PostCrawl API.
// It attaches credentials and throttles outgoing calls, but does not
// classify failures or retry; that is the caller's job.
type Transport struct {
	http    *resty.Client
	limiter *rate.Limiter
}

// NewTransport builds a Transport from the given options.
func NewTransport(opts TransportOptions) *Transport {
	var httpClient *resty.Client
	if opts.HTTPClient != nil {
		httpClient = resty.NewWithClient(opts.HTTPClient)
	} else {
		httpClient = resty.New()
	}

	httpClient.SetBaseURL(opts.BaseURL)
	httpClient.SetAuthToken(opts.APIKey)
	httpClient.SetHeader("User-Agent", opts.UserAgent)
	httpClient.SetHeader("Content-Type", "application/json")
	if opts.Timeout > 0 {
		httpClient.SetTimeout(opts.Timeout)
	}

	rps := opts.RequestsPerSecond
	if rps <= 0 {
		rps = DefaultRequestsPerSecond
	}
	burst := opts.Burst
	if burst <= 0 {
		burst = DefaultBurst
	}
	limiter := rate.NewLimiter(rate.Limit(rps), burst)

	httpClient.OnBeforeRequest(func(_ *resty.Client, req *resty.Request) error {
		return limiter.Wait(req.Context())
	})

	if onRateLimit := opts.OnRateLimit; onRateLimit != nil {
		httpClient.OnAfterResponse(func(_ *resty.Client, resp *resty.Response) error {
			if info, ok := ParseRateLimit(resp.Header()); ok {
				onRateLimit(info)
			}
			return nil
		})
	}

	return &Transport{http: httpClient, limiter: limiter}
}

// Send performs one POST of the given JSON body against path.
// A connectivity failure (dial error, reset, timeout) returns a
// NetworkError; any well-formed HTTP response, success or not, returns
// a Response.
func (t *Transport) Send(ctx context.Context, path string, body any) (*Response, error) {
	resp, err := t.http.R().
		SetContext(ctx).
		SetBody(body).
		Post(path)
	if err != nil {
		return nil, &pcerrors.NetworkError{
			Op:      "POST " + path,
			Timeout: isTimeout(err),
			Err:     err,
		}
	}

	return &Response{
		StatusCode: resp.StatusCode(),
		Header:     resp.Header(),
		Body:       resp.Body(),
	}, nil
}

// Close releases pooled connections held by the underlying client.
func (t *Transport) Close() {
	t.http.GetClient().CloseIdleConnections()
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

// ParseRateLimit extracts the rate-limit snapshot from response
// headers. The snapshot is absent (ok false) unless both the limit and
// remaining headers are present and numeric; reset is optional.
func ParseRateLimit(h http.Header) (types.RateLimitInfo, bool) {
	limitHeader := h.Get(headerRateLimitLimit)
	remainingHeader := h.Get(headerRateLimitRemaining)
	if limitHeader == "" || remainingHeader == "" {
		return types.RateLimitInfo{}, false
	}

	limit, errLimit := strconv.Atoi(limitHeader)
	remaining, errRemaining := strconv.Atoi(remainingHeader)
	if errLimit != nil || errRemaining != nil || limit < 0 || remaining < 0 {
		return types.RateLimitInfo{}, false
	}

	info := types.RateLimitInfo{Limit: limit, Remaining: remaining}
	if resetHeader := h.Get(headerRateLimitReset); resetHeader != "" {
		if reset, err := strconv.ParseInt(resetHeader, 10, 64); err == nil && reset > 0 {
			info.Reset = reset
		}
	}
	return info, true
}

// RetryAfter parses the Retry-After header as a second count.
// Returns zero when the header is absent or malformed.
func RetryAfter(h http.Header) time.Duration {
	value := h.Get("Retry-After")
	if value == "" {
		return 0
	}
	seconds, err := strconv.ParseFloat(value, 64)
	if err != nil || seconds <= 0 {
		return 0
	}
	return time.Duration(seconds * float64(time.Second))
}
