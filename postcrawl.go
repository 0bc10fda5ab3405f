package postcrawl

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/postcrawl/postcrawl-go/internal"
	pcerrors "github.com/postcrawl/postcrawl-go/pkg/errors"
	"github.com/postcrawl/postcrawl-go/pkg/types"
)

// Version is the client library version reported in the User-Agent.
const Version = "0.1.0"

const (
	// DefaultBaseURL is the production PostCrawl API endpoint.
	DefaultBaseURL = "https://edge.postcrawl.com"
	// DefaultUserAgent is the default User-Agent string.
	DefaultUserAgent = "postcrawl-go/" + Version
	// DefaultTimeout bounds a single HTTP exchange.
	DefaultTimeout = 90 * time.Second
	// DefaultMaxRetries is the number of retries after the first attempt.
	DefaultMaxRetries = 3
	// DefaultRetryDelay seeds the exponential backoff between retries.
	DefaultRetryDelay = time.Second

	// EnvAPIKey and EnvBaseURL are the environment variables consulted
	// when the corresponding Config fields are empty.
	EnvAPIKey  = "POSTCRAWL_API_KEY"
	EnvBaseURL = "POSTCRAWL_BASE_URL"

	apiKeyPrefix = "sk_"

	searchPath           = "/v1/search"
	extractPath          = "/v1/extract"
	searchAndExtractPath = "/v1/search-and-extract"
)

// Config holds the configuration for the PostCrawl client.
//
// Every field resolves at construction with explicit precedence:
// explicit value > environment variable > default. The resolved values
// are immutable for the lifetime of the client.
type Config struct {
	// APIKey authenticates every request. Must start with "sk_".
	// Falls back to the POSTCRAWL_API_KEY environment variable.
	APIKey string

	// BaseURL for the PostCrawl API. Falls back to POSTCRAWL_BASE_URL,
	// then DefaultBaseURL. Override it to point at a local test server.
	BaseURL string

	// Timeout bounds each HTTP exchange. Defaults to DefaultTimeout.
	// The context passed to an operation bounds the whole call
	// including retries.
	Timeout time.Duration

	// MaxRetries is the number of retries after the first attempt.
	// Negative disables retries. Zero means DefaultMaxRetries.
	MaxRetries int

	// RetryDelay seeds the exponential backoff. Defaults to
	// DefaultRetryDelay.
	RetryDelay time.Duration

	// UserAgent identifies the application to the API.
	UserAgent string

	// RequestsPerSecond and Burst cap client-side throughput before
	// requests reach the API. Zero values use library defaults.
	RequestsPerSecond float64
	Burst             int

	// HTTPClient overrides the underlying HTTP client, mainly for
	// testing. The library owns connection cleanup either way.
	HTTPClient *http.Client

	// Logger receives structured diagnostics. Optional.
	Logger *slog.Logger
}

// Client is the PostCrawl API client.
//
// A Client is safe for concurrent use. The pooled connection resource
// is acquired lazily on first use and released by Close; Close is
// idempotent and safe to defer immediately after construction.
type Client struct {
	config    *Config
	validator *internal.Validator
	decoder   *internal.Decoder
	retry     *internal.RetryPolicy
	logger    *slog.Logger

	transport     *internal.Transport
	transportOnce sync.Once

	rateLimit atomic.Pointer[types.RateLimitInfo]
}

// NewClient creates a PostCrawl client from the given configuration.
// A nil config relies entirely on environment variables and defaults.
//
// Returns a ConfigError when the resolved API key is missing or does
// not look like a PostCrawl secret key.
func NewClient(config *Config) (*Client, error) {
	if config == nil {
		config = &Config{}
	}
	resolved := *config

	if resolved.APIKey == "" {
		resolved.APIKey = os.Getenv(EnvAPIKey)
	}
	if resolved.APIKey == "" {
		return nil, &pcerrors.ConfigError{Field: "APIKey", Message: "API key is required"}
	}
	if !strings.HasPrefix(resolved.APIKey, apiKeyPrefix) {
		return nil, &pcerrors.ConfigError{Field: "APIKey", Message: "API key must start with 'sk_'"}
	}

	if resolved.BaseURL == "" {
		resolved.BaseURL = os.Getenv(EnvBaseURL)
	}
	if resolved.BaseURL == "" {
		resolved.BaseURL = DefaultBaseURL
	}
	if resolved.UserAgent == "" {
		resolved.UserAgent = DefaultUserAgent
	}
	if resolved.Timeout <= 0 {
		resolved.Timeout = DefaultTimeout
	}
	if resolved.MaxRetries == 0 {
		resolved.MaxRetries = DefaultMaxRetries
	}
	if resolved.RetryDelay <= 0 {
		resolved.RetryDelay = DefaultRetryDelay
	}

	maxAttempts := 1
	if resolved.MaxRetries > 0 {
		maxAttempts = 1 + resolved.MaxRetries
	}

	return &Client{
		config:    &resolved,
		validator: internal.NewValidator(),
		decoder:   internal.NewDecoder(),
		retry:     internal.NewRetryPolicy(maxAttempts, resolved.RetryDelay, resolved.Logger),
		logger:    resolved.Logger,
	}, nil
}

// BaseURL returns the resolved API base URL.
func (c *Client) BaseURL() string { return c.config.BaseURL }

// RateLimit returns the most recently observed rate-limit snapshot, or
// nil before the first response carrying rate-limit headers. The
// snapshot is overwritten whole on every call; under concurrent calls
// it reflects the last response processed, not any particular one.
func (c *Client) RateLimit() *types.RateLimitInfo {
	info := c.rateLimit.Load()
	if info == nil {
		return nil
	}
	snapshot := *info
	return &snapshot
}

// Search runs a search across the requested platforms and returns the
// matching posts. Parameters are validated locally; a ValidationError
// from bad parameters never reaches the network.
func (c *Client) Search(ctx context.Context, req *types.SearchRequest) ([]types.SocialPost, error) {
	if err := c.validator.ValidateSearch(req); err != nil {
		return nil, err
	}

	resp, err := c.do(ctx, searchPath, req)
	if err != nil {
		return nil, err
	}
	return c.decoder.DecodeSearchResponse(resp.Body)
}

// Extract fetches the content behind each URL. Entries that are not
// well-formed absolute URLs are dropped from the outbound request
// rather than failing the call. Per-URL extraction failures come back
// as data on the corresponding ExtractedPost, not as an error.
func (c *Client) Extract(ctx context.Context, req *types.ExtractRequest) ([]types.ExtractedPost, error) {
	urls, err := c.validator.ValidateExtract(req)
	if err != nil {
		return nil, err
	}

	outbound := *req
	outbound.URLs = urls

	resp, err := c.do(ctx, extractPath, &outbound)
	if err != nil {
		return nil, err
	}
	return c.decoder.DecodeExtractResponse(resp.Body)
}

// SearchAndExtract composes search and extraction in one logical call.
// The server performs both steps in a single round trip; the client
// builds one request and decodes one combined response.
func (c *Client) SearchAndExtract(ctx context.Context, req *types.SearchAndExtractRequest) ([]types.ExtractedPost, error) {
	if err := c.validator.ValidateSearchAndExtract(req); err != nil {
		return nil, err
	}

	resp, err := c.do(ctx, searchAndExtractPath, req)
	if err != nil {
		return nil, err
	}
	return c.decoder.DecodeExtractResponse(resp.Body)
}

// Close releases the pooled connection resource. Safe to call multiple
// times and before any request has been made.
func (c *Client) Close() {
	// Initialize-then-close keeps the release path single; a transport
	// that was never used holds no connections anyway.
	c.ensureTransport().Close()
}

// do drives one operation through the pipeline: retry-wrapped
// transport, rate-limit bookkeeping, then classification on failure.
func (c *Client) do(ctx context.Context, path string, body any) (*internal.Response, error) {
	transport := c.ensureTransport()

	resp, err := c.retry.Do(ctx, func(ctx context.Context) (*internal.Response, error) {
		return transport.Send(ctx, path, body)
	})
	if err != nil {
		return nil, err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, internal.ClassifyResponse(resp)
	}

	if c.logger != nil {
		c.logger.Debug("request completed", "path", path, "status", resp.StatusCode)
	}
	return resp, nil
}

// ensureTransport lazily builds the transport on first use.
// Initialization happens exactly once even under concurrent calls.
func (c *Client) ensureTransport() *internal.Transport {
	c.transportOnce.Do(func() {
		c.transport = internal.NewTransport(internal.TransportOptions{
			BaseURL:           c.config.BaseURL,
			APIKey:            c.config.APIKey,
			UserAgent:         c.config.UserAgent,
			Timeout:           c.config.Timeout,
			RequestsPerSecond: c.config.RequestsPerSecond,
			Burst:             c.config.Burst,
			HTTPClient:        c.config.HTTPClient,
			OnRateLimit: func(info types.RateLimitInfo) {
				c.rateLimit.Store(&info)
			},
		})
	})
	return c.transport
}
