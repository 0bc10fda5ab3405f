package internal

import (
	"fmt"
	"net/url"
	"strings"

	pcerrors "github.com/postcrawl/postcrawl-go/pkg/errors"
	"github.com/postcrawl/postcrawl-go/pkg/types"
)

const (
	// Result count bounds enforced by the API, inclusive.
	MinResults = 1
	MaxResults = 100

	// MaxExtractURLs caps one extract batch.
	MaxExtractURLs = 100
)

// Validator checks caller-supplied parameters before a request is
// built. Validation failures are local ValidationErrors: they never
// reach the network and never consume a retry budget.
type Validator struct{}

// NewValidator creates a new Validator instance.
func NewValidator() *Validator {
	return &Validator{}
}

// ValidateSearch checks the parameters of a search call.
func (v *Validator) ValidateSearch(req *types.SearchRequest) error {
	if req == nil {
		return localValidationError("search request cannot be nil", nil)
	}

	var details []pcerrors.ErrorDetail
	details = appendPlatformDetails(details, req.SocialPlatforms)
	details = appendQueryDetails(details, req.Query)
	details = appendPagingDetails(details, req.Results, req.Page)

	if len(details) > 0 {
		return localValidationError("invalid request parameters", details)
	}
	return nil
}

// ValidateExtract checks the parameters of an extract call and returns
// the URLs that survive filtering. Entries that are not well-formed
// absolute http(s) URLs are dropped from the outbound request rather
// than failing the call; only an empty result is an error.
func (v *Validator) ValidateExtract(req *types.ExtractRequest) ([]string, error) {
	if req == nil {
		return nil, localValidationError("extract request cannot be nil", nil)
	}

	var details []pcerrors.ErrorDetail
	if len(req.URLs) == 0 {
		details = append(details, pcerrors.ErrorDetail{
			Field: "urls", Code: "required", Message: "at least one URL is required",
		})
	}
	if len(req.URLs) > MaxExtractURLs {
		details = append(details, pcerrors.ErrorDetail{
			Field: "urls", Code: "too_long",
			Message: fmt.Sprintf("cannot process more than %d URLs at once", MaxExtractURLs),
		})
	}
	details = appendResponseModeDetails(details, req.ResponseMode)

	if len(details) > 0 {
		return nil, localValidationError("invalid request parameters", details)
	}

	valid := make([]string, 0, len(req.URLs))
	for _, raw := range req.URLs {
		if isAbsoluteURL(raw) {
			valid = append(valid, raw)
		}
	}
	if len(valid) == 0 {
		return nil, localValidationError("invalid request parameters", []pcerrors.ErrorDetail{{
			Field: "urls", Code: "invalid_value", Message: "no valid absolute URLs provided",
		}})
	}
	return valid, nil
}

// ValidateSearchAndExtract checks the parameters of a combined call.
func (v *Validator) ValidateSearchAndExtract(req *types.SearchAndExtractRequest) error {
	if req == nil {
		return localValidationError("search-and-extract request cannot be nil", nil)
	}

	var details []pcerrors.ErrorDetail
	details = appendPlatformDetails(details, req.SocialPlatforms)
	details = appendQueryDetails(details, req.Query)
	details = appendPagingDetails(details, req.Results, req.Page)
	details = appendResponseModeDetails(details, req.ResponseMode)

	if len(details) > 0 {
		return localValidationError("invalid request parameters", details)
	}
	return nil
}

func appendPlatformDetails(details []pcerrors.ErrorDetail, platforms []types.SocialPlatform) []pcerrors.ErrorDetail {
	if len(platforms) == 0 {
		return append(details, pcerrors.ErrorDetail{
			Field: "social_platforms", Code: "required",
			Message: "at least one social platform is required",
		})
	}
	for _, platform := range platforms {
		if !platform.Valid() {
			details = append(details, pcerrors.ErrorDetail{
				Field: "social_platforms", Code: "invalid_value",
				Message: fmt.Sprintf("unsupported platform: %q", string(platform)),
			})
		}
	}
	return details
}

func appendQueryDetails(details []pcerrors.ErrorDetail, query string) []pcerrors.ErrorDetail {
	if strings.TrimSpace(query) == "" {
		details = append(details, pcerrors.ErrorDetail{
			Field: "query", Code: "required", Message: "query cannot be empty",
		})
	}
	return details
}

func appendPagingDetails(details []pcerrors.ErrorDetail, results, page int) []pcerrors.ErrorDetail {
	if results < MinResults || results > MaxResults {
		details = append(details, pcerrors.ErrorDetail{
			Field: "results", Code: "out_of_range",
			Message: fmt.Sprintf("results must be between %d and %d", MinResults, MaxResults),
		})
	}
	if page < 1 {
		details = append(details, pcerrors.ErrorDetail{
			Field: "page", Code: "out_of_range", Message: "page must be at least 1",
		})
	}
	return details
}

func appendResponseModeDetails(details []pcerrors.ErrorDetail, mode types.ResponseMode) []pcerrors.ErrorDetail {
	switch mode {
	case "", types.ResponseModeRaw, types.ResponseModeMarkdown:
		return details
	}
	return append(details, pcerrors.ErrorDetail{
		Field: "response_mode", Code: "invalid_value",
		Message: fmt.Sprintf("unsupported response mode: %q", string(mode)),
	})
}

// isAbsoluteURL reports whether s parses as an absolute http(s) URL
// with a host.
func isAbsoluteURL(s string) bool {
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

func localValidationError(message string, details []pcerrors.ErrorDetail) error {
	return &pcerrors.ValidationError{APIError: pcerrors.APIError{
		Message: message,
		Details: details,
	}}
}
