package types

import "encoding/json"

// SocialPlatform identifies one of the social networks PostCrawl can
// search and extract from. The set is closed; the API rejects anything
// else.
type SocialPlatform string

const (
	PlatformReddit SocialPlatform = "reddit"
	PlatformTiktok SocialPlatform = "tiktok"
)

// Valid reports whether the platform is one of the supported values.
func (p SocialPlatform) Valid() bool {
	return p == PlatformReddit || p == PlatformTiktok
}

// ResponseMode controls the shape of extracted content.
// "raw" returns the structured platform payload, "markdown" returns a
// rendered markdown document instead.
type ResponseMode string

const (
	ResponseModeRaw      ResponseMode = "raw"
	ResponseModeMarkdown ResponseMode = "markdown"
)

// SearchRequest describes a call to the search endpoint.
// Request bodies use the API's snake_case naming.
type SearchRequest struct {
	// SocialPlatforms lists the platforms to search. Must be non-empty.
	SocialPlatforms []SocialPlatform `json:"social_platforms"`

	// Query is the search text. Must be non-empty after trimming.
	Query string `json:"query"`

	// Results is the number of results to return, 1 to 100 inclusive.
	Results int `json:"results"`

	// Page is the 1-based result page.
	Page int `json:"page"`
}

// ExtractRequest describes a call to the extract endpoint.
type ExtractRequest struct {
	// URLs to extract content from. Must be non-empty; entries that are
	// not absolute http(s) URLs are dropped before the request is sent.
	URLs []string `json:"urls"`

	// IncludeComments requests comment trees alongside each post.
	IncludeComments bool `json:"include_comments"`

	// ResponseMode selects raw or markdown output. Empty means the
	// server default (raw).
	ResponseMode ResponseMode `json:"response_mode,omitempty"`

	// CommentFilter trims the returned comment trees server-side.
	// Only meaningful when IncludeComments is set.
	CommentFilter *CommentFilterConfig `json:"comment_filter_config,omitempty"`
}

// SearchAndExtractRequest describes a call to the combined
// search-and-extract endpoint. The server runs the search and feeds the
// resulting URLs into extraction in a single round trip.
type SearchAndExtractRequest struct {
	SocialPlatforms []SocialPlatform     `json:"social_platforms"`
	Query           string               `json:"query"`
	Results         int                  `json:"results"`
	Page            int                  `json:"page"`
	IncludeComments bool                 `json:"include_comments"`
	ResponseMode    ResponseMode         `json:"response_mode,omitempty"`
	CommentFilter   *CommentFilterConfig `json:"comment_filter_config,omitempty"`
}

// CommentFilterConfig tunes server-side comment tree pruning.
// Zero-valued fields are omitted from the request body so the server
// applies its own defaults.
type CommentFilterConfig struct {
	// MinScore drops comments scoring below the threshold.
	MinScore *int `json:"min_score,omitempty"`

	// MaxDepth truncates reply chains deeper than this.
	MaxDepth *int `json:"max_depth,omitempty"`

	// TierLimits caps the number of comments kept per depth tier,
	// keyed by the tier's depth as a decimal string.
	TierLimits map[string]int `json:"tier_limits,omitempty"`

	// PreserveHighQualityThreads keeps whole threads whose root scores
	// well even when descendants fall under MinScore.
	PreserveHighQualityThreads *bool `json:"preserve_high_quality_threads,omitempty"`
}

// SocialPost is a platform-agnostic search hit.
//
// Engagement counts are pointers so that "field not provided" stays
// distinct from "zero engagement"; upvotes in particular carry no
// meaning for TikTok results and arrive null there.
type SocialPost struct {
	ID           string         `json:"id"`
	Title        string         `json:"title"`
	Author       string         `json:"author"`
	URL          string         `json:"url"`
	Snippet      string         `json:"snippet,omitempty"`
	Date         string         `json:"date,omitempty"`
	ImageURL     string         `json:"imageUrl,omitempty"`
	Upvotes      *int           `json:"upvotes,omitempty"`
	Comments     *int           `json:"comments,omitempty"`
	CreatedAt    string         `json:"createdAt,omitempty"`
	SocialSource SocialPlatform `json:"socialSource,omitempty"`
}

// RedditPost is the raw payload for content extracted from Reddit.
// Wire field names use the API's camelCase convention; the json tags
// are the single mapping between wire and Go names.
type RedditPost struct {
	ID            string          `json:"id"`
	Name          string          `json:"name,omitempty"`
	Title         string          `json:"title"`
	URL           string          `json:"url,omitempty"`
	Description   string          `json:"description,omitempty"`
	SubredditName string          `json:"subredditName,omitempty"`
	Upvotes       *float64        `json:"upvotes,omitempty"`
	Downvotes     *float64        `json:"downvotes,omitempty"`
	Score         *float64        `json:"score,omitempty"`
	CreatedAt     string          `json:"createdAt,omitempty"`
	Comments      []RedditComment `json:"comments,omitempty"`
}

// RedditComment is a single comment within a Reddit comment tree.
type RedditComment struct {
	ID        string          `json:"id"`
	Text      string          `json:"text"`
	Upvotes   *float64        `json:"upvotes,omitempty"`
	Downvotes *float64        `json:"downvotes,omitempty"`
	Score     *float64        `json:"score,omitempty"`
	CreatedAt string          `json:"createdAt,omitempty"`
	ParentID  string          `json:"parentId,omitempty"`
	Permalink string          `json:"permalink,omitempty"`
	Replies   []RedditComment `json:"replies,omitempty"`
}

// TiktokPost is the raw payload for content extracted from TikTok.
// Likes carries TikTok's display string (e.g. "1.2M"), not a number.
type TiktokPost struct {
	ID            string          `json:"id"`
	Username      string          `json:"username"`
	URL           string          `json:"url,omitempty"`
	Title         string          `json:"title,omitempty"`
	Description   string          `json:"description,omitempty"`
	CreatedAt     string          `json:"createdAt,omitempty"`
	Hashtags      []string        `json:"hashtags,omitempty"`
	Likes         string          `json:"likes,omitempty"`
	TotalComments *float64        `json:"totalComments,omitempty"`
	Comments      []TiktokComment `json:"comments,omitempty"`
}

// TiktokComment is a single comment on a TikTok post.
type TiktokComment struct {
	ID        string          `json:"id"`
	Username  string          `json:"username,omitempty"`
	Nickname  string          `json:"nickname,omitempty"`
	Text      string          `json:"text"`
	CreatedAt string          `json:"createdAt,omitempty"`
	AvatarURL string          `json:"avatarUrl,omitempty"`
	Likes     *float64        `json:"likes,omitempty"`
	Replies   []TiktokComment `json:"replies,omitempty"`
}

// ExtractionStatus reports the outcome of extracting a single URL.
type ExtractionStatus int

const (
	// StatusPending means neither content nor an error arrived yet.
	StatusPending ExtractionStatus = iota
	// StatusExtracted means content was extracted successfully.
	StatusExtracted
	// StatusFailed means extraction failed; Error holds the reason.
	StatusFailed
)

// ExtractedPost is the result of content extraction for one input URL.
//
// At most one of the typed payload pointers is set: the Source
// discriminator selects which variant the payload decodes as. RawJSON
// preserves the payload bytes as received, including payloads with an
// unrecognized shape, so nothing is lost when typing fails.
type ExtractedPost struct {
	// URL is the original input URL.
	URL string `json:"url"`

	// Source is the platform discriminator ("reddit" or "tiktok").
	Source SocialPlatform `json:"source"`

	// Reddit is set when Source is reddit and the payload decoded.
	Reddit *RedditPost `json:"-"`

	// Tiktok is set when Source is tiktok and the payload decoded.
	Tiktok *TiktokPost `json:"-"`

	// RawJSON is the raw payload exactly as received, nil when absent.
	RawJSON json.RawMessage `json:"raw,omitempty"`

	// Markdown is the rendered content when markdown mode was requested.
	Markdown *string `json:"markdown,omitempty"`

	// Error is the per-URL failure reason. Failures here are data, not
	// exceptions: one failed URL does not fail the batch.
	Error *string `json:"error,omitempty"`
}

// IsRedditPost reports whether the entry carries a typed Reddit payload.
func (p *ExtractedPost) IsRedditPost() bool {
	return p.Source == PlatformReddit && p.Reddit != nil
}

// IsTiktokPost reports whether the entry carries a typed TikTok payload.
func (p *ExtractedPost) IsTiktokPost() bool {
	return p.Source == PlatformTiktok && p.Tiktok != nil
}

// Status resolves the entry's outcome. An error is authoritative even
// when payload bytes are also present; both absent means the entry is
// still pending and callers should not infer success or failure.
func (p *ExtractedPost) Status() ExtractionStatus {
	if p.Error != nil && *p.Error != "" {
		return StatusFailed
	}
	if len(p.RawJSON) > 0 || p.Markdown != nil {
		return StatusExtracted
	}
	return StatusPending
}

// RateLimitInfo is the most recently observed rate-limit snapshot,
// taken from response headers. It is overwritten whole on every call;
// under concurrent calls it reflects the last response processed, not
// any particular one.
type RateLimitInfo struct {
	// Limit is the total request budget for the current window.
	Limit int
	// Remaining is the budget left in the current window.
	Remaining int
	// Reset is the window end as Unix epoch seconds.
	Reset int64
}
