// Package postcrawl provides a Go client for the PostCrawl social-media
// search and extraction API.
//
// # Overview
//
// PostCrawl searches Reddit and TikTok and extracts the full content
// behind individual post URLs. This package wraps the three API
// endpoints behind a type-safe client: Search finds posts, Extract
// pulls their content, and SearchAndExtract does both in a single
// round trip.
//
// # Features
//
//   - Bearer authentication with API keys
//   - Automatic retries with exponential backoff, honoring Retry-After
//   - Client-side request throttling
//   - Rate-limit tracking from response headers
//   - Typed, platform-discriminated extraction results
//   - Local parameter validation before any network traffic
//   - Structured logging support via Go's slog package
//
// # Quick Start
//
// Basic setup requires a PostCrawl API key (an "sk_"-prefixed secret):
//
//	client, err := postcrawl.NewClient(&postcrawl.Config{
//		APIKey: os.Getenv("POSTCRAWL_API_KEY"),
//	})
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer client.Close()
//
// A nil Config works too; the key is then read from the
// POSTCRAWL_API_KEY environment variable.
//
// # Common Operations
//
// Search across platforms:
//
//	posts, err := client.Search(ctx, &types.SearchRequest{
//		SocialPlatforms: []types.SocialPlatform{types.PlatformReddit},
//		Query:           "machine learning",
//		Results:         10,
//		Page:            1,
//	})
//
// Extract content from URLs:
//
//	extracted, err := client.Extract(ctx, &types.ExtractRequest{
//		URLs:            []string{"https://reddit.com/r/golang/comments/..."},
//		IncludeComments: true,
//	})
//
// Each extracted entry resolves its platform variant from the source
// discriminator:
//
//	for _, post := range extracted {
//		switch {
//		case post.IsRedditPost():
//			fmt.Println(post.Reddit.Title)
//		case post.IsTiktokPost():
//			fmt.Println(post.Tiktok.Description)
//		}
//	}
//
// # Error Handling
//
// Failures map to distinct error kinds in pkg/errors; branch with
// errors.As rather than matching message text:
//
//	var rateErr *errors.RateLimitError
//	if errors.As(err, &rateErr) {
//		time.Sleep(rateErr.RetryAfter)
//	}
//
// AuthenticationError, InsufficientCreditsError and ValidationError are
// never retried; RateLimitError and NetworkError are retried
// automatically and surface only once the attempt budget is exhausted.
// Per-URL extraction failures are data on the ExtractedPost, not call
// errors.
//
// # Concurrency
//
// A Client is safe for concurrent use. Every operation also has an
// *Async variant returning a channel that delivers exactly one result:
//
//	ch := client.SearchAsync(ctx, req)
//	// ... other work ...
//	result := <-ch
//	if result.Err != nil {
//		log.Fatal(result.Err)
//	}
package postcrawl
