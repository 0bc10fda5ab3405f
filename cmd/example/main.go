// Command example demonstrates the PostCrawl client: a search followed
// by content extraction of the top hits.
//
// Requires POSTCRAWL_API_KEY in the environment or a local .env file.
package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/lmittmann/tint"

	postcrawl "github.com/postcrawl/postcrawl-go"
	"github.com/postcrawl/postcrawl-go/pkg/types"
)

func main() {
	godotenv.Load()

	logger := slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level:      slog.LevelDebug,
		TimeFormat: time.Kitchen,
	}))

	client, err := postcrawl.NewClient(&postcrawl.Config{
		Logger: logger,
	})
	if err != nil {
		log.Fatalf("failed to create client: %v", err)
	}
	defer client.Close()

	ctx := context.Background()

	posts, err := client.Search(ctx, &types.SearchRequest{
		SocialPlatforms: []types.SocialPlatform{types.PlatformReddit, types.PlatformTiktok},
		Query:           "golang",
		Results:         5,
		Page:            1,
	})
	if err != nil {
		log.Fatalf("search failed: %v", err)
	}

	fmt.Printf("Found %d posts:\n", len(posts))
	urls := make([]string, 0, len(posts))
	for _, post := range posts {
		fmt.Printf("- %s\n  %s\n", post.Title, post.URL)
		urls = append(urls, post.URL)
	}

	if rl := client.RateLimit(); rl != nil {
		logger.Info("rate limit", "remaining", rl.Remaining, "limit", rl.Limit)
	}

	if len(urls) == 0 {
		return
	}
	if len(urls) > 2 {
		urls = urls[:2]
	}

	extracted, err := client.Extract(ctx, &types.ExtractRequest{
		URLs:            urls,
		IncludeComments: false,
	})
	if err != nil {
		log.Fatalf("extract failed: %v", err)
	}

	for _, post := range extracted {
		fmt.Printf("\n--- %s (%s) ---\n", post.URL, post.Source)
		switch {
		case post.Status() == types.StatusFailed:
			fmt.Printf("error: %s\n", *post.Error)
		case post.IsRedditPost():
			fmt.Printf("r/%s: %s (score %v)\n",
				post.Reddit.SubredditName, post.Reddit.Title, post.Reddit.Score)
		case post.IsTiktokPost():
			fmt.Printf("@%s: %s (%s likes)\n",
				post.Tiktok.Username, post.Tiktok.Description, post.Tiktok.Likes)
		default:
			fmt.Println("no typed payload")
		}
	}
}
