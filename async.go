package postcrawl

import (
	"context"

	"github.com/postcrawl/postcrawl-go/pkg/types"
)

// AsyncResult carries the outcome of a non-blocking call: the decoded
// value or the error, never both.
type AsyncResult[T any] struct {
	Value T
	Err   error
}

// SearchAsync runs Search in its own goroutine and returns a channel
// that delivers exactly one result before closing. The context bounds
// the whole operation including retries; cancelling it makes the
// result arrive early with the cancellation error.
func (c *Client) SearchAsync(ctx context.Context, req *types.SearchRequest) <-chan AsyncResult[[]types.SocialPost] {
	ch := make(chan AsyncResult[[]types.SocialPost], 1)
	go func() {
		defer close(ch)
		posts, err := c.Search(ctx, req)
		ch <- AsyncResult[[]types.SocialPost]{Value: posts, Err: err}
	}()
	return ch
}

// ExtractAsync runs Extract in its own goroutine; see SearchAsync for
// the delivery contract.
func (c *Client) ExtractAsync(ctx context.Context, req *types.ExtractRequest) <-chan AsyncResult[[]types.ExtractedPost] {
	ch := make(chan AsyncResult[[]types.ExtractedPost], 1)
	go func() {
		defer close(ch)
		posts, err := c.Extract(ctx, req)
		ch <- AsyncResult[[]types.ExtractedPost]{Value: posts, Err: err}
	}()
	return ch
}

// SearchAndExtractAsync runs SearchAndExtract in its own goroutine; see
// SearchAsync for the delivery contract.
func (c *Client) SearchAndExtractAsync(ctx context.Context, req *types.SearchAndExtractRequest) <-chan AsyncResult[[]types.ExtractedPost] {
	ch := make(chan AsyncResult[[]types.ExtractedPost], 1)
	go func() {
		defer close(ch)
		posts, err := c.SearchAndExtract(ctx, req)
		ch <- AsyncResult[[]types.ExtractedPost]{Value: posts, Err: err}
	}()
	return ch
}
