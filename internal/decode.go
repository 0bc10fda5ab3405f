package internal

import (
	"bytes"
	"encoding/json"

	pcerrors "github.com/postcrawl/postcrawl-go/pkg/errors"
	"github.com/postcrawl/postcrawl-go/pkg/types"
)

// Decoder turns successful response bodies into domain objects.
//
// Decoding is per-entry fault-isolated: a malformed element in a batch
// is skipped (or left untyped) without failing the rest. Only a
// structurally invalid envelope is an error, and that error is a
// DecodeError, distinct from the API's own failure responses.
type Decoder struct{}

// NewDecoder creates a new decoder instance.
func NewDecoder() *Decoder {
	return &Decoder{}
}

// DecodeSearchResponse decodes the body of a successful search call.
func (d *Decoder) DecodeSearchResponse(body []byte) ([]types.SocialPost, error) {
	entries, err := splitArray("search", body)
	if err != nil {
		return nil, err
	}

	posts := make([]types.SocialPost, 0, len(entries))
	for _, entry := range entries {
		var post types.SocialPost
		if err := json.Unmarshal(entry, &post); err != nil {
			continue
		}
		posts = append(posts, post)
	}
	return posts, nil
}

// DecodeExtractResponse decodes the body of a successful extract or
// search-and-extract call, resolving each entry's source discriminator
// to the matching platform variant.
func (d *Decoder) DecodeExtractResponse(body []byte) ([]types.ExtractedPost, error) {
	entries, err := splitArray("extract", body)
	if err != nil {
		return nil, err
	}

	posts := make([]types.ExtractedPost, 0, len(entries))
	for _, entry := range entries {
		var post types.ExtractedPost
		if err := json.Unmarshal(entry, &post); err != nil {
			continue
		}
		d.resolvePayload(&post)
		posts = append(posts, post)
	}
	return posts, nil
}

// resolvePayload decodes the raw payload as the variant selected by the
// source discriminator. Entries that failed extraction keep their raw
// bytes untyped; so do payloads with an unrecognized discriminator or a
// shape that doesn't match the variant's schema.
func (d *Decoder) resolvePayload(post *types.ExtractedPost) {
	if len(post.RawJSON) == 0 || isJSONNull(post.RawJSON) {
		post.RawJSON = nil
		return
	}
	if post.Error != nil && *post.Error != "" {
		return
	}

	switch post.Source {
	case types.PlatformReddit:
		var reddit types.RedditPost
		if err := json.Unmarshal(post.RawJSON, &reddit); err == nil && reddit.ID != "" {
			post.Reddit = &reddit
		}
	case types.PlatformTiktok:
		var tiktok types.TiktokPost
		if err := json.Unmarshal(post.RawJSON, &tiktok); err == nil && tiktok.ID != "" {
			post.Tiktok = &tiktok
		}
	}
}

// splitArray validates the envelope shape (a JSON array) and returns
// its elements undecoded.
func splitArray(operation string, body []byte) ([]json.RawMessage, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return nil, &pcerrors.DecodeError{Operation: operation, Message: "empty response body"}
	}
	if trimmed[0] != '[' {
		return nil, &pcerrors.DecodeError{Operation: operation, Message: "response is not a JSON array"}
	}

	var entries []json.RawMessage
	if err := json.Unmarshal(trimmed, &entries); err != nil {
		return nil, &pcerrors.DecodeError{Operation: operation, Message: "malformed response array", Err: err}
	}
	return entries, nil
}

func isJSONNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}
