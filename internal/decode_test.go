package internal

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pcerrors "github.com/postcrawl/postcrawl-go/pkg/errors"
	"github.com/postcrawl/postcrawl-go/pkg/types"
)

const searchBody = `[
	{
		"id": "abc123",
		"title": "Understanding Machine Learning Basics",
		"author": "ml_fan",
		"url": "https://www.reddit.com/r/MachineLearning/comments/abc123/understanding_ml_basics/",
		"snippet": "A comprehensive guide to machine learning fundamentals...",
		"date": "Dec 28, 2024",
		"imageUrl": "https://preview.redd.it/ml-basics.jpg",
		"upvotes": 42,
		"comments": 7,
		"socialSource": "reddit"
	},
	{
		"id": "7123456789012345678",
		"title": "AI Revolution in 2024",
		"author": "ai_creator",
		"url": "https://www.tiktok.com/@ai_creator/video/7123456789012345678",
		"snippet": "The rapid advancement of AI technology...",
		"date": "Dec 27, 2024",
		"imageUrl": "",
		"socialSource": "tiktok"
	}
]`

func TestDecodeSearchResponse(t *testing.T) {
	decoder := NewDecoder()

	posts, err := decoder.DecodeSearchResponse([]byte(searchBody))
	require.NoError(t, err)
	require.Len(t, posts, 2)

	first := posts[0]
	assert.Equal(t, "Understanding Machine Learning Basics", first.Title)
	assert.Equal(t, types.PlatformReddit, first.SocialSource)
	// Wire camelCase lands on the normalized Go field.
	assert.Equal(t, "https://preview.redd.it/ml-basics.jpg", first.ImageURL)
	require.NotNil(t, first.Upvotes)
	assert.Equal(t, 42, *first.Upvotes)
	require.NotNil(t, first.Comments)
	assert.Equal(t, 7, *first.Comments)

	second := posts[1]
	assert.Equal(t, types.PlatformTiktok, second.SocialSource)
	// Absent counts stay unset; zero would conflate "no engagement"
	// with "not provided".
	assert.Nil(t, second.Upvotes)
	assert.Nil(t, second.Comments)
}

func TestDecodeSearchResponseStable(t *testing.T) {
	decoder := NewDecoder()

	first, err := decoder.DecodeSearchResponse([]byte(searchBody))
	require.NoError(t, err)
	second, err := decoder.DecodeSearchResponse([]byte(searchBody))
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestDecodeSearchResponseEmpty(t *testing.T) {
	posts, err := NewDecoder().DecodeSearchResponse([]byte(`[]`))
	require.NoError(t, err)
	assert.Empty(t, posts)
}

func TestDecodeSearchResponseFaultIsolation(t *testing.T) {
	body := `[
		"not an object",
		{"id": "ok1", "title": "First", "author": "a", "url": "https://example.com/1"},
		42,
		{"id": "ok2", "title": "Second", "author": "b", "url": "https://example.com/2"}
	]`

	posts, err := NewDecoder().DecodeSearchResponse([]byte(body))
	require.NoError(t, err)
	require.Len(t, posts, 2)
	assert.Equal(t, "ok1", posts[0].ID)
	assert.Equal(t, "ok2", posts[1].ID)
}

func TestDecodeInvalidEnvelope(t *testing.T) {
	decoder := NewDecoder()

	for _, body := range []string{``, `null`, `{"error":"nope"}`, `[{]`} {
		_, err := decoder.DecodeSearchResponse([]byte(body))
		var decodeErr *pcerrors.DecodeError
		require.ErrorAs(t, err, &decodeErr, "body: %q", body)

		_, err = decoder.DecodeExtractResponse([]byte(body))
		require.ErrorAs(t, err, &decodeErr, "body: %q", body)
	}
}

func TestDecodeExtractResponseReddit(t *testing.T) {
	body := `[{
		"url": "https://reddit.com/r/test/123",
		"source": "reddit",
		"raw": {
			"id": "123",
			"name": "t3_123",
			"title": "Test Post",
			"description": "Test description",
			"subredditName": "test",
			"upvotes": 100,
			"downvotes": 10,
			"score": 90,
			"createdAt": "2024-01-01T00:00:00Z",
			"url": "https://reddit.com/r/test/123",
			"comments": [{
				"id": "c1",
				"text": "Test comment",
				"score": 45,
				"parentId": "123",
				"permalink": "/r/test/comments/123/test/c1",
				"replies": []
			}]
		},
		"markdown": null,
		"error": null
	}]`

	posts, err := NewDecoder().DecodeExtractResponse([]byte(body))
	require.NoError(t, err)
	require.Len(t, posts, 1)

	post := posts[0]
	require.True(t, post.IsRedditPost())
	assert.False(t, post.IsTiktokPost())
	assert.Equal(t, types.StatusExtracted, post.Status())

	assert.Equal(t, "Test Post", post.Reddit.Title)
	assert.Equal(t, "test", post.Reddit.SubredditName)
	require.NotNil(t, post.Reddit.Score)
	assert.Equal(t, float64(90), *post.Reddit.Score)
	require.Len(t, post.Reddit.Comments, 1)
	assert.Equal(t, "Test comment", post.Reddit.Comments[0].Text)
}

func TestDecodeExtractResponseTiktok(t *testing.T) {
	body := `[{
		"url": "https://tiktok.com/@user/video/123",
		"source": "tiktok",
		"raw": {
			"id": "123",
			"username": "testuser",
			"description": "Check out this recipe!",
			"hashtags": ["cooking", "recipe"],
			"likes": "1.2M",
			"totalComments": 500,
			"createdAt": "2024-01-01T00:00:00Z",
			"comments": [{
				"id": "c1",
				"username": "commenter1",
				"nickname": "Commenter One",
				"text": "Looks delicious!",
				"avatarUrl": "https://example.com/avatar.jpg",
				"likes": 100,
				"replies": []
			}]
		}
	}]`

	posts, err := NewDecoder().DecodeExtractResponse([]byte(body))
	require.NoError(t, err)
	require.Len(t, posts, 1)

	post := posts[0]
	require.True(t, post.IsTiktokPost())
	assert.False(t, post.IsRedditPost())

	assert.Equal(t, "testuser", post.Tiktok.Username)
	assert.Equal(t, "1.2M", post.Tiktok.Likes)
	require.NotNil(t, post.Tiktok.TotalComments)
	assert.Equal(t, float64(500), *post.Tiktok.TotalComments)
	assert.Contains(t, post.Tiktok.Hashtags, "cooking")
	require.Len(t, post.Tiktok.Comments, 1)
	assert.Equal(t, "https://example.com/avatar.jpg", post.Tiktok.Comments[0].AvatarURL)
}

func TestDecodeExtractUnknownDiscriminator(t *testing.T) {
	body := `[{
		"url": "https://example.com/post",
		"source": "myspace",
		"raw": {"id": "123", "title": "Hello"}
	}]`

	posts, err := NewDecoder().DecodeExtractResponse([]byte(body))
	require.NoError(t, err)
	require.Len(t, posts, 1)

	post := posts[0]
	assert.False(t, post.IsRedditPost())
	assert.False(t, post.IsTiktokPost())
	// The raw bytes survive even though no variant matched.
	assert.NotEmpty(t, post.RawJSON)
}

func TestDecodeExtractPayloadSchemaMismatch(t *testing.T) {
	body := `[{
		"url": "https://reddit.com/r/test/123",
		"source": "reddit",
		"raw": {"invalid_field": "does not match the schema"}
	}]`

	posts, err := NewDecoder().DecodeExtractResponse([]byte(body))
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.False(t, posts[0].IsRedditPost())
	assert.NotEmpty(t, posts[0].RawJSON)
}

func TestDecodeExtractErrorEntryNotTyped(t *testing.T) {
	body := `[{
		"url": "https://reddit.com/r/test/123",
		"source": "reddit",
		"raw": {"id": "123", "title": "Test"},
		"error": "Failed to extract"
	}]`

	posts, err := NewDecoder().DecodeExtractResponse([]byte(body))
	require.NoError(t, err)
	require.Len(t, posts, 1)

	post := posts[0]
	// Error is authoritative: raw bytes present, but the entry failed.
	assert.False(t, post.IsRedditPost())
	assert.Equal(t, types.StatusFailed, post.Status())
	require.NotNil(t, post.Error)
	assert.Equal(t, "Failed to extract", *post.Error)
}

func TestDecodeExtractPendingEntry(t *testing.T) {
	body := `[{
		"url": "https://reddit.com/r/test/123",
		"source": "reddit",
		"raw": null,
		"markdown": null,
		"error": null
	}]`

	posts, err := NewDecoder().DecodeExtractResponse([]byte(body))
	require.NoError(t, err)
	require.Len(t, posts, 1)

	post := posts[0]
	assert.Equal(t, types.StatusPending, post.Status())
	assert.Nil(t, post.RawJSON)
	assert.Nil(t, post.Error)
}

func TestDecodeExtractMarkdownMode(t *testing.T) {
	body := `[{
		"url": "https://www.reddit.com/r/Python/comments/1ab2c3d/test_post/",
		"source": "reddit",
		"raw": null,
		"markdown": "# Test Post Title\n\nThis is the post content.",
		"error": null
	}]`

	posts, err := NewDecoder().DecodeExtractResponse([]byte(body))
	require.NoError(t, err)
	require.Len(t, posts, 1)

	post := posts[0]
	require.NotNil(t, post.Markdown)
	assert.Equal(t, "# Test Post Title\n\nThis is the post content.", *post.Markdown)
	assert.Equal(t, types.StatusExtracted, post.Status())
}

func TestDecodeExtractMixedBatch(t *testing.T) {
	body := `[
		{"url": "https://reddit.com/ok", "source": "reddit",
		 "raw": {"id": "1", "title": "ok"}},
		{"url": "https://invalid.url/post", "source": "reddit",
		 "raw": null, "error": "Failed to extract content: Invalid URL"},
		"garbage entry",
		{"url": "https://tiktok.com/@u/video/2", "source": "tiktok",
		 "raw": {"id": "2", "username": "u"}}
	]`

	posts, err := NewDecoder().DecodeExtractResponse([]byte(body))
	require.NoError(t, err)
	require.Len(t, posts, 3)

	assert.True(t, posts[0].IsRedditPost())
	assert.Equal(t, types.StatusFailed, posts[1].Status())
	assert.True(t, posts[2].IsTiktokPost())
}

func TestSocialPostRoundTrip(t *testing.T) {
	original := []byte(`{
		"id": "abc123",
		"title": "Round Trip",
		"author": "tester",
		"url": "https://example.com/post",
		"snippet": "snippet text",
		"imageUrl": "https://example.com/img.jpg",
		"upvotes": 0,
		"socialSource": "reddit"
	}`)

	var post types.SocialPost
	require.NoError(t, json.Unmarshal(original, &post))
	// Present-but-zero survives as an explicit zero, not as unset.
	require.NotNil(t, post.Upvotes)
	assert.Equal(t, 0, *post.Upvotes)

	encoded, err := json.Marshal(post)
	require.NoError(t, err)

	var want, got map[string]any
	require.NoError(t, json.Unmarshal(original, &want))
	require.NoError(t, json.Unmarshal(encoded, &got))
	assert.Equal(t, want, got)
}
