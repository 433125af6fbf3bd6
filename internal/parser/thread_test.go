package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_FullDocument(t *testing.T) {
	p := NewThreadParser(DefaultOptions())

	doc := Document{
		"name":                    "t3_abc123",
		"subreddit_name_prefixed": "r/golang",
		"subreddit":               map[string]any{"id": "2rc7j"},
		"title":                   "A thread title",
		"author":                  map[string]any{"name": "gopher42"},
		"num_comments":            17,
		"ups":                     120,
		"downs":                   3,
		"upvote_ratio":            0.97,
		"score":                   117,
		"selftext":                "See https://example.com/a and http://foo.bar/b?x=1.",
		"media":                   "None",
		"media_only":              false,
		"created_utc":             1651420800,
	}

	rec, err := p.Parse(doc)
	require.NoError(t, err)

	assert.Equal(t, "t3_abc123", rec.ThreadID)
	assert.Equal(t, "r/golang", rec.SubredditName)
	assert.Equal(t, "2rc7j", rec.SubredditID)
	assert.Equal(t, "A thread title", rec.Title)
	require.NotNil(t, rec.AuthorName)
	assert.Equal(t, "gopher42", *rec.AuthorName)
	assert.Equal(t, 17, rec.NumComments)
	assert.Equal(t, 120, rec.Ups)
	assert.Equal(t, 3, rec.Downs)
	assert.InDelta(t, 0.97, rec.UpvoteRatio, 1e-9)
	assert.Equal(t, 117, rec.Score)
	assert.Equal(t, int64(1651420800), rec.CreatedUTC)
	assert.False(t, rec.MediaOnly)
	assert.Equal(t, "None", rec.Media)
	assert.Equal(t, []string{"https://example.com/a", "http://foo.bar/b?x=1"}, rec.URLs)
	assert.Nil(t, rec.EmbeddedMedia)
}

func TestParse_MissingFieldsUseDefaults(t *testing.T) {
	p := NewThreadParser(DefaultOptions())

	rec, err := p.Parse(Document{})
	require.NoError(t, err)

	assert.Empty(t, rec.ThreadID)
	assert.Empty(t, rec.SubredditID)
	assert.Nil(t, rec.AuthorName)
	assert.Zero(t, rec.Score)
	assert.Zero(t, rec.NumComments)
	assert.Zero(t, rec.Downs)
	assert.Zero(t, rec.UpvoteRatio)
	assert.Zero(t, rec.CreatedUTC)
	assert.False(t, rec.MediaOnly)
	assert.Equal(t, "None", rec.Media)
	assert.Empty(t, rec.URLs)
	assert.Nil(t, rec.EmbeddedMedia)
}

func TestParse_NilDocument(t *testing.T) {
	p := NewThreadParser(DefaultOptions())

	_, err := p.Parse(nil)
	assert.ErrorIs(t, err, ErrNotAnObject)
}

func TestParse_AuthorVariants(t *testing.T) {
	p := NewThreadParser(DefaultOptions())

	tests := []struct {
		name   string
		author any
		want   *string
	}{
		{"deleted sentinel", "None", nil},
		{"absent", nil, nil},
		{"empty string", "", nil},
		{"plain string", "someuser", strPtr("someuser")},
		{"nested object", map[string]any{"name": "nesteduser"}, strPtr("nesteduser")},
		{"nested object without name", map[string]any{"id": "abc"}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := Document{}
			if tt.author != nil {
				doc["author"] = tt.author
			}
			rec, err := p.Parse(doc)
			require.NoError(t, err)
			if tt.want == nil {
				assert.Nil(t, rec.AuthorName)
			} else {
				require.NotNil(t, rec.AuthorName)
				assert.Equal(t, *tt.want, *rec.AuthorName)
			}
		})
	}
}

func TestParse_OptionalFieldsCanBeDisabled(t *testing.T) {
	p := NewThreadParser(Options{})

	doc := Document{
		"subreddit":    map[string]any{"id": "2rc7j"},
		"num_comments": 9,
		"downs":        4,
		"media":        "{'type': 'youtube.com', 'oembed': {'title': 'x', 'html': 'embed/abc'}}",
	}

	rec, err := p.Parse(doc)
	require.NoError(t, err)

	assert.Empty(t, rec.SubredditID)
	assert.Zero(t, rec.NumComments)
	assert.Zero(t, rec.Downs)
	assert.Nil(t, rec.EmbeddedMedia)
}

func TestParse_Idempotent(t *testing.T) {
	p := NewThreadParser(DefaultOptions())

	doc := Document{
		"name":     "t3_xyz",
		"author":   "someuser",
		"selftext": "link: https://www.example.org/page?a=b#frag",
		"score":    5,
	}

	first, err := p.Parse(doc)
	require.NoError(t, err)
	second, err := p.Parse(doc)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestExtractURLs(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			"trailing period excluded",
			"See https://example.com/a and http://foo.bar/b?x=1.",
			[]string{"https://example.com/a", "http://foo.bar/b?x=1"},
		},
		{
			"www prefix and fragment",
			"go to https://www.example.org/p/q?x=1&y=2#sec now",
			[]string{"https://www.example.org/p/q?x=1&y=2#sec"},
		},
		{"empty text", "", nil},
		{"no urls", "nothing to see here", nil},
		{
			"comma after url excluded",
			"first http://a.bc/x, then more",
			[]string{"http://a.bc/x"},
		},
		{"bare scheme ignored", "https:// is not a url", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractURLs(tt.text)
			if tt.want == nil {
				assert.Empty(t, got)
			} else {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestDecodeDocument(t *testing.T) {
	doc, err := DecodeDocument([]byte(`{"name": "t3_a", "score": 3}`))
	require.NoError(t, err)
	assert.Equal(t, "t3_a", doc.stringOr("name", ""))
	assert.Equal(t, 3, doc.intOr("score", 0))

	_, err = DecodeDocument([]byte(`[1, 2, 3]`))
	assert.ErrorIs(t, err, ErrNotAnObject)

	_, err = DecodeDocument([]byte(`not json`))
	assert.ErrorIs(t, err, ErrNotAnObject)
}

func strPtr(s string) *string { return &s }
