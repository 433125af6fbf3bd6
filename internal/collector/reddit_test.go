package collector

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thalesbertaglia/toxmon/internal/parser"
)

// commentsResponse mirrors the two-listing shape of the Reddit comments
// endpoint: the submission listing, then a comment forest with one nested
// reply, a "more" stub, and an empty-string replies value.
const commentsResponse = `[
  {
    "kind": "Listing",
    "data": {"children": [{"kind": "t3", "data": {"id": "thread1", "title": "t"}}]}
  },
  {
    "kind": "Listing",
    "data": {
      "children": [
        {
          "kind": "t1",
          "data": {
            "id": "c1",
            "body": "root comment",
            "replies": {
              "kind": "Listing",
              "data": {
                "children": [
                  {"kind": "t1", "data": {"id": "c2", "body": "nested", "replies": ""}},
                  {"kind": "more", "data": {"count": 12}}
                ]
              }
            }
          }
        },
        {"kind": "t1", "data": {"id": "c3", "body": "second root", "replies": ""}},
        {"kind": "more", "data": {"count": 3}}
      ]
    }
  }
]`

func TestNormalizeCommentListing(t *testing.T) {
	forest, err := NormalizeCommentListing([]byte(commentsResponse))
	require.NoError(t, err)
	require.Len(t, forest, 2)

	assert.Equal(t, "c1", forest[0]["id"])
	assert.Equal(t, "c3", forest[1]["id"])

	replies, ok := forest[0]["replies"].([]any)
	require.True(t, ok, "replies should always normalize to a list")
	require.Len(t, replies, 1)

	nested := replies[0].(map[string]any)
	assert.Equal(t, "c2", nested["id"])
	assert.Empty(t, nested["replies"].([]any))

	assert.Empty(t, forest[1]["replies"].([]any))
}

func TestNormalizeCommentListing_FeedsTheFlattener(t *testing.T) {
	forest, err := NormalizeCommentListing([]byte(commentsResponse))
	require.NoError(t, err)

	encoded, err := json.Marshal(forest)
	require.NoError(t, err)

	decoded, err := parser.DecodeForest(encoded)
	require.NoError(t, err)

	records := parser.NewCommentTreeFlattener(0).FlattenForest(decoded)
	require.Len(t, records, 3)

	assert.Nil(t, records[0].ParentID)
	require.NotNil(t, records[1].ParentID)
	assert.Equal(t, "c1", *records[1].ParentID)
	assert.Nil(t, records[2].ParentID)
}

func TestNormalizeCommentListing_BadShapes(t *testing.T) {
	_, err := NormalizeCommentListing([]byte(`{"not": "a list"}`))
	assert.Error(t, err)

	_, err = NormalizeCommentListing([]byte(`[{"kind": "Listing", "data": {"children": []}}]`))
	assert.Error(t, err)
}
