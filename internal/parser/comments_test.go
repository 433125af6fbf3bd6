package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thalesbertaglia/toxmon/internal/models"
)

func comment(id string, replies ...any) Document {
	doc := Document{
		"id":               id,
		"body":             "body of " + id,
		"author":           "author_" + id,
		"created_utc":      1650000000.0,
		"score":            1,
		"is_submitter":     false,
		"link_id":          "t3_root",
		"permalink":        "/r/test/comments/root/" + id,
		"controversiality": 0,
		"gilded":           0,
	}
	if len(replies) > 0 {
		doc["replies"] = replies
	}
	return doc
}

func TestFlatten_SingleComment(t *testing.T) {
	f := NewCommentTreeFlattener(0)

	records := f.Flatten(comment("c1"), nil)
	require.Len(t, records, 1)

	rec := records[0]
	assert.Equal(t, "c1", rec.ID)
	assert.Equal(t, "body of c1", rec.Body)
	require.NotNil(t, rec.AuthorName)
	assert.Equal(t, "author_c1", *rec.AuthorName)
	require.NotNil(t, rec.CreatedUTC)
	assert.InDelta(t, 1650000000.0, *rec.CreatedUTC, 1e-9)
	assert.Equal(t, 1, rec.Score)
	assert.False(t, rec.IsSubmitter)
	assert.Nil(t, rec.ParentID)
	assert.Equal(t, "t3_root", rec.LinkID)
	assert.Equal(t, "/r/test/comments/root/c1", rec.Permalink)
}

func TestFlattenForest_CountAndParentLinkage(t *testing.T) {
	f := NewCommentTreeFlattener(0)

	// c1 -> (c2 -> c4, c3), c5 -> (c6)
	forest := []Document{
		comment("c1",
			comment("c2", comment("c4")),
			comment("c3"),
		),
		comment("c5", comment("c6")),
	}

	records := f.FlattenForest(forest)
	require.Len(t, records, 6)

	wantParents := map[string]*string{
		"c1": nil,
		"c2": strPtr("c1"),
		"c3": strPtr("c1"),
		"c4": strPtr("c2"),
		"c5": nil,
		"c6": strPtr("c5"),
	}

	byID := make(map[string]models.CommentRecord, len(records))
	for _, rec := range records {
		byID[rec.ID] = rec
	}
	require.Len(t, byID, 6)

	for id, want := range wantParents {
		rec, ok := byID[id]
		require.True(t, ok, "missing record for %s", id)
		if want == nil {
			assert.Nil(t, rec.ParentID, "root %s should have no parent", id)
		} else {
			require.NotNil(t, rec.ParentID, "%s should have a parent", id)
			assert.Equal(t, *want, *rec.ParentID)
		}
	}
}

func TestFlattenForest_PreOrder(t *testing.T) {
	f := NewCommentTreeFlattener(0)

	forest := []Document{
		comment("c1",
			comment("c2", comment("c4")),
			comment("c3"),
		),
		comment("c5", comment("c6")),
	}

	records := f.FlattenForest(forest)

	var order []string
	for _, rec := range records {
		order = append(order, rec.ID)
	}
	assert.Equal(t, []string{"c1", "c2", "c4", "c3", "c5", "c6"}, order)
}

func TestFlatten_MissingFieldsUseDefaults(t *testing.T) {
	f := NewCommentTreeFlattener(0)

	records := f.Flatten(Document{}, nil)
	require.Len(t, records, 1)

	rec := records[0]
	assert.Empty(t, rec.ID)
	assert.Empty(t, rec.Body)
	assert.Nil(t, rec.AuthorName)
	assert.Nil(t, rec.CreatedUTC)
	assert.Zero(t, rec.Score)
	assert.False(t, rec.IsSubmitter)
	assert.Zero(t, rec.Controversiality)
	assert.Zero(t, rec.Gilded)
	assert.Nil(t, rec.ParentID)
}

func TestFlatten_DeletedAuthor(t *testing.T) {
	f := NewCommentTreeFlattener(0)

	records := f.Flatten(Document{"id": "c1", "author": "None"}, nil)
	require.Len(t, records, 1)
	assert.Nil(t, records[0].AuthorName)
}

func TestFlatten_RepliesNotAList(t *testing.T) {
	f := NewCommentTreeFlattener(0)

	// The Reddit API encodes "no replies" as an empty string.
	records := f.Flatten(Document{"id": "c1", "replies": ""}, nil)
	assert.Len(t, records, 1)
}

func TestFlatten_NonObjectRepliesSkipped(t *testing.T) {
	f := NewCommentTreeFlattener(0)

	node := comment("c1", map[string]any{"id": "c2"}, "garbage", 42)
	records := f.Flatten(node, nil)
	require.Len(t, records, 2)
	assert.Equal(t, "c2", records[1].ID)
}

func TestFlatten_MaxDepthPrunes(t *testing.T) {
	f := NewCommentTreeFlattener(3)

	chain := comment("d0",
		comment("d1",
			comment("d2",
				comment("d3",
					comment("d4")))))

	records := f.Flatten(chain, nil)

	// Depths 0, 1 and 2 survive; the guard refuses to descend further.
	require.Len(t, records, 3)
	assert.Equal(t, "d2", records[2].ID)
}

func TestFlatten_Idempotent(t *testing.T) {
	f := NewCommentTreeFlattener(0)

	node := comment("c1", comment("c2"), comment("c3"))
	first := f.Flatten(node, nil)
	second := f.Flatten(node, nil)
	assert.Equal(t, first, second)
}

func TestDecodeForest(t *testing.T) {
	forest, err := DecodeForest([]byte(`[{"id": "a"}, {"id": "b", "replies": [{"id": "c"}]}]`))
	require.NoError(t, err)
	require.Len(t, forest, 2)

	f := NewCommentTreeFlattener(0)
	records := f.FlattenForest(forest)
	assert.Len(t, records, 3)

	_, err = DecodeForest([]byte(`{"id": "a"}`))
	assert.ErrorIs(t, err, ErrNotAnObject)
}
