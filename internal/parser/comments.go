package parser

import (
	"log/slog"

	"github.com/thalesbertaglia/toxmon/internal/models"
)

// DefaultMaxDepth bounds recursion into reply trees. The Reddit API produces
// acyclic trees, but the input is untrusted JSON so the flattener refuses to
// descend without limit.
const DefaultMaxDepth = 128

// CommentTreeFlattener walks a nested reply structure depth-first and emits
// one flat record per comment in pre-order: each node before its children,
// siblings in source order. It is stateless and safe for concurrent use.
type CommentTreeFlattener struct {
	maxDepth int
}

// NewCommentTreeFlattener returns a flattener with the given recursion bound;
// maxDepth <= 0 selects DefaultMaxDepth.
func NewCommentTreeFlattener(maxDepth int) *CommentTreeFlattener {
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	return &CommentTreeFlattener{maxDepth: maxDepth}
}

// FlattenForest flattens every root comment of a forest and concatenates the
// results in forest order. A forest of N total nodes yields exactly N records.
func (f *CommentTreeFlattener) FlattenForest(forest []Document) []models.CommentRecord {
	var records []models.CommentRecord
	for _, root := range forest {
		records = append(records, f.Flatten(root, nil)...)
	}
	return records
}

// Flatten flattens a single comment subtree. parentID is nil only at the
// top-level invocation; recursive calls receive the enclosing comment's ID so
// the parent linkage reconstructs the source tree exactly.
func (f *CommentTreeFlattener) Flatten(node Document, parentID *string) []models.CommentRecord {
	return f.flatten(node, parentID, 0)
}

func (f *CommentTreeFlattener) flatten(node Document, parentID *string, depth int) []models.CommentRecord {
	if node == nil {
		return nil
	}

	rec := models.CommentRecord{
		ID:               node.stringOr("id", ""),
		Body:             node.stringOr("body", ""),
		AuthorName:       authorName(node["author"]),
		CreatedUTC:       node.optionalFloat("created_utc"),
		Score:            node.intOr("score", 0),
		IsSubmitter:      node.boolOr("is_submitter", false),
		ParentID:         parentID,
		LinkID:           node.stringOr("link_id", ""),
		Permalink:        node.stringOr("permalink", ""),
		Controversiality: node.intOr("controversiality", 0),
		Gilded:           node.intOr("gilded", 0),
	}

	records := []models.CommentRecord{rec}

	replies := node.list("replies")
	if len(replies) == 0 {
		return records
	}

	if depth+1 >= f.maxDepth {
		slog.Warn("[CommentTreeFlattener] Max reply depth reached, pruning subtree",
			slog.String("comment_id", rec.ID),
			slog.Int("max_depth", f.maxDepth))
		return records
	}

	var childParent *string
	if rec.ID != "" {
		id := rec.ID
		childParent = &id
	}

	for _, raw := range replies {
		var child Document
		switch v := raw.(type) {
		case map[string]any:
			child = Document(v)
		case Document:
			child = v
		default:
			continue
		}
		records = append(records, f.flatten(child, childParent, depth+1)...)
	}

	return records
}
