package parser

import (
	"encoding/json"
	"regexp"

	"github.com/thalesbertaglia/toxmon/internal/models"
)

// urlPattern matches http/https URLs with an optional www. prefix and a
// dot-delimited host. The final character class excludes sentence punctuation
// so a trailing period or comma is not swallowed into the match.
var urlPattern = regexp.MustCompile(
	`https?://(?:www\.)?[\w\-]+(?:\.[\w\-]+)+[\w.,@?^=%&:/~+#\-]*[\w@?^=%&/~+#\-]`,
)

// Options select which optional thread fields get populated. The raw archive
// revisions disagree on the field set; the most complete one is the default.
type Options struct {
	IncludeSubredditID  bool
	IncludeNumComments  bool
	IncludeDowns        bool
	ExpandEmbeddedMedia bool
}

func DefaultOptions() Options {
	return Options{
		IncludeSubredditID:  true,
		IncludeNumComments:  true,
		IncludeDowns:        true,
		ExpandEmbeddedMedia: true,
	}
}

// ThreadParser extracts a flat ThreadRecord from a submission document.
// It holds no mutable state and is safe for concurrent use.
type ThreadParser struct {
	opts Options
}

func NewThreadParser(opts Options) *ThreadParser {
	return &ThreadParser{opts: opts}
}

// Parse builds a ThreadRecord from a submission document. Every field has an
// explicit default, so an arbitrarily sparse document still yields a
// well-formed record. The only error is a nil document, which is caller
// misuse rather than data variance.
func (p *ThreadParser) Parse(doc Document) (models.ThreadRecord, error) {
	if doc == nil {
		return models.ThreadRecord{}, ErrNotAnObject
	}

	selftext := doc.stringOr("selftext", "")

	rec := models.ThreadRecord{
		ThreadID:      doc.stringOr("name", ""),
		SubredditName: doc.stringOr("subreddit_name_prefixed", ""),
		Title:         doc.stringOr("title", ""),
		AuthorName:    authorName(doc["author"]),
		Ups:           doc.intOr("ups", 0),
		UpvoteRatio:   doc.floatOr("upvote_ratio", 0),
		Score:         doc.intOr("score", 0),
		Selftext:      selftext,
		Media:         rawMediaString(doc["media"]),
		MediaOnly:     doc.boolOr("media_only", false),
		CreatedUTC:    doc.int64Or("created_utc", 0),
		URLs:          ExtractURLs(selftext),
	}

	if p.opts.IncludeSubredditID {
		rec.SubredditID = doc.child("subreddit").stringOr("id", "")
	}
	if p.opts.IncludeNumComments {
		rec.NumComments = doc.intOr("num_comments", 0)
	}
	if p.opts.IncludeDowns {
		rec.Downs = doc.intOr("downs", 0)
	}
	if p.opts.ExpandEmbeddedMedia {
		rec.EmbeddedMedia = ExtractEmbeddedMedia(doc["media"])
	}

	return rec, nil
}

// ExtractURLs returns every non-overlapping URL in text, in order of first
// occurrence. Empty text yields no matches.
func ExtractURLs(text string) []string {
	if text == "" {
		return nil
	}
	return urlPattern.FindAllString(text, -1)
}

// authorName resolves the author field, which the archive stores either as a
// nested object with a name, as a plain display-name string, or as the "None"
// sentinel for deleted accounts. Deleted or absent authors map to nil.
func authorName(v any) *string {
	switch a := v.(type) {
	case map[string]any:
		if name, ok := a["name"].(string); ok && name != "" {
			return &name
		}
	case string:
		if a != "" && a != noneSentinel {
			return &a
		}
	}
	return nil
}

// rawMediaString preserves the media descriptor exactly as archived. Older
// archives carry it as serialized text, newer ones as a nested object; the
// record keeps a textual form either way.
func rawMediaString(v any) string {
	switch m := v.(type) {
	case nil:
		return noneSentinel
	case string:
		return m
	default:
		b, err := json.Marshal(m)
		if err != nil {
			return noneSentinel
		}
		return string(b)
	}
}
