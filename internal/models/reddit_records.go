package models

// ThreadRecord is the flat, tabular representation of a single Reddit
// submission. Nullable fields use pointers; counts and flags always carry a
// concrete zero value when the source document omits them.
type ThreadRecord struct {
	ThreadID      string   `json:"thread_name" dynamodbav:"thread_name"`
	SubredditName string   `json:"subreddit_name" dynamodbav:"subreddit_name"`
	SubredditID   string   `json:"subreddit_id,omitempty" dynamodbav:"subreddit_id,omitempty"`
	Title         string   `json:"title" dynamodbav:"title"`
	AuthorName    *string  `json:"author_name" dynamodbav:"author_name"`
	NumComments   int      `json:"num_comments" dynamodbav:"num_comments"`
	Ups           int      `json:"ups" dynamodbav:"ups"`
	Downs         int      `json:"downs" dynamodbav:"downs"`
	UpvoteRatio   float64  `json:"upvote_ratio" dynamodbav:"upvote_ratio"`
	Score         int      `json:"score" dynamodbav:"score"`
	Selftext      string   `json:"selftext" dynamodbav:"selftext"`
	Media         string   `json:"media" dynamodbav:"media"`
	MediaOnly     bool     `json:"media_only" dynamodbav:"media_only"`
	CreatedUTC    int64    `json:"created_utc" dynamodbav:"created_utc"`
	URLs          []string `json:"urls" dynamodbav:"urls"`

	// EmbeddedMedia is populated only when the submission embeds a recognized
	// external video. It is always present as a whole or absent as a whole.
	EmbeddedMedia *EmbeddedMedia `json:"embedded_media,omitempty" dynamodbav:"embedded_media,omitempty"`
}

// EmbeddedMedia describes an externally hosted video referenced by a
// submission. Individual fields missing from the source oembed block carry
// the "None" sentinel rather than an empty string, matching the raw archive.
type EmbeddedMedia struct {
	AuthorName string `json:"media_author_name" dynamodbav:"media_author_name"`
	AuthorURL  string `json:"media_author_url" dynamodbav:"media_author_url"`
	VideoTitle string `json:"video_title" dynamodbav:"video_title"`
	VideoID    string `json:"video_id" dynamodbav:"video_id"`
}

// CommentRecord is one flattened node of a submission's comment tree.
// ParentID is nil for top-level comments and otherwise equals the ID of the
// comment's direct parent in the source tree.
type CommentRecord struct {
	ID               string   `json:"id" dynamodbav:"id"`
	Body             string   `json:"body" dynamodbav:"body"`
	AuthorName       *string  `json:"author_name" dynamodbav:"author_name"`
	CreatedUTC       *float64 `json:"created_utc" dynamodbav:"created_utc"`
	Score            int      `json:"score" dynamodbav:"score"`
	IsSubmitter      bool     `json:"is_submitter" dynamodbav:"is_submitter"`
	ParentID         *string  `json:"parent_id" dynamodbav:"parent_id"`
	LinkID           string   `json:"link_id" dynamodbav:"link_id"`
	Permalink        string   `json:"permalink" dynamodbav:"permalink"`
	Controversiality int      `json:"controversiality" dynamodbav:"controversiality"`
	Gilded           int      `json:"gilded" dynamodbav:"gilded"`
}
