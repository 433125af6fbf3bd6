package models

// ChannelRecord is the flat representation of a YouTube channel.
type ChannelRecord struct {
	ID              string `json:"id" dynamodbav:"id"`
	Title           string `json:"title" dynamodbav:"title"`
	Description     string `json:"description" dynamodbav:"description"`
	Country         string `json:"country" dynamodbav:"country"`
	PublishedAt     string `json:"published_at" dynamodbav:"published_at"`
	ViewCount       uint64 `json:"view_count" dynamodbav:"view_count"`
	SubscriberCount uint64 `json:"sub_count" dynamodbav:"sub_count"`
	VideoCount      uint64 `json:"video_count" dynamodbav:"video_count"`
	TopicCategories string `json:"topic_categories" dynamodbav:"topic_categories"`
	MadeForKids     bool   `json:"made_for_kids" dynamodbav:"made_for_kids"`
	Keywords        string `json:"keywords" dynamodbav:"keywords"`
}

// VideoRecord is the flat representation of a single video's metadata and
// statistics.
type VideoRecord struct {
	VideoID         string `json:"video_id" dynamodbav:"video_id"`
	Title           string `json:"title" dynamodbav:"title"`
	Description     string `json:"description" dynamodbav:"description"`
	Tags            string `json:"tags" dynamodbav:"tags"`
	CategoryID      string `json:"category_id" dynamodbav:"category_id"`
	PublishedAt     string `json:"published_at" dynamodbav:"published_at"`
	Duration        string `json:"duration" dynamodbav:"duration"`
	MadeForKids     bool   `json:"made_for_kids" dynamodbav:"made_for_kids"`
	Channel         string `json:"channel" dynamodbav:"channel"`
	ViewCount       uint64 `json:"view_count" dynamodbav:"view_count"`
	LikeCount       uint64 `json:"like_count" dynamodbav:"like_count"`
	DislikeCount    uint64 `json:"dislike_count" dynamodbav:"dislike_count"`
	FavoriteCount   uint64 `json:"favourite_count" dynamodbav:"favourite_count"`
	CommentCount    uint64 `json:"comment_count" dynamodbav:"comment_count"`
	TopicCategories string `json:"topic_categories" dynamodbav:"topic_categories"`
}

// VideoCommentRecord is one flattened top-level comment thread on a video.
type VideoCommentRecord struct {
	ID          string `json:"id" dynamodbav:"id"`
	Text        string `json:"text" dynamodbav:"text"`
	AuthorName  string `json:"author_name" dynamodbav:"author_name"`
	AuthorID    string `json:"author_id" dynamodbav:"author_id"`
	LikeCount   int64  `json:"like_count" dynamodbav:"like_count"`
	PublishedAt string `json:"published_at" dynamodbav:"published_at"`
	UpdatedAt   string `json:"updated_at" dynamodbav:"updated_at"`
	ReplyCount  int64  `json:"reply_count" dynamodbav:"reply_count"`
	VideoID     string `json:"video_id" dynamodbav:"video_id"`
	ChannelID   string `json:"channel_id" dynamodbav:"channel_id"`
}
