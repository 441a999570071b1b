package domain

// Post is authored content, keyed by a generated postId. Author display
// fields are never stored; they are joined from Profiles at read time.
type Post struct {
	PostID    string   `dynamodbav:"postId" json:"postId"`
	UserID    string   `dynamodbav:"userId" json:"userId"`
	Title     string   `dynamodbav:"title" json:"title"`
	Content   string   `dynamodbav:"content" json:"content"`
	Tags      []string `dynamodbav:"tags" json:"tags"`
	LikeCount int      `dynamodbav:"likeCount" json:"likeCount"`
	CreatedAt string   `dynamodbav:"createdAt" json:"createdAt"`
	UpdatedAt string   `dynamodbav:"updatedAt" json:"updatedAt"`
}

// EnrichedPost is a Post plus the author display data computed for the
// feed. CommentCount is always 0: no comment entity is persisted.
type EnrichedPost struct {
	Post
	AuthorID             string `json:"authorId"`
	AuthorName           string `json:"authorName"`
	AuthorProfilePicture string `json:"authorProfilePicture"`
	CommentCount         int    `json:"commentCount"`
}
