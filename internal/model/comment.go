package model

type Comment struct {
	ID         string `json:"id"`
	ReviewID   string `json:"review_id"`
	ReviewType string `json:"review_type"`

	UserID          string `json:"user_id"`
	ParentCommentID string `json:"parent_comment_id,omitempty"`
	Depth           int    `json:"depth"`
	Content         string `json:"content"`
	LikesCount      int    `json:"likes_count"`

	CreatedAt string `json:"created_at"`
}

type CreateCommentRequest struct {
	ReviewID   string `json:"review_id"`
	ReviewType string `json:"review_type"`
	Content    string `json:"content"`
}

type CreateCommentResponse struct {
	Comment Comment `json:"comment"`
}

type ReplyCommentRequest struct {
	ParentCommentID string `json:"parent_comment_id" uri:"id"`
	Content         string `json:"content"`
}

type ReplyCommentResponse struct {
	Comment Comment `json:"comment"`
}

type DeleteCommentRequest struct {
	ID string `json:"id" form:"id"`
}

type DeleteCommentResponse struct{}

type GetCommentsRequest struct {
	ReviewID   string `json:"review_id" form:"review_id"`
	ReviewType string `json:"review_type" form:"review_type"`
	Offset     int    `json:"offset" form:"offset"`
	Limit      int    `json:"limit" form:"limit"`
}

type GetCommentsResponse struct {
	Comments []Comment `json:"comments"`
}

type LikeCommentRequest struct {
	CommentID string `json:"comment_id"`
}

type LikeCommentResponse struct{}

type UnlikeCommentRequest struct {
	CommentID string `json:"comment_id" form:"comment_id"`
}

type UnlikeCommentResponse struct{}
