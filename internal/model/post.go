package model

type Post struct {
	ID        string `json:"id"`
	UserID    string `json:"user_id"`
	Content   string `json:"content"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

type CreatePostRequest struct {
	Content string `json:"content"`
}

type CreatePostResponse struct {
	Post Post `json:"post"`
}

type UpdatePostRequest struct {
	ID      string `json:"id"`
	Content string `json:"content"`
}

type UpdatePostResponse struct {
	Post Post `json:"post"`
}

type DeletePostRequest struct {
	ID string `json:"id" form:"id"`
}

type DeletePostResponse struct{}

type GetPostsRequest struct {
	UserID string `json:"user_id" form:"user_id"`
	Offset int    `json:"offset" form:"offset"`
	Limit  int    `json:"limit" form:"limit"`
}

type GetPostsResponse struct {
	Posts []Post `json:"posts"`
}
