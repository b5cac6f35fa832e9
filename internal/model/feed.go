package model

// Activity is one rendered feed item. All fields come from the denormalized
// activity row plus the grouped interaction counts; no field requires a join
// against fact tables.
type Activity struct {
	ID           string `json:"id"`
	ActivityType string `json:"activity_type"`

	UserID      string `json:"user_id"`
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`
	AvatarURL   string `json:"avatar_url,omitempty"`

	ItemID          string `json:"item_id,omitempty"`
	ItemTitle       string `json:"item_title,omitempty"`
	ItemTitleKorean string `json:"item_title_korean,omitempty"`
	ItemImage       string `json:"item_image,omitempty"`
	ItemYear        int    `json:"item_year,omitempty"`

	AnimeID          string `json:"anime_id,omitempty"`
	AnimeTitle       string `json:"anime_title,omitempty"`
	AnimeTitleKorean string `json:"anime_title_korean,omitempty"`
	AnimeTitleNative string `json:"anime_title_native,omitempty"`

	Rating        *float64 `json:"rating,omitempty"`
	ReviewContent string   `json:"review_content,omitempty"`
	PostContent   string   `json:"post_content,omitempty"`

	Promotion *Promotion `json:"promotion,omitempty"`

	ActivityTime string `json:"activity_time"`

	LikesCount    int64 `json:"likes_count"`
	CommentsCount int64 `json:"comments_count"`
	Liked         bool  `json:"liked"`
	Bookmarked    bool  `json:"bookmarked"`
}

type GetFeedRequest struct {
	Types  []string `json:"types" form:"types"`
	Offset int      `json:"offset" form:"offset"`
	Limit  int      `json:"limit" form:"limit"`
}

type GetFeedResponse struct {
	Activities []Activity `json:"activities"`
}

type GetUserFeedRequest struct {
	UserID string   `json:"user_id" form:"user_id" uri:"id"`
	Types  []string `json:"types" form:"types"`
	Offset int      `json:"offset" form:"offset"`
	Limit  int      `json:"limit" form:"limit"`
}

type GetUserFeedResponse struct {
	Activities []Activity `json:"activities"`
}

type GetFollowingFeedRequest struct {
	Types  []string `json:"types" form:"types"`
	Offset int      `json:"offset" form:"offset"`
	Limit  int      `json:"limit" form:"limit"`
}

type GetFollowingFeedResponse struct {
	Activities []Activity `json:"activities"`
}

type LikeActivityRequest struct {
	ActivityID string `json:"activity_id"`
}

type LikeActivityResponse struct{}

type UnlikeActivityRequest struct {
	ActivityID string `json:"activity_id" form:"activity_id"`
}

type UnlikeActivityResponse struct{}

type CreateBookmarkRequest struct {
	ActivityID string `json:"activity_id"`
}

type CreateBookmarkResponse struct{}

type DeleteBookmarkRequest struct {
	ActivityID string `json:"activity_id" form:"activity_id"`
}

type DeleteBookmarkResponse struct{}

type GetBookmarksRequest struct {
	Offset int `json:"offset" form:"offset"`
	Limit  int `json:"limit" form:"limit"`
}

type GetBookmarksResponse struct {
	Activities []Activity `json:"activities"`
}

type ActivityComment struct {
	ID         string `json:"id"`
	ActivityID string `json:"activity_id"`
	UserID     string `json:"user_id"`
	Content    string `json:"content"`
	CreatedAt  string `json:"created_at"`
}

type CreateActivityCommentRequest struct {
	ActivityID string `json:"activity_id"`
	Content    string `json:"content"`
}

type CreateActivityCommentResponse struct {
	Comment ActivityComment `json:"comment"`
}

type DeleteActivityCommentRequest struct {
	ID string `json:"id" form:"id"`
}

type DeleteActivityCommentResponse struct{}

type GetActivityCommentsRequest struct {
	ActivityID string `json:"activity_id" form:"activity_id"`
	Offset     int    `json:"offset" form:"offset"`
	Limit      int    `json:"limit" form:"limit"`
}

type GetActivityCommentsResponse struct {
	Comments []ActivityComment `json:"comments"`
}
