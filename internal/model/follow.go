package model

type FollowRequest struct {
	UserID string `json:"user_id" uri:"user_id"`
}

type FollowResponse struct{}

type UnfollowRequest struct {
	UserID string `json:"user_id" uri:"user_id"`
}

type UnfollowResponse struct{}

type IsFollowingRequest struct {
	UserID string `json:"user_id" form:"user_id" uri:"user_id"`
}

type IsFollowingResponse struct {
	IsFollowing bool `json:"is_following"`
}

type GetFollowersRequest struct {
	UserID string `json:"user_id" form:"user_id" uri:"user_id"`
	Offset int    `json:"offset" form:"offset"`
	Limit  int    `json:"limit" form:"limit"`
}

type GetFollowersResponse struct {
	Users []User `json:"users"`
}

type GetFollowingRequest struct {
	UserID string `json:"user_id" form:"user_id" uri:"user_id"`
	Offset int    `json:"offset" form:"offset"`
	Limit  int    `json:"limit" form:"limit"`
}

type GetFollowingResponse struct {
	Users []User `json:"users"`
}

type GetFollowCountsRequest struct {
	UserID string `json:"user_id" form:"user_id" uri:"user_id"`
}

type GetFollowCountsResponse struct {
	Followers int64 `json:"followers"`
	Following int64 `json:"following"`
}
