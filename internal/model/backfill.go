package model

type BackfillUserRequest struct {
	UserID string `json:"user_id"`
}

type BackfillUserResponse struct {
	Promotions int       `json:"promotions"`
	Stats      UserStats `json:"stats"`
}

type BackfillAllRequest struct {
	Concurrency int `json:"concurrency"`
}

type BackfillAllResponse struct {
	Users int `json:"users"`
}

type RefreshSnapshotsRequest struct {
	UserID string `json:"user_id"`
}

type RefreshSnapshotsResponse struct{}

type VerifyUserRequest struct {
	UserID string `json:"user_id"`
}

type VerifyUserResponse struct{}
