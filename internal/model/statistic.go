package model

// Promotion mirrors the metadata blob of a rank_promotion activity. The
// mapstructure tags decode the stored JSON map back into this struct.
type Promotion struct {
	OldRank    string `json:"old_rank" mapstructure:"old_rank"`
	OldLevel   int    `json:"old_level" mapstructure:"old_level"`
	NewRank    string `json:"new_rank" mapstructure:"new_rank"`
	NewLevel   int    `json:"new_level" mapstructure:"new_level"`
	OtakuScore int    `json:"otaku_score" mapstructure:"otaku_score"`
}

type UserStats struct {
	UserID string `json:"user_id"`

	TotalRated            int `json:"total_rated"`
	TotalCharacterRatings int `json:"total_character_ratings"`
	TotalReviews          int `json:"total_reviews"`
	TotalWantToWatch      int `json:"total_want_to_watch"`
	TotalPass             int `json:"total_pass"`

	AverageRating float64 `json:"average_rating"`
	OtakuScore    int     `json:"otaku_score"`

	RankName  string `json:"rank_name"`
	RankLevel int    `json:"rank_level"`

	// NextThreshold is absent at the terminal rank.
	NextThreshold *int `json:"next_threshold,omitempty"`
}

type GetUserStatsRequest struct {
	UserID string `json:"user_id" form:"user_id" uri:"id"`
}

type GetUserStatsResponse struct {
	Stats UserStats `json:"stats"`
}

type LeaderboardEntry struct {
	User       User   `json:"user"`
	OtakuScore int    `json:"otaku_score"`
	RankName   string `json:"rank_name"`
	RankLevel  int    `json:"rank_level"`
	Position   int    `json:"position"`
}

type GetLeaderboardRequest struct {
	Offset int `json:"offset" form:"offset"`
	Limit  int `json:"limit" form:"limit"`
}

type GetLeaderboardResponse struct {
	Entries []LeaderboardEntry `json:"entries"`
}
