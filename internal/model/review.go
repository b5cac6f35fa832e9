package model

type Review struct {
	ID       string `json:"id"`
	UserID   string `json:"user_id"`
	TargetID string `json:"target_id"`

	Title      string `json:"title,omitempty"`
	Content    string `json:"content"`
	IsSpoiler  bool   `json:"is_spoiler"`
	LikesCount int    `json:"likes_count"`

	ItemTitle       string `json:"item_title,omitempty"`
	ItemTitleKorean string `json:"item_title_korean,omitempty"`
	ItemImage       string `json:"item_image,omitempty"`

	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

type CreateAnimeReviewRequest struct {
	AnimeID   string `json:"anime_id"`
	Title     string `json:"title"`
	Content   string `json:"content"`
	IsSpoiler bool   `json:"is_spoiler"`

	AnimeTitle       string `json:"anime_title"`
	AnimeTitleKorean string `json:"anime_title_korean"`
	AnimeImage       string `json:"anime_image"`
	AnimeYear        int    `json:"anime_year"`
}

type CreateAnimeReviewResponse struct {
	Review     Review      `json:"review"`
	Promotions []Promotion `json:"promotions,omitempty"`
}

type UpdateAnimeReviewRequest struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Content   string `json:"content"`
	IsSpoiler bool   `json:"is_spoiler"`
}

type UpdateAnimeReviewResponse struct {
	Review Review `json:"review"`
}

type DeleteAnimeReviewRequest struct {
	ID string `json:"id" form:"id"`
}

type DeleteAnimeReviewResponse struct{}

type GetAnimeReviewsRequest struct {
	AnimeID string `json:"anime_id" form:"anime_id"`
	Offset  int    `json:"offset" form:"offset"`
	Limit   int    `json:"limit" form:"limit"`
}

type GetAnimeReviewsResponse struct {
	Reviews []Review `json:"reviews"`
}

type CreateCharacterReviewRequest struct {
	CharacterID string `json:"character_id"`
	Title       string `json:"title"`
	Content     string `json:"content"`
	IsSpoiler   bool   `json:"is_spoiler"`

	CharacterName       string `json:"character_name"`
	CharacterNameKorean string `json:"character_name_korean"`
	CharacterImage      string `json:"character_image"`

	AnimeID          string `json:"anime_id"`
	AnimeTitle       string `json:"anime_title"`
	AnimeTitleKorean string `json:"anime_title_korean"`
	AnimeTitleNative string `json:"anime_title_native"`
}

type CreateCharacterReviewResponse struct {
	Review     Review      `json:"review"`
	Promotions []Promotion `json:"promotions,omitempty"`
}

type UpdateCharacterReviewRequest struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Content   string `json:"content"`
	IsSpoiler bool   `json:"is_spoiler"`
}

type UpdateCharacterReviewResponse struct {
	Review Review `json:"review"`
}

type DeleteCharacterReviewRequest struct {
	ID string `json:"id" form:"id"`
}

type DeleteCharacterReviewResponse struct{}

type GetCharacterReviewsRequest struct {
	CharacterID string `json:"character_id" form:"character_id"`
	Offset      int    `json:"offset" form:"offset"`
	Limit       int    `json:"limit" form:"limit"`
}

type GetCharacterReviewsResponse struct {
	Reviews []Review `json:"reviews"`
}

type LikeReviewRequest struct {
	ReviewID   string `json:"review_id"`
	ReviewType string `json:"review_type"`
}

type LikeReviewResponse struct{}

type UnlikeReviewRequest struct {
	ReviewID   string `json:"review_id" form:"review_id"`
	ReviewType string `json:"review_type" form:"review_type"`
}

type UnlikeReviewResponse struct{}
