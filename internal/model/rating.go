package model

type AnimeRating struct {
	ID      string `json:"id"`
	UserID  string `json:"user_id"`
	AnimeID string `json:"anime_id"`

	Status string   `json:"status"`
	Rating *float64 `json:"rating,omitempty"`

	AnimeTitle       string `json:"anime_title"`
	AnimeTitleKorean string `json:"anime_title_korean,omitempty"`
	AnimeImage       string `json:"anime_image,omitempty"`
	AnimeYear        int    `json:"anime_year,omitempty"`

	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

type CharacterRating struct {
	ID          string `json:"id"`
	UserID      string `json:"user_id"`
	CharacterID string `json:"character_id"`

	Status string   `json:"status"`
	Rating *float64 `json:"rating,omitempty"`

	CharacterName       string `json:"character_name"`
	CharacterNameKorean string `json:"character_name_korean,omitempty"`
	CharacterImage      string `json:"character_image,omitempty"`

	AnimeID          string `json:"anime_id,omitempty"`
	AnimeTitle       string `json:"anime_title,omitempty"`
	AnimeTitleKorean string `json:"anime_title_korean,omitempty"`
	AnimeTitleNative string `json:"anime_title_native,omitempty"`

	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

type UpsertAnimeRatingRequest struct {
	AnimeID string   `json:"anime_id"`
	Status  string   `json:"status"`
	Rating  *float64 `json:"rating"`

	AnimeTitle       string `json:"anime_title"`
	AnimeTitleKorean string `json:"anime_title_korean"`
	AnimeImage       string `json:"anime_image"`
	AnimeYear        int    `json:"anime_year"`
}

type UpsertAnimeRatingResponse struct {
	Rating     AnimeRating `json:"rating"`
	Promotions []Promotion `json:"promotions,omitempty"`
}

type DeleteAnimeRatingRequest struct {
	AnimeID string `json:"anime_id" form:"anime_id"`
}

type DeleteAnimeRatingResponse struct{}

type GetAnimeRatingRequest struct {
	AnimeID string `json:"anime_id" form:"anime_id"`
}

type GetAnimeRatingResponse struct {
	Rating AnimeRating `json:"rating"`
}

type GetAnimeRatingsRequest struct {
	UserID string `json:"user_id" form:"user_id"`
	Offset int    `json:"offset" form:"offset"`
	Limit  int    `json:"limit" form:"limit"`
}

type GetAnimeRatingsResponse struct {
	Ratings []AnimeRating `json:"ratings"`
}

type UpsertCharacterRatingRequest struct {
	CharacterID string   `json:"character_id"`
	Status      string   `json:"status"`
	Rating      *float64 `json:"rating"`

	CharacterName       string `json:"character_name"`
	CharacterNameKorean string `json:"character_name_korean"`
	CharacterImage      string `json:"character_image"`

	AnimeID          string `json:"anime_id"`
	AnimeTitle       string `json:"anime_title"`
	AnimeTitleKorean string `json:"anime_title_korean"`
	AnimeTitleNative string `json:"anime_title_native"`
}

type UpsertCharacterRatingResponse struct {
	Rating     CharacterRating `json:"rating"`
	Promotions []Promotion     `json:"promotions,omitempty"`
}

type DeleteCharacterRatingRequest struct {
	CharacterID string `json:"character_id" form:"character_id"`
}

type DeleteCharacterRatingResponse struct{}

type GetCharacterRatingRequest struct {
	CharacterID string `json:"character_id" form:"character_id"`
}

type GetCharacterRatingResponse struct {
	Rating CharacterRating `json:"rating"`
}

type GetCharacterRatingsRequest struct {
	UserID string `json:"user_id" form:"user_id"`
	Offset int    `json:"offset" form:"offset"`
	Limit  int    `json:"limit" form:"limit"`
}

type GetCharacterRatingsResponse struct {
	Ratings []CharacterRating `json:"ratings"`
}
