package entity

import (
	"database/sql"

	"github.com/otakuhub/backend/pkg/enum"
)

type AnimeRatingStatus string

var (
	AnimeRated       = enum.New(AnimeRatingStatus("RATED"))
	AnimeWantToWatch = enum.New(AnimeRatingStatus("WANT_TO_WATCH"))
	AnimePass        = enum.New(AnimeRatingStatus("PASS"))
)

type CharacterRatingStatus string

var (
	CharacterRated         = enum.New(CharacterRatingStatus("RATED"))
	CharacterWantToKnow    = enum.New(CharacterRatingStatus("WANT_TO_KNOW"))
	CharacterNotInterested = enum.New(CharacterRatingStatus("NOT_INTERESTED"))
)

// AnimeRating is one user's verdict on one anime. The item snapshot columns
// travel with the fact so activities and backfill never join a catalog.
type AnimeRating struct {
	Base

	UserID  string `gorm:"uniqueIndex:idx_anime_ratings_user_target"`
	User    User   `gorm:"foreignKey:UserID"`
	AnimeID string `gorm:"uniqueIndex:idx_anime_ratings_user_target"`

	// Rating is set iff Status is RATED; a multiple of 0.5 in [0.5, 5].
	Rating *float64
	Status AnimeRatingStatus

	AnimeTitle       string
	AnimeTitleKorean sql.NullString
	AnimeImage       sql.NullString
	AnimeYear        sql.NullInt64
}

type CharacterRating struct {
	Base

	UserID      string `gorm:"uniqueIndex:idx_character_ratings_user_target"`
	User        User   `gorm:"foreignKey:UserID"`
	CharacterID string `gorm:"uniqueIndex:idx_character_ratings_user_target"`

	Rating *float64
	Status CharacterRatingStatus

	CharacterName       string
	CharacterNameKorean sql.NullString
	CharacterImage      sql.NullString

	// The anime this character belongs to, denormalized for feed rows.
	AnimeID          sql.NullString
	AnimeTitle       sql.NullString
	AnimeTitleKorean sql.NullString
	AnimeTitleNative sql.NullString
}
