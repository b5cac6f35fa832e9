package entity

import (
	"database/sql"

	"github.com/otakuhub/backend/pkg/enum"
)

type ReviewType string

var (
	AnimeReviewType     = enum.New(ReviewType("anime"))
	CharacterReviewType = enum.New(ReviewType("character"))
)

const (
	MinReviewContentLen = 10
	MaxReviewContentLen = 5000
)

type AnimeReview struct {
	Base

	UserID  string `gorm:"uniqueIndex:idx_anime_reviews_user_target"`
	User    User   `gorm:"foreignKey:UserID"`
	AnimeID string `gorm:"uniqueIndex:idx_anime_reviews_user_target"`

	Title      sql.NullString
	Content    string `gorm:"type:text"`
	IsSpoiler  bool
	LikesCount int

	AnimeTitle       string
	AnimeTitleKorean sql.NullString
	AnimeImage       sql.NullString
	AnimeYear        sql.NullInt64
}

type CharacterReview struct {
	Base

	UserID      string `gorm:"uniqueIndex:idx_character_reviews_user_target"`
	User        User   `gorm:"foreignKey:UserID"`
	CharacterID string `gorm:"uniqueIndex:idx_character_reviews_user_target"`

	Title      sql.NullString
	Content    string `gorm:"type:text"`
	IsSpoiler  bool
	LikesCount int

	CharacterName       string
	CharacterNameKorean sql.NullString
	CharacterImage      sql.NullString

	AnimeID          sql.NullString
	AnimeTitle       sql.NullString
	AnimeTitleKorean sql.NullString
	AnimeTitleNative sql.NullString
}
