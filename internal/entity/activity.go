package entity

import (
	"database/sql"
	"time"

	"github.com/otakuhub/backend/pkg/enum"
)

type ActivityType string

var (
	AnimeRatingActivity     = enum.New(ActivityType("anime_rating"))
	CharacterRatingActivity = enum.New(ActivityType("character_rating"))
	AnimeReviewActivity     = enum.New(ActivityType("anime_review"))
	CharacterReviewActivity = enum.New(ActivityType("character_review"))
	UserPostActivity        = enum.New(ActivityType("user_post"))
	RankPromotionActivity   = enum.New(ActivityType("rank_promotion"))
)

// UpsertableActivityTypes are the kinds deduplicated by
// (activity_type, user_id, item_id). User posts and rank promotions are
// insert-only.
var UpsertableActivityTypes = []ActivityType{
	AnimeRatingActivity,
	CharacterRatingActivity,
	AnimeReviewActivity,
	CharacterReviewActivity,
}

// Activity is one denormalized row of the feed log. Every field a feed item
// renders lives here; readers never join.
type Activity struct {
	Base

	ActivityType ActivityType `gorm:"uniqueIndex:idx_activities_identity;index:idx_activities_type_time,priority:1"`

	UserID      string `gorm:"uniqueIndex:idx_activities_identity;index"`
	Username    string
	DisplayName string
	AvatarURL   string

	// ItemID is the rated/reviewed target, or the post id for user_post
	// rows. Null for promotions, which the unique index never matches.
	ItemID          sql.NullString `gorm:"uniqueIndex:idx_activities_identity"`
	ItemTitle       sql.NullString
	ItemTitleKorean sql.NullString
	ItemImage       sql.NullString
	ItemYear        sql.NullInt64

	// Parent anime snapshot, set on character activities only.
	AnimeID          sql.NullString
	AnimeTitle       sql.NullString
	AnimeTitleKorean sql.NullString
	AnimeTitleNative sql.NullString

	Rating        *float64
	ReviewContent sql.NullString `gorm:"type:text"`
	PostContent   sql.NullString `gorm:"type:text"`

	// Metadata is used by rank_promotion rows only: old_rank, old_level,
	// new_rank, new_level, otaku_score.
	Metadata Map `gorm:"type:text"`

	// ActivityTime is the logical occurrence time of the underlying fact,
	// not the insert time. Feeds order by it descending.
	ActivityTime time.Time `gorm:"index:idx_activities_time,sort:desc;index:idx_activities_type_time,priority:2,sort:desc"`
}

type ActivityLike struct {
	CreatedAt time.Time

	UserID string `gorm:"primaryKey"`
	User   User   `gorm:"foreignKey:UserID"`

	ActivityID string   `gorm:"primaryKey;index"`
	Activity   Activity `gorm:"foreignKey:ActivityID;constraint:OnDelete:CASCADE"`
}

type ActivityComment struct {
	Base

	ActivityID string   `gorm:"index"`
	Activity   Activity `gorm:"foreignKey:ActivityID;constraint:OnDelete:CASCADE"`

	UserID  string
	User    User   `gorm:"foreignKey:UserID"`
	Content string `gorm:"type:text"`
}

type Bookmark struct {
	CreatedAt time.Time

	UserID string `gorm:"primaryKey"`
	User   User   `gorm:"foreignKey:UserID"`

	ActivityID string   `gorm:"primaryKey;index"`
	Activity   Activity `gorm:"foreignKey:ActivityID;constraint:OnDelete:CASCADE"`
}

type CommentLike struct {
	CreatedAt time.Time

	UserID string `gorm:"primaryKey"`
	User   User   `gorm:"foreignKey:UserID"`

	CommentID string        `gorm:"primaryKey;index"`
	Comment   ReviewComment `gorm:"foreignKey:CommentID;constraint:OnDelete:CASCADE"`
}

type ReviewLike struct {
	CreatedAt time.Time

	UserID string `gorm:"primaryKey"`
	User   User   `gorm:"foreignKey:UserID"`

	ReviewID   string     `gorm:"primaryKey"`
	ReviewType ReviewType `gorm:"primaryKey"`
}
