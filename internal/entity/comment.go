package entity

import "database/sql"

const (
	MinCommentContentLen = 1
	MaxCommentContentLen = 1000

	// MaxCommentDepth is the deepest allowed thread level. Replies to
	// replies are rejected.
	MaxCommentDepth = 2
)

// ReviewComment is the consolidated comment store for both anime and
// character reviews.
type ReviewComment struct {
	Base

	ReviewID   string `gorm:"index"`
	ReviewType ReviewType

	UserID string
	User   User `gorm:"foreignKey:UserID"`

	ParentCommentID sql.NullString
	Depth           int
	Content         string `gorm:"type:text"`
	LikesCount      int
}
