package entity

import "time"

// UserStats is the single source of truth for the otaku score. Counters move
// by delta arithmetic; the score is always recomputed from the counters,
// never stored as a delta.
type UserStats struct {
	UserID string `gorm:"primaryKey"`
	User   User   `gorm:"foreignKey:UserID"`

	TotalRated            int
	TotalCharacterRatings int
	TotalReviews          int
	TotalWantToWatch      int
	TotalPass             int

	// AverageRating is the running mean over RATED anime ratings.
	AverageRating float64

	OtakuScore int
	UpdatedAt  time.Time
}
