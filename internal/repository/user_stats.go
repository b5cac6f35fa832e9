package repository

import (
	"context"

	"github.com/otakuhub/backend/internal/entity"
	"github.com/otakuhub/backend/pkg/xcontext"
	"gorm.io/gorm/clause"
)

type UserStatsRepository interface {
	Get(ctx context.Context, userID string) (*entity.UserStats, error)
	Save(ctx context.Context, data *entity.UserStats) error
	GetLeaderboard(ctx context.Context, offset, limit int) ([]entity.UserStats, error)
}

type userStatsRepository struct{}

func NewUserStatsRepository() *userStatsRepository {
	return &userStatsRepository{}
}

func (r *userStatsRepository) Get(ctx context.Context, userID string) (*entity.UserStats, error) {
	var record entity.UserStats
	if err := xcontext.DB(ctx).Where("user_id=?", userID).Take(&record).Error; err != nil {
		return nil, err
	}

	return &record, nil
}

func (r *userStatsRepository) Save(ctx context.Context, data *entity.UserStats) error {
	return xcontext.DB(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"total_rated", "total_character_ratings", "total_reviews",
			"total_want_to_watch", "total_pass",
			"average_rating", "otaku_score", "updated_at",
		}),
	}).Create(data).Error
}

func (r *userStatsRepository) GetLeaderboard(
	ctx context.Context, offset, limit int,
) ([]entity.UserStats, error) {
	var records []entity.UserStats
	err := xcontext.DB(ctx).
		Order("otaku_score DESC, user_id ASC").
		Offset(offset).Limit(limit).
		Find(&records).Error
	if err != nil {
		return nil, err
	}

	return records, nil
}
