package repository

import (
	"context"

	"github.com/otakuhub/backend/internal/entity"
	"github.com/otakuhub/backend/pkg/xcontext"
	"gorm.io/gorm/clause"
)

// ActivityFilter narrows a feed query. Zero values mean no restriction.
type ActivityFilter struct {
	UserID  string
	UserIDs []string
	Types   []entity.ActivityType

	Offset int
	Limit  int
}

type ActivityRepository interface {
	// Upsert inserts the row or, for the four deduplicated kinds, replaces
	// the previous one keyed by (activity_type, user_id, item_id).
	Upsert(ctx context.Context, data *entity.Activity) error

	// Create inserts unconditionally; used for user posts and promotions.
	Create(ctx context.Context, data *entity.Activity) error

	GetByID(ctx context.Context, id string) (*entity.Activity, error)
	GetByIDs(ctx context.Context, ids []string) ([]entity.Activity, error)
	GetList(ctx context.Context, filter ActivityFilter) ([]entity.Activity, error)

	DeleteByIdentity(ctx context.Context, activityType entity.ActivityType, userID, itemID string) error
	DeleteByID(ctx context.Context, id string) error
	DeleteRankPromotions(ctx context.Context, userID string) error

	GetRankPromotions(ctx context.Context, userID string) ([]entity.Activity, error)

	// RefreshUserSnapshot repairs drifted denormalized user fields on every
	// activity of the user.
	RefreshUserSnapshot(ctx context.Context, userID, username, displayName, avatarURL string) error
}

type activityRepository struct{}

func NewActivityRepository() *activityRepository {
	return &activityRepository{}
}

func (r *activityRepository) Upsert(ctx context.Context, data *entity.Activity) error {
	return xcontext.DB(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "activity_type"}, {Name: "user_id"}, {Name: "item_id"},
		},
		DoUpdates: clause.AssignmentColumns([]string{
			"username", "display_name", "avatar_url",
			"item_title", "item_title_korean", "item_image", "item_year",
			"anime_id", "anime_title", "anime_title_korean", "anime_title_native",
			"rating", "review_content", "post_content", "activity_time", "updated_at",
		}),
	}).Create(data).Error
}

func (r *activityRepository) Create(ctx context.Context, data *entity.Activity) error {
	return xcontext.DB(ctx).Create(data).Error
}

func (r *activityRepository) GetByID(ctx context.Context, id string) (*entity.Activity, error) {
	var record entity.Activity
	if err := xcontext.DB(ctx).Where("id=?", id).Take(&record).Error; err != nil {
		return nil, err
	}

	return &record, nil
}

func (r *activityRepository) GetByIDs(ctx context.Context, ids []string) ([]entity.Activity, error) {
	var records []entity.Activity
	if err := xcontext.DB(ctx).Where("id IN (?)", ids).Find(&records).Error; err != nil {
		return nil, err
	}

	return records, nil
}

func (r *activityRepository) GetList(
	ctx context.Context, filter ActivityFilter,
) ([]entity.Activity, error) {
	tx := xcontext.DB(ctx).Model(&entity.Activity{})

	if filter.UserID != "" {
		tx = tx.Where("user_id=?", filter.UserID)
	}

	if filter.UserIDs != nil {
		tx = tx.Where("user_id IN (?)", filter.UserIDs)
	}

	if len(filter.Types) > 0 {
		tx = tx.Where("activity_type IN (?)", filter.Types)
	}

	var records []entity.Activity
	err := tx.
		Order("activity_time DESC, id DESC").
		Offset(filter.Offset).Limit(filter.Limit).
		Find(&records).Error
	if err != nil {
		return nil, err
	}

	return records, nil
}

func (r *activityRepository) DeleteByIdentity(
	ctx context.Context, activityType entity.ActivityType, userID, itemID string,
) error {
	return xcontext.DB(ctx).
		Where("activity_type=? AND user_id=? AND item_id=?", activityType, userID, itemID).
		Delete(&entity.Activity{}).Error
}

func (r *activityRepository) DeleteByID(ctx context.Context, id string) error {
	return xcontext.DB(ctx).Where("id=?", id).Delete(&entity.Activity{}).Error
}

func (r *activityRepository) DeleteRankPromotions(ctx context.Context, userID string) error {
	return xcontext.DB(ctx).
		Where("activity_type=? AND user_id=?", entity.RankPromotionActivity, userID).
		Delete(&entity.Activity{}).Error
}

func (r *activityRepository) GetRankPromotions(
	ctx context.Context, userID string,
) ([]entity.Activity, error) {
	var records []entity.Activity
	err := xcontext.DB(ctx).
		Where("activity_type=? AND user_id=?", entity.RankPromotionActivity, userID).
		Order("activity_time ASC, id ASC").
		Find(&records).Error
	if err != nil {
		return nil, err
	}

	return records, nil
}

func (r *activityRepository) RefreshUserSnapshot(
	ctx context.Context, userID, username, displayName, avatarURL string,
) error {
	return xcontext.DB(ctx).Model(&entity.Activity{}).
		Where("user_id=?", userID).
		Updates(map[string]any{
			"username":     username,
			"display_name": displayName,
			"avatar_url":   avatarURL,
		}).Error
}
