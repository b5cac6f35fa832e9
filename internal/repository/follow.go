package repository

import (
	"context"

	"github.com/otakuhub/backend/internal/entity"
	"github.com/otakuhub/backend/pkg/xcontext"
)

type FollowRepository interface {
	Create(ctx context.Context, data *entity.Follow) error
	Delete(ctx context.Context, followerID, followingID string) (bool, error)
	Get(ctx context.Context, followerID, followingID string) (*entity.Follow, error)
	GetFollowers(ctx context.Context, userID string, offset, limit int) ([]entity.Follow, error)
	GetFollowing(ctx context.Context, userID string, offset, limit int) ([]entity.Follow, error)
	GetFollowingIDs(ctx context.Context, userID string) ([]string, error)
	CountFollowers(ctx context.Context, userID string) (int64, error)
	CountFollowing(ctx context.Context, userID string) (int64, error)
}

type followRepository struct{}

func NewFollowRepository() *followRepository {
	return &followRepository{}
}

func (r *followRepository) Create(ctx context.Context, data *entity.Follow) error {
	return xcontext.DB(ctx).Create(data).Error
}

func (r *followRepository) Delete(ctx context.Context, followerID, followingID string) (bool, error) {
	tx := xcontext.DB(ctx).
		Where("follower_id=? AND following_id=?", followerID, followingID).
		Delete(&entity.Follow{})
	if tx.Error != nil {
		return false, tx.Error
	}

	return tx.RowsAffected > 0, nil
}

func (r *followRepository) Get(
	ctx context.Context, followerID, followingID string,
) (*entity.Follow, error) {
	var record entity.Follow
	err := xcontext.DB(ctx).
		Where("follower_id=? AND following_id=?", followerID, followingID).
		Take(&record).Error
	if err != nil {
		return nil, err
	}

	return &record, nil
}

func (r *followRepository) GetFollowers(
	ctx context.Context, userID string, offset, limit int,
) ([]entity.Follow, error) {
	var records []entity.Follow
	err := xcontext.DB(ctx).
		Where("following_id=?", userID).
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&records).Error
	if err != nil {
		return nil, err
	}

	return records, nil
}

func (r *followRepository) GetFollowing(
	ctx context.Context, userID string, offset, limit int,
) ([]entity.Follow, error) {
	var records []entity.Follow
	err := xcontext.DB(ctx).
		Where("follower_id=?", userID).
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&records).Error
	if err != nil {
		return nil, err
	}

	return records, nil
}

func (r *followRepository) GetFollowingIDs(ctx context.Context, userID string) ([]string, error) {
	var ids []string
	err := xcontext.DB(ctx).Model(&entity.Follow{}).
		Where("follower_id=?", userID).
		Pluck("following_id", &ids).Error
	if err != nil {
		return nil, err
	}

	return ids, nil
}

func (r *followRepository) CountFollowers(ctx context.Context, userID string) (int64, error) {
	var count int64
	err := xcontext.DB(ctx).Model(&entity.Follow{}).
		Where("following_id=?", userID).
		Count(&count).Error
	if err != nil {
		return 0, err
	}

	return count, nil
}

func (r *followRepository) CountFollowing(ctx context.Context, userID string) (int64, error) {
	var count int64
	err := xcontext.DB(ctx).Model(&entity.Follow{}).
		Where("follower_id=?", userID).
		Count(&count).Error
	if err != nil {
		return 0, err
	}

	return count, nil
}
