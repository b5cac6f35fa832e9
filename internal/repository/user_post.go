package repository

import (
	"context"

	"github.com/otakuhub/backend/internal/entity"
	"github.com/otakuhub/backend/pkg/xcontext"
)

type UserPostRepository interface {
	Create(ctx context.Context, data *entity.UserPost) error
	Update(ctx context.Context, id string, data *entity.UserPost) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*entity.UserPost, error)
	GetListByUserID(ctx context.Context, userID string, offset, limit int) ([]entity.UserPost, error)
	GetAllByUserID(ctx context.Context, userID string) ([]entity.UserPost, error)
}

type userPostRepository struct{}

func NewUserPostRepository() *userPostRepository {
	return &userPostRepository{}
}

func (r *userPostRepository) Create(ctx context.Context, data *entity.UserPost) error {
	return xcontext.DB(ctx).Create(data).Error
}

func (r *userPostRepository) Update(ctx context.Context, id string, data *entity.UserPost) error {
	return xcontext.DB(ctx).Model(&entity.UserPost{}).
		Where("id=?", id).
		Updates(map[string]any{
			"content":    data.Content,
			"updated_at": data.UpdatedAt,
		}).Error
}

func (r *userPostRepository) Delete(ctx context.Context, id string) error {
	return xcontext.DB(ctx).Where("id=?", id).Delete(&entity.UserPost{}).Error
}

func (r *userPostRepository) GetByID(ctx context.Context, id string) (*entity.UserPost, error) {
	var record entity.UserPost
	if err := xcontext.DB(ctx).Where("id=?", id).Take(&record).Error; err != nil {
		return nil, err
	}

	return &record, nil
}

func (r *userPostRepository) GetListByUserID(
	ctx context.Context, userID string, offset, limit int,
) ([]entity.UserPost, error) {
	var records []entity.UserPost
	err := xcontext.DB(ctx).
		Where("user_id=?", userID).
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&records).Error
	if err != nil {
		return nil, err
	}

	return records, nil
}

func (r *userPostRepository) GetAllByUserID(
	ctx context.Context, userID string,
) ([]entity.UserPost, error) {
	var records []entity.UserPost
	err := xcontext.DB(ctx).Where("user_id=?", userID).Find(&records).Error
	if err != nil {
		return nil, err
	}

	return records, nil
}
