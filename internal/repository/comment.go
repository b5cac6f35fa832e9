package repository

import (
	"context"

	"github.com/otakuhub/backend/internal/entity"
	"github.com/otakuhub/backend/pkg/xcontext"
	"gorm.io/gorm"
)

type ReviewCommentRepository interface {
	Create(ctx context.Context, data *entity.ReviewComment) error
	GetByID(ctx context.Context, id string) (*entity.ReviewComment, error)
	Delete(ctx context.Context, id string) error
	DeleteReplies(ctx context.Context, parentID string) error
	GetListByReview(ctx context.Context, reviewID string, reviewType entity.ReviewType, offset, limit int) ([]entity.ReviewComment, error)
	CountReplies(ctx context.Context, parentID string) (int64, error)
	ChangeLikesCount(ctx context.Context, id string, delta int) error
}

type reviewCommentRepository struct{}

func NewReviewCommentRepository() *reviewCommentRepository {
	return &reviewCommentRepository{}
}

func (r *reviewCommentRepository) Create(ctx context.Context, data *entity.ReviewComment) error {
	return xcontext.DB(ctx).Create(data).Error
}

func (r *reviewCommentRepository) GetByID(ctx context.Context, id string) (*entity.ReviewComment, error) {
	var record entity.ReviewComment
	if err := xcontext.DB(ctx).Where("id=?", id).Take(&record).Error; err != nil {
		return nil, err
	}

	return &record, nil
}

func (r *reviewCommentRepository) Delete(ctx context.Context, id string) error {
	return xcontext.DB(ctx).Where("id=?", id).Delete(&entity.ReviewComment{}).Error
}

func (r *reviewCommentRepository) DeleteReplies(ctx context.Context, parentID string) error {
	return xcontext.DB(ctx).
		Where("parent_comment_id=?", parentID).
		Delete(&entity.ReviewComment{}).Error
}

func (r *reviewCommentRepository) GetListByReview(
	ctx context.Context, reviewID string, reviewType entity.ReviewType, offset, limit int,
) ([]entity.ReviewComment, error) {
	var records []entity.ReviewComment
	err := xcontext.DB(ctx).
		Where("review_id=? AND review_type=?", reviewID, reviewType).
		Order("created_at ASC").
		Offset(offset).Limit(limit).
		Find(&records).Error
	if err != nil {
		return nil, err
	}

	return records, nil
}

func (r *reviewCommentRepository) CountReplies(ctx context.Context, parentID string) (int64, error) {
	var count int64
	err := xcontext.DB(ctx).Model(&entity.ReviewComment{}).
		Where("parent_comment_id=?", parentID).
		Count(&count).Error
	if err != nil {
		return 0, err
	}

	return count, nil
}

func (r *reviewCommentRepository) ChangeLikesCount(ctx context.Context, id string, delta int) error {
	return xcontext.DB(ctx).Model(&entity.ReviewComment{}).
		Where("id=?", id).
		Update("likes_count", gorm.Expr("likes_count + ?", delta)).Error
}
