package repository

import (
	"context"

	"github.com/otakuhub/backend/internal/entity"
	"github.com/otakuhub/backend/pkg/xcontext"
)

// InteractionRepository groups likes, bookmarks, and comments attached to
// feed activities, plus review and comment likes.
type InteractionRepository interface {
	CreateActivityLike(ctx context.Context, data *entity.ActivityLike) error
	DeleteActivityLike(ctx context.Context, userID, activityID string) (bool, error)
	CreateBookmark(ctx context.Context, data *entity.Bookmark) error
	DeleteBookmark(ctx context.Context, userID, activityID string) (bool, error)

	CreateActivityComment(ctx context.Context, data *entity.ActivityComment) error
	GetActivityCommentByID(ctx context.Context, id string) (*entity.ActivityComment, error)
	DeleteActivityComment(ctx context.Context, id string) error
	GetActivityComments(ctx context.Context, activityID string, offset, limit int) ([]entity.ActivityComment, error)

	CreateReviewLike(ctx context.Context, data *entity.ReviewLike) error
	DeleteReviewLike(ctx context.Context, userID, reviewID string, reviewType entity.ReviewType) (bool, error)
	CreateCommentLike(ctx context.Context, data *entity.CommentLike) error
	DeleteCommentLike(ctx context.Context, userID, commentID string) (bool, error)

	// LikeCounts and CommentCounts annotate a page of feed activities with a
	// single grouped query each.
	LikeCounts(ctx context.Context, activityIDs []string) (map[string]int64, error)
	CommentCounts(ctx context.Context, activityIDs []string) (map[string]int64, error)

	// LikedSet and BookmarkedSet report which of the given activities the
	// viewer has liked or bookmarked.
	LikedSet(ctx context.Context, userID string, activityIDs []string) (map[string]bool, error)
	BookmarkedSet(ctx context.Context, userID string, activityIDs []string) (map[string]bool, error)

	GetBookmarkedActivityIDs(ctx context.Context, userID string, offset, limit int) ([]string, error)
}

type interactionRepository struct{}

func NewInteractionRepository() *interactionRepository {
	return &interactionRepository{}
}

func (r *interactionRepository) CreateActivityLike(
	ctx context.Context, data *entity.ActivityLike,
) error {
	return xcontext.DB(ctx).Create(data).Error
}

func (r *interactionRepository) DeleteActivityLike(
	ctx context.Context, userID, activityID string,
) (bool, error) {
	tx := xcontext.DB(ctx).
		Where("user_id=? AND activity_id=?", userID, activityID).
		Delete(&entity.ActivityLike{})
	if tx.Error != nil {
		return false, tx.Error
	}

	return tx.RowsAffected > 0, nil
}

func (r *interactionRepository) CreateBookmark(ctx context.Context, data *entity.Bookmark) error {
	return xcontext.DB(ctx).Create(data).Error
}

func (r *interactionRepository) DeleteBookmark(
	ctx context.Context, userID, activityID string,
) (bool, error) {
	tx := xcontext.DB(ctx).
		Where("user_id=? AND activity_id=?", userID, activityID).
		Delete(&entity.Bookmark{})
	if tx.Error != nil {
		return false, tx.Error
	}

	return tx.RowsAffected > 0, nil
}

func (r *interactionRepository) CreateActivityComment(
	ctx context.Context, data *entity.ActivityComment,
) error {
	return xcontext.DB(ctx).Create(data).Error
}

func (r *interactionRepository) GetActivityCommentByID(
	ctx context.Context, id string,
) (*entity.ActivityComment, error) {
	var record entity.ActivityComment
	if err := xcontext.DB(ctx).Where("id=?", id).Take(&record).Error; err != nil {
		return nil, err
	}

	return &record, nil
}

func (r *interactionRepository) DeleteActivityComment(ctx context.Context, id string) error {
	return xcontext.DB(ctx).Where("id=?", id).Delete(&entity.ActivityComment{}).Error
}

func (r *interactionRepository) GetActivityComments(
	ctx context.Context, activityID string, offset, limit int,
) ([]entity.ActivityComment, error) {
	var records []entity.ActivityComment
	err := xcontext.DB(ctx).
		Where("activity_id=?", activityID).
		Order("created_at ASC").
		Offset(offset).Limit(limit).
		Find(&records).Error
	if err != nil {
		return nil, err
	}

	return records, nil
}

func (r *interactionRepository) CreateReviewLike(
	ctx context.Context, data *entity.ReviewLike,
) error {
	return xcontext.DB(ctx).Create(data).Error
}

func (r *interactionRepository) DeleteReviewLike(
	ctx context.Context, userID, reviewID string, reviewType entity.ReviewType,
) (bool, error) {
	tx := xcontext.DB(ctx).
		Where("user_id=? AND review_id=? AND review_type=?", userID, reviewID, reviewType).
		Delete(&entity.ReviewLike{})
	if tx.Error != nil {
		return false, tx.Error
	}

	return tx.RowsAffected > 0, nil
}

func (r *interactionRepository) CreateCommentLike(
	ctx context.Context, data *entity.CommentLike,
) error {
	return xcontext.DB(ctx).Create(data).Error
}

func (r *interactionRepository) DeleteCommentLike(
	ctx context.Context, userID, commentID string,
) (bool, error) {
	tx := xcontext.DB(ctx).
		Where("user_id=? AND comment_id=?", userID, commentID).
		Delete(&entity.CommentLike{})
	if tx.Error != nil {
		return false, tx.Error
	}

	return tx.RowsAffected > 0, nil
}

type activityCount struct {
	ActivityID string
	Count      int64
}

func (r *interactionRepository) LikeCounts(
	ctx context.Context, activityIDs []string,
) (map[string]int64, error) {
	if len(activityIDs) == 0 {
		return map[string]int64{}, nil
	}

	var rows []activityCount
	err := xcontext.DB(ctx).Model(&entity.ActivityLike{}).
		Select("activity_id, COUNT(*) as count").
		Where("activity_id IN (?)", activityIDs).
		Group("activity_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.ActivityID] = row.Count
	}

	return counts, nil
}

func (r *interactionRepository) CommentCounts(
	ctx context.Context, activityIDs []string,
) (map[string]int64, error) {
	if len(activityIDs) == 0 {
		return map[string]int64{}, nil
	}

	var rows []activityCount
	err := xcontext.DB(ctx).Model(&entity.ActivityComment{}).
		Select("activity_id, COUNT(*) as count").
		Where("activity_id IN (?)", activityIDs).
		Group("activity_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.ActivityID] = row.Count
	}

	return counts, nil
}

func (r *interactionRepository) LikedSet(
	ctx context.Context, userID string, activityIDs []string,
) (map[string]bool, error) {
	if len(activityIDs) == 0 {
		return map[string]bool{}, nil
	}

	var ids []string
	err := xcontext.DB(ctx).Model(&entity.ActivityLike{}).
		Where("user_id=? AND activity_id IN (?)", userID, activityIDs).
		Pluck("activity_id", &ids).Error
	if err != nil {
		return nil, err
	}

	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}

	return set, nil
}

func (r *interactionRepository) BookmarkedSet(
	ctx context.Context, userID string, activityIDs []string,
) (map[string]bool, error) {
	if len(activityIDs) == 0 {
		return map[string]bool{}, nil
	}

	var ids []string
	err := xcontext.DB(ctx).Model(&entity.Bookmark{}).
		Where("user_id=? AND activity_id IN (?)", userID, activityIDs).
		Pluck("activity_id", &ids).Error
	if err != nil {
		return nil, err
	}

	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}

	return set, nil
}

func (r *interactionRepository) GetBookmarkedActivityIDs(
	ctx context.Context, userID string, offset, limit int,
) ([]string, error) {
	var ids []string
	err := xcontext.DB(ctx).Model(&entity.Bookmark{}).
		Where("user_id=?", userID).
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Pluck("activity_id", &ids).Error
	if err != nil {
		return nil, err
	}

	return ids, nil
}
