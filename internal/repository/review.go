package repository

import (
	"context"

	"github.com/otakuhub/backend/internal/entity"
	"github.com/otakuhub/backend/pkg/xcontext"
	"gorm.io/gorm"
)

type AnimeReviewRepository interface {
	Create(ctx context.Context, data *entity.AnimeReview) error
	Update(ctx context.Context, id string, data *entity.AnimeReview) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*entity.AnimeReview, error)
	Get(ctx context.Context, userID, animeID string) (*entity.AnimeReview, error)
	GetListByAnimeID(ctx context.Context, animeID string, offset, limit int) ([]entity.AnimeReview, error)
	GetAllByUserID(ctx context.Context, userID string) ([]entity.AnimeReview, error)
	ChangeLikesCount(ctx context.Context, id string, delta int) error
}

type animeReviewRepository struct{}

func NewAnimeReviewRepository() *animeReviewRepository {
	return &animeReviewRepository{}
}

func (r *animeReviewRepository) Create(ctx context.Context, data *entity.AnimeReview) error {
	return xcontext.DB(ctx).Create(data).Error
}

func (r *animeReviewRepository) Update(ctx context.Context, id string, data *entity.AnimeReview) error {
	return xcontext.DB(ctx).Model(&entity.AnimeReview{}).
		Where("id=?", id).
		Updates(map[string]any{
			"title":      data.Title,
			"content":    data.Content,
			"is_spoiler": data.IsSpoiler,
			"updated_at": data.UpdatedAt,
		}).Error
}

func (r *animeReviewRepository) Delete(ctx context.Context, id string) error {
	return xcontext.DB(ctx).Where("id=?", id).Delete(&entity.AnimeReview{}).Error
}

func (r *animeReviewRepository) GetByID(ctx context.Context, id string) (*entity.AnimeReview, error) {
	var record entity.AnimeReview
	if err := xcontext.DB(ctx).Where("id=?", id).Take(&record).Error; err != nil {
		return nil, err
	}

	return &record, nil
}

func (r *animeReviewRepository) Get(
	ctx context.Context, userID, animeID string,
) (*entity.AnimeReview, error) {
	var record entity.AnimeReview
	err := xcontext.DB(ctx).
		Where("user_id=? AND anime_id=?", userID, animeID).
		Take(&record).Error
	if err != nil {
		return nil, err
	}

	return &record, nil
}

func (r *animeReviewRepository) GetListByAnimeID(
	ctx context.Context, animeID string, offset, limit int,
) ([]entity.AnimeReview, error) {
	var records []entity.AnimeReview
	err := xcontext.DB(ctx).
		Where("anime_id=?", animeID).
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&records).Error
	if err != nil {
		return nil, err
	}

	return records, nil
}

func (r *animeReviewRepository) GetAllByUserID(
	ctx context.Context, userID string,
) ([]entity.AnimeReview, error) {
	var records []entity.AnimeReview
	err := xcontext.DB(ctx).Where("user_id=?", userID).Find(&records).Error
	if err != nil {
		return nil, err
	}

	return records, nil
}

func (r *animeReviewRepository) ChangeLikesCount(ctx context.Context, id string, delta int) error {
	return xcontext.DB(ctx).Model(&entity.AnimeReview{}).
		Where("id=?", id).
		Update("likes_count", gorm.Expr("likes_count + ?", delta)).Error
}

type CharacterReviewRepository interface {
	Create(ctx context.Context, data *entity.CharacterReview) error
	Update(ctx context.Context, id string, data *entity.CharacterReview) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*entity.CharacterReview, error)
	Get(ctx context.Context, userID, characterID string) (*entity.CharacterReview, error)
	GetListByCharacterID(ctx context.Context, characterID string, offset, limit int) ([]entity.CharacterReview, error)
	GetAllByUserID(ctx context.Context, userID string) ([]entity.CharacterReview, error)
	ChangeLikesCount(ctx context.Context, id string, delta int) error
}

type characterReviewRepository struct{}

func NewCharacterReviewRepository() *characterReviewRepository {
	return &characterReviewRepository{}
}

func (r *characterReviewRepository) Create(ctx context.Context, data *entity.CharacterReview) error {
	return xcontext.DB(ctx).Create(data).Error
}

func (r *characterReviewRepository) Update(
	ctx context.Context, id string, data *entity.CharacterReview,
) error {
	return xcontext.DB(ctx).Model(&entity.CharacterReview{}).
		Where("id=?", id).
		Updates(map[string]any{
			"title":      data.Title,
			"content":    data.Content,
			"is_spoiler": data.IsSpoiler,
			"updated_at": data.UpdatedAt,
		}).Error
}

func (r *characterReviewRepository) Delete(ctx context.Context, id string) error {
	return xcontext.DB(ctx).Where("id=?", id).Delete(&entity.CharacterReview{}).Error
}

func (r *characterReviewRepository) GetByID(
	ctx context.Context, id string,
) (*entity.CharacterReview, error) {
	var record entity.CharacterReview
	if err := xcontext.DB(ctx).Where("id=?", id).Take(&record).Error; err != nil {
		return nil, err
	}

	return &record, nil
}

func (r *characterReviewRepository) Get(
	ctx context.Context, userID, characterID string,
) (*entity.CharacterReview, error) {
	var record entity.CharacterReview
	err := xcontext.DB(ctx).
		Where("user_id=? AND character_id=?", userID, characterID).
		Take(&record).Error
	if err != nil {
		return nil, err
	}

	return &record, nil
}

func (r *characterReviewRepository) GetListByCharacterID(
	ctx context.Context, characterID string, offset, limit int,
) ([]entity.CharacterReview, error) {
	var records []entity.CharacterReview
	err := xcontext.DB(ctx).
		Where("character_id=?", characterID).
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&records).Error
	if err != nil {
		return nil, err
	}

	return records, nil
}

func (r *characterReviewRepository) GetAllByUserID(
	ctx context.Context, userID string,
) ([]entity.CharacterReview, error) {
	var records []entity.CharacterReview
	err := xcontext.DB(ctx).Where("user_id=?", userID).Find(&records).Error
	if err != nil {
		return nil, err
	}

	return records, nil
}

func (r *characterReviewRepository) ChangeLikesCount(ctx context.Context, id string, delta int) error {
	return xcontext.DB(ctx).Model(&entity.CharacterReview{}).
		Where("id=?", id).
		Update("likes_count", gorm.Expr("likes_count + ?", delta)).Error
}
