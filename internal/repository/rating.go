package repository

import (
	"context"

	"github.com/otakuhub/backend/internal/entity"
	"github.com/otakuhub/backend/pkg/xcontext"
	"gorm.io/gorm/clause"
)

type AnimeRatingRepository interface {
	Upsert(ctx context.Context, data *entity.AnimeRating) error
	Get(ctx context.Context, userID, animeID string) (*entity.AnimeRating, error)
	Delete(ctx context.Context, userID, animeID string) error
	GetListByUserID(ctx context.Context, userID string, offset, limit int) ([]entity.AnimeRating, error)
	GetAllByUserID(ctx context.Context, userID string) ([]entity.AnimeRating, error)
}

type animeRatingRepository struct{}

func NewAnimeRatingRepository() *animeRatingRepository {
	return &animeRatingRepository{}
}

func (r *animeRatingRepository) Upsert(ctx context.Context, data *entity.AnimeRating) error {
	return xcontext.DB(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "anime_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"rating", "status", "anime_title", "anime_title_korean",
			"anime_image", "anime_year", "updated_at",
		}),
	}).Create(data).Error
}

func (r *animeRatingRepository) Get(
	ctx context.Context, userID, animeID string,
) (*entity.AnimeRating, error) {
	var record entity.AnimeRating
	err := xcontext.DB(ctx).
		Where("user_id=? AND anime_id=?", userID, animeID).
		Take(&record).Error
	if err != nil {
		return nil, err
	}

	return &record, nil
}

func (r *animeRatingRepository) Delete(ctx context.Context, userID, animeID string) error {
	return xcontext.DB(ctx).
		Where("user_id=? AND anime_id=?", userID, animeID).
		Delete(&entity.AnimeRating{}).Error
}

func (r *animeRatingRepository) GetListByUserID(
	ctx context.Context, userID string, offset, limit int,
) ([]entity.AnimeRating, error) {
	var records []entity.AnimeRating
	err := xcontext.DB(ctx).
		Where("user_id=?", userID).
		Order("updated_at DESC").
		Offset(offset).Limit(limit).
		Find(&records).Error
	if err != nil {
		return nil, err
	}

	return records, nil
}

func (r *animeRatingRepository) GetAllByUserID(
	ctx context.Context, userID string,
) ([]entity.AnimeRating, error) {
	var records []entity.AnimeRating
	err := xcontext.DB(ctx).Where("user_id=?", userID).Find(&records).Error
	if err != nil {
		return nil, err
	}

	return records, nil
}

type CharacterRatingRepository interface {
	Upsert(ctx context.Context, data *entity.CharacterRating) error
	Get(ctx context.Context, userID, characterID string) (*entity.CharacterRating, error)
	Delete(ctx context.Context, userID, characterID string) error
	GetListByUserID(ctx context.Context, userID string, offset, limit int) ([]entity.CharacterRating, error)
	GetAllByUserID(ctx context.Context, userID string) ([]entity.CharacterRating, error)
}

type characterRatingRepository struct{}

func NewCharacterRatingRepository() *characterRatingRepository {
	return &characterRatingRepository{}
}

func (r *characterRatingRepository) Upsert(ctx context.Context, data *entity.CharacterRating) error {
	return xcontext.DB(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "character_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"rating", "status", "character_name", "character_name_korean",
			"character_image", "anime_id", "anime_title", "anime_title_korean",
			"anime_title_native", "updated_at",
		}),
	}).Create(data).Error
}

func (r *characterRatingRepository) Get(
	ctx context.Context, userID, characterID string,
) (*entity.CharacterRating, error) {
	var record entity.CharacterRating
	err := xcontext.DB(ctx).
		Where("user_id=? AND character_id=?", userID, characterID).
		Take(&record).Error
	if err != nil {
		return nil, err
	}

	return &record, nil
}

func (r *characterRatingRepository) Delete(ctx context.Context, userID, characterID string) error {
	return xcontext.DB(ctx).
		Where("user_id=? AND character_id=?", userID, characterID).
		Delete(&entity.CharacterRating{}).Error
}

func (r *characterRatingRepository) GetListByUserID(
	ctx context.Context, userID string, offset, limit int,
) ([]entity.CharacterRating, error) {
	var records []entity.CharacterRating
	err := xcontext.DB(ctx).
		Where("user_id=?", userID).
		Order("updated_at DESC").
		Offset(offset).Limit(limit).
		Find(&records).Error
	if err != nil {
		return nil, err
	}

	return records, nil
}

func (r *characterRatingRepository) GetAllByUserID(
	ctx context.Context, userID string,
) ([]entity.CharacterRating, error) {
	var records []entity.CharacterRating
	err := xcontext.DB(ctx).Where("user_id=?", userID).Find(&records).Error
	if err != nil {
		return nil, err
	}

	return records, nil
}
