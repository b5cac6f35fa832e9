package domain

import (
	"context"
	"database/sql"
	"errors"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/otakuhub/backend/internal/entity"
	"github.com/otakuhub/backend/internal/model"
	"github.com/otakuhub/backend/internal/repository"
	"github.com/otakuhub/backend/pkg/enum"
	"github.com/otakuhub/backend/pkg/errorx"
	"github.com/otakuhub/backend/pkg/xcontext"
	"github.com/otakuhub/backend/pkg/xredis"
	"gorm.io/gorm"
)

type RatingDomain interface {
	UpsertAnime(ctx context.Context, req *model.UpsertAnimeRatingRequest) (*model.UpsertAnimeRatingResponse, error)
	DeleteAnime(ctx context.Context, req *model.DeleteAnimeRatingRequest) (*model.DeleteAnimeRatingResponse, error)
	GetAnime(ctx context.Context, req *model.GetAnimeRatingRequest) (*model.GetAnimeRatingResponse, error)
	GetAnimeList(ctx context.Context, req *model.GetAnimeRatingsRequest) (*model.GetAnimeRatingsResponse, error)

	UpsertCharacter(ctx context.Context, req *model.UpsertCharacterRatingRequest) (*model.UpsertCharacterRatingResponse, error)
	DeleteCharacter(ctx context.Context, req *model.DeleteCharacterRatingRequest) (*model.DeleteCharacterRatingResponse, error)
	GetCharacter(ctx context.Context, req *model.GetCharacterRatingRequest) (*model.GetCharacterRatingResponse, error)
	GetCharacterList(ctx context.Context, req *model.GetCharacterRatingsRequest) (*model.GetCharacterRatingsResponse, error)
}

type ratingDomain struct {
	userRepo            repository.UserRepository
	animeRatingRepo     repository.AnimeRatingRepository
	characterRatingRepo repository.CharacterRatingRepository
	activityRepo        repository.ActivityRepository
	statsManager        *statsManager
}

func NewRatingDomain(
	userRepo repository.UserRepository,
	animeRatingRepo repository.AnimeRatingRepository,
	characterRatingRepo repository.CharacterRatingRepository,
	activityRepo repository.ActivityRepository,
	userStatsRepo repository.UserStatsRepository,
	redisClient xredis.Client,
) RatingDomain {
	return &ratingDomain{
		userRepo:            userRepo,
		animeRatingRepo:     animeRatingRepo,
		characterRatingRepo: characterRatingRepo,
		activityRepo:        activityRepo,
		statsManager:        newStatsManager(userStatsRepo, activityRepo, redisClient),
	}
}

// validateRatingValue enforces the pairing rule: a value exists iff the
// status is rated, and it is a multiple of 0.5 in [0.5, 5].
func validateRatingValue(rated bool, rating *float64) error {
	if !rated {
		if rating != nil {
			return errorx.New(errorx.BadRequest, "Rating is only allowed with the rated status")
		}

		return nil
	}

	if rating == nil {
		return errorx.New(errorx.BadRequest, "Rating is required with the rated status")
	}

	if *rating < 0.5 || *rating > 5 || math.Mod(*rating*2, 1) != 0 {
		return errorx.New(errorx.BadRequest, "Rating must be a multiple of 0.5 in [0.5, 5]")
	}

	return nil
}

// Running mean maintenance of average_rating over rated anime.
func addToMean(mean float64, n int, v float64) float64 {
	return (mean*float64(n) + v) / float64(n+1)
}

func removeFromMean(mean float64, n int, v float64) float64 {
	if n <= 1 {
		return 0
	}

	return (mean*float64(n) - v) / float64(n-1)
}

func (d *ratingDomain) UpsertAnime(
	ctx context.Context, req *model.UpsertAnimeRatingRequest,
) (*model.UpsertAnimeRatingResponse, error) {
	if req.AnimeID == "" || req.AnimeTitle == "" {
		return nil, errorx.New(errorx.BadRequest, "Anime id and title are required")
	}

	status, err := enum.ToEnum[entity.AnimeRatingStatus](req.Status)
	if err != nil {
		return nil, errorx.New(errorx.BadRequest, "Invalid status %s", req.Status)
	}

	if err := validateRatingValue(status == entity.AnimeRated, req.Rating); err != nil {
		return nil, err
	}

	userID := xcontext.RequestUserID(ctx)
	user, err := d.userRepo.GetByID(ctx, userID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get the user: %v", err)
		return nil, errorx.Unknown
	}

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	old, err := d.animeRatingRepo.Get(ctx, userID, req.AnimeID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		xcontext.Logger(ctx).Errorf("Cannot get the previous rating: %v", err)
		return nil, errorx.Unknown
	}

	now := time.Now()
	rating := &entity.AnimeRating{
		Base:             entity.Base{ID: uuid.NewString(), CreatedAt: now, UpdatedAt: now},
		UserID:           userID,
		AnimeID:          req.AnimeID,
		Rating:           req.Rating,
		Status:           status,
		AnimeTitle:       req.AnimeTitle,
		AnimeTitleKorean: nullString(req.AnimeTitleKorean),
		AnimeImage:       nullString(req.AnimeImage),
		AnimeYear:        nullInt64(req.AnimeYear),
	}
	if old != nil {
		rating.Base.ID = old.ID
		rating.Base.CreatedAt = old.CreatedAt
	}

	if err := d.animeRatingRepo.Upsert(ctx, rating); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot upsert the rating: %v", err)
		return nil, errorx.Unknown
	}

	if err := d.activityRepo.Upsert(ctx, animeRatingActivity(user, rating, now)); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot upsert the activity: %v", err)
		return nil, errorx.Unknown
	}

	promotions, err := d.statsManager.Apply(ctx, user, now, func(stats *entity.UserStats) {
		applyAnimeRatingChange(stats, old, rating)
	})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot apply the stats change: %v", err)
		return nil, errorx.Unknown
	}

	xcontext.WithCommitDBTransaction(ctx)

	return &model.UpsertAnimeRatingResponse{
		Rating:     model.ConvertAnimeRating(rating),
		Promotions: promotions,
	}, nil
}

func (d *ratingDomain) DeleteAnime(
	ctx context.Context, req *model.DeleteAnimeRatingRequest,
) (*model.DeleteAnimeRatingResponse, error) {
	userID := xcontext.RequestUserID(ctx)
	user, err := d.userRepo.GetByID(ctx, userID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get the user: %v", err)
		return nil, errorx.Unknown
	}

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	old, err := d.animeRatingRepo.Get(ctx, userID, req.AnimeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Rating not found")
		}

		xcontext.Logger(ctx).Errorf("Cannot get the rating: %v", err)
		return nil, errorx.Unknown
	}

	if err := d.animeRatingRepo.Delete(ctx, userID, req.AnimeID); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot delete the rating: %v", err)
		return nil, errorx.Unknown
	}

	err = d.activityRepo.DeleteByIdentity(ctx, entity.AnimeRatingActivity, userID, req.AnimeID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot delete the activity: %v", err)
		return nil, errorx.Unknown
	}

	// The score drops, which is never a crossing. Existing promotions stay.
	_, err = d.statsManager.Apply(ctx, user, time.Now(), func(stats *entity.UserStats) {
		applyAnimeRatingChange(stats, old, nil)
	})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot apply the stats change: %v", err)
		return nil, errorx.Unknown
	}

	xcontext.WithCommitDBTransaction(ctx)
	return &model.DeleteAnimeRatingResponse{}, nil
}

func (d *ratingDomain) GetAnime(
	ctx context.Context, req *model.GetAnimeRatingRequest,
) (*model.GetAnimeRatingResponse, error) {
	rating, err := d.animeRatingRepo.Get(ctx, xcontext.RequestUserID(ctx), req.AnimeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Rating not found")
		}

		xcontext.Logger(ctx).Errorf("Cannot get the rating: %v", err)
		return nil, errorx.Unknown
	}

	return &model.GetAnimeRatingResponse{Rating: model.ConvertAnimeRating(rating)}, nil
}

func (d *ratingDomain) GetAnimeList(
	ctx context.Context, req *model.GetAnimeRatingsRequest,
) (*model.GetAnimeRatingsResponse, error) {
	offset, limit, err := normalizePaging(ctx, req.Offset, req.Limit, 0)
	if err != nil {
		return nil, err
	}

	userID := req.UserID
	if userID == "" {
		userID = xcontext.RequestUserID(ctx)
	}

	ratings, err := d.animeRatingRepo.GetListByUserID(ctx, userID, offset, limit)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get the ratings: %v", err)
		return nil, errorx.Unknown
	}

	resp := &model.GetAnimeRatingsResponse{}
	for i := range ratings {
		resp.Ratings = append(resp.Ratings, model.ConvertAnimeRating(&ratings[i]))
	}

	return resp, nil
}

func (d *ratingDomain) UpsertCharacter(
	ctx context.Context, req *model.UpsertCharacterRatingRequest,
) (*model.UpsertCharacterRatingResponse, error) {
	if req.CharacterID == "" || req.CharacterName == "" {
		return nil, errorx.New(errorx.BadRequest, "Character id and name are required")
	}

	status, err := enum.ToEnum[entity.CharacterRatingStatus](req.Status)
	if err != nil {
		return nil, errorx.New(errorx.BadRequest, "Invalid status %s", req.Status)
	}

	if err := validateRatingValue(status == entity.CharacterRated, req.Rating); err != nil {
		return nil, err
	}

	userID := xcontext.RequestUserID(ctx)
	user, err := d.userRepo.GetByID(ctx, userID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get the user: %v", err)
		return nil, errorx.Unknown
	}

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	old, err := d.characterRatingRepo.Get(ctx, userID, req.CharacterID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		xcontext.Logger(ctx).Errorf("Cannot get the previous rating: %v", err)
		return nil, errorx.Unknown
	}

	now := time.Now()
	rating := &entity.CharacterRating{
		Base:                entity.Base{ID: uuid.NewString(), CreatedAt: now, UpdatedAt: now},
		UserID:              userID,
		CharacterID:         req.CharacterID,
		Rating:              req.Rating,
		Status:              status,
		CharacterName:       req.CharacterName,
		CharacterNameKorean: nullString(req.CharacterNameKorean),
		CharacterImage:      nullString(req.CharacterImage),
		AnimeID:             nullString(req.AnimeID),
		AnimeTitle:          nullString(req.AnimeTitle),
		AnimeTitleKorean:    nullString(req.AnimeTitleKorean),
		AnimeTitleNative:    nullString(req.AnimeTitleNative),
	}
	if old != nil {
		rating.Base.ID = old.ID
		rating.Base.CreatedAt = old.CreatedAt
	}

	if err := d.characterRatingRepo.Upsert(ctx, rating); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot upsert the rating: %v", err)
		return nil, errorx.Unknown
	}

	if err := d.activityRepo.Upsert(ctx, characterRatingActivity(user, rating, now)); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot upsert the activity: %v", err)
		return nil, errorx.Unknown
	}

	promotions, err := d.statsManager.Apply(ctx, user, now, func(stats *entity.UserStats) {
		applyCharacterRatingChange(stats, old, rating)
	})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot apply the stats change: %v", err)
		return nil, errorx.Unknown
	}

	xcontext.WithCommitDBTransaction(ctx)

	return &model.UpsertCharacterRatingResponse{
		Rating:     model.ConvertCharacterRating(rating),
		Promotions: promotions,
	}, nil
}

func (d *ratingDomain) DeleteCharacter(
	ctx context.Context, req *model.DeleteCharacterRatingRequest,
) (*model.DeleteCharacterRatingResponse, error) {
	userID := xcontext.RequestUserID(ctx)
	user, err := d.userRepo.GetByID(ctx, userID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get the user: %v", err)
		return nil, errorx.Unknown
	}

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	old, err := d.characterRatingRepo.Get(ctx, userID, req.CharacterID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Rating not found")
		}

		xcontext.Logger(ctx).Errorf("Cannot get the rating: %v", err)
		return nil, errorx.Unknown
	}

	if err := d.characterRatingRepo.Delete(ctx, userID, req.CharacterID); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot delete the rating: %v", err)
		return nil, errorx.Unknown
	}

	err = d.activityRepo.DeleteByIdentity(
		ctx, entity.CharacterRatingActivity, userID, req.CharacterID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot delete the activity: %v", err)
		return nil, errorx.Unknown
	}

	_, err = d.statsManager.Apply(ctx, user, time.Now(), func(stats *entity.UserStats) {
		applyCharacterRatingChange(stats, old, nil)
	})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot apply the stats change: %v", err)
		return nil, errorx.Unknown
	}

	xcontext.WithCommitDBTransaction(ctx)
	return &model.DeleteCharacterRatingResponse{}, nil
}

func (d *ratingDomain) GetCharacter(
	ctx context.Context, req *model.GetCharacterRatingRequest,
) (*model.GetCharacterRatingResponse, error) {
	rating, err := d.characterRatingRepo.Get(ctx, xcontext.RequestUserID(ctx), req.CharacterID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Rating not found")
		}

		xcontext.Logger(ctx).Errorf("Cannot get the rating: %v", err)
		return nil, errorx.Unknown
	}

	return &model.GetCharacterRatingResponse{Rating: model.ConvertCharacterRating(rating)}, nil
}

func (d *ratingDomain) GetCharacterList(
	ctx context.Context, req *model.GetCharacterRatingsRequest,
) (*model.GetCharacterRatingsResponse, error) {
	offset, limit, err := normalizePaging(ctx, req.Offset, req.Limit, 0)
	if err != nil {
		return nil, err
	}

	userID := req.UserID
	if userID == "" {
		userID = xcontext.RequestUserID(ctx)
	}

	ratings, err := d.characterRatingRepo.GetListByUserID(ctx, userID, offset, limit)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get the ratings: %v", err)
		return nil, errorx.Unknown
	}

	resp := &model.GetCharacterRatingsResponse{}
	for i := range ratings {
		resp.Ratings = append(resp.Ratings, model.ConvertCharacterRating(&ratings[i]))
	}

	return resp, nil
}

// applyAnimeRatingChange moves the counters from the old fact row to the new
// one. Either side may be nil (creation, deletion).
func applyAnimeRatingChange(stats *entity.UserStats, old, current *entity.AnimeRating) {
	if old != nil {
		switch old.Status {
		case entity.AnimeRated:
			stats.AverageRating = removeFromMean(stats.AverageRating, stats.TotalRated, *old.Rating)
			stats.TotalRated--
		case entity.AnimeWantToWatch:
			stats.TotalWantToWatch--
		case entity.AnimePass:
			stats.TotalPass--
		}
	}

	if current != nil {
		switch current.Status {
		case entity.AnimeRated:
			stats.AverageRating = addToMean(stats.AverageRating, stats.TotalRated, *current.Rating)
			stats.TotalRated++
		case entity.AnimeWantToWatch:
			stats.TotalWantToWatch++
		case entity.AnimePass:
			stats.TotalPass++
		}
	}
}

func applyCharacterRatingChange(stats *entity.UserStats, old, current *entity.CharacterRating) {
	if old != nil && old.Status == entity.CharacterRated {
		stats.TotalCharacterRatings--
	}

	if current != nil && current.Status == entity.CharacterRated {
		stats.TotalCharacterRatings++
	}
}

func animeRatingActivity(
	user *entity.User, rating *entity.AnimeRating, at time.Time,
) *entity.Activity {
	return &entity.Activity{
		Base:            entity.Base{ID: uuid.NewString()},
		ActivityType:    entity.AnimeRatingActivity,
		UserID:          user.ID,
		Username:        user.Username,
		DisplayName:     user.DisplayName,
		AvatarURL:       user.AvatarURL,
		ItemID:          sql.NullString{Valid: true, String: rating.AnimeID},
		ItemTitle:       sql.NullString{Valid: true, String: rating.AnimeTitle},
		ItemTitleKorean: rating.AnimeTitleKorean,
		ItemImage:       rating.AnimeImage,
		ItemYear:        rating.AnimeYear,
		Rating:          rating.Rating,
		ActivityTime:    at,
	}
}

func characterRatingActivity(
	user *entity.User, rating *entity.CharacterRating, at time.Time,
) *entity.Activity {
	return &entity.Activity{
		Base:             entity.Base{ID: uuid.NewString()},
		ActivityType:     entity.CharacterRatingActivity,
		UserID:           user.ID,
		Username:         user.Username,
		DisplayName:      user.DisplayName,
		AvatarURL:        user.AvatarURL,
		ItemID:           sql.NullString{Valid: true, String: rating.CharacterID},
		ItemTitle:        sql.NullString{Valid: true, String: rating.CharacterName},
		ItemTitleKorean:  rating.CharacterNameKorean,
		ItemImage:        rating.CharacterImage,
		AnimeID:          rating.AnimeID,
		AnimeTitle:       rating.AnimeTitle,
		AnimeTitleKorean: rating.AnimeTitleKorean,
		AnimeTitleNative: rating.AnimeTitleNative,
		Rating:           rating.Rating,
		ActivityTime:     at,
	}
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}

	return sql.NullString{Valid: true, String: s}
}

func nullInt64(n int) sql.NullInt64 {
	if n == 0 {
		return sql.NullInt64{}
	}

	return sql.NullInt64{Valid: true, Int64: int64(n)}
}
