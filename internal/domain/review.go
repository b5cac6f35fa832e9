package domain

import (
	"context"
	"database/sql"
	"errors"
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

const reviewListDefaultLimit = 20

type ReviewDomain interface {
	CreateAnime(ctx context.Context, req *model.CreateAnimeReviewRequest) (*model.CreateAnimeReviewResponse, error)
	UpdateAnime(ctx context.Context, req *model.UpdateAnimeReviewRequest) (*model.UpdateAnimeReviewResponse, error)
	DeleteAnime(ctx context.Context, req *model.DeleteAnimeReviewRequest) (*model.DeleteAnimeReviewResponse, error)
	GetAnimeList(ctx context.Context, req *model.GetAnimeReviewsRequest) (*model.GetAnimeReviewsResponse, error)

	CreateCharacter(ctx context.Context, req *model.CreateCharacterReviewRequest) (*model.CreateCharacterReviewResponse, error)
	UpdateCharacter(ctx context.Context, req *model.UpdateCharacterReviewRequest) (*model.UpdateCharacterReviewResponse, error)
	DeleteCharacter(ctx context.Context, req *model.DeleteCharacterReviewRequest) (*model.DeleteCharacterReviewResponse, error)
	GetCharacterList(ctx context.Context, req *model.GetCharacterReviewsRequest) (*model.GetCharacterReviewsResponse, error)

	Like(ctx context.Context, req *model.LikeReviewRequest) (*model.LikeReviewResponse, error)
	Unlike(ctx context.Context, req *model.UnlikeReviewRequest) (*model.UnlikeReviewResponse, error)
}

type reviewDomain struct {
	userRepo            repository.UserRepository
	animeReviewRepo     repository.AnimeReviewRepository
	characterReviewRepo repository.CharacterReviewRepository
	commentRepo         repository.ReviewCommentRepository
	interactionRepo     repository.InteractionRepository
	activityRepo        repository.ActivityRepository
	statsManager        *statsManager
}

func NewReviewDomain(
	userRepo repository.UserRepository,
	animeReviewRepo repository.AnimeReviewRepository,
	characterReviewRepo repository.CharacterReviewRepository,
	commentRepo repository.ReviewCommentRepository,
	interactionRepo repository.InteractionRepository,
	activityRepo repository.ActivityRepository,
	userStatsRepo repository.UserStatsRepository,
	redisClient xredis.Client,
) ReviewDomain {
	return &reviewDomain{
		userRepo:            userRepo,
		animeReviewRepo:     animeReviewRepo,
		characterReviewRepo: characterReviewRepo,
		commentRepo:         commentRepo,
		interactionRepo:     interactionRepo,
		activityRepo:        activityRepo,
		statsManager:        newStatsManager(userStatsRepo, activityRepo, redisClient),
	}
}

func validateReviewContent(content string) error {
	if len(content) < entity.MinReviewContentLen || len(content) > entity.MaxReviewContentLen {
		return errorx.New(errorx.BadRequest, "Content must be %d-%d characters",
			entity.MinReviewContentLen, entity.MaxReviewContentLen)
	}

	return nil
}

func (d *reviewDomain) CreateAnime(
	ctx context.Context, req *model.CreateAnimeReviewRequest,
) (*model.CreateAnimeReviewResponse, error) {
	if req.AnimeID == "" || req.AnimeTitle == "" {
		return nil, errorx.New(errorx.BadRequest, "Anime id and title are required")
	}

	if err := validateReviewContent(req.Content); err != nil {
		return nil, err
	}

	userID := xcontext.RequestUserID(ctx)
	user, err := d.userRepo.GetByID(ctx, userID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get the user: %v", err)
		return nil, errorx.Unknown
	}

	now := time.Now()
	review := &entity.AnimeReview{
		Base:             entity.Base{ID: uuid.NewString(), CreatedAt: now, UpdatedAt: now},
		UserID:           userID,
		AnimeID:          req.AnimeID,
		Title:            nullString(req.Title),
		Content:          req.Content,
		IsSpoiler:        req.IsSpoiler,
		AnimeTitle:       req.AnimeTitle,
		AnimeTitleKorean: nullString(req.AnimeTitleKorean),
		AnimeImage:       nullString(req.AnimeImage),
		AnimeYear:        nullInt64(req.AnimeYear),
	}

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	if err := d.animeReviewRepo.Create(ctx, review); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, errorx.New(errorx.AlreadyExists, "You already reviewed this anime")
		}

		xcontext.Logger(ctx).Errorf("Cannot create the review: %v", err)
		return nil, errorx.Unknown
	}

	if err := d.activityRepo.Upsert(ctx, animeReviewActivity(user, review, now)); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot upsert the activity: %v", err)
		return nil, errorx.Unknown
	}

	promotions, err := d.statsManager.Apply(ctx, user, now, func(stats *entity.UserStats) {
		stats.TotalReviews++
	})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot apply the stats change: %v", err)
		return nil, errorx.Unknown
	}

	xcontext.WithCommitDBTransaction(ctx)

	return &model.CreateAnimeReviewResponse{
		Review:     model.ConvertAnimeReview(review),
		Promotions: promotions,
	}, nil
}

func (d *reviewDomain) UpdateAnime(
	ctx context.Context, req *model.UpdateAnimeReviewRequest,
) (*model.UpdateAnimeReviewResponse, error) {
	if err := validateReviewContent(req.Content); err != nil {
		return nil, err
	}

	review, err := d.animeReviewRepo.GetByID(ctx, req.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Review not found")
		}

		xcontext.Logger(ctx).Errorf("Cannot get the review: %v", err)
		return nil, errorx.Unknown
	}

	userID := xcontext.RequestUserID(ctx)
	if review.UserID != userID {
		return nil, errorx.New(errorx.PermissionDenied, "Only the author can update a review")
	}

	user, err := d.userRepo.GetByID(ctx, userID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get the user: %v", err)
		return nil, errorx.Unknown
	}

	review.Title = nullString(req.Title)
	review.Content = req.Content
	review.IsSpoiler = req.IsSpoiler
	review.UpdatedAt = time.Now()

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	if err := d.animeReviewRepo.Update(ctx, review.ID, review); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot update the review: %v", err)
		return nil, errorx.Unknown
	}

	// The upsert replaces the content in place; the feed position stays at
	// the original creation time.
	if err := d.activityRepo.Upsert(ctx, animeReviewActivity(user, review, review.CreatedAt)); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot upsert the activity: %v", err)
		return nil, errorx.Unknown
	}

	xcontext.WithCommitDBTransaction(ctx)

	return &model.UpdateAnimeReviewResponse{Review: model.ConvertAnimeReview(review)}, nil
}

func (d *reviewDomain) DeleteAnime(
	ctx context.Context, req *model.DeleteAnimeReviewRequest,
) (*model.DeleteAnimeReviewResponse, error) {
	review, err := d.animeReviewRepo.GetByID(ctx, req.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Review not found")
		}

		xcontext.Logger(ctx).Errorf("Cannot get the review: %v", err)
		return nil, errorx.Unknown
	}

	userID := xcontext.RequestUserID(ctx)
	if review.UserID != userID {
		return nil, errorx.New(errorx.PermissionDenied, "Only the author can delete a review")
	}

	user, err := d.userRepo.GetByID(ctx, userID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get the user: %v", err)
		return nil, errorx.Unknown
	}

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	if err := d.deleteReview(ctx, review.ID, entity.AnimeReviewType); err != nil {
		return nil, err
	}

	if err := d.animeReviewRepo.Delete(ctx, review.ID); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot delete the review: %v", err)
		return nil, errorx.Unknown
	}

	err = d.activityRepo.DeleteByIdentity(
		ctx, entity.AnimeReviewActivity, userID, review.AnimeID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot delete the activity: %v", err)
		return nil, errorx.Unknown
	}

	_, err = d.statsManager.Apply(ctx, user, time.Now(), func(stats *entity.UserStats) {
		stats.TotalReviews--
	})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot apply the stats change: %v", err)
		return nil, errorx.Unknown
	}

	xcontext.WithCommitDBTransaction(ctx)
	return &model.DeleteAnimeReviewResponse{}, nil
}

func (d *reviewDomain) GetAnimeList(
	ctx context.Context, req *model.GetAnimeReviewsRequest,
) (*model.GetAnimeReviewsResponse, error) {
	offset, limit, err := normalizePaging(ctx, req.Offset, req.Limit, reviewListDefaultLimit)
	if err != nil {
		return nil, err
	}

	reviews, err := d.animeReviewRepo.GetListByAnimeID(ctx, req.AnimeID, offset, limit)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get the reviews: %v", err)
		return nil, errorx.Unknown
	}

	resp := &model.GetAnimeReviewsResponse{}
	for i := range reviews {
		resp.Reviews = append(resp.Reviews, model.ConvertAnimeReview(&reviews[i]))
	}

	return resp, nil
}

func (d *reviewDomain) CreateCharacter(
	ctx context.Context, req *model.CreateCharacterReviewRequest,
) (*model.CreateCharacterReviewResponse, error) {
	if req.CharacterID == "" || req.CharacterName == "" {
		return nil, errorx.New(errorx.BadRequest, "Character id and name are required")
	}

	if err := validateReviewContent(req.Content); err != nil {
		return nil, err
	}

	userID := xcontext.RequestUserID(ctx)
	user, err := d.userRepo.GetByID(ctx, userID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get the user: %v", err)
		return nil, errorx.Unknown
	}

	now := time.Now()
	review := &entity.CharacterReview{
		Base:                entity.Base{ID: uuid.NewString(), CreatedAt: now, UpdatedAt: now},
		UserID:              userID,
		CharacterID:         req.CharacterID,
		Title:               nullString(req.Title),
		Content:             req.Content,
		IsSpoiler:           req.IsSpoiler,
		CharacterName:       req.CharacterName,
		CharacterNameKorean: nullString(req.CharacterNameKorean),
		CharacterImage:      nullString(req.CharacterImage),
		AnimeID:             nullString(req.AnimeID),
		AnimeTitle:          nullString(req.AnimeTitle),
		AnimeTitleKorean:    nullString(req.AnimeTitleKorean),
		AnimeTitleNative:    nullString(req.AnimeTitleNative),
	}

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	if err := d.characterReviewRepo.Create(ctx, review); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, errorx.New(errorx.AlreadyExists, "You already reviewed this character")
		}

		xcontext.Logger(ctx).Errorf("Cannot create the review: %v", err)
		return nil, errorx.Unknown
	}

	if err := d.activityRepo.Upsert(ctx, characterReviewActivity(user, review, now)); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot upsert the activity: %v", err)
		return nil, errorx.Unknown
	}

	promotions, err := d.statsManager.Apply(ctx, user, now, func(stats *entity.UserStats) {
		stats.TotalReviews++
	})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot apply the stats change: %v", err)
		return nil, errorx.Unknown
	}

	xcontext.WithCommitDBTransaction(ctx)

	return &model.CreateCharacterReviewResponse{
		Review:     model.ConvertCharacterReview(review),
		Promotions: promotions,
	}, nil
}

func (d *reviewDomain) UpdateCharacter(
	ctx context.Context, req *model.UpdateCharacterReviewRequest,
) (*model.UpdateCharacterReviewResponse, error) {
	if err := validateReviewContent(req.Content); err != nil {
		return nil, err
	}

	review, err := d.characterReviewRepo.GetByID(ctx, req.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Review not found")
		}

		xcontext.Logger(ctx).Errorf("Cannot get the review: %v", err)
		return nil, errorx.Unknown
	}

	userID := xcontext.RequestUserID(ctx)
	if review.UserID != userID {
		return nil, errorx.New(errorx.PermissionDenied, "Only the author can update a review")
	}

	user, err := d.userRepo.GetByID(ctx, userID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get the user: %v", err)
		return nil, errorx.Unknown
	}

	review.Title = nullString(req.Title)
	review.Content = req.Content
	review.IsSpoiler = req.IsSpoiler
	review.UpdatedAt = time.Now()

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	if err := d.characterReviewRepo.Update(ctx, review.ID, review); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot update the review: %v", err)
		return nil, errorx.Unknown
	}

	if err := d.activityRepo.Upsert(ctx, characterReviewActivity(user, review, review.CreatedAt)); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot upsert the activity: %v", err)
		return nil, errorx.Unknown
	}

	xcontext.WithCommitDBTransaction(ctx)

	return &model.UpdateCharacterReviewResponse{Review: model.ConvertCharacterReview(review)}, nil
}

func (d *reviewDomain) DeleteCharacter(
	ctx context.Context, req *model.DeleteCharacterReviewRequest,
) (*model.DeleteCharacterReviewResponse, error) {
	review, err := d.characterReviewRepo.GetByID(ctx, req.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Review not found")
		}

		xcontext.Logger(ctx).Errorf("Cannot get the review: %v", err)
		return nil, errorx.Unknown
	}

	userID := xcontext.RequestUserID(ctx)
	if review.UserID != userID {
		return nil, errorx.New(errorx.PermissionDenied, "Only the author can delete a review")
	}

	user, err := d.userRepo.GetByID(ctx, userID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get the user: %v", err)
		return nil, errorx.Unknown
	}

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	if err := d.deleteReview(ctx, review.ID, entity.CharacterReviewType); err != nil {
		return nil, err
	}

	if err := d.characterReviewRepo.Delete(ctx, review.ID); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot delete the review: %v", err)
		return nil, errorx.Unknown
	}

	err = d.activityRepo.DeleteByIdentity(
		ctx, entity.CharacterReviewActivity, userID, review.CharacterID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot delete the activity: %v", err)
		return nil, errorx.Unknown
	}

	_, err = d.statsManager.Apply(ctx, user, time.Now(), func(stats *entity.UserStats) {
		stats.TotalReviews--
	})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot apply the stats change: %v", err)
		return nil, errorx.Unknown
	}

	xcontext.WithCommitDBTransaction(ctx)
	return &model.DeleteCharacterReviewResponse{}, nil
}

func (d *reviewDomain) GetCharacterList(
	ctx context.Context, req *model.GetCharacterReviewsRequest,
) (*model.GetCharacterReviewsResponse, error) {
	offset, limit, err := normalizePaging(ctx, req.Offset, req.Limit, reviewListDefaultLimit)
	if err != nil {
		return nil, err
	}

	reviews, err := d.characterReviewRepo.GetListByCharacterID(ctx, req.CharacterID, offset, limit)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get the reviews: %v", err)
		return nil, errorx.Unknown
	}

	resp := &model.GetCharacterReviewsResponse{}
	for i := range reviews {
		resp.Reviews = append(resp.Reviews, model.ConvertCharacterReview(&reviews[i]))
	}

	return resp, nil
}

func (d *reviewDomain) Like(
	ctx context.Context, req *model.LikeReviewRequest,
) (*model.LikeReviewResponse, error) {
	reviewType, err := enum.ToEnum[entity.ReviewType](req.ReviewType)
	if err != nil {
		return nil, errorx.New(errorx.BadRequest, "Invalid review type %s", req.ReviewType)
	}

	if err := d.checkReviewExists(ctx, req.ReviewID, reviewType); err != nil {
		return nil, err
	}

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	err = d.interactionRepo.CreateReviewLike(ctx, &entity.ReviewLike{
		UserID:     xcontext.RequestUserID(ctx),
		ReviewID:   req.ReviewID,
		ReviewType: reviewType,
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, errorx.New(errorx.AlreadyExists, "You already liked this review")
		}

		xcontext.Logger(ctx).Errorf("Cannot create the review like: %v", err)
		return nil, errorx.Unknown
	}

	if err := d.changeReviewLikesCount(ctx, req.ReviewID, reviewType, 1); err != nil {
		return nil, err
	}

	xcontext.WithCommitDBTransaction(ctx)
	return &model.LikeReviewResponse{}, nil
}

func (d *reviewDomain) Unlike(
	ctx context.Context, req *model.UnlikeReviewRequest,
) (*model.UnlikeReviewResponse, error) {
	reviewType, err := enum.ToEnum[entity.ReviewType](req.ReviewType)
	if err != nil {
		return nil, errorx.New(errorx.BadRequest, "Invalid review type %s", req.ReviewType)
	}

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	affected, err := d.interactionRepo.DeleteReviewLike(
		ctx, xcontext.RequestUserID(ctx), req.ReviewID, reviewType)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot delete the review like: %v", err)
		return nil, errorx.Unknown
	}

	if !affected {
		return nil, errorx.New(errorx.NotFound, "You did not like this review")
	}

	if err := d.changeReviewLikesCount(ctx, req.ReviewID, reviewType, -1); err != nil {
		return nil, err
	}

	xcontext.WithCommitDBTransaction(ctx)
	return &model.UnlikeReviewResponse{}, nil
}

// deleteReview removes the interactions hanging off a review before the
// review row itself goes away.
func (d *reviewDomain) deleteReview(
	ctx context.Context, reviewID string, reviewType entity.ReviewType,
) error {
	comments, err := d.commentRepo.GetListByReview(ctx, reviewID, reviewType, 0, -1)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get the review comments: %v", err)
		return errorx.Unknown
	}

	for i := range comments {
		if err := d.commentRepo.Delete(ctx, comments[i].ID); err != nil {
			xcontext.Logger(ctx).Errorf("Cannot delete the review comment: %v", err)
			return errorx.Unknown
		}
	}

	return nil
}

func (d *reviewDomain) checkReviewExists(
	ctx context.Context, reviewID string, reviewType entity.ReviewType,
) error {
	var err error
	switch reviewType {
	case entity.AnimeReviewType:
		_, err = d.animeReviewRepo.GetByID(ctx, reviewID)
	case entity.CharacterReviewType:
		_, err = d.characterReviewRepo.GetByID(ctx, reviewID)
	}

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errorx.New(errorx.NotFound, "Review not found")
		}

		xcontext.Logger(ctx).Errorf("Cannot get the review: %v", err)
		return errorx.Unknown
	}

	return nil
}

func (d *reviewDomain) changeReviewLikesCount(
	ctx context.Context, reviewID string, reviewType entity.ReviewType, delta int,
) error {
	var err error
	switch reviewType {
	case entity.AnimeReviewType:
		err = d.animeReviewRepo.ChangeLikesCount(ctx, reviewID, delta)
	case entity.CharacterReviewType:
		err = d.characterReviewRepo.ChangeLikesCount(ctx, reviewID, delta)
	}

	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot change the likes count: %v", err)
		return errorx.Unknown
	}

	return nil
}

func animeReviewActivity(
	user *entity.User, review *entity.AnimeReview, at time.Time,
) *entity.Activity {
	return &entity.Activity{
		Base:            entity.Base{ID: uuid.NewString()},
		ActivityType:    entity.AnimeReviewActivity,
		UserID:          user.ID,
		Username:        user.Username,
		DisplayName:     user.DisplayName,
		AvatarURL:       user.AvatarURL,
		ItemID:          sql.NullString{Valid: true, String: review.AnimeID},
		ItemTitle:       sql.NullString{Valid: true, String: review.AnimeTitle},
		ItemTitleKorean: review.AnimeTitleKorean,
		ItemImage:       review.AnimeImage,
		ItemYear:        review.AnimeYear,
		ReviewContent:   sql.NullString{Valid: true, String: review.Content},
		ActivityTime:    at,
	}
}

func characterReviewActivity(
	user *entity.User, review *entity.CharacterReview, at time.Time,
) *entity.Activity {
	return &entity.Activity{
		Base:             entity.Base{ID: uuid.NewString()},
		ActivityType:     entity.CharacterReviewActivity,
		UserID:           user.ID,
		Username:         user.Username,
		DisplayName:      user.DisplayName,
		AvatarURL:        user.AvatarURL,
		ItemID:           sql.NullString{Valid: true, String: review.CharacterID},
		ItemTitle:        sql.NullString{Valid: true, String: review.CharacterName},
		ItemTitleKorean:  review.CharacterNameKorean,
		ItemImage:        review.CharacterImage,
		AnimeID:          review.AnimeID,
		AnimeTitle:       review.AnimeTitle,
		AnimeTitleKorean: review.AnimeTitleKorean,
		AnimeTitleNative: review.AnimeTitleNative,
		ReviewContent:    sql.NullString{Valid: true, String: review.Content},
		ActivityTime:     at,
	}
}
