package domain

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/otakuhub/backend/internal/domain/rank"
	"github.com/otakuhub/backend/internal/entity"
	"github.com/otakuhub/backend/internal/model"
	"github.com/otakuhub/backend/internal/repository"
	"github.com/otakuhub/backend/pkg/errorx"
	"github.com/otakuhub/backend/pkg/prom"
	"github.com/otakuhub/backend/pkg/xcontext"
	"github.com/otakuhub/backend/pkg/xredis"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

const (
	defaultBackfillConcurrency = 4
	maxBackfillConcurrency     = 16
)

type BackfillDomain interface {
	BackfillUser(ctx context.Context, req *model.BackfillUserRequest) (*model.BackfillUserResponse, error)
	BackfillAll(ctx context.Context, req *model.BackfillAllRequest) (*model.BackfillAllResponse, error)
	RefreshSnapshots(ctx context.Context, req *model.RefreshSnapshotsRequest) (*model.RefreshSnapshotsResponse, error)
}

type backfillDomain struct {
	userRepo            repository.UserRepository
	animeRatingRepo     repository.AnimeRatingRepository
	characterRatingRepo repository.CharacterRatingRepository
	animeReviewRepo     repository.AnimeReviewRepository
	characterReviewRepo repository.CharacterReviewRepository
	userPostRepo        repository.UserPostRepository
	activityRepo        repository.ActivityRepository
	userStatsRepo       repository.UserStatsRepository
	redisClient         xredis.Client
}

func NewBackfillDomain(
	userRepo repository.UserRepository,
	animeRatingRepo repository.AnimeRatingRepository,
	characterRatingRepo repository.CharacterRatingRepository,
	animeReviewRepo repository.AnimeReviewRepository,
	characterReviewRepo repository.CharacterReviewRepository,
	userPostRepo repository.UserPostRepository,
	activityRepo repository.ActivityRepository,
	userStatsRepo repository.UserStatsRepository,
	redisClient xredis.Client,
) BackfillDomain {
	return &backfillDomain{
		userRepo:            userRepo,
		animeRatingRepo:     animeRatingRepo,
		characterRatingRepo: characterRatingRepo,
		animeReviewRepo:     animeReviewRepo,
		characterReviewRepo: characterReviewRepo,
		userPostRepo:        userPostRepo,
		activityRepo:        activityRepo,
		userStatsRepo:       userStatsRepo,
		redisClient:         redisClient,
	}
}

// backfillEvent is one fact in the replayed history of a user.
type backfillEvent struct {
	at        time.Time
	typeOrder int
	itemID    string

	activity *entity.Activity
	change   func(c *backfillCounters)
}

type backfillCounters struct {
	animeRated  int
	charRated   int
	reviews     int
	wantToWatch int
	pass        int
	ratingSum   float64
}

// typeOrder is the deterministic tie-break between facts sharing the same
// timestamp.
var typeOrder = map[entity.ActivityType]int{
	entity.AnimeRatingActivity:     0,
	entity.CharacterRatingActivity: 1,
	entity.AnimeReviewActivity:     2,
	entity.CharacterReviewActivity: 3,
	entity.UserPostActivity:        4,
}

func (d *backfillDomain) BackfillUser(
	ctx context.Context, req *model.BackfillUserRequest,
) (*model.BackfillUserResponse, error) {
	user, err := d.userRepo.GetByID(ctx, req.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "User not found")
		}

		xcontext.Logger(ctx).Errorf("Cannot get the user: %v", err)
		return nil, errorx.Unknown
	}

	promotions, stats, err := d.backfillOne(ctx, user)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot backfill user %s: %v", user.ID, err)
		return nil, errorx.Unknown
	}

	return &model.BackfillUserResponse{
		Promotions: promotions,
		Stats:      convertStats(stats),
	}, nil
}

func (d *backfillDomain) BackfillAll(
	ctx context.Context, req *model.BackfillAllRequest,
) (*model.BackfillAllResponse, error) {
	concurrency := req.Concurrency
	if concurrency <= 0 {
		concurrency = defaultBackfillConcurrency
	}

	if concurrency > maxBackfillConcurrency {
		concurrency = maxBackfillConcurrency
	}

	ids, err := d.userRepo.GetAllIDs(ctx)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get the user ids: %v", err)
		return nil, errorx.Unknown
	}

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(concurrency)
	for _, id := range ids {
		id := id
		group.Go(func() error {
			user, err := d.userRepo.GetByID(groupCtx, id)
			if err != nil {
				return err
			}

			_, _, err = d.backfillOne(groupCtx, user)
			return err
		})
	}

	if err := group.Wait(); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot backfill all users: %v", err)
		return nil, errorx.Unknown
	}

	return &model.BackfillAllResponse{Users: len(ids)}, nil
}

// backfillOne replays one user's facts in time order, reinserting rank
// promotions at the moment each threshold was first reached and upserting the
// fact activities along the way. Running it twice yields the same log.
func (d *backfillDomain) backfillOne(
	ctx context.Context, user *entity.User,
) (int, *entity.UserStats, error) {
	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	if err := d.activityRepo.DeleteRankPromotions(ctx, user.ID); err != nil {
		return 0, nil, err
	}

	events, err := d.collectEvents(ctx, user)
	if err != nil {
		return 0, nil, err
	}

	sort.Slice(events, func(i, j int) bool {
		if !events[i].at.Equal(events[j].at) {
			return events[i].at.Before(events[j].at)
		}

		if events[i].typeOrder != events[j].typeOrder {
			return events[i].typeOrder < events[j].typeOrder
		}

		return events[i].itemID < events[j].itemID
	})

	var counters backfillCounters
	promotions := 0
	for _, event := range events {
		oldScore := rank.Score(counters.animeRated, counters.charRated, counters.reviews)
		event.change(&counters)
		newScore := rank.Score(counters.animeRated, counters.charRated, counters.reviews)

		for _, crossing := range rank.Detect(oldScore, newScore) {
			err := d.activityRepo.Create(ctx, promotionActivity(user, crossing, event.at))
			if err != nil {
				return 0, nil, err
			}

			prom.PromotionTotal.Inc()
			promotions++
		}

		if err := d.activityRepo.Upsert(ctx, event.activity); err != nil {
			return 0, nil, err
		}
	}

	stats := &entity.UserStats{
		UserID:                user.ID,
		TotalRated:            counters.animeRated,
		TotalCharacterRatings: counters.charRated,
		TotalReviews:          counters.reviews,
		TotalWantToWatch:      counters.wantToWatch,
		TotalPass:             counters.pass,
		OtakuScore:            rank.Score(counters.animeRated, counters.charRated, counters.reviews),
		UpdatedAt:             time.Now(),
	}
	if counters.animeRated > 0 {
		stats.AverageRating = counters.ratingSum / float64(counters.animeRated)
	}

	if err := d.userStatsRepo.Save(ctx, stats); err != nil {
		return 0, nil, err
	}

	xcontext.WithCommitDBTransaction(ctx)

	if d.redisClient != nil {
		err := d.redisClient.ZAdd(ctx, leaderboardKey, float64(stats.OtakuScore), user.ID)
		if err != nil {
			xcontext.Logger(ctx).Warnf("Cannot update the leaderboard cache: %v", err)
		}
	}

	return promotions, stats, nil
}

func (d *backfillDomain) collectEvents(
	ctx context.Context, user *entity.User,
) ([]backfillEvent, error) {
	var events []backfillEvent

	animeRatings, err := d.animeRatingRepo.GetAllByUserID(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	for i := range animeRatings {
		rating := &animeRatings[i]
		events = append(events, backfillEvent{
			at:        rating.UpdatedAt,
			typeOrder: typeOrder[entity.AnimeRatingActivity],
			itemID:    rating.AnimeID,
			activity:  animeRatingActivity(user, rating, rating.UpdatedAt),
			change: func(c *backfillCounters) {
				switch rating.Status {
				case entity.AnimeRated:
					c.animeRated++
					c.ratingSum += *rating.Rating
				case entity.AnimeWantToWatch:
					c.wantToWatch++
				case entity.AnimePass:
					c.pass++
				}
			},
		})
	}

	characterRatings, err := d.characterRatingRepo.GetAllByUserID(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	for i := range characterRatings {
		rating := &characterRatings[i]
		events = append(events, backfillEvent{
			at:        rating.UpdatedAt,
			typeOrder: typeOrder[entity.CharacterRatingActivity],
			itemID:    rating.CharacterID,
			activity:  characterRatingActivity(user, rating, rating.UpdatedAt),
			change: func(c *backfillCounters) {
				if rating.Status == entity.CharacterRated {
					c.charRated++
				}
			},
		})
	}

	animeReviews, err := d.animeReviewRepo.GetAllByUserID(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	for i := range animeReviews {
		review := &animeReviews[i]
		events = append(events, backfillEvent{
			at:        review.CreatedAt,
			typeOrder: typeOrder[entity.AnimeReviewActivity],
			itemID:    review.AnimeID,
			activity:  animeReviewActivity(user, review, review.CreatedAt),
			change:    func(c *backfillCounters) { c.reviews++ },
		})
	}

	characterReviews, err := d.characterReviewRepo.GetAllByUserID(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	for i := range characterReviews {
		review := &characterReviews[i]
		events = append(events, backfillEvent{
			at:        review.CreatedAt,
			typeOrder: typeOrder[entity.CharacterReviewActivity],
			itemID:    review.CharacterID,
			activity:  characterReviewActivity(user, review, review.CreatedAt),
			change:    func(c *backfillCounters) { c.reviews++ },
		})
	}

	posts, err := d.userPostRepo.GetAllByUserID(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	for i := range posts {
		post := &posts[i]
		events = append(events, backfillEvent{
			at:        post.CreatedAt,
			typeOrder: typeOrder[entity.UserPostActivity],
			itemID:    post.ID,
			activity:  postActivity(user, post),
			change:    func(c *backfillCounters) {},
		})
	}

	return events, nil
}

func (d *backfillDomain) RefreshSnapshots(
	ctx context.Context, req *model.RefreshSnapshotsRequest,
) (*model.RefreshSnapshotsResponse, error) {
	user, err := d.userRepo.GetByID(ctx, req.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "User not found")
		}

		xcontext.Logger(ctx).Errorf("Cannot get the user: %v", err)
		return nil, errorx.Unknown
	}

	err = d.activityRepo.RefreshUserSnapshot(
		ctx, user.ID, user.Username, user.DisplayName, user.AvatarURL)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot refresh the snapshots: %v", err)
		return nil, errorx.Unknown
	}

	return &model.RefreshSnapshotsResponse{}, nil
}
