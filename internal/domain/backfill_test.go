package domain

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/otakuhub/backend/internal/domain/rank"
	"github.com/otakuhub/backend/internal/entity"
	"github.com/otakuhub/backend/internal/model"
	"github.com/otakuhub/backend/internal/repository"
	"github.com/otakuhub/backend/internal/testutil"
	"github.com/stretchr/testify/require"
)

func newTestBackfillDomain() BackfillDomain {
	return NewBackfillDomain(
		repository.NewUserRepository(),
		repository.NewAnimeRatingRepository(),
		repository.NewCharacterRatingRepository(),
		repository.NewAnimeReviewRepository(),
		repository.NewCharacterReviewRepository(),
		repository.NewUserPostRepository(),
		repository.NewActivityRepository(),
		repository.NewUserStatsRepository(),
		nil,
	)
}

// seedHistory writes 30 rated anime and 12 reviews straight into the fact
// tables, one day apart. The running score crosses 50 at the 25th rating and
// 120 at the 12th review.
func seedHistory(t *testing.T, ctx context.Context, userID string) (ratedAt, reviewedAt []time.Time) {
	base := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	animeRatingRepo := repository.NewAnimeRatingRepository()
	for i := 0; i < 30; i++ {
		at := base.AddDate(0, 0, i)
		ratedAt = append(ratedAt, at)
		require.NoError(t, animeRatingRepo.Upsert(ctx, &entity.AnimeRating{
			Base:       entity.Base{ID: uuid.NewString(), CreatedAt: at, UpdatedAt: at},
			UserID:     userID,
			AnimeID:    fmt.Sprintf("anime-%03d", i),
			Status:     entity.AnimeRated,
			Rating:     ptrFloat(4),
			AnimeTitle: fmt.Sprintf("Anime %03d", i),
		}))
	}

	animeReviewRepo := repository.NewAnimeReviewRepository()
	for i := 0; i < 12; i++ {
		at := base.AddDate(0, 0, 40+i)
		reviewedAt = append(reviewedAt, at)
		require.NoError(t, animeReviewRepo.Create(ctx, &entity.AnimeReview{
			Base:       entity.Base{ID: uuid.NewString(), CreatedAt: at, UpdatedAt: at},
			UserID:     userID,
			AnimeID:    fmt.Sprintf("anime-%03d", i),
			Content:    "a review long enough to matter",
			AnimeTitle: fmt.Sprintf("Anime %03d", i),
		}))
	}

	return ratedAt, reviewedAt
}

func TestBackfillUserRebuildsHistory(t *testing.T) {
	ctx := testutil.MockContext(t)
	user := testutil.SampleUser(t, ctx, nil)
	ratedAt, reviewedAt := seedHistory(t, ctx, user.ID)

	d := newTestBackfillDomain()
	resp, err := d.BackfillUser(ctx, &model.BackfillUserRequest{UserID: user.ID})
	require.NoError(t, err)
	require.Equal(t, 2, resp.Promotions)
	require.Equal(t, 30, resp.Stats.TotalRated)
	require.Equal(t, 12, resp.Stats.TotalReviews)
	require.Equal(t, 120, resp.Stats.OtakuScore)
	require.Equal(t, "Warrior", resp.Stats.RankName)
	require.InDelta(t, 4, resp.Stats.AverageRating, 1e-9)

	promotions, err := repository.NewActivityRepository().GetRankPromotions(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, promotions, 2)

	// First crossing lands on the 25th rating, second on the 12th review.
	require.Equal(t, "Hunter", promotions[0].Metadata["new_rank"])
	require.WithinDuration(t, ratedAt[24], promotions[0].ActivityTime, time.Second)
	require.Equal(t, "Warrior", promotions[1].Metadata["new_rank"])
	require.WithinDuration(t, reviewedAt[11], promotions[1].ActivityTime, time.Second)

	activities, err := repository.NewActivityRepository().GetList(ctx, repository.ActivityFilter{
		UserID: user.ID,
		Limit:  100,
	})
	require.NoError(t, err)
	require.Len(t, activities, 44)
}

func TestBackfillIsIdempotent(t *testing.T) {
	ctx := testutil.MockContext(t)
	user := testutil.SampleUser(t, ctx, nil)
	seedHistory(t, ctx, user.ID)

	// A stale promotion from a previous run must not survive.
	stale := promotionActivity(user, rank.Crossing{
		From:  rank.Rank{Name: "Otaku", Level: 8},
		To:    rank.Rank{Name: "OtakuKing", Level: 9},
		Score: 1450,
	}, time.Now())
	require.NoError(t, repository.NewActivityRepository().Create(ctx, stale))

	d := newTestBackfillDomain()
	first, err := d.BackfillUser(ctx, &model.BackfillUserRequest{UserID: user.ID})
	require.NoError(t, err)

	second, err := d.BackfillUser(ctx, &model.BackfillUserRequest{UserID: user.ID})
	require.NoError(t, err)
	require.Equal(t, first.Promotions, second.Promotions)
	require.Equal(t, first.Stats, second.Stats)

	activities, err := repository.NewActivityRepository().GetList(ctx, repository.ActivityFilter{
		UserID: user.ID,
		Limit:  100,
	})
	require.NoError(t, err)
	require.Len(t, activities, 44)
}

func TestBackfillAll(t *testing.T) {
	ctx := testutil.MockContext(t)
	first := testutil.SampleUser(t, ctx, nil)
	second := testutil.SampleUser(t, ctx, nil)
	seedHistory(t, ctx, first.ID)

	d := newTestBackfillDomain()
	resp, err := d.BackfillAll(ctx, &model.BackfillAllRequest{Concurrency: 1})
	require.NoError(t, err)
	require.Equal(t, 2, resp.Users)

	stats, err := repository.NewUserStatsRepository().Get(ctx, first.ID)
	require.NoError(t, err)
	require.Equal(t, 120, stats.OtakuScore)

	stats, err = repository.NewUserStatsRepository().Get(ctx, second.ID)
	require.NoError(t, err)
	require.Equal(t, 0, stats.OtakuScore)
}
