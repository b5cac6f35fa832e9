package domain

import (
	"context"
	"fmt"
	"testing"

	"github.com/otakuhub/backend/internal/entity"
	"github.com/otakuhub/backend/internal/model"
	"github.com/otakuhub/backend/internal/repository"
	"github.com/otakuhub/backend/internal/testutil"
	"github.com/otakuhub/backend/pkg/errorx"
	"github.com/otakuhub/backend/pkg/xcontext"
	"github.com/stretchr/testify/require"
)

func newTestRatingDomain() RatingDomain {
	return NewRatingDomain(
		repository.NewUserRepository(),
		repository.NewAnimeRatingRepository(),
		repository.NewCharacterRatingRepository(),
		repository.NewActivityRepository(),
		repository.NewUserStatsRepository(),
		nil,
	)
}

func ptrFloat(v float64) *float64 {
	return &v
}

// rateAnime rates n distinct anime as the context user, 2 score points each.
func rateAnime(t *testing.T, ctx context.Context, d RatingDomain, n int) *model.UpsertAnimeRatingResponse {
	var resp *model.UpsertAnimeRatingResponse
	var err error
	for i := 0; i < n; i++ {
		resp, err = d.UpsertAnime(ctx, &model.UpsertAnimeRatingRequest{
			AnimeID:    fmt.Sprintf("anime-%03d", i),
			Status:     "RATED",
			Rating:     ptrFloat(4),
			AnimeTitle: fmt.Sprintf("Anime %03d", i),
		})
		require.NoError(t, err)
	}

	return resp
}

func TestUpsertAnimeRatingValidation(t *testing.T) {
	ctx := testutil.MockContext(t)
	user := testutil.SampleUser(t, ctx, nil)
	ctx = xcontext.WithRequestUserID(ctx, user.ID)
	d := newTestRatingDomain()

	testcases := []struct {
		name string
		req  *model.UpsertAnimeRatingRequest
	}{
		{
			name: "unknown status",
			req: &model.UpsertAnimeRatingRequest{
				AnimeID: "a1", AnimeTitle: "A1", Status: "WATCHING",
			},
		},
		{
			name: "rated without value",
			req: &model.UpsertAnimeRatingRequest{
				AnimeID: "a1", AnimeTitle: "A1", Status: "RATED",
			},
		},
		{
			name: "value without rated status",
			req: &model.UpsertAnimeRatingRequest{
				AnimeID: "a1", AnimeTitle: "A1", Status: "PASS", Rating: ptrFloat(3),
			},
		},
		{
			name: "value off the half step grid",
			req: &model.UpsertAnimeRatingRequest{
				AnimeID: "a1", AnimeTitle: "A1", Status: "RATED", Rating: ptrFloat(3.3),
			},
		},
		{
			name: "value out of range",
			req: &model.UpsertAnimeRatingRequest{
				AnimeID: "a1", AnimeTitle: "A1", Status: "RATED", Rating: ptrFloat(5.5),
			},
		},
		{
			name: "missing title",
			req: &model.UpsertAnimeRatingRequest{
				AnimeID: "a1", Status: "PASS",
			},
		},
	}

	for _, tc := range testcases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := d.UpsertAnime(ctx, tc.req)
			require.Error(t, err)
			require.Equal(t, errorx.BadRequest, err.(errorx.Error).Code)
		})
	}
}

func TestUpsertAnimeRatingFirstPromotion(t *testing.T) {
	ctx := testutil.MockContext(t)
	user := testutil.SampleUser(t, ctx, nil)
	ctx = xcontext.WithRequestUserID(ctx, user.ID)
	d := newTestRatingDomain()

	// 24 ratings leave the score at 48, one short of the first threshold.
	resp := rateAnime(t, ctx, d, 24)
	require.Empty(t, resp.Promotions)

	resp, err := d.UpsertAnime(ctx, &model.UpsertAnimeRatingRequest{
		AnimeID:    "the-25th",
		Status:     "RATED",
		Rating:     ptrFloat(5),
		AnimeTitle: "The 25th",
	})
	require.NoError(t, err)
	require.Len(t, resp.Promotions, 1)
	require.Equal(t, "Rookie", resp.Promotions[0].OldRank)
	require.Equal(t, 1, resp.Promotions[0].OldLevel)
	require.Equal(t, "Hunter", resp.Promotions[0].NewRank)
	require.Equal(t, 2, resp.Promotions[0].NewLevel)
	require.Equal(t, 50, resp.Promotions[0].OtakuScore)

	stats, err := repository.NewUserStatsRepository().Get(ctx, user.ID)
	require.NoError(t, err)
	require.Equal(t, 25, stats.TotalRated)
	require.Equal(t, 50, stats.OtakuScore)

	promotions, err := repository.NewActivityRepository().GetRankPromotions(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, promotions, 1)
	require.Equal(t, "Hunter", promotions[0].Metadata["new_rank"])
}

func TestReRateKeepsOneActivity(t *testing.T) {
	ctx := testutil.MockContext(t)
	user := testutil.SampleUser(t, ctx, nil)
	ctx = xcontext.WithRequestUserID(ctx, user.ID)
	d := newTestRatingDomain()

	_, err := d.UpsertAnime(ctx, &model.UpsertAnimeRatingRequest{
		AnimeID: "a1", AnimeTitle: "A1", Status: "RATED", Rating: ptrFloat(4),
	})
	require.NoError(t, err)

	_, err = d.UpsertAnime(ctx, &model.UpsertAnimeRatingRequest{
		AnimeID: "a1", AnimeTitle: "A1", Status: "RATED", Rating: ptrFloat(4.5),
	})
	require.NoError(t, err)

	activities, err := repository.NewActivityRepository().GetList(ctx, repository.ActivityFilter{
		UserID: user.ID,
		Types:  []entity.ActivityType{entity.AnimeRatingActivity},
		Limit:  10,
	})
	require.NoError(t, err)
	require.Len(t, activities, 1)
	require.Equal(t, 4.5, *activities[0].Rating)

	stats, err := repository.NewUserStatsRepository().Get(ctx, user.ID)
	require.NoError(t, err)
	require.Equal(t, 1, stats.TotalRated)
	require.InDelta(t, 4.5, stats.AverageRating, 1e-9)
}

func TestStatusChangeMovesCounters(t *testing.T) {
	ctx := testutil.MockContext(t)
	user := testutil.SampleUser(t, ctx, nil)
	ctx = xcontext.WithRequestUserID(ctx, user.ID)
	d := newTestRatingDomain()

	_, err := d.UpsertAnime(ctx, &model.UpsertAnimeRatingRequest{
		AnimeID: "a1", AnimeTitle: "A1", Status: "RATED", Rating: ptrFloat(3),
	})
	require.NoError(t, err)

	_, err = d.UpsertAnime(ctx, &model.UpsertAnimeRatingRequest{
		AnimeID: "a1", AnimeTitle: "A1", Status: "WANT_TO_WATCH",
	})
	require.NoError(t, err)

	stats, err := repository.NewUserStatsRepository().Get(ctx, user.ID)
	require.NoError(t, err)
	require.Equal(t, 0, stats.TotalRated)
	require.Equal(t, 1, stats.TotalWantToWatch)
	require.Equal(t, 0, stats.OtakuScore)
	require.Zero(t, stats.AverageRating)
}

func TestDeleteRatingKeepsPromotions(t *testing.T) {
	ctx := testutil.MockContext(t)
	user := testutil.SampleUser(t, ctx, nil)
	ctx = xcontext.WithRequestUserID(ctx, user.ID)
	d := newTestRatingDomain()

	rateAnime(t, ctx, d, 25)

	_, err := d.DeleteAnime(ctx, &model.DeleteAnimeRatingRequest{AnimeID: "anime-000"})
	require.NoError(t, err)

	stats, err := repository.NewUserStatsRepository().Get(ctx, user.ID)
	require.NoError(t, err)
	require.Equal(t, 24, stats.TotalRated)
	require.Equal(t, 48, stats.OtakuScore)

	// The score dropped below the threshold but the promotion is history.
	promotions, err := repository.NewActivityRepository().GetRankPromotions(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, promotions, 1)

	activities, err := repository.NewActivityRepository().GetList(ctx, repository.ActivityFilter{
		UserID: user.ID,
		Types:  []entity.ActivityType{entity.AnimeRatingActivity},
		Limit:  100,
	})
	require.NoError(t, err)
	require.Len(t, activities, 24)

	_, err = d.DeleteAnime(ctx, &model.DeleteAnimeRatingRequest{AnimeID: "anime-000"})
	require.Error(t, err)
	require.Equal(t, errorx.NotFound, err.(errorx.Error).Code)
}

func TestCharacterRatingCountsOnlyRated(t *testing.T) {
	ctx := testutil.MockContext(t)
	user := testutil.SampleUser(t, ctx, nil)
	ctx = xcontext.WithRequestUserID(ctx, user.ID)
	d := newTestRatingDomain()

	_, err := d.UpsertCharacter(ctx, &model.UpsertCharacterRatingRequest{
		CharacterID: "c1", CharacterName: "C1", Status: "RATED", Rating: ptrFloat(5),
	})
	require.NoError(t, err)

	_, err = d.UpsertCharacter(ctx, &model.UpsertCharacterRatingRequest{
		CharacterID: "c2", CharacterName: "C2", Status: "WANT_TO_KNOW",
	})
	require.NoError(t, err)

	stats, err := repository.NewUserStatsRepository().Get(ctx, user.ID)
	require.NoError(t, err)
	require.Equal(t, 1, stats.TotalCharacterRatings)
	require.Equal(t, 1, stats.OtakuScore)

	// Both verdicts appear in the feed regardless of status.
	activities, err := repository.NewActivityRepository().GetList(ctx, repository.ActivityFilter{
		UserID: user.ID,
		Types:  []entity.ActivityType{entity.CharacterRatingActivity},
		Limit:  10,
	})
	require.NoError(t, err)
	require.Len(t, activities, 2)
}
