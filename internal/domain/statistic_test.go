package domain

import (
	"testing"

	"github.com/otakuhub/backend/internal/entity"
	"github.com/otakuhub/backend/internal/model"
	"github.com/otakuhub/backend/internal/repository"
	"github.com/otakuhub/backend/internal/testutil"
	"github.com/otakuhub/backend/pkg/errorx"
	"github.com/stretchr/testify/require"
)

func newTestStatisticDomain() StatisticDomain {
	return NewStatisticDomain(
		repository.NewUserRepository(),
		repository.NewUserStatsRepository(),
		nil,
	)
}

func TestGetUserStats(t *testing.T) {
	ctx := testutil.MockContext(t)
	user := testutil.SampleUser(t, ctx, nil)
	d := newTestStatisticDomain()

	_, err := d.GetUserStats(ctx, &model.GetUserStatsRequest{UserID: "missing"})
	require.Error(t, err)
	require.Equal(t, errorx.NotFound, err.(errorx.Error).Code)

	// No stats row yet, the zero profile is still served.
	resp, err := d.GetUserStats(ctx, &model.GetUserStatsRequest{UserID: user.ID})
	require.NoError(t, err)
	require.Equal(t, 0, resp.Stats.OtakuScore)
	require.Equal(t, "Rookie", resp.Stats.RankName)
	require.NotNil(t, resp.Stats.NextThreshold)
	require.Equal(t, 50, *resp.Stats.NextThreshold)

	require.NoError(t, repository.NewUserStatsRepository().Save(ctx, &entity.UserStats{
		UserID:       user.ID,
		TotalRated:   30,
		TotalReviews: 12,
		OtakuScore:   120,
	}))

	resp, err = d.GetUserStats(ctx, &model.GetUserStatsRequest{UserID: user.ID})
	require.NoError(t, err)
	require.Equal(t, 120, resp.Stats.OtakuScore)
	require.Equal(t, "Warrior", resp.Stats.RankName)
	require.Equal(t, 3, resp.Stats.RankLevel)
	require.Equal(t, 220, *resp.Stats.NextThreshold)
}

func TestGetUserStatsTerminalRank(t *testing.T) {
	ctx := testutil.MockContext(t)
	user := testutil.SampleUser(t, ctx, nil)
	d := newTestStatisticDomain()

	require.NoError(t, repository.NewUserStatsRepository().Save(ctx, &entity.UserStats{
		UserID:     user.ID,
		OtakuScore: 2500,
	}))

	resp, err := d.GetUserStats(ctx, &model.GetUserStatsRequest{UserID: user.ID})
	require.NoError(t, err)
	require.Equal(t, "OtakuGod", resp.Stats.RankName)
	require.Equal(t, 10, resp.Stats.RankLevel)
	require.Nil(t, resp.Stats.NextThreshold)
}

func TestGetLeaderboard(t *testing.T) {
	ctx := testutil.MockContext(t)
	d := newTestStatisticDomain()

	statsRepo := repository.NewUserStatsRepository()
	scores := []int{120, 560, 40}
	var users []*entity.User
	for _, score := range scores {
		user := testutil.SampleUser(t, ctx, nil)
		users = append(users, user)
		require.NoError(t, statsRepo.Save(ctx, &entity.UserStats{
			UserID:     user.ID,
			OtakuScore: score,
		}))
	}

	resp, err := d.GetLeaderboard(ctx, &model.GetLeaderboardRequest{Limit: 10})
	require.NoError(t, err)
	require.Len(t, resp.Entries, 3)
	require.Equal(t, users[1].ID, resp.Entries[0].User.ID)
	require.Equal(t, 560, resp.Entries[0].OtakuScore)
	require.Equal(t, "HighMaster", resp.Entries[0].RankName)
	require.Equal(t, 1, resp.Entries[0].Position)
	require.Equal(t, users[0].ID, resp.Entries[1].User.ID)
	require.Equal(t, users[2].ID, resp.Entries[2].User.ID)

	page, err := d.GetLeaderboard(ctx, &model.GetLeaderboardRequest{Offset: 1, Limit: 1})
	require.NoError(t, err)
	require.Len(t, page.Entries, 1)
	require.Equal(t, users[0].ID, page.Entries[0].User.ID)
	require.Equal(t, 2, page.Entries[0].Position)
}
