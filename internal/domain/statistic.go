package domain

import (
	"context"
	"errors"

	"github.com/otakuhub/backend/internal/domain/rank"
	"github.com/otakuhub/backend/internal/entity"
	"github.com/otakuhub/backend/internal/model"
	"github.com/otakuhub/backend/internal/repository"
	"github.com/otakuhub/backend/pkg/errorx"
	"github.com/otakuhub/backend/pkg/xcontext"
	"github.com/otakuhub/backend/pkg/xredis"
	"gorm.io/gorm"
)

type StatisticDomain interface {
	GetUserStats(ctx context.Context, req *model.GetUserStatsRequest) (*model.GetUserStatsResponse, error)
	GetLeaderboard(ctx context.Context, req *model.GetLeaderboardRequest) (*model.GetLeaderboardResponse, error)
}

type statisticDomain struct {
	userRepo      repository.UserRepository
	userStatsRepo repository.UserStatsRepository
	redisClient   xredis.Client
}

func NewStatisticDomain(
	userRepo repository.UserRepository,
	userStatsRepo repository.UserStatsRepository,
	redisClient xredis.Client,
) StatisticDomain {
	return &statisticDomain{
		userRepo:      userRepo,
		userStatsRepo: userStatsRepo,
		redisClient:   redisClient,
	}
}

func (d *statisticDomain) GetUserStats(
	ctx context.Context, req *model.GetUserStatsRequest,
) (*model.GetUserStatsResponse, error) {
	if _, err := d.userRepo.GetByID(ctx, req.UserID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "User not found")
		}

		xcontext.Logger(ctx).Errorf("Cannot get the user: %v", err)
		return nil, errorx.Unknown
	}

	stats, err := d.userStatsRepo.Get(ctx, req.UserID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			xcontext.Logger(ctx).Errorf("Cannot get the user stats: %v", err)
			return nil, errorx.Unknown
		}

		stats = &entity.UserStats{UserID: req.UserID}
	}

	return &model.GetUserStatsResponse{Stats: convertStats(stats)}, nil
}

func convertStats(stats *entity.UserStats) model.UserStats {
	currentRank := rank.Of(stats.OtakuScore)
	converted := model.UserStats{
		UserID:                stats.UserID,
		TotalRated:            stats.TotalRated,
		TotalCharacterRatings: stats.TotalCharacterRatings,
		TotalReviews:          stats.TotalReviews,
		TotalWantToWatch:      stats.TotalWantToWatch,
		TotalPass:             stats.TotalPass,
		AverageRating:         stats.AverageRating,
		OtakuScore:            stats.OtakuScore,
		RankName:              currentRank.Name,
		RankLevel:             currentRank.Level,
	}

	if next, ok := rank.NextThreshold(stats.OtakuScore); ok {
		converted.NextThreshold = &next
	}

	return converted
}

func (d *statisticDomain) GetLeaderboard(
	ctx context.Context, req *model.GetLeaderboardRequest,
) (*model.GetLeaderboardResponse, error) {
	offset, limit, err := normalizePaging(ctx, req.Offset, req.Limit, 0)
	if err != nil {
		return nil, err
	}

	entries, err := d.leaderboardPage(ctx, offset, limit)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get the leaderboard: %v", err)
		return nil, errorx.Unknown
	}

	if len(entries) == 0 {
		return &model.GetLeaderboardResponse{}, nil
	}

	ids := make([]string, 0, len(entries))
	for _, e := range entries {
		ids = append(ids, e.userID)
	}

	users, err := d.userRepo.GetByIDs(ctx, ids)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get the users: %v", err)
		return nil, errorx.Unknown
	}

	byID := make(map[string]*entity.User, len(users))
	for i := range users {
		byID[users[i].ID] = &users[i]
	}

	resp := &model.GetLeaderboardResponse{}
	for i, e := range entries {
		user, ok := byID[e.userID]
		if !ok {
			continue
		}

		userRank := rank.Of(e.score)
		resp.Entries = append(resp.Entries, model.LeaderboardEntry{
			User:       model.ConvertShortUser(user),
			OtakuScore: e.score,
			RankName:   userRank.Name,
			RankLevel:  userRank.Level,
			Position:   offset + i + 1,
		})
	}

	return resp, nil
}

type leaderboardEntry struct {
	userID string
	score  int
}

// leaderboardPage reads a page from the redis sorted set and falls back to
// the database when the cache is missing or cold. The fallback path warms
// the cache for the fetched page.
func (d *statisticDomain) leaderboardPage(
	ctx context.Context, offset, limit int,
) ([]leaderboardEntry, error) {
	if d.redisClient != nil {
		zs, err := d.redisClient.ZRevRangeWithScores(ctx, leaderboardKey, offset, limit)
		if err != nil {
			xcontext.Logger(ctx).Warnf("Cannot read the leaderboard cache: %v", err)
		} else if len(zs) > 0 {
			entries := make([]leaderboardEntry, 0, len(zs))
			for _, z := range zs {
				member, ok := z.Member.(string)
				if !ok {
					continue
				}

				entries = append(entries, leaderboardEntry{userID: member, score: int(z.Score)})
			}

			return entries, nil
		}
	}

	stats, err := d.userStatsRepo.GetLeaderboard(ctx, offset, limit)
	if err != nil {
		return nil, err
	}

	entries := make([]leaderboardEntry, 0, len(stats))
	for i := range stats {
		entries = append(entries, leaderboardEntry{
			userID: stats[i].UserID,
			score:  stats[i].OtakuScore,
		})

		if d.redisClient != nil {
			err := d.redisClient.ZAdd(
				ctx, leaderboardKey, float64(stats[i].OtakuScore), stats[i].UserID)
			if err != nil {
				xcontext.Logger(ctx).Warnf("Cannot warm the leaderboard cache: %v", err)
			}
		}
	}

	return entries, nil
}
