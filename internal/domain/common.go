package domain

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/otakuhub/backend/internal/domain/rank"
	"github.com/otakuhub/backend/internal/entity"
	"github.com/otakuhub/backend/internal/model"
	"github.com/otakuhub/backend/internal/repository"
	"github.com/otakuhub/backend/pkg/errorx"
	"github.com/otakuhub/backend/pkg/prom"
	"github.com/otakuhub/backend/pkg/xcontext"
	"github.com/otakuhub/backend/pkg/xredis"
	"gorm.io/gorm"
)

const leaderboardKey = "leaderboard:otaku_score"

// normalizePaging clamps a (offset, limit) pair against the configured
// bounds. A zero limit selects the given default.
func normalizePaging(ctx context.Context, offset, limit, defaultLimit int) (int, int, error) {
	cfg := xcontext.Configs(ctx).ApiServer
	if defaultLimit == 0 {
		defaultLimit = cfg.DefaultLimit
	}

	if limit == 0 {
		limit = defaultLimit
	}

	if limit < 0 || limit > cfg.MaxLimit {
		return 0, 0, errorx.New(errorx.BadRequest, "Limit must be in [1, %d]", cfg.MaxLimit)
	}

	if offset < 0 {
		return 0, 0, errorx.New(errorx.BadRequest, "Offset must not be negative")
	}

	return offset, limit, nil
}

// statsManager owns every online mutation of user_stats. It applies a counter
// change, recomputes the otaku score from the counters, and materializes one
// rank_promotion activity per crossed threshold at the triggering event's
// time.
type statsManager struct {
	userStatsRepo repository.UserStatsRepository
	activityRepo  repository.ActivityRepository
	redisClient   xredis.Client
}

func newStatsManager(
	userStatsRepo repository.UserStatsRepository,
	activityRepo repository.ActivityRepository,
	redisClient xredis.Client,
) *statsManager {
	return &statsManager{
		userStatsRepo: userStatsRepo,
		activityRepo:  activityRepo,
		redisClient:   redisClient,
	}
}

func (m *statsManager) Apply(
	ctx context.Context,
	user *entity.User,
	eventTime time.Time,
	change func(stats *entity.UserStats),
) ([]model.Promotion, error) {
	stats, err := m.userStatsRepo.Get(ctx, user.ID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}

		stats = &entity.UserStats{UserID: user.ID}
	}

	oldScore := rank.Score(stats.TotalRated, stats.TotalCharacterRatings, stats.TotalReviews)
	change(stats)
	newScore := rank.Score(stats.TotalRated, stats.TotalCharacterRatings, stats.TotalReviews)
	stats.OtakuScore = newScore
	stats.UpdatedAt = time.Now()

	var promotions []model.Promotion
	for _, crossing := range rank.Detect(oldScore, newScore) {
		if err := m.activityRepo.Create(ctx, promotionActivity(user, crossing, eventTime)); err != nil {
			return nil, err
		}

		prom.PromotionTotal.Inc()
		promotions = append(promotions, model.Promotion{
			OldRank:    crossing.From.Name,
			OldLevel:   crossing.From.Level,
			NewRank:    crossing.To.Name,
			NewLevel:   crossing.To.Level,
			OtakuScore: crossing.Score,
		})
	}

	if err := m.userStatsRepo.Save(ctx, stats); err != nil {
		return nil, err
	}

	if m.redisClient != nil {
		err := m.redisClient.ZAdd(ctx, leaderboardKey, float64(newScore), user.ID)
		if err != nil {
			xcontext.Logger(ctx).Warnf("Cannot update the leaderboard cache: %v", err)
		}
	}

	return promotions, nil
}

func promotionActivity(user *entity.User, crossing rank.Crossing, at time.Time) *entity.Activity {
	return &entity.Activity{
		Base:         entity.Base{ID: uuid.NewString()},
		ActivityType: entity.RankPromotionActivity,
		UserID:       user.ID,
		Username:     user.Username,
		DisplayName:  user.DisplayName,
		AvatarURL:    user.AvatarURL,
		Metadata: entity.Map{
			"old_rank":    crossing.From.Name,
			"old_level":   crossing.From.Level,
			"new_rank":    crossing.To.Name,
			"new_level":   crossing.To.Level,
			"otaku_score": crossing.Score,
		},
		ActivityTime: at,
	}
}
