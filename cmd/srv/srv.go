package main

import (
	"context"

	"github.com/otakuhub/backend/config"
	"github.com/otakuhub/backend/internal/domain"
	"github.com/otakuhub/backend/internal/model"
	"github.com/otakuhub/backend/internal/repository"
	"github.com/otakuhub/backend/pkg/authenticator"
	"github.com/otakuhub/backend/pkg/logger"
	"github.com/otakuhub/backend/pkg/mailer"
	"github.com/otakuhub/backend/pkg/router"
	"github.com/otakuhub/backend/pkg/xcontext"
	"github.com/otakuhub/backend/pkg/xredis"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type srv struct {
	configs config.Configs
	logger  logger.Logger
	db      *gorm.DB

	redisClient   xredis.Client
	oauth2Service authenticator.IOAuth2Service
	mailService   mailer.Mailer

	verifyEmailEngine authenticator.TokenEngine[model.VerifyEmailToken]

	userRepo            repository.UserRepository
	userStatsRepo       repository.UserStatsRepository
	animeRatingRepo     repository.AnimeRatingRepository
	characterRatingRepo repository.CharacterRatingRepository
	animeReviewRepo     repository.AnimeReviewRepository
	characterReviewRepo repository.CharacterReviewRepository
	commentRepo         repository.ReviewCommentRepository
	userPostRepo        repository.UserPostRepository
	followRepo          repository.FollowRepository
	activityRepo        repository.ActivityRepository
	interactionRepo     repository.InteractionRepository

	authDomain      domain.AuthDomain
	userDomain      domain.UserDomain
	ratingDomain    domain.RatingDomain
	reviewDomain    domain.ReviewDomain
	commentDomain   domain.CommentDomain
	postDomain      domain.PostDomain
	followDomain    domain.FollowDomain
	feedDomain      domain.FeedDomain
	statisticDomain domain.StatisticDomain
	backfillDomain  domain.BackfillDomain
	adminDomain     domain.AdminDomain

	router *router.Router
}

func (s *srv) loadConfig() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	s.configs = cfg
}

func (s *srv) loadLogger() {
	s.logger = logger.NewLogger(logger.ParseLevel(s.configs.LogLevel))
}

// loadDatabase opens the sqlite file in WAL mode. The pool is capped at one
// connection so every write serializes on the single writer.
func (s *srv) loadDatabase() {
	db, err := gorm.Open(sqlite.Open(s.configs.Database.DSN()), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	if err != nil {
		panic(err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		panic(err)
	}
	sqlDB.SetMaxOpenConns(1)

	s.db = db
}

// loadRedis connects the leaderboard cache. Redis is optional, every caller
// of the client falls back to the database when it is nil.
func (s *srv) loadRedis(ctx context.Context) {
	if s.configs.Redis.Addr == "" {
		s.logger.Infof("No redis address configured, leaderboard serves from the database")
		return
	}

	client, err := xredis.NewClient(ctx, s.configs.Redis.Addr)
	if err != nil {
		s.logger.Warnf("Cannot connect to redis: %v", err)
		return
	}

	s.redisClient = client
}

func (s *srv) loadOAuth2(ctx context.Context) {
	if s.configs.Auth.Google.ClientID == "" {
		s.logger.Infof("No google client configured, google login is disabled")
		return
	}

	service, err := authenticator.NewOAuth2Service(ctx, s.configs.Auth.Google)
	if err != nil {
		panic(err)
	}

	s.oauth2Service = service
}

func (s *srv) loadMailer() {
	s.mailService = mailer.New(s.configs.Mail)
}

func (s *srv) loadRepos() {
	s.userRepo = repository.NewUserRepository()
	s.userStatsRepo = repository.NewUserStatsRepository()
	s.animeRatingRepo = repository.NewAnimeRatingRepository()
	s.characterRatingRepo = repository.NewCharacterRatingRepository()
	s.animeReviewRepo = repository.NewAnimeReviewRepository()
	s.characterReviewRepo = repository.NewCharacterReviewRepository()
	s.commentRepo = repository.NewReviewCommentRepository()
	s.userPostRepo = repository.NewUserPostRepository()
	s.followRepo = repository.NewFollowRepository()
	s.activityRepo = repository.NewActivityRepository()
	s.interactionRepo = repository.NewInteractionRepository()
}

func (s *srv) loadDomains() {
	s.verifyEmailEngine = authenticator.NewTokenEngine[model.VerifyEmailToken](
		s.configs.Auth.VerifyEmailToken)

	s.authDomain = domain.NewAuthDomain(
		s.userRepo, s.userStatsRepo, s.verifyEmailEngine, s.oauth2Service, s.mailService)
	s.userDomain = domain.NewUserDomain(s.userRepo, s.activityRepo)
	s.ratingDomain = domain.NewRatingDomain(
		s.userRepo, s.animeRatingRepo, s.characterRatingRepo,
		s.activityRepo, s.userStatsRepo, s.redisClient)
	s.reviewDomain = domain.NewReviewDomain(
		s.userRepo, s.animeReviewRepo, s.characterReviewRepo,
		s.commentRepo, s.interactionRepo, s.activityRepo, s.userStatsRepo, s.redisClient)
	s.commentDomain = domain.NewCommentDomain(
		s.commentRepo, s.interactionRepo, s.animeReviewRepo, s.characterReviewRepo)
	s.postDomain = domain.NewPostDomain(s.userRepo, s.userPostRepo, s.activityRepo)
	s.followDomain = domain.NewFollowDomain(s.userRepo, s.followRepo)
	s.feedDomain = domain.NewFeedDomain(s.activityRepo, s.interactionRepo, s.followRepo)
	s.statisticDomain = domain.NewStatisticDomain(s.userRepo, s.userStatsRepo, s.redisClient)
	s.backfillDomain = domain.NewBackfillDomain(
		s.userRepo, s.animeRatingRepo, s.characterRatingRepo,
		s.animeReviewRepo, s.characterReviewRepo, s.userPostRepo,
		s.activityRepo, s.userStatsRepo, s.redisClient)
	s.adminDomain = domain.NewAdminDomain(s.userRepo)
}

// newContext assembles the base context every request and command starts
// from.
func (s *srv) newContext() context.Context {
	ctx := context.Background()
	ctx = xcontext.WithDB(ctx, s.db)
	ctx = xcontext.WithLogger(ctx, s.logger)
	ctx = xcontext.WithConfigs(ctx, s.configs)
	ctx = xcontext.WithTokenEngine(ctx,
		authenticator.NewTokenEngine[model.AccessToken](s.configs.Auth.AccessToken))

	return ctx
}
