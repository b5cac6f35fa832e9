package main

import (
	"fmt"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/otakuhub/backend/internal/middleware"
	"github.com/otakuhub/backend/pkg/prom"
	"github.com/otakuhub/backend/pkg/router"
	"github.com/urfave/cli/v2"
)

func (s *srv) startApi(*cli.Context) error {
	s.loadConfig()
	s.loadLogger()
	s.loadDatabase()

	ctx := s.newContext()
	s.loadRedis(ctx)
	s.loadOAuth2(ctx)
	s.loadMailer()
	s.loadRepos()
	s.loadDomains()
	s.loadRouter()

	addr := fmt.Sprintf("%s:%s", s.configs.ApiServer.Host, s.configs.ApiServer.Port)
	s.logger.Infof("Starting server on %s", addr)
	return http.ListenAndServe(addr, s.router.Handler())
}

func (s *srv) loadRouter() {
	gin.SetMode(gin.ReleaseMode)
	s.router = router.New(s.newContext())

	corsCfg := cors.Config{
		AllowOrigins: s.configs.ApiServer.AllowedOrigins,
		AllowMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Authorization", "X-Admin-Secret"},
	}
	if len(corsCfg.AllowOrigins) == 0 {
		corsCfg.AllowAllOrigins = true
	}
	s.router.Inner.Use(cors.New(corsCfg))
	s.router.Before(middleware.ParseToken())

	s.router.Raw(http.MethodGet, "/healthz", s.handleHealthz)
	s.router.Inner.GET("/metrics", gin.WrapH(prom.NewHandler()))

	// Auth API
	router.POST(s.router, "/auth/register", s.authDomain.Register, router.WithStatus(http.StatusCreated))
	router.POST(s.router, "/auth/login", s.authDomain.Login)
	router.POST(s.router, "/auth/google", s.authDomain.GoogleLogin)
	router.GET(s.router, "/auth/verify-email", s.authDomain.VerifyEmail)
	s.router.Raw(http.MethodGet, "/auth/google", s.handleGoogleRedirect)
	s.router.Raw(http.MethodGet, "/auth/google/callback", s.handleGoogleCallback)

	// Public reads
	router.GET(s.router, "/users/:user_id", s.userDomain.GetUser)
	router.GET(s.router, "/ratings", s.ratingDomain.GetAnimeList)
	router.GET(s.router, "/character-ratings", s.ratingDomain.GetCharacterList)
	router.GET(s.router, "/reviews", s.reviewDomain.GetAnimeList)
	router.GET(s.router, "/character-reviews", s.reviewDomain.GetCharacterList)
	router.GET(s.router, "/comments", s.commentDomain.GetList)
	router.GET(s.router, "/user-posts", s.postDomain.GetList)
	router.GET(s.router, "/feed", s.feedDomain.GetFeed)
	router.GET(s.router, "/feed/user/:id", s.feedDomain.GetUserFeed)
	router.GET(s.router, "/activity-comments", s.feedDomain.GetActivityComments)
	router.GET(s.router, "/follows/:user_id/followers", s.followDomain.GetFollowers)
	router.GET(s.router, "/follows/:user_id/following", s.followDomain.GetFollowing)
	router.GET(s.router, "/follows/:user_id/follow-counts", s.followDomain.GetFollowCounts)
	router.GET(s.router, "/leaderboard", s.statisticDomain.GetLeaderboard)
	router.GET(s.router, "/user-stats/:id", s.statisticDomain.GetUserStats)

	// Everything below needs a logged-in user.
	authed := s.router.Branch("/")
	authed.Before(middleware.Authenticate())

	router.GET(authed, "/auth/me", s.authDomain.GetMe)
	router.POST(authed, "/auth/resend-verification", s.authDomain.ResendVerification)
	router.PUT(authed, "/users", s.userDomain.UpdateUser)

	router.POST(authed, "/ratings", s.ratingDomain.UpsertAnime)
	router.DELETE(authed, "/ratings", s.ratingDomain.DeleteAnime)
	router.GET(authed, "/ratings/me", s.ratingDomain.GetAnime)
	router.POST(authed, "/character-ratings", s.ratingDomain.UpsertCharacter)
	router.DELETE(authed, "/character-ratings", s.ratingDomain.DeleteCharacter)
	router.GET(authed, "/character-ratings/me", s.ratingDomain.GetCharacter)

	router.POST(authed, "/reviews", s.reviewDomain.CreateAnime, router.WithStatus(http.StatusCreated))
	router.PUT(authed, "/reviews", s.reviewDomain.UpdateAnime)
	router.DELETE(authed, "/reviews", s.reviewDomain.DeleteAnime)
	router.POST(authed, "/character-reviews", s.reviewDomain.CreateCharacter, router.WithStatus(http.StatusCreated))
	router.PUT(authed, "/character-reviews", s.reviewDomain.UpdateCharacter)
	router.DELETE(authed, "/character-reviews", s.reviewDomain.DeleteCharacter)
	router.POST(authed, "/review-likes", s.reviewDomain.Like)
	router.DELETE(authed, "/review-likes", s.reviewDomain.Unlike)

	router.POST(authed, "/comments", s.commentDomain.Create, router.WithStatus(http.StatusCreated))
	router.POST(authed, "/comments/:id/reply", s.commentDomain.Reply, router.WithStatus(http.StatusCreated))
	router.DELETE(authed, "/comments", s.commentDomain.Delete)
	router.POST(authed, "/comment-likes", s.commentDomain.Like)
	router.DELETE(authed, "/comment-likes", s.commentDomain.Unlike)

	router.POST(authed, "/user-posts", s.postDomain.Create, router.WithStatus(http.StatusCreated))
	router.PUT(authed, "/user-posts", s.postDomain.Update)
	router.DELETE(authed, "/user-posts", s.postDomain.Delete)

	router.POST(authed, "/follows/:user_id/follow", s.followDomain.Follow)
	router.DELETE(authed, "/follows/:user_id/unfollow", s.followDomain.Unfollow)
	router.GET(authed, "/follows/:user_id/is-following", s.followDomain.IsFollowing)

	router.GET(authed, "/feed/following", s.feedDomain.GetFollowingFeed)
	router.POST(authed, "/activity-likes", s.feedDomain.LikeActivity)
	router.DELETE(authed, "/activity-likes", s.feedDomain.UnlikeActivity)
	router.POST(authed, "/bookmarks", s.feedDomain.CreateBookmark)
	router.DELETE(authed, "/bookmarks", s.feedDomain.DeleteBookmark)
	router.GET(authed, "/bookmarks", s.feedDomain.GetBookmarks)
	router.POST(authed, "/activity-comments", s.feedDomain.CreateActivityComment, router.WithStatus(http.StatusCreated))
	router.DELETE(authed, "/activity-comments", s.feedDomain.DeleteActivityComment)

	// Operational endpoints behind the admin secret.
	admin := s.router.Branch("/admin")
	admin.Before(middleware.OnlyAdmin())

	router.POST(admin, "/verify-user", s.adminDomain.VerifyUser)
	router.POST(admin, "/backfill", s.backfillDomain.BackfillUser)
	router.POST(admin, "/backfill-all", s.backfillDomain.BackfillAll)
	router.POST(admin, "/refresh-snapshots", s.backfillDomain.RefreshSnapshots)
	admin.Raw(http.MethodGet, "/db", s.handleDownloadDB)
	admin.Raw(http.MethodPost, "/db", s.handleUploadDB)
}

func (s *srv) handleHealthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}
