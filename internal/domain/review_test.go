package domain

import (
	"testing"

	"github.com/otakuhub/backend/internal/entity"
	"github.com/otakuhub/backend/internal/model"
	"github.com/otakuhub/backend/internal/repository"
	"github.com/otakuhub/backend/internal/testutil"
	"github.com/otakuhub/backend/pkg/errorx"
	"github.com/otakuhub/backend/pkg/xcontext"
	"github.com/stretchr/testify/require"
)

func newTestReviewDomain() ReviewDomain {
	return NewReviewDomain(
		repository.NewUserRepository(),
		repository.NewAnimeReviewRepository(),
		repository.NewCharacterReviewRepository(),
		repository.NewReviewCommentRepository(),
		repository.NewInteractionRepository(),
		repository.NewActivityRepository(),
		repository.NewUserStatsRepository(),
		nil,
	)
}

func TestCreateAnimeReview(t *testing.T) {
	ctx := testutil.MockContext(t)
	user := testutil.SampleUser(t, ctx, nil)
	ctx = xcontext.WithRequestUserID(ctx, user.ID)
	d := newTestReviewDomain()

	resp, err := d.CreateAnime(ctx, &model.CreateAnimeReviewRequest{
		AnimeID:    "a1",
		AnimeTitle: "A1",
		Content:    "a thoughtful review of the anime",
	})
	require.NoError(t, err)
	require.Equal(t, "a1", resp.Review.TargetID)

	stats, err := repository.NewUserStatsRepository().Get(ctx, user.ID)
	require.NoError(t, err)
	require.Equal(t, 1, stats.TotalReviews)
	require.Equal(t, 5, stats.OtakuScore)

	activities, err := repository.NewActivityRepository().GetList(ctx, repository.ActivityFilter{
		UserID: user.ID,
		Types:  []entity.ActivityType{entity.AnimeReviewActivity},
		Limit:  10,
	})
	require.NoError(t, err)
	require.Len(t, activities, 1)
	require.Equal(t, "a thoughtful review of the anime", activities[0].ReviewContent.String)

	// One review per user and anime.
	_, err = d.CreateAnime(ctx, &model.CreateAnimeReviewRequest{
		AnimeID:    "a1",
		AnimeTitle: "A1",
		Content:    "trying to review the same anime again",
	})
	require.Error(t, err)
	require.Equal(t, errorx.AlreadyExists, err.(errorx.Error).Code)
}

func TestCreateAnimeReviewContentBounds(t *testing.T) {
	ctx := testutil.MockContext(t)
	user := testutil.SampleUser(t, ctx, nil)
	ctx = xcontext.WithRequestUserID(ctx, user.ID)
	d := newTestReviewDomain()

	_, err := d.CreateAnime(ctx, &model.CreateAnimeReviewRequest{
		AnimeID: "a1", AnimeTitle: "A1", Content: "too short",
	})
	require.Error(t, err)
	require.Equal(t, errorx.BadRequest, err.(errorx.Error).Code)
}

func TestUpdateAnimeReviewOwnerOnly(t *testing.T) {
	ctx := testutil.MockContext(t)
	author := testutil.SampleUser(t, ctx, nil)
	other := testutil.SampleUser(t, ctx, nil)
	d := newTestReviewDomain()

	resp, err := d.CreateAnime(xcontext.WithRequestUserID(ctx, author.ID),
		&model.CreateAnimeReviewRequest{
			AnimeID:    "a1",
			AnimeTitle: "A1",
			Content:    "the original review content",
		})
	require.NoError(t, err)

	before, err := repository.NewActivityRepository().GetList(ctx, repository.ActivityFilter{
		UserID: author.ID,
		Types:  []entity.ActivityType{entity.AnimeReviewActivity},
		Limit:  10,
	})
	require.NoError(t, err)
	require.Len(t, before, 1)

	_, err = d.UpdateAnime(xcontext.WithRequestUserID(ctx, other.ID),
		&model.UpdateAnimeReviewRequest{
			ID:      resp.Review.ID,
			Content: "someone else rewriting the review",
		})
	require.Error(t, err)
	require.Equal(t, errorx.PermissionDenied, err.(errorx.Error).Code)

	updated, err := d.UpdateAnime(xcontext.WithRequestUserID(ctx, author.ID),
		&model.UpdateAnimeReviewRequest{
			ID:      resp.Review.ID,
			Content: "the author rewriting the review",
		})
	require.NoError(t, err)
	require.Equal(t, "the author rewriting the review", updated.Review.Content)

	// The activity follows the edit, still one row, still at the original
	// feed position.
	activities, err := repository.NewActivityRepository().GetList(ctx, repository.ActivityFilter{
		UserID: author.ID,
		Types:  []entity.ActivityType{entity.AnimeReviewActivity},
		Limit:  10,
	})
	require.NoError(t, err)
	require.Len(t, activities, 1)
	require.Equal(t, "the author rewriting the review", activities[0].ReviewContent.String)
	require.True(t, activities[0].ActivityTime.Equal(before[0].ActivityTime))
}

func TestDeleteAnimeReview(t *testing.T) {
	ctx := testutil.MockContext(t)
	user := testutil.SampleUser(t, ctx, nil)
	ctx = xcontext.WithRequestUserID(ctx, user.ID)
	d := newTestReviewDomain()

	resp, err := d.CreateAnime(ctx, &model.CreateAnimeReviewRequest{
		AnimeID:    "a1",
		AnimeTitle: "A1",
		Content:    "a review that will be deleted",
	})
	require.NoError(t, err)

	_, err = d.DeleteAnime(ctx, &model.DeleteAnimeReviewRequest{ID: resp.Review.ID})
	require.NoError(t, err)

	stats, err := repository.NewUserStatsRepository().Get(ctx, user.ID)
	require.NoError(t, err)
	require.Equal(t, 0, stats.TotalReviews)
	require.Equal(t, 0, stats.OtakuScore)

	activities, err := repository.NewActivityRepository().GetList(ctx, repository.ActivityFilter{
		UserID: user.ID,
		Types:  []entity.ActivityType{entity.AnimeReviewActivity},
		Limit:  10,
	})
	require.NoError(t, err)
	require.Empty(t, activities)
}

func TestLikeReview(t *testing.T) {
	ctx := testutil.MockContext(t)
	author := testutil.SampleUser(t, ctx, nil)
	liker := testutil.SampleUser(t, ctx, nil)
	d := newTestReviewDomain()

	resp, err := d.CreateAnime(xcontext.WithRequestUserID(ctx, author.ID),
		&model.CreateAnimeReviewRequest{
			AnimeID:    "a1",
			AnimeTitle: "A1",
			Content:    "a review worth liking",
		})
	require.NoError(t, err)

	likerCtx := xcontext.WithRequestUserID(ctx, liker.ID)
	_, err = d.Like(likerCtx, &model.LikeReviewRequest{
		ReviewID: resp.Review.ID, ReviewType: "anime",
	})
	require.NoError(t, err)

	_, err = d.Like(likerCtx, &model.LikeReviewRequest{
		ReviewID: resp.Review.ID, ReviewType: "anime",
	})
	require.Error(t, err)
	require.Equal(t, errorx.AlreadyExists, err.(errorx.Error).Code)

	review, err := repository.NewAnimeReviewRepository().GetByID(ctx, resp.Review.ID)
	require.NoError(t, err)
	require.Equal(t, 1, review.LikesCount)

	_, err = d.Unlike(likerCtx, &model.UnlikeReviewRequest{
		ReviewID: resp.Review.ID, ReviewType: "anime",
	})
	require.NoError(t, err)

	review, err = repository.NewAnimeReviewRepository().GetByID(ctx, resp.Review.ID)
	require.NoError(t, err)
	require.Equal(t, 0, review.LikesCount)
}
