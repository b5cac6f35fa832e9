package domain

import (
	"context"
	"strings"
	"testing"

	"github.com/otakuhub/backend/internal/model"
	"github.com/otakuhub/backend/internal/repository"
	"github.com/otakuhub/backend/internal/testutil"
	"github.com/otakuhub/backend/pkg/errorx"
	"github.com/otakuhub/backend/pkg/xcontext"
	"github.com/stretchr/testify/require"
)

func newTestCommentDomain() CommentDomain {
	return NewCommentDomain(
		repository.NewReviewCommentRepository(),
		repository.NewInteractionRepository(),
		repository.NewAnimeReviewRepository(),
		repository.NewCharacterReviewRepository(),
	)
}

// seedReview creates an anime review to hang comments off.
func seedReview(t *testing.T, ctx context.Context, authorID string) string {
	d := newTestReviewDomain()
	resp, err := d.CreateAnime(xcontext.WithRequestUserID(ctx, authorID),
		&model.CreateAnimeReviewRequest{
			AnimeID:    "a1",
			AnimeTitle: "A1",
			Content:    "a review that attracts comments",
		})
	require.NoError(t, err)

	return resp.Review.ID
}

func TestCommentThread(t *testing.T) {
	ctx := testutil.MockContext(t)
	author := testutil.SampleUser(t, ctx, nil)
	commenter := testutil.SampleUser(t, ctx, nil)
	reviewID := seedReview(t, ctx, author.ID)

	d := newTestCommentDomain()
	commenterCtx := xcontext.WithRequestUserID(ctx, commenter.ID)

	created, err := d.Create(commenterCtx, &model.CreateCommentRequest{
		ReviewID: reviewID, ReviewType: "anime", Content: "nice review",
	})
	require.NoError(t, err)
	require.Equal(t, 1, created.Comment.Depth)

	reply, err := d.Reply(xcontext.WithRequestUserID(ctx, author.ID),
		&model.ReplyCommentRequest{
			ParentCommentID: created.Comment.ID, Content: "thanks",
		})
	require.NoError(t, err)
	require.Equal(t, 2, reply.Comment.Depth)
	require.Equal(t, created.Comment.ID, reply.Comment.ParentCommentID)

	// Threads stop at depth two.
	_, err = d.Reply(commenterCtx, &model.ReplyCommentRequest{
		ParentCommentID: reply.Comment.ID, Content: "you are welcome",
	})
	require.Error(t, err)
	require.Equal(t, errorx.BadRequest, err.(errorx.Error).Code)

	comments, err := d.GetList(ctx, &model.GetCommentsRequest{
		ReviewID: reviewID, ReviewType: "anime", Limit: 10,
	})
	require.NoError(t, err)
	require.Len(t, comments.Comments, 2)
}

func TestCommentValidation(t *testing.T) {
	ctx := testutil.MockContext(t)
	author := testutil.SampleUser(t, ctx, nil)
	reviewID := seedReview(t, ctx, author.ID)

	d := newTestCommentDomain()
	ctx = xcontext.WithRequestUserID(ctx, author.ID)

	_, err := d.Create(ctx, &model.CreateCommentRequest{
		ReviewID: reviewID, ReviewType: "anime", Content: "",
	})
	require.Error(t, err)
	require.Equal(t, errorx.BadRequest, err.(errorx.Error).Code)

	_, err = d.Create(ctx, &model.CreateCommentRequest{
		ReviewID: reviewID, ReviewType: "anime", Content: strings.Repeat("x", 1001),
	})
	require.Error(t, err)
	require.Equal(t, errorx.BadRequest, err.(errorx.Error).Code)

	_, err = d.Create(ctx, &model.CreateCommentRequest{
		ReviewID: reviewID, ReviewType: "movie", Content: "hello",
	})
	require.Error(t, err)
	require.Equal(t, errorx.BadRequest, err.(errorx.Error).Code)

	_, err = d.Create(ctx, &model.CreateCommentRequest{
		ReviewID: "missing", ReviewType: "anime", Content: "hello",
	})
	require.Error(t, err)
	require.Equal(t, errorx.NotFound, err.(errorx.Error).Code)
}

func TestDeleteCommentCascadesReplies(t *testing.T) {
	ctx := testutil.MockContext(t)
	author := testutil.SampleUser(t, ctx, nil)
	other := testutil.SampleUser(t, ctx, nil)
	reviewID := seedReview(t, ctx, author.ID)

	d := newTestCommentDomain()
	authorCtx := xcontext.WithRequestUserID(ctx, author.ID)

	created, err := d.Create(authorCtx, &model.CreateCommentRequest{
		ReviewID: reviewID, ReviewType: "anime", Content: "parent",
	})
	require.NoError(t, err)

	_, err = d.Reply(xcontext.WithRequestUserID(ctx, other.ID),
		&model.ReplyCommentRequest{
			ParentCommentID: created.Comment.ID, Content: "child",
		})
	require.NoError(t, err)

	_, err = d.Delete(xcontext.WithRequestUserID(ctx, other.ID),
		&model.DeleteCommentRequest{ID: created.Comment.ID})
	require.Error(t, err)
	require.Equal(t, errorx.PermissionDenied, err.(errorx.Error).Code)

	_, err = d.Delete(authorCtx, &model.DeleteCommentRequest{ID: created.Comment.ID})
	require.NoError(t, err)

	comments, err := d.GetList(ctx, &model.GetCommentsRequest{
		ReviewID: reviewID, ReviewType: "anime", Limit: 10,
	})
	require.NoError(t, err)
	require.Empty(t, comments.Comments)
}

func TestLikeComment(t *testing.T) {
	ctx := testutil.MockContext(t)
	author := testutil.SampleUser(t, ctx, nil)
	liker := testutil.SampleUser(t, ctx, nil)
	reviewID := seedReview(t, ctx, author.ID)

	d := newTestCommentDomain()

	created, err := d.Create(xcontext.WithRequestUserID(ctx, author.ID),
		&model.CreateCommentRequest{
			ReviewID: reviewID, ReviewType: "anime", Content: "like me",
		})
	require.NoError(t, err)

	likerCtx := xcontext.WithRequestUserID(ctx, liker.ID)
	_, err = d.Like(likerCtx, &model.LikeCommentRequest{CommentID: created.Comment.ID})
	require.NoError(t, err)

	_, err = d.Like(likerCtx, &model.LikeCommentRequest{CommentID: created.Comment.ID})
	require.Error(t, err)
	require.Equal(t, errorx.AlreadyExists, err.(errorx.Error).Code)

	comments, err := d.GetList(ctx, &model.GetCommentsRequest{
		ReviewID: reviewID, ReviewType: "anime", Limit: 10,
	})
	require.NoError(t, err)
	require.Len(t, comments.Comments, 1)
	require.Equal(t, 1, comments.Comments[0].LikesCount)

	_, err = d.Unlike(likerCtx, &model.UnlikeCommentRequest{CommentID: created.Comment.ID})
	require.NoError(t, err)

	_, err = d.Unlike(likerCtx, &model.UnlikeCommentRequest{CommentID: created.Comment.ID})
	require.Error(t, err)
	require.Equal(t, errorx.NotFound, err.(errorx.Error).Code)
}
