package domain

import (
	"context"
	"database/sql"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/otakuhub/backend/internal/entity"
	"github.com/otakuhub/backend/internal/model"
	"github.com/otakuhub/backend/internal/repository"
	"github.com/otakuhub/backend/internal/testutil"
	"github.com/otakuhub/backend/pkg/errorx"
	"github.com/otakuhub/backend/pkg/xcontext"
	"github.com/stretchr/testify/require"
)

func newTestFeedDomain() FeedDomain {
	return NewFeedDomain(
		repository.NewActivityRepository(),
		repository.NewInteractionRepository(),
		repository.NewFollowRepository(),
	)
}

// seedFeedActivity inserts a rating activity with a controlled occurrence
// time, bypassing the rating domain.
func seedFeedActivity(
	t *testing.T, ctx context.Context, user *entity.User, itemID string, at time.Time,
) string {
	activity := &entity.Activity{
		Base:         entity.Base{ID: uuid.NewString()},
		ActivityType: entity.AnimeRatingActivity,
		UserID:       user.ID,
		Username:     user.Username,
		ItemID:       sql.NullString{Valid: true, String: itemID},
		ItemTitle:    sql.NullString{Valid: true, String: itemID},
		Rating:       ptrFloat(4),
		ActivityTime: at,
	}
	require.NoError(t, repository.NewActivityRepository().Upsert(ctx, activity))

	return activity.ID
}

func TestFeedOrderingAndFilter(t *testing.T) {
	ctx := testutil.MockContext(t)
	user := testutil.SampleUser(t, ctx, nil)
	d := newTestFeedDomain()

	base := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	// Inserted out of order on purpose.
	seedFeedActivity(t, ctx, user, "middle", base.Add(time.Hour))
	seedFeedActivity(t, ctx, user, "newest", base.Add(2*time.Hour))
	seedFeedActivity(t, ctx, user, "oldest", base)

	resp, err := d.GetFeed(ctx, &model.GetFeedRequest{Limit: 10})
	require.NoError(t, err)
	require.Len(t, resp.Activities, 3)
	require.Equal(t, "newest", resp.Activities[0].ItemID)
	require.Equal(t, "middle", resp.Activities[1].ItemID)
	require.Equal(t, "oldest", resp.Activities[2].ItemID)

	page, err := d.GetFeed(ctx, &model.GetFeedRequest{Offset: 1, Limit: 1})
	require.NoError(t, err)
	require.Len(t, page.Activities, 1)
	require.Equal(t, "middle", page.Activities[0].ItemID)

	require.NoError(t, repository.NewActivityRepository().Create(ctx, &entity.Activity{
		Base:         entity.Base{ID: uuid.NewString()},
		ActivityType: entity.UserPostActivity,
		UserID:       user.ID,
		Username:     user.Username,
		ItemID:       sql.NullString{Valid: true, String: uuid.NewString()},
		PostContent:  sql.NullString{Valid: true, String: "hello"},
		ActivityTime: base.Add(3 * time.Hour),
	}))

	filtered, err := d.GetFeed(ctx, &model.GetFeedRequest{
		Types: []string{"anime_rating"}, Limit: 10,
	})
	require.NoError(t, err)
	require.Len(t, filtered.Activities, 3)

	posts, err := d.GetFeed(ctx, &model.GetFeedRequest{
		Types: []string{"user_post"}, Limit: 10,
	})
	require.NoError(t, err)
	require.Len(t, posts.Activities, 1)
	require.Equal(t, "hello", posts.Activities[0].PostContent)
}

func TestFeedPagination(t *testing.T) {
	ctx := testutil.MockContext(t)
	user := testutil.SampleUser(t, ctx, nil)
	d := newTestFeedDomain()

	base := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	for i := 1; i <= 75; i++ {
		seedFeedActivity(t, ctx, user,
			fmt.Sprintf("item-%03d", i), base.Add(time.Duration(i)*time.Minute))
	}

	var got []string
	for _, page := range []struct{ offset, limit, want int }{
		{0, 30, 30},
		{30, 30, 30},
		{60, 30, 15},
	} {
		resp, err := d.GetFeed(ctx, &model.GetFeedRequest{
			Offset: page.offset, Limit: page.limit,
		})
		require.NoError(t, err)
		require.Len(t, resp.Activities, page.want)
		for _, activity := range resp.Activities {
			got = append(got, activity.ItemID)
		}
	}

	// The pages joined together are exactly the newest-first sequence, so
	// they are disjoint and each page continues where the previous ended.
	want := make([]string, 0, 75)
	for i := 75; i >= 1; i-- {
		want = append(want, fmt.Sprintf("item-%03d", i))
	}
	require.Equal(t, want, got)

	tail, err := d.GetFeed(ctx, &model.GetFeedRequest{Offset: 75, Limit: 30})
	require.NoError(t, err)
	require.Empty(t, tail.Activities)
}

func TestFeedPagingValidation(t *testing.T) {
	ctx := testutil.MockContext(t)
	d := newTestFeedDomain()

	_, err := d.GetFeed(ctx, &model.GetFeedRequest{Offset: -1})
	require.Error(t, err)
	require.Equal(t, errorx.BadRequest, err.(errorx.Error).Code)

	_, err = d.GetFeed(ctx, &model.GetFeedRequest{Limit: 101})
	require.Error(t, err)
	require.Equal(t, errorx.BadRequest, err.(errorx.Error).Code)

	_, err = d.GetFeed(ctx, &model.GetFeedRequest{Types: []string{"unknown"}})
	require.Error(t, err)
	require.Equal(t, errorx.BadRequest, err.(errorx.Error).Code)
}

func TestActivityLikeAnnotation(t *testing.T) {
	ctx := testutil.MockContext(t)
	author := testutil.SampleUser(t, ctx, nil)
	viewer := testutil.SampleUser(t, ctx, nil)
	d := newTestFeedDomain()

	activityID := seedFeedActivity(t, ctx, author, "a1", time.Now())

	viewerCtx := xcontext.WithRequestUserID(ctx, viewer.ID)
	_, err := d.LikeActivity(viewerCtx, &model.LikeActivityRequest{ActivityID: activityID})
	require.NoError(t, err)

	_, err = d.LikeActivity(viewerCtx, &model.LikeActivityRequest{ActivityID: activityID})
	require.Error(t, err)
	require.Equal(t, errorx.AlreadyExists, err.(errorx.Error).Code)

	_, err = d.LikeActivity(viewerCtx, &model.LikeActivityRequest{ActivityID: "missing"})
	require.Error(t, err)
	require.Equal(t, errorx.NotFound, err.(errorx.Error).Code)

	resp, err := d.GetFeed(viewerCtx, &model.GetFeedRequest{Limit: 10})
	require.NoError(t, err)
	require.Len(t, resp.Activities, 1)
	require.Equal(t, int64(1), resp.Activities[0].LikesCount)
	require.True(t, resp.Activities[0].Liked)

	// An anonymous viewer sees the count but no personal flags.
	anonymous, err := d.GetFeed(ctx, &model.GetFeedRequest{Limit: 10})
	require.NoError(t, err)
	require.Equal(t, int64(1), anonymous.Activities[0].LikesCount)
	require.False(t, anonymous.Activities[0].Liked)

	_, err = d.UnlikeActivity(viewerCtx, &model.UnlikeActivityRequest{ActivityID: activityID})
	require.NoError(t, err)

	_, err = d.UnlikeActivity(viewerCtx, &model.UnlikeActivityRequest{ActivityID: activityID})
	require.Error(t, err)
	require.Equal(t, errorx.NotFound, err.(errorx.Error).Code)
}

func TestFollowingFeed(t *testing.T) {
	ctx := testutil.MockContext(t)
	follower := testutil.SampleUser(t, ctx, nil)
	followee := testutil.SampleUser(t, ctx, nil)
	stranger := testutil.SampleUser(t, ctx, nil)
	d := newTestFeedDomain()

	seedFeedActivity(t, ctx, followee, "a1", time.Now())
	seedFeedActivity(t, ctx, stranger, "a2", time.Now())

	followerCtx := xcontext.WithRequestUserID(ctx, follower.ID)
	resp, err := d.GetFollowingFeed(followerCtx, &model.GetFollowingFeedRequest{Limit: 10})
	require.NoError(t, err)
	require.Empty(t, resp.Activities)

	require.NoError(t, repository.NewFollowRepository().Create(ctx, &entity.Follow{
		CreatedAt:   time.Now(),
		FollowerID:  follower.ID,
		FollowingID: followee.ID,
	}))

	resp, err = d.GetFollowingFeed(followerCtx, &model.GetFollowingFeedRequest{Limit: 10})
	require.NoError(t, err)
	require.Len(t, resp.Activities, 1)
	require.Equal(t, followee.ID, resp.Activities[0].UserID)
}

func TestBookmarks(t *testing.T) {
	ctx := testutil.MockContext(t)
	author := testutil.SampleUser(t, ctx, nil)
	viewer := testutil.SampleUser(t, ctx, nil)
	d := newTestFeedDomain()

	firstID := seedFeedActivity(t, ctx, author, "a1", time.Now().Add(-time.Hour))
	secondID := seedFeedActivity(t, ctx, author, "a2", time.Now())

	viewerCtx := xcontext.WithRequestUserID(ctx, viewer.ID)
	_, err := d.CreateBookmark(viewerCtx, &model.CreateBookmarkRequest{ActivityID: firstID})
	require.NoError(t, err)
	_, err = d.CreateBookmark(viewerCtx, &model.CreateBookmarkRequest{ActivityID: secondID})
	require.NoError(t, err)

	_, err = d.CreateBookmark(viewerCtx, &model.CreateBookmarkRequest{ActivityID: firstID})
	require.Error(t, err)
	require.Equal(t, errorx.AlreadyExists, err.(errorx.Error).Code)

	resp, err := d.GetBookmarks(viewerCtx, &model.GetBookmarksRequest{Limit: 10})
	require.NoError(t, err)
	require.Len(t, resp.Activities, 2)
	require.True(t, resp.Activities[0].Bookmarked)

	_, err = d.DeleteBookmark(viewerCtx, &model.DeleteBookmarkRequest{ActivityID: firstID})
	require.NoError(t, err)

	_, err = d.DeleteBookmark(viewerCtx, &model.DeleteBookmarkRequest{ActivityID: firstID})
	require.Error(t, err)
	require.Equal(t, errorx.NotFound, err.(errorx.Error).Code)

	resp, err = d.GetBookmarks(viewerCtx, &model.GetBookmarksRequest{Limit: 10})
	require.NoError(t, err)
	require.Len(t, resp.Activities, 1)
	require.Equal(t, secondID, resp.Activities[0].ID)
}

func TestActivityComments(t *testing.T) {
	ctx := testutil.MockContext(t)
	author := testutil.SampleUser(t, ctx, nil)
	commenter := testutil.SampleUser(t, ctx, nil)
	d := newTestFeedDomain()

	activityID := seedFeedActivity(t, ctx, author, "a1", time.Now())

	commenterCtx := xcontext.WithRequestUserID(ctx, commenter.ID)
	created, err := d.CreateActivityComment(commenterCtx, &model.CreateActivityCommentRequest{
		ActivityID: activityID, Content: "great taste",
	})
	require.NoError(t, err)

	_, err = d.CreateActivityComment(commenterCtx, &model.CreateActivityCommentRequest{
		ActivityID: activityID, Content: "",
	})
	require.Error(t, err)
	require.Equal(t, errorx.BadRequest, err.(errorx.Error).Code)

	_, err = d.CreateActivityComment(commenterCtx, &model.CreateActivityCommentRequest{
		ActivityID: "missing", Content: "hello",
	})
	require.Error(t, err)
	require.Equal(t, errorx.NotFound, err.(errorx.Error).Code)

	comments, err := d.GetActivityComments(ctx, &model.GetActivityCommentsRequest{
		ActivityID: activityID, Limit: 10,
	})
	require.NoError(t, err)
	require.Len(t, comments.Comments, 1)

	feed, err := d.GetFeed(commenterCtx, &model.GetFeedRequest{Limit: 10})
	require.NoError(t, err)
	require.Equal(t, int64(1), feed.Activities[0].CommentsCount)

	_, err = d.DeleteActivityComment(xcontext.WithRequestUserID(ctx, author.ID),
		&model.DeleteActivityCommentRequest{ID: created.Comment.ID})
	require.Error(t, err)
	require.Equal(t, errorx.PermissionDenied, err.(errorx.Error).Code)

	_, err = d.DeleteActivityComment(commenterCtx,
		&model.DeleteActivityCommentRequest{ID: created.Comment.ID})
	require.NoError(t, err)
}
