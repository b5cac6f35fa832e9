package domain

import (
	"strings"
	"testing"

	"github.com/otakuhub/backend/internal/entity"
	"github.com/otakuhub/backend/internal/model"
	"github.com/otakuhub/backend/internal/repository"
	"github.com/otakuhub/backend/internal/testutil"
	"github.com/otakuhub/backend/pkg/errorx"
	"github.com/otakuhub/backend/pkg/xcontext"
	"github.com/stretchr/testify/require"
)

func newTestPostDomain() PostDomain {
	return NewPostDomain(
		repository.NewUserRepository(),
		repository.NewUserPostRepository(),
		repository.NewActivityRepository(),
	)
}

func TestCreatePost(t *testing.T) {
	ctx := testutil.MockContext(t)
	user := testutil.SampleUser(t, ctx, nil)
	ctx = xcontext.WithRequestUserID(ctx, user.ID)
	d := newTestPostDomain()

	_, err := d.Create(ctx, &model.CreatePostRequest{Content: ""})
	require.Error(t, err)
	require.Equal(t, errorx.BadRequest, err.(errorx.Error).Code)

	_, err = d.Create(ctx, &model.CreatePostRequest{Content: strings.Repeat("x", 2001)})
	require.Error(t, err)
	require.Equal(t, errorx.BadRequest, err.(errorx.Error).Code)

	resp, err := d.Create(ctx, &model.CreatePostRequest{Content: "watching season two tonight"})
	require.NoError(t, err)
	require.Equal(t, user.ID, resp.Post.UserID)

	activities, err := repository.NewActivityRepository().GetList(ctx, repository.ActivityFilter{
		UserID: user.ID,
		Types:  []entity.ActivityType{entity.UserPostActivity},
		Limit:  10,
	})
	require.NoError(t, err)
	require.Len(t, activities, 1)
	require.Equal(t, "watching season two tonight", activities[0].PostContent.String)

	// Posts never move the score.
	stats, err := repository.NewUserStatsRepository().Get(ctx, user.ID)
	require.NoError(t, err)
	require.Equal(t, 0, stats.OtakuScore)
}

func TestUpdatePostKeepsFeedPosition(t *testing.T) {
	ctx := testutil.MockContext(t)
	user := testutil.SampleUser(t, ctx, nil)
	other := testutil.SampleUser(t, ctx, nil)
	d := newTestPostDomain()

	userCtx := xcontext.WithRequestUserID(ctx, user.ID)
	created, err := d.Create(userCtx, &model.CreatePostRequest{Content: "first draft"})
	require.NoError(t, err)

	_, err = d.Update(xcontext.WithRequestUserID(ctx, other.ID),
		&model.UpdatePostRequest{ID: created.Post.ID, Content: "hijacked"})
	require.Error(t, err)
	require.Equal(t, errorx.PermissionDenied, err.(errorx.Error).Code)

	updated, err := d.Update(userCtx,
		&model.UpdatePostRequest{ID: created.Post.ID, Content: "second draft"})
	require.NoError(t, err)
	require.Equal(t, "second draft", updated.Post.Content)

	activities, err := repository.NewActivityRepository().GetList(ctx, repository.ActivityFilter{
		UserID: user.ID,
		Types:  []entity.ActivityType{entity.UserPostActivity},
		Limit:  10,
	})
	require.NoError(t, err)
	require.Len(t, activities, 1)
	require.Equal(t, "second draft", activities[0].PostContent.String)
}

func TestDeletePost(t *testing.T) {
	ctx := testutil.MockContext(t)
	user := testutil.SampleUser(t, ctx, nil)
	ctx = xcontext.WithRequestUserID(ctx, user.ID)
	d := newTestPostDomain()

	created, err := d.Create(ctx, &model.CreatePostRequest{Content: "soon deleted"})
	require.NoError(t, err)

	_, err = d.Delete(ctx, &model.DeletePostRequest{ID: created.Post.ID})
	require.NoError(t, err)

	_, err = d.Delete(ctx, &model.DeletePostRequest{ID: created.Post.ID})
	require.Error(t, err)
	require.Equal(t, errorx.NotFound, err.(errorx.Error).Code)

	activities, err := repository.NewActivityRepository().GetList(ctx, repository.ActivityFilter{
		UserID: user.ID,
		Types:  []entity.ActivityType{entity.UserPostActivity},
		Limit:  10,
	})
	require.NoError(t, err)
	require.Empty(t, activities)

	posts, err := d.GetList(ctx, &model.GetPostsRequest{Limit: 10})
	require.NoError(t, err)
	require.Empty(t, posts.Posts)
}
