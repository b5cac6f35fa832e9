package domain

import (
	"testing"

	"github.com/otakuhub/backend/internal/model"
	"github.com/otakuhub/backend/internal/repository"
	"github.com/otakuhub/backend/internal/testutil"
	"github.com/otakuhub/backend/pkg/errorx"
	"github.com/otakuhub/backend/pkg/xcontext"
	"github.com/stretchr/testify/require"
)

func newTestFollowDomain() FollowDomain {
	return NewFollowDomain(
		repository.NewUserRepository(),
		repository.NewFollowRepository(),
	)
}

func TestFollow(t *testing.T) {
	ctx := testutil.MockContext(t)
	follower := testutil.SampleUser(t, ctx, nil)
	followee := testutil.SampleUser(t, ctx, nil)
	d := newTestFollowDomain()

	followerCtx := xcontext.WithRequestUserID(ctx, follower.ID)

	_, err := d.Follow(followerCtx, &model.FollowRequest{UserID: follower.ID})
	require.Error(t, err)
	require.Equal(t, errorx.BadRequest, err.(errorx.Error).Code)

	_, err = d.Follow(followerCtx, &model.FollowRequest{UserID: "missing"})
	require.Error(t, err)
	require.Equal(t, errorx.NotFound, err.(errorx.Error).Code)

	_, err = d.Follow(followerCtx, &model.FollowRequest{UserID: followee.ID})
	require.NoError(t, err)

	_, err = d.Follow(followerCtx, &model.FollowRequest{UserID: followee.ID})
	require.Error(t, err)
	require.Equal(t, errorx.AlreadyExists, err.(errorx.Error).Code)

	following, err := d.IsFollowing(followerCtx, &model.IsFollowingRequest{UserID: followee.ID})
	require.NoError(t, err)
	require.True(t, following.IsFollowing)

	counts, err := d.GetFollowCounts(ctx, &model.GetFollowCountsRequest{UserID: followee.ID})
	require.NoError(t, err)
	require.Equal(t, int64(1), counts.Followers)
	require.Equal(t, int64(0), counts.Following)

	followers, err := d.GetFollowers(ctx, &model.GetFollowersRequest{UserID: followee.ID, Limit: 10})
	require.NoError(t, err)
	require.Len(t, followers.Users, 1)
	require.Equal(t, follower.ID, followers.Users[0].ID)

	followings, err := d.GetFollowing(ctx, &model.GetFollowingRequest{UserID: follower.ID, Limit: 10})
	require.NoError(t, err)
	require.Len(t, followings.Users, 1)
	require.Equal(t, followee.ID, followings.Users[0].ID)
}

func TestUnfollow(t *testing.T) {
	ctx := testutil.MockContext(t)
	follower := testutil.SampleUser(t, ctx, nil)
	followee := testutil.SampleUser(t, ctx, nil)
	d := newTestFollowDomain()

	followerCtx := xcontext.WithRequestUserID(ctx, follower.ID)

	_, err := d.Unfollow(followerCtx, &model.UnfollowRequest{UserID: followee.ID})
	require.Error(t, err)
	require.Equal(t, errorx.NotFound, err.(errorx.Error).Code)

	_, err = d.Follow(followerCtx, &model.FollowRequest{UserID: followee.ID})
	require.NoError(t, err)

	_, err = d.Unfollow(followerCtx, &model.UnfollowRequest{UserID: followee.ID})
	require.NoError(t, err)

	following, err := d.IsFollowing(followerCtx, &model.IsFollowingRequest{UserID: followee.ID})
	require.NoError(t, err)
	require.False(t, following.IsFollowing)
}
