package domain

import (
	"testing"
	"time"

	"github.com/otakuhub/backend/internal/model"
	"github.com/otakuhub/backend/internal/repository"
	"github.com/otakuhub/backend/internal/testutil"
	"github.com/otakuhub/backend/pkg/errorx"
	"github.com/otakuhub/backend/pkg/xcontext"
	"github.com/stretchr/testify/require"
)

func newTestUserDomain() UserDomain {
	return NewUserDomain(
		repository.NewUserRepository(),
		repository.NewActivityRepository(),
	)
}

func ptrString(v string) *string {
	return &v
}

func TestGetUser(t *testing.T) {
	ctx := testutil.MockContext(t)
	user := testutil.SampleUser(t, ctx, nil)
	d := newTestUserDomain()

	resp, err := d.GetUser(ctx, &model.GetUserRequest{UserID: user.ID})
	require.NoError(t, err)
	require.Equal(t, user.Username, resp.User.Username)

	_, err = d.GetUser(ctx, &model.GetUserRequest{UserID: "missing"})
	require.Error(t, err)
	require.Equal(t, errorx.NotFound, err.(errorx.Error).Code)
}

func TestUpdateUserRefreshesSnapshots(t *testing.T) {
	ctx := testutil.MockContext(t)
	user := testutil.SampleUser(t, ctx, nil)
	ctx = xcontext.WithRequestUserID(ctx, user.ID)
	d := newTestUserDomain()

	seedFeedActivity(t, ctx, user, "a1", time.Now())

	_, err := d.UpdateUser(ctx, &model.UpdateUserRequest{DisplayName: ptrString("")})
	require.Error(t, err)
	require.Equal(t, errorx.BadRequest, err.(errorx.Error).Code)

	_, err = d.UpdateUser(ctx, &model.UpdateUserRequest{Language: ptrString("fr")})
	require.Error(t, err)
	require.Equal(t, errorx.BadRequest, err.(errorx.Error).Code)

	resp, err := d.UpdateUser(ctx, &model.UpdateUserRequest{
		DisplayName: ptrString("Otaku Prime"),
		AvatarURL:   ptrString("https://img.example.com/avatar.png"),
	})
	require.NoError(t, err)
	require.Equal(t, "Otaku Prime", resp.User.DisplayName)

	// Existing activity rows carry the new snapshot.
	activities, err := repository.NewActivityRepository().GetList(ctx, repository.ActivityFilter{
		UserID: user.ID,
		Limit:  10,
	})
	require.NoError(t, err)
	require.Len(t, activities, 1)
	require.Equal(t, "Otaku Prime", activities[0].DisplayName)
	require.Equal(t, "https://img.example.com/avatar.png", activities[0].AvatarURL)
}
