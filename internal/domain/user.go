package domain

import (
	"context"
	"errors"

	"github.com/otakuhub/backend/internal/entity"
	"github.com/otakuhub/backend/internal/model"
	"github.com/otakuhub/backend/internal/repository"
	"github.com/otakuhub/backend/pkg/enum"
	"github.com/otakuhub/backend/pkg/errorx"
	"github.com/otakuhub/backend/pkg/xcontext"
	"gorm.io/gorm"
)

type UserDomain interface {
	GetUser(ctx context.Context, req *model.GetUserRequest) (*model.GetUserResponse, error)
	UpdateUser(ctx context.Context, req *model.UpdateUserRequest) (*model.UpdateUserResponse, error)
}

type userDomain struct {
	userRepo     repository.UserRepository
	activityRepo repository.ActivityRepository
}

func NewUserDomain(
	userRepo repository.UserRepository,
	activityRepo repository.ActivityRepository,
) UserDomain {
	return &userDomain{userRepo: userRepo, activityRepo: activityRepo}
}

func (d *userDomain) GetUser(
	ctx context.Context, req *model.GetUserRequest,
) (*model.GetUserResponse, error) {
	user, err := d.userRepo.GetByID(ctx, req.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "User not found")
		}

		xcontext.Logger(ctx).Errorf("Cannot get the user: %v", err)
		return nil, errorx.Unknown
	}

	return &model.GetUserResponse{User: model.ConvertShortUser(user)}, nil
}

// UpdateUser changes the caller's profile and repairs the denormalized user
// snapshot on every activity row in the same transaction.
func (d *userDomain) UpdateUser(
	ctx context.Context, req *model.UpdateUserRequest,
) (*model.UpdateUserResponse, error) {
	update := entity.User{}
	if req.DisplayName != nil {
		if *req.DisplayName == "" {
			return nil, errorx.New(errorx.BadRequest, "Display name must not be empty")
		}

		update.DisplayName = *req.DisplayName
	}

	if req.AvatarURL != nil {
		update.AvatarURL = *req.AvatarURL
	}

	if req.Language != nil {
		language, err := enum.ToEnum[entity.Language](*req.Language)
		if err != nil {
			return nil, errorx.New(errorx.BadRequest, "Invalid language %s", *req.Language)
		}

		update.Language = language
	}

	userID := xcontext.RequestUserID(ctx)

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	if err := d.userRepo.UpdateByID(ctx, userID, &update); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot update the user: %v", err)
		return nil, errorx.Unknown
	}

	user, err := d.userRepo.GetByID(ctx, userID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get the user: %v", err)
		return nil, errorx.Unknown
	}

	err = d.activityRepo.RefreshUserSnapshot(
		ctx, user.ID, user.Username, user.DisplayName, user.AvatarURL)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot refresh the activity snapshots: %v", err)
		return nil, errorx.Unknown
	}

	xcontext.WithCommitDBTransaction(ctx)

	return &model.UpdateUserResponse{User: model.ConvertUser(user)}, nil
}
