package domain

import (
	"context"
	"errors"
	"time"

	"github.com/otakuhub/backend/internal/entity"
	"github.com/otakuhub/backend/internal/model"
	"github.com/otakuhub/backend/internal/repository"
	"github.com/otakuhub/backend/pkg/errorx"
	"github.com/otakuhub/backend/pkg/xcontext"
	"gorm.io/gorm"
)

type FollowDomain interface {
	Follow(ctx context.Context, req *model.FollowRequest) (*model.FollowResponse, error)
	Unfollow(ctx context.Context, req *model.UnfollowRequest) (*model.UnfollowResponse, error)
	IsFollowing(ctx context.Context, req *model.IsFollowingRequest) (*model.IsFollowingResponse, error)
	GetFollowers(ctx context.Context, req *model.GetFollowersRequest) (*model.GetFollowersResponse, error)
	GetFollowing(ctx context.Context, req *model.GetFollowingRequest) (*model.GetFollowingResponse, error)
	GetFollowCounts(ctx context.Context, req *model.GetFollowCountsRequest) (*model.GetFollowCountsResponse, error)
}

type followDomain struct {
	userRepo   repository.UserRepository
	followRepo repository.FollowRepository
}

func NewFollowDomain(
	userRepo repository.UserRepository,
	followRepo repository.FollowRepository,
) FollowDomain {
	return &followDomain{userRepo: userRepo, followRepo: followRepo}
}

func (d *followDomain) Follow(
	ctx context.Context, req *model.FollowRequest,
) (*model.FollowResponse, error) {
	followerID := xcontext.RequestUserID(ctx)
	if followerID == req.UserID {
		return nil, errorx.New(errorx.BadRequest, "You cannot follow yourself")
	}

	if _, err := d.userRepo.GetByID(ctx, req.UserID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "User not found")
		}

		xcontext.Logger(ctx).Errorf("Cannot get the user: %v", err)
		return nil, errorx.Unknown
	}

	err := d.followRepo.Create(ctx, &entity.Follow{
		CreatedAt:   time.Now(),
		FollowerID:  followerID,
		FollowingID: req.UserID,
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, errorx.New(errorx.AlreadyExists, "You already follow this user")
		}

		xcontext.Logger(ctx).Errorf("Cannot create the follow: %v", err)
		return nil, errorx.Unknown
	}

	return &model.FollowResponse{}, nil
}

func (d *followDomain) Unfollow(
	ctx context.Context, req *model.UnfollowRequest,
) (*model.UnfollowResponse, error) {
	affected, err := d.followRepo.Delete(ctx, xcontext.RequestUserID(ctx), req.UserID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot delete the follow: %v", err)
		return nil, errorx.Unknown
	}

	if !affected {
		return nil, errorx.New(errorx.NotFound, "You do not follow this user")
	}

	return &model.UnfollowResponse{}, nil
}

func (d *followDomain) IsFollowing(
	ctx context.Context, req *model.IsFollowingRequest,
) (*model.IsFollowingResponse, error) {
	_, err := d.followRepo.Get(ctx, xcontext.RequestUserID(ctx), req.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &model.IsFollowingResponse{IsFollowing: false}, nil
		}

		xcontext.Logger(ctx).Errorf("Cannot get the follow: %v", err)
		return nil, errorx.Unknown
	}

	return &model.IsFollowingResponse{IsFollowing: true}, nil
}

func (d *followDomain) GetFollowers(
	ctx context.Context, req *model.GetFollowersRequest,
) (*model.GetFollowersResponse, error) {
	offset, limit, err := normalizePaging(ctx, req.Offset, req.Limit, 0)
	if err != nil {
		return nil, err
	}

	follows, err := d.followRepo.GetFollowers(ctx, req.UserID, offset, limit)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get the followers: %v", err)
		return nil, errorx.Unknown
	}

	ids := make([]string, 0, len(follows))
	for i := range follows {
		ids = append(ids, follows[i].FollowerID)
	}

	users, err := d.convertUsers(ctx, ids)
	if err != nil {
		return nil, err
	}

	return &model.GetFollowersResponse{Users: users}, nil
}

func (d *followDomain) GetFollowing(
	ctx context.Context, req *model.GetFollowingRequest,
) (*model.GetFollowingResponse, error) {
	offset, limit, err := normalizePaging(ctx, req.Offset, req.Limit, 0)
	if err != nil {
		return nil, err
	}

	follows, err := d.followRepo.GetFollowing(ctx, req.UserID, offset, limit)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get the following: %v", err)
		return nil, errorx.Unknown
	}

	ids := make([]string, 0, len(follows))
	for i := range follows {
		ids = append(ids, follows[i].FollowingID)
	}

	users, err := d.convertUsers(ctx, ids)
	if err != nil {
		return nil, err
	}

	return &model.GetFollowingResponse{Users: users}, nil
}

func (d *followDomain) GetFollowCounts(
	ctx context.Context, req *model.GetFollowCountsRequest,
) (*model.GetFollowCountsResponse, error) {
	followers, err := d.followRepo.CountFollowers(ctx, req.UserID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot count the followers: %v", err)
		return nil, errorx.Unknown
	}

	following, err := d.followRepo.CountFollowing(ctx, req.UserID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot count the following: %v", err)
		return nil, errorx.Unknown
	}

	return &model.GetFollowCountsResponse{Followers: followers, Following: following}, nil
}

// convertUsers loads users by id and keeps the order of ids.
func (d *followDomain) convertUsers(ctx context.Context, ids []string) ([]model.User, error) {
	users, err := d.userRepo.GetByIDs(ctx, ids)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get the users: %v", err)
		return nil, errorx.Unknown
	}

	byID := make(map[string]*entity.User, len(users))
	for i := range users {
		byID[users[i].ID] = &users[i]
	}

	var converted []model.User
	for _, id := range ids {
		if user, ok := byID[id]; ok {
			converted = append(converted, model.ConvertShortUser(user))
		}
	}

	return converted, nil
}
