package domain

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/otakuhub/backend/internal/entity"
	"github.com/otakuhub/backend/internal/model"
	"github.com/otakuhub/backend/internal/repository"
	"github.com/otakuhub/backend/pkg/errorx"
	"github.com/otakuhub/backend/pkg/xcontext"
	"gorm.io/gorm"
)

type PostDomain interface {
	Create(ctx context.Context, req *model.CreatePostRequest) (*model.CreatePostResponse, error)
	Update(ctx context.Context, req *model.UpdatePostRequest) (*model.UpdatePostResponse, error)
	Delete(ctx context.Context, req *model.DeletePostRequest) (*model.DeletePostResponse, error)
	GetList(ctx context.Context, req *model.GetPostsRequest) (*model.GetPostsResponse, error)
}

type postDomain struct {
	userRepo     repository.UserRepository
	userPostRepo repository.UserPostRepository
	activityRepo repository.ActivityRepository
}

func NewPostDomain(
	userRepo repository.UserRepository,
	userPostRepo repository.UserPostRepository,
	activityRepo repository.ActivityRepository,
) PostDomain {
	return &postDomain{
		userRepo:     userRepo,
		userPostRepo: userPostRepo,
		activityRepo: activityRepo,
	}
}

func validatePostContent(content string) error {
	if len(content) == 0 || len(content) > entity.MaxPostContentLen {
		return errorx.New(errorx.BadRequest, "Content must be 1-%d characters",
			entity.MaxPostContentLen)
	}

	return nil
}

func (d *postDomain) Create(
	ctx context.Context, req *model.CreatePostRequest,
) (*model.CreatePostResponse, error) {
	if err := validatePostContent(req.Content); err != nil {
		return nil, err
	}

	userID := xcontext.RequestUserID(ctx)
	user, err := d.userRepo.GetByID(ctx, userID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get the user: %v", err)
		return nil, errorx.Unknown
	}

	now := time.Now()
	post := &entity.UserPost{
		Base:    entity.Base{ID: uuid.NewString(), CreatedAt: now, UpdatedAt: now},
		UserID:  userID,
		Content: req.Content,
	}

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	if err := d.userPostRepo.Create(ctx, post); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create the post: %v", err)
		return nil, errorx.Unknown
	}

	// Posts do not move the otaku score, only the feed.
	if err := d.activityRepo.Create(ctx, postActivity(user, post)); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create the activity: %v", err)
		return nil, errorx.Unknown
	}

	xcontext.WithCommitDBTransaction(ctx)

	return &model.CreatePostResponse{Post: model.ConvertPost(post)}, nil
}

func (d *postDomain) Update(
	ctx context.Context, req *model.UpdatePostRequest,
) (*model.UpdatePostResponse, error) {
	if err := validatePostContent(req.Content); err != nil {
		return nil, err
	}

	post, err := d.userPostRepo.GetByID(ctx, req.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Post not found")
		}

		xcontext.Logger(ctx).Errorf("Cannot get the post: %v", err)
		return nil, errorx.Unknown
	}

	userID := xcontext.RequestUserID(ctx)
	if post.UserID != userID {
		return nil, errorx.New(errorx.PermissionDenied, "Only the author can update a post")
	}

	user, err := d.userRepo.GetByID(ctx, userID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get the user: %v", err)
		return nil, errorx.Unknown
	}

	post.Content = req.Content
	post.UpdatedAt = time.Now()

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	if err := d.userPostRepo.Update(ctx, post.ID, post); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot update the post: %v", err)
		return nil, errorx.Unknown
	}

	// The activity row is keyed by the post id, so the upsert replaces the
	// content in place without moving the feed position.
	activity := postActivity(user, post)
	activity.ActivityTime = post.CreatedAt
	if err := d.activityRepo.Upsert(ctx, activity); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot upsert the activity: %v", err)
		return nil, errorx.Unknown
	}

	xcontext.WithCommitDBTransaction(ctx)

	return &model.UpdatePostResponse{Post: model.ConvertPost(post)}, nil
}

func (d *postDomain) Delete(
	ctx context.Context, req *model.DeletePostRequest,
) (*model.DeletePostResponse, error) {
	post, err := d.userPostRepo.GetByID(ctx, req.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Post not found")
		}

		xcontext.Logger(ctx).Errorf("Cannot get the post: %v", err)
		return nil, errorx.Unknown
	}

	userID := xcontext.RequestUserID(ctx)
	if post.UserID != userID {
		return nil, errorx.New(errorx.PermissionDenied, "Only the author can delete a post")
	}

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	if err := d.userPostRepo.Delete(ctx, post.ID); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot delete the post: %v", err)
		return nil, errorx.Unknown
	}

	err = d.activityRepo.DeleteByIdentity(ctx, entity.UserPostActivity, userID, post.ID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot delete the activity: %v", err)
		return nil, errorx.Unknown
	}

	xcontext.WithCommitDBTransaction(ctx)
	return &model.DeletePostResponse{}, nil
}

func (d *postDomain) GetList(
	ctx context.Context, req *model.GetPostsRequest,
) (*model.GetPostsResponse, error) {
	offset, limit, err := normalizePaging(ctx, req.Offset, req.Limit, 0)
	if err != nil {
		return nil, err
	}

	userID := req.UserID
	if userID == "" {
		userID = xcontext.RequestUserID(ctx)
	}

	posts, err := d.userPostRepo.GetListByUserID(ctx, userID, offset, limit)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get the posts: %v", err)
		return nil, errorx.Unknown
	}

	resp := &model.GetPostsResponse{}
	for i := range posts {
		resp.Posts = append(resp.Posts, model.ConvertPost(&posts[i]))
	}

	return resp, nil
}

func postActivity(user *entity.User, post *entity.UserPost) *entity.Activity {
	return &entity.Activity{
		Base:         entity.Base{ID: uuid.NewString()},
		ActivityType: entity.UserPostActivity,
		UserID:       user.ID,
		Username:     user.Username,
		DisplayName:  user.DisplayName,
		AvatarURL:    user.AvatarURL,
		ItemID:       sql.NullString{Valid: true, String: post.ID},
		PostContent:  sql.NullString{Valid: true, String: post.Content},
		ActivityTime: post.CreatedAt,
	}
}
