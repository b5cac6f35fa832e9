package domain

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/otakuhub/backend/internal/entity"
	"github.com/otakuhub/backend/internal/model"
	"github.com/otakuhub/backend/internal/repository"
	"github.com/otakuhub/backend/pkg/enum"
	"github.com/otakuhub/backend/pkg/errorx"
	"github.com/otakuhub/backend/pkg/xcontext"
	"gorm.io/gorm"
)

type FeedDomain interface {
	GetFeed(ctx context.Context, req *model.GetFeedRequest) (*model.GetFeedResponse, error)
	GetUserFeed(ctx context.Context, req *model.GetUserFeedRequest) (*model.GetUserFeedResponse, error)
	GetFollowingFeed(ctx context.Context, req *model.GetFollowingFeedRequest) (*model.GetFollowingFeedResponse, error)

	LikeActivity(ctx context.Context, req *model.LikeActivityRequest) (*model.LikeActivityResponse, error)
	UnlikeActivity(ctx context.Context, req *model.UnlikeActivityRequest) (*model.UnlikeActivityResponse, error)

	CreateBookmark(ctx context.Context, req *model.CreateBookmarkRequest) (*model.CreateBookmarkResponse, error)
	DeleteBookmark(ctx context.Context, req *model.DeleteBookmarkRequest) (*model.DeleteBookmarkResponse, error)
	GetBookmarks(ctx context.Context, req *model.GetBookmarksRequest) (*model.GetBookmarksResponse, error)

	CreateActivityComment(ctx context.Context, req *model.CreateActivityCommentRequest) (*model.CreateActivityCommentResponse, error)
	DeleteActivityComment(ctx context.Context, req *model.DeleteActivityCommentRequest) (*model.DeleteActivityCommentResponse, error)
	GetActivityComments(ctx context.Context, req *model.GetActivityCommentsRequest) (*model.GetActivityCommentsResponse, error)
}

type feedDomain struct {
	activityRepo    repository.ActivityRepository
	interactionRepo repository.InteractionRepository
	followRepo      repository.FollowRepository
}

func NewFeedDomain(
	activityRepo repository.ActivityRepository,
	interactionRepo repository.InteractionRepository,
	followRepo repository.FollowRepository,
) FeedDomain {
	return &feedDomain{
		activityRepo:    activityRepo,
		interactionRepo: interactionRepo,
		followRepo:      followRepo,
	}
}

func parseActivityTypes(types []string) ([]entity.ActivityType, error) {
	var parsed []entity.ActivityType
	for _, t := range types {
		activityType, err := enum.ToEnum[entity.ActivityType](t)
		if err != nil {
			return nil, errorx.New(errorx.BadRequest, "Invalid activity type %s", t)
		}

		parsed = append(parsed, activityType)
	}

	return parsed, nil
}

func (d *feedDomain) GetFeed(
	ctx context.Context, req *model.GetFeedRequest,
) (*model.GetFeedResponse, error) {
	offset, limit, err := normalizePaging(ctx, req.Offset, req.Limit, 0)
	if err != nil {
		return nil, err
	}

	types, err := parseActivityTypes(req.Types)
	if err != nil {
		return nil, err
	}

	activities, err := d.activityRepo.GetList(ctx, repository.ActivityFilter{
		Types:  types,
		Offset: offset,
		Limit:  limit,
	})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get the activities: %v", err)
		return nil, errorx.Unknown
	}

	annotated, err := d.annotate(ctx, activities)
	if err != nil {
		return nil, err
	}

	return &model.GetFeedResponse{Activities: annotated}, nil
}

func (d *feedDomain) GetUserFeed(
	ctx context.Context, req *model.GetUserFeedRequest,
) (*model.GetUserFeedResponse, error) {
	if req.UserID == "" {
		return nil, errorx.New(errorx.BadRequest, "User id is required")
	}

	offset, limit, err := normalizePaging(ctx, req.Offset, req.Limit, 0)
	if err != nil {
		return nil, err
	}

	types, err := parseActivityTypes(req.Types)
	if err != nil {
		return nil, err
	}

	activities, err := d.activityRepo.GetList(ctx, repository.ActivityFilter{
		UserID: req.UserID,
		Types:  types,
		Offset: offset,
		Limit:  limit,
	})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get the activities: %v", err)
		return nil, errorx.Unknown
	}

	annotated, err := d.annotate(ctx, activities)
	if err != nil {
		return nil, err
	}

	return &model.GetUserFeedResponse{Activities: annotated}, nil
}

func (d *feedDomain) GetFollowingFeed(
	ctx context.Context, req *model.GetFollowingFeedRequest,
) (*model.GetFollowingFeedResponse, error) {
	offset, limit, err := normalizePaging(ctx, req.Offset, req.Limit, 0)
	if err != nil {
		return nil, err
	}

	types, err := parseActivityTypes(req.Types)
	if err != nil {
		return nil, err
	}

	followingIDs, err := d.followRepo.GetFollowingIDs(ctx, xcontext.RequestUserID(ctx))
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get the following ids: %v", err)
		return nil, errorx.Unknown
	}

	if len(followingIDs) == 0 {
		return &model.GetFollowingFeedResponse{}, nil
	}

	activities, err := d.activityRepo.GetList(ctx, repository.ActivityFilter{
		UserIDs: followingIDs,
		Types:   types,
		Offset:  offset,
		Limit:   limit,
	})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get the activities: %v", err)
		return nil, errorx.Unknown
	}

	annotated, err := d.annotate(ctx, activities)
	if err != nil {
		return nil, err
	}

	return &model.GetFollowingFeedResponse{Activities: annotated}, nil
}

// annotate attaches like/comment counts and the viewer's own like and
// bookmark flags to one page of activities. One grouped query per concern,
// never one per row.
func (d *feedDomain) annotate(
	ctx context.Context, activities []entity.Activity,
) ([]model.Activity, error) {
	if len(activities) == 0 {
		return nil, nil
	}

	ids := make([]string, 0, len(activities))
	for i := range activities {
		ids = append(ids, activities[i].ID)
	}

	likeCounts, err := d.interactionRepo.LikeCounts(ctx, ids)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get the like counts: %v", err)
		return nil, errorx.Unknown
	}

	commentCounts, err := d.interactionRepo.CommentCounts(ctx, ids)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get the comment counts: %v", err)
		return nil, errorx.Unknown
	}

	likedSet := map[string]bool{}
	bookmarkedSet := map[string]bool{}
	if viewerID := xcontext.RequestUserID(ctx); viewerID != "" {
		likedSet, err = d.interactionRepo.LikedSet(ctx, viewerID, ids)
		if err != nil {
			xcontext.Logger(ctx).Errorf("Cannot get the liked set: %v", err)
			return nil, errorx.Unknown
		}

		bookmarkedSet, err = d.interactionRepo.BookmarkedSet(ctx, viewerID, ids)
		if err != nil {
			xcontext.Logger(ctx).Errorf("Cannot get the bookmarked set: %v", err)
			return nil, errorx.Unknown
		}
	}

	annotated := make([]model.Activity, 0, len(activities))
	for i := range activities {
		item := model.ConvertActivity(&activities[i])
		item.LikesCount = likeCounts[item.ID]
		item.CommentsCount = commentCounts[item.ID]
		item.Liked = likedSet[item.ID]
		item.Bookmarked = bookmarkedSet[item.ID]
		annotated = append(annotated, item)
	}

	return annotated, nil
}

func (d *feedDomain) LikeActivity(
	ctx context.Context, req *model.LikeActivityRequest,
) (*model.LikeActivityResponse, error) {
	if err := d.checkActivityExists(ctx, req.ActivityID); err != nil {
		return nil, err
	}

	err := d.interactionRepo.CreateActivityLike(ctx, &entity.ActivityLike{
		CreatedAt:  time.Now(),
		UserID:     xcontext.RequestUserID(ctx),
		ActivityID: req.ActivityID,
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, errorx.New(errorx.AlreadyExists, "You already liked this activity")
		}

		xcontext.Logger(ctx).Errorf("Cannot create the activity like: %v", err)
		return nil, errorx.Unknown
	}

	return &model.LikeActivityResponse{}, nil
}

func (d *feedDomain) UnlikeActivity(
	ctx context.Context, req *model.UnlikeActivityRequest,
) (*model.UnlikeActivityResponse, error) {
	affected, err := d.interactionRepo.DeleteActivityLike(
		ctx, xcontext.RequestUserID(ctx), req.ActivityID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot delete the activity like: %v", err)
		return nil, errorx.Unknown
	}

	if !affected {
		return nil, errorx.New(errorx.NotFound, "You did not like this activity")
	}

	return &model.UnlikeActivityResponse{}, nil
}

func (d *feedDomain) CreateBookmark(
	ctx context.Context, req *model.CreateBookmarkRequest,
) (*model.CreateBookmarkResponse, error) {
	if err := d.checkActivityExists(ctx, req.ActivityID); err != nil {
		return nil, err
	}

	err := d.interactionRepo.CreateBookmark(ctx, &entity.Bookmark{
		CreatedAt:  time.Now(),
		UserID:     xcontext.RequestUserID(ctx),
		ActivityID: req.ActivityID,
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, errorx.New(errorx.AlreadyExists, "You already bookmarked this activity")
		}

		xcontext.Logger(ctx).Errorf("Cannot create the bookmark: %v", err)
		return nil, errorx.Unknown
	}

	return &model.CreateBookmarkResponse{}, nil
}

func (d *feedDomain) DeleteBookmark(
	ctx context.Context, req *model.DeleteBookmarkRequest,
) (*model.DeleteBookmarkResponse, error) {
	affected, err := d.interactionRepo.DeleteBookmark(
		ctx, xcontext.RequestUserID(ctx), req.ActivityID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot delete the bookmark: %v", err)
		return nil, errorx.Unknown
	}

	if !affected {
		return nil, errorx.New(errorx.NotFound, "You did not bookmark this activity")
	}

	return &model.DeleteBookmarkResponse{}, nil
}

func (d *feedDomain) GetBookmarks(
	ctx context.Context, req *model.GetBookmarksRequest,
) (*model.GetBookmarksResponse, error) {
	offset, limit, err := normalizePaging(ctx, req.Offset, req.Limit, 0)
	if err != nil {
		return nil, err
	}

	ids, err := d.interactionRepo.GetBookmarkedActivityIDs(
		ctx, xcontext.RequestUserID(ctx), offset, limit)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get the bookmarks: %v", err)
		return nil, errorx.Unknown
	}

	if len(ids) == 0 {
		return &model.GetBookmarksResponse{}, nil
	}

	activities, err := d.activityRepo.GetByIDs(ctx, ids)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get the activities: %v", err)
		return nil, errorx.Unknown
	}

	// Keep the bookmark order, newest first.
	byID := make(map[string]*entity.Activity, len(activities))
	for i := range activities {
		byID[activities[i].ID] = &activities[i]
	}

	ordered := make([]entity.Activity, 0, len(ids))
	for _, id := range ids {
		if activity, ok := byID[id]; ok {
			ordered = append(ordered, *activity)
		}
	}

	annotated, err := d.annotate(ctx, ordered)
	if err != nil {
		return nil, err
	}

	return &model.GetBookmarksResponse{Activities: annotated}, nil
}

func (d *feedDomain) CreateActivityComment(
	ctx context.Context, req *model.CreateActivityCommentRequest,
) (*model.CreateActivityCommentResponse, error) {
	if err := validateCommentContent(req.Content); err != nil {
		return nil, err
	}

	if err := d.checkActivityExists(ctx, req.ActivityID); err != nil {
		return nil, err
	}

	comment := &entity.ActivityComment{
		Base:       entity.Base{ID: uuid.NewString(), CreatedAt: time.Now()},
		ActivityID: req.ActivityID,
		UserID:     xcontext.RequestUserID(ctx),
		Content:    req.Content,
	}

	if err := d.interactionRepo.CreateActivityComment(ctx, comment); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create the activity comment: %v", err)
		return nil, errorx.Unknown
	}

	return &model.CreateActivityCommentResponse{
		Comment: model.ConvertActivityComment(comment),
	}, nil
}

func (d *feedDomain) DeleteActivityComment(
	ctx context.Context, req *model.DeleteActivityCommentRequest,
) (*model.DeleteActivityCommentResponse, error) {
	comment, err := d.interactionRepo.GetActivityCommentByID(ctx, req.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Comment not found")
		}

		xcontext.Logger(ctx).Errorf("Cannot get the activity comment: %v", err)
		return nil, errorx.Unknown
	}

	if comment.UserID != xcontext.RequestUserID(ctx) {
		return nil, errorx.New(errorx.PermissionDenied, "Only the author can delete a comment")
	}

	if err := d.interactionRepo.DeleteActivityComment(ctx, comment.ID); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot delete the activity comment: %v", err)
		return nil, errorx.Unknown
	}

	return &model.DeleteActivityCommentResponse{}, nil
}

func (d *feedDomain) GetActivityComments(
	ctx context.Context, req *model.GetActivityCommentsRequest,
) (*model.GetActivityCommentsResponse, error) {
	offset, limit, err := normalizePaging(ctx, req.Offset, req.Limit, commentListDefaultLimit)
	if err != nil {
		return nil, err
	}

	comments, err := d.interactionRepo.GetActivityComments(ctx, req.ActivityID, offset, limit)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get the activity comments: %v", err)
		return nil, errorx.Unknown
	}

	resp := &model.GetActivityCommentsResponse{}
	for i := range comments {
		resp.Comments = append(resp.Comments, model.ConvertActivityComment(&comments[i]))
	}

	return resp, nil
}

func (d *feedDomain) checkActivityExists(ctx context.Context, activityID string) error {
	if _, err := d.activityRepo.GetByID(ctx, activityID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errorx.New(errorx.NotFound, "Activity not found")
		}

		xcontext.Logger(ctx).Errorf("Cannot get the activity: %v", err)
		return errorx.Unknown
	}

	return nil
}
