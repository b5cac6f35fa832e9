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
	"github.com/otakuhub/backend/pkg/enum"
	"github.com/otakuhub/backend/pkg/errorx"
	"github.com/otakuhub/backend/pkg/xcontext"
	"gorm.io/gorm"
)

const commentListDefaultLimit = 20

type CommentDomain interface {
	Create(ctx context.Context, req *model.CreateCommentRequest) (*model.CreateCommentResponse, error)
	Reply(ctx context.Context, req *model.ReplyCommentRequest) (*model.ReplyCommentResponse, error)
	Delete(ctx context.Context, req *model.DeleteCommentRequest) (*model.DeleteCommentResponse, error)
	GetList(ctx context.Context, req *model.GetCommentsRequest) (*model.GetCommentsResponse, error)
	Like(ctx context.Context, req *model.LikeCommentRequest) (*model.LikeCommentResponse, error)
	Unlike(ctx context.Context, req *model.UnlikeCommentRequest) (*model.UnlikeCommentResponse, error)
}

type commentDomain struct {
	commentRepo         repository.ReviewCommentRepository
	interactionRepo     repository.InteractionRepository
	animeReviewRepo     repository.AnimeReviewRepository
	characterReviewRepo repository.CharacterReviewRepository
}

func NewCommentDomain(
	commentRepo repository.ReviewCommentRepository,
	interactionRepo repository.InteractionRepository,
	animeReviewRepo repository.AnimeReviewRepository,
	characterReviewRepo repository.CharacterReviewRepository,
) CommentDomain {
	return &commentDomain{
		commentRepo:         commentRepo,
		interactionRepo:     interactionRepo,
		animeReviewRepo:     animeReviewRepo,
		characterReviewRepo: characterReviewRepo,
	}
}

func validateCommentContent(content string) error {
	if len(content) < entity.MinCommentContentLen || len(content) > entity.MaxCommentContentLen {
		return errorx.New(errorx.BadRequest, "Content must be %d-%d characters",
			entity.MinCommentContentLen, entity.MaxCommentContentLen)
	}

	return nil
}

func (d *commentDomain) Create(
	ctx context.Context, req *model.CreateCommentRequest,
) (*model.CreateCommentResponse, error) {
	if err := validateCommentContent(req.Content); err != nil {
		return nil, err
	}

	reviewType, err := enum.ToEnum[entity.ReviewType](req.ReviewType)
	if err != nil {
		return nil, errorx.New(errorx.BadRequest, "Invalid review type %s", req.ReviewType)
	}

	if err := d.checkReviewExists(ctx, req.ReviewID, reviewType); err != nil {
		return nil, err
	}

	comment := &entity.ReviewComment{
		Base:       entity.Base{ID: uuid.NewString(), CreatedAt: time.Now()},
		ReviewID:   req.ReviewID,
		ReviewType: reviewType,
		UserID:     xcontext.RequestUserID(ctx),
		Depth:      1,
		Content:    req.Content,
	}

	if err := d.commentRepo.Create(ctx, comment); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create the comment: %v", err)
		return nil, errorx.Unknown
	}

	return &model.CreateCommentResponse{Comment: model.ConvertComment(comment)}, nil
}

func (d *commentDomain) Reply(
	ctx context.Context, req *model.ReplyCommentRequest,
) (*model.ReplyCommentResponse, error) {
	if err := validateCommentContent(req.Content); err != nil {
		return nil, err
	}

	parent, err := d.commentRepo.GetByID(ctx, req.ParentCommentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Comment not found")
		}

		xcontext.Logger(ctx).Errorf("Cannot get the parent comment: %v", err)
		return nil, errorx.Unknown
	}

	if parent.Depth >= entity.MaxCommentDepth {
		return nil, errorx.New(errorx.BadRequest, "You cannot reply to a reply")
	}

	comment := &entity.ReviewComment{
		Base:            entity.Base{ID: uuid.NewString(), CreatedAt: time.Now()},
		ReviewID:        parent.ReviewID,
		ReviewType:      parent.ReviewType,
		UserID:          xcontext.RequestUserID(ctx),
		ParentCommentID: sql.NullString{Valid: true, String: parent.ID},
		Depth:           parent.Depth + 1,
		Content:         req.Content,
	}

	if err := d.commentRepo.Create(ctx, comment); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create the reply: %v", err)
		return nil, errorx.Unknown
	}

	return &model.ReplyCommentResponse{Comment: model.ConvertComment(comment)}, nil
}

func (d *commentDomain) Delete(
	ctx context.Context, req *model.DeleteCommentRequest,
) (*model.DeleteCommentResponse, error) {
	comment, err := d.commentRepo.GetByID(ctx, req.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Comment not found")
		}

		xcontext.Logger(ctx).Errorf("Cannot get the comment: %v", err)
		return nil, errorx.Unknown
	}

	if comment.UserID != xcontext.RequestUserID(ctx) {
		return nil, errorx.New(errorx.PermissionDenied, "Only the author can delete a comment")
	}

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	if err := d.commentRepo.DeleteReplies(ctx, comment.ID); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot delete the replies: %v", err)
		return nil, errorx.Unknown
	}

	if err := d.commentRepo.Delete(ctx, comment.ID); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot delete the comment: %v", err)
		return nil, errorx.Unknown
	}

	xcontext.WithCommitDBTransaction(ctx)
	return &model.DeleteCommentResponse{}, nil
}

func (d *commentDomain) GetList(
	ctx context.Context, req *model.GetCommentsRequest,
) (*model.GetCommentsResponse, error) {
	offset, limit, err := normalizePaging(ctx, req.Offset, req.Limit, commentListDefaultLimit)
	if err != nil {
		return nil, err
	}

	reviewType, err := enum.ToEnum[entity.ReviewType](req.ReviewType)
	if err != nil {
		return nil, errorx.New(errorx.BadRequest, "Invalid review type %s", req.ReviewType)
	}

	comments, err := d.commentRepo.GetListByReview(ctx, req.ReviewID, reviewType, offset, limit)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get the comments: %v", err)
		return nil, errorx.Unknown
	}

	resp := &model.GetCommentsResponse{}
	for i := range comments {
		resp.Comments = append(resp.Comments, model.ConvertComment(&comments[i]))
	}

	return resp, nil
}

func (d *commentDomain) Like(
	ctx context.Context, req *model.LikeCommentRequest,
) (*model.LikeCommentResponse, error) {
	if _, err := d.commentRepo.GetByID(ctx, req.CommentID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Comment not found")
		}

		xcontext.Logger(ctx).Errorf("Cannot get the comment: %v", err)
		return nil, errorx.Unknown
	}

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	err := d.interactionRepo.CreateCommentLike(ctx, &entity.CommentLike{
		UserID:    xcontext.RequestUserID(ctx),
		CommentID: req.CommentID,
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, errorx.New(errorx.AlreadyExists, "You already liked this comment")
		}

		xcontext.Logger(ctx).Errorf("Cannot create the comment like: %v", err)
		return nil, errorx.Unknown
	}

	if err := d.commentRepo.ChangeLikesCount(ctx, req.CommentID, 1); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot change the likes count: %v", err)
		return nil, errorx.Unknown
	}

	xcontext.WithCommitDBTransaction(ctx)
	return &model.LikeCommentResponse{}, nil
}

func (d *commentDomain) Unlike(
	ctx context.Context, req *model.UnlikeCommentRequest,
) (*model.UnlikeCommentResponse, error) {
	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	affected, err := d.interactionRepo.DeleteCommentLike(
		ctx, xcontext.RequestUserID(ctx), req.CommentID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot delete the comment like: %v", err)
		return nil, errorx.Unknown
	}

	if !affected {
		return nil, errorx.New(errorx.NotFound, "You did not like this comment")
	}

	if err := d.commentRepo.ChangeLikesCount(ctx, req.CommentID, -1); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot change the likes count: %v", err)
		return nil, errorx.Unknown
	}

	xcontext.WithCommitDBTransaction(ctx)
	return &model.UnlikeCommentResponse{}, nil
}

func (d *commentDomain) checkReviewExists(
	ctx context.Context, reviewID string, reviewType entity.ReviewType,
) error {
	var err error
	switch reviewType {
	case entity.AnimeReviewType:
		_, err = d.animeReviewRepo.GetByID(ctx, reviewID)
	case entity.CharacterReviewType:
		_, err = d.characterReviewRepo.GetByID(ctx, reviewID)
	}

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errorx.New(errorx.NotFound, "Review not found")
		}

		xcontext.Logger(ctx).Errorf("Cannot get the review: %v", err)
		return errorx.Unknown
	}

	return nil
}
