package domain

import (
	"context"
	"errors"

	"github.com/otakuhub/backend/internal/model"
	"github.com/otakuhub/backend/internal/repository"
	"github.com/otakuhub/backend/pkg/errorx"
	"github.com/otakuhub/backend/pkg/xcontext"
	"gorm.io/gorm"
)

// AdminDomain holds operations behind the admin secret.
type AdminDomain interface {
	VerifyUser(ctx context.Context, req *model.VerifyUserRequest) (*model.VerifyUserResponse, error)
}

type adminDomain struct {
	userRepo repository.UserRepository
}

func NewAdminDomain(userRepo repository.UserRepository) AdminDomain {
	return &adminDomain{userRepo: userRepo}
}

func (d *adminDomain) VerifyUser(
	ctx context.Context, req *model.VerifyUserRequest,
) (*model.VerifyUserResponse, error) {
	if _, err := d.userRepo.GetByID(ctx, req.UserID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "User not found")
		}

		xcontext.Logger(ctx).Errorf("Cannot get the user: %v", err)
		return nil, errorx.Unknown
	}

	if err := d.userRepo.SetVerified(ctx, req.UserID); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot verify the user: %v", err)
		return nil, errorx.Unknown
	}

	return &model.VerifyUserResponse{}, nil
}
