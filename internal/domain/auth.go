package domain

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/otakuhub/backend/internal/entity"
	"github.com/otakuhub/backend/internal/model"
	"github.com/otakuhub/backend/internal/repository"
	"github.com/otakuhub/backend/pkg/authenticator"
	"github.com/otakuhub/backend/pkg/crypto"
	"github.com/otakuhub/backend/pkg/enum"
	"github.com/otakuhub/backend/pkg/errorx"
	"github.com/otakuhub/backend/pkg/mailer"
	"github.com/otakuhub/backend/pkg/xcontext"
	"gorm.io/gorm"
)

var usernameRegex = regexp.MustCompile(`^[a-zA-Z0-9_]{3,30}$`)

const minPasswordLen = 8

type AuthDomain interface {
	Register(ctx context.Context, req *model.RegisterRequest) (*model.RegisterResponse, error)
	Login(ctx context.Context, req *model.LoginRequest) (*model.LoginResponse, error)
	GoogleLogin(ctx context.Context, req *model.GoogleLoginRequest) (*model.GoogleLoginResponse, error)
	LoginWithFederatedUser(ctx context.Context, serviceUser authenticator.ServiceUser) (*model.GoogleLoginResponse, error)
	VerifyEmail(ctx context.Context, req *model.VerifyEmailRequest) (*model.VerifyEmailResponse, error)
	ResendVerification(ctx context.Context, req *model.ResendVerificationRequest) (*model.ResendVerificationResponse, error)
	GetMe(ctx context.Context, req *model.GetMeRequest) (*model.GetMeResponse, error)
}

type authDomain struct {
	userRepo      repository.UserRepository
	userStatsRepo repository.UserStatsRepository

	verifyEmailEngine authenticator.TokenEngine[model.VerifyEmailToken]
	oauth2Service     authenticator.IOAuth2Service
	mailService       mailer.Mailer
}

func NewAuthDomain(
	userRepo repository.UserRepository,
	userStatsRepo repository.UserStatsRepository,
	verifyEmailEngine authenticator.TokenEngine[model.VerifyEmailToken],
	oauth2Service authenticator.IOAuth2Service,
	mailService mailer.Mailer,
) AuthDomain {
	return &authDomain{
		userRepo:          userRepo,
		userStatsRepo:     userStatsRepo,
		verifyEmailEngine: verifyEmailEngine,
		oauth2Service:     oauth2Service,
		mailService:       mailService,
	}
}

func (d *authDomain) Register(
	ctx context.Context, req *model.RegisterRequest,
) (*model.RegisterResponse, error) {
	if !usernameRegex.MatchString(req.Username) {
		return nil, errorx.New(errorx.BadRequest,
			"Username must be 3-30 letters, digits, or underscores")
	}

	if !strings.Contains(req.Email, "@") {
		return nil, errorx.New(errorx.BadRequest, "Invalid email address")
	}

	if len(req.Password) < minPasswordLen {
		return nil, errorx.New(errorx.BadRequest,
			"Password must be at least %d characters", minPasswordLen)
	}

	language := entity.LanguageKorean
	if req.Language != "" {
		var err error
		language, err = enum.ToEnum[entity.Language](req.Language)
		if err != nil {
			return nil, errorx.New(errorx.BadRequest, "Invalid language %s", req.Language)
		}
	}

	hashed, err := crypto.HashPassword(req.Password)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot hash the password: %v", err)
		return nil, errorx.Unknown
	}

	user := &entity.User{
		Base:           entity.Base{ID: uuid.NewString()},
		Username:       req.Username,
		Email:          req.Email,
		HashedPassword: sql.NullString{Valid: true, String: hashed},
		DisplayName:    req.DisplayName,
		Language:       language,
		Role:           entity.UserRole,
	}
	if user.DisplayName == "" {
		user.DisplayName = req.Username
	}

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	if err := d.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, errorx.New(errorx.AlreadyExists, "Username or email is already taken")
		}

		xcontext.Logger(ctx).Errorf("Cannot create the user: %v", err)
		return nil, errorx.Unknown
	}

	err = d.userStatsRepo.Save(ctx, &entity.UserStats{UserID: user.ID})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create the user stats: %v", err)
		return nil, errorx.Unknown
	}

	xcontext.WithCommitDBTransaction(ctx)

	d.sendVerification(ctx, user)

	return &model.RegisterResponse{User: model.ConvertUser(user)}, nil
}

func (d *authDomain) Login(ctx context.Context, req *model.LoginRequest) (*model.LoginResponse, error) {
	user, err := d.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.AuthFailed, "Invalid email or password")
		}

		xcontext.Logger(ctx).Errorf("Cannot get the user: %v", err)
		return nil, errorx.Unknown
	}

	if !user.HashedPassword.Valid ||
		!crypto.ComparePassword(user.HashedPassword.String, req.Password) {
		return nil, errorx.New(errorx.AuthFailed, "Invalid email or password")
	}

	token, err := d.generateAccessToken(ctx, user)
	if err != nil {
		return nil, err
	}

	return &model.LoginResponse{AccessToken: token, User: model.ConvertUser(user)}, nil
}

func (d *authDomain) GoogleLogin(
	ctx context.Context, req *model.GoogleLoginRequest,
) (*model.GoogleLoginResponse, error) {
	serviceUser, err := d.oauth2Service.VerifyIDToken(ctx, req.IDToken)
	if err != nil {
		xcontext.Logger(ctx).Debugf("Cannot verify the id token: %v", err)
		return nil, errorx.New(errorx.AuthFailed, "Cannot verify the %s token",
			d.oauth2Service.Service())
	}

	return d.LoginWithFederatedUser(ctx, serviceUser)
}

// LoginWithFederatedUser finishes a federated login after the identity has
// been verified. The first login creates the user row.
func (d *authDomain) LoginWithFederatedUser(
	ctx context.Context, serviceUser authenticator.ServiceUser,
) (*model.GoogleLoginResponse, error) {
	provider := d.oauth2Service.Service()
	user, err := d.userRepo.GetByProvider(ctx, provider, serviceUser.ID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			xcontext.Logger(ctx).Errorf("Cannot get the user: %v", err)
			return nil, errorx.Unknown
		}

		user, err = d.createFederatedUser(ctx, provider, serviceUser)
		if err != nil {
			return nil, err
		}
	}

	token, err := d.generateAccessToken(ctx, user)
	if err != nil {
		return nil, err
	}

	return &model.GoogleLoginResponse{AccessToken: token, User: model.ConvertUser(user)}, nil
}

func (d *authDomain) createFederatedUser(
	ctx context.Context, provider string, serviceUser authenticator.ServiceUser,
) (*entity.User, error) {
	displayName := serviceUser.Name
	if displayName == "" {
		displayName = "User " + crypto.GenerateRandomAlphabet(6)
	}

	user := &entity.User{
		Base:           entity.Base{ID: uuid.NewString()},
		Username:       federatedUsername(serviceUser.Email),
		Email:          serviceUser.Email,
		Provider:       sql.NullString{Valid: true, String: provider},
		ProviderUserID: sql.NullString{Valid: true, String: serviceUser.ID},
		DisplayName:    displayName,
		AvatarURL:      serviceUser.Picture,
		IsVerified:     true,
		Language:       entity.LanguageKorean,
		Role:           entity.UserRole,
	}

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	if err := d.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// Username or email collision with an existing local account.
			user.Username = federatedUsername("")
			if err := d.userRepo.Create(ctx, user); err != nil {
				xcontext.Logger(ctx).Errorf("Cannot create the federated user: %v", err)
				return nil, errorx.Unknown
			}
		} else {
			xcontext.Logger(ctx).Errorf("Cannot create the federated user: %v", err)
			return nil, errorx.Unknown
		}
	}

	err := d.userStatsRepo.Save(ctx, &entity.UserStats{UserID: user.ID})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create the user stats: %v", err)
		return nil, errorx.Unknown
	}

	xcontext.WithCommitDBTransaction(ctx)
	return user, nil
}

func federatedUsername(email string) string {
	local, _, found := strings.Cut(email, "@")
	local = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
			return r
		default:
			return -1
		}
	}, local)

	if !found || len(local) < 3 {
		local = "user"
	}

	if len(local) > 20 {
		local = local[:20]
	}

	return fmt.Sprintf("%s_%s", local, crypto.GenerateRandomAlphabet(6))
}

func (d *authDomain) VerifyEmail(
	ctx context.Context, req *model.VerifyEmailRequest,
) (*model.VerifyEmailResponse, error) {
	claims, err := d.verifyEmailEngine.Verify(req.Token)
	if err != nil || claims.UserID == "" {
		return nil, errorx.New(errorx.AuthFailed, "Invalid or expired verification token")
	}

	if err := d.userRepo.SetVerified(ctx, claims.UserID); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot verify the user: %v", err)
		return nil, errorx.Unknown
	}

	return &model.VerifyEmailResponse{}, nil
}

func (d *authDomain) ResendVerification(
	ctx context.Context, req *model.ResendVerificationRequest,
) (*model.ResendVerificationResponse, error) {
	user, err := d.userRepo.GetByID(ctx, xcontext.RequestUserID(ctx))
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get the user: %v", err)
		return nil, errorx.Unknown
	}

	if user.IsVerified {
		return nil, errorx.New(errorx.BadRequest, "Email is already verified")
	}

	d.sendVerification(ctx, user)
	return &model.ResendVerificationResponse{}, nil
}

func (d *authDomain) GetMe(ctx context.Context, req *model.GetMeRequest) (*model.GetMeResponse, error) {
	user, err := d.userRepo.GetByID(ctx, xcontext.RequestUserID(ctx))
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get the user: %v", err)
		return nil, errorx.Unknown
	}

	return &model.GetMeResponse{User: model.ConvertUser(user)}, nil
}

func (d *authDomain) generateAccessToken(ctx context.Context, user *entity.User) (string, error) {
	token, err := xcontext.TokenEngine(ctx).Generate(user.ID, model.AccessToken{
		ID:       user.ID,
		Username: user.Username,
		Role:     user.Role,
	})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot generate the access token: %v", err)
		return "", errorx.Unknown
	}

	return token, nil
}

// sendVerification issues a verification token and mails it. Without an SMTP
// configuration the token is logged so that local setups stay usable.
func (d *authDomain) sendVerification(ctx context.Context, user *entity.User) {
	token, err := d.verifyEmailEngine.Generate(user.ID, model.VerifyEmailToken{UserID: user.ID})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot generate the verification token: %v", err)
		return
	}

	if !xcontext.Configs(ctx).Mail.Configured() {
		xcontext.Logger(ctx).Infof("Mail is not configured, verification token of %s: %s",
			user.Email, token)
		return
	}

	body := fmt.Sprintf("Welcome to OtakuHub!\n\nYour verification token: %s\n", token)
	if err := d.mailService.Send(ctx, user.Email, "Verify your email", body); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot send the verification mail: %v", err)
	}
}
