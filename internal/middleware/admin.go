package middleware

import (
	"context"
	"net/http"

	"github.com/otakuhub/backend/pkg/crypto"
	"github.com/otakuhub/backend/pkg/errorx"
	"github.com/otakuhub/backend/pkg/router"
	"github.com/otakuhub/backend/pkg/xcontext"
)

// OnlyAdmin guards operational endpoints with the shared admin secret.
func OnlyAdmin() router.MiddlewareFunc {
	return func(ctx context.Context, r *http.Request) (context.Context, error) {
		secret := r.Header.Get("X-Admin-Secret")
		if secret == "" || !crypto.ConstantTimeEqual(secret, xcontext.Configs(ctx).Auth.AdminSecret) {
			return nil, errorx.New(errorx.PermissionDenied, "Permission denied")
		}

		return ctx, nil
	}
}
