package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/otakuhub/backend/pkg/errorx"
	"github.com/otakuhub/backend/pkg/router"
	"github.com/otakuhub/backend/pkg/xcontext"
)

// ParseToken resolves the bearer token into a request user id when one is
// present. It never rejects the request, so public endpoints can still tell
// who is asking.
func ParseToken() router.MiddlewareFunc {
	return func(ctx context.Context, r *http.Request) (context.Context, error) {
		token := bearerToken(r)
		if token == "" {
			return ctx, nil
		}

		claims, err := xcontext.TokenEngine(ctx).Verify(token)
		if err != nil {
			return nil, errorx.New(errorx.TokenExpired, "Your token is expired or invalid")
		}

		return xcontext.WithRequestUserID(ctx, claims.ID), nil
	}
}

// Authenticate rejects requests without a resolved user id. Place it after
// ParseToken.
func Authenticate() router.MiddlewareFunc {
	return func(ctx context.Context, r *http.Request) (context.Context, error) {
		if xcontext.RequestUserID(ctx) == "" {
			return nil, errorx.New(errorx.Unauthenticated, "You need to authenticate before")
		}

		return ctx, nil
	}
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}

	return strings.TrimSpace(parts[1])
}
