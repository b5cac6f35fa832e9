package xcontext

import (
	"context"

	"github.com/otakuhub/backend/config"
	"github.com/otakuhub/backend/internal/model"
	"github.com/otakuhub/backend/pkg/authenticator"
	"github.com/otakuhub/backend/pkg/logger"
	"gorm.io/gorm"
)

type (
	dbKey          struct{}
	txKey          struct{}
	loggerKey      struct{}
	configsKey     struct{}
	tokenEngineKey struct{}
	userIDKey      struct{}
)

func WithDB(ctx context.Context, db *gorm.DB) context.Context {
	return context.WithValue(ctx, dbKey{}, db)
}

// DB returns the transaction opened by WithDBTransaction if one is active,
// otherwise the process-wide database handle.
func DB(ctx context.Context) *gorm.DB {
	if state, ok := ctx.Value(txKey{}).(*txState); ok && !state.finished {
		return state.tx
	}

	return ctx.Value(dbKey{}).(*gorm.DB)
}

type txState struct {
	tx       *gorm.DB
	finished bool
}

// WithDBTransaction begins a database transaction and returns a context whose
// DB() resolves to it. The caller must end it with WithCommitDBTransaction or
// WithRollbackDBTransaction; the usual form is an immediate deferred rollback,
// which becomes a no-op after the commit.
func WithDBTransaction(ctx context.Context) context.Context {
	return context.WithValue(ctx, txKey{}, &txState{tx: DB(ctx).Begin()})
}

func WithCommitDBTransaction(ctx context.Context) context.Context {
	if state, ok := ctx.Value(txKey{}).(*txState); ok && !state.finished {
		state.tx.Commit()
		state.finished = true
	}

	return ctx
}

func WithRollbackDBTransaction(ctx context.Context) context.Context {
	if state, ok := ctx.Value(txKey{}).(*txState); ok && !state.finished {
		state.tx.Rollback()
		state.finished = true
	}

	return ctx
}

func WithLogger(ctx context.Context, l logger.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, l)
}

func Logger(ctx context.Context) logger.Logger {
	return ctx.Value(loggerKey{}).(logger.Logger)
}

func WithConfigs(ctx context.Context, cfg config.Configs) context.Context {
	return context.WithValue(ctx, configsKey{}, cfg)
}

func Configs(ctx context.Context) config.Configs {
	return ctx.Value(configsKey{}).(config.Configs)
}

func WithTokenEngine(ctx context.Context, engine authenticator.TokenEngine[model.AccessToken]) context.Context {
	return context.WithValue(ctx, tokenEngineKey{}, engine)
}

func TokenEngine(ctx context.Context) authenticator.TokenEngine[model.AccessToken] {
	return ctx.Value(tokenEngineKey{}).(authenticator.TokenEngine[model.AccessToken])
}

func WithRequestUserID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, userIDKey{}, id)
}

// RequestUserID returns the authenticated user of this request, or an empty
// string for anonymous requests.
func RequestUserID(ctx context.Context) string {
	if id, ok := ctx.Value(userIDKey{}).(string); ok {
		return id
	}

	return ""
}
