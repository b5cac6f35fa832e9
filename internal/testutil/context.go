package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/otakuhub/backend/config"
	"github.com/otakuhub/backend/internal/model"
	"github.com/otakuhub/backend/migration"
	"github.com/otakuhub/backend/pkg/authenticator"
	"github.com/otakuhub/backend/pkg/logger"
	"github.com/otakuhub/backend/pkg/xcontext"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// MockConfigs returns a config set good enough for any domain under test.
func MockConfigs() config.Configs {
	return config.Configs{
		Env:      "test",
		LogLevel: "ERROR",
		ApiServer: config.ServerConfigs{
			DefaultLimit: 50,
			MaxLimit:     100,
		},
		Auth: config.AuthConfigs{
			AccessToken: config.TokenConfigs{
				Name:       "access_token",
				Secret:     "token-secret",
				Expiration: time.Minute,
			},
			VerifyEmailToken: config.TokenConfigs{
				Name:       "verify_email_token",
				Secret:     "token-secret",
				Expiration: time.Minute,
			},
			AdminSecret: "admin-secret",
		},
		Session: config.SessionConfigs{
			Secret: "session-secret",
			Name:   "test_session",
		},
	}
}

// MockContext builds a context backed by a fresh in-memory database with the
// full schema migrated. Each call gets its own database.
func MockContext(t *testing.T) context.Context {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	// The in-memory database lives per connection, keep exactly one.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	cfg := MockConfigs()

	ctx := context.Background()
	ctx = xcontext.WithDB(ctx, db)
	ctx = xcontext.WithConfigs(ctx, cfg)
	ctx = xcontext.WithLogger(ctx, logger.NewLogger(logger.ERROR))
	ctx = xcontext.WithTokenEngine(ctx,
		authenticator.NewTokenEngine[model.AccessToken](cfg.Auth.AccessToken))

	require.NoError(t, migration.AutoMigrate(ctx))

	return ctx
}
