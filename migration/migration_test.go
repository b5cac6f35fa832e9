package migration_test

import (
	"context"
	"testing"

	"github.com/otakuhub/backend/migration"
	"github.com/otakuhub/backend/pkg/logger"
	"github.com/otakuhub/backend/pkg/xcontext"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// legacyContext builds a context over a raw in-memory database, without the
// schema; the migrations under test create it.
func legacyContext(t *testing.T) context.Context {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	// The in-memory database lives per connection, keep exactly one.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	ctx := context.Background()
	ctx = xcontext.WithDB(ctx, db)
	ctx = xcontext.WithLogger(ctx, logger.NewLogger(logger.ERROR))

	return ctx
}

func TestMigrateOnEmptyDatabase(t *testing.T) {
	ctx := legacyContext(t)
	require.NoError(t, migration.Migrate(ctx))

	// A second run finds the recorded version and changes nothing.
	require.NoError(t, migration.Migrate(ctx))
}

func TestMigrateDeduplicatesLegacyRows(t *testing.T) {
	ctx := legacyContext(t)
	db := xcontext.DB(ctx)

	require.NoError(t, db.Exec(`CREATE TABLE anime_ratings (
		id TEXT PRIMARY KEY, created_at DATETIME, updated_at DATETIME,
		user_id TEXT, anime_id TEXT, rating REAL, status TEXT, anime_title TEXT
	)`).Error)
	require.NoError(t, db.Exec(`INSERT INTO anime_ratings
		(id, created_at, updated_at, user_id, anime_id, rating, status, anime_title) VALUES
		('rating-stale', '2024-01-01', '2024-01-01', 'u1', 'a1', 3, 'RATED', 'A1'),
		('rating-fresh', '2024-01-01', '2024-02-01', 'u1', 'a1', 4, 'RATED', 'A1'),
		('rating-other', '2024-01-01', '2024-01-01', 'u2', 'a1', 5, 'RATED', 'A1')
	`).Error)

	require.NoError(t, db.Exec(`CREATE TABLE anime_reviews (
		id TEXT PRIMARY KEY, created_at DATETIME, updated_at DATETIME,
		user_id TEXT, anime_id TEXT, content TEXT, anime_title TEXT
	)`).Error)
	require.NoError(t, db.Exec(`INSERT INTO anime_reviews
		(id, created_at, updated_at, user_id, anime_id, content, anime_title) VALUES
		('review-stale', '2024-01-01', '2024-01-01', 'u1', 'a1', 'old take', 'A1'),
		('review-fresh', '2024-01-01', '2024-03-01', 'u1', 'a1', 'new take', 'A1')
	`).Error)

	require.NoError(t, db.Exec(`CREATE TABLE activities (
		id TEXT PRIMARY KEY, created_at DATETIME, updated_at DATETIME,
		activity_type TEXT, user_id TEXT, item_id TEXT, activity_time DATETIME
	)`).Error)
	require.NoError(t, db.Exec(`INSERT INTO activities
		(id, created_at, updated_at, activity_type, user_id, item_id, activity_time) VALUES
		('act-stale', '2024-01-01', '2024-01-01', 'anime_rating', 'u1', 'a1', '2024-01-01'),
		('act-fresh', '2024-01-01', '2024-02-01', 'anime_rating', 'u1', 'a1', '2024-02-01'),
		('act-promo-1', '2024-01-01', '2024-01-01', 'rank_promotion', 'u1', NULL, '2024-01-01'),
		('act-promo-2', '2024-01-02', '2024-01-02', 'rank_promotion', 'u1', NULL, '2024-01-02')
	`).Error)

	require.NoError(t, migration.Migrate(ctx))

	var ratingIDs []string
	require.NoError(t, db.Raw(
		`SELECT id FROM anime_ratings ORDER BY id`).Scan(&ratingIDs).Error)
	require.Equal(t, []string{"rating-fresh", "rating-other"}, ratingIDs)

	var reviewIDs []string
	require.NoError(t, db.Raw(
		`SELECT id FROM anime_reviews ORDER BY id`).Scan(&reviewIDs).Error)
	require.Equal(t, []string{"review-fresh"}, reviewIDs)

	// Promotions have no item identity and are never touched.
	var activityIDs []string
	require.NoError(t, db.Raw(
		`SELECT id FROM activities ORDER BY id`).Scan(&activityIDs).Error)
	require.Equal(t, []string{"act-fresh", "act-promo-1", "act-promo-2"}, activityIDs)
}
