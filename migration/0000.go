package migration

import (
	"context"
	"fmt"

	"github.com/otakuhub/backend/internal/entity"
	"github.com/otakuhub/backend/pkg/xcontext"
)

// legacyIdentities lists every table whose logical identity later becomes a
// unique index, with the partition columns of that identity.
var legacyIdentities = []struct {
	table     string
	partition string
	filter    string
}{
	{table: "anime_ratings", partition: "user_id, anime_id"},
	{table: "character_ratings", partition: "user_id, character_id"},
	{table: "anime_reviews", partition: "user_id, anime_id"},
	{table: "character_reviews", partition: "user_id, character_id"},
	{
		table:     "activities",
		partition: "activity_type, user_id, item_id",
		filter:    "WHERE item_id IS NOT NULL",
	},
}

// migrate0000 creates the schema with the latest version. When legacy tables
// already exist, duplicated rows sharing one identity must go first or the
// unique indexes cannot be built. The newest row of each identity wins.
func migrate0000(ctx context.Context) error {
	db := xcontext.DB(ctx)

	for _, identity := range legacyIdentities {
		if !db.Migrator().HasTable(identity.table) {
			continue
		}

		err := db.Exec(fmt.Sprintf(`
			DELETE FROM %[1]s WHERE id IN (
				SELECT id FROM (
					SELECT id, ROW_NUMBER() OVER (
						PARTITION BY %[2]s
						ORDER BY updated_at DESC, created_at DESC
					) AS rn
					FROM %[1]s
					%[3]s
				) ranked WHERE rn > 1
			)`, identity.table, identity.partition, identity.filter)).Error
		if err != nil {
			return err
		}
	}

	return db.AutoMigrate(
		&entity.User{},
		&entity.UserStats{},
		&entity.AnimeRating{},
		&entity.CharacterRating{},
		&entity.AnimeReview{},
		&entity.CharacterReview{},
		&entity.ReviewComment{},
		&entity.UserPost{},
		&entity.Follow{},
		&entity.Activity{},
		&entity.ActivityLike{},
		&entity.ActivityComment{},
		&entity.Bookmark{},
		&entity.CommentLike{},
		&entity.ReviewLike{},
		&entity.Migration{},
	)
}
