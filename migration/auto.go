package migration

import (
	"context"

	"github.com/otakuhub/backend/internal/entity"
	"github.com/otakuhub/backend/pkg/xcontext"
)

// AutoMigrate creates the full schema in one shot. Test databases use this
// instead of the versioned path.
func AutoMigrate(ctx context.Context) error {
	return xcontext.DB(ctx).AutoMigrate(
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
