package model

import (
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/otakuhub/backend/internal/entity"
)

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}

	return t.Format(time.RFC3339)
}

func ConvertUser(user *entity.User) User {
	if user == nil {
		return User{}
	}

	return User{
		ID:          user.ID,
		Username:    user.Username,
		Email:       user.Email,
		DisplayName: user.DisplayName,
		AvatarURL:   user.AvatarURL,
		IsVerified:  user.IsVerified,
		Language:    string(user.Language),
		Role:        user.Role,
		CreatedAt:   formatTime(user.CreatedAt),
	}
}

// ConvertShortUser omits email and role, for embedding another user in a
// public payload.
func ConvertShortUser(user *entity.User) User {
	converted := ConvertUser(user)
	converted.Email = ""
	converted.Role = ""
	return converted
}

func ConvertAnimeRating(rating *entity.AnimeRating) AnimeRating {
	if rating == nil {
		return AnimeRating{}
	}

	return AnimeRating{
		ID:               rating.ID,
		UserID:           rating.UserID,
		AnimeID:          rating.AnimeID,
		Status:           string(rating.Status),
		Rating:           rating.Rating,
		AnimeTitle:       rating.AnimeTitle,
		AnimeTitleKorean: rating.AnimeTitleKorean.String,
		AnimeImage:       rating.AnimeImage.String,
		AnimeYear:        int(rating.AnimeYear.Int64),
		CreatedAt:        formatTime(rating.CreatedAt),
		UpdatedAt:        formatTime(rating.UpdatedAt),
	}
}

func ConvertCharacterRating(rating *entity.CharacterRating) CharacterRating {
	if rating == nil {
		return CharacterRating{}
	}

	return CharacterRating{
		ID:                  rating.ID,
		UserID:              rating.UserID,
		CharacterID:         rating.CharacterID,
		Status:              string(rating.Status),
		Rating:              rating.Rating,
		CharacterName:       rating.CharacterName,
		CharacterNameKorean: rating.CharacterNameKorean.String,
		CharacterImage:      rating.CharacterImage.String,
		AnimeID:             rating.AnimeID.String,
		AnimeTitle:          rating.AnimeTitle.String,
		AnimeTitleKorean:    rating.AnimeTitleKorean.String,
		AnimeTitleNative:    rating.AnimeTitleNative.String,
		CreatedAt:           formatTime(rating.CreatedAt),
		UpdatedAt:           formatTime(rating.UpdatedAt),
	}
}

func ConvertAnimeReview(review *entity.AnimeReview) Review {
	if review == nil {
		return Review{}
	}

	return Review{
		ID:              review.ID,
		UserID:          review.UserID,
		TargetID:        review.AnimeID,
		Title:           review.Title.String,
		Content:         review.Content,
		IsSpoiler:       review.IsSpoiler,
		LikesCount:      review.LikesCount,
		ItemTitle:       review.AnimeTitle,
		ItemTitleKorean: review.AnimeTitleKorean.String,
		ItemImage:       review.AnimeImage.String,
		CreatedAt:       formatTime(review.CreatedAt),
		UpdatedAt:       formatTime(review.UpdatedAt),
	}
}

func ConvertCharacterReview(review *entity.CharacterReview) Review {
	if review == nil {
		return Review{}
	}

	return Review{
		ID:              review.ID,
		UserID:          review.UserID,
		TargetID:        review.CharacterID,
		Title:           review.Title.String,
		Content:         review.Content,
		IsSpoiler:       review.IsSpoiler,
		LikesCount:      review.LikesCount,
		ItemTitle:       review.CharacterName,
		ItemTitleKorean: review.CharacterNameKorean.String,
		ItemImage:       review.CharacterImage.String,
		CreatedAt:       formatTime(review.CreatedAt),
		UpdatedAt:       formatTime(review.UpdatedAt),
	}
}

func ConvertComment(comment *entity.ReviewComment) Comment {
	if comment == nil {
		return Comment{}
	}

	return Comment{
		ID:              comment.ID,
		ReviewID:        comment.ReviewID,
		ReviewType:      string(comment.ReviewType),
		UserID:          comment.UserID,
		ParentCommentID: comment.ParentCommentID.String,
		Depth:           comment.Depth,
		Content:         comment.Content,
		LikesCount:      comment.LikesCount,
		CreatedAt:       formatTime(comment.CreatedAt),
	}
}

func ConvertPost(post *entity.UserPost) Post {
	if post == nil {
		return Post{}
	}

	return Post{
		ID:        post.ID,
		UserID:    post.UserID,
		Content:   post.Content,
		CreatedAt: formatTime(post.CreatedAt),
		UpdatedAt: formatTime(post.UpdatedAt),
	}
}

func ConvertActivityComment(comment *entity.ActivityComment) ActivityComment {
	if comment == nil {
		return ActivityComment{}
	}

	return ActivityComment{
		ID:         comment.ID,
		ActivityID: comment.ActivityID,
		UserID:     comment.UserID,
		Content:    comment.Content,
		CreatedAt:  formatTime(comment.CreatedAt),
	}
}

func ConvertActivity(activity *entity.Activity) Activity {
	if activity == nil {
		return Activity{}
	}

	converted := Activity{
		ID:               activity.ID,
		ActivityType:     string(activity.ActivityType),
		UserID:           activity.UserID,
		Username:         activity.Username,
		DisplayName:      activity.DisplayName,
		AvatarURL:        activity.AvatarURL,
		ItemID:           activity.ItemID.String,
		ItemTitle:        activity.ItemTitle.String,
		ItemTitleKorean:  activity.ItemTitleKorean.String,
		ItemImage:        activity.ItemImage.String,
		ItemYear:         int(activity.ItemYear.Int64),
		AnimeID:          activity.AnimeID.String,
		AnimeTitle:       activity.AnimeTitle.String,
		AnimeTitleKorean: activity.AnimeTitleKorean.String,
		AnimeTitleNative: activity.AnimeTitleNative.String,
		Rating:           activity.Rating,
		ReviewContent:    activity.ReviewContent.String,
		PostContent:      activity.PostContent.String,
		ActivityTime:     formatTime(activity.ActivityTime),
	}

	if activity.ActivityType == entity.RankPromotionActivity && activity.Metadata != nil {
		var promotion Promotion
		if err := mapstructure.Decode(map[string]any(activity.Metadata), &promotion); err == nil {
			converted.Promotion = &promotion
		}
	}

	return converted
}
