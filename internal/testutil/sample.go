package testutil

import (
	"context"
	"reflect"
	"testing"

	"github.com/google/uuid"
	"github.com/otakuhub/backend/internal/entity"
	"github.com/otakuhub/backend/internal/repository"
	"github.com/stretchr/testify/require"
)

// SampleUser creates a user with randomized fields. Non-zero fields of init
// overwrite the sample.
func SampleUser(t *testing.T, ctx context.Context, init *entity.User) *entity.User {
	id := uuid.NewString()
	sample := &entity.User{
		Base:        entity.Base{ID: id},
		Username:    "user_" + id[:8],
		Email:       id[:8] + "@example.com",
		DisplayName: "User " + id[:8],
		IsVerified:  true,
		Language:    entity.LanguageKorean,
		Role:        entity.UserRole,
	}

	if init != nil {
		overwriteFields(sample, *init)
	}

	require.NoError(t, repository.NewUserRepository().Create(ctx, sample))
	return sample
}

func overwriteFields[T any](origin *T, overwrite T) {
	originValue := reflect.ValueOf(origin).Elem()
	overwriteValue := reflect.ValueOf(overwrite)

	for i := 0; i < overwriteValue.NumField(); i++ {
		overwriteField := overwriteValue.Field(i)
		if !overwriteField.IsZero() {
			originValue.Field(i).Set(overwriteField)
		}
	}
}
