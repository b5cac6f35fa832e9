package migration

import (
	"context"
	"errors"
	"time"

	"github.com/otakuhub/backend/internal/entity"
	"github.com/otakuhub/backend/pkg/xcontext"
	"gorm.io/gorm"
)

// migrations run in order. Append only, never reorder.
var migrations = []func(ctx context.Context) error{
	migrate0000,
}

func Migrate(ctx context.Context) error {
	db := xcontext.DB(ctx)
	if err := db.AutoMigrate(&entity.Migration{}); err != nil {
		return err
	}

	for version, migrate := range migrations {
		var applied entity.Migration
		err := db.Take(&applied, "version = ?", version).Error
		if err == nil {
			continue
		}

		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		xcontext.Logger(ctx).Infof("Applying migration %04d", version)
		if err := migrate(ctx); err != nil {
			return err
		}

		record := entity.Migration{Version: version, AppliedAt: time.Now()}
		if err := db.Create(&record).Error; err != nil {
			return err
		}
	}

	return nil
}
