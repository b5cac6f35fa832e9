package main

import (
	"github.com/otakuhub/backend/migration"
	"github.com/urfave/cli/v2"
)

func (s *srv) startMigrate(*cli.Context) error {
	s.loadConfig()
	s.loadLogger()
	s.loadDatabase()

	ctx := s.newContext()
	if err := migration.Migrate(ctx); err != nil {
		return err
	}

	s.logger.Infof("Migrations are up to date")
	return nil
}
