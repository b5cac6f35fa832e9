package main

import (
	"github.com/otakuhub/backend/internal/model"
	"github.com/urfave/cli/v2"
)

func (s *srv) startBackfill(ct *cli.Context) error {
	s.loadConfig()
	s.loadLogger()
	s.loadDatabase()

	ctx := s.newContext()
	s.loadRedis(ctx)
	s.loadRepos()
	s.loadDomains()

	if userID := ct.String("user"); userID != "" {
		resp, err := s.backfillDomain.BackfillUser(ctx, &model.BackfillUserRequest{UserID: userID})
		if err != nil {
			return err
		}

		s.logger.Infof("Backfilled user %s: %d promotions, score %d",
			userID, resp.Promotions, resp.Stats.OtakuScore)
		return nil
	}

	resp, err := s.backfillDomain.BackfillAll(ctx, &model.BackfillAllRequest{
		Concurrency: ct.Int("concurrency"),
	})
	if err != nil {
		return err
	}

	s.logger.Infof("Backfilled %d users", resp.Users)
	return nil
}
