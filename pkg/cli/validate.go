package cli

import (
	"context"
	"fmt"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/riskregister/pkg/cli/config"
	"github.com/secmon-lab/riskregister/pkg/usecase"
	"github.com/secmon-lab/riskregister/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

func cmdValidate() *cli.Command {
	var seedPath string
	var checkDB bool
	var repoCfg config.Repository

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "seed",
			Usage:       "Seed TOML file to validate",
			Sources:     cli.EnvVars("RISKREG_SEED"),
			Destination: &seedPath,
		},
		&cli.BoolFlag{
			Name:        "check-db",
			Usage:       "Check stored risks and hazards for consistency",
			Destination: &checkDB,
		},
	}
	flags = append(flags, repoCfg.Flags()...)

	return &cli.Command{
		Name:    "validate",
		Aliases: []string{"v"},
		Usage:   "Validate a seed file and optionally check DB consistency",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			logger := logging.Default()

			// Step 1: Load and validate the seed file
			if seedPath != "" {
				seed, err := config.LoadSeedConfiguration(seedPath)
				if err != nil {
					return goerr.Wrap(err, "seed validation failed")
				}
				logger.Info("Seed validation passed",
					"departments", len(seed.Departments),
					"groups", len(seed.Groups),
					"categories", len(seed.Categories),
					"hazards", len(seed.Hazards),
				)
			}

			// Step 2: DB consistency check
			if !checkDB {
				logger.Info("DB consistency check not requested, skipping")
				return nil
			}

			repo, err := repoCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to initialize repository")
			}
			defer func() {
				if err := repo.Close(); err != nil {
					logger.Error("failed to close repository", "error", err.Error())
				}
			}()

			result, err := usecase.New(repo).ValidateDB(ctx)
			if err != nil {
				return goerr.Wrap(err, "DB consistency check failed")
			}

			if result.HasIssues() {
				for _, issue := range result.Issues {
					logger.Warn("DB consistency issue found",
						"entity", issue.Entity,
						"id", issue.ID,
						"message", issue.Message,
						"expected", issue.Expected,
						"actual", issue.Actual,
					)
				}

				return fmt.Errorf("DB consistency check found %d issue(s)", len(result.Issues))
			}

			logger.Info("DB consistency check passed", "risks", result.Risks, "hazards", result.Hazards)
			return nil
		},
	}
}
