package cli

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/riskregister/pkg/cli/config"
	"github.com/secmon-lab/riskregister/pkg/usecase"
	"github.com/secmon-lab/riskregister/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

func cmdSeed() *cli.Command {
	var seedPath string
	var repoCfg config.Repository

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "file",
			Aliases:     []string{"f"},
			Usage:       "Seed TOML file",
			Required:    true,
			Sources:     cli.EnvVars("RISKREG_SEED"),
			Destination: &seedPath,
		},
	}
	flags = append(flags, repoCfg.Flags()...)

	return &cli.Command{
		Name:  "seed",
		Usage: "Load departments, groups, categories and hazards from a seed file",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			repo, err := repoCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to initialize repository")
			}
			defer func() {
				if err := repo.Close(); err != nil {
					logging.Default().Error("failed to close repository", "error", err.Error())
				}
			}()

			return runSeed(ctx, usecase.New(repo), seedPath)
		},
	}
}

// runSeed loads the seed file and creates the records that do not exist yet
func runSeed(ctx context.Context, uc *usecase.UseCases, path string) error {
	seed, err := config.LoadSeedConfiguration(path)
	if err != nil {
		return goerr.Wrap(err, "failed to load seed file")
	}

	result, err := uc.Reference.Seed(ctx, seed.ToDomainSeed())
	if err != nil {
		return goerr.Wrap(err, "failed to seed repository")
	}

	logging.Default().Info("Seed completed",
		"path", path,
		"departments", result.Departments,
		"groups", result.Groups,
		"categories", result.Categories,
		"hazards", result.Hazards,
	)
	return nil
}
