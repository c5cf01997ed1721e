package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonesrussell/north-cloud/review-responder/internal/config"
	"github.com/jonesrussell/north-cloud/review-responder/internal/database"
	infraconfig "github.com/jonesrussell/north-cloud/review-responder/internal/infrastructure/config"
)

func newMigrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:       "migrate <up|down>",
		Short:     "Apply or roll back the history schema migrations",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{database.MigrateUp, database.MigrateDown},
		RunE: func(cmd *cobra.Command, args []string) error {
			direction := args[0]

			// Only the database section matters here, so the full
			// service validation is skipped.
			path := configPath
			if path == "" {
				path = infraconfig.GetConfigPath("config.yml")
			}
			cfg, err := config.Load(path)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}

			changed, err := database.Migrate(cfg.Database.URL(), direction)
			if err != nil {
				return fmt.Errorf("migration %s failed: %w", direction, err)
			}

			if !changed {
				fmt.Fprintln(cmd.OutOrStdout(), "No migrations to apply")
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Migration %s completed successfully\n", direction)
			return nil
		},
	}
}
