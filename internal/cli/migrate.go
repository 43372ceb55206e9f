package cli

import (
	"github.com/spf13/cobra"

	"github.com/dtroode/musehabit-server/database"
	"github.com/dtroode/musehabit-server/internal/logger"
)

// NewMigrateCommand creates the migrate command.
func NewMigrateCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(rootOpts)
			if err != nil {
				return err
			}
			log := logger.New(cfg.LogLevel)

			if err := database.Migrate(cmd.Context(), cfg.Database.DSN); err != nil {
				return err
			}
			log.Info("migrations applied")
			return nil
		},
	}
}
