package cli

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"taskmaster/internal/storage/sqlstore"
)

func newMigrateCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, opts)
			if err != nil {
				return err
			}
			logger, err := newLogger(cmd, cfg)
			if err != nil {
				return err
			}

			store, err := sqlstore.Connect(cmd.Context(), cfg.Database, logger)
			if err != nil {
				return err
			}
			defer store.Close()

			before, err := store.Version(cmd.Context())
			if err != nil {
				return err
			}
			after, err := store.Migrate(cmd.Context())
			if err != nil {
				return err
			}

			logger.Info("migrations complete", slog.Int("from", before), slog.Int("to", after))
			fmt.Fprintf(cmd.OutOrStdout(), "schema version %d\n", after)
			return nil
		},
	}
}
