package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"tonetags/internal/preference/store/migrations"
)

func newMigrateCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply the preference database migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := root.load()
			if err != nil {
				return err
			}
			if cfg.DatabaseURL == "" {
				return fmt.Errorf("database_url is not configured")
			}
			log, closer, err := setupLogger(cfg)
			if err != nil {
				return err
			}
			defer closer.Close()

			if err := migrations.Up(cfg.DatabaseURL); err != nil {
				return err
			}
			version, dirty, err := migrations.Version(cfg.DatabaseURL)
			if err != nil {
				return err
			}
			log.Info("migrations applied", "version", version, "dirty", dirty)
			fmt.Fprintf(cmd.OutOrStdout(), "schema version %d\n", version)
			return nil
		},
	}
}
