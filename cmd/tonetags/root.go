package main

import (
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"tonetags/internal/platform/config"
	"tonetags/internal/platform/logger"
)

type rootOptions struct {
	configFile string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:           "tonetags",
		Short:         "Explain tone tags using per-user standards",
		Long:          `Serve the tone-tag commands over HTTP, migrate the preference database and lint standard documents.`,
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	cmd.PersistentFlags().StringVar(&opts.configFile, "config", "", "path to a tonetags.yaml config file")

	cmd.AddCommand(
		newServeCmd(opts),
		newMigrateCmd(opts),
		newLintCmd(),
		newExplainCmd(),
		newTokenCmd(opts),
	)
	return cmd
}

func (o *rootOptions) load() (*config.Config, error) {
	if o.configFile != "" {
		return config.LoadFile(o.configFile)
	}
	return config.Load()
}

// setupLogger installs the configured logger as the process default.
func setupLogger(cfg *config.Config) (*slog.Logger, io.Closer, error) {
	log, closer, err := logger.New(os.Stderr, cfg.Log.Level, cfg.Log.Format, cfg.Log.File)
	if err != nil {
		return nil, nil, err
	}
	slog.SetDefault(log)
	return log, closer, nil
}
