package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/raoulx24/ghe-archiver/internal/config"
	"github.com/raoulx24/ghe-archiver/internal/logging"
	"github.com/raoulx24/ghe-archiver/internal/worker"
)

const appName = "ghe-archiver"

type RootOptions struct {
	ConfigPath string
	LogLevel   string
	Clock      worker.Clock

	cfg *config.Config
	log *logging.ZapLogger
}

func newRootCmd() *cobra.Command {
	return newRootCmdWithOptions(&RootOptions{
		ConfigPath: envDefault("GHE_ARCHIVER_CONFIG", "config.yaml"),
		LogLevel:   envDefault("GHE_ARCHIVER_LOG_LEVEL", ""),
		Clock:      worker.SystemClock{},
	})
}

func newRootCmdWithOptions(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:           appName,
		Short:         "Archive GitHub Enterprise snapshots and prune old archives",
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(opts.ConfigPath, cmd.Flags().Changed("config"))
			if err != nil {
				return err
			}
			if opts.LogLevel != "" {
				cfg.Log.Level = opts.LogLevel
			}
			log, err := logging.New(logging.Options{
				App:       appName,
				Dir:       cfg.Log.Dir,
				Level:     cfg.Log.Level,
				Format:    cfg.Log.Format,
				Retention: cfg.Log.Retention,
				Stdout:    cmd.OutOrStdout(),
			})
			if err != nil {
				return err
			}
			opts.cfg = cfg
			opts.log = log.With("command", cmd.Name())
			return nil
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			if opts.log != nil {
				_ = opts.log.Sync()
			}
		},
	}

	cmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", opts.ConfigPath, "Path to the configuration file")
	cmd.PersistentFlags().StringVar(&opts.LogLevel, "log-level", opts.LogLevel, "Log level (debug, info, warn, error), overrides log.level")

	cmd.AddCommand(
		newArchiveCmd(opts),
		newPruneCmd(opts),
		newGenerateCmd(opts),
		newServeCmd(opts),
	)

	return cmd
}

// loadConfig reads the configuration file. The defaults are used when the
// file was not asked for explicitly and does not exist.
func loadConfig(path string, explicit bool) (*config.Config, error) {
	cfg, err := config.Load(path)
	if err == nil {
		return cfg, nil
	}
	if !explicit && errors.Is(err, fs.ErrNotExist) {
		return config.Default(), nil
	}
	return nil, fmt.Errorf("loading %s: %w", path, err)
}

func envDefault(key, fallback string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return fallback
}
