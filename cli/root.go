package cli

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/coscup/sessiongen/pkg/config"
	"github.com/coscup/sessiongen/pkg/logger"
)

const defaultConfigFile = "sessiongen.yaml"

// RootCmd returns the sessiongen command tree backed by the OS filesystem.
func RootCmd() *cobra.Command {
	return newRootCmd(afero.NewOsFs())
}

func newRootCmd(fs afero.Fs) *cobra.Command {
	root := &cobra.Command{
		Use:   "sessiongen",
		Short: "Build per-day, per-room COSCUP schedules from pretalx or the website bundle",
		Long: `sessiongen downloads COSCUP submissions, normalizes and tags them, and writes
a JSON snapshot grouped by day and room together with an embeddable Go source file.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return SetupGlobalConfig(cmd, fs)
		},
	}
	root.PersistentFlags().String("config", defaultConfigFile, "Path to the YAML configuration file")
	root.PersistentFlags().String("log-level", "info", "Log level (debug, info, warn, error, disabled)")
	root.PersistentFlags().Bool("log-json", false, "Write logs as JSON")
	root.PersistentFlags().Bool("log-source", false, "Include source locations in logs")

	root.AddCommand(
		newFetchCmd(fs),
		newBundleCmd(fs),
		newGenerateCmd(fs),
		newOverridesCmd(fs),
		newVerifyCmd(fs),
		newVersionCmd(),
	)
	return root
}

// SetupGlobalConfig loads the configuration for cmd and attaches it, together
// with a run-scoped logger, to the command context. The config file is only
// mandatory when --config was given explicitly.
func SetupGlobalConfig(cmd *cobra.Command, fs afero.Fs) error {
	configFile, err := cmd.Flags().GetString("config")
	if err != nil {
		return fmt.Errorf("failed to get config flag: %w", err)
	}
	sources := []config.Source{
		config.NewYAMLProvider(fs, configFile, cmd.Flags().Changed("config")),
	}
	if flags := extractCLIFlags(cmd); len(flags) > 0 {
		sources = append(sources, config.NewCLIProvider(flags))
	}
	ctx := cmd.Context()
	cfg, err := config.NewService().Load(ctx, sources...)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logger.SetupLogger(cfg.Log.Level, cfg.Log.JSON, cfg.Log.Source)
	log := logger.GetDefault().With("run_id", uuid.NewString())
	log.Debug("Loaded configuration",
		"config", configFile,
		"event", cfg.Pretalx.Event,
		"overrides", len(cfg.Overrides.Paths),
	)

	ctx = logger.ContextWithLogger(ctx, log)
	ctx = config.ContextWithConfig(ctx, cfg)
	cmd.SetContext(ctx)
	return nil
}
