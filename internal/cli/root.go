package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/me/probsched/internal/config"
	"github.com/me/probsched/internal/logging"
	"github.com/spf13/cobra"
)

var (
	flagConfig    string
	flagEngine    string
	flagServer    string
	flagDebug     bool
	flagLogLevel  string
	flagLogFormat string

	appConfig config.Config
	logger    *slog.Logger
	client    *Client
)

// defaultServer returns the default API URL, checking PROBSCHED_SERVER first.
func defaultServer() string {
	if s := os.Getenv("PROBSCHED_SERVER"); s != "" {
		return s
	}
	return "http://localhost:8080"
}

// NewRootCmd creates the root cobra command for the probsched CLI.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "probsched",
		Short: "probsched runs CPU scheduling simulations",
		Long: `probsched hands a scheduling simulation to an external engine, then shows
the engine's statistics and the execution timeline as Gantt intervals.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(flagConfig)
			if err != nil {
				return err
			}
			flags := cmd.Flags()
			if flags.Changed("engine") {
				cfg.Engine.Path = flagEngine
			}
			if flags.Changed("log-level") {
				cfg.Log.Level = flagLogLevel
			}
			if flags.Changed("log-format") {
				cfg.Log.Format = flagLogFormat
			}
			if flagDebug {
				cfg.Log.Level = "debug"
			}
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("invalid configuration: %w", err)
			}

			level, _ := logging.ParseLevel(cfg.Log.Level)
			logger = logging.NewLoggerWithWriter(level, cfg.Log.Format, cmd.ErrOrStderr())
			appConfig = cfg
			client = NewClient(flagServer, logger)
			return nil
		},
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVar(&flagConfig, "config", "", "YAML config file")
	root.PersistentFlags().StringVar(&flagEngine, "engine", config.DefaultEnginePath, "Engine executable (or PROBSCHED_ENGINE env)")
	root.PersistentFlags().StringVar(&flagServer, "server", defaultServer(), "probsched server URL for --remote and latest (or PROBSCHED_SERVER env)")
	root.PersistentFlags().BoolVar(&flagDebug, "debug", false, "Enable debug logging")
	root.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	root.PersistentFlags().StringVar(&flagLogFormat, "log-format", "text", "Log format (text, json)")

	root.AddCommand(
		newRunCmd(),
		newLatestCmd(),
		newTableCmd(),
		newAlgorithmsCmd(),
		newVersionCmd(),
	)

	return root
}
