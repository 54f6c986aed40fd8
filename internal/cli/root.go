package cli

import (
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"trendline-overlay/internal/config"
	"trendline-overlay/internal/logging"
	"trendline-overlay/internal/overlay"
	"trendline-overlay/internal/series"
)

// Version information
const (
	Version   = "0.1.0"
	BuildDate = "2026-10-19"
)

// App holds the application dependencies.
type App struct {
	Config    *config.Config
	ConfigDir string
	Logger    zerolog.Logger

	service *overlay.Service
	loader  *series.Loader
}

// Service returns the overlay service, building it on first use.
func (a *App) Service() (*overlay.Service, *series.Loader, error) {
	if a.service == nil {
		svc, loader, err := overlay.NewFromConfig(a.Config, a.Logger)
		if err != nil {
			return nil, nil, err
		}
		a.service, a.loader = svc, loader
	}
	return a.service, a.loader, nil
}

// NewRootCmd creates the root command for the CLI. A nil cfg defers loading to
// command start, after --config has been parsed; the default directory is used
// when the flag is absent.
func NewRootCmd(cfg *config.Config, logger zerolog.Logger) *cobra.Command {
	app := &App{
		Config:    cfg,
		ConfigDir: config.DefaultConfigDir(),
		Logger:    logger,
	}

	rootCmd := &cobra.Command{
		Use:   "trendline",
		Short: "Trend line overlay - support and resistance lines for candle series",
		Long: `Trendline draws a single trend line over a candle series.

In pivot mode it finds swing highs and lows, tests every pair of them as a
support or resistance line that no later candle crosses, and reports the line
with the most touches. In regression mode it fits a least squares line
through all closes.

Series are read from CSV (time,open,high,low,close,volume) or JSON files.`,
		Example: `  trendline detect btc-1h.csv
  trendline detect btc-1h.json --mode regression --json
  trendline pivots btc-1h.csv --window 3
  trendline batch data/*.csv --workers 4`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			dir, _ := cmd.Flags().GetString("config")
			if dir != "" || app.Config == nil {
				loaded, err := config.Load(dir)
				if err != nil {
					return err
				}
				app.Config = loaded
				if dir != "" {
					app.ConfigDir = dir
				}
				app.Logger = logging.NewLoggerWithConfig(loaded.LogConfig())
				app.service, app.loader = nil, nil
			}

			debug, _ := cmd.Flags().GetBool("debug")
			if debug {
				app.Logger = app.Logger.Level(zerolog.DebugLevel)
				app.service, app.loader = nil, nil
			}

			cmd.SetContext(logging.WithLogger(cmd.Context(), app.Logger))
			return nil
		},
	}

	rootCmd.PersistentFlags().String("config", "", "config directory (default: ~/.config/trendline-overlay)")
	rootCmd.PersistentFlags().Bool("json", false, "output in JSON format")
	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging")

	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newConfigCmd(app))
	rootCmd.AddCommand(newDetectCmd(app))
	rootCmd.AddCommand(newPivotsCmd(app))
	rootCmd.AddCommand(newBatchCmd(app))

	return rootCmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if output.IsJSON() {
				return output.JSON(map[string]string{
					"version":    Version,
					"build_date": BuildDate,
				})
			}
			output.Printf("Trendline Overlay v%s\n", Version)
			output.Dim("Build date: %s", BuildDate)
			return nil
		},
	}
}

func newConfigCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration management",
		Long:  "View and validate application configuration.",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if output.IsJSON() {
				return output.JSON(app.Config)
			}
			showConfig(output, app.Config)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show configuration file path",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			path := filepath.Join(app.ConfigDir, "config.toml")
			if output.IsJSON() {
				return output.JSON(map[string]string{"path": path})
			}
			output.Println(path)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "validate",
		Short: "Validate configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if err := app.Config.Validate(); err != nil {
				output.Error("Configuration validation failed: %v", err)
				return err
			}
			if output.IsJSON() {
				return output.JSON(map[string]bool{"valid": true})
			}
			output.Success("✓ Configuration is valid")
			return nil
		},
	})

	return cmd
}

func showConfig(output *Output, cfg *config.Config) {
	output.Bold("Engine")
	output.Printf("  Mode:            %s\n", cfg.Engine.Mode)
	output.Printf("  Window:          %d\n", cfg.Engine.Window)
	output.Printf("  Epsilon:         %g\n", cfg.Engine.Epsilon)
	output.Printf("  Touch Tolerance: %g\n", cfg.Engine.TouchTolerance)
	output.Println()

	output.Bold("Data")
	output.Printf("  Cache TTL:       %s\n", cfg.Data.CacheTTL)
	output.Printf("  Max Candles:     %s\n", maxCandlesLabel(cfg.Data.MaxCandles))
	output.Println()

	output.Bold("Batch")
	output.Printf("  Workers:         %s\n", workersLabel(cfg.Batch.Workers))
	output.Println()

	output.Bold("Logging")
	output.Printf("  Level:           %s\n", cfg.Logging.Level)
	output.Printf("  File:            %v\n", cfg.Logging.File)
	if cfg.Logging.File {
		output.Printf("  Path:            %s\n", cfg.Logging.FilePath)
	}
}

func maxCandlesLabel(n int) string {
	if n == 0 {
		return "unlimited"
	}
	return FormatCount(n)
}

func workersLabel(n int) string {
	if n == 0 {
		return "one per CPU"
	}
	return FormatCount(n)
}
