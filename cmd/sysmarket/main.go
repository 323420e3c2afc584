// Package main implements the sysmarket CLI: inventory management,
// ad-hoc CSV analytics and the Gemini-backed boilerplate generator.
package main

import (
	"fmt"
	"os"
	"time"

	"sysmarket/internal/config"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	// Global flags
	verbose    bool
	apiKey     string
	configPath string
	timeout    time.Duration

	// Loaded configuration and logger, shared by all commands
	cfg    *config.Config
	logger *zap.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "sysmarket",
	Short: "SysMarket - inventory management and AI boilerplate generation",
	Long: `SysMarket is a lightweight toolkit for small-business inventory:
product and supplier management against a remote API or a local SQLite
store, quick CSV analytics, and a Gemini-backed project boilerplate
generator that delivers a ready-to-download archive.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Load configuration first (missing file means defaults + env)
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return err
		}
		if apiKey != "" {
			cfg.LLM.APIKey = apiKey
		}

		zapConfig := zap.NewProductionConfig()
		zapConfig.Level = zap.NewAtomicLevelAt(logLevel(cfg.Logging.Level, verbose))
		logger, err = zapConfig.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&apiKey, "api-key", "", "Gemini API key (or set GEMINI_API_KEY / GOOGLE_API_KEY)")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "sysmarket.yaml", "Configuration file")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 5*time.Minute, "Operation timeout")

	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(askCmd)
	rootCmd.AddCommand(inventoryCmd)
	rootCmd.AddCommand(analyzeCmd)
}

// logLevel picks the zap level: --verbose forces debug, otherwise the
// configured level applies, with info covering unset or bad values.
func logLevel(configured string, verbose bool) zapcore.Level {
	if verbose {
		return zapcore.DebugLevel
	}
	if lvl, err := zapcore.ParseLevel(configured); err == nil {
		return lvl
	}
	return zapcore.InfoLevel
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
