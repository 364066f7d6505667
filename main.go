// package main is the entry point for the review-triage tool
package main

import (
	"log/slog"
	"os"

	commentscmd "github.com/alan/review-triage/cmd/comments"
	configcmd "github.com/alan/review-triage/cmd/config"
	replycmd "github.com/alan/review-triage/cmd/reply"
	"github.com/alan/review-triage/internal/config"
	"github.com/joho/godotenv"
	"github.com/lmittmann/tint"
	"github.com/spf13/cobra"
)

func main() {
	// Pick up GITHUB_TOKEN and friends from a local .env if one exists.
	_ = godotenv.Load()

	var configFile string
	var logLevel string
	var logFormat string

	rootCmd := &cobra.Command{
		Use:   "review-triage",
		Short: "A CLI tool for triaging pull request review feedback on GitHub",
		Long: `review-triage aggregates all review feedback on a pull request (reviews,
inline code comments, and conversation comments) into a single threaded,
chronologically ordered JSON document, and bulk-posts replies back into
the correct comment threads.`,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			setupLogger(logLevel, logFormat)
		},
	}

	// Add global flags
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "review-triage.yaml", "Configuration file path")
	rootCmd.PersistentFlags().StringVarP(&logLevel, "log-level", "l", "info", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVarP(&logFormat, "log-format", "f", "text", "Log format (text, json)")

	rootCmd.AddCommand(configcmd.NewConfigCmd(&configFile, config.LoadConfig, config.SaveConfig))
	rootCmd.AddCommand(commentscmd.NewCommentsCmd(&configFile, config.LoadConfig))
	rootCmd.AddCommand(replycmd.NewReplyCmd(&configFile, config.LoadConfig))

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// setupLogger configures the default slog logger. Diagnostics go to stderr so
// stdout stays reserved for the machine-readable documents the commands emit.
func setupLogger(level, format string) {
	var logLevel slog.Level
	switch level {
	case "debug":
		logLevel = slog.LevelDebug
	case "info":
		logLevel = slog.LevelInfo
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	var handler slog.Handler
	if format == "json" {
		handler = slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel})
	} else {
		handler = tint.NewHandler(os.Stderr, &tint.Options{Level: logLevel})
	}

	slog.SetDefault(slog.New(handler))
}
