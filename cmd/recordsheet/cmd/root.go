// Package cmd provides the recordsheet CLI commands.
package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/SscSPs/recordsheet/internal/platform/config"
	"github.com/spf13/cobra"
)

var (
	debug bool

	cfg    *config.Config
	logger *slog.Logger
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "recordsheet",
	Short: "Double-entry ledger with statement imports",
	Long: `recordsheet keeps a double-entry ledger of accounts and journals.
Bank and merchant statements are imported as pending external transactions
and consumed by journals exactly once.

Configuration is read from the environment and an optional .env file.

Example:
  recordsheet migrate up
  recordsheet account create personal:assets:checking
  recordsheet import --format ofx --account PERSONAL:ASSETS:CHECKING statement.ofx
  recordsheet serve`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.LoadConfig()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded

		level := cfg.LogLevel
		if debug {
			level = slog.LevelDebug
		}
		// Logs go to stderr so command output can be piped.
		logger = slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
		slog.SetDefault(logger)
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(accountCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(tokenCmd)
	rootCmd.AddCommand(formatsCmd)
}
