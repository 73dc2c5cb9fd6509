package cmd

import (
	"github.com/SscSPs/recordsheet/internal/platform/dbmigrate"
	"github.com/spf13/cobra"
)

// migrateCmd represents the migrate command.
var migrateCmd = &cobra.Command{
	Use:       "migrate up|down",
	Short:     "Apply or roll back the schema migrations",
	Long:      `Runs the embedded migrations for DB_DRIVER. "down" drops the whole ledger schema.`,
	Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	ValidArgs: []string{string(dbmigrate.Up), string(dbmigrate.Down)},
	RunE: func(cmd *cobra.Command, args []string) error {
		return dbmigrate.Run(cfg.DBDriver, migrationDSN(cfg), dbmigrate.Direction(args[0]), logger)
	},
}
