package cmd

import (
	"context"
	"fmt"
	"os"

	portssvc "github.com/SscSPs/recordsheet/internal/core/ports/services"
	"github.com/spf13/cobra"
)

var (
	importFormat  string
	importAccount string
)

// importCmd represents the import command.
var importCmd = &cobra.Command{
	Use:   "import FILE",
	Short: "Import a bank or merchant statement",
	Long: `Parses FILE and stores its records as pending external transactions.
Records imported before are skipped, so re-running an import is safe.
A malformed file is rejected as a whole.

Example:
  recordsheet import --format amazon-csv --account PERSONAL:ASSETS:AMAZON orders.csv
  recordsheet import --format ofx statement.ofx`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

func init() {
	importCmd.Flags().StringVar(&importFormat, "format", "", "statement format, see the formats command (required)")
	importCmd.Flags().StringVar(&importAccount, "account", "", "id or name of the account the records belong to")
	_ = importCmd.MarkFlagRequired("format")
}

func runImport(cmd *cobra.Command, args []string) error {
	f, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("failed to open statement: %w", err)
	}
	defer f.Close()

	return withApp(cmd, func(ctx context.Context, svc *portssvc.ServiceContainer) error {
		var target *string
		if importAccount != "" {
			account, err := resolveAccount(ctx, svc.Account, importAccount)
			if err != nil {
				return err
			}
			target = &account.AccountID
		}

		result, err := svc.Import.ImportBatch(ctx, importFormat, f, target)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s: %d records, %d inserted, %d duplicates\n",
			result.Format, result.Total, result.Inserted, result.Duplicates)
		return nil
	})
}
