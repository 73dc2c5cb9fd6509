package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/SscSPs/recordsheet/internal/apperrors"
	"github.com/SscSPs/recordsheet/internal/core/domain"
	portssvc "github.com/SscSPs/recordsheet/internal/core/ports/services"
	"github.com/SscSPs/recordsheet/internal/dto"
	"github.com/spf13/cobra"
)

const cliUserID = "cli"

var (
	accountDescription string
	accountLimit       int
	accountOffset      int
)

// accountCmd groups the account registry commands.
var accountCmd = &cobra.Command{
	Use:   "account",
	Short: "Manage ledger accounts",
}

var accountCreateCmd = &cobra.Command{
	Use:   "create NAME",
	Short: "Register an account",
	Long: `Registers an account. Names are upper-cased and use ":" as the hierarchy
separator, e.g. PERSONAL:EXPENSES:FOOD.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, svc *portssvc.ServiceContainer) error {
			account, err := svc.Account.CreateAccount(ctx, dto.CreateAccountRequest{
				Name:        args[0],
				Description: accountDescription,
			}, cliUserID)
			if err != nil {
				return err
			}
			printAccounts(cmd.OutOrStdout(), []domain.Account{*account})
			return nil
		})
	},
}

var accountListCmd = &cobra.Command{
	Use:   "list",
	Short: "List accounts ordered by name",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withApp(cmd, func(ctx context.Context, svc *portssvc.ServiceContainer) error {
			accounts, err := svc.Account.ListAccounts(ctx, accountLimit, accountOffset)
			if err != nil {
				return err
			}
			printAccounts(cmd.OutOrStdout(), accounts)
			return nil
		})
	},
}

var accountCloseCmd = &cobra.Command{
	Use:   "close ID|NAME",
	Short: "Close an account; it keeps its history but rejects new postings",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, svc *portssvc.ServiceContainer) error {
			account, err := resolveAccount(ctx, svc.Account, args[0])
			if err != nil {
				return err
			}
			if err := svc.Account.CloseAccount(ctx, account.AccountID, cliUserID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "closed %s\n", account.Name)
			return nil
		})
	},
}

func init() {
	accountCreateCmd.Flags().StringVar(&accountDescription, "description", "", "free text description")
	accountListCmd.Flags().IntVar(&accountLimit, "limit", 500, "maximum number of accounts")
	accountListCmd.Flags().IntVar(&accountOffset, "offset", 0, "accounts to skip")

	accountCmd.AddCommand(accountCreateCmd, accountListCmd, accountCloseCmd)
}

// withApp opens the ledger for the duration of fn.
func withApp(cmd *cobra.Command, fn func(ctx context.Context, svc *portssvc.ServiceContainer) error) error {
	ctx := cmd.Context()
	a, err := openApp(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer a.close()
	return fn(ctx, a.services)
}

// resolveAccount looks ref up as an account id first and as a name second.
func resolveAccount(ctx context.Context, accounts portssvc.AccountReaderSvc, ref string) (*domain.Account, error) {
	account, err := accounts.GetAccountByID(ctx, ref)
	if err == nil {
		return account, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}
	account, err = accounts.GetAccountByName(ctx, ref)
	if errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrUnknownAccount, ref)
	}
	return account, err
}

func printAccounts(out io.Writer, accounts []domain.Account) {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tSTATUS\tDESCRIPTION")
	for _, a := range accounts {
		status := "open"
		if a.Closed {
			status = "closed"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", a.AccountID, a.Name, status, a.Description)
	}
	_ = w.Flush()
}
