package cmd

import (
	"fmt"
	"time"

	"github.com/SscSPs/recordsheet/internal/utils"
	"github.com/spf13/cobra"
)

var (
	tokenUser   string
	tokenExpiry time.Duration
)

// tokenCmd represents the token command.
var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Mint a bearer token for the HTTP API",
	Long: `Signs a JWT with JWT_SECRET and JWT_ISSUER. The user becomes the subject,
which is recorded as the creator of accounts and batches.

Example:
  recordsheet token --user alice --expiry 24h`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		expiry := tokenExpiry
		if expiry <= 0 {
			expiry = cfg.JWTExpiryDuration
		}
		token, err := utils.GenerateJWT(tokenUser, cfg.JWTSecret, expiry, cfg.JWTIssuer)
		if err != nil {
			return fmt.Errorf("failed to generate token: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), token)
		return nil
	},
}

func init() {
	tokenCmd.Flags().StringVar(&tokenUser, "user", "", "user id to put in the token subject (required)")
	tokenCmd.Flags().DurationVar(&tokenExpiry, "expiry", 0, "token lifetime (default JWT_EXPIRY_DURATION)")
	_ = tokenCmd.MarkFlagRequired("user")
}
