package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// formatsCmd represents the formats command.
var formatsCmd = &cobra.Command{
	Use:   "formats",
	Short: "List the statement formats accepted by import",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		registry, err := newImportRegistry(cfg)
		if err != nil {
			return err
		}
		for _, format := range registry.Formats() {
			fmt.Fprintln(cmd.OutOrStdout(), format)
		}
		return nil
	},
}
