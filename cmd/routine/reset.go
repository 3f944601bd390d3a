// ABOUTME: Reset command for deleting data
// ABOUTME: Clears every routine and entry, or only the routines

package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete all data",
	Long: `Delete every routine and entry.

With --routines-only, routines are removed but recorded entries are kept.

Examples:
  routine reset
  routine reset --routines-only --confirm`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		routinesOnly, _ := cmd.Flags().GetBool("routines-only")

		prompt := "Delete ALL routines and history? This cannot be undone."
		if routinesOnly {
			prompt = "Delete all routines?"
		}
		skip, _ := cmd.Flags().GetBool("confirm")
		if !skip && !confirm(cmd, prompt) {
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Canceled.")
			return nil
		}

		if routinesOnly {
			if err := trk.DeleteAllRoutines(cmd.Context()); err != nil {
				return fmt.Errorf("failed to delete routines: %w", err)
			}
			_, _ = color.New(color.FgGreen).Fprintln(cmd.OutOrStdout(), "✓ Deleted all routines")
			return nil
		}

		if err := trk.ClearAll(cmd.Context()); err != nil {
			return fmt.Errorf("failed to reset: %w", err)
		}
		_, _ = color.New(color.FgGreen).Fprintln(cmd.OutOrStdout(), "✓ Deleted all data")
		return nil
	},
}

func init() {
	resetCmd.Flags().Bool("routines-only", false, "delete routines but keep recorded entries")
	resetCmd.Flags().Bool("confirm", false, "skip confirmation prompt")

	rootCmd.AddCommand(resetCmd)
}
