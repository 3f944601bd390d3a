// ABOUTME: Restore-defaults command
// ABOUTME: Creates the built-in seed routines that are not already present

package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/hariviapak/routine-tracker/internal/ui"
)

var defaultsCmd = &cobra.Command{
	Use:   "defaults",
	Short: "Add the default routines",
	Long: `Add the built-in routines (Water, Medicine, Yoga, ...).
Routines whose name is already in use are left alone.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		created, err := trk.RestoreDefaults(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to restore defaults: %w", err)
		}

		out := cmd.OutOrStdout()
		if len(created) == 0 {
			_, _ = fmt.Fprintln(out, "All default routines already exist.")
			return nil
		}

		_, _ = color.New(color.FgGreen).Fprintf(out, "✓ Added %d default routines\n", len(created))
		for _, r := range created {
			_, _ = fmt.Fprintf(out, "  %s\n", ui.FormatRoutine(r))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(defaultsCmd)
}
