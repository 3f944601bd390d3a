// ABOUTME: Import command for restoring data from a backup
// ABOUTME: Replaces all routines and entries with the contents of a JSON or YAML backup

package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/hariviapak/routine-tracker/internal/backup"
)

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Restore data from a backup",
	Long: `Restore routines and entries from a backup created with 'routine backup'.

WARNING: This replaces all existing data. If the backup cannot be read
or is invalid, nothing is changed.

Examples:
  routine import routine-tracker-backup-2024-01-07.json
  routine import backup.yaml --confirm`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		filename := args[0]

		data, err := os.ReadFile(filename) //nolint:gosec // user-supplied backup path
		if err != nil {
			return fmt.Errorf("failed to read file: %w", err)
		}

		snap, err := backup.Decode(data)
		if err != nil {
			return fmt.Errorf("failed to read backup: %w", err)
		}

		skip, _ := cmd.Flags().GetBool("confirm")
		if !skip && !confirm(cmd, fmt.Sprintf("Replace all data with '%s'?", filename)) {
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Canceled.")
			return nil
		}

		summary, err := trk.ImportSnapshot(cmd.Context(), snap)
		if err != nil {
			return fmt.Errorf("failed to import: %w", err)
		}

		out := cmd.OutOrStdout()
		_, _ = color.New(color.FgGreen).Fprintln(out, "Import complete")
		_, _ = fmt.Fprintf(out, "  %d routines, %d entries\n", summary.Routines, summary.Entries)
		if summary.Skipped > 0 {
			_, _ = color.New(color.FgYellow).Fprintf(out, "  %d entries skipped (unknown routine)\n", summary.Skipped)
		}
		return nil
	},
}

func init() {
	importCmd.Flags().Bool("confirm", false, "skip confirmation prompt")

	rootCmd.AddCommand(importCmd)
}
