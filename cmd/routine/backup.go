// ABOUTME: Backup command for exporting all data to JSON or YAML
// ABOUTME: Creates portable backup files that the import command restores

package main

import (
	"bytes"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/hariviapak/routine-tracker/internal/backup"
	"github.com/hariviapak/routine-tracker/internal/models"
)

var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Create a backup of all data",
	Long: `Create a backup file containing all routines and entries.

The backup file can be used to:
- Move data between machines
- Restore after data loss
- Switch between storage backends

Examples:
  routine backup
  routine backup --format yaml
  routine backup -o ~/backups/routines.json
  routine backup -o -`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		rawFormat, _ := cmd.Flags().GetString("format")
		format, err := backup.ParseFormat(rawFormat)
		if err != nil {
			return err
		}

		snap, err := trk.ExportSnapshot(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to create backup: %w", err)
		}

		var buf bytes.Buffer
		if err := backup.Encode(&buf, snap, format); err != nil {
			return fmt.Errorf("failed to encode backup: %w", err)
		}

		output, _ := cmd.Flags().GetString("output")
		if output == "-" {
			_, err := cmd.OutOrStdout().Write(buf.Bytes())
			return err
		}
		if output == "" {
			output = backup.FileName(models.Today(), format)
		}

		if err := os.WriteFile(output, buf.Bytes(), 0644); err != nil { //nolint:gosec // 0644 is intentional for backup files
			return fmt.Errorf("failed to write backup: %w", err)
		}

		out := cmd.OutOrStdout()
		_, _ = color.New(color.FgGreen).Fprintf(out, "Backup created: %s\n", output)
		_, _ = fmt.Fprintf(out, "  %d routines, %d entries\n", len(snap.Routines), len(snap.Entries))
		return nil
	},
}

func init() {
	backupCmd.Flags().StringP("format", "f", string(backup.FormatJSON), "backup format: json or yaml")
	backupCmd.Flags().StringP("output", "o", "", "output file, '-' for stdout (default: routine-tracker-backup-YYYY-MM-DD.<format>)")

	rootCmd.AddCommand(backupCmd)
}
