// ABOUTME: Export command for generating a markdown history report
// ABOUTME: Writes weekly progress tables for a date range to stdout or a file

package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/hariviapak/routine-tracker/internal/models"
	"github.com/hariviapak/routine-tracker/internal/storage"
)

var exportCmd = &cobra.Command{
	Use:     "export",
	Aliases: []string{"e"},
	Short:   "Export history as markdown",
	Long: `Export routine history as markdown tables, one per week.

Defaults to the last seven days.

Examples:
  routine export
  routine export --from 2024-01-01 --to 2024-01-31
  routine export --from 2024-01-01 --output january.md`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		fromRaw, _ := cmd.Flags().GetString("from")
		toRaw, _ := cmd.Flags().GetString("to")

		to, err := resolveDate(toRaw)
		if err != nil {
			return fmt.Errorf("invalid --to value: %w", err)
		}
		from := fromRaw
		if from == "" {
			from, err = models.AddDays(to, -6)
		} else {
			from, err = resolveDate(fromRaw)
		}
		if err != nil {
			return fmt.Errorf("invalid --from value: %w", err)
		}

		data, err := storage.ExportMarkdown(cmd.Context(), store, from, to)
		if err != nil {
			return fmt.Errorf("failed to export: %w", err)
		}

		output, _ := cmd.Flags().GetString("output")
		if output == "" {
			_, err := cmd.OutOrStdout().Write(data)
			return err
		}

		if err := os.WriteFile(output, data, 0644); err != nil { //nolint:gosec // 0644 is intentional for export files
			return fmt.Errorf("failed to write export: %w", err)
		}
		_, _ = color.New(color.FgGreen).Fprintf(cmd.OutOrStdout(), "Exported %s to %s: %s\n", from, to, output)
		return nil
	},
}

func init() {
	exportCmd.Flags().String("from", "", "first date (YYYY-MM-DD, default: six days before --to)")
	exportCmd.Flags().String("to", "today", "last date (YYYY-MM-DD, today, or yesterday)")
	exportCmd.Flags().StringP("output", "o", "", "output file (default: stdout)")

	rootCmd.AddCommand(exportCmd)
}
