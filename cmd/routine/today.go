// ABOUTME: Day view command
// ABOUTME: Shows every routine's progress for today or a given date

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hariviapak/routine-tracker/internal/ui"
)

var todayCmd = &cobra.Command{
	Use:     "today [date]",
	Aliases: []string{"day"},
	Short:   "Show progress for a day",
	Long: `Show every routine's progress for today, or for the given date.

Examples:
  routine today
  routine day yesterday
  routine day 2024-01-01`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		raw := ""
		if len(args) == 1 {
			raw = args[0]
		}
		date, err := resolveDate(raw)
		if err != nil {
			return err
		}

		day, err := trk.Day(cmd.Context(), date)
		if err != nil {
			return err
		}

		_, _ = fmt.Fprint(cmd.OutOrStdout(), ui.FormatDay(day))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(todayCmd)
}
