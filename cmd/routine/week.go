// ABOUTME: Week view command
// ABOUTME: Renders a Sunday-to-Saturday table of every routine's progress

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hariviapak/routine-tracker/internal/ui"
)

var weekCmd = &cobra.Command{
	Use:     "week [date]",
	Aliases: []string{"w"},
	Short:   "Show the week's progress table",
	Long: `Show the week (Sunday to Saturday) containing today or the given date.

Examples:
  routine week
  routine week 2024-01-03`,
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

		week, err := trk.Week(cmd.Context(), date)
		if err != nil {
			return err
		}

		_, _ = fmt.Fprint(cmd.OutOrStdout(), ui.FormatWeek(week))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(weekCmd)
}
