// ABOUTME: Routine add command
// ABOUTME: Creates a counter or done routine with optional target and icon

package main

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/hariviapak/routine-tracker/internal/models"
	"github.com/hariviapak/routine-tracker/internal/ui"
)

var addCmd = &cobra.Command{
	Use:     "add <name>",
	Aliases: []string{"a"},
	Short:   "Add a routine",
	Long: `Add a new routine. Counter routines count occurrences toward a daily
target; done routines are checked off once a day.

Examples:
  routine add Water --target 7 --icon 💧
  routine add "Clean Diet" --type done`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		typ, _ := cmd.Flags().GetString("type")
		target, _ := cmd.Flags().GetInt("target")
		icon, _ := cmd.Flags().GetString("icon")

		r, err := trk.AddRoutine(cmd.Context(), models.RoutineInput{
			Name:   strings.Join(args, " "),
			Type:   models.RoutineType(typ),
			Target: target,
			Icon:   icon,
		})
		if err != nil {
			return fmt.Errorf("failed to add routine: %w", err)
		}

		out := cmd.OutOrStdout()
		_, _ = color.New(color.FgGreen).Fprintf(out, "✓ Added %s\n", ui.DisplayName(r))
		_, _ = fmt.Fprintf(out, "  %s\n", ui.FormatRoutine(r))
		return nil
	},
}

func init() {
	addCmd.Flags().StringP("type", "t", string(models.TypeCounter), "routine type: counter or done")
	addCmd.Flags().IntP("target", "n", 0, "daily target for counter routines")
	addCmd.Flags().StringP("icon", "i", "", "emoji shown next to the name")

	rootCmd.AddCommand(addCmd)
}
