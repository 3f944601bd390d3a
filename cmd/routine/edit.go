// ABOUTME: Routine edit command
// ABOUTME: Changes the name, type, target, or icon of an existing routine

package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/hariviapak/routine-tracker/internal/models"
	"github.com/hariviapak/routine-tracker/internal/ui"
)

var editCmd = &cobra.Command{
	Use:   "edit <routine>",
	Short: "Edit a routine",
	Long: `Edit a routine by id or name. Only the flags you pass are changed.

Examples:
  routine edit Water --target 8
  routine edit 3 --name Stretching --icon 🧘`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		r, err := resolveRoutine(args[0])
		if err != nil {
			return err
		}

		in := models.RoutineInput{Name: r.Name, Type: r.Type, Target: r.Target, Icon: r.Icon}
		flags := cmd.Flags()
		if flags.Changed("name") {
			in.Name, _ = flags.GetString("name")
		}
		if flags.Changed("type") {
			typ, _ := flags.GetString("type")
			in.Type = models.RoutineType(typ)
		}
		if flags.Changed("target") {
			in.Target, _ = flags.GetInt("target")
		}
		if flags.Changed("icon") {
			in.Icon, _ = flags.GetString("icon")
		}

		updated, err := trk.UpdateRoutine(cmd.Context(), r.ID, in)
		if err != nil {
			return fmt.Errorf("failed to edit routine: %w", err)
		}

		out := cmd.OutOrStdout()
		_, _ = color.New(color.FgGreen).Fprintf(out, "✓ Updated %s\n", ui.DisplayName(updated))
		_, _ = fmt.Fprintf(out, "  %s\n", ui.FormatRoutine(updated))
		return nil
	},
}

func init() {
	editCmd.Flags().String("name", "", "new name")
	editCmd.Flags().StringP("type", "t", "", "routine type: counter or done")
	editCmd.Flags().IntP("target", "n", 0, "daily target")
	editCmd.Flags().StringP("icon", "i", "", "emoji shown next to the name")

	rootCmd.AddCommand(editCmd)
}
