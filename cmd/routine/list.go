// ABOUTME: Routine list command
// ABOUTME: Lists all routines in creation order

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hariviapak/routine-tracker/internal/ui"
)

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List all routines",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		routines := trk.Routines()
		if len(routines) == 0 {
			_, _ = fmt.Fprintln(out, "No routines yet. Use 'routine add' or 'routine defaults' to create some.")
			return nil
		}

		for _, r := range routines {
			_, _ = fmt.Fprintln(out, ui.FormatRoutine(r))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
}
