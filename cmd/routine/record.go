// ABOUTME: Progress recording commands: inc, dec, and done
// ABOUTME: Counter routines move by an amount; done routines are checked or unchecked

package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/hariviapak/routine-tracker/internal/models"
	"github.com/hariviapak/routine-tracker/internal/tracker"
	"github.com/hariviapak/routine-tracker/internal/ui"
)

var incCmd = &cobra.Command{
	Use:     "inc <routine> [amount]",
	Aliases: []string{"+"},
	Short:   "Increase a counter routine",
	Long: `Increase a counter routine's count for a day (default today).

Examples:
  routine inc Water
  routine inc Water 2 --date yesterday`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runCount(cmd, args, 1)
	},
}

var decCmd = &cobra.Command{
	Use:     "dec <routine> [amount]",
	Aliases: []string{"-"},
	Short:   "Decrease a counter routine",
	Long: `Decrease a counter routine's count for a day (default today).
Counts never go below zero.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runCount(cmd, args, -1)
	},
}

var doneCmd = &cobra.Command{
	Use:   "done <routine>",
	Short: "Mark a done routine as done",
	Long: `Mark a done routine as done for a day (default today).

Examples:
  routine done Yoga
  routine done Yoga --undo
  routine done Yoga --date 2024-01-01`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		date, err := dateFlag(cmd)
		if err != nil {
			return err
		}
		r, err := resolveRoutine(args[0])
		if err != nil {
			return err
		}

		undo, _ := cmd.Flags().GetBool("undo")
		e, err := trk.RecordDone(cmd.Context(), date, r.ID, !undo)
		if err != nil {
			return err
		}

		printProgress(cmd, date, r, e)
		return nil
	},
}

func init() {
	for _, c := range []*cobra.Command{incCmd, decCmd, doneCmd} {
		c.Flags().StringP("date", "d", "today", "date: today, yesterday, or YYYY-MM-DD")
		rootCmd.AddCommand(c)
	}
	doneCmd.Flags().Bool("undo", false, "mark as not done")
}

func dateFlag(cmd *cobra.Command) (string, error) {
	raw, _ := cmd.Flags().GetString("date")
	return resolveDate(raw)
}

func runCount(cmd *cobra.Command, args []string, sign int) error {
	amount := 1
	if len(args) == 2 {
		n, err := strconv.Atoi(args[1])
		if err != nil || n < 1 {
			return fmt.Errorf("%w: amount must be a positive whole number, got %q", models.ErrValidation, args[1])
		}
		amount = n
	}

	date, err := dateFlag(cmd)
	if err != nil {
		return err
	}
	r, err := resolveRoutine(args[0])
	if err != nil {
		return err
	}

	e, err := trk.RecordCounterDelta(cmd.Context(), date, r.ID, sign*amount)
	if err != nil {
		return err
	}

	printProgress(cmd, date, r, e)
	return nil
}

func printProgress(cmd *cobra.Command, date string, r *models.Routine, e *models.Entry) {
	p := tracker.Progress{Routine: r, Entry: e, Complete: models.IsComplete(r, e)}
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s  %s\n", date, ui.FormatProgress(p))
}
