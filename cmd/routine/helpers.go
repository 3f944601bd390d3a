// ABOUTME: Shared helpers for CLI commands
// ABOUTME: Resolves routine arguments and dates, and asks for confirmation

package main

import (
	"bufio"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hariviapak/routine-tracker/internal/models"
	"github.com/hariviapak/routine-tracker/internal/tracker"
)

// resolveRoutine finds a routine by numeric id or by name.
func resolveRoutine(arg string) (*models.Routine, error) {
	if id, err := strconv.ParseInt(arg, 10, 64); err == nil {
		if r, err := trk.Routine(id); err == nil {
			return r, nil
		}
	}
	r, err := trk.RoutineByName(arg)
	if errors.Is(err, tracker.ErrRoutineNotFound) {
		return nil, fmt.Errorf("routine '%s' not found", arg)
	}
	return r, err
}

// resolveDate turns "today", "yesterday", or a YYYY-MM-DD string into a date.
func resolveDate(s string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "today":
		return models.Today(), nil
	case "yesterday":
		return models.AddDays(models.Today(), -1)
	}
	if err := models.ValidateDate(s); err != nil {
		return "", err
	}
	return s, nil
}

// confirm asks a yes/no question on the command's input.
func confirm(cmd *cobra.Command, prompt string) bool {
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s [y/N] ", prompt)
	reader := bufio.NewReader(cmd.InOrStdin())
	response, _ := reader.ReadString('\n')
	response = strings.TrimSpace(strings.ToLower(response))
	return response == "y" || response == "yes"
}
