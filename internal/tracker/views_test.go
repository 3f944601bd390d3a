// ABOUTME: Tests for day and week views built from routines and entries
// ABOUTME: Covers progress, completion, and date window edge cases

package tracker

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hariviapak/routine-tracker/internal/models"
)

func TestDay(t *testing.T) {
	tr := newTestTracker(t)
	ctx := context.Background()
	water := addRoutine(t, tr, "Water", models.TypeCounter, 3)
	yoga := addRoutine(t, tr, "Yoga", models.TypeDone, 1)

	_, err := tr.RecordCounterDelta(ctx, "2024-01-01", water.ID, 3)
	require.NoError(t, err)
	_, err = tr.RecordDone(ctx, "2024-01-02", yoga.ID, true)
	require.NoError(t, err)

	day, err := tr.Day(ctx, "2024-01-01")
	require.NoError(t, err)
	require.Equal(t, "2024-01-01", day.Date)
	require.Equal(t, 2, day.Total)
	require.Equal(t, 1, day.Completed)
	require.Len(t, day.Progress, 2)

	require.Equal(t, water.ID, day.Progress[0].Routine.ID)
	require.True(t, day.Progress[0].Complete)
	require.Equal(t, 3, day.Progress[0].Count())

	require.Nil(t, day.Progress[1].Entry)
	require.False(t, day.Progress[1].Complete)
	require.False(t, day.Progress[1].Done())

	_, err = tr.Day(ctx, "2024/01/01")
	require.ErrorIs(t, err, models.ErrValidation)
}

func TestWeek(t *testing.T) {
	tr := newTestTracker(t)
	ctx := context.Background()
	water := addRoutine(t, tr, "Water", models.TypeCounter, 2)

	// 2024-01-03 is a Wednesday.
	_, err := tr.RecordCounterDelta(ctx, "2023-12-31", water.ID, 2)
	require.NoError(t, err)
	_, err = tr.RecordCounterDelta(ctx, "2024-01-06", water.ID, 1)
	require.NoError(t, err)
	_, err = tr.RecordCounterDelta(ctx, "2024-01-07", water.ID, 5)
	require.NoError(t, err)

	week, err := tr.Week(ctx, "2024-01-03")
	require.NoError(t, err)
	require.Equal(t, "2023-12-31", week.Start)
	require.Equal(t, "2024-01-06", week.End)
	require.Len(t, week.Days, 7)
	require.Len(t, week.Routines, 1)

	require.True(t, week.Days[0].Progress[0].Complete)
	require.Equal(t, 1, week.Days[6].Progress[0].Count())
	require.False(t, week.Days[6].Progress[0].Complete)
	for _, d := range week.Days[1:6] {
		require.Nil(t, d.Progress[0].Entry, "no entry expected on %s", d.Date)
	}
}
