// ABOUTME: Tests for the backup document codec
// ABOUTME: Golden-file check of the JSON contract plus decode edge cases

package backup

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/require"

	"github.com/hariviapak/routine-tracker/internal/models"
)

func sampleSnapshot() *Snapshot {
	created := time.Date(2024, 1, 1, 9, 30, 0, 0, time.UTC)
	routines := []*models.Routine{
		{ID: 1, Name: "Water", Type: models.TypeCounter, Target: 7, Icon: "💧", CreatedAt: created, UpdatedAt: created},
		{ID: 2, Name: "Yoga", Type: models.TypeDone, Target: 1},
	}
	entries := []*models.Entry{
		{ID: 1, Date: "2024-01-01", RoutineID: 1, Count: 5},
		{ID: 2, Date: "2024-01-01", RoutineID: 2, IsDone: true},
	}
	return New(routines, entries, time.Date(2024, 1, 7, 12, 0, 0, 0, time.UTC))
}

func TestEncode_JSONGolden(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, sampleSnapshot(), FormatJSON))

	g := goldie.New(t)
	g.Assert(t, "snapshot_json", buf.Bytes())
}

func TestEncodeDecode_JSONRoundtrip(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, sampleSnapshot(), FormatJSON))

	snap, err := Decode(buf.Bytes())
	require.NoError(t, err)
	require.Equal(t, sampleSnapshot(), snap)
}

func TestEncodeDecode_YAMLRoundtrip(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, sampleSnapshot(), FormatYAML))
	require.Contains(t, buf.String(), "routineId: 1")

	snap, err := Decode(buf.Bytes())
	require.NoError(t, err)
	require.Equal(t, sampleSnapshot(), snap)
}

func TestDecode_MissingSections(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"no_routines", `{"version": "1.0", "entries": []}`},
		{"no_entries", `{"version": "1.0", "routines": []}`},
		{"null_routines", `{"routines": null, "entries": []}`},
		{"null_entries", `{"routines": [], "entries": null}`},
		{"yaml_no_entries", "version: \"1.0\"\nroutines: []\n"},
		{"empty", "   "},
		{"not_json", `{"routines": [`},
		{"not_yaml", "routines: [\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode([]byte(tt.doc))
			require.ErrorIs(t, err, ErrFormat)
		})
	}
}

func TestDecode_OnlySectionsRequired(t *testing.T) {
	snap, err := Decode([]byte(`{"routines": [], "entries": []}`))
	require.NoError(t, err)
	require.Empty(t, snap.Routines)
	require.Empty(t, snap.Entries)
	require.Empty(t, snap.Version)
}

func TestModels_Defaults(t *testing.T) {
	doc := `{
		"routines": [{"id": 5, "name": " Fruits ", "type": "counter", "target": 2, "icon": "", "createdAt": "not a time"}],
		"entries": [{"id": 9, "date": "2024-03-01", "routineId": 5}]
	}`
	snap, err := Decode([]byte(doc))
	require.NoError(t, err)

	routines, entries, err := snap.Models()
	require.NoError(t, err)
	require.Len(t, routines, 1)
	require.Equal(t, "Fruits", routines[0].Name)
	require.Equal(t, int64(5), routines[0].ID)
	require.True(t, routines[0].CreatedAt.IsZero())

	require.Len(t, entries, 1)
	require.Equal(t, 0, entries[0].Count)
	require.False(t, entries[0].IsDone)
	require.Equal(t, int64(5), entries[0].RoutineID)
}

func TestModels_ParsesTimestamps(t *testing.T) {
	snap := sampleSnapshot()
	routines, _, err := snap.Models()
	require.NoError(t, err)
	want := time.Date(2024, 1, 1, 9, 30, 0, 0, time.UTC)
	require.True(t, routines[0].CreatedAt.Equal(want), "got %v", routines[0].CreatedAt)
}

func TestModels_RejectsMalformedRecords(t *testing.T) {
	tests := []struct {
		name string
		snap Snapshot
	}{
		{"empty_name", Snapshot{Routines: []RoutineRecord{{ID: 1, Name: " ", Type: "counter"}}}},
		{"bad_type", Snapshot{Routines: []RoutineRecord{{ID: 1, Name: "x", Type: "weekly"}}}},
		{"negative_target", Snapshot{Routines: []RoutineRecord{{ID: 1, Name: "x", Type: "counter", Target: -2}}}},
		{"bad_date", Snapshot{Entries: []EntryRecord{{ID: 1, Date: "01/02/2024", RoutineID: 1}}}},
		{"negative_count", Snapshot{Entries: []EntryRecord{{ID: 1, Date: "2024-01-01", RoutineID: 1, Count: intPtr(-4)}}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := tt.snap.Models()
			require.True(t, errors.Is(err, ErrFormat), "expected ErrFormat, got %v", err)
		})
	}
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("YAML")
	require.NoError(t, err)
	require.Equal(t, FormatYAML, f)

	f, err = ParseFormat("")
	require.NoError(t, err)
	require.Equal(t, FormatJSON, f)

	_, err = ParseFormat("xml")
	require.ErrorIs(t, err, models.ErrValidation)
}

func TestFileName(t *testing.T) {
	require.Equal(t, "routine-tracker-backup-2024-01-07.json", FileName("2024-01-07", FormatJSON))
	require.Equal(t, "routine-tracker-backup-2024-01-07.yaml", FileName("2024-01-07", FormatYAML))
}

func intPtr(n int) *int { return &n }
