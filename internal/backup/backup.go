// ABOUTME: Backup document for routine data, the durable interchange format
// ABOUTME: Encodes snapshots as indented JSON or YAML and decodes either back

package backup

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/hariviapak/routine-tracker/internal/models"
)

// Version is the current backup format version.
const Version = "1.0"

// TimestampLayout renders timestamps as UTC with millisecond precision.
const TimestampLayout = "2006-01-02T15:04:05.000Z07:00"

// ErrFormat is returned when a backup document is malformed or incomplete.
var ErrFormat = errors.New("invalid backup format")

// Format selects the encoding of a backup document.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat parses a backup format name.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case FormatJSON, "":
		return FormatJSON, nil
	case FormatYAML, "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("%w: unknown backup format %q (use 'json' or 'yaml')", models.ErrValidation, s)
	}
}

// Snapshot is the full backup document.
type Snapshot struct {
	Version    string          `json:"version" yaml:"version"`
	ExportDate string          `json:"exportDate" yaml:"exportDate"`
	Routines   []RoutineRecord `json:"routines" yaml:"routines"`
	Entries    []EntryRecord   `json:"entries" yaml:"entries"`
}

// RoutineRecord is a routine as written in a backup.
type RoutineRecord struct {
	ID        int64  `json:"id" yaml:"id"`
	Name      string `json:"name" yaml:"name"`
	Type      string `json:"type" yaml:"type"`
	Target    int    `json:"target" yaml:"target"`
	Icon      string `json:"icon" yaml:"icon"`
	CreatedAt string `json:"createdAt,omitempty" yaml:"createdAt,omitempty"`
	UpdatedAt string `json:"updatedAt,omitempty" yaml:"updatedAt,omitempty"`
}

// EntryRecord is an entry as written in a backup. Count and IsDone may be absent.
type EntryRecord struct {
	ID        int64  `json:"id" yaml:"id"`
	Date      string `json:"date" yaml:"date"`
	RoutineID int64  `json:"routineId" yaml:"routineId"`
	Count     *int   `json:"count,omitempty" yaml:"count,omitempty"`
	IsDone    *bool  `json:"isDone,omitempty" yaml:"isDone,omitempty"`
}

// document mirrors Snapshot with pointer slices so missing sections can be detected.
type document struct {
	Version    string           `json:"version" yaml:"version"`
	ExportDate string           `json:"exportDate" yaml:"exportDate"`
	Routines   *[]RoutineRecord `json:"routines" yaml:"routines"`
	Entries    *[]EntryRecord   `json:"entries" yaml:"entries"`
}

// FormatTimestamp renders t in the backup timestamp layout.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

// New builds a snapshot from routines and entries taken at the given time.
func New(routines []*models.Routine, entries []*models.Entry, at time.Time) *Snapshot {
	s := &Snapshot{
		Version:    Version,
		ExportDate: FormatTimestamp(at),
		Routines:   make([]RoutineRecord, 0, len(routines)),
		Entries:    make([]EntryRecord, 0, len(entries)),
	}
	for _, r := range routines {
		rec := RoutineRecord{
			ID:     r.ID,
			Name:   r.Name,
			Type:   string(r.Type),
			Target: r.Target,
			Icon:   r.Icon,
		}
		if !r.CreatedAt.IsZero() {
			rec.CreatedAt = FormatTimestamp(r.CreatedAt)
		}
		if !r.UpdatedAt.IsZero() {
			rec.UpdatedAt = FormatTimestamp(r.UpdatedAt)
		}
		s.Routines = append(s.Routines, rec)
	}
	for _, e := range entries {
		count, isDone := e.Count, e.IsDone
		s.Entries = append(s.Entries, EntryRecord{
			ID:        e.ID,
			Date:      e.Date,
			RoutineID: e.RoutineID,
			Count:     &count,
			IsDone:    &isDone,
		})
	}
	return s
}

// Encode writes s to w in the given format. JSON is indented by two spaces.
func Encode(w io.Writer, s *Snapshot, format Format) error {
	switch format {
	case FormatJSON, "":
		data, err := json.MarshalIndent(s, "", "  ")
		if err != nil {
			return fmt.Errorf("marshal json: %w", err)
		}
		_, err = w.Write(data)
		return err
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(s); err != nil {
			return fmt.Errorf("marshal yaml: %w", err)
		}
		return enc.Close()
	default:
		return fmt.Errorf("%w: unknown backup format %q", models.ErrValidation, format)
	}
}

// Decode parses a JSON or YAML backup document. Documents starting with '{' are read as JSON.
// Both the routines and entries sections must be present and non-null.
func Decode(data []byte) (*Snapshot, error) {
	var doc document
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("%w: empty document", ErrFormat)
	}
	if trimmed[0] == '{' {
		if err := json.Unmarshal(trimmed, &doc); err != nil {
			return nil, fmt.Errorf("%w: parse json: %v", ErrFormat, err)
		}
	} else if err := yaml.Unmarshal(trimmed, &doc); err != nil {
		return nil, fmt.Errorf("%w: parse yaml: %v", ErrFormat, err)
	}

	if doc.Routines == nil {
		return nil, fmt.Errorf("%w: missing routines", ErrFormat)
	}
	if doc.Entries == nil {
		return nil, fmt.Errorf("%w: missing entries", ErrFormat)
	}

	return &Snapshot{
		Version:    doc.Version,
		ExportDate: doc.ExportDate,
		Routines:   *doc.Routines,
		Entries:    *doc.Entries,
	}, nil
}

// parseTimestamp reads an informational timestamp, returning zero for anything unparsable.
func parseTimestamp(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}
	}
	return t.UTC()
}

// Models converts the snapshot into domain values, keeping the snapshot ids.
// Missing entry count and done flag default to 0 and false.
func (s *Snapshot) Models() ([]*models.Routine, []*models.Entry, error) {
	routines := make([]*models.Routine, 0, len(s.Routines))
	for i, rec := range s.Routines {
		in, err := models.RoutineInput{
			Name:   rec.Name,
			Type:   models.RoutineType(rec.Type),
			Target: rec.Target,
			Icon:   rec.Icon,
		}.Normalize()
		if err != nil {
			return nil, nil, fmt.Errorf("%w: routine %d: %v", ErrFormat, i, err)
		}
		routines = append(routines, &models.Routine{
			ID:        rec.ID,
			Name:      in.Name,
			Type:      in.Type,
			Target:    in.Target,
			Icon:      in.Icon,
			CreatedAt: parseTimestamp(rec.CreatedAt),
			UpdatedAt: parseTimestamp(rec.UpdatedAt),
		})
	}

	entries := make([]*models.Entry, 0, len(s.Entries))
	for i, rec := range s.Entries {
		if err := models.ValidateDate(rec.Date); err != nil {
			return nil, nil, fmt.Errorf("%w: entry %d: %v", ErrFormat, i, err)
		}
		e := &models.Entry{ID: rec.ID, Date: rec.Date, RoutineID: rec.RoutineID}
		if rec.Count != nil {
			if err := models.ValidateCount(*rec.Count); err != nil {
				return nil, nil, fmt.Errorf("%w: entry %d: %v", ErrFormat, i, err)
			}
			e.Count = *rec.Count
		}
		if rec.IsDone != nil {
			e.IsDone = *rec.IsDone
		}
		entries = append(entries, e)
	}
	return routines, entries, nil
}

// FileName returns the default backup file name for a date.
func FileName(date string, format Format) string {
	ext := "json"
	if format == FormatYAML {
		ext = "yaml"
	}
	return fmt.Sprintf("routine-tracker-backup-%s.%s", date, ext)
}
