// ABOUTME: Migration command for copying routine data between storage backends
// ABOUTME: Supports sqlite-to-badger and badger-to-sqlite with safety checks

package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/hariviapak/routine-tracker/internal/config"
	"github.com/hariviapak/routine-tracker/internal/storage"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Migrate data between storage backends",
	Long: `Copy all routines and entries from the current backend to another backend.

Both backends live under the same data directory. Does NOT update the config
file; verify the migration was successful, then set "backend" in config.json.

Examples:
  routine migrate --to badger
  routine migrate --to sqlite --force`,
	Args: cobra.NoArgs,
	RunE: runMigrate,
}

var (
	migrateTo    string
	migrateForce bool
)

func init() {
	migrateCmd.Flags().StringVar(&migrateTo, "to", "", "target backend (sqlite or badger)")
	migrateCmd.Flags().BoolVar(&migrateForce, "force", false, "overwrite data already in the target backend")
	_ = migrateCmd.MarkFlagRequired("to")

	rootCmd.AddCommand(migrateCmd)
}

func runMigrate(cmd *cobra.Command, args []string) error {
	sourceBackend := cfg.GetBackend()
	targetBackend := strings.ToLower(migrateTo)

	if targetBackend != config.BackendSQLite && targetBackend != config.BackendBadger {
		return fmt.Errorf("invalid target backend %q: must be \"sqlite\" or \"badger\"", migrateTo)
	}
	if targetBackend == sourceBackend {
		return fmt.Errorf("target backend %q is the same as the current backend", targetBackend)
	}

	targetPath, err := cfg.StoragePath(targetBackend)
	if err != nil {
		return err
	}
	hasData, err := pathHasData(targetPath)
	if err != nil {
		return fmt.Errorf("check target: %w", err)
	}
	if hasData && !migrateForce {
		return fmt.Errorf("target %q already holds data; use --force to overwrite", targetPath)
	}

	dst, err := cfg.OpenBackend(targetBackend, appLog)
	if err != nil {
		return fmt.Errorf("open target storage (%s): %w", targetBackend, err)
	}
	defer func() {
		if cerr := dst.Close(); cerr != nil {
			appLog.Warn("closing target storage", "err", cerr)
		}
	}()

	out := cmd.OutOrStdout()
	_, _ = color.New(color.FgYellow).Fprintln(out, "Migrating routine data:")
	_, _ = fmt.Fprintf(out, "  Source:  %s (%s)\n", sourceBackend, store.Path())
	_, _ = fmt.Fprintf(out, "  Target:  %s (%s)\n\n", targetBackend, dst.Path())

	summary, err := storage.MigrateData(cmd.Context(), store, dst)
	if err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	_, _ = color.New(color.FgGreen).Fprintln(out, "Migration complete!")
	_, _ = fmt.Fprintf(out, "  Routines: %d\n", summary.Routines)
	_, _ = fmt.Fprintf(out, "  Entries:  %d\n", summary.Entries)
	if summary.Skipped > 0 {
		_, _ = fmt.Fprintf(out, "  Skipped:  %d (entries of deleted routines)\n", summary.Skipped)
	}
	_, _ = fmt.Fprintln(out)
	_, _ = color.New(color.FgYellow).Fprintln(out, "Note: config.json was NOT updated. To switch to the new backend, edit:")
	_, _ = fmt.Fprintf(out, "  %s\n", config.GetConfigPath())
	_, _ = fmt.Fprintf(out, "  Set \"backend\": %q\n", targetBackend)
	return nil
}

// pathHasData reports whether a backend path exists with content:
// a non-empty directory or a non-empty file.
func pathHasData(path string) (bool, error) {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if info.IsDir() {
		return storage.IsDirNonEmpty(path)
	}
	return info.Size() > 0, nil
}
