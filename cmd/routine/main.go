// ABOUTME: Entry point for the routine CLI
// ABOUTME: Executes the root command and maps failure to exit status 1

package main

import (
	"os"
)

func main() {
	err := rootCmd.Execute()
	// PersistentPostRunE is skipped when a command fails.
	_ = closeStore()
	if err != nil {
		os.Exit(1)
	}
}
