// ABOUTME: Install agent skill for routine
// ABOUTME: Embeds and installs the skill definition to ~/.claude/skills/

package main

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

//go:embed skill/SKILL.md
var skillFS embed.FS

var skillSkipConfirm bool

var installSkillCmd = &cobra.Command{
	Use:   "install-skill",
	Short: "Install the agent skill",
	Long: `Install the routine skill for Claude Code.

This copies the skill definition to ~/.claude/skills/routine/
so agents can use routine commands contextually.`,
	Annotations: map[string]string{skipStorage: "true"},
	Args:        cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("failed to get home directory: %w", err)
		}
		return installSkill(cmd, home)
	},
}

func init() {
	installSkillCmd.Flags().BoolVarP(&skillSkipConfirm, "yes", "y", false, "Skip confirmation prompt")
	rootCmd.AddCommand(installSkillCmd)
}

func skillPath(home string) string {
	return filepath.Join(home, ".claude", "skills", "routine", "SKILL.md")
}

func installSkill(cmd *cobra.Command, home string) error {
	out := cmd.OutOrStdout()
	path := skillPath(home)

	printf := func(format string, a ...interface{}) { _, _ = fmt.Fprintf(out, format, a...) }
	printf("┌─────────────────────────────────────────────────────────────┐\n")
	printf("│              Routine Skill for Claude Code                  │\n")
	printf("└─────────────────────────────────────────────────────────────┘\n\n")
	printf("This will install the routine skill, enabling agents to:\n\n")
	printf("  • Record counts and check off daily routines\n")
	printf("  • Show today's progress and the weekly table\n")
	printf("  • Back up and restore routine history\n\n")
	printf("Destination:\n  %s\n\n", path)

	if _, err := os.Stat(path); err == nil {
		printf("Note: A skill file already exists and will be overwritten.\n\n")
	}

	if !skillSkipConfirm {
		if !confirm(cmd, "Install the routine skill?") {
			printf("Installation canceled.\n")
			return nil
		}
		printf("\n")
	}

	if err := writeSkill(path); err != nil {
		return err
	}

	printf("✓ Installed routine skill successfully!\n\n")
	printf("Try asking: \"Log a glass of water\" or \"How am I doing this week?\"\n")
	return nil
}

func writeSkill(path string) error {
	content, err := skillFS.ReadFile("skill/SKILL.md")
	if err != nil {
		return fmt.Errorf("failed to read embedded skill: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil { // #nosec G301 - skill dir needs to be readable
		return fmt.Errorf("failed to create skill directory: %w", err)
	}

	if err := os.WriteFile(path, content, 0600); err != nil {
		return fmt.Errorf("failed to write skill file: %w", err)
	}
	return nil
}

