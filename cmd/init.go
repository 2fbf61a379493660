package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/dotcommander/atscore/internal/config"
	"github.com/dotcommander/atscore/internal/project"
)

var initForce bool

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a .atscorerc.json with the effective settings",
	Long: `Write the effective configuration (defaults, environment and flags) to
.atscorerc.json in the project root, as a starting point for editing.

EXAMPLES:

  atscore init
  atscore init --fail-under 70 --force`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		if err := runInit(cmd); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
			exitFunc(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
	initCmd.Flags().BoolVar(&initForce, "force", false, "Overwrite an existing config file")
}

func runInit(cmd *cobra.Command) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	root := cfg.Root
	if root == "" {
		if root, err = project.FindProjectRoot("."); err != nil {
			return fmt.Errorf("error finding project root: %w", err)
		}
	}
	path := filepath.Join(root, config.ConfigFiles[0])

	if _, err := os.Stat(path); err == nil && !initForce {
		return fmt.Errorf("%s already exists (use --force to overwrite)", path)
	}

	// The root is detected on every run; pinning it would break moved checkouts
	cfg.Root = ""
	if err := config.SaveConfig(cfg, path); err != nil {
		return err
	}

	if !cfg.Quiet {
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
	}
	return nil
}
