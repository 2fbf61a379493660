package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/dotcommander/atscore/internal/discovery"
	"github.com/dotcommander/atscore/internal/format"
	"github.com/dotcommander/atscore/internal/types"
)

var (
	fmtCheck bool
	fmtWrite bool
	fmtDiff  bool
)

var fmtCmd = &cobra.Command{
	Use:   "fmt [files...]",
	Short: "Format YAML resumes canonically",
	Long: `Format YAML resume documents with canonical style.

FORMATTING RULES:

  - Top-level sections in form order: personalInfo, experience, education,
    skills, projects, certifications, then any other keys alphabetically
  - Fields within each entry in form order
  - Leading and trailing whitespace trimmed from string values
  - Two-space indentation and a single trailing newline

JSON documents are left untouched.

USAGE MODES:

  atscore fmt                    # Print formatted documents to stdout
  atscore fmt --write            # Write changes in place
  atscore fmt --diff resume.yaml # Show what would change
  atscore fmt --check            # Exit 1 if files need formatting (CI)

FLAGS:
  --check      Exit 1 if files would change (for CI)
  -w, --write  Write changes in place
  --diff       Show diff of what would change`,
	Args: cobra.ArbitraryArgs,
	Run: func(cmd *cobra.Command, args []string) {
		if err := runFmt(cmd, args); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
			exitFunc(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(fmtCmd)

	fmtCmd.Flags().BoolVar(&fmtCheck, "check", false, "Exit 1 if files would change (for CI)")
	fmtCmd.Flags().BoolVarP(&fmtWrite, "write", "w", false, "Write changes in place")
	fmtCmd.Flags().BoolVar(&fmtDiff, "diff", false, "Show diff of what would change")
}

func runFmt(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	cfg.Schemas.Enabled = false

	log, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	sc, err := newScoringContext(cfg, log)
	if err != nil {
		return err
	}

	files, err := collectFilesToScore(sc, args)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no files to format")
	}

	out, errOut := cmd.OutOrStdout(), cmd.ErrOrStderr()
	formatter := format.NewResumeFormatter()

	var needsFormatting []string
	var totalFiles int

	for _, file := range files {
		filePath := sc.DisplayPath(file)
		absPath, err := discovery.ValidateFilePath(file)
		if err != nil {
			if !cfg.Quiet {
				fmt.Fprintf(errOut, "Skipping %s: %v\n", filePath, err)
			}
			continue
		}

		// Only YAML has a canonical layout here
		if docFormat, err := discovery.DetectFormat(absPath); err != nil || docFormat != types.FormatYAML {
			if cfg.Verbose {
				fmt.Fprintf(errOut, "Skipping %s: not a YAML document\n", filePath)
			}
			continue
		}
		totalFiles++

		content, err := os.ReadFile(absPath)
		if err != nil {
			if !cfg.Quiet {
				fmt.Fprintf(errOut, "Error reading %s: %v\n", filePath, err)
			}
			continue
		}

		formatted, err := formatter.Format(string(content))
		if err != nil {
			if !cfg.Quiet {
				fmt.Fprintf(errOut, "Error formatting %s: %v\n", filePath, err)
			}
			continue
		}

		if string(content) == formatted {
			if cfg.Verbose {
				fmt.Fprintf(out, "%s already formatted\n", filePath)
			}
			continue
		}
		needsFormatting = append(needsFormatting, absPath)

		switch {
		case fmtCheck:
			if !cfg.Quiet {
				fmt.Fprintf(out, "%s needs formatting\n", filePath)
			}
		case fmtDiff:
			fmt.Fprint(out, format.Diff(string(content), formatted, filePath))
		case fmtWrite:
			if err := writeFormatted(absPath, formatted); err != nil {
				return err
			}
			if !cfg.Quiet {
				fmt.Fprintf(out, "Formatted %s\n", filePath)
			}
		default:
			fmt.Fprint(out, formatted)
		}
	}

	if !cfg.Quiet && totalFiles > 1 {
		printFmtSummary(out, len(needsFormatting), totalFiles)
	}

	if fmtCheck && len(needsFormatting) > 0 {
		exitFunc(1)
	}
	return nil
}

// writeFormatted replaces a file's content, keeping its permissions.
func writeFormatted(path, content string) error {
	mode := os.FileMode(0o644)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}
	if err := os.WriteFile(path, []byte(content), mode); err != nil {
		return fmt.Errorf("error writing %s: %w", path, err)
	}
	return nil
}

func printFmtSummary(w io.Writer, changed, total int) {
	switch {
	case changed == 0:
		fmt.Fprintf(w, "\nAll %d files already formatted\n", total)
	case fmtWrite && !fmtCheck && !fmtDiff:
		fmt.Fprintf(w, "\nFormatted %d of %d files\n", changed, total)
	default:
		fmt.Fprintf(w, "\n%d of %d files need formatting\n", changed, total)
	}
}
