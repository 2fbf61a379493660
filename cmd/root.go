package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Version is set at build time with -ldflags "-X github.com/dotcommander/atscore/cmd.Version=..."
var Version = "dev"

// exitFunc is replaced in tests.
var exitFunc = os.Exit

var (
	rootPath       string
	quiet          bool
	verbose        bool
	outputFormat   string
	outputFile     string
	failUnder      int
	changedOnly    bool
	stagedOnly     bool
	baselinePath   string
	createBaseline bool
	noSchema       bool
	logJSON        bool
	concurrency    int
	followSymlinks bool
	excludeGlobs   []string
)

var rootCmd = &cobra.Command{
	Use:   "atscore [files...]",
	Short: "ATS compatibility scoring for structured resumes",
	Long: `atscore reads resume documents (YAML or JSON) and computes a heuristic
ATS-compatibility score out of 100, with a per-section breakdown and up to
five prioritized recommendations.

With no arguments, atscore scores every resume under the project root:
  resume.{yaml,yml,json}
  resumes/**/*.{yaml,yml,json}
  **/*.resume.{yaml,yml,json}

EXAMPLES:

  atscore                          # Score every discovered resume
  atscore resumes/jane.yaml        # Score one file
  atscore -f json -o report.json   # Machine-readable report
  atscore --fail-under 70          # Exit 1 if any resume scores below 70
  atscore --changed                # Only resumes changed in git
  atscore --create-baseline        # Accept current recommendations
  atscore --baseline .atscore-baseline.json   # Hide accepted ones, show score deltas`,
	Args: cobra.ArbitraryArgs,
	Run: func(cmd *cobra.Command, args []string) {
		if err := runScore(cmd, args); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
			exitFunc(1)
		}
	},
}

// Execute runs the root command until completion or an interrupt.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rootCmd.Version = Version
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		exitFunc(1)
	}
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&rootPath, "root", "r", "", "Project root directory (auto-detected if not specified)")
	flags.BoolVarP(&quiet, "quiet", "q", false, "Suppress report output (exit code only)")
	flags.BoolVarP(&verbose, "verbose", "v", false, "Show per-criterion scoring details and debug logs")
	flags.StringVarP(&outputFormat, "format", "f", "console", "Output format for reports (console|json|markdown)")
	flags.StringVarP(&outputFile, "output", "o", "", "Write the report to a file instead of stdout")
	flags.IntVar(&failUnder, "fail-under", 0, "Exit 1 if any resume scores below this value (0 disables)")
	flags.BoolVar(&changedOnly, "changed", false, "Only score resumes changed in the git working tree")
	flags.BoolVar(&stagedOnly, "staged", false, "Only score resumes staged in git")
	flags.StringVar(&baselinePath, "baseline", "", "Baseline file: hide accepted recommendations and show score changes")
	flags.BoolVar(&createBaseline, "create-baseline", false, "Write a baseline from this run (to --baseline or "+defaultBaselineFile+")")
	flags.BoolVar(&noSchema, "no-schema", false, "Skip resume schema validation")
	flags.BoolVar(&logJSON, "log-json", false, "Emit logs as JSON")
	flags.IntVarP(&concurrency, "concurrency", "j", 0, "Resumes scored in parallel (default from config)")
	flags.BoolVar(&followSymlinks, "follow-symlinks", false, "Follow symlinks that stay inside the project root")
	flags.StringSliceVar(&excludeGlobs, "exclude", nil, "Glob patterns of files to skip (repeatable)")

	bindFlags()
}

// bindFlags binds the persistent flags to their viper config keys.
func bindFlags() {
	bindFlag("quiet", "quiet")
	bindFlag("verbose", "verbose")
	bindFlag("format", "format")
	bindFlag("output", "output")
	bindFlag("failUnder", "fail-under")
	bindFlag("baseline", "baseline")
	bindFlag("logJSON", "log-json")
	bindFlag("concurrency", "concurrency")
	bindFlag("followSymlinks", "follow-symlinks")
	bindFlag("exclude", "exclude")
}

func bindFlag(key, flag string) {
	if err := viper.BindPFlag(key, rootCmd.PersistentFlags().Lookup(flag)); err != nil {
		panic(fmt.Sprintf("binding flag %s: %v", flag, err))
	}
}
