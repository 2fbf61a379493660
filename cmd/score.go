package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/dotcommander/atscore/internal/baseline"
	"github.com/dotcommander/atscore/internal/cli"
	"github.com/dotcommander/atscore/internal/config"
	"github.com/dotcommander/atscore/internal/discovery"
	"github.com/dotcommander/atscore/internal/git"
	"github.com/dotcommander/atscore/internal/logger"
	"github.com/dotcommander/atscore/internal/outputters"
)

const defaultBaselineFile = ".atscore-baseline.json"

// directoryPatterns match resume documents under a directory given as an argument.
var directoryPatterns = []string{"**/*.{yaml,yml,json}"}

// loadConfig loads configuration and applies flags that have no config key.
func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadConfig(rootPath)
	if err != nil {
		return nil, fmt.Errorf("error loading configuration: %w", err)
	}
	if noSchema {
		cfg.Schemas.Enabled = false
	}
	return cfg, nil
}

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	log, err := logger.New(cfg.LogJSON, cfg.Verbose)
	if err != nil {
		return nil, fmt.Errorf("error creating logger: %w", err)
	}
	return log, nil
}

func newScoringContext(cfg *config.Config, log *zap.Logger) (*cli.ScoringContext, error) {
	return cli.NewScoringContext(cli.Options{
		RootPath:         cfg.Root,
		Concurrency:      cfg.Concurrency,
		SchemaValidation: cfg.Schemas.Enabled,
		FollowSymlinks:   cfg.FollowSymlinks,
		Exclude:          cfg.Exclude,
		Logger:           log,
	})
}

// scoreRun is one scoring pass: resolved config, context and results.
type scoreRun struct {
	cfg      *config.Config
	log      *zap.Logger
	sc       *cli.ScoringContext
	summary  *cli.ScoreSummary
	baseline *baseline.Baseline
}

// newScoreRun loads config and builds the logger and scoring context.
func newScoreRun() (*scoreRun, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	log, err := newLogger(cfg)
	if err != nil {
		return nil, err
	}

	sc, err := newScoringContext(cfg, log)
	if err != nil {
		return nil, err
	}
	return &scoreRun{cfg: cfg, log: log, sc: sc}, nil
}

// executeRun loads config, scores the requested files and applies the baseline.
func executeRun(ctx context.Context, args []string) (*scoreRun, error) {
	run, err := newScoreRun()
	if err != nil {
		return nil, err
	}
	if err := run.score(ctx, args); err != nil {
		return nil, err
	}
	return run, nil
}

// score collects and scores the requested files, then applies the baseline
// unless one is being created.
func (r *scoreRun) score(ctx context.Context, args []string) error {
	files, err := collectFilesToScore(r.sc, args)
	if err != nil {
		return err
	}

	summary, err := r.sc.ScoreFiles(ctx, files)
	if err != nil {
		return err
	}
	r.summary = summary
	r.baseline = nil

	if createBaseline {
		return nil
	}
	return r.applyBaseline()
}

// baselineFile resolves the baseline path relative to the project root.
func (r *scoreRun) baselineFile() string {
	path := r.cfg.Baseline
	if path == "" {
		if !createBaseline {
			return ""
		}
		path = defaultBaselineFile
	}
	if !filepath.IsAbs(path) {
		path = filepath.Join(r.sc.RootPath, path)
	}
	return path
}

func (r *scoreRun) applyBaseline() error {
	path := r.baselineFile()
	if path == "" {
		return nil
	}

	b, err := baseline.LoadBaseline(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			r.log.Warn("baseline file not found, showing all findings", zap.String("path", path))
			return nil
		}
		return err
	}

	r.baseline = b
	ignored := cli.FilterResults(r.summary, b)
	r.log.Debug("baseline applied", zap.String("path", path), zap.Int("ignored", ignored))
	return nil
}

// saveBaseline writes a baseline from the unfiltered results.
func (r *scoreRun) saveBaseline(w io.Writer) error {
	path := r.baselineFile()
	issues, scores := cli.CollectBaseline(r.summary)
	b := baseline.CreateBaseline(issues, scores)

	if err := b.SaveBaseline(path); err != nil {
		return fmt.Errorf("failed to save baseline: %w", err)
	}
	if !r.cfg.Quiet {
		fmt.Fprintf(w, "Baseline created: %s (%d findings, %d scores)\n", path, len(b.Fingerprints), len(b.Scores))
	}
	return nil
}

// checkThresholds reports resumes below --fail-under and files that failed
// to load. It returns true when the run should exit non-zero.
func (r *scoreRun) checkThresholds(w io.Writer) bool {
	failed := false

	if r.cfg.FailUnder > 0 {
		for _, result := range cli.BelowThreshold(r.summary, r.cfg.FailUnder) {
			failed = true
			if !r.cfg.Quiet {
				fmt.Fprintf(w, "%s scored %d, below --fail-under %d\n", result.File, result.Report.Overall, r.cfg.FailUnder)
			}
		}
	}

	if r.summary.FailedFiles > 0 {
		failed = true
	}
	return failed
}

func runScore(cmd *cobra.Command, args []string) error {
	run, err := executeRun(cmd.Context(), args)
	if err != nil {
		return err
	}
	defer func() { _ = run.log.Sync() }()

	outputter := outputters.NewOutputter(run.cfg, Version)
	outputter.SetStdout(cmd.OutOrStdout())
	if err := outputter.Format(run.summary, run.cfg.Format); err != nil {
		return fmt.Errorf("error formatting output: %w", err)
	}

	// Creating a baseline accepts the current state, so it never fails the run
	if createBaseline {
		return run.saveBaseline(cmd.ErrOrStderr())
	}

	if run.checkThresholds(cmd.ErrOrStderr()) {
		exitFunc(1)
	}
	return nil
}

// collectFilesToScore determines which files to score from args and flags.
func collectFilesToScore(sc *cli.ScoringContext, args []string) ([]string, error) {
	// 1. Git-scoped runs
	if stagedOnly || changedOnly {
		if !git.IsGitRepo(sc.RootPath) {
			return nil, fmt.Errorf("--changed and --staged require a git repository at %s", sc.RootPath)
		}
		if stagedOnly {
			return git.GetStagedFiles(sc.RootPath)
		}
		return git.GetChangedFiles(sc.RootPath)
	}

	// 2. No args: discover every resume under the root
	if len(args) == 0 {
		return sc.DiscoverFiles()
	}

	// 3. Explicit files and directories
	var files []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			// Keep it: scoring reports the load failure for this file
			files = append(files, arg)
			continue
		}

		if !info.IsDir() {
			files = append(files, arg)
			continue
		}

		found, err := discovery.NewFileDiscovery(arg, sc.FollowSymlinks, sc.Exclude).DiscoverFilesWithPatterns(directoryPatterns)
		if err != nil {
			return nil, fmt.Errorf("error discovering files in %s: %w", arg, err)
		}
		for _, f := range found {
			files = append(files, f.Path)
		}
	}
	return files, nil
}
