package cmd

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/dotcommander/atscore/internal/discovery"
	"github.com/dotcommander/atscore/internal/output"
	"github.com/dotcommander/atscore/internal/outputters"
	"github.com/dotcommander/atscore/internal/types"
	"github.com/dotcommander/atscore/internal/watch"
)

// clearScreen moves the cursor home and clears the terminal.
const clearScreen = "\033[H\033[2J"

// skippedDirs are never watched when walking the project tree.
var skippedDirs = map[string]bool{
	".git":         true,
	"node_modules": true,
	"vendor":       true,
}

var watchCmd = &cobra.Command{
	Use:   "watch [files...]",
	Short: "Re-score resumes whenever they change",
	Long: `Score resumes, then re-score and re-render each time a watched document
is saved. Without arguments every discovered resume under the project root
is watched, including new documents saved next to existing ones.

Rapid successive saves are collapsed into one run (watch.debounce in
.atscorerc, default 300ms). Press Ctrl+C to stop.

EXAMPLES:

  atscore watch
  atscore watch resumes/jane.yaml -v`,
	Args: cobra.ArbitraryArgs,
	Run: func(cmd *cobra.Command, args []string) {
		if err := runWatch(cmd, args); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
			exitFunc(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	run, err := newScoreRun()
	if err != nil {
		return err
	}
	defer func() { _ = run.log.Sync() }()

	ctx := cmd.Context()
	out := cmd.OutOrStdout()
	render := func(ctx context.Context) {
		if err := run.render(ctx, args, out); err != nil && ctx.Err() == nil {
			run.log.Error("re-score failed", zap.Error(err))
		}
	}

	w, err := watch.New(run.cfg.Watch.Debounce, watchMatcher(run.sc.RootPath, args), render, run.log)
	if err != nil {
		return err
	}
	defer func() { _ = w.Close() }()

	dirs, err := watchDirs(run.sc.RootPath, args)
	if err != nil {
		return err
	}
	for _, dir := range dirs {
		if err := w.AddDir(dir); err != nil {
			return err
		}
	}

	render(ctx)
	run.log.Info("watching for changes", zap.Int("directories", w.Dirs()))
	return w.Run(ctx)
}

// render re-scores and redraws the report. The console format clears the
// screen first so that each run replaces the previous one.
func (r *scoreRun) render(ctx context.Context, args []string, out io.Writer) error {
	if err := r.score(ctx, args); err != nil {
		return err
	}

	if r.cfg.Format == types.OutputConsole && r.cfg.Output == "" && output.IsTerminal(out) {
		fmt.Fprint(out, clearScreen)
	}

	outputter := outputters.NewOutputter(r.cfg, Version)
	outputter.SetStdout(out)
	if err := outputter.Format(r.summary, r.cfg.Format); err != nil {
		return fmt.Errorf("error formatting output: %w", err)
	}
	return nil
}

// watchMatcher reports whether a changed path should trigger a re-score.
// With explicit arguments only those files (or documents under those
// directories) count; otherwise any path matching discovery patterns does.
func watchMatcher(root string, args []string) func(string) bool {
	if len(args) == 0 {
		return func(path string) bool {
			rel, err := filepath.Rel(root, path)
			if err != nil || strings.HasPrefix(rel, "..") {
				return false
			}
			return discovery.IsResumePath(rel)
		}
	}

	files := make(map[string]bool)
	var dirs []string
	for _, arg := range args {
		abs, err := filepath.Abs(arg)
		if err != nil {
			continue
		}
		if info, err := os.Stat(abs); err == nil && info.IsDir() {
			dirs = append(dirs, abs+string(filepath.Separator))
			continue
		}
		files[abs] = true
	}

	return func(path string) bool {
		if files[path] {
			return true
		}
		if _, err := discovery.DetectFormat(path); err != nil {
			return false
		}
		for _, dir := range dirs {
			if strings.HasPrefix(path, dir) {
				return true
			}
		}
		return false
	}
}

// watchDirs lists the directories to watch. Files are watched through their
// parent directory; directories are watched recursively.
func watchDirs(root string, args []string) ([]string, error) {
	if len(args) == 0 {
		return walkDirs(root)
	}

	seen := make(map[string]bool)
	var dirs []string
	add := func(dir string) {
		if !seen[dir] {
			seen[dir] = true
			dirs = append(dirs, dir)
		}
	}

	for _, arg := range args {
		abs, err := filepath.Abs(arg)
		if err != nil {
			return nil, err
		}
		info, err := os.Stat(abs)
		if err != nil || !info.IsDir() {
			add(filepath.Dir(abs))
			continue
		}
		sub, err := walkDirs(abs)
		if err != nil {
			return nil, err
		}
		for _, dir := range sub {
			add(dir)
		}
	}
	return dirs, nil
}

func walkDirs(root string) ([]string, error) {
	var dirs []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && (skippedDirs[d.Name()] || strings.HasPrefix(d.Name(), ".")) {
			return filepath.SkipDir
		}
		dirs = append(dirs, path)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("error listing directories under %s: %w", root, err)
	}
	return dirs, nil
}
