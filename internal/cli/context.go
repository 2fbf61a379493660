package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/dotcommander/atscore/internal/cue"
	"github.com/dotcommander/atscore/internal/discovery"
	"github.com/dotcommander/atscore/internal/logger"
	"github.com/dotcommander/atscore/internal/project"
	"github.com/dotcommander/atscore/internal/scoring"
)

// Options configures a scoring run.
type Options struct {
	RootPath         string
	Concurrency      int
	SchemaValidation bool
	FollowSymlinks   bool
	Exclude          []string
	Logger           *zap.Logger
}

// ScoringContext holds the shared state for a scoring run: the resolved
// project root, the schema validator and the scorer.
type ScoringContext struct {
	RootPath       string
	Concurrency    int
	FollowSymlinks bool
	Exclude        []string
	Validator      *cue.Validator
	Scorer         scoring.Scorer
	Logger         *zap.Logger
	discoverer     *discovery.FileDiscovery
}

// NewScoringContext creates a ScoringContext with all dependencies initialized.
// It handles project root detection and schema loading.
func NewScoringContext(opts Options) (*ScoringContext, error) {
	log := logger.OrNop(opts.Logger)

	rootPath := opts.RootPath
	if rootPath == "" {
		var err error
		rootPath, err = project.FindProjectRoot(".")
		if err != nil {
			return nil, fmt.Errorf("error finding project root: %w", err)
		}
	}
	rootPath, err := filepath.Abs(rootPath)
	if err != nil {
		return nil, fmt.Errorf("invalid root %q: %w", opts.RootPath, err)
	}

	var validator *cue.Validator
	if opts.SchemaValidation {
		validator = cue.NewValidator()
		if err := validator.LoadSchemas(); err != nil {
			// Soft failure: scoring does not depend on the schema
			log.Warn("resume schema not loaded, skipping schema checks", zap.Error(err))
			validator = nil
		}
	}

	concurrency := opts.Concurrency
	if concurrency < 1 {
		concurrency = 1
	}

	return &ScoringContext{
		RootPath:       rootPath,
		Concurrency:    concurrency,
		FollowSymlinks: opts.FollowSymlinks,
		Exclude:        opts.Exclude,
		Validator:      validator,
		Scorer:         scoring.NewATSScorer(),
		Logger:         log,
		discoverer:     discovery.NewFileDiscovery(rootPath, opts.FollowSymlinks, opts.Exclude),
	}, nil
}

// DiscoverFiles returns the absolute paths of every resume under the root.
func (ctx *ScoringContext) DiscoverFiles() ([]string, error) {
	files, err := ctx.discoverer.DiscoverFiles()
	if err != nil {
		return nil, fmt.Errorf("error discovering files: %w", err)
	}

	paths := make([]string, len(files))
	for i, f := range files {
		paths[i] = f.Path
	}
	ctx.Logger.Debug("discovered resumes", zap.String("root", ctx.RootPath), zap.Int("count", len(paths)))
	return paths, nil
}

// DisplayPath returns path relative to the project root when it lies
// inside it, with forward slashes; otherwise path unchanged. Baselines are
// keyed by this form so they survive checkouts in different directories.
func (ctx *ScoringContext) DisplayPath(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	rel, err := filepath.Rel(ctx.RootPath, abs)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return path
	}
	return filepath.ToSlash(rel)
}
