package cli

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/dotcommander/atscore/internal/discovery"
	"github.com/dotcommander/atscore/internal/logger"
	"github.com/dotcommander/atscore/internal/resume"
	"github.com/dotcommander/atscore/internal/scoring"
	"github.com/dotcommander/atscore/internal/types"
)

// ScoreResult is the outcome of scoring one resume document.
type ScoreResult struct {
	File     string          `json:"file"`
	Path     string          `json:"-"`
	Name     string          `json:"name,omitempty"`
	Report   *scoring.Report `json:"report"`
	Issues   []types.Issue   `json:"issues"`
	Error    string          `json:"error,omitempty"`
	Duration time.Duration   `json:"-"`
	// Delta is the change in overall score against the baseline, when the
	// baseline has a score for this file.
	Delta *int `json:"delta,omitempty"`
}

// Failed reports whether the document could not be loaded.
func (r ScoreResult) Failed() bool {
	return r.Error != ""
}

// Scored reports whether the document produced a report. A null or empty
// document loads fine but has nothing to score.
func (r ScoreResult) Scored() bool {
	return r.Report != nil
}

// ScoreSummary aggregates the results of a scoring run.
type ScoreSummary struct {
	ProjectRoot     string
	StartTime       time.Time
	Duration        time.Duration
	TotalFiles      int
	ScoredFiles     int
	FailedFiles     int
	TotalIssues     int
	BaselineIgnored int
	Results         []ScoreResult
}

// ScoreFiles loads, validates and scores files concurrently, bounded by
// ctx.Concurrency. Results keep the order of files. A file that fails to load
// becomes a failed result; only cancellation aborts the run.
func (sc *ScoringContext) ScoreFiles(ctx context.Context, files []string) (*ScoreSummary, error) {
	summary := &ScoreSummary{
		ProjectRoot: sc.RootPath,
		StartTime:   time.Now(),
		TotalFiles:  len(files),
		Results:     make([]ScoreResult, len(files)),
	}

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(sc.Concurrency)

	for i, file := range files {
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}
			// Each goroutine owns its slot, so no lock is needed
			summary.Results[i] = sc.ScoreFile(file)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("scoring interrupted: %w", err)
	}

	for _, r := range summary.Results {
		switch {
		case r.Failed():
			summary.FailedFiles++
		case r.Scored():
			summary.ScoredFiles++
		}
		summary.TotalIssues += len(r.Issues)
	}
	summary.Duration = time.Since(summary.StartTime)

	return summary, nil
}

// ScoreFile loads, validates and scores a single document.
func (sc *ScoringContext) ScoreFile(path string) ScoreResult {
	start := time.Now()
	result := ScoreResult{
		File:   sc.DisplayPath(path),
		Path:   path,
		Issues: []types.Issue{},
	}
	log := logger.WithFields(sc.Logger, zap.String(logger.FieldFile, result.File))

	absPath, err := discovery.ValidateFilePath(path)
	if err != nil {
		return sc.failed(result, start, err)
	}
	result.Path = absPath

	r, raw, err := resume.Load(absPath)
	if err != nil {
		return sc.failed(result, start, err)
	}

	if sc.Validator != nil {
		issues, err := sc.Validator.ValidateFile(result.File, raw)
		if err != nil {
			log.Warn("schema validation failed", zap.Error(err))
		}
		result.Issues = append(result.Issues, issues...)
	}

	result.Report = sc.Scorer.Score(r)
	result.Name = r.DisplayName("")
	result.Duration = time.Since(start)

	if result.Report == nil {
		log.Debug("empty document, nothing to score")
		return result
	}

	log.Debug("scored",
		zap.Int(logger.FieldScore, result.Report.Overall),
		zap.String(logger.FieldRating, result.Report.Rating),
		zap.Duration(logger.FieldDuration, result.Duration),
	)
	return result
}

func (sc *ScoringContext) failed(result ScoreResult, start time.Time, err error) ScoreResult {
	result.Error = err.Error()
	result.Issues = append(result.Issues, types.Issue{
		File:     result.File,
		Message:  err.Error(),
		Severity: types.SeverityError,
		Source:   types.SourceLoader,
	})
	result.Duration = time.Since(start)
	sc.Logger.Debug("load failed", zap.String(logger.FieldFile, result.File), zap.Error(err))
	return result
}

// ScoreFiles builds a ScoringContext from opts and scores files with it.
func ScoreFiles(ctx context.Context, opts Options, files []string) (*ScoreSummary, error) {
	sc, err := NewScoringContext(opts)
	if err != nil {
		return nil, err
	}
	return sc.ScoreFiles(ctx, files)
}
