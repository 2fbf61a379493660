package output

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/dotcommander/atscore/internal/cli"
	"github.com/dotcommander/atscore/internal/scoring"
	"github.com/dotcommander/atscore/internal/types"
)

// ToolName is reported in machine-readable output headers.
const ToolName = "atscore"

// JSONFormatter formats output as JSON
type JSONFormatter struct {
	indent  bool
	version string
	out     io.Writer
}

// NewJSONFormatter creates a new JSONFormatter
func NewJSONFormatter(indent bool, version string, out io.Writer) *JSONFormatter {
	return &JSONFormatter{
		indent:  indent,
		version: version,
		out:     out,
	}
}

// JSONReport represents the complete JSON report structure
type JSONReport struct {
	Header  JSONHeader   `json:"header"`
	Summary JSONSummary  `json:"summary"`
	Results []JSONResult `json:"results"`
}

// JSONHeader contains report metadata
type JSONHeader struct {
	Tool      string `json:"tool"`
	Version   string `json:"version"`
	Timestamp string `json:"timestamp"`
}

// JSONSummary contains summary statistics
type JSONSummary struct {
	TotalFiles      int            `json:"total_files"`
	ScoredFiles     int            `json:"scored_files"`
	FailedFiles     int            `json:"failed_files"`
	AverageScore    float64        `json:"average_score"`
	LowestScore     int            `json:"lowest_score"`
	RatingCounts    map[string]int `json:"rating_counts"`
	TotalIssues     int            `json:"total_issues"`
	BaselineIgnored int            `json:"baseline_ignored,omitempty"`
	Duration        string         `json:"duration"`
}

// JSONResult represents a single resume's scoring result. Report is null
// for empty documents and files that failed to load.
type JSONResult struct {
	File   string          `json:"file"`
	Name   string          `json:"name,omitempty"`
	Report *scoring.Report `json:"report"`
	Issues []types.Issue   `json:"issues"`
	Error  string          `json:"error,omitempty"`
	Delta  *int            `json:"delta,omitempty"`
}

// Build assembles the JSON report for summary.
func (f *JSONFormatter) Build(summary *cli.ScoreSummary) JSONReport {
	stats := cli.ComputeStats(summary)

	report := JSONReport{
		Header: JSONHeader{
			Tool:      ToolName,
			Version:   f.version,
			Timestamp: time.Now().Format(time.RFC3339),
		},
		Summary: JSONSummary{
			TotalFiles:      summary.TotalFiles,
			ScoredFiles:     summary.ScoredFiles,
			FailedFiles:     summary.FailedFiles,
			AverageScore:    stats.AverageScore,
			LowestScore:     stats.LowestScore,
			RatingCounts:    stats.RatingCounts,
			TotalIssues:     summary.TotalIssues,
			BaselineIgnored: summary.BaselineIgnored,
			Duration:        summary.Duration.Round(time.Millisecond).String(),
		},
		Results: make([]JSONResult, len(summary.Results)),
	}

	for i, result := range summary.Results {
		issues := result.Issues
		if issues == nil {
			issues = []types.Issue{}
		}
		report.Results[i] = JSONResult{
			File:   result.File,
			Name:   result.Name,
			Report: result.Report,
			Issues: issues,
			Error:  result.Error,
			Delta:  result.Delta,
		}
	}

	return report
}

// Format formats the scoring summary as JSON
func (f *JSONFormatter) Format(summary *cli.ScoreSummary) error {
	return writeJSON(f.out, f.Build(summary), f.indent)
}

func writeJSON(w io.Writer, v any, indent bool) error {
	enc := json.NewEncoder(w)
	if indent {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("error marshaling JSON: %w", err)
	}
	return nil
}
