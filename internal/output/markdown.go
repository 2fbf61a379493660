package output

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dotcommander/atscore/internal/cli"
	"github.com/dotcommander/atscore/internal/types"
)

// MarkdownFormatter formats output as Markdown
type MarkdownFormatter struct {
	verbose bool
	out     io.Writer
}

// NewMarkdownFormatter creates a new MarkdownFormatter
func NewMarkdownFormatter(verbose bool, out io.Writer) *MarkdownFormatter {
	return &MarkdownFormatter{
		verbose: verbose,
		out:     out,
	}
}

// Format formats the scoring summary as Markdown
func (f *MarkdownFormatter) Format(summary *cli.ScoreSummary) error {
	var builder strings.Builder
	stats := cli.ComputeStats(summary)

	// Header
	builder.WriteString("# ATS Score Report\n\n")
	builder.WriteString(fmt.Sprintf("**Generated:** %s\n\n", time.Now().Format("2006-01-02 15:04:05")))
	if summary.ProjectRoot != "" {
		builder.WriteString(fmt.Sprintf("**Project:** %s\n\n", summary.ProjectRoot))
	}

	// Summary Table
	builder.WriteString("## Summary\n\n")
	builder.WriteString("| Metric | Value |\n")
	builder.WriteString("|--------|-------|\n")
	builder.WriteString(fmt.Sprintf("| Files Scanned | %d |\n", summary.TotalFiles))
	builder.WriteString(fmt.Sprintf("| Scored | %d |\n", summary.ScoredFiles))
	builder.WriteString(fmt.Sprintf("| Failed | %d |\n", summary.FailedFiles))
	builder.WriteString(fmt.Sprintf("| Average Score | %.1f |\n", stats.AverageScore))
	if summary.BaselineIgnored > 0 {
		builder.WriteString(fmt.Sprintf("| Hidden by Baseline | %d |\n", summary.BaselineIgnored))
	}
	builder.WriteString("\n")

	builder.WriteString("## Results\n\n")
	if summary.TotalFiles == 0 {
		builder.WriteString("*No resumes found.*\n")
	} else {
		builder.WriteString("| File | Score | Rating | Change |\n")
		builder.WriteString("|------|-------|--------|--------|\n")
		for _, result := range summary.Results {
			score, rating, change := "-", "-", ""
			switch {
			case result.Failed():
				rating = "❌ failed"
			case result.Report != nil:
				score = fmt.Sprintf("%d/100", result.Report.Overall)
				rating = result.Report.Rating
			}
			if result.Delta != nil {
				change = formatDelta(*result.Delta)
			}
			builder.WriteString(fmt.Sprintf("| [%s](#%s) | %s | %s | %s |\n",
				escapeCell(result.File), createAnchor(result.File), score, rating, change))
		}
		builder.WriteString("\n")

		for _, result := range summary.Results {
			f.writeResult(&builder, result)
		}
	}

	_, err := io.WriteString(f.out, builder.String())
	if err != nil {
		return fmt.Errorf("error writing markdown: %w", err)
	}
	return nil
}

func (f *MarkdownFormatter) writeResult(builder *strings.Builder, result cli.ScoreResult) {
	builder.WriteString(fmt.Sprintf("### %s\n\n", result.File))
	if result.Name != "" {
		builder.WriteString(fmt.Sprintf("Candidate: %s\n\n", result.Name))
	}

	if result.Failed() {
		builder.WriteString(fmt.Sprintf("Error: `%s`\n\n", result.Error))
		return
	}

	report := result.Report
	if report == nil {
		builder.WriteString("*Empty document, nothing to score.*\n\n")
		return
	}

	builder.WriteString(fmt.Sprintf("**Score:** %d/100 (%s)\n\n", report.Overall, report.Rating))
	builder.WriteString("| Section | Score | Max |\n")
	builder.WriteString("|---------|-------|-----|\n")
	for _, s := range report.Breakdown.Sections() {
		builder.WriteString(fmt.Sprintf("| %s | %d | %d |\n", s.Label, s.Points, s.Max))
	}
	builder.WriteString("\n")

	if f.verbose && len(report.Details) > 0 {
		builder.WriteString("#### Details\n\n")
		for _, m := range report.Details {
			mark := "✅"
			if !m.Passed {
				mark = "❌"
			}
			builder.WriteString(fmt.Sprintf("- %s %s: %s (%d/%d)\n", mark, m.Category, m.Name, m.Points, m.MaxPoints))
		}
		builder.WriteString("\n")
	}

	if len(report.Recommendations) > 0 {
		builder.WriteString("#### Recommendations\n\n")
		for i, rec := range report.Recommendations {
			builder.WriteString(fmt.Sprintf("%d. %s\n", i+1, rec))
		}
		builder.WriteString("\n")
	}

	var warnings []types.Issue
	for _, issue := range result.Issues {
		if issue.Severity != types.SeverityError {
			warnings = append(warnings, issue)
		}
	}
	if len(warnings) > 0 {
		builder.WriteString("#### Schema Warnings\n\n")
		for _, w := range warnings {
			builder.WriteString(fmt.Sprintf("- %s `[%s]`\n", w.Message, w.Source))
		}
		builder.WriteString("\n")
	}
}

// createAnchor creates a markdown-safe anchor
func createAnchor(text string) string {
	// Simple implementation - replace spaces and special chars
	anchor := strings.ToLower(text)
	anchor = strings.ReplaceAll(anchor, " ", "-")
	anchor = strings.ReplaceAll(anchor, ".", "")
	anchor = strings.ReplaceAll(anchor, "/", "")
	return anchor
}

// escapeCell escapes pipes so text stays inside its table cell.
func escapeCell(text string) string {
	return strings.ReplaceAll(text, "|", `\|`)
}
