package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/dotcommander/atscore/internal/cli"
	"github.com/dotcommander/atscore/internal/scoring"
	"github.com/dotcommander/atscore/internal/textutil"
	"github.com/dotcommander/atscore/internal/types"
)

const labelWidth = 22

// ConsoleFormatter formats output for console display
type ConsoleFormatter struct {
	quiet    bool
	verbose  bool
	colorize bool
	out      io.Writer
}

// NewConsoleFormatter creates a new ConsoleFormatter. Styling and the
// perfect-score celebration are enabled only when out is a terminal.
func NewConsoleFormatter(quiet, verbose bool, out io.Writer) *ConsoleFormatter {
	return &ConsoleFormatter{
		quiet:    quiet,
		verbose:  verbose,
		colorize: IsTerminal(out),
		out:      out,
	}
}

// Format formats the scoring summary for console output
func (f *ConsoleFormatter) Format(summary *cli.ScoreSummary) error {
	if f.quiet {
		// Only the exit code matters in quiet mode
		return nil
	}

	for i, result := range summary.Results {
		if i > 0 {
			fmt.Fprintln(f.out)
		}
		f.printResult(result)
	}

	f.printSummary(summary)
	return nil
}

func (f *ConsoleFormatter) style(color string) lipgloss.Style {
	if !f.colorize {
		return lipgloss.NewStyle()
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(color))
}

// ratingColor maps a fraction of the maximum to red, yellow or green.
func ratingColor(points, limit int) string {
	if limit <= 0 {
		return "7"
	}
	ratio := float64(points) / float64(limit)
	switch {
	case ratio >= 0.8:
		return "10" // green
	case ratio >= 0.6:
		return "11" // yellow
	default:
		return "9" // red
	}
}

// bar renders points out of limit as one cell per point.
func bar(points, limit int) string {
	points = min(max(points, 0), limit)
	return strings.Repeat("█", points) + strings.Repeat("░", limit-points)
}

func (f *ConsoleFormatter) printResult(result cli.ScoreResult) {
	header := lipgloss.NewStyle().Bold(f.colorize).Render(result.File)
	if result.Name != "" {
		header += "  " + f.style("8").Render(result.Name)
	}
	fmt.Fprintln(f.out, header)

	if result.Failed() {
		fmt.Fprintf(f.out, "  %s %s\n", f.style("9").Render("✘"), result.Error)
		return
	}

	report := result.Report
	if report == nil {
		fmt.Fprintf(f.out, "  %s\n", f.style("8").Render("empty document, nothing to score"))
		f.printIssues(result.Issues)
		return
	}

	score := fmt.Sprintf("%d/100", report.Overall)
	line := fmt.Sprintf("  %s  %s", f.style(ratingColor(report.Overall, 100)).Bold(f.colorize).Render(score), report.Rating)
	if result.Delta != nil {
		line += fmt.Sprintf("  (%s)", formatDelta(*result.Delta))
	}
	if report.Overall == 100 && f.colorize {
		printCelebration(f.out, strings.TrimSpace(line))
	} else {
		fmt.Fprintln(f.out, line)
	}

	for _, s := range report.Breakdown.Sections() {
		fmt.Fprintf(f.out, "  %-*s %s %2d/%d\n", labelWidth, s.Label,
			f.style(ratingColor(s.Points, s.Max)).Render(bar(s.Points, s.Max)), s.Points, s.Max)
	}

	if f.verbose {
		f.printDetails(report.Details)
	}

	if len(report.Recommendations) > 0 {
		fmt.Fprintln(f.out, "  Recommendations:")
		for i, rec := range report.Recommendations {
			fmt.Fprintf(f.out, "    %d. %s\n", i+1, rec)
		}
	}

	f.printIssues(result.Issues)
}

func (f *ConsoleFormatter) printDetails(details []scoring.ScoringMetric) {
	dim := f.style("8")
	for _, m := range details {
		mark := f.style("10").Render("✓")
		if !m.Passed {
			mark = f.style("9").Render("✗")
		}
		text := fmt.Sprintf("%s %s (%d/%d)", m.Category, m.Name, m.Points, m.MaxPoints)
		if m.Note != "" {
			text += " " + m.Note
		}
		fmt.Fprintf(f.out, "    %s %s\n", mark, dim.Render(text))
	}
}

func (f *ConsoleFormatter) printIssues(issues []types.Issue) {
	for _, issue := range issues {
		if issue.Severity == types.SeverityError {
			continue // shown as the result error
		}
		fmt.Fprintf(f.out, "  %s %s\n", f.style("3").Render("⚠"), issue.Message)
	}
}

// printSummary prints the one-line run summary. A single clean result
// needs no summary.
func (f *ConsoleFormatter) printSummary(summary *cli.ScoreSummary) {
	if summary.TotalFiles == 0 {
		fmt.Fprintln(f.out, "No resumes found")
		return
	}
	if summary.TotalFiles == 1 && summary.FailedFiles == 0 && summary.BaselineIgnored == 0 {
		return
	}

	stats := cli.ComputeStats(summary)
	text := fmt.Sprintf("%s scored", textutil.Pluralize(stats.ScoredFiles, "resume"))
	if stats.ScoredFiles > 0 {
		text += fmt.Sprintf(", average %.1f", stats.AverageScore)
	}
	if stats.FailedFiles > 0 {
		text += fmt.Sprintf(", %d failed", stats.FailedFiles)
	}
	if stats.BaselineIgnored > 0 {
		text += fmt.Sprintf(", %d baseline findings hidden", stats.BaselineIgnored)
	}
	text += fmt.Sprintf(" (%s)", formatDuration(summary.Duration))

	color := "10"
	if stats.FailedFiles > 0 {
		color = "9"
	}
	fmt.Fprintf(f.out, "\n%s\n", f.style(color).Render(text))
}
