package output

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/dotcommander/atscore/internal/cli"
	"github.com/dotcommander/atscore/internal/scoring"
)

// ratingOrder is the display order of the rating distribution.
var ratingOrder = []string{scoring.RatingExcellent, scoring.RatingGood, scoring.RatingNeedsImprovement}

// StatsFormatter renders the aggregate view of a scoring run: counts,
// average, rating distribution, most frequent recommendations and the
// lowest-scoring resumes.
type StatsFormatter struct {
	format  string
	top     int
	version string
	out     io.Writer
}

// NewStatsFormatter creates a StatsFormatter for format, listing at most top
// recommendations and resumes.
func NewStatsFormatter(format string, top int, version string, out io.Writer) *StatsFormatter {
	return &StatsFormatter{format: format, top: top, version: version, out: out}
}

// StatsReport is the JSON shape of the summary command.
type StatsReport struct {
	Header JSONHeader   `json:"header"`
	Stats  cli.Stats    `json:"stats"`
	Lowest []LowestItem `json:"lowest"`
}

// LowestItem is one entry of the lowest-scoring list.
type LowestItem struct {
	File    string `json:"file"`
	Overall int    `json:"overall"`
	Rating  string `json:"rating"`
}

// Format renders the summary in the configured format.
func (f *StatsFormatter) Format(summary *cli.ScoreSummary) error {
	stats := cli.ComputeStats(summary)
	if f.top >= 0 && len(stats.Recommendations) > f.top {
		stats.Recommendations = stats.Recommendations[:f.top]
	}

	lowest := []LowestItem{}
	for _, r := range cli.LowestScoring(summary, f.top) {
		lowest = append(lowest, LowestItem{File: r.File, Overall: r.Report.Overall, Rating: r.Report.Rating})
	}

	switch f.format {
	case "json":
		return writeJSON(f.out, StatsReport{
			Header: JSONHeader{Tool: ToolName, Version: f.version, Timestamp: time.Now().Format(time.RFC3339)},
			Stats:  stats,
			Lowest: lowest,
		}, true)
	case "markdown":
		return f.writeMarkdown(stats, lowest)
	default:
		return f.writeConsole(stats, lowest)
	}
}

func (f *StatsFormatter) writeConsole(stats cli.Stats, lowest []LowestItem) error {
	colorize := IsTerminal(f.out)
	bold := lipgloss.NewStyle().Bold(colorize)

	var b strings.Builder
	b.WriteString(bold.Render("Resumes") + "\n")
	b.WriteString(fmt.Sprintf("  %d scanned, %d scored, %d failed\n", stats.TotalFiles, stats.ScoredFiles, stats.FailedFiles))
	if stats.ScoredFiles > 0 {
		b.WriteString(fmt.Sprintf("  average %.1f, range %d-%d\n", stats.AverageScore, stats.LowestScore, stats.HighestScore))
	}

	b.WriteString("\n" + bold.Render("Ratings") + "\n")
	for _, rating := range ratingOrder {
		b.WriteString(fmt.Sprintf("  %-18s %d\n", rating, stats.RatingCounts[rating]))
	}

	if len(stats.Recommendations) > 0 {
		b.WriteString("\n" + bold.Render("Top recommendations") + "\n")
		for _, rec := range stats.Recommendations {
			b.WriteString(fmt.Sprintf("  %3d× %s\n", rec.Count, rec.Text))
		}
	}

	if len(lowest) > 0 {
		b.WriteString("\n" + bold.Render("Lowest scores") + "\n")
		for _, item := range lowest {
			style := lipgloss.NewStyle()
			if colorize {
				style = style.Foreground(lipgloss.Color(ratingColor(item.Overall, 100)))
			}
			b.WriteString(fmt.Sprintf("  %s  %s\n", style.Render(fmt.Sprintf("%3d", item.Overall)), item.File))
		}
	}

	_, err := io.WriteString(f.out, b.String())
	return err
}

func (f *StatsFormatter) writeMarkdown(stats cli.Stats, lowest []LowestItem) error {
	var b strings.Builder
	b.WriteString("# ATS Score Summary\n\n")
	b.WriteString("| Metric | Value |\n|--------|-------|\n")
	b.WriteString(fmt.Sprintf("| Files Scanned | %d |\n", stats.TotalFiles))
	b.WriteString(fmt.Sprintf("| Scored | %d |\n", stats.ScoredFiles))
	b.WriteString(fmt.Sprintf("| Failed | %d |\n", stats.FailedFiles))
	b.WriteString(fmt.Sprintf("| Average Score | %.1f |\n", stats.AverageScore))
	for _, rating := range ratingOrder {
		b.WriteString(fmt.Sprintf("| %s | %d |\n", rating, stats.RatingCounts[rating]))
	}
	b.WriteString("\n")

	if len(stats.Recommendations) > 0 {
		b.WriteString("## Top Recommendations\n\n")
		for _, rec := range stats.Recommendations {
			b.WriteString(fmt.Sprintf("- %s (%d)\n", rec.Text, rec.Count))
		}
		b.WriteString("\n")
	}

	if len(lowest) > 0 {
		b.WriteString("## Lowest Scores\n\n| File | Score | Rating |\n|------|-------|--------|\n")
		for _, item := range lowest {
			b.WriteString(fmt.Sprintf("| %s | %d | %s |\n", escapeCell(item.File), item.Overall, item.Rating))
		}
		b.WriteString("\n")
	}

	_, err := io.WriteString(f.out, b.String())
	return err
}
