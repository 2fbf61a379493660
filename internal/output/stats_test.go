package output

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/dotcommander/atscore/internal/cli"
	"github.com/dotcommander/atscore/internal/scoring"
)

func statsFixture() *cli.ScoreSummary {
	mk := func(file string, overall int, recs ...string) cli.ScoreResult {
		return cli.ScoreResult{File: file, Report: &scoring.Report{
			Overall: overall, Rating: scoring.RatingFromScore(overall), Recommendations: recs,
		}}
	}
	return &cli.ScoreSummary{
		TotalFiles:  3,
		ScoredFiles: 3,
		Results: []cli.ScoreResult{
			mk("a.yaml", 85, scoring.RecAddCertifications),
			mk("b.yaml", 40, scoring.RecAddSummary, scoring.RecAddCertifications),
			mk("c.yaml", 61, scoring.RecAddProjects),
		},
	}
}

func TestStatsFormatter_Console(t *testing.T) {
	var buf bytes.Buffer
	if err := NewStatsFormatter("console", 2, "dev", &buf).Format(statsFixture()); err != nil {
		t.Fatal(err)
	}
	output := buf.String()

	for _, want := range []string{
		"3 scanned, 3 scored, 0 failed",
		"average 62.0, range 40-85",
		"Excellent          1",
		"Needs Improvement  1",
		"  2× " + scoring.RecAddCertifications,
		" 40  b.yaml",
		" 61  c.yaml",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("output missing %q\n%s", want, output)
		}
	}
	if strings.Contains(output, "a.yaml") {
		t.Error("top 2 lowest should not list the highest score")
	}
}

func TestStatsFormatter_JSON(t *testing.T) {
	var buf bytes.Buffer
	if err := NewStatsFormatter("json", 5, "dev", &buf).Format(statsFixture()); err != nil {
		t.Fatal(err)
	}

	var report StatsReport
	if err := json.Unmarshal(buf.Bytes(), &report); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if report.Stats.ScoredFiles != 3 || report.Stats.LowestFile != "b.yaml" {
		t.Errorf("Stats = %+v", report.Stats)
	}
	if len(report.Lowest) != 3 || report.Lowest[0].File != "b.yaml" {
		t.Errorf("Lowest = %+v", report.Lowest)
	}
	if len(report.Stats.Recommendations) != 3 || report.Stats.Recommendations[0].Count != 2 {
		t.Errorf("Recommendations = %+v", report.Stats.Recommendations)
	}
}

func TestStatsFormatter_Markdown(t *testing.T) {
	var buf bytes.Buffer
	if err := NewStatsFormatter("markdown", 1, "dev", &buf).Format(statsFixture()); err != nil {
		t.Fatal(err)
	}
	output := buf.String()
	for _, want := range []string{
		"# ATS Score Summary",
		"| Good | 1 |",
		"- " + scoring.RecAddCertifications + " (2)",
		"| b.yaml | 40 | Needs Improvement |",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("output missing %q\n%s", want, output)
		}
	}
	if strings.Contains(output, scoring.RecAddProjects) {
		t.Error("top 1 should only list the most frequent recommendation")
	}
}
