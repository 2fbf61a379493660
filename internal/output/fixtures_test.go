package output

import (
	"time"

	"github.com/dotcommander/atscore/internal/cli"
	"github.com/dotcommander/atscore/internal/scoring"
	"github.com/dotcommander/atscore/internal/types"
)

func intPtr(v int) *int { return &v }

func testSummary() *cli.ScoreSummary {
	good := scoring.NewReport(scoring.Breakdown{
		ContactInfo: 15, Summary: 12, Experience: 18, Education: 9, Skills: 8, Additional: 0,
	}, []scoring.ScoringMetric{
		{Category: scoring.CategoryContact, Name: "Full name", Points: 3, MaxPoints: 3, Passed: true},
		{Category: scoring.CategoryAdditional, Name: "Projects", Points: 0, MaxPoints: 6, Passed: false, Note: "none listed"},
	})
	good.Recommendations = []string{scoring.RecAddProjects, scoring.RecAddKeywords}

	return &cli.ScoreSummary{
		ProjectRoot: "/work/resumes",
		StartTime:   time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		Duration:    42 * time.Millisecond,
		TotalFiles:  3,
		ScoredFiles: 1,
		FailedFiles: 1,
		TotalIssues: 2,
		Results: []cli.ScoreResult{
			{
				File:   "resumes/jane.yaml",
				Name:   "Jane Doe",
				Report: good,
				Delta:  intPtr(4),
				Issues: []types.Issue{
					{File: "resumes/jane.yaml", Message: "skills.0.level: invalid value", Severity: types.SeverityWarning, Source: types.SourceSchema},
				},
			},
			{
				File:   "resumes/broken.yaml",
				Error:  "invalid resume document: yaml: line 1",
				Issues: []types.Issue{{File: "resumes/broken.yaml", Message: "invalid resume document: yaml: line 1", Severity: types.SeverityError, Source: types.SourceLoader}},
			},
			{
				File:   "resumes/empty.yaml",
				Issues: []types.Issue{},
			},
		},
	}
}
