package cli

import (
	"github.com/dotcommander/atscore/internal/baseline"
	"github.com/dotcommander/atscore/internal/types"
)

// RecommendationIssues converts a result's recommendations into issues so
// they can be fingerprinted by a baseline.
func RecommendationIssues(result ScoreResult) []types.Issue {
	if result.Report == nil {
		return nil
	}
	issues := make([]types.Issue, 0, len(result.Report.Recommendations))
	for _, rec := range result.Report.Recommendations {
		issues = append(issues, types.Issue{
			File:     result.File,
			Message:  rec,
			Severity: types.SeverityInfo,
			Source:   types.SourceRecommendation,
		})
	}
	return issues
}

// FilterResults hides acknowledged recommendations and schema warnings and
// records the score delta of every file the baseline has a score for.
// It returns the number of hidden findings.
func FilterResults(summary *ScoreSummary, b *baseline.Baseline) int {
	if b == nil {
		return 0 // No baseline, no filtering
	}

	var ignored int

	for i := range summary.Results {
		result := &summary.Results[i]

		filteredIssues := make([]types.Issue, 0, len(result.Issues))
		for _, issue := range result.Issues {
			// Load failures always surface
			if issue.Severity != types.SeverityError && b.IsKnown(issue) {
				ignored++
				continue
			}
			filteredIssues = append(filteredIssues, issue)
		}
		result.Issues = filteredIssues

		if result.Report == nil {
			continue
		}

		recs := make([]string, 0, len(result.Report.Recommendations))
		for _, issue := range RecommendationIssues(*result) {
			if b.IsKnown(issue) {
				ignored++
				continue
			}
			recs = append(recs, issue.Message)
		}
		result.Report.Recommendations = recs

		if previous, ok := b.Score(result.File); ok {
			delta := result.Report.Overall - previous
			result.Delta = &delta
		}
	}

	// Recalculate summary totals
	var totalIssues int
	for _, result := range summary.Results {
		totalIssues += len(result.Issues)
	}
	summary.TotalIssues = totalIssues
	summary.BaselineIgnored = ignored

	return ignored
}

// CollectBaseline gathers every finding and score of a summary (for baseline creation)
func CollectBaseline(summary *ScoreSummary) ([]types.Issue, map[string]int) {
	var issues []types.Issue
	scores := make(map[string]int)

	for _, result := range summary.Results {
		for _, issue := range result.Issues {
			if issue.Severity != types.SeverityError {
				issues = append(issues, issue)
			}
		}
		issues = append(issues, RecommendationIssues(result)...)
		if result.Report != nil {
			scores[result.File] = result.Report.Overall
		}
	}

	return issues, scores
}
