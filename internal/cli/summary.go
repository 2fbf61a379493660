package cli

import (
	"sort"

	"github.com/dotcommander/atscore/internal/scoring"
)

// RecommendationCount is how many resumes received a recommendation.
type RecommendationCount struct {
	Text  string `json:"text"`
	Count int    `json:"count"`
}

// Stats is the aggregate view of a scoring run used by the summary command
// and the report footers.
type Stats struct {
	TotalFiles      int                   `json:"totalFiles"`
	ScoredFiles     int                   `json:"scoredFiles"`
	FailedFiles     int                   `json:"failedFiles"`
	AverageScore    float64               `json:"averageScore"`
	HighestScore    int                   `json:"highestScore"`
	LowestScore     int                   `json:"lowestScore"`
	LowestFile      string                `json:"lowestFile,omitempty"`
	RatingCounts    map[string]int        `json:"ratingCounts"`
	Recommendations []RecommendationCount `json:"recommendations"`
	BaselineIgnored int                   `json:"baselineIgnored,omitempty"`
}

// ComputeStats aggregates the scored results of summary.
func ComputeStats(summary *ScoreSummary) Stats {
	stats := Stats{
		TotalFiles:      summary.TotalFiles,
		ScoredFiles:     summary.ScoredFiles,
		FailedFiles:     summary.FailedFiles,
		BaselineIgnored: summary.BaselineIgnored,
		RatingCounts: map[string]int{
			scoring.RatingExcellent:        0,
			scoring.RatingGood:             0,
			scoring.RatingNeedsImprovement: 0,
		},
		Recommendations: []RecommendationCount{},
	}

	recCounts := make(map[string]int)
	var total int
	first := true

	for _, r := range summary.Results {
		if r.Report == nil {
			continue
		}
		overall := r.Report.Overall
		total += overall
		stats.RatingCounts[r.Report.Rating]++

		if first || overall > stats.HighestScore {
			stats.HighestScore = overall
		}
		if first || overall < stats.LowestScore {
			stats.LowestScore = overall
			stats.LowestFile = r.File
		}
		first = false

		for _, rec := range r.Report.Recommendations {
			recCounts[rec]++
		}
	}

	if stats.ScoredFiles > 0 {
		stats.AverageScore = float64(total) / float64(stats.ScoredFiles)
	}

	for text, count := range recCounts {
		stats.Recommendations = append(stats.Recommendations, RecommendationCount{Text: text, Count: count})
	}
	sort.Slice(stats.Recommendations, func(i, j int) bool {
		a, b := stats.Recommendations[i], stats.Recommendations[j]
		if a.Count != b.Count {
			return a.Count > b.Count
		}
		// Equal counts follow the scorer's own priority order
		pa, pb := scoring.RecommendationPriority(a.Text), scoring.RecommendationPriority(b.Text)
		if pa != pb {
			return pa < pb
		}
		return a.Text < b.Text
	})

	return stats
}

// LowestScoring returns up to n scored results, lowest overall first.
// Ties keep discovery order.
func LowestScoring(summary *ScoreSummary, n int) []ScoreResult {
	scored := make([]ScoreResult, 0, len(summary.Results))
	for _, r := range summary.Results {
		if r.Report != nil {
			scored = append(scored, r)
		}
	}
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Report.Overall < scored[j].Report.Overall
	})
	if n >= 0 && len(scored) > n {
		scored = scored[:n]
	}
	return scored
}

// BelowThreshold returns the scored results whose overall score is under
// threshold. A threshold of zero never matches.
func BelowThreshold(summary *ScoreSummary, threshold int) []ScoreResult {
	var below []ScoreResult
	for _, r := range summary.Results {
		if r.Report != nil && r.Report.Overall < threshold {
			below = append(below, r)
		}
	}
	return below
}
