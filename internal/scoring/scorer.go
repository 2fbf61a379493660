package scoring

import "github.com/dotcommander/atscore/internal/resume"

// ATSScorer scores resumes on a 0-100 scale.
// It holds no state and is safe for concurrent use.
type ATSScorer struct{}

// NewATSScorer creates a new ATSScorer
func NewATSScorer() *ATSScorer {
	return &ATSScorer{}
}

// Score evaluates a resume and returns a fresh Report.
// A nil resume yields a nil report.
func (s *ATSScorer) Score(r *resume.Resume) *Report {
	if r == nil {
		return nil
	}

	var details []ScoringMetric
	collect := func(points int, metrics []ScoringMetric) int {
		details = append(details, metrics...)
		return points
	}

	breakdown := Breakdown{
		ContactInfo: collect(ScoreContact(r.PersonalInfo)),
		Summary:     collect(ScoreSummary(r.PersonalInfo.Summary)),
		Experience:  collect(ScoreExperience(r.Experience)),
		Education:   collect(ScoreEducation(r.Education)),
		Skills:      collect(ScoreSkills(r.Skills)),
		Additional:  collect(ScoreAdditional(r.Projects, r.Certifications)),
	}

	report := NewReport(breakdown, details)
	report.Recommendations = Recommend(report.Overall, breakdown, r)
	return report
}

// Score evaluates r with the default scorer.
func Score(r *resume.Resume) *Report {
	return NewATSScorer().Score(r)
}
