package scoring

import "github.com/dotcommander/atscore/internal/resume"

// Section maximums. They add up to 100.
const (
	MaxContactInfo = 15
	MaxSummary     = 15
	MaxExperience  = 25
	MaxEducation   = 15
	MaxSkills      = 20
	MaxAdditional  = 10

	// MaxRecommendations bounds the recommendation list of a Report.
	MaxRecommendations = 5
)

// Rating labels derived from the overall score.
const (
	RatingExcellent        = "Excellent"
	RatingGood             = "Good"
	RatingNeedsImprovement = "Needs Improvement"
)

// Category names used in ScoringMetric.Category.
const (
	CategoryContact    = "contact"
	CategorySummary    = "summary"
	CategoryExperience = "experience"
	CategoryEducation  = "education"
	CategorySkills     = "skills"
	CategoryAdditional = "additional"
)

// Report is the ATS compatibility score of a single resume
type Report struct {
	Overall         int             `json:"overall"` // 0-100, sum of the breakdown
	Rating          string          `json:"rating"`
	Breakdown       Breakdown       `json:"breakdown"`
	Recommendations []string        `json:"recommendations"`
	Details         []ScoringMetric `json:"details,omitempty"`
}

// Breakdown holds the six weighted sub-scores
type Breakdown struct {
	ContactInfo int `json:"contactInfo"` // 0-15
	Summary     int `json:"summary"`     // 0-15
	Experience  int `json:"experience"`  // 0-25
	Education   int `json:"education"`   // 0-15
	Skills      int `json:"skills"`      // 0-20
	Additional  int `json:"additional"`  // 0-10
}

// Total returns the sum of all sub-scores.
func (b Breakdown) Total() int {
	return b.ContactInfo + b.Summary + b.Experience + b.Education + b.Skills + b.Additional
}

// Section is one display row of a Breakdown.
type Section struct {
	Key    string
	Label  string
	Points int
	Max    int
}

// Sections returns the breakdown as ordered display rows.
func (b Breakdown) Sections() []Section {
	return []Section{
		{Key: CategoryContact, Label: "Contact Information", Points: b.ContactInfo, Max: MaxContactInfo},
		{Key: CategorySummary, Label: "Professional Summary", Points: b.Summary, Max: MaxSummary},
		{Key: CategoryExperience, Label: "Work Experience", Points: b.Experience, Max: MaxExperience},
		{Key: CategoryEducation, Label: "Education", Points: b.Education, Max: MaxEducation},
		{Key: CategorySkills, Label: "Skills", Points: b.Skills, Max: MaxSkills},
		{Key: CategoryAdditional, Label: "Additional Sections", Points: b.Additional, Max: MaxAdditional},
	}
}

// ScoringMetric represents a single scoring criterion
type ScoringMetric struct {
	Category  string `json:"category"`   // contact, summary, experience, education, skills, additional
	Name      string `json:"name"`       // Human-readable name
	Points    int    `json:"points"`     // Actual points earned
	MaxPoints int    `json:"max_points"` // Maximum possible points
	Passed    bool   `json:"passed"`     // Whether this check passed
	Note      string `json:"note,omitempty"`
}

// RatingFromScore returns the rating label for an overall score
func RatingFromScore(score int) string {
	switch {
	case score >= 80:
		return RatingExcellent
	case score >= 60:
		return RatingGood
	default:
		return RatingNeedsImprovement
	}
}

// NewReport creates a new Report and calculates the overall score
func NewReport(breakdown Breakdown, details []ScoringMetric) *Report {
	overall := breakdown.Total()
	return &Report{
		Overall:         overall,
		Rating:          RatingFromScore(overall),
		Breakdown:       breakdown,
		Recommendations: []string{},
		Details:         details,
	}
}

// Scorer is the interface for resume scorers
type Scorer interface {
	Score(r *resume.Resume) *Report
}
