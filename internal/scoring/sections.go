package scoring

import (
	"fmt"
	"strings"

	"github.com/dotcommander/atscore/internal/resume"
	"github.com/dotcommander/atscore/internal/textutil"
)

// Skill name fragments that signal technical and interpersonal skills.
var (
	hardSkillKeywords = []string{"programming", "development", "database", "framework", "javascript", "python", "java", "sql"}
	softSkillKeywords = []string{"communication", "leadership", "teamwork", "management"}
)

// detailedDescriptionWords is the word count at which a job description
// earns the detail bonus.
const detailedDescriptionWords = 20

// ScoreContact scores contact information (15 points max).
func ScoreContact(info resume.PersonalInfo) (int, []ScoringMetric) {
	total, details := ScoreFields(CategoryContact, []FieldSpec{
		{Name: "full name", Points: 3, Present: !textutil.IsBlank(info.FullName)},
		{Name: "valid email", Points: 3, Present: isValidEmail(info.Email)},
		{Name: "phone", Points: 3, Present: !textutil.IsBlank(info.Phone)},
		{Name: "location", Points: 2, Present: !textutil.IsBlank(info.Location)},
		{Name: "LinkedIn", Points: 2, Present: !textutil.IsBlank(info.LinkedIn)},
		{Name: "portfolio", Points: 2, Present: !textutil.IsBlank(info.Portfolio)},
	})
	return clampSection(CategoryContact, total, MaxContactInfo, details)
}

var summaryTiers = []ScoreTier{
	{Min: 30, Points: 15, Note: "Complete: 30+ words"},
	{Min: 20, Points: 12, Note: "Good: 20+ words"},
	{Min: 10, Points: 8, Note: "Brief: 10+ words"},
	{Min: 1, Points: 4, Note: "Minimal: under 10 words"},
}

// ScoreSummary scores the professional summary by length (15 points max).
func ScoreSummary(summary string) (int, []ScoringMetric) {
	words := textutil.WordCount(summary)
	points, note := scoreTiers(words, summaryTiers)
	if words == 0 {
		note = "Missing"
	}
	return points, []ScoringMetric{{
		Category:  CategorySummary,
		Name:      "Summary length",
		Points:    points,
		MaxPoints: MaxSummary,
		Passed:    words >= 20,
		Note:      note + fmt.Sprintf(" (%s)", textutil.Pluralize(words, "word")),
	}}
}

var experienceCriteria = []EntryCriterion[resume.Experience]{
	{Name: "Company named", Points: 1, Check: func(e resume.Experience) bool { return !textutil.IsBlank(e.Company) }},
	{Name: "Position named", Points: 1, Check: func(e resume.Experience) bool { return !textutil.IsBlank(e.Position) }},
	{Name: "Start date", Points: 1, Check: func(e resume.Experience) bool { return !textutil.IsBlank(e.StartDate) }},
	{Name: "Detailed description", Points: 2, Check: func(e resume.Experience) bool {
		return textutil.WordCount(e.Description) >= detailedDescriptionWords
	}},
}

// ScoreExperience scores work history (25 points max).
func ScoreExperience(entries []resume.Experience) (int, []ScoringMetric) {
	total, details := ScoreEntries(CategoryExperience, entries, EntryBase{PerEntry: 5, Cap: 15}, experienceCriteria)
	return clampSection(CategoryExperience, total, MaxExperience, details)
}

var educationCriteria = []EntryCriterion[resume.Education]{
	{Name: "Institution named", Points: 1, Check: func(e resume.Education) bool { return !textutil.IsBlank(e.Institution) }},
	{Name: "Degree named", Points: 2, Check: func(e resume.Education) bool { return !textutil.IsBlank(e.Degree) }},
	{Name: "Field of study", Points: 1, Check: func(e resume.Education) bool { return !textutil.IsBlank(e.Field) }},
	{Name: "Graduation date", Points: 1, Check: func(e resume.Education) bool { return !textutil.IsBlank(e.GraduationDate) }},
}

// ScoreEducation scores education history (15 points max).
func ScoreEducation(entries []resume.Education) (int, []ScoringMetric) {
	total, details := ScoreEntries(CategoryEducation, entries, EntryBase{PerEntry: 3, Cap: 9}, educationCriteria)
	return clampSection(CategoryEducation, total, MaxEducation, details)
}

// ScoreSkills scores the skill list (20 points max).
// Only skill names count; the level is ignored.
func ScoreSkills(skills []resume.Skill) (int, []ScoringMetric) {
	total, details := ScoreEntries[resume.Skill](CategorySkills, skills, EntryBase{PerEntry: 2, Cap: 16}, nil)
	if len(skills) == 0 {
		return 0, details
	}

	names := make([]string, len(skills))
	for i, s := range skills {
		names[i] = strings.ToLower(s.Name)
	}

	for _, bonus := range []struct {
		name     string
		keywords []string
	}{
		{"Technical skills", hardSkillKeywords},
		{"Interpersonal skills", softSkillKeywords},
	} {
		found := anyContains(names, bonus.keywords)
		points := boolToInt(found) * 2
		total += points
		details = append(details, ScoringMetric{
			Category:  CategorySkills,
			Name:      bonus.name,
			Points:    points,
			MaxPoints: 2,
			Passed:    found,
		})
	}

	return clampSection(CategorySkills, total, MaxSkills, details)
}

// ScoreAdditional scores projects and certifications (10 points max).
func ScoreAdditional(projects []resume.Project, certifications []resume.Certification) (int, []ScoringMetric) {
	projectPoints := min(len(projects)*2, 6)
	certPoints := min(len(certifications)*2, 4)

	details := []ScoringMetric{
		{
			Category:  CategoryAdditional,
			Name:      "Projects",
			Points:    projectPoints,
			MaxPoints: 6,
			Passed:    len(projects) > 0,
			Note:      fmt.Sprintf("%d listed", len(projects)),
		},
		{
			Category:  CategoryAdditional,
			Name:      "Certifications",
			Points:    certPoints,
			MaxPoints: 4,
			Passed:    len(certifications) > 0,
			Note:      fmt.Sprintf("%d listed", len(certifications)),
		},
	}

	return clampSection(CategoryAdditional, projectPoints+certPoints, MaxAdditional, details)
}

// anyContains reports whether any name contains one of the keywords.
func anyContains(names []string, keywords []string) bool {
	for _, name := range names {
		if textutil.ContainsAny(name, keywords...) {
			return true
		}
	}
	return false
}
