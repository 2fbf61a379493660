package scoring

import (
	"slices"

	"github.com/dotcommander/atscore/internal/resume"
	"github.com/dotcommander/atscore/internal/textutil"
)

// Recommendation texts, in priority order.
const (
	RecEmail             = "Add a professional email address"
	RecPhone             = "Include your phone number"
	RecLinkedIn          = "Add your LinkedIn profile URL"
	RecLocation          = "Include your location (city, state)"
	RecAddSummary        = "Add a professional summary to introduce yourself"
	RecExpandSummary     = "Expand your professional summary (aim for 30-50 words)"
	RecAddExperience     = "Add your work experience"
	RecDetailExperience  = "Provide more detailed job descriptions with quantifiable achievements"
	RecAddEducation      = "Add your educational background"
	RecDetailEducation   = "Include more details about your education (field of study, graduation date)"
	RecAddSkills         = "Add relevant skills to your resume"
	RecMoreSkills        = "Add more skills to showcase your expertise"
	RecAddProjects       = "Consider adding relevant projects to demonstrate your abilities"
	RecAddCertifications = "Include any relevant certifications or training"
	RecMoreContent       = "Focus on adding more detailed content to improve ATS compatibility"
	RecAddKeywords       = "Consider adding keywords relevant to your target job position"
)

// recommendationOrder lists every recommendation in priority order.
var recommendationOrder = []string{
	RecEmail, RecPhone, RecLinkedIn, RecLocation,
	RecAddSummary, RecExpandSummary,
	RecAddExperience, RecDetailExperience,
	RecAddEducation, RecDetailEducation,
	RecAddSkills, RecMoreSkills,
	RecAddProjects, RecAddCertifications,
	RecMoreContent, RecAddKeywords,
}

// RecommendationPriority returns the position of rec in the priority order.
// Unknown texts rank after every known recommendation.
func RecommendationPriority(rec string) int {
	if i := slices.Index(recommendationOrder, rec); i >= 0 {
		return i
	}
	return len(recommendationOrder)
}

// Thresholds below which a section produces recommendations.
const (
	contactThreshold    = 12
	summaryThreshold    = 10
	experienceThreshold = 15
	educationThreshold  = 10
	skillsThreshold     = 15
	additionalThreshold = 5

	expandSummaryWords = 20
	minSkillCount      = 5
)

// Recommend builds the prioritized recommendation list for a scored resume.
// Sections are visited in display order, the general hint comes last, and
// the list is cut to MaxRecommendations without reordering.
func Recommend(overall int, b Breakdown, r *resume.Resume) []string {
	recs := []string{}
	if r == nil {
		return recs
	}
	info := r.PersonalInfo

	if b.ContactInfo < contactThreshold {
		if !isValidEmail(info.Email) {
			recs = append(recs, RecEmail)
		}
		if textutil.IsBlank(info.Phone) {
			recs = append(recs, RecPhone)
		}
		if textutil.IsBlank(info.LinkedIn) {
			recs = append(recs, RecLinkedIn)
		}
		if textutil.IsBlank(info.Location) {
			recs = append(recs, RecLocation)
		}
	}

	if b.Summary < summaryThreshold {
		words := textutil.WordCount(info.Summary)
		switch {
		case words == 0:
			recs = append(recs, RecAddSummary)
		case words < expandSummaryWords:
			recs = append(recs, RecExpandSummary)
		}
	}

	if b.Experience < experienceThreshold {
		if len(r.Experience) == 0 {
			recs = append(recs, RecAddExperience)
		} else {
			recs = append(recs, RecDetailExperience)
		}
	}

	if b.Education < educationThreshold {
		if len(r.Education) == 0 {
			recs = append(recs, RecAddEducation)
		} else {
			recs = append(recs, RecDetailEducation)
		}
	}

	if b.Skills < skillsThreshold {
		switch {
		case len(r.Skills) == 0:
			recs = append(recs, RecAddSkills)
		case len(r.Skills) < minSkillCount:
			recs = append(recs, RecMoreSkills)
		}
	}

	if b.Additional < additionalThreshold {
		if len(r.Projects) == 0 {
			recs = append(recs, RecAddProjects)
		}
		if len(r.Certifications) == 0 {
			recs = append(recs, RecAddCertifications)
		}
	}

	switch {
	case overall < 60:
		recs = append(recs, RecMoreContent)
	case overall < 80:
		recs = append(recs, RecAddKeywords)
	}

	if len(recs) > MaxRecommendations {
		recs = recs[:MaxRecommendations]
	}
	return recs
}
