package scoring

import (
	"fmt"
	"regexp"

	"github.com/dotcommander/atscore/internal/textutil"
)

// emailPart excludes "@" and every character web browsers treat as
// whitespace: ASCII whitespace including vertical tab, the Unicode separator
// categories and the byte order mark.
const emailPart = `[^\s\v\p{Z}\x{FEFF}@]+`

var emailPattern = regexp.MustCompile(`^` + emailPart + `@` + emailPart + `\.` + emailPart + `$`)

// isValidEmail reports whether email is non-blank and has a simple address shape.
func isValidEmail(email string) bool {
	return !textutil.IsBlank(email) && emailPattern.MatchString(email)
}

// FieldSpec defines a single-value field with its point value
type FieldSpec struct {
	Name    string
	Points  int
	Present bool
}

// ScoreFields scores the presence of single-value fields.
// New fields can be added via the specs slice.
func ScoreFields(category string, specs []FieldSpec) (int, []ScoringMetric) {
	var total int
	var details []ScoringMetric

	for _, field := range specs {
		points := 0
		if field.Present {
			points = field.Points
		}
		total += points
		details = append(details, ScoringMetric{
			Category:  category,
			Name:      "Has " + field.Name,
			Points:    points,
			MaxPoints: field.Points,
			Passed:    field.Present,
		})
	}

	return total, details
}

// EntryCriterion awards Points for every list entry that passes Check.
type EntryCriterion[T any] struct {
	Name   string
	Points int
	Check  func(T) bool
}

// EntryBase defines the base points a list earns for its length:
// PerEntry points per entry, capped at Cap.
type EntryBase struct {
	PerEntry int
	Cap      int
}

// ScoreEntries scores a list section: base points for the number of entries
// plus per-entry criteria. The result is not clamped; callers apply the
// section maximum with clampSection.
func ScoreEntries[T any](category string, entries []T, base EntryBase, criteria []EntryCriterion[T]) (int, []ScoringMetric) {
	if len(entries) == 0 {
		return 0, []ScoringMetric{{
			Category:  category,
			Name:      "Entries",
			Points:    0,
			MaxPoints: base.Cap,
			Passed:    false,
			Note:      "None listed",
		}}
	}

	basePoints := min(len(entries)*base.PerEntry, base.Cap)
	total := basePoints
	details := []ScoringMetric{{
		Category:  category,
		Name:      "Entries",
		Points:    basePoints,
		MaxPoints: base.Cap,
		Passed:    true,
		Note:      fmt.Sprintf("%d listed", len(entries)),
	}}

	for _, c := range criteria {
		matched := 0
		for _, e := range entries {
			if c.Check(e) {
				matched++
			}
		}
		points := matched * c.Points
		total += points
		details = append(details, ScoringMetric{
			Category:  category,
			Name:      c.Name,
			Points:    points,
			MaxPoints: len(entries) * c.Points,
			Passed:    matched == len(entries),
			Note:      fmt.Sprintf("%d of %d", matched, len(entries)),
		})
	}

	return total, details
}

// ScoreTier awards Points once a value reaches Min.
type ScoreTier struct {
	Min    int
	Points int
	Note   string
}

// scoreTiers returns the points and note of the first tier with value >= Min.
// Tiers must be ordered from highest Min to lowest.
func scoreTiers(value int, tiers []ScoreTier) (int, string) {
	for _, tier := range tiers {
		if value >= tier.Min {
			return tier.Points, tier.Note
		}
	}
	return 0, ""
}

// clampSection caps total at limit. When points are dropped, a negative
// adjustment metric is appended so that the details still add up.
func clampSection(category string, total, limit int, details []ScoringMetric) (int, []ScoringMetric) {
	if total <= limit {
		return total, details
	}
	return limit, append(details, ScoringMetric{
		Category:  category,
		Name:      "Section cap",
		Points:    limit - total,
		MaxPoints: 0,
		Passed:    true,
		Note:      fmt.Sprintf("Capped at %d (earned %d)", limit, total),
	})
}

// boolToInt converts a boolean to 0 or 1
func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
