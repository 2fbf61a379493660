package scoring

import (
	"testing"
)

func TestRatingFromScore(t *testing.T) {
	tests := []struct {
		name       string
		score      int
		wantRating string
	}{
		{"Excellent - exact boundary", 80, RatingExcellent},
		{"Excellent - perfect", 100, RatingExcellent},
		{"Good - exact boundary", 60, RatingGood},
		{"Good - upper range", 79, RatingGood},
		{"Needs improvement - boundary", 59, RatingNeedsImprovement},
		{"Needs improvement - zero", 0, RatingNeedsImprovement},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RatingFromScore(tt.score)
			if got != tt.wantRating {
				t.Errorf("RatingFromScore(%d) = %q, want %q", tt.score, got, tt.wantRating)
			}
		})
	}
}

func TestNewReport(t *testing.T) {
	b := Breakdown{ContactInfo: 15, Summary: 12, Experience: 20, Education: 8, Skills: 14, Additional: 4}
	report := NewReport(b, nil)

	if report.Overall != 73 {
		t.Errorf("Overall = %d, want 73", report.Overall)
	}
	if report.Rating != RatingGood {
		t.Errorf("Rating = %q, want %q", report.Rating, RatingGood)
	}
	if report.Recommendations == nil {
		t.Error("Recommendations should be an empty slice, not nil")
	}
}

func TestBreakdownSections(t *testing.T) {
	b := Breakdown{ContactInfo: 1, Summary: 2, Experience: 3, Education: 4, Skills: 5, Additional: 6}
	sections := b.Sections()

	wantLabels := []string{
		"Contact Information", "Professional Summary", "Work Experience",
		"Education", "Skills", "Additional Sections",
	}
	wantMax := []int{15, 15, 25, 15, 20, 10}

	if len(sections) != len(wantLabels) {
		t.Fatalf("len(Sections()) = %d, want %d", len(sections), len(wantLabels))
	}

	maxTotal := 0
	for i, s := range sections {
		if s.Label != wantLabels[i] {
			t.Errorf("sections[%d].Label = %q, want %q", i, s.Label, wantLabels[i])
		}
		if s.Max != wantMax[i] {
			t.Errorf("sections[%d].Max = %d, want %d", i, s.Max, wantMax[i])
		}
		if s.Points != i+1 {
			t.Errorf("sections[%d].Points = %d, want %d", i, s.Points, i+1)
		}
		maxTotal += s.Max
	}

	if maxTotal != 100 {
		t.Errorf("section maximums sum to %d, want 100", maxTotal)
	}
}
