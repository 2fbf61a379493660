package baseline

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"os"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/dotcommander/atscore/internal/types"
)

// Version is the baseline file format version.
const Version = "1.0"

// Baseline is a snapshot of a scoring run: acknowledged findings that
// should be hidden, and the overall score per file that later runs are
// compared against.
type Baseline struct {
	Version      string          `json:"version"`
	CreatedAt    string          `json:"created_at"`
	Fingerprints []string        `json:"fingerprints"`
	Scores       map[string]int  `json:"scores,omitempty"`
	index        map[string]bool // For fast lookup
}

// CreateBaseline creates a new baseline from findings and per-file scores
func CreateBaseline(issues []types.Issue, scores map[string]int) *Baseline {
	fingerprints := make([]string, 0, len(issues))
	index := make(map[string]bool)

	for _, issue := range issues {
		fp := fingerprint(issue)
		if !index[fp] {
			fingerprints = append(fingerprints, fp)
			index[fp] = true
		}
	}

	// Sort for deterministic output
	sort.Strings(fingerprints)

	copied := make(map[string]int, len(scores))
	for file, score := range scores {
		copied[file] = score
	}

	return &Baseline{
		Version:      Version,
		CreatedAt:    time.Now().UTC().Format(time.RFC3339),
		Fingerprints: fingerprints,
		Scores:       copied,
		index:        index,
	}
}

// LoadBaseline loads a baseline from a JSON file
func LoadBaseline(path string) (*Baseline, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read baseline file: %w", err)
	}

	var b Baseline
	if err := json.Unmarshal(data, &b); err != nil {
		return nil, fmt.Errorf("failed to parse baseline file: %w", err)
	}

	b.index = make(map[string]bool, len(b.Fingerprints))
	for _, fp := range b.Fingerprints {
		b.index[fp] = true
	}

	return &b, nil
}

// SaveBaseline saves the baseline to a JSON file
func (b *Baseline) SaveBaseline(path string) error {
	data, err := json.MarshalIndent(b, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal baseline: %w", err)
	}

	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("failed to write baseline file: %w", err)
	}

	return nil
}

// IsKnown checks if an issue is in the baseline
func (b *Baseline) IsKnown(issue types.Issue) bool {
	if b == nil || b.index == nil {
		return false
	}
	return b.index[fingerprint(issue)]
}

// Score returns the recorded overall score for file.
func (b *Baseline) Score(file string) (int, bool) {
	if b == nil || b.Scores == nil {
		return 0, false
	}
	score, ok := b.Scores[file]
	return score, ok
}

// fingerprint creates a stable hash of an issue for comparison
// Uses: file path + source + normalized message pattern
func fingerprint(issue types.Issue) string {
	msg := normalizeMessage(issue.Message)

	// Line numbers are left out as they shift between edits
	data := fmt.Sprintf("%s|%s|%s", issue.File, issue.Source, msg)

	hash := sha256.Sum256([]byte(data))
	return fmt.Sprintf("%x", hash)
}

var (
	doubleQuoted = regexp.MustCompile(`"[^"]+"`)
	singleQuoted = regexp.MustCompile(`(^|\s)'([^']+)'(\s|$)`)
	numbers      = regexp.MustCompile(`\b\d+\b`)
)

// normalizeMessage normalizes messages to create stable patterns
// Replaces specific values with placeholders to match similar issues
func normalizeMessage(msg string) string {
	msg = doubleQuoted.ReplaceAllString(msg, `"*"`)

	// Match only when surrounded by whitespace/start/end to avoid contractions
	msg = singleQuoted.ReplaceAllString(msg, `$1'*'$3`)

	msg = numbers.ReplaceAllString(msg, `N`)

	return strings.Join(strings.Fields(msg), " ")
}
