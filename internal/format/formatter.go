package format

import (
	"bytes"
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Formatter formats resume documents canonically.
type Formatter interface {
	// Format takes raw file content and returns formatted content.
	// Returns original content and error if formatting fails.
	Format(content string) (string, error)
}

// fieldOrder lists the priority keys for each section of a resume, in the
// order the resume form presents them. Keys not listed follow alphabetically.
var fieldOrder = map[string][]string{
	"":               {"personalInfo", "experience", "education", "skills", "projects", "certifications"},
	"personalInfo":   {"fullName", "email", "phone", "location", "linkedin", "portfolio", "summary"},
	"experience":     {"company", "position", "startDate", "endDate", "current", "description"},
	"education":      {"institution", "degree", "field", "graduationDate", "gpa"},
	"skills":         {"name", "level"},
	"projects":       {"name", "description", "technologies", "link"},
	"certifications": {"name", "issuer", "date", "link"},
}

// nestedSection is the ordering context for maps below the known sections.
const nestedSection = "*"

// ResumeFormatter formats YAML resume documents: known keys in form order,
// string values trimmed, two-space indentation. Comments are kept.
type ResumeFormatter struct{}

// NewResumeFormatter creates a formatter for YAML resumes.
func NewResumeFormatter() Formatter {
	return &ResumeFormatter{}
}

// Format canonicalizes a YAML resume document.
func (f *ResumeFormatter) Format(content string) (string, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal([]byte(content), &doc); err != nil {
		return content, fmt.Errorf("invalid YAML: %w", err)
	}
	if doc.Kind == 0 {
		// Empty document
		return content, nil
	}

	normalizeNode(&doc, "")

	var buf bytes.Buffer
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)
	if err := encoder.Encode(&doc); err != nil {
		return content, fmt.Errorf("error encoding YAML: %w", err)
	}
	if err := encoder.Close(); err != nil {
		return content, fmt.Errorf("error encoding YAML: %w", err)
	}

	return buf.String(), nil
}

// normalizeNode reorders mappings and trims strings below node.
// section names the resume section the node belongs to.
func normalizeNode(node *yaml.Node, section string) {
	switch node.Kind {
	case yaml.DocumentNode:
		for _, child := range node.Content {
			normalizeNode(child, section)
		}
	case yaml.SequenceNode:
		// Entries of a section list share the section's key order
		for _, child := range node.Content {
			normalizeNode(child, section)
		}
	case yaml.MappingNode:
		orderMapping(node, fieldOrder[section])
		for i := 0; i+1 < len(node.Content); i += 2 {
			normalizeNode(node.Content[i+1], childSection(section, node.Content[i].Value))
		}
	case yaml.ScalarNode:
		normalizeScalar(node)
	}
}

// childSection returns the ordering context for the value under key.
func childSection(section, key string) string {
	if section == "" {
		if _, known := fieldOrder[key]; known {
			return key
		}
	}
	return nestedSection
}

// orderMapping sorts the key/value pairs of a mapping node.
// Priority keys come first, then others alphabetically.
func orderMapping(node *yaml.Node, priority []string) {
	type pair struct{ key, value *yaml.Node }

	rank := make(map[string]int, len(priority))
	for i, key := range priority {
		rank[key] = i
	}

	pairs := make([]pair, 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		pairs = append(pairs, pair{node.Content[i], node.Content[i+1]})
	}

	sort.SliceStable(pairs, func(i, j int) bool {
		ri, iKnown := rank[pairs[i].key.Value]
		rj, jKnown := rank[pairs[j].key.Value]
		switch {
		case iKnown && jKnown:
			return ri < rj
		case iKnown != jKnown:
			return iKnown
		default:
			return pairs[i].key.Value < pairs[j].key.Value
		}
	})

	content := make([]*yaml.Node, 0, len(node.Content))
	for _, p := range pairs {
		content = append(content, p.key, p.value)
	}
	node.Content = content
}

// normalizeScalar trims string values. Multi-line strings lose trailing
// whitespace on every line and are written as literal blocks.
func normalizeScalar(node *yaml.Node) {
	if node.ShortTag() != "!!str" {
		return
	}

	value := strings.TrimSpace(node.Value)
	if strings.Contains(value, "\n") {
		lines := strings.Split(value, "\n")
		for i, line := range lines {
			lines[i] = strings.TrimRight(line, " \t")
		}
		value = strings.Join(lines, "\n")
		node.Style = yaml.LiteralStyle
	}
	node.Value = value
}

// Diff computes a simple line diff between original and formatted content.
// Returns empty string if contents are identical.
func Diff(original, formatted, filename string) string {
	if original == formatted {
		return ""
	}

	var buf bytes.Buffer
	buf.WriteString(fmt.Sprintf("--- %s\n", filename))
	buf.WriteString(fmt.Sprintf("+++ %s (formatted)\n", filename))

	origLines := strings.Split(original, "\n")
	fmtLines := strings.Split(formatted, "\n")

	for i := 0; i < max(len(origLines), len(fmtLines)); i++ {
		var origLine, fmtLine string
		if i < len(origLines) {
			origLine = origLines[i]
		}
		if i < len(fmtLines) {
			fmtLine = fmtLines[i]
		}

		if origLine != fmtLine {
			if origLine != "" {
				buf.WriteString(fmt.Sprintf("- %s\n", origLine))
			}
			if fmtLine != "" {
				buf.WriteString(fmt.Sprintf("+ %s\n", fmtLine))
			}
		}
	}

	return buf.String()
}
