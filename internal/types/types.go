// Package types provides shared types used across the atscore codebase.
// This package is at the bottom of the dependency graph and should not import
// any other internal packages to avoid circular dependencies.
package types

// Issue represents a finding about a resume document: a schema violation,
// a load failure or a scorer recommendation.
type Issue struct {
	File     string `json:"file"`
	Message  string `json:"message"`
	Severity string `json:"severity"`         // error, warning, info
	Source   string `json:"source,omitempty"` // atscore-schema, atscore-loader, atscore-recommendation
	Line     int    `json:"line,omitempty"`
	Column   int    `json:"column,omitempty"`
}

// Issue source constants.
const (
	SourceSchema         = "atscore-schema"         // Embedded CUE resume schema
	SourceLoader         = "atscore-loader"         // Document decoding
	SourceRecommendation = "atscore-recommendation" // Scorer recommendations
)

// Severity level constants. Recommendations are reported as info.
const (
	SeverityError   = "error"
	SeverityWarning = "warning"
	SeverityInfo    = "info"
)

// Document format constants.
const (
	FormatYAML = "yaml"
	FormatJSON = "json"
)

// Output format constants.
const (
	OutputConsole  = "console"
	OutputJSON     = "json"
	OutputMarkdown = "markdown"
)
