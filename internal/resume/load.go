package resume

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dotcommander/atscore/internal/types"
	"gopkg.in/yaml.v3"
)

// ErrUnsupportedFormat is returned for documents that are neither YAML nor JSON.
var ErrUnsupportedFormat = errors.New("unsupported resume format")

// FormatFromPath maps a file extension to a document format.
func FormatFromPath(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return types.FormatYAML, nil
	case ".json":
		return types.FormatJSON, nil
	default:
		return "", fmt.Errorf("%w: %s (expected .yaml, .yml or .json)", ErrUnsupportedFormat, filepath.Base(path))
	}
}

// Load reads and decodes the resume document at path.
// It returns the typed resume together with the raw decoded document, which
// schema validation consumes. A null or empty document yields a nil resume.
func Load(path string) (*Resume, map[string]any, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("error reading %s: %w", path, err)
	}

	r, raw, err := Parse(data, format)
	if err != nil {
		return nil, nil, fmt.Errorf("error parsing %s: %w", path, err)
	}
	return r, raw, nil
}

// Parse decodes an in-memory resume document in the given format.
func Parse(data []byte, format string) (*Resume, map[string]any, error) {
	switch format {
	case types.FormatYAML:
		return parseYAML(data)
	case types.FormatJSON:
		return parseJSON(data)
	default:
		return nil, nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}

func parseYAML(data []byte) (*Resume, map[string]any, error) {
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, nil, fmt.Errorf("invalid YAML: %w", err)
	}
	if raw == nil {
		return nil, nil, nil
	}

	r, err := decodeTyped(data)
	if err != nil {
		return nil, nil, err
	}
	return r, raw, nil
}

// parseJSON decodes the raw document with encoding/json and then routes it
// through the YAML decoder, so numbers and booleans in string fields (a
// numeric gpa, say) land as text instead of failing the whole document.
func parseJSON(data []byte) (*Resume, map[string]any, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, nil, nil
	}

	var raw map[string]any
	if err := json.Unmarshal(trimmed, &raw); err != nil {
		return nil, nil, fmt.Errorf("invalid JSON: %w", err)
	}

	normalized, err := yaml.Marshal(raw)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid resume document: %w", err)
	}

	r, err := decodeTyped(normalized)
	if err != nil {
		return nil, nil, err
	}
	return r, raw, nil
}

// decodeTyped fills a Resume from YAML. Fields whose shape does not match
// are left empty; schema validation reports them separately.
func decodeTyped(data []byte) (*Resume, error) {
	var r Resume
	if err := yaml.Unmarshal(data, &r); err != nil {
		var typeErr *yaml.TypeError
		if !errors.As(err, &typeErr) {
			return nil, fmt.Errorf("invalid resume document: %w", err)
		}
	}
	return &r, nil
}
