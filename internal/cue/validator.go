package cue

import (
	"embed"
	"fmt"
	"path"
	"slices"
	"sort"
	"strings"
	"sync"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"

	"github.com/dotcommander/atscore/internal/types"
)

//go:embed schemas/*.cue
var schemaFS embed.FS

// Validator handles CUE validation. A cue.Context is not safe for
// concurrent use, so validation is serialized.
type Validator struct {
	mu      sync.Mutex
	ctx     *cue.Context
	schemas map[string]cue.Value
}

// NewValidator creates a new Validator instance
func NewValidator() *Validator {
	return &Validator{
		ctx:     cuecontext.New(),
		schemas: make(map[string]cue.Value),
	}
}

// LoadSchemas compiles all CUE schema files from the embedded filesystem
func (v *Validator) LoadSchemas() error {
	v.mu.Lock()
	defer v.mu.Unlock()

	entries, err := schemaFS.ReadDir("schemas")
	if err != nil {
		return fmt.Errorf("could not read embedded schemas: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() || path.Ext(entry.Name()) != ".cue" {
			continue
		}
		content, err := schemaFS.ReadFile(path.Join("schemas", entry.Name()))
		if err != nil {
			return fmt.Errorf("could not read schema %s: %w", entry.Name(), err)
		}

		inst := v.ctx.CompileBytes(content, cue.Filename(entry.Name()))
		if instErr := inst.Err(); instErr != nil {
			return fmt.Errorf("could not compile schema %s: %w", entry.Name(), instErr)
		}

		// resume.cue -> resume
		v.schemas[strings.TrimSuffix(entry.Name(), ".cue")] = inst
	}

	if len(v.schemas) == 0 {
		return fmt.Errorf("no CUE schemas loaded")
	}

	return nil
}

// ValidateResume validates a decoded resume document against #Resume.
// It returns nil when the schema is not loaded.
func (v *Validator) ValidateResume(data map[string]any) ([]types.Issue, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	schema, ok := v.schemas["resume"]
	if !ok {
		return nil, nil
	}
	return v.validateAgainstSchema(schema, data, "#Resume")
}

// ValidateFile validates a decoded document and attributes issues to path.
func (v *Validator) ValidateFile(path string, data map[string]any) ([]types.Issue, error) {
	issues, err := v.ValidateResume(data)
	if err != nil {
		return nil, fmt.Errorf("error validating %s: %w", path, err)
	}
	for i := range issues {
		issues[i].File = path
	}
	return issues, nil
}

// validateAgainstSchema validates data against a definition in a CUE schema
func (v *Validator) validateAgainstSchema(schema cue.Value, data map[string]any, definition string) ([]types.Issue, error) {
	if data == nil {
		return nil, nil
	}

	dataValue := v.ctx.Encode(data)
	if encErr := dataValue.Err(); encErr != nil {
		return nil, fmt.Errorf("error encoding data: %w", encErr)
	}

	def := schema.LookupPath(cue.ParsePath(definition))
	if !def.Exists() {
		return nil, nil
	}

	unified := def.Unify(dataValue)
	if err := unified.Err(); err != nil {
		return extractErrorsFromCUE(err), nil
	}

	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return extractErrorsFromCUE(err), nil
	}

	return nil, nil
}

// extractErrorsFromCUE turns a CUE error list into one warning per
// offending path. Disjunctions report each failed branch, so messages are
// de-duplicated per path.
func extractErrorsFromCUE(err error) []types.Issue {
	byPath := make(map[string][]string)
	var order []string

	for _, e := range cueerrors.Errors(err) {
		p := strings.Join(e.Path(), ".")
		if p == "" {
			p = "(document)"
		}
		format, args := e.Msg()
		msg := fmt.Sprintf(format, args...)
		if msg == "" {
			msg = e.Error()
		}

		if _, seen := byPath[p]; !seen {
			order = append(order, p)
		}
		if !slices.Contains(byPath[p], msg) {
			byPath[p] = append(byPath[p], msg)
		}
	}

	if len(order) == 0 {
		return []types.Issue{{
			Message:  fmt.Sprintf("schema validation failed: %v", err),
			Severity: types.SeverityWarning,
			Source:   types.SourceSchema,
		}}
	}

	sort.Strings(order)
	issues := make([]types.Issue, 0, len(order))
	for _, p := range order {
		issues = append(issues, types.Issue{
			Message:  fmt.Sprintf("%s: %s", p, strings.Join(byPath[p], "; ")),
			Severity: types.SeverityWarning,
			Source:   types.SourceSchema,
		})
	}
	return issues
}
