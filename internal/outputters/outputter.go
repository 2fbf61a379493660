package outputters

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/dotcommander/atscore/internal/cli"
	"github.com/dotcommander/atscore/internal/config"
	"github.com/dotcommander/atscore/internal/output"
	"github.com/dotcommander/atscore/internal/types"
)

// Formatter renders a scoring summary.
type Formatter interface {
	Format(summary *cli.ScoreSummary) error
}

// FormatterFactory creates a Formatter for a format writing to out.
type FormatterFactory interface {
	CreateFormatter(format string, out io.Writer) (Formatter, error)
}

// DefaultFormatterFactory creates the per-resume report formatters.
type DefaultFormatterFactory struct {
	quiet   bool
	verbose bool
	version string
}

// NewDefaultFormatterFactory creates a DefaultFormatterFactory from config.
func NewDefaultFormatterFactory(cfg *config.Config, version string) *DefaultFormatterFactory {
	return &DefaultFormatterFactory{
		quiet:   cfg.Quiet,
		verbose: cfg.Verbose,
		version: version,
	}
}

// CreateFormatter implements FormatterFactory.
func (f *DefaultFormatterFactory) CreateFormatter(format string, out io.Writer) (Formatter, error) {
	switch format {
	case types.OutputConsole:
		return output.NewConsoleFormatter(f.quiet, f.verbose, out), nil
	case types.OutputJSON:
		return output.NewJSONFormatter(true, f.version, out), nil
	case types.OutputMarkdown:
		return output.NewMarkdownFormatter(f.verbose, out), nil
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
}

// StatsFormatterFactory creates the aggregate formatters of the summary command.
type StatsFormatterFactory struct {
	top     int
	version string
}

// NewStatsFormatterFactory creates a StatsFormatterFactory listing at most top entries.
func NewStatsFormatterFactory(top int, version string) *StatsFormatterFactory {
	return &StatsFormatterFactory{top: top, version: version}
}

// CreateFormatter implements FormatterFactory.
func (f *StatsFormatterFactory) CreateFormatter(format string, out io.Writer) (Formatter, error) {
	switch format {
	case types.OutputConsole, types.OutputJSON, types.OutputMarkdown:
		return output.NewStatsFormatter(format, f.top, f.version, out), nil
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
}

// Outputter handles output formatting and the output destination
type Outputter struct {
	config  *config.Config
	factory FormatterFactory
	stdout  io.Writer
}

// NewOutputter creates a new Outputter with the default report formatters
func NewOutputter(cfg *config.Config, version string) *Outputter {
	return NewOutputterWithFactory(cfg, NewDefaultFormatterFactory(cfg, version))
}

// NewOutputterWithFactory creates an Outputter using factory
func NewOutputterWithFactory(cfg *config.Config, factory FormatterFactory) *Outputter {
	return &Outputter{
		config:  cfg,
		factory: factory,
		stdout:  os.Stdout,
	}
}

// SetStdout replaces the writer used when no output file is configured.
func (o *Outputter) SetStdout(w io.Writer) {
	o.stdout = w
}

// Format formats the scoring summary using format, writing to the configured
// output file or stdout.
func (o *Outputter) Format(summary *cli.ScoreSummary, format string) (err error) {
	if summary == nil {
		return errors.New("no scoring summary to format")
	}

	// Set start time if not set
	if summary.StartTime.IsZero() {
		summary.StartTime = time.Now()
	}

	// Set project root in summary for display
	if summary.ProjectRoot == "" {
		summary.ProjectRoot = o.config.Root
	}

	out := o.stdout
	if o.config.Output != "" {
		file, err := os.Create(o.config.Output)
		if err != nil {
			return fmt.Errorf("error creating output file %s: %w", o.config.Output, err)
		}
		defer func() {
			if cerr := file.Close(); cerr != nil && err == nil {
				err = fmt.Errorf("error writing to file %s: %w", o.config.Output, cerr)
			}
		}()
		out = file
	}

	formatter, err := o.factory.CreateFormatter(format, out)
	if err != nil {
		return err
	}
	return formatter.Format(summary)
}
