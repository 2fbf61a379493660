package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dotcommander/atscore/internal/outputters"
)

var summaryTop int

var summaryCmd = &cobra.Command{
	Use:   "summary [files...]",
	Short: "Aggregate scores across resumes",
	Long: `Score resumes and print an aggregate report: file counts, the average
score, the rating distribution, the most frequent recommendations and the
lowest-scoring resumes.

EXAMPLES:

  atscore summary
  atscore summary --top 10 -f markdown -o SUMMARY.md`,
	Args: cobra.ArbitraryArgs,
	Run: func(cmd *cobra.Command, args []string) {
		if err := runSummary(cmd, args); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
			exitFunc(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(summaryCmd)
	summaryCmd.Flags().IntVar(&summaryTop, "top", 5, "Number of recommendations and resumes to list")
}

func runSummary(cmd *cobra.Command, args []string) error {
	run, err := executeRun(cmd.Context(), args)
	if err != nil {
		return err
	}
	defer func() { _ = run.log.Sync() }()

	if run.cfg.Quiet {
		return nil
	}

	outputter := outputters.NewOutputterWithFactory(run.cfg, outputters.NewStatsFormatterFactory(summaryTop, Version))
	outputter.SetStdout(cmd.OutOrStdout())
	if err := outputter.Format(run.summary, run.cfg.Format); err != nil {
		return fmt.Errorf("error formatting output: %w", err)
	}
	return nil
}
