package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ChrisMcGann/peakqc/pkg/report"
	"github.com/ChrisMcGann/peakqc/pkg/session"
)

var (
	sortBy       string
	outputFormat string
	saveRun      bool
	runDate      string
	runColumnID  string
	overwrite    bool
)

var scoreCmd = &cobra.Command{
	Use:   "score <run>",
	Short: "Score a new standards run against the stored history",
	Long: `Score a processed standards export (.xlsx with a PoolAfterDF sheet, or .csv)
against every stored run and print the QC table with class and ion summaries.

Examples:
  # Score a run and sort by compound class
  peakqc score 20240301_col_id_7_export.xlsx --sort class

  # Export the scores as yaml and store the run for later baselines
  peakqc score run.xlsx --format yaml --save --date 20240301 --col-id 7`,
	Args: cobra.ExactArgs(1),
	RunE: runScore,
}

var saveCmd = &cobra.Command{
	Use:   "save <run>",
	Short: "Store a run in the history without scoring it",
	Long: `Store a processed standards export in the runs directory as
{date}_col_id_{col}_hek_area_edited.xlsx. Date and column id default to the
values in the file name.`,
	Args: cobra.ExactArgs(1),
	RunE: runSave,
}

func init() {
	rootCmd.AddCommand(scoreCmd)
	rootCmd.AddCommand(saveCmd)

	scoreCmd.Flags().StringVar(&sortBy, "sort", "", "Sort rows by 'class' or 'ion'")
	scoreCmd.Flags().StringVarP(&outputFormat, "format", "o", "text", "Output format: text, yaml, json")
	scoreCmd.Flags().BoolVar(&saveRun, "save", false, "Store the run in the history after scoring")

	for _, c := range []*cobra.Command{scoreCmd, saveCmd} {
		c.Flags().StringVar(&runDate, "date", "", "Date label for the stored run")
		c.Flags().StringVar(&runColumnID, "col-id", "", "Column id for the stored run")
		c.Flags().BoolVar(&overwrite, "overwrite", false, "Replace an existing stored run")
	}
}

func runScore(cmd *cobra.Command, args []string) error {
	by, err := report.ParseSortBy(sortBy)
	if err != nil {
		return err
	}

	// Load stored runs and the new upload
	s, err := session.Open(cfg, logger)
	if err != nil {
		return err
	}
	if _, err := s.Upload(args[0]); err != nil {
		return err
	}

	// Score and print
	rep, err := s.Evaluate(by)
	if err != nil {
		return err
	}
	if err := rep.Encode(cmd.OutOrStdout(), outputFormat); err != nil {
		return err
	}

	// Store for later baselines
	if saveRun {
		return persist(cmd, s)
	}
	return nil
}

func runSave(cmd *cobra.Command, args []string) error {
	s, err := session.Open(cfg, logger)
	if err != nil {
		return err
	}
	if _, err := s.Upload(args[0]); err != nil {
		return err
	}
	return persist(cmd, s)
}

func persist(cmd *cobra.Command, s *session.Session) error {
	path, err := s.Persist(runDate, runColumnID, overwrite)
	if err != nil {
		return fmt.Errorf("failed to save run: %w", err)
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "Saved %s\n", path)
	return nil
}
