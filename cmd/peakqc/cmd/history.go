package cmd

import (
	"github.com/spf13/cobra"

	"github.com/ChrisMcGann/peakqc/pkg/core"
	"github.com/ChrisMcGann/peakqc/pkg/report"
	"github.com/ChrisMcGann/peakqc/pkg/session"
)

var (
	historyNormalized bool
	historyRun        string
)

var historyCmd = &cobra.Command{
	Use:   "history <compound>",
	Short: "Show a compound's replicates across the stored runs",
	Long: `Show the replicate values of one compound in every stored run, in date order.
With --run the given export is appended as the "New" series.`,
	Args: cobra.ExactArgs(1),
	RunE: runHistory,
}

func init() {
	rootCmd.AddCommand(historyCmd)

	historyCmd.Flags().BoolVar(&historyNormalized, "normalized", false, "Show reference-normalized values")
	historyCmd.Flags().StringVar(&historyRun, "run", "", "Include a new run export")
	historyCmd.Flags().StringVarP(&outputFormat, "format", "o", "text", "Output format: text, yaml, json")
}

func runHistory(cmd *cobra.Command, args []string) error {
	s, err := session.Open(cfg, logger)
	if err != nil {
		return err
	}
	if historyRun != "" {
		if _, err := s.Upload(historyRun); err != nil {
			return err
		}
	}

	variant := core.Raw
	if historyNormalized {
		variant = core.Normalized
	}
	compound := core.CleanName(args[0])
	h := report.NewHistory(compound, variant, s.History(compound, variant))
	return h.Encode(cmd.OutOrStdout(), outputFormat)
}
