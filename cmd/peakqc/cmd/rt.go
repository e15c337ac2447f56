package cmd

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ChrisMcGann/peakqc/pkg/rtdb"
	"github.com/ChrisMcGann/peakqc/pkg/rtsync"
)

var rtCmd = &cobra.Command{
	Use:   "rt",
	Short: "Maintain the expected retention-time table",
}

var rtListCmd = &cobra.Command{
	Use:   "list",
	Short: "List every compound and its retention time",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(func(store *rtdb.SQLiteStore) error {
			rts, err := store.FetchRetentionTimes(cmd.Context())
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "Name\tRT")
			for _, r := range rts {
				fmt.Fprintf(tw, "%s\t%.2f\n", r.Name, r.RT)
			}
			return tw.Flush()
		})
	},
}

var rtSetCmd = &cobra.Command{
	Use:   "set <name> <rt>",
	Short: "Update the retention time of a known compound",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := parseRT(args[1])
		if err != nil {
			return err
		}
		return withStore(func(store *rtdb.SQLiteStore) error {
			err := store.UpdateRetentionTime(cmd.Context(), args[0], rt)
			if errors.Is(err, rtdb.ErrNotFound) {
				return fmt.Errorf("%w (use 'rt add' for new compounds)", err)
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s RT updated to %.2f\n", args[0], rt)
			return nil
		})
	},
}

var rtAddCmd = &cobra.Command{
	Use:   "add <name> <rt>",
	Short: "Add a compound to the retention-time table",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := parseRT(args[1])
		if err != nil {
			return err
		}
		return withStore(func(store *rtdb.SQLiteStore) error {
			if err := store.Add(cmd.Context(), args[0], rt); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added %s at %.2f\n", args[0], rt)
			return nil
		})
	},
}

var rtSyncCmd = &cobra.Command{
	Use:   "sync <standards.csv>",
	Short: "Update retention times from a standards export",
	Long: `Average the non-zero retention times of every standard in a CSV export
(name column 'row identity (main ID)') and write them to the known compounds.
Compounds missing from either side are listed.`,
	Args: cobra.ExactArgs(1),
	RunE: runRTSync,
}

func init() {
	rootCmd.AddCommand(rtCmd)
	rtCmd.AddCommand(rtListCmd, rtSetCmd, rtAddCmd, rtSyncCmd)
}

func runRTSync(cmd *cobra.Command, args []string) error {
	// Read standards export
	f, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("failed to open standards file: %w", err)
	}
	defer f.Close()

	r, err := rtsync.NewReader(f, cfg.RT.StandardsEncoding)
	if err != nil {
		return err
	}
	standards, err := rtsync.ReadAll(r)
	if err != nil {
		return err
	}
	logger.Info("read standards", "file", args[0], "standards", len(standards))

	// Write averaged RTs to known compounds
	return withStore(func(store *rtdb.SQLiteStore) error {
		summary, err := rtsync.Sync(cmd.Context(), store, standards, cmd.OutOrStdout())
		if err != nil {
			return err
		}
		logger.Info("retention times synced", "updated", len(summary.Updated),
			"not_found", len(summary.NotFound), "missing", len(summary.Missing))
		return nil
	})
}

func withStore(fn func(*rtdb.SQLiteStore) error) error {
	store, err := rtdb.NewSQLiteStore(cfg.RT.DBPath)
	if err != nil {
		return err
	}
	defer store.Close()
	logger.Debug("opened retention-time database", "path", store.Path())
	return fn(store)
}

func parseRT(s string) (float64, error) {
	rt, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid retention time '%s': %w", s, err)
	}
	if rt < 0 {
		return 0, fmt.Errorf("retention time must not be negative, got %s", s)
	}
	return rt, nil
}
