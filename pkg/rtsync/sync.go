package rtsync

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/ChrisMcGann/peakqc/pkg/rtdb"
)

// Summary lists the outcome of a Sync pass.
type Summary struct {
	Updated  []string `json:"updated" yaml:"updated"`
	NotFound []string `json:"not_found" yaml:"not_found"` // in the standards file, not in the repository
	Missing  []string `json:"missing" yaml:"missing"`     // in the repository, not in the standards file
}

// Sync writes each standard's RT to repo. Only names already in repo are
// updated; progress lines go to w.
func Sync(ctx context.Context, repo rtdb.Repository, standards []Standard, w io.Writer) (Summary, error) {
	var summary Summary

	existing, err := repo.FetchRetentionTimes(ctx)
	if err != nil {
		return summary, err
	}
	known := make(map[string]bool, len(existing))
	for _, r := range existing {
		known[r.Name] = true
	}

	inFile := make(map[string]bool, len(standards))
	for _, std := range standards {
		inFile[std.Name] = true
		if !known[std.Name] {
			fmt.Fprintf(w, "Could not update %s.\n", std.Name)
			summary.NotFound = append(summary.NotFound, std.Name)
			continue
		}
		err := repo.UpdateRetentionTime(ctx, std.Name, std.RT)
		if errors.Is(err, rtdb.ErrNotFound) {
			fmt.Fprintf(w, "Could not update %s.\n", std.Name)
			summary.NotFound = append(summary.NotFound, std.Name)
			continue
		}
		if err != nil {
			return summary, err
		}
		fmt.Fprintf(w, "Updated %s to %.2f.\n", std.Name, std.RT)
		summary.Updated = append(summary.Updated, std.Name)
	}

	for _, r := range existing {
		if !inFile[r.Name] {
			summary.Missing = append(summary.Missing, r.Name)
		}
	}
	fmt.Fprintf(w, "Missing metabolites: [%s]\n", strings.Join(summary.Missing, ", "))
	return summary, nil
}
