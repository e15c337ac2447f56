// Package history loads and saves the stored standard runs that form the
// scoring baseline.
package history

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ChrisMcGann/peakqc/pkg/core"
	"github.com/ChrisMcGann/peakqc/pkg/reader"
	"github.com/ChrisMcGann/peakqc/pkg/writer/xlsx"
)

// ErrExists is returned by Save when the target file already exists.
var ErrExists = errors.New("stored run already exists")

// LoadSummary holds counts from a LoadAll pass.
type LoadSummary struct {
	Loaded      int
	Skipped     int
	NoReference int // Loaded without a normalized variant
	Replaced    int // Date labels seen more than once
}

// Loader reads stored runs from a directory.
type Loader struct {
	Reference string
	Logger    *slog.Logger
}

// NewLoader creates a loader for the given reference compound.
func NewLoader(reference string, logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{Reference: reference, Logger: logger}
}

// LoadAll reads every .xlsx and .csv run in dir. Files that cannot be read,
// parsed or named are logged and skipped; a run lacking the reference
// compound keeps its raw variant only. A missing directory yields an empty
// corpus. Only a directory that exists but cannot be listed is an error.
func (l *Loader) LoadAll(dir string) (*core.Corpus, LoadSummary, error) {
	corpus := core.NewCorpus()
	var summary LoadSummary

	entries, err := os.ReadDir(dir)
	if errors.Is(err, fs.ErrNotExist) {
		l.Logger.Warn("stored runs directory not found", "dir", dir)
		return corpus, summary, nil
	}
	if err != nil {
		return corpus, summary, fmt.Errorf("reading stored runs directory %s: %w", dir, err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if _, err := reader.DetectFormat(e.Name()); err != nil {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)

	for _, name := range names {
		path := filepath.Join(dir, name)
		run, err := l.loadFile(path)
		if run == nil {
			l.Logger.Warn("skipping stored run", "file", name, "err", err)
			summary.Skipped++
			continue
		}
		if err != nil {
			l.Logger.Warn("stored run has no normalized variant", "file", name, "err", err)
			summary.NoReference++
		}
		if corpus.Add(run) {
			l.Logger.Warn("duplicate date label, keeping later file", "date", run.Date, "file", name)
			summary.Replaced++
		} else {
			summary.Loaded++
		}
	}

	l.Logger.Info("loaded stored runs", "dir", dir, "runs", corpus.Len(), "skipped", summary.Skipped)
	return corpus, summary, nil
}

// loadFile returns a nil run when the file is unusable, or a run together
// with ErrReferenceMissing when only normalization failed.
func (l *Loader) loadFile(path string) (*core.Run, error) {
	date, columnID, err := core.ParseRunFilename(path)
	if err != nil {
		return nil, err
	}
	table, err := reader.ReadRunFile(path, "")
	if err != nil {
		return nil, err
	}
	run, err := core.NewRun(date, columnID, table, l.Reference)
	run.Source = path
	return run, err
}

// ValidateIdentity checks that a date label and column id survive the
// stored file name: both are required, and neither may contain the '_'
// token separator or a path separator.
func ValidateIdentity(date, columnID string) error {
	var errs []string
	for _, f := range []struct{ name, value string }{
		{"date", date},
		{"column id", columnID},
	} {
		switch {
		case f.value == "":
			errs = append(errs, f.name+" is required")
		case strings.Contains(f.value, "_"):
			errs = append(errs, fmt.Sprintf("%s '%s' must not contain '_'", f.name, f.value))
		case filepath.Base(f.value) != f.value || strings.ContainsAny(f.value, `/\`):
			errs = append(errs, fmt.Sprintf("%s '%s' must not contain a path separator", f.name, f.value))
		}
	}
	if len(errs) > 0 {
		return &core.ValidationError{Field: "Run", Message: strings.Join(errs, "; ")}
	}
	return nil
}

// Save writes the run's raw table to dir under its stored file name and
// returns the path. An existing file is replaced only when overwrite is set.
// The in-memory corpus is not touched; the run joins the baseline on the
// next LoadAll.
func Save(dir string, run *core.Run, overwrite bool) (string, error) {
	if run == nil || run.Raw == nil {
		return "", fmt.Errorf("no run to save")
	}
	if err := ValidateIdentity(run.Date, run.ColumnID); err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating stored runs directory: %w", err)
	}

	path := filepath.Join(dir, core.RunFilename(run.Date, run.ColumnID))
	flags := os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	if !overwrite {
		flags |= os.O_EXCL
	}
	f, err := os.OpenFile(path, flags, 0o644)
	if errors.Is(err, fs.ErrExist) {
		return "", fmt.Errorf("%w: %s", ErrExists, path)
	}
	if err != nil {
		return "", fmt.Errorf("creating %s: %w", path, err)
	}

	if err := xlsx.WriteRun(f, run.Raw); err != nil {
		f.Close()
		os.Remove(path)
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("closing %s: %w", path, err)
	}
	return path, nil
}
