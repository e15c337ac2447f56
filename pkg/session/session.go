// Package session wires the stored history, the class lookup and the current
// upload into one evaluation pipeline. A Session is not safe for concurrent
// use; operations are meant to run one after another.
package session

import (
	"fmt"
	"log/slog"

	"github.com/ChrisMcGann/peakqc/pkg/classify"
	"github.com/ChrisMcGann/peakqc/pkg/config"
	"github.com/ChrisMcGann/peakqc/pkg/core"
	"github.com/ChrisMcGann/peakqc/pkg/history"
	"github.com/ChrisMcGann/peakqc/pkg/reader"
	"github.com/ChrisMcGann/peakqc/pkg/reader/xlsx"
	"github.com/ChrisMcGann/peakqc/pkg/report"
	"github.com/ChrisMcGann/peakqc/pkg/score"
)

// CurrentLabel labels the uploaded run in history drill-downs.
const CurrentLabel = "New"

// Session holds everything one operator session works on.
type Session struct {
	Config  config.Config
	Corpus  *core.Corpus
	Lookup  *classify.Lookup
	Current *core.Run
	Logger  *slog.Logger

	composer *score.Composer
}

// Open loads the stored runs and, when configured, the class/ion lookup.
// A lookup that cannot be read is logged and treated as empty.
func Open(cfg config.Config, logger *slog.Logger) (*Session, error) {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Session{
		Config:   cfg,
		Logger:   logger,
		composer: score.NewComposer(cfg.Scoring.Weights),
	}

	// Load stored runs
	if _, err := s.Reload(); err != nil {
		return nil, err
	}

	// Load class lookup
	if cfg.ClassLookup != "" {
		lookup, err := reader.ReadLookupFile(cfg.ClassLookup)
		if err != nil {
			logger.Warn("class lookup unavailable, every compound is N/A", "file", cfg.ClassLookup, "err", err)
		} else {
			s.Lookup = lookup
			logger.Info("loaded class lookup", "file", cfg.ClassLookup, "compounds", lookup.Len())
		}
	}
	return s, nil
}

func (s *Session) reference() string {
	return core.CleanName(s.Config.Reference)
}

// Reload replaces the corpus with a fresh LoadAll of the runs directory.
func (s *Session) Reload() (history.LoadSummary, error) {
	corpus, summary, err := history.NewLoader(s.reference(), s.Logger).LoadAll(s.Config.RunsDir)
	if err != nil {
		return summary, err
	}
	s.Corpus = corpus
	return summary, nil
}

// Upload reads a run to score. Workbooks must carry the PoolAfterDF sheet.
// Date and column id are taken from the file name when it follows the stored
// naming; otherwise they stay empty until Persist supplies them. A run
// without the reference compound is rejected and Current is left unchanged.
func (s *Session) Upload(path string) (*core.Run, error) {
	format, err := reader.DetectFormat(path)
	if err != nil {
		return nil, err
	}
	sheet := ""
	if format == reader.FormatXLSX {
		sheet = xlsx.RunSheet
	}
	table, err := reader.ReadRunFile(path, sheet)
	if err != nil {
		return nil, fmt.Errorf("reading run %s: %w", path, err)
	}

	date, columnID, nameErr := core.ParseRunFilename(path)
	if nameErr != nil {
		s.Logger.Debug("run file name carries no date or column id", "file", path)
	}

	run, err := core.NewRun(date, columnID, table, s.reference())
	if err != nil {
		return nil, fmt.Errorf("cannot normalize %s: %w", path, err)
	}
	run.Source = path

	s.Current = run
	s.Logger.Info("uploaded run", "file", path, "compounds", len(table.Rows), "replicates", len(table.Columns))
	return run, nil
}

// Evaluate runs one full pass over the current run: baselines, run
// statistics, scores and tags.
func (s *Session) Evaluate(sortBy report.SortBy) (*report.Report, error) {
	if s.Current == nil {
		return nil, fmt.Errorf("no run uploaded")
	}
	if s.Corpus.Len() == 0 {
		s.Logger.Warn("no stored runs, every score is N/A", "dir", s.Config.RunsDir)
	}

	scores := s.composer.ScoreRun(s.Current, s.Corpus, s.reference())
	return report.Build(report.Input{
		Run:         s.Current,
		HistoryRuns: s.Corpus.Len(),
		Scores:      scores,
		Lookup:      s.Lookup,
		Thresholds:  s.Config.Scoring.Thresholds,
		SortBy:      sortBy,
	})
}

// Persist saves the current run into the runs directory. Non-empty date and
// columnID override the values taken from the upload's file name; the
// current run only takes them once the save succeeds. The corpus is
// unchanged until the next Reload.
func (s *Session) Persist(date, columnID string, overwrite bool) (string, error) {
	if s.Current == nil {
		return "", fmt.Errorf("no run uploaded")
	}
	run := *s.Current
	if date != "" {
		run.Date = date
	}
	if columnID != "" {
		run.ColumnID = columnID
	}
	path, err := history.Save(s.Config.RunsDir, &run, overwrite)
	if err != nil {
		return "", err
	}
	s.Current.Date, s.Current.ColumnID = run.Date, run.ColumnID
	s.Logger.Info("saved run", "file", path)
	return path, nil
}

// History returns the compound's replicates across the stored runs and, when
// a run is uploaded, a final series labelled CurrentLabel.
func (s *Session) History(compound string, v core.Variant) []core.Series {
	compound = core.CleanName(compound)
	series := s.Corpus.Series(compound, v)
	if s.Current == nil {
		return series
	}
	table := s.Current.Table(v)
	if table == nil {
		return series
	}
	if row, ok := table.Row(compound); ok {
		series = append(series, core.Series{
			Label:    CurrentLabel,
			Date:     s.Current.Date,
			ColumnID: s.Current.ColumnID,
			Values:   row.Replicates(),
		})
	}
	return series
}
