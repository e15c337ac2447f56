// Package rtdb provides the expected retention-time repository backed by
// SQLite.
package rtdb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

// ErrNotFound is returned when a compound has no retention-time record.
var ErrNotFound = errors.New("compound not in retention-time table")

// RetentionTime is the expected retention time, in minutes, of a standard.
type RetentionTime struct {
	Name string  `json:"name" yaml:"name"`
	RT   float64 `json:"rt" yaml:"rt"`
}

// Repository is the retention-time store used by sync and the CLI.
type Repository interface {
	FetchRetentionTimes(ctx context.Context) ([]RetentionTime, error)
	UpdateRetentionTime(ctx context.Context, name string, rt float64) error
}

// SQLiteStore keeps retention times in a SQLite database file.
type SQLiteStore struct {
	db         *sql.DB
	path       string
	insertStmt *sql.Stmt
	updateStmt *sql.Stmt
}

var _ Repository = (*SQLiteStore)(nil)

// NewSQLiteStore opens or creates the database at path.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	s := &SQLiteStore{db: db, path: path}

	if err := s.createTables(); err != nil {
		db.Close()
		return nil, err
	}

	if err := s.prepareStatements(); err != nil {
		db.Close()
		return nil, err
	}

	return s, nil
}

func (s *SQLiteStore) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS RetentionTimeTable (
		name TEXT PRIMARY KEY,
		rt DOUBLE NOT NULL
	);
	`
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create tables: %w", err)
	}
	return nil
}

func (s *SQLiteStore) prepareStatements() error {
	var err error

	s.insertStmt, err = s.db.Prepare(`INSERT INTO RetentionTimeTable (name, rt) VALUES (?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert statement: %w", err)
	}

	s.updateStmt, err = s.db.Prepare(`UPDATE RetentionTimeTable SET rt = ? WHERE name = ?`)
	if err != nil {
		return fmt.Errorf("failed to prepare update statement: %w", err)
	}

	return nil
}

// FetchRetentionTimes returns every record ordered by name.
func (s *SQLiteStore) FetchRetentionTimes(ctx context.Context) ([]RetentionTime, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT name, rt FROM RetentionTimeTable ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to query retention times: %w", err)
	}
	defer rows.Close()

	var out []RetentionTime
	for rows.Next() {
		var r RetentionTime
		if err := rows.Scan(&r.Name, &r.RT); err != nil {
			return nil, fmt.Errorf("failed to scan retention time: %w", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read retention times: %w", err)
	}
	return out, nil
}

// UpdateRetentionTime sets the RT of an existing compound. Unknown names
// return ErrNotFound and are not inserted.
func (s *SQLiteStore) UpdateRetentionTime(ctx context.Context, name string, rt float64) error {
	res, err := s.updateStmt.ExecContext(ctx, rt, name)
	if err != nil {
		return fmt.Errorf("failed to update %s: %w", name, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to update %s: %w", name, err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return nil
}

// Add inserts a new compound.
func (s *SQLiteStore) Add(ctx context.Context, name string, rt float64) error {
	if name == "" {
		return fmt.Errorf("compound name is required")
	}
	if _, err := s.insertStmt.ExecContext(ctx, name, rt); err != nil {
		return fmt.Errorf("failed to insert %s: %w", name, err)
	}
	return nil
}

// Path returns the database file path.
func (s *SQLiteStore) Path() string {
	return s.path
}

// Close releases the prepared statements and the database.
func (s *SQLiteStore) Close() error {
	if s.insertStmt != nil {
		s.insertStmt.Close()
	}
	if s.updateStmt != nil {
		s.updateStmt.Close()
	}
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}
	return nil
}
