package db

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Run is one recorded compression run.
type Run struct {
	RunID             string    `yaml:"run_id"`
	InputPath         string    `yaml:"input"`
	OutputPath        string    `yaml:"output"`
	CreatedAt         time.Time `yaml:"created_at"`
	MaxMappings       int       `yaml:"max_mappings"`
	Scanner           string    `yaml:"scanner"`
	OriginalSize      int       `yaml:"original_size"`
	CompressedSize    int       `yaml:"compressed_size"`
	PackageSize       int       `yaml:"package_size"`
	MappingSize       int       `yaml:"mapping_size"`
	SavingsPercent    float64   `yaml:"savings_percent"`
	NetSavingsPercent float64   `yaml:"net_savings_percent"`
	MappingList       string    `yaml:"mapping_list"`
	HazardCount       int       `yaml:"hazard_count"`
	Title             string    `yaml:"title,omitempty"`
}

// RunTag is one row of a run's frequency table.
type RunTag struct {
	Tag     string `yaml:"tag"`
	Count   int    `yaml:"count"`
	Savings int    `yaml:"savings"`
	Code    string `yaml:"code,omitempty"`
}

// ErrRunNotFound is returned by GetRun for unknown IDs.
var ErrRunNotFound = errors.New("run not found")

// InsertRun stores a run and its tags in one transaction. A missing RunID is
// generated; the ID used is returned.
func (db *DB) InsertRun(run Run, tags []RunTag) (string, error) {
	if run.RunID == "" {
		run.RunID = uuid.NewString()
	}

	tx, err := db.Begin()
	if err != nil {
		return "", fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }() // no-op after commit

	_, err = tx.Exec(`
		INSERT INTO runs (
			run_id, input_path, output_path, max_mappings, scanner,
			original_size, compressed_size, package_size, mapping_size,
			savings_percent, net_savings_percent, mapping_list, hazard_count, title
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, run.RunID, run.InputPath, run.OutputPath, run.MaxMappings, run.Scanner,
		run.OriginalSize, run.CompressedSize, run.PackageSize, run.MappingSize,
		run.SavingsPercent, run.NetSavingsPercent, run.MappingList, run.HazardCount, run.Title)
	if err != nil {
		return "", fmt.Errorf("failed to insert run: %w", err)
	}

	for _, t := range tags {
		_, err = tx.Exec(`
			INSERT INTO run_tags (run_id, tag, count, savings, code)
			VALUES (?, ?, ?, ?, ?)
		`, run.RunID, t.Tag, t.Count, t.Savings, t.Code)
		if err != nil {
			return "", fmt.Errorf("failed to insert run tag %q: %w", t.Tag, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("failed to commit run: %w", err)
	}
	return run.RunID, nil
}

const runColumns = `run_id, input_path, output_path, created_at, max_mappings, scanner,
	original_size, compressed_size, package_size, mapping_size,
	savings_percent, net_savings_percent, mapping_list, hazard_count, COALESCE(title, '')`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (Run, error) {
	var r Run
	err := row.Scan(&r.RunID, &r.InputPath, &r.OutputPath, &r.CreatedAt, &r.MaxMappings, &r.Scanner,
		&r.OriginalSize, &r.CompressedSize, &r.PackageSize, &r.MappingSize,
		&r.SavingsPercent, &r.NetSavingsPercent, &r.MappingList, &r.HazardCount, &r.Title)
	return r, err
}

// ListRuns returns the most recent runs first. A non-empty input restricts
// the list to runs of that input path; limit <= 0 means no limit.
func (db *DB) ListRuns(input string, limit int) ([]Run, error) {
	query := "SELECT " + runColumns + " FROM runs"
	var args []any
	if input != "" {
		query += " WHERE input_path = ?"
		args = append(args, input)
	}
	query += " ORDER BY created_at DESC, rowid DESC"
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// GetRun returns a run and its tags in savings order.
func (db *DB) GetRun(runID string) (*Run, []RunTag, error) {
	r, err := scanRun(db.QueryRow("SELECT "+runColumns+" FROM runs WHERE run_id = ?", runID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get run: %w", err)
	}

	rows, err := db.Query(`
		SELECT tag, count, savings, COALESCE(code, '')
		FROM run_tags WHERE run_id = ?
		ORDER BY savings DESC, rowid ASC
	`, runID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query run tags: %w", err)
	}
	defer rows.Close()

	var tags []RunTag
	for rows.Next() {
		var t RunTag
		if err := rows.Scan(&t.Tag, &t.Count, &t.Savings, &t.Code); err != nil {
			return nil, nil, fmt.Errorf("failed to scan run tag: %w", err)
		}
		tags = append(tags, t)
	}
	return &r, tags, rows.Err()
}

// DeleteRunsBefore removes runs older than cutoff and returns how many were deleted.
func (db *DB) DeleteRunsBefore(cutoff time.Time) (int64, error) {
	res, err := db.Exec("DELETE FROM runs WHERE created_at < ?", cutoff.UTC().Format("2006-01-02 15:04:05"))
	if err != nil {
		return 0, fmt.Errorf("failed to delete runs: %w", err)
	}
	return res.RowsAffected()
}
