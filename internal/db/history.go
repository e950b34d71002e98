package db

import (
	"database/sql"
	"fmt"
	"time"
)

const timeLayout = "2006-01-02 15:04:05"

// Run is one scenario file execution as stored in history.
type Run struct {
	ID         string
	FilePath   string
	Host       string
	Status     string
	Error      string
	StartedAt  time.Time
	FinishedAt time.Time
	Pages      []PageResult
}

type PageResult struct {
	Index    int
	Name     string
	Action   string
	Status   string
	Error    string
	Warnings []Warning
}

type Warning struct {
	Field   string
	Message string
}

// RecordRun stores run with its pages and warnings in one transaction,
// registering the file on first sight.
func RecordRun(sqlDB *sql.DB, run Run) error {
	tx, err := sqlDB.Begin()
	if err != nil {
		return fmt.Errorf("beginning run insert: %w", err)
	}
	defer tx.Rollback()

	fileID, err := ensureFile(tx, run.FilePath)
	if err != nil {
		return err
	}

	_, err = tx.Exec(`INSERT INTO runs (id, file_id, host, status, error, started_at, finished_at) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		run.ID, fileID, run.Host, run.Status, run.Error,
		run.StartedAt.UTC().Format(timeLayout), run.FinishedAt.UTC().Format(timeLayout))
	if err != nil {
		return fmt.Errorf("inserting run %s: %w", run.ID, err)
	}

	for _, p := range run.Pages {
		res, err := tx.Exec(`INSERT INTO page_results (run_id, page_index, name, action, status, error) VALUES (?, ?, ?, ?, ?, ?)`,
			run.ID, p.Index, p.Name, p.Action, p.Status, p.Error)
		if err != nil {
			return fmt.Errorf("inserting page %d of run %s: %w", p.Index, run.ID, err)
		}
		pageID, err := res.LastInsertId()
		if err != nil {
			return fmt.Errorf("reading page id: %w", err)
		}
		for _, w := range p.Warnings {
			_, err := tx.Exec(`INSERT INTO warnings (page_result_id, field, message) VALUES (?, ?, ?)`, pageID, w.Field, w.Message)
			if err != nil {
				return fmt.Errorf("inserting warning: %w", err)
			}
		}
	}

	return tx.Commit()
}

func ensureFile(tx *sql.Tx, path string) (int64, error) {
	var id int64
	err := tx.QueryRow(`SELECT id FROM files WHERE file_path = ?`, path).Scan(&id)
	if err == sql.ErrNoRows {
		res, err := tx.Exec(`INSERT INTO files (file_path) VALUES (?)`, path)
		if err != nil {
			return 0, fmt.Errorf("inserting %s: %w", path, err)
		}
		return res.LastInsertId()
	} else if err != nil {
		return 0, fmt.Errorf("querying %s: %w", path, err)
	}

	if _, err := tx.Exec(`UPDATE files SET updated_at = datetime('now') WHERE id = ?`, id); err != nil {
		return 0, fmt.Errorf("touching %s: %w", path, err)
	}
	return id, nil
}

// GetRun loads a run with its pages and warnings. A run ID may be given as
// any unique prefix.
func GetRun(sqlDB *sql.DB, idPrefix string) (*Run, error) {
	rows, err := sqlDB.Query(`
		SELECT r.id, f.file_path, r.host, r.status, r.error, r.started_at, r.finished_at
		FROM runs r
		JOIN files f ON r.file_id = f.id
		WHERE r.id LIKE ? || '%'
		LIMIT 2
	`, idPrefix)
	if err != nil {
		return nil, fmt.Errorf("querying run %s: %w", idPrefix, err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		var started, finished string
		if err := rows.Scan(&r.ID, &r.FilePath, &r.Host, &r.Status, &r.Error, &started, &finished); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		r.StartedAt = parseTime(started)
		r.FinishedAt = parseTime(finished)
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating runs: %w", err)
	}

	switch len(runs) {
	case 0:
		return nil, fmt.Errorf("run %s not found", idPrefix)
	case 2:
		return nil, fmt.Errorf("run id %s is ambiguous", idPrefix)
	}

	run := &runs[0]
	pages, err := pageResults(sqlDB, run.ID)
	if err != nil {
		return nil, err
	}
	run.Pages = pages
	return run, nil
}

func pageResults(sqlDB *sql.DB, runID string) ([]PageResult, error) {
	rows, err := sqlDB.Query(`
		SELECT p.page_index, p.name, p.action, p.status, p.error, w.field, w.message
		FROM page_results p
		LEFT JOIN warnings w ON w.page_result_id = p.id
		WHERE p.run_id = ?
		ORDER BY p.page_index, w.id
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("querying pages of run %s: %w", runID, err)
	}
	defer rows.Close()

	var pages []PageResult
	for rows.Next() {
		var p PageResult
		var field, message sql.NullString
		if err := rows.Scan(&p.Index, &p.Name, &p.Action, &p.Status, &p.Error, &field, &message); err != nil {
			return nil, fmt.Errorf("scanning page: %w", err)
		}
		if n := len(pages); n == 0 || pages[n-1].Index != p.Index {
			pages = append(pages, p)
		}
		if message.Valid {
			last := &pages[len(pages)-1]
			last.Warnings = append(last.Warnings, Warning{Field: field.String, Message: message.String})
		}
	}
	return pages, rows.Err()
}

// LatestRuns returns the most recent run of every file, ordered by path.
func LatestRuns(sqlDB *sql.DB) ([]Run, error) {
	rows, err := sqlDB.Query(`
		SELECT r.id, f.file_path, r.host, r.status, r.error, r.started_at, r.finished_at
		FROM files f
		JOIN runs r ON r.id = (
			SELECT id FROM runs WHERE file_id = f.id ORDER BY started_at DESC, rowid DESC LIMIT 1
		)
		ORDER BY f.file_path
	`)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		var started, finished string
		if err := rows.Scan(&r.ID, &r.FilePath, &r.Host, &r.Status, &r.Error, &started, &finished); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		r.StartedAt = parseTime(started)
		r.FinishedAt = parseTime(finished)
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

func parseTime(s string) time.Time {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
