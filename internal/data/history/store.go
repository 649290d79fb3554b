// Package history persists per-scan statistics to a local SQLite database
// so an operator can inspect what a long-lived scanning service has been
// doing. The dependency graph itself is never persisted here.
package history

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

const driverName = "sqlite"

// Record summarizes one completed scan (or one batch entry).
type Record struct {
	ScanID           string
	JobID            string
	RootModule       string
	Timestamp        time.Time
	Duration         time.Duration
	ModuleCount      int
	EdgeCount        int
	PlaceholderCount int
	CachedModules    int
	Success          bool
	ErrorCode        string
}

type Store struct {
	path string
	db   *sql.DB
	mu   sync.Mutex
}

func Open(path string) (*Store, error) {
	cleanPath := strings.TrimSpace(path)
	if cleanPath == "" {
		return nil, fmt.Errorf("history path must not be empty")
	}
	if info, err := os.Stat(cleanPath); err == nil && info.IsDir() {
		return nil, fmt.Errorf("history path %q is a directory, expected file", cleanPath)
	}

	dir := filepath.Dir(cleanPath)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create history directory %q: %w", dir, err)
		}
	}

	// busy_timeout + WAL reduce lock conflicts when several worker
	// processes share one history file.
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(2000)&_pragma=journal_mode(WAL)", cleanPath)
	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("open scan history %q: %w", cleanPath, err)
	}
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping scan history %q: %w", cleanPath, err)
	}
	if err := EnsureSchema(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initialize scan history schema %q: %w", cleanPath, err)
	}

	return &Store{path: cleanPath, db: db}, nil
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) Save(rec Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if rec.ScanID == "" {
		return fmt.Errorf("scan record needs a scan id")
	}
	if rec.Timestamp.IsZero() {
		rec.Timestamp = time.Now().UTC()
	}

	success := 0
	if rec.Success {
		success = 1
	}

	_, err := s.db.Exec(`
INSERT INTO scans (scan_id, job_id, root_module, ts_utc, duration_ms, module_count,
  edge_count, placeholder_count, cached_modules, success, error_code)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ScanID,
		rec.JobID,
		rec.RootModule,
		rec.Timestamp.UTC().Format(time.RFC3339Nano),
		rec.Duration.Milliseconds(),
		rec.ModuleCount,
		rec.EdgeCount,
		rec.PlaceholderCount,
		rec.CachedModules,
		success,
		rec.ErrorCode,
	)
	if err != nil {
		return fmt.Errorf("save scan record %q: %w", rec.ScanID, err)
	}
	return nil
}

// Recent returns the newest records, most recent first.
func (s *Store) Recent(limit int) ([]Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(`
SELECT scan_id, job_id, root_module, ts_utc, duration_ms, module_count,
  edge_count, placeholder_count, cached_modules, success, error_code
FROM scans ORDER BY ts_utc DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query scan history: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var rec Record
		var ts string
		var durationMs int64
		var success int
		if err := rows.Scan(&rec.ScanID, &rec.JobID, &rec.RootModule, &ts, &durationMs,
			&rec.ModuleCount, &rec.EdgeCount, &rec.PlaceholderCount, &rec.CachedModules,
			&success, &rec.ErrorCode); err != nil {
			return nil, err
		}
		rec.Timestamp, _ = time.Parse(time.RFC3339Nano, ts)
		rec.Duration = time.Duration(durationMs) * time.Millisecond
		rec.Success = success == 1
		records = append(records, rec)
	}
	return records, rows.Err()
}
