// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Implements: prd005-result-cache R5 (persistent store).
package cache

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"github.com/hashicorp/go-hclog"
	_ "modernc.org/sqlite"

	"github.com/petar-djukic/go-codelens/internal/logging"
	"github.com/petar-djukic/go-codelens/pkg/types"
)

const schemaVersion = 1

const schema = `
CREATE TABLE IF NOT EXISTS schema_version (
    version INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS lenses (
    path       TEXT PRIMARY KEY,
    sum        TEXT NOT NULL,
    profile    TEXT NOT NULL,
    payload    TEXT NOT NULL,
    updated_at INTEGER NOT NULL
);
`

// SQLite is a ResultCache persisted in a SQLite database, so results
// survive between command invocations. Storage errors never fail a scan:
// a failed read is a miss and a failed write is logged and dropped.
type SQLite struct {
	db     *sql.DB
	logger hclog.Logger

	mu    sync.Mutex
	stats Stats
}

var _ types.ResultCache = (*SQLite)(nil)

// OpenSQLite opens or creates the cache database at dbPath.
func OpenSQLite(dbPath string, logger hclog.Logger) (*SQLite, error) {
	if logger == nil {
		logger = logging.Nop()
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("creating cache directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening cache database: %w", err)
	}
	// One connection serializes writers from parallel scans.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting WAL mode: %w", err)
	}
	if err := initSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("initializing schema: %w", err)
	}

	return &SQLite{db: db, logger: logger.Named("cache")}, nil
}

func initSchema(db *sql.DB) error {
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}

	var version int
	err := db.QueryRow("SELECT version FROM schema_version LIMIT 1").Scan(&version)
	if errors.Is(err, sql.ErrNoRows) {
		_, err = db.Exec("INSERT INTO schema_version (version) VALUES (?)", schemaVersion)
		if err != nil {
			return fmt.Errorf("setting schema version: %w", err)
		}
		return nil
	}
	if err != nil {
		return fmt.Errorf("reading schema version: %w", err)
	}

	if version < schemaVersion {
		// Cached results are derived data; older layouts are dropped.
		if _, err := db.Exec("DELETE FROM lenses"); err != nil {
			return fmt.Errorf("clearing stale cache: %w", err)
		}
		if _, err := db.Exec("UPDATE schema_version SET version = ?", schemaVersion); err != nil {
			return fmt.Errorf("updating schema version: %w", err)
		}
	}
	return nil
}

// Close closes the database.
func (s *SQLite) Close() error {
	return s.db.Close()
}

// Get returns the stored lenses for key when the stored hash and profile
// match.
func (s *SQLite) Get(key types.CacheKey) ([]types.Lens, bool) {
	var sum, profile, payload string
	err := s.db.QueryRow(
		"SELECT sum, profile, payload FROM lenses WHERE path = ?", key.Path,
	).Scan(&sum, &profile, &payload)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			s.logger.Warn("cache read failed", "path", key.Path, "error", err)
		}
		s.count(func(st *Stats) { st.Misses++ })
		return nil, false
	}

	if sum != formatSum(key.Sum) || profile != key.Profile {
		s.count(func(st *Stats) { st.Misses++ })
		return nil, false
	}

	var lenses []types.Lens
	if err := json.Unmarshal([]byte(payload), &lenses); err != nil {
		s.logger.Warn("cache entry corrupt", "path", key.Path, "error", err)
		s.count(func(st *Stats) { st.Misses++ })
		return nil, false
	}
	s.count(func(st *Stats) { st.Hits++ })
	return lenses, true
}

// Put stores lenses for key, replacing any previous entry for the path.
func (s *SQLite) Put(key types.CacheKey, lenses []types.Lens) {
	if lenses == nil {
		lenses = []types.Lens{}
	}
	payload, err := json.Marshal(lenses)
	if err != nil {
		s.logger.Warn("encoding cache entry", "path", key.Path, "error", err)
		return
	}
	_, err = s.db.Exec(`INSERT INTO lenses (path, sum, profile, payload, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(path) DO UPDATE SET
			sum = excluded.sum,
			profile = excluded.profile,
			payload = excluded.payload,
			updated_at = excluded.updated_at`,
		key.Path, formatSum(key.Sum), key.Profile, string(payload), time.Now().Unix())
	if err != nil {
		s.logger.Warn("cache write failed", "path", key.Path, "error", err)
	}
}

// Invalidate drops the entry for path.
func (s *SQLite) Invalidate(path string) {
	res, err := s.db.Exec("DELETE FROM lenses WHERE path = ?", path)
	if err != nil {
		s.logger.Warn("cache invalidate failed", "path", path, "error", err)
		return
	}
	if n, _ := res.RowsAffected(); n > 0 {
		s.count(func(st *Stats) { st.Invalidations++ })
	}
}

// Len returns the number of cached files.
func (s *SQLite) Len() (int, error) {
	var n int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM lenses").Scan(&n); err != nil {
		return 0, fmt.Errorf("counting cache entries: %w", err)
	}
	return n, nil
}

// Stats returns a snapshot of the counters for this process.
func (s *SQLite) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stats
}

func (s *SQLite) count(f func(*Stats)) {
	s.mu.Lock()
	f(&s.stats)
	s.mu.Unlock()
}

// formatSum encodes the hash as text; SQLite integers are signed.
func formatSum(sum uint64) string {
	return strconv.FormatUint(sum, 16)
}
