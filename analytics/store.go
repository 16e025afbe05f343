package analytics

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// Store provides database operations for analytics.
type Store struct {
	db *sql.DB
}

// NewStore opens (or creates) the analytics database at dbPath, ensures the
// data directory exists, and runs schema setup.
func NewStore(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create analytics dir: %w", err)
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open analytics db: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)

	if _, err := db.Exec(`
		PRAGMA journal_mode=WAL;
		PRAGMA busy_timeout=5000;
		PRAGMA synchronous=NORMAL;
	`); err != nil {
		return nil, fmt.Errorf("configure analytics db: %w", err)
	}

	s := &Store{db: db}
	if err := s.ensureSchema(); err != nil {
		return nil, fmt.Errorf("ensure schema: %w", err)
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) ensureSchema() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS visits (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			visitor_id TEXT NOT NULL,
			ip_hash TEXT NOT NULL,
			browser TEXT NOT NULL,
			os TEXT NOT NULL,
			device TEXT NOT NULL,
			path TEXT NOT NULL,
			referrer TEXT,
			timestamp DATETIME NOT NULL
		);

		CREATE TABLE IF NOT EXISTS bot_visits (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			bot_name TEXT NOT NULL,
			ip_hash TEXT NOT NULL,
			user_agent TEXT NOT NULL,
			path TEXT NOT NULL,
			timestamp DATETIME NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_visits_timestamp ON visits(timestamp);
		CREATE INDEX IF NOT EXISTS idx_visits_visitor_id ON visits(visitor_id);
		CREATE INDEX IF NOT EXISTS idx_visits_path ON visits(path);
		CREATE INDEX IF NOT EXISTS idx_bot_visits_timestamp ON bot_visits(timestamp);

		CREATE TABLE IF NOT EXISTS settings (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);
	`)
	return err
}

// RecordVisit inserts a page view. Timestamp defaults to now when zero.
func (s *Store) RecordVisit(v Visit) error {
	if v.Timestamp.IsZero() {
		v.Timestamp = time.Now().UTC()
	}
	_, err := s.db.Exec(`
		INSERT INTO visits (visitor_id, ip_hash, browser, os, device, path, referrer, timestamp)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		v.VisitorID, v.IPHash, v.Browser, v.OS, v.Device, v.Path, v.Referrer, v.Timestamp)
	return err
}

// RecordBotVisit inserts a bot page view.
func (s *Store) RecordBotVisit(v BotVisit) error {
	if v.Timestamp.IsZero() {
		v.Timestamp = time.Now().UTC()
	}
	_, err := s.db.Exec(`
		INSERT INTO bot_visits (bot_name, ip_hash, user_agent, path, timestamp)
		VALUES (?, ?, ?, ?, ?)`,
		v.BotName, v.IPHash, v.UserAgent, v.Path, v.Timestamp)
	return err
}

// Summary aggregates visit statistics over the last days.
func (s *Store) Summary(days int) (Stats, error) {
	since := time.Now().UTC().AddDate(0, 0, -days)
	stats := Stats{Period: fmt.Sprintf("%dd", days)}

	row := s.db.QueryRow(`
		SELECT COUNT(*), COUNT(DISTINCT visitor_id) FROM visits WHERE timestamp >= ?`, since)
	if err := row.Scan(&stats.TotalViews, &stats.UniqueVisitors); err != nil {
		return Stats{}, err
	}

	var err error
	if stats.TopPages, err = s.topPages(since, 10); err != nil {
		return Stats{}, err
	}
	if stats.BrowserStats, err = s.dimension("browser", since, 5); err != nil {
		return Stats{}, err
	}
	if stats.ReferrerStats, err = s.dimension("referrer", since, 10); err != nil {
		return Stats{}, err
	}
	if stats.DailyViews, err = s.dailyViews(since); err != nil {
		return Stats{}, err
	}
	return stats, nil
}

func (s *Store) topPages(since time.Time, limit int) ([]PageStat, error) {
	rows, err := s.db.Query(`
		SELECT path, COUNT(*) AS views FROM visits
		WHERE timestamp >= ?
		GROUP BY path ORDER BY views DESC LIMIT ?`, since, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var pages []PageStat
	for rows.Next() {
		var p PageStat
		if err := rows.Scan(&p.Path, &p.Views); err != nil {
			return nil, err
		}
		pages = append(pages, p)
	}
	return pages, rows.Err()
}

// dimension aggregates counts for a fixed column name. The column is one of
// the schema's own identifiers, never user input.
func (s *Store) dimension(column string, since time.Time, limit int) ([]DimensionStat, error) {
	query := fmt.Sprintf(`
		SELECT %s, COUNT(*) AS count FROM visits
		WHERE timestamp >= ?
		GROUP BY %s ORDER BY count DESC LIMIT ?`, column, column)
	rows, err := s.db.Query(query, since, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []DimensionStat
	for rows.Next() {
		var d DimensionStat
		if err := rows.Scan(&d.Name, &d.Count); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (s *Store) dailyViews(since time.Time) ([]DailyView, error) {
	rows, err := s.db.Query(`
		SELECT date(timestamp), COUNT(*) FROM visits
		WHERE timestamp >= ?
		GROUP BY date(timestamp) ORDER BY date(timestamp)`, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []DailyView
	for rows.Next() {
		var d DailyView
		if err := rows.Scan(&d.Date, &d.Views); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// GetSetting returns a settings value, or "" when the key is absent.
func (s *Store) GetSetting(key string) (string, error) {
	var value string
	err := s.db.QueryRow(`SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return value, nil
}

// SetSetting upserts a settings value.
func (s *Store) SetSetting(key, value string) error {
	_, err := s.db.Exec(`INSERT OR REPLACE INTO settings (key, value) VALUES (?, ?)`, key, value)
	return err
}

// DeleteOlderThan removes visits and bot visits older than the retention
// window. Returns the number of rows removed.
func (s *Store) DeleteOlderThan(retentionDays int) (int64, error) {
	cutoff := time.Now().UTC().AddDate(0, 0, -retentionDays)
	var total int64
	for _, table := range []string{"visits", "bot_visits"} {
		res, err := s.db.Exec(`DELETE FROM `+table+` WHERE timestamp < ?`, cutoff)
		if err != nil {
			return total, err
		}
		n, _ := res.RowsAffected()
		total += n
	}
	return total, nil
}

// StartCleanupScheduler deletes data past retentionDays on the given interval.
// The returned stop function ends the scheduler.
func (s *Store) StartCleanupScheduler(retentionDays int, interval time.Duration) func() {
	done := make(chan struct{})
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				_, _ = s.DeleteOlderThan(retentionDays)
			case <-done:
				return
			}
		}
	}()
	return func() { close(done) }
}
