package analytics

import (
	"database/sql"
	"fmt"
	"log"
	"time"

	_ "modernc.org/sqlite"
)

// Store provides database operations for analytics.
type Store struct {
	db *sql.DB
}

// NewStore creates a new analytics store.
func NewStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open analytics db: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)

	if _, err := db.Exec("PRAGMA journal_mode=WAL; PRAGMA busy_timeout=5000;"); err != nil {
		return nil, fmt.Errorf("enable WAL: %w", err)
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
			visitor_hash TEXT NOT NULL,
			path TEXT NOT NULL,
			referrer TEXT NOT NULL DEFAULT '',
			timestamp DATETIME NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_visits_timestamp ON visits(timestamp);
		CREATE INDEX IF NOT EXISTS idx_visits_visitor ON visits(visitor_hash);
		CREATE INDEX IF NOT EXISTS idx_visits_path ON visits(path);

		CREATE TABLE IF NOT EXISTS settings (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);
	`)
	return err
}

// GetSetting retrieves a setting value by key. Returns empty string if not found.
func (s *Store) GetSetting(key string) (string, error) {
	var val string
	err := s.db.QueryRow(`SELECT value FROM settings WHERE key = ?`, key).Scan(&val)
	if err == sql.ErrNoRows {
		return "", nil
	}
	return val, err
}

// SetSetting stores a setting value by key (upsert).
func (s *Store) SetSetting(key, value string) error {
	_, err := s.db.Exec(`INSERT OR REPLACE INTO settings (key, value) VALUES (?, ?)`, key, value)
	return err
}

// SaveVisit stores a new visit.
func (s *Store) SaveVisit(v *Visit) error {
	_, err := s.db.Exec(`INSERT INTO visits (visitor_hash, path, referrer, timestamp) VALUES (?, ?, ?, ?)`,
		v.VisitorHash, v.Path, v.Referrer, v.Timestamp.UTC().Format(time.RFC3339))
	return err
}

// GetStats aggregates views over the last days days.
func (s *Store) GetStats(days int) (*Stats, error) {
	cutoff := time.Now().UTC().AddDate(0, 0, -days).Format(time.RFC3339)

	stats := &Stats{Period: fmt.Sprintf("%dd", days)}

	err := s.db.QueryRow(`SELECT COUNT(*), COUNT(DISTINCT visitor_hash) FROM visits WHERE timestamp >= ?`, cutoff).
		Scan(&stats.TotalViews, &stats.UniqueVisitors)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.Query(`SELECT path, COUNT(*) AS views FROM visits WHERE timestamp >= ? GROUP BY path ORDER BY views DESC LIMIT 10`, cutoff)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var p PageStat
		if err := rows.Scan(&p.Path, &p.Views); err != nil {
			return nil, err
		}
		stats.TopPages = append(stats.TopPages, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	dayRows, err := s.db.Query(`SELECT substr(timestamp, 1, 10) AS day, COUNT(*) FROM visits WHERE timestamp >= ? GROUP BY day ORDER BY day ASC`, cutoff)
	if err != nil {
		return nil, err
	}
	defer dayRows.Close()
	for dayRows.Next() {
		var d DailyView
		if err := dayRows.Scan(&d.Day, &d.Views); err != nil {
			return nil, err
		}
		stats.DailyViews = append(stats.DailyViews, d)
	}
	return stats, dayRows.Err()
}

// DeleteOlderThan removes visits older than the retention window.
func (s *Store) DeleteOlderThan(days int) (int64, error) {
	cutoff := time.Now().UTC().AddDate(0, 0, -days).Format(time.RFC3339)
	res, err := s.db.Exec(`DELETE FROM visits WHERE timestamp < ?`, cutoff)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// StartCleanupScheduler deletes visits past the retention window on the
// given interval. The returned func stops the scheduler.
func (s *Store) StartCleanupScheduler(retentionDays int, interval time.Duration) func() {
	done := make(chan struct{})
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				if _, err := s.DeleteOlderThan(retentionDays); err != nil {
					log.Printf("analytics: cleanup: %v", err)
				}
			}
		}
	}()
	return func() { close(done) }
}
