// Package analytics provides privacy-first page view analytics.
// Visitors are identified by a salted hash of IP and user agent; the raw
// address is never stored.
package analytics

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sync"
	"time"
)

// salt holds the per-installation random salt for visitor hashing, protected by sync.Once.
var salt struct {
	once  sync.Once
	value string
}

// InitSalt loads or generates a persistent salt for visitor hashing.
// Must be called once at startup before any requests are served.
func InitSalt(store *Store) error {
	var initErr error
	salt.once.Do(func() {
		s, err := store.GetSetting("hash_salt")
		if err != nil {
			initErr = fmt.Errorf("read hash salt: %w", err)
			return
		}
		if s == "" {
			b := make([]byte, 32)
			if _, err := rand.Read(b); err != nil {
				initErr = fmt.Errorf("generate salt: %w", err)
				return
			}
			s = hex.EncodeToString(b)
			if err := store.SetSetting("hash_salt", s); err != nil {
				initErr = fmt.Errorf("store hash salt: %w", err)
				return
			}
		}
		salt.value = s
	})
	return initErr
}

// VisitorHash derives the anonymous visitor identifier from the request IP
// and user agent. The salt rotates per installation, so hashes are not
// comparable across sites.
func VisitorHash(ip, userAgent string) string {
	h := sha256.Sum256([]byte(salt.value + "|" + ip + "|" + userAgent))
	return hex.EncodeToString(h[:16])
}

// Visit represents a single page view.
type Visit struct {
	ID          int64     `json:"-"`
	VisitorHash string    `json:"-"`
	Path        string    `json:"path"`
	Referrer    string    `json:"referrer"`
	Timestamp   time.Time `json:"timestamp"`
}

// VisitRequest is the payload sent from the client beacon.
type VisitRequest struct {
	Path     string `json:"path"`
	Referrer string `json:"referrer"`
}

// Stats holds aggregated analytics data for a period.
type Stats struct {
	Period         string      `json:"period"`
	TotalViews     int         `json:"total_views"`
	UniqueVisitors int         `json:"unique_visitors"`
	TopPages       []PageStat  `json:"top_pages"`
	DailyViews     []DailyView `json:"daily_views"`
}

// PageStat represents page view statistics.
type PageStat struct {
	Path  string `json:"path"`
	Views int    `json:"views"`
}

// DailyView is one day's view count.
type DailyView struct {
	Day   string `json:"day"`
	Views int    `json:"views"`
}
