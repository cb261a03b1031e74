package analytics

import (
	"path/filepath"
	"testing"
	"time"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(filepath.Join(t.TempDir(), "analytics.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSettings(t *testing.T) {
	s := setupTestStore(t)

	val, err := s.GetSetting("missing")
	if err != nil {
		t.Fatalf("GetSetting failed: %v", err)
	}
	if val != "" {
		t.Errorf("missing setting should be empty, got %q", val)
	}

	if err := s.SetSetting("hash_salt", "abc"); err != nil {
		t.Fatalf("SetSetting failed: %v", err)
	}
	val, err = s.GetSetting("hash_salt")
	if err != nil {
		t.Fatalf("GetSetting failed: %v", err)
	}
	if val != "abc" {
		t.Errorf("setting = %q, want abc", val)
	}

	// Upsert overwrites.
	if err := s.SetSetting("hash_salt", "def"); err != nil {
		t.Fatalf("SetSetting failed: %v", err)
	}
	val, _ = s.GetSetting("hash_salt")
	if val != "def" {
		t.Errorf("setting = %q, want def", val)
	}
}

func TestSaveVisitAndStats(t *testing.T) {
	s := setupTestStore(t)
	now := time.Now().UTC()

	visits := []Visit{
		{VisitorHash: "v1", Path: "/blog/first/", Timestamp: now},
		{VisitorHash: "v1", Path: "/blog/first/", Timestamp: now},
		{VisitorHash: "v2", Path: "/blog/first/", Timestamp: now},
		{VisitorHash: "v2", Path: "/", Timestamp: now},
	}
	for i := range visits {
		if err := s.SaveVisit(&visits[i]); err != nil {
			t.Fatalf("SaveVisit failed: %v", err)
		}
	}

	stats, err := s.GetStats(7)
	if err != nil {
		t.Fatalf("GetStats failed: %v", err)
	}
	if stats.TotalViews != 4 {
		t.Errorf("TotalViews = %d, want 4", stats.TotalViews)
	}
	if stats.UniqueVisitors != 2 {
		t.Errorf("UniqueVisitors = %d, want 2", stats.UniqueVisitors)
	}
	if len(stats.TopPages) == 0 || stats.TopPages[0].Path != "/blog/first/" || stats.TopPages[0].Views != 3 {
		t.Errorf("TopPages = %v", stats.TopPages)
	}
	if len(stats.DailyViews) != 1 || stats.DailyViews[0].Views != 4 {
		t.Errorf("DailyViews = %v", stats.DailyViews)
	}
}

func TestDeleteOlderThan(t *testing.T) {
	s := setupTestStore(t)

	old := Visit{VisitorHash: "v1", Path: "/", Timestamp: time.Now().UTC().AddDate(0, 0, -40)}
	fresh := Visit{VisitorHash: "v2", Path: "/", Timestamp: time.Now().UTC()}
	if err := s.SaveVisit(&old); err != nil {
		t.Fatal(err)
	}
	if err := s.SaveVisit(&fresh); err != nil {
		t.Fatal(err)
	}

	deleted, err := s.DeleteOlderThan(30)
	if err != nil {
		t.Fatalf("DeleteOlderThan failed: %v", err)
	}
	if deleted != 1 {
		t.Errorf("deleted = %d, want 1", deleted)
	}

	stats, err := s.GetStats(90)
	if err != nil {
		t.Fatal(err)
	}
	if stats.TotalViews != 1 {
		t.Errorf("TotalViews after cleanup = %d, want 1", stats.TotalViews)
	}
}

func TestInitSaltPersists(t *testing.T) {
	s := setupTestStore(t)

	if err := InitSalt(s); err != nil {
		t.Fatalf("InitSalt failed: %v", err)
	}
	stored, err := s.GetSetting("hash_salt")
	if err != nil {
		t.Fatal(err)
	}
	if stored == "" {
		t.Fatal("salt should be persisted")
	}

	h1 := VisitorHash("203.0.113.1", "Mozilla/5.0")
	h2 := VisitorHash("203.0.113.1", "Mozilla/5.0")
	h3 := VisitorHash("203.0.113.2", "Mozilla/5.0")
	if h1 != h2 {
		t.Error("same input should hash identically")
	}
	if h1 == h3 {
		t.Error("different IPs should hash differently")
	}
	if h1 == "203.0.113.1" || len(h1) != 32 {
		t.Errorf("hash looks wrong: %q", h1)
	}
}
