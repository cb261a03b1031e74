package marksite

import (
	"os"
	"path/filepath"
	"testing"
)

func TestSyncDirCreates(t *testing.T) {
	s := setupTestStore(t)
	dir := t.TempDir()
	writePost(t, dir, "2024-01-01-alpha.md", "Alpha", "")
	writePost(t, dir, "2024-02-01-beta.md", "Beta", "draft: true\n")

	res, err := SyncDir(s, dir)
	if err != nil {
		t.Fatalf("SyncDir failed: %v", err)
	}
	if res.Created != 2 || res.Updated != 0 || res.Deleted != 0 {
		t.Errorf("result = %+v, want 2 created", res)
	}

	published, err := s.ListPosts("")
	if err != nil {
		t.Fatal(err)
	}
	if len(published) != 1 || published[0].Slug != "alpha" {
		t.Errorf("published = %v, want only alpha (beta is a draft)", published)
	}
	all, err := s.ListAllPosts()
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 2 {
		t.Errorf("all posts = %d, want 2", len(all))
	}
}

func TestSyncDirSkipsUnchanged(t *testing.T) {
	s := setupTestStore(t)
	dir := t.TempDir()
	writePost(t, dir, "2024-01-01-alpha.md", "Alpha", "")

	if _, err := SyncDir(s, dir); err != nil {
		t.Fatalf("first sync failed: %v", err)
	}
	res, err := SyncDir(s, dir)
	if err != nil {
		t.Fatalf("second sync failed: %v", err)
	}
	if res.Created != 0 || res.Updated != 0 || res.Skipped != 1 {
		t.Errorf("result = %+v, want 1 skipped", res)
	}
}

func TestSyncDirUpdatesEdited(t *testing.T) {
	s := setupTestStore(t)
	dir := t.TempDir()
	writePost(t, dir, "2024-01-01-alpha.md", "Alpha", "")
	if _, err := SyncDir(s, dir); err != nil {
		t.Fatal(err)
	}

	writePost(t, dir, "2024-01-01-alpha.md", "Alpha Revised", "")
	res, err := SyncDir(s, dir)
	if err != nil {
		t.Fatalf("SyncDir failed: %v", err)
	}
	if res.Updated != 1 {
		t.Errorf("result = %+v, want 1 updated", res)
	}
	got, err := s.GetPost("alpha")
	if err != nil {
		t.Fatal(err)
	}
	if got.Title != "Alpha Revised" {
		t.Errorf("Title = %q, want Alpha Revised", got.Title)
	}
}

func TestSyncDirDeletesOrphans(t *testing.T) {
	s := setupTestStore(t)
	dir := t.TempDir()
	writePost(t, dir, "2024-01-01-alpha.md", "Alpha", "")
	writePost(t, dir, "2024-02-01-beta.md", "Beta", "")
	if _, err := SyncDir(s, dir); err != nil {
		t.Fatal(err)
	}

	if err := os.Remove(filepath.Join(dir, "2024-02-01-beta.md")); err != nil {
		t.Fatal(err)
	}
	res, err := SyncDir(s, dir)
	if err != nil {
		t.Fatalf("SyncDir failed: %v", err)
	}
	if res.Deleted != 1 {
		t.Errorf("result = %+v, want 1 deleted", res)
	}
	if _, err := s.GetPostAny("beta"); err == nil {
		t.Error("beta should be gone from the store")
	}
}

func TestSyncDirKeepsRowsForBrokenFiles(t *testing.T) {
	s := setupTestStore(t)
	dir := t.TempDir()
	writePost(t, dir, "2024-01-01-alpha.md", "Alpha", "")
	if _, err := SyncDir(s, dir); err != nil {
		t.Fatal(err)
	}

	// The file turns invalid but is still on disk: the old row stays.
	if err := os.WriteFile(filepath.Join(dir, "2024-01-01-alpha.md"), []byte("---\nlayout: post\n---\nno title\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	res, err := SyncDir(s, dir)
	if err != nil {
		t.Fatalf("SyncDir failed: %v", err)
	}
	if res.Deleted != 0 {
		t.Errorf("result = %+v, broken file must not delete its row", res)
	}
	if _, err := s.GetPost("alpha"); err != nil {
		t.Errorf("alpha row should survive: %v", err)
	}
	if len(res.Errs) == 0 {
		t.Error("broken file should be reported in Errs")
	}
}

func TestSyncDirLeavesSourcelessRows(t *testing.T) {
	s := setupTestStore(t)
	dir := t.TempDir()

	// A row written directly, with no backing file.
	if err := s.SavePost(Post{Slug: "seeded", Title: "Seeded", Date: "2024-01-01", Content: "c"}); err != nil {
		t.Fatal(err)
	}

	res, err := SyncDir(s, dir)
	if err != nil {
		t.Fatalf("SyncDir failed: %v", err)
	}
	if res.Deleted != 0 {
		t.Errorf("result = %+v, sourceless rows must survive", res)
	}
	if _, err := s.GetPost("seeded"); err != nil {
		t.Errorf("seeded row should survive: %v", err)
	}
}

func TestSyncDirCollectsFileErrors(t *testing.T) {
	s := setupTestStore(t)
	dir := t.TempDir()
	writePost(t, dir, "2024-01-01-good.md", "Good", "")
	if err := os.WriteFile(filepath.Join(dir, "2024-01-02-bad.md"), []byte("---\nlayout: post\n---\nno title\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	res, err := SyncDir(s, dir)
	if err != nil {
		t.Fatalf("SyncDir should not abort on a bad file: %v", err)
	}
	if res.Created != 1 {
		t.Errorf("good post should sync, result = %+v", res)
	}
	if len(res.Errs) == 0 {
		t.Error("bad post should be reported in Errs")
	}
}
