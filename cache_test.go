package marksite

import (
	"testing"
	"time"
)

func setupCache(t *testing.T) (*Store, *PostCache) {
	t.Helper()
	s := setupTestStore(t)
	posts := []Post{
		{Slug: "one", Title: "One", Date: "2024-01-01", Tags: []string{"go"}, Content: "c1"},
		{Slug: "two", Title: "Two", Date: "2024-02-01", Tags: []string{"web"}, Content: "c2"},
		{Slug: "hidden", Title: "Hidden", Date: "2024-03-01", Content: "c3", Draft: true},
	}
	for _, p := range posts {
		if err := s.SavePost(p); err != nil {
			t.Fatal(err)
		}
	}
	return s, NewPostCache(s, time.Minute)
}

func TestCacheListPosts(t *testing.T) {
	_, c := setupCache(t)

	posts, err := c.ListPosts("")
	if err != nil {
		t.Fatalf("ListPosts failed: %v", err)
	}
	if len(posts) != 2 {
		t.Errorf("count = %d, want 2 (drafts excluded)", len(posts))
	}

	tagged, err := c.ListPosts("GO")
	if err != nil {
		t.Fatalf("ListPosts(GO) failed: %v", err)
	}
	if len(tagged) != 1 || tagged[0].Slug != "one" {
		t.Errorf("tag filter = %v, want [one]", tagged)
	}
}

func TestCacheGetPost(t *testing.T) {
	_, c := setupCache(t)

	post, err := c.GetPost("two")
	if err != nil {
		t.Fatalf("GetPost failed: %v", err)
	}
	if post.Title != "Two" {
		t.Errorf("Title = %q", post.Title)
	}

	if _, err := c.GetPost("hidden"); err != ErrNotFound {
		t.Errorf("drafts must not be served, got err %v", err)
	}
	if _, err := c.GetPost("missing"); err != ErrNotFound {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestCacheServesStaleUntilInvalidated(t *testing.T) {
	s, c := setupCache(t)

	if _, err := c.ListPosts(""); err != nil {
		t.Fatal(err)
	}

	if err := s.SavePost(Post{Slug: "three", Title: "Three", Date: "2024-04-01", Content: "c"}); err != nil {
		t.Fatal(err)
	}

	posts, err := c.ListPosts("")
	if err != nil {
		t.Fatal(err)
	}
	if len(posts) != 2 {
		t.Errorf("cache should still serve the old snapshot, got %d posts", len(posts))
	}

	c.Invalidate()
	posts, err = c.ListPosts("")
	if err != nil {
		t.Fatal(err)
	}
	if len(posts) != 3 {
		t.Errorf("after Invalidate expected 3 posts, got %d", len(posts))
	}
}

func TestCacheCachesEmptyResult(t *testing.T) {
	s := setupTestStore(t)
	c := NewPostCache(s, time.Minute)

	posts, err := c.ListPosts("")
	if err != nil {
		t.Fatalf("ListPosts failed: %v", err)
	}
	if len(posts) != 0 {
		t.Fatalf("expected empty store, got %d posts", len(posts))
	}

	// The empty snapshot is cached too: a direct store write must stay
	// invisible until Invalidate.
	if err := s.SavePost(Post{Slug: "one", Title: "One", Date: "2024-01-01", Content: "c"}); err != nil {
		t.Fatal(err)
	}
	posts, err = c.ListPosts("")
	if err != nil {
		t.Fatal(err)
	}
	if len(posts) != 0 {
		t.Errorf("empty snapshot should be cached, got %d posts", len(posts))
	}

	c.Invalidate()
	posts, err = c.ListPosts("")
	if err != nil {
		t.Fatal(err)
	}
	if len(posts) != 1 {
		t.Errorf("after Invalidate expected 1 post, got %d", len(posts))
	}
}

func TestCacheListTags(t *testing.T) {
	_, c := setupCache(t)

	tags, err := c.ListTags()
	if err != nil {
		t.Fatalf("ListTags failed: %v", err)
	}
	if len(tags) != 2 {
		t.Errorf("tags = %v, want [go web]", tags)
	}
}
