package marksite

import (
	"strings"
	"testing"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Hello World", "hello-world"},
		{"  Spaces  everywhere  ", "spaces-everywhere"},
		{"Already-slugged", "already-slugged"},
		{"Ünïcödé!", "n-c-d"},
		{"Trailing!!!", "trailing"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := Slugify(tt.input); got != tt.want {
			t.Errorf("Slugify(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestBuildURL(t *testing.T) {
	tests := []struct {
		base     string
		segments []string
		want     string
	}{
		{"https://example.com", nil, "https://example.com"},
		{"https://example.com", []string{"blog", "post"}, "https://example.com/blog/post/"},
		{"https://example.com/sub", []string{"blog"}, "https://example.com/sub/blog/"},
	}
	for _, tt := range tests {
		if got := BuildURL(tt.base, tt.segments...); got != tt.want {
			t.Errorf("BuildURL(%q, %v) = %q, want %q", tt.base, tt.segments, got, tt.want)
		}
	}
}

func TestFilterEmpty(t *testing.T) {
	got := FilterEmpty([]string{"go", "", "  ", "web"})
	if len(got) != 2 || got[0] != "go" || got[1] != "web" {
		t.Errorf("FilterEmpty = %v, want [go web]", got)
	}
}

func TestFilterRelatedPosts(t *testing.T) {
	current := Post{Slug: "current", Tags: []string{"Go", "web"}}
	posts := []Post{
		{Slug: "current", Tags: []string{"go"}},
		{Slug: "shares-go", Tags: []string{"go"}},
		{Slug: "shares-web", Tags: []string{"WEB"}},
		{Slug: "unrelated", Tags: []string{"rust"}},
		{Slug: "no-tags"},
	}

	related := FilterRelatedPosts(current, posts)
	if len(related) != 2 {
		t.Fatalf("related = %v, want 2 posts", related)
	}
	for _, p := range related {
		if p.Slug == "current" {
			t.Error("a post must not be related to itself")
		}
		if p.Slug == "unrelated" || p.Slug == "no-tags" {
			t.Errorf("post %q should not be related", p.Slug)
		}
	}
}

func TestBlogPostingJsonLD(t *testing.T) {
	cfg := SiteConfig{Name: "Site", URL: "https://example.com", Author: "site-author"}
	post := Post{Slug: "p", Title: "Title", Date: "2024-01-01", Summary: "sum", Tags: []string{"go"}, Author: "post-author"}

	out := BlogPostingJsonLD(post, cfg)
	if !strings.Contains(out, `"BlogPosting"`) {
		t.Errorf("missing type: %s", out)
	}
	if !strings.Contains(out, "https://example.com/blog/p/") {
		t.Errorf("missing canonical url: %s", out)
	}
	if !strings.Contains(out, "post-author") {
		t.Errorf("post author should win over site author: %s", out)
	}
}

func TestWebsiteJsonLD(t *testing.T) {
	out := WebsiteJsonLD(SiteConfig{Name: "Site", URL: "https://example.com", Description: "desc"})
	if !strings.Contains(out, `"WebSite"`) || !strings.Contains(out, "desc") {
		t.Errorf("unexpected JSON-LD: %s", out)
	}
}
