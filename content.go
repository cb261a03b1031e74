package marksite

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/adrg/frontmatter"

	"github.com/eringen/marksite/markdown"
)

// summaryLength caps the plain-text summary derived from a post body when
// the front matter has no summary of its own.
const summaryLength = 200

// postNameRe matches the post file convention: <YYYY-MM-DD>-<slug>.md
var postNameRe = regexp.MustCompile(`^(\d{4}-\d{2}-\d{2})-([a-z0-9]+(?:-[a-z0-9]+)*)\.(?:md|markdown)$`)

// frontMatter is the YAML block at the top of every post file.
// Layout, title, and tags are the corpus convention; the rest are optional.
type frontMatter struct {
	Layout  string    `yaml:"layout"`
	Title   string    `yaml:"title"`
	Tags    []string  `yaml:"tags"`
	Summary string    `yaml:"summary"`
	Author  string    `yaml:"author"`
	Date    time.Time `yaml:"date"`
	Draft   bool      `yaml:"draft"`
}

// ParsePostName extracts the publish date and slug from a post filename.
// Returns an error if the name does not follow <YYYY-MM-DD>-<slug>.md.
func ParsePostName(name string) (date, slug string, err error) {
	m := postNameRe.FindStringSubmatch(name)
	if m == nil {
		return "", "", fmt.Errorf("filename %q does not match YYYY-MM-DD-slug.md", name)
	}
	if _, err := time.Parse("2006-01-02", m[1]); err != nil {
		return "", "", fmt.Errorf("filename %q has invalid date: %w", name, err)
	}
	return m[1], m[2], nil
}

// ParsePostFile parses a post file's front matter and body into a Post.
// The path is only used to derive the date and slug and to report errors;
// src is the full file content.
func ParsePostFile(path string, src []byte) (Post, error) {
	date, slug, err := ParsePostName(filepath.Base(path))
	if err != nil {
		return Post{}, err
	}

	var meta frontMatter
	body, err := frontmatter.Parse(bytes.NewReader(src), &meta)
	if err != nil {
		return Post{}, fmt.Errorf("%s: parse front matter: %w", path, err)
	}
	if strings.TrimSpace(meta.Title) == "" {
		return Post{}, fmt.Errorf("%s: front matter is missing a title", path)
	}
	if !meta.Date.IsZero() {
		date = meta.Date.Format("2006-01-02")
	}

	layout := strings.TrimSpace(meta.Layout)
	if layout == "" {
		layout = "post"
	}

	summary := strings.TrimSpace(meta.Summary)
	if summary == "" {
		summary = markdown.Summary(string(body), summaryLength)
	}

	sum := sha256.Sum256(src)

	return Post{
		Slug:       slug,
		Title:      strings.TrimSpace(meta.Title),
		Date:       date,
		Layout:     layout,
		Tags:       FilterEmpty(meta.Tags),
		Summary:    summary,
		Author:     strings.TrimSpace(meta.Author),
		Link:       "/blog/" + slug,
		Content:    string(body),
		Draft:      meta.Draft,
		SourcePath: path,
		Checksum:   hex.EncodeToString(sum[:]),
	}, nil
}

// LoadDir reads every post file in dir, newest first. Files that do not
// match the naming convention are skipped; files that match but fail to
// parse contribute to the joined error while the rest still load. When two
// files share a slug the one with the later date wins.
func LoadDir(dir string) ([]Post, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read content dir: %w", err)
	}

	var errs []error
	bySlug := make(map[string]Post)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !postNameRe.MatchString(name) {
			if strings.HasSuffix(name, ".md") || strings.HasSuffix(name, ".markdown") {
				log.Printf("marksite: skipping %s: name does not match YYYY-MM-DD-slug.md", name)
			}
			continue
		}
		path := filepath.Join(dir, name)
		src, err := os.ReadFile(path)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		post, err := ParsePostFile(path, src)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if prev, ok := bySlug[post.Slug]; ok {
			log.Printf("marksite: duplicate slug %q (%s, %s)", post.Slug, prev.SourcePath, post.SourcePath)
			if post.Date < prev.Date {
				continue
			}
		}
		bySlug[post.Slug] = post
	}

	posts := make([]Post, 0, len(bySlug))
	for _, p := range bySlug {
		posts = append(posts, p)
	}
	sort.Slice(posts, func(i, j int) bool {
		if posts[i].Date != posts[j].Date {
			return posts[i].Date > posts[j].Date
		}
		return posts[i].Slug < posts[j].Slug
	})
	return posts, errors.Join(errs...)
}
