package marksite

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/a-h/templ"
)

// Build exports the whole site as static HTML into outDir: the home page,
// one page per published post, one page per tag, feed.xml, sitemap.xml, and
// a copy of the static asset dir. Drafts are excluded. The store is
// initialized and synced first, so Build works without a running server.
func (a *App) Build(ctx context.Context, outDir string) error {
	if err := a.initStore(); err != nil {
		return err
	}

	posts, err := a.Store.ListPosts("")
	if err != nil {
		return fmt.Errorf("marksite: build: list posts: %w", err)
	}
	tags, err := a.Store.ListTags()
	if err != nil {
		return fmt.Errorf("marksite: build: list tags: %w", err)
	}

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return err
	}

	if err := writeComponent(ctx, filepath.Join(outDir, "index.html"),
		a.Views.Home(posts, "", tags, a.Config.URL)); err != nil {
		return err
	}

	for _, p := range posts {
		out := filepath.Join(outDir, "blog", p.Slug, "index.html")
		if err := writeComponent(ctx, out, a.Views.Post(p, posts, a.Config.URL)); err != nil {
			return err
		}
	}

	for _, t := range tags {
		tagged, err := a.Store.ListPosts(t)
		if err != nil {
			return fmt.Errorf("marksite: build: list posts for tag %q: %w", t, err)
		}
		out := filepath.Join(outDir, "tags", t, "index.html")
		if err := writeComponent(ctx, out, a.Views.Home(tagged, t, tags, a.Config.URL)); err != nil {
			return err
		}
	}

	feed, err := FeedXML(a.Config, posts)
	if err != nil {
		return fmt.Errorf("marksite: build: feed: %w", err)
	}
	if err := os.WriteFile(filepath.Join(outDir, "feed.xml"), feed, 0o644); err != nil {
		return err
	}

	sitemap, err := SitemapXML(a.Config, posts, tags)
	if err != nil {
		return fmt.Errorf("marksite: build: sitemap: %w", err)
	}
	if err := os.WriteFile(filepath.Join(outDir, "sitemap.xml"), sitemap, 0o644); err != nil {
		return err
	}

	// Static assets, if the user has any.
	if _, err := os.Stat(a.staticDir); err == nil {
		if err := copyDir(a.staticDir, filepath.Join(outDir, "public")); err != nil {
			return fmt.Errorf("marksite: build: copy static: %w", err)
		}
		// robots.txt is served from the site root.
		robots := filepath.Join(a.staticDir, "robots.txt")
		if _, err := os.Stat(robots); err == nil {
			if err := copyFile(robots, filepath.Join(outDir, "robots.txt")); err != nil {
				return err
			}
		}
	}

	return nil
}

// writeComponent renders a templ component into a file, creating parent
// directories as needed.
func writeComponent(ctx context.Context, path string, cmp templ.Component) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := cmp.Render(ctx, f); err != nil {
		f.Close()
		return fmt.Errorf("render %s: %w", path, err)
	}
	return f.Close()
}

func copyDir(src, dst string) error {
	return filepath.WalkDir(src, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		out := filepath.Join(dst, rel)
		if d.IsDir() {
			return os.MkdirAll(out, 0o755)
		}
		return copyFile(path, out)
	})
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}
	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
