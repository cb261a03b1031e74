package marksite

// Post is the core content type. Each post originates from a Markdown file
// named <YYYY-MM-DD>-<slug>.md in the content directory; the store holds a
// read model of those files and templates render from it.
type Post struct {
	Slug    string
	Title   string
	Date    string // YYYY-MM-DD
	Layout  string
	Tags    []string
	Summary string
	Author  string
	Link    string
	Content string // Markdown body, front matter stripped
	Draft   bool

	// SourcePath and Checksum tie a store row back to its content file so
	// the sync pass can detect edits and orphans.
	SourcePath string
	Checksum   string
}

// PageMeta carries per-page OpenGraph and SEO metadata into the <head> template.
type PageMeta struct {
	Title       string
	Description string
	URL         string // canonical + og:url
	OGType      string // "website" or "article"
}

// Image is metadata for an uploaded image stored under public/uploads.
type Image struct {
	Filename     string
	OriginalName string
	Width        int
	Height       int
	Size         int
	UploadedAt   string
}

// SyncResult summarizes one pass of syncing the content directory into the store.
type SyncResult struct {
	Created int
	Updated int
	Deleted int
	Skipped int
	Errs    []error
}
