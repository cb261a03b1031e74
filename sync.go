package marksite

import (
	"fmt"
	"os"
)

// SyncDir reconciles the store with the post files in dir. Posts whose
// checksum is unchanged are skipped; new and edited files are upserted;
// store rows whose source file is gone are deleted. Per-file parse errors
// are collected in the result rather than aborting the pass.
func SyncDir(s *Store, dir string) (SyncResult, error) {
	var res SyncResult

	posts, loadErr := LoadDir(dir)
	if loadErr != nil {
		res.Errs = append(res.Errs, loadErr)
	}
	if posts == nil && loadErr != nil {
		return res, fmt.Errorf("sync %s: %w", dir, loadErr)
	}

	existing, err := s.ListAllPosts()
	if err != nil {
		return res, fmt.Errorf("sync %s: list posts: %w", dir, err)
	}
	checksums := make(map[string]string, len(existing))
	for _, p := range existing {
		checksums[p.Slug] = p.Checksum
	}

	seen := make(map[string]struct{}, len(posts))
	for _, p := range posts {
		seen[p.Slug] = struct{}{}
		prev, known := checksums[p.Slug]
		if known && prev == p.Checksum {
			res.Skipped++
			continue
		}
		if err := s.SavePost(p); err != nil {
			res.Errs = append(res.Errs, fmt.Errorf("save %s: %w", p.Slug, err))
			continue
		}
		if known {
			res.Updated++
		} else {
			res.Created++
		}
	}

	// Orphans: rows whose backing file is gone. Rows without a source path
	// were written directly (tests, seeds) and are left alone, as are rows
	// whose file still exists but failed to parse this pass.
	for _, p := range existing {
		if _, ok := seen[p.Slug]; ok {
			continue
		}
		if p.SourcePath == "" {
			continue
		}
		if _, err := os.Stat(p.SourcePath); err == nil {
			continue
		}
		if err := s.DeletePost(p.Slug); err != nil {
			res.Errs = append(res.Errs, fmt.Errorf("delete %s: %w", p.Slug, err))
			continue
		}
		res.Deleted++
	}

	return res, nil
}

// String renders a one-line summary for logs.
func (r SyncResult) String() string {
	return fmt.Sprintf("%d created, %d updated, %d deleted, %d unchanged, %d errors",
		r.Created, r.Updated, r.Deleted, r.Skipped, len(r.Errs))
}
