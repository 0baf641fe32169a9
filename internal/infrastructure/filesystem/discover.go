package filesystem

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"

	"arbmerge/internal/ports/output"
)

// Ensure Discoverer implements the output.SourceDiscoverer port.
var _ output.SourceDiscoverer = (*Discoverer)(nil)

// Discoverer expands "**" glob patterns relative to a root directory.
type Discoverer struct {
	root string
	fsys fs.FS
}

// NewDiscoverer returns a Discoverer rooted at root ("." for the working
// directory).
func NewDiscoverer(root string) *Discoverer {
	if root == "" {
		root = "."
	}
	return &Discoverer{root: root, fsys: os.DirFS(root)}
}

// Discover returns the regular files matching pattern, joined to the root
// and sorted. No match is not an error.
func (d *Discoverer) Discover(ctx context.Context, pattern string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("%w: %q", doublestar.ErrBadPattern, pattern)
	}
	matches, err := doublestar.Glob(d.fsys, pattern, doublestar.WithFilesOnly())
	if err != nil {
		return nil, err
	}
	paths := make([]string, 0, len(matches))
	for _, m := range matches {
		paths = append(paths, filepath.Join(d.root, filepath.FromSlash(m)))
	}
	sort.Strings(paths)
	return paths, nil
}
