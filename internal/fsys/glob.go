package fsys

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
)

// Resolver expands entry glob patterns beneath a root directory. Patterns use
// doublestar syntax, so `styles/**/*.css` matches arbitrarily deep trees.
type Resolver struct {
	root string
}

// NewResolver returns a resolver rooted at dir.
func NewResolver(dir string) *Resolver {
	return &Resolver{root: dir}
}

// Root returns the directory patterns are resolved against.
func (r *Resolver) Root() string {
	return r.root
}

// Resolve returns the regular files matching pattern, sorted, with paths
// joined onto the resolver root. A pattern matching nothing yields an empty
// slice, not an error.
func (r *Resolver) Resolve(pattern string) ([]string, error) {
	matches, err := doublestar.FilepathGlob(filepath.Join(r.root, pattern))
	if err != nil {
		return nil, fmt.Errorf("resolve pattern %q: %w", pattern, err)
	}

	files := make([]string, 0, len(matches))
	for _, match := range matches {
		info, err := os.Stat(match)
		if err != nil {
			return nil, fmt.Errorf("stat %q: %w", match, err)
		}
		if info.IsDir() {
			continue
		}
		files = append(files, match)
	}

	sort.Strings(files)
	return files, nil
}
