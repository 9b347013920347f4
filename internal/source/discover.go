package source

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"

	"github.com/charmbracelet/log"
	"github.com/muesli/gitcha"
	"github.com/sahilm/fuzzy"
)

// Extensions lists the file patterns Discover looks for.
var Extensions = []string{
	"*.txt", "*.text", "*.md", "*.markdown",
	"*.txt.zst", "*.text.zst", "*.md.zst", "*.markdown.zst",
}

var ignorePatterns = []string{".git", "node_modules", "vendor"}

// Discover returns the text documents below dir, sorted by path. Unless all
// is set, files ignored by .gitignore and common vendor directories are
// skipped.
func Discover(ctx context.Context, dir string, all bool) ([]string, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("unable to get absolute path: %w", err)
	}

	var ch chan gitcha.SearchResult
	if all {
		ch, err = gitcha.FindAllFilesExcept(abs, Extensions, nil)
	} else {
		ch, err = gitcha.FindFilesExcept(abs, Extensions, ignorePatterns)
	}
	if err != nil {
		return nil, fmt.Errorf("unable to search %s: %w", dir, err)
	}

	var paths []string
	for {
		select {
		case <-ctx.Done():
			go drain(ch)
			return nil, ctx.Err()
		case res, ok := <-ch:
			if !ok {
				sort.Strings(paths)
				log.Debug("discovered sources", "dir", abs, "count", len(paths))
				return paths, nil
			}
			paths = append(paths, res.Path)
		}
	}
}

// drain lets the gitcha walker finish after the caller gave up.
func drain(ch chan gitcha.SearchResult) {
	for range ch { //nolint:revive
	}
}

// Filter keeps the paths whose name relative to dir fuzzy-matches pattern,
// in their original order. An empty pattern keeps everything.
func Filter(paths []string, dir, pattern string) []string {
	if pattern == "" {
		return paths
	}

	names := make([]string, len(paths))
	for i, p := range paths {
		names[i] = p
		if rel, err := filepath.Rel(dir, p); err == nil {
			names[i] = rel
		}
	}

	matches := fuzzy.Find(pattern, names)
	idx := make([]int, len(matches))
	for i, m := range matches {
		idx[i] = m.Index
	}
	sort.Ints(idx)

	filtered := make([]string, len(idx))
	for i, j := range idx {
		filtered[i] = paths[j]
	}
	log.Debug("filtered sources", "pattern", pattern, "kept", len(filtered), "of", len(paths))
	return filtered
}
