package fsutil

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// Default modes, matching what the library has always applied.
const (
	DefaultDirMode  os.FileMode = 0o775
	DefaultFileMode os.FileMode = 0o664
)

// DefaultSourceExtension is the extension GetClassesFromDirectory and
// GetSourcesFromDirectory look for when Options.Extension is empty.
const DefaultSourceExtension = "php"

// DefaultNamespaceSeparator joins namespace segments in derived names.
const DefaultNamespaceSeparator = `\`

// TraversalOrder selects when a directory is visited relative to its children.
type TraversalOrder int

const (
	// PreOrder visits a directory before its children.
	PreOrder TraversalOrder = iota
	// PostOrder visits children before their directory.
	PostOrder
	// LeavesOnly visits files only, never directories.
	LeavesOnly
)

func (o TraversalOrder) String() string {
	switch o {
	case PreOrder:
		return "pre-order"
	case PostOrder:
		return "post-order"
	case LeavesOnly:
		return "leaves-only"
	default:
		return "unknown"
	}
}

// CopyEvent describes one file copied by CopyDirectory.
type CopyEvent struct {
	Source      string
	Destination string
	Bytes       int64
}

// Options narrows a walk. The zero value applies no filtering.
type Options struct {
	// Extension keeps only entries whose extension equals it exactly
	// (case-sensitive, without the dot).
	Extension string

	// Excluded lists paths that are skipped together with their descendants.
	// Relative entries are resolved against the working directory.
	Excluded []string

	// ExcludeGlobs lists doublestar patterns matched against the
	// slash-separated absolute path of each entry.
	ExcludeGlobs []string

	// Separator overrides DefaultNamespaceSeparator for derived names.
	Separator string

	// Progress is called after each file copied by CopyDirectory/MoveDirectory.
	Progress func(CopyEvent)
}

// Excludes reports whether path is excluded by opts.Excluded or
// opts.ExcludeGlobs. Only the path itself is checked, not its ancestors.
func (o Options) Excludes(path string) (bool, error) {
	ex, err := newExclusion(o)
	if err != nil {
		return false, err
	}
	return ex.match(path), nil
}

type exclusion struct {
	paths map[string]struct{}
	globs []string
}

func newExclusion(opts Options) (*exclusion, error) {
	ex := &exclusion{paths: make(map[string]struct{}, len(opts.Excluded))}
	for _, p := range opts.Excluded {
		if p == "" {
			continue
		}
		ex.paths[absClean(p)] = struct{}{}
	}
	for _, g := range opts.ExcludeGlobs {
		if !doublestar.ValidatePattern(g) {
			return nil, &Error{Op: "exclude", Path: g, Err: doublestar.ErrBadPattern}
		}
		ex.globs = append(ex.globs, g)
	}
	return ex, nil
}

func (ex *exclusion) match(path string) bool {
	if ex == nil || (len(ex.paths) == 0 && len(ex.globs) == 0) {
		return false
	}
	abs := absClean(path)
	if _, ok := ex.paths[abs]; ok {
		return true
	}
	slashed := filepath.ToSlash(abs)
	for _, g := range ex.globs {
		if ok, _ := doublestar.Match(g, slashed); ok {
			return true
		}
	}
	return false
}

func absClean(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return filepath.Clean(path)
}

// extensionOf returns the text after the last dot of name, without the dot.
func extensionOf(name string) string {
	ext := filepath.Ext(name)
	return strings.TrimPrefix(ext, ".")
}
