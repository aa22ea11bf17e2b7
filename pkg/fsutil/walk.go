package fsutil

import (
	"io/fs"
	"path/filepath"
	"strings"
)

// Entry is a file or directory visited by Walk.
type Entry struct {
	// Path is the walk root joined with RelPath.
	Path string
	// RelPath is the path relative to the walk root.
	RelPath string
	Name    string
	IsDir   bool
	Type    fs.FileMode
}

// Extension returns the text after the last dot of the entry name, without the dot.
func (e Entry) Extension() string {
	return extensionOf(e.Name)
}

// BaseName returns the entry name without its extension.
func (e Entry) BaseName() string {
	ext := e.Extension()
	if ext == "" {
		return e.Name
	}
	return strings.TrimSuffix(e.Name, "."+ext)
}

// Dir returns the directory containing the entry.
func (e Entry) Dir() string {
	return filepath.Dir(e.Path)
}

// WalkFunc maps a visited entry to a result value. An empty string drops the
// entry from the result; a non-nil error stops the walk.
type WalkFunc func(root string, entry Entry) (string, error)

// Walk enumerates everything under root in the given order and returns the
// non-empty values produced for each included entry. With a nil fn the value
// is the entry's absolute real path, or its absolute path for a symlink that
// cannot be resolved.
//
// Exclusions are applied first and prune whole subtrees. When opts.Extension
// is set, entries with any other extension are skipped entirely: they are
// neither passed to fn nor returned, although non-matching directories are
// still descended into. Symlinks are treated as leaves and never followed.
func (f *Filesystem) Walk(root string, order TraversalOrder, opts Options, fn WalkFunc) ([]string, error) {
	ex, err := newExclusion(opts)
	if err != nil {
		return nil, err
	}

	w := &walker{
		f:     f,
		root:  root,
		order: order,
		ext:   opts.Extension,
		ex:    ex,
		fn:    fn,
	}
	if err := w.visit(root, ""); err != nil {
		return nil, err
	}
	return w.results, nil
}

type walker struct {
	f       *Filesystem
	root    string
	order   TraversalOrder
	ext     string
	ex      *exclusion
	fn      WalkFunc
	results []string
}

func (w *walker) visit(dir, rel string) error {
	entries, err := w.f.fs.ReadDir(dir)
	if err != nil {
		return newError("walk", dir, err)
	}

	for _, de := range entries {
		name := de.Name()
		if name == "." || name == ".." {
			continue
		}

		path := filepath.Join(dir, name)
		if w.ex.match(path) {
			continue
		}

		entry := Entry{
			Path:    path,
			RelPath: filepath.Join(rel, name),
			Name:    name,
			IsDir:   de.IsDir(),
			Type:    de.Type(),
		}

		switch w.order {
		case PreOrder:
			if err := w.include(entry); err != nil {
				return err
			}
			if entry.IsDir {
				if err := w.visit(path, entry.RelPath); err != nil {
					return err
				}
			}
		case PostOrder:
			if entry.IsDir {
				if err := w.visit(path, entry.RelPath); err != nil {
					return err
				}
			}
			if err := w.include(entry); err != nil {
				return err
			}
		default:
			if entry.IsDir {
				if err := w.visit(path, entry.RelPath); err != nil {
					return err
				}
				continue
			}
			if err := w.include(entry); err != nil {
				return err
			}
		}
	}

	return nil
}

func (w *walker) include(entry Entry) error {
	if w.ext != "" && entry.Extension() != w.ext {
		return nil
	}

	var value string
	if w.fn != nil {
		v, err := w.fn(w.root, entry)
		if err != nil {
			return err
		}
		value = v
	} else {
		realPath, err := w.f.fs.RealPath(entry.Path)
		if err != nil {
			if entry.Type&fs.ModeSymlink == 0 {
				return newError("realpath", entry.Path, err)
			}
			// Dangling link: report where it lives.
			realPath = absClean(entry.Path)
		}
		value = realPath
	}

	if value != "" {
		w.results = append(w.results, value)
	}
	return nil
}
