package fsutil

import (
	"path/filepath"
	"sort"
	"strings"
)

// Registry answers whether a fully-qualified symbol name is known to the caller.
type Registry interface {
	Exists(name string) bool
}

// RegistryFunc adapts a plain predicate to Registry.
type RegistryFunc func(name string) bool

// Exists calls fn(name).
func (fn RegistryFunc) Exists(name string) bool {
	return fn(name)
}

// SymbolSet is a Registry backed by a set of names.
type SymbolSet map[string]struct{}

// NewSymbolSet returns a SymbolSet containing names.
func NewSymbolSet(names ...string) SymbolSet {
	s := make(SymbolSet, len(names))
	for _, n := range names {
		s.Add(n)
	}
	return s
}

// Add inserts name, ignoring blanks.
func (s SymbolSet) Add(name string) {
	name = strings.TrimSpace(name)
	if name == "" {
		return
	}
	s[name] = struct{}{}
}

// Exists reports whether name is in the set.
func (s SymbolSet) Exists(name string) bool {
	_, ok := s[name]
	return ok
}

// Names returns the set contents sorted.
func (s SymbolSet) Names() []string {
	names := make([]string, 0, len(s))
	for n := range s {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// QualifiedName derives a symbol name from a file path relative to the
// source root: the namespace, then each directory of relPath, then the file
// name without its extension, joined by separator.
//
//	QualifiedName("App", "Sub/Foo.php", `\`) == `App\Sub\Foo`
func QualifiedName(namespace, relPath, separator string) string {
	if separator == "" {
		separator = DefaultNamespaceSeparator
	}

	base := filepath.Base(relPath)
	if ext := extensionOf(base); ext != "" {
		base = strings.TrimSuffix(base, "."+ext)
	}

	var b strings.Builder
	b.WriteString(namespace)
	if dir := filepath.Dir(relPath); dir != "." && dir != string(filepath.Separator) {
		for _, segment := range strings.Split(filepath.ToSlash(dir), "/") {
			if segment == "" {
				continue
			}
			b.WriteString(separator)
			b.WriteString(segment)
		}
	}
	b.WriteString(separator)
	b.WriteString(base)
	return b.String()
}

// GetClassesFromDirectory derives a qualified name for every source file below
// directory and keeps the ones registry reports as existing. A nil registry
// keeps nothing.
func (f *Filesystem) GetClassesFromDirectory(directory, namespace string, registry Registry, opts Options) ([]string, error) {
	return f.symbols("classes", directory, namespace, opts, func(name string) bool {
		return registry != nil && registry.Exists(name)
	})
}

// GetSourcesFromDirectory derives a qualified name for every source file
// below directory.
func (f *Filesystem) GetSourcesFromDirectory(directory, namespace string, opts Options) ([]string, error) {
	return f.symbols("sources", directory, namespace, opts, nil)
}

func (f *Filesystem) symbols(op, directory, namespace string, opts Options, keep func(string) bool) ([]string, error) {
	if err := f.requireDirectory(op, directory); err != nil {
		return nil, err
	}

	if opts.Extension == "" {
		opts.Extension = DefaultSourceExtension
	}

	return f.Walk(directory, PreOrder, opts, func(_ string, entry Entry) (string, error) {
		if entry.IsDir {
			return "", nil
		}
		name := QualifiedName(namespace, entry.RelPath, opts.Separator)
		if keep != nil && !keep(name) {
			return "", nil
		}
		return name, nil
	})
}
