package fsutil

import (
	"errors"
	"fmt"
)

// Sentinel errors for the failure kinds a caller may want to branch on.
// Every error returned by this package matches ErrFilesystem; the two
// not-found kinds additionally match their own sentinel.
//
// Example usage:
//
//	err := fsutil.CopyFile(src, dst)
//	if errors.Is(err, fsutil.ErrFileNotFound) {
//	    // src is missing
//	}
var (
	// ErrFilesystem is the base kind of every failure reported by this package.
	ErrFilesystem = errors.New("filesystem error")

	// ErrDirectoryNotExists indicates an operation required an existing directory.
	ErrDirectoryNotExists = errors.New("directory does not exist")

	// ErrFileNotFound indicates an operation required an existing file.
	ErrFileNotFound = errors.New("file not found")
)

// Error records a failed operation, the path it failed on and the cause.
type Error struct {
	Op   string
	Path string
	Err  error

	kind error
}

func (e *Error) Error() string {
	switch e.kind {
	case ErrDirectoryNotExists:
		return fmt.Sprintf("%s: directory %q does not exist", e.Op, e.Path)
	case ErrFileNotFound:
		return fmt.Sprintf("%s: file %q not found", e.Op, e.Path)
	}
	if e.Err == nil {
		return fmt.Sprintf("%s %s: %s", e.Op, e.Path, ErrFilesystem)
	}
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

// Unwrap exposes the kind sentinel and the underlying cause to errors.Is/As.
func (e *Error) Unwrap() []error {
	errs := make([]error, 0, 2)
	if e.kind != nil {
		errs = append(errs, e.kind)
	}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}

// Is makes every *Error match ErrFilesystem.
func (e *Error) Is(target error) bool {
	return target == ErrFilesystem
}

// Kind returns ErrDirectoryNotExists, ErrFileNotFound or ErrFilesystem.
func (e *Error) Kind() error {
	if e.kind == nil {
		return ErrFilesystem
	}
	return e.kind
}

func newError(op, path string, err error) error {
	return &Error{Op: op, Path: path, Err: err}
}

func directoryNotExists(op, path string) error {
	return &Error{Op: op, Path: path, kind: ErrDirectoryNotExists}
}

func fileNotFound(op, path string) error {
	return &Error{Op: op, Path: path, kind: ErrFileNotFound}
}

// KindName returns a short label for the kind of err, for CLI output.
func KindName(err error) string {
	switch {
	case errors.Is(err, ErrDirectoryNotExists):
		return "directory-not-exists"
	case errors.Is(err, ErrFileNotFound):
		return "file-not-found"
	case errors.Is(err, ErrFilesystem):
		return "filesystem"
	default:
		return "error"
	}
}
