// Package fsutil provides synchronous filesystem helpers: recursive directory
// creation, copy/move/delete of files and directory trees, filtered directory
// walks, and derivation of namespaced symbol names from source file paths.
//
// Every operation is available as a package-level function running against
// the OS, and as a method on *Filesystem for callers that inject their own
// file system (see NewWithFS).
//
// # Filtering
//
// Walk-based operations take Options. Extension keeps only entries with that
// exact extension; entries that do not match are skipped entirely rather than
// passed through. Excluded and ExcludeGlobs prune whole subtrees.
//
// # Errors
//
// All failures are *Error values matching ErrFilesystem. Operations that need
// an existing file or directory report ErrFileNotFound or
// ErrDirectoryNotExists respectively:
//
//	if err := fsutil.MoveFile(src, dst); errors.Is(err, fsutil.ErrFileNotFound) {
//	    ...
//	}
//
// # Limitations
//
// Nothing here is transactional. MoveDirectory is a copy followed by a delete
// and can leave both trees behind if the delete fails. Callers must not mutate
// a tree while an operation is running over it.
package fsutil
