package fsutil

import (
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"syscall"

	"github.com/HenrikKarapetyan/filesystem/internal/filesystem"
	"github.com/HenrikKarapetyan/filesystem/internal/logger"
)

// FS is the file system abstraction a Filesystem operates on.
type FS = filesystem.FileSystem

var (
	errNotDir   = errors.New("not a directory")
	errIsDir    = errors.New("is a directory")
	errSameFile = errors.New("source and destination are the same file")
)

// Filesystem carries the file system the operations run against. It holds no
// other state; the zero configuration is New(), backed by the OS.
type Filesystem struct {
	fs FS
}

// New returns a Filesystem backed by the OS file system.
func New() *Filesystem {
	return NewWithFS(filesystem.NewOSFileSystem())
}

// NewWithFS returns a Filesystem backed by fsys.
// Panics if fsys is nil.
func NewWithFS(fsys FS) *Filesystem {
	if fsys == nil {
		panic("fsys cannot be nil")
	}
	return &Filesystem{fs: fsys}
}

// Mkdir creates path and every missing ancestor, applying mode to each
// directory it creates. It is a no-op when path is already a directory, and a
// directory created concurrently by someone else is not an error.
func (f *Filesystem) Mkdir(path string, mode os.FileMode) error {
	info, err := f.fs.Stat(path)
	if err == nil {
		if info.IsDir() {
			return nil
		}
		return newError("mkdir", path, errNotDir)
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return newError("mkdir", path, err)
	}

	missing := []string{filepath.Clean(path)}
	for p := missing[0]; ; {
		parent := filepath.Dir(p)
		if parent == p {
			break
		}
		info, err := f.fs.Stat(parent)
		if err == nil {
			if !info.IsDir() {
				return newError("mkdir", parent, errNotDir)
			}
			break
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return newError("mkdir", parent, err)
		}
		missing = append(missing, parent)
		p = parent
	}

	for i := len(missing) - 1; i >= 0; i-- {
		dir := missing[i]
		if err := f.fs.Mkdir(dir, mode); err != nil {
			if errors.Is(err, fs.ErrExist) {
				if info, statErr := f.fs.Stat(dir); statErr == nil && info.IsDir() {
					continue
				}
			}
			return newError("mkdir", dir, err)
		}
		// Mkdir is subject to the umask.
		if err := f.fs.Chmod(dir, mode); err != nil {
			return newError("chmod", dir, err)
		}
		logger.Debug("created directory %s (%04o)", dir, mode.Perm())
	}

	return nil
}

// CreateFile creates path with mode and content unless it already exists, in
// which case it does nothing. Missing parent directories are created with
// DefaultDirMode.
func (f *Filesystem) CreateFile(path string, mode os.FileMode, content []byte) error {
	if _, err := f.fs.Lstat(path); err == nil {
		return nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return newError("create", path, err)
	}

	if err := f.Mkdir(filepath.Dir(path), DefaultDirMode); err != nil {
		return err
	}

	file, err := f.fs.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, mode)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return nil
		}
		return newError("create", path, err)
	}

	if len(content) > 0 {
		if _, err := file.Write(content); err != nil {
			file.Close()
			return newError("write", path, err)
		}
	}
	if err := file.Close(); err != nil {
		return newError("write", path, err)
	}
	if err := f.fs.Chmod(path, mode); err != nil {
		return newError("chmod", path, err)
	}

	logger.Debug("created file %s (%d bytes)", path, len(content))
	return nil
}

// DeleteFile removes the file at path.
func (f *Filesystem) DeleteFile(path string) error {
	info, err := f.requireFile("delete", path)
	if err != nil {
		return err
	}
	if info.IsDir() {
		return newError("delete", path, errIsDir)
	}

	if err := f.fs.Remove(path); err != nil {
		return newError("delete", path, err)
	}

	logger.Debug("deleted file %s", path)
	return nil
}

// CopyFile copies source to destination byte for byte, replacing destination
// if it exists. Parent directories of destination are not created. Copying a
// file onto itself fails with ErrFilesystem and leaves it untouched.
func (f *Filesystem) CopyFile(source, destination string) error {
	if _, err := f.requireFile("copy", source); err != nil {
		return err
	}
	_, err := f.copyFile(source, destination)
	return err
}

// MoveFile renames source to destination. Moves across devices are not
// supported and fail with ErrFilesystem.
func (f *Filesystem) MoveFile(source, destination string) error {
	if _, err := f.requireFile("move", source); err != nil {
		return err
	}

	if err := f.fs.Rename(source, destination); err != nil {
		return newError("move", source, err)
	}

	logger.Debug("moved %s -> %s", source, destination)
	return nil
}

// DeleteDirectory removes everything below path, children before their
// parents, and then path itself. A missing path is reported as ErrFilesystem.
func (f *Filesystem) DeleteDirectory(path string) error {
	_, err := f.Walk(path, PostOrder, Options{}, func(_ string, entry Entry) (string, error) {
		if err := f.fs.Remove(entry.Path); err != nil {
			return "", newError("remove", entry.Path, err)
		}
		return "", nil
	})
	if err != nil {
		return err
	}

	if err := f.fs.Remove(path); err != nil {
		return newError("remove", path, err)
	}

	logger.Debug("deleted directory %s", path)
	return nil
}

// CopyDirectory copies every file below source into destination, keeping the
// relative layout. Only files are visited, so empty directories are not
// reproduced. Symlinks are copied as the file they point to; a symlink to a
// directory or to nothing is skipped with a warning. opts filters by
// extension and exclusion lists.
func (f *Filesystem) CopyDirectory(source, destination string, opts Options) error {
	if err := f.requireDirectory("copy", source); err != nil {
		return err
	}

	_, err := f.Walk(source, LeavesOnly, opts, func(_ string, entry Entry) (string, error) {
		if entry.Type&fs.ModeSymlink != 0 {
			info, err := f.fs.Stat(entry.Path)
			if err != nil || info.IsDir() {
				logger.Warn("skipping symlink %s: target is missing or a directory", entry.Path)
				return "", nil
			}
		}

		destDir := filepath.Join(destination, filepath.Dir(entry.RelPath))
		if err := f.Mkdir(destDir, DefaultDirMode); err != nil {
			return "", err
		}

		destPath := filepath.Join(destDir, entry.Name)
		n, err := f.copyFile(entry.Path, destPath)
		if err != nil {
			return "", err
		}

		if opts.Progress != nil {
			opts.Progress(CopyEvent{Source: entry.Path, Destination: destPath, Bytes: n})
		}
		return "", nil
	})
	if err != nil {
		return err
	}

	logger.Debug("copied directory %s -> %s", source, destination)
	return nil
}

// MoveDirectory copies source into destination and then deletes source.
//
// The move is not atomic. If the delete fails after a successful copy, both
// trees are left on disk. The delete removes the whole source tree, including
// files that opts filtered out of the copy.
func (f *Filesystem) MoveDirectory(source, destination string, opts Options) error {
	if err := f.CopyDirectory(source, destination, opts); err != nil {
		return err
	}
	return f.DeleteDirectory(source)
}

// GetFilesFromDirectory returns the absolute real paths of the entries below
// directory in pre-order, directories included unless opts.Extension is set.
func (f *Filesystem) GetFilesFromDirectory(directory string, opts Options) ([]string, error) {
	if err := f.requireDirectory("list", directory); err != nil {
		return nil, err
	}
	return f.Walk(directory, PreOrder, opts, nil)
}

func (f *Filesystem) copyFile(source, destination string) (int64, error) {
	info, err := f.fs.Stat(source)
	if err != nil {
		return 0, newError("copy", source, err)
	}
	if info.IsDir() {
		return 0, newError("copy", source, errIsDir)
	}
	if dstInfo, err := f.fs.Stat(destination); err == nil {
		if os.SameFile(info, dstInfo) || f.samePath(source, destination) {
			return 0, newError("copy", destination, errSameFile)
		}
	}

	in, err := f.fs.Open(source)
	if err != nil {
		return 0, newError("copy", source, err)
	}
	defer in.Close()

	out, err := f.fs.OpenFile(destination, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return 0, newError("copy", destination, err)
	}

	n, err := io.Copy(out, in)
	if err != nil {
		out.Close()
		return n, newError("copy", destination, err)
	}
	if err := out.Close(); err != nil {
		return n, newError("copy", destination, err)
	}

	logger.Debug("copied %s -> %s (%d bytes)", source, destination, n)
	return n, nil
}

func (f *Filesystem) requireFile(op, path string) (os.FileInfo, error) {
	info, err := f.fs.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fileNotFound(op, path)
		}
		return nil, newError(op, path, err)
	}
	return info, nil
}

func (f *Filesystem) requireDirectory(op, path string) error {
	info, err := f.fs.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) || errors.Is(err, syscall.ENOTDIR) {
			return directoryNotExists(op, path)
		}
		return newError(op, path, err)
	}
	if !info.IsDir() {
		return directoryNotExists(op, path)
	}
	return nil
}

// samePath reports whether a and b resolve to the same real path.
func (f *Filesystem) samePath(a, b string) bool {
	ra, err := f.fs.RealPath(a)
	if err != nil {
		return false
	}
	rb, err := f.fs.RealPath(b)
	return err == nil && ra == rb
}
