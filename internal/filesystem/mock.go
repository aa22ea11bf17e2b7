package filesystem

import (
	"bytes"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"syscall"
	"time"
)

// MockFileSystem is an in-memory implementation of FileSystem for testing.
// Paths are cleaned before use; the root directory always exists.
type MockFileSystem struct {
	files        map[string][]byte
	dirs         map[string]bool
	filePerms    map[string]os.FileMode
	dirPerms     map[string]os.FileMode
	mu           sync.RWMutex
	readErrors   map[string]error
	writeErrors  map[string]error
	statErrors   map[string]error
	mkdirErrors  map[string]error
	removeErrors map[string]error
	renameErrors map[string]error
}

// NewMockFileSystem creates a new MockFileSystem instance
func NewMockFileSystem() *MockFileSystem {
	return &MockFileSystem{
		files:        make(map[string][]byte),
		dirs:         map[string]bool{string(filepath.Separator): true},
		filePerms:    make(map[string]os.FileMode),
		dirPerms:     map[string]os.FileMode{string(filepath.Separator): 0755},
		readErrors:   make(map[string]error),
		writeErrors:  make(map[string]error),
		statErrors:   make(map[string]error),
		mkdirErrors:  make(map[string]error),
		removeErrors: make(map[string]error),
		renameErrors: make(map[string]error),
	}
}

// SetReadError sets an error to return when reading a specific file
func (m *MockFileSystem) SetReadError(path string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.readErrors[clean(path)] = err
}

// SetWriteError sets an error to return when writing or creating a specific file
func (m *MockFileSystem) SetWriteError(path string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.writeErrors[clean(path)] = err
}

// SetStatError sets an error to return when stating a specific path
func (m *MockFileSystem) SetStatError(path string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.statErrors[clean(path)] = err
}

// SetMkdirError sets an error to return when creating a specific directory
func (m *MockFileSystem) SetMkdirError(path string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.mkdirErrors[clean(path)] = err
}

// SetRemoveError sets an error to return when removing a specific path
func (m *MockFileSystem) SetRemoveError(path string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.removeErrors[clean(path)] = err
}

// SetRenameError sets an error to return when renaming a specific source path
func (m *MockFileSystem) SetRenameError(path string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.renameErrors[clean(path)] = err
}

// AddFile adds a file to the mock filesystem, creating missing parents
func (m *MockFileSystem) AddFile(path string, data []byte, perm os.FileMode) {
	m.mu.Lock()
	defer m.mu.Unlock()
	path = clean(path)
	m.addParents(path)
	m.files[path] = data
	m.filePerms[path] = perm
}

// AddDir adds a directory to the mock filesystem, creating missing parents
func (m *MockFileSystem) AddDir(path string, perm os.FileMode) {
	m.mu.Lock()
	defer m.mu.Unlock()
	path = clean(path)
	m.addParents(path)
	m.dirs[path] = true
	m.dirPerms[path] = perm
}

// GetFile returns the content of a file
func (m *MockFileSystem) GetFile(path string) []byte {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.files[clean(path)]
}

// HasFile reports whether a regular file exists at path
func (m *MockFileSystem) HasFile(path string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.files[clean(path)]
	return ok
}

// HasDir reports whether a directory exists at path
func (m *MockFileSystem) HasDir(path string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.dirs[clean(path)]
}

// Perm returns the permission bits recorded for path
func (m *MockFileSystem) Perm(path string) os.FileMode {
	m.mu.RLock()
	defer m.mu.RUnlock()
	path = clean(path)
	if m.dirs[path] {
		return m.dirPerms[path]
	}
	return m.filePerms[path]
}

func (m *MockFileSystem) ReadFile(path string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	path = clean(path)

	if err, ok := m.readErrors[path]; ok {
		return nil, err
	}

	if data, ok := m.files[path]; ok {
		return append([]byte(nil), data...), nil
	}

	return nil, pathErr("open", path, fs.ErrNotExist)
}

func (m *MockFileSystem) WriteFile(path string, data []byte, perm os.FileMode) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	path = clean(path)

	if err, ok := m.writeErrors[path]; ok {
		return err
	}
	if !m.dirs[filepath.Dir(path)] {
		return pathErr("open", path, fs.ErrNotExist)
	}
	if m.dirs[path] {
		return pathErr("open", path, syscall.EISDIR)
	}

	if _, exists := m.files[path]; !exists {
		m.filePerms[path] = perm
	}
	m.files[path] = append([]byte(nil), data...)
	return nil
}

func (m *MockFileSystem) Stat(path string) (os.FileInfo, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.stat(clean(path))
}

func (m *MockFileSystem) Lstat(path string) (os.FileInfo, error) {
	return m.Stat(path)
}

func (m *MockFileSystem) stat(path string) (os.FileInfo, error) {
	if err, ok := m.statErrors[path]; ok {
		return nil, err
	}

	if data, ok := m.files[path]; ok {
		return &mockFileInfo{
			name:  filepath.Base(path),
			size:  int64(len(data)),
			mode:  m.filePerms[path],
			isDir: false,
		}, nil
	}

	if m.dirs[path] {
		return &mockFileInfo{
			name:  filepath.Base(path),
			size:  0,
			mode:  os.ModeDir | m.dirPerms[path],
			isDir: true,
		}, nil
	}

	return nil, pathErr("stat", path, fs.ErrNotExist)
}

func (m *MockFileSystem) MkdirAll(path string, perm os.FileMode) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	path = clean(path)

	for p := path; ; p = filepath.Dir(p) {
		if err, ok := m.mkdirErrors[p]; ok {
			return err
		}
		if _, ok := m.files[p]; ok {
			return pathErr("mkdir", p, syscall.ENOTDIR)
		}
		if p == filepath.Dir(p) {
			break
		}
	}

	for p := path; !m.dirs[p]; p = filepath.Dir(p) {
		m.dirs[p] = true
		m.dirPerms[p] = perm
	}
	return nil
}

func (m *MockFileSystem) Mkdir(path string, perm os.FileMode) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	path = clean(path)

	if err, ok := m.mkdirErrors[path]; ok {
		return err
	}
	if _, ok := m.files[path]; ok || m.dirs[path] {
		return pathErr("mkdir", path, fs.ErrExist)
	}
	if !m.dirs[filepath.Dir(path)] {
		return pathErr("mkdir", path, fs.ErrNotExist)
	}

	m.dirs[path] = true
	m.dirPerms[path] = perm
	return nil
}

func (m *MockFileSystem) Chmod(path string, perm os.FileMode) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	path = clean(path)

	if m.dirs[path] {
		m.dirPerms[path] = perm.Perm()
		return nil
	}
	if _, ok := m.files[path]; ok {
		m.filePerms[path] = perm.Perm()
		return nil
	}
	return pathErr("chmod", path, fs.ErrNotExist)
}

// ReadDir lists the direct children of path sorted by name, like os.ReadDir.
func (m *MockFileSystem) ReadDir(path string) ([]fs.DirEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.readDir(clean(path))
}

func (m *MockFileSystem) readDir(path string) ([]fs.DirEntry, error) {
	if err, ok := m.statErrors[path]; ok {
		return nil, err
	}
	if !m.dirs[path] {
		if _, ok := m.files[path]; ok {
			return nil, pathErr("readdirent", path, syscall.ENOTDIR)
		}
		return nil, pathErr("open", path, fs.ErrNotExist)
	}

	var entries []fs.DirEntry
	for filePath := range m.files {
		if filepath.Dir(filePath) == path {
			entries = append(entries, &mockDirEntry{name: filepath.Base(filePath), isDir: false})
		}
	}
	for dirPath := range m.dirs {
		if dirPath != path && filepath.Dir(dirPath) == path {
			entries = append(entries, &mockDirEntry{name: filepath.Base(dirPath), isDir: true})
		}
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })
	return entries, nil
}

func (m *MockFileSystem) Remove(path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	path = clean(path)

	if err, ok := m.removeErrors[path]; ok {
		return err
	}

	if _, ok := m.files[path]; ok {
		delete(m.files, path)
		delete(m.filePerms, path)
		return nil
	}

	if m.dirs[path] {
		if m.hasChildren(path) {
			return pathErr("remove", path, syscall.ENOTEMPTY)
		}
		delete(m.dirs, path)
		delete(m.dirPerms, path)
		return nil
	}

	return pathErr("remove", path, fs.ErrNotExist)
}

func (m *MockFileSystem) Rename(oldPath, newPath string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	oldPath, newPath = clean(oldPath), clean(newPath)

	if err, ok := m.renameErrors[oldPath]; ok {
		return &os.LinkError{Op: "rename", Old: oldPath, New: newPath, Err: err}
	}
	if !m.dirs[filepath.Dir(newPath)] {
		return &os.LinkError{Op: "rename", Old: oldPath, New: newPath, Err: fs.ErrNotExist}
	}

	if data, ok := m.files[oldPath]; ok {
		m.files[newPath] = data
		m.filePerms[newPath] = m.filePerms[oldPath]
		delete(m.files, oldPath)
		delete(m.filePerms, oldPath)
		return nil
	}

	if m.dirs[oldPath] {
		prefix := oldPath + string(filepath.Separator)
		for p, data := range m.files {
			if strings.HasPrefix(p, prefix) {
				moved := newPath + string(filepath.Separator) + strings.TrimPrefix(p, prefix)
				m.files[moved] = data
				m.filePerms[moved] = m.filePerms[p]
				delete(m.files, p)
				delete(m.filePerms, p)
			}
		}
		for p := range m.dirs {
			if p == oldPath || strings.HasPrefix(p, prefix) {
				moved := newPath + strings.TrimPrefix(p, oldPath)
				m.dirs[moved] = true
				m.dirPerms[moved] = m.dirPerms[p]
				delete(m.dirs, p)
				delete(m.dirPerms, p)
			}
		}
		return nil
	}

	return &os.LinkError{Op: "rename", Old: oldPath, New: newPath, Err: fs.ErrNotExist}
}

func (m *MockFileSystem) Open(path string) (File, error) {
	return m.OpenFile(path, os.O_RDONLY, 0)
}

// OpenFile supports O_RDONLY, O_WRONLY, O_CREATE, O_EXCL and O_TRUNC. Written
// content becomes visible when the file is closed.
func (m *MockFileSystem) OpenFile(path string, flag int, perm os.FileMode) (File, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	path = clean(path)

	if m.dirs[path] {
		if flag&(os.O_WRONLY|os.O_RDWR) != 0 {
			return nil, pathErr("open", path, syscall.EISDIR)
		}
		return nil, pathErr("read", path, syscall.EISDIR)
	}

	data, exists := m.files[path]
	writing := flag&(os.O_WRONLY|os.O_RDWR) != 0

	if !writing {
		if err, ok := m.readErrors[path]; ok {
			return nil, err
		}
		if !exists {
			return nil, pathErr("open", path, fs.ErrNotExist)
		}
		return &mockFile{fs: m, path: path, reader: bytes.NewReader(append([]byte(nil), data...))}, nil
	}

	if err, ok := m.writeErrors[path]; ok {
		return nil, err
	}
	if exists && flag&os.O_CREATE != 0 && flag&os.O_EXCL != 0 {
		return nil, pathErr("open", path, fs.ErrExist)
	}
	if !exists {
		if flag&os.O_CREATE == 0 {
			return nil, pathErr("open", path, fs.ErrNotExist)
		}
		if !m.dirs[filepath.Dir(path)] {
			return nil, pathErr("open", path, fs.ErrNotExist)
		}
		m.files[path] = nil
		m.filePerms[path] = perm.Perm()
	}

	f := &mockFile{fs: m, path: path, writable: true}
	if flag&os.O_TRUNC == 0 {
		f.buf.Write(data)
	}
	return f, nil
}

func (m *MockFileSystem) RealPath(path string) (string, error) {
	return filepath.Abs(path)
}

func (m *MockFileSystem) addParents(path string) {
	for p := filepath.Dir(path); !m.dirs[p]; p = filepath.Dir(p) {
		m.dirs[p] = true
		m.dirPerms[p] = 0755
	}
}

func (m *MockFileSystem) hasChildren(path string) bool {
	prefix := path + string(filepath.Separator)
	if path == string(filepath.Separator) {
		prefix = path
	}
	for p := range m.files {
		if strings.HasPrefix(p, prefix) {
			return true
		}
	}
	for p := range m.dirs {
		if p != path && strings.HasPrefix(p, prefix) {
			return true
		}
	}
	return false
}

func (m *MockFileSystem) commit(path string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.files[path]; !ok {
		return pathErr("close", path, fs.ErrNotExist)
	}
	m.files[path] = data
	return nil
}

func clean(path string) string {
	if !filepath.IsAbs(path) {
		if abs, err := filepath.Abs(path); err == nil {
			return abs
		}
	}
	return filepath.Clean(path)
}

func pathErr(op, path string, err error) error {
	return &fs.PathError{Op: op, Path: path, Err: err}
}

// mockFile implements File
type mockFile struct {
	fs       *MockFileSystem
	path     string
	reader   *bytes.Reader
	buf      bytes.Buffer
	writable bool
	closed   bool
}

func (f *mockFile) Read(p []byte) (int, error) {
	if f.reader == nil {
		return 0, pathErr("read", f.path, errors.New("bad file descriptor"))
	}
	return f.reader.Read(p)
}

func (f *mockFile) Write(p []byte) (int, error) {
	if !f.writable {
		return 0, pathErr("write", f.path, errors.New("bad file descriptor"))
	}
	return f.buf.Write(p)
}

func (f *mockFile) Close() error {
	if f.closed {
		return pathErr("close", f.path, fs.ErrClosed)
	}
	f.closed = true
	if f.writable {
		return f.fs.commit(f.path, append([]byte(nil), f.buf.Bytes()...))
	}
	return nil
}

func (f *mockFile) Stat() (os.FileInfo, error) {
	return f.fs.Stat(f.path)
}

// mockFileInfo implements os.FileInfo
type mockFileInfo struct {
	name  string
	size  int64
	mode  os.FileMode
	isDir bool
}

func (m *mockFileInfo) Name() string       { return m.name }
func (m *mockFileInfo) Size() int64        { return m.size }
func (m *mockFileInfo) Mode() os.FileMode  { return m.mode }
func (m *mockFileInfo) ModTime() time.Time { return time.Time{} }
func (m *mockFileInfo) IsDir() bool        { return m.isDir }
func (m *mockFileInfo) Sys() interface{}   { return nil }

// mockDirEntry implements fs.DirEntry
type mockDirEntry struct {
	name  string
	isDir bool
}

func (m *mockDirEntry) Name() string { return m.name }
func (m *mockDirEntry) IsDir() bool  { return m.isDir }
func (m *mockDirEntry) Type() fs.FileMode {
	if m.isDir {
		return fs.ModeDir
	}
	return 0
}
func (m *mockDirEntry) Info() (fs.FileInfo, error) { return nil, errors.New("not implemented") }
