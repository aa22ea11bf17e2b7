package fsutil

import "os"

// Default is the OS-backed Filesystem used by the package-level functions.
var Default = New()

// Mkdir calls Default.Mkdir.
func Mkdir(path string, mode os.FileMode) error {
	return Default.Mkdir(path, mode)
}

// CreateFile calls Default.CreateFile.
func CreateFile(path string, mode os.FileMode, content []byte) error {
	return Default.CreateFile(path, mode, content)
}

// DeleteFile calls Default.DeleteFile.
func DeleteFile(path string) error {
	return Default.DeleteFile(path)
}

// CopyFile calls Default.CopyFile.
func CopyFile(source, destination string) error {
	return Default.CopyFile(source, destination)
}

// MoveFile calls Default.MoveFile.
func MoveFile(source, destination string) error {
	return Default.MoveFile(source, destination)
}

// DeleteDirectory calls Default.DeleteDirectory.
func DeleteDirectory(path string) error {
	return Default.DeleteDirectory(path)
}

// CopyDirectory calls Default.CopyDirectory.
func CopyDirectory(source, destination string, opts Options) error {
	return Default.CopyDirectory(source, destination, opts)
}

// MoveDirectory calls Default.MoveDirectory.
func MoveDirectory(source, destination string, opts Options) error {
	return Default.MoveDirectory(source, destination, opts)
}

// GetFilesFromDirectory calls Default.GetFilesFromDirectory.
func GetFilesFromDirectory(directory string, opts Options) ([]string, error) {
	return Default.GetFilesFromDirectory(directory, opts)
}

// GetClassesFromDirectory calls Default.GetClassesFromDirectory.
func GetClassesFromDirectory(directory, namespace string, registry Registry, opts Options) ([]string, error) {
	return Default.GetClassesFromDirectory(directory, namespace, registry, opts)
}

// GetSourcesFromDirectory calls Default.GetSourcesFromDirectory.
func GetSourcesFromDirectory(directory, namespace string, opts Options) ([]string, error) {
	return Default.GetSourcesFromDirectory(directory, namespace, opts)
}

// Walk calls Default.Walk.
func Walk(root string, order TraversalOrder, opts Options, fn WalkFunc) ([]string, error) {
	return Default.Walk(root, order, opts, fn)
}
