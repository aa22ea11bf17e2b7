package fsutil

import (
	"errors"
	"fmt"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestError_Kinds(t *testing.T) {
	dirErr := directoryNotExists("copy", "/src")
	fileErr := fileNotFound("delete", "/a.txt")
	genErr := newError("mkdir", "/x", fs.ErrPermission)

	assert.ErrorIs(t, dirErr, ErrDirectoryNotExists)
	assert.ErrorIs(t, dirErr, ErrFilesystem)
	assert.NotErrorIs(t, dirErr, ErrFileNotFound)

	assert.ErrorIs(t, fileErr, ErrFileNotFound)
	assert.ErrorIs(t, fileErr, ErrFilesystem)

	assert.ErrorIs(t, genErr, ErrFilesystem)
	assert.ErrorIs(t, genErr, fs.ErrPermission)
	assert.NotErrorIs(t, genErr, ErrFileNotFound)
}

func TestError_Messages(t *testing.T) {
	assert.Equal(t, `copy: directory "/src" does not exist`, directoryNotExists("copy", "/src").Error())
	assert.Equal(t, `delete: file "/a.txt" not found`, fileNotFound("delete", "/a.txt").Error())
	assert.Equal(t, "mkdir /x: permission denied", newError("mkdir", "/x", fs.ErrPermission).Error())
}

func TestError_AsThroughWrapping(t *testing.T) {
	wrapped := fmt.Errorf("sync failed: %w", fileNotFound("copy", "/gone"))

	var fsErr *Error
	if assert.True(t, errors.As(wrapped, &fsErr)) {
		assert.Equal(t, "/gone", fsErr.Path)
		assert.Equal(t, ErrFileNotFound, fsErr.Kind())
	}
	assert.Equal(t, ErrFilesystem, newError("x", "y", nil).(*Error).Kind())
}

func TestKindName(t *testing.T) {
	assert.Equal(t, "directory-not-exists", KindName(directoryNotExists("op", "p")))
	assert.Equal(t, "file-not-found", KindName(fileNotFound("op", "p")))
	assert.Equal(t, "filesystem", KindName(newError("op", "p", errors.New("io"))))
	assert.Equal(t, "error", KindName(errors.New("other")))
}
