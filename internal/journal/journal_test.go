package journal

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/HenrikKarapetyan/filesystem/internal/filesystem"
)

type mockLock struct {
	locks   int
	unlocks int
	err     error
}

func (l *mockLock) Lock() error {
	if l.err != nil {
		return l.err
	}
	l.locks++
	return nil
}

func (l *mockLock) Unlock() error {
	l.unlocks++
	return nil
}

func newTestManager(t *testing.T) (*Manager, *filesystem.MockFileSystem, *mockLock) {
	t.Helper()
	mockFS := filesystem.NewMockFileSystem()
	lock := &mockLock{}
	manager, err := NewManagerWithFS("/test/journal", mockFS, lock)
	if err != nil {
		t.Fatalf("NewManagerWithFS() failed: %v", err)
	}
	return manager, mockFS, lock
}

func TestNewManager(t *testing.T) {
	manager, mockFS, _ := newTestManager(t)

	if !mockFS.HasDir("/test/journal") {
		t.Error("Expected journal directory to be created")
	}
	if manager.currentSession == nil {
		t.Fatal("Expected currentSession to be initialized, got nil")
	}
	if _, err := uuid.Parse(manager.currentSession.ID); err != nil {
		t.Errorf("Expected session id to be a UUID, got %q", manager.currentSession.ID)
	}
}

func TestNewManager_MkdirError(t *testing.T) {
	mockFS := filesystem.NewMockFileSystem()
	mockFS.SetMkdirError("/test/journal", os.ErrPermission)

	if _, err := NewManagerWithFS("/test/journal", mockFS, &mockLock{}); err == nil {
		t.Error("Expected error when journal directory cannot be created, got nil")
	}
}

func TestAppend(t *testing.T) {
	manager, _, _ := newTestManager(t)

	ok := manager.Append("cpdir", "/src", "/dst", nil)
	failed := manager.Append("rm", "/gone.txt", "", errors.New(`delete: file "/gone.txt" not found`))

	records := manager.GetCurrentSession().Records
	if len(records) != 2 {
		t.Fatalf("Expected 2 records, got %d", len(records))
	}
	if ok.ID == failed.ID {
		t.Error("Expected distinct record ids")
	}
	if records[0].Op != "cpdir" || records[0].Destination != "/dst" {
		t.Errorf("Unexpected first record %+v", records[0])
	}
	if ok.Failed() {
		t.Error("Expected successful record not to be failed")
	}
	if !failed.Failed() {
		t.Error("Expected record with error to be failed")
	}
	if manager.GetCurrentSession().UpdatedAt != failed.Timestamp {
		t.Error("Expected UpdatedAt to follow the last record")
	}
}

func TestSave(t *testing.T) {
	manager, mockFS, lock := newTestManager(t)
	manager.Append("mkdir", "/a/b", "", nil)

	if err := manager.Save(); err != nil {
		t.Fatalf("Save() failed: %v", err)
	}

	sessionFile := filepath.Join("/test/journal", manager.GetCurrentSession().ID+".json")
	data := mockFS.GetFile(sessionFile)
	if len(data) == 0 {
		t.Fatal("Expected session file to be written")
	}
	if mockFS.HasFile(sessionFile + ".tmp") {
		t.Error("Expected temporary file to be renamed away")
	}

	var saved Session
	if err := json.Unmarshal(data, &saved); err != nil {
		t.Fatalf("Saved session is not valid JSON: %v", err)
	}
	if len(saved.Records) != 1 || saved.Records[0].Source != "/a/b" {
		t.Errorf("Unexpected saved records %+v", saved.Records)
	}

	if lock.locks != 1 || lock.unlocks != 1 {
		t.Errorf("Expected one lock/unlock pair, got %d/%d", lock.locks, lock.unlocks)
	}
}

func TestSave_LockError(t *testing.T) {
	manager, mockFS, lock := newTestManager(t)
	lock.err = errors.New("locked")

	if err := manager.Save(); err == nil {
		t.Fatal("Expected error when lock cannot be acquired, got nil")
	}
	if mockFS.HasFile(filepath.Join("/test/journal", manager.GetCurrentSession().ID+".json")) {
		t.Error("Expected nothing to be written without the lock")
	}
}

func TestSave_WriteError(t *testing.T) {
	manager, mockFS, lock := newTestManager(t)
	tmp := filepath.Join("/test/journal", manager.GetCurrentSession().ID+".json.tmp")
	mockFS.SetWriteError(tmp, os.ErrPermission)

	if err := manager.Save(); err == nil {
		t.Error("Expected error for write failure, got nil")
	}
	if lock.unlocks != 1 {
		t.Error("Expected lock to be released after a failed write")
	}
}

func TestLoadSession(t *testing.T) {
	manager, _, _ := newTestManager(t)
	manager.Append("touch", "/f.txt", "", nil)
	if err := manager.Save(); err != nil {
		t.Fatalf("Save() failed: %v", err)
	}

	session, err := manager.LoadSession(manager.GetCurrentSession().ID)
	if err != nil {
		t.Fatalf("LoadSession() failed: %v", err)
	}
	if len(session.Records) != 1 || session.Records[0].Op != "touch" {
		t.Errorf("Unexpected loaded records %+v", session.Records)
	}
}

func TestLoadSession_InvalidID(t *testing.T) {
	manager, _, _ := newTestManager(t)

	if _, err := manager.LoadSession("../config"); err == nil {
		t.Error("Expected error for non-UUID session id, got nil")
	}
}

func TestLoadSession_NotFound(t *testing.T) {
	manager, _, _ := newTestManager(t)

	if _, err := manager.LoadSession(uuid.NewString()); err == nil {
		t.Error("Expected error for missing session, got nil")
	}
}

func TestLoadSession_InvalidJSON(t *testing.T) {
	manager, mockFS, _ := newTestManager(t)
	id := uuid.NewString()
	mockFS.AddFile(filepath.Join("/test/journal", id+".json"), []byte("{ invalid json }"), 0644)

	if _, err := manager.LoadSession(id); err == nil {
		t.Error("Expected error for invalid JSON, got nil")
	}
}

func TestListSessions(t *testing.T) {
	manager, mockFS, _ := newTestManager(t)

	older := Session{ID: uuid.NewString(), CreatedAt: time.Now().Add(-time.Hour)}
	data, _ := json.Marshal(older)
	mockFS.AddFile(filepath.Join("/test/journal", older.ID+".json"), data, 0644)
	mockFS.AddFile("/test/journal/broken.json", []byte("nope"), 0644)
	mockFS.AddFile("/test/journal/notes.txt", []byte("ignored"), 0644)

	if err := manager.Save(); err != nil {
		t.Fatalf("Save() failed: %v", err)
	}

	sessions, err := manager.ListSessions()
	if err != nil {
		t.Fatalf("ListSessions() failed: %v", err)
	}
	if len(sessions) != 2 {
		t.Fatalf("Expected 2 sessions, got %d", len(sessions))
	}
	if sessions[0].ID != older.ID {
		t.Errorf("Expected oldest session first, got %s", sessions[0].ID)
	}
	if sessions[1].ID != manager.GetCurrentSession().ID {
		t.Errorf("Expected current session last, got %s", sessions[1].ID)
	}
}

func TestListSessions_Empty(t *testing.T) {
	manager, _, _ := newTestManager(t)

	sessions, err := manager.ListSessions()
	if err != nil {
		t.Fatalf("ListSessions() failed: %v", err)
	}
	if len(sessions) != 0 {
		t.Errorf("Expected no sessions, got %d", len(sessions))
	}
}

func TestNewManager_FileLock(t *testing.T) {
	dir := t.TempDir()

	manager, err := NewManager(dir)
	if err != nil {
		t.Fatalf("NewManager() failed: %v", err)
	}
	manager.Append("cp", "/a", "/b", nil)
	if err := manager.Save(); err != nil {
		t.Fatalf("Save() failed: %v", err)
	}

	if _, err := os.Stat(filepath.Join(dir, lockFileName)); err != nil {
		t.Errorf("Expected lock file to exist: %v", err)
	}

	// the lock file is not a session
	sessions, err := manager.ListSessions()
	if err != nil {
		t.Fatalf("ListSessions() failed: %v", err)
	}
	if len(sessions) != 1 {
		t.Errorf("Expected 1 session, got %d", len(sessions))
	}
}
