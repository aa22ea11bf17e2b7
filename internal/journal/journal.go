package journal

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"sort"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"github.com/HenrikKarapetyan/filesystem/internal/filesystem"
)

const lockFileName = ".journal.lock"

// Record is one mutating operation performed by the CLI
type Record struct {
	ID          string    `json:"id"`
	Op          string    `json:"op"`
	Source      string    `json:"source"`
	Destination string    `json:"destination,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
	Error       string    `json:"error,omitempty"`
}

// Failed reports whether the operation returned an error
func (r Record) Failed() bool {
	return r.Error != ""
}

// Session groups the records of one CLI invocation
type Session struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Records   []Record  `json:"records"`
}

// Locker serializes journal writes across processes
type Locker interface {
	Lock() error
	Unlock() error
}

// Manager keeps the current session and persists it under dir
type Manager struct {
	dir            string
	fs             filesystem.FileSystem
	lock           Locker
	currentSession *Session
}

// NewManager creates a journal manager that locks dir/.journal.lock while saving
func NewManager(dir string) (*Manager, error) {
	return NewManagerWithFS(dir, filesystem.NewOSFileSystem(), flock.New(filepath.Join(dir, lockFileName)))
}

// NewManagerWithFS creates a journal manager with a custom FileSystem and lock (for testing)
func NewManagerWithFS(dir string, fs filesystem.FileSystem, lock Locker) (*Manager, error) {
	if err := fs.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create journal directory: %w", err)
	}

	now := time.Now()
	return &Manager{
		dir:  dir,
		fs:   fs,
		lock: lock,
		currentSession: &Session{
			ID:        uuid.NewString(),
			CreatedAt: now,
			UpdatedAt: now,
			Records:   make([]Record, 0),
		},
	}, nil
}

// Append records an operation in the current session. opErr may be nil.
func (m *Manager) Append(op, source, destination string, opErr error) Record {
	record := Record{
		ID:          uuid.NewString(),
		Op:          op,
		Source:      source,
		Destination: destination,
		Timestamp:   time.Now(),
	}
	if opErr != nil {
		record.Error = opErr.Error()
	}

	m.currentSession.Records = append(m.currentSession.Records, record)
	m.currentSession.UpdatedAt = record.Timestamp
	return record
}

// Save writes the current session to <dir>/<id>.json. The file is written to a
// temporary name and renamed into place while holding the journal lock.
func (m *Manager) Save() error {
	data, err := json.MarshalIndent(m.currentSession, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	if err := m.lock.Lock(); err != nil {
		return fmt.Errorf("failed to acquire journal lock: %w", err)
	}
	defer m.lock.Unlock()

	sessionFile := m.sessionFile(m.currentSession.ID)
	tmpFile := sessionFile + ".tmp"

	if err := m.fs.WriteFile(tmpFile, data, 0644); err != nil {
		return fmt.Errorf("failed to write session file: %w", err)
	}
	if err := m.fs.Rename(tmpFile, sessionFile); err != nil {
		m.fs.Remove(tmpFile)
		return fmt.Errorf("failed to write session file: %w", err)
	}

	return nil
}

// LoadSession reads a saved session by ID
func (m *Manager) LoadSession(sessionID string) (*Session, error) {
	if _, err := uuid.Parse(sessionID); err != nil {
		return nil, fmt.Errorf("invalid session id %q: %w", sessionID, err)
	}

	data, err := m.fs.ReadFile(m.sessionFile(sessionID))
	if err != nil {
		return nil, fmt.Errorf("failed to read session file: %w", err)
	}

	var session Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}

	return &session, nil
}

// ListSessions lists all saved sessions, oldest first. Unreadable files are skipped.
func (m *Manager) ListSessions() ([]Session, error) {
	files, err := m.fs.ReadDir(m.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read journal directory: %w", err)
	}

	var sessions []Session
	for _, file := range files {
		if file.IsDir() || filepath.Ext(file.Name()) != ".json" {
			continue
		}

		data, err := m.fs.ReadFile(filepath.Join(m.dir, file.Name()))
		if err != nil {
			continue
		}

		var session Session
		if err := json.Unmarshal(data, &session); err != nil {
			continue
		}

		sessions = append(sessions, session)
	}

	sort.SliceStable(sessions, func(i, j int) bool {
		return sessions[i].CreatedAt.Before(sessions[j].CreatedAt)
	})
	return sessions, nil
}

// GetCurrentSession returns the current session
func (m *Manager) GetCurrentSession() *Session {
	return m.currentSession
}

func (m *Manager) sessionFile(id string) string {
	return filepath.Join(m.dir, id+".json")
}
