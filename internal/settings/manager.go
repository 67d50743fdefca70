package settings

import (
	"log/slog"
	"strings"
	"sync"
	"time"
)

// View is the read-only configuration surface handed to the scanner and
// the sync coordinator at construction time. Components never reach
// through to mutable settings.
type View interface {
	TaskTag() string
	ScanFolders() []string
	DefaultProjectID() string
	ProjectName(id string) (string, bool)
	ProjectIDByName(name string) (string, bool)
	ProjectBasePath(id string) string
	ResolveTagID(name string) (string, bool)
	PriorityName(derived string) string
	DefaultStatusName() string
}

// Manager wraps Settings with a mutex and write-through persistence.
// It implements View.
type Manager struct {
	mu   sync.RWMutex
	s    *Settings
	repo Repository
}

func NewManager(s *Settings, repo Repository) *Manager {
	return &Manager{s: s, repo: repo}
}

// Save persists the current settings. Failures are logged, not fatal;
// settings stay usable in memory.
func (m *Manager) Save() {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.repo == nil {
		return
	}
	if err := m.repo.Save(m.s); err != nil {
		slog.Warn("failed to save settings", "error", err)
	}
}

// Mutate runs fn under the write lock, then persists.
func (m *Manager) Mutate(fn func(*Settings)) {
	m.mu.Lock()
	fn(m.s)
	m.mu.Unlock()
	m.Save()
}

// Snapshot runs fn under the read lock.
func (m *Manager) Snapshot(fn func(*Settings)) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	fn(m.s)
}

func (m *Manager) TaskTag() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.s.TaskTag
}

func (m *Manager) ScanFolders() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]string(nil), m.s.ScanFolders...)
}

func (m *Manager) DefaultProjectID() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.s.DefaultProjectID
}

func (m *Manager) ProjectName(id string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if p := m.s.ProjectByID(id); p != nil {
		return p.Name, true
	}
	return "", false
}

func (m *Manager) ProjectIDByName(name string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if p := m.s.ProjectByName(name); p != nil {
		return p.ID, true
	}
	return "", false
}

func (m *Manager) ProjectBasePath(id string) string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if p := m.s.ProjectByID(id); p != nil {
		return p.ProjectsBasePath
	}
	return ""
}

func (m *Manager) ResolveTagID(name string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if t := m.s.TagByName(name); t != nil {
		return t.ID, true
	}
	return "", false
}

// PriorityName maps a derived priority label onto the configured option
// set by case-insensitive name match. Unknown labels pass through so a
// hand-typed priority survives until the option list catches up.
func (m *Manager) PriorityName(derived string) string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, o := range m.s.PriorityOptions {
		if strings.EqualFold(o.Name, derived) {
			return o.Name
		}
	}
	return derived
}

// DefaultStatusName is the status stamped onto newly imported tasks:
// the first configured status option.
func (m *Manager) DefaultStatusName() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if len(m.s.StatusOptions) == 0 {
		return ""
	}
	return m.s.StatusOptions[0].Name
}

// LastSync returns the project's last sync timestamp.
func (m *Manager) LastSync(projectID string) time.Time {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if p := m.s.ProjectByID(projectID); p != nil {
		return p.LastSyncTimestamp
	}
	return time.Time{}
}

// SetLastSync records a fresh sync timestamp and persists.
func (m *Manager) SetLastSync(projectID string, ts time.Time) {
	m.Mutate(func(s *Settings) {
		if p := s.ProjectByID(projectID); p != nil {
			p.LastSyncTimestamp = ts
		}
	})
}
