package scan

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/oklog/ulid/v2"
	"gopkg.in/yaml.v3"
)

// LocationMap binds (filePath, lineNumber) to a stable task ID so that
// re-scans recognize previously imported lines. Editing a line's content
// without moving it keeps its task identity; entries at locations no
// longer observed are pruned after each file scan.
type LocationMap struct {
	mu      sync.Mutex
	entries map[string]string
}

func NewLocationMap() *LocationMap {
	return &LocationMap{entries: make(map[string]string)}
}

func locationKey(path string, line int) string {
	return fmt.Sprintf("%s:%d", path, line)
}

// ResolveOrCreate returns the task ID bound to the location, minting a
// fresh one on first observation.
func (m *LocationMap) ResolveOrCreate(path string, line int) (id string, created bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := locationKey(path, line)
	if id, ok := m.entries[key]; ok {
		return id, false
	}
	id = ulid.Make().String()
	m.entries[key] = id
	return id, true
}

// Prune drops every entry for the file whose line number was not
// observed in the pass, returning the task IDs that lost their binding.
func (m *LocationMap) Prune(path string, observed map[int]bool) []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	var removed []string
	for line := range m.lines(path) {
		if !observed[line] {
			key := locationKey(path, line)
			removed = append(removed, m.entries[key])
			delete(m.entries, key)
		}
	}
	return removed
}

// lines returns the recorded line numbers for a file. Caller holds mu.
func (m *LocationMap) lines(path string) map[int]bool {
	out := make(map[int]bool)
	prefix := path + ":"
	for key := range m.entries {
		if !strings.HasPrefix(key, prefix) {
			continue
		}
		if line, err := strconv.Atoi(key[len(prefix):]); err == nil {
			out[line] = true
		}
	}
	return out
}

// Len reports the number of live entries.
func (m *LocationMap) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

// YAMLLocationRepository persists the location map alongside the other
// engine data files.
type YAMLLocationRepository struct {
	filePath string
}

func NewYAMLLocationRepository(filePath string) *YAMLLocationRepository {
	return &YAMLLocationRepository{filePath: filePath}
}

func (r *YAMLLocationRepository) Load(m *LocationMap) error {
	if _, err := os.Stat(r.filePath); os.IsNotExist(err) {
		return nil
	}
	content, err := os.ReadFile(r.filePath)
	if err != nil {
		return fmt.Errorf("failed to read locations file: %w", err)
	}
	entries := make(map[string]string)
	if err := yaml.Unmarshal(content, &entries); err != nil {
		return fmt.Errorf("failed to unmarshal locations: %w", err)
	}
	m.mu.Lock()
	m.entries = entries
	if m.entries == nil {
		m.entries = make(map[string]string)
	}
	m.mu.Unlock()
	return nil
}

func (r *YAMLLocationRepository) Save(m *LocationMap) error {
	m.mu.Lock()
	entries := make(map[string]string, len(m.entries))
	for k, v := range m.entries {
		entries[k] = v
	}
	m.mu.Unlock()

	dir := filepath.Dir(r.filePath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	content, err := yaml.Marshal(entries)
	if err != nil {
		return fmt.Errorf("failed to marshal locations: %w", err)
	}
	if err := os.WriteFile(r.filePath, content, 0644); err != nil {
		return fmt.Errorf("failed to write locations file: %w", err)
	}
	return nil
}
