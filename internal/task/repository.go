package task

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// YAMLRepository persists a Store snapshot to a single YAML file. The
// markdown documents remain the user-facing representation; this file is
// the plugin-data equivalent the store reloads on startup.
type YAMLRepository struct {
	filePath string
}

// NewYAMLRepository creates a repository writing to filePath.
func NewYAMLRepository(filePath string) *YAMLRepository {
	return &YAMLRepository{filePath: filePath}
}

// StoreData is the on-disk structure of the tasks file.
type StoreData struct {
	Tasks []*Task  `yaml:"tasks"`
	Order []string `yaml:"order,omitempty"`
}

// Load reads the snapshot into the store. A missing file is an empty
// store, not an error.
func (r *YAMLRepository) Load(s *Store) error {
	if _, err := os.Stat(r.filePath); os.IsNotExist(err) {
		return nil
	}
	content, err := os.ReadFile(r.filePath)
	if err != nil {
		return fmt.Errorf("failed to read tasks file: %w", err)
	}
	var data StoreData
	if err := yaml.Unmarshal(content, &data); err != nil {
		return fmt.Errorf("failed to unmarshal tasks file: %w", err)
	}
	s.mu.Lock()
	s.tasks = make(map[string]*Task, len(data.Tasks))
	s.order = s.order[:0]
	for _, t := range data.Tasks {
		if t == nil || t.ID == "" {
			continue
		}
		s.tasks[t.ID] = t
		s.order = append(s.order, t.ID)
	}
	s.mu.Unlock()
	if len(data.Order) > 0 {
		s.SetOrder(data.Order)
	}
	return nil
}

// Save writes the store snapshot.
func (r *YAMLRepository) Save(s *Store) error {
	data := &StoreData{Tasks: s.GetAll()}
	for _, t := range data.Tasks {
		data.Order = append(data.Order, t.ID)
	}

	dir := filepath.Dir(r.filePath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	content, err := yaml.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal tasks: %w", err)
	}
	if err := os.WriteFile(r.filePath, content, 0644); err != nil {
		return fmt.Errorf("failed to write tasks file: %w", err)
	}
	return nil
}
