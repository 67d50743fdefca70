package settings

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Repository persists Settings.
type Repository interface {
	Load() (*Settings, error)
	Save(s *Settings) error
}

// YAMLRepository implements Repository with YAML file persistence.
type YAMLRepository struct {
	filePath string
}

func NewYAMLRepository(filePath string) *YAMLRepository {
	return &YAMLRepository{filePath: filePath}
}

// Load reads the settings file; a missing file yields Default().
func (r *YAMLRepository) Load() (*Settings, error) {
	if _, err := os.Stat(r.filePath); os.IsNotExist(err) {
		return Default(), nil
	}
	content, err := os.ReadFile(r.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read settings file: %w", err)
	}
	var s Settings
	if err := yaml.Unmarshal(content, &s); err != nil {
		return nil, fmt.Errorf("failed to unmarshal settings: %w", err)
	}
	if len(s.Projects) == 0 {
		return Default(), nil
	}
	return &s, nil
}

// Save writes the settings file, creating the parent directory if
// needed.
func (r *YAMLRepository) Save(s *Settings) error {
	dir := filepath.Dir(r.filePath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	content, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}
	if err := os.WriteFile(r.filePath, content, 0644); err != nil {
		return fmt.Errorf("failed to write settings file: %w", err)
	}
	return nil
}
