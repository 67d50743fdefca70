package settings

import (
	"strings"
	"time"
)

// Option is one entry of a project-configurable option set (statuses,
// priorities). Option sets are mutable lists, not hardcoded enums.
type Option struct {
	ID    string `yaml:"id"`
	Name  string `yaml:"name"`
	Color string `yaml:"color"`
}

// Tag is a project-level tag definition.
type Tag struct {
	ID    string `yaml:"id"`
	Name  string `yaml:"name"`
	Color string `yaml:"color"`
}

// Bucket is a named board column grouping tasks independently of status.
type Bucket struct {
	ID   string `yaml:"id"`
	Name string `yaml:"name"`
}

// Project owns a task collection, a board layout, and per-project sync
// metadata.
type Project struct {
	ID                string    `yaml:"id"`
	Name              string    `yaml:"name"`
	Buckets           []Bucket  `yaml:"buckets,omitempty"`
	LastSyncTimestamp time.Time `yaml:"last_sync_timestamp,omitempty"`
	ProjectsBasePath  string    `yaml:"projects_base_path,omitempty"`
}

// Settings is the mutable user configuration persisted as YAML.
type Settings struct {
	Projects         []*Project `yaml:"projects"`
	ActiveProjectID  string     `yaml:"active_project_id,omitempty"`
	DefaultProjectID string     `yaml:"default_project_id,omitempty"`
	StatusOptions    []Option   `yaml:"status_options"`
	PriorityOptions  []Option   `yaml:"priority_options"`
	Tags             []Tag      `yaml:"tags,omitempty"`
	TaskTag          string     `yaml:"task_tag"`
	ScanFolders      []string   `yaml:"scan_folders,omitempty"`
}

// Default returns the settings a fresh vault starts with.
func Default() *Settings {
	return &Settings{
		Projects: []*Project{
			{ID: "default", Name: "Inbox"},
		},
		ActiveProjectID:  "default",
		DefaultProjectID: "default",
		StatusOptions: []Option{
			{ID: "todo", Name: "To Do", Color: "#999999"},
			{ID: "in-progress", Name: "In Progress", Color: "#3b82f6"},
			{ID: "completed", Name: "Completed", Color: "#22c55e"},
		},
		PriorityOptions: []Option{
			{ID: "critical", Name: "Critical", Color: "#ef4444"},
			{ID: "high", Name: "High", Color: "#f97316"},
			{ID: "medium", Name: "Medium", Color: "#eab308"},
			{ID: "low", Name: "Low", Color: "#22c55e"},
		},
		TaskTag: "planner",
	}
}

// ProjectByID returns the project or nil.
func (s *Settings) ProjectByID(id string) *Project {
	for _, p := range s.Projects {
		if p.ID == id {
			return p
		}
	}
	return nil
}

// ProjectByName matches case-insensitively.
func (s *Settings) ProjectByName(name string) *Project {
	for _, p := range s.Projects {
		if strings.EqualFold(p.Name, name) {
			return p
		}
	}
	return nil
}

// DeleteProject removes a project. The last remaining project may never
// be deleted; deleting the active project reassigns the active pointer
// to the first remaining project. Returns whether anything changed.
func (s *Settings) DeleteProject(id string) bool {
	if len(s.Projects) <= 1 {
		return false
	}
	for i, p := range s.Projects {
		if p.ID != id {
			continue
		}
		s.Projects = append(s.Projects[:i], s.Projects[i+1:]...)
		if s.ActiveProjectID == id {
			s.ActiveProjectID = s.Projects[0].ID
		}
		if s.DefaultProjectID == id {
			s.DefaultProjectID = s.Projects[0].ID
		}
		return true
	}
	return false
}

// DeleteStatusOption removes a status option unless it is the last one.
func (s *Settings) DeleteStatusOption(id string) bool {
	var changed bool
	s.StatusOptions, changed = deleteOption(s.StatusOptions, id)
	return changed
}

// DeletePriorityOption removes a priority option unless it is the last one.
func (s *Settings) DeletePriorityOption(id string) bool {
	var changed bool
	s.PriorityOptions, changed = deleteOption(s.PriorityOptions, id)
	return changed
}

func deleteOption(opts []Option, id string) ([]Option, bool) {
	if len(opts) <= 1 {
		return opts, false
	}
	for i, o := range opts {
		if o.ID == id {
			return append(opts[:i], opts[i+1:]...), true
		}
	}
	return opts, false
}

// TagByName matches case-insensitively; unmatched names resolve to nil,
// never to a fabricated tag.
func (s *Settings) TagByName(name string) *Tag {
	for i := range s.Tags {
		if strings.EqualFold(s.Tags[i].Name, name) {
			return &s.Tags[i]
		}
	}
	return nil
}
