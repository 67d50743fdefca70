package task

// DepType is a dependency relation between a task and its predecessor.
type DepType string

const (
	DepFinishToStart  DepType = "FS"
	DepStartToStart   DepType = "SS"
	DepFinishToFinish DepType = "FF"
	DepStartToFinish  DepType = "SF"
)

// IsValid reports whether t is one of the four known relation types.
func (t DepType) IsValid() bool {
	switch t {
	case DepFinishToStart, DepStartToStart, DepFinishToFinish, DepStartToFinish:
		return true
	}
	return false
}

// LinkType distinguishes vault-internal wiki links from external URLs.
type LinkType string

const (
	LinkObsidian LinkType = "obsidian"
	LinkExternal LinkType = "external"
)

// Subtask is a single checklist entry under a task. Order is display
// order, not significance order.
type Subtask struct {
	ID        string `yaml:"id"`
	Title     string `yaml:"title"`
	Completed bool   `yaml:"completed"`
}

// Dependency references a predecessor task in the same project. The
// predecessor may be dangling; dangling references are rendered degraded
// but never auto-removed.
type Dependency struct {
	Type          DepType `yaml:"type"`
	PredecessorID string  `yaml:"predecessor_id"`
}

// Link is an ordered reference attached to a task.
type Link struct {
	ID    string   `yaml:"id"`
	Title string   `yaml:"title"`
	URL   string   `yaml:"url"`
	Type  LinkType `yaml:"type"`
}

// Task represents a unit of trackable work. Status and Priority are
// option names drawn from the project-configurable option sets, not
// hardcoded enums. Date fields are ISO YYYY-MM-DD strings; empty means
// absent.
type Task struct {
	ID               string       `yaml:"id"`
	ProjectID        string       `yaml:"project_id"`
	Title            string       `yaml:"title"`
	Status           string       `yaml:"status"`
	Priority         string       `yaml:"priority,omitempty"`
	Completed        bool         `yaml:"completed"`
	Description      string       `yaml:"description,omitempty"`
	Subtasks         []Subtask    `yaml:"subtasks,omitempty"`
	Dependencies     []Dependency `yaml:"dependencies,omitempty"`
	Links            []Link       `yaml:"links,omitempty"`
	Tags             []string     `yaml:"tags,omitempty"`
	ParentID         string       `yaml:"parent_id,omitempty"`
	BucketID         string       `yaml:"bucket_id,omitempty"`
	Collapsed        bool         `yaml:"collapsed,omitempty"`
	CreatedDate      string       `yaml:"created_date,omitempty"`
	LastModifiedDate string       `yaml:"last_modified_date,omitempty"`
	StartDate        string       `yaml:"start_date,omitempty"`
	DueDate          string       `yaml:"due_date,omitempty"`
}

// PlaceholderTitle is used when a title trims down to nothing.
const PlaceholderTitle = "Untitled Task"

// Clone returns a deep copy so callers can mutate without aliasing the
// store's record.
func (t *Task) Clone() *Task {
	c := *t
	if t.Subtasks != nil {
		c.Subtasks = append([]Subtask(nil), t.Subtasks...)
	}
	if t.Dependencies != nil {
		c.Dependencies = append([]Dependency(nil), t.Dependencies...)
	}
	if t.Links != nil {
		c.Links = append([]Link(nil), t.Links...)
	}
	if t.Tags != nil {
		c.Tags = append([]string(nil), t.Tags...)
	}
	return &c
}
