package task

import (
	"strings"
	"sync"

	"github.com/oklog/ulid/v2"

	"github.com/taskvault/taskvault/pkg/cerr"
)

// ChangeKind classifies a store mutation for subscribers.
type ChangeKind int

const (
	ChangeCreated ChangeKind = iota + 1
	ChangeUpdated
	ChangeRenamed
	ChangeDeleted
)

// Change describes a single store mutation. For ChangeRenamed, OldTitle
// holds the title the task had before the mutation.
type Change struct {
	Kind     ChangeKind
	Task     *Task
	OldTitle string
}

// Update carries a partial field set for UpdateTask. Nil pointers leave
// the field untouched; set pointers overwrite, including to the zero
// value. Slice fields replace wholesale when non-nil.
type Update struct {
	Title            *string
	Status           *string
	Priority         *string
	Completed        *bool
	Description      *string
	ParentID         *string
	BucketID         *string
	Collapsed        *bool
	CreatedDate      *string
	LastModifiedDate *string
	StartDate        *string
	DueDate          *string
	Subtasks         []Subtask
	Dependencies     []Dependency
	Links            []Link
	Tags             []string
}

// Store is the authoritative in-memory task collection. All mutations
// notify subscribers synchronously, in registration order, on the
// mutating goroutine.
type Store struct {
	mu    sync.RWMutex
	tasks map[string]*Task
	order []string
	subs  []func(Change)
}

func NewStore() *Store {
	return &Store{tasks: make(map[string]*Task)}
}

// OnChange registers a synchronous change subscriber.
func (s *Store) OnChange(fn func(Change)) {
	s.mu.Lock()
	s.subs = append(s.subs, fn)
	s.mu.Unlock()
}

func (s *Store) notify(c Change) {
	s.mu.RLock()
	subs := append(([]func(Change))(nil), s.subs...)
	s.mu.RUnlock()
	for _, fn := range subs {
		fn(c)
	}
}

// GetTaskByID returns a copy of the task, or nil when absent.
func (s *Store) GetTaskByID(id string) *Task {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.tasks[id]
	if !ok {
		return nil
	}
	return t.Clone()
}

// GetAll returns copies of every task in display order.
func (s *Store) GetAll() []*Task {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*Task, 0, len(s.order))
	for _, id := range s.order {
		if t, ok := s.tasks[id]; ok {
			out = append(out, t.Clone())
		}
	}
	return out
}

// GetLeafTasks returns tasks that have no children. Parents are excluded
// from board and daily-scan views.
func (s *Store) GetLeafTasks() []*Task {
	s.mu.RLock()
	hasChild := make(map[string]bool)
	for _, t := range s.tasks {
		if t.ParentID != "" {
			hasChild[t.ParentID] = true
		}
	}
	var out []*Task
	for _, id := range s.order {
		if t, ok := s.tasks[id]; ok && !hasChild[t.ID] {
			out = append(out, t.Clone())
		}
	}
	s.mu.RUnlock()
	return out
}

// AddTask creates a task with a fresh ID from a bare title.
func (s *Store) AddTask(title string) *Task {
	t := &Task{
		ID:    ulid.Make().String(),
		Title: normalizeTitle(title),
	}
	s.mu.Lock()
	s.tasks[t.ID] = t
	s.order = append(s.order, t.ID)
	s.mu.Unlock()
	s.notify(Change{Kind: ChangeCreated, Task: t.Clone()})
	return t.Clone()
}

// AddTaskFromObject inserts or replaces a task by ID. A replace that
// changes the title is reported as a rename so subscribers can relocate
// derived artifacts.
func (s *Store) AddTaskFromObject(t *Task) {
	if t == nil || t.ID == "" {
		return
	}
	in := t.Clone()
	in.Title = normalizeTitle(in.Title)

	s.mu.Lock()
	prev, existed := s.tasks[in.ID]
	if existed && s.wouldCycleLocked(in.ID, in.ParentID) {
		in.ParentID = prev.ParentID
	}
	s.tasks[in.ID] = in
	if !existed {
		s.order = append(s.order, in.ID)
	}
	var oldTitle string
	if existed {
		oldTitle = prev.Title
	}
	s.mu.Unlock()

	switch {
	case !existed:
		s.notify(Change{Kind: ChangeCreated, Task: in.Clone()})
	case oldTitle != in.Title:
		s.notify(Change{Kind: ChangeRenamed, Task: in.Clone(), OldTitle: oldTitle})
	default:
		s.notify(Change{Kind: ChangeUpdated, Task: in.Clone()})
	}
}

// UpdateTask applies a partial update. A parent change that would make
// the task its own ancestor is rejected.
func (s *Store) UpdateTask(id string, u Update) error {
	s.mu.Lock()
	t, ok := s.tasks[id]
	if !ok {
		s.mu.Unlock()
		return cerr.NewError(cerr.NotFound, "task not found", nil)
	}
	if u.ParentID != nil && s.wouldCycleLocked(id, *u.ParentID) {
		s.mu.Unlock()
		return cerr.NewError(cerr.FailedPrecondition, "parent change would create a cycle", nil)
	}
	oldTitle := t.Title
	applyUpdate(t, u)
	out := t.Clone()
	s.mu.Unlock()

	if out.Title != oldTitle {
		s.notify(Change{Kind: ChangeRenamed, Task: out, OldTitle: oldTitle})
	} else {
		s.notify(Change{Kind: ChangeUpdated, Task: out})
	}
	return nil
}

// DeleteTask removes a task. Dependents keep their now-dangling
// references; they are rendered degraded, never cascaded.
func (s *Store) DeleteTask(id string) {
	s.mu.Lock()
	t, ok := s.tasks[id]
	if !ok {
		s.mu.Unlock()
		return
	}
	delete(s.tasks, id)
	for i, oid := range s.order {
		if oid == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	out := t.Clone()
	s.mu.Unlock()
	s.notify(Change{Kind: ChangeDeleted, Task: out})
}

// AddTaskToProject assigns the task to a project and inserts it if the
// store does not hold it yet.
func (s *Store) AddTaskToProject(t *Task, projectID string) {
	if t == nil {
		return
	}
	in := t.Clone()
	in.ProjectID = projectID
	s.AddTaskFromObject(in)
}

// SetOrder replaces the display order. Unknown IDs are ignored; tasks
// missing from the sequence keep their relative position at the end.
func (s *Store) SetOrder(ids []string) {
	s.mu.Lock()
	seen := make(map[string]bool, len(ids))
	next := make([]string, 0, len(s.order))
	for _, id := range ids {
		if _, ok := s.tasks[id]; ok && !seen[id] {
			next = append(next, id)
			seen[id] = true
		}
	}
	for _, id := range s.order {
		if !seen[id] {
			next = append(next, id)
		}
	}
	s.order = next
	s.mu.Unlock()
}

// wouldCycleLocked reports whether parenting id under parentID makes id
// its own ancestor. Caller holds mu.
func (s *Store) wouldCycleLocked(id, parentID string) bool {
	for cur := parentID; cur != ""; {
		if cur == id {
			return true
		}
		p, ok := s.tasks[cur]
		if !ok {
			return false
		}
		cur = p.ParentID
	}
	return false
}

func applyUpdate(t *Task, u Update) {
	if u.Title != nil {
		t.Title = normalizeTitle(*u.Title)
	}
	if u.Status != nil {
		t.Status = *u.Status
	}
	if u.Priority != nil {
		t.Priority = *u.Priority
	}
	if u.Completed != nil {
		t.Completed = *u.Completed
	}
	if u.Description != nil {
		t.Description = *u.Description
	}
	if u.ParentID != nil {
		t.ParentID = *u.ParentID
	}
	if u.BucketID != nil {
		t.BucketID = *u.BucketID
	}
	if u.Collapsed != nil {
		t.Collapsed = *u.Collapsed
	}
	if u.CreatedDate != nil {
		t.CreatedDate = *u.CreatedDate
	}
	if u.LastModifiedDate != nil {
		t.LastModifiedDate = *u.LastModifiedDate
	}
	if u.StartDate != nil {
		t.StartDate = *u.StartDate
	}
	if u.DueDate != nil {
		t.DueDate = *u.DueDate
	}
	if u.Subtasks != nil {
		t.Subtasks = append([]Subtask(nil), u.Subtasks...)
	}
	if u.Dependencies != nil {
		t.Dependencies = append([]Dependency(nil), u.Dependencies...)
	}
	if u.Links != nil {
		t.Links = append([]Link(nil), u.Links...)
	}
	if u.Tags != nil {
		t.Tags = append([]string(nil), u.Tags...)
	}
}

func normalizeTitle(title string) string {
	title = strings.TrimSpace(title)
	if title == "" {
		return PlaceholderTitle
	}
	return title
}
