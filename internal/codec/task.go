package codec

import (
	"strings"

	"github.com/oklog/ulid/v2"

	"github.com/taskvault/taskvault/internal/task"
)

// MarkdownToTask parses a task document back into a task record. It
// returns nil when the header is absent or missing the required id and
// title fields; a parse failure is "nothing to sync", never an error.
// Body parse problems degrade to a header-only task.
func MarkdownToTask(text, projectID string) *task.Task {
	headerText, body, ok := splitFrontmatter(text)
	if !ok {
		return nil
	}
	h := parseHeader(headerText)
	if h == nil || h.ID == "" || h.Title == "" {
		return nil
	}

	t := &task.Task{
		ID:               h.ID,
		ProjectID:        projectID,
		Title:            h.Title,
		Status:           h.Status,
		Priority:         h.Priority,
		Completed:        h.Completed,
		ParentID:         h.ParentID,
		BucketID:         h.BucketID,
		Collapsed:        h.Collapsed,
		CreatedDate:      h.CreatedDate,
		LastModifiedDate: h.LastModifiedDate,
		StartDate:        h.StartDate,
		DueDate:          h.DueDate,
	}
	if len(h.Tags) > 0 {
		t.Tags = append([]string(nil), h.Tags...)
	}
	for _, entry := range h.Dependencies {
		if d, ok := parseDependency(entry); ok {
			t.Dependencies = append(t.Dependencies, d)
		}
	}

	parts := ParseDocument(body)
	t.Description = parts.Description
	for _, st := range parts.Subtasks {
		st.ID = ulid.Make().String()
		t.Subtasks = append(t.Subtasks, st)
	}
	for _, l := range parts.Links {
		l.ID = ulid.Make().String()
		t.Links = append(t.Links, l)
	}
	return t
}

// parseDependency splits a header entry of the form TYPE:predecessorId.
// Entries with an unknown type or no predecessor are dropped, not
// invented.
func parseDependency(entry string) (task.Dependency, bool) {
	typ, id, found := strings.Cut(entry, ":")
	if !found {
		return task.Dependency{}, false
	}
	d := task.Dependency{
		Type:          task.DepType(strings.ToUpper(strings.TrimSpace(typ))),
		PredecessorID: strings.TrimSpace(id),
	}
	if !d.Type.IsValid() || d.PredecessorID == "" {
		return task.Dependency{}, false
	}
	return d, true
}
