package settings

import (
	"path/filepath"
	"testing"
	"time"
)

func TestDeleteProjectFloor(t *testing.T) {
	s := Default()
	if s.DeleteProject("default") {
		t.Error("the last project must not be deletable")
	}
	if len(s.Projects) != 1 {
		t.Fatalf("got %d projects", len(s.Projects))
	}
}

func TestDeleteProjectReassignsPointers(t *testing.T) {
	s := Default()
	s.Projects = append(s.Projects, &Project{ID: "work", Name: "Work"})
	s.ActiveProjectID = "work"
	s.DefaultProjectID = "work"

	if !s.DeleteProject("work") {
		t.Fatal("delete should succeed with two projects")
	}
	if s.ActiveProjectID != "default" {
		t.Errorf("ActiveProjectID = %q", s.ActiveProjectID)
	}
	if s.DefaultProjectID != "default" {
		t.Errorf("DefaultProjectID = %q", s.DefaultProjectID)
	}
}

func TestDeleteOptionFloors(t *testing.T) {
	s := Default()
	for _, id := range []string{"critical", "high", "medium"} {
		if !s.DeletePriorityOption(id) {
			t.Fatalf("should delete priority %q", id)
		}
	}
	if s.DeletePriorityOption("low") {
		t.Error("the last priority option must survive")
	}

	if !s.DeleteStatusOption("todo") {
		t.Fatal("should delete status todo")
	}
	if !s.DeleteStatusOption("in-progress") {
		t.Fatal("should delete status in-progress")
	}
	if s.DeleteStatusOption("completed") {
		t.Error("the last status option must survive")
	}
}

func TestProjectByNameCaseInsensitive(t *testing.T) {
	s := Default()
	if p := s.ProjectByName("inbox"); p == nil || p.ID != "default" {
		t.Errorf("ProjectByName(inbox) = %+v", p)
	}
	if p := s.ProjectByName("nope"); p != nil {
		t.Errorf("unexpected match: %+v", p)
	}
}

func TestManagerPriorityName(t *testing.T) {
	m := NewManager(Default(), nil)
	if got := m.PriorityName("high"); got != "High" {
		t.Errorf("PriorityName(high) = %q", got)
	}
	// Unknown labels pass through untouched.
	if got := m.PriorityName("Someday"); got != "Someday" {
		t.Errorf("PriorityName(Someday) = %q", got)
	}
	if got := m.PriorityName(""); got != "" {
		t.Errorf("PriorityName(empty) = %q", got)
	}
}

func TestManagerDefaultStatusName(t *testing.T) {
	m := NewManager(Default(), nil)
	if got := m.DefaultStatusName(); got != "To Do" {
		t.Errorf("DefaultStatusName = %q", got)
	}
}

func TestManagerLastSync(t *testing.T) {
	m := NewManager(Default(), nil)
	if !m.LastSync("default").IsZero() {
		t.Error("fresh settings must have zero last sync")
	}
	ts := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)
	m.SetLastSync("default", ts)
	if !m.LastSync("default").Equal(ts) {
		t.Errorf("LastSync = %v", m.LastSync("default"))
	}
}

func TestYAMLRepositoryDefaults(t *testing.T) {
	repo := NewYAMLRepository(filepath.Join(t.TempDir(), "absent.yaml"))
	s, err := repo.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(s.Projects) == 0 || s.TaskTag == "" {
		t.Errorf("missing file must yield defaults: %+v", s)
	}
}

func TestYAMLRepositoryRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yaml")
	repo := NewYAMLRepository(path)

	s := Default()
	s.TaskTag = "todo"
	s.ScanFolders = []string{"Daily"}
	if err := repo.Save(s); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := repo.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.TaskTag != "todo" {
		t.Errorf("TaskTag = %q", loaded.TaskTag)
	}
	if len(loaded.ScanFolders) != 1 || loaded.ScanFolders[0] != "Daily" {
		t.Errorf("ScanFolders = %v", loaded.ScanFolders)
	}
}
