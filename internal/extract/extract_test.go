package extract

import (
	"reflect"
	"testing"
)

func TestChecklistParts(t *testing.T) {
	tests := []struct {
		line      string
		completed bool
		rest      string
		ok        bool
	}{
		{"- [ ] buy milk", false, "buy milk", true},
		{"- [x] buy milk", true, "buy milk", true},
		{"- [X] buy milk", true, "buy milk", true},
		{"  - [ ] indented", false, "indented", true},
		{"- buy milk", false, "", false},
		{"buy milk", false, "", false},
		{"", false, "", false},
	}
	for _, tt := range tests {
		completed, rest, ok := ChecklistParts(tt.line)
		if ok != tt.ok || completed != tt.completed || rest != tt.rest {
			t.Errorf("ChecklistParts(%q) = (%v, %q, %v), want (%v, %q, %v)",
				tt.line, completed, rest, ok, tt.completed, tt.rest, tt.ok)
		}
	}
}

func TestIsTaggedTaskLine(t *testing.T) {
	tests := []struct {
		line string
		want bool
	}{
		{"- [ ] write report #planner", true},
		{"- [ ] write report #planner more words", true},
		{"- [ ] write report #planner/Work", true},
		{"- [ ] write report #plannerx", false},
		{"- [ ] write report #other", false},
		{"write report #planner", false},
	}
	for _, tt := range tests {
		if got := IsTaggedTaskLine(tt.line, "planner"); got != tt.want {
			t.Errorf("IsTaggedTaskLine(%q) = %v, want %v", tt.line, got, tt.want)
		}
	}
}

func TestExtractPriority(t *testing.T) {
	tests := []struct {
		text  string
		want  string
		title string
	}{
		{"urgent thing !!!", "Critical", "urgent thing"},
		{"urgent thing !!", "High", "urgent thing"},
		{"urgent thing !", "Medium", "urgent thing"},
		{"this is critical work", "Critical", "this is work"},
		{"LOW effort", "Low", "effort"},
		{"nothing special", "", "nothing special"},
		// A bang outranks a textual marker on the same line.
		{"critical but really !", "Medium", "critical but really"},
		{"Task !!! (high)", "Critical", "Task (high)"},
	}
	for _, tt := range tests {
		ex := Extract(tt.text, "planner")
		if ex.Priority != tt.want {
			t.Errorf("Extract(%q).Priority = %q, want %q", tt.text, ex.Priority, tt.want)
		}
		if ex.Title != tt.title {
			t.Errorf("Extract(%q).Title = %q, want %q", tt.text, ex.Title, tt.title)
		}
	}
}

func TestExtractDueDate(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{"finish report 📅 2026-09-01", "2026-09-01"},
		{"finish report due: 2026-09-01", "2026-09-01"},
		{"finish report DUE: 2026-09-01", "2026-09-01"},
		{"finish report @2026-09-01", "2026-09-01"},
		{"finish report", ""},
		{"finish report 📅 tomorrow", ""},
	}
	for _, tt := range tests {
		ex := Extract(tt.text, "planner")
		if ex.DueDate != tt.want {
			t.Errorf("Extract(%q).DueDate = %q, want %q", tt.text, ex.DueDate, tt.want)
		}
	}
}

func TestExtractRouting(t *testing.T) {
	ex := Extract("fix login #planner/Work-Stuff", "planner")
	if !ex.HasRouting {
		t.Fatal("expected routing")
	}
	if ex.ProjectName != "Work Stuff" {
		t.Errorf("ProjectName = %q, want %q", ex.ProjectName, "Work Stuff")
	}
	if ex.Title != "fix login" {
		t.Errorf("Title = %q, want %q", ex.Title, "fix login")
	}

	// Bare base tag routes nowhere; the default project applies.
	ex = Extract("fix login #planner", "planner")
	if ex.HasRouting {
		t.Error("bare tag must not set routing")
	}
	if ex.Title != "fix login" {
		t.Errorf("Title = %q, want %q", ex.Title, "fix login")
	}
}

func TestExtractTags(t *testing.T) {
	ex := Extract("ship release #planner #urgent #infra", "planner")
	if !reflect.DeepEqual(ex.Tags, []string{"urgent", "infra"}) {
		t.Errorf("Tags = %v, want [urgent infra]", ex.Tags)
	}
	if ex.Title != "ship release" {
		t.Errorf("Title = %q, want %q", ex.Title, "ship release")
	}
}

func TestExtractCombined(t *testing.T) {
	ex := Extract("prepare slides !! 📅 2026-10-05 #planner/Conference #talks", "planner")
	if ex.Priority != "High" {
		t.Errorf("Priority = %q", ex.Priority)
	}
	if ex.DueDate != "2026-10-05" {
		t.Errorf("DueDate = %q", ex.DueDate)
	}
	if ex.ProjectName != "Conference" {
		t.Errorf("ProjectName = %q", ex.ProjectName)
	}
	if !reflect.DeepEqual(ex.Tags, []string{"talks"}) {
		t.Errorf("Tags = %v", ex.Tags)
	}
	if ex.Title != "prepare slides" {
		t.Errorf("Title = %q", ex.Title)
	}
}
