// Package scan implements the daily-note import: a streaming scanner
// that finds tagged checklist lines across vault documents, extracts
// structured fields, and reconciles them against the task store using
// stable location identity.
package scan

import (
	"context"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/taskvault/taskvault/internal/extract"
	"github.com/taskvault/taskvault/internal/settings"
	"github.com/taskvault/taskvault/internal/task"
	"github.com/taskvault/taskvault/internal/vault"
	"github.com/taskvault/taskvault/pkg/clog"
)

// DefaultDebounce is the trailing-edge delay coalescing bursts of change
// events on the same file into a single scan.
const DefaultDebounce = time.Second

// Scanner walks vault documents for tagged checklist lines and imports
// them into the task store.
type Scanner struct {
	vault     vault.Vault
	store     *task.Store
	view      settings.View
	locations *LocationMap

	debounce time.Duration
	mu       sync.Mutex
	timers   map[string]*time.Timer
}

func NewScanner(v vault.Vault, store *task.Store, view settings.View, locations *LocationMap) *Scanner {
	return &Scanner{
		vault:     v,
		store:     store,
		view:      view,
		locations: locations,
		debounce:  DefaultDebounce,
		timers:    make(map[string]*time.Timer),
	}
}

// SetDebounce overrides the debounce delay (tests use a short one).
func (s *Scanner) SetDebounce(d time.Duration) {
	s.debounce = d
}

// ScheduleScan arranges a debounced scan of the file. A new event for a
// path with a pending timer resets that timer rather than scheduling an
// additional scan.
func (s *Scanner) ScheduleScan(path string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t, ok := s.timers[path]; ok {
		t.Stop()
	}
	s.timers[path] = time.AfterFunc(s.debounce, func() {
		s.mu.Lock()
		delete(s.timers, path)
		s.mu.Unlock()

		ctx := clog.ContextWithSlog(context.Background())
		clog.AddAttribute(ctx, "file", path)
		if _, err := s.ScanFile(ctx, path); err != nil {
			clog.AddError(ctx, err)
			slog.WarnContext(ctx, "scheduled scan failed")
		}
	})
}

// CancelPending stops every pending debounced scan.
func (s *Scanner) CancelPending() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for path, t := range s.timers {
		t.Stop()
		delete(s.timers, path)
	}
}

// pass tracks task IDs already processed during one scan invocation so
// duplicate lines cannot produce duplicate writes.
type pass struct {
	processed map[string]bool
}

func newPass() *pass {
	return &pass{processed: make(map[string]bool)}
}

// ScanFile scans a single document with a fresh pass.
func (s *Scanner) ScanFile(ctx context.Context, path string) (int, error) {
	return s.scanFile(ctx, path, newPass())
}

// ScanAllNotes scans every markdown document in the vault with one
// shared pass and returns the total new/updated count.
func (s *Scanner) ScanAllNotes(ctx context.Context) (int, error) {
	paths, err := s.vault.ListAllMarkdown(ctx)
	if err != nil {
		return 0, err
	}
	p := newPass()
	total := 0
	for _, path := range paths {
		n, err := s.scanFile(ctx, path, p)
		if err != nil {
			slog.WarnContext(ctx, "skipping unreadable note", "file", path, "error", err)
			continue
		}
		total += n
	}
	slog.InfoContext(ctx, "note scan finished", "files", len(paths), "tasks", total)
	return total, nil
}

func (s *Scanner) scanFile(ctx context.Context, path string, p *pass) (int, error) {
	if !strings.EqualFold(filepath.Ext(path), vault.MarkdownExt) {
		return 0, nil
	}
	if !s.allowed(path) {
		return 0, nil
	}

	text, err := s.vault.Read(ctx, path)
	if err != nil {
		return 0, err
	}

	baseTag := s.view.TaskTag()
	today := time.Now().Format("2006-01-02")
	observed := make(map[int]bool)
	count := 0

	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	for i, line := range lines {
		if !extract.IsTaggedTaskLine(line, baseTag) {
			continue
		}
		completed, rest, _ := extract.ChecklistParts(line)
		ex := extract.Extract(rest, baseTag)

		lineNo := i + 1
		observed[lineNo] = true
		id, _ := s.locations.ResolveOrCreate(path, lineNo)

		// A duplicate line in the same pass must not write twice.
		if p.processed[id] {
			continue
		}
		p.processed[id] = true

		projectID, ok := s.resolveProject(ex)
		if !ok {
			slog.WarnContext(ctx, "no project for routing tag, skipping line",
				"file", path, "line", lineNo, "routing", ex.ProjectName)
			continue
		}

		tags := s.resolveTags(ex.Tags)

		if existing := s.store.GetTaskByID(id); existing != nil {
			u := task.Update{
				Title:            &ex.Title,
				Completed:        &completed,
				Priority:         strPtr(s.view.PriorityName(ex.Priority)),
				DueDate:          &ex.DueDate,
				LastModifiedDate: &today,
				Tags:             tags,
			}
			if err := s.store.UpdateTask(id, u); err != nil {
				slog.WarnContext(ctx, "failed to update scanned task", "task", id, "error", err)
				continue
			}
		} else {
			s.store.AddTaskToProject(&task.Task{
				ID:          id,
				Title:       ex.Title,
				Status:      s.view.DefaultStatusName(),
				Priority:    s.view.PriorityName(ex.Priority),
				Completed:   completed,
				DueDate:     ex.DueDate,
				Tags:        tags,
				CreatedDate: today,
			}, projectID)
		}
		count++
	}

	// Locations that no longer carry a tagged line lose their binding.
	s.locations.Prune(path, observed)
	return count, nil
}

// allowed applies the scan-folder allow-list; an empty list allows
// everything.
func (s *Scanner) allowed(path string) bool {
	folders := s.view.ScanFolders()
	if len(folders) == 0 {
		return true
	}
	for _, f := range folders {
		f = strings.TrimSuffix(f, "/")
		if f == "" {
			continue
		}
		if path == f || strings.HasPrefix(path, f+"/") {
			return true
		}
	}
	return false
}

func (s *Scanner) resolveProject(ex extract.Extraction) (string, bool) {
	if ex.HasRouting {
		if id, ok := s.view.ProjectIDByName(ex.ProjectName); ok {
			return id, true
		}
		return "", false
	}
	id := s.view.DefaultProjectID()
	if id == "" {
		return "", false
	}
	if _, ok := s.view.ProjectName(id); !ok {
		return "", false
	}
	return id, true
}

// resolveTags maps raw tag names onto configured tag IDs; unmatched
// names are dropped, never invented. The returned slice is non-nil so a
// scan update always replaces the tag set.
func (s *Scanner) resolveTags(names []string) []string {
	tags := []string{}
	for _, name := range names {
		if id, ok := s.view.ResolveTagID(name); ok {
			tags = append(tags, id)
		}
	}
	return tags
}

func strPtr(s string) *string {
	return &s
}
