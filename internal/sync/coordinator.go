// Package sync orchestrates the bidirectional flow between the task
// store and the vault's markdown documents: task changes are rendered
// out, document changes are parsed back in, and a per-file reentrancy
// guard keeps a write from re-triggering its own read.
package sync

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/pmezard/go-difflib/difflib"

	"github.com/taskvault/taskvault/internal/codec"
	"github.com/taskvault/taskvault/internal/settings"
	"github.com/taskvault/taskvault/internal/task"
	"github.com/taskvault/taskvault/internal/vault"
	"github.com/taskvault/taskvault/pkg/cerr"
)

// FreshnessWindow is how recently a project must have synced for
// InitialSync to skip the full folder walk.
const FreshnessWindow = 5 * time.Minute

// Coordinator drives task↔markdown synchronization for all projects.
type Coordinator struct {
	vault    vault.Vault
	store    *task.Store
	settings *settings.Manager
	guard    *busyGuard
}

func NewCoordinator(v vault.Vault, store *task.Store, mgr *settings.Manager) *Coordinator {
	return &Coordinator{
		vault:    v,
		store:    store,
		settings: mgr,
		guard:    newBusyGuard(),
	}
}

// Attach subscribes the coordinator to store changes so every task
// mutation is mirrored into markdown.
func (c *Coordinator) Attach() {
	c.store.OnChange(func(ch task.Change) {
		ctx := context.Background()
		switch ch.Kind {
		case task.ChangeCreated, task.ChangeUpdated:
			c.SyncTaskToMarkdown(ctx, ch.Task)
		case task.ChangeRenamed:
			c.HandleTaskRename(ctx, ch.Task, ch.OldTitle)
		case task.ChangeDeleted:
			if name, ok := c.settings.ProjectName(ch.Task.ProjectID); ok {
				c.DeleteTaskMarkdown(ctx, ch.Task, name)
			}
		}
	})
}

// taskPath derives the document path for a task, or ok=false when its
// project cannot be resolved.
func (c *Coordinator) taskPath(t *task.Task) (docPath, projectName string, ok bool) {
	projectName, ok = c.settings.ProjectName(t.ProjectID)
	if !ok {
		return "", "", false
	}
	base := c.settings.ProjectBasePath(t.ProjectID)
	return codec.TaskFilePath(t.Title, projectName, base), projectName, true
}

// SyncTaskToMarkdown writes the task's canonical document. An
// unresolvable project is a no-op. Unchanged content is not rewritten,
// which also stops write-triggered event churn.
func (c *Coordinator) SyncTaskToMarkdown(ctx context.Context, t *task.Task) {
	docPath, projectName, ok := c.taskPath(t)
	if !ok {
		return
	}
	base := c.settings.ProjectBasePath(t.ProjectID)
	if err := c.vault.EnsureFolder(ctx, codec.TasksFolder(projectName, base)); err != nil {
		slog.WarnContext(ctx, "failed to ensure tasks folder", "project", projectName, "error", err)
		return
	}

	content := codec.TaskToDocument(t, projectName, c.resolveTitle)

	existing, err := c.vault.Read(ctx, docPath)
	switch {
	case err == nil:
		if existing == content {
			return
		}
		c.logDrift(ctx, docPath, existing, content)
		if err := c.vault.Modify(ctx, docPath, content); err != nil {
			slog.WarnContext(ctx, "failed to modify task document", "file", docPath, "error", cerr.WrapVaultWriteError(docPath, err))
		}
	case errors.Is(err, vault.ErrNotFound):
		if err := c.vault.Create(ctx, docPath, content); err != nil {
			slog.WarnContext(ctx, "failed to create task document", "file", docPath, "error", cerr.WrapVaultWriteError(docPath, err))
		}
	default:
		slog.WarnContext(ctx, "failed to read task document", "file", docPath, "error", cerr.WrapVaultReadError(docPath, err))
	}
}

// HandleTaskRename removes the document at the old title's path and
// recreates the task at the new one. A delete failure is logged and
// swallowed; the create step always runs.
func (c *Coordinator) HandleTaskRename(ctx context.Context, t *task.Task, oldTitle string) {
	projectName, ok := c.settings.ProjectName(t.ProjectID)
	if ok {
		base := c.settings.ProjectBasePath(t.ProjectID)
		oldPath := codec.TaskFilePath(oldTitle, projectName, base)
		if exists, err := c.vault.Exists(ctx, oldPath); err == nil && exists {
			if err := c.vault.Delete(ctx, oldPath); err != nil {
				slog.WarnContext(ctx, "failed to delete renamed task document", "file", oldPath, "error", cerr.WrapVaultDeleteError(oldPath, err))
			}
		}
	}
	c.SyncTaskToMarkdown(ctx, t)
}

// DeleteTaskMarkdown removes the task's document if present.
func (c *Coordinator) DeleteTaskMarkdown(ctx context.Context, t *task.Task, projectName string) {
	base := c.settings.ProjectBasePath(t.ProjectID)
	docPath := codec.TaskFilePath(t.Title, projectName, base)
	exists, err := c.vault.Exists(ctx, docPath)
	if err != nil || !exists {
		return
	}
	if err := c.vault.Delete(ctx, docPath); err != nil {
		slog.WarnContext(ctx, "failed to delete task document", "file", docPath, "error", cerr.WrapVaultDeleteError(docPath, err))
	}
}

// SyncMarkdownToTask parses a task document and writes the result into
// the store, exactly once per invocation. A second concurrent call for
// the same path while the first is in flight is dropped, not queued:
// that is the guard against a write re-triggering its own read.
func (c *Coordinator) SyncMarkdownToTask(ctx context.Context, docPath string) {
	if !c.guard.acquire(docPath) {
		return
	}
	defer c.guard.release(docPath)

	text, err := c.vault.Read(ctx, docPath)
	if err != nil {
		slog.WarnContext(ctx, "failed to read task document", "file", docPath, "error", cerr.WrapVaultReadError(docPath, err))
		return
	}

	projectID := c.projectIDForPath(docPath)
	t := codec.MarkdownToTask(text, projectID)
	if t == nil {
		return
	}
	if t.ProjectID == "" {
		if existing := c.store.GetTaskByID(t.ID); existing != nil {
			t.ProjectID = existing.ProjectID
		}
	}

	// A hand-edited title moves the backing document before the store
	// update; a rename failure never blocks the update itself.
	if existing := c.store.GetTaskByID(t.ID); existing != nil && existing.Title != t.Title {
		if newPath, _, ok := c.taskPath(t); ok && newPath != docPath {
			if err := c.vault.Rename(ctx, docPath, newPath); err != nil {
				slog.WarnContext(ctx, "failed to rename task document", "file", docPath, "error", err)
			}
		}
	}

	c.store.AddTaskFromObject(t)
}

// InitialSync reads every task document of a project into the store.
// It is gated by a freshness window so bursts of project activations do
// not rescan the folder; both concurrent callers reading "fresh" and
// skipping is the intended throttle.
func (c *Coordinator) InitialSync(ctx context.Context, projectID string) {
	projectName, ok := c.settings.ProjectName(projectID)
	if !ok {
		return
	}
	if time.Since(c.settings.LastSync(projectID)) < FreshnessWindow {
		slog.DebugContext(ctx, "initial sync skipped, recently synced", "project", projectName)
		return
	}

	base := c.settings.ProjectBasePath(projectID)
	folder := codec.TasksFolder(projectName, base)
	isFolder, err := c.vault.IsFolder(ctx, folder)
	if err != nil || !isFolder {
		return
	}

	paths, err := c.vault.ListMarkdown(ctx, folder)
	if err != nil {
		slog.WarnContext(ctx, "failed to list tasks folder", "project", projectName, "error", err)
		return
	}
	for _, p := range paths {
		// Per-document failures are logged inside and skipped; the
		// batch always runs to completion.
		c.SyncMarkdownToTask(ctx, p)
	}

	c.settings.SetLastSync(projectID, time.Now())
	slog.InfoContext(ctx, "initial sync finished", "project", projectName, "documents", len(paths))
}

// projectIDForPath maps a document path back to its owning project via
// the {project}/Tasks/ layout.
func (c *Coordinator) projectIDForPath(docPath string) string {
	parts := strings.Split(docPath, "/")
	for i := len(parts) - 1; i > 0; i-- {
		if parts[i] == codec.TasksFolderName {
			if id, ok := c.settings.ProjectIDByName(parts[i-1]); ok {
				return id
			}
		}
	}
	return ""
}

// IsTaskDocument reports whether the path lies under any project's
// Tasks folder.
func (c *Coordinator) IsTaskDocument(docPath string) bool {
	return c.projectIDForPath(docPath) != ""
}

func (c *Coordinator) resolveTitle(id string) (string, bool) {
	if t := c.store.GetTaskByID(id); t != nil {
		return t.Title, true
	}
	return "", false
}

// logDrift emits a unified diff at debug level when an on-disk document
// diverged from the canonical rendering it is about to be replaced with.
func (c *Coordinator) logDrift(ctx context.Context, docPath, existing, content string) {
	if !slog.Default().Enabled(ctx, slog.LevelDebug) {
		return
	}
	diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(existing),
		B:        difflib.SplitLines(content),
		FromFile: docPath + " (on disk)",
		ToFile:   docPath + " (rendered)",
		Context:  2,
	})
	if err != nil {
		return
	}
	slog.DebugContext(ctx, "overwriting drifted task document", "file", docPath, "diff", diff)
}
