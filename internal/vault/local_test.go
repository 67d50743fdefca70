package vault

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
)

func TestLocalReadWrite(t *testing.T) {
	ctx := context.Background()
	v, err := NewLocal(t.TempDir())
	if err != nil {
		t.Fatalf("NewLocal failed: %v", err)
	}

	if err := v.Create(ctx, "Notes/hello.md", "# Hello\n"); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	got, err := v.Read(ctx, "Notes/hello.md")
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if got != "# Hello\n" {
		t.Errorf("Read = %q", got)
	}

	if err := v.Modify(ctx, "Notes/hello.md", "changed\n"); err != nil {
		t.Fatalf("Modify failed: %v", err)
	}
	got, _ = v.Read(ctx, "Notes/hello.md")
	if got != "changed\n" {
		t.Errorf("Read after Modify = %q", got)
	}
}

func TestLocalReadNotFound(t *testing.T) {
	ctx := context.Background()
	v, _ := NewLocal(t.TempDir())

	_, err := v.Read(ctx, "missing.md")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
	if err := v.Delete(ctx, "missing.md"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Delete err = %v, want ErrNotFound", err)
	}
	if err := v.Rename(ctx, "missing.md", "elsewhere.md"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Rename err = %v, want ErrNotFound", err)
	}
}

func TestLocalRename(t *testing.T) {
	ctx := context.Background()
	v, _ := NewLocal(t.TempDir())

	if err := v.Create(ctx, "a.md", "content"); err != nil {
		t.Fatal(err)
	}
	// Renaming into a folder that does not exist yet creates it.
	if err := v.Rename(ctx, "a.md", "Deep/Nested/b.md"); err != nil {
		t.Fatalf("Rename failed: %v", err)
	}

	if ok, _ := v.Exists(ctx, "a.md"); ok {
		t.Error("old path still exists")
	}
	got, err := v.Read(ctx, "Deep/Nested/b.md")
	if err != nil || got != "content" {
		t.Errorf("Read = (%q, %v)", got, err)
	}
}

func TestLocalFolders(t *testing.T) {
	ctx := context.Background()
	v, _ := NewLocal(t.TempDir())

	if err := v.EnsureFolder(ctx, "Inbox/Tasks"); err != nil {
		t.Fatalf("EnsureFolder failed: %v", err)
	}
	ok, err := v.IsFolder(ctx, "Inbox/Tasks")
	if err != nil || !ok {
		t.Errorf("IsFolder = (%v, %v)", ok, err)
	}
	ok, _ = v.IsFolder(ctx, "Nope")
	if ok {
		t.Error("missing path reported as folder")
	}
}

func TestLocalListMarkdown(t *testing.T) {
	ctx := context.Background()
	v, _ := NewLocal(t.TempDir())

	files := []string{"Inbox/Tasks/a.md", "Inbox/Tasks/b.MD", "Daily/c.md"}
	for _, f := range files {
		if err := v.Create(ctx, f, "x"); err != nil {
			t.Fatal(err)
		}
	}
	if err := v.Create(ctx, "Inbox/Tasks/skip.txt", "x"); err != nil {
		t.Fatal(err)
	}

	got, err := v.ListMarkdown(ctx, "Inbox/Tasks")
	if err != nil {
		t.Fatalf("ListMarkdown failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %v, want the two markdown files", got)
	}

	all, err := v.ListAllMarkdown(ctx)
	if err != nil {
		t.Fatalf("ListAllMarkdown failed: %v", err)
	}
	if len(all) != 3 {
		t.Errorf("ListAllMarkdown = %v", all)
	}

	// A missing prefix lists nothing rather than failing.
	none, err := v.ListMarkdown(ctx, "Ghost")
	if err != nil || len(none) != 0 {
		t.Errorf("ListMarkdown(Ghost) = (%v, %v)", none, err)
	}
}

func TestLocalRel(t *testing.T) {
	dir := t.TempDir()
	v, _ := NewLocal(dir)

	rel, ok := v.Rel(filepath.Join(v.BasePath(), "Daily", "note.md"))
	if !ok || rel != "Daily/note.md" {
		t.Errorf("Rel = (%q, %v)", rel, ok)
	}
	if _, ok := v.Rel("/somewhere/else/note.md"); ok {
		t.Error("path outside the vault must not resolve")
	}
}
