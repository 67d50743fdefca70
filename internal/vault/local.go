package vault

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Local implements Vault on a local directory.
type Local struct {
	basePath string
	mu       sync.RWMutex
}

// NewLocal creates a Local vault rooted at basePath, creating the
// directory if absent.
func NewLocal(basePath string) (*Local, error) {
	abs, err := filepath.Abs(basePath)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve vault path: %w", err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create vault directory: %w", err)
	}
	return &Local{basePath: abs}, nil
}

// BasePath returns the absolute vault root.
func (v *Local) BasePath() string {
	return v.basePath
}

func (v *Local) resolve(path string) string {
	return filepath.Join(v.basePath, filepath.Clean(path))
}

// Rel converts an absolute path inside the vault to a vault-relative
// one. Paths outside the vault are returned unchanged with ok=false.
func (v *Local) Rel(abs string) (string, bool) {
	rel, err := filepath.Rel(v.basePath, abs)
	if err != nil || strings.HasPrefix(rel, "..") {
		return abs, false
	}
	return filepath.ToSlash(rel), true
}

func (v *Local) Read(_ context.Context, path string) (string, error) {
	v.mu.RLock()
	defer v.mu.RUnlock()

	data, err := os.ReadFile(v.resolve(path))
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("%s: %w", path, ErrNotFound)
		}
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	return string(data), nil
}

func (v *Local) Create(ctx context.Context, path, content string) error {
	return v.write(path, content)
}

func (v *Local) Modify(ctx context.Context, path, content string) error {
	return v.write(path, content)
}

func (v *Local) write(path, content string) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	full := v.resolve(path)
	dir := filepath.Dir(full)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	// Atomic write: write to temp file then rename.
	tmp := full + ".tmp"
	if err := os.WriteFile(tmp, []byte(content), 0o644); err != nil {
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := os.Rename(tmp, full); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("failed to rename temp file: %w", err)
	}
	return nil
}

func (v *Local) Delete(_ context.Context, path string) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	if err := os.Remove(v.resolve(path)); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%s: %w", path, ErrNotFound)
		}
		return fmt.Errorf("failed to delete %s: %w", path, err)
	}
	return nil
}

func (v *Local) Rename(_ context.Context, oldPath, newPath string) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	oldFull := v.resolve(oldPath)
	newFull := v.resolve(newPath)
	if _, err := os.Stat(oldFull); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%s: %w", oldPath, ErrNotFound)
		}
		return fmt.Errorf("failed to stat %s: %w", oldPath, err)
	}
	if err := os.MkdirAll(filepath.Dir(newFull), 0o755); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", newPath, err)
	}
	if err := os.Rename(oldFull, newFull); err != nil {
		return fmt.Errorf("failed to rename %s to %s: %w", oldPath, newPath, err)
	}
	return nil
}

func (v *Local) Exists(_ context.Context, path string) (bool, error) {
	v.mu.RLock()
	defer v.mu.RUnlock()

	_, err := os.Stat(v.resolve(path))
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to stat %s: %w", path, err)
	}
	return true, nil
}

func (v *Local) IsFolder(_ context.Context, path string) (bool, error) {
	v.mu.RLock()
	defer v.mu.RUnlock()

	info, err := os.Stat(v.resolve(path))
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to stat %s: %w", path, err)
	}
	return info.IsDir(), nil
}

func (v *Local) EnsureFolder(_ context.Context, path string) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	if err := os.MkdirAll(v.resolve(path), 0o755); err != nil {
		return fmt.Errorf("failed to create folder %s: %w", path, err)
	}
	return nil
}

func (v *Local) ListMarkdown(_ context.Context, prefix string) ([]string, error) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.listMarkdown(prefix)
}

func (v *Local) ListAllMarkdown(ctx context.Context) ([]string, error) {
	return v.ListMarkdown(ctx, ".")
}

func (v *Local) listMarkdown(prefix string) ([]string, error) {
	root := v.resolve(prefix)
	if _, err := os.Stat(root); err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to stat %s: %w", prefix, err)
	}

	var paths []string
	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.EqualFold(filepath.Ext(p), MarkdownExt) {
			return nil
		}
		if rel, ok := v.Rel(p); ok {
			paths = append(paths, rel)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", prefix, err)
	}
	return paths, nil
}
