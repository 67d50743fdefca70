// Package vault abstracts the host's note storage: plain UTF-8 markdown
// files addressed by vault-relative paths.
package vault

import (
	"context"
	"errors"
)

// ErrNotFound is returned when a document or folder does not exist.
var ErrNotFound = errors.New("not found")

// MarkdownExt is the only document extension the engine touches.
const MarkdownExt = ".md"

// Vault is the document store collaborator. Rename moves a document to a
// new relative path, creating parent folders as needed.
type Vault interface {
	Read(ctx context.Context, path string) (string, error)
	Create(ctx context.Context, path, content string) error
	Modify(ctx context.Context, path, content string) error
	Delete(ctx context.Context, path string) error
	Rename(ctx context.Context, oldPath, newPath string) error
	Exists(ctx context.Context, path string) (bool, error)
	IsFolder(ctx context.Context, path string) (bool, error)
	EnsureFolder(ctx context.Context, path string) error
	// ListMarkdown returns the relative paths of every markdown document
	// under prefix, recursively. A missing prefix is an empty listing.
	ListMarkdown(ctx context.Context, prefix string) ([]string, error)
	// ListAllMarkdown returns every markdown document in the vault.
	ListAllMarkdown(ctx context.Context) ([]string, error)
}
