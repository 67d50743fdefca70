package cerr

import (
	"errors"
	"fmt"

	"github.com/taskvault/taskvault/internal/vault"
)

func WrapVaultReadError(target string, err error) error {
	if errors.Is(err, vault.ErrNotFound) {
		return NewError(NotFound, fmt.Sprintf("%s not found", target), err)
	}
	return NewError(Internal, "vault error", fmt.Errorf("failed to read %s: %w", target, err))
}

func WrapVaultWriteError(target string, err error) error {
	return NewError(Internal, "vault error", fmt.Errorf("failed to write %s: %w", target, err))
}

func WrapVaultDeleteError(target string, err error) error {
	if errors.Is(err, vault.ErrNotFound) {
		return NewError(NotFound, fmt.Sprintf("%s not found", target), err)
	}
	return NewError(Internal, "vault error", fmt.Errorf("failed to delete %s: %w", target, err))
}
