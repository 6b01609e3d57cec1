// Package fs defines the filesystem abstraction used by snapshot-janitor.
// It provides the FS interface used for listing and the Remover used for deletion.
package fs

import (
	"context"
	iofs "io/fs"
)

// Remover recursively deletes a directory tree.
type Remover interface {
	RemoveAll(ctx context.Context, path string) error
}

type FS interface {
	Remover
	ReadDir(path string) ([]iofs.DirEntry, error)
}
