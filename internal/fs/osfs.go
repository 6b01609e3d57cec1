package fs

import (
	"context"
	iofs "io/fs"
	"os"
)

type OSFS struct{}

// the concrete implementation of FS backed by the local OS filesystem.

func New() *OSFS {
	return &OSFS{}
}

func (o *OSFS) ReadDir(path string) ([]iofs.DirEntry, error) {
	return os.ReadDir(path)
}

func (o *OSFS) RemoveAll(ctx context.Context, path string) error {
	return retry(ctx, "remove "+path, func() error {
		return os.RemoveAll(path)
	})
}
