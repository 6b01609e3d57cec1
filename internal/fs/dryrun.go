package fs

import (
	"context"

	"github.com/raoulx24/snapshot-janitor/internal/logging"
)

// DryRun is a Remover that only logs what would be deleted.
type DryRun struct {
	Log logging.Logger
}

func (d DryRun) RemoveAll(ctx context.Context, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if d.Log != nil {
		d.Log.Info("would delete", "path", path)
	}
	return nil
}
