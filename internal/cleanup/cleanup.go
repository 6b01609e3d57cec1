// Package cleanup removes the date folders a retention decision marked for deletion.
package cleanup

import (
	"context"

	"github.com/raoulx24/snapshot-janitor/internal/fs"
	"github.com/raoulx24/snapshot-janitor/internal/logging"
	"github.com/raoulx24/snapshot-janitor/internal/retention"
)

// Outcome records one attempted deletion.
type Outcome struct {
	Path      string
	Succeeded bool
	Err       error
}

// Detail returns the failure text, or "" for a successful deletion.
func (o Outcome) Detail() string {
	if o.Err == nil {
		return ""
	}
	return o.Err.Error()
}

// Executor deletes folders through a Remover. A failure on one folder never
// stops the others.
type Executor struct {
	remover fs.Remover
	log     logging.Logger
}

// New creates an executor. A nil remover means the local OS filesystem;
// pass fs.DryRun to only report what would be deleted.
func New(remover fs.Remover, log logging.Logger) *Executor {
	if remover == nil {
		remover = fs.New()
	}
	return &Executor{
		remover: remover,
		log:     log,
	}
}

// Apply removes every folder in d.Delete and returns one outcome per folder.
func (e *Executor) Apply(ctx context.Context, d retention.Decision) []Outcome {
	outcomes := make([]Outcome, 0, len(d.Delete))

	for _, f := range d.Delete {
		err := e.remover.RemoveAll(ctx, f.Path)
		if err != nil {
			e.log.Error("failed to delete", "path", f.Path, "error", err)
			outcomes = append(outcomes, Outcome{Path: f.Path, Err: err})
			continue
		}

		e.log.Info("deleted", "path", f.Path)
		outcomes = append(outcomes, Outcome{Path: f.Path, Succeeded: true})
	}

	return outcomes
}
