// Package walker traverses root/client/camera directories and produces one
// retention decision per camera directory.
package walker

import (
	"fmt"
	"iter"
	"path/filepath"

	"github.com/raoulx24/snapshot-janitor/internal/fs"
	"github.com/raoulx24/snapshot-janitor/internal/logging"
	"github.com/raoulx24/snapshot-janitor/internal/retention"
)

// Level names the depth at which a listing failed.
type Level string

const (
	LevelRoot   Level = "root"
	LevelClient Level = "client"
	LevelCamera Level = "camera"
)

// Error reports a directory that could not be listed. The walk continues
// with the next sibling after yielding it.
type Error struct {
	Path  string
	Level Level
	Err   error
}

func (e *Error) Error() string {
	return fmt.Sprintf("walk %s %s: %v", e.Level, e.Path, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Walker observes a client/camera tree and asks the retention engine for a
// decision on every camera directory.
type Walker struct {
	fs        fs.FS
	retention *retention.Engine
	log       logging.Logger
}

// New creates a walker. A nil filesystem means the local OS filesystem.
func New(filesystem fs.FS, r *retention.Engine, log logging.Logger) *Walker {
	if filesystem == nil {
		filesystem = fs.New()
	}
	return &Walker{
		fs:        filesystem,
		retention: r,
		log:       log,
	}
}

// Walk yields a decision per root/client/camera directory in listing order.
// Nothing is read until the sequence is ranged over, and every range lists
// the tree again.
func (w *Walker) Walk(root string, keep int) iter.Seq2[retention.Decision, error] {
	return func(yield func(retention.Decision, error) bool) {
		clients, err := w.subdirs(root)
		if err != nil {
			yield(retention.Decision{}, &Error{Path: root, Level: LevelRoot, Err: err})
			return
		}

		for _, client := range clients {
			cameras, err := w.subdirs(client)
			if err != nil {
				if !yield(retention.Decision{}, &Error{Path: client, Level: LevelClient, Err: err}) {
					return
				}
				continue
			}

			for _, camera := range cameras {
				d, err := w.retention.Select(camera, keep)
				if err != nil {
					err = &Error{Path: camera, Level: LevelCamera, Err: err}
				}
				if !yield(d, err) {
					return
				}
			}
		}
	}
}

// subdirs lists the directories directly under path; other entries are skipped.
func (w *Walker) subdirs(path string) ([]string, error) {
	entries, err := w.fs.ReadDir(path)
	if err != nil {
		return nil, err
	}

	var dirs []string
	for _, e := range entries {
		full := filepath.Join(path, e.Name())
		if !e.IsDir() {
			w.log.Debug("skipping non-directory", "path", full)
			continue
		}
		dirs = append(dirs, full)
	}
	return dirs, nil
}
