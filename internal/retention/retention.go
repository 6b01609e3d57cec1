package retention

import (
	"fmt"
	"sort"

	"github.com/raoulx24/snapshot-janitor/internal/fs"
	"github.com/raoulx24/snapshot-janitor/internal/logging"
	"github.com/raoulx24/snapshot-janitor/internal/snapshot"
)

type Engine struct {
	fs  fs.FS
	log logging.Logger
}

func New(filesystem fs.FS, log logging.Logger) *Engine {
	if filesystem == nil {
		filesystem = fs.New()
	}
	return &Engine{
		fs:  filesystem,
		log: log,
	}
}

// Decision is the keep/delete split for one camera directory.
type Decision struct {
	LeafPath string
	Keep     []snapshot.DateFolder // newest first
	Delete   []snapshot.DateFolder
}

// Total returns the number of date folders the decision covers.
func (d Decision) Total() int {
	return len(d.Keep) + len(d.Delete)
}

// Select lists leafPath and keeps only the newest keep date folders.
func (e *Engine) Select(leafPath string, keep int) (Decision, error) {
	folders, err := e.scanDateFolders(leafPath)
	if err != nil {
		return Decision{LeafPath: leafPath}, err
	}

	d := Partition(leafPath, folders, keep)
	e.log.Debug("retention decision", "leaf", leafPath, "keep", len(d.Keep), "delete", len(d.Delete))
	return d, nil
}

// Partition sorts folders newest → oldest and splits them after the first keep.
// It does not modify the input slice.
func Partition(leafPath string, folders []snapshot.DateFolder, keep int) Decision {
	if keep < 0 {
		keep = 0
	}

	sorted := append([]snapshot.DateFolder(nil), folders...)

	// Sort newest → oldest; names break ties so repeated calls agree
	sort.SliceStable(sorted, func(i, j int) bool {
		if !sorted[i].Date.Equal(sorted[j].Date) {
			return sorted[i].Date.After(sorted[j].Date)
		}
		return sorted[i].Name > sorted[j].Name
	})

	d := Decision{LeafPath: leafPath}
	if len(sorted) <= keep {
		d.Keep = sorted
		return d
	}

	d.Keep = sorted[:keep:keep]
	d.Delete = sorted[keep:]
	return d
}

// scanDateFolders finds date-named directories in a folder.
func (e *Engine) scanDateFolders(folder string) ([]snapshot.DateFolder, error) {
	entries, err := e.fs.ReadDir(folder)
	if err != nil {
		return nil, fmt.Errorf("reading folder: %w", err)
	}

	var folders []snapshot.DateFolder
	for _, ent := range entries {
		df, ok := snapshot.FromDirEntry(folder, ent)
		if !ok {
			continue
		}
		folders = append(folders, df)
	}

	return folders, nil
}
