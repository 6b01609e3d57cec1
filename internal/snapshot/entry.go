package snapshot

import (
	"io/fs"
	"path/filepath"
)

// FromDirEntry constructs a DateFolder from a directory entry of leaf.
// Files and directories whose names are not dates are rejected.
func FromDirEntry(leaf string, entry fs.DirEntry) (DateFolder, bool) {
	if !entry.IsDir() {
		return DateFolder{}, false
	}

	date, ok := ParseDate(entry.Name())
	if !ok {
		return DateFolder{}, false
	}

	return DateFolder{
		Name: entry.Name(),
		Date: date,
		Path: filepath.Join(leaf, entry.Name()),
	}, true
}
