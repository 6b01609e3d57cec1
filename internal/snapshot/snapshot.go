// Package snapshot classifies date-named snapshot folders.
package snapshot

import "time"

// DateLayout is the on-disk folder name format: YYYYMMDD, no separators.
const DateLayout = "20060102"

// DateFolder represents a single dated snapshot folder inside a camera directory.
type DateFolder struct {
	Name string
	Date time.Time
	Path string
}

// ParseDate reports whether name is exactly eight ASCII digits forming a
// valid calendar date and returns that date at midnight UTC.
func ParseDate(name string) (time.Time, bool) {
	if len(name) != len(DateLayout) {
		return time.Time{}, false
	}
	for i := 0; i < len(name); i++ {
		if name[i] < '0' || name[i] > '9' {
			return time.Time{}, false
		}
	}

	// time.Parse rejects month 13, Feb 30 and friends, and honours leap years.
	t, err := time.Parse(DateLayout, name)
	if err != nil {
		return time.Time{}, false
	}
	if t.Year() < 1 {
		return time.Time{}, false
	}
	return t, true
}

// IsDateFolder reports whether name is a valid YYYYMMDD folder name.
func IsDateFolder(name string) bool {
	_, ok := ParseDate(name)
	return ok
}
