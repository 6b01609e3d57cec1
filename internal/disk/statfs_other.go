//go:build !(linux || darwin || freebsd || dragonfly || windows)

package disk

import (
	"errors"
	"runtime"
)

func platformUsage(string) (Usage, error) {
	return Usage{}, errors.New("disk usage is not supported on " + runtime.GOOS)
}
