//go:build linux || darwin || freebsd || dragonfly

package disk

import (
	"golang.org/x/sys/unix"
)

func platformUsage(path string) (Usage, error) {
	var st unix.Statfs_t
	if err := unix.Statfs(path, &st); err != nil {
		return Usage{}, err
	}
	return fromStatfs(&st), nil
}

func fromStatfs(st *unix.Statfs_t) Usage {
	bsize := uint64(st.Bsize)
	total := uint64(st.Blocks) * bsize
	return Usage{
		Total: total,
		Used:  total - uint64(st.Bfree)*bsize,
		Free:  uint64(st.Bavail) * bsize,
	}
}
