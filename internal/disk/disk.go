// Package disk reports volume usage and decides whether free space is below
// the cleanup threshold.
package disk

import "fmt"

// GiB is the divisor used to turn free bytes into gigabytes.
const GiB = 1 << 30

// Usage contains disk usage for the volume holding a path.
type Usage struct {
	// Total is the capacity of the volume in bytes.
	Total uint64
	// Used is the number of bytes in use.
	Used uint64
	// Free is the number of bytes available to unprivileged users.
	Free uint64
}

// ThresholdCheck is the outcome of comparing free space against a threshold.
type ThresholdCheck struct {
	FreeBytes    uint64
	FreeGiB      float64
	ThresholdGiB float64
	Triggered    bool
}

// Check reports whether free space is at or below thresholdGiB.
func Check(u Usage, thresholdGiB float64) ThresholdCheck {
	free := float64(u.Free) / GiB
	return ThresholdCheck{
		FreeBytes:    u.Free,
		FreeGiB:      free,
		ThresholdGiB: thresholdGiB,
		Triggered:    free <= thresholdGiB,
	}
}

// Monitor returns usage for the volume containing a path.
type Monitor interface {
	Usage(path string) (Usage, error)
}

// Stat is the platform usage query; it is swapped out in tests.
type Stat func(path string) (Usage, error)

// Probe is the Monitor backed by the operating system.
type Probe struct {
	stat Stat
}

// NewProbe creates a Probe using the platform usage query.
func NewProbe() *Probe {
	return &Probe{stat: platformUsage}
}

// NewProbeWithStat creates a Probe with a custom usage query.
// This is intended for testing.
func NewProbeWithStat(fn Stat) *Probe {
	return &Probe{stat: fn}
}

func (p *Probe) Usage(path string) (Usage, error) {
	u, err := p.stat(path)
	if err != nil {
		return Usage{}, fmt.Errorf("disk usage for %s: %w", path, err)
	}
	return u, nil
}
