// Package clock supplies the boot epoch. The core reads it exactly once per
// power-on; every later timestamp is boot epoch plus monotonic elapsed time,
// so intra-run drift of the source is accepted, not chased.
package clock

import "time"

// Source yields the current wall-clock time as epoch seconds.
type Source interface {
	Now() (int64, error)
}

// System reads the host's clock. Used by the simulator and tests.
type System struct{}

func (System) Now() (int64, error) { return time.Now().Unix(), nil }

// Fixed always returns the same epoch. Used by tests.
type Fixed struct {
	Epoch int64
}

func (f Fixed) Now() (int64, error) { return f.Epoch, nil }
