package sense

import (
	"time"

	"tanklog-go/types"
)

// Sample is one un-timestamped datum from an adaptor.
type Sample struct {
	Sensor types.SensorID
	Deci   int32 // tenths of Unit
	Unit   types.Unit
}

// Adaptor owns a concrete sensor driver and exposes the two-phase hooks.
// Trigger starts a conversion and returns the suggested wait before Collect;
// both run on the single control thread, never from interrupt context.
type Adaptor interface {
	ID() string
	Sensors() []types.SensorID
	Trigger() (collectAfter time.Duration, err error)
	// Collect fetches the measurement batch; may return ErrNotReady.
	Collect() ([]Sample, error)
}

// ErrNotReady signals the reader to retry Collect after a short backoff.
var ErrNotReady = errNotReady{}

type errNotReady struct{}

func (errNotReady) Error() string { return "not ready" }

// Fault records one adaptor's failure within an otherwise usable batch.
type Fault struct {
	ID  string
	Err error
}
