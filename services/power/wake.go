package power

import (
	"sync/atomic"
	"time"

	"tanklog-go/types"
)

// Latch records a pending manual wake request. Trip is safe to call from an
// interrupt handler; Take reads and clears from the control loop. A press
// that lands while the device is already awake stays latched and classifies
// the next wake as manual rather than being lost.
type Latch struct {
	v uint32
}

func (l *Latch) Trip() {
	atomic.StoreUint32(&l.v, 1)
}

// Take returns WakeManual if the latch was tripped since the last call,
// clearing it, and WakeTimer otherwise.
func (l *Latch) Take() types.WakeCause {
	if atomic.SwapUint32(&l.v, 0) != 0 {
		return types.WakeManual
	}
	return types.WakeTimer
}

// Sleeper parks the device for up to d and reports what ended the sleep.
type Sleeper interface {
	Sleep(d time.Duration) types.WakeCause
}

// SliceSleeper sleeps in short slices, checking the latch between slices so
// a manual request cuts the interval short. On hardware with wake-capable
// pin interrupts the slices map onto light sleep periods; on a host they are
// plain time.Sleep calls.
type SliceSleeper struct {
	Latch *Latch
	Slice time.Duration       // granularity of wake checks, default 50ms
	Park  func(time.Duration) // default time.Sleep
}

func (s *SliceSleeper) Sleep(d time.Duration) types.WakeCause {
	slice := s.Slice
	if slice <= 0 {
		slice = 50 * time.Millisecond
	}
	park := s.Park
	if park == nil {
		park = time.Sleep
	}
	if s.Latch.Take() == types.WakeManual {
		return types.WakeManual
	}
	for d > 0 {
		step := slice
		if d < step {
			step = d
		}
		park(step)
		d -= step
		if s.Latch.Take() == types.WakeManual {
			return types.WakeManual
		}
	}
	return types.WakeTimer
}
