package sense

import (
	"time"

	"tanklog-go/errcode"
	"tanklog-go/types"
)

// Reader polls all configured adaptors in fixed order. A single adaptor
// failure omits that adaptor's sensors from the batch; it never substitutes
// a stale or zero value. Only a poll that yields nothing at all is an error.
type Reader struct {
	adaptors []Adaptor

	retryBackoff time.Duration
	maxRetries   int
	sleep        func(time.Duration) // injectable for tests
}

func NewReader(adaptors ...Adaptor) *Reader {
	return &Reader{
		adaptors:     adaptors,
		retryBackoff: 15 * time.Millisecond,
		maxRetries:   6,
		sleep:        time.Sleep,
	}
}

// ReadAll runs one trigger/collect pass and stamps results with ts (epoch
// seconds). Returned faults carry the per-adaptor errors for surfacing.
// err is non-nil only when every adaptor failed (errcode.SensorAllFailed).
func (r *Reader) ReadAll(ts int64) ([]types.Reading, []Fault, error) {
	type pending struct {
		adaptor Adaptor
		due     time.Time
	}

	var faults []Fault
	var waits []pending

	// Phase 1: trigger every conversion up front so the waits overlap.
	for _, a := range r.adaptors {
		after, err := a.Trigger()
		if err != nil {
			faults = append(faults, Fault{ID: a.ID(), Err: &errcode.E{
				C: errcode.SensorReadFailed, Op: "trigger", Msg: a.ID(), Err: err,
			}})
			continue
		}
		waits = append(waits, pending{adaptor: a, due: time.Now().Add(after)})
	}

	// Phase 2: collect in the same fixed order, honouring each due time.
	var readings []types.Reading
	for _, p := range waits {
		if d := time.Until(p.due); d > 0 {
			r.sleep(d)
		}
		samples, err := r.collect(p.adaptor)
		if err != nil {
			faults = append(faults, Fault{ID: p.adaptor.ID(), Err: &errcode.E{
				C: errcode.SensorReadFailed, Op: "collect", Msg: p.adaptor.ID(), Err: err,
			}})
			continue
		}
		for _, s := range samples {
			readings = append(readings, types.Reading{
				TS:     ts,
				Sensor: s.Sensor,
				Deci:   s.Deci,
				Unit:   s.Unit,
			})
		}
	}

	if len(readings) == 0 && len(r.adaptors) > 0 {
		return nil, faults, errcode.SensorAllFailed
	}
	return readings, faults, nil
}

func (r *Reader) collect(a Adaptor) ([]Sample, error) {
	for attempt := 0; ; attempt++ {
		samples, err := a.Collect()
		if err == nil {
			return samples, nil
		}
		if err != ErrNotReady || attempt >= r.maxRetries {
			return nil, err
		}
		r.sleep(r.retryBackoff)
	}
}
