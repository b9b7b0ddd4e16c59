package sense

import (
	"time"

	"tanklog-go/types"
)

// SimAdaptor produces deterministic synthetic values. It backs the host
// simulator binary and the reader tests.
type SimAdaptor struct {
	Name    string
	Outputs []Sample
	Wait    time.Duration // returned from Trigger

	TriggerErr error
	CollectErr error
	NotReadyN  int // Collect returns ErrNotReady this many times first

	Triggers int
	Collects int
}

func (s *SimAdaptor) ID() string { return s.Name }

func (s *SimAdaptor) Sensors() []types.SensorID {
	ids := make([]types.SensorID, len(s.Outputs))
	for i, o := range s.Outputs {
		ids[i] = o.Sensor
	}
	return ids
}

func (s *SimAdaptor) Trigger() (time.Duration, error) {
	s.Triggers++
	if s.TriggerErr != nil {
		return 0, s.TriggerErr
	}
	return s.Wait, nil
}

func (s *SimAdaptor) Collect() ([]Sample, error) {
	s.Collects++
	if s.NotReadyN > 0 {
		s.NotReadyN--
		return nil, ErrNotReady
	}
	if s.CollectErr != nil {
		return nil, s.CollectErr
	}
	out := make([]Sample, len(s.Outputs))
	copy(out, s.Outputs)
	return out, nil
}

// Drift shifts every output by the given tenths; the simulator uses it to
// produce plausibly moving values between cycles.
func (s *SimAdaptor) Drift(deci int32) {
	for i := range s.Outputs {
		s.Outputs[i].Deci += deci
	}
}
