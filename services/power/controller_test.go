package power

import (
	"testing"
	"time"

	"tanklog-go/bus"
	"tanklog-go/errcode"
	"tanklog-go/services/clock"
	"tanklog-go/services/display"
	"tanklog-go/services/sense"
	"tanklog-go/types"
)

type fakeReader struct {
	readings []types.Reading
	faults   []sense.Fault
	err      error
	calls    int
	lastTS   int64
}

func (f *fakeReader) ReadAll(ts int64) ([]types.Reading, []sense.Fault, error) {
	f.calls++
	f.lastTS = ts
	if f.err != nil {
		return nil, f.faults, f.err
	}
	out := make([]types.Reading, len(f.readings))
	for i, r := range f.readings {
		r.TS = ts
		out[i] = r
	}
	return out, f.faults, nil
}

type fakeStore struct {
	batches   [][]types.Reading
	flushErrs []error
	bootErr   error
	writes    uint32
}

func (f *fakeStore) Boot() error { return f.bootErr }

func (f *fakeStore) Flush(readings []types.Reading) error {
	// The caller reuses the backing array between cycles.
	cp := make([]types.Reading, len(readings))
	copy(cp, readings)
	f.batches = append(f.batches, cp)
	if len(f.flushErrs) > 0 {
		err := f.flushErrs[0]
		f.flushErrs = f.flushErrs[1:]
		if err != nil {
			return err
		}
	}
	f.writes++
	return nil
}

func (f *fakeStore) Path() string   { return "measurements/tank_0.csv" }
func (f *fakeStore) Writes() uint32 { return f.writes }

type fakePresenter struct {
	frames []display.Frame
}

func (f *fakePresenter) Show(fr display.Frame) { f.frames = append(f.frames, fr) }

func (f *fakePresenter) last(t *testing.T) display.Frame {
	t.Helper()
	if len(f.frames) == 0 {
		t.Fatal("nothing presented")
	}
	return f.frames[len(f.frames)-1]
}

func testConfig(capacity int) types.Config {
	cfg := types.Defaults()
	cfg.BufferCap = capacity
	return cfg
}

func newTestController(cfg types.Config, rd *fakeReader, st *fakeStore, pr *fakePresenter) *Controller {
	return New(cfg, Deps{
		Reader:  rd,
		Store:   st,
		Display: pr,
		Clock:   clock.Fixed{Epoch: 1_700_000_000},
	})
}

func TestCyclesFillThenFlushAtCapacity(t *testing.T) {
	rd := &fakeReader{readings: []types.Reading{{Sensor: types.SensorWaterTemp1, Deci: 198}}}
	st := &fakeStore{}
	pr := &fakePresenter{}
	c := newTestController(testConfig(3), rd, st, pr)
	if err := c.Boot(); err != nil {
		t.Fatalf("boot: %v", err)
	}

	for i := 0; i < 2; i++ {
		c.Step(types.WakeTimer)
		if len(st.batches) != 0 {
			t.Fatalf("flushed after %d of 3 cycles", i+1)
		}
		if c.buf.Len() != i+1 {
			t.Fatalf("buffered %d after cycle %d, want %d", c.buf.Len(), i+1, i+1)
		}
	}

	c.Step(types.WakeTimer)
	if len(st.batches) != 1 || len(st.batches[0]) != 3 {
		t.Fatalf("batches = %v, want one batch of 3", st.batches)
	}
	if c.buf.Len() != 0 {
		t.Fatalf("buffer not emptied by flush: %d", c.buf.Len())
	}
	if rd.lastTS < 1_700_000_000 {
		t.Fatalf("timestamp %d not anchored to boot epoch", rd.lastTS)
	}

	c.Step(types.WakeTimer)
	if c.buf.Len() != 1 {
		t.Fatalf("buffered %d after post-flush cycle, want 1", c.buf.Len())
	}
}

// fourReadings mirrors the device's real batch shape: DHT temperature and
// humidity plus two DS18B20 probes.
func fourReadings() []types.Reading {
	return []types.Reading{
		{Sensor: types.SensorAirTemp, Deci: 231, Unit: types.UnitCelsius},
		{Sensor: types.SensorAirHumidity, Deci: 504, Unit: types.UnitRelHumidity},
		{Sensor: types.SensorWaterTemp1, Deci: 198, Unit: types.UnitCelsius},
		{Sensor: types.SensorWaterTemp2, Deci: 201, Unit: types.UnitCelsius},
	}
}

func persisted(st *fakeStore) int {
	n := 0
	for _, b := range st.batches {
		n += len(b)
	}
	return n
}

func TestMultiReadingBatchNeverDropped(t *testing.T) {
	// Capacity deliberately not a multiple of the batch size: the buffer
	// must be flushed before a batch that would not fit, never mid-batch.
	rd := &fakeReader{readings: fourReadings()}
	st := &fakeStore{}
	pr := &fakePresenter{}
	c := newTestController(testConfig(5), rd, st, pr)
	c.Boot()

	cycles := 3
	for i := 0; i < cycles; i++ {
		c.Step(types.WakeTimer)
	}

	produced := cycles * 4
	if got := persisted(st) + c.buf.Len(); got != produced {
		t.Fatalf("produced %d readings, accounted for %d (persisted %d, buffered %d)",
			produced, got, persisted(st), c.buf.Len())
	}
	for _, b := range st.batches {
		if len(b) != 4 {
			t.Errorf("flushed batch of %d, want whole batches of 4", len(b))
		}
	}
}

func TestBatchLargerThanBufferStillPersisted(t *testing.T) {
	rd := &fakeReader{readings: fourReadings()}
	st := &fakeStore{}
	c := newTestController(testConfig(3), rd, st, &fakePresenter{})
	c.Boot()

	c.Step(types.WakeTimer)
	c.Step(types.WakeManual)

	if got := persisted(st) + c.buf.Len(); got != 8 {
		t.Fatalf("produced 8 readings, accounted for %d (persisted %d, buffered %d)",
			got, persisted(st), c.buf.Len())
	}
}

func TestManualWakeFlushesPartialBuffer(t *testing.T) {
	rd := &fakeReader{readings: []types.Reading{{Sensor: types.SensorAirTemp, Deci: 231}}}
	st := &fakeStore{}
	pr := &fakePresenter{}
	c := newTestController(testConfig(30), rd, st, pr)
	c.Boot()

	c.Step(types.WakeTimer)
	c.Step(types.WakeTimer)
	c.Step(types.WakeManual)

	if len(st.batches) != 1 || len(st.batches[0]) != 3 {
		t.Fatalf("batches = %v, want one batch of 3", st.batches)
	}
	if c.buf.Len() != 0 {
		t.Fatalf("buffer not emptied: %d", c.buf.Len())
	}
}

func TestManualWakeEmptyBufferStillPresents(t *testing.T) {
	rd := &fakeReader{} // no adaptors, no readings, no error
	st := &fakeStore{}
	pr := &fakePresenter{}
	c := newTestController(testConfig(30), rd, st, pr)
	c.Boot()

	c.Step(types.WakeManual)

	if len(st.batches) != 1 || len(st.batches[0]) != 0 {
		t.Fatalf("batches = %v, want one empty batch", st.batches)
	}
	if st.writes != 1 {
		// An empty flush reaches the writer, which makes it a no-op itself.
		t.Fatalf("writes = %d", st.writes)
	}
	if len(pr.frames) != 1 {
		t.Fatalf("presented %d frames, want 1", len(pr.frames))
	}
}

func TestSampleFailureDegradedCycle(t *testing.T) {
	rd := &fakeReader{
		err:    errcode.SensorAllFailed,
		faults: []sense.Fault{{ID: "dht11", Err: errcode.SensorReadFailed}},
	}
	st := &fakeStore{}
	pr := &fakePresenter{}
	c := newTestController(testConfig(3), rd, st, pr)
	c.Boot()

	budget := c.Step(types.WakeTimer)

	if c.buf.Len() != 0 {
		t.Fatalf("failed sample buffered: %d", c.buf.Len())
	}
	if len(st.batches) != 0 {
		t.Fatal("flush attempted on degraded cycle")
	}
	fr := pr.last(t)
	if !fr.SampleFault || fr.Count != 0 {
		t.Fatalf("frame = %+v, want sample fault and count 0", fr)
	}
	if budget < 0 {
		t.Fatalf("budget = %v", budget)
	}
}

func TestFlushFailureDropsAndNeverRetries(t *testing.T) {
	rd := &fakeReader{readings: []types.Reading{{Sensor: types.SensorWaterTemp2, Deci: 201}}}
	st := &fakeStore{flushErrs: []error{&errcode.E{C: errcode.WriteFailed, Op: "flush"}}}
	pr := &fakePresenter{}
	c := newTestController(testConfig(2), rd, st, pr)
	c.Boot()

	c.Step(types.WakeTimer)
	c.Step(types.WakeTimer) // fills to 2, flush fails
	if len(st.batches) != 1 {
		t.Fatalf("flush called %d times, want 1", len(st.batches))
	}
	if c.buf.Len() != 0 {
		t.Fatalf("failed flush left %d readings buffered, want 0", c.buf.Len())
	}

	c.Step(types.WakeTimer) // half full, no flush, fault still shown
	if len(st.batches) != 1 {
		t.Fatal("retried flush below capacity")
	}
	if fr := pr.last(t); !fr.StorageFault {
		t.Fatalf("frame = %+v, want storage fault carried forward", fr)
	}

	c.Step(types.WakeTimer) // full again, fresh attempt succeeds
	if len(st.batches) != 2 || len(st.batches[1]) != 2 {
		t.Fatalf("batches = %v, want second batch of 2", st.batches)
	}

	c.Step(types.WakeTimer)
	if fr := pr.last(t); fr.StorageFault {
		t.Fatalf("frame = %+v, storage fault not cleared by good flush", fr)
	}
}

func TestBootStorageFailureNonFatal(t *testing.T) {
	rd := &fakeReader{readings: []types.Reading{{Sensor: types.SensorAirHumidity, Deci: 504, Unit: types.UnitRelHumidity}}}
	st := &fakeStore{bootErr: &errcode.E{C: errcode.MediumAbsent, Op: "boot"}}
	pr := &fakePresenter{}
	c := newTestController(testConfig(3), rd, st, pr)
	if err := c.Boot(); err != nil {
		t.Fatalf("boot: %v", err)
	}

	c.Step(types.WakeTimer)
	fr := pr.last(t)
	if fr.SampleFault || !fr.StorageFault {
		t.Fatalf("frame = %+v, want readings with storage fault", fr)
	}
	if c.buf.Len() != 1 {
		t.Fatalf("buffered %d, want 1", c.buf.Len())
	}
}

func TestStepBudget(t *testing.T) {
	rd := &fakeReader{readings: []types.Reading{{Sensor: types.SensorAirTemp, Deci: 231}}}
	cfg := testConfig(30)
	cfg.SampleIntervalMs = 100
	c := newTestController(cfg, rd, &fakeStore{}, &fakePresenter{})
	c.Boot()

	budget := c.Step(types.WakeTimer)
	if budget <= 0 || budget > 100*time.Millisecond {
		t.Fatalf("budget = %v, want within (0, 100ms]", budget)
	}
}

func TestCycleStatusPublishedRetained(t *testing.T) {
	rd := &fakeReader{readings: []types.Reading{{Sensor: types.SensorWaterTemp1, Deci: 198}}}
	st := &fakeStore{}
	b := bus.NewBus(8)
	c := New(testConfig(3), Deps{
		Reader:  rd,
		Store:   st,
		Display: &fakePresenter{},
		Clock:   clock.Fixed{Epoch: 1_700_000_000},
		Conn:    b.NewConnection("ctl"),
	})
	c.Boot()
	c.Step(types.WakeTimer)

	sub := b.NewConnection("probe").Subscribe(bus.T("logger", "cycle"))
	select {
	case msg := <-sub.Channel():
		cs, ok := msg.Payload.(types.CycleStatus)
		if !ok {
			t.Fatalf("payload %T", msg.Payload)
		}
		if cs.Cycle != 1 || !cs.Sampled || cs.Buffered != 1 || cs.Cause != "timer" {
			t.Fatalf("status = %+v", cs)
		}
	case <-time.After(time.Second):
		t.Fatal("no retained cycle status")
	}
}
