package power

import (
	"runtime"
	"time"

	"tanklog-go/bus"
	"tanklog-go/errcode"
	"tanklog-go/services/clock"
	"tanklog-go/services/display"
	"tanklog-go/services/sense"
	"tanklog-go/types"
	"tanklog-go/x/timex"
)

// SensorReader is what the controller needs from the sensing layer.
type SensorReader interface {
	ReadAll(ts int64) ([]types.Reading, []sense.Fault, error)
}

// StorageWriter is what the controller needs from the storage layer.
type StorageWriter interface {
	Boot() error
	Flush(readings []types.Reading) error
	Path() string
	Writes() uint32
}

// Blinker drives the status LED. Implementations must not block the cycle
// for longer than a couple of milliseconds.
type Blinker interface {
	Activity()
	Flushed()
	Trouble()
}

type nopBlinker struct{}

func (nopBlinker) Activity() {}
func (nopBlinker) Flushed()  {}
func (nopBlinker) Trouble()  {}

// Deps are the controller's collaborators. Blinker and Conn may be nil.
type Deps struct {
	Reader  SensorReader
	Store   StorageWriter
	Display display.Presenter
	Clock   clock.Source
	Sleeper Sleeper
	Blinker Blinker
	Conn    *bus.Connection
}

// Controller owns the wake/sample/present/flush/sleep cycle. It runs on a
// single goroutine; everything it calls is synchronous and time-bounded so
// one cycle can never stall the next.
type Controller struct {
	cfg  types.Config
	deps Deps

	buf       *Buffer
	bootEpoch int64
	bootAt    time.Time
	cycle     uint32
	count     uint32
	storeErr  errcode.Code
}

func New(cfg types.Config, deps Deps) *Controller {
	if deps.Blinker == nil {
		deps.Blinker = nopBlinker{}
	}
	return &Controller{
		cfg:  cfg,
		deps: deps,
		buf:  NewBuffer(cfg.BufferCap),
	}
}

// Boot acquires the epoch once, prepares the measurement file and runs one
// collection pass so steady-state cycles start from a known heap. Storage
// trouble is recorded and surfaced, never fatal; the device still samples
// and displays with storage absent.
func (c *Controller) Boot() error {
	c.bootAt = time.Now()
	if epoch, err := c.deps.Clock.Now(); err == nil {
		c.bootEpoch = epoch
	} else {
		println("power: clock unavailable, timestamps relative to boot:", err.Error())
		c.deps.Blinker.Trouble()
	}

	if err := c.deps.Store.Boot(); err != nil {
		c.storeErr = errcode.Of(err)
		println("power: storage boot:", err.Error())
		c.deps.Blinker.Trouble()
	}
	c.publishStorage()

	// One discarded measurement settles the sensors and pre-sizes the heap
	// before cycle timing matters.
	if _, _, err := c.deps.Reader.ReadAll(c.now()); err != nil {
		println("power: boot self-check:", err.Error())
		c.deps.Blinker.Trouble()
	}

	runtime.GC()
	return nil
}

// Step executes one full wake cycle for the given cause and returns the
// sleep budget: the configured interval minus the time the cycle consumed,
// floored at zero.
func (c *Controller) Step(cause types.WakeCause) time.Duration {
	start := time.Now()
	c.cycle++
	storageFault := c.storeErr != errcode.OK

	ts := c.now()
	readings, faults, err := c.deps.Reader.ReadAll(ts)
	sampled := err == nil

	flushed := 0
	track := func(n int) {
		if n < 0 || flushed < 0 {
			flushed = -1
		} else {
			flushed += n
		}
	}

	if sampled {
		c.count++
		// A cycle appends the whole batch or none of it from the buffer's
		// point of view: flush up front when the batch would not fit, so
		// Append can only fail for a batch larger than the entire buffer.
		if c.buf.Len()+len(readings) > c.buf.Cap() {
			track(c.flushNow())
		}
		for _, r := range readings {
			if c.buf.Append(r) != nil {
				track(c.flushNow())
				if aerr := c.buf.Append(r); aerr != nil {
					println("power: buffer overrun, dropping reading:", aerr.Error())
				}
			}
		}
	} else {
		println("power: sampling failed:", err.Error())
	}
	for _, f := range faults {
		println("power: sensor fault:", f.ID, f.Err.Error())
	}

	c.deps.Display.Show(display.Frame{
		Readings:     readings,
		Count:        c.count,
		SampleFault:  !sampled,
		StorageFault: storageFault,
	})
	c.deps.Blinker.Activity()

	if c.buf.Full() || cause == types.WakeManual {
		track(c.flushNow())
	}

	c.publishCycle(cause, sampled, flushed, err)
	return timex.Budget(time.Duration(c.cfg.SampleIntervalMs)*time.Millisecond, time.Since(start))
}

// flushNow drains the buffer and writes the batch out, returning the record
// count or -1 on failure. Drained readings are gone either way: no retry,
// no re-buffer; the failure is surfaced and the next cycle starts clean.
func (c *Controller) flushNow() int {
	drained := c.buf.Drain()
	n := len(drained)
	if ferr := c.deps.Store.Flush(drained); ferr != nil {
		c.storeErr = errcode.Of(ferr)
		println("power: flush failed, dropped", n, "readings:", ferr.Error())
		c.deps.Blinker.Trouble()
		c.publishStorage()
		return -1
	}
	c.storeErr = errcode.OK
	if n > 0 {
		c.deps.Blinker.Flushed()
	}
	c.publishStorage()
	return n
}

// Run loops Step and Sleep until the process ends. The first cycle runs
// immediately as a timer wake; each later cause comes from the sleeper.
func (c *Controller) Run() {
	cause := types.WakeTimer
	for {
		budget := c.Step(cause)
		cause = c.deps.Sleeper.Sleep(budget)
	}
}

// now derives the current epoch from the boot epoch plus monotonic elapsed
// time, so a wedged or drifting RTC bus cannot skew mid-run timestamps.
func (c *Controller) now() int64 {
	return c.bootEpoch + int64(time.Since(c.bootAt)/time.Second)
}

func (c *Controller) publishCycle(cause types.WakeCause, sampled bool, flushed int, err error) {
	if c.deps.Conn == nil {
		return
	}
	st := types.CycleStatus{
		Cycle:    c.cycle,
		TSMs:     timex.NowMs(),
		Cause:    cause.String(),
		Sampled:  sampled,
		Buffered: c.buf.Len(),
		Flushed:  flushed,
	}
	if err != nil {
		st.Err = err.Error()
	}
	c.deps.Conn.Publish(c.deps.Conn.NewMessage(bus.T("logger", "cycle"), st, true))
}

func (c *Controller) publishStorage() {
	if c.deps.Conn == nil {
		return
	}
	st := types.StorageStatus{
		Path:   c.deps.Store.Path(),
		Writes: c.deps.Store.Writes(),
	}
	if c.storeErr != errcode.OK {
		st.Err = string(c.storeErr)
	}
	c.deps.Conn.Publish(c.deps.Conn.NewMessage(bus.T("logger", "storage"), st, true))
}
