package errcode

// Code is a stable, bus-facing error identifier.
// It is a string newtype, comparable, allocation-free, and implements error.
type Code string

func (c Code) Error() string { return string(c) }

// Canonical codes (short, stable).
const (
	OK Code = "ok"

	// Sensor Reader
	SensorReadFailed Code = "sensor_read_failed" // one sensor omitted from the batch
	SensorAllFailed  Code = "sensor_all_failed"  // entire poll produced nothing

	// Measurement Buffer
	BufferFull Code = "buffer_full" // invariant violation, not a normal path

	// Storage Writer
	MediumAbsent Code = "medium_absent" // no writable medium detected
	WriteFailed  Code = "write_failed"  // I/O failure mid-write

	InvalidParams Code = "invalid_params"
	InvalidRecord Code = "invalid_record"

	Error Code = "error" // generic fallback
)

// E keeps context and a cause alongside a Code.
type E struct {
	C   Code
	Op  string
	Msg string
	Err error
}

func (e *E) Error() string {
	if e.Msg != "" {
		return string(e.C) + ": " + e.Msg
	}
	return string(e.C)
}
func (e *E) Unwrap() error { return e.Err }
func (e *E) Code() Code    { return e.C }

// Of extracts a Code from an error, defaulting to Error.
func Of(err error) Code {
	if err == nil {
		return OK
	}
	if c, ok := err.(Code); ok {
		return c
	}
	type coder interface{ Code() Code }
	if x, ok := err.(coder); ok {
		return x.Code()
	}
	return Error
}

// Is reports whether err carries the given code, directly or via E.
func Is(err error, c Code) bool { return Of(err) == c }
