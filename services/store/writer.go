package store

import (
	"tanklog-go/errcode"
	"tanklog-go/types"
	"tanklog-go/x/conv"
)

const fileExt = ".csv"

// Writer appends batches of readings to one data file per logical run.
// At boot it reuses the newest existing data file rather than creating a
// fresh one, so repeated power cycles don't litter the medium with
// near-empty files. The file is never held open between flushes.
//
// Failed flushes are terminal for that batch: the writer neither retries
// nor asks for the readings back. The controller owns what happens next.
type Writer struct {
	medium   Medium
	dir      string
	prefix   string
	maxBytes int64

	path   string // empty until a file has been selected
	index  int
	writes uint32

	// Reusable serialisation scratch, truncated at the end of every flush
	// so peak transient allocation stays bounded.
	buf []byte
}

func NewWriter(m Medium, cfg types.Config) *Writer {
	return &Writer{
		medium:   m,
		dir:      cfg.DataDir,
		prefix:   cfg.FilePrefix,
		maxBytes: cfg.MaxFileBytes,
	}
}

// Path returns the current data file path, or "" before one is selected.
func (w *Writer) Path() string { return w.path }

// Writes returns the number of successful flushes since construction. The
// count is for status telemetry and survives rotation; it is not per-file.
func (w *Writer) Writes() uint32 { return w.writes }

// Boot selects (or creates) the target file. A failure here is surfaced but
// not sticky: Flush retries the selection once data actually needs writing.
func (w *Writer) Boot() error { return w.ensureFile() }

// Flush appends the batch to the data file. An empty batch is a no-op that
// never opens or creates anything.
func (w *Writer) Flush(readings []types.Reading) error {
	if len(readings) == 0 {
		return nil
	}
	if !w.medium.Detect() {
		return &errcode.E{C: errcode.MediumAbsent, Op: "flush"}
	}
	if w.path == "" {
		if err := w.ensureFile(); err != nil {
			return err
		}
	}

	// Rotate past the size cap before appending, not after.
	if size, err := w.medium.Size(w.path); err == nil && w.maxBytes > 0 && size >= w.maxBytes {
		if err := w.createFile(w.index + 1); err != nil {
			return err
		}
	}

	w.buf = w.buf[:0]
	for _, r := range readings {
		w.buf = AppendRecord(w.buf, r)
	}

	f, err := w.medium.Append(w.path)
	if err != nil {
		return &errcode.E{C: errcode.WriteFailed, Op: "flush", Msg: w.path, Err: err}
	}
	_, werr := f.Write(w.buf)
	cerr := f.Close()
	w.buf = w.buf[:0]
	if werr != nil {
		return &errcode.E{C: errcode.WriteFailed, Op: "flush", Msg: w.path, Err: werr}
	}
	if cerr != nil {
		return &errcode.E{C: errcode.WriteFailed, Op: "flush", Msg: w.path, Err: cerr}
	}
	w.writes++
	return nil
}

// ensureFile reuses the highest-numbered existing data file, or creates the
// first one (with its header) when none exist.
func (w *Writer) ensureFile() error {
	if !w.medium.Detect() {
		return &errcode.E{C: errcode.MediumAbsent, Op: "boot"}
	}
	if err := w.medium.MkdirAll(w.dir); err != nil {
		return &errcode.E{C: errcode.WriteFailed, Op: "mkdir", Msg: w.dir, Err: err}
	}

	names, err := w.medium.List(w.dir)
	if err != nil {
		return &errcode.E{C: errcode.WriteFailed, Op: "list", Msg: w.dir, Err: err}
	}
	best := -1
	for _, name := range names {
		if n, ok := w.fileIndex(name); ok && n > best {
			best = n
		}
	}
	if best >= 0 {
		w.index = best
		w.path = w.filePath(best)
		return nil
	}
	return w.createFile(0)
}

// createFile starts data file n and writes the header row once.
func (w *Writer) createFile(n int) error {
	path := w.filePath(n)
	f, err := w.medium.Create(path)
	if err != nil {
		return &errcode.E{C: errcode.WriteFailed, Op: "create", Msg: path, Err: err}
	}
	_, werr := f.Write([]byte(Header))
	cerr := f.Close()
	if werr != nil {
		return &errcode.E{C: errcode.WriteFailed, Op: "create", Msg: path, Err: werr}
	}
	if cerr != nil {
		return &errcode.E{C: errcode.WriteFailed, Op: "create", Msg: path, Err: cerr}
	}
	w.index = n
	w.path = path
	return nil
}

func (w *Writer) filePath(n int) string {
	b := make([]byte, 0, len(w.dir)+1+len(w.prefix)+8)
	b = append(b, w.dir...)
	b = append(b, '/')
	b = append(b, w.prefix...)
	b = conv.AppendInt(b, int64(n))
	b = append(b, fileExt...)
	return string(b)
}

// fileIndex extracts n from "<prefix><n><ext>"; ok is false for foreign files.
func (w *Writer) fileIndex(name string) (int, bool) {
	if len(name) <= len(w.prefix)+len(fileExt) {
		return 0, false
	}
	if name[:len(w.prefix)] != w.prefix || name[len(name)-len(fileExt):] != fileExt {
		return 0, false
	}
	mid := name[len(w.prefix) : len(name)-len(fileExt)]
	n, err := conv.ParseInt(mid)
	if err != nil || n < 0 {
		return 0, false
	}
	return int(n), true
}
