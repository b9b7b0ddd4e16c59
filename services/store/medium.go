package store

import "io"

// Medium is the narrow slice of a filesystem the writer needs. Paths are
// slash-separated and medium-relative. Implementations: fatfs over an SD
// block device on hardware, an os-backed directory on the host.
type Medium interface {
	// Detect reports whether a writable medium is currently present.
	Detect() bool
	MkdirAll(dir string) error
	// List returns the file names (not paths) in dir.
	List(dir string) ([]string, error)
	Size(path string) (int64, error)
	// Create truncates/creates path for writing.
	Create(path string) (io.WriteCloser, error)
	// Append opens path for appending, creating it if absent.
	Append(path string) (io.WriteCloser, error)
}
