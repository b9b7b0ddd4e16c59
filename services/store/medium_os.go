package store

import (
	"io"
	"os"
	"path/filepath"
)

// OSMedium maps Medium onto a host directory. Used by the simulator binary
// and the package tests.
type OSMedium struct {
	Root string
}

func (m *OSMedium) abs(p string) string { return filepath.Join(m.Root, filepath.FromSlash(p)) }

func (m *OSMedium) Detect() bool {
	info, err := os.Stat(m.Root)
	return err == nil && info.IsDir()
}

func (m *OSMedium) MkdirAll(dir string) error {
	return os.MkdirAll(m.abs(dir), 0o755)
}

func (m *OSMedium) List(dir string) ([]string, error) {
	entries, err := os.ReadDir(m.abs(dir))
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() {
			names = append(names, e.Name())
		}
	}
	return names, nil
}

func (m *OSMedium) Size(path string) (int64, error) {
	info, err := os.Stat(m.abs(path))
	if err != nil {
		return 0, err
	}
	return info.Size(), nil
}

func (m *OSMedium) Create(path string) (io.WriteCloser, error) {
	return os.OpenFile(m.abs(path), os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
}

func (m *OSMedium) Append(path string) (io.WriteCloser, error) {
	return os.OpenFile(m.abs(path), os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644)
}
