package store

import (
	"io"
	"os"

	"tinygo.org/x/tinyfs"
)

// TinyFSMedium maps Medium onto a tinyfs filesystem (FAT over an SD card on
// the real device). The filesystem is mounted lazily on first Detect so an
// absent card at boot is reported, not fatal.
type TinyFSMedium struct {
	fs      tinyfs.Filesystem
	mounted bool
}

func NewTinyFSMedium(fs tinyfs.Filesystem) *TinyFSMedium {
	return &TinyFSMedium{fs: fs}
}

// Detect mounts on first use and re-verifies an existing mount with a root
// stat, so a card pulled mid-run reads as absent rather than as a write
// failure on the next flush.
func (m *TinyFSMedium) Detect() bool {
	if m.mounted {
		if _, err := m.fs.Stat("/"); err == nil {
			return true
		}
		_ = m.fs.Unmount()
		m.mounted = false
	}
	if err := m.fs.Mount(); err != nil {
		return false
	}
	m.mounted = true
	return true
}

func (m *TinyFSMedium) MkdirAll(dir string) error {
	// Segment-wise mkdir; "exists" errors are expected and ignored, the
	// final List/Create will surface anything real.
	for i := 0; i <= len(dir); i++ {
		if i == len(dir) || dir[i] == '/' {
			if i > 0 {
				_ = m.fs.Mkdir(dir[:i], 0o755)
			}
		}
	}
	return nil
}

func (m *TinyFSMedium) List(dir string) ([]string, error) {
	d, err := m.fs.OpenFile(dir, os.O_RDONLY)
	if err != nil {
		return nil, err
	}
	defer d.Close()
	infos, err := d.Readdir(0)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(infos))
	for _, info := range infos {
		if !info.IsDir() {
			names = append(names, info.Name())
		}
	}
	return names, nil
}

func (m *TinyFSMedium) Size(path string) (int64, error) {
	info, err := m.fs.Stat(path)
	if err != nil {
		return 0, err
	}
	return info.Size(), nil
}

func (m *TinyFSMedium) Create(path string) (io.WriteCloser, error) {
	return m.fs.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC)
}

func (m *TinyFSMedium) Append(path string) (io.WriteCloser, error) {
	return m.fs.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_APPEND)
}
