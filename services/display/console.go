package display

import "tanklog-go/types"

// Console prints frames with the runtime's builtin println; it serves the
// host simulator and doubles as a serial-port display on hardware.
type Console struct {
	Prefer types.Unit
	line   []byte
}

func (c *Console) Show(f Frame) {
	for _, r := range f.Readings {
		c.line = FormatReading(c.line[:0], r, c.Prefer)
		println("[display]", string(c.line))
	}
	c.line = FormatFooter(c.line[:0], f)
	println("[display]", string(c.line))
}
