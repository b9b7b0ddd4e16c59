package display

import (
	"image/color"

	"tinygo.org/x/drivers"
	"tinygo.org/x/tinyfont"
	"tinygo.org/x/tinyfont/proggy"

	"tanklog-go/types"
)

// Screen is the slice of the panel driver the presenter needs; the SSD1306
// I2C device satisfies it.
type Screen interface {
	drivers.Displayer
	ClearDisplay()
}

// OLED draws up to four readings and a status footer on a 128x64 panel.
type OLED struct {
	screen Screen
	font   *tinyfont.Font
	prefer types.Unit

	line []byte // reusable render scratch
}

func NewOLED(s Screen, prefer types.Unit) *OLED {
	return &OLED{
		screen: s,
		font:   &proggy.TinySZ8pt7b,
		prefer: prefer,
		line:   make([]byte, 0, 24),
	}
}

var white = color.RGBA{R: 255, G: 255, B: 255, A: 255}

func (o *OLED) Show(f Frame) {
	o.screen.ClearDisplay()

	y := int16(10)
	if f.SampleFault {
		tinyfont.WriteLine(o.screen, o.font, 0, y, "SENSOR FAULT", white)
		y += 12
	}
	for _, r := range f.Readings {
		if y > 52 {
			break
		}
		o.line = FormatReading(o.line[:0], r, o.prefer)
		tinyfont.WriteLine(o.screen, o.font, 0, y, string(o.line), white)
		y += 12
	}

	o.line = FormatFooter(o.line[:0], f)
	tinyfont.WriteLine(o.screen, o.font, 0, 62, string(o.line), white)

	// Fire-and-forget: a panel glitch must never stall the cycle.
	_ = o.screen.Display()
}
