// Package display renders the latest cycle for the operator. Presenters are
// fire-and-forget: the controller never consumes a return value and never
// lets presentation block the flush/sleep decisions.
package display

import (
	"tanklog-go/types"
	"tanklog-go/x/conv"
)

// Frame is what one cycle looks like to the operator.
type Frame struct {
	Readings     []types.Reading // latest successful batch, possibly partial
	Count        uint32          // measurements taken since boot
	SampleFault  bool            // this cycle's poll yielded nothing
	StorageFault bool            // most recent flush failed
}

type Presenter interface {
	Show(f Frame)
}

// labels keeps the on-screen names in sensor order.
var labels = [...]string{"AIR", "RH ", "W1 ", "W2 "}

func label(s types.SensorID) string {
	if int(s) < len(labels) {
		return labels[s]
	}
	return "?  "
}

// FormatReading renders one reading as e.g. "AIR 72.1F", converting
// temperatures to the preferred display unit. Stored records are unaffected;
// this conversion exists only at the presentation edge.
func FormatReading(dst []byte, r types.Reading, prefer types.Unit) []byte {
	dst = append(dst, label(r.Sensor)...)
	dst = append(dst, ' ')

	deci, unit := r.Deci, r.Unit
	if unit == types.UnitCelsius && prefer == types.UnitFahrenheit {
		deci, unit = types.DeciCToF(deci), types.UnitFahrenheit
	}
	dst = conv.AppendDeci(dst, deci)
	if unit == types.UnitRelHumidity {
		return append(dst, '%')
	}
	return append(dst, unit.Token()...)
}

// FormatFooter renders the measurement counter plus fault markers,
// e.g. "#42 SD!".
func FormatFooter(dst []byte, f Frame) []byte {
	dst = append(dst, '#')
	dst = conv.AppendUint(dst, uint64(f.Count))
	if f.SampleFault {
		dst = append(dst, " SENS!"...)
	}
	if f.StorageFault {
		dst = append(dst, " SD!"...)
	}
	return dst
}
