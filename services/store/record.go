package store

import (
	"tanklog-go/errcode"
	"tanklog-go/types"
	"tanklog-go/x/conv"
)

// Header precedes records on file creation, once per file.
const Header = "timestamp,sensor,value,unit\n"

// AppendRecord serialises one Reading as a CSV line into dst.
// Field order is fixed (timestamp, sensor, value, unit) and the encoding is
// injective: ParseRecord inverts it field for field.
func AppendRecord(dst []byte, r types.Reading) []byte {
	dst = conv.AppendInt(dst, r.TS)
	dst = append(dst, ',')
	dst = append(dst, r.Sensor.Token()...)
	dst = append(dst, ',')
	dst = conv.AppendDeci(dst, r.Deci)
	dst = append(dst, ',')
	dst = append(dst, r.Unit.Token()...)
	return append(dst, '\n')
}

// ParseRecord decodes one line (without the trailing newline) back into a
// Reading. Used by tests and offline tooling; the device only writes.
func ParseRecord(line string) (types.Reading, error) {
	var r types.Reading

	fields := [4]string{}
	n := 0
	start := 0
	for i := 0; i < len(line); i++ {
		if line[i] == ',' {
			if n >= 3 {
				return r, errcode.InvalidRecord
			}
			fields[n] = line[start:i]
			n++
			start = i + 1
		}
	}
	fields[n] = line[start:]
	if n != 3 {
		return r, errcode.InvalidRecord
	}

	ts, err := conv.ParseInt(fields[0])
	if err != nil {
		return r, errcode.InvalidRecord
	}
	sensor, ok := types.ParseSensorID(fields[1])
	if !ok {
		return r, errcode.InvalidRecord
	}
	deci, err := conv.ParseDeci(fields[2])
	if err != nil {
		return r, errcode.InvalidRecord
	}
	unit, ok := types.ParseUnit(fields[3])
	if !ok {
		return r, errcode.InvalidRecord
	}

	r.TS = ts
	r.Sensor = sensor
	r.Deci = deci
	r.Unit = unit
	return r, nil
}
