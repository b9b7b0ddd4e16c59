package store

import (
	"testing"

	"tanklog-go/errcode"
	"tanklog-go/types"
)

func TestRecordRoundTrip(t *testing.T) {
	cases := []types.Reading{
		{TS: 1757452800, Sensor: types.SensorAirTemp, Deci: 231, Unit: types.UnitCelsius},
		{TS: 0, Sensor: types.SensorAirHumidity, Deci: 504, Unit: types.UnitRelHumidity},
		{TS: 1757452860, Sensor: types.SensorWaterTemp1, Deci: -5, Unit: types.UnitCelsius},
		{TS: 1757452920, Sensor: types.SensorWaterTemp2, Deci: 0, Unit: types.UnitFahrenheit},
	}
	for _, want := range cases {
		line := AppendRecord(nil, want)
		if line[len(line)-1] != '\n' {
			t.Fatalf("record must end with newline: %q", line)
		}
		got, err := ParseRecord(string(line[:len(line)-1]))
		if err != nil {
			t.Fatalf("ParseRecord(%q): %v", line, err)
		}
		if got != want {
			t.Errorf("round trip: got %+v, want %+v", got, want)
		}
	}
}

func TestAppendRecordFormat(t *testing.T) {
	r := types.Reading{TS: 100, Sensor: types.SensorWaterTemp1, Deci: 198, Unit: types.UnitCelsius}
	got := string(AppendRecord(nil, r))
	want := "100,water_t1,19.8,C\n"
	if got != want {
		t.Errorf("AppendRecord = %q, want %q", got, want)
	}
}

func TestParseRecord_Malformed(t *testing.T) {
	lines := []string{
		"",
		"123",
		"123,air_t1,23.1",          // missing unit
		"123,air_t1,23.1,C,extra",  // too many fields
		"abc,air_t1,23.1,C",        // bad timestamp
		"123,thermocouple0,23.1,C", // unknown sensor
		"123,air_t1,23.1.2,C",      // bad value
		"123,air_t1,23.1,K",        // unknown unit
	}
	for _, line := range lines {
		if _, err := ParseRecord(line); errcode.Of(err) != errcode.InvalidRecord {
			t.Errorf("ParseRecord(%q): err = %v, want InvalidRecord", line, err)
		}
	}
}
