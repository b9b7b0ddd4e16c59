package types

// ---- Sensors ----

// SensorID identifies one logical measurement channel.
type SensorID uint8

const (
	SensorAirTemp SensorID = iota
	SensorAirHumidity
	SensorWaterTemp1
	SensorWaterTemp2
)

var sensorTokens = [...]string{"air_t1", "air_rh", "water_t1", "water_t2"}

// Token is the stable wire/file identifier for the sensor.
func (s SensorID) Token() string {
	if int(s) < len(sensorTokens) {
		return sensorTokens[s]
	}
	return "unknown"
}

// ParseSensorID maps a wire token back to a SensorID.
func ParseSensorID(tok string) (SensorID, bool) {
	for i, t := range sensorTokens {
		if t == tok {
			return SensorID(i), true
		}
	}
	return 0, false
}

// ---- Units ----

// Unit is the measurement unit of a Reading.
type Unit uint8

const (
	UnitCelsius Unit = iota
	UnitFahrenheit
	UnitRelHumidity
)

var unitTokens = [...]string{"C", "F", "%RH"}

func (u Unit) Token() string {
	if int(u) < len(unitTokens) {
		return unitTokens[u]
	}
	return "?"
}

func ParseUnit(tok string) (Unit, bool) {
	for i, t := range unitTokens {
		if t == tok {
			return Unit(i), true
		}
	}
	return 0, false
}

// ---- Readings ----

// Reading is one timestamped measurement. Immutable once created.
// Values are fixed-point, tenths of the unit (e.g. 231 => 23.1 °C,
// 504 => 50.4 %RH), to avoid floating point on the hot path.
type Reading struct {
	TS     int64 // epoch seconds, boot epoch + monotonic offset
	Sensor SensorID
	Deci   int32
	Unit   Unit
}

// DeciCToF converts tenths of °C to tenths of °F.
func DeciCToF(deciC int32) int32 { return deciC*9/5 + 320 }

// ---- Wake classification ----

// WakeCause tags the hardware event that ended a sleep interval.
type WakeCause uint8

const (
	WakeTimer WakeCause = iota
	WakeManual
)

func (w WakeCause) String() string {
	if w == WakeManual {
		return "manual"
	}
	return "timer"
}

// ---- Bus status payloads ----

// CycleStatus is published retained after every cycle.
type CycleStatus struct {
	Cycle    uint32 `json:"cycle"`
	TSMs     int64  `json:"ts_ms"`
	Cause    string `json:"cause"`
	Sampled  bool   `json:"sampled"`
	Buffered int    `json:"buffered"`
	Flushed  int    `json:"flushed"` // records written this cycle, -1 on flush failure
	Err      string `json:"err,omitempty"`
}

// StorageStatus is published retained after boot and after every flush.
type StorageStatus struct {
	Path   string `json:"path"`
	Writes uint32 `json:"writes"`
	Err    string `json:"err,omitempty"`
}
