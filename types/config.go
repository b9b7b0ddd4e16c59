package types

// Config is the immutable boot-time configuration. It is constructed once by
// the config service and passed by value into the controller and services;
// nothing mutates it mid-run.
type Config struct {
	// Acquisition
	SampleIntervalMs uint32 // full wake-to-wake period
	BufferCap        int    // measurement buffer capacity N
	ProbeCount       int    // expected DS18B20 ROMs on the 1-wire bus

	// Presentation
	DisplayUnit Unit // UnitCelsius or UnitFahrenheit

	// Storage
	DataDir      string // measurements directory on the medium
	FilePrefix   string // data file name prefix, e.g. "tank_"
	MaxFileBytes int64  // rotate to a fresh file beyond this size

	// Platform
	CPUFreqHz uint32 // informational; selected at build/boot time
}

// Defaults mirrors the embedded device config and backs host runs.
func Defaults() Config {
	return Config{
		SampleIntervalMs: 60_000,
		BufferCap:        30,
		ProbeCount:       2,
		DisplayUnit:      UnitFahrenheit,
		DataDir:          "measurements",
		FilePrefix:       "tank_",
		MaxFileBytes:     2 << 20,
		CPUFreqHz:        80_000_000,
	}
}
