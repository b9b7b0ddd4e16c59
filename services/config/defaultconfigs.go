package config

// -----------------------------------------------------------------------------
// Embedded configuration
//
// Populate embeddedConfigs at build time (e.g. via code generation) or
// manually during development.
// Key: device ID (same value placed in ctx under CtxDeviceKey)
// Val: raw JSON bytes for that device
// -----------------------------------------------------------------------------

const cfgPico = `{
  "logger": {
      "interval_ms": 60000,
      "buffer_cap": 30,
      "probe_count": 2,
      "display_unit": "F",
      "cpu_freq_hz": 80000000
  },
  "storage": {
      "dir": "measurements",
      "prefix": "tank_",
      "max_file_bytes": 2097152
  }
}`

const cfgHost = `{
  "logger": {
      "interval_ms": 2000,
      "buffer_cap": 5,
      "probe_count": 2,
      "display_unit": "C"
  },
  "storage": {
      "dir": "measurements",
      "prefix": "tank_",
      "max_file_bytes": 65536
  }
}`

var embeddedConfigs = map[string][]byte{
	"pico": []byte(cfgPico),
	"host": []byte(cfgHost),
}
