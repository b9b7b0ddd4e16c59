package config

import (
	"context"
	"errors"

	"tanklog-go/bus"
	"tanklog-go/types"

	"github.com/andreyvit/tinyjson"
)

// -----------------------------------------------------------------------------
// String constants (live in flash, not RAM)
// -----------------------------------------------------------------------------

const (
	serviceName  = "config"
	configPrefix = "config"
	CtxDeviceKey = "device" // context key used for device ID
)

// EmbeddedConfigLookup allows overriding how configs are resolved.
var EmbeddedConfigLookup = func(device string) ([]byte, bool) {
	b, ok := embeddedConfigs[device]
	return b, ok
}

// Load parses the embedded config for a device into one immutable Config.
// Missing keys fall back to types.Defaults(); settings are fixed at boot and
// never mutated mid-run.
func Load(device string) (types.Config, error) {
	cfg := types.Defaults()

	raw, ok := EmbeddedConfigLookup(device)
	if !ok || len(raw) == 0 {
		return cfg, errors.New("no embedded config for device: " + device)
	}

	r := tinyjson.Raw(raw)
	val := r.Value()
	r.EnsureEOF()

	m, ok := val.(map[string]any)
	if !ok {
		return cfg, errors.New("embedded config is not a JSON object")
	}

	if lg, ok := m["logger"].(map[string]any); ok {
		if v, ok := num(lg, "interval_ms"); ok {
			cfg.SampleIntervalMs = uint32(v)
		}
		if v, ok := num(lg, "buffer_cap"); ok {
			cfg.BufferCap = int(v)
		}
		if v, ok := num(lg, "probe_count"); ok {
			cfg.ProbeCount = int(v)
		}
		if v, ok := num(lg, "cpu_freq_hz"); ok {
			cfg.CPUFreqHz = uint32(v)
		}
		if s, ok := lg["display_unit"].(string); ok {
			if u, ok := types.ParseUnit(s); ok {
				cfg.DisplayUnit = u
			}
		}
	}
	if st, ok := m["storage"].(map[string]any); ok {
		if s, ok := st["dir"].(string); ok && s != "" {
			cfg.DataDir = s
		}
		if s, ok := st["prefix"].(string); ok && s != "" {
			cfg.FilePrefix = s
		}
		if v, ok := num(st, "max_file_bytes"); ok {
			cfg.MaxFileBytes = int64(v)
		}
	}
	return cfg, nil
}

func num(m map[string]any, key string) (float64, bool) {
	switch v := m[key].(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	}
	return 0, false
}

// -----------------------------------------------------------------------------
// Config Service
// -----------------------------------------------------------------------------

type ConfigService struct {
	Name string
}

func NewConfigService() *ConfigService {
	return &ConfigService{Name: serviceName}
}

// publishConfig reads the device config from embedded data and publishes each
// top-level section as a retained message under config/<section>.
func (s *ConfigService) publishConfig(ctx context.Context, conn *bus.Connection) error {
	device, _ := ctx.Value(CtxDeviceKey).(string)
	if device == "" {
		return errors.New("missing device ID in context")
	}

	raw, ok := EmbeddedConfigLookup(device)
	if !ok || len(raw) == 0 {
		return errors.New("no embedded config for device: " + device)
	}

	r := tinyjson.Raw(raw)
	val := r.Value()
	r.EnsureEOF()

	m, ok := val.(map[string]any)
	if !ok {
		return errors.New("embedded config is not a JSON object")
	}

	for k, v := range m {
		conn.Publish(&bus.Message{
			Topic:    bus.T(configPrefix, k),
			Payload:  v,
			Retained: true,
		})
	}
	return nil
}

// Start launches the config publisher in a goroutine.
func (s *ConfigService) Start(ctx context.Context, conn *bus.Connection) {
	go func() {
		_ = s.publishConfig(ctx, conn) // replace with logging if needed
	}()
}
