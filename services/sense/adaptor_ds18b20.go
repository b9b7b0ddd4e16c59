//go:build tinygo

package sense

import (
	"errors"
	"time"

	"tinygo.org/x/drivers/ds18b20"
	"tinygo.org/x/drivers/onewire"

	"tanklog-go/types"
)

// ds18b20Adaptor reads the waterproof probes on a shared 1-wire line.
// DS18B20 conversion is genuinely two-phase: RequestTemperature starts it,
// the result is valid ~750 ms later, which maps straight onto
// Trigger/Collect.
type ds18b20Adaptor struct {
	id   string
	dev  ds18b20.Device
	roms [][]uint8
}

const ds18b20ConvertTime = 750 * time.Millisecond

// NewDS18B20Adaptor scans the 1-wire bus and claims up to want probes, in
// ROM discovery order so probe identity is stable across boots.
func NewDS18B20Adaptor(id string, ow onewire.Device, want int) (Adaptor, error) {
	roms, err := ow.Search(onewire.SEARCH_ROM)
	if err != nil {
		return nil, err
	}
	if len(roms) < want {
		return nil, errors.New("ds18b20: found fewer probes than configured")
	}
	return &ds18b20Adaptor{id: id, dev: ds18b20.New(ow), roms: roms[:want]}, nil
}

func (a *ds18b20Adaptor) ID() string { return a.id }

func (a *ds18b20Adaptor) Sensors() []types.SensorID {
	ids := make([]types.SensorID, len(a.roms))
	for i := range a.roms {
		ids[i] = types.SensorWaterTemp1 + types.SensorID(i)
	}
	return ids
}

func (a *ds18b20Adaptor) Trigger() (time.Duration, error) {
	for _, rom := range a.roms {
		if err := a.dev.RequestTemperature(rom); err != nil {
			return 0, err
		}
	}
	return ds18b20ConvertTime, nil
}

func (a *ds18b20Adaptor) Collect() ([]Sample, error) {
	samples := make([]Sample, 0, len(a.roms))
	for i, rom := range a.roms {
		milliC, err := a.dev.ReadTemperature(rom)
		if err != nil {
			return nil, err
		}
		samples = append(samples, Sample{
			Sensor: types.SensorWaterTemp1 + types.SensorID(i),
			Deci:   milliC / 100,
			Unit:   types.UnitCelsius,
		})
	}
	return samples, nil
}
