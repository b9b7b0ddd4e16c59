//go:build tinygo

package sense

import (
	"machine"
	"time"

	"tinygo.org/x/drivers/dht"

	"tanklog-go/types"
)

// dhtAdaptor reads air temperature and humidity from a DHT11/DHT22.
// The driver reads synchronously, so Trigger is a no-op; the sensor's own
// 2 s update interval is the caller's problem (the sample interval is
// orders of magnitude longer).
type dhtAdaptor struct {
	id  string
	dev dht.DummyDevice
}

// NewDHTAdaptor wires a DHT sensor on the given pin.
func NewDHTAdaptor(id string, pin machine.Pin, kind dht.DeviceType) Adaptor {
	return &dhtAdaptor{id: id, dev: dht.New(pin, kind)}
}

func (a *dhtAdaptor) ID() string { return a.id }

func (a *dhtAdaptor) Sensors() []types.SensorID {
	return []types.SensorID{types.SensorAirTemp, types.SensorAirHumidity}
}

func (a *dhtAdaptor) Trigger() (time.Duration, error) { return 0, nil }

func (a *dhtAdaptor) Collect() ([]Sample, error) {
	if err := a.dev.ReadMeasurements(); err != nil {
		return nil, err
	}
	t, err := a.dev.Temperature() // tenths of °C
	if err != nil {
		return nil, err
	}
	h, err := a.dev.Humidity() // tenths of %RH
	if err != nil {
		return nil, err
	}
	return []Sample{
		{Sensor: types.SensorAirTemp, Deci: int32(t), Unit: types.UnitCelsius},
		{Sensor: types.SensorAirHumidity, Deci: int32(h), Unit: types.UnitRelHumidity},
	}, nil
}
