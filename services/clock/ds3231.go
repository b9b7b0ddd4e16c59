package clock

import (
	"errors"

	"tinygo.org/x/drivers"
	"tinygo.org/x/drivers/ds3231"
)

// DS3231 reads the battery-backed RTC on the I2C bus. The chip keeps time
// across deep power-off, so no network association is needed at boot.
type DS3231 struct {
	dev ds3231.Device
}

func NewDS3231(bus drivers.I2C) *DS3231 {
	dev := ds3231.New(bus)
	dev.Configure()
	return &DS3231{dev: dev}
}

var errClockStopped = errors.New("ds3231: oscillator stopped, time invalid")

func (c *DS3231) Now() (int64, error) {
	if !c.dev.IsTimeValid() {
		return 0, errClockStopped
	}
	t, err := c.dev.ReadTime()
	if err != nil {
		return 0, err
	}
	return t.Unix(), nil
}
