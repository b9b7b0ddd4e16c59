//go:build !tinygo

package main

import (
	"bufio"
	"context"
	"os"
	"time"

	"tanklog-go/bus"
	"tanklog-go/services/clock"
	"tanklog-go/services/config"
	"tanklog-go/services/display"
	"tanklog-go/services/monitor"
	"tanklog-go/services/power"
	"tanklog-go/services/sense"
	"tanklog-go/services/store"
	"tanklog-go/types"
)

// Host simulator: synthetic sensors, a directory as the storage medium and
// the console as the display. Press Enter for a manual wake.
func main() {
	ctx := context.WithValue(context.Background(), config.CtxDeviceKey, "host")

	cfg, err := config.Load("host")
	if err != nil {
		println("[main] config:", err.Error(), "(using defaults)")
	}

	b := bus.NewBus(4)
	config.NewConfigService().Start(ctx, b.NewConnection("config"))
	(&monitor.Service{}).Start(ctx, b.NewConnection("monitor"))

	air := &sense.SimAdaptor{
		Name: "sim-air",
		Outputs: []sense.Sample{
			{Sensor: types.SensorAirTemp, Deci: 231, Unit: types.UnitCelsius},
			{Sensor: types.SensorAirHumidity, Deci: 504, Unit: types.UnitRelHumidity},
		},
	}
	water := &sense.SimAdaptor{
		Name: "sim-water",
		Outputs: []sense.Sample{
			{Sensor: types.SensorWaterTemp1, Deci: 198, Unit: types.UnitCelsius},
			{Sensor: types.SensorWaterTemp2, Deci: 201, Unit: types.UnitCelsius},
		},
	}

	if err := os.MkdirAll("data", 0o755); err != nil {
		println("[main] data dir:", err.Error())
	}

	var latch power.Latch
	go func() {
		sc := bufio.NewScanner(os.Stdin)
		for sc.Scan() {
			println("[main] manual wake requested")
			latch.Trip()
		}
	}()

	ctl := power.New(cfg, power.Deps{
		Reader:  sense.NewReader(air, water),
		Store:   store.NewWriter(&store.OSMedium{Root: "data"}, cfg),
		Display: &display.Console{Prefer: cfg.DisplayUnit},
		Clock:   clock.System{},
		Sleeper: &power.SliceSleeper{
			Latch: &latch,
			// Park on the control goroutine, so drifting here is race-free.
			Park: func(d time.Duration) {
				time.Sleep(d)
				air.Drift(1)
				water.Drift(-1)
			},
		},
		Conn: b.NewConnection("ctl"),
	})

	if err := ctl.Boot(); err != nil {
		println("[main] boot:", err.Error())
	}
	ctl.Run()
}
