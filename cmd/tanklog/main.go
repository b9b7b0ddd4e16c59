//go:build tinygo

package main

import (
	"context"
	"machine"
	"runtime"
	"time"

	"tinygo.org/x/drivers/dht"
	"tinygo.org/x/drivers/onewire"
	"tinygo.org/x/drivers/sdcard"
	"tinygo.org/x/drivers/ssd1306"
	"tinygo.org/x/tinyfs/fatfs"

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

// Wiring for the Pico carrier board.
const (
	pinDHT    = machine.GP15
	pinOneW   = machine.GP16
	pinButton = machine.GP14
	pinSDCS   = machine.GP17
)

// ledBlinker pulses the onboard LED. One pulse per cycle, two after a
// flush, three on trouble.
type ledBlinker struct {
	pin machine.Pin
}

func (b ledBlinker) pulse(n int) {
	for i := 0; i < n; i++ {
		b.pin.High()
		time.Sleep(30 * time.Millisecond)
		b.pin.Low()
		time.Sleep(30 * time.Millisecond)
	}
}

func (b ledBlinker) Activity() { b.pulse(1) }
func (b ledBlinker) Flushed()  { b.pulse(2) }
func (b ledBlinker) Trouble()  { b.pulse(3) }

func main() {
	time.Sleep(3 * time.Second)
	ctx := context.WithValue(context.Background(), config.CtxDeviceKey, "pico")

	cfg, err := config.Load("pico")
	if err != nil {
		println("[main] config:", err.Error(), "(using defaults)")
	}
	println("[main] interval ms:", cfg.SampleIntervalMs, "buffer cap:", cfg.BufferCap)
	println("[main] cpu freq hz:", machine.CPUFrequency(), "(configured:", cfg.CPUFreqHz, ")")

	b := bus.NewBus(4)
	config.NewConfigService().Start(ctx, b.NewConnection("config"))
	(&monitor.Service{}).Start(ctx, b.NewConnection("monitor"))

	println("[main] bringing up display and rtc …")
	machine.I2C0.Configure(machine.I2CConfig{})
	screen := ssd1306.NewI2C(machine.I2C0)
	screen.Configure(ssd1306.Config{Width: 128, Height: 64, Address: 0x3C})
	rtc := clock.NewDS3231(machine.I2C0)

	println("[main] bringing up sd card …")
	machine.SPI0.Configure(machine.SPIConfig{})
	sd := sdcard.New(machine.SPI0, machine.SPI0_SCK_PIN, machine.SPI0_SDO_PIN, machine.SPI0_SDI_PIN, pinSDCS)
	if err := sd.Configure(); err != nil {
		// Keep going; the writer re-detects the medium on every flush.
		println("[main] sd card:", err.Error())
	}
	fs := fatfs.New(&sd)
	fs.Configure(&fatfs.Config{SectorSize: 512})
	medium := store.NewTinyFSMedium(fs)

	var adaptors []sense.Adaptor
	adaptors = append(adaptors, sense.NewDHTAdaptor("dht11", pinDHT, dht.DHT11))
	if probes, err := sense.NewDS18B20Adaptor("ds18b20", onewire.New(pinOneW), cfg.ProbeCount); err != nil {
		println("[main] ds18b20:", err.Error())
	} else {
		adaptors = append(adaptors, probes)
	}

	var latch power.Latch
	pinButton.Configure(machine.PinConfig{Mode: machine.PinInputPullup})
	pinButton.SetInterrupt(machine.PinFalling, func(machine.Pin) {
		latch.Trip()
	})
	sleeper := &power.SliceSleeper{Latch: &latch}

	led := ledBlinker{pin: machine.LED}
	led.pin.Configure(machine.PinConfig{Mode: machine.PinOutput})

	ctl := power.New(cfg, power.Deps{
		Reader:  sense.NewReader(adaptors...),
		Store:   store.NewWriter(medium, cfg),
		Display: display.NewOLED(&screen, cfg.DisplayUnit),
		Clock:   rtc,
		Sleeper: sleeper,
		Blinker: led,
		Conn:    b.NewConnection("ctl"),
	})

	println("[main] booting controller …")
	if err := ctl.Boot(); err != nil {
		println("[main] boot:", err.Error())
	}
	printMem()

	cause := types.WakeTimer
	for {
		budget := ctl.Step(cause)
		printMem()
		cause = sleeper.Sleep(budget)
	}
}

// printMem prints a compact snapshot of TinyGo runtime memory stats.
// Uses builtin println to avoid fmt overhead/allocations.
func printMem() {
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)

	println(
		"[mem]",
		"alloc:", uint32(ms.Alloc),
		"heapInuse:", uint32(ms.HeapInuse),
		"heapSys:", uint32(ms.HeapSys),
		"mallocs:", uint32(ms.Mallocs),
		"frees:", uint32(ms.Frees),
	)
}
