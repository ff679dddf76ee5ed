//go:build rp2040

package main

import (
	"errors"
	"machine"
	"runtime"
	"time"

	"sarproc/console"
	"sarproc/core"
)

var errNoLCD = errors.New("no LCD found")

var channels = core.Channels{
	Signal:    signalChannel,
	Reference: referenceChannel,
}

// ledBlink blinks the LED a specific number of times for diagnostics
func ledBlink(count int) {
	led := machine.LED
	led.Configure(machine.PinConfig{Mode: machine.PinOutput})
	for i := 0; i < count; i++ {
		led.High()
		time.Sleep(150 * time.Millisecond)
		led.Low()
		time.Sleep(150 * time.Millisecond)
	}
	time.Sleep(500 * time.Millisecond) // Pause after blink sequence
}

// halt stops before the control loop, blinking the failure code forever
func halt(code int) {
	for {
		ledBlink(code)
	}
}

func main() {
	// Disable watchdog on boot to clear any previous state
	err := machine.Watchdog.Configure(machine.WatchdogConfig{TimeoutMillis: 0})
	if err != nil {
		halt(1)
	}

	InitUSB()
	usb := usbConsole{}
	out := console.NewFlushWriter(usb)
	screen := core.NewConsoleReporter(out)
	reporters := core.MultiReporter{screen}

	// The LCD is optional
	if lcd, err := NewLCDReporter(machine.I2C0); err == nil {
		reporters = append(reporters, lcd)
	}

	drv := NewRPSarDriver()
	pending := core.NewPendingConfig()
	intake := core.NewCommandIntake(pending)
	ctl := core.NewController(drv, channels, pending, reporters)

	// Give the host a moment to open the CDC port before the banner
	time.Sleep(500 * time.Millisecond)
	screen.Banner()

	if err := ctl.Start(); err != nil {
		halt(2)
	}

	for {
		drv.Service()

		// A keypress after a USB disconnect means the host is back
		if out.Disconnected() && usb.Buffered() > 0 {
			out.Reconnect()
			screen.Banner()
		}
		intake.Poll(usb)
		runtime.Gosched()
	}
}
