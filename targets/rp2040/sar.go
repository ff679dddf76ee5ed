//go:build rp2040

package main

import (
	"errors"
	"machine"

	"sarproc/core"
)

// SAR channel numbers as seen by the core.
const (
	signalChannel    core.SARChannel = 0 // ADC0/GP26, potentiometer wiper
	referenceChannel core.SARChannel = 1 // ADC1/GP27, 0.9 V shunt reference
)

var errBadChannelConfig = errors.New("rp2040 sar: bad channel config")

// RPSarDriver implements core.SARDriver on the RP2040 ADC. The RP2040
// has no conversion groups, hardware averaging or result formatting, so
// the driver converts both channels in software on a trigger and
// formats the signal result like a SAR2 result register would.
type RPSarDriver struct {
	signal    machine.ADC
	reference machine.ADC

	initialised bool
	cfg         core.ChannelConfig
	refBuffer   bool
	triggered   bool

	mask    core.InterruptStatus
	status  core.InterruptStatus
	results [2]uint16
	handler func()
}

// NewRPSarDriver constructs the driver and configures the ADC pins.
func NewRPSarDriver() *RPSarDriver {
	machine.InitADC()
	d := &RPSarDriver{
		signal:    machine.ADC{Pin: machine.ADC0},
		reference: machine.ADC{Pin: machine.ADC1},
	}
	d.signal.Configure(machine.ADCConfig{})
	d.reference.Configure(machine.ADCConfig{})
	return d
}

func (d *RPSarDriver) Deinit() {
	d.initialised = false
	d.refBuffer = false
	d.mask = core.InterruptNone
}

func (d *RPSarDriver) Init(cfg core.ChannelConfig) error {
	count := core.AverageCount(cfg.AverageCount)
	if !count.Valid() || count.Shift() != cfg.RightShift {
		return errBadChannelConfig
	}
	d.cfg = cfg
	d.initialised = true
	return nil
}

// SetReferenceBufferMode gates the reference channel; with the buffer
// off it reads zero.
func (d *RPSarDriver) SetReferenceBufferMode(on bool) {
	d.refBuffer = on
}

func (d *RPSarDriver) SetInterruptMask(ch core.SARChannel, mask core.InterruptStatus) {
	if ch == signalChannel {
		d.mask = mask
	}
}

func (d *RPSarDriver) SoftwareTrigger(ch core.SARChannel) {
	d.triggered = true
}

func (d *RPSarDriver) InterruptStatus(ch core.SARChannel) core.InterruptStatus {
	if ch != signalChannel {
		return core.InterruptNone
	}
	return d.status
}

func (d *RPSarDriver) ClearInterrupt(ch core.SARChannel, status core.InterruptStatus) {
	if ch == signalChannel {
		d.status &^= status
	}
}

func (d *RPSarDriver) Result(ch core.SARChannel) uint16 {
	if int(ch) >= len(d.results) {
		return 0
	}
	return d.results[ch]
}

func (d *RPSarDriver) SetCompletionHandler(ch core.SARChannel, h func()) {
	if ch == signalChannel {
		d.handler = h
	}
}

// Service runs a triggered group conversion and dispatches the
// completion handler. Called from the main loop, which stands in for
// the group-done interrupt.
func (d *RPSarDriver) Service() {
	if !d.triggered {
		return
	}
	d.triggered = false
	if !d.initialised {
		return
	}

	d.results[signalChannel] = d.format(d.accumulate(&d.signal))
	if d.refBuffer {
		d.results[referenceChannel] = d.accumulate(&d.reference)
	} else {
		d.results[referenceChannel] = 0
	}

	d.status |= core.InterruptGroupDone
	if d.mask&core.InterruptGroupDone != 0 && d.handler != nil {
		d.handler()
	}
}

// accumulate sums AverageCount 12-bit samples and shifts back.
func (d *RPSarDriver) accumulate(adc *machine.ADC) uint16 {
	var sum uint32
	for i := uint16(0); i < d.cfg.AverageCount; i++ {
		// machine.ADC.Get scales the 12-bit result to 16 bits
		sum += uint32(adc.Get() >> 4)
	}
	return uint16(sum >> d.cfg.RightShift)
}

// format applies sign extension and alignment to a 12-bit code.
func (d *RPSarDriver) format(code uint16) uint16 {
	v := code
	if d.cfg.Sign == core.SignSigned {
		v = uint16(int16(code) - core.MidScale)
	}
	if d.cfg.Alignment == core.AlignLeft {
		v <<= core.LeftAlignShift
	}
	return v
}
