package core

import (
	"errors"
	"sync/atomic"
)

// ErrNoSARDriver is returned when a controller is started without a driver.
var ErrNoSARDriver = errors.New("SAR driver not configured")

// Stats counts controller activity since start.
type Stats struct {
	Conversions       uint32 // Group-done interrupts processed
	Reconfigurations  uint32 // Successful reprogram sequences
	IgnoredInterrupts uint32 // Interrupts with any status other than group-done
	InitFailures      uint32 // Reprogram attempts the driver rejected
}

// Controller owns the SAR peripheral and the active configuration. It
// processes every completed group and applies the pending configuration
// only at that boundary, so the hardware is never reprogrammed while a
// conversion is in flight.
type Controller struct {
	drv      SARDriver
	channels Channels
	pending  *PendingConfig
	active   ActiveConfig
	reporter Reporter

	conversions  atomic.Uint32
	reconfigs    atomic.Uint32
	ignored      atomic.Uint32
	initFailures atomic.Uint32
}

// NewController creates a controller. reporter may be nil.
func NewController(drv SARDriver, channels Channels, pending *PendingConfig, reporter Reporter) *Controller {
	return &Controller{
		drv:      drv,
		channels: channels,
		pending:  pending,
		reporter: reporter,
	}
}

// Start registers the completion handler, programs the peripheral with
// the pending configuration and issues the first trigger. An init
// failure here is fatal to the caller.
func (c *Controller) Start() error {
	if c.drv == nil {
		return ErrNoSARDriver
	}
	c.drv.SetCompletionHandler(c.channels.Signal, c.HandleInterrupt)

	next := c.pending.Snapshot()
	if err := c.reprogram(next); err != nil {
		return err
	}
	c.drv.SoftwareTrigger(c.channels.Reference)
	return nil
}

// HandleInterrupt is the group-done handler. It runs in interrupt
// context once per completed conversion group.
func (c *Controller) HandleInterrupt() {
	status := c.drv.InterruptStatus(c.channels.Signal)
	c.drv.ClearInterrupt(c.channels.Signal, status)

	if status != InterruptGroupDone {
		c.ignored.Add(1)
		RecordEvent(EvtForeignInterrupt, c.conversions.Load(), uint32(status), 0)
		return
	}

	sample := ConversionSample{
		Reference: c.drv.Result(c.channels.Reference),
		Raw:       c.drv.Result(c.channels.Signal),
	}
	reading := c.process(sample)
	seq := c.conversions.Add(1)
	if sample.Reference == 0 {
		RecordEvent(EvtReferenceMissing, seq, uint32(sample.Raw), 0)
	}
	if c.reporter != nil {
		c.reporter.Report(reading)
	}

	c.Configure(c.pending.Snapshot())
}

// process converts a sample with the active configuration.
func (c *Controller) process(sample ConversionSample) Reading {
	cfg, _ := c.active.Get()
	code := TransformResult(cfg.Format, sample.Raw)
	return Reading{
		Format:     cfg.Format,
		Count:      cfg.Count,
		Raw:        sample.Raw,
		Code:       code,
		Reference:  sample.Reference,
		MilliVolts: MilliVolts(code, sample.Reference),
	}
}

// Configure latches next into the hardware if it differs from the active
// configuration, then triggers the reference channel. It must only be
// called at a conversion boundary.
func (c *Controller) Configure(next Configuration) {
	if !c.active.Matches(next) {
		if err := c.reprogram(next); err != nil {
			DebugAsync("sar: init failed: " + err.Error())
		}
	}
	c.drv.SoftwareTrigger(c.channels.Reference)
}

// reprogram runs the full teardown and init sequence for next. On
// failure the active configuration is left unset.
func (c *Controller) reprogram(next Configuration) error {
	c.drv.Deinit()

	if err := c.drv.Init(next.ChannelConfig()); err != nil {
		state := disableInterrupts()
		c.active.reset()
		restoreInterrupts(state)
		c.initFailures.Add(1)
		RecordEvent(EvtInitFailure, c.conversions.Load(), uint32(next.Format), uint32(next.Count))
		return err
	}

	// Teardown drops both of these, so they are re-armed every time.
	c.drv.SetReferenceBufferMode(true)
	c.drv.SetInterruptMask(c.channels.Signal, InterruptGroupDone)

	state := disableInterrupts()
	c.active.adopt(next)
	restoreInterrupts(state)
	c.reconfigs.Add(1)
	RecordEvent(EvtReconfigure, c.conversions.Load(), uint32(next.Format), uint32(next.Count))
	DebugAsync("sar: configured " + next.Format.String() + " avg=" + utoa(uint32(next.Count)))
	return nil
}

// Active returns the applied configuration and whether one is applied.
func (c *Controller) Active() (Configuration, bool) {
	state := disableInterrupts()
	cfg, ok := c.active.Get()
	restoreInterrupts(state)
	return cfg, ok
}

// Stats returns a snapshot of the controller counters.
func (c *Controller) Stats() Stats {
	return Stats{
		Conversions:       c.conversions.Load(),
		Reconfigurations:  c.reconfigs.Load(),
		IgnoredInterrupts: c.ignored.Load(),
		InitFailures:      c.initFailures.Load(),
	}
}
