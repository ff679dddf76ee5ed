// Package sim models a SAR-ADC conversion group in software so the core
// controller can run on a development host.
package sim

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"time"

	"sarproc/core"
)

// ErrInitRejected is returned by Init when a configuration is invalid or
// an init failure has been injected.
var ErrInitRejected = errors.New("sim: init rejected")

// Config describes the simulated analog front end.
type Config struct {
	InputMilliVolt   uint32        // Voltage on the signal channel
	VRefHMilliVolt   uint32        // High reference, full scale
	BandGapMilliVolt uint32        // Voltage on the reference channel
	NoiseLSB         uint16        // Peak noise added to each sample
	ConversionTime   time.Duration // Trigger to group-done latency
	Seed             int64
}

// DefaultConfig is a 3.3 V board with the wiper at mid travel.
func DefaultConfig() Config {
	return Config{
		InputMilliVolt:   1650,
		VRefHMilliVolt:   3300,
		BandGapMilliVolt: 900,
		NoiseLSB:         0,
		ConversionTime:   20 * time.Millisecond,
		Seed:             1,
	}
}

// Peripheral is a simulated SAR-ADC implementing core.SARDriver. The
// goroutine running Run is its interrupt context.
type Peripheral struct {
	mu       sync.Mutex
	cfg      Config
	channels core.Channels
	rng      *rand.Rand

	initialised bool
	chCfg       core.ChannelConfig
	refBuffer   bool
	mask        map[core.SARChannel]core.InterruptStatus
	status      map[core.SARChannel]core.InterruptStatus
	results     map[core.SARChannel]uint16
	handlers    map[core.SARChannel]func()
	failInit    bool

	inits   uint32
	deinits uint32

	triggers chan core.SARChannel
	irqs     chan irq
}

type irq struct {
	ch     core.SARChannel
	status core.InterruptStatus
}

// New creates a peripheral with the given front end and channel layout.
func New(cfg Config, channels core.Channels) *Peripheral {
	return &Peripheral{
		cfg:      cfg,
		channels: channels,
		rng:      rand.New(rand.NewSource(cfg.Seed)),
		mask:     make(map[core.SARChannel]core.InterruptStatus),
		status:   make(map[core.SARChannel]core.InterruptStatus),
		results:  make(map[core.SARChannel]uint16),
		handlers: make(map[core.SARChannel]func()),
		triggers: make(chan core.SARChannel, 1),
		irqs:     make(chan irq, 4),
	}
}

func (p *Peripheral) Deinit() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.initialised {
		return
	}
	p.initialised = false
	p.refBuffer = false
	p.deinits++
	clear(p.mask)
}

func (p *Peripheral) Init(cfg core.ChannelConfig) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	count := core.AverageCount(cfg.AverageCount)
	if p.failInit || !count.Valid() || count.Shift() != cfg.RightShift {
		return ErrInitRejected
	}
	p.chCfg = cfg
	p.initialised = true
	p.inits++
	return nil
}

func (p *Peripheral) SetReferenceBufferMode(on bool) {
	p.mu.Lock()
	p.refBuffer = on
	p.mu.Unlock()
}

func (p *Peripheral) SetInterruptMask(ch core.SARChannel, mask core.InterruptStatus) {
	p.mu.Lock()
	p.mask[ch] = mask
	p.mu.Unlock()
}

// SoftwareTrigger queues a group conversion. A trigger while one is
// already queued is dropped, as on hardware.
func (p *Peripheral) SoftwareTrigger(ch core.SARChannel) {
	select {
	case p.triggers <- ch:
	default:
	}
}

func (p *Peripheral) InterruptStatus(ch core.SARChannel) core.InterruptStatus {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.status[ch]
}

func (p *Peripheral) ClearInterrupt(ch core.SARChannel, status core.InterruptStatus) {
	p.mu.Lock()
	p.status[ch] &^= status
	p.mu.Unlock()
}

func (p *Peripheral) Result(ch core.SARChannel) uint16 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.results[ch]
}

func (p *Peripheral) SetCompletionHandler(ch core.SARChannel, h func()) {
	p.mu.Lock()
	p.handlers[ch] = h
	p.mu.Unlock()
}

// SetInput changes the voltage on the signal channel.
func (p *Peripheral) SetInput(milliVolt uint32) {
	p.mu.Lock()
	p.cfg.InputMilliVolt = milliVolt
	p.mu.Unlock()
}

// FailInit makes subsequent Init calls fail until cleared.
func (p *Peripheral) FailInit(fail bool) {
	p.mu.Lock()
	p.failInit = fail
	p.mu.Unlock()
}

// RaiseInterrupt injects an interrupt cause on ch. It is delivered from
// the Run goroutine regardless of the mask, like a shared IRQ line.
func (p *Peripheral) RaiseInterrupt(ch core.SARChannel, status core.InterruptStatus) {
	p.irqs <- irq{ch: ch, status: status}
}

// Counters returns how many times the group was initialised and torn down.
func (p *Peripheral) Counters() (inits, deinits uint32) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.inits, p.deinits
}

// Run drives conversions until ctx is done. Handlers are called from
// this goroutine.
func (p *Peripheral) Run(ctx context.Context) error {
	timer := time.NewTimer(time.Hour)
	timer.Stop()
	defer timer.Stop()

	busy := false
	for {
		var triggers <-chan core.SARChannel
		if !busy {
			triggers = p.triggers
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-triggers:
			busy = true
			timer.Reset(p.conversionTime())
		case <-timer.C:
			busy = false
			p.completeGroup()
		case i := <-p.irqs:
			p.mu.Lock()
			p.status[i.ch] |= i.status
			h := p.handlers[i.ch]
			p.mu.Unlock()
			if h != nil {
				h()
			}
		}
	}
}

func (p *Peripheral) conversionTime() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.cfg.ConversionTime
}

// completeGroup converts both channels and raises group-done on the
// signal channel.
func (p *Peripheral) completeGroup() {
	p.mu.Lock()
	if !p.initialised {
		p.mu.Unlock()
		return
	}

	p.results[p.channels.Signal] = p.encode(p.average(p.cfg.InputMilliVolt))
	if p.refBuffer {
		p.results[p.channels.Reference] = p.average(p.cfg.BandGapMilliVolt)
	} else {
		p.results[p.channels.Reference] = 0
	}

	p.status[p.channels.Signal] |= core.InterruptGroupDone
	var h func()
	if p.mask[p.channels.Signal]&core.InterruptGroupDone != 0 {
		h = p.handlers[p.channels.Signal]
	}
	p.mu.Unlock()

	if h != nil {
		h()
	}
}

// average accumulates AverageCount samples of milliVolt and shifts the
// sum back to 12 bits. Caller holds p.mu.
func (p *Peripheral) average(milliVolt uint32) uint16 {
	var sum uint32
	for i := uint16(0); i < p.chCfg.AverageCount; i++ {
		sum += uint32(p.sample(milliVolt))
	}
	if p.chCfg.AverageCount == 0 {
		sum = uint32(p.sample(milliVolt))
	}
	return uint16(sum >> p.chCfg.RightShift)
}

// sample returns one 12-bit code. Caller holds p.mu.
func (p *Peripheral) sample(milliVolt uint32) uint16 {
	if p.cfg.VRefHMilliVolt == 0 {
		return 0
	}
	code := int32(uint64(milliVolt) * 4096 / uint64(p.cfg.VRefHMilliVolt))
	if p.cfg.NoiseLSB > 0 {
		n := int32(p.cfg.NoiseLSB)
		code += p.rng.Int31n(2*n+1) - n
	}
	if code < 0 {
		code = 0
	}
	if code > core.ResultMask {
		code = core.ResultMask
	}
	return uint16(code)
}

// encode applies sign extension and alignment to a 12-bit code the way
// the result register presents it. Caller holds p.mu.
func (p *Peripheral) encode(code uint16) uint16 {
	v := code
	if p.chCfg.Sign == core.SignSigned {
		v = uint16(int16(code) - core.MidScale)
	}
	if p.chCfg.Alignment == core.AlignLeft {
		v <<= core.LeftAlignShift
	}
	return v
}
