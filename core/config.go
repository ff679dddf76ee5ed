package core

// Configuration is the pair of user-adjustable sampling parameters.
type Configuration struct {
	Format OutputFormat
	Count  AverageCount
}

// DefaultConfiguration is the configuration selected at start-up.
func DefaultConfiguration() Configuration {
	return Configuration{Format: UnsignedRightAligned, Count: MinAverageCount}
}

// ChannelConfig maps the configuration onto signal channel parameters.
func (c Configuration) ChannelConfig() ChannelConfig {
	return ChannelConfig{
		Alignment:    c.Format.Alignment(),
		Sign:         c.Format.SignExtension(),
		RightShift:   c.Count.Shift(),
		AverageCount: uint16(c.Count),
	}
}

// PendingConfig holds the configuration requested by the operator.
// It is written from the foreground loop and read from interrupt
// context, so both sides go through a critical section and always see
// a whole pair.
type PendingConfig struct {
	cfg Configuration
}

// NewPendingConfig returns a pending configuration holding the defaults.
func NewPendingConfig() *PendingConfig {
	return &PendingConfig{cfg: DefaultConfiguration()}
}

// Snapshot returns a consistent copy of the requested configuration.
func (p *PendingConfig) Snapshot() Configuration {
	state := disableInterrupts()
	cfg := p.cfg
	restoreInterrupts(state)
	return cfg
}

// update applies fn to the requested configuration and reports whether
// it changed.
func (p *PendingConfig) update(fn func(Configuration) Configuration) bool {
	state := disableInterrupts()
	prev := p.cfg
	p.cfg = fn(prev)
	changed := p.cfg != prev
	restoreInterrupts(state)
	return changed
}

// ActiveConfig is the configuration the hardware is programmed with.
// It starts unset so the first boundary always reprograms.
type ActiveConfig struct {
	cfg   Configuration
	shift uint8
	set   bool
}

// Get returns the applied configuration and whether one has been applied.
func (a *ActiveConfig) Get() (Configuration, bool) {
	return a.cfg, a.set
}

// Shift returns the right-shift exponent programmed for the active count.
func (a *ActiveConfig) Shift() uint8 {
	return a.shift
}

// Matches reports whether cfg is already applied.
func (a *ActiveConfig) Matches(cfg Configuration) bool {
	return a.set && a.cfg == cfg
}

func (a *ActiveConfig) adopt(cfg Configuration) {
	a.cfg = cfg
	a.shift = cfg.Count.Shift()
	a.set = true
}

func (a *ActiveConfig) reset() {
	*a = ActiveConfig{}
}
