package core

// SARChannel identifies a logical channel of the SAR conversion group.
type SARChannel uint8

// InterruptStatus is a bitmask of channel interrupt causes.
type InterruptStatus uint32

// Interrupt causes reported by a SAR channel.
const (
	InterruptNone            InterruptStatus = 0
	InterruptGroupDone       InterruptStatus = 1 << 0 // All channels of the group converted
	InterruptGroupCancelled  InterruptStatus = 1 << 1
	InterruptGroupOverflow   InterruptStatus = 1 << 2
	InterruptChannelRange    InterruptStatus = 1 << 8
	InterruptChannelPulse    InterruptStatus = 1 << 9
	InterruptChannelOverflow InterruptStatus = 1 << 16
)

// Alignment selects where the significant bits of a result land in the
// 16-bit result register.
type Alignment uint8

const (
	AlignRight Alignment = iota
	AlignLeft
)

// SignExtension selects whether the hardware reports results as unsigned
// codes or as sign-extended offsets from mid-scale.
type SignExtension uint8

const (
	SignUnsigned SignExtension = iota
	SignSigned
)

// ChannelConfig is what the controller programs into the signal channel
// on every reconfiguration.
type ChannelConfig struct {
	Alignment    Alignment
	Sign         SignExtension
	RightShift   uint8  // log2(AverageCount)
	AverageCount uint16 // Samples accumulated per result
}

// SARDriver is the abstract SAR-ADC interface that core code uses.
// Platform-specific implementations handle the registers.
type SARDriver interface {
	// Deinit tears down the conversion group. Calling it on an
	// uninitialised peripheral is a no-op.
	Deinit()

	// Init (re)establishes the conversion group with the given signal
	// channel parameters.
	Init(cfg ChannelConfig) error

	// SetReferenceBufferMode enables the buffer feeding the internal
	// reference channel.
	SetReferenceBufferMode(on bool)

	// SetInterruptMask arms the given interrupt causes on a channel.
	SetInterruptMask(ch SARChannel, mask InterruptStatus)

	// SoftwareTrigger starts one conversion of the group containing ch.
	SoftwareTrigger(ch SARChannel)

	// InterruptStatus returns the pending interrupt causes on a channel.
	InterruptStatus(ch SARChannel) InterruptStatus

	// ClearInterrupt acknowledges the given causes on a channel.
	ClearInterrupt(ch SARChannel, status InterruptStatus)

	// Result returns the last raw conversion code of a channel.
	Result(ch SARChannel) uint16

	// SetCompletionHandler registers h to run in interrupt context
	// whenever an armed interrupt fires on ch.
	SetCompletionHandler(ch SARChannel, h func())
}

// Channels names the two channels of the conversion group.
type Channels struct {
	Signal    SARChannel // Measured input, carries the group-done interrupt
	Reference SARChannel // Band-gap reference, software triggered
}
