package core

// Console keys understood by the command intake.
const (
	KeyDecreaseAverage = 'a'
	KeyIncreaseAverage = 'd'
	KeyCycleFormat     = 's'
)

// ByteSource is a non-blocking console input. Buffered reports how many
// bytes can be read without waiting.
type ByteSource interface {
	Buffered() int
	ReadByte() (byte, error)
}

// CommandIntake turns console keys into pending configuration requests.
// It never touches the hardware; the controller applies pending state at
// the next conversion boundary.
type CommandIntake struct {
	pending *PendingConfig
}

// NewCommandIntake creates an intake that writes to pending.
func NewCommandIntake(pending *PendingConfig) *CommandIntake {
	return &CommandIntake{pending: pending}
}

// Poll consumes at most one byte from src. It returns false immediately
// when nothing is buffered.
func (ci *CommandIntake) Poll(src ByteSource) bool {
	if src.Buffered() == 0 {
		return false
	}
	b, err := src.ReadByte()
	if err != nil {
		return false
	}
	return ci.Handle(b)
}

// Handle applies one key and reports whether the pending configuration
// changed. Unknown keys and requests at a limit are no-ops.
func (ci *CommandIntake) Handle(b byte) bool {
	switch b {
	case KeyDecreaseAverage:
		return ci.pending.update(func(c Configuration) Configuration {
			c.Count = c.Count.Halve()
			return c
		})
	case KeyIncreaseAverage:
		return ci.pending.update(func(c Configuration) Configuration {
			c.Count = c.Count.Double()
			return c
		})
	case KeyCycleFormat:
		return ci.pending.update(func(c Configuration) Configuration {
			c.Format = c.Format.Next()
			return c
		})
	}
	return false
}
